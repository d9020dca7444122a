package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodshare/foodshare/internal/platform/db"
	"github.com/foodshare/foodshare/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	CreateToken(ctx context.Context, userID int64, token string, createdAt time.Time) error
	FindToken(ctx context.Context, token string) (*SessionToken, error)
	// DeleteToken reports whether a row was removed.
	DeleteToken(ctx context.Context, token string) (bool, error)
	DeleteTokensBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// CreateUser inserts a user. Unique violations map to shared.ErrDuplicate.
func (r *PGRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	const query = `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at`
	var user User
	err := r.db.QueryRow(ctx, query, username, email, passwordHash).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}
	return &user, nil
}

// FindByUsername fetches a user by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`
	var user User
	err := r.db.QueryRow(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	return &user, nil
}

// CreateToken records an issued session token.
func (r *PGRepository) CreateToken(ctx context.Context, userID int64, token string, createdAt time.Time) error {
	const query = `INSERT INTO tokens (user_id, token, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, userID, token, createdAt.UTC()); err != nil {
		return fmt.Errorf("auth: insert token: %w", err)
	}
	return nil
}

// FindToken fetches the stored row for token.
func (r *PGRepository) FindToken(ctx context.Context, token string) (*SessionToken, error) {
	const query = `SELECT id, user_id, token, created_at FROM tokens WHERE token = $1`
	var row SessionToken
	err := r.db.QueryRow(ctx, query, token).Scan(&row.ID, &row.UserID, &row.Token, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find token: %w", err)
	}
	return &row, nil
}

// DeleteToken removes a token row.
func (r *PGRepository) DeleteToken(ctx context.Context, token string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE token = $1`, token)
	if err != nil {
		return false, fmt.Errorf("auth: delete token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteTokensBefore removes every token created before cutoff.
func (r *PGRepository) DeleteTokensBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("auth: delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
