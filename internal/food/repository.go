package food

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists food shares.
type Repository interface {
	Create(ctx context.Context, userID int64, in ShareInput) (*Share, error)
	ListAll(ctx context.Context, limit int) ([]Share, error)
	ListByUser(ctx context.Context, userID int64) ([]Share, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db querier
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

const shareColumns = `id, user_id, food_item, quantity, location, created_at`

func (r *PGRepository) Create(ctx context.Context, userID int64, in ShareInput) (*Share, error) {
	query := `INSERT INTO food_shares (user_id, food_item, quantity, location) VALUES ($1, $2, $3, $4)
		RETURNING ` + shareColumns
	var s Share
	err := r.db.QueryRow(ctx, query, userID, in.FoodItem, in.Quantity, in.Location).
		Scan(&s.ID, &s.UserID, &s.FoodItem, &s.Quantity, &s.Location, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("food: insert share: %w", err)
	}
	return &s, nil
}

func (r *PGRepository) ListAll(ctx context.Context, limit int) ([]Share, error) {
	query := `SELECT ` + shareColumns + ` FROM food_shares ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *PGRepository) ListByUser(ctx context.Context, userID int64) ([]Share, error) {
	query := `SELECT ` + shareColumns + ` FROM food_shares WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID)
}

func (r *PGRepository) list(ctx context.Context, query string, args ...any) ([]Share, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("food: list shares: %w", err)
	}
	shares, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Share, error) {
		var s Share
		err := row.Scan(&s.ID, &s.UserID, &s.FoodItem, &s.Quantity, &s.Location, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("food: scan shares: %w", err)
	}
	return shares, nil
}

var _ Repository = (*PGRepository)(nil)
