package nutrition

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists nutrition logs.
type Repository interface {
	Create(ctx context.Context, userID int64, entry Entry) (*Log, error)
	ListByUser(ctx context.Context, userID int64) ([]Log, error)
	DailyTotals(ctx context.Context, userID int64) ([]DailyTotal, error)
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

func (r *PGRepository) Create(ctx context.Context, userID int64, entry Entry) (*Log, error) {
	const query = `INSERT INTO nutrition_logs (user_id, log_date, meal, calories) VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, log_date, meal, calories, created_at`
	var (
		l    Log
		date time.Time
	)
	err := r.db.QueryRow(ctx, query, userID, entry.Date, entry.Meal, entry.Calories).
		Scan(&l.ID, &l.UserID, &date, &l.Meal, &l.Calories, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("nutrition: insert log: %w", err)
	}
	l.Date = date.Format(DateLayout)
	return &l, nil
}

func (r *PGRepository) ListByUser(ctx context.Context, userID int64) ([]Log, error) {
	const query = `SELECT id, user_id, log_date, meal, calories, created_at FROM nutrition_logs
		WHERE user_id = $1 ORDER BY log_date DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("nutrition: list logs: %w", err)
	}
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Log, error) {
		var (
			l    Log
			date time.Time
		)
		err := row.Scan(&l.ID, &l.UserID, &date, &l.Meal, &l.Calories, &l.CreatedAt)
		l.Date = date.Format(DateLayout)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("nutrition: scan logs: %w", err)
	}
	return logs, nil
}

func (r *PGRepository) DailyTotals(ctx context.Context, userID int64) ([]DailyTotal, error) {
	const query = `SELECT log_date, SUM(calories)::BIGINT FROM nutrition_logs
		WHERE user_id = $1 GROUP BY log_date ORDER BY log_date DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("nutrition: daily totals: %w", err)
	}
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DailyTotal, error) {
		var (
			t    DailyTotal
			date time.Time
		)
		err := row.Scan(&date, &t.TotalCalories)
		t.Date = date.Format(DateLayout)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("nutrition: scan totals: %w", err)
	}
	return totals, nil
}

var _ Repository = (*PGRepository)(nil)
