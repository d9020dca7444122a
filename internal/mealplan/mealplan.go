// Package mealplan stores dated meal plans per user.
package mealplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodshare/foodshare/internal/shared"
)

// Plan is a meal planned for a given date.
type Plan struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	MealDate  string    `json:"mealDate"`
	MealType  string    `json:"mealType"`
	MealPlan  string    `json:"mealPlan"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveInput is the payload accepted by POST /api/meal-plan/save.
type SaveInput struct {
	MealDate string `json:"mealDate" validate:"required,datetime=2006-01-02"`
	MealType string `json:"mealType" validate:"required,max=50"`
	MealPlan string `json:"mealPlan" validate:"required,max=2000"`
}

// Repository persists meal plans.
type Repository interface {
	Create(ctx context.Context, userID int64, date time.Time, mealType, plan string) (*Plan, error)
	ListByUser(ctx context.Context, userID int64) ([]Plan, error)
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

func (r *PGRepository) Create(ctx context.Context, userID int64, date time.Time, mealType, plan string) (*Plan, error) {
	const query = `INSERT INTO meal_plans (user_id, meal_date, meal_type, meal_plan) VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, meal_date, meal_type, meal_plan, created_at`
	p, err := scanPlan(r.db.QueryRow(ctx, query, userID, date, mealType, plan))
	if err != nil {
		return nil, fmt.Errorf("mealplan: insert: %w", err)
	}
	return &p, nil
}

func (r *PGRepository) ListByUser(ctx context.Context, userID int64) ([]Plan, error) {
	const query = `SELECT id, user_id, meal_date, meal_type, meal_plan, created_at FROM meal_plans
		WHERE user_id = $1 ORDER BY meal_date, id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("mealplan: list: %w", err)
	}
	plans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Plan, error) {
		return scanPlan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("mealplan: scan: %w", err)
	}
	return plans, nil
}

func scanPlan(row pgx.Row) (Plan, error) {
	var (
		p    Plan
		date time.Time
	)
	if err := row.Scan(&p.ID, &p.UserID, &date, &p.MealType, &p.MealPlan, &p.CreatedAt); err != nil {
		return Plan{}, err
	}
	p.MealDate = date.Format(time.DateOnly)
	return p, nil
}

// Service implements meal planning.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save stores a plan for userID.
func (s *Service) Save(ctx context.Context, userID int64, in SaveInput) (*Plan, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(in.MealDate))
	if err != nil {
		return nil, fmt.Errorf("%w: mealDate must be YYYY-MM-DD", shared.ErrValidation)
	}
	mealType := strings.TrimSpace(in.MealType)
	plan := strings.TrimSpace(in.MealPlan)
	if mealType == "" || plan == "" {
		return nil, fmt.Errorf("%w: mealType and mealPlan are required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, userID, date, mealType, plan)
}

// List returns the plans owned by userID ordered by date.
func (s *Service) List(ctx context.Context, userID int64) ([]Plan, error) {
	return s.repo.ListByUser(ctx, userID)
}
