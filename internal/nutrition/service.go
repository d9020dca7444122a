package nutrition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodshare/foodshare/internal/shared"
)

// Service implements nutrition tracking.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record stores a meal entry for userID.
func (s *Service) Record(ctx context.Context, userID int64, in LogInput) (*Log, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", shared.ErrValidation)
	}
	meal := strings.TrimSpace(in.Meal)
	if meal == "" || in.Calories < 0 || in.Calories > MaxCalories {
		return nil, fmt.Errorf("%w: meal and non-negative calories are required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, userID, Entry{Date: date, Meal: meal, Calories: in.Calories})
}

// Logs lists the entries owned by userID.
func (s *Service) Logs(ctx context.Context, userID int64) ([]Log, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Summary returns per-day calorie totals for userID, newest day first.
func (s *Service) Summary(ctx context.Context, userID int64) ([]DailyTotal, error) {
	return s.repo.DailyTotals(ctx, userID)
}
