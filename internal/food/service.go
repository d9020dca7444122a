package food

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodshare/foodshare/internal/shared"
)

// DefaultListLimit caps the shared-food listing.
const DefaultListLimit = 200

// Service implements food sharing use cases.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Share records a new offer owned by userID.
func (s *Service) Share(ctx context.Context, userID int64, in ShareInput) (*Share, error) {
	in.FoodItem = strings.TrimSpace(in.FoodItem)
	in.Location = strings.TrimSpace(in.Location)
	if in.FoodItem == "" || in.Location == "" || in.Quantity <= 0 || in.Quantity > MaxQuantity {
		return nil, fmt.Errorf("%w: food item, positive quantity and location are required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, userID, in)
}

// Available lists every user's shares, newest first.
func (s *Service) Available(ctx context.Context) ([]Share, error) {
	return s.repo.ListAll(ctx, DefaultListLimit)
}

// Mine lists the shares owned by userID.
func (s *Service) Mine(ctx context.Context, userID int64) ([]Share, error) {
	return s.repo.ListByUser(ctx, userID)
}
