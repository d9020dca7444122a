package food

import (
	"math"
	"time"
)

// MaxQuantity is the largest quantity the INT column accepts.
const MaxQuantity = math.MaxInt32

// Share is a surplus food item offered by a user.
type Share struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	FoodItem  string    `json:"foodItem"`
	Quantity  int       `json:"quantity"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShareInput is the payload accepted by POST /api/food/share.
type ShareInput struct {
	FoodItem string `json:"foodItem" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"gt=0,lte=2147483647"`
	Location string `json:"location" validate:"required,max=100"`
}
