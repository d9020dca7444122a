package nutrition

import (
	"math"
	"time"
)

// DateLayout is the wire format of log dates.
const DateLayout = time.DateOnly

// MaxCalories is the largest calorie count the INT column accepts.
const MaxCalories = math.MaxInt32

// Log is a single meal entry with its calorie count.
type Log struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Date      string    `json:"date"`
	Meal      string    `json:"meal"`
	Calories  int       `json:"calories"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyTotal sums calories for one day.
type DailyTotal struct {
	Date          string `json:"date"`
	TotalCalories int64  `json:"totalCalories"`
}

// LogInput is the payload accepted by POST /api/nutrition/log.
type LogInput struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Meal     string `json:"meal" validate:"required,max=100"`
	Calories int    `json:"calories" validate:"gte=0,lte=2147483647"`
}

// Entry is a validated log ready for persistence.
type Entry struct {
	Date     time.Time
	Meal     string
	Calories int
}
