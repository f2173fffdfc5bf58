package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetLine is one category's assignment for one month. Actual is derived
// from the month's expense rows at read time.
type BudgetLine struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	MonthID    int             `json:"month_id"`
	Year       int             `json:"year"`
	CategoryID int64           `json:"category_id"`
	Assigned   decimal.Decimal `json:"assigned"`
	Actual     decimal.Decimal `json:"actual"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
