package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtSnapshot is one debt account's state for one month. History is
// append-only; each month gets its own snapshot row.
type DebtSnapshot struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	MonthID         int             `json:"month_id"`
	Year            int             `json:"year"`
	DebtAccountID   int64           `json:"debt_account_id"`
	AccountName     string          `json:"account_name"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	PaymentMade     decimal.Decimal `json:"payment_made"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
	InterestRateAPR decimal.Decimal `json:"interest_rate_apr"`
	MinPayment      decimal.Decimal `json:"min_payment"`
	DueDay          int             `json:"due_day"`
	CreatedAt       time.Time       `json:"created_at"`
}
