package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// BankImportMarker prefixes the description of every ledger row that came in
// through a bank sync, so bank-origin rows are distinguishable from
// manually-entered ones.
const BankImportMarker = "[BANCO] "

// LedgerEntry is one domestic income or expense row. Amounts are always
// positive magnitudes; Direction carries the sign. Expenses must have a
// category, income must not.
type LedgerEntry struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	MonthID         int             `json:"month_id"`
	Year            int             `json:"year"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Direction       Direction       `json:"direction"`
	Description     string          `json:"description"`
	CategoryID      *int64          `json:"category_id,omitempty"`
	PaymentMethodID *int64          `json:"payment_method_id,omitempty"`
	AccountID       *int64          `json:"account_id,omitempty"`
	GoalID          *int64          `json:"goal_id,omitempty"`
	CurrencyCode    string          `json:"currency_code"`
	CreatedAt       time.Time       `json:"created_at"`
}

type UpdateLedgerEntryRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Date            string          `json:"date"`
	CategoryID      *int64          `json:"category_id"`
	PaymentMethodID *int64          `json:"payment_method_id"`
	AccountID       *int64          `json:"account_id"`
}
