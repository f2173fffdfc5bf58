package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankRequisition is the provider-side handle for one end-user bank-login
// session. Rows with InstitutionID "tink" are markers holding the provider
// user id rather than a real bank connection.
type BankRequisition struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	RequisitionID   string    `json:"requisition_id"`
	InstitutionID   string    `json:"institution_id"`
	InstitutionName string    `json:"institution_name"`
	Status          string    `json:"status"`
	Reference       string    `json:"reference"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

type BankAccount struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	RequisitionID  int64           `json:"requisition_id"`
	AccountID      string          `json:"account_id"` // provider-side id
	IBAN           string          `json:"iban"`
	AccountName    string          `json:"account_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Currency       string          `json:"currency"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BankTransaction is a staged provider transaction awaiting import into the
// ledger. Immutable as received; never mutated beyond the IsImported flag.
type BankTransaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	BankAccountID int64           `json:"bank_account_id"`
	TransactionID string          `json:"transaction_id"` // provider-side id
	Amount        decimal.Decimal `json:"amount"`         // signed
	Currency      string          `json:"currency"`
	BookingDate   time.Time       `json:"booking_date"`
	ValueDate     time.Time       `json:"value_date"`
	MerchantName  string          `json:"merchant_name"`
	Description   string          `json:"description"`
	Pending       bool            `json:"pending"`
	IsImported    bool            `json:"is_imported"`
	CreatedAt     time.Time       `json:"created_at"`
}

type BankSyncLog struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	SyncType            string    `json:"sync_type"` // manual | callback | webhook
	Status              string    `json:"status"`    // success | failed
	TransactionsFetched int       `json:"transactions_fetched"`
	ErrorMessage        *string   `json:"error_message"`
	CreatedAt           time.Time `json:"created_at"`
}

// BankToken is one stored client-credentials token. Rows are append-only;
// the most recent row wins.
type BankToken struct {
	ID              int64      `json:"id"`
	AccessToken     string     `json:"access_token"`
	AccessExpiresAt time.Time  `json:"access_expires_at"`
	RefreshToken    *string    `json:"refresh_token"`
	RefreshExpires  *time.Time `json:"refresh_expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}
