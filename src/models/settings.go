package models

import "time"

// UserSettings is the single per-user settings record. TinkUserID is the
// provider-side user handle once a bank connection exists.
type UserSettings struct {
	UserID       int64     `json:"user_id"`
	TinkUserID   string    `json:"tink_user_id,omitempty"`
	Market       string    `json:"market"`
	Locale       string    `json:"locale"`
	CurrencyCode string    `json:"currency_code"`
	UpdatedAt    time.Time `json:"updated_at"`
}
