package models

import "time"

// PaymentMethod is user reference data (card, cash, transfer) that ledger
// rows can point at.
type PaymentMethod struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
