package models

import (
	"encoding/json"
	"time"
)

// CategoryRule maps keyword matches to a category. Rules are evaluated in
// priority order (lowest first); the first keyword hit wins.
type CategoryRule struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Name       string          `json:"name"`
	Keywords   json.RawMessage `json:"keywords"` // JSONB array of strings
	CategoryID int64           `json:"category_id"`
	Priority   int             `json:"priority"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// KeywordList decodes the JSONB keyword payload.
func (r *CategoryRule) KeywordList() ([]string, error) {
	var keywords []string
	if len(r.Keywords) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(r.Keywords, &keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}
