package tink

import (
	"context"
	"fmt"
	"time"

	"centimo-server/src/models"
)

// tokenExpiryBuffer keeps a safety margin so a token returned here is valid
// for at least this long.
const tokenExpiryBuffer = 5 * time.Minute

// TokenStore persists client-credentials tokens. Rows are append-only and
// last-write-wins; concurrent stores are acceptable because tokens are not
// versioned.
type TokenStore interface {
	// LatestToken returns the most recently stored token, or nil when none
	// has been stored yet.
	LatestToken(ctx context.Context) (*models.BankToken, error)
	SaveToken(ctx context.Context, accessToken string, expiresAt time.Time) error
}

// ClientTokenSource is the slice of Client the manager needs.
type ClientTokenSource interface {
	ClientAccessToken(ctx context.Context) (*TokenResponse, error)
}

// TokenManager caches the provider's client-credentials token in storage and
// refreshes it when it is within the expiry buffer. Safe for concurrent use.
type TokenManager struct {
	store TokenStore
	now   func() time.Time
}

func NewTokenManager(store TokenStore) *TokenManager {
	return &TokenManager{store: store, now: time.Now}
}

// GetValidAccessToken returns a token guaranteed valid for at least the
// expiry buffer. Provider errors propagate; there is no retry here.
func (m *TokenManager) GetValidAccessToken(ctx context.Context, client ClientTokenSource) (string, error) {
	stored, err := m.store.LatestToken(ctx)
	if err == nil && stored != nil && stored.AccessExpiresAt.Sub(m.now()) > tokenExpiryBuffer {
		return stored.AccessToken, nil
	}

	// No usable token; request a fresh one and persist it. The provider's
	// client-credentials grant has no refresh token.
	fresh, err := client.ClientAccessToken(ctx)
	if err != nil {
		return "", err
	}
	expiresAt := m.now().Add(time.Duration(fresh.ExpiresIn) * time.Second)
	if err := m.store.SaveToken(ctx, fresh.AccessToken, expiresAt); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return fresh.AccessToken, nil
}
