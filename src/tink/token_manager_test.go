package tink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centimo-server/src/models"
)

type fakeTokenStore struct {
	token   *models.BankToken
	saveErr error

	saved        string
	savedExpires time.Time
}

func (s *fakeTokenStore) LatestToken(ctx context.Context) (*models.BankToken, error) {
	return s.token, nil
}

func (s *fakeTokenStore) SaveToken(ctx context.Context, accessToken string, expiresAt time.Time) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = accessToken
	s.savedExpires = expiresAt
	return nil
}

type fakeTokenSource struct {
	token *TokenResponse
	err   error
	calls int
}

func (f *fakeTokenSource) ClientAccessToken(ctx context.Context) (*TokenResponse, error) {
	f.calls++
	return f.token, f.err
}

func managerAt(store TokenStore, now time.Time) *TokenManager {
	m := NewTokenManager(store)
	m.now = func() time.Time { return now }
	return m
}

func TestGetValidAccessTokenReusesStored(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeTokenStore{token: &models.BankToken{
		AccessToken:     "stored-token",
		AccessExpiresAt: now.Add(30 * time.Minute),
	}}
	source := &fakeTokenSource{}

	got, err := managerAt(store, now).GetValidAccessToken(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, "stored-token", got)
	assert.Zero(t, source.calls)
}

func TestGetValidAccessTokenRefreshesNearExpiry(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeTokenStore{token: &models.BankToken{
		AccessToken:     "stale-token",
		AccessExpiresAt: now.Add(2 * time.Minute), // inside the buffer
	}}
	source := &fakeTokenSource{token: &TokenResponse{AccessToken: "fresh-token", ExpiresIn: 1800}}

	got, err := managerAt(store, now).GetValidAccessToken(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", got)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, "fresh-token", store.saved)
	assert.Equal(t, now.Add(30*time.Minute), store.savedExpires)
}

func TestGetValidAccessTokenFirstUse(t *testing.T) {
	now := time.Now()
	store := &fakeTokenStore{}
	source := &fakeTokenSource{token: &TokenResponse{AccessToken: "first-token", ExpiresIn: 3600}}

	got, err := managerAt(store, now).GetValidAccessToken(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, "first-token", got)
	assert.Equal(t, "first-token", store.saved)
}

func TestGetValidAccessTokenProviderErrorPropagates(t *testing.T) {
	boom := errors.New("provider down")
	store := &fakeTokenStore{}
	source := &fakeTokenSource{err: boom}

	_, err := managerAt(store, time.Now()).GetValidAccessToken(context.Background(), source)
	assert.ErrorIs(t, err, boom)
}

func TestGetValidAccessTokenStoreErrorPropagates(t *testing.T) {
	store := &fakeTokenStore{saveErr: errors.New("db down")}
	source := &fakeTokenSource{token: &TokenResponse{AccessToken: "x", ExpiresIn: 3600}}

	_, err := managerAt(store, time.Now()).GetValidAccessToken(context.Background(), source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store token")
}
