package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"centimo-server/src/models"
)

// GetUserSettings returns defaults when the user has no settings row yet.
func GetUserSettings(ctx context.Context, pool *pgxpool.Pool, userID int64) (*models.UserSettings, error) {
	query := `
		SELECT user_id, tink_user_id, market, locale, currency_code, updated_at
		FROM user_settings
		WHERE user_id = $1
	`
	var s models.UserSettings
	err := pool.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.TinkUserID, &s.Market, &s.Locale, &s.CurrencyCode, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.UserSettings{UserID: userID, Market: "ES", Locale: "es_ES", CurrencyCode: "EUR"}, nil
		}
		return nil, err
	}
	return &s, nil
}

func UpsertUserSettings(ctx context.Context, pool *pgxpool.Pool, s *models.UserSettings) (*models.UserSettings, error) {
	query := `
		INSERT INTO user_settings (user_id, tink_user_id, market, locale, currency_code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET tink_user_id = EXCLUDED.tink_user_id,
		              market = EXCLUDED.market,
		              locale = EXCLUDED.locale,
		              currency_code = EXCLUDED.currency_code,
		              updated_at = NOW()
		RETURNING user_id, tink_user_id, market, locale, currency_code, updated_at
	`
	var out models.UserSettings
	err := pool.QueryRow(ctx, query, s.UserID, s.TinkUserID, s.Market, s.Locale, s.CurrencyCode).
		Scan(&out.UserID, &out.TinkUserID, &out.Market, &out.Locale, &out.CurrencyCode, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserIDByTinkUserID resolves a provider user id back to the local user,
// 0 when no user is linked to it.
func GetUserIDByTinkUserID(ctx context.Context, pool *pgxpool.Pool, tinkUserID string) (int64, error) {
	query := `SELECT user_id FROM user_settings WHERE tink_user_id = $1`
	var userID int64
	err := pool.QueryRow(ctx, query, tinkUserID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return userID, nil
}

func SetTinkUserID(ctx context.Context, pool *pgxpool.Pool, userID int64, tinkUserID string) error {
	query := `
		INSERT INTO user_settings (user_id, tink_user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET tink_user_id = EXCLUDED.tink_user_id, updated_at = NOW()
	`
	_, err := pool.Exec(ctx, query, userID, tinkUserID)
	return err
}
