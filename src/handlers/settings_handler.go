package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	sql "centimo-server/src/db/sql"
	"centimo-server/src/models"
	"centimo-server/src/util"
)

func GetUserSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		settings, err := sql.GetUserSettings(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get settings for user %d: %v", userID, err)
			http.Error(w, "failed to get settings", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settings)
	}
}

// UpdateUserSettings updates market, locale, and currency. The provider user
// id is managed by the bank handlers and cannot be set here.
func UpdateUserSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Market       string `json:"market"`
			Locale       string `json:"locale"`
			CurrencyCode string `json:"currency_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode settings request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !util.ValidateMarket(req.Market) {
			http.Error(w, "market must be a two-letter country code", http.StatusBadRequest)
			return
		}
		if !util.ValidateLocale(req.Locale) {
			http.Error(w, "locale must look like es_ES", http.StatusBadRequest)
			return
		}
		if !util.ValidateCurrency(req.CurrencyCode) {
			http.Error(w, "currency_code must be a three-letter ISO code", http.StatusBadRequest)
			return
		}

		current, err := sql.GetUserSettings(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to load settings for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		updated, err := sql.UpsertUserSettings(r.Context(), pool, &models.UserSettings{
			UserID:       userID,
			TinkUserID:   current.TinkUserID,
			Market:       req.Market,
			Locale:       req.Locale,
			CurrencyCode: req.CurrencyCode,
		})
		if err != nil {
			log.Printf("ERROR: Failed to update settings for user %d: %v", userID, err)
			http.Error(w, "failed to update settings", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated settings for user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}
