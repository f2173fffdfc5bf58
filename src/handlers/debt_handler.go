package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"centimo-server/src/db"
	sql "centimo-server/src/db/sql"
	"centimo-server/src/models"
)

func UpsertDebtSnapshot(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
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
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode debt snapshot request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.MonthID < 1 || req.MonthID > 12 {
			http.Error(w, "month_id must be between 1 and 12", http.StatusBadRequest)
			return
		}
		snapshot := &models.DebtSnapshot{
			UserID:          userID,
			MonthID:         req.MonthID,
			Year:            req.Year,
			DebtAccountID:   req.DebtAccountID,
			AccountName:     req.AccountName,
			StartingBalance: req.StartingBalance,
			PaymentMade:     req.PaymentMade,
			EndingBalance:   req.EndingBalance,
			InterestRateAPR: req.InterestRateAPR,
			MinPayment:      req.MinPayment,
			DueDay:          req.DueDay,
		}
		saved, err := sql.UpsertDebtSnapshot(r.Context(), pool, snapshot)
		if err != nil {
			log.Printf("ERROR: Failed to save debt snapshot for user %d: %v", userID, err)
			http.Error(w, "failed to save debt snapshot", http.StatusInternalServerError)
			return
		}
		db.ClearAllFinanceCaches()
		log.Printf("INFO: Saved debt snapshot id %d for user %d, account %s", saved.ID, userID, saved.AccountName)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(saved)
	}
}

func GetDebtSnapshotsForMonth(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		monthID, err := strconv.Atoi(chi.URLParam(r, "month_id"))
		if err != nil || monthID < 1 || monthID > 12 {
			http.Error(w, "invalid month id", http.StatusBadRequest)
			return
		}
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		snapshots, err := sql.GetDebtSnapshotsForMonth(r.Context(), pool, userID, monthID, year)
		if err != nil {
			log.Printf("ERROR: Failed to get debt snapshots for user %d: %v", userID, err)
			http.Error(w, "failed to get debt snapshots", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshots)
	}
}

func GetAllDebtSnapshots(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		snapshots, err := sql.GetAllDebtSnapshots(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get debt snapshots for user %d: %v", userID, err)
			http.Error(w, "failed to get debt snapshots", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshots)
	}
}

func DeleteDebtSnapshot(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		snapshotIDStr := chi.URLParam(r, "snapshot_id")
		snapshotID, err := strconv.ParseInt(snapshotIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid debt snapshot id param: %s", snapshotIDStr)
			http.Error(w, "invalid snapshot id", http.StatusBadRequest)
			return
		}
		err = sql.DeleteDebtSnapshot(r.Context(), pool, userID, snapshotID)
		if err != nil {
			log.Printf("ERROR: Failed to delete debt snapshot id %d for user %d: %v", snapshotID, userID, err)
			http.Error(w, "failed to delete debt snapshot", http.StatusInternalServerError)
			return
		}
		db.ClearAllFinanceCaches()
		log.Printf("INFO: Deleted debt snapshot id %d for user %d", snapshotID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "debt snapshot deleted"})
	}
}
