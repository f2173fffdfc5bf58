package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"centimo-server/src/db"
	sql "centimo-server/src/db/sql"
	"centimo-server/src/models"
)

// CreateLedgerEntry files one manual income or expense row. Expenses need a
// category, income rows never carry one.
func CreateLedgerEntry(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Amount          decimal.Decimal  `json:"amount"`
			Direction       models.Direction `json:"direction"`
			Description     string           `json:"description"`
			Date            string           `json:"date"`
			CategoryID      *int64           `json:"category_id"`
			PaymentMethodID *int64           `json:"payment_method_id"`
			GoalID          *int64           `json:"goal_id"`
			CurrencyCode    string           `json:"currency_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create ledger entry request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if !req.Amount.IsPositive() {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		switch req.Direction {
		case models.DirectionExpense:
			if req.CategoryID == nil {
				http.Error(w, "expenses require a category", http.StatusBadRequest)
				return
			}
		case models.DirectionIncome:
			req.CategoryID = nil
		default:
			http.Error(w, "direction must be INCOME or EXPENSE", http.StatusBadRequest)
			return
		}

		entry := &models.LedgerEntry{
			UserID:          userID,
			MonthID:         int(date.Month()),
			Year:            date.Year(),
			Date:            date,
			Amount:          req.Amount,
			Direction:       req.Direction,
			Description:     req.Description,
			CategoryID:      req.CategoryID,
			PaymentMethodID: req.PaymentMethodID,
			GoalID:          req.GoalID,
			CurrencyCode:    req.CurrencyCode,
		}
		if entry.CurrencyCode == "" {
			entry.CurrencyCode = "EUR"
		}
		if err := sql.InsertLedgerEntry(r.Context(), pool, entry); err != nil {
			log.Printf("ERROR: Failed to insert ledger entry for user %d: %v", userID, err)
			http.Error(w, "failed to create entry", http.StatusInternalServerError)
			return
		}

		db.ClearAllFinanceCaches()
		log.Printf("INFO: Created ledger entry id %d for user %d (%s)", entry.ID, userID, entry.Direction)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entry)
	}
}

func GetLedgerEntriesForMonth(pool *pgxpool.Pool) http.HandlerFunc {
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
		entries, err := sql.GetLedgerEntriesForMonth(r.Context(), pool, userID, monthID, year)
		if err != nil {
			log.Printf("ERROR: Failed to get ledger entries for user %d, month %d/%d: %v", userID, monthID, year, err)
			http.Error(w, "failed to get entries", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

func GetAllLedgerEntries(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		entries, err := sql.GetAllLedgerEntries(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get ledger entries for user %d: %v", userID, err)
			http.Error(w, "failed to get entries", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

// UpdateLedgerEntry edits one expense row. The month partition comes from the
// URL, so moving an entry across months is delete + create.
func UpdateLedgerEntry(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		monthID, err := strconv.Atoi(chi.URLParam(r, "month_id"))
		if err != nil || monthID < 1 || monthID > 12 {
			http.Error(w, "invalid month id", http.StatusBadRequest)
			return
		}
		entryIDStr := chi.URLParam(r, "entry_id")
		entryID, err := strconv.ParseInt(entryIDStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid entry id", http.StatusBadRequest)
			return
		}

		var req models.UpdateLedgerEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update ledger entry request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		err = sql.UpdateLedgerEntry(r.Context(), pool, userID, entryID, monthID, &req)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				http.Error(w, "entry not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update ledger entry id %d for user %d: %v", entryID, userID, err)
			http.Error(w, "failed to update entry", http.StatusInternalServerError)
			return
		}

		db.ClearAllFinanceCaches()
		log.Printf("INFO: Updated ledger entry id %d for user %d", entryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "entry updated"})
	}
}

func DeleteLedgerEntry(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		monthID, err := strconv.Atoi(chi.URLParam(r, "month_id"))
		if err != nil || monthID < 1 || monthID > 12 {
			http.Error(w, "invalid month id", http.StatusBadRequest)
			return
		}
		entryIDStr := chi.URLParam(r, "entry_id")
		entryID, err := strconv.ParseInt(entryIDStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid entry id", http.StatusBadRequest)
			return
		}
		direction := models.Direction(r.URL.Query().Get("direction"))
		if direction != models.DirectionIncome && direction != models.DirectionExpense {
			http.Error(w, "direction query param must be INCOME or EXPENSE", http.StatusBadRequest)
			return
		}

		err = sql.DeleteLedgerEntry(r.Context(), pool, userID, entryID, monthID, direction)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				http.Error(w, "entry not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete ledger entry id %d for user %d: %v", entryID, userID, err)
			http.Error(w, "failed to delete entry", http.StatusInternalServerError)
			return
		}

		db.ClearAllFinanceCaches()
		log.Printf("INFO: Deleted ledger entry id %d for user %d", entryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "entry deleted"})
	}
}
