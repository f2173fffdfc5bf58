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

func UpsertBudgetLine(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			MonthID    int             `json:"month_id"`
			Year       int             `json:"year"`
			CategoryID int64           `json:"category_id"`
			Assigned   decimal.Decimal `json:"assigned"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode budget line request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.MonthID < 1 || req.MonthID > 12 {
			http.Error(w, "month_id must be between 1 and 12", http.StatusBadRequest)
			return
		}
		line := &models.BudgetLine{
			UserID:     userID,
			MonthID:    req.MonthID,
			Year:       req.Year,
			CategoryID: req.CategoryID,
			Assigned:   req.Assigned,
		}
		saved, err := sql.UpsertBudgetLine(r.Context(), pool, line)
		if err != nil {
			log.Printf("ERROR: Failed to save budget line for user %d: %v", userID, err)
			http.Error(w, "failed to save budget line", http.StatusInternalServerError)
			return
		}
		db.ClearAllFinanceCaches()
		log.Printf("INFO: Saved budget line id %d for user %d, category %d", saved.ID, userID, saved.CategoryID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(saved)
	}
}

func GetBudgetLinesForMonth(pool *pgxpool.Pool) http.HandlerFunc {
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
		lines, err := sql.GetBudgetLinesForMonth(r.Context(), pool, userID, monthID, year)
		if err != nil {
			log.Printf("ERROR: Failed to get budget lines for user %d: %v", userID, err)
			http.Error(w, "failed to get budget lines", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(lines)
	}
}

func GetAllBudgetLines(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		lines, err := sql.GetAllBudgetLines(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get budget lines for user %d: %v", userID, err)
			http.Error(w, "failed to get budget lines", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(lines)
	}
}

func DeleteBudgetLine(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		lineIDStr := chi.URLParam(r, "budget_line_id")
		lineID, err := strconv.ParseInt(lineIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid budget line id param: %s", lineIDStr)
			http.Error(w, "invalid budget line id", http.StatusBadRequest)
			return
		}
		err = sql.DeleteBudgetLine(r.Context(), pool, userID, lineID)
		if err != nil {
			log.Printf("ERROR: Failed to delete budget line id %d for user %d: %v", lineID, userID, err)
			http.Error(w, "failed to delete budget line", http.StatusInternalServerError)
			return
		}
		db.ClearAllFinanceCaches()
		log.Printf("INFO: Deleted budget line id %d for user %d", lineID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "budget line deleted"})
	}
}
