package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"centimo-server/src/db"
	sql "centimo-server/src/db/sql"
	"centimo-server/src/finance"
)

// GetFinancialHealth serves the full derived picture: monthly summaries,
// annual rollup, and the health score breakdown. Results are cached until a
// write clears the finance cache group.
func GetFinancialHealth(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := "financial_health_" + strconv.FormatInt(userID, 10)
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		service := finance.NewService(sql.NewStore(pool))
		overview, err := service.ComputeFinancialHealth(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to compute financial health for user %d: %v", userID, err)
			http.Error(w, "failed to compute financial health", http.StatusInternalServerError)
			return
		}

		db.SetFinanceCache(cacheKey, overview)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(overview)
	}
}

// GetDebtAnalysis serves the payoff strategist: totals, strategy orderings,
// and recommendations.
func GetDebtAnalysis(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := "debt_analysis_" + strconv.FormatInt(userID, 10)
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		service := finance.NewService(sql.NewStore(pool))
		analysis, err := service.DebtAnalysis(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to compute debt analysis for user %d: %v", userID, err)
			http.Error(w, "failed to compute debt analysis", http.StatusInternalServerError)
			return
		}

		db.SetFinanceCache(cacheKey, analysis)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(analysis)
	}
}
