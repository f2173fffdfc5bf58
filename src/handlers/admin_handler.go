package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"centimo-server/src/db"
	sql "centimo-server/src/db/sql"
)

func ListUsers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := sql.ListUsers(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to list users: %v", err)
			http.Error(w, "failed to list users", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	}
}

func LockUser(pool *pgxpool.Pool) http.HandlerFunc {
	return setUserLock(pool, true)
}

func UnlockUser(pool *pgxpool.Pool) http.HandlerFunc {
	return setUserLock(pool, false)
}

func setUserLock(pool *pgxpool.Pool, locked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := r.Context().Value("user_id").(int64)
		targetIDStr := chi.URLParam(r, "user_id")
		targetID, err := strconv.ParseInt(targetIDStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		if err := sql.SetUserLocked(r.Context(), pool, targetID, locked); err != nil {
			log.Printf("ERROR: Failed to set lock=%t for user %d: %v", locked, targetID, err)
			http.Error(w, "failed to update user", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Admin %d set lock=%t for user %d", adminID, locked, targetID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"locked": locked})
	}
}

func ClearCache(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheName := chi.URLParam(r, "cache_name")
		switch cacheName {
		case "finance":
			db.ClearAllFinanceCaches()
		case "category":
			db.ClearAllCategoryCaches()
		case "bank":
			db.ClearAllBankCaches()
		case "all":
			db.ClearAllFinanceCaches()
			db.ClearAllCategoryCaches()
			db.ClearAllBankCaches()
		default:
			http.Error(w, "unknown cache name", http.StatusBadRequest)
			return
		}
		log.Printf("INFO: Cleared %s cache(s)", cacheName)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "cache cleared"})
	}
}
