package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sql "centimo-server/src/db/sql"
	"centimo-server/src/models"
)

func CreateCategoryRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name       string          `json:"name"`
			Keywords   json.RawMessage `json:"keywords"`
			CategoryID int64           `json:"category_id"`
			Priority   int             `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create rule request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rule := &models.CategoryRule{
			UserID:     userID,
			Name:       req.Name,
			Keywords:   req.Keywords,
			CategoryID: req.CategoryID,
			Priority:   req.Priority,
		}
		if _, err := rule.KeywordList(); err != nil {
			http.Error(w, "keywords must be a JSON array of strings", http.StatusBadRequest)
			return
		}
		created, err := sql.CreateCategoryRule(r.Context(), pool, rule)
		if err != nil {
			log.Printf("ERROR: Failed to create category rule for user %d: %v", userID, err)
			http.Error(w, "failed to create rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category rule id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllCategoryRules(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		rules, err := sql.GetAllCategoryRules(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get category rules for user %d: %v", userID, err)
			http.Error(w, "failed to get rules", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rules)
	}
}

func UpdateCategoryRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleIDStr := chi.URLParam(r, "rule_id")
		ruleID, err := strconv.ParseInt(ruleIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid rule id param: %s", ruleIDStr)
			http.Error(w, "invalid rule id", http.StatusBadRequest)
			return
		}
		var req struct {
			Name       string          `json:"name"`
			Keywords   json.RawMessage `json:"keywords"`
			CategoryID int64           `json:"category_id"`
			Priority   int             `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update rule request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rule := &models.CategoryRule{
			ID:         ruleID,
			UserID:     userID,
			Name:       req.Name,
			Keywords:   req.Keywords,
			CategoryID: req.CategoryID,
			Priority:   req.Priority,
		}
		if _, err := rule.KeywordList(); err != nil {
			http.Error(w, "keywords must be a JSON array of strings", http.StatusBadRequest)
			return
		}
		updated, err := sql.UpdateCategoryRule(r.Context(), pool, rule)
		if err != nil {
			log.Printf("ERROR: Failed to update category rule id %d for user %d: %v", ruleID, userID, err)
			http.Error(w, "failed to update rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated category rule id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategoryRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleIDStr := chi.URLParam(r, "rule_id")
		ruleID, err := strconv.ParseInt(ruleIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid rule id param: %s", ruleIDStr)
			http.Error(w, "invalid rule id", http.StatusBadRequest)
			return
		}
		err = sql.DeleteCategoryRule(r.Context(), pool, userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Failed to delete category rule id %d for user %d: %v", ruleID, userID, err)
			http.Error(w, "failed to delete rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted category rule id %d for user %d", ruleID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "rule deleted"})
	}
}

// ApplyCategoryRules re-runs the categorizer over stored expenses so rule
// edits reach history, not just future imports.
func ApplyCategoryRules(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		adjusted, err := sql.ApplyCategoryRulesToUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to apply category rules for user %d: %v", userID, err)
			http.Error(w, "failed to apply rules", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"recategorized": adjusted})
	}
}
