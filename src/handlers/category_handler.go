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
	"centimo-server/src/models"
)

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name   string        `json:"name"`
			Emoji  string        `json:"emoji"`
			Bucket models.Bucket `json:"bucket_50_30_20"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		switch req.Bucket {
		case models.BucketNeeds, models.BucketWants, models.BucketFuture:
		default:
			http.Error(w, "bucket_50_30_20 must be NEEDS, WANTS, or FUTURE", http.StatusBadRequest)
			return
		}
		category := &models.Category{
			UserID:   userID,
			Name:     req.Name,
			Emoji:    req.Emoji,
			Bucket:   req.Bucket,
			IsActive: true,
		}
		created, err := sql.CreateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		db.ClearAllCategoryCaches()
		log.Printf("INFO: Created category id %d for user %d, name %s", created.ID, userID, created.Name)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// GetAllCategories returns the deduped category list; duplicate (name, emoji)
// rows collapse to the lowest id.
func GetAllCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := "categories_" + strconv.FormatInt(userID, 10)
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		categories, err := sql.GetAllCategories(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		deduped := models.DedupeCategories(categories)

		db.SetCategoryCache(cacheKey, deduped)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(deduped)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryIDStr := chi.URLParam(r, "category_id")
		categoryID, err := strconv.ParseInt(categoryIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid category id param: %s", categoryIDStr)
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		var req struct {
			Name     string        `json:"name"`
			Emoji    string        `json:"emoji"`
			Bucket   models.Bucket `json:"bucket_50_30_20"`
			IsActive bool          `json:"is_active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		category := &models.Category{
			ID:       categoryID,
			UserID:   userID,
			Name:     req.Name,
			Emoji:    req.Emoji,
			Bucket:   req.Bucket,
			IsActive: req.IsActive,
		}
		updated, err := sql.UpdateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to update category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "failed to update category", http.StatusInternalServerError)
			return
		}
		db.ClearAllCategoryCaches()
		db.ClearAllFinanceCaches()
		log.Printf("INFO: Updated category id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeactivateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryIDStr := chi.URLParam(r, "category_id")
		categoryID, err := strconv.ParseInt(categoryIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid category id param: %s", categoryIDStr)
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		err = sql.DeactivateCategory(r.Context(), pool, userID, categoryID)
		if err != nil {
			log.Printf("ERROR: Failed to deactivate category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "failed to deactivate category", http.StatusInternalServerError)
			return
		}
		db.ClearAllCategoryCaches()
		log.Printf("INFO: Deactivated category id %d for user %d", categoryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "category deactivated"})
	}
}
