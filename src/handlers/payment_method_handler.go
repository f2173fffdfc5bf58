package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sql "centimo-server/src/db/sql"
	"centimo-server/src/models"
)

func CreatePaymentMethod(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Type == "" {
			http.Error(w, "name and type are required", http.StatusBadRequest)
			return
		}

		method, err := sql.CreatePaymentMethod(r.Context(), pool, &models.PaymentMethod{
			UserID: userID,
			Name:   req.Name,
			Type:   req.Type,
		})
		if err != nil {
			log.Printf("ERROR: Failed to create payment method for user %d: %v", userID, err)
			http.Error(w, "failed to create payment method", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(method)
	}
}

func GetAllPaymentMethods(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		methods, err := sql.GetAllPaymentMethods(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get payment methods for user %d: %v", userID, err)
			http.Error(w, "failed to get payment methods", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(methods)
	}
}

func UpdatePaymentMethod(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		methodID, err := strconv.ParseInt(chi.URLParam(r, "method_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid payment method id", http.StatusBadRequest)
			return
		}

		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Type == "" {
			http.Error(w, "name and type are required", http.StatusBadRequest)
			return
		}

		method, err := sql.UpdatePaymentMethod(r.Context(), pool, &models.PaymentMethod{
			ID:     methodID,
			UserID: userID,
			Name:   req.Name,
			Type:   req.Type,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				http.Error(w, "payment method not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update payment method %d for user %d: %v", methodID, userID, err)
			http.Error(w, "failed to update payment method", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(method)
	}
}

func DeletePaymentMethod(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		methodID, err := strconv.ParseInt(chi.URLParam(r, "method_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid payment method id", http.StatusBadRequest)
			return
		}

		if err := sql.DeletePaymentMethod(r.Context(), pool, userID, methodID); err != nil {
			log.Printf("ERROR: Failed to delete payment method %d for user %d: %v", methodID, userID, err)
			http.Error(w, "payment method not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "payment method deleted"})
	}
}
