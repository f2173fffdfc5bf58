package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"centimo-server/src/models"
)

func CreatePaymentMethod(ctx context.Context, pool *pgxpool.Pool, method *models.PaymentMethod) (*models.PaymentMethod, error) {
	query := `
		INSERT INTO payment_methods (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, type, created_at
	`
	var m models.PaymentMethod
	err := pool.QueryRow(ctx, query, method.UserID, method.Name, method.Type).
		Scan(&m.ID, &m.UserID, &m.Name, &m.Type, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func GetAllPaymentMethods(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.PaymentMethod, error) {
	query := `
		SELECT id, user_id, name, type, created_at
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY name, id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Type, &m.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func UpdatePaymentMethod(ctx context.Context, pool *pgxpool.Pool, method *models.PaymentMethod) (*models.PaymentMethod, error) {
	query := `
		UPDATE payment_methods
		SET name = $1, type = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, name, type, created_at
	`
	var m models.PaymentMethod
	err := pool.QueryRow(ctx, query, method.Name, method.Type, method.ID, method.UserID).
		Scan(&m.ID, &m.UserID, &m.Name, &m.Type, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeletePaymentMethod removes the method; ledger rows referencing it keep a
// dangling id, which consumers treat as "unknown method".
func DeletePaymentMethod(ctx context.Context, pool *pgxpool.Pool, userID, methodID int64) error {
	query := `DELETE FROM payment_methods WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, methodID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("payment method not found")
	}
	return nil
}
