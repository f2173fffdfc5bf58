package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"centimo-server/src/models"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, emoji, bucket_50_30_20, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, emoji, bucket_50_30_20, is_active
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.UserID, category.Name, category.Emoji, category.Bucket, category.IsActive).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji, &c.Bucket, &c.IsActive)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int64) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, emoji, bucket_50_30_20, is_active
		FROM categories
		WHERE id = $1 AND user_id = $2
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, categoryID, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji, &c.Bucket, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// GetAllCategories returns the user's raw category rows, duplicates included.
// Callers that present categories must run models.DedupeCategories first.
func GetAllCategories(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, emoji, bucket_50_30_20, is_active
		FROM categories
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji, &c.Bucket, &c.IsActive); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, emoji = $2, bucket_50_30_20 = $3, is_active = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, name, emoji, bucket_50_30_20, is_active
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.Name, category.Emoji, category.Bucket, category.IsActive, category.ID, category.UserID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji, &c.Bucket, &c.IsActive)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeactivateCategory soft-deletes; ledger rows keep pointing at the id.
func DeactivateCategory(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int64) error {
	query := `UPDATE categories SET is_active = false WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}
