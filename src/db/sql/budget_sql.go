package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"centimo-server/src/models"
)

// UpsertBudgetLine sets the assigned amount for one (month, year, category)
// slot, creating the row when absent.
func UpsertBudgetLine(ctx context.Context, pool *pgxpool.Pool, line *models.BudgetLine) (*models.BudgetLine, error) {
	query := `
		INSERT INTO budget_lines (user_id, month_id, year, category_id, assigned)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, month_id, year, category_id)
		DO UPDATE SET assigned = EXCLUDED.assigned, updated_at = NOW()
		RETURNING id, user_id, month_id, year, category_id, assigned, created_at, updated_at
	`
	var b models.BudgetLine
	var assigned string
	err := pool.QueryRow(ctx, query, line.UserID, line.MonthID, line.Year, line.CategoryID, line.Assigned.String()).
		Scan(&b.ID, &b.UserID, &b.MonthID, &b.Year, &b.CategoryID, &assigned, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if b.Assigned, err = decimal.NewFromString(assigned); err != nil {
		return nil, err
	}
	return &b, nil
}

func GetBudgetLineByID(ctx context.Context, pool *pgxpool.Pool, userID, lineID int64) (*models.BudgetLine, error) {
	query := `
		SELECT id, user_id, month_id, year, category_id, assigned, created_at, updated_at
		FROM budget_lines WHERE id = $1 AND user_id = $2
	`
	var b models.BudgetLine
	var assigned string
	err := pool.QueryRow(ctx, query, lineID, userID).
		Scan(&b.ID, &b.UserID, &b.MonthID, &b.Year, &b.CategoryID, &assigned, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if b.Assigned, err = decimal.NewFromString(assigned); err != nil {
		return nil, err
	}
	return &b, nil
}

func GetBudgetLinesForMonth(ctx context.Context, pool *pgxpool.Pool, userID int64, monthID, year int) ([]models.BudgetLine, error) {
	query := `
		SELECT id, user_id, month_id, year, category_id, assigned, created_at, updated_at
		FROM budget_lines
		WHERE user_id = $1 AND month_id = $2 AND year = $3
		ORDER BY category_id
	`
	return queryBudgetLines(ctx, pool, query, userID, monthID, year)
}

func GetAllBudgetLines(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.BudgetLine, error) {
	query := `
		SELECT id, user_id, month_id, year, category_id, assigned, created_at, updated_at
		FROM budget_lines
		WHERE user_id = $1
		ORDER BY year, month_id, category_id
	`
	return queryBudgetLines(ctx, pool, query, userID)
}

func queryBudgetLines(ctx context.Context, pool *pgxpool.Pool, query string, args ...interface{}) ([]models.BudgetLine, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.BudgetLine
	for rows.Next() {
		var b models.BudgetLine
		var assigned string
		if err := rows.Scan(&b.ID, &b.UserID, &b.MonthID, &b.Year, &b.CategoryID, &assigned, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if b.Assigned, err = decimal.NewFromString(assigned); err != nil {
			return nil, err
		}
		lines = append(lines, b)
	}
	return lines, rows.Err()
}

func DeleteBudgetLine(ctx context.Context, pool *pgxpool.Pool, userID, lineID int64) error {
	query := `DELETE FROM budget_lines WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, lineID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget line not found")
	}
	return nil
}
