package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"centimo-server/src/categorizer"
	"centimo-server/src/db"
	"centimo-server/src/importer"
	"centimo-server/src/models"
)

func CreateCategoryRule(ctx context.Context, pool *pgxpool.Pool, rule *models.CategoryRule) (*models.CategoryRule, error) {
	query := `
		INSERT INTO category_rules (user_id, name, keywords, category_id, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, keywords, category_id, priority, created_at, updated_at
	`
	var r models.CategoryRule
	err := pool.QueryRow(ctx, query, rule.UserID, rule.Name, rule.Keywords, rule.CategoryID, rule.Priority).
		Scan(&r.ID, &r.UserID, &r.Name, &r.Keywords, &r.CategoryID, &r.Priority, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetCategoryRuleByID(ctx context.Context, pool *pgxpool.Pool, userID, ruleID int64) (*models.CategoryRule, error) {
	query := `
		SELECT id, user_id, name, keywords, category_id, priority, created_at, updated_at
		FROM category_rules
		WHERE id = $1 AND user_id = $2
	`
	var r models.CategoryRule
	err := pool.QueryRow(ctx, query, ruleID, userID).
		Scan(&r.ID, &r.UserID, &r.Name, &r.Keywords, &r.CategoryID, &r.Priority, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetAllCategoryRules(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.CategoryRule, error) {
	query := `
		SELECT id, user_id, name, keywords, category_id, priority, created_at, updated_at
		FROM category_rules
		WHERE user_id = $1
		ORDER BY priority, id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.CategoryRule
	for rows.Next() {
		var r models.CategoryRule
		err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Keywords, &r.CategoryID, &r.Priority, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func UpdateCategoryRule(ctx context.Context, pool *pgxpool.Pool, rule *models.CategoryRule) (*models.CategoryRule, error) {
	query := `
		UPDATE category_rules
		SET name = $1, keywords = $2, category_id = $3, priority = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, name, keywords, category_id, priority, created_at, updated_at
	`
	var r models.CategoryRule
	err := pool.QueryRow(ctx, query, rule.Name, rule.Keywords, rule.CategoryID, rule.Priority, rule.ID, rule.UserID).
		Scan(&r.ID, &r.UserID, &r.Name, &r.Keywords, &r.CategoryID, &r.Priority, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func DeleteCategoryRule(ctx context.Context, pool *pgxpool.Pool, userID, ruleID int64) error {
	query := `DELETE FROM category_rules WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, ruleID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category rule not found")
	}
	return nil
}

// ApplyCategoryRulesToUser re-runs the keyword categorizer over every stored
// expense row and rewrites the category where the outcome changed. Income
// rows and manually filed expenses keep their category untouched only if the
// rules still agree; the rules are the source of truth for imported rows.
func ApplyCategoryRulesToUser(ctx context.Context, pool *pgxpool.Pool, userID int64) (int, error) {
	rules, err := GetAllCategoryRules(ctx, pool, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch category rules: %w", err)
	}
	categories, err := GetAllCategories(ctx, pool, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch categories: %w", err)
	}

	compiled, fallback := categorizer.BuildRules(rules, categories)
	cat := categorizer.New(compiled, fallback)

	entries, err := GetAllLedgerEntries(ctx, pool, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}

	adjusted := 0
	for _, entry := range entries {
		if entry.Direction != models.DirectionExpense {
			continue
		}
		categoryID, ok := cat.Categorize(importer.MerchantName(entry.Description), entry.Description, entry.Amount, false)
		if !ok {
			continue
		}
		if entry.CategoryID != nil && *entry.CategoryID == categoryID {
			continue
		}
		if err := UpdateLedgerEntryCategory(ctx, pool, userID, entry.ID, entry.MonthID, categoryID); err != nil {
			return adjusted, fmt.Errorf("failed to recategorize entry %d: %w", entry.ID, err)
		}
		adjusted++
	}

	if adjusted > 0 {
		log.Printf("INFO: ApplyCategoryRulesToUser: %d entries recategorized for user %d", adjusted, userID)
		db.ClearAllFinanceCaches()
	}
	return adjusted, nil
}
