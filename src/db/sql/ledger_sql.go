package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"centimo-server/src/importer"
	"centimo-server/src/models"
)

// InsertLedgerEntry writes one row into the month partition matching the
// entry's direction. A unique-constraint hit surfaces as
// importer.ErrDuplicateEntry so import batches can count it as a skip.
func InsertLedgerEntry(ctx context.Context, pool *pgxpool.Pool, entry *models.LedgerEntry) error {
	switch entry.Direction {
	case models.DirectionExpense:
		table, err := expenseTable(entry.MonthID)
		if err != nil {
			return err
		}
		query := fmt.Sprintf(`
			INSERT INTO %s (user_id, month_id, year, date, description, category_id, amount, direction, payment_method_id, account_id, goal_id, currency_code, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'EXPENSE', $8, $9, $10, $11, NOW())
			RETURNING id
		`, table)
		err = pool.QueryRow(ctx, query,
			entry.UserID, entry.MonthID, entry.Year, entry.Date, entry.Description,
			entry.CategoryID, entry.Amount.String(), entry.PaymentMethodID,
			entry.AccountID, entry.GoalID, entry.CurrencyCode,
		).Scan(&entry.ID)
		return translateUnique(err)
	case models.DirectionIncome:
		table, err := incomeTable(entry.MonthID)
		if err != nil {
			return err
		}
		query := fmt.Sprintf(`
			INSERT INTO %s (user_id, month_id, year, date, source, amount, goal_id, currency_code, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			RETURNING id
		`, table)
		err = pool.QueryRow(ctx, query,
			entry.UserID, entry.MonthID, entry.Year, entry.Date, entry.Description,
			entry.Amount.String(), entry.GoalID, entry.CurrencyCode,
		).Scan(&entry.ID)
		return translateUnique(err)
	default:
		return fmt.Errorf("invalid direction %q", entry.Direction)
	}
}

func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return importer.ErrDuplicateEntry
	}
	return err
}

// LedgerEntryExists is the application-level half of the dedup invariant;
// the partition's uniqueness index is the storage-level half.
func LedgerEntryExists(ctx context.Context, pool *pgxpool.Pool, userID int64, monthID, year int, date time.Time, amount decimal.Decimal, direction models.Direction, description string) (bool, error) {
	var table, textColumn string
	var err error
	if direction == models.DirectionIncome {
		table, err = incomeTable(monthID)
		textColumn = "source"
	} else {
		table, err = expenseTable(monthID)
		textColumn = "description"
	}
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE user_id = $1 AND year = $2 AND date = $3 AND amount = $4 AND %s = $5
		)
	`, table, textColumn)

	var exists bool
	err = pool.QueryRow(ctx, query, userID, year, date, amount.String(), description).Scan(&exists)
	return exists, err
}

// GetLedgerEntriesForMonth reads one month's expense and income rows.
func GetLedgerEntriesForMonth(ctx context.Context, pool *pgxpool.Pool, userID int64, monthID, year int) ([]models.LedgerEntry, error) {
	expenses, err := getExpensesForMonth(ctx, pool, userID, monthID, year)
	if err != nil {
		return nil, err
	}
	income, err := getIncomeForMonth(ctx, pool, userID, monthID, year)
	if err != nil {
		return nil, err
	}
	return append(expenses, income...), nil
}

// GetAllLedgerEntries reads the full historical ledger across all partitions.
func GetAllLedgerEntries(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for monthID := 1; monthID <= 12; monthID++ {
		monthEntries, err := GetLedgerEntriesForMonth(ctx, pool, userID, monthID, 0)
		if err != nil {
			return nil, err
		}
		entries = append(entries, monthEntries...)
	}
	return entries, nil
}

func getExpensesForMonth(ctx context.Context, pool *pgxpool.Pool, userID int64, monthID, year int) ([]models.LedgerEntry, error) {
	table, err := expenseTable(monthID)
	if err != nil {
		return nil, err
	}
	// year 0 means all years
	query := fmt.Sprintf(`
		SELECT id, user_id, month_id, year, date, description, category_id, amount, payment_method_id, account_id, goal_id, currency_code, created_at
		FROM %s
		WHERE user_id = $1 AND ($2 = 0 OR year = $2)
		ORDER BY date DESC
	`, table)

	rows, err := pool.Query(ctx, query, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var amount string
		err := rows.Scan(&e.ID, &e.UserID, &e.MonthID, &e.Year, &e.Date, &e.Description, &e.CategoryID, &amount, &e.PaymentMethodID, &e.AccountID, &e.GoalID, &e.CurrencyCode, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		e.Direction = models.DirectionExpense
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func getIncomeForMonth(ctx context.Context, pool *pgxpool.Pool, userID int64, monthID, year int) ([]models.LedgerEntry, error) {
	table, err := incomeTable(monthID)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, user_id, month_id, year, date, source, amount, goal_id, currency_code, created_at
		FROM %s
		WHERE user_id = $1 AND ($2 = 0 OR year = $2)
		ORDER BY date DESC
	`, table)

	rows, err := pool.Query(ctx, query, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var amount string
		err := rows.Scan(&e.ID, &e.UserID, &e.MonthID, &e.Year, &e.Date, &e.Description, &amount, &e.GoalID, &e.CurrencyCode, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		e.Direction = models.DirectionIncome
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateLedgerEntry updates a user's expense row in place. Income rows are
// deleted and re-created by the handlers instead.
func UpdateLedgerEntry(ctx context.Context, pool *pgxpool.Pool, userID, entryID int64, monthID int, req *models.UpdateLedgerEntryRequest) error {
	table, err := expenseTable(monthID)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET amount = $1, description = $2, date = $3, category_id = $4, payment_method_id = $5, account_id = $6
		WHERE id = $7 AND user_id = $8
	`, table)
	cmd, err := pool.Exec(ctx, query, req.Amount.String(), req.Description, req.Date, req.CategoryID, req.PaymentMethodID, req.AccountID, entryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func DeleteLedgerEntry(ctx context.Context, pool *pgxpool.Pool, userID, entryID int64, monthID int, direction models.Direction) error {
	var table string
	var err error
	if direction == models.DirectionIncome {
		table, err = incomeTable(monthID)
	} else {
		table, err = expenseTable(monthID)
	}
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)
	cmd, err := pool.Exec(ctx, query, entryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateLedgerEntryCategory repoints one expense row's category, used by
// recategorization.
func UpdateLedgerEntryCategory(ctx context.Context, pool *pgxpool.Pool, userID, entryID int64, monthID int, categoryID int64) error {
	table, err := expenseTable(monthID)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET category_id = $1 WHERE id = $2 AND user_id = $3`, table)
	_, err = pool.Exec(ctx, query, categoryID, entryID, userID)
	return err
}
