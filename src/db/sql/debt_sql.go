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

const debtSnapshotColumns = `id, user_id, month_id, year, debt_account_id, account_name, starting_balance, payment_made, ending_balance, interest_rate_apr, min_payment, due_day, created_at`

// UpsertDebtSnapshot records one debt account's state for a month. Re-posting
// the same (month, year, account) slot overwrites the snapshot.
func UpsertDebtSnapshot(ctx context.Context, pool *pgxpool.Pool, s *models.DebtSnapshot) (*models.DebtSnapshot, error) {
	query := `
		INSERT INTO debt_snapshots (user_id, month_id, year, debt_account_id, account_name, starting_balance, payment_made, ending_balance, interest_rate_apr, min_payment, due_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, month_id, year, debt_account_id)
		DO UPDATE SET account_name = EXCLUDED.account_name,
		              starting_balance = EXCLUDED.starting_balance,
		              payment_made = EXCLUDED.payment_made,
		              ending_balance = EXCLUDED.ending_balance,
		              interest_rate_apr = EXCLUDED.interest_rate_apr,
		              min_payment = EXCLUDED.min_payment,
		              due_day = EXCLUDED.due_day
		RETURNING ` + debtSnapshotColumns
	row := pool.QueryRow(ctx, query, s.UserID, s.MonthID, s.Year, s.DebtAccountID, s.AccountName,
		s.StartingBalance.String(), s.PaymentMade.String(), s.EndingBalance.String(),
		s.InterestRateAPR.String(), s.MinPayment.String(), s.DueDay)
	return scanDebtSnapshot(row)
}

func GetDebtSnapshotsForMonth(ctx context.Context, pool *pgxpool.Pool, userID int64, monthID, year int) ([]models.DebtSnapshot, error) {
	query := `
		SELECT ` + debtSnapshotColumns + `
		FROM debt_snapshots
		WHERE user_id = $1 AND month_id = $2 AND year = $3
		ORDER BY debt_account_id
	`
	return queryDebtSnapshots(ctx, pool, query, userID, monthID, year)
}

func GetAllDebtSnapshots(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.DebtSnapshot, error) {
	query := `
		SELECT ` + debtSnapshotColumns + `
		FROM debt_snapshots
		WHERE user_id = $1
		ORDER BY year, month_id, debt_account_id
	`
	return queryDebtSnapshots(ctx, pool, query, userID)
}

func DeleteDebtSnapshot(ctx context.Context, pool *pgxpool.Pool, userID, snapshotID int64) error {
	query := `DELETE FROM debt_snapshots WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, snapshotID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("debt snapshot not found")
	}
	return nil
}

type debtRow interface {
	Scan(dest ...interface{}) error
}

func scanDebtSnapshot(row debtRow) (*models.DebtSnapshot, error) {
	var s models.DebtSnapshot
	var starting, payment, ending, apr, minPayment string
	err := row.Scan(&s.ID, &s.UserID, &s.MonthID, &s.Year, &s.DebtAccountID, &s.AccountName,
		&starting, &payment, &ending, &apr, &minPayment, &s.DueDay, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	for _, pair := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&s.StartingBalance, starting},
		{&s.PaymentMade, payment},
		{&s.EndingBalance, ending},
		{&s.InterestRateAPR, apr},
		{&s.MinPayment, minPayment},
	} {
		if *pair.dst, err = decimal.NewFromString(pair.src); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func queryDebtSnapshots(ctx context.Context, pool *pgxpool.Pool, query string, args ...interface{}) ([]models.DebtSnapshot, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.DebtSnapshot
	for rows.Next() {
		s, err := scanDebtSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}
