package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"centimo-server/src/models"
)

// Tokens

func GetLatestBankToken(ctx context.Context, pool *pgxpool.Pool) (*models.BankToken, error) {
	query := `
		SELECT id, access_token, access_expires_at, refresh_token, refresh_expires_at, created_at
		FROM bank_tokens
		ORDER BY created_at DESC
		LIMIT 1
	`
	var t models.BankToken
	err := pool.QueryRow(ctx, query).Scan(&t.ID, &t.AccessToken, &t.AccessExpiresAt, &t.RefreshToken, &t.RefreshExpires, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// SaveBankToken appends a token row; concurrent writers race harmlessly, the
// newest row wins on the next read.
func SaveBankToken(ctx context.Context, pool *pgxpool.Pool, accessToken string, expiresAt time.Time) error {
	query := `
		INSERT INTO bank_tokens (access_token, access_expires_at, refresh_token, refresh_expires_at)
		VALUES ($1, $2, NULL, NULL)
	`
	_, err := pool.Exec(ctx, query, accessToken, expiresAt)
	return err
}

// Requisitions

func GetRequisitionByProviderID(ctx context.Context, pool *pgxpool.Pool, userID int64, requisitionID string) (*models.BankRequisition, error) {
	query := `
		SELECT id, user_id, requisition_id, institution_id, institution_name, status, reference, expires_at, created_at
		FROM bank_requisitions
		WHERE user_id = $1 AND requisition_id = $2
	`
	var r models.BankRequisition
	err := pool.QueryRow(ctx, query, userID, requisitionID).Scan(&r.ID, &r.UserID, &r.RequisitionID, &r.InstitutionID, &r.InstitutionName, &r.Status, &r.Reference, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func GetRequisitionByLocalID(ctx context.Context, pool *pgxpool.Pool, userID, id int64) (*models.BankRequisition, error) {
	query := `
		SELECT id, user_id, requisition_id, institution_id, institution_name, status, reference, expires_at, created_at
		FROM bank_requisitions
		WHERE user_id = $1 AND id = $2
	`
	var r models.BankRequisition
	err := pool.QueryRow(ctx, query, userID, id).Scan(&r.ID, &r.UserID, &r.RequisitionID, &r.InstitutionID, &r.InstitutionName, &r.Status, &r.Reference, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// GetUserMarkerRequisition returns the marker row holding the provider user
// id, nil when the user has never connected.
func GetUserMarkerRequisition(ctx context.Context, pool *pgxpool.Pool, userID int64) (*models.BankRequisition, error) {
	query := `
		SELECT id, user_id, requisition_id, institution_id, institution_name, status, reference, expires_at, created_at
		FROM bank_requisitions
		WHERE user_id = $1 AND institution_id = 'tink'
	`
	var r models.BankRequisition
	err := pool.QueryRow(ctx, query, userID).Scan(&r.ID, &r.UserID, &r.RequisitionID, &r.InstitutionID, &r.InstitutionName, &r.Status, &r.Reference, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func InsertRequisition(ctx context.Context, pool *pgxpool.Pool, r *models.BankRequisition) error {
	query := `
		INSERT INTO bank_requisitions (user_id, requisition_id, institution_id, institution_name, status, reference, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return pool.QueryRow(ctx, query, r.UserID, r.RequisitionID, r.InstitutionID, r.InstitutionName, r.Status, r.Reference, r.ExpiresAt).
		Scan(&r.ID, &r.CreatedAt)
}

func UpdateMarkerRequisition(ctx context.Context, pool *pgxpool.Pool, id int64, requisitionID string, expiresAt time.Time) error {
	query := `
		UPDATE bank_requisitions
		SET requisition_id = $1, status = 'CR', expires_at = $2
		WHERE id = $3
	`
	_, err := pool.Exec(ctx, query, requisitionID, expiresAt, id)
	return err
}

func ListRequisitionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.BankRequisition, error) {
	query := `
		SELECT id, user_id, requisition_id, institution_id, institution_name, status, reference, expires_at, created_at
		FROM bank_requisitions
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requisitions []models.BankRequisition
	for rows.Next() {
		var r models.BankRequisition
		if err := rows.Scan(&r.ID, &r.UserID, &r.RequisitionID, &r.InstitutionID, &r.InstitutionName, &r.Status, &r.Reference, &r.ExpiresAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		requisitions = append(requisitions, r)
	}
	return requisitions, rows.Err()
}

// DeleteOrphanedRequisitions drops bank connections that no account
// references anymore, which happens when a user disconnects and reconnects.
func DeleteOrphanedRequisitions(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	query := `
		DELETE FROM bank_requisitions r
		WHERE r.user_id = $1
		  AND r.institution_id = 'tink-bank'
		  AND NOT EXISTS (SELECT 1 FROM bank_accounts a WHERE a.requisition_id = r.id)
	`
	_, err := pool.Exec(ctx, query, userID)
	return err
}

func DeleteRequisition(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	query := `DELETE FROM bank_requisitions WHERE id = $1 AND user_id = $2`
	_, err := pool.Exec(ctx, query, id, userID)
	return err
}

// Accounts

func GetBankAccountByExternalID(ctx context.Context, pool *pgxpool.Pool, userID int64, externalID string) (*models.BankAccount, error) {
	query := `
		SELECT id, user_id, requisition_id, account_id, iban, account_name, current_balance, currency, is_active, created_at
		FROM bank_accounts
		WHERE user_id = $1 AND account_id = $2
	`
	var a models.BankAccount
	var balance string
	err := pool.QueryRow(ctx, query, userID, externalID).Scan(&a.ID, &a.UserID, &a.RequisitionID, &a.AccountID, &a.IBAN, &a.AccountName, &balance, &a.Currency, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if a.CurrentBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertBankAccount inserts a new provider account or refreshes the balance,
// name, and requisition linkage of a known one. Returns true when the row is
// new.
func UpsertBankAccount(ctx context.Context, pool *pgxpool.Pool, a *models.BankAccount) (bool, error) {
	existing, err := GetBankAccountByExternalID(ctx, pool, a.UserID, a.AccountID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		query := `
			INSERT INTO bank_accounts (user_id, requisition_id, account_id, iban, account_name, current_balance, currency, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at
		`
		err := pool.QueryRow(ctx, query, a.UserID, a.RequisitionID, a.AccountID, a.IBAN, a.AccountName, a.CurrentBalance.String(), a.Currency, a.IsActive).
			Scan(&a.ID, &a.CreatedAt)
		return err == nil, err
	}

	query := `
		UPDATE bank_accounts
		SET current_balance = $1, is_active = $2, account_name = $3, requisition_id = $4
		WHERE id = $5
	`
	if _, err := pool.Exec(ctx, query, a.CurrentBalance.String(), a.IsActive, a.AccountName, a.RequisitionID, existing.ID); err != nil {
		return false, err
	}
	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	return false, nil
}

func ListBankAccountsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.BankAccount, error) {
	query := `
		SELECT id, user_id, requisition_id, account_id, iban, account_name, current_balance, currency, is_active, created_at
		FROM bank_accounts
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		var balance string
		if err := rows.Scan(&a.ID, &a.UserID, &a.RequisitionID, &a.AccountID, &a.IBAN, &a.AccountName, &balance, &a.Currency, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		if a.CurrentBalance, err = decimal.NewFromString(balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func DeleteBankAccountsForRequisition(ctx context.Context, pool *pgxpool.Pool, userID, requisitionID int64) error {
	query := `DELETE FROM bank_accounts WHERE user_id = $1 AND requisition_id = $2`
	_, err := pool.Exec(ctx, query, userID, requisitionID)
	return err
}

// Staged transactions

// InsertStagedTransaction stages a raw provider transaction. Returns false
// when the (bank_account_id, transaction_id) uniqueness constraint already
// holds the row.
func InsertStagedTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.BankTransaction) (bool, error) {
	query := `
		INSERT INTO bank_transactions (user_id, bank_account_id, transaction_id, amount, currency, booking_date, value_date, merchant_name, description, pending, is_imported)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
		ON CONFLICT (bank_account_id, transaction_id) DO NOTHING
	`
	cmd, err := pool.Exec(ctx, query, t.UserID, t.BankAccountID, t.TransactionID, t.Amount.String(), t.Currency, t.BookingDate, t.ValueDate, t.MerchantName, t.Description, t.Pending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func GetStagedTransactionsByIDs(ctx context.Context, pool *pgxpool.Pool, userID int64, ids []int64) ([]models.BankTransaction, error) {
	query := `
		SELECT id, user_id, bank_account_id, transaction_id, amount, currency, booking_date, value_date, merchant_name, description, pending, is_imported, created_at
		FROM bank_transactions
		WHERE user_id = $1 AND id = ANY($2)
	`
	return queryStagedTransactions(ctx, pool, query, userID, ids)
}

func ListStagedTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, onlyUnimported bool) ([]models.BankTransaction, error) {
	query := `
		SELECT id, user_id, bank_account_id, transaction_id, amount, currency, booking_date, value_date, merchant_name, description, pending, is_imported, created_at
		FROM bank_transactions
		WHERE user_id = $1 AND ($2 = false OR is_imported = false)
		ORDER BY booking_date DESC
	`
	return queryStagedTransactions(ctx, pool, query, userID, onlyUnimported)
}

func queryStagedTransactions(ctx context.Context, pool *pgxpool.Pool, query string, args ...interface{}) ([]models.BankTransaction, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.BankTransaction
	for rows.Next() {
		var t models.BankTransaction
		var amount string
		if err := rows.Scan(&t.ID, &t.UserID, &t.BankAccountID, &t.TransactionID, &amount, &t.Currency, &t.BookingDate, &t.ValueDate, &t.MerchantName, &t.Description, &t.Pending, &t.IsImported, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func MarkBankTransactionImported(ctx context.Context, pool *pgxpool.Pool, id int64) error {
	query := `UPDATE bank_transactions SET is_imported = true WHERE id = $1`
	_, err := pool.Exec(ctx, query, id)
	return err
}

// Sync logs

func InsertSyncLog(ctx context.Context, pool *pgxpool.Pool, userID int64, syncType, status string, fetched int, errorMessage *string) error {
	query := `
		INSERT INTO bank_sync_logs (user_id, sync_type, status, transactions_fetched, error_message)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := pool.Exec(ctx, query, userID, syncType, status, fetched, errorMessage)
	return err
}
