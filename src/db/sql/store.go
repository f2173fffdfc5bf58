package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"centimo-server/src/models"
)

// Store wraps the free functions behind the small interfaces the importer,
// finance, and token-manager packages consume.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// tink.TokenStore

func (s *Store) LatestToken(ctx context.Context) (*models.BankToken, error) {
	return GetLatestBankToken(ctx, s.Pool)
}

func (s *Store) SaveToken(ctx context.Context, accessToken string, expiresAt time.Time) error {
	return SaveBankToken(ctx, s.Pool, accessToken, expiresAt)
}

// importer.Store

func (s *Store) BankAccountByExternalID(ctx context.Context, userID int64, externalID string) (*models.BankAccount, error) {
	return GetBankAccountByExternalID(ctx, s.Pool, userID, externalID)
}

func (s *Store) LedgerEntryExists(ctx context.Context, userID int64, monthID, year int, date time.Time, amount decimal.Decimal, direction models.Direction, description string) (bool, error) {
	return LedgerEntryExists(ctx, s.Pool, userID, monthID, year, date, amount, direction, description)
}

func (s *Store) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return InsertLedgerEntry(ctx, s.Pool, entry)
}

func (s *Store) MarkBankTransactionImported(ctx context.Context, id int64) error {
	return MarkBankTransactionImported(ctx, s.Pool, id)
}

// finance.Store

func (s *Store) LedgerEntries(ctx context.Context, userID int64) ([]models.LedgerEntry, error) {
	return GetAllLedgerEntries(ctx, s.Pool, userID)
}

func (s *Store) Budgets(ctx context.Context, userID int64) ([]models.BudgetLine, error) {
	return GetAllBudgetLines(ctx, s.Pool, userID)
}

func (s *Store) DebtSnapshots(ctx context.Context, userID int64) ([]models.DebtSnapshot, error) {
	return GetAllDebtSnapshots(ctx, s.Pool, userID)
}

func (s *Store) Categories(ctx context.Context, userID int64) ([]models.Category, error) {
	return GetAllCategories(ctx, s.Pool, userID)
}
