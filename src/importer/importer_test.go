package importer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centimo-server/src/categorizer"
	"centimo-server/src/models"
	"centimo-server/src/tink"
)

// fakeStore backs the importer with maps and records inserts in order.
type fakeStore struct {
	accounts map[string]*models.BankAccount
	entries  []models.LedgerEntry
	imported map[int64]bool

	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: map[string]*models.BankAccount{},
		imported: map[int64]bool{},
	}
}

func (s *fakeStore) BankAccountByExternalID(ctx context.Context, userID int64, externalID string) (*models.BankAccount, error) {
	return s.accounts[externalID], nil
}

func (s *fakeStore) LedgerEntryExists(ctx context.Context, userID int64, monthID, year int, date time.Time, amount decimal.Decimal, direction models.Direction, description string) (bool, error) {
	for _, e := range s.entries {
		if e.UserID == userID && e.MonthID == monthID && e.Year == year &&
			e.Date.Equal(date) && e.Amount.Equal(amount) &&
			e.Direction == direction && e.Description == description {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeStore) MarkBankTransactionImported(ctx context.Context, id int64) error {
	s.imported[id] = true
	return nil
}

func testCategorizer(fallback *int64) *categorizer.Categorizer {
	return categorizer.New([]categorizer.Rule{
		{CategoryID: 1, Keywords: []string{"mercadona"}},
	}, fallback)
}

func TestMerchantName(t *testing.T) {
	assert.Equal(t, "MERCADONA", MerchantName("MERCADONA - COMPRA TARJETA 1234"))
	assert.Equal(t, "RECIBO LUZ", MerchantName("RECIBO LUZ"))
	assert.Equal(t, "Transacción bancaria", MerchantName(""))
	assert.Equal(t, "Transacción bancaria", MerchantName("   "))
}

func TestCanonicalDescription(t *testing.T) {
	assert.Equal(t, "[BANCO] MERCADONA", CanonicalDescription("MERCADONA - COMPRA"))
}

func TestImportProviderTransactionsDirections(t *testing.T) {
	store := newFakeStore()
	store.accounts["ext-1"] = &models.BankAccount{ID: 42, UserID: 7}
	im := New(store, testCategorizer(nil))

	date := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	txs := []tink.Transaction{
		{AccountID: "ext-1", Amount: -25.40, Date: date.UnixMilli(), Description: "MERCADONA - COMPRA", CurrencyCode: "EUR"},
		{AccountID: "ext-1", Amount: 1500, Date: date.UnixMilli(), Description: "NOMINA EMPRESA"},
	}

	result, err := im.ImportProviderTransactions(context.Background(), 7, txs)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2}, result)
	require.Len(t, store.entries, 2)

	exp := store.entries[0]
	assert.Equal(t, models.DirectionExpense, exp.Direction)
	assert.True(t, exp.Amount.Equal(decimal.NewFromFloat(25.40)))
	assert.Equal(t, "[BANCO] MERCADONA", exp.Description)
	require.NotNil(t, exp.CategoryID)
	assert.Equal(t, int64(1), *exp.CategoryID)
	require.NotNil(t, exp.AccountID)
	assert.Equal(t, int64(42), *exp.AccountID)
	assert.Equal(t, 8, exp.MonthID)
	assert.Equal(t, 2025, exp.Year)
	assert.Equal(t, "EUR", exp.CurrencyCode)

	inc := store.entries[1]
	assert.Equal(t, models.DirectionIncome, inc.Direction)
	assert.Nil(t, inc.CategoryID)
	assert.Equal(t, "EUR", inc.CurrencyCode) // defaulted
}

func TestImportProviderTransactionsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.accounts["ext-1"] = &models.BankAccount{ID: 42, UserID: 7}
	im := New(store, testCategorizer(nil))

	txs := []tink.Transaction{
		{AccountID: "ext-1", Amount: -10, Date: time.Now().UnixMilli(), Description: "MERCADONA - COMPRA"},
	}

	first, err := im.ImportProviderTransactions(context.Background(), 7, txs)
	require.NoError(t, err)
	second, err := im.ImportProviderTransactions(context.Background(), 7, txs)
	require.NoError(t, err)

	assert.Equal(t, Result{Imported: 1}, first)
	assert.Equal(t, Result{Skipped: 1}, second)
	assert.Len(t, store.entries, 1)
}

func TestImportProviderTransactionsUnknownAccountSkipped(t *testing.T) {
	store := newFakeStore()
	im := New(store, testCategorizer(nil))

	txs := []tink.Transaction{
		{AccountID: "desconocida", Amount: -10, Date: time.Now().UnixMilli(), Description: "MERCADONA"},
	}
	result, err := im.ImportProviderTransactions(context.Background(), 7, txs)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, result)
	assert.Empty(t, store.entries)
}

func TestImportSkipsUncategorizableExpense(t *testing.T) {
	store := newFakeStore()
	store.accounts["ext-1"] = &models.BankAccount{ID: 42, UserID: 7}
	im := New(store, testCategorizer(nil)) // no fallback configured

	txs := []tink.Transaction{
		{AccountID: "ext-1", Amount: -10, Date: time.Now().UnixMilli(), Description: "COMERCIO RARO"},
	}
	result, err := im.ImportProviderTransactions(context.Background(), 7, txs)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, result)
}

func TestImportFallbackCategorizesUnknownExpense(t *testing.T) {
	store := newFakeStore()
	store.accounts["ext-1"] = &models.BankAccount{ID: 42, UserID: 7}
	fallback := int64(99)
	im := New(store, testCategorizer(&fallback))

	txs := []tink.Transaction{
		{AccountID: "ext-1", Amount: -10, Date: time.Now().UnixMilli(), Description: "COMERCIO RARO"},
	}
	result, err := im.ImportProviderTransactions(context.Background(), 7, txs)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 1}, result)
	require.Len(t, store.entries, 1)
	assert.Equal(t, int64(99), *store.entries[0].CategoryID)
}

func TestImportDuplicateInsertCountedAsSkip(t *testing.T) {
	store := newFakeStore()
	store.accounts["ext-1"] = &models.BankAccount{ID: 42, UserID: 7}
	store.insertErr = ErrDuplicateEntry
	im := New(store, testCategorizer(nil))

	txs := []tink.Transaction{
		{AccountID: "ext-1", Amount: -10, Date: time.Now().UnixMilli(), Description: "MERCADONA"},
	}
	result, err := im.ImportProviderTransactions(context.Background(), 7, txs)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, result)
}

func TestImportCancelledContextAborts(t *testing.T) {
	store := newFakeStore()
	store.accounts["ext-1"] = &models.BankAccount{ID: 42, UserID: 7}
	im := New(store, testCategorizer(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	txs := []tink.Transaction{
		{AccountID: "ext-1", Amount: -10, Date: time.Now().UnixMilli(), Description: "MERCADONA"},
	}
	_, err := im.ImportProviderTransactions(ctx, 7, txs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.entries)
}

func TestImportStaged(t *testing.T) {
	store := newFakeStore()
	im := New(store, testCategorizer(nil))

	booking := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	staged := []models.BankTransaction{
		{ID: 1, BankAccountID: 42, Amount: decimal.NewFromFloat(-18.50), Currency: "EUR", BookingDate: booking, Description: "MERCADONA - COMPRA"},
		{ID: 2, BankAccountID: 42, Amount: decimal.NewFromInt(1200), Currency: "EUR", BookingDate: booking, Description: "NOMINA"},
		{ID: 3, BankAccountID: 42, Amount: decimal.NewFromInt(-5), Currency: "EUR", BookingDate: booking, Description: "MERCADONA", IsImported: true},
	}

	result, err := im.ImportStaged(context.Background(), 7, staged)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2, Skipped: 1}, result)

	assert.True(t, store.imported[1])
	assert.True(t, store.imported[2])
	// Already-imported staged rows are never re-marked.
	assert.False(t, store.imported[3])
}
