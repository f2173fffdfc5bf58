// Package importer moves provider transactions into the monthly ledger
// partitions: normalize, deduplicate, categorize, insert. Single rows fail
// soft and are counted; only a dead context aborts a batch.
package importer

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"centimo-server/src/categorizer"
	"centimo-server/src/models"
	"centimo-server/src/tink"
)

// ErrDuplicateEntry is returned by Store implementations when the backing
// uniqueness constraint rejects an insert. The importer counts it as a skip,
// not a failure.
var ErrDuplicateEntry = errors.New("duplicate ledger entry")

// Store is the slice of the persistence layer the importer needs. Writes are
// processed sequentially; the dedup check-then-insert relies on the storage
// uniqueness constraint as the real safety net.
type Store interface {
	// BankAccountByExternalID resolves the local account for a provider
	// account id, nil when no linkage exists.
	BankAccountByExternalID(ctx context.Context, userID int64, externalID string) (*models.BankAccount, error)
	LedgerEntryExists(ctx context.Context, userID int64, monthID, year int, date time.Time, amount decimal.Decimal, direction models.Direction, description string) (bool, error)
	InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
	MarkBankTransactionImported(ctx context.Context, id int64) error
}

type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	store Store
	cat   *categorizer.Categorizer
}

func New(store Store, cat *categorizer.Categorizer) *Importer {
	return &Importer{store: store, cat: cat}
}

// MerchantName extracts the merchant as the text before the first " - "
// delimiter, falling back to the raw description.
func MerchantName(description string) string {
	if i := strings.Index(description, " - "); i >= 0 {
		return description[:i]
	}
	if strings.TrimSpace(description) == "" {
		return "Transacción bancaria"
	}
	return description
}

// CanonicalDescription is what gets stored on a bank-imported ledger row and
// is the dedup key together with (user, date, amount).
func CanonicalDescription(description string) string {
	return models.BankImportMarker + MerchantName(description)
}

// ImportProviderTransactions ingests freshly fetched provider transactions.
// Re-running the same batch never duplicates rows.
func (im *Importer) ImportProviderTransactions(ctx context.Context, userID int64, transactions []tink.Transaction) (Result, error) {
	var result Result
	for _, tx := range transactions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		account, err := im.store.BankAccountByExternalID(ctx, userID, tx.AccountID)
		if err != nil {
			log.Printf("ERROR: Failed to resolve bank account %s for user %d: %v", tx.AccountID, userID, err)
			result.Skipped++
			continue
		}
		if account == nil {
			result.Skipped++
			continue
		}

		date := time.UnixMilli(tx.Date).UTC().Truncate(24 * time.Hour)
		if im.importOne(ctx, userID, account, date, decimal.NewFromFloat(tx.Amount), tx.Description, tx.CurrencyCode) {
			result.Imported++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

// ImportStaged ingests previously staged bank transactions and marks the
// staged rows imported on success.
func (im *Importer) ImportStaged(ctx context.Context, userID int64, staged []models.BankTransaction) (Result, error) {
	var result Result
	for _, tx := range staged {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if tx.IsImported {
			result.Skipped++
			continue
		}

		account := &models.BankAccount{ID: tx.BankAccountID, UserID: userID}
		if !im.importOne(ctx, userID, account, tx.BookingDate, tx.Amount, tx.Description, tx.Currency) {
			result.Skipped++
			continue
		}
		result.Imported++

		if err := im.store.MarkBankTransactionImported(ctx, tx.ID); err != nil {
			log.Printf("ERROR: Failed to mark bank transaction %d imported for user %d: %v", tx.ID, userID, err)
		}
	}
	return result, nil
}

// importOne runs the per-row pipeline: direction from sign, canonical
// description, categorize (expenses only), dedup check, insert. Returns true
// when a row was inserted.
func (im *Importer) importOne(ctx context.Context, userID int64, account *models.BankAccount, date time.Time, signedAmount decimal.Decimal, rawDescription, currency string) bool {
	monthID := int(date.Month())
	year := date.Year()

	income := signedAmount.IsPositive()
	amount := signedAmount.Abs()
	description := CanonicalDescription(rawDescription)

	direction := models.DirectionExpense
	if income {
		direction = models.DirectionIncome
	}

	var categoryID *int64
	if !income {
		id, ok := im.cat.Categorize(MerchantName(rawDescription), rawDescription, amount, false)
		if !ok {
			log.Printf("INFO: Could not categorize transaction for user %d, skipping: %s", userID, description)
			return false
		}
		categoryID = &id
	}

	exists, err := im.store.LedgerEntryExists(ctx, userID, monthID, year, date, amount, direction, description)
	if err != nil {
		log.Printf("ERROR: Dedup check failed for user %d, %s: %v", userID, description, err)
		return false
	}
	if exists {
		return false
	}

	if currency == "" {
		currency = "EUR"
	}
	entry := &models.LedgerEntry{
		UserID:       userID,
		MonthID:      monthID,
		Year:         year,
		Date:         date,
		Amount:       amount,
		Direction:    direction,
		Description:  description,
		CategoryID:   categoryID,
		AccountID:    &account.ID,
		CurrencyCode: currency,
	}
	if err := im.store.InsertLedgerEntry(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			return false
		}
		log.Printf("ERROR: Failed to insert ledger entry for user %d, %s: %v", userID, description, err)
		return false
	}
	return true
}
