package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centimo-server/src/models"
)

type fakeFinanceStore struct {
	entries    []models.LedgerEntry
	budgets    []models.BudgetLine
	debts      []models.DebtSnapshot
	categories []models.Category

	entriesErr error
}

func (s *fakeFinanceStore) LedgerEntries(ctx context.Context, userID int64) ([]models.LedgerEntry, error) {
	return s.entries, s.entriesErr
}

func (s *fakeFinanceStore) Budgets(ctx context.Context, userID int64) ([]models.BudgetLine, error) {
	return s.budgets, nil
}

func (s *fakeFinanceStore) DebtSnapshots(ctx context.Context, userID int64) ([]models.DebtSnapshot, error) {
	return s.debts, nil
}

func (s *fakeFinanceStore) Categories(ctx context.Context, userID int64) ([]models.Category, error) {
	return s.categories, nil
}

func TestComputeFinancialHealth(t *testing.T) {
	store := &fakeFinanceStore{
		categories: []models.Category{{ID: 1, Name: "Vivienda", Bucket: models.BucketNeeds, IsActive: true}},
		entries: []models.LedgerEntry{
			income(1, 2000),
			expense(1, 600, i64(1)),
			income(2, 2000),
			expense(2, 700, i64(1)),
		},
		budgets: []models.BudgetLine{
			{MonthID: 2, Year: 2025, CategoryID: 1, Assigned: decimal.NewFromInt(800)},
		},
	}

	overview, err := NewService(store).ComputeFinancialHealth(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, overview.MonthlySummaries, 2)
	assert.InDelta(t, 4000, overview.AnnualSummary.AnnualIncome, 1e-9)
	// Budget actuals are derived from the raw expenses during load.
	assert.InDelta(t, 700, overview.MonthlySummaries[1].BudgetActual, 1e-9)
	assert.InDelta(t, 100, overview.AnnualSummary.AnnualBudgetVariance, 1e-9)
	assert.Greater(t, overview.Health.OverallHealthScore, 0.0)
	assert.InDelta(t, 100, overview.Health.BudgetAdherenceRate, 1e-9)
}

func TestComputeFinancialHealthStoreError(t *testing.T) {
	boom := errors.New("db down")
	store := &fakeFinanceStore{entriesErr: boom}

	_, err := NewService(store).ComputeFinancialHealth(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
}

func TestDebtAnalysisNoDebts(t *testing.T) {
	analysis, err := NewService(&fakeFinanceStore{}).DebtAnalysis(context.Background(), 7)
	require.NoError(t, err)

	assert.Zero(t, analysis.TotalDebt)
	assert.Empty(t, analysis.Debts)
	assert.Empty(t, analysis.Strategies)
	assert.Equal(t, []string{"You have no registered debts. Keep it up!"}, analysis.Recommendations)
}

func TestDebtAnalysisLatestMonthOnly(t *testing.T) {
	d1 := snapshot("Tarjeta", 1500, 20, 100, 100)
	d1.MonthID = 1
	d2 := snapshot("Tarjeta", 1400, 20, 100, 100)
	d2.MonthID = 2
	store := &fakeFinanceStore{
		debts:   []models.DebtSnapshot{d1, d2},
		entries: []models.LedgerEntry{income(1, 2000), income(2, 2000)},
	}

	analysis, err := NewService(store).DebtAnalysis(context.Background(), 7)
	require.NoError(t, err)

	assert.InDelta(t, 1400, analysis.TotalDebt, 1e-9)
	require.Len(t, analysis.Debts, 1)
	assert.Equal(t, "Tarjeta", analysis.Debts[0].Name)
	require.Len(t, analysis.Strategies, 3)
	// High APR and minimum-only payment both trip recommendations.
	assert.NotEmpty(t, analysis.Recommendations)
}
