package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centimo-server/src/models"
)

func i64(v int64) *int64 { return &v }

func income(monthID int, amount float64) models.LedgerEntry {
	return models.LedgerEntry{
		MonthID:   monthID,
		Year:      2025,
		Amount:    decimal.NewFromFloat(amount),
		Direction: models.DirectionIncome,
	}
}

func expense(monthID int, amount float64, categoryID *int64) models.LedgerEntry {
	return models.LedgerEntry{
		MonthID:    monthID,
		Year:       2025,
		Amount:     decimal.NewFromFloat(amount),
		Direction:  models.DirectionExpense,
		CategoryID: categoryID,
	}
}

func TestBuildMonthlySummaries(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Name: "Vivienda", Bucket: models.BucketNeeds},
		{ID: 2, Name: "Ocio", Bucket: models.BucketWants},
	}
	entries := []models.LedgerEntry{
		income(1, 2000),
		expense(1, 800, i64(1)),
		expense(1, 200, i64(2)),
		expense(1, 100, nil), // uncategorized; counted in totals only
		income(2, 2000),
		expense(2, 500, i64(1)),
	}
	budgets := []models.BudgetLine{
		{MonthID: 1, Year: 2025, CategoryID: 1, Assigned: decimal.NewFromInt(900)},
	}
	debts := []models.DebtSnapshot{
		snapshot("Tarjeta", 1000, 18, 50, 25),
	}
	debts[0].MonthID = 1
	fillBudgetActuals(budgets, entries)

	summaries := BuildMonthlySummaries(entries, budgets, debts, categories)
	require.Len(t, summaries, 2)

	jan := summaries[0]
	assert.Equal(t, 1, jan.MonthID)
	assert.Equal(t, "Enero", jan.MonthName)
	assert.InDelta(t, 2000, jan.TotalIncome, 1e-9)
	assert.InDelta(t, 1100, jan.TotalExpenses, 1e-9)
	assert.InDelta(t, 900, jan.NetCashFlow, 1e-9)
	assert.InDelta(t, 45, jan.SavingsRate, 1e-9)
	assert.InDelta(t, 900, jan.BudgetAssigned, 1e-9)
	assert.InDelta(t, 800, jan.BudgetActual, 1e-9)
	assert.InDelta(t, 100, jan.BudgetVariance, 1e-9)
	assert.InDelta(t, 1000, jan.TotalDebt, 1e-9)
	assert.InDelta(t, 50, jan.DebtPayments, 1e-9)
	assert.InDelta(t, 800, jan.BucketActuals[models.BucketNeeds], 1e-9)
	assert.InDelta(t, 200, jan.BucketActuals[models.BucketWants], 1e-9)

	feb := summaries[1]
	assert.Equal(t, 2, feb.MonthID)
	assert.InDelta(t, 75, feb.SavingsRate, 1e-9)
	assert.Zero(t, feb.TotalDebt)
}

func TestBuildMonthlySummariesNoIncome(t *testing.T) {
	entries := []models.LedgerEntry{expense(3, 100, nil)}
	summaries := BuildMonthlySummaries(entries, nil, nil, nil)
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].SavingsRate)
	assert.InDelta(t, -100, summaries[0].NetCashFlow, 1e-9)
}

func TestBuildAnnualSummary(t *testing.T) {
	summaries := []models.MonthlySummary{
		{MonthID: 1, TotalIncome: 2000, TotalExpenses: 1500, BudgetAssigned: 1600, BudgetActual: 1500, TotalDebt: 1000},
		{MonthID: 2, TotalIncome: 2000, TotalExpenses: 1000, BudgetAssigned: 1600, BudgetActual: 1000, TotalDebt: 900},
	}
	a := BuildAnnualSummary(summaries)

	assert.InDelta(t, 4000, a.AnnualIncome, 1e-9)
	assert.InDelta(t, 2500, a.AnnualExpenses, 1e-9)
	assert.InDelta(t, 1500, a.AnnualNetCashFlow, 1e-9)
	assert.InDelta(t, 37.5, a.AnnualSavingsRate, 1e-9)
	assert.InDelta(t, 700, a.AnnualBudgetVariance, 1e-9)
	// Debt is a balance, not a flow: the annual figure is the latest month's.
	assert.InDelta(t, 900, a.AnnualTotalDebt, 1e-9)
}

func TestBuildAnnualSummaryEmpty(t *testing.T) {
	a := BuildAnnualSummary(nil)
	assert.Zero(t, a.AnnualSavingsRate)
	assert.Zero(t, a.AnnualTotalDebt)
}

func TestFillBudgetActuals(t *testing.T) {
	budgets := []models.BudgetLine{
		{MonthID: 1, Year: 2025, CategoryID: 1, Assigned: decimal.NewFromInt(500)},
		{MonthID: 1, Year: 2025, CategoryID: 2, Assigned: decimal.NewFromInt(300)},
	}
	entries := []models.LedgerEntry{
		expense(1, 120, i64(1)),
		expense(1, 80, i64(1)),
		income(1, 2000),         // income never counts toward actuals
		expense(2, 999, i64(1)), // different month
	}
	fillBudgetActuals(budgets, entries)

	assert.True(t, budgets[0].Actual.Equal(decimal.NewFromInt(200)), budgets[0].Actual.String())
	assert.True(t, budgets[1].Actual.IsZero())
}

func TestCalculateHealthAdherence(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Name: "Vivienda", Bucket: models.BucketNeeds},
		{ID: 2, Name: "Ocio", Bucket: models.BucketWants},
	}
	budgets := []models.BudgetLine{
		{MonthID: 4, CategoryID: 1, Assigned: decimal.NewFromInt(500), Actual: decimal.NewFromInt(400)},
		{MonthID: 4, CategoryID: 2, Assigned: decimal.NewFromInt(200), Actual: decimal.NewFromInt(90)},
	}
	entries := []models.LedgerEntry{income(4, 2000), expense(4, 490, i64(1))}
	summaries := BuildMonthlySummaries(entries, budgets, nil, categories)
	annual := BuildAnnualSummary(summaries)

	h := CalculateHealth(entries, budgets, nil, categories, summaries, annual)
	assert.InDelta(t, 100, h.BudgetAdherenceRate, 1e-9)
	assert.Empty(t, h.OverBudgetCategories)
	// Actual below half of assigned flags the category.
	assert.Equal(t, []string{"Ocio"}, h.UnderutilizedCategories)
}

func TestCalculateHealthAdherenceDefaults(t *testing.T) {
	entries := []models.LedgerEntry{income(1, 1000)}
	summaries := BuildMonthlySummaries(entries, nil, nil, nil)
	annual := BuildAnnualSummary(summaries)

	h := CalculateHealth(entries, nil, nil, nil, summaries, annual)
	assert.InDelta(t, 70, h.BudgetAdherenceRate, 1e-9)
}

func TestCalculateHealthAdherenceFloor(t *testing.T) {
	budgets := []models.BudgetLine{
		{MonthID: 2, CategoryID: 1, Assigned: decimal.NewFromInt(100), Actual: decimal.NewFromInt(300)},
	}
	entries := []models.LedgerEntry{income(2, 1000), expense(2, 300, i64(1))}
	summaries := BuildMonthlySummaries(entries, budgets, nil, nil)
	annual := BuildAnnualSummary(summaries)

	h := CalculateHealth(entries, budgets, nil, nil, summaries, annual)
	assert.InDelta(t, 30, h.BudgetAdherenceRate, 1e-9)
}

func TestCalculateHealthDebtMetrics(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("Tarjeta", 1200, 18, 100, 50),
		snapshot("Tarjeta", 1100, 18, 100, 50),
	}
	debts[0].MonthID = 1
	debts[1].MonthID = 2
	entries := []models.LedgerEntry{income(1, 2400), income(2, 2400)}
	summaries := BuildMonthlySummaries(entries, nil, debts, nil)
	annual := BuildAnnualSummary(summaries)

	h := CalculateHealth(entries, nil, debts, nil, summaries, annual)
	// Latest month only counts toward the outstanding total.
	assert.InDelta(t, 1100, h.TotalDebt, 1e-9)
	// 200 paid over 2 distinct months.
	assert.InDelta(t, 100, h.AverageMonthlyDebtPayment, 1e-9)
	assert.Equal(t, 11, h.DebtPayoffProjection)
	// Annual income 4800 / 12 = 400; DTI = 1100/400.
	assert.InDelta(t, 2.75, h.DebtToIncomeRatio, 1e-9)
}

func TestCalculateHealthPayoffSentinel(t *testing.T) {
	debts := []models.DebtSnapshot{snapshot("Tarjeta", 1000, 18, 0, 50)}
	debts[0].MonthID = 1
	entries := []models.LedgerEntry{income(1, 1000)}
	summaries := BuildMonthlySummaries(entries, nil, debts, nil)
	annual := BuildAnnualSummary(summaries)

	h := CalculateHealth(entries, nil, debts, nil, summaries, annual)
	assert.Equal(t, PayoffSentinel, h.DebtPayoffProjection)
}

func TestCalculateHealthHighestExpense(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Name: "Vivienda", Bucket: models.BucketNeeds},
		{ID: 2, Name: "Ocio", Bucket: models.BucketWants},
	}
	entries := []models.LedgerEntry{
		income(2, 2000),
		expense(1, 5000, i64(2)), // earlier month ignored
		expense(2, 700, i64(1)),
		expense(2, 300, i64(2)),
		expense(2, 50, nil),
	}
	summaries := BuildMonthlySummaries(entries, nil, nil, categories)
	annual := BuildAnnualSummary(summaries)

	h := CalculateHealth(entries, nil, nil, categories, summaries, annual)
	require.NotNil(t, h.HighestExpenseCategory)
	assert.Equal(t, "Vivienda", h.HighestExpenseCategory.Name)
	assert.InDelta(t, 700, h.HighestExpenseCategory.Amount, 1e-9)
}

func TestCalculateHealthOverallIsWeightedSum(t *testing.T) {
	entries := []models.LedgerEntry{income(1, 2000), income(2, 2000), expense(2, 500, nil)}
	summaries := BuildMonthlySummaries(entries, nil, nil, nil)
	annual := BuildAnnualSummary(summaries)

	h := CalculateHealth(entries, nil, nil, nil, summaries, annual)
	b := h.HealthScoreBreakdown
	expected := b.DebtManagement*0.25 + b.SavingsHabits*0.30 + b.BudgetDiscipline*0.25 + b.IncomeStability*0.20
	assert.InDelta(t, expected, h.OverallHealthScore, 1e-9)
}

func TestCalculateHealthEmptyInputs(t *testing.T) {
	h := CalculateHealth(nil, nil, nil, nil, nil, models.AnnualSummary{})

	b := h.HealthScoreBreakdown
	assert.InDelta(t, 100, b.DebtManagement, 1e-9) // no debt at all
	assert.InDelta(t, 20, b.SavingsHabits, 1e-9)
	assert.InDelta(t, 70, b.BudgetDiscipline, 1e-9)
	assert.InDelta(t, 80, b.IncomeStability, 1e-9)
	assert.GreaterOrEqual(t, h.OverallHealthScore, 0.0)
	assert.LessOrEqual(t, h.OverallHealthScore, 100.0)
	assert.Equal(t, PayoffSentinel, h.DebtPayoffProjection)
	assert.Nil(t, h.HighestExpenseCategory)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, models.TrendStable, Trend(nil))
	assert.Equal(t, models.TrendStable, Trend([]float64{100}))
	assert.Equal(t, models.TrendStable, Trend([]float64{100, 103}))
	assert.Equal(t, models.TrendIncreasing, Trend([]float64{100, 120}))
	assert.Equal(t, models.TrendDecreasing, Trend([]float64{100, 80}))
	assert.Equal(t, models.TrendIncreasing, Trend([]float64{0, 50}))
	assert.Equal(t, models.TrendStable, Trend([]float64{0, 0}))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Zero(t, CoefficientOfVariation(nil))
	assert.Zero(t, CoefficientOfVariation([]float64{-10, 10})) // zero mean
	assert.Zero(t, CoefficientOfVariation([]float64{100, 100, 100}))
	// mean 100, stddev 10 -> 10%
	assert.InDelta(t, 10, CoefficientOfVariation([]float64{90, 110}), 1e-9)
}

func TestGrowthRate(t *testing.T) {
	assert.Zero(t, GrowthRate(nil))
	assert.Zero(t, GrowthRate([]float64{100}))
	assert.Zero(t, GrowthRate([]float64{0, 100}))
	assert.InDelta(t, 20, GrowthRate([]float64{100, 150, 120}), 1e-9)
	assert.InDelta(t, -50, GrowthRate([]float64{200, 100}), 1e-9)
}
