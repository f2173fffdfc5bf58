// Package finance derives monthly/annual rollups and the composite
// financial-health score from the raw ledger. Everything here is recomputed
// on read; nothing derived is ever persisted.
package finance

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"centimo-server/src/models"
)

// Store is the read surface the aggregator consumes. All reads are
// independent and are fanned out concurrently.
type Store interface {
	LedgerEntries(ctx context.Context, userID int64) ([]models.LedgerEntry, error)
	Budgets(ctx context.Context, userID int64) ([]models.BudgetLine, error)
	DebtSnapshots(ctx context.Context, userID int64) ([]models.DebtSnapshot, error)
	Categories(ctx context.Context, userID int64) ([]models.Category, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Overview is the full derived picture handed to the presentation layer.
type Overview struct {
	MonthlySummaries []models.MonthlySummary       `json:"monthly_summaries"`
	AnnualSummary    models.AnnualSummary          `json:"annual_summary"`
	Health           models.FinancialHealthMetrics `json:"financial_health"`
}

type data struct {
	entries    []models.LedgerEntry
	budgets    []models.BudgetLine
	debts      []models.DebtSnapshot
	categories []models.Category
}

func (s *Service) load(ctx context.Context, userID int64) (*data, error) {
	var d data
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.entries, err = s.store.LedgerEntries(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.budgets, err = s.store.Budgets(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.debts, err = s.store.DebtSnapshots(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.categories, err = s.store.Categories(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.categories = models.DedupeCategories(d.categories)
	fillBudgetActuals(d.budgets, d.entries)
	return &d, nil
}

// fillBudgetActuals derives each budget line's actual spend from the raw
// expense rows; actuals are never stored.
func fillBudgetActuals(budgets []models.BudgetLine, entries []models.LedgerEntry) {
	type key struct {
		monthID    int
		year       int
		categoryID int64
	}
	actuals := map[key]decimal.Decimal{}
	for _, e := range entries {
		if e.Direction != models.DirectionExpense || e.CategoryID == nil {
			continue
		}
		k := key{e.MonthID, e.Year, *e.CategoryID}
		actuals[k] = actuals[k].Add(e.Amount)
	}
	for i := range budgets {
		b := &budgets[i]
		b.Actual = actuals[key{b.MonthID, b.Year, b.CategoryID}]
	}
}

// ComputeFinancialHealth reads the full historical ledger and produces the
// rollups plus the health metrics.
func (s *Service) ComputeFinancialHealth(ctx context.Context, userID int64) (*Overview, error) {
	d, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := BuildMonthlySummaries(d.entries, d.budgets, d.debts, d.categories)
	annual := BuildAnnualSummary(summaries)
	health := CalculateHealth(d.entries, d.budgets, d.debts, d.categories, summaries, annual)

	return &Overview{
		MonthlySummaries: summaries,
		AnnualSummary:    annual,
		Health:           health,
	}, nil
}

var monthNames = [13]string{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// MonthName returns the display name for a month id (1-12).
func MonthName(monthID int) string {
	if monthID < 1 || monthID > 12 {
		return ""
	}
	return monthNames[monthID]
}

// BuildMonthlySummaries groups the raw rows by month id and derives one
// summary per month that has any data, sorted ascending.
func BuildMonthlySummaries(entries []models.LedgerEntry, budgets []models.BudgetLine, debts []models.DebtSnapshot, categories []models.Category) []models.MonthlySummary {
	bucketByCategory := make(map[int64]models.Bucket, len(categories))
	for _, c := range categories {
		bucketByCategory[c.ID] = c.Bucket
	}

	byMonth := make(map[int]*models.MonthlySummary)
	summary := func(monthID int) *models.MonthlySummary {
		if s, ok := byMonth[monthID]; ok {
			return s
		}
		s := &models.MonthlySummary{
			MonthID:       monthID,
			MonthName:     MonthName(monthID),
			BucketActuals: map[models.Bucket]float64{},
		}
		byMonth[monthID] = s
		return s
	}

	for _, e := range entries {
		s := summary(e.MonthID)
		amount := e.Amount.InexactFloat64()
		switch e.Direction {
		case models.DirectionIncome:
			s.TotalIncome += amount
		case models.DirectionExpense:
			s.TotalExpenses += amount
			if e.CategoryID != nil {
				if bucket, ok := bucketByCategory[*e.CategoryID]; ok {
					s.BucketActuals[bucket] += amount
				}
			}
		}
	}

	for _, b := range budgets {
		s := summary(b.MonthID)
		s.BudgetAssigned += b.Assigned.InexactFloat64()
		s.BudgetActual += b.Actual.InexactFloat64()
	}

	for _, d := range debts {
		s := summary(d.MonthID)
		s.TotalDebt += d.EndingBalance.InexactFloat64()
		s.DebtPayments += d.PaymentMade.InexactFloat64()
	}

	summaries := make([]models.MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		s.NetCashFlow = s.TotalIncome - s.TotalExpenses
		if s.TotalIncome > 0 {
			s.SavingsRate = s.NetCashFlow / s.TotalIncome * 100
		}
		s.BudgetVariance = s.BudgetAssigned - s.BudgetActual
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].MonthID < summaries[j].MonthID })
	return summaries
}

// BuildAnnualSummary totals the monthly summaries. Annual debt is the latest
// month's outstanding balance, not a sum across months.
func BuildAnnualSummary(summaries []models.MonthlySummary) models.AnnualSummary {
	var a models.AnnualSummary
	for _, s := range summaries {
		a.AnnualIncome += s.TotalIncome
		a.AnnualExpenses += s.TotalExpenses
		a.AnnualBudgetAssigned += s.BudgetAssigned
		a.AnnualBudgetActual += s.BudgetActual
	}
	a.AnnualNetCashFlow = a.AnnualIncome - a.AnnualExpenses
	if a.AnnualIncome > 0 {
		a.AnnualSavingsRate = a.AnnualNetCashFlow / a.AnnualIncome * 100
	}
	a.AnnualBudgetVariance = a.AnnualBudgetAssigned - a.AnnualBudgetActual
	if len(summaries) > 0 {
		a.AnnualTotalDebt = summaries[len(summaries)-1].TotalDebt
	}
	return a
}

// CalculateHealth derives the composite health metrics. The weights and
// floor/ceiling constants are product contract; do not tune them here.
func CalculateHealth(entries []models.LedgerEntry, budgets []models.BudgetLine, debts []models.DebtSnapshot, categories []models.Category, summaries []models.MonthlySummary, annual models.AnnualSummary) models.FinancialHealthMetrics {
	nameByCategory := make(map[int64]string, len(categories))
	for _, c := range categories {
		nameByCategory[c.ID] = c.Name
	}

	// Debt metrics
	var totalDebt float64
	latestDebtMonth := maxDebtMonth(debts)
	for _, d := range debts {
		if d.MonthID == latestDebtMonth {
			totalDebt += d.EndingBalance.InexactFloat64()
		}
	}
	averageMonthlyDebtPayment := averageDebtPayment(debts)

	var averageMonthlyIncome float64
	if annual.AnnualIncome > 0 {
		averageMonthlyIncome = annual.AnnualIncome / 12
	}
	var debtToIncomeRatio float64
	if averageMonthlyIncome > 0 {
		debtToIncomeRatio = totalDebt / averageMonthlyIncome
	}
	debtPayoffProjection := PayoffSentinel
	if averageMonthlyDebtPayment > 0 {
		debtPayoffProjection = int(math.Ceil(totalDebt / averageMonthlyDebtPayment))
	}

	// Savings metrics
	savingsRate := annual.AnnualSavingsRate
	averageMonthlySavings := annual.AnnualNetCashFlow / 12
	projectedAnnualSavings := averageMonthlySavings * 12

	// Budget adherence, over the latest budgeted month
	latestBudgetMonth := 0
	for _, b := range budgets {
		if b.MonthID > latestBudgetMonth {
			latestBudgetMonth = b.MonthID
		}
	}
	var budgeted, onTrack int
	overBudget := []string{}
	underutilized := []string{}
	for _, b := range budgets {
		if b.MonthID != latestBudgetMonth {
			continue
		}
		assigned := b.Assigned.InexactFloat64()
		actual := b.Actual.InexactFloat64()
		if assigned <= 0 {
			continue
		}
		budgeted++
		if actual <= assigned {
			onTrack++
		}
		name := nameByCategory[b.CategoryID]
		if name == "" {
			continue
		}
		if actual > assigned {
			overBudget = append(overBudget, name)
		}
		if actual < assigned*0.5 {
			underutilized = append(underutilized, name)
		}
	}
	// 70 is the default for users with no budget yet; 30 is the floor so a
	// bad first month does not zero the score.
	budgetAdherenceRate := 70.0
	if budgeted > 0 {
		budgetAdherenceRate = math.Max(30, float64(onTrack)/float64(budgeted)*100)
	}

	// Spending patterns
	averageMonthlyExpenses := annual.AnnualExpenses / 12
	highestExpenseCategory := highestExpense(entries, nameByCategory)

	recent := summaries
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	expenses := make([]float64, 0, len(recent))
	incomes := make([]float64, 0, len(summaries))
	for _, s := range recent {
		expenses = append(expenses, s.TotalExpenses)
	}
	for _, s := range summaries {
		incomes = append(incomes, s.TotalIncome)
	}
	expenseTrend := Trend(expenses)

	incomeVariability := CoefficientOfVariation(incomes)
	incomeGrowthRate := GrowthRate(incomes)

	breakdown := models.HealthScoreBreakdown{
		DebtManagement:   DebtScore(debtToIncomeRatio, averageMonthlyDebtPayment, totalDebt),
		SavingsHabits:    SavingsScore(savingsRate, averageMonthlySavings, averageMonthlyIncome),
		BudgetDiscipline: budgetAdherenceRate,
		IncomeStability:  IncomeStabilityScore(incomeVariability, incomeGrowthRate),
	}
	overall := breakdown.DebtManagement*0.25 +
		breakdown.SavingsHabits*0.30 +
		breakdown.BudgetDiscipline*0.25 +
		breakdown.IncomeStability*0.20

	return models.FinancialHealthMetrics{
		DebtToIncomeRatio:         debtToIncomeRatio,
		TotalDebt:                 totalDebt,
		AverageMonthlyDebtPayment: averageMonthlyDebtPayment,
		DebtPayoffProjection:      debtPayoffProjection,

		SavingsRate:            savingsRate,
		AverageMonthlySavings:  averageMonthlySavings,
		ProjectedAnnualSavings: projectedAnnualSavings,

		BudgetAdherenceRate:     budgetAdherenceRate,
		OverBudgetCategories:    overBudget,
		UnderutilizedCategories: underutilized,

		AverageMonthlyExpenses: averageMonthlyExpenses,
		HighestExpenseCategory: highestExpenseCategory,
		ExpenseTrend:           expenseTrend,

		AverageMonthlyIncome: averageMonthlyIncome,
		IncomeVariability:    incomeVariability,
		IncomeGrowthRate:     incomeGrowthRate,

		OverallHealthScore:   overall,
		HealthScoreBreakdown: breakdown,
	}
}

func maxDebtMonth(debts []models.DebtSnapshot) int {
	latest := 0
	for _, d := range debts {
		if d.MonthID > latest {
			latest = d.MonthID
		}
	}
	return latest
}

// averageDebtPayment is total payments across all snapshots divided by the
// number of distinct months with snapshots.
func averageDebtPayment(debts []models.DebtSnapshot) float64 {
	if len(debts) == 0 {
		return 0
	}
	months := map[int]struct{}{}
	var total float64
	for _, d := range debts {
		total += d.PaymentMade.InexactFloat64()
		months[d.MonthID] = struct{}{}
	}
	return total / float64(len(months))
}

// highestExpense totals the latest month's expenses per category name.
func highestExpense(entries []models.LedgerEntry, nameByCategory map[int64]string) *models.ExpenseCategoryTotal {
	latest := 0
	for _, e := range entries {
		if e.Direction == models.DirectionExpense && e.MonthID > latest {
			latest = e.MonthID
		}
	}
	if latest == 0 {
		return nil
	}
	totals := map[string]float64{}
	for _, e := range entries {
		if e.Direction != models.DirectionExpense || e.MonthID != latest {
			continue
		}
		name := "Uncategorized"
		if e.CategoryID != nil {
			if n, ok := nameByCategory[*e.CategoryID]; ok {
				name = n
			}
		}
		totals[name] += e.Amount.InexactFloat64()
	}
	var top *models.ExpenseCategoryTotal
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic tie-break
	for _, name := range names {
		amount := totals[name]
		if top == nil || amount > top.Amount {
			top = &models.ExpenseCategoryTotal{Name: name, Amount: amount}
		}
	}
	return top
}

// Trend splits the series into halves and compares averages; a swing beyond
// 5 percent either way breaks "stable".
func Trend(values []float64) models.ExpenseTrend {
	if len(values) < 2 {
		return models.TrendStable
	}
	half := len(values) / 2
	firstAvg := mean(values[:half])
	secondAvg := mean(values[half:])
	if firstAvg == 0 {
		if secondAvg > 0 {
			return models.TrendIncreasing
		}
		return models.TrendStable
	}
	change := (secondAvg - firstAvg) / firstAvg * 100
	switch {
	case change > 5:
		return models.TrendIncreasing
	case change < -5:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// CoefficientOfVariation is stddev/mean x100; 0 for empty or zero-mean input.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	if m == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / m * 100
}

// GrowthRate is (last-first)/first x100; 0 when undefined.
func GrowthRate(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	first := values[0]
	last := values[len(values)-1]
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
