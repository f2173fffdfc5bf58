package finance

import (
	"context"
	"fmt"
	"math"
	"sort"

	"centimo-server/src/models"
)

// DebtAnalysis computes the three payoff strategies and threshold-rule
// recommendations over the latest month's debt snapshots.
func (s *Service) DebtAnalysis(ctx context.Context, userID int64) (*models.DebtAnalysis, error) {
	d, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(d.debts) == 0 {
		return &models.DebtAnalysis{
			TotalDebt:       0,
			Debts:           []models.DebtDetail{},
			Strategies:      []models.PayoffStrategy{},
			Recommendations: []string{"You have no registered debts. Keep it up!"},
		}, nil
	}

	latest := maxDebtMonth(d.debts)
	var current []models.DebtSnapshot
	for _, debt := range d.debts {
		if debt.MonthID == latest {
			current = append(current, debt)
		}
	}

	var totalDebt, monthlyIncome float64
	for _, debt := range current {
		totalDebt += debt.EndingBalance.InexactFloat64()
	}
	for _, e := range d.entries {
		if e.Direction == models.DirectionIncome && e.MonthID == latest {
			monthlyIncome += e.Amount.InexactFloat64()
		}
	}

	details := make([]models.DebtDetail, 0, len(current))
	for _, debt := range current {
		details = append(details, models.DebtDetail{
			ID:           debt.ID,
			Name:         debt.AccountName,
			Balance:      debt.EndingBalance.InexactFloat64(),
			InterestRate: debt.InterestRateAPR.InexactFloat64(),
			MinPayment:   debt.MinPayment.InexactFloat64(),
			DueDay:       debt.DueDay,
		})
	}

	return &models.DebtAnalysis{
		TotalDebt:       totalDebt,
		Debts:           details,
		Strategies:      Strategize(current),
		Recommendations: Recommendations(current, monthlyIncome),
	}, nil
}

// Strategize produces the three named orderings over the same debt set.
func Strategize(debts []models.DebtSnapshot) []models.PayoffStrategy {
	snowball := sortedBy(debts, func(a, b models.DebtSnapshot) bool {
		return a.EndingBalance.LessThan(b.EndingBalance)
	})
	avalanche := sortedBy(debts, func(a, b models.DebtSnapshot) bool {
		return a.InterestRateAPR.GreaterThan(b.InterestRateAPR)
	})
	highestBalance := sortedBy(debts, func(a, b models.DebtSnapshot) bool {
		return a.EndingBalance.GreaterThan(b.EndingBalance)
	})

	return []models.PayoffStrategy{
		{
			Name:            "Snowball",
			Description:     "Pay the smallest balances first to build momentum",
			Order:           names(snowball),
			EstimatedMonths: EstimatePayoffMonths(debts),
			TotalInterest:   EstimateTotalInterest(debts),
		},
		{
			Name:            "Avalanche",
			Description:     "Pay the highest interest rates first to save money",
			Order:           names(avalanche),
			EstimatedMonths: EstimatePayoffMonths(debts),
			TotalInterest:   EstimateTotalInterest(debts),
		},
		{
			Name:            "Highest Balance First",
			Description:     "Pay the largest balances first to shrink the total fastest",
			Order:           names(highestBalance),
			EstimatedMonths: EstimatePayoffMonths(debts),
			TotalInterest:   EstimateTotalInterest(debts),
		},
	}
}

// EstimatePayoffMonths is total balance over total current monthly payment,
// with the sentinel when no payments are being made.
func EstimatePayoffMonths(debts []models.DebtSnapshot) int {
	var totalPayment, totalBalance float64
	for _, d := range debts {
		totalPayment += d.PaymentMade.InexactFloat64()
		totalBalance += d.EndingBalance.InexactFloat64()
	}
	if totalPayment == 0 {
		return PayoffSentinel
	}
	return int(math.Ceil(totalBalance / totalPayment))
}

// EstimateTotalInterest applies each debt's flat monthly rate over the
// estimated payoff horizon. Deliberately simplified: the shrinking balance is
// not amortized.
func EstimateTotalInterest(debts []models.DebtSnapshot) float64 {
	months := EstimatePayoffMonths(debts)
	var total float64
	for _, d := range debts {
		monthlyRate := d.InterestRateAPR.InexactFloat64() / 12 / 100
		total += d.EndingBalance.InexactFloat64() * monthlyRate * float64(months)
	}
	return total
}

// Recommendations applies the fixed threshold rules to the current debts.
func Recommendations(debts []models.DebtSnapshot, monthlyIncome float64) []string {
	var recommendations []string

	var totalDebt, minPaymentTotal float64
	highInterest := 0
	payingMinimumOnly := false
	for _, d := range debts {
		totalDebt += d.EndingBalance.InexactFloat64()
		minPaymentTotal += d.MinPayment.InexactFloat64()
		if d.InterestRateAPR.InexactFloat64() > 15 {
			highInterest++
		}
		if d.PaymentMade.Equal(d.MinPayment) {
			payingMinimumOnly = true
		}
	}

	var debtToIncome float64
	if monthlyIncome > 0 {
		debtToIncome = totalDebt / monthlyIncome
	}

	if debtToIncome > 2 {
		recommendations = append(recommendations, "Your debt-to-income ratio is high (>200%). Consider consolidating your debts.")
	}
	if highInterest > 0 {
		recommendations = append(recommendations, fmt.Sprintf("You have %d debt(s) above 15%% APR. Prioritize paying those first.", highInterest))
	}
	if minPaymentTotal > monthlyIncome*0.3 {
		recommendations = append(recommendations, "Your minimum payments exceed 30% of your income. Look for ways to raise income or cut expenses.")
	}
	if payingMinimumOnly {
		recommendations = append(recommendations, "Try to pay more than the minimum when possible to cut payoff time and interest.")
	}

	return recommendations
}

func sortedBy(debts []models.DebtSnapshot, less func(a, b models.DebtSnapshot) bool) []models.DebtSnapshot {
	out := make([]models.DebtSnapshot, len(debts))
	copy(out, debts)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func names(debts []models.DebtSnapshot) []string {
	out := make([]string, 0, len(debts))
	for _, d := range debts {
		name := d.AccountName
		if name == "" {
			name = "Unknown"
		}
		out = append(out, name)
	}
	return out
}
