package finance

import "math"

// PayoffSentinel means "no active payoff plan": projections use it whenever
// the average or total payment is zero.
const PayoffSentinel = 999

// DebtScore rates debt management in [20,100] when debt exists, 100 when
// debt-free. Higher debt-to-income never raises the score.
func DebtScore(debtToIncome, monthlyPayment, totalDebt float64) float64 {
	if totalDebt == 0 {
		return 100
	}

	score := 60.0

	switch {
	case debtToIncome > 3:
		score -= 35
	case debtToIncome > 2:
		score -= 25
	case debtToIncome > 1:
		score -= 15
	case debtToIncome > 0.5:
		score -= 5
	default:
		score += 10
	}

	if monthlyPayment > 0 {
		score += 15
	}

	return clamp(score, 20, 100)
}

// SavingsScore rates savings habits in [20,100] from the savings rate plus a
// consistency bonus.
func SavingsScore(savingsRate, monthlySavings, monthlyIncome float64) float64 {
	score := 30.0

	switch {
	case savingsRate >= 20:
		score += 50
	case savingsRate >= 15:
		score += 40
	case savingsRate >= 10:
		score += 30
	case savingsRate >= 5:
		score += 20
	case savingsRate > 0:
		score += savingsRate / 5 * 20
	default:
		score -= 10
	}

	if monthlySavings > 0 && monthlyIncome > 0 {
		score += math.Min(20, monthlySavings/monthlyIncome*100)
	}

	return clamp(score, 20, 100)
}

// IncomeStabilityScore rates income in [30,100] from variability
// (coefficient of variation) and growth.
func IncomeStabilityScore(variability, growthRate float64) float64 {
	score := 70.0

	switch {
	case variability > 30:
		score -= 30
	case variability > 20:
		score -= 20
	case variability > 10:
		score -= 10
	case variability > 5:
		score -= 5
	case variability == 0:
		score += 10
	}

	switch {
	case growthRate > 10:
		score += 15
	case growthRate > 5:
		score += 10
	case growthRate > 0:
		score += 5
	}

	switch {
	case growthRate < -10:
		score -= 15
	case growthRate < -5:
		score -= 10
	}

	return clamp(score, 30, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
