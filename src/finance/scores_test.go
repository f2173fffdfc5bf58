package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebtScoreDebtFree(t *testing.T) {
	assert.Equal(t, 100.0, DebtScore(0, 0, 0))
}

func TestDebtScoreTiers(t *testing.T) {
	tests := []struct {
		name         string
		debtToIncome float64
		payment      float64
		want         float64
	}{
		{"very high ratio", 3.5, 0, 25},
		{"high ratio", 2.5, 0, 35},
		{"elevated ratio", 1.5, 0, 45},
		{"moderate ratio", 0.8, 0, 55},
		{"low ratio", 0.3, 0, 70},
		{"low ratio with payments", 0.3, 200, 85},
		{"very high ratio with payments", 3.5, 200, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DebtScore(tt.debtToIncome, tt.payment, 5000))
		})
	}
}

func TestDebtScoreNeverBelowFloor(t *testing.T) {
	score := DebtScore(10, 0, 100000)
	assert.GreaterOrEqual(t, score, 20.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestDebtScoreMonotoneInRatio(t *testing.T) {
	// A worse ratio never yields a better score, payments held fixed.
	ratios := []float64{0.2, 0.8, 1.5, 2.5, 3.5}
	prev := 101.0
	for _, ratio := range ratios {
		score := DebtScore(ratio, 100, 1000)
		assert.LessOrEqual(t, score, prev, "ratio %v", ratio)
		prev = score
	}
}

func TestSavingsScoreTiers(t *testing.T) {
	// No consistency bonus: savings zero.
	assert.Equal(t, 80.0, SavingsScore(25, 0, 0))
	assert.Equal(t, 70.0, SavingsScore(15, 0, 0))
	assert.Equal(t, 60.0, SavingsScore(10, 0, 0))
	assert.Equal(t, 50.0, SavingsScore(5, 0, 0))
	assert.Equal(t, 20.0, SavingsScore(-5, 0, 0))
}

func TestSavingsScorePartialTier(t *testing.T) {
	// 2.5% rate lands in the proportional band: 30 + 2.5/5*20 = 40.
	assert.InDelta(t, 40.0, SavingsScore(2.5, 0, 0), 1e-9)
}

func TestSavingsScoreConsistencyBonusCapped(t *testing.T) {
	// Saving half of income caps the bonus at 20.
	assert.Equal(t, 100.0, SavingsScore(25, 1500, 3000))
}

func TestSavingsScoreBounds(t *testing.T) {
	assert.Equal(t, 20.0, SavingsScore(-100, -500, 1000))
	assert.Equal(t, 100.0, SavingsScore(90, 900, 1000))
}

func TestIncomeStabilityScore(t *testing.T) {
	// Perfectly flat income with no growth: 70 + 10.
	assert.Equal(t, 80.0, IncomeStabilityScore(0, 0))
	// Flat and growing strongly.
	assert.Equal(t, 95.0, IncomeStabilityScore(0, 12))
	// Wild swings and shrinking income hit the floor.
	assert.Equal(t, 30.0, IncomeStabilityScore(40, -20))
	// Moderate variability, slight growth.
	assert.Equal(t, 65.0, IncomeStabilityScore(15, 3))
}

func TestIncomeStabilityScoreBounds(t *testing.T) {
	for _, v := range []float64{0, 7, 15, 25, 50} {
		for _, g := range []float64{-30, -7, 0, 3, 7, 20} {
			score := IncomeStabilityScore(v, g)
			assert.GreaterOrEqual(t, score, 30.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	}
}
