package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centimo-server/src/models"
)

func snapshot(name string, balance, apr, payment, minPayment float64) models.DebtSnapshot {
	return models.DebtSnapshot{
		MonthID:         6,
		Year:            2025,
		AccountName:     name,
		EndingBalance:   decimal.NewFromFloat(balance),
		InterestRateAPR: decimal.NewFromFloat(apr),
		PaymentMade:     decimal.NewFromFloat(payment),
		MinPayment:      decimal.NewFromFloat(minPayment),
	}
}

func TestStrategizeOrderings(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("Tarjeta A", 500, 10, 50, 25),
		snapshot("Préstamo B", 1200, 22, 100, 60),
	}

	strategies := Strategize(debts)
	require.Len(t, strategies, 3)

	byName := map[string]models.PayoffStrategy{}
	for _, s := range strategies {
		byName[s.Name] = s
	}

	assert.Equal(t, []string{"Tarjeta A", "Préstamo B"}, byName["Snowball"].Order)
	assert.Equal(t, []string{"Préstamo B", "Tarjeta A"}, byName["Avalanche"].Order)
	assert.Equal(t, []string{"Préstamo B", "Tarjeta A"}, byName["Highest Balance First"].Order)
}

func TestStrategizeStableTieBreak(t *testing.T) {
	// Equal balances keep input order in every ordering that ties.
	debts := []models.DebtSnapshot{
		snapshot("Primero", 800, 12, 40, 20),
		snapshot("Segundo", 800, 12, 40, 20),
	}
	strategies := Strategize(debts)
	for _, s := range strategies {
		assert.Equal(t, []string{"Primero", "Segundo"}, s.Order, s.Name)
	}
}

func TestEstimatePayoffMonths(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("A", 500, 10, 50, 25),
		snapshot("B", 1200, 22, 100, 60),
	}
	// 1700 / 150 = 11.33 → 12
	assert.Equal(t, 12, EstimatePayoffMonths(debts))
}

func TestEstimatePayoffMonthsSentinel(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("A", 500, 10, 0, 25),
	}
	assert.Equal(t, PayoffSentinel, EstimatePayoffMonths(debts))
}

func TestEstimateTotalInterest(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("A", 1200, 12, 100, 50),
	}
	// 12 months at 1% flat monthly: 1200 * 0.01 * 12 = 144.
	assert.InDelta(t, 144.0, EstimateTotalInterest(debts), 1e-9)
}

func TestRecommendationsThresholds(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("Tarjeta", 5000, 20, 100, 100),
	}
	recs := Recommendations(debts, 2000)

	// DTI 2.5, one >15% APR, and paying exactly the minimum.
	assert.Len(t, recs, 3)
	assert.Contains(t, recs[0], "debt-to-income")
	assert.Contains(t, recs[1], "15% APR")
	assert.Contains(t, recs[2], "more than the minimum")
}

func TestRecommendationsMinPaymentBurden(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("Hipoteca", 1000, 3, 700, 650),
	}
	recs := Recommendations(debts, 2000)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "30% of your income")
}

func TestRecommendationsQuietWhenHealthy(t *testing.T) {
	debts := []models.DebtSnapshot{
		snapshot("Coche", 1000, 5, 300, 100),
	}
	assert.Empty(t, Recommendations(debts, 3000))
}
