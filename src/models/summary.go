package models

// MonthlySummary is derived from the month's raw rows on every read; it is
// never persisted.
type MonthlySummary struct {
	MonthID        int     `json:"month_id"`
	MonthName      string  `json:"month_name"`
	TotalIncome    float64 `json:"total_income"`
	TotalExpenses  float64 `json:"total_expenses"`
	NetCashFlow    float64 `json:"net_cash_flow"`
	SavingsRate    float64 `json:"savings_rate"`
	BudgetAssigned float64 `json:"budget_assigned"`
	BudgetActual   float64 `json:"budget_actual"`
	BudgetVariance float64 `json:"budget_variance"`
	TotalDebt      float64 `json:"total_debt"`
	DebtPayments   float64 `json:"debt_payments"`

	// Per-bucket expense actuals, keyed NEEDS/WANTS/FUTURE.
	BucketActuals map[Bucket]float64 `json:"bucket_actuals"`
}

type AnnualSummary struct {
	AnnualIncome         float64 `json:"annual_income"`
	AnnualExpenses       float64 `json:"annual_expenses"`
	AnnualNetCashFlow    float64 `json:"annual_net_cash_flow"`
	AnnualSavingsRate    float64 `json:"annual_savings_rate"`
	AnnualBudgetAssigned float64 `json:"annual_budget_assigned"`
	AnnualBudgetActual   float64 `json:"annual_budget_actual"`
	AnnualBudgetVariance float64 `json:"annual_budget_variance"`
	AnnualTotalDebt      float64 `json:"annual_total_debt"`
}
