package models

type ExpenseTrend string

const (
	TrendIncreasing ExpenseTrend = "increasing"
	TrendDecreasing ExpenseTrend = "decreasing"
	TrendStable     ExpenseTrend = "stable"
)

type ExpenseCategoryTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type HealthScoreBreakdown struct {
	DebtManagement   float64 `json:"debt_management"`
	SavingsHabits    float64 `json:"savings_habits"`
	BudgetDiscipline float64 `json:"budget_discipline"`
	IncomeStability  float64 `json:"income_stability"`
}

type FinancialHealthMetrics struct {
	// Debt metrics
	DebtToIncomeRatio         float64 `json:"debt_to_income_ratio"`
	TotalDebt                 float64 `json:"total_debt"`
	AverageMonthlyDebtPayment float64 `json:"average_monthly_debt_payment"`
	DebtPayoffProjection      int     `json:"debt_payoff_projection"` // months, 999 = no active plan

	// Savings metrics
	SavingsRate            float64 `json:"savings_rate"`
	AverageMonthlySavings  float64 `json:"average_monthly_savings"`
	ProjectedAnnualSavings float64 `json:"projected_annual_savings"`

	// Budget adherence
	BudgetAdherenceRate     float64  `json:"budget_adherence_rate"`
	OverBudgetCategories    []string `json:"over_budget_categories"`
	UnderutilizedCategories []string `json:"underutilized_categories"`

	// Spending patterns
	AverageMonthlyExpenses float64               `json:"average_monthly_expenses"`
	HighestExpenseCategory *ExpenseCategoryTotal `json:"highest_expense_category"`
	ExpenseTrend           ExpenseTrend          `json:"expense_trend"`

	// Income stability
	AverageMonthlyIncome float64 `json:"average_monthly_income"`
	IncomeVariability    float64 `json:"income_variability"` // coefficient of variation, x100
	IncomeGrowthRate     float64 `json:"income_growth_rate"` // percent

	OverallHealthScore   float64              `json:"overall_health_score"`
	HealthScoreBreakdown HealthScoreBreakdown `json:"health_score_breakdown"`
}
