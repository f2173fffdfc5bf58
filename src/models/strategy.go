package models

// PayoffStrategy is one named debt ordering with its projected cost. The
// interest figure is a flat balance x monthly-rate x months estimate, not an
// amortization schedule.
type PayoffStrategy struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Order           []string `json:"order"`
	EstimatedMonths int      `json:"estimated_months"`
	TotalInterest   float64  `json:"total_interest"`
}

type DebtDetail struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Balance      float64 `json:"balance"`
	InterestRate float64 `json:"interest_rate"`
	MinPayment   float64 `json:"min_payment"`
	DueDay       int     `json:"due_day"`
}

type DebtAnalysis struct {
	TotalDebt       float64          `json:"total_debt"`
	Debts           []DebtDetail     `json:"debts"`
	Strategies      []PayoffStrategy `json:"strategies"`
	Recommendations []string         `json:"recommendations"`
}
