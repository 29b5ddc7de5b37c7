package budget

// Local cache keys, kept from the original data format
const (
	budgetKey  = "budget_data_v2"
	historyKey = "budget_history_v2"
)

// ExpenseCategory is one named spending bucket of a month
type ExpenseCategory struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Month is the current month's working budget
type Month struct {
	Income     float64           `json:"income"`
	Categories []ExpenseCategory `json:"categories"`
}

// HistoryEntry is a saved monthly snapshot
type HistoryEntry struct {
	Month    string            `json:"month"` // e.g. "2026-08"
	Income   float64           `json:"income"`
	Expenses []ExpenseCategory `json:"expenses"`
}

// MonthlyTotal is the per-month aggregate used for the trend chart
type MonthlyTotal struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// Summary is the current month plus its derived totals
type Summary struct {
	Income        float64           `json:"income"`
	Categories    []ExpenseCategory `json:"categories"`
	TotalExpenses float64           `json:"totalExpenses"`
	Balance       float64           `json:"balance"`
}

func totalExpenses(categories []ExpenseCategory) float64 {
	sum := 0.0
	for _, c := range categories {
		sum += c.Amount
	}
	return sum
}
