// Package budget tracks monthly income and expense categories with a history
// of saved monthly snapshots, persisted in the local cache.
package budget

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/events"
	"github.com/forexadvisor/forexadvisor/internal/storage"
)

// Service owns the current month's budget and the snapshot history
type Service struct {
	mu     sync.Mutex
	blob   *storage.Blob
	events *events.Manager
	now    func() time.Time
	log    zerolog.Logger
}

// NewService creates a budget service over the local cache
func NewService(blob *storage.Blob, ev *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		blob:   blob,
		events: ev,
		now:    time.Now,
		log:    log.With().Str("service", "budget").Logger(),
	}
}

// Current returns the working month's budget
func (s *Service) Current() (Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMonth()
}

// Summary returns the working month with derived totals
func (s *Service) Summary() (Summary, error) {
	month, err := s.Current()
	if err != nil {
		return Summary{}, err
	}

	expenses := totalExpenses(month.Categories)
	return Summary{
		Income:        month.Income,
		Categories:    month.Categories,
		TotalExpenses: expenses,
		Balance:       month.Income - expenses,
	}, nil
}

// SetIncome sets the working month's income
func (s *Service) SetIncome(income float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	month, err := s.loadMonth()
	if err != nil {
		return err
	}
	month.Income = income
	return s.blob.SetJSON(budgetKey, month)
}

// SetCategoryAmount adds or updates one expense category
func (s *Service) SetCategoryAmount(category string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	month, err := s.loadMonth()
	if err != nil {
		return err
	}

	found := false
	for i := range month.Categories {
		if month.Categories[i].Category == category {
			month.Categories[i].Amount = amount
			found = true
			break
		}
	}
	if !found {
		month.Categories = append(month.Categories, ExpenseCategory{Category: category, Amount: amount})
	}

	return s.blob.SetJSON(budgetKey, month)
}

// RemoveCategory deletes one expense category. Removing an absent category
// is a no-op.
func (s *Service) RemoveCategory(category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	month, err := s.loadMonth()
	if err != nil {
		return err
	}

	kept := month.Categories[:0]
	for _, c := range month.Categories {
		if c.Category != category {
			kept = append(kept, c)
		}
	}
	month.Categories = kept

	return s.blob.SetJSON(budgetKey, month)
}

// SaveToHistory snapshots the working month into the history under the given
// month key ("YYYY-MM", empty = current month). A snapshot for the same
// month replaces the previous one.
func (s *Service) SaveToHistory(monthKey string) (HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if monthKey == "" {
		monthKey = s.now().Format("2006-01")
	}

	month, err := s.loadMonth()
	if err != nil {
		return HistoryEntry{}, err
	}

	entry := HistoryEntry{
		Month:    monthKey,
		Income:   month.Income,
		Expenses: month.Categories,
	}

	history, err := s.loadHistory()
	if err != nil {
		return HistoryEntry{}, err
	}

	replaced := false
	for i := range history {
		if history[i].Month == monthKey {
			history[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		history = append(history, entry)
	}

	if err := s.blob.SetJSON(historyKey, history); err != nil {
		return HistoryEntry{}, err
	}

	s.events.Emit(events.BudgetSnapshotSaved, "budget", map[string]interface{}{
		"month":    monthKey,
		"income":   entry.Income,
		"expenses": totalExpenses(entry.Expenses),
	})

	return entry, nil
}

// History returns all saved snapshots in insertion order
func (s *Service) History() ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory()
}

// MonthlyTotals returns the per-month aggregates for the trend chart
func (s *Service) MonthlyTotals() ([]MonthlyTotal, error) {
	history, err := s.History()
	if err != nil {
		return nil, err
	}

	totals := make([]MonthlyTotal, len(history))
	for i, h := range history {
		expenses := totalExpenses(h.Expenses)
		totals[i] = MonthlyTotal{
			Month:    h.Month,
			Income:   h.Income,
			Expenses: expenses,
			Balance:  h.Income - expenses,
		}
	}
	return totals, nil
}

// loadMonth reads the working month. Callers hold mu.
func (s *Service) loadMonth() (Month, error) {
	month := Month{Categories: []ExpenseCategory{}}
	if _, err := s.blob.GetJSON(budgetKey, &month); err != nil {
		return Month{}, err
	}
	if month.Categories == nil {
		month.Categories = []ExpenseCategory{}
	}
	return month, nil
}

// loadHistory reads the snapshot history. Callers hold mu.
func (s *Service) loadHistory() ([]HistoryEntry, error) {
	history := []HistoryEntry{}
	if _, err := s.blob.GetJSON(historyKey, &history); err != nil {
		return nil, err
	}
	return history, nil
}
