package budget

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexadvisor/forexadvisor/internal/database"
	"github.com/forexadvisor/forexadvisor/internal/events"
	"github.com/forexadvisor/forexadvisor/internal/storage"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	blob, err := storage.NewBlob(db.Conn(), zerolog.Nop())
	require.NoError(t, err)

	service := NewService(blob, events.NewManager(zerolog.Nop()), zerolog.Nop())
	service.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	return service
}

func TestBudgetSummary(t *testing.T) {
	service := setupService(t)

	require.NoError(t, service.SetIncome(150000))
	require.NoError(t, service.SetCategoryAmount("Rent", 40000))
	require.NoError(t, service.SetCategoryAmount("Groceries", 25000))

	summary, err := service.Summary()
	require.NoError(t, err)

	assert.Equal(t, 150000.0, summary.Income)
	assert.Equal(t, 65000.0, summary.TotalExpenses)
	assert.Equal(t, 85000.0, summary.Balance)
	assert.Len(t, summary.Categories, 2)
}

func TestSetCategoryAmountUpdatesInPlace(t *testing.T) {
	service := setupService(t)

	require.NoError(t, service.SetCategoryAmount("Rent", 40000))
	require.NoError(t, service.SetCategoryAmount("Rent", 45000))

	month, err := service.Current()
	require.NoError(t, err)
	require.Len(t, month.Categories, 1)
	assert.Equal(t, 45000.0, month.Categories[0].Amount)
}

func TestRemoveCategory(t *testing.T) {
	service := setupService(t)

	require.NoError(t, service.SetCategoryAmount("Rent", 40000))
	require.NoError(t, service.SetCategoryAmount("Groceries", 25000))
	require.NoError(t, service.RemoveCategory("Rent"))

	month, err := service.Current()
	require.NoError(t, err)
	require.Len(t, month.Categories, 1)
	assert.Equal(t, "Groceries", month.Categories[0].Category)

	// absent category is a no-op
	require.NoError(t, service.RemoveCategory("Travel"))
}

func TestSaveToHistoryReplacesSameMonth(t *testing.T) {
	service := setupService(t)

	require.NoError(t, service.SetIncome(100000))
	require.NoError(t, service.SetCategoryAmount("Rent", 40000))

	entry, err := service.SaveToHistory("")
	require.NoError(t, err)
	assert.Equal(t, "2026-08", entry.Month)

	require.NoError(t, service.SetIncome(120000))
	_, err = service.SaveToHistory("2026-08")
	require.NoError(t, err)

	history, err := service.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 120000.0, history[0].Income)
}

func TestMonthlyTotals(t *testing.T) {
	service := setupService(t)

	require.NoError(t, service.SetIncome(100000))
	require.NoError(t, service.SetCategoryAmount("Rent", 40000))
	_, err := service.SaveToHistory("2026-07")
	require.NoError(t, err)

	require.NoError(t, service.SetIncome(110000))
	_, err = service.SaveToHistory("2026-08")
	require.NoError(t, err)

	totals, err := service.MonthlyTotals()
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "2026-07", totals[0].Month)
	assert.Equal(t, 60000.0, totals[0].Balance)
	assert.Equal(t, "2026-08", totals[1].Month)
	assert.Equal(t, 70000.0, totals[1].Balance)
}

func TestStatePersistsAcrossServices(t *testing.T) {
	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	blob, err := storage.NewBlob(db.Conn(), zerolog.Nop())
	require.NoError(t, err)

	first := NewService(blob, events.NewManager(zerolog.Nop()), zerolog.Nop())
	require.NoError(t, first.SetIncome(90000))
	require.NoError(t, first.SetCategoryAmount("Rent", 40000))

	second := NewService(blob, events.NewManager(zerolog.Nop()), zerolog.Nop())
	month, err := second.Current()
	require.NoError(t, err)
	assert.Equal(t, 90000.0, month.Income)
	require.Len(t, month.Categories, 1)
}
