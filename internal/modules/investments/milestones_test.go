package investments

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexadvisor/forexadvisor/internal/domain"
	"github.com/forexadvisor/forexadvisor/internal/events"
)

func closedPosition(id, pair string, amount, investedRate, closedRate float64) domain.Position {
	return domain.Position{
		ID:           id,
		Pair:         pair,
		Amount:       amount,
		InvestedRate: investedRate,
		Date:         "2026-07-01T00:00:00Z",
		Closed:       true,
		ClosedRate:   closedRate,
		ClosedDate:   "2026-07-10T00:00:00Z",
	}
}

func TestFirstProfitableTradeMilestone(t *testing.T) {
	notifier := &mockNotifier{}
	checker := NewMilestoneChecker(setupBlob(t), notifier, events.NewManager(zerolog.Nop()), zerolog.Nop())
	ctx := context.Background()

	positions := []domain.Position{
		// Losing trade first; it must not trigger the milestone
		closedPosition("1", "EUR/USD", 1000, 1.10, 1.05),
		closedPosition("2", "USD/PKR", 100, 280, 283),
	}

	require.NoError(t, checker.Check(ctx, positions))

	require.Len(t, notifier.titles, 1)
	assert.Equal(t, "Milestone Achieved!", notifier.titles[0])
	assert.Contains(t, notifier.bodies[0], "first profitable trade")
	assert.Contains(t, notifier.bodies[0], "USD/PKR")

	// Re-checking the same positions fires nothing
	require.NoError(t, checker.Check(ctx, positions))
	assert.Len(t, notifier.titles, 1)
}

func TestProfitMilestoneThresholds(t *testing.T) {
	notifier := &mockNotifier{}
	checker := NewMilestoneChecker(setupBlob(t), notifier, events.NewManager(zerolog.Nop()), zerolog.Nop())
	ctx := context.Background()

	// Realized profit: (283-280)*20000 = 60000, crosses 10000 and 50000
	positions := []domain.Position{
		closedPosition("1", "USD/PKR", 20000, 280, 283),
	}

	require.NoError(t, checker.Check(ctx, positions))

	// First profitable trade + two thresholds
	require.Len(t, notifier.bodies, 3)
	assert.Contains(t, notifier.bodies[1], "10000")
	assert.Contains(t, notifier.bodies[2], "50000")

	// Crossing 100000 later fires only the remaining threshold
	positions = append(positions, closedPosition("2", "USD/PKR", 20000, 280, 283))
	require.NoError(t, checker.Check(ctx, positions))
	require.Len(t, notifier.bodies, 4)
	assert.Contains(t, notifier.bodies[3], "100000")
}

func TestOpenPositionsDoNotCount(t *testing.T) {
	notifier := &mockNotifier{}
	checker := NewMilestoneChecker(setupBlob(t), notifier, events.NewManager(zerolog.Nop()), zerolog.Nop())

	positions := []domain.Position{
		{ID: "1", Pair: "USD/PKR", Amount: 100000, InvestedRate: 280, Date: "2026-07-01T00:00:00Z"},
	}

	require.NoError(t, checker.Check(context.Background(), positions))
	assert.Empty(t, notifier.titles)
}

func TestMilestoneStatePersists(t *testing.T) {
	blob := setupBlob(t)
	notifier := &mockNotifier{}
	ctx := context.Background()

	positions := []domain.Position{closedPosition("1", "USD/PKR", 100, 280, 283)}

	checker := NewMilestoneChecker(blob, notifier, events.NewManager(zerolog.Nop()), zerolog.Nop())
	require.NoError(t, checker.Check(ctx, positions))
	require.Len(t, notifier.titles, 1)

	// A fresh checker over the same cache remembers what already fired
	again := NewMilestoneChecker(blob, notifier, events.NewManager(zerolog.Nop()), zerolog.Nop())
	require.NoError(t, again.Check(ctx, positions))
	assert.Len(t, notifier.titles, 1)
}
