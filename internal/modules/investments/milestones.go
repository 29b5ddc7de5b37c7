package investments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
	"github.com/forexadvisor/forexadvisor/internal/events"
	"github.com/forexadvisor/forexadvisor/internal/storage"
)

// Profit thresholds that trigger a one-time milestone notification. The
// sentinel key -1 marks "first profitable trade".
var milestoneThresholds = []int{10000, 50000, 100000}

const firstProfitKey = -1

// MilestoneChecker scans closed positions and fires a notification the first
// time cumulative realized profit crosses each threshold. Already-notified
// keys persist in the local cache so every milestone fires at most once ever.
type MilestoneChecker struct {
	blob     *storage.Blob
	notifier Notifier
	events   *events.Manager
	log      zerolog.Logger
}

// NewMilestoneChecker creates a milestone checker
func NewMilestoneChecker(blob *storage.Blob, notifier Notifier, ev *events.Manager, log zerolog.Logger) *MilestoneChecker {
	return &MilestoneChecker{
		blob:     blob,
		notifier: notifier,
		events:   ev,
		log:      log.With().Str("component", "milestones").Logger(),
	}
}

// Check scans the given positions once. Only closed positions count toward
// realized profit.
func (c *MilestoneChecker) Check(ctx context.Context, positions []domain.Position) error {
	closed := []domain.Position{}
	totalProfit := 0.0
	for _, p := range positions {
		if p.Closed {
			closed = append(closed, p)
			totalProfit += p.Profit()
		}
	}

	notified := []int{}
	if _, err := c.blob.GetJSON(milestonesKey, &notified); err != nil {
		return err
	}
	seen := make(map[int]bool, len(notified))
	for _, k := range notified {
		seen[k] = true
	}

	changed := false

	// First profitable trade
	if len(closed) > 0 && !seen[firstProfitKey] {
		for _, p := range closed {
			if p.Profit() > 0 {
				body := fmt.Sprintf("Congratulations! You made your first profitable trade (%s).", p.Pair)
				c.send(ctx, body)
				c.emit(firstProfitKey, p.Profit())
				notified = append(notified, firstProfitKey)
				changed = true
				break
			}
		}
	}

	// Cumulative profit milestones
	for _, m := range milestoneThresholds {
		if totalProfit >= float64(m) && !seen[m] {
			body := fmt.Sprintf("Your total profit has exceeded %d! Keep it up!", m)
			c.send(ctx, body)
			c.emit(m, totalProfit)
			notified = append(notified, m)
			changed = true
		}
	}

	if !changed {
		return nil
	}
	if err := c.blob.SetJSON(milestonesKey, notified); err != nil {
		c.log.Error().Err(err).Msg("Failed to persist notified milestones")
		return err
	}
	return nil
}

func (c *MilestoneChecker) send(ctx context.Context, body string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Send(ctx, "Milestone Achieved!", body); err != nil {
		c.log.Error().Err(err).Msg("Failed to send milestone notification")
	}
}

func (c *MilestoneChecker) emit(key int, profit float64) {
	c.events.Emit(events.MilestoneReached, "milestones", map[string]interface{}{
		"milestone": key,
		"profit":    profit,
	})
}
