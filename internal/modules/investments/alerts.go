package investments

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
	"github.com/forexadvisor/forexadvisor/internal/events"
	"github.com/forexadvisor/forexadvisor/internal/storage"
)

// AlertBook maintains the ordered list of rate alerts in the local cache.
// Alerts carry generated ids so removal works on a stable identifier rather
// than a list index that goes stale under concurrent mutation. There is no
// uniqueness constraint: the same pair/threshold can be added twice.
//
// The book only stores conditions; AlertWatchJob evaluates them against live
// rates. The mutex serializes the load-mutate-persist cycle: handlers and
// the watch job mutate the same cached list concurrently.
type AlertBook struct {
	mu     sync.Mutex
	blob   *storage.Blob
	events *events.Manager
	log    zerolog.Logger
}

// NewAlertBook creates an alert book over the local cache
func NewAlertBook(blob *storage.Blob, ev *events.Manager, log zerolog.Logger) *AlertBook {
	return &AlertBook{
		blob:   blob,
		events: ev,
		log:    log.With().Str("component", "alerts").Logger(),
	}
}

// Add appends a new alert and persists the list
func (b *AlertBook) Add(pair string, threshold float64, direction domain.AlertDirection) (domain.RateAlert, error) {
	if direction != domain.AlertAbove && direction != domain.AlertBelow {
		return domain.RateAlert{}, fmt.Errorf("invalid alert direction %q", direction)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	alerts, err := b.load()
	if err != nil {
		return domain.RateAlert{}, err
	}

	alert := domain.RateAlert{
		ID:        uuid.NewString(),
		Pair:      pair,
		Threshold: threshold,
		Direction: direction,
	}
	alerts = append(alerts, alert)

	if err := b.blob.SetJSON(alertsKey, alerts); err != nil {
		b.log.Error().Err(err).Msg("Failed to persist alerts")
		return domain.RateAlert{}, err
	}

	b.events.Emit(events.AlertCreated, "alerts", map[string]interface{}{
		"id":        alert.ID,
		"pair":      alert.Pair,
		"threshold": alert.Threshold,
		"direction": string(alert.Direction),
	})

	return alert, nil
}

// List returns all alerts in insertion order
func (b *AlertBook) List() ([]domain.RateAlert, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load()
}

// Remove deletes the alert with the given id; the order of the survivors is
// preserved. An unknown id returns domain.ErrNotFound.
func (b *AlertBook) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	alerts, err := b.load()
	if err != nil {
		return err
	}

	idx := -1
	for i, a := range alerts {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}

	alerts = append(alerts[:idx], alerts[idx+1:]...)
	if err := b.blob.SetJSON(alertsKey, alerts); err != nil {
		b.log.Error().Err(err).Msg("Failed to persist alerts")
		return err
	}

	b.events.Emit(events.AlertRemoved, "alerts", map[string]interface{}{"id": id})
	return nil
}

// load reads the cached list. Callers hold mu.
func (b *AlertBook) load() ([]domain.RateAlert, error) {
	alerts := []domain.RateAlert{}
	if _, err := b.blob.GetJSON(alertsKey, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
