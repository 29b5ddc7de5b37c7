// Package investments implements the investment position store: CRUD over
// the position collection with wallet bookkeeping, reconciliation against the
// remote record store, rate alerts, reminders and milestone notifications.
package investments

import (
	"context"
	"errors"

	"github.com/forexadvisor/forexadvisor/internal/domain"
)

// Local cache keys. The values are the JSON blob formats the original
// installs wrote, so upgrades keep the user's data.
const (
	positionsKey  = "investments_v1"
	walletKey     = "wallet_balance_v1"
	alertsKey     = "forex_rate_alerts_v1"
	milestonesKey = "milestones_notified_v1"
)

// ErrNegativeAmount is returned when a mutation would set a negative amount
var ErrNegativeAmount = errors.New("amount must be non-negative")

// RemoteStore is the remote reconciliation service this store keeps its
// collection aligned with. Implemented by remote.InvestmentStore; nil-able
// via the offline store wrapper.
type RemoteStore interface {
	SelectAllByUser(ctx context.Context, userID string) ([]domain.Position, error)
	Upsert(ctx context.Context, userID string, p domain.Position) error
	UpdateAmount(ctx context.Context, userID, id string, amount float64) error
	Delete(ctx context.Context, userID, id string) error
}

// Notifier delivers immediate device notifications
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}
