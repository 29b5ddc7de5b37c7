package investments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
	"github.com/forexadvisor/forexadvisor/internal/events"
	"github.com/forexadvisor/forexadvisor/internal/storage"
)

// Store owns the in-memory position collection and the wallet balance for one
// authenticated user. Mutations apply in memory first, then persist to the
// local cache and push to the remote store; persistence failures never roll
// the in-memory state back. They are logged and returned, so callers may
// retry or surface them, but the in-memory state stays the user-visible
// truth either way.
type Store struct {
	mu        sync.Mutex
	positions []domain.Position
	wallet    float64

	blob     *storage.Blob
	remote   RemoteStore // nil when unauthenticated or offline
	notifier Notifier
	events   *events.Manager
	userID   string
	now      func() time.Time
	log      zerolog.Logger
}

// StoreConfig holds the store's collaborators
type StoreConfig struct {
	Blob          *storage.Blob
	Remote        RemoteStore
	Notifier      Notifier
	Events        *events.Manager
	UserID        string
	WalletDefault float64
	Now           func() time.Time // defaults to time.Now
	Log           zerolog.Logger
}

// NewStore creates a position store and loads the local cache
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Store{
		positions: []domain.Position{},
		wallet:    cfg.WalletDefault,
		blob:      cfg.Blob,
		remote:    cfg.Remote,
		notifier:  cfg.Notifier,
		events:    cfg.Events,
		userID:    cfg.UserID,
		now:       cfg.Now,
		log:       cfg.Log.With().Str("component", "investments").Logger(),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the cached collection and wallet balance
func (s *Store) load() error {
	var cached []domain.Position
	ok, err := s.blob.GetJSON(positionsKey, &cached)
	if err != nil {
		return fmt.Errorf("load positions: %w", err)
	}
	if ok {
		s.positions = cached
	}

	raw, ok, err := s.blob.Get(walletKey)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}
	if ok {
		balance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("load wallet: %w", err)
		}
		s.wallet = balance
	}

	s.log.Info().
		Int("positions", len(s.positions)).
		Float64("wallet", s.wallet).
		Msg("Local cache loaded")
	return nil
}

// Add opens a new position and decrements the wallet by the invested amount.
// There is no over-spend check here; the caller validates amount against the
// wallet before asking.
func (s *Store) Add(ctx context.Context, pair string, amount, investedRate float64) (domain.Position, error) {
	if amount < 0 {
		return domain.Position{}, ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := domain.Position{
		ID:           s.nextID(),
		Pair:         pair,
		Amount:       amount,
		InvestedRate: investedRate,
		Date:         s.now().UTC().Format(time.RFC3339),
		Closed:       false,
	}

	s.positions = append(s.positions, pos)
	s.wallet -= amount

	var errs []error
	if err := s.persistPositions(); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist positions")
		errs = append(errs, err)
	}
	if err := s.persistWallet(); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist wallet")
		errs = append(errs, err)
	}
	if err := s.pushAll(ctx); err != nil {
		errs = append(errs, err)
	}

	s.events.Emit(events.PositionOpened, "investments", map[string]interface{}{
		"id":     pos.ID,
		"pair":   pos.Pair,
		"amount": pos.Amount,
		"rate":   pos.InvestedRate,
	})

	return pos, errors.Join(errs...)
}

// Close marks a position closed at the given rate and notifies the user. A
// missing id returns domain.ErrNotFound with state unchanged; closing an
// already-closed position is a no-op.
func (s *Store) Close(ctx context.Context, id string, closedRate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	if s.positions[idx].Closed {
		return nil
	}

	pos := &s.positions[idx]
	pos.Closed = true
	pos.ClosedRate = closedRate
	pos.ClosedDate = s.now().UTC().Format(time.RFC3339)

	var errs []error
	if err := s.persistPositions(); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist positions")
		errs = append(errs, err)
	}
	if err := s.pushAll(ctx); err != nil {
		errs = append(errs, err)
	}

	if s.notifier != nil {
		body := fmt.Sprintf("Your %s trade has been closed at rate %s.", pos.Pair, formatRate(closedRate))
		if err := s.notifier.Send(ctx, "Trade Closed", body); err != nil {
			s.log.Error().Err(err).Msg("Failed to send close notification")
		}
	}

	s.events.Emit(events.PositionClosed, "investments", map[string]interface{}{
		"id":          pos.ID,
		"pair":        pos.Pair,
		"closed_rate": pos.ClosedRate,
		"profit":      pos.Profit(),
	})

	return errors.Join(errs...)
}

// EditAmount sets a position's amount. The edit applies to open and closed
// positions alike, matching the behavior users already rely on, even though
// editing a closed position retroactively changes its realized profit.
// Remotely this is a single-field update, not a full-collection push.
func (s *Store) EditAmount(ctx context.Context, id string, newAmount float64) error {
	if newAmount < 0 {
		return ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	s.positions[idx].Amount = newAmount

	var errs []error
	if err := s.persistPositions(); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist positions")
		errs = append(errs, err)
	}
	if s.remote != nil {
		if err := s.remote.UpdateAmount(ctx, s.userID, id, newAmount); err != nil {
			s.log.Error().Err(err).Str("id", id).Msg("Failed to update remote amount")
			errs = append(errs, err)
		}
	}

	s.events.Emit(events.PositionEdited, "investments", map[string]interface{}{
		"id":     id,
		"amount": newAmount,
	})

	return errors.Join(errs...)
}

// Delete removes a position locally and from the remote store
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	s.positions = append(s.positions[:idx], s.positions[idx+1:]...)

	var errs []error
	if err := s.persistPositions(); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist positions")
		errs = append(errs, err)
	}
	if s.remote != nil {
		if err := s.remote.Delete(ctx, s.userID, id); err != nil {
			s.log.Error().Err(err).Str("id", id).Msg("Failed to delete remote record")
			errs = append(errs, err)
		}
	}

	s.events.Emit(events.PositionDeleted, "investments", map[string]interface{}{
		"id": id,
	})

	return errors.Join(errs...)
}

// Positions returns a copy of the full collection in creation order
func (s *Store) Positions() []domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// Open returns the open positions, recomputed on every call
func (s *Store) Open() []domain.Position {
	return s.filter(false)
}

// Closed returns the closed positions, recomputed on every call
func (s *Store) Closed() []domain.Position {
	return s.filter(true)
}

// Wallet returns the current spendable balance
func (s *Store) Wallet() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

func (s *Store) filter(closed bool) []domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Position{}
	for _, p := range s.positions {
		if p.Closed == closed {
			out = append(out, p)
		}
	}
	return out
}

// indexOf returns the index of id in the collection, or -1. Callers hold mu.
func (s *Store) indexOf(id string) int {
	for i, p := range s.positions {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// nextID derives a unique id from the current time in milliseconds. Two adds
// landing in the same millisecond bump it forward until it is unique within
// the collection. Callers hold mu.
func (s *Store) nextID() string {
	ms := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if s.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// persistPositions writes the whole collection to the local cache. Callers hold mu.
func (s *Store) persistPositions() error {
	return s.blob.SetJSON(positionsKey, s.positions)
}

// persistWallet writes the wallet balance to the local cache. Callers hold mu.
func (s *Store) persistWallet() error {
	return s.blob.Set(walletKey, formatRate(s.wallet))
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
