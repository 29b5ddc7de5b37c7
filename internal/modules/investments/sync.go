package investments

import (
	"context"
	"errors"
	"fmt"

	"github.com/forexadvisor/forexadvisor/internal/domain"
	"github.com/forexadvisor/forexadvisor/internal/events"
)

// Pull fetches the complete remote record set for the user and replaces the
// in-memory collection with it. This is last-writer-replaces-all, not a
// merge: any local-only position created before the pull is discarded. The
// replaced collection is persisted to the local cache. Without a remote
// store configured this is a no-op.
func (s *Store) Pull(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}

	records, err := s.remote.SelectAllByUser(ctx, s.userID)
	if err != nil {
		s.log.Error().Err(err).Msg("Remote pull failed")
		return fmt.Errorf("pull: %w", err)
	}
	if records == nil {
		records = []domain.Position{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := len(s.positions)
	s.positions = records

	if err := s.persistPositions(); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist pulled positions")
		return err
	}

	s.events.Emit(events.SyncPullComplete, "investments", map[string]interface{}{
		"records":  len(records),
		"replaced": dropped,
	})

	s.log.Info().
		Int("records", len(records)).
		Int("replaced", dropped).
		Msg("Remote pull replaced local collection")
	return nil
}

// pushAll upserts every record of the current collection to the remote
// store, keyed by (id, user_id). Runs after each collection mutation: a
// single local change costs one remote write per record. Remote state is
// always overwritten with local state; there is no version check. Callers
// hold mu.
func (s *Store) pushAll(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}

	var errs []error
	for _, p := range s.positions {
		if err := s.remote.Upsert(ctx, s.userID, p); err != nil {
			s.log.Error().Err(err).Str("id", p.ID).Msg("Remote upsert failed")
			errs = append(errs, err)
		}
	}

	s.events.Emit(events.SyncPushComplete, "investments", map[string]interface{}{
		"records": len(s.positions),
		"failed":  len(errs),
	})

	return errors.Join(errs...)
}
