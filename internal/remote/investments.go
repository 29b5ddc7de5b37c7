package remote

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
)

// InvestmentStore reads and writes investment records in the remote
// `investments` table. Every row is scoped by user_id; writes always
// overwrite remote state with local state (last write wins).
type InvestmentStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewInvestmentStore creates a store backed by the given client
func NewInvestmentStore(client *Client, log zerolog.Logger) *InvestmentStore {
	return &InvestmentStore{
		pool: client.Pool(),
		log:  log.With().Str("repo", "remote_investments").Logger(),
	}
}

const investmentSelectCols = `id, pair, amount, invested_rate, date, closed, closed_rate, closed_date`

func scanInvestmentRows(rows pgx.Rows) ([]domain.Position, error) {
	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		var closedRate *float64
		var closedDate *string

		if err := rows.Scan(
			&p.ID, &p.Pair, &p.Amount, &p.InvestedRate,
			&p.Date, &p.Closed, &closedRate, &closedDate,
		); err != nil {
			return nil, err
		}
		if closedRate != nil {
			p.ClosedRate = *closedRate
		}
		if closedDate != nil {
			p.ClosedDate = *closedDate
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// SelectAllByUser returns the complete remote record set for a user,
// oldest first so the replaced local collection keeps creation order.
func (s *InvestmentStore) SelectAllByUser(ctx context.Context, userID string) ([]domain.Position, error) {
	query := `SELECT ` + investmentSelectCols + ` FROM investments WHERE user_id = $1 ORDER BY date`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, &Error{Op: "select investments", Err: err}
	}
	defer rows.Close()

	positions, err := scanInvestmentRows(rows)
	if err != nil {
		return nil, &Error{Op: "scan investments", Err: err}
	}
	return positions, nil
}

// Upsert inserts or fully overwrites one record keyed by (id, user_id)
func (s *InvestmentStore) Upsert(ctx context.Context, userID string, p domain.Position) error {
	query := `
		INSERT INTO investments (id, user_id, pair, amount, invested_rate, date, closed, closed_rate, closed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id, user_id) DO UPDATE SET
			pair          = excluded.pair,
			amount        = excluded.amount,
			invested_rate = excluded.invested_rate,
			date          = excluded.date,
			closed        = excluded.closed,
			closed_rate   = excluded.closed_rate,
			closed_date   = excluded.closed_date`

	var closedRate *float64
	var closedDate *string
	if p.Closed {
		closedRate = &p.ClosedRate
		closedDate = &p.ClosedDate
	}

	_, err := s.pool.Exec(ctx, query,
		p.ID, userID, p.Pair, p.Amount, p.InvestedRate,
		p.Date, p.Closed, closedRate, closedDate,
	)
	if err != nil {
		return &Error{Op: "upsert investment " + p.ID, Err: err}
	}
	return nil
}

// UpdateAmount writes the single-field amount update used by position edits
func (s *InvestmentStore) UpdateAmount(ctx context.Context, userID, id string, amount float64) error {
	query := `UPDATE investments SET amount = $3 WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, userID, amount)
	if err != nil {
		return &Error{Op: "update investment " + id, Err: err}
	}
	if tag.RowsAffected() == 0 {
		s.log.Debug().Str("id", id).Msg("Amount update matched no remote record")
	}
	return nil
}

// Delete removes one record by (id, user_id). Deleting an absent record is
// not an error.
func (s *InvestmentStore) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM investments WHERE id = $1 AND user_id = $2`

	if _, err := s.pool.Exec(ctx, query, id, userID); err != nil {
		return &Error{Op: "delete investment " + id, Err: err}
	}
	return nil
}
