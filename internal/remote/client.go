// Package remote is the client for the hosted record store that holds the
// authoritative copy of each user's investment records. The schema is managed
// by the hosted service; this client only reads and writes rows.
package remote

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Error wraps a remote store failure (network, auth or database) so callers
// can tell it apart from local storage failures.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client wraps a pgx connection pool to the remote store
type Client struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New connects to the remote store at the given DSN
func New(ctx context.Context, dsn string, log zerolog.Logger) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &Error{Op: "parse config", Err: err}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &Error{Op: "connect", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &Error{Op: "ping", Err: err}
	}

	return &Client{
		pool: pool,
		log:  log.With().Str("client", "remote").Logger(),
	}, nil
}

// Pool returns the underlying connection pool
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close releases the connection pool
func (c *Client) Close() {
	c.pool.Close()
}
