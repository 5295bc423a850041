// Package db provides the process-wide PostgreSQL connection lifecycle and
// transaction helpers.
package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/daftar-ledger/daftar/internal/shared"
)

// ConnectFunc establishes a pool for the given DSN.
type ConnectFunc func(ctx context.Context, dsn string) (*pgxpool.Pool, error)

// Connector lazily opens a single pool for the lifetime of the process.
// It moves through three states: disconnected (no pool, no attempt in
// flight), connecting (one attempt in flight that concurrent callers join),
// and connected (cached pool returned without locking the flight group).
// A failed attempt returns to disconnected so the next call retries.
type Connector struct {
	dsn     string
	timeout time.Duration
	connect ConnectFunc

	group singleflight.Group
	mu    sync.RWMutex
	pool  *pgxpool.Pool
}

// NewConnector constructs a Connector. The timeout bounds each connection
// attempt independently of any request context, since the pool outlives the
// request that happens to establish it.
func NewConnector(dsn string, timeout time.Duration) *Connector {
	return &Connector{dsn: dsn, timeout: timeout, connect: newPool}
}

// Get returns the shared pool, establishing it on first use. Concurrent
// first calls await the same in-flight attempt; exactly one connection is
// opened. Timeout on the attempt surfaces as shared.ErrStorageTimeout.
func (c *Connector) Get(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.RLock()
	pool := c.pool
	c.mu.RUnlock()
	if pool != nil {
		return pool, nil
	}

	ch := c.group.DoChan("connect", func() (any, error) {
		c.mu.RLock()
		cached := c.pool
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		cctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		pool, err := c.connect(cctx, c.dsn)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("platform/db: %w", shared.ErrStorageTimeout)
			}
			return nil, fmt.Errorf("platform/db: connect: %w", err)
		}

		c.mu.Lock()
		c.pool = pool
		c.mu.Unlock()
		return pool, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*pgxpool.Pool), nil
	}
}

// Close releases the pool if one was established.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

// newPool creates and pings a PostgreSQL connection pool.
func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		if ctx.Err() != nil {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
