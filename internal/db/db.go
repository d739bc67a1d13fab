package db

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Order creation and stock receipts hold row locks for the length of a
// transaction, so the pool stays small and recycles connections instead of
// accumulating idle ones.
const (
	defaultMaxConns    = 10
	defaultMaxConnIdle = 5 * time.Minute
)

// NewPool opens a pgx connection pool using the DATABASE_URL environment
// variable and verifies connectivity before returning. DB_MAX_CONNS overrides
// the pool cap.
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}
	config.MaxConns = defaultMaxConns
	config.MaxConnIdleTime = defaultMaxConnIdle
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid DB_MAX_CONNS %q", v)
		}
		config.MaxConns = int32(n)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}
