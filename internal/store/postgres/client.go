package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

const (
	maxRetries     = 5
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// Client wraps the quote database handle.
type Client struct {
	DB *sql.DB
}

// NewClient opens the quote database and verifies connectivity with
// exponential backoff.
func NewClient(ctx context.Context, dsn string, connectTimeout time.Duration) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	backoff := initialBackoff
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err = db.PingContext(pingCtx)
		cancel()

		if err == nil {
			return &Client{DB: db}, nil
		}
		if attempt == maxRetries {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres after %d attempts: %w", maxRetries, err)
		}
		slog.Warn("postgres ping failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"err", err)
		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}

	return &Client{DB: db}, nil
}

// Ping verifies connectivity (used by /readyz).
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.DB.Close()
}
