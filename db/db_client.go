// Package db owns the PostgreSQL connection pool and the schema migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseClient wraps the pgx pool created at startup.
type DatabaseClient struct {
	pool       *pgxpool.Pool
	maxRetries int
	retryDelay time.Duration
}

// NewDatabaseClient connects with cfg, retrying the initial ping a few times
// since the database may still be starting when the service boots.
func NewDatabaseClient(ctx context.Context, cfg *pgxpool.Config) (*DatabaseClient, error) {
	dc := &DatabaseClient{maxRetries: 5, retryDelay: time.Second}
	if err := dc.connect(ctx, cfg); err != nil {
		return nil, err
	}
	return dc, nil
}

func (dc *DatabaseClient) connect(ctx context.Context, cfg *pgxpool.Config) error {
	log := logger.GetLogger()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	for attempt := 1; attempt <= dc.maxRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			dc.pool = pool
			log.Infow("Connected to database", "attempt", attempt)
			return nil
		}
		log.Warnw("Database ping failed", "attempt", attempt, "max_attempts", dc.maxRetries, "error", err)
		if attempt == dc.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return ctx.Err()
		case <-time.After(dc.retryDelay * time.Duration(attempt)):
		}
	}

	pool.Close()
	return fmt.Errorf("failed to connect to database after %d attempts: %w", dc.maxRetries, err)
}

// GetPool returns the underlying pool.
func (dc *DatabaseClient) GetPool() *pgxpool.Pool {
	return dc.pool
}

func (dc *DatabaseClient) Close() {
	if dc.pool != nil {
		dc.pool.Close()
	}
}
