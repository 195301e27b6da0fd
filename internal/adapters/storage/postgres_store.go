package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name:     "postgres",
	numbered: true,
	schema: []string{
		// One row per scan. scan_response is the exact envelope returned to
		// the client, replayed as is by the history endpoint.
		//
		// Scaling considerations for production (not implemented):
		// - PARTITION BY RANGE(created_at) with monthly partitions
		// - Retention by dropping old partitions instead of DELETE
		`CREATE TABLE IF NOT EXISTS scan_history (
			seq BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL UNIQUE,
			user_id VARCHAR(128) NOT NULL,
			scan_response JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// Backs List: per-user, most recent first
		`CREATE INDEX IF NOT EXISTS idx_scan_history_user ON scan_history(user_id, seq DESC)`,
	},
}

// NewPostgresStore creates a new PostgreSQL history store
func NewPostgresStore(connStr string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// In production, should be set based on workload
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newSQLStore(db, postgresDialect, logger)
}
