package ports

import (
	"context"

	"github.com/stoik/email-guard/internal/domain"
)

// HistoryStore defines the contract for persisting and querying per-user scan history
//
// Entries are append-only and partitioned by user: no operation reads across users.
type HistoryStore interface {
	// Append adds a history entry; it returns only after the write is acknowledged
	Append(ctx context.Context, entry domain.HistoryEntry) error

	// List returns at most limit scans for the user, most recent first.
	// A user without history gets an empty slice, not an error.
	List(ctx context.Context, userID string, limit int) ([]domain.ScanResponse, error)

	// Ping reports whether the backing storage is reachable
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}
