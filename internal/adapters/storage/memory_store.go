package storage

import (
	"context"
	"sync"

	"github.com/stoik/email-guard/internal/domain"
)

// MemoryStore implements ports.HistoryStore in process memory
//
// History is lost on restart. Used for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.HistoryEntry // Per user, oldest first
}

// NewMemoryStore creates an empty in-memory history store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]domain.HistoryEntry)}
}

// Append records a scan for its user
func (s *MemoryStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.UserID] = append(s.entries[entry.UserID], entry)
	return nil
}

// List returns up to limit scans of the user, most recent first
func (s *MemoryStore) List(ctx context.Context, userID string, limit int) ([]domain.ScanResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.entries[userID]
	n := min(limit, len(entries))
	if n <= 0 {
		return []domain.ScanResponse{}, nil
	}

	out := make([]domain.ScanResponse, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i].ScanResponse)
	}
	return out, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
