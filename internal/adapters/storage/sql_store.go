package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
)

// dialect holds what differs between the SQL backends
type dialect struct {
	name string

	// schema is executed statement by statement at startup
	schema []string

	// numbered placeholders ($1, $2) instead of "?"
	numbered bool
}

// bind rewrites "?" placeholders for dialects that use numbered ones
func (d dialect) bind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore implements ports.HistoryStore on top of database/sql
//
// One row per scan. The scan response is stored as a JSON document, and
// the auto-increment seq column gives a stable most-recent-first order
// even when two scans share a timestamp.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

func newSQLStore(db *sql.DB, d dialect, logger *zap.Logger) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d, logger: logger}
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// InitSchema creates the history table if it doesn't exist
// In production, use proper migration tools
func (s *SQLStore) InitSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize %s schema: %w", s.dialect.name, err)
		}
	}
	s.logger.Debug("History schema initialized", zap.String("backend", s.dialect.name))
	return nil
}

// Append inserts one scan for its user
func (s *SQLStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	payload, err := json.Marshal(entry.ScanResponse)
	if err != nil {
		return fmt.Errorf("failed to marshal scan response: %w", err)
	}

	query := s.dialect.bind(`
		INSERT INTO scan_history (id, user_id, scan_response, created_at)
		VALUES (?, ?, ?, ?)
	`)
	if _, err := s.db.ExecContext(ctx, query,
		entry.ID.String(), entry.UserID, string(payload), entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// List returns up to limit scans of the user, most recent first
func (s *SQLStore) List(ctx context.Context, userID string, limit int) ([]domain.ScanResponse, error) {
	responses := make([]domain.ScanResponse, 0)
	if limit <= 0 {
		return responses, nil
	}

	query := s.dialect.bind(`
		SELECT scan_response
		FROM scan_history
		WHERE user_id = ?
		ORDER BY seq DESC
		LIMIT ?
	`)
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var resp domain.ScanResponse
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			// A corrupt row must not hide the rest of the user's history
			s.logger.Warn("Skipping unreadable history entry", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		responses = append(responses, resp)
	}

	return responses, rows.Err()
}

// Ping checks the database connection
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
