package ports

import (
	"context"

	"github.com/stoik/email-guard/internal/domain"
)

// ScanEventPublisher announces completed scans to downstream consumers
type ScanEventPublisher interface {
	// Publish must not block the scan; delivery failures are reported out of band
	Publish(ctx context.Context, entry domain.HistoryEntry)

	Close() error
}
