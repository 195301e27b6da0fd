package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
	"github.com/stoik/email-guard/internal/domain/detection"
	"github.com/stoik/email-guard/internal/ports"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
	DefaultMaxEmailSize = 1 << 20 // 1 MiB
)

// Recorder receives scan-level measurements
type Recorder interface {
	ObserveScan(decision string, riskScore int, primaryStatus string)
	HistoryWriteFailed()
}

// Options bounds the inputs the service accepts
type Options struct {
	DefaultHistoryLimit int
	MaxHistoryLimit     int
	MaxEmailBytes       int
}

func (o Options) withDefaults() Options {
	if o.DefaultHistoryLimit <= 0 {
		o.DefaultHistoryLimit = DefaultHistoryLimit
	}
	if o.MaxHistoryLimit <= 0 {
		o.MaxHistoryLimit = MaxHistoryLimit
	}
	if o.DefaultHistoryLimit > o.MaxHistoryLimit {
		o.DefaultHistoryLimit = o.MaxHistoryLimit
	}
	if o.MaxEmailBytes <= 0 {
		o.MaxEmailBytes = DefaultMaxEmailSize
	}
	return o
}

// ScanService orchestrates email scans and per-user history
type ScanService struct {
	detector *detection.Detector
	history  ports.HistoryStore
	events   ports.ScanEventPublisher
	recorder Recorder
	clock    domain.Clock
	logger   *zap.Logger
	opts     Options
}

// NewScanService creates a new scan service with dependency injection
func NewScanService(
	detector *detection.Detector,
	history ports.HistoryStore,
	events ports.ScanEventPublisher,
	recorder Recorder,
	clock domain.Clock,
	logger *zap.Logger,
	opts Options,
) *ScanService {
	return &ScanService{
		detector: detector,
		history:  history,
		events:   events,
		recorder: recorder,
		clock:    clock,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// Scan analyzes one email for the authenticated user and records it in their history
//
// Error handling strategy:
//   - Invalid text returns ErrInvalidInput before anything runs or is stored
//   - Classifier failures are absorbed by the pipeline (rule-based result only)
//   - History write failures are logged and counted; the scan is still returned
func (s *ScanService) Scan(ctx context.Context, userID, text string) (domain.ScanResponse, error) {
	if err := s.validate(text); err != nil {
		return domain.ScanResponse{}, err
	}

	outcome := s.detector.AnalyzeEmail(ctx, text)
	resp := outcome.Response

	ruleBased := resp.Results[len(resp.Results)-1]
	s.recorder.ObserveScan(string(ruleBased.Decision), outcome.RiskScore, string(outcome.PrimaryStatus))

	s.logger.Info("Email scanned",
		zap.String("user_id", userID),
		zap.String("decision", string(ruleBased.Decision)),
		zap.Int("risk_score", outcome.RiskScore),
		zap.Int("urls", len(outcome.Indicators.URLs)),
		zap.Int("phrases", len(outcome.Indicators.Phrases)),
		zap.Int("flags", len(outcome.Indicators.Flags)),
		zap.String("primary", string(outcome.PrimaryStatus)))

	entry := domain.NewHistoryEntry(userID, resp, s.clock.Now())
	if err := s.history.Append(ctx, entry); err != nil {
		s.recorder.HistoryWriteFailed()
		s.logger.Error("Failed to record scan in history",
			zap.String("user_id", userID),
			zap.String("scan_id", entry.ID.String()),
			zap.Error(err))
	}

	s.events.Publish(ctx, entry)

	return resp, nil
}

// validate rejects blank and oversized email text
func (s *ScanService) validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: email_text must not be empty", domain.ErrInvalidInput)
	}
	if len(text) > s.opts.MaxEmailBytes {
		return fmt.Errorf("%w: email_text exceeds %d bytes", domain.ErrInvalidInput, s.opts.MaxEmailBytes)
	}
	return nil
}

// History returns the user's most recent scans; limit <= 0 uses the default, larger values are capped
func (s *ScanService) History(ctx context.Context, userID string, limit int) ([]domain.ScanResponse, error) {
	limit = s.clampLimit(limit)

	responses, err := s.history.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if responses == nil {
		responses = []domain.ScanResponse{}
	}
	return responses, nil
}

func (s *ScanService) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.opts.DefaultHistoryLimit
	case limit > s.opts.MaxHistoryLimit:
		return s.opts.MaxHistoryLimit
	default:
		return limit
	}
}

// Models describes the analyzers taking part in scans
func (s *ScanService) Models() domain.ModelsSummary {
	return s.detector.Models()
}
