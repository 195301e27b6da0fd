package domain

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the categorical verdict an analyzer reaches for an email
type Decision string

const (
	DecisionPhishing Decision = "phishing"
	DecisionSafe     Decision = "safe"
	DecisionSpam     Decision = "spam"
	DecisionError    Decision = "error"
)

// Flag is a single URL-shape or structural indicator hit
type Flag struct {
	Key      string `json:"key"`      // e.g., "URL_IP_HOST"
	Evidence string `json:"evidence"` // Human-readable explanation
}

// IndicatorSet holds everything extracted from one email text
//
// Built once per scan by the extractor and never modified afterwards.
// URLs keep first-seen order, Phrases follow vocabulary order and
// Flags carry at most one entry per key.
type IndicatorSet struct {
	URLs    []string
	Phrases []string
	Flags   []Flag
}

// FirstURL returns the first extracted URL, if any
func (s IndicatorSet) FirstURL() (string, bool) {
	if len(s.URLs) == 0 {
		return "", false
	}
	return s.URLs[0], true
}

// Empty reports whether nothing suspicious or analyzable was extracted
func (s IndicatorSet) Empty() bool {
	return len(s.URLs) == 0 && len(s.Phrases) == 0 && len(s.Flags) == 0
}

// AnalysisResult is the uniform verdict produced by one analyzer
type AnalysisResult struct {
	ModelSource string   `json:"model_source"`
	ModelName   string   `json:"model_name"`
	Decision    Decision `json:"decision"`
	Confidence  float64  `json:"confidence"` // 0.0 to 1.0
	Description string   `json:"description"`
}

// ScanResponse is the envelope returned for one scan request
//
// Results are ordered by analyzer execution: the primary classifier
// (when it produced a verdict) first, the rule-based scorer last.
type ScanResponse struct {
	Results      []AnalysisResult `json:"results"`
	Timestamp    string           `json:"timestamp"`     // ISO-8601, UTC
	EmailSnippet string           `json:"email_snippet"` // Bounded preview of the email text
}

// HistoryEntry is one persisted scan for a user
type HistoryEntry struct {
	ID           uuid.UUID    `json:"id"`
	UserID       string       `json:"user_id"`
	ScanResponse ScanResponse `json:"scan_response"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewHistoryEntry creates a history entry for a freshly produced scan response
func NewHistoryEntry(userID string, resp ScanResponse, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:           uuid.New(),
		UserID:       userID,
		ScanResponse: resp,
		CreatedAt:    now.UTC(),
	}
}

// ClassifierVerdict is the native output of an external URL classifier
//
// Label follows the classifier's binary contract: 1 for phishing, 0 for
// legitimate. Confidence is nil when the classifier does not report one.
type ClassifierVerdict struct {
	Label       int
	Confidence  *float64
	Description string
}

// ModelInfo describes a registered analyzer for the models endpoint
type ModelInfo struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Status string `json:"status"` // "loaded" or "available"
}

// ModelsSummary lists the analyzers that take part in every scan
type ModelsSummary struct {
	TotalModels        int         `json:"total_models"`
	Models             []ModelInfo `json:"models"`
	PrimaryMLAvailable bool        `json:"primary_ml_available"`
	PrimaryModel       string      `json:"primary_model"`
}

// ClampConfidence bounds a confidence value to [0,1]
func ClampConfidence(c float64) float64 {
	switch {
	case c != c: // NaN
		return 0.0
	case c < 0.0:
		return 0.0
	case c > 1.0:
		return 1.0
	default:
		return c
	}
}
