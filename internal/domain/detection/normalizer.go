package detection

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/stoik/email-guard/internal/domain"
)

const (
	// DefaultSnippetLength is the number of characters kept in email_snippet
	DefaultSnippetLength = 200

	// SnippetEllipsis marks a truncated snippet
	SnippetEllipsis = "..."
)

// Normalizer assembles analyzer outputs into the response envelope
type Normalizer struct {
	clock         domain.Clock
	snippetLength int
}

// NewNormalizer creates a normalizer; snippetLength <= 0 uses DefaultSnippetLength
func NewNormalizer(clock domain.Clock, snippetLength int) *Normalizer {
	if snippetLength <= 0 {
		snippetLength = DefaultSnippetLength
	}
	return &Normalizer{clock: clock, snippetLength: snippetLength}
}

// Normalize builds the scan response: the primary result (if any) first, the rule-based result last
func (n *Normalizer) Normalize(primary *domain.AnalysisResult, ruleBased domain.AnalysisResult, text string) domain.ScanResponse {
	results := make([]domain.AnalysisResult, 0, 2)
	if primary != nil {
		results = append(results, *primary)
	}
	results = append(results, ruleBased)

	return domain.ScanResponse{
		Results:      results,
		Timestamp:    n.clock.Now().UTC().Format(time.RFC3339Nano),
		EmailSnippet: Snippet(text, n.snippetLength),
	}
}

// Snippet truncates text to limit characters, appending an ellipsis when truncated
//
// Truncation happens on rune boundaries and invalid UTF-8 is dropped, so the
// snippet is always valid text of at most limit+len(SnippetEllipsis) characters.
func Snippet(text string, limit int) string {
	text = strings.ToValidUTF8(text, "")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	count := 0
	for i := range text {
		if count == limit {
			return text[:i] + SnippetEllipsis
		}
		count++
	}
	return text
}
