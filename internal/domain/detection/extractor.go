package detection

import (
	"regexp"
	"strings"

	"github.com/stoik/email-guard/internal/domain"
)

// urlPattern matches http(s) URLs with a domain-like or IP-literal host
var urlPattern = regexp.MustCompile(
	`(?i)\bhttps?://` +
		`(?:[^\s/?#@<>"'\x60]+@)?` + // Optional userinfo, kept for the at-sign check
		`(?:\[[0-9a-f:.]+\]|\d{1,3}(?:\.\d{1,3}){3}|(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z][a-z0-9-]*[a-z0-9])` +
		`(?::\d{1,5})?` +
		`(?:[/?#][^\s<>"'\x60]*)?`,
)

// urlTrailingPunctuation is stripped from matches so prose punctuation is not part of the URL
const urlTrailingPunctuation = ".,;:!?)]}'\""

// Extractor turns raw email text into an indicator set
//
// Extraction is a pure function of the text: the extractor holds only
// immutable configuration and is safe for concurrent use.
type Extractor struct {
	table      RuleTable
	context    *DetectionContext
	strategies []IndicatorStrategy

	foldedPhrases []string
}

// NewExtractor creates an extractor matching the table's vocabulary and running the given strategies
func NewExtractor(table RuleTable, context *DetectionContext, strategies []IndicatorStrategy) *Extractor {
	folded := make([]string, len(table.Phrases))
	for i, rule := range table.Phrases {
		folded[i] = foldCase(rule.Phrase)
	}

	return &Extractor{
		table:         table,
		context:       context,
		strategies:    strategies,
		foldedPhrases: folded,
	}
}

// Extract builds the indicator set for one email text
//
// Blank text yields an empty set; that is a valid input, not an error.
func (e *Extractor) Extract(text string) domain.IndicatorSet {
	if strings.TrimSpace(text) == "" {
		return domain.IndicatorSet{}
	}

	email := parseEmail(text)
	email.URLs = ExtractURLs(email.Text)
	email.folded = foldCase(email.Text)

	set := domain.IndicatorSet{
		URLs:    email.URLs,
		Phrases: e.matchPhrases(email.folded),
	}

	// Each strategy returns nil if its pattern is absent, or a Flag if present
	for _, strategy := range e.strategies {
		if flag := strategy.Detect(email, e.context); flag != nil {
			set.Flags = append(set.Flags, *flag)
		}
	}

	return set
}

// matchPhrases returns the vocabulary phrases present in the folded text, in vocabulary order
func (e *Extractor) matchPhrases(folded string) []string {
	var matched []string
	for i, phrase := range e.foldedPhrases {
		if strings.Contains(folded, phrase) {
			matched = append(matched, e.table.Phrases[i].Phrase)
		}
	}
	return matched
}

// ExtractURLs returns the URLs found in text in first-seen order, deduplicated by exact string
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, urlTrailingPunctuation)
		if seen[m] {
			continue
		}
		seen[m] = true
		urls = append(urls, m)
	}
	return urls
}
