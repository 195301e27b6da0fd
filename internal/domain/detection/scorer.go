package detection

import (
	"context"
	"fmt"
	"strings"

	"github.com/stoik/email-guard/internal/domain"
)

const (
	RuleBasedModelName   = "rule-based"
	RuleBasedModelSource = "built-in"
)

// RuleBasedScorer computes a weighted risk score from an indicator set
//
// It is the deterministic, always-available analyzer: a pure function of the
// indicator set and its rule table, with no external dependency.
type RuleBasedScorer struct {
	table RuleTable
}

// NewRuleBasedScorer creates a scorer over the given rule table
func NewRuleBasedScorer(table RuleTable) *RuleBasedScorer {
	return &RuleBasedScorer{table: table}
}

// Name returns the model name reported in results
func (s *RuleBasedScorer) Name() string {
	return RuleBasedModelName
}

// Source returns the model source reported in results
func (s *RuleBasedScorer) Source() string {
	return RuleBasedModelSource
}

// Analyze implements Analyzer; the rule-based scorer never fails
func (s *RuleBasedScorer) Analyze(_ context.Context, indicators domain.IndicatorSet) (*domain.AnalysisResult, error) {
	result := s.Score(indicators)
	return &result, nil
}

// Score maps an indicator set to exactly one analysis result
func (s *RuleBasedScorer) Score(indicators domain.IndicatorSet) domain.AnalysisResult {
	score := s.RiskScore(indicators)
	decision := s.decide(score)

	return domain.AnalysisResult{
		ModelSource: RuleBasedModelSource,
		ModelName:   RuleBasedModelName,
		Decision:    decision,
		Confidence:  s.confidence(decision, score),
		Description: s.describe(decision, score, indicators),
	}
}

// RiskScore sums the weights of every matched phrase and flag
func (s *RuleBasedScorer) RiskScore(indicators domain.IndicatorSet) int {
	score := 0
	for _, phrase := range indicators.Phrases {
		score += s.table.PhraseWeight(phrase)
	}
	for _, flag := range indicators.Flags {
		score += s.table.FlagWeight(flag.Key)
	}
	return score
}

// decide applies the ordered, non-overlapping thresholds
func (s *RuleBasedScorer) decide(score int) domain.Decision {
	switch {
	case score >= s.table.PhishingThreshold:
		return domain.DecisionPhishing
	case score >= s.table.SpamThreshold:
		return domain.DecisionSpam
	default:
		return domain.DecisionSafe
	}
}

// confidence places the score inside the decision's confidence band
func (s *RuleBasedScorer) confidence(decision domain.Decision, score int) float64 {
	var c float64
	switch decision {
	case domain.DecisionPhishing:
		t := ratio(score-s.table.PhishingThreshold, s.table.SaturationScore-s.table.PhishingThreshold)
		c = lerp(s.table.PhishingBand, t)
	case domain.DecisionSpam:
		t := ratio(score-s.table.SpamThreshold, s.table.PhishingThreshold-s.table.SpamThreshold)
		c = lerp(s.table.SpamBand, t)
	default:
		t := ratio(score, s.table.SpamThreshold)
		c = s.table.SafeBand.High - t*(s.table.SafeBand.High-s.table.SafeBand.Low)
	}
	return domain.ClampConfidence(c)
}

// describe names the matched indicators, or states that none were found
func (s *RuleBasedScorer) describe(decision domain.Decision, score int, indicators domain.IndicatorSet) string {
	labels := make([]string, 0, len(indicators.Phrases)+len(indicators.Flags))
	for _, phrase := range indicators.Phrases {
		labels = append(labels, fmt.Sprintf("phrase %q", phrase))
	}
	for _, flag := range indicators.Flags {
		labels = append(labels, flag.Evidence)
	}

	if decision != domain.DecisionSafe {
		return fmt.Sprintf("Risk score %d. Detected indicators: %s.", score, strings.Join(labels, "; "))
	}
	if len(labels) == 0 {
		return fmt.Sprintf("Risk score %d: no suspicious indicators found.", score)
	}
	return fmt.Sprintf("Risk score %d: no suspicious indicators found above the spam threshold (minor signals: %s).",
		score, strings.Join(labels, "; "))
}

// ratio returns num/den bounded to [0,1]
func ratio(num, den int) float64 {
	if den <= 0 {
		return 1.0
	}
	r := float64(num) / float64(den)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

func lerp(band ConfidenceBand, t float64) float64 {
	return band.Low + t*(band.High-band.Low)
}
