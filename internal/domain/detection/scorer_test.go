package detection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/email-guard/internal/domain"
)

// weightTable builds a table whose flag keys carry the given weights
func weightTable(weights map[string]int) RuleTable {
	table := DefaultRuleTable()
	table.Phrases = nil
	table.FlagWeights = weights
	return table
}

func TestRuleBasedScorer_Thresholds(t *testing.T) {
	scorer := NewRuleBasedScorer(weightTable(map[string]int{
		"W0": 0, "W29": 29, "W30": 30, "W59": 59, "W60": 60, "W119": 119, "W500": 500,
	}))

	tests := []struct {
		key      string
		decision domain.Decision
	}{
		{"W0", domain.DecisionSafe},
		{"W29", domain.DecisionSafe},
		{"W30", domain.DecisionSpam},
		{"W59", domain.DecisionSpam},
		{"W60", domain.DecisionPhishing},
		{"W119", domain.DecisionPhishing},
		{"W500", domain.DecisionPhishing},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := scorer.Score(domain.IndicatorSet{Flags: []domain.Flag{{Key: tt.key, Evidence: tt.key}}})
			assert.Equal(t, tt.decision, result.Decision)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
		})
	}
}

func TestRuleBasedScorer_ConfidenceBands(t *testing.T) {
	weights := map[string]int{}
	keys := []string{"S0", "S10", "S29", "S30", "S45", "S59", "S60", "S90", "S120", "S300"}
	for i, w := range []int{0, 10, 29, 30, 45, 59, 60, 90, 120, 300} {
		weights[keys[i]] = w
	}
	scorer := NewRuleBasedScorer(weightTable(weights))

	confidence := func(key string) float64 {
		return scorer.Score(domain.IndicatorSet{Flags: []domain.Flag{{Key: key}}}).Confidence
	}

	// Safe: certainty drops as risk approaches the spam threshold
	assert.InDelta(t, 0.95, confidence("S0"), 1e-9)
	assert.Greater(t, confidence("S0"), confidence("S10"))
	assert.Greater(t, confidence("S10"), confidence("S29"))
	assert.GreaterOrEqual(t, confidence("S29"), 0.60)

	// Spam: confidence rises with the score
	assert.InDelta(t, 0.50, confidence("S30"), 1e-9)
	assert.Greater(t, confidence("S45"), confidence("S30"))
	assert.Greater(t, confidence("S59"), confidence("S45"))
	assert.LessOrEqual(t, confidence("S59"), 0.80)

	// Phishing: rises and saturates
	assert.InDelta(t, 0.60, confidence("S60"), 1e-9)
	assert.Greater(t, confidence("S90"), confidence("S60"))
	assert.InDelta(t, 0.95, confidence("S120"), 1e-9)
	assert.InDelta(t, 0.95, confidence("S300"), 1e-9)
}

func TestRuleBasedScorer_RiskScore(t *testing.T) {
	scorer := NewRuleBasedScorer(DefaultRuleTable())

	set := domain.IndicatorSet{
		URLs:    []string{"http://suspicious-bank-verify.com/urgent-verify"},
		Phrases: []string{"urgent", "account has been suspended", "verify your identity", "not in vocabulary"},
		Flags:   []domain.Flag{{Key: FlagURLHostKeywords}, {Key: "UNKNOWN_FLAG"}},
	}

	// URLs carry no weight by themselves; unknown phrases and flags count 0
	assert.Equal(t, 15+25+25+20, scorer.RiskScore(set))
}

func TestRuleBasedScorer_Score(t *testing.T) {
	scorer := NewRuleBasedScorer(DefaultRuleTable())

	t.Run("Phishing example", func(t *testing.T) {
		result := scorer.Score(domain.IndicatorSet{
			URLs:    []string{"http://suspicious-bank-verify.com/urgent-verify"},
			Phrases: []string{"urgent", "account has been suspended", "verify your identity"},
			Flags: []domain.Flag{{
				Key:      FlagURLHostKeywords,
				Evidence: "URL host suspicious-bank-verify.com contains lure keywords: verify, bank",
			}},
		})

		assert.Equal(t, RuleBasedModelName, result.ModelName)
		assert.Equal(t, RuleBasedModelSource, result.ModelSource)
		assert.Equal(t, domain.DecisionPhishing, result.Decision)
		assert.Greater(t, result.Confidence, 0.6)
		assert.Contains(t, result.Description, "Risk score 85")
		assert.Contains(t, result.Description, `phrase "account has been suspended"`)
		assert.Contains(t, result.Description, "lure keywords")
	})

	t.Run("Spam example", func(t *testing.T) {
		result := scorer.Score(domain.IndicatorSet{
			Phrases: []string{"limited time", "special promotion", "100% free"},
		})

		assert.Equal(t, domain.DecisionSpam, result.Decision)
		assert.Contains(t, result.Description, "Risk score 35")
	})

	t.Run("Clean text", func(t *testing.T) {
		result := scorer.Score(domain.IndicatorSet{})

		assert.Equal(t, domain.DecisionSafe, result.Decision)
		assert.Equal(t, "Risk score 0: no suspicious indicators found.", result.Description)
	})

	t.Run("Minor signals stay safe", func(t *testing.T) {
		result := scorer.Score(domain.IndicatorSet{Phrases: []string{"unsubscribe"}})

		assert.Equal(t, domain.DecisionSafe, result.Decision)
		assert.Contains(t, result.Description, "no suspicious indicators found above the spam threshold")
		assert.Contains(t, result.Description, `"unsubscribe"`)
	})
}

func TestRuleBasedScorer_Deterministic(t *testing.T) {
	scorer := NewRuleBasedScorer(DefaultRuleTable())
	set := domain.IndicatorSet{
		Phrases: []string{"gift card", "wire transfer"},
		Flags:   []domain.Flag{{Key: FlagReplyToMismatch, Evidence: "reply-to"}},
	}

	first := scorer.Score(set)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(set))
	}
}

func TestRuleBasedScorer_Analyze(t *testing.T) {
	scorer := NewRuleBasedScorer(DefaultRuleTable())

	result, err := scorer.Analyze(context.Background(), domain.IndicatorSet{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.DecisionSafe, result.Decision)
}
