package detection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
)

const (
	phishingText = "URGENT: Your account has been suspended... verify your identity... http://suspicious-bank-verify.com/urgent-verify"
	benignText   = "Hi John, reminder about our meeting tomorrow at 2 PM. Thanks, Sarah"
)

func newTestDetector(primary Analyzer) *Detector {
	table := DefaultRuleTable()
	return NewDetector(
		NewExtractor(table, NewDetectionContext(nil), DefaultStrategies()),
		primary,
		NewRuleBasedScorer(table),
		NewNormalizer(fixedClock{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}, DefaultSnippetLength),
	)
}

func newFakePrimary(verdict domain.ClassifierVerdict, err error) Analyzer {
	classifier := &fakeClassifier{predict: func(context.Context, string) (domain.ClassifierVerdict, error) {
		return verdict, err
	}}
	return NewPrimaryAnalyzer(classifier, time.Second, zap.NewNop())
}

func TestDetector_AnalyzeEmail_Phishing(t *testing.T) {
	detector := newTestDetector(nil)

	outcome := detector.AnalyzeEmail(context.Background(), phishingText)

	require.Len(t, outcome.Response.Results, 1)
	result := outcome.Response.Results[0]
	assert.Equal(t, RuleBasedModelName, result.ModelName)
	assert.Equal(t, domain.DecisionPhishing, result.Decision)
	assert.Greater(t, result.Confidence, 0.6)
	assert.Equal(t, 85, outcome.RiskScore)
	assert.Equal(t, PrimaryDisabled, outcome.PrimaryStatus)
	assert.Equal(t, "2026-01-02T03:04:05Z", outcome.Response.Timestamp)
	assert.Equal(t, phishingText, outcome.Response.EmailSnippet)
}

func TestDetector_AnalyzeEmail_PrimaryPrepended(t *testing.T) {
	detector := newTestDetector(newFakePrimary(domain.ClassifierVerdict{Label: 0, Confidence: confidencePtr(0.7)}, nil))

	outcome := detector.AnalyzeEmail(context.Background(), phishingText)

	require.Len(t, outcome.Response.Results, 2)
	assert.Equal(t, "url-model", outcome.Response.Results[0].ModelName)
	// Each analyzer keeps its own decision
	assert.Equal(t, domain.DecisionSafe, outcome.Response.Results[0].Decision)
	assert.Equal(t, domain.DecisionPhishing, outcome.Response.Results[1].Decision)
	assert.Equal(t, PrimaryOK, outcome.PrimaryStatus)
	assert.NoError(t, outcome.PrimaryErr)
}

func TestDetector_AnalyzeEmail_Benign(t *testing.T) {
	detector := newTestDetector(newFakePrimary(domain.ClassifierVerdict{Label: 1}, nil))

	outcome := detector.AnalyzeEmail(context.Background(), benignText)

	// No URL: the primary classifier is not applicable
	require.Len(t, outcome.Response.Results, 1)
	result := outcome.Response.Results[0]
	assert.Equal(t, domain.DecisionSafe, result.Decision)
	assert.Contains(t, result.Description, "no suspicious indicators found")
	assert.Equal(t, PrimaryNotApplicable, outcome.PrimaryStatus)
}

func TestDetector_AnalyzeEmail_PrimaryFailure(t *testing.T) {
	detector := newTestDetector(newFakePrimary(domain.ClassifierVerdict{}, errors.New("model offline")))

	outcome := detector.AnalyzeEmail(context.Background(), phishingText)

	require.Len(t, outcome.Response.Results, 1)
	assert.Equal(t, RuleBasedModelName, outcome.Response.Results[0].ModelName)
	assert.Equal(t, PrimaryFailed, outcome.PrimaryStatus)
	assert.ErrorIs(t, outcome.PrimaryErr, domain.ErrClassifierFailure)
}

func fakeSentence(faker *gofakeit.Faker, words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = faker.Word()
	}
	return strings.Join(parts, " ") + "."
}

func TestDetector_AnalyzeEmail_Properties(t *testing.T) {
	faker := gofakeit.New(42)
	detector := newTestDetector(newFakePrimary(domain.ClassifierVerdict{Label: 1}, nil))
	table := DefaultRuleTable()

	valid := map[domain.Decision]bool{
		domain.DecisionPhishing: true,
		domain.DecisionSpam:     true,
		domain.DecisionSafe:     true,
		domain.DecisionError:    true,
	}

	for i := 0; i < 200; i++ {
		text := fakeSentence(faker, faker.Number(3, 40))
		if i%2 == 0 {
			text += fmt.Sprintf(" %s %s", table.Phrases[faker.Number(0, len(table.Phrases)-1)].Phrase, faker.URL())
		}
		if i%5 == 0 {
			text = fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s", faker.Name(), faker.Email(), fakeSentence(faker, 5), text)
		}

		outcome := detector.AnalyzeEmail(context.Background(), text)
		results := outcome.Response.Results

		require.NotEmpty(t, results, text)
		require.LessOrEqual(t, len(results), 2, text)
		assert.Equal(t, RuleBasedModelName, results[len(results)-1].ModelName, text)
		for _, r := range results {
			assert.True(t, valid[r.Decision], text)
			assert.GreaterOrEqual(t, r.Confidence, 0.0, text)
			assert.LessOrEqual(t, r.Confidence, 1.0, text)
		}
		assert.Equal(t, outcome.PrimaryStatus == PrimaryOK, len(results) == 2, text)

		// Same text, same rule-based verdict
		again := detector.AnalyzeEmail(context.Background(), text)
		assert.Equal(t, results[len(results)-1], again.Response.Results[len(again.Response.Results)-1], text)
	}
}

func TestDetector_Models(t *testing.T) {
	t.Run("Rule-based only", func(t *testing.T) {
		summary := newTestDetector(nil).Models()

		assert.Equal(t, 1, summary.TotalModels)
		assert.False(t, summary.PrimaryMLAvailable)
		assert.Equal(t, RuleBasedModelName, summary.PrimaryModel)
		assert.Equal(t, "available", summary.Models[0].Status)
	})

	t.Run("With primary classifier", func(t *testing.T) {
		summary := newTestDetector(newFakePrimary(domain.ClassifierVerdict{}, nil)).Models()

		require.Equal(t, 2, summary.TotalModels)
		assert.True(t, summary.PrimaryMLAvailable)
		assert.Equal(t, "url-model", summary.PrimaryModel)
		assert.Equal(t, "loaded", summary.Models[0].Status)
		assert.Equal(t, RuleBasedModelName, summary.Models[1].Name)
	})
}
