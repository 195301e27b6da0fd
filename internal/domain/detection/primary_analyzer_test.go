package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
)

// fakeClassifier is a scriptable URL classifier
type fakeClassifier struct {
	predict func(ctx context.Context, url string) (domain.ClassifierVerdict, error)
	calls   []string
}

func (f *fakeClassifier) Name() string                { return "url-model" }
func (f *fakeClassifier) Source() string              { return "test" }
func (f *fakeClassifier) Ready(context.Context) error { return nil }

func (f *fakeClassifier) Predict(ctx context.Context, url string) (domain.ClassifierVerdict, error) {
	f.calls = append(f.calls, url)
	return f.predict(ctx, url)
}

func confidencePtr(c float64) *float64 { return &c }

func TestPrimaryAnalyzer_Analyze(t *testing.T) {
	indicators := domain.IndicatorSet{URLs: []string{"http://first.example/a", "http://second.example/b"}}

	tests := []struct {
		name        string
		verdict     domain.ClassifierVerdict
		err         error
		decision    domain.Decision
		confidence  float64
		description string
		expectErr   bool
	}{
		{
			name:        "Phishing label with confidence",
			verdict:     domain.ClassifierVerdict{Label: 1, Confidence: confidencePtr(0.97)},
			decision:    domain.DecisionPhishing,
			confidence:  0.97,
			description: "URL analysis result for http://first.example/a",
		},
		{
			name:        "Legitimate label without confidence",
			verdict:     domain.ClassifierVerdict{Label: 0, Description: "Known good host"},
			decision:    domain.DecisionSafe,
			confidence:  defaultClassifierConfidence,
			description: "Known good host",
		},
		{
			name:        "Out of range confidence is clamped",
			verdict:     domain.ClassifierVerdict{Label: 1, Confidence: confidencePtr(1.7)},
			decision:    domain.DecisionPhishing,
			confidence:  1.0,
			description: "URL analysis result for http://first.example/a",
		},
		{
			name:      "Unexpected label",
			verdict:   domain.ClassifierVerdict{Label: 3},
			expectErr: true,
		},
		{
			name:      "Classifier error",
			err:       errors.New("connection refused"),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{predict: func(context.Context, string) (domain.ClassifierVerdict, error) {
				return tt.verdict, tt.err
			}}
			analyzer := NewPrimaryAnalyzer(classifier, time.Second, zap.NewNop())

			result, err := analyzer.Analyze(context.Background(), indicators)

			// Only the first URL is classified
			assert.Equal(t, []string{"http://first.example/a"}, classifier.calls)

			if tt.expectErr {
				assert.ErrorIs(t, err, domain.ErrClassifierFailure)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "url-model", result.ModelName)
			assert.Equal(t, "test", result.ModelSource)
			assert.Equal(t, tt.decision, result.Decision)
			assert.InDelta(t, tt.confidence, result.Confidence, 1e-9)
			assert.Equal(t, tt.description, result.Description)
		})
	}
}

func TestPrimaryAnalyzer_NotApplicable(t *testing.T) {
	classifier := &fakeClassifier{predict: func(context.Context, string) (domain.ClassifierVerdict, error) {
		return domain.ClassifierVerdict{Label: 1}, nil
	}}
	analyzer := NewPrimaryAnalyzer(classifier, time.Second, zap.NewNop())

	result, err := analyzer.Analyze(context.Background(), domain.IndicatorSet{Phrases: []string{"urgent"}})

	assert.ErrorIs(t, err, domain.ErrNotApplicable)
	assert.Nil(t, result)
	assert.Empty(t, classifier.calls)
}

func TestPrimaryAnalyzer_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	// Ignores its context on purpose: the analyzer must still give up
	classifier := &fakeClassifier{predict: func(context.Context, string) (domain.ClassifierVerdict, error) {
		<-release
		return domain.ClassifierVerdict{Label: 1}, nil
	}}
	analyzer := NewPrimaryAnalyzer(classifier, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	result, err := analyzer.Analyze(context.Background(), domain.IndicatorSet{URLs: []string{"http://slow.example"}})

	assert.ErrorIs(t, err, domain.ErrClassifierFailure)
	assert.ErrorContains(t, err, "timed out")
	assert.Nil(t, result)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPrimaryAnalyzer_Panic(t *testing.T) {
	classifier := &fakeClassifier{predict: func(context.Context, string) (domain.ClassifierVerdict, error) {
		panic("model crashed")
	}}
	analyzer := NewPrimaryAnalyzer(classifier, time.Second, zap.NewNop())

	result, err := analyzer.Analyze(context.Background(), domain.IndicatorSet{URLs: []string{"http://a.example"}})

	assert.ErrorIs(t, err, domain.ErrClassifierFailure)
	assert.Nil(t, result)
}
