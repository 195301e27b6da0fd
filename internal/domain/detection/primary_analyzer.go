package detection

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
	"github.com/stoik/email-guard/internal/ports"
)

const (
	// DefaultClassifierTimeout bounds one external classifier call
	DefaultClassifierTimeout = 3 * time.Second

	// defaultClassifierConfidence is reported when the classifier gives a label without a score
	defaultClassifierConfidence = 0.85
)

// PrimaryAnalyzer adapts an external URL classifier to the Analyzer interface
//
// Only the first extracted URL is classified. Failures never escape as
// request errors: they are logged and returned as ErrClassifierFailure so the
// pipeline can continue with the rule-based result alone.
type PrimaryAnalyzer struct {
	classifier ports.URLClassifier
	timeout    time.Duration
	logger     *zap.Logger
}

// NewPrimaryAnalyzer creates a primary analyzer bounded by timeout (DefaultClassifierTimeout when <= 0)
func NewPrimaryAnalyzer(classifier ports.URLClassifier, timeout time.Duration, logger *zap.Logger) *PrimaryAnalyzer {
	if timeout <= 0 {
		timeout = DefaultClassifierTimeout
	}
	return &PrimaryAnalyzer{
		classifier: classifier,
		timeout:    timeout,
		logger:     logger,
	}
}

// Name returns the classifier's model name
func (a *PrimaryAnalyzer) Name() string {
	return a.classifier.Name()
}

// Source returns the classifier's model source
func (a *PrimaryAnalyzer) Source() string {
	return a.classifier.Source()
}

// Analyze classifies the first URL of the indicator set
func (a *PrimaryAnalyzer) Analyze(ctx context.Context, indicators domain.IndicatorSet) (*domain.AnalysisResult, error) {
	url, ok := indicators.FirstURL()
	if !ok {
		return nil, domain.ErrNotApplicable
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	verdict, err := a.predict(ctx, url)
	if err != nil {
		a.logger.Warn("Primary classifier failed, using rule-based result only",
			zap.String("model", a.classifier.Name()),
			zap.String("url", url),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, err)
	}

	result, err := a.toResult(url, verdict)
	if err != nil {
		a.logger.Warn("Primary classifier returned malformed output",
			zap.String("model", a.classifier.Name()),
			zap.Int("label", verdict.Label),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, err)
	}

	return result, nil
}

// predict runs the classifier so that a call ignoring its context still honors the deadline
func (a *PrimaryAnalyzer) predict(ctx context.Context, url string) (domain.ClassifierVerdict, error) {
	type outcome struct {
		verdict domain.ClassifierVerdict
		err     error
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("classifier panic: %v", r)}
			}
		}()
		v, err := a.classifier.Predict(ctx, url)
		done <- outcome{verdict: v, err: err}
	}()

	select {
	case o := <-done:
		return o.verdict, o.err
	case <-ctx.Done():
		return domain.ClassifierVerdict{}, fmt.Errorf("classifier timed out after %s: %w", a.timeout, ctx.Err())
	}
}

// toResult maps the classifier's binary label into the uniform result schema
func (a *PrimaryAnalyzer) toResult(url string, verdict domain.ClassifierVerdict) (*domain.AnalysisResult, error) {
	var decision domain.Decision
	switch verdict.Label {
	case 1:
		decision = domain.DecisionPhishing
	case 0:
		decision = domain.DecisionSafe
	default:
		return nil, fmt.Errorf("unexpected label %d", verdict.Label)
	}

	confidence := defaultClassifierConfidence
	if verdict.Confidence != nil {
		confidence = *verdict.Confidence
	}

	description := verdict.Description
	if description == "" {
		description = fmt.Sprintf("URL analysis result for %s", url)
	}

	return &domain.AnalysisResult{
		ModelSource: a.classifier.Source(),
		ModelName:   a.classifier.Name(),
		Decision:    decision,
		Confidence:  domain.ClampConfidence(confidence),
		Description: description,
	}, nil
}
