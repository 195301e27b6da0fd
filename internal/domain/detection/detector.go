package detection

import (
	"context"
	"errors"

	"github.com/stoik/email-guard/internal/domain"
)

// PrimaryStatus reports what happened to the primary analyzer during one scan
type PrimaryStatus string

const (
	PrimaryDisabled      PrimaryStatus = "disabled"       // No classifier registered at startup
	PrimaryNotApplicable PrimaryStatus = "not_applicable" // No URL to classify
	PrimaryFailed        PrimaryStatus = "failed"         // Error, timeout or malformed output
	PrimaryOK            PrimaryStatus = "ok"
)

// Outcome is the result of running the pipeline on one email text
type Outcome struct {
	Response      domain.ScanResponse
	Indicators    domain.IndicatorSet
	RiskScore     int // Rule-based score behind the last result
	PrimaryStatus PrimaryStatus
	PrimaryErr    error
}

// Detector runs the detection pipeline on emails
//
// text -> Extractor -> {primary analyzer, rule-based scorer} -> Normalizer.
// The rule-based scorer always runs; the primary analyzer runs when it was
// registered at startup and its result is prepended when it produced one.
type Detector struct {
	extractor  *Extractor
	primary    Analyzer
	scorer     *RuleBasedScorer
	normalizer *Normalizer
}

// NewDetector creates a pipeline; primary may be nil when no classifier is available
func NewDetector(extractor *Extractor, primary Analyzer, scorer *RuleBasedScorer, normalizer *Normalizer) *Detector {
	return &Detector{
		extractor:  extractor,
		primary:    primary,
		scorer:     scorer,
		normalizer: normalizer,
	}
}

// AnalyzeEmail runs every analyzer on the email text and returns the normalized response
func (d *Detector) AnalyzeEmail(ctx context.Context, text string) Outcome {
	indicators := d.extractor.Extract(text)

	status := PrimaryDisabled
	var primaryResult *domain.AnalysisResult
	var primaryErr error

	if d.primary != nil {
		primaryResult, primaryErr = d.primary.Analyze(ctx, indicators)
		switch {
		case errors.Is(primaryErr, domain.ErrNotApplicable):
			status = PrimaryNotApplicable
		case primaryErr != nil || primaryResult == nil:
			status = PrimaryFailed
			primaryResult = nil
		default:
			status = PrimaryOK
		}
	}

	ruleBased := d.scorer.Score(indicators)

	return Outcome{
		Response:      d.normalizer.Normalize(primaryResult, ruleBased, text),
		Indicators:    indicators,
		RiskScore:     d.scorer.RiskScore(indicators),
		PrimaryStatus: status,
		PrimaryErr:    primaryErr,
	}
}

// Models describes the analyzers taking part in every scan
func (d *Detector) Models() domain.ModelsSummary {
	models := make([]domain.ModelInfo, 0, 2)
	primaryModel := d.scorer.Name()

	if d.primary != nil {
		models = append(models, domain.ModelInfo{
			Name:   d.primary.Name(),
			Source: d.primary.Source(),
			Status: "loaded",
		})
		primaryModel = d.primary.Name()
	}
	models = append(models, domain.ModelInfo{
		Name:   d.scorer.Name(),
		Source: d.scorer.Source(),
		Status: "available",
	})

	return domain.ModelsSummary{
		TotalModels:        len(models),
		Models:             models,
		PrimaryMLAvailable: d.primary != nil,
		PrimaryModel:       primaryModel,
	}
}
