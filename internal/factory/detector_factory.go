package factory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/adapters/classifier"
	"github.com/stoik/email-guard/internal/config"
	"github.com/stoik/email-guard/internal/domain"
	"github.com/stoik/email-guard/internal/domain/detection"
	"github.com/stoik/email-guard/internal/ports"
)

// readyTimeout bounds the startup availability check of the primary classifier
const readyTimeout = 5 * time.Second

// DetectorFactory assembles the detection pipeline
type DetectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  domain.Clock
}

// NewDetectorFactory creates a new detector factory
func NewDetectorFactory(cfg *config.Config, logger *zap.Logger, clock domain.Clock) *DetectorFactory {
	return &DetectorFactory{
		cfg:    cfg,
		logger: logger,
		clock:  clock,
	}
}

// CreateDetector builds the extractor, both analyzers and the normalizer
//
// The primary classifier is checked once here. When it is not configured or not
// ready the pipeline runs with the rule-based scorer alone for the whole process
// lifetime.
func (f *DetectorFactory) CreateDetector() (*detection.Detector, error) {
	classifierCfg, err := f.cfg.Classifier()
	if err != nil {
		return nil, err
	}

	table := detection.DefaultRuleTable()
	extractor := detection.NewExtractor(table, detection.NewDetectionContext(classifierCfg.TrustedDomains), detection.DefaultStrategies())
	normalizer := detection.NewNormalizer(f.clock, f.cfg.Scan().SnippetLength)

	var primary detection.Analyzer
	if urlClassifier := f.createClassifier(classifierCfg); urlClassifier != nil {
		primary = detection.NewPrimaryAnalyzer(urlClassifier, classifierCfg.Timeout, f.logger)
	}

	return detection.NewDetector(extractor, primary, detection.NewRuleBasedScorer(table), normalizer), nil
}

// createClassifier returns a ready classifier, or nil when none can be used
func (f *DetectorFactory) createClassifier(cfg config.ClassifierConfig) ports.URLClassifier {
	var urlClassifier ports.URLClassifier
	switch cfg.Provider {
	case "http":
		urlClassifier = classifier.NewHTTPClassifier(cfg.Endpoint, cfg.ModelName, cfg.Timeout, f.logger)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			f.logger.Warn("OpenAI classifier selected without an API key, running rule-based only")
			return nil
		}
		urlClassifier = classifier.NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIMaxTokens, f.logger)
	default:
		f.logger.Info("No primary classifier configured, running rule-based only")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()

	if err := urlClassifier.Ready(ctx); err != nil {
		f.logger.Warn("Primary classifier unavailable, running rule-based only",
			zap.String("provider", cfg.Provider),
			zap.String("model", urlClassifier.Name()),
			zap.Error(err))
		return nil
	}

	f.logger.Info("Primary classifier loaded",
		zap.String("provider", cfg.Provider),
		zap.String("model", urlClassifier.Name()))
	return urlClassifier
}
