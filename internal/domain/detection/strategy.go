package detection

import (
	"context"

	"github.com/stoik/email-guard/internal/domain"
)

// Analyzer produces one verdict for an indicator set
//
// Two variants take part in a scan: the PrimaryAnalyzer wrapping an external
// classifier, and the RuleBasedScorer that has no external dependency.
type Analyzer interface {
	// Analyze returns nil and an error when the analyzer produced no verdict
	Analyze(ctx context.Context, indicators domain.IndicatorSet) (*domain.AnalysisResult, error)

	// Name and Source identify the model in analysis results
	Name() string
	Source() string
}

// IndicatorStrategy defines the interface that all indicator checks must implement
//
// Each strategy inspects the parsed email and returns a Flag when its pattern
// is present, nil otherwise. A strategy reports its key at most once per email.
type IndicatorStrategy interface {
	Detect(email ParsedEmail, context *DetectionContext) *domain.Flag

	// Name returns the human-readable name of this strategy
	Name() string
}

// DetectionContext provides shared reference data needed by multiple strategies
type DetectionContext struct {
	// TrustedDomains are brands commonly impersonated (e.g., "paypal.com").
	// Used for typosquatting and display name checks.
	TrustedDomains []string

	// FreeMailDomains are consumer mailbox providers anyone can register on
	FreeMailDomains []string

	// RiskyTLDs are ICANN suffixes with disproportionate abuse rates
	RiskyTLDs []string

	// HostKeywords are lure words phishing kits put in hostnames
	HostKeywords []string

	// MaxSubdomainDepth is the number of labels allowed left of the registrable domain
	MaxSubdomainDepth int
}

// NewDetectionContext creates a detection context with default reference lists
// and the provided trusted domains (defaults are used when empty)
func NewDetectionContext(trustedDomains []string) *DetectionContext {
	if len(trustedDomains) == 0 {
		trustedDomains = []string{
			"paypal.com", "microsoft.com", "google.com", "apple.com",
			"amazon.com", "netflix.com", "facebook.com", "linkedin.com",
			"chase.com", "wellsfargo.com", "bankofamerica.com", "dhl.com",
		}
	}

	return &DetectionContext{
		TrustedDomains: trustedDomains,
		FreeMailDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com",
			"proton.me", "protonmail.com", "gmx.com", "mail.com", "yandex.ru",
		},
		RiskyTLDs: []string{
			"zip", "mov", "xyz", "top", "tk", "ml", "ga", "cf", "gq",
			"click", "link", "work", "country", "kim", "loan", "rest",
		},
		HostKeywords: []string{
			"verify", "secure", "login", "signin", "account", "update",
			"bank", "wallet", "billing", "support", "confirm", "password",
		},
		MaxSubdomainDepth: 2,
	}
}

// DefaultStrategies returns every indicator strategy in evaluation order
func DefaultStrategies() []IndicatorStrategy {
	return []IndicatorStrategy{
		NewIPHostStrategy(),
		NewSubdomainDepthStrategy(),
		NewNonStandardTLDStrategy(),
		NewAtSignStrategy(),
		NewHostKeywordsStrategy(),
		NewTyposquattingStrategy(),
		NewReplyToStrategy(),
		NewAuthFailuresStrategy(),
		NewDisplayNameStrategy(),
		NewAttachmentStrategy(),
		NewUrgencyFinancialStrategy(),
	}
}
