package detection

import (
	"fmt"

	"golang.org/x/net/publicsuffix"

	"github.com/stoik/email-guard/internal/domain"
)

// TyposquattingStrategy detects lookalike domains of trusted brands
type TyposquattingStrategy struct{}

// NewTyposquattingStrategy creates a new domain typosquatting detection strategy
func NewTyposquattingStrategy() *TyposquattingStrategy {
	return &TyposquattingStrategy{}
}

// Name returns the strategy name
func (s *TyposquattingStrategy) Name() string {
	return "Domain Typosquatting"
}

// Detect compares the sender domain and every URL's registrable domain to the trusted domains
func (s *TyposquattingStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	candidates := make([]string, 0, len(email.URLs)+1)
	if sender := extractDomain(email.SenderEmail); sender != "" {
		candidates = append(candidates, sender)
	}
	for _, u := range email.URLs {
		host := urlHost(u)
		if host == "" || isIPHost(host) {
			continue
		}
		if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			candidates = append(candidates, registrable)
		}
	}

	for _, candidate := range candidates {
		for _, trustedDomain := range context.TrustedDomains {
			// Skip if exact match (legitimate domain)
			if candidate == trustedDomain {
				continue
			}

			distance := levenshteinDistance(candidate, trustedDomain)
			maxLen := float64(max(len(candidate), len(trustedDomain)))
			similarity := (1.0 - float64(distance)/maxLen) * 100

			// Flag if very similar but not identical (85% threshold)
			if similarity > 85 && similarity < 100 {
				return &domain.Flag{
					Key: FlagDomainTyposquatting,
					Evidence: fmt.Sprintf(
						"Domain '%s' is %.1f%% similar to trusted domain '%s' (potential typosquatting)",
						candidate, similarity, trustedDomain,
					),
				}
			}
		}
	}

	return nil
}
