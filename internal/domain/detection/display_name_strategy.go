package detection

import (
	"fmt"
	"strings"

	"github.com/stoik/email-guard/internal/domain"
)

// DisplayNameStrategy detects impersonation through the sender display name
type DisplayNameStrategy struct{}

// NewDisplayNameStrategy creates a new display name mismatch detection strategy
func NewDisplayNameStrategy() *DisplayNameStrategy {
	return &DisplayNameStrategy{}
}

// Name returns the strategy name
func (s *DisplayNameStrategy) Name() string {
	return "Display Name Mismatch"
}

// Detect flags a display name claiming a trusted brand the sender domain does not belong to,
// or an executive title sent from a free email account
func (s *DisplayNameStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	displayName := strings.ToLower(email.SenderName)
	senderDomain := extractDomain(email.SenderEmail)
	if displayName == "" || senderDomain == "" {
		return nil
	}

	for _, trusted := range context.TrustedDomains {
		brand := domainLabel(trusted)
		if len(brand) < 4 || !strings.Contains(displayName, brand) {
			continue
		}
		if !matchesDomain(senderDomain, trusted) {
			return &domain.Flag{
				Key: FlagDisplayNameMismatch,
				Evidence: fmt.Sprintf(
					"Display name '%s' claims %s but sender domain is '%s'",
					email.SenderName, trusted, senderDomain,
				),
			}
		}
	}

	execTitles := []string{"ceo", "cfo", "president", "director", "chief", "vice president"}
	if containsAny(displayName, execTitles) {
		for _, free := range context.FreeMailDomains {
			if senderDomain == free {
				return &domain.Flag{
					Key: FlagDisplayNameMismatch,
					Evidence: fmt.Sprintf(
						"Display name '%s' contains an executive title but was sent from free email domain '%s'",
						email.SenderName, senderDomain,
					),
				}
			}
		}
	}

	return nil
}
