package detection

import (
	"fmt"
	"strings"

	"github.com/stoik/email-guard/internal/domain"
)

// AuthFailuresStrategy detects email authentication failures
//
// SPF, DKIM and DMARC verify that a message really comes from the claimed
// domain. These headers are only present when a full message was submitted.
type AuthFailuresStrategy struct{}

// NewAuthFailuresStrategy creates a new email authentication failures detection strategy
func NewAuthFailuresStrategy() *AuthFailuresStrategy {
	return &AuthFailuresStrategy{}
}

// Name returns the strategy name
func (s *AuthFailuresStrategy) Name() string {
	return "Authentication Failures"
}

// Detect checks headers for SPF, DKIM, DMARC failures
func (s *AuthFailuresStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	failures := make([]string, 0)

	if spf, ok := email.Headers["Received-SPF"]; ok {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(spf)), "fail") {
			failures = append(failures, "SPF_FAIL")
		}
	}

	if authResults, ok := email.Headers["Authentication-Results"]; ok {
		lower := strings.ToLower(authResults)
		if strings.Contains(lower, "spf=fail") && !containsString(failures, "SPF_FAIL") {
			failures = append(failures, "SPF_FAIL")
		}
		if strings.Contains(lower, "dkim=fail") {
			failures = append(failures, "DKIM_FAIL")
		}
		if strings.Contains(lower, "dmarc=fail") {
			failures = append(failures, "DMARC_FAIL")
		}
	}

	// Legitimate misconfigurations usually affect only one protocol
	if len(failures) >= 2 {
		return &domain.Flag{
			Key:      FlagAuthFailures,
			Evidence: fmt.Sprintf("Email authentication failures: %s", strings.Join(failures, ", ")),
		}
	}

	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
