package detection

import (
	"fmt"
	"math"

	"github.com/stoik/email-guard/internal/domain"
)

// UrgencyFinancialStrategy detects the combination of urgency + financial language
type UrgencyFinancialStrategy struct{}

// NewUrgencyFinancialStrategy creates a new urgency + financial keywords detection strategy
func NewUrgencyFinancialStrategy() *UrgencyFinancialStrategy {
	return &UrgencyFinancialStrategy{}
}

// Name returns the strategy name
func (s *UrgencyFinancialStrategy) Name() string {
	return "Urgency + Financial Keywords"
}

// Detect looks for a combination of urgency, financial and authority language
func (s *UrgencyFinancialStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	text := email.FoldedText()

	urgencyKeywords := []string{
		"urgent", "immediately", "asap", "right away", "time sensitive",
		"today", "end of day", "quick", "need this now", "hurry",
	}

	financialKeywords := []string{
		"wire transfer", "payment", "invoice", "bank account", "routing number",
		"swift", "wire", "fund", "transfer", "refund", "urgent payment",
		"gift card", "itunes", "google play", "prepaid card", "bitcoin",
	}

	authorityKeywords := []string{
		"ceo", "president", "director", "approved", "authorized", "confidential",
		"do not discuss", "between us", "sensitive", "private",
	}

	urgencyCount := countKeywords(text, urgencyKeywords)
	financialCount := countKeywords(text, financialKeywords)
	authorityCount := countKeywords(text, authorityKeywords)

	// Financial keywords weigh highest; urgency alone never triggers
	score := (float64(urgencyCount) * 0.3) + (float64(financialCount) * 0.5) + (float64(authorityCount) * 0.2)

	if urgencyCount > 0 && score > 1.5 {
		return &domain.Flag{
			Key: FlagUrgencyFinancial,
			Evidence: fmt.Sprintf(
				"High-risk language (score %.2f): %d urgency, %d financial, %d authority keywords",
				math.Round(score*100)/100, urgencyCount, financialCount, authorityCount,
			),
		}
	}

	return nil
}
