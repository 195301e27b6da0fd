package detection

import (
	"fmt"
	"strings"

	"github.com/stoik/email-guard/internal/domain"
)

// ReplyToStrategy detects Reply-To header mismatches
type ReplyToStrategy struct{}

// NewReplyToStrategy creates a new Reply-To mismatch detection strategy
func NewReplyToStrategy() *ReplyToStrategy {
	return &ReplyToStrategy{}
}

// Name returns the strategy name
func (s *ReplyToStrategy) Name() string {
	return "Reply-To Mismatch"
}

// Detect checks if Reply-To differs from the sender and redirects answers to free email
func (s *ReplyToStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	senderEmail := strings.ToLower(email.SenderEmail)
	replyTo := strings.ToLower(email.Headers["Reply-To"])

	if replyTo == "" || replyTo == senderEmail {
		return nil
	}

	senderDomain := extractDomain(senderEmail)
	replyToDomain := extractDomain(replyTo)

	isFreemail := false
	for _, freeDomain := range context.FreeMailDomains {
		if replyToDomain == freeDomain {
			isFreemail = true
			break
		}
	}

	if isFreemail && replyToDomain != senderDomain {
		return &domain.Flag{
			Key: FlagReplyToMismatch,
			Evidence: fmt.Sprintf(
				"Sender: %s, Reply-To: %s (free email service, redirects responses)",
				senderEmail, replyTo,
			),
		}
	}

	return nil
}
