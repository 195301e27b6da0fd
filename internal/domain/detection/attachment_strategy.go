package detection

import (
	"fmt"
	"strings"

	"github.com/stoik/email-guard/internal/domain"
)

// AttachmentStrategy detects suspicious attachment types
//
// Attachment names are only known when a full MIME message was submitted.
type AttachmentStrategy struct{}

// NewAttachmentStrategy creates a new suspicious attachments detection strategy
func NewAttachmentStrategy() *AttachmentStrategy {
	return &AttachmentStrategy{}
}

// Name returns the strategy name
func (s *AttachmentStrategy) Name() string {
	return "Suspicious Attachments"
}

// Detect checks for executable types and double extensions
func (s *AttachmentStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	// Executables and scripts run arbitrary code on the victim's machine
	highRiskExtensions := []string{
		".exe", ".scr", ".bat", ".cmd", ".com", ".pif",
		".vbs", ".js", ".jar", ".msi", ".app", ".iso", ".html", ".htm",
	}

	// High-risk types outrank double extensions, whatever the attachment order
	for _, name := range email.AttachmentNames {
		filename := strings.ToLower(name)
		for _, ext := range highRiskExtensions {
			if strings.HasSuffix(filename, ext) {
				return &domain.Flag{
					Key:      FlagHighRiskAttachment,
					Evidence: fmt.Sprintf("High-risk attachment type: %s", name),
				}
			}
		}
	}

	// Double extension trick (e.g., invoice.pdf.zip)
	for _, name := range email.AttachmentNames {
		if strings.Count(name, ".") > 1 {
			return &domain.Flag{
				Key:      FlagSuspiciousAttachment,
				Evidence: fmt.Sprintf("Suspicious attachment name (double extension): %s", name),
			}
		}
	}

	return nil
}
