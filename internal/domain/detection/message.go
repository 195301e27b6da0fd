package detection

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// maxPartBytes bounds how much of each decoded text part is analyzed
const maxPartBytes = 1 << 20

// ParsedEmail is the analyzable view of a submitted email text
//
// Plain pasted text only populates Text and URLs. When the text starts with an
// RFC 5322 header block, sender, authentication headers and attachment names
// are filled in as well, and Text holds the subject plus the decoded text parts.
type ParsedEmail struct {
	Text string
	URLs []string

	SenderEmail     string
	SenderName      string
	Headers         map[string]string
	AttachmentNames []string

	folded string
}

// FoldedText returns the case-folded text used for keyword matching
func (e ParsedEmail) FoldedText() string {
	if e.folded == "" && e.Text != "" {
		return foldCase(e.Text)
	}
	return e.folded
}

var headerLine = regexp.MustCompile(`^[!-9;-~]+:`)

// knownHeaders are fields that mark a header block as a real message header
var knownHeaders = []string{
	"from", "to", "subject", "date", "message-id", "received",
	"return-path", "mime-version", "reply-to", "content-type",
}

// looksLikeMessage reports whether text starts with a header block followed by a blank line
func looksLikeMessage(text string) bool {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	end := strings.Index(normalized, "\n\n")
	if end <= 0 {
		return false
	}

	known := false
	for _, line := range strings.Split(normalized[:end], "\n") {
		if line == "" {
			return false
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue // Folded header continuation
		}
		if !headerLine.MatchString(line) {
			return false
		}
		name := strings.ToLower(line[:strings.IndexByte(line, ':')])
		for _, h := range knownHeaders {
			if name == h {
				known = true
			}
		}
	}
	return known
}

// parseEmail builds the analyzable view of raw email text
func parseEmail(text string) ParsedEmail {
	email := ParsedEmail{Text: text}
	if !looksLikeMessage(text) {
		return email
	}

	mr, err := mail.CreateReader(strings.NewReader(text))
	if err != nil && !message.IsUnknownCharset(err) {
		return email // Not parseable as a message, analyze as plain text
	}
	defer mr.Close()

	email.Headers = make(map[string]string)
	for _, key := range []string{"Reply-To", "Received-SPF", "Authentication-Results"} {
		if v := mr.Header.Get(key); v != "" {
			email.Headers[key] = v
		}
	}

	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		email.SenderEmail = strings.ToLower(from[0].Address)
		email.SenderName = from[0].Name
	}
	if replyTo, err := mr.Header.AddressList("Reply-To"); err == nil && len(replyTo) > 0 {
		email.Headers["Reply-To"] = strings.ToLower(replyTo[0].Address)
	}

	sections := make([]string, 0, 2)
	if subject, err := mr.Header.Subject(); err == nil && subject != "" {
		sections = append(sections, subject)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			break // Truncated or malformed MIME structure, keep what was read
		}
		if part == nil {
			continue
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if contentType != "" && !strings.HasPrefix(contentType, "text/") {
				continue
			}
			body, err := io.ReadAll(io.LimitReader(part.Body, maxPartBytes))
			if err == nil && len(body) > 0 {
				sections = append(sections, string(body))
			}
		case *mail.AttachmentHeader:
			if name, err := h.Filename(); err == nil && name != "" {
				email.AttachmentNames = append(email.AttachmentNames, name)
			}
		}
	}

	if len(sections) > 0 {
		email.Text = strings.Join(sections, "\n\n")
	}
	return email
}
