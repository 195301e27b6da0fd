package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/email-guard/internal/domain"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultRuleTable(), NewDetectionContext(nil), DefaultStrategies())
}

func flagKeys(set domain.IndicatorSet) []string {
	keys := make([]string, 0, len(set.Flags))
	for _, f := range set.Flags {
		keys = append(keys, f.Key)
	}
	return keys
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "No URL",
			text:     "Hi John, reminder about our meeting tomorrow at 2 PM.",
			expected: nil,
		},
		{
			name:     "First-seen order with duplicates removed",
			text:     "Visit https://a.example.com/x, then http://b.example.org. Again: https://a.example.com/x",
			expected: []string{"https://a.example.com/x", "http://b.example.org"},
		},
		{
			name:     "Trailing punctuation is not part of the URL",
			text:     "Log in (https://portal.example.com/login?next=%2F).",
			expected: []string{"https://portal.example.com/login?next=%2F"},
		},
		{
			name:     "IP literal host and port",
			text:     "Go to http://192.168.10.5:8080/verify now",
			expected: []string{"http://192.168.10.5:8080/verify"},
		},
		{
			name:     "Userinfo is kept",
			text:     "https://paypal.com@evil.example/login",
			expected: []string{"https://paypal.com@evil.example/login"},
		},
		{
			name:     "Scheme is case-insensitive",
			text:     "HTTPS://Example.COM/Path",
			expected: []string{"HTTPS://Example.COM/Path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractURLs(tt.text))
		})
	}
}

func TestExtractor_Extract_BlankText(t *testing.T) {
	extractor := newTestExtractor()

	for _, text := range []string{"", "   ", "\n\t\n"} {
		set := extractor.Extract(text)
		assert.True(t, set.Empty(), "blank text %q should give an empty set", text)
	}
}

func TestExtractor_Extract_Phrases(t *testing.T) {
	extractor := newTestExtractor()

	set := extractor.Extract("FINAL NOTICE: Your Account Has Been Suspended. Click here to verify your identity.")

	// Vocabulary order, case-insensitive, each phrase once
	assert.Equal(t, []string{
		"final notice",
		"account has been suspended",
		"verify your identity",
		"click here",
	}, set.Phrases)
	assert.Empty(t, set.URLs)
}

func TestExtractor_Extract_PhishingText(t *testing.T) {
	extractor := newTestExtractor()

	set := extractor.Extract("URGENT: Your account has been suspended... verify your identity... http://suspicious-bank-verify.com/urgent-verify")

	assert.Equal(t, []string{"http://suspicious-bank-verify.com/urgent-verify"}, set.URLs)
	assert.Equal(t, []string{"urgent", "account has been suspended", "verify your identity"}, set.Phrases)
	assert.Equal(t, []string{FlagURLHostKeywords}, flagKeys(set))
}

func TestExtractor_Extract_Deterministic(t *testing.T) {
	extractor := newTestExtractor()
	text := "Limited time! Claim your prize at http://203.0.113.7/win or https://prize.example.tk/claim"

	first := extractor.Extract(text)
	second := extractor.Extract(text)

	assert.Equal(t, first, second)
	assert.Contains(t, flagKeys(first), FlagURLIPHost)
	assert.Contains(t, flagKeys(first), FlagURLNonStandardTLD)
}

const rawPhishingMessage = `From: "PayPal Service" <service@paypa1-support.com>
To: victim@example.com
Reply-To: refunds.desk@gmail.com
Subject: Your account has been suspended
Authentication-Results: mx.example.net; spf=fail smtp.mailfrom=paypa1-support.com; dkim=fail header.d=paypa1-support.com; dmarc=fail
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="b1"

--b1
Content-Type: text/plain; charset=utf-8

Please verify your identity at https://paypa1.com/signin
--b1
Content-Type: application/octet-stream
Content-Disposition: attachment; filename="invoice.pdf.exe"

AAAA
--b1--
`

func TestExtractor_Extract_FullMessage(t *testing.T) {
	extractor := newTestExtractor()

	set := extractor.Extract(rawPhishingMessage)

	assert.Equal(t, []string{"https://paypa1.com/signin"}, set.URLs)
	assert.Contains(t, set.Phrases, "account has been suspended")
	assert.Contains(t, set.Phrases, "verify your identity")

	keys := flagKeys(set)
	assert.Contains(t, keys, FlagDomainTyposquatting)
	assert.Contains(t, keys, FlagReplyToMismatch)
	assert.Contains(t, keys, FlagAuthFailures)
	assert.Contains(t, keys, FlagDisplayNameMismatch)
	assert.Contains(t, keys, FlagHighRiskAttachment)
}

func TestParseEmail(t *testing.T) {
	t.Run("Plain text stays as is", func(t *testing.T) {
		text := "Hello,\nFrom: the team\n\nSee you"
		email := parseEmail(text)

		assert.Equal(t, text, email.Text)
		assert.Empty(t, email.SenderEmail)
		assert.Nil(t, email.Headers)
	})

	t.Run("Header block is parsed", func(t *testing.T) {
		email := parseEmail(rawPhishingMessage)

		require.NotNil(t, email.Headers)
		assert.Equal(t, "service@paypa1-support.com", email.SenderEmail)
		assert.Equal(t, "PayPal Service", email.SenderName)
		assert.Equal(t, "refunds.desk@gmail.com", email.Headers["Reply-To"])
		assert.Equal(t, []string{"invoice.pdf.exe"}, email.AttachmentNames)
		assert.Contains(t, email.Text, "Your account has been suspended")
		assert.Contains(t, email.Text, "https://paypa1.com/signin")
		assert.NotContains(t, email.Text, "AAAA")
	})
}

func TestLooksLikeMessage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"Known headers", "From: a@b.com\nSubject: hi\n\nbody", true},
		{"CRLF line endings", "Subject: hi\r\nTo: a@b.com\r\n\r\nbody", true},
		{"Folded header", "Subject: a very\n long subject\n\nbody", true},
		{"Unknown headers only", "X-Foo: bar\n\nbody", false},
		{"No blank line", "From: a@b.com\nSubject: hi", false},
		{"Prose first", "Dear customer,\nFrom: us\n\nbody", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, looksLikeMessage(tt.text))
		})
	}
}
