package detection

// Flag keys emitted by the indicator strategies
const (
	FlagURLIPHost            = "URL_IP_HOST"
	FlagURLSubdomainDepth    = "URL_SUBDOMAIN_DEPTH"
	FlagURLNonStandardTLD    = "URL_NONSTANDARD_TLD"
	FlagURLAtSign            = "URL_AT_SIGN"
	FlagURLHostKeywords      = "URL_HOST_KEYWORDS"
	FlagDomainTyposquatting  = "DOMAIN_TYPOSQUATTING"
	FlagReplyToMismatch      = "REPLY_TO_MISMATCH"
	FlagAuthFailures         = "AUTH_FAILURES"
	FlagDisplayNameMismatch  = "DISPLAY_NAME_MISMATCH"
	FlagHighRiskAttachment   = "HIGH_RISK_ATTACHMENT"
	FlagSuspiciousAttachment = "SUSPICIOUS_ATTACHMENT_NAME"
	FlagUrgencyFinancial     = "URGENCY_FINANCIAL_LANGUAGE"
)

// PhraseRule is one entry of the suspicious phrase vocabulary
type PhraseRule struct {
	Phrase string // Matched case-insensitively as a substring
	Weight int
}

// ConfidenceBand is the confidence range a decision maps its score into
type ConfidenceBand struct {
	Low  float64
	High float64
}

// RuleTable is the fixed scoring configuration of the rule-based scorer
//
// Decision mapping on the summed risk score:
//
//	score >= PhishingThreshold                    -> phishing
//	SpamThreshold <= score < PhishingThreshold    -> spam
//	score < SpamThreshold                         -> safe
//
// Confidence rises with the score inside the phishing and spam bands
// (phishing saturates at SaturationScore) and falls with the score inside
// the safe band, since more risk means less certainty that the email is safe.
type RuleTable struct {
	Phrases     []PhraseRule
	FlagWeights map[string]int

	PhishingThreshold int
	SpamThreshold     int
	SaturationScore   int

	PhishingBand ConfidenceBand
	SpamBand     ConfidenceBand
	SafeBand     ConfidenceBand
}

// DefaultRuleTable returns the production phrase and flag weights
func DefaultRuleTable() RuleTable {
	return RuleTable{
		Phrases: []PhraseRule{
			// Urgency
			{Phrase: "urgent", Weight: 15},
			{Phrase: "immediately", Weight: 10},
			{Phrase: "act now", Weight: 10},
			{Phrase: "limited time", Weight: 10},
			{Phrase: "expires soon", Weight: 10},
			{Phrase: "final notice", Weight: 15},

			// Account takeover lures
			{Phrase: "account suspended", Weight: 25},
			{Phrase: "account has been suspended", Weight: 25},
			{Phrase: "account will be suspended", Weight: 25},
			{Phrase: "unusual activity", Weight: 15},
			{Phrase: "verify identity", Weight: 25},
			{Phrase: "verify your identity", Weight: 25},
			{Phrase: "verify your account", Weight: 25},
			{Phrase: "confirm your password", Weight: 30},
			{Phrase: "password expires", Weight: 20},
			{Phrase: "password reset", Weight: 15},
			{Phrase: "login credentials", Weight: 20},
			{Phrase: "click here immediately", Weight: 25},
			{Phrase: "click here", Weight: 10},
			{Phrase: "dear customer", Weight: 10},

			// Personal and financial data requests
			{Phrase: "social security", Weight: 25},
			{Phrase: "bank account", Weight: 15},
			{Phrase: "credit card", Weight: 15},
			{Phrase: "wire transfer", Weight: 20},
			{Phrase: "gift card", Weight: 20},
			{Phrase: "payment required", Weight: 15},
			{Phrase: "update your payment", Weight: 20},

			// Prize and marketing spam
			{Phrase: "you have won", Weight: 25},
			{Phrase: "claim your prize", Weight: 25},
			{Phrase: "lottery", Weight: 20},
			{Phrase: "inheritance", Weight: 20},
			{Phrase: "free gift", Weight: 15},
			{Phrase: "100% free", Weight: 15},
			{Phrase: "risk-free", Weight: 10},
			{Phrase: "no obligation", Weight: 10},
			{Phrase: "special promotion", Weight: 10},
			{Phrase: "unsubscribe", Weight: 5},
		},
		FlagWeights: map[string]int{
			FlagURLIPHost:            35,
			FlagURLSubdomainDepth:    15,
			FlagURLNonStandardTLD:    15,
			FlagURLAtSign:            30,
			FlagURLHostKeywords:      20,
			FlagDomainTyposquatting:  40,
			FlagReplyToMismatch:      25,
			FlagAuthFailures:         35,
			FlagDisplayNameMismatch:  30,
			FlagHighRiskAttachment:   40,
			FlagSuspiciousAttachment: 30,
			FlagUrgencyFinancial:     15,
		},
		PhishingThreshold: 60,
		SpamThreshold:     30,
		SaturationScore:   120,
		PhishingBand:      ConfidenceBand{Low: 0.60, High: 0.95},
		SpamBand:          ConfidenceBand{Low: 0.50, High: 0.80},
		SafeBand:          ConfidenceBand{Low: 0.60, High: 0.95},
	}
}

// PhraseWeight returns the weight of a vocabulary phrase, 0 if unknown
func (t RuleTable) PhraseWeight(phrase string) int {
	for _, rule := range t.Phrases {
		if rule.Phrase == phrase {
			return rule.Weight
		}
	}
	return 0
}

// FlagWeight returns the weight of a flag key, 0 if unknown
func (t RuleTable) FlagWeight(key string) int {
	return t.FlagWeights[key]
}
