package detection

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/stoik/email-guard/internal/domain"
)

// IPHostStrategy flags URLs that point at a raw IP address instead of a domain
type IPHostStrategy struct{}

// NewIPHostStrategy creates a new IP-literal host detection strategy
func NewIPHostStrategy() *IPHostStrategy {
	return &IPHostStrategy{}
}

// Name returns the strategy name
func (s *IPHostStrategy) Name() string {
	return "IP Address Host"
}

// Detect checks every extracted URL for an IPv4 or IPv6 literal host
func (s *IPHostStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	for _, u := range email.URLs {
		if host := urlHost(u); isIPHost(host) {
			return &domain.Flag{
				Key:      FlagURLIPHost,
				Evidence: fmt.Sprintf("URL uses an IP address host: %s", u),
			}
		}
	}
	return nil
}

// SubdomainDepthStrategy flags hosts that bury a brand name deep in subdomains
//
// Attack pattern: "paypal.com.secure.login.evil.tk" reads as PayPal at a glance.
type SubdomainDepthStrategy struct{}

// NewSubdomainDepthStrategy creates a new excessive subdomain depth detection strategy
func NewSubdomainDepthStrategy() *SubdomainDepthStrategy {
	return &SubdomainDepthStrategy{}
}

// Name returns the strategy name
func (s *SubdomainDepthStrategy) Name() string {
	return "Excessive Subdomain Depth"
}

// Detect counts labels left of the registrable domain (eTLD+1)
func (s *SubdomainDepthStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	for _, u := range email.URLs {
		host := urlHost(u)
		if host == "" || isIPHost(host) {
			continue
		}

		registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
		if err != nil || registrable == host {
			continue
		}

		prefix := strings.TrimSuffix(host, "."+registrable)
		depth := strings.Count(prefix, ".") + 1
		if depth > context.MaxSubdomainDepth {
			return &domain.Flag{
				Key:      FlagURLSubdomainDepth,
				Evidence: fmt.Sprintf("URL host %s has %d subdomain levels above %s", host, depth, registrable),
			}
		}
	}
	return nil
}

// NonStandardTLDStrategy flags hosts on unknown or abuse-prone top-level domains
type NonStandardTLDStrategy struct{}

// NewNonStandardTLDStrategy creates a new non-standard TLD detection strategy
func NewNonStandardTLDStrategy() *NonStandardTLDStrategy {
	return &NonStandardTLDStrategy{}
}

// Name returns the strategy name
func (s *NonStandardTLDStrategy) Name() string {
	return "Non-Standard TLD"
}

// Detect uses the public suffix list: non-ICANN suffixes and listed risky TLDs are flagged
func (s *NonStandardTLDStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	for _, u := range email.URLs {
		host := urlHost(u)
		if host == "" || isIPHost(host) {
			continue
		}

		suffix, icann := publicsuffix.PublicSuffix(host)
		tld := suffix[strings.LastIndexByte(suffix, '.')+1:]

		// Private suffixes (e.g., "blogspot.com") are listed but not ICANN-managed;
		// only a bare unknown label counts as non-standard.
		if !icann && !strings.Contains(suffix, ".") {
			return &domain.Flag{
				Key:      FlagURLNonStandardTLD,
				Evidence: fmt.Sprintf("URL host %s uses unrecognized top-level domain .%s", host, tld),
			}
		}

		for _, risky := range context.RiskyTLDs {
			if tld == risky {
				return &domain.Flag{
					Key:      FlagURLNonStandardTLD,
					Evidence: fmt.Sprintf("URL host %s uses high-abuse top-level domain .%s", host, tld),
				}
			}
		}
	}
	return nil
}

// AtSignStrategy flags "@" after the scheme, which browsers treat as userinfo
//
// Attack pattern: "https://paypal.com@evil.tk/login" navigates to evil.tk.
type AtSignStrategy struct{}

// NewAtSignStrategy creates a new at-sign URL detection strategy
func NewAtSignStrategy() *AtSignStrategy {
	return &AtSignStrategy{}
}

// Name returns the strategy name
func (s *AtSignStrategy) Name() string {
	return "At-Sign in URL"
}

// Detect checks every extracted URL for an "@" past the scheme
func (s *AtSignStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	for _, u := range email.URLs {
		rest := u[strings.Index(u, "://")+3:]
		if strings.Contains(rest, "@") {
			return &domain.Flag{
				Key:      FlagURLAtSign,
				Evidence: fmt.Sprintf("URL contains '@', hiding the real destination: %s", u),
			}
		}
	}
	return nil
}

// HostKeywordsStrategy flags hosts built from credential-lure words
type HostKeywordsStrategy struct{}

// NewHostKeywordsStrategy creates a new lure keyword host detection strategy
func NewHostKeywordsStrategy() *HostKeywordsStrategy {
	return &HostKeywordsStrategy{}
}

// Name returns the strategy name
func (s *HostKeywordsStrategy) Name() string {
	return "Lure Keywords in Host"
}

// Detect flags a host that is not a trusted domain but contains lure keywords
func (s *HostKeywordsStrategy) Detect(email ParsedEmail, context *DetectionContext) *domain.Flag {
	for _, u := range email.URLs {
		host := urlHost(u)
		if host == "" || isIPHost(host) || isTrustedHost(host, context.TrustedDomains) {
			continue
		}

		var hits []string
		for _, keyword := range context.HostKeywords {
			if strings.Contains(host, keyword) {
				hits = append(hits, keyword)
			}
		}
		if len(hits) > 0 {
			return &domain.Flag{
				Key:      FlagURLHostKeywords,
				Evidence: fmt.Sprintf("URL host %s contains lure keywords: %s", host, strings.Join(hits, ", ")),
			}
		}
	}
	return nil
}

// isTrustedHost reports whether host belongs to one of the trusted domains
func isTrustedHost(host string, trusted []string) bool {
	for _, d := range trusted {
		if matchesDomain(host, d) {
			return true
		}
	}
	return false
}
