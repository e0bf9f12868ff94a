// Package lead implements the lead pipeline stages: filter, dedupe, score,
// enrich and threshold. Every stage is a pure function over a model.Table.
package lead

import (
	"regexp"
	"strings"
)

var domainPattern = regexp.MustCompile(`(?i)https?://(?:www\.)?([^/]+)`)

// Domain extracts the host of a website URL, without scheme or a leading
// "www.", up to the first "/". A bare host such as "acme.io" is accepted too.
// The result is lowercased. ok is false when no domain can be extracted.
func Domain(website string) (domain string, ok bool) {
	website = strings.TrimSpace(website)
	if website == "" {
		return "", false
	}

	m := domainPattern.FindStringSubmatch(website)
	if m == nil {
		return bareHost(website)
	}
	d := strings.ToLower(m[1])
	if strings.ContainsAny(d, " \t\r\n") {
		return "", false
	}
	return d, true
}

func bareHost(s string) (string, bool) {
	if strings.Contains(s, "://") || strings.ContainsAny(s, " \t\r\n@") {
		return "", false
	}
	s = strings.TrimPrefix(strings.ToLower(s), "www.")
	host, _, _ := strings.Cut(s, "/")
	if !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return "", false
	}
	return host, true
}

// identityKey returns the dedupe key for a lead: its domain when one can be
// extracted, its company name otherwise. The two kinds never collide.
func identityKey(website, company string) string {
	if d, ok := Domain(website); ok {
		return "domain:" + d
	}
	return "company:" + company
}
