package routing

import (
	"net"
	"strings"
)

const (
	CampaignPrefix = "/campaigns/"
	AdminPrefix    = "/admin"
	LoginPath      = "/admin/login"
)

var DefaultReserved = []string{"www", "admin", "api", "app", "mail", "staging", "dev", "test", "main"}

// exemptPrefixes are never rewritten, whatever the host.
var exemptPrefixes = []string{CampaignPrefix, AdminPrefix, "/api", "/static"}

// Rule maps {slug}.{base-domain} onto /campaigns/{slug}. It never consults the store.
type Rule struct {
	BaseDomains []string
	MainLabel   string
	Reserved    []string
}

func NewRule(baseDomains []string, mainLabel string, reserved []string) Rule {
	if len(reserved) == 0 {
		reserved = DefaultReserved
	}
	r := Rule{MainLabel: strings.ToLower(strings.TrimSpace(mainLabel))}
	for _, d := range baseDomains {
		if d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), "."); d != "" {
			r.BaseDomains = append(r.BaseDomains, d)
		}
	}
	for _, s := range reserved {
		r.Reserved = append(r.Reserved, strings.ToLower(strings.TrimSpace(s)))
	}
	return r
}

// Subdomain returns the candidate label of host, or "" for a bare or unknown domain.
func (r Rule) Subdomain(host string) string {
	host = normalizeHost(host)
	if host == "" {
		return ""
	}
	for _, base := range r.BaseDomains {
		if label, ok := labelOf(host, base); ok {
			return label
		}
	}
	label, _ := labelOf(host, "localhost")
	return label
}

func labelOf(host, base string) (string, bool) {
	if host == base {
		return "", true
	}
	prefix, ok := strings.CutSuffix(host, "."+base)
	if !ok {
		return "", false
	}
	// Slugs are a single label, so a.b.example.com matches no base.
	if strings.Contains(prefix, ".") {
		return "", false
	}
	return prefix, true
}

func (r Rule) IsCampaignLabel(label string) bool {
	if label == "" || label == r.MainLabel {
		return false
	}
	for _, reserved := range r.Reserved {
		if label == reserved {
			return false
		}
	}
	return true
}

// Rewrite returns the campaign path for host and path, or false when the request passes through.
func (r Rule) Rewrite(host, path string) (string, bool) {
	label := r.Subdomain(host)
	if !r.IsCampaignLabel(label) || exempt(path) {
		return path, false
	}
	if path == "" || path == "/" {
		return CampaignPrefix + label, true
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return CampaignPrefix + label + path, true
}

// AdminGate reports whether the request must be redirected to the login page.
func AdminGate(path string, hasCookie bool) bool {
	return strings.HasPrefix(path, AdminPrefix) && path != LoginPath && !hasCookie
}

func exempt(path string) bool {
	for _, p := range exemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return strings.Contains(path, ".")
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}
