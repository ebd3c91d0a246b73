package investigation

import (
	"net/url"
	"strings"
)

// socialHostDenylist holds hostnames the enrichment collaborator cannot
// usefully scrape: they are login-walled or render client-side.
var socialHostDenylist = []string{
	"linkedin.com",
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"youtube.com",
	"tiktok.com",
	"reddit.com",
	"pinterest.com",
}

// Scrapeable reports whether a URL is worth handing to the enrichment
// collaborator. Subdomains of denylisted hosts are rejected too.
func Scrapeable(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, deny := range socialHostDenylist {
		if host == deny || strings.HasSuffix(host, "."+deny) {
			return false
		}
	}
	return true
}

// ProfileIdentifier extracts the professional-profile identifier from a URL
// of the form linkedin.com/in/<identifier>. The boolean is false for every
// other URL.
func ProfileIdentifier(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return "", false
	}
	path := strings.Trim(u.Path, "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "in" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
