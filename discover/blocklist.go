package discover

import (
	"net/url"
	"strings"
)

// BlockedDomains are analytics, advertising, social and public CDN hosts.
// Their assets are third-party code that says nothing about the page's own
// quality. Subdomains of each entry are blocked too.
var BlockedDomains = []string{
	"googletagmanager.com",
	"google-analytics.com",
	"googleadservices.com",
	"googlesyndication.com",
	"doubleclick.net",
	"gstatic.com",
	"fonts.googleapis.com",
	"ajax.googleapis.com",
	"facebook.net",
	"facebook.com",
	"connect.facebook.net",
	"twitter.com",
	"platform.twitter.com",
	"linkedin.com",
	"licdn.com",
	"youtube.com",
	"ytimg.com",
	"cdn.jsdelivr.net",
	"cdnjs.cloudflare.com",
	"unpkg.com",
	"code.jquery.com",
	"maxcdn.bootstrapcdn.com",
	"stackpath.bootstrapcdn.com",
	"hotjar.com",
	"segment.com",
	"segment.io",
	"mixpanel.com",
	"clarity.ms",
	"newrelic.com",
	"nr-data.net",
	"sentry.io",
	"sentry-cdn.com",
	"addthis.com",
	"sharethis.com",
	"disqus.com",
	"intercom.io",
	"intercomcdn.com",
	"hs-scripts.com",
	"hubspot.com",
	"static.cloudflareinsights.com",
	"use.typekit.net",
	"kit.fontawesome.com",
	"use.fontawesome.com",
}

// IsBlocked reports whether rawURL is served from a blocked domain.
// Unparseable URLs are not blocked; they fail resolution elsewhere.
func IsBlocked(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range BlockedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
