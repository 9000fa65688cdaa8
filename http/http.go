// Package http provides net/http implementations of the pagegrade fetch
// interfaces: the page Fetcher, the best-effort ResourceFetcher, the
// HEAD-based TypeProber and the sitemap-backed SitemapService.
package http

import (
	"net/url"
	"time"

	"github.com/fwojciec/pagegrade"
)

// DefaultUserAgent identifies pagegrade to servers.
const DefaultUserAgent = "pagegrade/1.0 (+https://github.com/fwojciec/pagegrade)"

// Default timeouts for each kind of request.
const (
	DefaultFetchTimeout    = 15 * time.Second
	DefaultResourceTimeout = 8 * time.Second
	DefaultProbeTimeout    = 5 * time.Second
	DefaultSitemapTimeout  = 10 * time.Second
)

// Default body size limits.
const (
	DefaultMaxPageBytes     = 4 << 20
	DefaultMaxResourceBytes = 8 << 20
)

// config holds settings shared by every client in this package.
type config struct {
	timeout   time.Duration
	userAgent string
	maxBytes  int64
	limiter   pagegrade.DomainLimiter
	allowHost func(host string) bool
}

// Option configures a Fetcher, ResourceFetcher, Prober or SitemapService.
type Option func(*config)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBytes caps how much of a response body is read.
// Longer bodies are truncated.
func WithMaxBytes(n int64) Option {
	return func(c *config) {
		c.maxBytes = n
	}
}

// WithLimiter throttles requests per host.
func WithLimiter(l pagegrade.DomainLimiter) Option {
	return func(c *config) {
		c.limiter = l
	}
}

// WithHostPolicy restricts which hosts may be requested.
// Requests to hosts for which allow returns false fail without a network
// call.
func WithHostPolicy(allow func(host string) bool) Option {
	return func(c *config) {
		c.allowHost = allow
	}
}

func newConfig(timeout time.Duration, maxBytes int64, opts []Option) config {
	c := config{
		timeout:   timeout,
		userAgent: DefaultUserAgent,
		maxBytes:  maxBytes,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
