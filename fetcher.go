package pagegrade

import "context"

// Fetcher retrieves the HTML of the page under analysis.
type Fetcher interface {
	// Fetch returns the body of the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// FetchResult is the outcome of a best-effort resource fetch.
// When OK is false, Reason explains why and Content is empty.
type FetchResult struct {
	OK          bool
	Content     string
	ContentType string
	Reason      string
}

// ResourceFetcher retrieves a single stylesheet or script.
// It never returns an error: every network, timeout or validation failure
// is reported as a FetchResult with OK set to false.
type ResourceFetcher interface {
	FetchResource(ctx context.Context, url string, want ResourceType) FetchResult
}

// TypeProber issues a metadata-only request for a URL and reports the
// Content-Type the server declares.
type TypeProber interface {
	Probe(ctx context.Context, url string) (contentType string, err error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
