package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/pagegrade"
)

// Ensure Fetcher implements pagegrade.Fetcher at compile time.
var _ pagegrade.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves the HTML of the page under analysis.
// It does not execute JavaScript.
type Fetcher struct {
	client *http.Client
	config
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{config: newConfig(DefaultFetchTimeout, DefaultMaxPageBytes, opts)}
	f.client = &http.Client{
		Timeout: f.timeout,
	}
	return f
}

// Fetch retrieves the HTML content from the given URL.
// Any status outside 2xx is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(string(body), "�"), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
