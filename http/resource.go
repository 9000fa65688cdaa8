package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/pagegrade"
)

var _ pagegrade.ResourceFetcher = (*ResourceFetcher)(nil)

// ResourceFetcher retrieves stylesheets and scripts. Every failure is
// reported in the FetchResult; FetchResource never panics or errors.
type ResourceFetcher struct {
	client *http.Client
	config
}

// NewResourceFetcher creates a ResourceFetcher.
func NewResourceFetcher(opts ...Option) *ResourceFetcher {
	f := &ResourceFetcher{config: newConfig(DefaultResourceTimeout, DefaultMaxResourceBytes, opts)}
	f.client = &http.Client{
		Timeout: f.timeout,
	}
	return f
}

// FetchResource GETs rawURL and validates the response for the wanted type.
// A response fails when its status is 400 or above, its body is empty or
// its Content-Type contradicts want. HTML always contradicts. Other
// mismatches are tolerated when the URL's extension agrees with want,
// since many servers label static files text/plain.
func (f *ResourceFetcher) FetchResource(ctx context.Context, rawURL string, want pagegrade.ResourceType) pagegrade.FetchResult {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return failed("invalid URL")
	}
	host := u.Hostname()
	if f.allowHost != nil && !f.allowHost(host) {
		return failed("host not allowed: " + host)
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, host); err != nil {
			return failed("rate limit: " + err.Error())
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return failed(err.Error())
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptFor(want))

	resp, err := f.client.Do(req)
	if err != nil {
		return failed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return failed(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	ct := resp.Header.Get("Content-Type")
	if !typeMatches(ct, want, u.Path) {
		return failed(fmt.Sprintf("content type %q is not %s", ct, want))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return failed("reading body: " + err.Error())
	}
	content := strings.ToValidUTF8(string(body), "�")
	if strings.TrimSpace(content) == "" {
		return failed("empty body")
	}

	return pagegrade.FetchResult{OK: true, Content: content, ContentType: ct}
}

func failed(reason string) pagegrade.FetchResult {
	return pagegrade.FetchResult{Reason: reason}
}

func acceptFor(t pagegrade.ResourceType) string {
	switch t {
	case pagegrade.ResourceCSS:
		return "text/css,*/*;q=0.1"
	case pagegrade.ResourceJS:
		return "application/javascript,text/javascript,*/*;q=0.1"
	}
	return "*/*"
}

// typeMatches reports whether a response labelled contentType may be used
// as a resource of type want.
func typeMatches(contentType string, want pagegrade.ResourceType, urlPath string) bool {
	ct := strings.ToLower(contentType)
	// HTML is a soft 404 even behind a .css or .js path.
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") {
		return false
	}
	if ct == "" || (want != pagegrade.ResourceCSS && want != pagegrade.ResourceJS) {
		return true
	}
	if pagegrade.TypeFromContentType(ct) == want {
		return true
	}
	return pagegrade.TypeFromPath(urlPath) == want
}
