package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagegrade"
	"github.com/temoto/robotstxt"
)

// Ensure SitemapService implements pagegrade.SitemapService.
var _ pagegrade.SitemapService = (*SitemapService)(nil)

// DefaultMaxSitemaps caps how many sitemap documents one discovery reads,
// counting nested index entries.
const DefaultMaxSitemaps = 20

// maxSitemapBytes caps a single sitemap or robots.txt body.
const maxSitemapBytes = 10 << 20

// SitemapService discovers URLs from website sitemaps via HTTP.
// Every robots.txt and sitemap request is bounded by the configured
// timeout, even when the caller supplies its own client.
type SitemapService struct {
	client *http.Client
	config

	// MaxSitemaps caps sitemap documents read per call.
	// Zero means DefaultMaxSitemaps.
	MaxSitemaps int
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with the configured timeout is used.
func NewSitemapService(client *http.Client, opts ...Option) *SitemapService {
	s := &SitemapService{config: newConfig(DefaultSitemapTimeout, maxSitemapBytes, opts)}
	if s.maxBytes <= 0 {
		s.maxBytes = maxSitemapBytes
	}
	if client == nil {
		client = &http.Client{Timeout: s.timeout}
	}
	s.client = client
	return s
}

// DiscoverURLs finds all URLs from a site's sitemap.
// Returns an empty slice (not nil) if no sitemaps are found. Sitemaps that
// cannot be fetched or parsed are skipped; only context errors are returned
// once the base URL is valid.
//
// When baseURL has a non-root path (e.g., https://example.com/docs/),
// only URLs with paths starting with that prefix are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagegrade.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// Empty or "/" means no prefix filtering
	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	sitemapBase := *base
	sitemapBase.Path = ""
	sitemapBase.RawQuery = ""

	sitemapURLs, err := s.findSitemapURLs(ctx, &sitemapBase)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:    s,
		seen:   make(map[string]bool),
		budget: s.maxSitemaps(),
	}
	allURLs := []string{}
	seenURLs := make(map[string]bool)
	for _, sitemapURL := range sitemapURLs {
		urls, err := w.process(ctx, sitemapURL)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if seenURLs[u] {
				continue
			}
			seenURLs[u] = true
			if pathPrefix != "" && !matchesPathPrefix(u, pathPrefix) {
				continue
			}
			if !filter.Match(u) {
				continue
			}
			allURLs = append(allURLs, u)
		}
	}

	return allURLs, nil
}

func (s *SitemapService) maxSitemaps() int {
	if s.MaxSitemaps <= 0 {
		return DefaultMaxSitemaps
	}
	return s.MaxSitemaps
}

// matchesPathPrefix checks if a URL's path starts with the given prefix,
// respecting path boundaries: /docs matches /docs/intro but not
// /documentation.
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix)
}

// findSitemapURLs reads Sitemap: directives from robots.txt and falls back
// to /sitemap.xml when there are none.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	if sitemaps := s.parseSitemapsFromRobots(ctx, robotsURL.String()); len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.urlExists(ctx, sitemapURL.String())
	if err != nil {
		// Propagate context errors, treat other errors as "not found"
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}
	return nil, nil
}

// parseSitemapsFromRobots returns the Sitemap: directives of robots.txt.
// A missing or unparseable robots.txt yields none.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) []string {
	body, err := s.fetchBody(ctx, robotsURL)
	if err != nil {
		return nil
	}
	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return robots.Sitemaps
}

// sitemapWalk tracks visited sitemaps and the remaining document budget
// across one DiscoverURLs call.
type sitemapWalk struct {
	svc    *SitemapService
	seen   map[string]bool
	budget int
}

// process fetches and parses a sitemap, handling both urlset and
// sitemapindex. Broken sitemaps contribute nothing.
func (w *sitemapWalk) process(ctx context.Context, sitemapURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.seen[sitemapURL] || w.budget <= 0 {
		return nil, nil
	}
	w.seen[sitemapURL] = true
	w.budget--

	body, err := w.svc.fetchBody(ctx, sitemapURL)
	if err != nil {
		return nil, ctx.Err()
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, nil
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	if root.Tag == "sitemapindex" {
		return w.processIndex(ctx, root)
	}
	return parseURLSet(root), nil
}

// processIndex processes a <sitemapindex> element recursively.
func (w *sitemapWalk) processIndex(ctx context.Context, root *etree.Element) ([]string, error) {
	var allURLs []string
	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		urls, err := w.process(ctx, sitemapURL)
		if err != nil {
			return nil, err
		}
		allURLs = append(allURLs, urls...)
	}
	return allURLs, nil
}

// parseURLSet extracts URLs from a <urlset> element.
func parseURLSet(root *etree.Element) []string {
	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// fetchBody GETs a URL and returns at most maxBytes of its body.
func (s *SitemapService) fetchBody(ctx context.Context, targetURL string) ([]byte, error) {
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	resp, err := s.do(ctx, http.MethodGet, targetURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapService) urlExists(ctx context.Context, targetURL string) (bool, error) {
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	resp, err := s.do(ctx, http.MethodHead, targetURL)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

// requestContext bounds one request by the configured timeout.
func (s *SitemapService) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *SitemapService) do(ctx context.Context, method, targetURL string) (*http.Response, error) {
	if s.allowHost != nil && !s.allowHost(hostOf(targetURL)) {
		return nil, fmt.Errorf("host not allowed: %s", hostOf(targetURL))
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, hostOf(targetURL)); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	return s.client.Do(req)
}
