// Package discover locates the CSS and JavaScript a page depends on.
//
// Discovery runs a fixed chain of phases from most to least reliable:
// explicit tags, inline content, style attributes, a broad regex scan,
// dynamic loader patterns, bundler conventions, common filename guesses and
// finally the site's sitemaps. The first three always run in full. The rest
// are gated: a phase is skipped once both types have enough content, and a
// gated phase stops fetching a type as soon as that type is sufficient.
package discover

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/bloom"
)

var _ pagegrade.Discoverer = (*Pipeline)(nil)

// DefaultMaxGuesses caps the requests spent on common filename guesses per
// resource type.
const DefaultMaxGuesses = 48

// Pipeline implements pagegrade.Discoverer.
//
// Parser and Fetcher are required. Prober, Sitemaps and Detector are
// optional; without them ambiguous dynamic references are dropped, the
// sitemap phase is skipped and no bundler entry files are guessed.
type Pipeline struct {
	Parser   pagegrade.MarkupParser
	Fetcher  pagegrade.ResourceFetcher
	Prober   pagegrade.TypeProber
	Sitemaps pagegrade.SitemapService
	Detector pagegrade.BundlerDetector

	// Threshold decides when a type has enough content.
	// Zero value means pagegrade.DefaultThreshold.
	Threshold pagegrade.Threshold

	// MaxGuesses caps common filename guesses per type.
	// Zero value means DefaultMaxGuesses.
	MaxGuesses int

	// Logger receives per-phase progress. Nil discards.
	Logger *slog.Logger
}

func (p *Pipeline) threshold() pagegrade.Threshold {
	if p.Threshold == (pagegrade.Threshold{}) {
		return pagegrade.DefaultThreshold
	}
	return p.Threshold
}

func (p *Pipeline) maxGuesses() int {
	if p.MaxGuesses <= 0 {
		return DefaultMaxGuesses
	}
	return p.MaxGuesses
}

// Discover runs every phase against the page and returns the aggregated
// resources. Individual fetch failures are skipped. The only errors are an
// invalid page URL and context cancellation.
func (p *Pipeline) Discover(ctx context.Context, html string, pageURL string) (*pagegrade.Resources, error) {
	site, err := url.Parse(pageURL)
	if err != nil || site.Host == "" || (site.Scheme != "http" && site.Scheme != "https") {
		return nil, pagegrade.Errorf(pagegrade.EINVALID, "invalid page URL %q", pageURL)
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("page", pageURL)

	markup, err := p.Parser.Parse(html)
	if err != nil {
		// Regex phases still work on raw markup.
		logger.Warn("markup parse failed", "error", err)
		markup = &pagegrade.Markup{}
	}

	r := &run{
		p:         p,
		html:      html,
		markup:    markup,
		pageURL:   pageURL,
		baseURL:   pageURL,
		site:      site,
		processed: bloom.NewSet(512, 0.001),
		logger:    logger,
	}
	if markup.Base != "" {
		if b, ok := pagegrade.ResolveURL(markup.Base, pageURL); ok {
			r.baseURL = b
		}
	}

	start := time.Now()
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ph.gated && r.done() {
			logger.Debug("discovery phase skipped", "phase", ph.name)
			continue
		}

		phaseStart := time.Now()
		attempts := r.attempts
		ph.run(ctx, r)
		logger.Info("discovery phase",
			"phase", ph.name,
			"fetches", r.attempts-attempts,
			"css_files", r.css.files,
			"css_bytes", r.css.bytes,
			"js_files", r.js.files,
			"js_bytes", r.js.bytes,
			"duration", time.Since(phaseStart),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := r.processed.Stats()
	logger.Info("discovery complete",
		"fetches", r.attempts,
		"urls_seen", seen.Keys,
		"duplicate_refs", seen.Duplicates,
		"css_files", r.css.files,
		"js_files", r.js.files,
		"duration", time.Since(start),
	)
	return r.resources(), nil
}
