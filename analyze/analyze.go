// Package analyze ties page fetching, resource discovery and scoring
// together into a single report.
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/score"
	"golang.org/x/sync/errgroup"
)

var _ pagegrade.Analyzer = (*Analyzer)(nil)

// Analyzer produces reports by fetching a page, discovering its
// resources and running the HTML, CSS and JavaScript evaluators.
type Analyzer struct {
	Pages      pagegrade.Fetcher
	Discoverer pagegrade.Discoverer

	HTML pagegrade.Evaluator
	CSS  pagegrade.Evaluator
	JS   pagegrade.Evaluator

	// Reports, when set, receives every successful report.
	Reports pagegrade.ReportService

	// RetryDelays are the waits between page fetch attempts.
	// Nil means DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Page is a fetched page together with the resources it uses.
type Page struct {
	URL       string
	FetchURL  string
	HTML      string
	Resources *pagegrade.Resources
}

// Load normalizes rawURL, fetches the page and discovers its resources.
func (a *Analyzer) Load(ctx context.Context, rawURL string) (*Page, error) {
	pageURL, err := pagegrade.NormalizePageURL(rawURL)
	if err != nil {
		return nil, err
	}
	logger := a.logger()

	fetchURL := pageURL
	if raw, ok := pagegrade.GitHubRawURL(pageURL); ok {
		logger.Info("rewrote GitHub URL", "url", pageURL, "raw", raw)
		fetchURL = raw
	} else if pagegrade.IsGistURL(pageURL) {
		logger.Info("gist URL analyzed as a regular page", "url", pageURL)
	}

	delays := a.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, fetchURL, a.Pages.Fetch, logger, delays)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("page fetch failed", "url", fetchURL, "err", err)
		return nil, pagegrade.Errorf(pagegrade.EUNAVAILABLE, "could not fetch page")
	}
	if strings.TrimSpace(html) == "" {
		return nil, pagegrade.Errorf(pagegrade.EINVALID, "no content to analyze")
	}

	res, err := a.Discoverer.Discover(ctx, html, fetchURL)
	if err != nil {
		return nil, err
	}

	return &Page{URL: pageURL, FetchURL: fetchURL, HTML: html, Resources: res}, nil
}

// Analyze fetches and scores the page at rawURL.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*pagegrade.Report, error) {
	start := time.Now()

	page, err := a.Load(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var htmlEval, cssEval, jsEval *pagegrade.Evaluation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ev, err := a.HTML.Evaluate(gctx, page.HTML)
		if err != nil {
			return fmt.Errorf("evaluate html: %w", err)
		}
		htmlEval = ev
		return nil
	})
	g.Go(func() error {
		ev, err := a.CSS.Evaluate(gctx, page.Resources.CSS.Content)
		if err != nil {
			return fmt.Errorf("evaluate css: %w", err)
		}
		cssEval = ev
		return nil
	})
	g.Go(func() error {
		ev, err := a.JS.Evaluate(gctx, page.Resources.JS.Content)
		if err != nil {
			return fmt.Errorf("evaluate js: %w", err)
		}
		jsEval = ev
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &pagegrade.Report{
		URL:      page.URL,
		FetchURL: page.FetchURL,
		Score:    score.Combine(score.Of(htmlEval), score.Of(cssEval), score.Of(jsEval)),
		HTML:     htmlEval,
		CSS:      cssEval,
		JS:       jsEval,
		Styles:   summarize(page.Resources.CSS),
		Scripts:  summarize(page.Resources.JS),
		Duration: time.Since(start),
	}

	if a.Reports != nil {
		if err := a.Reports.CreateReport(ctx, report); err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
	}

	return report, nil
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// Fingerprint returns the xxHash of content as 16 hex digits, or an empty
// string for empty content.
func Fingerprint(content string) string {
	if content == "" {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

func summarize(b pagegrade.Bucket) pagegrade.ResourceSummary {
	return pagegrade.ResourceSummary{
		FileCount:   b.FileCount,
		ByteCount:   b.ByteCount,
		Fingerprint: Fingerprint(b.Content),
	}
}
