package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagegrade"
)

var (
	_ pagegrade.Discoverer = (*LoggingDiscoverer)(nil)
	_ pagegrade.Analyzer   = (*LoggingAnalyzer)(nil)
)

// LoggingDiscoverer wraps a Discoverer with logging.
type LoggingDiscoverer struct {
	next   pagegrade.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next pagegrade.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover delegates to the wrapped discoverer and logs the bucket totals.
func (d *LoggingDiscoverer) Discover(ctx context.Context, html string, pageURL string) (res *pagegrade.Resources, err error) {
	defer func(begin time.Time) {
		var css, js pagegrade.Bucket
		if res != nil {
			css, js = res.CSS, res.JS
		}
		d.logger.Info("discover",
			"url", pageURL,
			"css_files", css.FileCount,
			"css_bytes", css.ByteCount,
			"js_files", js.FileCount,
			"js_bytes", js.ByteCount,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Discover(ctx, html, pageURL)
}

// LoggingAnalyzer wraps an Analyzer with logging.
type LoggingAnalyzer struct {
	next   pagegrade.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next pagegrade.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the resulting score.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, rawURL string) (report *pagegrade.Report, err error) {
	defer func(begin time.Time) {
		score := -1
		if report != nil {
			score = report.Score
		}
		a.logger.Info("analyze",
			"url", rawURL,
			"score", score,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Analyze(ctx, rawURL)
}
