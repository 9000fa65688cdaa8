// Package slog provides logging decorators for pagegrade services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagegrade"
)

var (
	_ pagegrade.Fetcher         = (*LoggingFetcher)(nil)
	_ pagegrade.ResourceFetcher = (*LoggingResourceFetcher)(nil)
)

// LoggingFetcher wraps a page Fetcher with logging.
type LoggingFetcher struct {
	next   pagegrade.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagegrade.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingResourceFetcher wraps a ResourceFetcher with logging.
// Failed fetches carry their reason in the "reason" attribute.
type LoggingResourceFetcher struct {
	next   pagegrade.ResourceFetcher
	logger *slog.Logger
}

// NewLoggingResourceFetcher creates a new LoggingResourceFetcher.
func NewLoggingResourceFetcher(next pagegrade.ResourceFetcher, logger *slog.Logger) *LoggingResourceFetcher {
	return &LoggingResourceFetcher{next: next, logger: logger}
}

// FetchResource delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingResourceFetcher) FetchResource(ctx context.Context, url string, want pagegrade.ResourceType) (res pagegrade.FetchResult) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"type", string(want),
			"ok", res.OK,
			"bytes", len(res.Content),
			"duration", time.Since(begin),
		}
		if !res.OK {
			attrs = append(attrs, "reason", res.Reason)
		}
		f.logger.Info("fetch resource", attrs...)
	}(time.Now())
	return f.next.FetchResource(ctx, url, want)
}
