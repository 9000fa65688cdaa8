package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/mock"
	pgslog "github.com/fwojciec/pagegrade/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := pgslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := pgslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner fetcher", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		closeCalled := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		fetcher := pgslog.NewLoggingFetcher(inner, logger)
		err := fetcher.Close()

		require.NoError(t, err)
		assert.True(t, closeCalled)
	})
}

func TestLoggingResourceFetcher_FetchResource(t *testing.T) {
	t.Parallel()

	t.Run("logs successful fetch", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ResourceFetcher{
			FetchResourceFn: func(ctx context.Context, url string, want pagegrade.ResourceType) pagegrade.FetchResult {
				return pagegrade.FetchResult{OK: true, Content: "body{}", ContentType: "text/css"}
			},
		}

		fetcher := pgslog.NewLoggingResourceFetcher(inner, logger)
		res := fetcher.FetchResource(context.Background(), "https://example.com/a.css", pagegrade.ResourceCSS)

		assert.True(t, res.OK)
		output := buf.String()
		assert.Contains(t, output, "fetch resource")
		assert.Contains(t, output, "type=css")
		assert.Contains(t, output, "ok=true")
		assert.Contains(t, output, "bytes=6")
		assert.NotContains(t, output, "reason=")
	})

	t.Run("logs failure reason", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ResourceFetcher{
			FetchResourceFn: func(ctx context.Context, url string, want pagegrade.ResourceType) pagegrade.FetchResult {
				return pagegrade.FetchResult{Reason: "HTTP 404"}
			},
		}

		fetcher := pgslog.NewLoggingResourceFetcher(inner, logger)
		res := fetcher.FetchResource(context.Background(), "https://example.com/a.js", pagegrade.ResourceJS)

		assert.False(t, res.OK)
		output := buf.String()
		assert.Contains(t, output, "ok=false")
		assert.Contains(t, output, `reason="HTTP 404"`)
	})
}
