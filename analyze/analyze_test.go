package analyze_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/analyze"
	"github.com/fwojciec/pagegrade/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html><html lang="en"><head><title>T</title></head><body></body></html>`

func scored(n int) *mock.Evaluator {
	return &mock.Evaluator{EvaluateFn: func(ctx context.Context, content string) (*pagegrade.Evaluation, error) {
		return &pagegrade.Evaluation{Score: n}, nil
	}}
}

// newAnalyzer returns an analyzer whose collaborators all succeed.
func newAnalyzer() *analyze.Analyzer {
	return &analyze.Analyzer{
		Pages: &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
			return testPage, nil
		}},
		Discoverer: &mock.Discoverer{DiscoverFn: func(ctx context.Context, html, pageURL string) (*pagegrade.Resources, error) {
			return &pagegrade.Resources{
				CSS: pagegrade.Bucket{Content: "a{}", FileCount: 1, ByteCount: 3},
				JS:  pagegrade.Bucket{Content: "let x = 1;", FileCount: 2, ByteCount: 10},
			}, nil
		}},
		HTML:        scored(80),
		CSS:         scored(60),
		JS:          scored(40),
		RetryDelays: noDelays,
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("combines weighted scores", func(t *testing.T) {
		t.Parallel()

		report, err := newAnalyzer().Analyze(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, 62, report.Score)
		assert.Equal(t, 80, report.HTML.Score)
		assert.Equal(t, 60, report.CSS.Score)
		assert.Equal(t, 40, report.JS.Score)
	})

	t.Run("summarizes buckets", func(t *testing.T) {
		t.Parallel()

		report, err := newAnalyzer().Analyze(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, 1, report.Styles.FileCount)
		assert.Equal(t, 3, report.Styles.ByteCount)
		assert.Equal(t, analyze.Fingerprint("a{}"), report.Styles.Fingerprint)
		assert.Equal(t, 2, report.Scripts.FileCount)
		assert.Equal(t, 10, report.Scripts.ByteCount)
		assert.Len(t, report.Scripts.Fingerprint, 16)
	})

	t.Run("passes bucket content to evaluators", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		got := map[string]string{}
		record := func(kind string) *mock.Evaluator {
			return &mock.Evaluator{EvaluateFn: func(ctx context.Context, content string) (*pagegrade.Evaluation, error) {
				mu.Lock()
				defer mu.Unlock()
				got[kind] = content
				return &pagegrade.Evaluation{}, nil
			}}
		}
		a := newAnalyzer()
		a.HTML, a.CSS, a.JS = record("html"), record("css"), record("js")

		_, err := a.Analyze(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, testPage, got["html"])
		assert.Equal(t, "a{}", got["css"])
		assert.Equal(t, "let x = 1;", got["js"])
	})

	t.Run("adds scheme to bare host", func(t *testing.T) {
		t.Parallel()

		var fetched, discovered string
		a := newAnalyzer()
		a.Pages = &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
			fetched = url
			return testPage, nil
		}}
		inner := a.Discoverer
		a.Discoverer = &mock.Discoverer{DiscoverFn: func(ctx context.Context, html, pageURL string) (*pagegrade.Resources, error) {
			discovered = pageURL
			return inner.Discover(ctx, html, pageURL)
		}}

		report, err := a.Analyze(context.Background(), "example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", fetched)
		assert.Equal(t, "https://example.com/page", discovered)
		assert.Equal(t, "https://example.com/page", report.URL)
	})

	t.Run("fetches raw content for GitHub blob URLs", func(t *testing.T) {
		t.Parallel()

		var fetched string
		a := newAnalyzer()
		a.Pages = &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
			fetched = url
			return testPage, nil
		}}

		report, err := a.Analyze(context.Background(), "https://github.com/u/r/blob/main/index.html")

		require.NoError(t, err)
		assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/index.html", fetched)
		assert.Equal(t, "https://github.com/u/r/blob/main/index.html", report.URL)
		assert.Equal(t, fetched, report.FetchURL)
	})

	t.Run("rejects invalid URL without fetching", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer()
		a.Pages = &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
			t.Fatal("fetch should not be called")
			return "", nil
		}}

		_, err := a.Analyze(context.Background(), "ftp://example.com/")

		assert.Equal(t, pagegrade.EINVALID, pagegrade.ErrorCode(err))
	})

	t.Run("retries page fetch", func(t *testing.T) {
		t.Parallel()

		var attempts int
		a := newAnalyzer()
		a.Pages = &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
			attempts++
			if attempts == 1 {
				return "", errors.New("connection reset")
			}
			return testPage, nil
		}}

		_, err := a.Analyze(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("returns EUNAVAILABLE when page cannot be fetched", func(t *testing.T) {
		t.Parallel()

		var attempts int
		a := newAnalyzer()
		a.Pages = &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
			attempts++
			return "", errors.New("HTTP 503")
		}}

		_, err := a.Analyze(context.Background(), "https://example.com/")

		assert.Equal(t, pagegrade.EUNAVAILABLE, pagegrade.ErrorCode(err))
		assert.Equal(t, "could not fetch page", pagegrade.ErrorMessage(err))
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns EINVALID for empty page", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer()
		a.Pages = &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
			return "  \n ", nil
		}}
		a.Discoverer = &mock.Discoverer{DiscoverFn: func(ctx context.Context, html, pageURL string) (*pagegrade.Resources, error) {
			t.Fatal("discover should not be called")
			return nil, nil
		}}

		_, err := a.Analyze(context.Background(), "https://example.com/")

		assert.Equal(t, pagegrade.EINVALID, pagegrade.ErrorCode(err))
		assert.Equal(t, "no content to analyze", pagegrade.ErrorMessage(err))
	})

	t.Run("returns discovery error", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer()
		a.Discoverer = &mock.Discoverer{DiscoverFn: func(ctx context.Context, html, pageURL string) (*pagegrade.Resources, error) {
			return nil, context.Canceled
		}}

		_, err := a.Analyze(context.Background(), "https://example.com/")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns evaluator error", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer()
		a.JS = &mock.Evaluator{EvaluateFn: func(ctx context.Context, content string) (*pagegrade.Evaluation, error) {
			return nil, errors.New("lint crashed")
		}}

		_, err := a.Analyze(context.Background(), "https://example.com/")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "evaluate js")
	})

	t.Run("saves report when service is set", func(t *testing.T) {
		t.Parallel()

		var saved *pagegrade.Report
		a := newAnalyzer()
		a.Reports = &mock.ReportService{CreateReportFn: func(ctx context.Context, r *pagegrade.Report) error {
			r.ID = "r-1"
			saved = r
			return nil
		}}

		report, err := a.Analyze(context.Background(), "https://example.com/")

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "r-1", report.ID)
	})

	t.Run("returns save error", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer()
		a.Reports = &mock.ReportService{CreateReportFn: func(ctx context.Context, r *pagegrade.Report) error {
			return errors.New("disk full")
		}}

		_, err := a.Analyze(context.Background(), "https://example.com/")

		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "disk full"))
	})
}

func TestAnalyzer_Load(t *testing.T) {
	t.Parallel()

	page, err := newAnalyzer().Load(context.Background(), "https://example.com/")

	require.NoError(t, err)
	assert.Equal(t, testPage, page.HTML)
	assert.Equal(t, 1, page.Resources.CSS.FileCount)
	assert.Equal(t, 2, page.Resources.JS.FileCount)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	assert.Empty(t, analyze.Fingerprint(""))
	assert.Equal(t, analyze.Fingerprint("body{}"), analyze.Fingerprint("body{}"))
	assert.NotEqual(t, analyze.Fingerprint("body{}"), analyze.Fingerprint("body{ }"))
	assert.Len(t, analyze.Fingerprint("x"), 16)
}
