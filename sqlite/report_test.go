package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(url string, score int) *pagegrade.Report {
	return &pagegrade.Report{
		URL:      url,
		FetchURL: url,
		Score:    score,
		HTML: &pagegrade.Evaluation{Score: 80, Checks: []pagegrade.Check{
			{Name: "html-title", Weight: 10, Passed: true, Message: "Add a <title> element"},
			{Name: "html-lang", Weight: 10, Passed: false, Message: "Declare the page language"},
		}},
		CSS:      &pagegrade.Evaluation{Score: 60},
		JS:       &pagegrade.Evaluation{Score: 40},
		Styles:   pagegrade.ResourceSummary{FileCount: 2, ByteCount: 12000, Fingerprint: "00000000deadbeef"},
		Scripts:  pagegrade.ResourceSummary{FileCount: 1, ByteCount: 3000, Fingerprint: "00000000cafebabe"},
		Duration: 1500 * time.Millisecond,
	}
}

func TestReportService_CreateReport(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))
		r := newReport("https://example.com/", 62)

		require.NoError(t, svc.CreateReport(context.Background(), r))

		assert.NotEmpty(t, r.ID)
		assert.False(t, r.CreatedAt.IsZero())
	})

	t.Run("rejects invalid report", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))

		err := svc.CreateReport(context.Background(), &pagegrade.Report{Score: 10})
		require.Error(t, err)
		assert.Equal(t, pagegrade.EINVALID, pagegrade.ErrorCode(err))
	})
}

func TestReportService_FindReportByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips all fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))
		ctx := context.Background()
		r := newReport("https://example.com/", 62)
		require.NoError(t, svc.CreateReport(ctx, r))

		got, err := svc.FindReportByID(ctx, r.ID)
		require.NoError(t, err)

		assert.Equal(t, r.ID, got.ID)
		assert.Equal(t, r.URL, got.URL)
		assert.Equal(t, r.FetchURL, got.FetchURL)
		assert.Equal(t, 62, got.Score)
		assert.Equal(t, r.HTML, got.HTML)
		assert.Equal(t, r.CSS, got.CSS)
		assert.Equal(t, r.JS, got.JS)
		assert.Equal(t, r.Styles, got.Styles)
		assert.Equal(t, r.Scripts, got.Scripts)
		assert.Equal(t, r.Duration, got.Duration)
		assert.True(t, r.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))

		_, err := svc.FindReportByID(context.Background(), "missing")
		assert.Equal(t, pagegrade.ENOTFOUND, pagegrade.ErrorCode(err))
	})
}

func TestReportService_FindReports(t *testing.T) {
	t.Parallel()

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))
		ctx := context.Background()
		var ids []string
		for i := range 3 {
			r := newReport(fmt.Sprintf("https://example.com/%d", i), 50)
			require.NoError(t, svc.CreateReport(ctx, r))
			ids = append(ids, r.ID)
		}

		got, err := svc.FindReports(ctx, pagegrade.ReportFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, ids[2], got[0].ID)
		assert.Equal(t, ids[0], got[2].ID)
	})

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.CreateReport(ctx, newReport("https://a.example/", 10)))
		require.NoError(t, svc.CreateReport(ctx, newReport("https://b.example/", 20)))
		require.NoError(t, svc.CreateReport(ctx, newReport("https://a.example/", 30)))

		url := "https://a.example/"
		got, err := svc.FindReports(ctx, pagegrade.ReportFilter{URL: &url})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 30, got[0].Score)
		assert.Equal(t, 10, got[1].Score)
	})

	t.Run("filters by ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))
		ctx := context.Background()
		r := newReport("https://example.com/", 10)
		require.NoError(t, svc.CreateReport(ctx, r))
		require.NoError(t, svc.CreateReport(ctx, newReport("https://example.com/", 20)))

		got, err := svc.FindReports(ctx, pagegrade.ReportFilter{ID: &r.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, r.ID, got[0].ID)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))
		ctx := context.Background()
		for i := range 5 {
			require.NoError(t, svc.CreateReport(ctx, newReport("https://example.com/", i*10)))
		}

		got, err := svc.FindReports(ctx, pagegrade.ReportFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 30, got[0].Score)
		assert.Equal(t, 20, got[1].Score)
	})

	t.Run("returns empty for no matches", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))

		url := "https://nowhere.example/"
		got, err := svc.FindReports(context.Background(), pagegrade.ReportFilter{URL: &url})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestReportService_DeleteReport(t *testing.T) {
	t.Parallel()

	t.Run("removes report", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))
		ctx := context.Background()
		r := newReport("https://example.com/", 10)
		require.NoError(t, svc.CreateReport(ctx, r))

		require.NoError(t, svc.DeleteReport(ctx, r.ID))

		_, err := svc.FindReportByID(ctx, r.ID)
		assert.Equal(t, pagegrade.ENOTFOUND, pagegrade.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewReportService(setupTestDB(t))

		err := svc.DeleteReport(context.Background(), "missing")
		assert.Equal(t, pagegrade.ENOTFOUND, pagegrade.ErrorCode(err))
	})
}
