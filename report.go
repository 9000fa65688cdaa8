package pagegrade

import (
	"context"
	"time"
)

// ResourceSummary describes one bucket in a report without its content.
type ResourceSummary struct {
	FileCount   int    `json:"fileCount"`
	ByteCount   int    `json:"byteCount"`
	Fingerprint string `json:"fingerprint"`
}

// Report is the result of analyzing one page.
type Report struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	FetchURL  string          `json:"fetchUrl"`
	Score     int             `json:"score"`
	HTML      *Evaluation     `json:"html"`
	CSS       *Evaluation     `json:"css"`
	JS        *Evaluation     `json:"js"`
	Styles    ResourceSummary `json:"styles"`
	Scripts   ResourceSummary `json:"scripts"`
	Duration  time.Duration   `json:"duration"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate returns an error if the report contains invalid fields.
func (r *Report) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "report URL required")
	}
	if r.Score < 0 || r.Score > 100 {
		return Errorf(EINVALID, "report score %d out of range", r.Score)
	}
	return nil
}

// Feedback returns the failed-check messages across all evaluations,
// HTML first, then CSS, then JavaScript.
func (r *Report) Feedback() []string {
	var out []string
	out = append(out, r.HTML.Feedback()...)
	out = append(out, r.CSS.Feedback()...)
	out = append(out, r.JS.Feedback()...)
	return out
}

// ReportService represents a service for managing saved reports.
type ReportService interface {
	// CreateReport saves a new report and assigns its ID and CreatedAt.
	CreateReport(ctx context.Context, report *Report) error

	// FindReportByID retrieves a report by ID.
	// Returns ENOTFOUND if report does not exist.
	FindReportByID(ctx context.Context, id string) (*Report, error)

	// FindReports retrieves reports matching the filter, newest first.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, error)

	// DeleteReport permanently removes a report.
	// Returns ENOTFOUND if report does not exist.
	DeleteReport(ctx context.Context, id string) error
}

// ReportExporter writes a report outside the report store.
type ReportExporter interface {
	// ExportReport writes the report and returns where it was written.
	ExportReport(ctx context.Context, report *Report) (string, error)
}

// ReportFilter represents a filter for FindReports.
type ReportFilter struct {
	ID  *string `json:"id"`
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Analyzer produces a quality report for a page.
type Analyzer interface {
	// Analyze fetches the page, discovers its resources and scores them.
	// Returns EINVALID for bad input and EUNAVAILABLE when the page itself
	// cannot be fetched.
	Analyze(ctx context.Context, rawURL string) (*Report, error)
}
