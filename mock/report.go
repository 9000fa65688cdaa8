package mock

import (
	"context"

	"github.com/fwojciec/pagegrade"
)

var (
	_ pagegrade.ReportService  = (*ReportService)(nil)
	_ pagegrade.Analyzer       = (*Analyzer)(nil)
	_ pagegrade.ReportExporter = (*ReportExporter)(nil)
)

// ReportService is a mock implementation of pagegrade.ReportService.
type ReportService struct {
	CreateReportFn   func(ctx context.Context, report *pagegrade.Report) error
	FindReportByIDFn func(ctx context.Context, id string) (*pagegrade.Report, error)
	FindReportsFn    func(ctx context.Context, filter pagegrade.ReportFilter) ([]*pagegrade.Report, error)
	DeleteReportFn   func(ctx context.Context, id string) error
}

func (s *ReportService) CreateReport(ctx context.Context, report *pagegrade.Report) error {
	return s.CreateReportFn(ctx, report)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*pagegrade.Report, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter pagegrade.ReportFilter) ([]*pagegrade.Report, error) {
	return s.FindReportsFn(ctx, filter)
}

func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	return s.DeleteReportFn(ctx, id)
}

// Analyzer is a mock implementation of pagegrade.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, rawURL string) (*pagegrade.Report, error)
}

func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*pagegrade.Report, error) {
	return a.AnalyzeFn(ctx, rawURL)
}

// ReportExporter is a mock implementation of pagegrade.ReportExporter.
type ReportExporter struct {
	ExportReportFn func(ctx context.Context, report *pagegrade.Report) (string, error)
}

func (e *ReportExporter) ExportReport(ctx context.Context, report *pagegrade.Report) (string, error) {
	return e.ExportReportFn(ctx, report)
}
