package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/pagegrade"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagegrade.ReportService = (*ReportService)(nil)

// ReportService implements pagegrade.ReportService using SQLite.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// reportBody holds the report fields stored as a JSON column.
type reportBody struct {
	HTML     *pagegrade.Evaluation     `json:"html,omitempty"`
	CSS      *pagegrade.Evaluation     `json:"css,omitempty"`
	JS       *pagegrade.Evaluation     `json:"js,omitempty"`
	Styles   pagegrade.ResourceSummary `json:"styles"`
	Scripts  pagegrade.ResourceSummary `json:"scripts"`
	Duration time.Duration             `json:"duration"`
}

// CreateReport saves a new report.
func (s *ReportService) CreateReport(ctx context.Context, report *pagegrade.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(reportBody{
		HTML:     report.HTML,
		CSS:      report.CSS,
		JS:       report.JS,
		Styles:   report.Styles,
		Scripts:  report.Scripts,
		Duration: report.Duration,
	})
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	report.ID = uuid.New().String()
	report.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, url, fetch_url, score, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, report.URL, report.FetchURL, report.Score, string(body),
		report.CreatedAt.Format(time.RFC3339))

	return err
}

// FindReportByID retrieves a report by ID.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*pagegrade.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, fetch_url, score, body, created_at
		FROM reports
		WHERE id = ?
	`, id)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, pagegrade.Errorf(pagegrade.ENOTFOUND, "report not found")
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// FindReports retrieves reports matching the filter, newest first.
func (s *ReportService) FindReports(ctx context.Context, filter pagegrade.ReportFilter) ([]*pagegrade.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, fetch_url, score, body, created_at FROM reports WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	// rowid breaks ties between reports saved within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*pagegrade.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// DeleteReport permanently removes a report.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pagegrade.Errorf(pagegrade.ENOTFOUND, "report not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*pagegrade.Report, error) {
	var report pagegrade.Report
	var body, createdAt string

	if err := row.Scan(&report.ID, &report.URL, &report.FetchURL, &report.Score, &body, &createdAt); err != nil {
		return nil, err
	}

	var b reportBody
	if err := json.Unmarshal([]byte(body), &b); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", report.ID, err)
	}
	report.HTML = b.HTML
	report.CSS = b.CSS
	report.JS = b.JS
	report.Styles = b.Styles
	report.Scripts = b.Scripts
	report.Duration = b.Duration

	var err error
	report.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &report, nil
}
