package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/pagegrade"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := pagegrade.ReportFilter{Limit: c.Limit}
	if c.URL != "" {
		u, err := pagegrade.NormalizePageURL(c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagegrade.ErrorMessage(err))
			return err
		}
		filter.URL = &u
	}

	reports, err := deps.Reports.FindReports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagegrade.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports found. Use 'pagegrade analyze --save' to create one.")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(deps.Stdout, "%s  %s  %3d  %s\n", r.ID, r.CreatedAt.Format(time.DateTime), r.Score, r.URL)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	report, err := deps.Reports.FindReportByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagegrade.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(deps.Stdout, "Report %s (saved %s)\n", report.ID, report.CreatedAt.Format(time.DateTime))
	fmt.Fprint(deps.Stdout, pagegrade.FormatReport(report))
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Reports.DeleteReport(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagegrade.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted report %s\n", c.ID)
	return nil
}
