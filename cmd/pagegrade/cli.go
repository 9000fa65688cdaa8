package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/analyze"
)

// PageLoader fetches a page and discovers its resources.
type PageLoader interface {
	Load(ctx context.Context, rawURL string) (*analyze.Page, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Timeout  time.Duration
	Analyzer pagegrade.Analyzer
	Loader   PageLoader
	Reports  pagegrade.ReportService
	Exporter pagegrade.ReportExporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout   time.Duration `default:"60s" env:"PAGEGRADE_TIMEOUT" help:"Time limit per analyzed page"`
	MinFiles  int           `default:"2" help:"Files of one type that count as enough"`
	MinBytes  int           `default:"10000" help:"Bytes of one type that count as enough"`
	UserAgent string        `env:"PAGEGRADE_USER_AGENT" help:"User-Agent header for all requests"`
	DB        string        `name:"db" env:"PAGEGRADE_DB" help:"Report database path"`
	Verbose   bool          `short:"v" help:"Log discovery progress to stderr"`

	Analyze   AnalyzeCmd   `cmd:"" help:"Analyze one or more pages"`
	Resources ResourcesCmd `cmd:"" help:"Show the CSS and JavaScript a page uses"`
	History   HistoryCmd   `cmd:"" help:"List saved reports"`
	Show      ShowCmd      `cmd:"" help:"Show a saved report"`
	Delete    DeleteCmd    `cmd:"" help:"Delete a saved report"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs"`
	Concurrency int      `short:"c" default:"2" help:"Pages analyzed at once"`
	JSON        bool     `name:"json" help:"Print reports as JSON"`
	Save        bool     `help:"Save reports to the database"`
	Out         string   `type:"path" help:"Also write each report as JSON under this directory"`
}

// ResourcesCmd is the "resources" subcommand.
type ResourcesCmd struct {
	URL     string `arg:"" help:"Page URL"`
	Content bool   `help:"Print the collected CSS and JavaScript"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `name:"url" help:"Only reports for this URL"`
	Limit int    `short:"n" default:"20" help:"Maximum reports to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Report ID"`
	JSON bool   `name:"json" help:"Print the report as JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Report ID"`
}
