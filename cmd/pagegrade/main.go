package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/analyze"
	"github.com/fwojciec/pagegrade/discover"
	"github.com/fwojciec/pagegrade/fs"
	"github.com/fwojciec/pagegrade/goquery"
	pghttp "github.com/fwojciec/pagegrade/http"
	"github.com/fwojciec/pagegrade/score"
	pgslog "github.com/fwojciec/pagegrade/slog"
	"github.com/fwojciec/pagegrade/sqlite"
	"github.com/fwojciec/pagegrade/tdewolff"
	"github.com/fwojciec/pagegrade/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Resource fetch rate per host across all discovery phases.
const (
	resourceRate  = 10
	resourceBurst = 1
)

// Main represents the program.
type Main struct {
	// Database path used when --db is not given.
	DBPath string

	// SQLite database, opened only by commands that need it.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagegrade"),
		kong.Description("Grade the HTML, CSS and JavaScript of web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagegrade --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = kongCtx.Command()
	deps.Timeout = cli.Timeout

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	needsDB := cli.Analyze.Save && isCommand(cmd, "analyze")
	for _, name := range []string{"history", "show", "delete"} {
		needsDB = needsDB || isCommand(cmd, name)
	}
	if needsDB {
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PAGEGRADE_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		defer m.Close()
		deps.Reports = sqlite.NewReportService(m.DB)
	}

	if isCommand(cmd, "analyze") || isCommand(cmd, "resources") {
		a := newAnalyzer(cli, logger)
		if cli.Analyze.Save {
			a.Reports = deps.Reports
		}
		defer a.Pages.Close()
		deps.Analyzer = pgslog.NewLoggingAnalyzer(a, logger)
		if cli.Analyze.Out != "" {
			deps.Exporter = fs.NewWriter(cli.Analyze.Out)
		}
		deps.Loader = a
	}

	return kongCtx.Run(deps)
}

// newAnalyzer wires the HTTP, discovery and scoring stack.
func newAnalyzer(cli *CLI, logger *slog.Logger) *analyze.Analyzer {
	var opts []pghttp.Option
	if cli.UserAgent != "" {
		opts = append(opts, pghttp.WithUserAgent(cli.UserAgent))
	}
	limiter := discover.NewDomainLimiter(resourceRate, resourceBurst)
	limited := append([]pghttp.Option{pghttp.WithLimiter(limiter)}, opts...)

	pipeline := &discover.Pipeline{
		Parser:   goquery.NewParser(),
		Fetcher:  pgslog.NewLoggingResourceFetcher(pghttp.NewResourceFetcher(limited...), logger),
		Prober:   pghttp.NewProber(limited...),
		Sitemaps: pgslog.NewLoggingSitemapService(pghttp.NewSitemapService(nil, limited...), logger),
		Detector: goquery.NewDetector(),
		Threshold: pagegrade.Threshold{
			MinFiles: cli.MinFiles,
			MinBytes: cli.MinBytes,
		},
		Logger: logger,
	}

	return &analyze.Analyzer{
		Pages:      pgslog.NewLoggingFetcher(pghttp.NewFetcher(opts...), logger),
		Discoverer: pgslog.NewLoggingDiscoverer(pipeline, logger),
		HTML:       goquery.NewHTMLEvaluator(trafilatura.NewExtractor()),
		CSS:        score.NewCSSEvaluator(tdewolff.NewStyleLinter()),
		JS:         score.NewJSEvaluator(tdewolff.NewScriptLinter()),
		Logger:     logger,
	}
}

// isCommand reports whether the kong command path starts with name.
func isCommand(cmd, name string) bool {
	return cmd == name || len(cmd) > len(name) && cmd[:len(name)+1] == name+" "
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagegrade.db"
	}
	dir := filepath.Join(home, ".pagegrade")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pagegrade.db")
}
