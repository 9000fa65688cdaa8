package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/pagegrade"
	"golang.org/x/sync/errgroup"
)

// Run executes the analyze command. Every URL is attempted; the command
// fails if any of them failed.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	reports := make([]*pagegrade.Report, len(c.URLs))
	errs := make([]error, len(c.URLs))

	var g errgroup.Group
	g.SetLimit(max(c.Concurrency, 1))
	for i, u := range c.URLs {
		g.Go(func() error {
			ctx := deps.Ctx
			if deps.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, deps.Timeout)
				defer cancel()
			}
			reports[i], errs[i] = deps.Analyzer.Analyze(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for i, err := range errs {
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", c.URLs[i], pagegrade.ErrorMessage(err))
		}
	}

	if deps.Exporter != nil {
		for _, r := range reports {
			if r == nil {
				continue
			}
			path, err := deps.Exporter.ExportReport(deps.Ctx, r)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: export %s: %s\n", r.URL, pagegrade.ErrorMessage(err))
				return err
			}
			fmt.Fprintf(deps.Stderr, "Wrote %s\n", path)
		}
	}

	if c.JSON {
		var ok []*pagegrade.Report
		for _, r := range reports {
			if r != nil {
				ok = append(ok, r)
			}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ok); err != nil {
			return err
		}
	} else {
		var blocks []string
		for _, r := range reports {
			if r == nil {
				continue
			}
			block := pagegrade.FormatReport(r)
			if c.Save && r.ID != "" {
				block += fmt.Sprintf("Saved as %s\n", r.ID)
			}
			blocks = append(blocks, block)
		}
		fmt.Fprint(deps.Stdout, strings.Join(blocks, "\n"))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(c.URLs))
	}
	return nil
}

// Run executes the resources command.
func (c *ResourcesCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx
	if deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.Timeout)
		defer cancel()
	}

	page, err := deps.Loader.Load(ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagegrade.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, pagegrade.FormatResources(page.URL, page.Resources, c.Content))
	return nil
}
