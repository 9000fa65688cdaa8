package mock

import (
	"context"

	"github.com/fwojciec/pagegrade"
)

var (
	_ pagegrade.MarkupParser    = (*MarkupParser)(nil)
	_ pagegrade.Discoverer      = (*Discoverer)(nil)
	_ pagegrade.BundlerDetector = (*BundlerDetector)(nil)
)

// MarkupParser is a mock implementation of pagegrade.MarkupParser.
type MarkupParser struct {
	ParseFn func(html string) (*pagegrade.Markup, error)
}

func (p *MarkupParser) Parse(html string) (*pagegrade.Markup, error) {
	return p.ParseFn(html)
}

// Discoverer is a mock implementation of pagegrade.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, html string, pageURL string) (*pagegrade.Resources, error)
}

func (d *Discoverer) Discover(ctx context.Context, html string, pageURL string) (*pagegrade.Resources, error) {
	return d.DiscoverFn(ctx, html, pageURL)
}

// BundlerDetector is a mock implementation of pagegrade.BundlerDetector.
type BundlerDetector struct {
	DetectFn func(html string) pagegrade.Bundler
}

func (d *BundlerDetector) Detect(html string) pagegrade.Bundler {
	return d.DetectFn(html)
}
