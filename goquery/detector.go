package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagegrade"
)

// Ensure Detector implements pagegrade.BundlerDetector at compile time.
var _ pagegrade.BundlerDetector = (*Detector)(nil)

// Detector identifies the framework or bundler that built a page.
// It checks the meta generator tag, framework root elements and the paths
// of the page's own scripts.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified bundler.
// Returns BundlerUnknown if the bundler cannot be determined.
func (d *Detector) Detect(html string) pagegrade.Bundler {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return pagegrade.BundlerUnknown
	}

	// Check meta generator tags first - most reliable when present
	if b := d.detectFromMetaGenerator(doc); b != pagegrade.BundlerUnknown {
		return b
	}

	if d.hasSelector(doc, "#__next") ||
		d.hasSelector(doc, "script#__NEXT_DATA__") ||
		d.hasSelector(doc, "script[src*='/_next/'], link[href*='/_next/']") {
		return pagegrade.BundlerNext
	}

	if d.hasSelector(doc, "#__nuxt") ||
		d.hasSelector(doc, "script[src*='/_nuxt/'], link[href*='/_nuxt/']") ||
		strings.Contains(html, "window.__NUXT__") {
		return pagegrade.BundlerNuxt
	}

	if d.hasSelector(doc, "#___gatsby") {
		return pagegrade.BundlerGatsby
	}

	// ng-version is stamped on the root component by the Angular runtime
	if d.hasSelector(doc, "[ng-version]") ||
		d.hasSelector(doc, "app-root") && d.hasSelector(doc, "script[src*='polyfills']") {
		return pagegrade.BundlerAngular
	}

	if d.hasSelector(doc, "script[src*='/@vite/client']") ||
		d.hasSelector(doc, "script[type='module'][src*='/assets/']") ||
		d.hasSelector(doc, "link[rel='modulepreload'][href*='/assets/']") {
		return pagegrade.BundlerVite
	}

	if d.hasSelector(doc, "#root") && d.hasSelector(doc, "script[src*='/static/js/']") {
		return pagegrade.BundlerCRA
	}

	if d.hasSelector(doc, "script[src*='bundle.js'], script[src*='runtime~'], script[src*='/dist/']") ||
		strings.Contains(html, "webpackJsonp") ||
		strings.Contains(html, "webpackChunk") {
		return pagegrade.BundlerWebpack
	}

	return pagegrade.BundlerUnknown
}

// detectFromMetaGenerator checks the meta generator tag for bundler identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) pagegrade.Bundler {
	generator := strings.ToLower(doc.Find("meta[name='generator']").AttrOr("content", ""))
	if generator == "" {
		return pagegrade.BundlerUnknown
	}

	switch {
	case strings.Contains(generator, "next.js"):
		return pagegrade.BundlerNext
	case strings.Contains(generator, "nuxt"):
		return pagegrade.BundlerNuxt
	case strings.Contains(generator, "gatsby"):
		return pagegrade.BundlerGatsby
	case strings.Contains(generator, "angular"):
		return pagegrade.BundlerAngular
	case strings.Contains(generator, "vite"):
		return pagegrade.BundlerVite
	}

	return pagegrade.BundlerUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
