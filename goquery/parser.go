// Package goquery implements HTML-facing services with
// github.com/PuerkitoBio/goquery: the markup parser used by resource
// discovery, bundler detection and the HTML quality evaluator.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagegrade"
)

var _ pagegrade.MarkupParser = (*Parser)(nil)

// Parser extracts stylesheet and script references and inline content
// from HTML.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads html and returns its resource references in document order.
// References are returned as written; resolution is left to the caller.
func (p *Parser) Parse(html string) (*pagegrade.Markup, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagegrade.Errorf(pagegrade.EINVALID, "failed to parse HTML: %v", err)
	}

	m := &pagegrade.Markup{}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		m.Base = strings.TrimSpace(href)
	}

	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		switch linkKind(s) {
		case pagegrade.ResourceCSS:
			m.Stylesheets = append(m.Stylesheets, href)
		case pagegrade.ResourceJS:
			m.Scripts = append(m.Scripts, href)
		}
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if !isScriptType(s.AttrOr("type", "")) {
			return
		}
		if src, ok := s.Attr("src"); ok {
			if src = strings.TrimSpace(src); src != "" {
				m.Scripts = append(m.Scripts, src)
			}
			return
		}
		if text := s.Text(); strings.TrimSpace(text) != "" {
			m.InlineScripts = append(m.InlineScripts, text)
		}
	})

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); strings.TrimSpace(text) != "" {
			m.InlineStyles = append(m.InlineStyles, text)
		}
	})

	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		decl := strings.TrimSpace(s.AttrOr("style", ""))
		if decl == "" {
			return
		}
		var classes []string
		if c := strings.Fields(s.AttrOr("class", "")); len(c) > 0 {
			classes = c
		}
		m.StyleAttrs = append(m.StyleAttrs, pagegrade.StyleAttr{
			Tag:          goquery.NodeName(s),
			ID:           strings.TrimSpace(s.AttrOr("id", "")),
			Classes:      classes,
			Declarations: decl,
		})
	})

	return m, nil
}

// linkKind classifies a <link> by its rel and as attributes.
func linkKind(s *goquery.Selection) pagegrade.ResourceType {
	rels := strings.Fields(strings.ToLower(s.AttrOr("rel", "")))
	as := strings.ToLower(strings.TrimSpace(s.AttrOr("as", "")))
	for _, rel := range rels {
		switch rel {
		case "stylesheet":
			return pagegrade.ResourceCSS
		case "modulepreload":
			return pagegrade.ResourceJS
		case "preload":
			switch as {
			case "style":
				return pagegrade.ResourceCSS
			case "script":
				return pagegrade.ResourceJS
			}
		}
	}
	return pagegrade.ResourceUnknown
}

// isScriptType reports whether a <script type> holds executable JavaScript.
// Data blocks such as JSON-LD and templates do not.
func isScriptType(t string) bool {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i != -1 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "", "module", "text/javascript", "application/javascript",
		"text/ecmascript", "application/ecmascript", "application/x-javascript":
		return true
	}
	return false
}
