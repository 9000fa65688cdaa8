package goquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/score"
)

var _ pagegrade.Evaluator = (*HTMLEvaluator)(nil)

// MinMainContentWords is the readable text a page needs for the main
// content rule to pass.
const MinMainContentWords = 50

// deprecatedTags are presentational or obsolete elements.
var deprecatedTags = []string{"center", "font", "marquee", "blink", "big", "strike", "tt", "frameset", "frame", "acronym"}

// landmarks are the sectioning elements screen readers navigate by.
var landmarks = []string{"header", "nav", "main", "footer"}

// HTMLEvaluator scores page markup. Extractor is optional; without it the
// main content rule is left out.
type HTMLEvaluator struct {
	Extractor pagegrade.Extractor
}

// NewHTMLEvaluator creates an HTMLEvaluator.
func NewHTMLEvaluator(extractor pagegrade.Extractor) *HTMLEvaluator {
	return &HTMLEvaluator{Extractor: extractor}
}

type page struct {
	raw   string
	doc   *goquery.Document
	words int // words of extracted main content, -1 when extraction failed
}

// Evaluate scores content. Empty content scores zero.
func (e *HTMLEvaluator) Evaluate(ctx context.Context, content string) (*pagegrade.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return score.Missing("html-present", "No HTML found"), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, pagegrade.Errorf(pagegrade.EINVALID, "failed to parse HTML: %v", err)
	}

	p := &page{raw: content, doc: doc}
	rules := htmlRules
	if e.Extractor != nil {
		p.words = -1
		if res, err := e.Extractor.Extract(content); err == nil && res != nil {
			p.words = len(strings.Fields(res.Text))
		}
		rules = append(append([]score.Rule[*page]{}, htmlRules...), mainContentRule)
	}
	return score.Evaluate(p, rules), nil
}

var htmlRules = []score.Rule[*page]{
	{
		Name:   "html-doctype",
		Weight: 10,
		Check: func(p *page) bool {
			head := p.raw
			if len(head) > 1024 {
				head = head[:1024]
			}
			return strings.Contains(strings.ToLower(head), "<!doctype html")
		},
		Pass: "Declares <!DOCTYPE html>",
		Fail: "Add a <!DOCTYPE html> declaration",
	},
	{
		Name:   "html-lang",
		Weight: 10,
		Check:  func(p *page) bool { return strings.TrimSpace(p.doc.Find("html").AttrOr("lang", "")) != "" },
		Pass:   "Declares the document language",
		Fail:   "Set the lang attribute on <html>",
	},
	{
		Name:   "html-title",
		Weight: 10,
		Check:  func(p *page) bool { return strings.TrimSpace(p.doc.Find("title").First().Text()) != "" },
		Pass:   "Has a title",
		Fail:   "Add a non-empty <title>",
	},
	{
		Name:   "html-viewport",
		Weight: 10,
		Check:  func(p *page) bool { return p.doc.Find("meta[name='viewport']").Length() > 0 },
		Pass:   "Has a viewport meta tag",
		Fail:   "Add a viewport meta tag for mobile devices",
	},
	{
		Name:   "html-description",
		Weight: 5,
		Check: func(p *page) bool {
			return strings.TrimSpace(p.doc.Find("meta[name='description']").AttrOr("content", "")) != ""
		},
		Pass: "Has a meta description",
		Fail: "Add a meta description",
	},
	{
		Name:   "html-h1",
		Weight: 10,
		Check:  func(p *page) bool { return p.doc.Find("h1").Length() == 1 },
		Pass:   "Has exactly one <h1>",
		Explain: func(p *page) string {
			return fmt.Sprintf("Use exactly one <h1> (found %d)", p.doc.Find("h1").Length())
		},
	},
	{
		Name:   "html-img-alt",
		Weight: 10,
		Check:  func(p *page) bool { return p.doc.Find("img:not([alt])").Length() == 0 },
		Pass:   "All images have alt text",
		Explain: func(p *page) string {
			return fmt.Sprintf("Add alt attributes to %d image(s)", p.doc.Find("img:not([alt])").Length())
		},
	},
	{
		Name:   "html-landmarks",
		Weight: 10,
		Check: func(p *page) bool {
			n := 0
			for _, tag := range landmarks {
				if p.doc.Find(tag).Length() > 0 {
					n++
				}
			}
			return n >= 2
		},
		Pass: "Uses semantic landmarks",
		Fail: "Use semantic landmarks such as <header>, <nav>, <main> and <footer>",
	},
	{
		Name:   "html-inline-handlers",
		Weight: 10,
		Check:  func(p *page) bool { return countInlineHandlers(p.doc) == 0 },
		Pass:   "No inline event handlers",
		Explain: func(p *page) string {
			return fmt.Sprintf("Move %d inline on* event handler(s) into scripts", countInlineHandlers(p.doc))
		},
	},
	{
		Name:   "html-deprecated",
		Weight: 10,
		Check:  func(p *page) bool { return len(foundDeprecated(p.doc)) == 0 },
		Pass:   "No deprecated elements",
		Explain: func(p *page) string {
			return "Replace deprecated elements: " + strings.Join(foundDeprecated(p.doc), ", ")
		},
	},
}

var mainContentRule = score.Rule[*page]{
	Name:   "html-main-content",
	Weight: 5,
	Check:  func(p *page) bool { return p.words >= MinMainContentWords },
	Pass:   "Main content is readable",
	Fail:   "Page has little extractable main content",
}

func countInlineHandlers(doc *goquery.Document) int {
	n := 0
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range s.Nodes[0].Attr {
			if strings.HasPrefix(strings.ToLower(attr.Key), "on") {
				n++
			}
		}
	})
	return n
}

func foundDeprecated(doc *goquery.Document) []string {
	var found []string
	for _, tag := range deprecatedTags {
		if doc.Find(tag).Length() > 0 {
			found = append(found, "<"+tag+">")
		}
	}
	return found
}
