package pagegrade

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// ResourceType identifies the kind of content a resource holds.
type ResourceType string

// Resource types.
const (
	ResourceUnknown ResourceType = ""
	ResourceCSS     ResourceType = "css"
	ResourceJS      ResourceType = "js"
	ResourceText    ResourceType = "text"
)

// TypeFromPath classifies a URL or path by its file extension.
// Query strings and fragments are ignored. Returns ResourceUnknown when the
// extension is not a stylesheet or script extension.
func TypeFromPath(ref string) ResourceType {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
	} else if idx := strings.IndexAny(p, "?#"); idx != -1 {
		p = p[:idx]
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".css":
		return ResourceCSS
	case ".js", ".mjs", ".cjs":
		return ResourceJS
	}
	return ResourceUnknown
}

// TypeFromContentType maps a Content-Type header value to a resource type.
// JSON counts as script. Anything else, HTML included, is ResourceUnknown.
func TypeFromContentType(contentType string) ResourceType {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/css"):
		return ResourceCSS
	case strings.Contains(ct, "javascript"), strings.Contains(ct, "ecmascript"), strings.Contains(ct, "json"):
		return ResourceJS
	}
	return ResourceUnknown
}

// Reference is a candidate resource path surfaced by a discovery phase,
// not yet resolved or fetched.
type Reference struct {
	Raw    string
	Type   ResourceType
	Source string // phase that produced it, e.g. "regex", "dynamic:import"
}

// Bucket accumulates fetched content for one resource type.
type Bucket struct {
	// Content is all collected text, newline-joined, in append order.
	Content string `json:"content"`

	// FileCount is the number of unique resources fetched successfully.
	FileCount int `json:"fileCount"`

	// ByteCount is the sum of fetched content lengths.
	ByteCount int `json:"byteCount"`
}

// Resources is the output of resource discovery for one page.
type Resources struct {
	CSS Bucket `json:"css"`
	JS  Bucket `json:"js"`
}

// Threshold decides when enough content of one type has been gathered.
// Either criterion is sufficient on its own. A zero field disables that
// criterion; a zero Threshold never reports sufficiency.
type Threshold struct {
	MinFiles int `json:"minFiles"`
	MinBytes int `json:"minBytes"`
}

// DefaultThreshold stops discovery for a type after two files or 10 KB.
var DefaultThreshold = Threshold{MinFiles: 2, MinBytes: 10000}

// Sufficient reports whether the given counters satisfy the threshold.
func (t Threshold) Sufficient(files, bytes int) bool {
	if t.MinFiles > 0 && files >= t.MinFiles {
		return true
	}
	return t.MinBytes > 0 && bytes >= t.MinBytes
}

// StyleAttr is an element carrying an inline style attribute.
type StyleAttr struct {
	Tag          string
	ID           string
	Classes      []string
	Declarations string
}

// Markup holds the resource references and inline content found in an HTML
// document. Slices preserve document order.
type Markup struct {
	// Base is the href of the first <base> element, if any.
	Base string

	Stylesheets   []string
	Scripts       []string
	InlineStyles  []string
	InlineScripts []string
	StyleAttrs    []StyleAttr
}

// MarkupParser extracts resource references and inline content from HTML.
type MarkupParser interface {
	Parse(html string) (*Markup, error)
}

// Discoverer locates and fetches the CSS and JavaScript a page uses.
type Discoverer interface {
	// Discover returns the aggregated resources for the page. Individual
	// resource failures never fail discovery; an error is returned only for
	// an unusable page URL or a canceled context.
	Discover(ctx context.Context, html string, pageURL string) (*Resources, error)
}
