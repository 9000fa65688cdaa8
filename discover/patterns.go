package discover

import (
	"path"
	"regexp"
	"strings"

	"github.com/fwojciec/pagegrade"
)

// Pattern is one entry in a scan table: a regular expression whose first
// submatch is a resource reference, and the type that reference carries.
// ResourceUnknown means the type must be inferred or verified.
type Pattern struct {
	Name   string
	Regexp *regexp.Regexp
	Type   pagegrade.ResourceType
}

// BroadPattern matches any .css or .js path-like token in raw markup,
// whether quoted, inside parentheses or bare.
var BroadPattern = regexp.MustCompile(`(?i)(?:https?:)?[\w\-./~%@+:]*[\w\-~%@+]\.(?:css|js)\b(?:\?[^\s"'()<>\\]*)?`)

// DynamicPatterns are idiomatic loader calls that reference resources at
// runtime.
var DynamicPatterns = []Pattern{
	{"src-assign", regexp.MustCompile("\\.src\\s*=\\s*[\"'`]([^\"'`\\s]+)[\"'`]"), pagegrade.ResourceUnknown},
	{"href-assign", regexp.MustCompile("\\.href\\s*=\\s*[\"'`]([^\"'`\\s]+)[\"'`]"), pagegrade.ResourceUnknown},
	{"set-attribute", regexp.MustCompile("setAttribute\\(\\s*[\"'](?:src|href)[\"']\\s*,\\s*[\"'`]([^\"'`\\s]+)[\"'`]"), pagegrade.ResourceUnknown},
	{"dynamic-import", regexp.MustCompile("\\bimport\\(\\s*[\"'`]([^\"'`\\s]+)[\"'`]\\s*\\)"), pagegrade.ResourceJS},
	{"require", regexp.MustCompile("\\brequire\\(\\s*[\"'`]([^\"'`\\s]+)[\"'`]\\s*\\)"), pagegrade.ResourceUnknown},
	{"import-scripts", regexp.MustCompile("\\bimportScripts\\(\\s*[\"'`]([^\"'`\\s]+)[\"'`]"), pagegrade.ResourceJS},
	{"worker", regexp.MustCompile("\\bnew\\s+(?:Shared)?Worker\\(\\s*[\"'`]([^\"'`\\s]+)[\"'`]"), pagegrade.ResourceJS},
	{"script-loader", regexp.MustCompile("\\b(?:loadScript|getScript|loadJS)\\(\\s*[\"'`]([^\"'`\\s]+)[\"'`]"), pagegrade.ResourceJS},
	{"style-loader", regexp.MustCompile("\\b(?:loadCSS|loadStyle|loadStylesheet)\\(\\s*[\"'`]([^\"'`\\s]+)[\"'`]"), pagegrade.ResourceCSS},
	{"css-import", regexp.MustCompile(`@import\s+(?:url\(\s*)?["']?([^"')\s;]+)`), pagegrade.ResourceCSS},
	{"data-attr", regexp.MustCompile(`\bdata-(?:src|href)\s*=\s*["']([^"'\s]+)["']`), pagegrade.ResourceUnknown},
}

// bundlerPrefix matches an optional scheme, host and leading directories.
const bundlerPrefix = `((?:https?:)?(?://[\w\-.:]+)?(?:\.{0,2}/)?(?:[\w\-.~@]+/)*`

// BundlerPatterns match conventional build-tool output paths. Matches are
// classified by path rather than verified.
var BundlerPatterns = []Pattern{
	{"static-dir", regexp.MustCompile(bundlerPrefix + `static/(?:js|css)/[\w\-.~]+)`), pagegrade.ResourceUnknown},
	{"assets-dir", regexp.MustCompile(bundlerPrefix + `assets/(?:js|css)/[\w\-.~]+)`), pagegrade.ResourceUnknown},
	{"next-static", regexp.MustCompile(bundlerPrefix + `_next/static/(?:[\w\-.~]+/)*[\w\-.~]+\.(?:js|css))`), pagegrade.ResourceUnknown},
	{"nuxt", regexp.MustCompile(bundlerPrefix + `_nuxt/(?:[\w\-.~]+/)*[\w\-.~]+\.(?:js|css))`), pagegrade.ResourceUnknown},
	{"dist-build", regexp.MustCompile(bundlerPrefix + `(?:dist|build)/(?:[\w\-.~]+/)*[\w\-.~]+\.(?:js|css))`), pagegrade.ResourceUnknown},
	{"hashed-chunk", regexp.MustCompile(bundlerPrefix + `[\w\-]+[.\-~][0-9a-f]{8,}(?:\.chunk)?\.(?:js|css))\b`), pagegrade.ResourceUnknown},
}

// BundlerEntries are conventional entry files for each detected bundler.
// Paths are relative to the site root.
var BundlerEntries = map[pagegrade.Bundler][]string{
	pagegrade.BundlerCRA:     {"/static/js/main.js", "/static/js/bundle.js", "/static/css/main.css"},
	pagegrade.BundlerVite:    {"/assets/index.js", "/assets/index.css"},
	pagegrade.BundlerAngular: {"/main.js", "/polyfills.js", "/runtime.js", "/styles.css"},
	pagegrade.BundlerGatsby:  {"/app.js", "/commons.js"},
	pagegrade.BundlerWebpack: {"/dist/bundle.js", "/dist/main.js", "/dist/main.css", "/build/bundle.js"},
}

// Guess lists for the common-filename phase. Candidates are the cartesian
// product prefix × name × extension for each type.
var (
	GuessPrefixes = map[pagegrade.ResourceType][]string{
		pagegrade.ResourceCSS: {"/", "/css/", "/styles/", "/assets/", "/assets/css/", "/static/css/", "/dist/"},
		pagegrade.ResourceJS:  {"/", "/js/", "/scripts/", "/assets/", "/assets/js/", "/static/js/", "/dist/"},
	}
	GuessNames = map[pagegrade.ResourceType][]string{
		pagegrade.ResourceCSS: {"style", "styles", "main", "app", "site", "index"},
		pagegrade.ResourceJS:  {"main", "app", "script", "bundle", "index", "site"},
	}
	GuessExtensions = map[pagegrade.ResourceType][]string{
		pagegrade.ResourceCSS: {".css", ".min.css"},
		pagegrade.ResourceJS:  {".js", ".min.js"},
	}
)

// nonWebExtensions are media and font files that loader patterns also match.
var nonWebExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".webp": true, ".avif": true, ".ico": true, ".bmp": true,
	".mp4": true, ".webm": true, ".ogg": true, ".mp3": true, ".wav": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".pdf": true, ".zip": true,
}

// ScanBroad returns every .css/.js token in src in first-match order,
// without duplicates. Types come from the extension.
func ScanBroad(src string) []pagegrade.Reference {
	var refs []pagegrade.Reference
	seen := make(map[string]bool)
	for _, m := range BroadPattern.FindAllString(src, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		refs = append(refs, pagegrade.Reference{Raw: m, Type: pagegrade.TypeFromPath(m), Source: "regex"})
	}
	return refs
}

// ScanDynamic applies DynamicPatterns in table order. References to media
// files and unexpanded templates are dropped.
func ScanDynamic(src string) []pagegrade.Reference {
	return scanTable(src, DynamicPatterns, "dynamic:", func(raw string, typ pagegrade.ResourceType) pagegrade.ResourceType {
		if typ == pagegrade.ResourceUnknown {
			return pagegrade.TypeFromPath(raw)
		}
		return typ
	})
}

// ScanBundler applies BundlerPatterns in table order and classifies each
// match with ClassifyPath. Unclassifiable matches are dropped.
func ScanBundler(src string) []pagegrade.Reference {
	refs := scanTable(src, BundlerPatterns, "bundler:", func(raw string, _ pagegrade.ResourceType) pagegrade.ResourceType {
		return ClassifyPath(raw)
	})
	out := refs[:0]
	for _, ref := range refs {
		if ref.Type != pagegrade.ResourceUnknown {
			out = append(out, ref)
		}
	}
	return out
}

func scanTable(src string, table []Pattern, source string, classify func(string, pagegrade.ResourceType) pagegrade.ResourceType) []pagegrade.Reference {
	var refs []pagegrade.Reference
	seen := make(map[string]bool)
	for _, p := range table {
		for _, m := range p.Regexp.FindAllStringSubmatch(src, -1) {
			raw := strings.TrimSpace(m[1])
			if raw == "" || seen[raw] || discardable(raw) {
				continue
			}
			seen[raw] = true
			refs = append(refs, pagegrade.Reference{
				Raw:    raw,
				Type:   classify(raw, p.Type),
				Source: source + p.Name,
			})
		}
	}
	return refs
}

// discardable reports references that can never be a stylesheet or script.
func discardable(raw string) bool {
	if strings.Contains(raw, "${") || strings.Contains(raw, "{{") {
		return true
	}
	p := raw
	if idx := strings.IndexAny(p, "?#"); idx != -1 {
		p = p[:idx]
	}
	return nonWebExtensions[strings.ToLower(path.Ext(p))]
}

// ClassifyPath infers a type from a build-output path: the extension wins,
// then a /css/ or /js/ directory.
func ClassifyPath(raw string) pagegrade.ResourceType {
	if t := pagegrade.TypeFromPath(raw); t != pagegrade.ResourceUnknown {
		return t
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "/css/"):
		return pagegrade.ResourceCSS
	case strings.Contains(lower, "/js/"):
		return pagegrade.ResourceJS
	}
	return pagegrade.ResourceUnknown
}
