package discover

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/pagegrade"
)

// phase is one step of the discovery chain. Gated phases are skipped once
// both types are sufficient.
type phase struct {
	name  string
	gated bool
	run   func(ctx context.Context, r *run)
}

var phases = []phase{
	{"explicit", false, explicitTags},
	{"inline", false, inlineContent},
	{"style-attributes", false, styleAttributes},
	{"regex", true, regexScan},
	{"dynamic", true, dynamicPatterns},
	{"bundler", true, bundlerPaths},
	{"guess", true, commonFilenames},
	{"sitemap", true, sitemapMining},
}

var resourceTypes = []pagegrade.ResourceType{pagegrade.ResourceCSS, pagegrade.ResourceJS}

// explicitTags fetches every <link rel=stylesheet> and <script src>.
// No gate applies: declared resources are always collected.
func explicitTags(ctx context.Context, r *run) {
	for _, href := range r.markup.Stylesheets {
		r.fetchRef(ctx, pagegrade.Reference{Raw: href, Type: pagegrade.ResourceCSS, Source: "link"})
	}
	for _, src := range r.markup.Scripts {
		r.fetchRef(ctx, pagegrade.Reference{Raw: src, Type: pagegrade.ResourceJS, Source: "script"})
	}
}

func inlineContent(_ context.Context, r *run) {
	for _, s := range r.markup.InlineStyles {
		r.appendInline(pagegrade.ResourceCSS, s)
	}
	for _, s := range r.markup.InlineScripts {
		r.appendInline(pagegrade.ResourceJS, s)
	}
}

func styleAttributes(_ context.Context, r *run) {
	for _, a := range r.markup.StyleAttrs {
		r.appendInline(pagegrade.ResourceCSS, SynthesizeRule(a))
	}
}

// SynthesizeRule turns an inline style attribute into a CSS rule whose
// selector is built from the element's tag, id and classes.
func SynthesizeRule(a pagegrade.StyleAttr) string {
	var sel strings.Builder
	sel.WriteString(strings.ToLower(a.Tag))
	if a.ID != "" {
		sel.WriteString("#" + a.ID)
	}
	for _, c := range a.Classes {
		if c != "" {
			sel.WriteString("." + c)
		}
	}
	if sel.Len() == 0 {
		sel.WriteString("*")
	}
	return sel.String() + " { " + strings.TrimSpace(a.Declarations) + " }"
}

// fetchGated fetches refs in order, skipping any whose type is already
// sufficient. Candidates are deduplicated by resolved URL first.
func fetchGated(ctx context.Context, r *run, refs []pagegrade.Reference) {
	seen := make(map[string]bool)
	for _, ref := range refs {
		if ctx.Err() != nil {
			return
		}
		if ref.Type != pagegrade.ResourceCSS && ref.Type != pagegrade.ResourceJS {
			continue
		}
		u, ok := r.resolve(ref.Raw)
		if !ok || seen[u] {
			continue
		}
		seen[u] = true
		if r.sufficient(ref.Type) {
			continue
		}
		r.fetch(ctx, u, ref.Type, ref.Source)
	}
}

func regexScan(ctx context.Context, r *run) {
	fetchGated(ctx, r, ScanBroad(r.html))
}

// dynamicPatterns scans the page and any script content collected so far.
// References with no type from the pattern or extension are verified with
// the prober before fetching.
func dynamicPatterns(ctx context.Context, r *run) {
	refs := ScanDynamic(r.html + "\n" + r.js.content.String())
	for i, ref := range refs {
		if ref.Type != pagegrade.ResourceUnknown {
			continue
		}
		if r.done() {
			break
		}
		u, ok := r.resolve(ref.Raw)
		if !ok {
			continue
		}
		refs[i].Type = r.verify(ctx, u)
	}
	fetchGated(ctx, r, refs)
}

// bundlerPaths scans for build-tool output paths, then tries the entry
// files of the detected bundler.
func bundlerPaths(ctx context.Context, r *run) {
	fetchGated(ctx, r, ScanBundler(r.html+"\n"+r.js.content.String()))

	if r.p.Detector == nil {
		return
	}
	b := r.p.Detector.Detect(r.html)
	if b == pagegrade.BundlerUnknown {
		return
	}
	r.logger.Debug("bundler detected", "bundler", string(b))

	var refs []pagegrade.Reference
	for _, entry := range BundlerEntries[b] {
		refs = append(refs, pagegrade.Reference{
			Raw:    r.siteRoot() + strings.TrimPrefix(entry, "/"),
			Type:   pagegrade.TypeFromPath(entry),
			Source: "bundler:" + string(b),
		})
	}
	fetchGated(ctx, r, refs)
}

// commonFilenames guesses conventional asset paths for a type only when
// nothing at all was fetched for it.
func commonFilenames(ctx context.Context, r *run) {
	root := strings.TrimSuffix(r.siteRoot(), "/")
	for _, t := range resourceTypes {
		if r.agg(t).files > 0 || r.sufficient(t) {
			continue
		}
		guessType(ctx, r, root, t)
	}
}

func guessType(ctx context.Context, r *run, root string, t pagegrade.ResourceType) {
	budget := r.p.maxGuesses()
	for _, prefix := range GuessPrefixes[t] {
		for _, name := range GuessNames[t] {
			for _, ext := range GuessExtensions[t] {
				if budget == 0 || r.sufficient(t) || ctx.Err() != nil {
					return
				}
				budget--
				r.fetch(ctx, root+prefix+name+ext, t, "guess")
			}
		}
	}
}

// sitemapMining fetches stylesheet and script URLs listed in the site's
// sitemaps. Only URLs on the page's own site are considered.
func sitemapMining(ctx context.Context, r *run) {
	if r.p.Sitemaps == nil {
		return
	}
	urls, err := r.p.Sitemaps.DiscoverURLs(ctx, r.siteRoot(), pagegrade.ResourceFilter)
	if err != nil {
		r.logger.Debug("sitemap discovery failed", "error", err)
		return
	}

	var refs []pagegrade.Reference
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || !pagegrade.SameSite(u.Hostname(), r.site.Hostname()) {
			continue
		}
		refs = append(refs, pagegrade.Reference{Raw: raw, Type: pagegrade.TypeFromPath(raw), Source: "sitemap"})
	}
	fetchGated(ctx, r, refs)
}
