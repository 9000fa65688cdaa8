package discover

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/bloom"
)

// aggregate is the growing bucket for one resource type.
type aggregate struct {
	content strings.Builder
	files   int
	bytes   int
}

func (a *aggregate) bucket() pagegrade.Bucket {
	return pagegrade.Bucket{
		Content:   a.content.String(),
		FileCount: a.files,
		ByteCount: a.bytes,
	}
}

// run holds the state of one Discover call. Phases run sequentially on one
// goroutine; processed is the only state with its own synchronization.
type run struct {
	p         *Pipeline
	html      string
	markup    *pagegrade.Markup
	pageURL   string
	baseURL   string // reference base: <base href> if present, else pageURL
	site      *url.URL
	processed *bloom.Set
	css       aggregate
	js        aggregate
	attempts  int
	logger    *slog.Logger
}

func (r *run) agg(t pagegrade.ResourceType) *aggregate {
	if t == pagegrade.ResourceCSS {
		return &r.css
	}
	return &r.js
}

func (r *run) sufficient(t pagegrade.ResourceType) bool {
	a := r.agg(t)
	return r.p.threshold().Sufficient(a.files, a.bytes)
}

// done reports whether both types satisfy the threshold.
func (r *run) done() bool {
	return r.sufficient(pagegrade.ResourceCSS) && r.sufficient(pagegrade.ResourceJS)
}

// siteRoot returns the scheme and host of the page with path "/".
func (r *run) siteRoot() string {
	return r.site.Scheme + "://" + r.site.Host + "/"
}

// appendInline adds content that came from the page itself. Inline content
// does not count as a file and does not move the byte counter.
func (r *run) appendInline(t pagegrade.ResourceType, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	a := r.agg(t)
	a.content.WriteString(content)
	a.content.WriteByte('\n')
}

// record adds a successfully fetched resource.
func (r *run) record(t pagegrade.ResourceType, content string) {
	a := r.agg(t)
	a.content.WriteString(content)
	a.content.WriteByte('\n')
	a.files++
	a.bytes += len(content)
}

// resolve turns a raw reference into an absolute URL against the page base.
func (r *run) resolve(raw string) (string, bool) {
	return pagegrade.ResolveURL(raw, r.baseURL)
}

// fetchRef resolves and fetches a reference of a known type.
func (r *run) fetchRef(ctx context.Context, ref pagegrade.Reference) bool {
	u, ok := r.resolve(ref.Raw)
	if !ok {
		r.logger.Debug("unresolvable reference", "ref", ref.Raw, "source", ref.Source)
		return false
	}
	return r.fetch(ctx, u, ref.Type, ref.Source)
}

// fetch marks u as processed and requests it. A URL already in the
// processed set is skipped without a network call, whatever the outcome of
// the earlier attempt. Blocked hosts are never requested.
func (r *run) fetch(ctx context.Context, u string, t pagegrade.ResourceType, source string) bool {
	if IsBlocked(u) {
		r.logger.Debug("blocked resource", "url", u, "source", source)
		return false
	}
	if !r.processed.Add(u) {
		return false
	}

	r.attempts++
	res := r.p.Fetcher.FetchResource(ctx, u, t)
	if !res.OK {
		r.logger.Debug("resource fetch failed", "url", u, "type", string(t), "source", source, "reason", res.Reason)
		return false
	}

	r.record(t, res.Content)
	r.logger.Debug("resource collected", "url", u, "type", string(t), "source", source, "bytes", len(res.Content))
	return true
}

// verify asks the prober for the type of an ambiguous URL. Returns
// ResourceUnknown when there is no prober, the probe fails, or the
// content type is neither CSS nor JavaScript.
func (r *run) verify(ctx context.Context, u string) pagegrade.ResourceType {
	if r.p.Prober == nil || IsBlocked(u) || r.processed.Has(u) {
		return pagegrade.ResourceUnknown
	}
	ct, err := r.p.Prober.Probe(ctx, u)
	if err != nil {
		r.logger.Debug("type probe failed", "url", u, "error", err)
		return pagegrade.ResourceUnknown
	}
	return pagegrade.TypeFromContentType(ct)
}

func (r *run) resources() *pagegrade.Resources {
	return &pagegrade.Resources{
		CSS: r.css.bucket(),
		JS:  r.js.bucket(),
	}
}
