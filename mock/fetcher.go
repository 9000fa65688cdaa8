package mock

import (
	"context"

	"github.com/fwojciec/pagegrade"
)

var (
	_ pagegrade.Fetcher         = (*Fetcher)(nil)
	_ pagegrade.ResourceFetcher = (*ResourceFetcher)(nil)
	_ pagegrade.TypeProber      = (*TypeProber)(nil)
	_ pagegrade.DomainLimiter   = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of pagegrade.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// ResourceFetcher is a mock implementation of pagegrade.ResourceFetcher.
type ResourceFetcher struct {
	FetchResourceFn func(ctx context.Context, url string, want pagegrade.ResourceType) pagegrade.FetchResult
}

func (f *ResourceFetcher) FetchResource(ctx context.Context, url string, want pagegrade.ResourceType) pagegrade.FetchResult {
	return f.FetchResourceFn(ctx, url, want)
}

// TypeProber is a mock implementation of pagegrade.TypeProber.
type TypeProber struct {
	ProbeFn func(ctx context.Context, url string) (string, error)
}

func (p *TypeProber) Probe(ctx context.Context, url string) (string, error) {
	return p.ProbeFn(ctx, url)
}

// DomainLimiter is a mock implementation of pagegrade.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
