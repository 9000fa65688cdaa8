package mock

import (
	"context"

	"github.com/fwojciec/pagegrade"
)

var _ pagegrade.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of pagegrade.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *pagegrade.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagegrade.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
