package mock

import (
	"context"

	"github.com/fwojciec/scddb"
)

var _ scddb.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of scddb.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *scddb.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *scddb.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
