package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/scddb"
	scddbhttp "github.com/fwojciec/scddb/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const danceURLSet = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/dance/1281/</loc></url>
  <url><loc>{{BASE}}/person/77/</loc></url>
  <url><loc>{{BASE}}/dance/42/</loc></url>
</urlset>`

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemaps listed in robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt":  "User-agent: *\nDisallow: /admin/\nSITEMAP: {{BASE}}/dances.xml\n",
			"/dances.xml":  danceURLSet,
			"/sitemap.xml": `<urlset><url><loc>{{BASE}}/ignored/</loc></url></urlset>`,
		})
		defer srv.Close()

		svc := scddbhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/dance/1281/",
			srv.URL + "/person/77/",
			srv.URL + "/dance/42/",
		}, urls)
	})

	t.Run("falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": danceURLSet,
		})
		defer srv.Close()

		svc := scddbhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/dance/list/", nil)

		require.NoError(t, err)
		assert.Len(t, urls, 3)
	})

	t.Run("follows nested sitemap indexes once", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap-dances.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-more.xml</loc></sitemap>
</sitemapindex>`,
			"/sitemap-dances.xml": danceURLSet,
			"/sitemap-more.xml": `<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap-dances.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-extra.xml</loc></sitemap>
</sitemapindex>`,
			"/sitemap-extra.xml": `<urlset>
  <url><loc>{{BASE}}/dance/42/</loc></url>
  <url><loc>{{BASE}}/dance/7/</loc></url>
</urlset>`,
		})
		defer srv.Close()

		svc := scddbhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/dance/1281/",
			srv.URL + "/person/77/",
			srv.URL + "/dance/42/",
			srv.URL + "/dance/7/",
		}, urls)
	})

	t.Run("keeps dance pages with the dance filter", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": danceURLSet,
		})
		defer srv.Close()

		svc := scddbhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, scddb.DanceURLFilter())

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/dance/1281/", srv.URL + "/dance/42/"}, urls)
	})

	t.Run("applies exclude patterns", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": danceURLSet,
		})
		defer srv.Close()

		filter := &scddb.URLFilter{
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/dance/`)},
		}
		svc := scddbhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/person/77/"}, urls)
	})

	t.Run("returns empty slice without sitemaps", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		svc := scddbhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("rejects base URL without host", func(t *testing.T) {
		t.Parallel()

		svc := scddbhttp.NewSitemapService(nil)
		_, err := svc.DiscoverURLs(context.Background(), "dance/1/", nil)

		assert.Equal(t, scddb.EINVALID, scddb.ErrorCode(err))
	})

	t.Run("reports malformed sitemap XML", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": "<urlset><url>",
		})
		defer srv.Close()

		svc := scddbhttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.Error(t, err)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": danceURLSet,
		})
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := scddbhttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}

// newTestServer creates a test HTTP server with the given path->content mapping.
// Content strings may contain {{BASE}} which is replaced with the server URL.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))

	return srv
}
