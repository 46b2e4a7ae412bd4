package goquery_test

import (
	"testing"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	const listPage = `<html><body>
<h1>Dances devised by Hugh Foss</h1>
<ul>
<li><a href="/dd/dance/1234/">The Celtic Brooch</a></li>
<li><a href="https://my.strathspey.org/dd/dance/77/#crib">John McAlpin</a></li>
<li><a href="/dd/dance/1234/">The Celtic Brooch (again)</a></li>
<li><a href="/dd/person/9/">Hugh Foss</a></li>
<li><a href="https://other.example.org/dd/dance/5/">Elsewhere</a></li>
<li><a href="mailto:info@strathspey.org">Contact</a></li>
<li><a href="#top">Top</a></li>
</ul>
</body></html>`
	const pageURL = "https://my.strathspey.org/dd/person/9/dances/"

	t.Run("keeps dance pages on the same host in order", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.ExtractLinks(listPage, pageURL, scddb.DanceURLFilter())

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://my.strathspey.org/dd/dance/1234/",
			"https://my.strathspey.org/dd/dance/77/",
		}, links)
	})

	t.Run("nil filter keeps every same-host link", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.ExtractLinks(listPage, pageURL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://my.strathspey.org/dd/dance/1234/",
			"https://my.strathspey.org/dd/dance/77/",
			"https://my.strathspey.org/dd/person/9/",
		}, links)
	})

	t.Run("returns empty slice for page without links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.ExtractLinks("<p>no links</p>", pageURL, nil)

		require.NoError(t, err)
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})

	t.Run("rejects relative page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.ExtractLinks(listPage, "/dd/person/9/", nil)

		assert.Equal(t, scddb.EINVALID, scddb.ErrorCode(err))
	})
}
