package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements scddb.Converter at compile time.
var _ scddb.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>1s set and cast off one place</p>`)

		require.NoError(t, err)
		assert.Equal(t, "1s set and cast off one place", md)
	})

	t.Run("keeps links", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="https://my.strathspey.org/dd/dance/1/">the original</a>.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[the original](https://my.strathspey.org/dd/dance/1/)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		html := `<ol><li>Set</li><li>Cast</li></ol><ul><li>Reel of three</li></ul>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "1. Set")
		assert.Contains(t, md, "2. Cast")
		assert.Contains(t, md, "- Reel of three")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		html := `<p><strong>1-8</strong> 1s <em>turn</em> RH</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "**1-8**")
		assert.Contains(t, md, "*turn*")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Bars</th><th>Figure</th></tr></thead>
<tbody><tr><td>1-8</td><td>Set and cast</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Bars")
		assert.Contains(t, md, "Set and cast")
		assert.Contains(t, md, "|")
	})

	t.Run("keeps figure list text", func(t *testing.T) {
		t.Parallel()

		html := `<div class="cribtext"><dl class="dance"><dt>1-8</dt><dd>1s set</dd><dt>9-16</dt><dd>Reels</dd></dl></div>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "1-8")
		assert.Contains(t, md, "1s set")
		assert.Contains(t, md, "9-16")
	})

	t.Run("removes scripts and event handlers", func(t *testing.T) {
		t.Parallel()

		html := `<p onclick="steal()">Advance and retire</p><script>alert("x")</script>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Advance and retire")
		assert.NotContains(t, md, "alert")
		assert.NotContains(t, md, "steal")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("  ")

		require.Error(t, err)
		assert.Equal(t, scddb.EINVALID, scddb.ErrorCode(err))
	})
}
