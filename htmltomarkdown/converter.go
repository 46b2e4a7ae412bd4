// Package htmltomarkdown renders crib HTML fragments as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/scddb"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Converter implements scddb.Converter at compile time.
var _ scddb.Converter = (*Converter)(nil)

// Converter sanitizes an HTML fragment and converts it to Markdown.
// Scripts, event handlers and other active content are removed before
// conversion, so fragments scraped from third-party pages are safe to keep.
type Converter struct {
	policy *bluemonday.Policy
	conv   *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{
		policy: bluemonday.UGCPolicy(),
		conv:   conv,
	}
}

// Convert transforms an HTML fragment into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", scddb.Errorf(scddb.EINVALID, "empty HTML input")
	}

	clean := c.policy.Sanitize(html)
	result, err := c.conv.ConvertString(clean)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}
