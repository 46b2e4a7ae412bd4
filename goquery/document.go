package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document wraps one parsed HTML page and exposes the read-only queries the
// extractors need. Queries that find nothing return an empty selection.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses html. Parsing is lenient; input that cannot be parsed
// at all yields an empty document rather than an error.
func NewDocument(src string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{doc: doc}
}

// Find returns all elements matching a CSS selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// FindByID returns the element with the given id attribute.
func (d *Document) FindByID(id string) *goquery.Selection {
	return d.doc.Find(`[id="` + id + `"]`).First()
}

// FindFirstByClass returns the first element carrying class. An empty tag
// matches any element.
func (d *Document) FindFirstByClass(tag, class string) *goquery.Selection {
	return d.doc.Find(tag + "." + class).First()
}

// FindAllByClass returns every element carrying class, in document order.
func (d *Document) FindAllByClass(class string) *goquery.Selection {
	return d.doc.Find("." + class)
}

// Text returns the text nodes below sel joined by sep. Script and style
// content is skipped.
func Text(sel *goquery.Selection, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}

// TrimmedText returns the text of sel with surrounding whitespace removed.
func TrimmedText(sel *goquery.Selection) string {
	return strings.TrimSpace(Text(sel, ""))
}

// FirstBlockAfter returns the next sibling div or p of sel.
func FirstBlockAfter(sel *goquery.Selection) *goquery.Selection {
	return sel.First().NextAllFiltered("div, p").First()
}

// FollowingElement returns the first tag element that comes after sel in
// document order, outside of sel itself.
func (d *Document) FollowingElement(sel *goquery.Selection, tag string) *goquery.Selection {
	if sel.Length() == 0 {
		return sel
	}
	target := sel.Get(0)
	passed := false
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n == target {
			passed = true
			return false
		}
		if passed && n.Type == html.ElementNode && n.Data == tag {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, root := range d.doc.Nodes {
		if walk(root) {
			break
		}
	}
	if found == nil {
		return d.Empty()
	}
	return d.doc.FindNodes(found)
}

// Empty returns a selection of no nodes bound to the document.
func (d *Document) Empty() *goquery.Selection {
	return d.doc.FindNodes()
}

// Definition is one label/value pair of a definition list.
type Definition struct {
	Label string
	Value *goquery.Selection
}

// Definitions returns the dt/dd pairs of the page in document order.
// The figure list (dl.dance) is not a definition list and is skipped, as
// are labels without a value.
func (d *Document) Definitions() Definitions {
	var defs Definitions
	d.doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		if dt.ParentFiltered("dl.dance").Length() > 0 {
			return
		}
		dd := dt.NextAllFiltered("dd").First()
		if dd.Length() == 0 {
			return
		}
		label := strings.TrimSuffix(TrimmedText(dt), ":")
		defs = append(defs, Definition{Label: strings.TrimSpace(label), Value: dd})
	})
	return defs
}

// Definitions is an ordered list of label/value pairs.
type Definitions []Definition

// Lookup returns the value of the first definition whose label equals
// label, ignoring case.
func (defs Definitions) Lookup(label string) (*goquery.Selection, bool) {
	for _, def := range defs {
		if strings.EqualFold(def.Label, label) {
			return def.Value, true
		}
	}
	return nil, false
}

// LookupAll returns the values of every definition labelled label.
func (defs Definitions) LookupAll(label string) []*goquery.Selection {
	var values []*goquery.Selection
	for _, def := range defs {
		if strings.EqualFold(def.Label, label) {
			values = append(values, def.Value)
		}
	}
	return values
}

// LookupContaining returns the value of the first definition whose label
// contains substr, ignoring case.
func (defs Definitions) LookupContaining(substr string) (*goquery.Selection, bool) {
	substr = strings.ToLower(substr)
	for _, def := range defs {
		if strings.Contains(strings.ToLower(def.Label), substr) {
			return def.Value, true
		}
	}
	return nil, false
}
