package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scddb"
)

// Alt texts given to images that do not carry one.
const (
	defaultImageAlt = "Diagram"
	svgObjectAlt    = "SVG Diagram"
	linkedImageAlt  = "Linked Diagram"
)

// imageKeywords classify an image by its alt text or URL; the first set
// with a match wins.
var imageKeywords = []struct {
	typ      scddb.ImageType
	keywords []string
}{
	{scddb.ImageDiagram, []string{"diagram", "diag"}},
	{scddb.ImageMusic, []string{"music", "sheet"}},
	{scddb.ImageAuthor, []string{"author", "composer"}},
	{scddb.ImageFormation, []string{"formation"}},
}

// imageCandidate is an image reference found in the page before its URL
// is resolved.
type imageCandidate struct {
	ref string
	// alt is the text the page gives the image, possibly empty.
	alt string
	// fallbackAlt is stored when alt is empty.
	fallbackAlt string
}

// imageExtractor collects the images of the cribs section.
type imageExtractor struct {
	base *url.URL
	// scheme is used for protocol-relative references.
	scheme string
}

func newImageExtractor(baseURL, sourceURL string) *imageExtractor {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		base, _ = url.Parse(DefaultBaseURL)
	}
	base = &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}

	scheme := base.Scheme
	if src, err := url.Parse(sourceURL); err == nil && (src.Scheme == "http" || src.Scheme == "https") {
		scheme = src.Scheme
	}
	return &imageExtractor{base: base, scheme: scheme}
}

// extract returns the images of the cribs section in document order,
// deduplicated by absolute URL.
func (x *imageExtractor) extract(d *Document) []scddb.Image {
	cribs := d.FindByID("cribs")
	if cribs.Length() == 0 {
		return nil
	}

	var images []scddb.Image
	seen := make(map[string]bool)
	for _, c := range imageCandidates(cribs) {
		abs, ok := x.resolve(c.ref)
		if !ok || seen[abs] {
			continue
		}
		seen[abs] = true

		alt := c.alt
		if alt == "" {
			alt = c.fallbackAlt
		}
		images = append(images, scddb.Image{
			URL:      abs,
			AltText:  alt,
			Filename: suggestFilename(abs),
			Type:     classifyImage(c.alt, abs),
		})
	}
	return images
}

// imageCandidates gathers img elements, then embedded SVG objects, then
// links to image files.
func imageCandidates(scope *goquery.Selection) []imageCandidate {
	var candidates []imageCandidate
	scope.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		candidates = append(candidates, imageCandidate{
			ref:         img.AttrOr("src", ""),
			alt:         strings.TrimSpace(img.AttrOr("alt", "")),
			fallbackAlt: defaultImageAlt,
		})
	})
	scope.Find(`object[type="image/svg+xml"][data]`).Each(func(_ int, obj *goquery.Selection) {
		candidates = append(candidates, imageCandidate{
			ref:         obj.AttrOr("data", ""),
			fallbackAlt: svgObjectAlt,
		})
	})
	scope.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !imageExtPattern.MatchString(href) {
			return
		}
		candidates = append(candidates, imageCandidate{
			ref:         href,
			alt:         TrimmedText(a),
			fallbackAlt: linkedImageAlt,
		})
	})
	return candidates
}

// resolve makes ref absolute. Absolute http(s) URLs pass through,
// protocol-relative ones get the page scheme and everything else is joined
// to the site origin.
func (x *imageExtractor) resolve(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		if u.Host == "" {
			return "", false
		}
		return u.String(), true
	case u.Scheme != "":
		return "", false
	case strings.HasPrefix(ref, "//"):
		if u.Host == "" {
			return "", false
		}
		u.Scheme = x.scheme
		return u.String(), true
	}
	return x.base.ResolveReference(u).String(), true
}

// classifyImage checks the alt text, then the URL, against the keyword
// sets. Images that match nothing are diagrams.
func classifyImage(alt, imageURL string) scddb.ImageType {
	for _, text := range []string{strings.ToLower(alt), strings.ToLower(imageURL)} {
		if text == "" {
			continue
		}
		for _, set := range imageKeywords {
			if containsAny(text, set.keywords...) {
				return set.typ
			}
		}
	}
	return scddb.ImageDiagram
}

// suggestFilename returns the last path segment of imageURL, or a generic
// diagram name when the segment has no extension.
func suggestFilename(imageURL string) string {
	var name string
	if u, err := url.Parse(imageURL); err == nil {
		name = u.Path[strings.LastIndex(u.Path, "/")+1:]
	}
	if name == "" || name == "." || name == ".." || !strings.Contains(name, ".") {
		if strings.Contains(strings.ToLower(imageURL), "svg") {
			return "diagram.svg"
		}
		return scddb.DefaultImageFilename
	}
	return name
}
