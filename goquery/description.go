package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scddb"
)

// Candidate locations of the two crib styles, in order of preference.
var (
	miniCribSelectors     = []string{"#cribs div.minicribs", "#cribs p.minicribs", ".minicribs"}
	extendedCribSelectors = []string{"#cribs div.cribtext", "#cribs div.cribs", "div.cribtext"}
)

// Bounds of an element picked up by the bar marker search, in characters.
const (
	minMarkedTextLen = 20
	maxMarkedTextLen = 500
)

// barMarkers identify text that describes a dance bar by bar.
var barMarkers = []string{"1-8", "1–8", "1—8", "9-16", "1.", "2.", "Bars"}

// Normalization limits.
const (
	minTitleLineLen   = 30
	minDescriptionLen = 10
)

// chromeLines are page furniture that can end up inside a crib block.
var chromeLines = []string{"MiniCribs", "Mini Crib", "[-]", "Submit Comment"}

var (
	// barCodePattern matches dance codes such as "R32" on "2/4L · R32" lines.
	barCodePattern = regexp.MustCompile(`\b[A-Z]\d{2,3}\b`)
	// barTokenStart matches a line that opens with a bar reference.
	barTokenStart = regexp.MustCompile(`^(\d+\s*[-–—.)]|Bars \d+)`)
	// barTokenBreaks rewrite a line break after a bar reference into two spaces.
	barTokenBreaks = []*regexp.Regexp{
		regexp.MustCompile(`(\d+-\d+)\s*\n\s*`),
		regexp.MustCompile(`(\d+-)\s*\n\s*`),
		regexp.MustCompile(`(\d+\.)\s*\n\s*`),
		regexp.MustCompile(`(\d+\))\s*\n\s*`),
		regexp.MustCompile(`(Bars \d+-\d+)\s*\n\s*`),
	}
	blankLines      = regexp.MustCompile(`\n\s*\n`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
)

// descriptionResolver picks the best description on a page.
type descriptionResolver struct {
	doc *Document
	// name is the dance name; a first line containing it is a title.
	name string
}

// resolve returns the normalized description, trying the mini crib, then the
// extended crib, then any element that reads like a bar-by-bar description.
func (r *descriptionResolver) resolve() (string, bool) {
	for _, selectors := range [][]string{miniCribSelectors, extendedCribSelectors} {
		if text, ok := r.fromSelectors(selectors); ok {
			return text, true
		}
	}
	return r.fromMarkers()
}

// extendedCrib returns the first extended crib element.
func (r *descriptionResolver) extendedCrib() *goquery.Selection {
	for _, selector := range extendedCribSelectors {
		if sel := r.doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return r.doc.Empty()
}

func (r *descriptionResolver) fromSelectors(selectors []string) (string, bool) {
	for _, selector := range selectors {
		var text string
		var found bool
		r.doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text, found = r.normalize(Text(sel, ""))
			return !found
		})
		if found {
			return text, true
		}
	}
	return "", false
}

func (r *descriptionResolver) fromMarkers() (string, bool) {
	var text string
	var found bool
	r.doc.Find("div, p, span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := TrimmedText(sel)
		n := utf8.RuneCountInString(raw)
		if n <= minMarkedTextLen || n >= maxMarkedTextLen || !containsAny(raw, barMarkers...) {
			return true
		}
		text, found = r.normalize(raw)
		return !found
	})
	return text, found
}

// normalize cleans crib text. It reports false when too little text is
// left to count as a description.
func (r *descriptionResolver) normalize(text string) (string, bool) {
	var lines []string
	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i == 0 && r.isTitle(line) {
			continue
		}
		if isChrome(line) {
			continue
		}
		lines = append(lines, line)
	}

	text = strings.Join(lines, "\n")
	for _, re := range barTokenBreaks {
		text = re.ReplaceAllString(text, "${1}  ")
	}
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) < minDescriptionLen {
		return "", false
	}
	return text, true
}

// isTitle reports whether the first line of a crib repeats the dance title
// or subtitle. Lines opening with a bar reference are always content.
func (r *descriptionResolver) isTitle(line string) bool {
	if barTokenStart.MatchString(line) {
		return false
	}
	if utf8.RuneCountInString(line) < minTitleLineLen {
		return true
	}
	if r.name != "" && r.name != scddb.UnknownName && strings.Contains(line, r.name) {
		return true
	}
	return containsAny(line, scddb.DanceTypes...)
}

func isChrome(line string) bool {
	for _, c := range chromeLines {
		if line == c {
			return true
		}
	}
	if strings.HasPrefix(line, "http") || strings.Contains(strings.ToLower(line), "comment") {
		return true
	}
	return strings.Contains(line, "·") && barCodePattern.MatchString(line)
}
