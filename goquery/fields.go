package goquery

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scddb"
)

// Definition labels used by the fallback extractors.
const (
	labelDance       = "Dance"
	labelMeter       = "Meter"
	labelFormation   = "Formation"
	labelCouples     = "Couples"
	labelRepetitions = "repetitions"
	labelProgression = "Progression"
	labelDevisedBy   = "Devised by"
	labelSteps       = "Steps"
	labelPublishedIn = "Published in"
	labelMusic       = "Recommended Music"
	labelIntensity   = "Intensity"
	labelFormations  = "Formations"
	labelExtraInfo   = "Extra Info"
)

// fields gives the fallback extractors access to the page and its
// definition list.
type fields struct {
	doc  *Document
	defs Definitions
	// lead is the text of the first paragraph after the title heading.
	lead string
}

func newFields(doc *Document) *fields {
	f := &fields{doc: doc, defs: doc.Definitions()}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		f.lead = Text(doc.FollowingElement(h1, "p"), "")
	}
	return f
}

func (f *fields) name() (string, bool) {
	for _, sel := range []string{"span#title", "#title"} {
		if name := TrimmedText(f.doc.Find(sel).First()); name != "" {
			return name, true
		}
	}
	return "", false
}

func (f *fields) danceType() (string, bool) {
	dd, ok := f.defs.Lookup(labelDance)
	if !ok {
		return "", false
	}
	return vocabulary(scddb.DanceTypes)(TrimmedText(dd))
}

func (f *fields) meter() (string, bool) {
	dd, ok := f.defs.Lookup(labelMeter)
	if !ok {
		return "", false
	}
	text := TrimmedText(dd)
	if m, ok := captured(meterPattern)(text); ok {
		return m, true
	}
	return text, text != ""
}

func (f *fields) barsCode() (string, bool) {
	return captured(barsCodePattern)(f.lead)
}

func (f *fields) leadBarsCount() (int, bool) {
	return positive(leadBarsPattern)(f.lead)
}

func (f *fields) barsCodeCount() (int, bool) {
	code, ok := f.barsCode()
	if !ok {
		return 0, false
	}
	return positive(numberPattern)(code)
}

func (f *fields) formation() (string, bool) {
	dd, ok := f.defs.Lookup(labelFormation)
	if !ok {
		return "", false
	}
	return formationName(TrimmedText(dd))
}

func (f *fields) couplesCount() (int, bool) {
	dd, ok := f.defs.Lookup(labelCouples)
	if !ok {
		return 0, false
	}
	return positive(numberPattern)(TrimmedText(dd))
}

func (f *fields) repetitions() (int, bool) {
	dd, ok := f.defs.LookupContaining(labelRepetitions)
	if !ok {
		return 0, false
	}
	return positive(numberPattern)(TrimmedText(dd))
}

func (f *fields) leadProgression() (string, bool) {
	return captured(progressionRegexp)(f.lead)
}

func (f *fields) progression() (string, bool) {
	dd, ok := f.defs.Lookup(labelProgression)
	if !ok {
		return "", false
	}
	text := TrimmedText(dd)
	return text, text != ""
}

func (f *fields) author() (string, bool) {
	dd, ok := f.defs.Lookup(labelDevisedBy)
	if !ok {
		return "", false
	}
	if link := dd.Find("a").First(); link.Length() > 0 {
		if name := TrimmedText(link); name != "" {
			return name, true
		}
	}
	name := strings.TrimSpace(yearPattern.ReplaceAllString(TrimmedText(dd), ""))
	return name, name != ""
}

func (f *fields) year() (int, bool) {
	dd, ok := f.defs.Lookup(labelDevisedBy)
	if !ok {
		return 0, false
	}
	m := yearPattern.FindStringSubmatch(Text(dd, ""))
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	return year, err == nil
}

func (f *fields) steps() []string {
	dd, ok := f.defs.Lookup(labelSteps)
	if !ok {
		return nil
	}
	var steps []string
	for _, step := range strings.Split(TrimmedText(dd), ",") {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}
	return steps
}

func (f *fields) publishedIn() []string {
	return linkTexts(f.defs.LookupAll(labelPublishedIn), false)
}

func (f *fields) recommendedMusic() []string {
	return linkTexts(f.defs.LookupAll(labelMusic), false)
}

func (f *fields) formationsList() []string {
	return linkTexts(f.defs.LookupAll(labelFormations), true)
}

func (f *fields) intensity() (string, bool) {
	dd, ok := f.defs.Lookup(labelIntensity)
	if !ok {
		return "", false
	}
	text := TrimmedText(dd)
	if m, ok := captured(intensityPattern)(text); ok {
		return m, true
	}
	return text, text != ""
}

// Minimum lengths of extra info fragments and of a whole extra info tab.
const (
	minExtraInfoFragment = 5
	minExtraInfoTab      = 10
)

func (f *fields) extraInfoFragments() (string, bool) {
	tab := f.doc.FindByID("extrainfo")
	if tab.Length() == 0 {
		return "", false
	}
	var b strings.Builder
	tab.Find("p, div, span").Each(func(_ int, sel *goquery.Selection) {
		text := TrimmedText(sel)
		if utf8.RuneCountInString(text) <= minExtraInfoFragment || strings.Contains(b.String(), text) {
			return
		}
		b.WriteString(text + "\n\n")
	})
	info := strings.TrimSpace(b.String())
	return info, info != ""
}

func (f *fields) extraInfoTab() (string, bool) {
	tab := f.doc.FindByID("extrainfo")
	if tab.Length() == 0 {
		return "", false
	}
	text := TrimmedText(tab)
	return text, utf8.RuneCountInString(text) > minExtraInfoTab
}

func (f *fields) extraInfoDefinition() (string, bool) {
	var info string
	var found bool
	f.doc.Find("dl.row dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.Contains(Text(dt, ""), labelExtraInfo) {
			return true
		}
		dd := dt.NextAllFiltered("dd").First()
		if dd.Length() == 0 {
			return true
		}
		info, found = TrimmedText(dd), true
		return false
	})
	return info, found
}

func (f *fields) canonicalURL() (string, bool) {
	href := strings.TrimSpace(f.doc.Find(`link[rel="canonical"]`).First().AttrOr("href", ""))
	return href, href != ""
}

func (f *fields) openGraphURL() (string, bool) {
	content := strings.TrimSpace(f.doc.Find(`meta[property="og:url"]`).First().AttrOr("content", ""))
	return content, content != ""
}

// linkTexts collects the trimmed text of every link inside values.
func linkTexts(values []*goquery.Selection, unique bool) []string {
	var texts []string
	for _, dd := range values {
		dd.Find("a").Each(func(_ int, a *goquery.Selection) {
			text := TrimmedText(a)
			if text == "" || unique && slices.Contains(texts, text) {
				return
			}
			texts = append(texts, text)
		})
	}
	return texts
}

// given wraps a value that is known when it is not the zero value.
func given[T comparable](v T) func() (T, bool) {
	return func() (T, bool) {
		var zero T
		return v, v != zero
	}
}
