package goquery

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scddb"
)

// maxInfoLineLen bounds the length of a free-standing info line candidate.
const maxInfoLineLen = 200

var (
	// headingTriggers mark the block after the title as the info line.
	headingTriggers = []string{"bars", "couples", "Longwise", "Square", "Reel", "Jig"}
	// lineTriggers mark any short element as the info line.
	lineTriggers = []string{"bars", "couples", "Longwise", "Square", "repetitions"}
)

// mainInfo holds the facts read from the page's summary line, such as
// "Reel · 32 bars · 3 couples · Longwise - 4". Zero values mean the line
// did not state the fact.
type mainInfo struct {
	text         string
	danceType    string
	meter        string
	barsCount    int
	couplesCount int
	repetitions  int
	formation    string
	setFormat    int
}

// infoLineLocators find the summary line; the first one that matches wins.
var infoLineLocators = []func(*Document) (string, bool){
	leadInfoLine,
	headingInfoLine,
	shortInfoLine,
}

func leadInfoLine(d *Document) (string, bool) {
	lead := d.FindFirstByClass("", "lead")
	if lead.Length() == 0 {
		return "", false
	}
	return TrimmedText(lead), true
}

func headingInfoLine(d *Document) (string, bool) {
	h1 := d.Find("h1").First()
	if h1.Length() == 0 {
		return "", false
	}
	next := FirstBlockAfter(h1)
	if next.Length() == 0 {
		return "", false
	}
	text := TrimmedText(next)
	return text, containsAny(text, headingTriggers...)
}

func shortInfoLine(d *Document) (string, bool) {
	var line string
	var found bool
	d.Find("div, p, span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := TrimmedText(sel)
		if utf8.RuneCountInString(text) < maxInfoLineLen && containsAny(text, lineTriggers...) {
			line, found = text, true
			return false
		}
		return true
	})
	return line, found
}

// parseMainInfo locates the summary line and reads every fact it states.
func parseMainInfo(d *Document) mainInfo {
	var text string
	var found bool
	for _, locate := range infoLineLocators {
		if text, found = locate(d); found {
			break
		}
	}
	if !found {
		return mainInfo{}
	}
	return analyzeInfoLine(text)
}

// analyzeInfoLine applies the independent field rules to one summary line.
func analyzeInfoLine(text string) mainInfo {
	info := mainInfo{text: text}
	info.danceType, _ = vocabulary(scddb.DanceTypes)(text)
	info.meter, _ = captured(meterPattern)(text)
	info.barsCount, _ = positive(barsPattern)(text)
	info.couplesCount, _ = positive(couplesPattern)(text)
	info.repetitions, _ = firstMatch(text, repetitionRules()...)

	if name, format, ok := formationWithFormat(text); ok {
		info.formation, info.setFormat = name, format
	} else {
		info.formation, _ = formationName(text)
	}

	// A formation without an explicit set size takes the couple count.
	if info.formation != "" && info.setFormat == 0 {
		info.setFormat = info.couplesCount
	}
	// The set is never smaller than the couples needed to dance it.
	if info.setFormat > 0 && info.setFormat < info.couplesCount {
		info.setFormat = info.couplesCount
	}
	return info
}

func repetitionRules() []rule[int] {
	rules := make([]rule[int], len(repetitionPatterns))
	for i, re := range repetitionPatterns {
		rules[i] = positive(re)
	}
	return rules
}
