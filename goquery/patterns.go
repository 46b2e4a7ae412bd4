package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/scddb"
)

// Shared patterns. Numbers are always captured by the first group.
var (
	barsPattern       = regexp.MustCompile(`(?i)(\d+)\s*bars?`)
	leadBarsPattern   = regexp.MustCompile(`(?i)(\d+)\s*bars`)
	couplesPattern    = regexp.MustCompile(`(?i)(\d+)\s+couples?`)
	formationPattern  = regexp.MustCompile(`(?i)(Longwise|Square|Triangular|Circular)\s*[-–—]\s*(\d+)`)
	meterPattern      = regexp.MustCompile(`(\d+/\d+[A-Z]*)`)
	barsCodePattern   = regexp.MustCompile(`([A-Z]\d+)`)
	progressionRegexp = regexp.MustCompile(`Progression:\s*(\d+)`)
	yearPattern       = regexp.MustCompile(`\((\d{4})\)`)
	intensityPattern  = regexp.MustCompile(`(\d+%)`)
	numberPattern     = regexp.MustCompile(`(\d+)`)
	imageExtPattern   = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|webp)`)
)

// repetitionPatterns are tried in order; the first match wins.
var repetitionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Usual number of repetitions:\s*(\d+)`),
	regexp.MustCompile(`(?i)repetitions:\s*(\d+)`),
	regexp.MustCompile(`(?i)·\s*(\d+)\s*reps?`),
	regexp.MustCompile(`(?i)\((\d+)\s*reps?\)`),
}

// formations maps the formation keyword to the canonical set name, in the
// order keywords are tried.
var formations = []struct {
	keyword string
	name    string
}{
	{"Longwise", scddb.LongwiseSet},
	{"Square", scddb.SquareSet},
	{"Triangular", scddb.TriangularSet},
	{"Circular", scddb.CircularSet},
}

// A rule extracts a value from text and reports whether it matched.
type rule[T any] func(text string) (T, bool)

// firstMatch applies rules in order and returns the first match.
func firstMatch[T any](text string, rules ...rule[T]) (T, bool) {
	for _, r := range rules {
		if v, ok := r(text); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// firstOf runs strategies in order and returns the first value found, or
// def when none applies. Each strategy reads the field from one source and
// reports whether the source had it.
func firstOf[T any](def T, strategies ...func() (T, bool)) T {
	for _, s := range strategies {
		if v, ok := s(); ok {
			return v
		}
	}
	return def
}

// captured returns the first capture group of re.
func captured(re *regexp.Regexp) rule[string] {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// positive returns the first capture group of re as a positive integer.
func positive(re *regexp.Regexp) rule[int] {
	return func(text string) (int, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
}

// vocabulary returns the first word of words that occurs literally in text.
func vocabulary(words []string) rule[string] {
	return func(text string) (string, bool) {
		for _, w := range words {
			if strings.Contains(text, w) {
				return w, true
			}
		}
		return "", false
	}
}

// formationName returns the canonical set name for the first formation
// keyword found in text, ignoring case.
func formationName(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, f := range formations {
		if strings.Contains(lower, strings.ToLower(f.keyword)) {
			return f.name, true
		}
	}
	return "", false
}

// formationWithFormat matches "Longwise - 4" style pairs.
func formationWithFormat(text string) (name string, format int, ok bool) {
	m := formationPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}
	name, ok = formationName(m[1])
	if !ok {
		return "", 0, false
	}
	format, err := strconv.Atoi(m[2])
	if err != nil || format <= 0 {
		return name, 0, true
	}
	return name, format, true
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
