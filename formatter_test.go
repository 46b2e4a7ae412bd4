package scddb_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/scddb"
	"github.com/stretchr/testify/assert"
)

func TestFormatDance(t *testing.T) {
	t.Parallel()

	t.Run("formats populated fields", func(t *testing.T) {
		t.Parallel()

		d := &scddb.Dance{
			Name:         "The Reel of the 51st Division",
			DanceType:    "Reel",
			Meter:        "4/4L",
			BarsCode:     "R32",
			BarsCount:    32,
			Repetitions:  8,
			Formation:    scddb.LongwiseSet,
			CouplesCount: 3,
			SetFormat:    4,
			Author:       "J M Atkinson",
			Year:         1940,
			Steps:        []string{"skip change", "pas de basque"},
			Figures:      []scddb.Figure{{BarsLabel: "1-8", Text: "1s set"}},
			Description:  "1-8 1s set and cast",
		}

		got := scddb.FormatDance(d)

		assert.Equal(t, strings.Join([]string{
			"## The Reel of the 51st Division",
			"Type: Reel",
			"Size: 8×32",
			"Meter: 4/4L",
			"Bars: R32",
			"Formation: Longwise set",
			"Couples: 3 (set of 4)",
			"Devised by: J M Atkinson (1940)",
			"Steps: skip change, pas de basque",
			"Figures: 1",
			"",
			"1-8 1s set and cast",
		}, "\n"), got)
	})

	t.Run("truncates long extra info", func(t *testing.T) {
		t.Parallel()

		d := &scddb.Dance{Name: "X", ExtraInfo: strings.Repeat("a", 150)}

		got := scddb.FormatDance(d)

		assert.Contains(t, got, "Extra info: "+strings.Repeat("a", 100)+"...")
	})

	t.Run("omits year without author", func(t *testing.T) {
		t.Parallel()

		got := scddb.FormatDance(&scddb.Dance{Name: "X", Year: 1990})

		assert.NotContains(t, got, "Devised by")
	})
}

func TestFormatDanceLine(t *testing.T) {
	t.Parallel()

	d := &scddb.Dance{
		ID:          "abc",
		Name:        "Mairi's Wedding",
		DanceType:   "Reel",
		BarsCount:   40,
		Repetitions: 8,
		Formation:   scddb.LongwiseSet,
		Author:      "James B Cosh",
	}

	assert.Equal(t, "abc  Mairi's Wedding · Reel · 8×40 · Longwise set · James B Cosh", scddb.FormatDanceLine(d))
}
