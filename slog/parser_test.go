package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/mock"
	scddbslog "github.com/fwojciec/scddb/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs record summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		want := &scddb.Dance{
			Name: "The Montgomeries' Rant", DanceType: "Reel", Author: "Castle Menzies",
			Description: "1-8 1s cross", BarsCount: 32, Repetitions: 8,
			Formation: scddb.LongwiseSet, CouplesCount: 3, SetFormat: 4,
			Figures: []scddb.Figure{{BarsLabel: "1-8", Text: "x"}},
		}
		inner := &mock.Parser{
			ParseFn: func(html, sourceURL string) *scddb.Dance { return want },
		}

		got := scddbslog.NewLoggingParser(inner, logger).Parse("<html></html>", "https://my.strathspey.org/dd/dance/1/")

		assert.Same(t, want, got)
		output := buf.String()
		assert.Contains(t, output, "msg=parse")
		assert.Contains(t, output, "size=8×32")
		assert.Contains(t, output, "set=4")
		assert.Contains(t, output, "figures=1")
		assert.NotContains(t, output, "parse incomplete")
	})

	t.Run("warns about missing fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(html, sourceURL string) *scddb.Dance {
				return &scddb.Dance{Name: scddb.UnknownName, Author: "Someone"}
			},
		}

		scddbslog.NewLoggingParser(inner, logger).Parse("", "")

		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "problem=\"dance name not found\"")
		assert.Contains(t, output, "problem=\"description not found\"")
		assert.NotContains(t, output, "author not found")
	})
}
