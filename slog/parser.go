package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/scddb"
)

var _ scddb.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser and logs a summary of every record along
// with anything that looks incomplete.
type LoggingParser struct {
	next   scddb.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next scddb.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser.
func (p *LoggingParser) Parse(html, sourceURL string) *scddb.Dance {
	begin := time.Now()
	d := p.next.Parse(html, sourceURL)

	p.logger.Info("parse",
		"url", sourceURL,
		"name", d.Name,
		"type", d.DanceType,
		"size", d.Size(),
		"meter", d.Meter,
		"couples", d.CouplesCount,
		"set", d.SetFormat,
		"formation", d.Formation,
		"figures", len(d.Figures),
		"images", len(d.Images),
		"duration", time.Since(begin),
	)
	for _, problem := range d.Problems() {
		p.logger.Warn("parse incomplete", "url", sourceURL, "problem", problem)
	}
	return d
}
