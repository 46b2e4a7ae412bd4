package scddb

import (
	"fmt"
	"strconv"
	"strings"
)

const extraInfoPreview = 100

// FormatDance formats a dance for display as "Label: value" lines under a
// heading. Empty optional values are left out.
func FormatDance(d *Dance) string {
	var b strings.Builder
	b.WriteString("## " + d.Name + "\n")

	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	line("Type", d.DanceType)
	line("Size", d.Size())
	line("Meter", d.Meter)
	line("Bars", d.BarsCode)
	line("Formation", d.Formation)
	line("Couples", fmt.Sprintf("%d (set of %d)", d.CouplesCount, d.SetFormat))
	line("Progression", d.Progression)
	author := d.Author
	if author != "" && d.Year > 0 {
		author += " (" + strconv.Itoa(d.Year) + ")"
	}
	line("Devised by", author)
	line("Intensity", d.Intensity)
	line("Steps", strings.Join(d.Steps, ", "))
	line("Published in", strings.Join(d.PublishedIn, ", "))
	line("Music", strings.Join(d.RecommendedMusic, ", "))
	line("Formations", strings.Join(d.FormationsList, ", "))
	if len(d.Figures) > 0 {
		line("Figures", strconv.Itoa(len(d.Figures)))
	}
	if len(d.Images) > 0 {
		line("Images", strconv.Itoa(len(d.Images)))
	}
	line("Extra info", preview(d.ExtraInfo, extraInfoPreview))
	line("Source", d.SourceURL)

	if d.Description != "" {
		b.WriteString("\n" + d.Description + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDanceLine formats a dance as a single line for listings.
func FormatDanceLine(d *Dance) string {
	parts := []string{d.Name}
	if d.DanceType != "" {
		parts = append(parts, d.DanceType)
	}
	parts = append(parts, d.Size(), d.Formation)
	if d.Author != "" {
		parts = append(parts, d.Author)
	}
	return d.ID + "  " + strings.Join(parts, " · ")
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
