package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scddb"
)

// extractFigures reads the bar-by-bar figure list of the first extended
// crib. Each dt holds a bar range and the dd after it the movement; a
// range without a movement is dropped.
func extractFigures(d *Document) []scddb.Figure {
	list := d.Find("div.cribtext").First().Find("dl.dance").First()
	if list.Length() == 0 {
		return nil
	}

	var figures []scddb.Figure
	var label string
	list.Children().Each(func(_ int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "dt":
			label = TrimmedText(el)
		case "dd":
			if label == "" {
				return
			}
			figures = append(figures, scddb.Figure{BarsLabel: label, Text: TrimmedText(el)})
			label = ""
		}
	})
	return figures
}
