package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scddb"
)

// DefaultBaseURL is the origin relative image references are joined to.
const DefaultBaseURL = "https://my.strathspey.org"

// Ensure Parser implements scddb.Parser at compile time.
var _ scddb.Parser = (*Parser)(nil)

// Parser extracts dance records from dance pages.
// It holds no per-page state and is safe for concurrent use.
type Parser struct {
	baseURL   string
	converter scddb.Converter
}

// Option configures a Parser.
type Option func(*Parser)

// WithBaseURL sets the site origin used to resolve relative image URLs.
func WithBaseURL(u string) Option {
	return func(p *Parser) {
		p.baseURL = u
	}
}

// WithConverter enables the markdown rendering of the extended crib.
func WithConverter(c scddb.Converter) Option {
	return func(p *Parser) {
		p.converter = c
	}
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a dance from html. The summary line is read first and its
// facts take precedence over each field's own fallbacks. Parse always
// returns a record; fields the page does not provide get their defaults.
func (p *Parser) Parse(html, sourceURL string) *scddb.Dance {
	doc := NewDocument(html)
	line := parseMainInfo(doc)
	f := newFields(doc)

	d := &scddb.Dance{
		Name:             firstOf(scddb.UnknownName, f.name),
		DanceType:        firstOf("", given(line.danceType), f.danceType),
		Meter:            firstOf("", given(line.meter), f.meter),
		BarsCode:         firstOf("", f.barsCode),
		BarsCount:        firstOf(scddb.DefaultBarsCount, given(line.barsCount), f.leadBarsCount, f.barsCodeCount),
		Repetitions:      firstOf(scddb.DefaultRepetitions, given(line.repetitions), f.repetitions),
		Formation:        firstOf(scddb.DefaultFormation, given(line.formation), f.formation),
		CouplesCount:     firstOf(scddb.DefaultCouplesCount, given(line.couplesCount), f.couplesCount),
		Progression:      firstOf("", f.leadProgression, f.progression),
		Author:           firstOf("", f.author),
		Year:             firstOf(0, f.year),
		Steps:            f.steps(),
		PublishedIn:      f.publishedIn(),
		RecommendedMusic: f.recommendedMusic(),
		FormationsList:   f.formationsList(),
		Figures:          extractFigures(doc),
		ExtraInfo:        firstOf("", f.extraInfoFragments, f.extraInfoTab, f.extraInfoDefinition),
		Intensity:        firstOf("", f.intensity),
		Images:           newImageExtractor(p.baseURL, sourceURL).extract(doc),
		SourceURL:        firstOf("", f.canonicalURL, f.openGraphURL, given(sourceURL)),
	}
	d.SetFormat = firstOf(d.CouplesCount, given(line.setFormat))

	descriptions := &descriptionResolver{doc: doc, name: d.Name}
	d.Description = firstOf("", descriptions.resolve)
	d.Crib = p.renderCrib(descriptions.extendedCrib())
	return d
}

// renderCrib converts the extended crib to markdown. Conversion problems
// leave the crib empty.
func (p *Parser) renderCrib(sel *goquery.Selection) string {
	if p.converter == nil || sel.Length() == 0 {
		return ""
	}
	fragment, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	md, err := p.converter.Convert(fragment)
	if err != nil {
		return ""
	}
	return md
}
