package mock

import "github.com/fwojciec/scddb"

var _ scddb.Parser = (*Parser)(nil)

// Parser is a mock implementation of scddb.Parser.
type Parser struct {
	ParseFn func(html, sourceURL string) *scddb.Dance
}

func (p *Parser) Parse(html, sourceURL string) *scddb.Dance {
	return p.ParseFn(html, sourceURL)
}
