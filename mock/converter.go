package mock

import "github.com/fwojciec/scddb"

var _ scddb.Converter = (*Converter)(nil)

// Converter is a mock implementation of scddb.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
