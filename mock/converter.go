package mock

import "github.com/fwojciec/briefly"

var _ briefly.Converter = (*Converter)(nil)

// Converter is a mock implementation of briefly.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
