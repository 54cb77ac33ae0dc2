package mock

import "github.com/fwojciec/briefly"

var _ briefly.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of briefly.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML, pageURL string) (*briefly.Article, error)
}

func (e *Extractor) Extract(rawHTML, pageURL string) (*briefly.Article, error) {
	return e.ExtractFn(rawHTML, pageURL)
}
