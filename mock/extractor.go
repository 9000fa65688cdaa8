package mock

import "github.com/fwojciec/pagegrade"

var _ pagegrade.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagegrade.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pagegrade.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*pagegrade.ExtractResult, error) {
	return e.ExtractFn(html)
}
