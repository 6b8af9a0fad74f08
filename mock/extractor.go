package mock

import "github.com/fwojciec/xhsnote"

var _ xhsnote.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of xhsnote.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*xhsnote.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*xhsnote.ExtractResult, error) {
	return e.ExtractFn(html)
}
