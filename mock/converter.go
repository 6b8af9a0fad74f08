package mock

import "github.com/fwojciec/xhsnote"

var _ xhsnote.Converter = (*Converter)(nil)

// Converter is a mock implementation of xhsnote.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
