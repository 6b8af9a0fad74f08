package mock

import "github.com/fwojciec/xhsnote"

var _ xhsnote.Parser = (*Parser)(nil)

// Parser is a mock implementation of xhsnote.Parser.
type Parser struct {
	ParseFn func(html string) (*xhsnote.Record, error)
}

func (p *Parser) Parse(html string) (*xhsnote.Record, error) {
	return p.ParseFn(html)
}
