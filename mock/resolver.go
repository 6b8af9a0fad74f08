package mock

import (
	"context"

	"github.com/fwojciec/xhsnote"
)

var _ xhsnote.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of xhsnote.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, url string) (*xhsnote.Reference, error)
}

func (r *Resolver) Resolve(ctx context.Context, url string) (*xhsnote.Reference, error) {
	return r.ResolveFn(ctx, url)
}
