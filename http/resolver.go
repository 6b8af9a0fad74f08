package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/xhsnote"
)

// DefaultResolveTimeout bounds a whole redirect chain.
const DefaultResolveTimeout = 10 * time.Second

// DefaultMaxRedirects is the default redirect budget for short links.
const DefaultMaxRedirects = 10

// errRedirectBudget stops the client once the redirect budget is spent.
var errRedirectBudget = errors.New("redirect budget exhausted")

// Ensure Resolver implements xhsnote.Resolver at compile time.
var _ xhsnote.Resolver = (*Resolver)(nil)

// Resolver follows short-link redirect chains to the canonical note URL.
type Resolver struct {
	timeout      time.Duration
	maxRedirects int
	userAgent    string
	transport    http.RoundTripper
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolveTimeout sets the timeout for the whole redirect chain.
func WithResolveTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithMaxRedirects sets how many redirects are followed before giving up.
func WithMaxRedirects(n int) ResolverOption {
	return func(r *Resolver) {
		r.maxRedirects = n
	}
}

// WithResolverUserAgent overrides DefaultUserAgent.
func WithResolverUserAgent(ua string) ResolverOption {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithTransport sets the round tripper used for requests.
func WithTransport(rt http.RoundTripper) ResolverOption {
	return func(r *Resolver) {
		r.transport = rt
	}
}

// NewResolver creates a new Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		timeout:      DefaultResolveTimeout,
		maxRedirects: DefaultMaxRedirects,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve issues a GET against rawURL and follows redirects up to the
// budget. The note identifier is taken from the last URL in the chain whose
// path carries one, so a chain that ends on a login or error page still
// resolves when an earlier hop named the note.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*xhsnote.Reference, error) {
	var hops []*url.URL

	client := &http.Client{
		Timeout:   r.timeout,
		Transport: r.transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > r.maxRedirects {
				return errRedirectBudget
			}
			hops = append(hops, req.URL)
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, xhsnote.Errorf(xhsnote.ERESOLVE, "invalid link %q: %v", rawURL, err)
	}
	setBrowserHeaders(req.Header, r.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, errRedirectBudget) {
			return nil, xhsnote.Errorf(xhsnote.ERESOLVE, "more than %d redirects resolving %s", r.maxRedirects, rawURL)
		}
		return nil, xhsnote.Errorf(xhsnote.ERESOLVE, "resolving %s: %v", rawURL, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()

	for i := len(hops) - 1; i >= 0; i-- {
		if ref, err := xhsnote.ParseReference(hops[i].String()); err == nil {
			return ref, nil
		}
	}
	if ref, err := xhsnote.ParseReference(rawURL); err == nil {
		return ref, nil
	}

	return nil, xhsnote.Errorf(xhsnote.ENOIDENTIFIER, "no note identifier after resolving %s to %s", rawURL, resp.Request.URL)
}
