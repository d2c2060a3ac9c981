package deferred

import (
	"context"
	"sync"

	"github.com/kbukum/datakit/dataprovider"
	"github.com/kbukum/datakit/errors"
)

// ResolveFunc produces the provider a deferred adapter delegates to.
// It is called at most once.
type ResolveFunc func(ctx context.Context) (dataprovider.DataProvider, error)

// Provider defers source selection until first use. Safe for
// concurrent use: callers racing on the first data call block on the
// single resolution and all observe its outcome.
type Provider struct {
	mu       sync.Mutex
	resolve  ResolveFunc
	done     bool
	provider dataprovider.DataProvider
	err      error
}

// New creates a deferred provider around resolve.
func New(resolve ResolveFunc) *Provider {
	return &Provider{resolve: resolve}
}

// await resolves the underlying provider on first use. The outcome is
// memoized: a failed resolution keeps failing without re-invoking the
// resolver, mirroring settled-promise semantics.
func (p *Provider) await(ctx context.Context) (dataprovider.DataProvider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return p.provider, p.err
	}
	p.done = true

	if p.resolve == nil {
		p.err = errors.ProviderUnresolved("deferred provider has no resolver")
		return nil, p.err
	}

	dp, err := p.resolve(ctx)
	p.resolve = nil
	switch {
	case err != nil:
		p.err = err
	case dp == nil:
		p.err = errors.ProviderUnresolved("deferred source resolved to a nil provider")
	default:
		p.provider = dp
	}
	return p.provider, p.err
}

// Resolved reports whether resolution has completed successfully.
func (p *Provider) Resolved() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done && p.err == nil
}

// FetchFirst resolves the source, then delegates. Resolution failures
// surface through the iterator's first Next call.
func (p *Provider) FetchFirst(ctx context.Context, params dataprovider.FetchListParams) dataprovider.PageIterator {
	dp, err := p.await(ctx)
	if err != nil {
		return dataprovider.ErrorIterator(err)
	}
	return dp.FetchFirst(ctx, params)
}

// FetchByKeys resolves the source, then delegates.
func (p *Provider) FetchByKeys(ctx context.Context, params dataprovider.FetchByKeysParams) (*dataprovider.FetchByKeysResult, error) {
	dp, err := p.await(ctx)
	if err != nil {
		return nil, err
	}
	return dp.FetchByKeys(ctx, params)
}

// FetchByOffset resolves the source, then delegates.
func (p *Provider) FetchByOffset(ctx context.Context, params dataprovider.FetchByOffsetParams) (*dataprovider.FetchByOffsetResult, error) {
	dp, err := p.await(ctx)
	if err != nil {
		return nil, err
	}
	return dp.FetchByOffset(ctx, params)
}

// ContainsKeys resolves the source, then delegates.
func (p *Provider) ContainsKeys(ctx context.Context, params dataprovider.ContainsKeysParams) (*dataprovider.ContainsKeysResult, error) {
	dp, err := p.await(ctx)
	if err != nil {
		return nil, err
	}
	return dp.ContainsKeys(ctx, params)
}

// TotalSize resolves the source, then delegates.
func (p *Provider) TotalSize(ctx context.Context) (int, error) {
	dp, err := p.await(ctx)
	if err != nil {
		return -1, err
	}
	return dp.TotalSize(ctx)
}

// IsEmpty resolves the source, then delegates.
func (p *Provider) IsEmpty(ctx context.Context) (dataprovider.Emptiness, error) {
	dp, err := p.await(ctx)
	if err != nil {
		return dataprovider.EmptyUnknown, err
	}
	return dp.IsEmpty(ctx)
}

// Capability delegates once the source is resolved. Before resolution
// it returns nil: capability queries are synchronous and must not
// trigger or wait on resolution.
func (p *Provider) Capability(name string) any {
	p.mu.Lock()
	dp := p.provider
	p.mu.Unlock()

	if dp == nil {
		return nil
	}
	return dp.Capability(name)
}

var _ dataprovider.DataProvider = (*Provider)(nil)
