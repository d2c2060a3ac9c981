package joining

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/datakit/dataprovider"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/event"
	"github.com/kbukum/datakit/logger"
)

// Provider is a DataProvider that joins related records from other
// providers into every row fetched from a base provider. Paging,
// filtering, and sorting are delegated to the base provider; joining
// changes row content only, never row count or order.
type Provider struct {
	base   dataprovider.DataProvider
	joins  []Join
	log    *logger.Logger
	events *event.Dispatcher
}

// New creates a joining provider over base. The join declarations are
// copied and fixed for the provider's lifetime.
func New(base dataprovider.DataProvider, opts Options) (*Provider, error) {
	if base == nil {
		return nil, errors.InvalidOptions("base provider is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("joining")
	}

	p := &Provider{
		base:   base,
		joins:  append([]Join(nil), opts.Joins...),
		log:    log,
		events: event.NewDispatcher(),
	}

	// Joins never change row count or keys, so the base provider's
	// change events apply verbatim to this provider's consumers.
	if src, ok := base.(event.Source); ok {
		src.Events().Subscribe(event.TypeMutate, p.events.Dispatch)
		src.Events().Subscribe(event.TypeRefresh, p.events.Dispatch)
	}

	return p, nil
}

// Aliases returns the declared join aliases in declaration order.
func (p *Provider) Aliases() []string {
	out := make([]string, len(p.joins))
	for i, j := range p.joins {
		out[i] = j.Alias
	}
	return out
}

// Events returns the provider's change-event dispatcher.
func (p *Provider) Events() *event.Dispatcher { return p.events }

// FetchFirst delegates paging to the base provider and joins every
// page lazily before it reaches the caller.
func (p *Provider) FetchFirst(ctx context.Context, params dataprovider.FetchListParams) dataprovider.PageIterator {
	part := partitionAttributes(params.Attributes, p.joins)

	baseParams := params
	baseParams.Attributes = part.baseAttributes()
	if baseParams.ClientID == "" {
		baseParams.ClientID = uuid.NewString()
	}

	return &pageIterator{
		provider: p,
		inner:    p.base.FetchFirst(ctx, baseParams),
		part:     part,
	}
}

// FetchByKeys resolves keys through the base provider, then joins the
// rows that were found. Keys absent from the base result stay absent.
func (p *Provider) FetchByKeys(ctx context.Context, params dataprovider.FetchByKeysParams) (*dataprovider.FetchByKeysResult, error) {
	part := partitionAttributes(params.Attributes, p.joins)

	baseParams := params
	baseParams.Attributes = part.baseAttributes()

	res, err := p.base.FetchByKeys(ctx, baseParams)
	if err != nil {
		return nil, err
	}
	if err := p.joinPage(ctx, res.Results.Items(), part); err != nil {
		return nil, err
	}
	return res, nil
}

// FetchByOffset fetches the base window, joins it, and preserves the
// base provider's end-of-data flag unchanged.
func (p *Provider) FetchByOffset(ctx context.Context, params dataprovider.FetchByOffsetParams) (*dataprovider.FetchByOffsetResult, error) {
	part := partitionAttributes(params.Attributes, p.joins)

	baseParams := params
	baseParams.Attributes = part.baseAttributes()

	res, err := p.base.FetchByOffset(ctx, baseParams)
	if err != nil {
		return nil, err
	}
	if err := p.joinPage(ctx, res.Results, part); err != nil {
		return nil, err
	}
	return res, nil
}

// ContainsKeys delegates to the base provider.
func (p *Provider) ContainsKeys(ctx context.Context, params dataprovider.ContainsKeysParams) (*dataprovider.ContainsKeysResult, error) {
	return p.base.ContainsKeys(ctx, params)
}

// TotalSize delegates to the base provider.
func (p *Provider) TotalSize(ctx context.Context) (int, error) {
	return p.base.TotalSize(ctx)
}

// IsEmpty delegates to the base provider.
func (p *Provider) IsEmpty(ctx context.Context) (dataprovider.Emptiness, error) {
	return p.base.IsEmpty(ctx)
}

// Capability reports no sort or filter support: neither would be
// correct across joined fields, and advertising the base provider's
// scope would mislead callers. Everything else delegates.
func (p *Provider) Capability(name string) any {
	switch name {
	case dataprovider.CapabilitySort, dataprovider.CapabilityFilter:
		return nil
	default:
		return p.base.Capability(name)
	}
}

var _ dataprovider.DataProvider = (*Provider)(nil)
var _ event.Source = (*Provider)(nil)

// pageIterator joins each base page before handing it to the caller.
// The attribute partition was computed when iteration began and stays
// local to this iterator.
type pageIterator struct {
	provider *Provider
	inner    dataprovider.PageIterator
	part     partition
}

func (it *pageIterator) Next(ctx context.Context) (dataprovider.Page, bool, error) {
	page, ok, err := it.inner.Next(ctx)
	if err != nil || !ok {
		return page, ok, err
	}
	if err := it.provider.joinPage(ctx, page.Items, it.part); err != nil {
		return dataprovider.Page{}, false, err
	}
	return page, true, nil
}

func (it *pageIterator) Close() error { return it.inner.Close() }
