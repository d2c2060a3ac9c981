package memory

import (
	"context"
	"sort"

	"github.com/kbukum/datakit/dataprovider"
)

// FetchFirst iterates the collection in pages, applying filter, sort,
// and projection. The view is snapshotted on the first Next call.
func (p *Provider) FetchFirst(ctx context.Context, params dataprovider.FetchListParams) dataprovider.PageIterator {
	size := params.Size
	if size <= 0 {
		size = dataprovider.DefaultFetchSize()
	}
	return &pageIterator{provider: p, params: params, size: size}
}

// FetchByKeys resolves all requested keys in one pass over the store.
func (p *Provider) FetchByKeys(ctx context.Context, params dataprovider.FetchByKeysParams) (*dataprovider.FetchByKeysResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	results := dataprovider.NewKeyMap()
	for _, key := range params.Keys {
		item, ok := p.data.Get(key)
		if !ok {
			continue
		}
		results.Set(key, dataprovider.Item{
			Metadata: item.Metadata,
			Data:     project(item.Data, params.Attributes),
		})
	}
	return &dataprovider.FetchByKeysResult{Results: results}, nil
}

// FetchByOffset returns a window over the filtered, sorted view.
func (p *Provider) FetchByOffset(ctx context.Context, params dataprovider.FetchByOffsetParams) (*dataprovider.FetchByOffsetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	size := params.Size
	if size <= 0 {
		size = dataprovider.DefaultFetchSize()
	}

	view := p.view(params.FilterCriterion, params.SortCriteria, params.Attributes)

	if params.Offset >= len(view) {
		return &dataprovider.FetchByOffsetResult{Results: []dataprovider.Item{}, Done: true}, nil
	}
	end := params.Offset + size
	if end > len(view) {
		end = len(view)
	}
	return &dataprovider.FetchByOffsetResult{
		Results: view[params.Offset:end],
		Done:    end == len(view),
	}, nil
}

// ContainsKeys reports which keys are present.
func (p *Provider) ContainsKeys(ctx context.Context, params dataprovider.ContainsKeysParams) (*dataprovider.ContainsKeysResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var found []any
	for _, key := range params.Keys {
		if p.data.Has(key) {
			found = append(found, key)
		}
	}
	return &dataprovider.ContainsKeysResult{Results: found}, nil
}

// TotalSize returns the row count.
func (p *Provider) TotalSize(ctx context.Context) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data.Len(), nil
}

// IsEmpty reports whether the store holds any rows.
func (p *Provider) IsEmpty(ctx context.Context) (dataprovider.Emptiness, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.data.Len() == 0 {
		return dataprovider.EmptyYes, nil
	}
	return dataprovider.EmptyNo, nil
}

// view materializes the filtered, sorted, projected item slice.
// Records are shallow-copied so callers and adapters can augment them
// without touching the store.
func (p *Provider) view(filter dataprovider.Filter, criteria []dataprovider.SortCriterion, attrs []dataprovider.Attribute) []dataprovider.Item {
	p.mu.RLock()
	items := p.data.Items()
	p.mu.RUnlock()

	out := make([]dataprovider.Item, 0, len(items))
	for _, item := range items {
		if filter != nil && !filter.Matches(item.Data) {
			continue
		}
		out = append(out, dataprovider.Item{
			Metadata: item.Metadata,
			Data:     project(item.Data, attrs),
		})
	}

	if len(criteria) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i].Data, out[j].Data, criteria)
		})
	}
	return out
}

func less(a, b dataprovider.Record, criteria []dataprovider.SortCriterion) bool {
	for _, c := range criteria {
		cmp := dataprovider.Compare(a[c.Attribute], b[c.Attribute])
		if cmp == 0 {
			continue
		}
		if c.Direction == dataprovider.SortDescending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

// project shallow-copies rec, keeping only the requested attributes.
// A nil request copies every field. Nested attribute lists apply to
// fields whose value is itself a Record.
func project(rec dataprovider.Record, attrs []dataprovider.Attribute) dataprovider.Record {
	if rec == nil {
		return nil
	}
	if attrs == nil {
		out := make(dataprovider.Record, len(rec))
		for k, v := range rec {
			out[k] = v
		}
		return out
	}

	out := make(dataprovider.Record, len(attrs))
	for _, attr := range attrs {
		v, ok := rec[attr.Name]
		if !ok {
			continue
		}
		if nested, isRec := v.(dataprovider.Record); isRec && attr.Attributes != nil {
			out[attr.Name] = project(nested, attr.Attributes)
			continue
		}
		out[attr.Name] = v
	}
	return out
}

type pageIterator struct {
	provider *Provider
	params   dataprovider.FetchListParams
	size     int

	view    []dataprovider.Item
	started bool
	pos     int
	closed  bool
}

func (it *pageIterator) Next(ctx context.Context) (dataprovider.Page, bool, error) {
	if err := ctx.Err(); err != nil {
		return dataprovider.Page{}, false, err
	}
	if it.closed {
		return dataprovider.Page{}, false, nil
	}
	if !it.started {
		it.view = it.provider.view(it.params.FilterCriterion, it.params.SortCriteria, it.params.Attributes)
		it.started = true
	}
	if it.pos >= len(it.view) {
		return dataprovider.Page{}, false, nil
	}

	end := it.pos + it.size
	if end > len(it.view) {
		end = len(it.view)
	}
	page := dataprovider.Page{Items: it.view[it.pos:end]}
	it.pos = end
	return page, true, nil
}

func (it *pageIterator) Close() error {
	it.closed = true
	it.view = nil
	return nil
}
