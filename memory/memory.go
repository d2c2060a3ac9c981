package memory

import (
	"sync"

	"github.com/kbukum/datakit/dataprovider"
	"github.com/kbukum/datakit/event"
)

// Provider is an in-memory DataProvider over an ordered record set.
// Each record's key is the value of the configured key attribute.
// Safe for concurrent use.
type Provider struct {
	mu      sync.RWMutex
	name    string
	keyAttr string
	data    *dataprovider.KeyMap
	events  *event.Dispatcher
}

// New creates a provider named name whose records are keyed by the
// keyAttribute field. An empty keyAttribute defaults to "id".
func New(name, keyAttribute string, records []dataprovider.Record) *Provider {
	if keyAttribute == "" {
		keyAttribute = "id"
	}
	p := &Provider{
		name:    name,
		keyAttr: keyAttribute,
		data:    dataprovider.NewKeyMap(),
		events:  event.NewDispatcher(),
	}
	for _, rec := range records {
		key := rec[keyAttribute]
		p.data.Set(key, dataprovider.Item{
			Metadata: dataprovider.ItemMetadata{Key: key},
			Data:     rec,
		})
	}
	return p
}

// Name returns the provider's name.
func (p *Provider) Name() string { return p.name }

// Events returns the provider's change-event dispatcher.
func (p *Provider) Events() *event.Dispatcher { return p.events }

// Add inserts records, replacing any existing rows with the same key,
// and dispatches a mutate event.
func (p *Provider) Add(records ...dataprovider.Record) {
	items := make([]dataprovider.Item, len(records))

	p.mu.Lock()
	for i, rec := range records {
		key := rec[p.keyAttr]
		items[i] = dataprovider.Item{
			Metadata: dataprovider.ItemMetadata{Key: key},
			Data:     rec,
		}
		p.data.Set(key, items[i])
	}
	p.mu.Unlock()

	p.events.Dispatch(event.Added(items...))
}

// Update replaces existing rows in place and dispatches a mutate event.
// Records whose key is not present are ignored.
func (p *Provider) Update(records ...dataprovider.Record) {
	var items []dataprovider.Item

	p.mu.Lock()
	for _, rec := range records {
		key := rec[p.keyAttr]
		if !p.data.Has(key) {
			continue
		}
		item := dataprovider.Item{
			Metadata: dataprovider.ItemMetadata{Key: key},
			Data:     rec,
		}
		p.data.Set(key, item)
		items = append(items, item)
	}
	p.mu.Unlock()

	if len(items) > 0 {
		p.events.Dispatch(event.Updated(items...))
	}
}

// Remove deletes rows by key and dispatches a mutate event.
func (p *Provider) Remove(keys ...any) {
	var items []dataprovider.Item

	p.mu.Lock()
	for _, key := range keys {
		if item, ok := p.data.Get(key); ok {
			p.data.Delete(key)
			items = append(items, item)
		}
	}
	p.mu.Unlock()

	if len(items) > 0 {
		p.events.Dispatch(event.Removed(items...))
	}
}

// Capability reports batched key lookup, random-access offsets, and
// attribute-based sorting and filtering.
func (p *Provider) Capability(name string) any {
	switch name {
	case dataprovider.CapabilityFetchByKeys:
		return dataprovider.FetchByKeysCapability{Implementation: dataprovider.BatchLookup}
	case dataprovider.CapabilityFetchByOffset:
		return dataprovider.FetchByOffsetCapability{Implementation: dataprovider.RandomAccess}
	case dataprovider.CapabilitySort:
		return dataprovider.SortCapability{Attributes: dataprovider.SortMultiple}
	case dataprovider.CapabilityFilter:
		return dataprovider.FilterCapability{Operators: []dataprovider.FilterOp{
			dataprovider.OpEquals, dataprovider.OpNotEquals,
			dataprovider.OpGreaterThan, dataprovider.OpLessThan,
		}}
	default:
		return nil
	}
}

var _ dataprovider.DataProvider = (*Provider)(nil)
var _ event.Source = (*Provider)(nil)
