package event

import "github.com/kbukum/datakit/dataprovider"

// Type identifies a kind of provider change event.
type Type string

const (
	// TypeMutate signals rows were added, removed, or updated.
	TypeMutate Type = "mutate"
	// TypeRefresh signals the whole collection changed and must be refetched.
	TypeRefresh Type = "refresh"
)

// MutationDetail describes one class of mutation within a mutate event.
type MutationDetail struct {
	Keys  []any
	Items []dataprovider.Item
}

// Event is a provider change notification.
type Event struct {
	Type   Type
	Add    *MutationDetail
	Remove *MutationDetail
	Update *MutationDetail
}

// Refresh builds a refresh event.
func Refresh() Event {
	return Event{Type: TypeRefresh}
}

// Added builds a mutate event for inserted items.
func Added(items ...dataprovider.Item) Event {
	return Event{Type: TypeMutate, Add: detail(items)}
}

// Removed builds a mutate event for deleted items.
func Removed(items ...dataprovider.Item) Event {
	return Event{Type: TypeMutate, Remove: detail(items)}
}

// Updated builds a mutate event for changed items.
func Updated(items ...dataprovider.Item) Event {
	return Event{Type: TypeMutate, Update: detail(items)}
}

func detail(items []dataprovider.Item) *MutationDetail {
	keys := make([]any, len(items))
	for i, item := range items {
		keys[i] = item.Metadata.Key
	}
	return &MutationDetail{Keys: keys, Items: items}
}

// Source is implemented by providers that publish change events.
type Source interface {
	Events() *Dispatcher
}
