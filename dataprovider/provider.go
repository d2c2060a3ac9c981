package dataprovider

import "context"

// DataProvider is the contract implemented by every record source and
// by every adapter that wraps one. Implementations must be safe for
// concurrent use.
//
// All blocking operations take a context; cancellation stops waiting
// but does not abort work already handed to an underlying source.
type DataProvider interface {
	// FetchFirst starts a lazy paged iteration over the collection.
	// Errors surface from the iterator's Next, never synchronously.
	FetchFirst(ctx context.Context, params FetchListParams) PageIterator

	// FetchByKeys resolves many keys in one call. Keys not found are
	// absent from the result; found keys map to their items.
	FetchByKeys(ctx context.Context, params FetchByKeysParams) (*FetchByKeysResult, error)

	// FetchByOffset returns a window of rows starting at params.Offset.
	FetchByOffset(ctx context.Context, params FetchByOffsetParams) (*FetchByOffsetResult, error)

	// ContainsKeys reports which of the given keys exist.
	ContainsKeys(ctx context.Context, params ContainsKeysParams) (*ContainsKeysResult, error)

	// TotalSize returns the collection's row count, or -1 when unknown.
	TotalSize(ctx context.Context) (int, error)

	// IsEmpty reports whether the collection has any rows.
	IsEmpty(ctx context.Context) (Emptiness, error)

	// Capability returns the descriptor for a named capability, or nil
	// when the capability is not supported. Descriptors are the typed
	// values defined in capability.go.
	Capability(name string) any
}

// PageIterator provides pull-based access to pages of items.
// Next returns (zero, false, nil) when the collection is exhausted.
// Close must be called when done to release resources.
type PageIterator interface {
	Next(ctx context.Context) (Page, bool, error)
	Close() error
}

// ErrorIterator returns a PageIterator whose first Next fails with err.
// Adapters use it to surface setup failures through the iterator path,
// since FetchFirst has no synchronous error return.
func ErrorIterator(err error) PageIterator {
	return &errorIterator{err: err}
}

type errorIterator struct {
	err error
}

func (it *errorIterator) Next(ctx context.Context) (Page, bool, error) {
	return Page{}, false, it.err
}

func (it *errorIterator) Close() error { return nil }
