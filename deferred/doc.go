// Package deferred provides a DataProvider adapter that defers source
// selection until an asynchronous resolution completes.
//
// The adapter wraps a resolve function instead of a provider. The first
// data call triggers resolution exactly once; concurrent callers share
// the single resolution, and its outcome (provider or error) is
// memoized for the adapter's lifetime. Every data method then delegates
// to the resolved provider:
//
//	dp := deferred.New(func(ctx context.Context) (dataprovider.DataProvider, error) {
//	    return openRemoteSource(ctx)
//	})
package deferred
