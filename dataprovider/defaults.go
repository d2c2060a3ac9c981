package dataprovider

import "sync/atomic"

// defaultFetchSize is applied when FetchListParams.Size <= 0.
var defaultFetchSize atomic.Int64

func init() {
	defaultFetchSize.Store(25)
}

// DefaultFetchSize returns the page size used when a fetch request
// does not specify one.
func DefaultFetchSize() int {
	return int(defaultFetchSize.Load())
}

// SetDefaultFetchSize overrides the default page size. Values <= 0
// are ignored. Typically wired from config at startup.
func SetDefaultFetchSize(n int) {
	if n > 0 {
		defaultFetchSize.Store(int64(n))
	}
}
