package dataprovider

// Capability names understood by Capability(name).
const (
	CapabilityFetchFirst    = "fetchFirst"
	CapabilityFetchByKeys   = "fetchByKeys"
	CapabilityFetchByOffset = "fetchByOffset"
	CapabilitySort          = "sort"
	CapabilityFilter        = "filter"
)

// KeyLookupImplementation describes how a provider resolves keys.
type KeyLookupImplementation string

const (
	// BatchLookup means many keys are resolved in one round trip.
	BatchLookup KeyLookupImplementation = "batchLookup"
	// IterationLookup means the provider scans for keys one at a time.
	IterationLookup KeyLookupImplementation = "iteration"
)

// FetchByKeysCapability is the descriptor for "fetchByKeys".
type FetchByKeysCapability struct {
	Implementation KeyLookupImplementation
}

// OffsetImplementation describes how a provider serves offset fetches.
type OffsetImplementation string

const (
	RandomAccess OffsetImplementation = "randomAccess"
)

// FetchByOffsetCapability is the descriptor for "fetchByOffset".
type FetchByOffsetCapability struct {
	Implementation OffsetImplementation
}

// SortAttributes describes how many attributes a sort may combine.
type SortAttributes string

const (
	SortSingle   SortAttributes = "single"
	SortMultiple SortAttributes = "multiple"
)

// SortCapability is the descriptor for "sort".
type SortCapability struct {
	Attributes SortAttributes
}

// FilterCapability is the descriptor for "filter".
type FilterCapability struct {
	Operators []FilterOp
}

// SupportsBatchLookup reports whether dp advertises batched key lookup.
func SupportsBatchLookup(dp DataProvider) bool {
	cap, ok := dp.Capability(CapabilityFetchByKeys).(FetchByKeysCapability)
	return ok && cap.Implementation == BatchLookup
}
