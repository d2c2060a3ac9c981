// Package dataprovider defines the DataProvider contract: a uniform
// interface for paged and keyed record retrieval with capability
// negotiation, implemented by concrete sources and by composable
// adapters (joining, deferred, middleware wrappers).
//
// The contract covers five fetch shapes:
//   - FetchFirst: lazy paged iteration from the start of the collection
//   - FetchByKeys: batched key lookup returning a key-to-item mapping
//   - FetchByOffset: random-access window with an end-of-data flag
//   - ContainsKeys: membership probe
//   - TotalSize / IsEmpty: cardinality queries
//
// Capability negotiation is explicit: Capability(name) returns a typed
// descriptor (for example FetchByKeysCapability reporting batchLookup)
// or nil when the provider does not support the named capability.
// Adapters use descriptors to pick fetch strategies instead of probing
// for methods at runtime.
//
// Cross-cutting concerns compose as middleware in the usual way:
//
//	dp = dataprovider.WithLogging(dp, log)
//	dp = dataprovider.WithTracing(dp, "my-service")
//	dp = dataprovider.WithMetrics(dp, metrics)
package dataprovider
