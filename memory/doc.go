// Package memory provides an in-memory, array-backed DataProvider.
//
// It implements the full dataprovider contract including batched key
// lookup, offset windows, attribute projection, filtering, and sorting,
// and publishes change events on mutation. It is the reference source
// for tests and for composing the joining and deferred adapters.
package memory
