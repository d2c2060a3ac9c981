// Package event provides change notification for data providers.
//
// Providers compose a Dispatcher and publish mutate/refresh events
// through it; adapters that wrap a provider re-dispatch the wrapped
// provider's events through their own Dispatcher. Sources expose their
// dispatcher via the Source interface.
package event
