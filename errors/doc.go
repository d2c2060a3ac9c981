// Package errors provides the structured error type used across
// datakit. Errors carry a machine-readable code, optional details,
// and an underlying cause that unwraps with the standard errors
// package.
package errors
