// Package errors provides the structured error type used across linepar.
// Every failure surfaced by the loader, the pipeline or the sinks is an
// *AppError carrying a machine-readable code, so callers can branch on the
// failure class with Is instead of matching strings.
package errors
