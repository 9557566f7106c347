// Package apperr defines the error kinds shared across the backend.
//
// Every failure surfaced to a caller is one of these kinds, wrapped with
// context via fmt.Errorf("...: %w", ...). Handlers map them to HTTP status
// codes with errors.Is; nothing is retried or silently recovered.
package apperr

import "errors"

var (
	// ErrInvalidParameter marks malformed or out-of-range request input.
	// It is always raised before any file block is generated.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound marks a missing element, material, or result file.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks a failed external reference lookup (network error
	// or upstream 5xx). A single attempt is made, never retried.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrUnauthorized marks a missing or rejected upstream credential.
	ErrUnauthorized = errors.New("unauthorized")
)
