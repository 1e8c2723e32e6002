package trip

import "errors"

// Error taxonomy for aggregate mutations. Handlers map these to HTTP status
// codes with errors.Is; everything a mutation returns wraps one of them.
var (
	// ErrValidation marks malformed input: empty required fields,
	// non-positive amounts, empty participant subsets, unknown names.
	// State is never changed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks operations that would violate a cross-entity
	// invariant, such as removing a payer-locked participant or reusing a
	// participant name. State is never changed.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks references to ids or pairings that do not exist.
	ErrNotFound = errors.New("not found")
)
