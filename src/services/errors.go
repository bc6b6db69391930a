package services

import "errors"

// Domain error kinds. Services wrap them with %w and context; the API layer
// translates them to HTTP status codes with errors.Is.
var (
	// ErrNotFound: owner, lot or batch missing or not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientInventory: requested divest quantity exceeds what the
	// eligible lots still hold.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrInvalidDate: a divestment dated before a candidate lot's purchase,
	// or a malformed/missing date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrConflict: attempt to edit a lot that already has allocations.
	ErrConflict = errors.New("conflict")

	// ErrInvalidRequest: malformed request fields (non-positive quantity,
	// negative price, blank company).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAggregateIntegrity: an incrementally maintained aggregate diverged
	// from recomputation. Diagnostic only, never caused by a caller.
	ErrAggregateIntegrity = errors.New("aggregate integrity violation")
)
