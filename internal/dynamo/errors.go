package dynamo

import "errors"

// Domain errors for world and widget lifecycle.
var (
	// ErrDisposed indicates use of a world after it was cleared.
	ErrDisposed = errors.New("dynamo: world disposed")

	// ErrUnknownBody indicates a body id that was never added.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrInvalidSize indicates a non-positive container or body extent.
	ErrInvalidSize = errors.New("dynamo: size must be positive")

	// ErrInvalidState indicates a NaN or Inf in a position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// BodyError wraps an error with the body it concerns.
type BodyError struct {
	ID      int
	Wrapped error
}

func (e *BodyError) Error() string {
	return e.Wrapped.Error()
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
