package operation

import "errors"

// Error kinds produced by operations. The delivery layer maps them to
// transport status codes; nothing in this package knows about transport.
var (
	// ErrUnauthorized means the admission check failed. It is always raised
	// before any state change.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists means a uniqueness invariant would be violated.
	ErrAlreadyExists = errors.New("already exists")

	// ErrSelfReference means a skill was declared as its own prerequisite.
	ErrSelfReference = errors.New("skill cannot be its own prerequisite")

	// ErrDomainRule covers rule violations not named above, such as
	// downvoting without a prior upvote.
	ErrDomainRule = errors.New("domain rule violation")

	// ErrInvalidInput means the caller supplied malformed parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal hides collaborator failures from the caller.
	ErrInternal = errors.New("internal error")

	// ErrOperationConsumed means Execute was called on an operation that
	// already ran. Operations are constructed per request and discarded.
	ErrOperationConsumed = errors.New("operation already executed")
)
