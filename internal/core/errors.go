package core

import "errors"

// Caller-input errors surfaced to the API layer as human-readable
// messages. The ledger never panics past these; anything else coming out
// of a ledger operation is a persistence failure.
var (
	ErrDuplicateBucket = errors.New("A bucket with that name already exists")
	ErrNoSuchBucket    = errors.New("That bucket does not exist")
	ErrNoSuchExpense   = errors.New("That expense does not exist")
	ErrMissingName     = errors.New("Please include a name")
	ErrMissingBudget   = errors.New("Please include a budget")
	ErrInvalidBudget   = errors.New("Invalid budget")
)

// IsInputError reports whether err belongs to the caller-input taxonomy,
// i.e. it should map to HTTP 422 rather than 500.
func IsInputError(err error) bool {
	return errors.Is(err, ErrDuplicateBucket) ||
		errors.Is(err, ErrNoSuchBucket) ||
		errors.Is(err, ErrNoSuchExpense) ||
		errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrMissingBudget) ||
		errors.Is(err, ErrInvalidBudget)
}
