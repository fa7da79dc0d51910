package store

import "errors"

// ValidationError is a user-facing input error. The store is not mutated
// when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrUnknownCollection is returned when a mutation names a missing collection.
var ErrUnknownCollection = errors.New("unknown collection")
