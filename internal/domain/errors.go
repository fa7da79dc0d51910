package domain

import "errors"

// ErrNotFound is returned when a resolved response does not contain the
// requested record. It is distinct from transport and HTTP failures.
var ErrNotFound = errors.New("not found")
