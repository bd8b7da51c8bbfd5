package repositories

import "errors"

// ErrNotFound is returned when an identifier is well-formed but no record
// matches it. Callers distinguish it from persistence failures with errors.Is.
var ErrNotFound = errors.New("record not found")
