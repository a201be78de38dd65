package strategy

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no rows.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed query parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptRow is returned when a stored row cannot be decoded.
	ErrCorruptRow = errors.New("corrupt row")
)
