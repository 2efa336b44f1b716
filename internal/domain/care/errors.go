package care

import "errors"

var (
	// ErrInvalidInput indicates a required field is missing or blank.
	ErrInvalidInput = errors.New("invalid care record input")
)
