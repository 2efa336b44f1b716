package activity

import "errors"

var (
	// ErrInvalidInput indicates a required field is missing or blank.
	ErrInvalidInput = errors.New("invalid activity input")
)
