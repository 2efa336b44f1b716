package client

import "errors"

var (
	// ErrInvalidInput indicates a required field is missing or blank.
	ErrInvalidInput = errors.New("invalid client chart input")
)
