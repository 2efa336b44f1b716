package auth

import "errors"

var (
	// ErrNotLoggedIn indicates no credentials are available.
	ErrNotLoggedIn = errors.New("not logged in, please log in again")
	// ErrBadToken indicates the bearer token could not be parsed.
	ErrBadToken = errors.New("invalid token")
	// ErrTokenExpired indicates the bearer token is past its expiry.
	ErrTokenExpired = errors.New("session expired")
)
