package api

import "fmt"

// APIError is a non-2xx response whose body carried a human-readable
// message. The message comes from the payload's "error" field, else its
// "message" field, else a generic status line.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// errorBody is the error payload shape every backend endpoint uses.
type errorBody struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Err != "" {
		return b.Err
	}
	return b.Message
}
