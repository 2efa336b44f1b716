package chart

import (
	"errors"

	"github.com/elderflowhq/console/internal/api"
	"github.com/elderflowhq/console/internal/auth"
)

var (
	// ErrDeleteCancelled indicates the user declined a delete confirmation.
	ErrDeleteCancelled = errors.New("delete cancelled")
	// ErrNoClient indicates a mutation before any client chart was loaded.
	ErrNoClient = errors.New("no client selected")
	// ErrPlanNotOpen indicates a goal mutation without an open plan detail.
	ErrPlanNotOpen = errors.New("no care plan open")
)

// Message maps an error onto the text shown next to the control that caused
// it: the auth prompt for a missing session, the server's own message for a
// rejected request, and the caller's fallback for everything else
// (transport failures, malformed bodies).
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return "You are not logged in. Please log in again."
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}
