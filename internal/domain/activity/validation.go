package activity

import "strings"

// Validate checks fields required to log an activity.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.StartTime) == "" {
		return ErrInvalidInput
	}
	if a.DurationMinutes < 0 {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks fields required to create a service type.
func (s ServiceType) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}
