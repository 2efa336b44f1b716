package activity

// ServiceTypeRef is a lightweight reference to the service type billed
// against an activity.
type ServiceTypeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Activity is one logged billable (or non-billable) visit or task. Activities
// are immutable from the chart view; edits happen on the activity detail page
// via Patch.
type Activity struct {
	ID              string          `json:"id,omitempty"`
	ClientID        string          `json:"clientId,omitempty"`
	StartTime       string          `json:"startTime"`
	EndTime         string          `json:"endTime,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Notes           string          `json:"notes,omitempty"`
	IsBillable      bool            `json:"isBillable"`
	IsFlagged       bool            `json:"isFlagged"`
	ServiceType     *ServiceTypeRef `json:"serviceType,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

// Patch carries the editable fields of an activity. Nil means "not touched".
// The same shape is used for the PATCH request body and for overlaying the
// server's response onto local state.
type Patch struct {
	StartTime       *string `json:"startTime,omitempty"`
	EndTime         *string `json:"endTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	IsBillable      *bool   `json:"isBillable,omitempty"`
	IsFlagged       *bool   `json:"isFlagged,omitempty"`
	ServiceTypeID   *string `json:"serviceTypeId,omitempty"`
}

// ServiceType is an org-level billing category, managed on the settings page.
type ServiceType struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Code        *string `json:"code,omitempty"`
	HourlyRate  float64 `json:"hourlyRate,omitempty"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}
