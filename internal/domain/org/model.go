package org

import (
	"errors"
	"strings"
)

// ErrInvalidInput indicates a required field is missing or blank.
var ErrInvalidInput = errors.New("invalid org input")

// Settings is the organization-wide configuration edited on the settings
// page.
type Settings struct {
	Name              string  `json:"name"`
	Address           *string `json:"address,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	BillingEmail      *string `json:"billingEmail,omitempty"`
	DefaultHourlyRate float64 `json:"defaultHourlyRate,omitempty"`
	Timezone          *string `json:"timezone,omitempty"`
	UpdatedAt         string  `json:"updatedAt,omitempty"`
}

// Validate checks fields required to save settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Account is a staff user account.
type Account struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Validate checks fields required to invite a staff account.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Email) == "" {
		return ErrInvalidInput
	}
	return nil
}

// AccountMetrics is the per-user workload summary shown on the team page.
type AccountMetrics struct {
	UserID              string  `json:"userId"`
	ActiveClients       int     `json:"activeClients"`
	ActivitiesThisMonth int     `json:"activitiesThisMonth"`
	HoursThisMonth      float64 `json:"hoursThisMonth"`
}

// CMSummary is the care-manager dashboard snapshot.
type CMSummary struct {
	ClientCount    int     `json:"clientCount"`
	HoursThisWeek  float64 `json:"hoursThisWeek"`
	OpenInvoices   int     `json:"openInvoices"`
	FlaggedClients int     `json:"flaggedClients"`
}

// CMNote is a care manager's private working note, outside any client chart.
type CMNote struct {
	ID         string  `json:"id,omitempty"`
	ClientID   *string `json:"clientId,omitempty"`
	Content    string  `json:"content"`
	AuthorName string  `json:"authorName,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// Validate checks that a CM note has content.
func (n CMNote) Validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return ErrInvalidInput
	}
	return nil
}
