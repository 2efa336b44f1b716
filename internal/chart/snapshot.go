package chart

import (
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/billing"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
)

// ContactCard is the contact shown in the at-a-glance header.
type ContactCard struct {
	Name         string
	Relationship string
	Phone        string
	Email        string
}

// Snapshot is the derived, read-only summary over the loaded collections.
// It never mutates its sources.
type Snapshot struct {
	TotalHours       float64
	OpenInvoiceCount int
	LastActivityDate string
	PrimaryContact   *ContactCard
	TopAllergyLabel  string
	TopRiskLabel     string
	PrimaryInsurance string
}

// Snapshot derives the summary from current state. The result is cached per
// store revision, so repeated reads between state changes are free.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapRev == s.rev {
		return s.snapshot
	}

	snap := Snapshot{
		TotalHours:       activity.TotalHours(s.activities.items),
		OpenInvoiceCount: billing.OpenCount(s.invoices.items),
		LastActivityDate: activity.LastDate(s.activities.items),
		TopAllergyLabel:  care.TopAllergyLabel(s.allergies.items),
		TopRiskLabel:     care.TopRiskLabel(s.risks.items),
		PrimaryInsurance: client.PrimaryInsuranceLabel(s.insurance.items),
		PrimaryContact:   s.primaryContactLocked(),
	}

	s.snapshot = snap
	s.snapRev = s.rev
	return snap
}

// primaryContactLocked picks the chart's primary contact, falling back to
// the client's billing-contact fields when no contacts exist at all.
func (s *Store) primaryContactLocked() *ContactCard {
	if c := client.PrimaryContact(s.contacts.items); c != nil {
		return &ContactCard{
			Name:         c.Name,
			Relationship: deref(c.Relationship),
			Phone:        deref(c.Phone),
			Email:        deref(c.Email),
		}
	}
	if s.client != nil && (s.client.BillingContactName != "" || s.client.BillingContactEmail != "") {
		return &ContactCard{
			Name:         s.client.BillingContactName,
			Relationship: "billing contact",
			Email:        s.client.BillingContactEmail,
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
