package chart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elderflowhq/console/internal/chart"
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/billing"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
)

func strPtr(s string) *string { return &s }

func TestSnapshot_Derivation(t *testing.T) {
	b := baseBindings()
	b.Activities = func(ctx context.Context, clientID string) ([]activity.Activity, error) {
		return []activity.Activity{
			{ID: "a1", StartTime: "2024-01-05T09:00:00Z", DurationMinutes: 90},
			{ID: "a2", StartTime: "2024-03-01T10:00:00Z", DurationMinutes: 30},
		}, nil
	}
	b.Invoices = func(ctx context.Context, clientID string) ([]billing.Invoice, error) {
		return []billing.Invoice{
			{ID: "i1", Status: billing.StatusSent},
			{ID: "i2", Status: billing.StatusPaid},
			{ID: "i3", Status: billing.StatusOverdue},
			{ID: "i4", Status: billing.StatusDraft},
		}, nil
	}
	b.Contacts.List = func(ctx context.Context, clientID string) ([]client.Contact, error) {
		return []client.Contact{
			{ID: "x1", Name: "Jane"},
			{ID: "x2", Name: "Marcus", IsEmergencyContact: true, Phone: strPtr("555-0100")},
		}, nil
	}
	b.Allergies.List = func(ctx context.Context, clientID string) ([]care.Allergy, error) {
		return []care.Allergy{
			{ID: "al1", Allergen: "Penicillin", Severity: strPtr("Mild")},
			{ID: "al2", Allergen: "Peanuts", Severity: strPtr("Severe")},
		}, nil
	}
	b.Risks.List = func(ctx context.Context, clientID string) ([]care.Risk, error) {
		return []care.Risk{{ID: "r1", Category: "Falls", Severity: strPtr("High")}}, nil
	}
	b.Insurance.List = func(ctx context.Context, clientID string) ([]client.Insurance, error) {
		return []client.Insurance{
			{ID: "in1", Carrier: strPtr("Acme Health")},
			{ID: "in2", Carrier: strPtr("Medicare"), InsuranceType: strPtr("Part B"), PolicyNumber: strPtr("MB-1001"), Primary: true},
		}, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	snap := store.Snapshot()
	require.InDelta(t, 2.0, snap.TotalHours, 1e-9)
	require.Equal(t, 2, snap.OpenInvoiceCount)
	require.Equal(t, "2024-03-01", snap.LastActivityDate)
	require.NotNil(t, snap.PrimaryContact)
	require.Equal(t, "Marcus", snap.PrimaryContact.Name)
	require.Equal(t, "555-0100", snap.PrimaryContact.Phone)
	require.Equal(t, "Peanuts (Severe)", snap.TopAllergyLabel)
	require.Equal(t, "Falls (High)", snap.TopRiskLabel)
	require.Equal(t, "Medicare · Part B · MB-1001", snap.PrimaryInsurance)
}

func TestSnapshot_EmptyChart(t *testing.T) {
	store := chart.NewStore(baseBindings(), nil)
	store.Load(context.Background(), "c1")

	snap := store.Snapshot()
	require.InDelta(t, 0.0, snap.TotalHours, 1e-9)
	require.Equal(t, 0, snap.OpenInvoiceCount)
	require.Equal(t, "", snap.LastActivityDate)
	require.Equal(t, "", snap.TopAllergyLabel)
	require.Equal(t, "", snap.TopRiskLabel)
	require.Equal(t, "", snap.PrimaryInsurance)
}

func TestSnapshot_BillingContactFallback(t *testing.T) {
	b := baseBindings()
	b.Client = func(ctx context.Context, id string) (*client.Client, error) {
		return &client.Client{
			ID:                  id,
			Name:                "Edith Palmer",
			BillingContactName:  "Robert Palmer",
			BillingContactEmail: "robert@example.com",
		}, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	snap := store.Snapshot()
	require.NotNil(t, snap.PrimaryContact)
	require.Equal(t, "Robert Palmer", snap.PrimaryContact.Name)
	require.Equal(t, "robert@example.com", snap.PrimaryContact.Email)
}

func TestSnapshot_RecomputesAfterMutation(t *testing.T) {
	b := baseBindings()
	b.Allergies.Create = func(ctx context.Context, clientID string, a care.Allergy) (care.Allergy, error) {
		a.ID = "al-new"
		return a, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	require.Equal(t, "", store.Snapshot().TopAllergyLabel)

	_, err := store.AddAllergy(context.Background(), care.Allergy{Allergen: "Latex", Severity: strPtr("Severe")})
	require.NoError(t, err)
	require.Equal(t, "Latex (Severe)", store.Snapshot().TopAllergyLabel)
}

func TestSnapshot_CachedBetweenChanges(t *testing.T) {
	store := chart.NewStore(baseBindings(), nil)
	store.Load(context.Background(), "c1")

	first := store.Snapshot()
	second := store.Snapshot()
	require.Equal(t, first, second)
}
