package chart

import (
	"context"

	"github.com/elderflowhq/console/internal/api"
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/audit"
	"github.com/elderflowhq/console/internal/domain/billing"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
	"github.com/elderflowhq/console/internal/domain/note"
)

// CollectionOps are the fetch and mutation calls for one uniform
// client-scoped sub-resource.
type CollectionOps[T any] struct {
	List   func(ctx context.Context, clientID string) ([]T, error)
	Create func(ctx context.Context, clientID string, payload T) (T, error)
	Delete func(ctx context.Context, clientID, id string) error
}

// Bindings wires the store to the backend. Production code builds it with
// APIBindings; tests swap in fakes per collection.
type Bindings struct {
	Client         func(ctx context.Context, id string) (*client.Client, error)
	Activities     func(ctx context.Context, clientID string) ([]activity.Activity, error)
	UpdateActivity func(ctx context.Context, id string, patch activity.Patch) (activity.Patch, error)
	Invoices       func(ctx context.Context, clientID string) ([]billing.Invoice, error)
	AuditLog       func(ctx context.Context, clientID string) ([]audit.Entry, error)
	Goals          func(ctx context.Context, planID string) ([]care.Goal, error)
	CreateGoal     func(ctx context.Context, planID string, g care.Goal) (care.Goal, error)

	Notes         CollectionOps[note.Note]
	Contacts      CollectionOps[client.Contact]
	Providers     CollectionOps[care.Provider]
	Medications   CollectionOps[care.Medication]
	Allergies     CollectionOps[care.Allergy]
	Insurance     CollectionOps[client.Insurance]
	Risks         CollectionOps[care.Risk]
	Documents     CollectionOps[client.Document]
	CarePlans     CollectionOps[care.CarePlan]
	ProgressNotes CollectionOps[care.ProgressNote]
}

func resourceOps[T any](c *api.Client, name string) CollectionOps[T] {
	res := api.NewResource[T](c, name)
	return CollectionOps[T]{List: res.List, Create: res.Create, Delete: res.Delete}
}

// APIBindings builds the production wiring over the REST client. Each
// uniform sub-resource is one generic resource instantiation.
func APIBindings(c *api.Client) Bindings {
	return Bindings{
		Client:         c.GetClient,
		Activities:     c.ListActivities,
		UpdateActivity: c.UpdateActivity,
		Invoices:       c.ListInvoices,
		AuditLog:       c.ClientAuditLog,
		Goals:          c.ListGoals,
		CreateGoal:     c.CreateGoal,
		Notes:          resourceOps[note.Note](c, "notes"),
		Contacts:       resourceOps[client.Contact](c, "contacts"),
		Providers:      resourceOps[care.Provider](c, "providers"),
		Medications:    resourceOps[care.Medication](c, "medications"),
		Allergies:      resourceOps[care.Allergy](c, "allergies"),
		Insurance:      resourceOps[client.Insurance](c, "insurance"),
		Risks:          resourceOps[care.Risk](c, "risks"),
		Documents:      resourceOps[client.Document](c, "documents"),
		CarePlans:      resourceOps[care.CarePlan](c, "care-plans"),
		ProgressNotes:  resourceOps[care.ProgressNote](c, "progress-notes"),
	}
}
