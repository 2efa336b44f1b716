package chart_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elderflowhq/console/internal/api"
	"github.com/elderflowhq/console/internal/auth"
	"github.com/elderflowhq/console/internal/chart"
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/audit"
	"github.com/elderflowhq/console/internal/domain/billing"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
	"github.com/elderflowhq/console/internal/domain/note"
)

func emptyOps[T any]() chart.CollectionOps[T] {
	return chart.CollectionOps[T]{
		List:   func(ctx context.Context, clientID string) ([]T, error) { return nil, nil },
		Create: func(ctx context.Context, clientID string, p T) (T, error) { return p, nil },
		Delete: func(ctx context.Context, clientID, id string) error { return nil },
	}
}

// baseBindings is a backend where every collection loads empty and every
// mutation succeeds by echoing its payload.
func baseBindings() chart.Bindings {
	return chart.Bindings{
		Client: func(ctx context.Context, id string) (*client.Client, error) {
			return &client.Client{ID: id, Name: "Edith Palmer", Status: "active"}, nil
		},
		Activities: func(ctx context.Context, clientID string) ([]activity.Activity, error) {
			return nil, nil
		},
		UpdateActivity: func(ctx context.Context, id string, patch activity.Patch) (activity.Patch, error) {
			return activity.Patch{}, nil
		},
		Invoices: func(ctx context.Context, clientID string) ([]billing.Invoice, error) {
			return nil, nil
		},
		AuditLog: func(ctx context.Context, clientID string) ([]audit.Entry, error) {
			return nil, nil
		},
		Goals: func(ctx context.Context, planID string) ([]care.Goal, error) {
			return nil, nil
		},
		CreateGoal: func(ctx context.Context, planID string, g care.Goal) (care.Goal, error) {
			g.ID = "g-created"
			g.PlanID = planID
			return g, nil
		},
		Notes:         emptyOps[note.Note](),
		Contacts:      emptyOps[client.Contact](),
		Providers:     emptyOps[care.Provider](),
		Medications:   emptyOps[care.Medication](),
		Allergies:     emptyOps[care.Allergy](),
		Insurance:     emptyOps[client.Insurance](),
		Risks:         emptyOps[care.Risk](),
		Documents:     emptyOps[client.Document](),
		CarePlans:     emptyOps[care.CarePlan](),
		ProgressNotes: emptyOps[care.ProgressNote](),
	}
}

func TestStore_Load_AllCollectionsSettle(t *testing.T) {
	b := baseBindings()
	b.Contacts.List = func(ctx context.Context, clientID string) ([]client.Contact, error) {
		return []client.Contact{{ID: "x1", Name: "Jane"}}, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	rec := store.Client()
	require.Equal(t, chart.Loaded, rec.State)
	require.Equal(t, "Edith Palmer", rec.Client.Name)

	contacts := store.Contacts()
	require.Equal(t, chart.Loaded, contacts.State)
	require.Len(t, contacts.Items, 1)

	for _, state := range []chart.State{
		store.Activities().State, store.Invoices().State, store.Notes().State,
		store.Providers().State, store.Medications().State, store.Allergies().State,
		store.Insurance().State, store.Risks().State, store.Documents().State,
		store.CarePlans().State, store.ProgressNotes().State, store.AuditLog().State,
	} {
		require.Equal(t, chart.Loaded, state)
	}
}

func TestStore_Load_FailureIsIsolated(t *testing.T) {
	b := baseBindings()
	b.Insurance.List = func(ctx context.Context, clientID string) ([]client.Insurance, error) {
		return nil, &api.APIError{Status: http.StatusInternalServerError, Message: "insurance service down"}
	}
	b.Medications.List = func(ctx context.Context, clientID string) ([]care.Medication, error) {
		return nil, errors.New("connection reset")
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	ins := store.Insurance()
	require.Equal(t, chart.LoadError, ins.State)
	require.Equal(t, "insurance service down", ins.Err)
	require.Empty(t, ins.Items)

	meds := store.Medications()
	require.Equal(t, chart.LoadError, meds.State)
	require.Equal(t, "Failed to load medications", meds.Err)

	// siblings are untouched by the failures
	require.Equal(t, chart.Loaded, store.Contacts().State)
	require.Equal(t, chart.Loaded, store.Activities().State)
	require.Equal(t, chart.Loaded, store.Client().State)
}

func TestStore_Load_NotLoggedInMessage(t *testing.T) {
	b := baseBindings()
	b.Contacts.List = func(ctx context.Context, clientID string) ([]client.Contact, error) {
		return nil, auth.ErrNotLoggedIn
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	contacts := store.Contacts()
	require.Equal(t, chart.LoadError, contacts.State)
	require.Equal(t, "You are not logged in. Please log in again.", contacts.Err)
}

func TestStore_AddContact_PrependsServerCopy(t *testing.T) {
	b := baseBindings()
	b.Contacts.List = func(ctx context.Context, clientID string) ([]client.Contact, error) {
		return []client.Contact{{ID: "x1", Name: "Jane"}}, nil
	}
	b.Contacts.Create = func(ctx context.Context, clientID string, p client.Contact) (client.Contact, error) {
		p.ID = "x2"
		p.CreatedAt = "2024-06-01T00:00:00Z"
		return p, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	created, err := store.AddContact(context.Background(), client.Contact{Name: "Marcus"})
	require.NoError(t, err)
	require.Equal(t, "x2", created.ID)

	items := store.Contacts().Items
	require.Len(t, items, 2)
	require.Equal(t, "x2", items[0].ID, "created record is prepended")
	require.Equal(t, "x1", items[1].ID)

	seen := 0
	for _, c := range items {
		if c.ID == "x2" {
			seen++
		}
	}
	require.Equal(t, 1, seen, "exactly one record carries the new id")
}

func TestStore_AddContact_ValidationShortCircuits(t *testing.T) {
	var calls atomic.Int32
	b := baseBindings()
	b.Contacts.Create = func(ctx context.Context, clientID string, p client.Contact) (client.Contact, error) {
		calls.Add(1)
		return p, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	_, err := store.AddContact(context.Background(), client.Contact{Name: "   "})
	require.ErrorIs(t, err, client.ErrInvalidInput)
	require.Equal(t, int32(0), calls.Load(), "no network call on validation failure")
	require.Empty(t, store.Contacts().Items)
}

func TestStore_AddContact_FailureLeavesStateUnchanged(t *testing.T) {
	b := baseBindings()
	b.Contacts.List = func(ctx context.Context, clientID string) ([]client.Contact, error) {
		return []client.Contact{{ID: "x1", Name: "Jane"}}, nil
	}
	b.Contacts.Create = func(ctx context.Context, clientID string, p client.Contact) (client.Contact, error) {
		return client.Contact{}, &api.APIError{Status: http.StatusBadRequest, Message: "phone is invalid"}
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	_, err := store.AddContact(context.Background(), client.Contact{Name: "Marcus"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "phone is invalid", chart.Message(err, "Failed to save contact"))

	items := store.Contacts().Items
	require.Len(t, items, 1)
	require.Equal(t, "x1", items[0].ID)
}

func TestStore_RemoveContact(t *testing.T) {
	b := baseBindings()
	b.Contacts.List = func(ctx context.Context, clientID string) ([]client.Contact, error) {
		return []client.Contact{{ID: "x1"}, {ID: "x2"}, {ID: "x3"}}, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	require.NoError(t, store.RemoveContact(context.Background(), "x2"))
	items := store.Contacts().Items
	require.Len(t, items, 2)
	for _, c := range items {
		require.NotEqual(t, "x2", c.ID)
	}
}

func TestStore_RemoveContact_MissingIDIsNoOp(t *testing.T) {
	var deleteCalls atomic.Int32
	b := baseBindings()
	b.Contacts.List = func(ctx context.Context, clientID string) ([]client.Contact, error) {
		return []client.Contact{{ID: "x1"}}, nil
	}
	b.Contacts.Delete = func(ctx context.Context, clientID, id string) error {
		deleteCalls.Add(1)
		return &api.APIError{Status: http.StatusNotFound, Message: "contact not found"}
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	err := store.RemoveContact(context.Background(), "ghost")
	require.Error(t, err)
	require.Equal(t, int32(1), deleteCalls.Load(), "the server call is still attempted")
	require.Len(t, store.Contacts().Items, 1, "a failed delete never corrupts the collection")
}

func TestStore_MutationWithoutLoadedClient(t *testing.T) {
	store := chart.NewStore(baseBindings(), nil)
	_, err := store.AddContact(context.Background(), client.Contact{Name: "Jane"})
	require.ErrorIs(t, err, chart.ErrNoClient)
}

func TestStore_RemoveNote_ConfirmDeclined(t *testing.T) {
	var deleteCalls atomic.Int32
	b := baseBindings()
	b.Notes.List = func(ctx context.Context, clientID string) ([]note.Note, error) {
		return []note.Note{{ID: "n1", Content: "call family"}}, nil
	}
	b.Notes.Delete = func(ctx context.Context, clientID, id string) error {
		deleteCalls.Add(1)
		return nil
	}

	store := chart.NewStore(b, nil, chart.WithConfirmer(chart.ConfirmFunc(func(string) bool { return false })))
	store.Load(context.Background(), "c1")

	err := store.RemoveNote(context.Background(), "n1")
	require.ErrorIs(t, err, chart.ErrDeleteCancelled)
	require.Equal(t, int32(0), deleteCalls.Load(), "declining the prompt skips the network call")
	require.Len(t, store.Notes().Items, 1)
}

func TestStore_RemoveNote_ConfirmAccepted(t *testing.T) {
	b := baseBindings()
	b.Notes.List = func(ctx context.Context, clientID string) ([]note.Note, error) {
		return []note.Note{{ID: "n1", Content: "call family"}}, nil
	}

	store := chart.NewStore(b, nil, chart.WithConfirmer(chart.ConfirmFunc(func(string) bool { return true })))
	store.Load(context.Background(), "c1")

	require.NoError(t, store.RemoveNote(context.Background(), "n1"))
	require.Empty(t, store.Notes().Items)
}

func TestStore_UpdateActivity_MergePrecedence(t *testing.T) {
	notes := "normalized by server"
	b := baseBindings()
	b.Activities = func(ctx context.Context, clientID string) ([]activity.Activity, error) {
		return []activity.Activity{{ID: "a1", StartTime: "2024-01-01T09:00:00Z", DurationMinutes: 60, Notes: "original"}}, nil
	}
	b.UpdateActivity = func(ctx context.Context, id string, patch activity.Patch) (activity.Patch, error) {
		return activity.Patch{Notes: &notes}, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	edited := "edited locally"
	minutes := 75
	merged, err := store.UpdateActivity(context.Background(), "a1", activity.Patch{
		Notes:           &edited,
		DurationMinutes: &minutes,
	})
	require.NoError(t, err)
	require.Equal(t, "normalized by server", merged.Notes, "server field wins")
	require.Equal(t, 75, merged.DurationMinutes, "edit wins where server is silent")
	require.Equal(t, "2024-01-01T09:00:00Z", merged.StartTime, "stored value survives untouched fields")

	items := store.Activities().Items
	require.Len(t, items, 1)
	require.Equal(t, merged, items[0])
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", chart.Message(nil, "fallback"))
	require.Equal(t, "You are not logged in. Please log in again.",
		chart.Message(auth.ErrNotLoggedIn, "fallback"))
	require.Equal(t, "boom",
		chart.Message(&api.APIError{Status: 500, Message: "boom"}, "fallback"))
	require.Equal(t, "fallback", chart.Message(errors.New("dial tcp: refused"), "fallback"))
}
