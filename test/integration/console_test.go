package integration_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elderflowhq/console/internal/api"
	"github.com/elderflowhq/console/internal/auth"
	"github.com/elderflowhq/console/internal/chart"
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
	"github.com/elderflowhq/console/internal/domain/note"
	"github.com/elderflowhq/console/internal/domain/org"
	"github.com/elderflowhq/console/internal/stubserver"
)

type testEnv struct {
	server  *httptest.Server
	session *auth.FileStore
	api     *api.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := stubserver.NewDB(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	srv := stubserver.NewServer(db, "test-secret", nil)
	require.NoError(t, srv.Seed(context.Background()))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	session := auth.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	client, err := api.New(ts.URL, session)
	require.NoError(t, err)

	return &testEnv{server: ts, session: session, api: client}
}

func (env *testEnv) login(t *testing.T, email string) {
	t.Helper()
	creds, err := env.api.Login(context.Background(), email, "password")
	require.NoError(t, err)
	require.NoError(t, env.session.Save(creds))
}

func (env *testEnv) seededClientID(t *testing.T) string {
	t.Helper()
	clients, err := env.api.ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, "Eleanor Vance", clients[0].Name)
	return clients[0].ID
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.api.Login(context.Background(), "admin@example.com", "wrong")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.Status)
	require.Equal(t, "invalid email or password", apiErr.Message)
}

func TestRequestsWithoutSessionFail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.api.ListClients(context.Background())
	require.ErrorIs(t, err, auth.ErrNotLoggedIn)
}

func TestChartLoadAndSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")
	clientID := env.seededClientID(t)

	store := chart.NewStore(chart.APIBindings(env.api), nil)
	store.Load(context.Background(), clientID)

	rec := store.Client()
	require.Equal(t, chart.Loaded, rec.State)
	require.Equal(t, "Eleanor Vance", rec.Client.Name)

	for name, state := range map[string]chart.State{
		"activities":     store.Activities().State,
		"invoices":       store.Invoices().State,
		"notes":          store.Notes().State,
		"contacts":       store.Contacts().State,
		"providers":      store.Providers().State,
		"medications":    store.Medications().State,
		"allergies":      store.Allergies().State,
		"insurance":      store.Insurance().State,
		"risks":          store.Risks().State,
		"documents":      store.Documents().State,
		"care plans":     store.CarePlans().State,
		"progress notes": store.ProgressNotes().State,
		"audit log":      store.AuditLog().State,
	} {
		require.Equal(t, chart.Loaded, state, "collection %s", name)
	}

	snap := store.Snapshot()
	require.InDelta(t, 2.0, snap.TotalHours, 0.001)
	require.Equal(t, 1, snap.OpenInvoiceCount)
	require.Equal(t, "2026-08-28", snap.LastActivityDate)
	require.NotNil(t, snap.PrimaryContact)
	require.Equal(t, "Marcus Vance", snap.PrimaryContact.Name)
	require.Equal(t, "Penicillin (Severe)", snap.TopAllergyLabel)
	require.Equal(t, "Falls (High)", snap.TopRiskLabel)
	require.Equal(t, "Medicare · Part B · MB-4417", snap.PrimaryInsurance)
}

func TestNoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "cm@example.com")
	clientID := env.seededClientID(t)

	accept := true
	store := chart.NewStore(chart.APIBindings(env.api), nil,
		chart.WithConfirmer(chart.ConfirmFunc(func(string) bool { return accept })))
	store.Load(context.Background(), clientID)
	before := len(store.Notes().Items)

	created, err := store.AddNote(context.Background(), note.Note{Content: "Check in after PT visit"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Ruth Okafor", created.AuthorName)

	notes := store.Notes().Items
	require.Len(t, notes, before+1)
	require.Equal(t, created.ID, notes[0].ID)

	// declined confirmation leaves the note alone, with no server call
	accept = false
	err = store.RemoveNote(context.Background(), created.ID)
	require.ErrorIs(t, err, chart.ErrDeleteCancelled)
	require.Len(t, store.Notes().Items, before+1)

	accept = true
	require.NoError(t, store.RemoveNote(context.Background(), created.ID))
	require.Len(t, store.Notes().Items, before)
}

func TestContactCreateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")
	clientID := env.seededClientID(t)

	store := chart.NewStore(chart.APIBindings(env.api), nil)
	store.Load(context.Background(), clientID)
	before := len(store.Contacts().Items)

	rel := "Neighbor"
	created, err := store.AddContact(context.Background(), client.Contact{
		Name:         "Pat Lee",
		Relationship: &rel,
	})
	require.NoError(t, err)
	require.Len(t, store.Contacts().Items, before+1)

	// reload sees exactly one record with the new id
	fresh := chart.NewStore(chart.APIBindings(env.api), nil)
	fresh.Load(context.Background(), clientID)
	matches := 0
	for _, c := range fresh.Contacts().Items {
		if c.ID == created.ID {
			matches++
		}
	}
	require.Equal(t, 1, matches)

	require.NoError(t, store.RemoveContact(context.Background(), created.ID))
	require.Len(t, store.Contacts().Items, before)

	// deleting an id the server no longer has surfaces the failure and
	// leaves local state unchanged
	err = store.RemoveContact(context.Background(), created.ID)
	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 404, apiErr.Status)
	require.Len(t, store.Contacts().Items, before)
}

func TestPlanGoals(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")
	clientID := env.seededClientID(t)

	store := chart.NewStore(chart.APIBindings(env.api), nil)
	store.Load(context.Background(), clientID)

	plans := store.CarePlans().Items
	require.Len(t, plans, 1)

	require.NoError(t, store.OpenPlan(context.Background(), plans[0].ID))
	detail := store.PlanDetail()
	require.Equal(t, chart.PlanOpen, detail.State)
	require.Len(t, detail.Goals, 1)
	require.Equal(t, "Install grab bars in bathroom", detail.Goals[0].Title)

	created, err := store.AddGoal(context.Background(), care.Goal{
		Title:  "Schedule PT evaluation",
		Status: "not_started",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, store.PlanDetail().Goals, 2)
}

func TestActivityEditMergesServerResponse(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")
	clientID := env.seededClientID(t)

	store := chart.NewStore(chart.APIBindings(env.api), nil)
	store.Load(context.Background(), clientID)

	acts := store.Activities().Items
	require.Len(t, acts, 2)
	target := acts[0]

	newNotes := "Rescheduled from Tuesday"
	updated, err := store.UpdateActivity(context.Background(), target.ID, activity.Patch{
		Notes: &newNotes,
	})
	require.NoError(t, err)
	require.Equal(t, newNotes, updated.Notes)
	require.Equal(t, target.DurationMinutes, updated.DurationMinutes)

	for _, a := range store.Activities().Items {
		if a.ID == target.ID {
			require.Equal(t, newNotes, a.Notes)
		}
	}
}

func TestFaceSheetDownload(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")
	clientID := env.seededClientID(t)

	data, err := env.api.FaceSheet(context.Background(), clientID)
	require.NoError(t, err)
	require.Contains(t, string(data), "Eleanor Vance")
	require.Contains(t, string(data), "Lisinopril")
}

func TestOrgSettingsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")

	settings, err := env.api.OrgSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Evergreen Senior Care", settings.Name)

	settings.Name = "Evergreen Senior Care LLC"
	saved, err := env.api.SaveOrgSettings(context.Background(), settings)
	require.NoError(t, err)
	require.Equal(t, "Evergreen Senior Care LLC", saved.Name)

	again, err := env.api.OrgSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Evergreen Senior Care LLC", again.Name)
}

func TestServiceTypeBulkSync(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")

	synced, err := env.api.BulkSyncServiceTypes(context.Background(), []activity.ServiceType{
		{Name: "Transport", HourlyRate: 40},
		{Name: "Respite Care", HourlyRate: 55},
	})
	require.NoError(t, err)
	require.Len(t, synced, 2)

	types, err := env.api.ServiceTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
}

func TestUsersAndAudit(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin@example.com")
	clientID := env.seededClientID(t)

	created, err := env.api.CreateUser(context.Background(), org.Account{
		Name:  "Leah Brandt",
		Email: "leah@example.com",
		Role:  "care_manager",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	users, err := env.api.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)

	// mutations appear in the audit trail with the acting user's name
	store := chart.NewStore(chart.APIBindings(env.api), nil)
	store.Load(context.Background(), clientID)
	_, err = store.AddAllergy(context.Background(), care.Allergy{Allergen: "Latex"})
	require.NoError(t, err)

	entries, err := env.api.ClientAuditLog(context.Background(), clientID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Equal(t, "allergies", entries[0].EntityType)
	require.Equal(t, "created", entries[0].Action)
	require.NotNil(t, entries[0].UserName)
	require.Equal(t, "Dana Whitfield", *entries[0].UserName)
}

func TestCMSummary(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "cm@example.com")

	summary, err := env.api.CMSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.ClientCount)
	require.Equal(t, 1, summary.OpenInvoices)
	require.Equal(t, 1, summary.FlaggedClients)
}
