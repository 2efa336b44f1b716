package chart

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/audit"
	"github.com/elderflowhq/console/internal/domain/billing"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
	"github.com/elderflowhq/console/internal/domain/note"
)

// Confirmer approves destructive prompts. Note deletion consults it before
// any network call; every other delete confirms at the view layer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Store is the multi-resource state model behind the client detail view.
// Each sub-resource is loaded independently and fails independently; the
// snapshot is derived on demand from whatever has loaded so far.
type Store struct {
	mu      sync.Mutex
	b       Bindings
	logger  *slog.Logger
	confirm Confirmer

	clientID string
	rev      int64

	clientState State
	client      *client.Client
	clientErr   string

	activities    *collection[activity.Activity]
	invoices      *collection[billing.Invoice]
	notes         *collection[note.Note]
	contacts      *collection[client.Contact]
	providers     *collection[care.Provider]
	medications   *collection[care.Medication]
	allergies     *collection[care.Allergy]
	insurance     *collection[client.Insurance]
	risks         *collection[care.Risk]
	documents     *collection[client.Document]
	carePlans     *collection[care.CarePlan]
	progressNotes *collection[care.ProgressNote]
	auditLog      *collection[audit.Entry]

	plan planDetail

	snapRev  int64
	snapshot Snapshot
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithConfirmer installs the prompt used before note deletion.
func WithConfirmer(c Confirmer) StoreOption {
	return func(s *Store) { s.confirm = c }
}

// NewStore creates a store over the given backend bindings.
func NewStore(b Bindings, logger *slog.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		b:             b,
		logger:        logger,
		clientState:   NotLoaded,
		activities:    newCollection(func(a activity.Activity) string { return a.ID }),
		invoices:      newCollection(func(i billing.Invoice) string { return i.ID }),
		notes:         newCollection(func(n note.Note) string { return n.ID }),
		contacts:      newCollection(func(c client.Contact) string { return c.ID }),
		providers:     newCollection(func(p care.Provider) string { return p.ID }),
		medications:   newCollection(func(m care.Medication) string { return m.ID }),
		allergies:     newCollection(func(a care.Allergy) string { return a.ID }),
		insurance:     newCollection(func(i client.Insurance) string { return i.ID }),
		risks:         newCollection(func(r care.Risk) string { return r.ID }),
		documents:     newCollection(func(d client.Document) string { return d.ID }),
		carePlans:     newCollection(func(p care.CarePlan) string { return p.ID }),
		progressNotes: newCollection(func(n care.ProgressNote) string { return n.ID }),
		auditLog:      newCollection(func(e audit.Entry) string { return e.ID }),
		plan:          planDetail{state: PlanClosed},
		snapRev:       -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClientID returns the client the store is currently bound to.
func (s *Store) ClientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientID
}

// Load fetches every sub-resource for the given client. Each fetch runs in
// its own goroutine with no ordering between them; one failure never blocks
// or cancels a sibling. Load returns once all fetches have settled.
func (s *Store) Load(ctx context.Context, clientID string) {
	s.mu.Lock()
	s.clientID = clientID
	s.clientState = Loading
	s.clientErr = ""
	s.client = nil
	for _, begin := range []func(){
		s.activities.beginLoad, s.invoices.beginLoad, s.notes.beginLoad,
		s.contacts.beginLoad, s.providers.beginLoad, s.medications.beginLoad,
		s.allergies.beginLoad, s.insurance.beginLoad, s.risks.beginLoad,
		s.documents.beginLoad, s.carePlans.beginLoad, s.progressNotes.beginLoad,
		s.auditLog.beginLoad,
	} {
		begin()
	}
	s.rev++
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.loadClient(ctx, clientID)
	}()
	loadCollection(ctx, s, &wg, clientID, s.activities, s.b.Activities, "Failed to load activities")
	loadCollection(ctx, s, &wg, clientID, s.invoices, s.b.Invoices, "Failed to load invoices")
	loadCollection(ctx, s, &wg, clientID, s.notes, s.b.Notes.List, "Failed to load notes")
	loadCollection(ctx, s, &wg, clientID, s.contacts, s.b.Contacts.List, "Failed to load contacts")
	loadCollection(ctx, s, &wg, clientID, s.providers, s.b.Providers.List, "Failed to load providers")
	loadCollection(ctx, s, &wg, clientID, s.medications, s.b.Medications.List, "Failed to load medications")
	loadCollection(ctx, s, &wg, clientID, s.allergies, s.b.Allergies.List, "Failed to load allergies")
	loadCollection(ctx, s, &wg, clientID, s.insurance, s.b.Insurance.List, "Failed to load insurance")
	loadCollection(ctx, s, &wg, clientID, s.risks, s.b.Risks.List, "Failed to load risks")
	loadCollection(ctx, s, &wg, clientID, s.documents, s.b.Documents.List, "Failed to load documents")
	loadCollection(ctx, s, &wg, clientID, s.carePlans, s.b.CarePlans.List, "Failed to load care plans")
	loadCollection(ctx, s, &wg, clientID, s.progressNotes, s.b.ProgressNotes.List, "Failed to load progress notes")
	loadCollection(ctx, s, &wg, clientID, s.auditLog, s.b.AuditLog, "Failed to load audit log")
	wg.Wait()
}

func (s *Store) loadClient(ctx context.Context, clientID string) {
	rec, err := s.b.Client(ctx, clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("client load failed", "clientId", clientID, "error", err)
		s.clientState = LoadError
		s.clientErr = Message(err, "Failed to load client")
		s.rev++
		return
	}
	s.clientState = Loaded
	s.client = rec
	s.rev++
}

func loadCollection[T any](
	ctx context.Context,
	s *Store,
	wg *sync.WaitGroup,
	clientID string,
	col *collection[T],
	list func(context.Context, string) ([]T, error),
	fallback string,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		items, err := list(ctx, clientID)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.logger.Warn("collection load failed", "clientId", clientID, "error", err)
			col.fail(Message(err, fallback))
		} else {
			col.resolve(items)
		}
		s.rev++
	}()
}

// ClientRecord is the load state of the client aggregate root itself.
type ClientRecord struct {
	State  State
	Client *client.Client
	Err    string
}

func (s *Store) Client() ClientRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ClientRecord{State: s.clientState, Client: s.client, Err: s.clientErr}
}

func (s *Store) Activities() View[activity.Activity] { return viewOf(s, s.activities) }
func (s *Store) Invoices() View[billing.Invoice]     { return viewOf(s, s.invoices) }
func (s *Store) Notes() View[note.Note]              { return viewOf(s, s.notes) }
func (s *Store) Contacts() View[client.Contact]      { return viewOf(s, s.contacts) }
func (s *Store) Providers() View[care.Provider]      { return viewOf(s, s.providers) }
func (s *Store) Medications() View[care.Medication]  { return viewOf(s, s.medications) }
func (s *Store) Allergies() View[care.Allergy]       { return viewOf(s, s.allergies) }
func (s *Store) Insurance() View[client.Insurance]   { return viewOf(s, s.insurance) }
func (s *Store) Risks() View[care.Risk]              { return viewOf(s, s.risks) }
func (s *Store) Documents() View[client.Document]    { return viewOf(s, s.documents) }
func (s *Store) CarePlans() View[care.CarePlan]      { return viewOf(s, s.carePlans) }
func (s *Store) ProgressNotes() View[care.ProgressNote] {
	return viewOf(s, s.progressNotes)
}
func (s *Store) AuditLog() View[audit.Entry] { return viewOf(s, s.auditLog) }

func viewOf[T any](s *Store, col *collection[T]) View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return col.view()
}
