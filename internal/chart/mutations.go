package chart

import (
	"context"

	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
	"github.com/elderflowhq/console/internal/domain/note"
)

type validatable interface {
	Validate() error
}

// addRecord is the uniform create command: validate, POST, and prepend the
// server's normalized copy. Local state is untouched on any failure.
func addRecord[T validatable](ctx context.Context, s *Store, col *collection[T], ops CollectionOps[T], payload T) (T, error) {
	var zero T
	if err := payload.Validate(); err != nil {
		return zero, err
	}
	clientID := s.ClientID()
	if clientID == "" {
		return zero, ErrNoClient
	}
	created, err := ops.Create(ctx, clientID, payload)
	if err != nil {
		return zero, err
	}
	s.mu.Lock()
	col.prepend(created)
	s.rev++
	s.mu.Unlock()
	return created, nil
}

// removeRecord is the uniform delete command: DELETE, then drop the record
// locally only after the server confirmed. A failed call leaves the
// collection unchanged.
func removeRecord[T any](ctx context.Context, s *Store, col *collection[T], ops CollectionOps[T], id string) error {
	clientID := s.ClientID()
	if clientID == "" {
		return ErrNoClient
	}
	if err := ops.Delete(ctx, clientID, id); err != nil {
		return err
	}
	s.mu.Lock()
	col.removeByID(id)
	s.rev++
	s.mu.Unlock()
	return nil
}

func (s *Store) AddContact(ctx context.Context, c client.Contact) (client.Contact, error) {
	return addRecord(ctx, s, s.contacts, s.b.Contacts, c)
}

func (s *Store) RemoveContact(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.contacts, s.b.Contacts, id)
}

func (s *Store) AddProvider(ctx context.Context, p care.Provider) (care.Provider, error) {
	return addRecord(ctx, s, s.providers, s.b.Providers, p)
}

func (s *Store) RemoveProvider(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.providers, s.b.Providers, id)
}

func (s *Store) AddMedication(ctx context.Context, m care.Medication) (care.Medication, error) {
	return addRecord(ctx, s, s.medications, s.b.Medications, m)
}

func (s *Store) RemoveMedication(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.medications, s.b.Medications, id)
}

func (s *Store) AddAllergy(ctx context.Context, a care.Allergy) (care.Allergy, error) {
	return addRecord(ctx, s, s.allergies, s.b.Allergies, a)
}

func (s *Store) RemoveAllergy(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.allergies, s.b.Allergies, id)
}

func (s *Store) AddInsurance(ctx context.Context, i client.Insurance) (client.Insurance, error) {
	return addRecord(ctx, s, s.insurance, s.b.Insurance, i)
}

func (s *Store) RemoveInsurance(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.insurance, s.b.Insurance, id)
}

func (s *Store) AddRisk(ctx context.Context, r care.Risk) (care.Risk, error) {
	return addRecord(ctx, s, s.risks, s.b.Risks, r)
}

func (s *Store) RemoveRisk(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.risks, s.b.Risks, id)
}

func (s *Store) AddDocument(ctx context.Context, d client.Document) (client.Document, error) {
	return addRecord(ctx, s, s.documents, s.b.Documents, d)
}

func (s *Store) RemoveDocument(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.documents, s.b.Documents, id)
}

func (s *Store) AddCarePlan(ctx context.Context, p care.CarePlan) (care.CarePlan, error) {
	return addRecord(ctx, s, s.carePlans, s.b.CarePlans, p)
}

func (s *Store) RemoveCarePlan(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.carePlans, s.b.CarePlans, id)
}

func (s *Store) AddProgressNote(ctx context.Context, n care.ProgressNote) (care.ProgressNote, error) {
	return addRecord(ctx, s, s.progressNotes, s.b.ProgressNotes, n)
}

func (s *Store) RemoveProgressNote(ctx context.Context, id string) error {
	return removeRecord(ctx, s, s.progressNotes, s.b.ProgressNotes, id)
}

func (s *Store) AddNote(ctx context.Context, n note.Note) (note.Note, error) {
	return addRecord(ctx, s, s.notes, s.b.Notes, n)
}

// RemoveNote prompts before deleting; the other deletes leave confirmation
// to the view layer.
func (s *Store) RemoveNote(ctx context.Context, id string) error {
	if s.confirm != nil && !s.confirm.Confirm("Delete this note?") {
		return ErrDeleteCancelled
	}
	return removeRecord(ctx, s, s.notes, s.b.Notes, id)
}

// UpdateActivity patches an activity on the detail page and merges the
// result back: the server's returned fields win over the submitted edit,
// which wins over the record previously held.
func (s *Store) UpdateActivity(ctx context.Context, id string, patch activity.Patch) (activity.Activity, error) {
	resp, err := s.b.UpdateActivity(ctx, id, patch)
	if err != nil {
		return activity.Activity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.activities.items {
		if s.activities.items[i].ID == id {
			merged := activity.Merge(s.activities.items[i], patch, resp)
			s.activities.items[i] = merged
			s.rev++
			return merged, nil
		}
	}
	// edited before the chart finished loading; nothing local to merge into
	return activity.Merge(activity.Activity{ID: id}, patch, resp), nil
}
