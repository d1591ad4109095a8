package service

import (
	"context"
	"testing"

	"climstore_backend/internal/leads/repository"
	"climstore_backend/internal/leads/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads map[uuid.UUID]*repository.Lead
	notes map[uuid.UUID][]repository.Note
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads: make(map[uuid.UUID]*repository.Lead),
		notes: make(map[uuid.UUID][]repository.Note),
	}
}

func (f *fakeRepo) Create(ctx context.Context, lead *repository.Lead) error {
	copied := *lead
	f.leads[lead.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, apperr.NotFound("lead not found")
	}
	copied := *lead
	return &copied, nil
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) ([]repository.Lead, error) {
	var out []repository.Lead
	for _, lead := range f.leads {
		if params.Status != "" && lead.Status != params.Status {
			continue
		}
		if params.Source != "" && lead.Source != params.Source {
			continue
		}
		out = append(out, *lead)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, lead *repository.Lead) error {
	stored, ok := f.leads[lead.ID]
	if !ok {
		return apperr.NotFound("lead not found")
	}
	lead.Status = stored.Status
	lead.Tags = stored.Tags
	copied := *lead
	f.leads[lead.ID] = &copied
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	lead, ok := f.leads[id]
	if !ok || lead.Status != from {
		return false, nil
	}
	lead.Status = to
	return true, nil
}

func (f *fakeRepo) AddTags(ctx context.Context, id uuid.UUID, tags []string) error {
	lead, ok := f.leads[id]
	if !ok {
		return apperr.NotFound("lead not found")
	}
	seen := make(map[string]bool)
	for _, t := range lead.Tags {
		seen[t] = true
	}
	for _, t := range tags {
		if !seen[t] {
			lead.Tags = append(lead.Tags, t)
			seen[t] = true
		}
	}
	return nil
}

func (f *fakeRepo) AddNote(ctx context.Context, note *repository.Note) error {
	f.notes[note.LeadID] = append(f.notes[note.LeadID], *note)
	return nil
}

func (f *fakeRepo) GetNotes(ctx context.Context, leadID uuid.UUID) ([]repository.Note, error) {
	return f.notes[leadID], nil
}

func newTestService() *Service {
	return New(newFakeRepo(), nil, logger.New("test"))
}

func TestCreateLead(t *testing.T) {
	svc := newTestService()

	lead, err := svc.Create(context.Background(), &transport.CreateLeadRequest{
		Name:  "Jean Martin",
		Email: "jean.martin@example.fr",
		Phone: "06 12 34 56 78",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if lead.Status != transport.StatusNew {
		t.Errorf("status = %q, want new", lead.Status)
	}
	if lead.Source != "website" {
		t.Errorf("source = %q, want default website", lead.Source)
	}
	if lead.Phone != "+33612345678" {
		t.Errorf("phone = %q, want normalized E.164", lead.Phone)
	}
}

func TestLeadPipeline(t *testing.T) {
	svc := newTestService()
	lead, err := svc.Create(context.Background(), &transport.CreateLeadRequest{Name: "Jean Martin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, status := range []string{"contacted", "qualified", "converted"} {
		updated, err := svc.ChangeStatus(context.Background(), lead.ID, status)
		if err != nil {
			t.Fatalf("-> %s: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("status = %q, want %q", updated.Status, status)
		}
	}

	_, err = svc.ChangeStatus(context.Background(), lead.ID, "lost")
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("converted -> lost error = %v, want invalid transition", err)
	}
}

func TestLeadLostFromAnyActiveStage(t *testing.T) {
	svc := newTestService()
	lead, err := svc.Create(context.Background(), &transport.CreateLeadRequest{Name: "Jean Martin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), lead.ID, "contacted"); err != nil {
		t.Fatalf("-> contacted: %v", err)
	}

	updated, err := svc.ChangeStatus(context.Background(), lead.ID, "lost")
	if err != nil {
		t.Fatalf("contacted -> lost: %v", err)
	}
	if updated.Status != transport.StatusLost {
		t.Errorf("status = %q, want lost", updated.Status)
	}
}

func TestAddNoteAppends(t *testing.T) {
	svc := newTestService()
	lead, err := svc.Create(context.Background(), &transport.CreateLeadRequest{Name: "Jean Martin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AddNote(context.Background(), lead.ID, "called, no answer"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	updated, err := svc.AddNote(context.Background(), lead.ID, "call back friday")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	if len(updated.Notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(updated.Notes))
	}
	if updated.Notes[0].Content != "called, no answer" {
		t.Errorf("first note = %q", updated.Notes[0].Content)
	}
}

func TestAddTagsDeduplicates(t *testing.T) {
	svc := newTestService()
	lead, err := svc.Create(context.Background(), &transport.CreateLeadRequest{Name: "Jean Martin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AddTags(context.Background(), lead.ID, []string{"hot", "paris"}); err != nil {
		t.Fatalf("AddTags: %v", err)
	}
	updated, err := svc.AddTags(context.Background(), lead.ID, []string{"hot", "b2b"})
	if err != nil {
		t.Fatalf("AddTags: %v", err)
	}

	if len(updated.Tags) != 3 {
		t.Errorf("tags = %v, want 3 unique", updated.Tags)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newTestService()

	_, err := svc.List(context.Background(), &transport.ListLeadsRequest{Status: "warm"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}
