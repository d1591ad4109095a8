// Package service contains the lead pipeline business logic.
package service

import (
	"context"
	"time"

	"climstore_backend/internal/events"
	"climstore_backend/internal/leads/repository"
	"climstore_backend/internal/leads/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/phone"

	"github.com/google/uuid"
)

const defaultSource = "website"

// Service implements the lead use cases.
type Service struct {
	repo   repository.Repository
	bus    events.Bus
	logger *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: log}
}

// Create captures a new lead in status new.
func (s *Service) Create(ctx context.Context, req *transport.CreateLeadRequest) (*transport.LeadResponse, error) {
	source := req.Source
	if source == "" {
		source = defaultSource
	}

	now := time.Now().UTC()
	lead := &repository.Lead{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      phone.NormalizeE164(req.Phone),
		PostalCode: req.PostalCode,
		City:       req.City,
		Source:     source,
		Status:     transport.StatusNew,
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Name:      lead.Name,
			Email:     lead.Email,
			Source:    lead.Source,
		})
	}

	return toResponse(lead, nil), nil
}

// GetByID returns a lead with its notes.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.GetNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(lead, notes), nil
}

// List returns leads matching the filters, newest first, without notes.
func (s *Service) List(ctx context.Context, req *transport.ListLeadsRequest) (*transport.LeadListResponse, error) {
	if req.Status != "" && !transport.StatusMachine.Known(req.Status) {
		return nil, apperr.Validation("unknown lead status " + req.Status)
	}

	leads, err := s.repo.List(ctx, repository.ListParams{Status: req.Status, Source: req.Source})
	if err != nil {
		return nil, err
	}

	resp := &transport.LeadListResponse{
		Leads: make([]transport.LeadResponse, 0, len(leads)),
		Total: len(leads),
	}
	for i := range leads {
		resp.Leads = append(resp.Leads, *toResponse(&leads[i], nil))
	}
	return resp, nil
}

// Update rewrites the contact fields of a lead.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *transport.UpdateLeadRequest) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lead.Name = req.Name
	lead.Email = req.Email
	lead.Phone = phone.NormalizeE164(req.Phone)
	lead.PostalCode = req.PostalCode
	lead.City = req.City
	if req.Source != "" {
		lead.Source = req.Source
	}
	lead.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// ChangeStatus moves a lead through the pipeline.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus string) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transport.StatusMachine.Transition(lead.Status, newStatus); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, lead.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.Conflict("lead status changed concurrently, retry")
	}
	return s.GetByID(ctx, id)
}

// AddNote appends a note to a lead.
func (s *Service) AddNote(ctx context.Context, id uuid.UUID, content string) (*transport.LeadResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	note := &repository.Note{
		ID:        uuid.New(),
		LeadID:    id,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddNote(ctx, note); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AddTags merges tags into the lead's tag set.
func (s *Service) AddTags(ctx context.Context, id uuid.UUID, tags []string) (*transport.LeadResponse, error) {
	if err := s.repo.AddTags(ctx, id, tags); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func toResponse(lead *repository.Lead, notes []repository.Note) *transport.LeadResponse {
	resp := &transport.LeadResponse{
		ID:         lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		PostalCode: lead.PostalCode,
		City:       lead.City,
		Source:     lead.Source,
		Status:     lead.Status,
		Tags:       lead.Tags,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, transport.Note{ID: n.ID, Content: n.Content, CreatedAt: n.CreatedAt})
	}
	return resp
}
