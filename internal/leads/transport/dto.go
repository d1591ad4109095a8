// Package transport defines the request/response DTOs for the leads module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"climstore_backend/platform/fsm"
)

// Lead statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

// StatusMachine governs the lead pipeline. A lead can be lost at any point
// before conversion; converted and lost are terminal.
var StatusMachine = fsm.New("lead", map[string][]string{
	StatusNew:       {StatusContacted, StatusLost},
	StatusContacted: {StatusQualified, StatusLost},
	StatusQualified: {StatusConverted, StatusLost},
	StatusConverted: {},
	StatusLost:      {},
})

// CreateLeadRequest is the payload for POST /api/leads.
type CreateLeadRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Source     string `json:"source"`
}

// UpdateLeadRequest is the payload for PUT /api/leads/:id.
type UpdateLeadRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Source     string `json:"source"`
}

// AddNoteRequest is the payload for POST /api/leads/:id/notes.
type AddNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// AddTagsRequest is the payload for POST /api/leads/:id/tags.
type AddTagsRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,dive,required"`
}

// ChangeStatusRequest is the payload for PATCH /api/leads/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListLeadsRequest captures the query filters for GET /api/leads.
type ListLeadsRequest struct {
	Status string `form:"status"`
	Source string `form:"source"`
}

// Note is one append-only note on a lead.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadResponse is the wire representation of a lead.
type LeadResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	PostalCode string    `json:"postalCode"`
	City       string    `json:"city"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Tags       []string  `json:"tags"`
	Notes      []Note    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LeadEnvelope wraps a lead in the response shape the API exposes.
type LeadEnvelope struct {
	Lead LeadResponse `json:"lead"`
}

// LeadListResponse is the list response.
type LeadListResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}
