// Package handler exposes the lead HTTP endpoints.
package handler

import (
	"net/http"

	"climstore_backend/internal/leads/service"
	"climstore_backend/internal/leads/transport"
	"climstore_backend/platform/httpkit"
	"climstore_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles lead HTTP requests.
type Handler struct {
	service   *service.Service
	validator *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, v *validator.Validator) *Handler {
	return &Handler{service: svc, validator: v}
}

// RegisterRoutes registers the lead routes on the API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	leads := api.Group("/leads")
	{
		leads.POST("", h.Create)
		leads.GET("", h.List)
		leads.GET("/:id", h.GetByID)
		leads.PUT("/:id", h.Update)
		leads.POST("/:id/notes", h.AddNote)
		leads.POST("/:id/tags", h.AddTags)
		leads.PATCH("/:id/status", h.ChangeStatus)
	}
}

// Create handles POST /api/leads.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.service.Create(c.Request.Context(), &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.LeadEnvelope{Lead: *lead})
}

// List handles GET /api/leads.
func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	list, err := h.service.List(c.Request.Context(), &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

// GetByID handles GET /api/leads/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.service.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LeadEnvelope{Lead: *lead})
}

// Update handles PUT /api/leads/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.service.Update(c.Request.Context(), id, &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LeadEnvelope{Lead: *lead})
}

// AddNote handles POST /api/leads/:id/notes.
func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.service.AddNote(c.Request.Context(), id, req.Content)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.LeadEnvelope{Lead: *lead})
}

// AddTags handles POST /api/leads/:id/tags.
func (h *Handler) AddTags(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.AddTagsRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.service.AddTags(c.Request.Context(), id, req.Tags)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LeadEnvelope{Lead: *lead})
}

// ChangeStatus handles PATCH /api/leads/:id/status.
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.ChangeStatusRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.service.ChangeStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LeadEnvelope{Lead: *lead})
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return uuid.Nil, false
	}
	return id, true
}
