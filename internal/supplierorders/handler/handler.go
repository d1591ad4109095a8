// Package handler exposes the supplier order HTTP endpoints.
package handler

import (
	"net/http"

	"climstore_backend/internal/supplierorders/service"
	"climstore_backend/internal/supplierorders/transport"
	"climstore_backend/platform/httpkit"
	"climstore_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles supplier order HTTP requests.
type Handler struct {
	service   *service.Service
	validator *validator.Validator
}

// New creates a new supplier orders handler.
func New(svc *service.Service, v *validator.Validator) *Handler {
	return &Handler{service: svc, validator: v}
}

// RegisterRoutes registers the supplier order routes on the API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	orders := api.Group("/supplier-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PATCH("/:id/status", h.UpdateStatus)
	}
}

// Create handles POST /api/supplier-orders.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	order, err := h.service.CreateFromQuotes(c.Request.Context(), &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.OrderEnvelope{SupplierOrder: *order})
}

// List handles GET /api/supplier-orders.
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

// GetByID handles GET /api/supplier-orders/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.OrderEnvelope{SupplierOrder: *order})
}

// UpdateStatus handles PATCH /api/supplier-orders/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.OrderEnvelope{SupplierOrder: *order})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid supplier order id", nil)
		return uuid.Nil, false
	}
	return id, true
}
