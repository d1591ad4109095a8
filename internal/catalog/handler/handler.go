// Package handler exposes the catalog and configurator HTTP endpoints.
package handler

import (
	"net/http"

	"climstore_backend/internal/catalog/service"
	"climstore_backend/internal/catalog/transport"
	"climstore_backend/platform/httpkit"
	"climstore_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles catalog HTTP requests.
type Handler struct {
	service   *service.Service
	validator *validator.Validator
}

// New creates a new catalog handler.
func New(svc *service.Service, v *validator.Validator) *Handler {
	return &Handler{service: svc, validator: v}
}

// RegisterRoutes registers the catalog routes on the API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/products", h.ListProducts)
	api.GET("/product/:id", h.GetProduct)
	api.GET("/options", h.ListOptions)
	api.POST("/configure", h.Configure)
}

// ListProducts handles GET /api/products.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"products": products})
}

// GetProduct handles GET /api/product/:id.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"product": product})
}

// ListOptions handles GET /api/options.
func (h *Handler) ListOptions(c *gin.Context) {
	options, err := h.service.ListOptions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"options": options})
}

// Configure handles POST /api/configure.
func (h *Handler) Configure(c *gin.Context) {
	var req transport.ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	preview, err := h.service.Configure(c.Request.Context(), &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, preview)
}
