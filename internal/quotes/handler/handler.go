// Package handler exposes the quote HTTP endpoints.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"climstore_backend/internal/quotes/service"
	"climstore_backend/internal/quotes/transport"
	"climstore_backend/platform/httpkit"
	"climstore_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PDFRenderer renders a quote document for download.
type PDFRenderer interface {
	Render(ctx context.Context, quote *transport.QuoteResponse) ([]byte, error)
}

// Handler handles quote HTTP requests.
type Handler struct {
	service   *service.Service
	validator *validator.Validator
	pdf       PDFRenderer
}

// New creates a new quotes handler. The PDF renderer may be nil when document
// generation is not configured.
func New(svc *service.Service, v *validator.Validator, pdf PDFRenderer) *Handler {
	return &Handler{service: svc, validator: v, pdf: pdf}
}

// RegisterRoutes registers the quote routes on the API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	quotes := api.Group("/quotes")
	{
		quotes.POST("", h.Create)
		quotes.GET("", h.List)
		quotes.GET("/:id", h.GetByID)
		quotes.PUT("/:id", h.Update)
		quotes.PATCH("/:id/status", h.ChangeStatus)
		quotes.PATCH("/:id/payment-status", h.UpdatePaymentStatus)
		quotes.GET("/:id/pdf", h.DownloadPDF)
	}
}

// Create handles POST /api/quotes.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quote, err := h.service.Create(c.Request.Context(), &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.QuoteEnvelope{Quote: *quote})
}

// List handles GET /api/quotes.
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
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

// GetByID handles GET /api/quotes/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	quote, err := h.service.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

// Update handles PUT /api/quotes/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.CustomerInfo != nil {
		if err := h.validator.Struct(req.CustomerInfo); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
	}
	if req.ProductConfiguration != nil {
		if err := h.validator.Struct(req.ProductConfiguration); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
	}

	quote, err := h.service.Update(c.Request.Context(), id, &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.QuoteEnvelope{Quote: *quote})
}

// ChangeStatus handles PATCH /api/quotes/:id/status.
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quote, err := h.service.ChangeStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.QuoteEnvelope{Quote: *quote})
}

// UpdatePaymentStatus handles PATCH /api/quotes/:id/payment-status.
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quote, err := h.service.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentType, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.QuoteEnvelope{Quote: *quote})
}

// DownloadPDF handles GET /api/quotes/:id/pdf.
func (h *Handler) DownloadPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if h.pdf == nil {
		httpkit.Error(c, http.StatusNotFound, "document generation is not configured", nil)
		return
	}

	quote, err := h.service.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	doc, err := h.pdf.Render(c.Request.Context(), quote)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, quote.QuoteNumber))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid quote id", nil)
		return uuid.Nil, false
	}
	return id, true
}
