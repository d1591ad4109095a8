// Package handler exposes the payment HTTP endpoints, including the gateway
// webhook.
package handler

import (
	"io"
	"net/http"

	"climstore_backend/internal/payments/service"
	"climstore_backend/internal/payments/transport"
	"climstore_backend/platform/httpkit"
	"climstore_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles payment HTTP requests.
type Handler struct {
	service   *service.Service
	validator *validator.Validator
}

// New creates a new payments handler.
func New(svc *service.Service, v *validator.Validator) *Handler {
	return &Handler{service: svc, validator: v}
}

// RegisterRoutes registers the payment routes on the API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	payment := api.Group("/payment")
	{
		payment.POST("/intent", h.CreateIntent)
		payment.POST("/confirm", h.Confirm)
		payment.POST("/webhook", h.Webhook)
		payment.GET("/:id", h.GetTransaction)
	}
	api.PATCH("/mark-payment-manually", h.MarkManually)
}

// CreateIntent handles POST /api/payment/intent.
func (h *Handler) CreateIntent(c *gin.Context) {
	var req transport.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.service.CreateIntent(c.Request.Context(), &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// Confirm handles POST /api/payment/confirm.
func (h *Handler) Confirm(c *gin.Context) {
	var req transport.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	tx, err := h.service.Confirm(c.Request.Context(), req.PaymentIntentID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.TransactionEnvelope{Transaction: *tx})
}

// Webhook handles POST /api/payment/webhook. The raw body is needed for
// signature verification, so this endpoint never binds JSON.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable payload", nil)
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"received": true})
}

// GetTransaction handles GET /api/payment/:id.
func (h *Handler) GetTransaction(c *gin.Context) {
	tx, err := h.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.TransactionEnvelope{Transaction: *tx})
}

// MarkManually handles PATCH /api/mark-payment-manually.
func (h *Handler) MarkManually(c *gin.Context) {
	var req transport.MarkPaymentManuallyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	tx, err := h.service.MarkManually(c.Request.Context(), &req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.TransactionEnvelope{Transaction: *tx})
}
