// Package handler exposes the dashboard HTTP endpoint.
package handler

import (
	"net/http"
	"strconv"

	"climstore_backend/internal/dashboard/service"
	"climstore_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles dashboard HTTP requests.
type Handler struct {
	service *service.Service
}

// New creates a new dashboard handler.
func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// RegisterRoutes registers the dashboard routes on the API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/dashboard/performance", h.Performance)
}

// Performance handles GET /api/dashboard/performance.
func (h *Handler) Performance(c *gin.Context) {
	periodDays := 0
	if raw := c.Query("period"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpkit.Error(c, http.StatusBadRequest, "period must be a positive number of days", nil)
			return
		}
		periodDays = parsed
	}

	metrics, err := h.service.Performance(c.Request.Context(), periodDays)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, metrics)
}
