// Package quotes wires the quote module: pricing, lifecycle and installment
// payment tracking for customer quotes.
package quotes

import (
	apphttp "climstore_backend/internal/http"
	"climstore_backend/internal/quotes/handler"
	"climstore_backend/internal/quotes/repository"
	"climstore_backend/internal/quotes/service"
	"climstore_backend/platform/events"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the quote components behind the HTTP module interface.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// New assembles the quotes module.
func New(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, v *validator.Validator, pdf handler.PDFRenderer) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{
		service: svc,
		handler: handler.New(svc, v, pdf),
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "quotes" }

// RegisterRoutes registers the quote routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API)
}

// Service exposes the quote service for sibling modules (payments reconciles
// installment states through it, the dashboard reads through it).
func (m *Module) Service() *service.Service {
	return m.service
}
