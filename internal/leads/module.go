// Package leads wires the lead pipeline module.
package leads

import (
	apphttp "climstore_backend/internal/http"
	"climstore_backend/internal/leads/handler"
	"climstore_backend/internal/leads/repository"
	"climstore_backend/internal/leads/service"
	"climstore_backend/platform/events"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the lead components behind the HTTP module interface.
type Module struct {
	handler *handler.Handler
}

// New assembles the leads module.
func New(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, v *validator.Validator) *Module {
	svc := service.New(repository.New(pool), bus, log)
	return &Module{handler: handler.New(svc, v)}
}

// Name returns the module name.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes registers the lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API)
}
