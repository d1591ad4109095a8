// Package dashboard wires the read-only performance metrics module.
package dashboard

import (
	"climstore_backend/internal/dashboard/handler"
	"climstore_backend/internal/dashboard/repository"
	"climstore_backend/internal/dashboard/service"
	apphttp "climstore_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the dashboard components behind the HTTP module interface.
type Module struct {
	handler *handler.Handler
}

// New assembles the dashboard module.
func New(pool *pgxpool.Pool) *Module {
	svc := service.New(repository.New(pool))
	return &Module{handler: handler.New(svc)}
}

// Name returns the module name.
func (m *Module) Name() string { return "dashboard" }

// RegisterRoutes registers the dashboard routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API)
}
