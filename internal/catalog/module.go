// Package catalog wires the product catalog and configurator module.
package catalog

import (
	"time"

	"climstore_backend/internal/catalog/handler"
	"climstore_backend/internal/catalog/repository"
	"climstore_backend/internal/catalog/service"
	apphttp "climstore_backend/internal/http"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module bundles the catalog components behind the HTTP module interface.
type Module struct {
	handler *handler.Handler
}

// New assembles the catalog module. The cache client may be nil.
func New(pool *pgxpool.Pool, cache *redis.Client, cacheTTL time.Duration, log *logger.Logger, v *validator.Validator) *Module {
	svc := service.New(repository.New(pool), cache, cacheTTL, log)
	return &Module{handler: handler.New(svc, v)}
}

// Name returns the module name.
func (m *Module) Name() string { return "catalog" }

// RegisterRoutes registers the catalog routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API)
}
