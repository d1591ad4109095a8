// Package payments wires the payment module: gateway intents, webhook
// reconciliation and manual payment overrides.
package payments

import (
	apphttp "climstore_backend/internal/http"
	"climstore_backend/internal/payments/gateway"
	"climstore_backend/internal/payments/handler"
	"climstore_backend/internal/payments/repository"
	"climstore_backend/internal/payments/service"
	quotesservice "climstore_backend/internal/quotes/service"
	"climstore_backend/platform/events"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the payment components behind the HTTP module interface.
type Module struct {
	service *service.Service
	handler *handler.Handler
	ledger  service.QuoteLedger
}

// New assembles the payments module. The gateway and syncer may be nil.
func New(pool *pgxpool.Pool, gw gateway.Gateway, quotes *quotesservice.Service, syncer service.Syncer, bus events.Bus, log *logger.Logger, v *validator.Validator, currency string) *Module {
	repo := repository.New(pool)
	ledger := &quoteLedgerAdapter{quotes: quotes}
	svc := service.New(repo, gw, ledger, syncer, bus, log, currency)
	return &Module{
		service: svc,
		handler: handler.New(svc, v),
		ledger:  ledger,
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "payments" }

// RegisterRoutes registers the payment routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API)
}

// Service exposes the payment service for the dashboard.
func (m *Module) Service() *service.Service {
	return m.service
}

// Ledger exposes the quote port so the background worker can run the same
// installment updates the synchronous path uses.
func (m *Module) Ledger() service.QuoteLedger {
	return m.ledger
}
