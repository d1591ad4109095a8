// Package supplierorders wires the supplier order module: aggregating quotes
// into purchase orders and tracking them to delivery.
package supplierorders

import (
	"context"

	apphttp "climstore_backend/internal/http"
	quotesservice "climstore_backend/internal/quotes/service"
	"climstore_backend/internal/supplierorders/handler"
	"climstore_backend/internal/supplierorders/repository"
	"climstore_backend/internal/supplierorders/service"
	"climstore_backend/platform/events"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the supplier order components behind the HTTP module interface.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// New assembles the supplier orders module.
func New(pool *pgxpool.Pool, quotes *quotesservice.Service, bus events.Bus, log *logger.Logger, v *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, &quoteReaderAdapter{quotes: quotes}, bus, log)
	return &Module{
		service: svc,
		handler: handler.New(svc, v),
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "supplierorders" }

// RegisterRoutes registers the supplier order routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API)
}

// Service exposes the supplier order service for the dashboard.
func (m *Module) Service() *service.Service {
	return m.service
}

// quoteReaderAdapter backs the aggregation's quote port with the quotes module
// service.
type quoteReaderAdapter struct {
	quotes *quotesservice.Service
}

func (a *quoteReaderAdapter) QuoteSummary(ctx context.Context, id uuid.UUID) (*service.QuoteSummary, error) {
	quote, err := a.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	options := make([]service.OptionLine, 0, len(quote.ProductConfiguration.Options))
	for _, opt := range quote.ProductConfiguration.Options {
		options = append(options, service.OptionLine{
			OptionID:   opt.OptionID,
			OptionName: opt.OptionName,
			OptionType: opt.OptionType,
		})
	}

	return &service.QuoteSummary{
		ID:          quote.ID,
		QuoteNumber: quote.QuoteNumber,
		Status:      string(quote.Status),
		TotalCents:  quote.TotalPriceCents,
		ProductID:   quote.ProductConfiguration.ProductID,
		ProductName: quote.ProductConfiguration.ProductName,
		ProductType: quote.ProductConfiguration.ProductType,
		Options:     options,
	}, nil
}
