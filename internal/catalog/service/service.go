// Package service serves the product catalog and the configurator price
// preview. Catalog reads go through a short-lived Redis cache: the catalog
// changes rarely and every configurator page load hits it.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"climstore_backend/internal/catalog/repository"
	"climstore_backend/internal/catalog/transport"
	quotespricing "climstore_backend/internal/quotes/service"
	quotestransport "climstore_backend/internal/quotes/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyProducts      = "catalog:products"
	keyProductPrefix = "catalog:product:"
	keyOptions       = "catalog:options"
)

// Service implements the catalog use cases.
type Service struct {
	repo   repository.Repository
	cache  *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// New creates a new catalog service. The cache client may be nil; reads then
// go straight to the database.
func New(repo repository.Repository, cache *redis.Client, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: log}
}

// ListProducts returns all active products.
func (s *Service) ListProducts(ctx context.Context) ([]transport.Product, error) {
	var products []transport.Product
	if s.cacheGet(ctx, keyProducts, &products) {
		return products, nil
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, keyProducts, products)
	return products, nil
}

// GetProduct returns a single product.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*transport.Product, error) {
	key := keyProductPrefix + id.String()

	var product transport.Product
	if s.cacheGet(ctx, key, &product) {
		return &product, nil
	}

	found, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, found)
	return found, nil
}

// ListOptions returns all options.
func (s *Service) ListOptions(ctx context.Context) ([]transport.Option, error) {
	var options []transport.Option
	if s.cacheGet(ctx, keyOptions, &options) {
		return options, nil
	}

	options, err := s.repo.ListOptions(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, keyOptions, options)
	return options, nil
}

// Configure prices a product with the selected options. Every selected option
// must be compatible with the product type; the preview uses the same
// installment split a quote would get.
func (s *Service) Configure(ctx context.Context, req *transport.ConfigureRequest) (*transport.ConfigureResponse, error) {
	product, err := s.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	allOptions, err := s.ListOptions(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]transport.Option, len(allOptions))
	for _, opt := range allOptions {
		byID[opt.ID] = opt
	}

	selected := make([]transport.Option, 0, len(req.OptionIDs))
	for _, optionID := range req.OptionIDs {
		opt, ok := byID[optionID]
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("option %s does not exist", optionID))
		}
		if !compatible(opt, product.Type) {
			return nil, apperr.Validation(fmt.Sprintf("option %q is not compatible with %s units", opt.Name, product.Type))
		}
		selected = append(selected, opt)
	}

	cfg := quotestransport.ProductConfiguration{PriceCents: product.PriceCents}
	for _, opt := range selected {
		cfg.Options = append(cfg.Options, quotestransport.OptionSelection{PriceCents: opt.PriceCents})
	}
	total := quotespricing.ComputeTotal(&cfg)
	split := quotespricing.ComputeInstallments(total)

	return &transport.ConfigureResponse{
		Product:                  *product,
		Options:                  selected,
		TotalPriceCents:          total,
		DepositCents:             split.DepositCents,
		InstallationPaymentCents: split.InstallationCents,
		FinalPaymentCents:        split.FinalCents,
	}, nil
}

func compatible(opt transport.Option, productType string) bool {
	// An empty compatibility list means the option fits every unit.
	if len(opt.CompatibleWith) == 0 {
		return true
	}
	for _, t := range opt.CompatibleWith {
		if t == productType {
			return true
		}
	}
	return false
}

// cacheGet loads and decodes a cached value. Cache trouble is logged and
// treated as a miss.
func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Error("catalog cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Error("catalog cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Error("catalog cache write failed", "key", key, "error", err)
	}
}
