// Package repository provides database operations for the product catalog.
package repository

import (
	"context"
	"errors"
	"fmt"

	"climstore_backend/internal/catalog/transport"
	"climstore_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to products and options.
type Repository interface {
	ListProducts(ctx context.Context) ([]transport.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*transport.Product, error)
	ListOptions(ctx context.Context) ([]transport.Option, error)
}

// Postgres implements Repository on a pgx connection pool. The catalog is
// small and read-mostly, so the rows map straight to the transport types.
type Postgres struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// ListProducts fetches all active products.
func (r *Postgres) ListProducts(ctx context.Context) ([]transport.Product, error) {
	query := `
		SELECT id, name, type, power_kw, energy_class, price_cents, image_url, description, created_at, updated_at
		FROM products
		WHERE is_active
		ORDER BY price_cents`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []transport.Product
	for rows.Next() {
		var p transport.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.PowerKW, &p.EnergyClass,
			&p.PriceCents, &p.ImageURL, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct fetches a single active product.
func (r *Postgres) GetProduct(ctx context.Context, id uuid.UUID) (*transport.Product, error) {
	query := `
		SELECT id, name, type, power_kw, energy_class, price_cents, image_url, description, created_at, updated_at
		FROM products
		WHERE id = $1 AND is_active`

	var p transport.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Type, &p.PowerKW,
		&p.EnergyClass, &p.PriceCents, &p.ImageURL, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListOptions fetches all options.
func (r *Postgres) ListOptions(ctx context.Context) ([]transport.Option, error) {
	query := `
		SELECT id, type, name, length_m, compatible_with, price_cents
		FROM options
		ORDER BY price_cents`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	var options []transport.Option
	for rows.Next() {
		var o transport.Option
		if err := rows.Scan(&o.ID, &o.Type, &o.Name, &o.LengthM, &o.CompatibleWith, &o.PriceCents); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

var _ Repository = (*Postgres)(nil)
