// Package repository provides the read-only queries backing the dashboard.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// QuoteRow is the slice of a quote the metrics need.
type QuoteRow struct {
	Status                    string
	TotalPriceCents           int64
	DepositCents              int64
	InstallationPaymentCents  int64
	FinalPaymentCents         int64
	DepositStatus             string
	InstallationPaymentStatus string
	FinalPaymentStatus        string
}

// OrderRow is the slice of a supplier order the metrics need.
type OrderRow struct {
	Status                string
	CreatedAt             time.Time
	EstimatedDeliveryDate *time.Time
}

// Postgres reads dashboard source rows from the quote and order tables.
type Postgres struct {
	pool *pgxpool.Pool
}

// New creates a new dashboard repository.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// QuotesSince returns the metric-relevant columns of quotes created since the
// given time.
func (r *Postgres) QuotesSince(ctx context.Context, since time.Time) ([]QuoteRow, error) {
	query := `
		SELECT status, total_price_cents,
			deposit_cents, installation_payment_cents, final_payment_cents,
			deposit_status, installation_payment_status, final_payment_status
		FROM quotes
		WHERE created_at >= $1`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("load quote metrics: %w", err)
	}
	defer rows.Close()

	var out []QuoteRow
	for rows.Next() {
		var q QuoteRow
		if err := rows.Scan(&q.Status, &q.TotalPriceCents,
			&q.DepositCents, &q.InstallationPaymentCents, &q.FinalPaymentCents,
			&q.DepositStatus, &q.InstallationPaymentStatus, &q.FinalPaymentStatus); err != nil {
			return nil, fmt.Errorf("scan quote metrics: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// OrdersSince returns the metric-relevant columns of supplier orders created
// since the given time.
func (r *Postgres) OrdersSince(ctx context.Context, since time.Time) ([]OrderRow, error) {
	query := `
		SELECT status, created_at, estimated_delivery_date
		FROM supplier_orders
		WHERE created_at >= $1`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("load order metrics: %w", err)
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.Status, &o.CreatedAt, &o.EstimatedDeliveryDate); err != nil {
			return nil, fmt.Errorf("scan order metrics: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
