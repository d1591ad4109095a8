// Package repository provides database operations for payment transactions.
package repository

import (
	"context"
	"errors"
	"fmt"

	"climstore_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Repository on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// New creates a new payments repository.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Create inserts a transaction.
func (r *Postgres) Create(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO transactions (id, quote_id, amount_cents, currency, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.pool.Exec(ctx, query,
		tx.ID, tx.QuoteID, tx.AmountCents, tx.Currency, tx.Type, tx.Status, tx.CreatedAt, tx.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a single transaction.
func (r *Postgres) GetByID(ctx context.Context, id string) (*Transaction, error) {
	query := `
		SELECT id, quote_id, amount_cents, currency, type, status, created_at, updated_at
		FROM transactions
		WHERE id = $1`

	var tx Transaction
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.QuoteID, &tx.AmountCents, &tx.Currency, &tx.Type, &tx.Status, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

// ListByQuote fetches all transactions of a quote, newest first.
func (r *Postgres) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]Transaction, error) {
	query := `
		SELECT id, quote_id, amount_cents, currency, type, status, created_at, updated_at
		FROM transactions
		WHERE quote_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.QuoteID, &tx.AmountCents, &tx.Currency, &tx.Type,
			&tx.Status, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// UpdateStatus performs a conditional status write.
func (r *Postgres) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, fromStatus, toStatus)
	if err != nil {
		return false, fmt.Errorf("update transaction status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordEvent inserts the gateway event if it was not processed before.
func (r *Postgres) RecordEvent(ctx context.Context, eventID, eventType, intentID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO payment_events (id, type, payment_intent_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`,
		eventID, eventType, intentID)
	if err != nil {
		return false, fmt.Errorf("record payment event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ Repository = (*Postgres)(nil)
