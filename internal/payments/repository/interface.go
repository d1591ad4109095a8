package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Transaction is the database model for a payment transaction. The ID is the
// gateway intent ID, or a manual_* identifier for out-of-band payments.
type Transaction struct {
	ID          string    `db:"id"`
	QuoteID     uuid.UUID `db:"quote_id"`
	AmountCents int64     `db:"amount_cents"`
	Currency    string    `db:"currency"`
	Type        string    `db:"type"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Repository provides persistence for transactions and processed gateway events.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]Transaction, error)
	// UpdateStatus is conditional: the write only applies when the transaction
	// is still in fromStatus. Returns false when it was not.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) (bool, error)
	// RecordEvent inserts a processed gateway event. Returns false when the
	// event was already recorded, which makes webhook retries no-ops.
	RecordEvent(ctx context.Context, eventID, eventType, intentID string) (bool, error)
}
