package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order is the database model for a supplier order.
type Order struct {
	ID                    uuid.UUID  `db:"id"`
	OrderNumber           string     `db:"order_number"`
	Status                string     `db:"status"`
	Notes                 string     `db:"notes"`
	TotalAmountCents      int64      `db:"total_amount_cents"`
	Carrier               *string    `db:"carrier"`
	TrackingNumber        *string    `db:"tracking_number"`
	EstimatedDeliveryDate *time.Time `db:"estimated_delivery_date"`
	ActualDeliveryDate    *time.Time `db:"actual_delivery_date"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// Item is one aggregated product line on an order.
type Item struct {
	ID          uuid.UUID `db:"id"`
	OrderID     uuid.UUID `db:"order_id"`
	ProductID   string    `db:"product_id"`
	ProductName string    `db:"product_name"`
	ProductType string    `db:"product_type"`
	Quantity    int       `db:"quantity"`
	SortOrder   int       `db:"sort_order"`
}

// HistoryEntry is one row of the append-only status history.
type HistoryEntry struct {
	ID        uuid.UUID `db:"id"`
	OrderID   uuid.UUID `db:"order_id"`
	Status    string    `db:"status"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

// Tracking carries the tracking columns written at confirmed or later.
type Tracking struct {
	Carrier               *string
	TrackingNumber        *string
	EstimatedDeliveryDate *time.Time
}

// StatusUpdate describes one status transition write.
type StatusUpdate struct {
	From     string
	To       string
	Comment  string
	Tracking *Tracking
	// DeliveredAt is set when the transition lands on delivered.
	DeliveredAt *time.Time
	// ReleaseQuotes frees the order's quote links so the quotes can join a
	// new order. Set on cancellation.
	ReleaseQuotes bool
}

// Repository provides persistence for supplier orders.
type Repository interface {
	NextOrderNumber(ctx context.Context) (string, error)
	// ActiveOrderForQuotes returns the order number of a non-cancelled order
	// already containing any of the given quotes, or "" if none does.
	ActiveOrderForQuotes(ctx context.Context, quoteIDs []uuid.UUID) (string, error)
	// Create inserts the order with its quote links, items and the initial
	// history row in one transaction. Returns a conflict error when a quote
	// already belongs to another active order.
	Create(ctx context.Context, order *Order, quoteIDs []uuid.UUID, items []Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetQuoteIDs(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]Item, error)
	GetHistory(ctx context.Context, orderID uuid.UUID) ([]HistoryEntry, error)
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus conditionally applies the transition and appends the
	// history row. Returns false when the order was no longer in From.
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (bool, error)
}
