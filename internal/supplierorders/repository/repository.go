// Package repository provides database operations for supplier orders.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climstore_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// Postgres implements Repository on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// New creates a new supplier order repository.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// NextOrderNumber atomically generates the next order number for the current year.
func (r *Postgres) NextOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()

	var nextNum int
	query := `
		INSERT INTO order_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, year).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}

	return fmt.Sprintf("CMD-%d-%04d", year, nextNum), nil
}

// ActiveOrderForQuotes returns the order number of a non-cancelled order
// already containing any of the given quotes.
func (r *Postgres) ActiveOrderForQuotes(ctx context.Context, quoteIDs []uuid.UUID) (string, error) {
	query := `
		SELECT o.order_number
		FROM supplier_order_quotes q
		JOIN supplier_orders o ON o.id = q.order_id
		WHERE q.quote_id = ANY($1) AND q.active
		LIMIT 1`

	var orderNumber string
	err := r.pool.QueryRow(ctx, query, quoteIDs).Scan(&orderNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("check active orders: %w", err)
	}
	return orderNumber, nil
}

// Create inserts the order, its quote links, items and the initial history row
// in one transaction.
func (r *Postgres) Create(ctx context.Context, order *Order, quoteIDs []uuid.UUID, items []Item) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO supplier_orders (id, order_number, status, notes, total_amount_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.OrderNumber, order.Status, order.Notes, order.TotalAmountCents,
		order.CreatedAt, order.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert supplier order: %w", err)
	}

	for _, quoteID := range quoteIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO supplier_order_quotes (order_id, quote_id) VALUES ($1, $2)`,
			order.ID, quoteID,
		); err != nil {
			// The partial unique index on active quote links catches the race
			// where two creates claim the same quote at once.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return apperr.Conflict(fmt.Sprintf("quote %s already belongs to an active supplier order", quoteID))
			}
			return fmt.Errorf("link quote %s: %w", quoteID, err)
		}
	}

	for _, item := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO supplier_order_items (id, order_id, product_id, product_name, product_type, quantity, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, order.ID, item.ProductID, item.ProductName, item.ProductType, item.Quantity, item.SortOrder,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO supplier_order_history (id, order_id, status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), order.ID, order.Status, "order created", order.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order history: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID fetches a single order.
func (r *Postgres) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `
		SELECT id, order_number, status, notes, total_amount_cents,
			carrier, tracking_number, estimated_delivery_date, actual_delivery_date,
			created_at, updated_at
		FROM supplier_orders
		WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("supplier order not found")
		}
		return nil, fmt.Errorf("get supplier order: %w", err)
	}
	return order, nil
}

// GetQuoteIDs fetches the quotes aggregated into an order.
func (r *Postgres) GetQuoteIDs(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT quote_id FROM supplier_order_quotes WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order quotes: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order quote: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetItems fetches the aggregated product lines of an order in order.
func (r *Postgres) GetItems(ctx context.Context, orderID uuid.UUID) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_type, quantity, sort_order
		FROM supplier_order_items
		WHERE order_id = $1
		ORDER BY sort_order`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductType, &it.Quantity, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetHistory fetches the status history of an order, oldest first.
func (r *Postgres) GetHistory(ctx context.Context, orderID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, status, comment, created_at
		FROM supplier_order_history
		WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// List fetches all orders, newest first.
func (r *Postgres) List(ctx context.Context) ([]Order, error) {
	query := `
		SELECT id, order_number, status, notes, total_amount_cents,
			carrier, tracking_number, estimated_delivery_date, actual_delivery_date,
			created_at, updated_at
		FROM supplier_orders
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list supplier orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// UpdateStatus conditionally applies the transition and appends the history row.
func (r *Postgres) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE supplier_orders SET status = $3, updated_at = now()`
	args := []interface{}{id, update.From, update.To}
	argPos := 4

	if update.Tracking != nil {
		query += fmt.Sprintf(", carrier = $%d, tracking_number = $%d, estimated_delivery_date = $%d",
			argPos, argPos+1, argPos+2)
		args = append(args, update.Tracking.Carrier, update.Tracking.TrackingNumber, update.Tracking.EstimatedDeliveryDate)
		argPos += 3
	}
	if update.DeliveredAt != nil {
		query += fmt.Sprintf(", actual_delivery_date = $%d", argPos)
		args = append(args, update.DeliveredAt)
		argPos++
	}
	query += " WHERE id = $1 AND status = $2"

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if update.ReleaseQuotes {
		if _, err := tx.Exec(ctx,
			`UPDATE supplier_order_quotes SET active = FALSE WHERE order_id = $1`, id,
		); err != nil {
			return false, fmt.Errorf("release order quotes: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO supplier_order_history (id, order_id, status, comment, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), id, update.To, update.Comment,
	); err != nil {
		return false, fmt.Errorf("insert order history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.Notes, &o.TotalAmountCents,
		&o.Carrier, &o.TrackingNumber, &o.EstimatedDeliveryDate, &o.ActualDeliveryDate,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

var _ Repository = (*Postgres)(nil)
