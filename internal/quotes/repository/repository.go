// Package repository provides database operations for quotes.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climstore_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quoteNotFoundMsg = "quote not found"

// installmentColumns maps installment names to their status columns. Keeping
// the mapping here means the installment name never reaches the SQL text.
var installmentColumns = map[string]string{
	"deposit":             "deposit_status",
	"installationPayment": "installation_payment_status",
	"finalPayment":        "final_payment_status",
}

// Postgres implements Repository on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// NextQuoteNumber atomically generates the next quote number for the current year.
func (r *Postgres) NextQuoteNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()

	var nextNum int
	query := `
		INSERT INTO quote_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = quote_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, year).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("generate quote number: %w", err)
	}

	return fmt.Sprintf("DEV-%d-%04d", year, nextNum), nil
}

// CreateWithOptions inserts a quote and its selected options in a single transaction.
func (r *Postgres) CreateWithOptions(ctx context.Context, quote *Quote, options []QuoteOption) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	quoteQuery := `
		INSERT INTO quotes (
			id, quote_number, status,
			customer_name, customer_email, customer_phone, customer_address, customer_postal_code, customer_city,
			product_id, product_name, product_type, product_price_cents,
			total_price_cents, deposit_cents, installation_payment_cents, final_payment_cents,
			deposit_status, installation_payment_status, final_payment_status,
			installation_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	if _, err := tx.Exec(ctx, quoteQuery,
		quote.ID, quote.QuoteNumber, quote.Status,
		quote.CustomerName, quote.CustomerEmail, quote.CustomerPhone, quote.CustomerAddress,
		quote.CustomerPostalCode, quote.CustomerCity,
		quote.ProductID, quote.ProductName, quote.ProductType, quote.ProductPriceCents,
		quote.TotalPriceCents, quote.DepositCents, quote.InstallationPaymentCents, quote.FinalPaymentCents,
		quote.DepositStatus, quote.InstallationPaymentStatus, quote.FinalPaymentStatus,
		quote.InstallationDate, quote.CreatedAt, quote.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	if err := insertOptions(ctx, tx, options); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateWithOptions updates a quote and optionally replaces its options.
func (r *Postgres) UpdateWithOptions(ctx context.Context, quote *Quote, options []QuoteOption, replaceOptions bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE quotes SET
			customer_name = $2, customer_email = $3, customer_phone = $4, customer_address = $5,
			customer_postal_code = $6, customer_city = $7,
			product_id = $8, product_name = $9, product_type = $10, product_price_cents = $11,
			total_price_cents = $12, deposit_cents = $13, installation_payment_cents = $14, final_payment_cents = $15,
			installation_date = $16, updated_at = $17
		WHERE id = $1`

	tag, err := tx.Exec(ctx, updateQuery,
		quote.ID,
		quote.CustomerName, quote.CustomerEmail, quote.CustomerPhone, quote.CustomerAddress,
		quote.CustomerPostalCode, quote.CustomerCity,
		quote.ProductID, quote.ProductName, quote.ProductType, quote.ProductPriceCents,
		quote.TotalPriceCents, quote.DepositCents, quote.InstallationPaymentCents, quote.FinalPaymentCents,
		quote.InstallationDate, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}

	if replaceOptions {
		if _, err := tx.Exec(ctx, `DELETE FROM quote_options WHERE quote_id = $1`, quote.ID); err != nil {
			return fmt.Errorf("delete quote options: %w", err)
		}
		if err := insertOptions(ctx, tx, options); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID fetches a single quote.
func (r *Postgres) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	query := `
		SELECT id, quote_number, status,
			customer_name, customer_email, customer_phone, customer_address, customer_postal_code, customer_city,
			product_id, product_name, product_type, product_price_cents,
			total_price_cents, deposit_cents, installation_payment_cents, final_payment_cents,
			deposit_status, installation_payment_status, final_payment_status,
			installation_date, created_at, updated_at
		FROM quotes
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	quote, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return quote, nil
}

// GetOptionsByQuoteID fetches the selected options of a quote in order.
func (r *Postgres) GetOptionsByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]QuoteOption, error) {
	query := `
		SELECT id, quote_id, option_id, option_name, option_type, price_cents, sort_order, created_at
		FROM quote_options
		WHERE quote_id = $1
		ORDER BY sort_order`

	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote options: %w", err)
	}
	defer rows.Close()

	var options []QuoteOption
	for rows.Next() {
		var o QuoteOption
		if err := rows.Scan(&o.ID, &o.QuoteID, &o.OptionID, &o.OptionName, &o.OptionType,
			&o.PriceCents, &o.SortOrder, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quote option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// List fetches quotes matching the filters, newest first, plus the total count.
func (r *Postgres) List(ctx context.Context, params ListParams) ([]Quote, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *params.Status)
		argPos++
	}
	if params.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, *params.From)
		argPos++
	}
	if params.To != nil {
		where += fmt.Sprintf(" AND created_at < $%d", argPos)
		args = append(args, *params.To)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quotes "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, quote_number, status,
			customer_name, customer_email, customer_phone, customer_address, customer_postal_code, customer_city,
			product_id, product_name, product_type, product_price_cents,
			total_price_cents, deposit_cents, installation_payment_cents, final_payment_cents,
			deposit_status, installation_payment_status, final_payment_status,
			installation_date, created_at, updated_at
		FROM quotes
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, *quote)
	}
	return quotes, total, rows.Err()
}

// UpdateStatus performs a conditional status write (compare-and-set on the
// previous status). Returns false when the row was not in the expected state.
func (r *Postgres) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quotes SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, fmt.Errorf("update quote status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePaymentStatus sets one installment's payment state.
func (r *Postgres) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, installment, status string) error {
	column, ok := installmentColumns[installment]
	if !ok {
		return apperr.Validation(fmt.Sprintf("unknown installment %q", installment))
	}

	query := fmt.Sprintf(`UPDATE quotes SET %s = $2, updated_at = now() WHERE id = $1`, column)
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

func insertOptions(ctx context.Context, tx pgx.Tx, options []QuoteOption) error {
	for _, o := range options {
		if _, err := tx.Exec(ctx, `
			INSERT INTO quote_options (id, quote_id, option_id, option_name, option_type, price_cents, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, o.QuoteID, o.OptionID, o.OptionName, o.OptionType, o.PriceCents, o.SortOrder, o.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert quote option: %w", err)
		}
	}
	return nil
}

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	if err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.Status,
		&q.CustomerName, &q.CustomerEmail, &q.CustomerPhone, &q.CustomerAddress,
		&q.CustomerPostalCode, &q.CustomerCity,
		&q.ProductID, &q.ProductName, &q.ProductType, &q.ProductPriceCents,
		&q.TotalPriceCents, &q.DepositCents, &q.InstallationPaymentCents, &q.FinalPaymentCents,
		&q.DepositStatus, &q.InstallationPaymentStatus, &q.FinalPaymentStatus,
		&q.InstallationDate, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

// Compile-time check that Postgres implements Repository.
var _ Repository = (*Postgres)(nil)
