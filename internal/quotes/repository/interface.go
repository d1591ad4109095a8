package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Quote is the database model for a quote.
type Quote struct {
	ID                        uuid.UUID  `db:"id"`
	QuoteNumber               string     `db:"quote_number"`
	Status                    string     `db:"status"`
	CustomerName              string     `db:"customer_name"`
	CustomerEmail             string     `db:"customer_email"`
	CustomerPhone             string     `db:"customer_phone"`
	CustomerAddress           string     `db:"customer_address"`
	CustomerPostalCode        string     `db:"customer_postal_code"`
	CustomerCity              string     `db:"customer_city"`
	ProductID                 string     `db:"product_id"`
	ProductName               string     `db:"product_name"`
	ProductType               string     `db:"product_type"`
	ProductPriceCents         int64      `db:"product_price_cents"`
	TotalPriceCents           int64      `db:"total_price_cents"`
	DepositCents              int64      `db:"deposit_cents"`
	InstallationPaymentCents  int64      `db:"installation_payment_cents"`
	FinalPaymentCents         int64      `db:"final_payment_cents"`
	DepositStatus             string     `db:"deposit_status"`
	InstallationPaymentStatus string     `db:"installation_payment_status"`
	FinalPaymentStatus        string     `db:"final_payment_status"`
	InstallationDate          *time.Time `db:"installation_date"`
	CreatedAt                 time.Time  `db:"created_at"`
	UpdatedAt                 time.Time  `db:"updated_at"`
}

// QuoteOption is the database model for a selected option on a quote.
type QuoteOption struct {
	ID         uuid.UUID `db:"id"`
	QuoteID    uuid.UUID `db:"quote_id"`
	OptionID   string    `db:"option_id"`
	OptionName string    `db:"option_name"`
	OptionType string    `db:"option_type"`
	PriceCents int64     `db:"price_cents"`
	SortOrder  int       `db:"sort_order"`
	CreatedAt  time.Time `db:"created_at"`
}

// ListParams contains parameters for listing quotes.
type ListParams struct {
	Status *string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Reader provides read operations for quotes.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	GetOptionsByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]QuoteOption, error)
	List(ctx context.Context, params ListParams) ([]Quote, int, error)
}

// Writer provides write operations for quotes.
type Writer interface {
	NextQuoteNumber(ctx context.Context) (string, error)
	CreateWithOptions(ctx context.Context, quote *Quote, options []QuoteOption) error
	UpdateWithOptions(ctx context.Context, quote *Quote, options []QuoteOption, replaceOptions bool) error
	// UpdateStatus performs a conditional write (status must still equal from);
	// it returns false when the row was not in the expected state.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	// UpdatePaymentStatus sets one installment's payment state. The write is
	// idempotent: re-applying the same state is a no-op.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, installment, status string) error
}

// Repository combines all quote repository operations.
type Repository interface {
	Reader
	Writer
}
