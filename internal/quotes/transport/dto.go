// Package transport defines the request/response DTOs for the quotes module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusCancelled QuoteStatus = "cancelled"
)

// Installment identifies one of the three payment tranches.
type Installment string

const (
	InstallmentDeposit      Installment = "deposit"
	InstallmentInstallation Installment = "installationPayment"
	InstallmentFinal        Installment = "finalPayment"
)

// Payment states for a single installment.
const (
	PaymentStateUnpaid  = "unpaid"
	PaymentStatePending = "pending"
	PaymentStatePaid    = "paid"
)

// CustomerInfo is the denormalized customer snapshot stored on the quote.
type CustomerInfo struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
}

// OptionSelection is one selected option in a product configuration.
type OptionSelection struct {
	OptionID   string `json:"optionId" validate:"required"`
	OptionName string `json:"optionName" validate:"required"`
	OptionType string `json:"optionType"`
	PriceCents int64  `json:"priceCents" validate:"gte=0"`
}

// ProductConfiguration is the configured product a quote prices.
type ProductConfiguration struct {
	ProductID   string            `json:"productId" validate:"required"`
	ProductName string            `json:"productName" validate:"required"`
	ProductType string            `json:"productType"`
	PriceCents  int64             `json:"priceCents" validate:"gt=0"`
	Options     []OptionSelection `json:"options" validate:"dive"`
}

// CreateQuoteRequest is the payload for POST /api/quotes.
type CreateQuoteRequest struct {
	CustomerInfo         *CustomerInfo         `json:"customerInfo" validate:"required"`
	ProductConfiguration *ProductConfiguration `json:"productConfiguration" validate:"required"`
	InstallationDate     *time.Time            `json:"installationDate"`
}

// UpdateQuoteRequest is the payload for PUT /api/quotes/:id.
// Nil fields are left untouched; a new product configuration recomputes pricing.
type UpdateQuoteRequest struct {
	CustomerInfo         *CustomerInfo         `json:"customerInfo"`
	ProductConfiguration *ProductConfiguration `json:"productConfiguration"`
	InstallationDate     *time.Time            `json:"installationDate"`
}

// ChangeStatusRequest is the payload for PATCH /api/quotes/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePaymentStatusRequest is the payload for PATCH /api/quotes/:id/payment-status.
type UpdatePaymentStatusRequest struct {
	PaymentType string `json:"paymentType" validate:"required,oneof=deposit installationPayment finalPayment"`
	Status      string `json:"status" validate:"required,oneof=unpaid pending paid"`
}

// ListQuotesRequest captures the query filters for GET /api/quotes.
type ListQuotesRequest struct {
	Status string     `form:"status"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Limit  int        `form:"limit"`
	Offset int        `form:"offset"`
}

// PaymentStatus is the per-installment payment state map.
type PaymentStatus struct {
	Deposit             string `json:"deposit"`
	InstallationPayment string `json:"installationPayment"`
	FinalPayment        string `json:"finalPayment"`
}

// QuoteResponse is the wire representation of a quote.
type QuoteResponse struct {
	ID                       uuid.UUID            `json:"id"`
	QuoteNumber              string               `json:"quoteNumber"`
	Status                   QuoteStatus          `json:"status"`
	CustomerInfo             CustomerInfo         `json:"customerInfo"`
	ProductConfiguration     ProductConfiguration `json:"productConfiguration"`
	TotalPriceCents          int64                `json:"totalPriceCents"`
	DepositCents             int64                `json:"depositCents"`
	InstallationPaymentCents int64                `json:"installationPaymentCents"`
	FinalPaymentCents        int64                `json:"finalPaymentCents"`
	PaymentStatus            PaymentStatus        `json:"paymentStatus"`
	InstallationDate         *time.Time           `json:"installationDate,omitempty"`
	CreatedAt                time.Time            `json:"createdAt"`
	UpdatedAt                time.Time            `json:"updatedAt"`
}

// QuoteEnvelope wraps a quote in the response shape the original API exposed.
type QuoteEnvelope struct {
	Quote QuoteResponse `json:"quote"`
}

// QuoteListResponse is the paginated list response.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
