// Package transport defines the request/response DTOs for the payments module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// CreateIntentRequest is the payload for POST /api/payment/intent.
// AmountCents is optional: when omitted the installment amount is resolved
// from the quote.
type CreateIntentRequest struct {
	QuoteID     uuid.UUID `json:"quoteId" validate:"required"`
	PaymentType string    `json:"paymentType" validate:"required,oneof=deposit installationPayment finalPayment"`
	AmountCents int64     `json:"amountCents" validate:"gte=0"`
}

// CreateIntentResponse carries the client secret the frontend needs to collect
// the payment.
type CreateIntentResponse struct {
	TransactionID string `json:"transactionId"`
	ClientSecret  string `json:"clientSecret"`
	AmountCents   int64  `json:"amountCents"`
	Currency      string `json:"currency"`
}

// ConfirmPaymentRequest is the payload for POST /api/payment/confirm.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// MarkPaymentManuallyRequest is the payload for PATCH /api/mark-payment-manually.
// It records an out-of-band payment (bank transfer, cheque) without the gateway.
// Status is the installment state the operator sets, which also allows undoing
// a mistaken mark.
type MarkPaymentManuallyRequest struct {
	QuoteID     uuid.UUID `json:"quoteId" validate:"required"`
	PaymentType string    `json:"paymentType" validate:"required,oneof=deposit installationPayment finalPayment"`
	Status      string    `json:"status" validate:"required,oneof=unpaid pending paid"`
}

// TransactionResponse is the wire representation of a payment transaction.
type TransactionResponse struct {
	ID          string    `json:"id"`
	QuoteID     uuid.UUID `json:"quoteId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TransactionEnvelope wraps a transaction in the response shape the API exposes.
type TransactionEnvelope struct {
	Transaction TransactionResponse `json:"transaction"`
}
