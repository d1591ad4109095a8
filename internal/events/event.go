// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"climstore_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Quotes Domain Events
// =============================================================================

// QuoteCreated is published when a quote is persisted.
type QuoteCreated struct {
	BaseEvent
	QuoteID         uuid.UUID `json:"quoteId"`
	QuoteNumber     string    `json:"quoteNumber"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	TotalPriceCents int64     `json:"totalPriceCents"`
}

func (e QuoteCreated) EventName() string { return "quotes.quote.created" }

// QuoteStatusChanged is published when a quote moves through its lifecycle
// (draft -> sent -> accepted, or cancelled).
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID         uuid.UUID `json:"quoteId"`
	QuoteNumber     string    `json:"quoteNumber"`
	OldStatus       string    `json:"oldStatus"`
	NewStatus       string    `json:"newStatus"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	TotalPriceCents int64     `json:"totalPriceCents"`
}

func (e QuoteStatusChanged) EventName() string { return "quotes.quote.status_changed" }

// QuotePaymentStatusChanged is published when one of the three installments
// changes payment state.
type QuotePaymentStatusChanged struct {
	BaseEvent
	QuoteID       uuid.UUID `json:"quoteId"`
	QuoteNumber   string    `json:"quoteNumber"`
	Installment   string    `json:"installment"`
	Status        string    `json:"status"`
	AmountCents   int64     `json:"amountCents"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
}

func (e QuotePaymentStatusChanged) EventName() string { return "quotes.quote.payment_status_changed" }

// =============================================================================
// Payments Domain Events
// =============================================================================

// PaymentRecorded is published when a transaction reaches a terminal gateway
// status, or when an operator records a payment manually.
type PaymentRecorded struct {
	BaseEvent
	TransactionID string    `json:"transactionId"`
	QuoteID       uuid.UUID `json:"quoteId"`
	Installment   string    `json:"installment"`
	Status        string    `json:"status"`
	AmountCents   int64     `json:"amountCents"`
	Manual        bool      `json:"manual"`
}

func (e PaymentRecorded) EventName() string { return "payments.payment.recorded" }

// =============================================================================
// Supplier Order Domain Events
// =============================================================================

// SupplierOrderCreated is published when quotes are aggregated into a purchase order.
type SupplierOrderCreated struct {
	BaseEvent
	OrderID          uuid.UUID   `json:"orderId"`
	OrderNumber      string      `json:"orderNumber"`
	QuoteIDs         []uuid.UUID `json:"quoteIds"`
	TotalAmountCents int64       `json:"totalAmountCents"`
}

func (e SupplierOrderCreated) EventName() string { return "supplierorders.order.created" }

// SupplierOrderStatusChanged is published on every order status transition.
type SupplierOrderStatusChanged struct {
	BaseEvent
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
}

func (e SupplierOrderStatusChanged) EventName() string { return "supplierorders.order.status_changed" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is captured.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Source string    `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }
