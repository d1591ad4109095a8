// Package transport defines the request/response DTOs for the supplier order
// module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"climstore_backend/platform/fsm"
)

// OrderStatus is the lifecycle state of a supplier order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusSubmitted OrderStatus = "submitted"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// StatusMachine enforces forward-only progression. Cancellation is allowed
// from any non-terminal state; delivered and cancelled are terminal.
var StatusMachine = fsm.New("supplier order", map[string][]string{
	string(StatusPending):   {string(StatusSubmitted), string(StatusCancelled)},
	string(StatusSubmitted): {string(StatusConfirmed), string(StatusCancelled)},
	string(StatusConfirmed): {string(StatusShipped), string(StatusCancelled)},
	string(StatusShipped):   {string(StatusDelivered), string(StatusCancelled)},
	string(StatusDelivered): {},
	string(StatusCancelled): {},
})

// TrackingAllowed reports whether tracking information may be attached at the
// given status (confirmed or later).
func TrackingAllowed(status string) bool {
	switch OrderStatus(status) {
	case StatusConfirmed, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// CreateOrderRequest is the payload for POST /api/supplier-orders.
type CreateOrderRequest struct {
	QuoteIDs []uuid.UUID `json:"quoteIds" validate:"required,min=1"`
	Notes    string      `json:"notes"`
}

// TrackingInfo carries carrier details for a confirmed order.
type TrackingInfo struct {
	Carrier               string     `json:"carrier"`
	TrackingNumber        string     `json:"trackingNumber"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
}

// UpdateStatusRequest is the payload for PATCH /api/supplier-orders/:id/status.
type UpdateStatusRequest struct {
	Status       string        `json:"status" validate:"required"`
	Comment      string        `json:"comment"`
	TrackingInfo *TrackingInfo `json:"trackingInfo"`
}

// OrderItem is one aggregated product line on a supplier order.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	ProductType string `json:"productType"`
	Quantity    int    `json:"quantity"`
}

// HistoryEntry is one row of the append-only status history.
type HistoryEntry struct {
	Status    string    `json:"status"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderResponse is the wire representation of a supplier order.
type OrderResponse struct {
	ID                    uuid.UUID      `json:"id"`
	OrderNumber           string         `json:"orderNumber"`
	Status                OrderStatus    `json:"status"`
	Notes                 string         `json:"notes"`
	QuoteIDs              []uuid.UUID    `json:"quoteIds"`
	Items                 []OrderItem    `json:"products"`
	TotalAmountCents      int64          `json:"totalAmountCents"`
	Carrier               string         `json:"carrier,omitempty"`
	TrackingNumber        string         `json:"trackingNumber,omitempty"`
	EstimatedDeliveryDate *time.Time     `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time     `json:"actualDeliveryDate,omitempty"`
	History               []HistoryEntry `json:"history,omitempty"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

// OrderEnvelope wraps an order in the response shape the original API exposed.
type OrderEnvelope struct {
	SupplierOrder OrderResponse `json:"supplierOrder"`
}

// OrderListResponse is the list response.
type OrderListResponse struct {
	SupplierOrders []OrderResponse `json:"supplierOrders"`
	Total          int             `json:"total"`
}
