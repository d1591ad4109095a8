// Package service contains the supplier order business logic: aggregating
// accepted quotes into purchase orders and tracking them to delivery.
package service

import (
	"context"
	"fmt"
	"time"

	"climstore_backend/internal/events"
	"climstore_backend/internal/supplierorders/repository"
	"climstore_backend/internal/supplierorders/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"

	"github.com/google/uuid"
)

// QuoteSummary is the view of a quote the aggregation needs.
type QuoteSummary struct {
	ID          uuid.UUID
	QuoteNumber string
	Status      string
	TotalCents  int64
	ProductID   string
	ProductName string
	ProductType string
	Options     []OptionLine
}

// OptionLine is one selected option on a quote.
type OptionLine struct {
	OptionID   string
	OptionName string
	OptionType string
}

// QuoteReader is the quotes-module port the aggregation reads through.
type QuoteReader interface {
	QuoteSummary(ctx context.Context, id uuid.UUID) (*QuoteSummary, error)
}

// Service implements the supplier order use cases.
type Service struct {
	repo   repository.Repository
	quotes QuoteReader
	bus    events.Bus
	logger *logger.Logger
}

// New creates a new supplier order service.
func New(repo repository.Repository, quotes QuoteReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, quotes: quotes, bus: bus, logger: log}
}

// CreateFromQuotes aggregates the given quotes into a pending purchase order.
// Every quote must resolve, and a quote can belong to at most one active
// (non-cancelled) order.
func (s *Service) CreateFromQuotes(ctx context.Context, req *transport.CreateOrderRequest) (*transport.OrderResponse, error) {
	quoteIDs := dedupe(req.QuoteIDs)
	if len(quoteIDs) == 0 {
		return nil, apperr.Validation("at least one quote is required")
	}

	// Advisory pre-check for a message naming the conflicting order; the
	// unique index on active quote links enforces the invariant in Create.
	if existing, err := s.repo.ActiveOrderForQuotes(ctx, quoteIDs); err != nil {
		return nil, err
	} else if existing != "" {
		return nil, apperr.Conflict(fmt.Sprintf("a quote already belongs to active order %s", existing))
	}

	summaries := make([]*QuoteSummary, 0, len(quoteIDs))
	for _, id := range quoteIDs {
		summary, err := s.quotes.QuoteSummary(ctx, id)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.Validation(fmt.Sprintf("quote %s does not exist", id))
			}
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	orderNumber, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	items, total := aggregate(summaries)
	now := time.Now().UTC()
	order := &repository.Order{
		ID:               uuid.New(),
		OrderNumber:      orderNumber,
		Status:           string(transport.StatusPending),
		Notes:            req.Notes,
		TotalAmountCents: total,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	dbItems := make([]repository.Item, 0, len(items))
	for i, item := range items {
		dbItems = append(dbItems, repository.Item{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductType: item.ProductType,
			Quantity:    item.Quantity,
			SortOrder:   i,
		})
	}

	if err := s.repo.Create(ctx, order, quoteIDs, dbItems); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SupplierOrderCreated{
		BaseEvent:        events.NewBaseEvent(),
		OrderID:          order.ID,
		OrderNumber:      order.OrderNumber,
		QuoteIDs:         quoteIDs,
		TotalAmountCents: total,
	})

	return &transport.OrderResponse{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		Status:           transport.StatusPending,
		Notes:            order.Notes,
		QuoteIDs:         quoteIDs,
		Items:            items,
		TotalAmountCents: total,
		History: []transport.HistoryEntry{
			{Status: order.Status, Comment: "order created", CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateStatus moves an order through its lifecycle. Progression is forward
// only and tracking information may only be attached from confirmed onward.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *transport.UpdateStatusRequest) (*transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transport.StatusMachine.Transition(order.Status, req.Status); err != nil {
		return nil, err
	}
	if req.TrackingInfo != nil && !transport.TrackingAllowed(req.Status) {
		return nil, apperr.Validation("tracking information can only be set once the order is confirmed")
	}

	update := repository.StatusUpdate{
		From:    order.Status,
		To:      req.Status,
		Comment: req.Comment,
	}
	if req.TrackingInfo != nil {
		update.Tracking = &repository.Tracking{
			Carrier:               nilIfEmpty(req.TrackingInfo.Carrier),
			TrackingNumber:        nilIfEmpty(req.TrackingInfo.TrackingNumber),
			EstimatedDeliveryDate: req.TrackingInfo.EstimatedDeliveryDate,
		}
	}
	if req.Status == string(transport.StatusDelivered) {
		now := time.Now().UTC()
		update.DeliveredAt = &now
	}
	if req.Status == string(transport.StatusCancelled) {
		update.ReleaseQuotes = true
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.Conflict("order status changed concurrently, retry")
	}

	s.publish(ctx, events.SupplierOrderStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   order.Status,
		NewStatus:   req.Status,
	})

	return s.GetByID(ctx, id)
}

// GetByID returns an order with its quotes, items and history.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, order, true)
}

// List returns all orders, newest first, without their histories.
func (s *Service) List(ctx context.Context) (*transport.OrderListResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &transport.OrderListResponse{
		SupplierOrders: make([]transport.OrderResponse, 0, len(orders)),
		Total:          len(orders),
	}
	for i := range orders {
		assembled, err := s.assemble(ctx, &orders[i], false)
		if err != nil {
			return nil, err
		}
		resp.SupplierOrders = append(resp.SupplierOrders, *assembled)
	}
	return resp, nil
}

func (s *Service) assemble(ctx context.Context, order *repository.Order, withHistory bool) (*transport.OrderResponse, error) {
	quoteIDs, err := s.repo.GetQuoteIDs(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	dbItems, err := s.repo.GetItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.OrderItem, 0, len(dbItems))
	for _, it := range dbItems {
		items = append(items, transport.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductType: it.ProductType,
			Quantity:    it.Quantity,
		})
	}

	resp := &transport.OrderResponse{
		ID:                    order.ID,
		OrderNumber:           order.OrderNumber,
		Status:                transport.OrderStatus(order.Status),
		Notes:                 order.Notes,
		QuoteIDs:              quoteIDs,
		Items:                 items,
		TotalAmountCents:      order.TotalAmountCents,
		Carrier:               deref(order.Carrier),
		TrackingNumber:        deref(order.TrackingNumber),
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		ActualDeliveryDate:    order.ActualDeliveryDate,
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}

	if withHistory {
		history, err := s.repo.GetHistory(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		resp.History = make([]transport.HistoryEntry, 0, len(history))
		for _, h := range history {
			resp.History = append(resp.History, transport.HistoryEntry{
				Status:    h.Status,
				Comment:   h.Comment,
				CreatedAt: h.CreatedAt,
			})
		}
	}
	return resp, nil
}

// aggregate merges product and option lines across quotes: the same product
// or option id increments the quantity instead of adding a new line.
func aggregate(summaries []*QuoteSummary) ([]transport.OrderItem, int64) {
	var total int64
	index := make(map[string]int)
	var items []transport.OrderItem

	add := func(id, name, typ string) {
		if pos, ok := index[id]; ok {
			items[pos].Quantity++
			return
		}
		index[id] = len(items)
		items = append(items, transport.OrderItem{
			ProductID:   id,
			ProductName: name,
			ProductType: typ,
			Quantity:    1,
		})
	}

	for _, q := range summaries {
		total += q.TotalCents
		add(q.ProductID, q.ProductName, q.ProductType)
		for _, opt := range q.Options {
			add(opt.OptionID, opt.OptionName, opt.OptionType)
		}
	}
	return items, total
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
