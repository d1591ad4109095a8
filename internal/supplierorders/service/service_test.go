package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"climstore_backend/internal/supplierorders/repository"
	"climstore_backend/internal/supplierorders/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	orders   map[uuid.UUID]*repository.Order
	quotes   map[uuid.UUID][]uuid.UUID
	items    map[uuid.UUID][]repository.Item
	history  map[uuid.UUID][]repository.HistoryEntry
	nextNum  int
	quoteUse map[uuid.UUID]uuid.UUID
	// blindCheck makes ActiveOrderForQuotes miss, like a concurrent create
	// that has not committed yet; Create still enforces the unique link.
	blindCheck bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:   make(map[uuid.UUID]*repository.Order),
		quotes:   make(map[uuid.UUID][]uuid.UUID),
		items:    make(map[uuid.UUID][]repository.Item),
		history:  make(map[uuid.UUID][]repository.HistoryEntry),
		quoteUse: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeRepo) NextOrderNumber(ctx context.Context) (string, error) {
	f.nextNum++
	return fmt.Sprintf("CMD-2026-%04d", f.nextNum), nil
}

func (f *fakeRepo) ActiveOrderForQuotes(ctx context.Context, quoteIDs []uuid.UUID) (string, error) {
	if f.blindCheck {
		return "", nil
	}
	for _, quoteID := range quoteIDs {
		if orderID, ok := f.quoteUse[quoteID]; ok {
			return f.orders[orderID].OrderNumber, nil
		}
	}
	return "", nil
}

func (f *fakeRepo) Create(ctx context.Context, order *repository.Order, quoteIDs []uuid.UUID, items []repository.Item) error {
	for _, quoteID := range quoteIDs {
		if _, ok := f.quoteUse[quoteID]; ok {
			return apperr.Conflict(fmt.Sprintf("quote %s already belongs to an active supplier order", quoteID))
		}
	}
	copied := *order
	f.orders[order.ID] = &copied
	f.quotes[order.ID] = quoteIDs
	f.items[order.ID] = items
	f.history[order.ID] = []repository.HistoryEntry{{
		ID: uuid.New(), OrderID: order.ID, Status: order.Status, Comment: "order created", CreatedAt: order.CreatedAt,
	}}
	for _, quoteID := range quoteIDs {
		f.quoteUse[quoteID] = order.ID
	}
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("supplier order not found")
	}
	copied := *order
	return &copied, nil
}

func (f *fakeRepo) GetQuoteIDs(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error) {
	return f.quotes[orderID], nil
}

func (f *fakeRepo) GetItems(ctx context.Context, orderID uuid.UUID) ([]repository.Item, error) {
	return f.items[orderID], nil
}

func (f *fakeRepo) GetHistory(ctx context.Context, orderID uuid.UUID) ([]repository.HistoryEntry, error) {
	return f.history[orderID], nil
}

func (f *fakeRepo) List(ctx context.Context) ([]repository.Order, error) {
	var out []repository.Order
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, update repository.StatusUpdate) (bool, error) {
	order, ok := f.orders[id]
	if !ok || order.Status != update.From {
		return false, nil
	}
	order.Status = update.To
	if update.Tracking != nil {
		order.Carrier = update.Tracking.Carrier
		order.TrackingNumber = update.Tracking.TrackingNumber
		order.EstimatedDeliveryDate = update.Tracking.EstimatedDeliveryDate
	}
	if update.DeliveredAt != nil {
		order.ActualDeliveryDate = update.DeliveredAt
	}
	if update.ReleaseQuotes {
		for _, quoteID := range f.quotes[id] {
			delete(f.quoteUse, quoteID)
		}
	}
	f.history[id] = append(f.history[id], repository.HistoryEntry{
		ID: uuid.New(), OrderID: id, Status: update.To, Comment: update.Comment, CreatedAt: time.Now().UTC(),
	})
	return true, nil
}

type fakeQuotes struct {
	summaries map[uuid.UUID]*QuoteSummary
}

func (f *fakeQuotes) QuoteSummary(ctx context.Context, id uuid.UUID) (*QuoteSummary, error) {
	summary, ok := f.summaries[id]
	if !ok {
		return nil, apperr.NotFound("quote not found")
	}
	return summary, nil
}

func acceptedQuote(productID string, totalCents int64, options ...OptionLine) *QuoteSummary {
	return &QuoteSummary{
		ID:          uuid.New(),
		Status:      "accepted",
		TotalCents:  totalCents,
		ProductID:   productID,
		ProductName: "Climatiseur " + productID,
		ProductType: "reversible",
		Options:     options,
	}
}

func newTestService(repo repository.Repository, quotes QuoteReader) *Service {
	return New(repo, quotes, nil, logger.New("test"))
}

func TestCreateFromQuotesAggregates(t *testing.T) {
	q1 := acceptedQuote("clim-5kw", 99800, OptionLine{OptionID: "wifi", OptionName: "Module WiFi"})
	q2 := acceptedQuote("clim-5kw", 99800, OptionLine{OptionID: "wifi", OptionName: "Module WiFi"})
	q3 := acceptedQuote("clim-8kw", 150000)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q1.ID: q1, q2.ID: q2, q3.ID: q3}}
	svc := newTestService(newFakeRepo(), quotes)

	order, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q1.ID, q2.ID, q3.ID},
		Notes:    "urgent",
	})
	if err != nil {
		t.Fatalf("CreateFromQuotes: %v", err)
	}

	if order.Status != transport.StatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if order.TotalAmountCents != 349600 {
		t.Errorf("total = %d, want 349600", order.TotalAmountCents)
	}
	if len(order.Items) != 3 {
		t.Fatalf("items = %d, want 3 merged lines", len(order.Items))
	}

	byID := make(map[string]transport.OrderItem)
	for _, item := range order.Items {
		byID[item.ProductID] = item
	}
	if byID["clim-5kw"].Quantity != 2 {
		t.Errorf("clim-5kw quantity = %d, want 2", byID["clim-5kw"].Quantity)
	}
	if byID["wifi"].Quantity != 2 {
		t.Errorf("wifi quantity = %d, want 2", byID["wifi"].Quantity)
	}
	if byID["clim-8kw"].Quantity != 1 {
		t.Errorf("clim-8kw quantity = %d, want 1", byID["clim-8kw"].Quantity)
	}
}

func TestCreateFromQuotesSingleQuote(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800, OptionLine{OptionID: "wifi", OptionName: "Module WiFi"})
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	order, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if err != nil {
		t.Fatalf("CreateFromQuotes: %v", err)
	}
	if order.TotalAmountCents != 99800 {
		t.Errorf("total = %d, want the quote total", order.TotalAmountCents)
	}
	if order.Items[0].ProductID != "clim-5kw" {
		t.Errorf("first item = %q, want the quote's product", order.Items[0].ProductID)
	}
}

func TestCreateFromQuotesUnknownQuote(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{}})

	_, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{uuid.New()},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestCreateFromQuotesEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeQuotes{})

	_, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestCreateFromQuotesRejectsQuoteInActiveOrder(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	if _, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	}); err != nil {
		t.Fatalf("first order: %v", err)
	}

	_, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("error = %v, want conflict", err)
	}
}

func TestCreateFromQuotesRejectsRacingCreate(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	repo := newFakeRepo()
	svc := newTestService(repo, quotes)

	if _, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	}); err != nil {
		t.Fatalf("first order: %v", err)
	}

	// Pre-check misses, as when a concurrent create committed in between;
	// the insert itself must still reject the second claim on the quote.
	repo.blindCheck = true
	_, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("error = %v, want conflict from the insert", err)
	}
}

func TestCreateFromQuotesAllowsReuseAfterCancellation(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	first, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if err != nil {
		t.Fatalf("first order: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), first.ID, &transport.UpdateStatusRequest{
		Status: "cancelled",
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	}); err != nil {
		t.Fatalf("reuse after cancellation: %v", err)
	}
}

func TestUpdateStatusForwardProgression(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	order, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if err != nil {
		t.Fatalf("CreateFromQuotes: %v", err)
	}

	for _, status := range []string{"submitted", "confirmed", "shipped", "delivered"} {
		updated, err := svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{Status: status})
		if err != nil {
			t.Fatalf("-> %s: %v", status, err)
		}
		if string(updated.Status) != status {
			t.Errorf("status = %q, want %q", updated.Status, status)
		}
	}
}

func TestUpdateStatusRejectsBackward(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	order, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if err != nil {
		t.Fatalf("CreateFromQuotes: %v", err)
	}
	for _, status := range []string{"submitted", "confirmed", "shipped", "delivered"} {
		if _, err := svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{Status: status}); err != nil {
			t.Fatalf("-> %s: %v", status, err)
		}
	}

	_, err = svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{Status: "confirmed"})
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("delivered -> confirmed error = %v, want invalid transition", err)
	}
}

func TestUpdateStatusRejectsSkip(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	order, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if err != nil {
		t.Fatalf("CreateFromQuotes: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{Status: "shipped"})
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("pending -> shipped error = %v, want invalid transition", err)
	}
}

func TestUpdateStatusTrackingGate(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	order, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if err != nil {
		t.Fatalf("CreateFromQuotes: %v", err)
	}

	tracking := &transport.TrackingInfo{Carrier: "DHL", TrackingNumber: "DHL-123"}
	_, err = svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{
		Status:       "submitted",
		TrackingInfo: tracking,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("tracking at submitted error = %v, want validation", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{Status: "submitted"}); err != nil {
		t.Fatalf("-> submitted: %v", err)
	}
	updated, err := svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{
		Status:       "confirmed",
		TrackingInfo: tracking,
	})
	if err != nil {
		t.Fatalf("tracking at confirmed: %v", err)
	}
	if updated.Carrier != "DHL" || updated.TrackingNumber != "DHL-123" {
		t.Errorf("tracking not applied: %+v", updated)
	}
}

func TestUpdateStatusDeliveredSetsDeliveryDate(t *testing.T) {
	q := acceptedQuote("clim-5kw", 99800)
	quotes := &fakeQuotes{summaries: map[uuid.UUID]*QuoteSummary{q.ID: q}}
	svc := newTestService(newFakeRepo(), quotes)

	order, err := svc.CreateFromQuotes(context.Background(), &transport.CreateOrderRequest{
		QuoteIDs: []uuid.UUID{q.ID},
	})
	if err != nil {
		t.Fatalf("CreateFromQuotes: %v", err)
	}
	var updated *transport.OrderResponse
	for _, status := range []string{"submitted", "confirmed", "shipped", "delivered"} {
		updated, err = svc.UpdateStatus(context.Background(), order.ID, &transport.UpdateStatusRequest{Status: status})
		if err != nil {
			t.Fatalf("-> %s: %v", status, err)
		}
	}

	if updated.ActualDeliveryDate == nil {
		t.Error("actual delivery date not set on delivered")
	}
	if len(updated.History) != 5 {
		t.Errorf("history entries = %d, want 5", len(updated.History))
	}
}
