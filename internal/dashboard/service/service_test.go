package service

import (
	"context"
	"testing"
	"time"

	"climstore_backend/internal/dashboard/repository"
)

type fakeReader struct {
	quotes []repository.QuoteRow
	orders []repository.OrderRow
}

func (f *fakeReader) QuotesSince(ctx context.Context, since time.Time) ([]repository.QuoteRow, error) {
	return f.quotes, nil
}

func (f *fakeReader) OrdersSince(ctx context.Context, since time.Time) ([]repository.OrderRow, error) {
	return f.orders, nil
}

func acceptedQuote(totalCents int64, depositPaid, installationPaid, finalPaid bool) repository.QuoteRow {
	q := repository.QuoteRow{
		Status:                    "accepted",
		TotalPriceCents:           totalCents,
		DepositCents:              totalCents * 40 / 100,
		InstallationPaymentCents:  totalCents * 30 / 100,
		FinalPaymentCents:         totalCents - totalCents*40/100 - totalCents*30/100,
		DepositStatus:             "unpaid",
		InstallationPaymentStatus: "unpaid",
		FinalPaymentStatus:        "unpaid",
	}
	if depositPaid {
		q.DepositStatus = "paid"
	}
	if installationPaid {
		q.InstallationPaymentStatus = "paid"
	}
	if finalPaid {
		q.FinalPaymentStatus = "paid"
	}
	return q
}

func TestPerformanceQuoteMetrics(t *testing.T) {
	reader := &fakeReader{
		quotes: []repository.QuoteRow{
			{Status: "draft"},
			{Status: "sent", TotalPriceCents: 50000},
			{Status: "sent", TotalPriceCents: 80000},
			{Status: "cancelled"},
			acceptedQuote(100000, true, false, false),
			acceptedQuote(200000, true, true, true),
		},
	}
	svc := New(reader)

	m, err := svc.Performance(context.Background(), 30)
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}

	if m.QuoteCount != 6 {
		t.Errorf("quoteCount = %d, want 6", m.QuoteCount)
	}
	if m.SentQuoteCount != 4 {
		t.Errorf("sentQuoteCount = %d, want 4 (sent or accepted)", m.SentQuoteCount)
	}
	if m.AcceptedQuoteCount != 2 {
		t.Errorf("acceptedQuoteCount = %d, want 2", m.AcceptedQuoteCount)
	}
	if m.ConversionRate != 50 {
		t.Errorf("conversionRate = %v, want 50", m.ConversionRate)
	}
	if m.TotalAcceptedCents != 300000 {
		t.Errorf("totalAccepted = %d, want 300000", m.TotalAcceptedCents)
	}
	// 40% of the first accepted quote plus all of the second.
	if m.TotalPaidCents != 240000 {
		t.Errorf("totalPaid = %d, want 240000", m.TotalPaidCents)
	}
	if m.RecoveryRate != 80 {
		t.Errorf("recoveryRate = %v, want 80", m.RecoveryRate)
	}
	if m.AverageBasketCents != 150000 {
		t.Errorf("averageBasket = %d, want 150000", m.AverageBasketCents)
	}
}

func TestPerformanceOrderMetrics(t *testing.T) {
	now := time.Now().UTC()
	eta5 := now.Add(5 * 24 * time.Hour)
	eta9 := now.Add(9 * 24 * time.Hour)
	reader := &fakeReader{
		orders: []repository.OrderRow{
			{Status: "pending", CreatedAt: now},
			{Status: "delivered", CreatedAt: now, EstimatedDeliveryDate: &eta5},
			{Status: "delivered", CreatedAt: now, EstimatedDeliveryDate: &eta9},
			{Status: "delivered", CreatedAt: now}, // no estimate, excluded from the average
		},
	}
	svc := New(reader)

	m, err := svc.Performance(context.Background(), 30)
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}

	if m.OrderCount != 4 {
		t.Errorf("orderCount = %d, want 4", m.OrderCount)
	}
	if m.DeliveredOrderCount != 3 {
		t.Errorf("deliveredOrderCount = %d, want 3", m.DeliveredOrderCount)
	}
	if m.AverageDeliveryDays != 7 {
		t.Errorf("averageDeliveryDays = %v, want 7", m.AverageDeliveryDays)
	}
}

func TestPerformanceEmptyWindowYieldsZeroes(t *testing.T) {
	svc := New(&fakeReader{})

	m, err := svc.Performance(context.Background(), 0)
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}

	if m.PeriodDays != defaultPeriodDays {
		t.Errorf("periodDays = %d, want default %d", m.PeriodDays, defaultPeriodDays)
	}
	if m.ConversionRate != 0 || m.RecoveryRate != 0 || m.AverageBasketCents != 0 || m.AverageDeliveryDays != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}
