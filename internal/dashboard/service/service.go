// Package service computes the back-office performance metrics. Everything
// here is a pure derived view over the quote and order stores.
package service

import (
	"context"
	"math"
	"time"

	"climstore_backend/internal/dashboard/repository"

	"golang.org/x/sync/errgroup"
)

const defaultPeriodDays = 30

// Metrics is the GET /api/dashboard/performance response.
type Metrics struct {
	PeriodDays          int     `json:"periodDays"`
	QuoteCount          int     `json:"quoteCount"`
	SentQuoteCount      int     `json:"sentQuoteCount"`
	AcceptedQuoteCount  int     `json:"acceptedQuoteCount"`
	ConversionRate      float64 `json:"conversionRate"`
	TotalAcceptedCents  int64   `json:"totalAcceptedCents"`
	TotalPaidCents      int64   `json:"totalPaidCents"`
	RecoveryRate        float64 `json:"recoveryRate"`
	AverageBasketCents  int64   `json:"averageBasketCents"`
	OrderCount          int     `json:"orderCount"`
	DeliveredOrderCount int     `json:"deliveredOrderCount"`
	AverageDeliveryDays float64 `json:"averageDeliveryDays"`
}

// Reader provides the source rows for the metrics.
type Reader interface {
	QuotesSince(ctx context.Context, since time.Time) ([]repository.QuoteRow, error)
	OrdersSince(ctx context.Context, since time.Time) ([]repository.OrderRow, error)
}

// Service computes dashboard metrics.
type Service struct {
	reader Reader
}

// New creates a new dashboard service.
func New(reader Reader) *Service {
	return &Service{reader: reader}
}

// Performance aggregates the quote and order metrics for the given period in
// days. Both sides load concurrently.
func (s *Service) Performance(ctx context.Context, periodDays int) (*Metrics, error) {
	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}
	since := time.Now().UTC().AddDate(0, 0, -periodDays)

	var quotes []repository.QuoteRow
	var orders []repository.OrderRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quotes, err = s.reader.QuotesSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.reader.OrdersSince(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics := aggregateQuotes(quotes)
	aggregateOrders(orders, metrics)
	metrics.PeriodDays = periodDays
	return metrics, nil
}

func aggregateQuotes(quotes []repository.QuoteRow) *Metrics {
	m := &Metrics{QuoteCount: len(quotes)}

	for _, q := range quotes {
		switch q.Status {
		case "sent":
			m.SentQuoteCount++
		case "accepted":
			m.SentQuoteCount++
			m.AcceptedQuoteCount++
			m.TotalAcceptedCents += q.TotalPriceCents
			m.TotalPaidCents += paidCents(q)
		}
	}

	m.ConversionRate = percent(float64(m.AcceptedQuoteCount), float64(m.SentQuoteCount))
	m.RecoveryRate = percent(float64(m.TotalPaidCents), float64(m.TotalAcceptedCents))
	if m.AcceptedQuoteCount > 0 {
		m.AverageBasketCents = m.TotalAcceptedCents / int64(m.AcceptedQuoteCount)
	}
	return m
}

func aggregateOrders(orders []repository.OrderRow, m *Metrics) {
	m.OrderCount = len(orders)

	var totalDays float64
	var measured int
	for _, o := range orders {
		if o.Status != "delivered" {
			continue
		}
		m.DeliveredOrderCount++
		if o.EstimatedDeliveryDate == nil {
			continue
		}
		totalDays += o.EstimatedDeliveryDate.Sub(o.CreatedAt).Hours() / 24
		measured++
	}

	if measured > 0 {
		m.AverageDeliveryDays = round2(totalDays / float64(measured))
	}
}

// paidCents sums the installments of a quote that have been paid.
func paidCents(q repository.QuoteRow) int64 {
	var paid int64
	if q.DepositStatus == "paid" {
		paid += q.DepositCents
	}
	if q.InstallationPaymentStatus == "paid" {
		paid += q.InstallationPaymentCents
	}
	if q.FinalPaymentStatus == "paid" {
		paid += q.FinalPaymentCents
	}
	return paid
}

// percent guards division by zero: an empty denominator yields 0, not an error.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round2(num / den * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
