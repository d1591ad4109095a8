// Package service contains the payment business logic: intent creation,
// webhook reconciliation and manual payment overrides.
package service

import (
	"context"
	"fmt"
	"time"

	"climstore_backend/internal/events"
	"climstore_backend/internal/payments/gateway"
	"climstore_backend/internal/payments/repository"
	"climstore_backend/internal/payments/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/retry"

	"github.com/google/uuid"
)

const (
	metadataQuoteID     = "quoteId"
	metadataPaymentType = "paymentType"

	quoteSyncAttempts = 3
	quoteSyncDelay    = 200 * time.Millisecond
)

// QuoteLedger is the quotes-module port the payment service reconciles
// installment states against.
type QuoteLedger interface {
	// InstallmentAmount returns the cent amount of one installment of a quote.
	InstallmentAmount(ctx context.Context, quoteID uuid.UUID, installment string) (int64, error)
	// SetInstallmentState updates the payment state of one installment.
	SetInstallmentState(ctx context.Context, quoteID uuid.UUID, installment, state string) error
}

// Syncer hands the quote state update to a background worker. When enqueueing
// fails the service falls back to a synchronous retried update.
type Syncer interface {
	EnqueueQuoteSync(ctx context.Context, quoteID uuid.UUID, installment, state string) error
}

// Service implements the payment use cases.
type Service struct {
	repo     repository.Repository
	gateway  gateway.Gateway
	ledger   QuoteLedger
	syncer   Syncer
	bus      events.Bus
	logger   *logger.Logger
	currency string
}

// New creates a new payment service. The gateway may be nil when no provider
// is configured; card endpoints then refuse, manual marking still works. The
// syncer is optional.
func New(repo repository.Repository, gw gateway.Gateway, ledger QuoteLedger, syncer Syncer, bus events.Bus, log *logger.Logger, currency string) *Service {
	if currency == "" {
		currency = "eur"
	}
	return &Service{
		repo:     repo,
		gateway:  gw,
		ledger:   ledger,
		syncer:   syncer,
		bus:      bus,
		logger:   log,
		currency: currency,
	}
}

// CreateIntent registers a payment intent for one installment of a quote and
// records the pending transaction. The installment moves to pending on the
// quote so the back office sees the payment in flight.
func (s *Service) CreateIntent(ctx context.Context, req *transport.CreateIntentRequest) (*transport.CreateIntentResponse, error) {
	if s.gateway == nil {
		return nil, apperr.Upstream("payment gateway is not configured", nil)
	}

	amount := req.AmountCents
	if amount == 0 {
		resolved, err := s.ledger.InstallmentAmount(ctx, req.QuoteID, req.PaymentType)
		if err != nil {
			return nil, err
		}
		amount = resolved
	}
	if amount <= 0 {
		return nil, apperr.Validation("payment amount must be positive")
	}

	intent, err := s.gateway.CreateIntent(ctx, gateway.CreateIntentParams{
		AmountCents: amount,
		Currency:    s.currency,
		Description: fmt.Sprintf("%s for quote %s", req.PaymentType, req.QuoteID),
		Metadata: map[string]string{
			metadataQuoteID:     req.QuoteID.String(),
			metadataPaymentType: req.PaymentType,
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &repository.Transaction{
		ID:          intent.ID,
		QuoteID:     req.QuoteID,
		AmountCents: amount,
		Currency:    s.currency,
		Type:        req.PaymentType,
		Status:      transport.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.ledger.SetInstallmentState(ctx, req.QuoteID, req.PaymentType, "pending"); err != nil {
		s.logger.Error("mark installment pending failed", "quote_id", req.QuoteID, "error", err)
	}

	s.logger.PaymentEvent("intent_created", intent.ID, req.QuoteID.String(), amount)

	return &transport.CreateIntentResponse{
		TransactionID: tx.ID,
		ClientSecret:  intent.ClientSecret,
		AmountCents:   amount,
		Currency:      s.currency,
	}, nil
}

// Confirm polls the gateway for an intent's outcome and applies it. The
// frontend calls this after the payment form completes; the webhook remains
// the source of truth and applying the same outcome twice is harmless.
func (s *Service) Confirm(ctx context.Context, intentID string) (*transport.TransactionResponse, error) {
	if s.gateway == nil {
		return nil, apperr.Upstream("payment gateway is not configured", nil)
	}

	intent, err := s.gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	switch intent.Status {
	case gateway.IntentStatusSucceeded:
		if err := s.applyOutcome(ctx, intentID, transport.StatusSucceeded); err != nil {
			return nil, err
		}
	case gateway.IntentStatusFailed:
		if err := s.applyOutcome(ctx, intentID, transport.StatusFailed); err != nil {
			return nil, err
		}
	}

	return s.GetTransaction(ctx, intentID)
}

// HandleWebhook verifies and processes a gateway notification. Events are
// recorded by ID, so redelivery is a no-op.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return apperr.Upstream("payment gateway is not configured", nil)
	}

	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return err
	}

	inserted, err := s.repo.RecordEvent(ctx, event.ID, event.Type, event.IntentID)
	if err != nil {
		return err
	}
	if !inserted {
		s.logger.PaymentEvent("webhook_duplicate", event.IntentID, event.Metadata[metadataQuoteID], event.AmountCents)
		return nil
	}

	switch event.Type {
	case gateway.EventIntentSucceeded:
		s.logger.PaymentEvent("webhook_succeeded", event.IntentID, event.Metadata[metadataQuoteID], event.AmountCents)
		return s.applyOutcome(ctx, event.IntentID, transport.StatusSucceeded)
	case gateway.EventIntentFailed:
		s.logger.PaymentEvent("webhook_failed", event.IntentID, event.Metadata[metadataQuoteID], event.AmountCents)
		return s.applyOutcome(ctx, event.IntentID, transport.StatusFailed)
	default:
		// Unhandled event types are acknowledged so the provider stops retrying.
		return nil
	}
}

// MarkManually records an out-of-band payment (bank transfer, cheque) for one
// installment without going through the gateway. The requested installment
// state drives both the transaction status and the quote sync, so an operator
// can also move an installment back to pending or unpaid.
func (s *Service) MarkManually(ctx context.Context, req *transport.MarkPaymentManuallyRequest) (*transport.TransactionResponse, error) {
	amount, err := s.ledger.InstallmentAmount(ctx, req.QuoteID, req.PaymentType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &repository.Transaction{
		ID:          fmt.Sprintf("manual_%d", now.UnixMilli()),
		QuoteID:     req.QuoteID,
		AmountCents: amount,
		Currency:    s.currency,
		Type:        req.PaymentType,
		Status:      manualTransactionStatus(req.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.syncQuote(ctx, req.QuoteID, req.PaymentType, req.Status)
	s.logger.PaymentEvent("manual_payment", tx.ID, req.QuoteID.String(), amount)

	s.publish(ctx, events.PaymentRecorded{
		BaseEvent:     events.NewBaseEvent(),
		TransactionID: tx.ID,
		QuoteID:       req.QuoteID,
		Installment:   req.PaymentType,
		Status:        tx.Status,
		AmountCents:   amount,
		Manual:        true,
	})

	return toResponse(tx), nil
}

// manualTransactionStatus maps the installment state an operator sets to the
// transaction status recorded for the manual entry.
func manualTransactionStatus(installmentState string) string {
	switch installmentState {
	case "paid":
		return transport.StatusSucceeded
	case "unpaid":
		return transport.StatusFailed
	default:
		return transport.StatusPending
	}
}

// GetTransaction returns a single transaction.
func (s *Service) GetTransaction(ctx context.Context, id string) (*transport.TransactionResponse, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(tx), nil
}

// ListByQuote returns the transactions of a quote, newest first.
func (s *Service) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]transport.TransactionResponse, error) {
	txs, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, *toResponse(&txs[i]))
	}
	return out, nil
}

// applyOutcome moves a pending transaction to its terminal status and brings
// the quote's installment state in line. The conditional write means a second
// delivery of the same outcome changes nothing.
func (s *Service) applyOutcome(ctx context.Context, intentID, status string) error {
	updated, err := s.repo.UpdateStatus(ctx, intentID, transport.StatusPending, status)
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}

	tx, err := s.repo.GetByID(ctx, intentID)
	if err != nil {
		return err
	}

	state := "unpaid"
	if status == transport.StatusSucceeded {
		state = "paid"
	}
	s.syncQuote(ctx, tx.QuoteID, tx.Type, state)

	s.publish(ctx, events.PaymentRecorded{
		BaseEvent:     events.NewBaseEvent(),
		TransactionID: tx.ID,
		QuoteID:       tx.QuoteID,
		Installment:   tx.Type,
		Status:        status,
		AmountCents:   tx.AmountCents,
	})
	return nil
}

// syncQuote updates the quote's installment state, preferring the background
// worker. Failures are logged, not surfaced: the transaction record is the
// source of truth and the webhook will be redelivered on a 5xx anyway.
func (s *Service) syncQuote(ctx context.Context, quoteID uuid.UUID, installment, state string) {
	if s.syncer != nil {
		err := s.syncer.EnqueueQuoteSync(ctx, quoteID, installment, state)
		if err == nil {
			return
		}
		s.logger.Error("enqueue quote sync failed, falling back to direct update",
			"quote_id", quoteID, "error", err)
	}

	err := retry.Do(ctx, quoteSyncAttempts, quoteSyncDelay, func() error {
		return s.ledger.SetInstallmentState(ctx, quoteID, installment, state)
	})
	if err != nil {
		s.logger.Error("quote installment sync failed",
			"quote_id", quoteID, "installment", installment, "state", state, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func toResponse(tx *repository.Transaction) *transport.TransactionResponse {
	return &transport.TransactionResponse{
		ID:          tx.ID,
		QuoteID:     tx.QuoteID,
		AmountCents: tx.AmountCents,
		Currency:    tx.Currency,
		Type:        tx.Type,
		Status:      tx.Status,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}
