package service

import (
	"context"
	"strings"
	"testing"

	"climstore_backend/internal/payments/gateway"
	"climstore_backend/internal/payments/repository"
	"climstore_backend/internal/payments/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	transactions map[string]*repository.Transaction
	events       map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		transactions: make(map[string]*repository.Transaction),
		events:       make(map[string]bool),
	}
}

func (f *fakeRepo) Create(ctx context.Context, tx *repository.Transaction) error {
	copied := *tx
	f.transactions[tx.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*repository.Transaction, error) {
	tx, ok := f.transactions[id]
	if !ok {
		return nil, apperr.NotFound("transaction not found")
	}
	copied := *tx
	return &copied, nil
}

func (f *fakeRepo) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]repository.Transaction, error) {
	var out []repository.Transaction
	for _, tx := range f.transactions {
		if tx.QuoteID == quoteID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	tx, ok := f.transactions[id]
	if !ok || tx.Status != fromStatus {
		return false, nil
	}
	tx.Status = toStatus
	return true, nil
}

func (f *fakeRepo) RecordEvent(ctx context.Context, eventID, eventType, intentID string) (bool, error) {
	if f.events[eventID] {
		return false, nil
	}
	f.events[eventID] = true
	return true, nil
}

type fakeGateway struct {
	intents map[string]*gateway.Intent
	event   *gateway.WebhookEvent
	badSig  bool
}

func (f *fakeGateway) CreateIntent(ctx context.Context, p gateway.CreateIntentParams) (*gateway.Intent, error) {
	intent := &gateway.Intent{
		ID:           "pi_test_1",
		ClientSecret: "pi_test_1_secret",
		Status:       gateway.IntentStatusProcessing,
		AmountCents:  p.AmountCents,
		Currency:     p.Currency,
		Metadata:     p.Metadata,
	}
	if f.intents == nil {
		f.intents = make(map[string]*gateway.Intent)
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeGateway) GetIntent(ctx context.Context, id string) (*gateway.Intent, error) {
	intent, ok := f.intents[id]
	if !ok {
		return nil, apperr.NotFound("intent not found")
	}
	return intent, nil
}

func (f *fakeGateway) VerifyEvent(payload []byte, signature string) (*gateway.WebhookEvent, error) {
	if f.badSig {
		return nil, apperr.Signature("webhook signature verification failed")
	}
	return f.event, nil
}

type fakeLedger struct {
	amounts map[string]int64
	states  map[string]string
	fail    int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		amounts: map[string]int64{"deposit": 39920, "installationPayment": 29940, "finalPayment": 29940},
		states:  make(map[string]string),
	}
}

func (f *fakeLedger) InstallmentAmount(ctx context.Context, quoteID uuid.UUID, installment string) (int64, error) {
	amount, ok := f.amounts[installment]
	if !ok {
		return 0, apperr.Validation("unknown installment")
	}
	return amount, nil
}

func (f *fakeLedger) SetInstallmentState(ctx context.Context, quoteID uuid.UUID, installment, state string) error {
	if f.fail > 0 {
		f.fail--
		return apperr.Internal("temporarily unavailable")
	}
	f.states[installment] = state
	return nil
}

func newTestService(repo repository.Repository, gw gateway.Gateway, ledger QuoteLedger) *Service {
	return New(repo, gw, ledger, nil, nil, logger.New("test"), "eur")
}

func TestCreateIntentResolvesAmountFromQuote(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	svc := newTestService(repo, &fakeGateway{}, ledger)

	quoteID := uuid.New()
	resp, err := svc.CreateIntent(context.Background(), &transport.CreateIntentRequest{
		QuoteID:     quoteID,
		PaymentType: "deposit",
	})
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	if resp.AmountCents != 39920 {
		t.Errorf("amount = %d, want 39920 from quote", resp.AmountCents)
	}
	if resp.ClientSecret == "" {
		t.Error("client secret missing")
	}
	tx := repo.transactions[resp.TransactionID]
	if tx == nil {
		t.Fatal("transaction not persisted")
	}
	if tx.Status != transport.StatusPending {
		t.Errorf("transaction status = %q, want pending", tx.Status)
	}
	if ledger.states["deposit"] != "pending" {
		t.Errorf("installment state = %q, want pending", ledger.states["deposit"])
	}
}

func TestCreateIntentWithoutGateway(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, newFakeLedger())

	_, err := svc.CreateIntent(context.Background(), &transport.CreateIntentRequest{
		QuoteID:     uuid.New(),
		PaymentType: "deposit",
	})
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("error = %v, want upstream", err)
	}
}

func TestWebhookSucceededMarksQuotePaid(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	quoteID := uuid.New()
	gw := &fakeGateway{event: &gateway.WebhookEvent{
		ID:          "evt_1",
		Type:        gateway.EventIntentSucceeded,
		IntentID:    "pi_test_1",
		AmountCents: 39920,
	}}
	svc := newTestService(repo, gw, ledger)

	if _, err := svc.CreateIntent(context.Background(), &transport.CreateIntentRequest{
		QuoteID:     quoteID,
		PaymentType: "deposit",
	}); err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if repo.transactions["pi_test_1"].Status != transport.StatusSucceeded {
		t.Errorf("transaction status = %q, want succeeded", repo.transactions["pi_test_1"].Status)
	}
	if ledger.states["deposit"] != "paid" {
		t.Errorf("installment state = %q, want paid", ledger.states["deposit"])
	}
}

func TestWebhookRedeliveryIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	gw := &fakeGateway{event: &gateway.WebhookEvent{
		ID:       "evt_1",
		Type:     gateway.EventIntentSucceeded,
		IntentID: "pi_test_1",
	}}
	svc := newTestService(repo, gw, ledger)

	if _, err := svc.CreateIntent(context.Background(), &transport.CreateIntentRequest{
		QuoteID:     uuid.New(),
		PaymentType: "deposit",
	}); err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	ledger.states["deposit"] = "tampered"
	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if ledger.states["deposit"] != "tampered" {
		t.Error("redelivery re-applied the outcome")
	}
}

func TestWebhookFailedRevertsInstallment(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	gw := &fakeGateway{event: &gateway.WebhookEvent{
		ID:       "evt_2",
		Type:     gateway.EventIntentFailed,
		IntentID: "pi_test_1",
	}}
	svc := newTestService(repo, gw, ledger)

	if _, err := svc.CreateIntent(context.Background(), &transport.CreateIntentRequest{
		QuoteID:     uuid.New(),
		PaymentType: "deposit",
	}); err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if repo.transactions["pi_test_1"].Status != transport.StatusFailed {
		t.Errorf("transaction status = %q, want failed", repo.transactions["pi_test_1"].Status)
	}
	if ledger.states["deposit"] != "unpaid" {
		t.Errorf("installment state = %q, want unpaid", ledger.states["deposit"])
	}
}

func TestWebhookBadSignature(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGateway{badSig: true}, newFakeLedger())

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad")
	if !apperr.Is(err, apperr.KindSignature) {
		t.Fatalf("error = %v, want signature", err)
	}
}

func TestWebhookUnhandledEventAcknowledged(t *testing.T) {
	gw := &fakeGateway{event: &gateway.WebhookEvent{ID: "evt_3", Type: "charge.updated"}}
	svc := newTestService(newFakeRepo(), gw, newFakeLedger())

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("unhandled event should be acknowledged, got %v", err)
	}
}

func TestMarkManually(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	// No gateway configured: manual marking must still work.
	svc := newTestService(repo, nil, ledger)

	quoteID := uuid.New()
	tx, err := svc.MarkManually(context.Background(), &transport.MarkPaymentManuallyRequest{
		QuoteID:     quoteID,
		PaymentType: "finalPayment",
		Status:      "paid",
	})
	if err != nil {
		t.Fatalf("MarkManually: %v", err)
	}

	if !strings.HasPrefix(tx.ID, "manual_") {
		t.Errorf("transaction id = %q, want manual_ prefix", tx.ID)
	}
	if tx.Status != transport.StatusSucceeded {
		t.Errorf("status = %q, want succeeded", tx.Status)
	}
	if tx.AmountCents != 29940 {
		t.Errorf("amount = %d, want resolved from quote", tx.AmountCents)
	}
	if ledger.states["finalPayment"] != "paid" {
		t.Errorf("installment state = %q, want paid", ledger.states["finalPayment"])
	}
}

func TestMarkManuallyRespectsRequestedStatus(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	svc := newTestService(repo, nil, ledger)

	quoteID := uuid.New()
	tx, err := svc.MarkManually(context.Background(), &transport.MarkPaymentManuallyRequest{
		QuoteID:     quoteID,
		PaymentType: "deposit",
		Status:      "pending",
	})
	if err != nil {
		t.Fatalf("MarkManually: %v", err)
	}
	if tx.Status != transport.StatusPending {
		t.Errorf("status = %q, want pending", tx.Status)
	}
	if ledger.states["deposit"] != "pending" {
		t.Errorf("installment state = %q, want pending", ledger.states["deposit"])
	}

	// Correcting a mistaken mark back to unpaid.
	tx, err = svc.MarkManually(context.Background(), &transport.MarkPaymentManuallyRequest{
		QuoteID:     quoteID,
		PaymentType: "deposit",
		Status:      "unpaid",
	})
	if err != nil {
		t.Fatalf("MarkManually unpaid: %v", err)
	}
	if tx.Status != transport.StatusFailed {
		t.Errorf("status = %q, want failed", tx.Status)
	}
	if ledger.states["deposit"] != "unpaid" {
		t.Errorf("installment state = %q, want unpaid", ledger.states["deposit"])
	}
}

func TestSyncQuoteRetriesTransientFailure(t *testing.T) {
	repo := newFakeRepo()
	ledger := newFakeLedger()
	ledger.fail = 2
	svc := newTestService(repo, nil, ledger)

	_, err := svc.MarkManually(context.Background(), &transport.MarkPaymentManuallyRequest{
		QuoteID:     uuid.New(),
		PaymentType: "deposit",
		Status:      "paid",
	})
	if err != nil {
		t.Fatalf("MarkManually: %v", err)
	}
	if ledger.states["deposit"] != "paid" {
		t.Errorf("installment state = %q, want paid after retries", ledger.states["deposit"])
	}
}
