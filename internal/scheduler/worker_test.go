package scheduler

import (
	"context"
	"errors"
	"testing"

	"climstore_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeLedger struct {
	quoteID     uuid.UUID
	installment string
	state       string
	calls       int
}

func (f *fakeLedger) InstallmentAmount(ctx context.Context, quoteID uuid.UUID, installment string) (int64, error) {
	return 0, nil
}

func (f *fakeLedger) SetInstallmentState(ctx context.Context, quoteID uuid.UUID, installment, state string) error {
	f.quoteID = quoteID
	f.installment = installment
	f.state = state
	f.calls++
	return nil
}

func TestQuoteSyncHandlerAppliesState(t *testing.T) {
	ledger := &fakeLedger{}
	handler := quoteSyncHandler(ledger, logger.New("test"))

	quoteID := uuid.New()
	task, err := NewQuoteSyncTask(quoteID, "deposit", "paid")
	if err != nil {
		t.Fatalf("NewQuoteSyncTask: %v", err)
	}

	if err := handler(context.Background(), task); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if ledger.calls != 1 {
		t.Fatalf("ledger calls = %d, want 1", ledger.calls)
	}
	if ledger.quoteID != quoteID || ledger.installment != "deposit" || ledger.state != "paid" {
		t.Errorf("ledger got (%s, %s, %s)", ledger.quoteID, ledger.installment, ledger.state)
	}
}

func TestQuoteSyncHandlerSkipsMalformedPayload(t *testing.T) {
	ledger := &fakeLedger{}
	handler := quoteSyncHandler(ledger, logger.New("test"))

	err := handler(context.Background(), asynq.NewTask(TypeQuoteSync, []byte("not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
	if ledger.calls != 0 {
		t.Errorf("ledger called %d times for malformed payload", ledger.calls)
	}
}
