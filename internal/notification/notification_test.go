package notification

import (
	"context"
	"strings"
	"testing"

	"climstore_backend/internal/events"
	"climstore_backend/platform/logger"

	"github.com/google/uuid"
)

type capturedMail struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	sent []capturedMail
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.sent = append(f.sent, capturedMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func TestQuoteSentNotification(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, logger.New("test"))

	err := n.onQuoteStatusChanged(context.Background(), events.QuoteStatusChanged{
		BaseEvent:       events.NewBaseEvent(),
		QuoteID:         uuid.New(),
		QuoteNumber:     "DEV-2026-0042",
		OldStatus:       "draft",
		NewStatus:       "sent",
		CustomerName:    "Marie Dubois",
		CustomerEmail:   "marie@example.fr",
		TotalPriceCents: 99800,
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "marie@example.fr" {
		t.Errorf("to = %q", mail.to)
	}
	if !strings.Contains(mail.body, "DEV-2026-0042") {
		t.Error("body missing quote number")
	}
	if !strings.Contains(mail.body, "998,00") {
		t.Errorf("body missing formatted amount: %s", mail.body)
	}
}

func TestQuoteStatusOtherThanSentIgnored(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, logger.New("test"))

	err := n.onQuoteStatusChanged(context.Background(), events.QuoteStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		NewStatus: "accepted",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0 for non-sent transitions", len(sender.sent))
	}
}

func TestPaymentReceivedNotification(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, logger.New("test"))

	err := n.onPaymentStatusChanged(context.Background(), events.QuotePaymentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		QuoteID:       uuid.New(),
		QuoteNumber:   "DEV-2026-0042",
		Installment:   "deposit",
		Status:        "paid",
		AmountCents:   39920,
		CustomerName:  "Marie Dubois",
		CustomerEmail: "marie@example.fr",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	body := sender.sent[0].body
	if !strings.Contains(body, "399,20") {
		t.Errorf("body missing amount: %s", body)
	}
	if !strings.Contains(body, "acompte") {
		t.Errorf("body missing installment label: %s", body)
	}
}

func TestPendingPaymentIgnored(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, logger.New("test"))

	err := n.onPaymentStatusChanged(context.Background(), events.QuotePaymentStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		Status:      "pending",
		Installment: "deposit",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0 for pending", len(sender.sent))
	}
}

func TestNoSenderIsNoOp(t *testing.T) {
	n := New(nil, logger.New("test"))

	err := n.onQuoteStatusChanged(context.Background(), events.QuoteStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		NewStatus:     "sent",
		CustomerEmail: "marie@example.fr",
	})
	if err != nil {
		t.Fatalf("handler without sender: %v", err)
	}
}
