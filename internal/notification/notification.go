// Package notification sends customer email on quote lifecycle events. It is
// a pure event subscriber: nothing else in the application depends on it, and
// delivery failures are logged, never surfaced to the publishing module.
package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"climstore_backend/internal/events"
	"climstore_backend/platform/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var installmentLabels = map[string]string{
	"deposit":             "acompte de 40 %",
	"installationPayment": "paiement installation de 30 %",
	"finalPayment":        "solde de 30 %",
}

// Notifier subscribes to domain events and emails customers.
type Notifier struct {
	sender Sender
	logger *logger.Logger
}

// New creates a notifier. When sender is nil (no SMTP configured) every
// notification becomes a log line.
func New(sender Sender, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, logger: log}
}

// Subscribe registers the notifier on the event bus.
func (n *Notifier) Subscribe(bus events.Bus) {
	bus.Subscribe(events.QuoteStatusChanged{}.EventName(), events.HandlerFunc(n.onQuoteStatusChanged))
	bus.Subscribe(events.QuotePaymentStatusChanged{}.EventName(), events.HandlerFunc(n.onPaymentStatusChanged))
}

func (n *Notifier) onQuoteStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.QuoteStatusChanged)
	if !ok || e.NewStatus != "sent" {
		return nil
	}

	n.deliver(ctx, e.CustomerEmail,
		fmt.Sprintf("Votre devis %s", e.QuoteNumber),
		"quote_sent.html",
		map[string]string{
			"QuoteNumber":  e.QuoteNumber,
			"CustomerName": e.CustomerName,
			"TotalAmount":  formatEuros(e.TotalPriceCents),
		})
	return nil
}

func (n *Notifier) onPaymentStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.QuotePaymentStatusChanged)
	if !ok || e.Status != "paid" {
		return nil
	}

	label := installmentLabels[e.Installment]
	if label == "" {
		label = e.Installment
	}

	n.deliver(ctx, e.CustomerEmail,
		fmt.Sprintf("Paiement reçu pour le devis %s", e.QuoteNumber),
		"payment_received.html",
		map[string]string{
			"QuoteNumber":      e.QuoteNumber,
			"CustomerName":     e.CustomerName,
			"Amount":           formatEuros(e.AmountCents),
			"InstallmentLabel": label,
		})
	return nil
}

func (n *Notifier) deliver(ctx context.Context, to, subject, templateName string, data map[string]string) {
	if to == "" {
		return
	}
	if n.sender == nil {
		n.logger.Info("email disabled, notification skipped", "to", to, "subject", subject)
		return
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		n.logger.Error("render notification failed", "template", templateName, "error", err)
		return
	}
	if err := n.sender.Send(ctx, to, subject, body.String()); err != nil {
		n.logger.Error("send notification failed", "to", to, "subject", subject, "error", err)
		return
	}
	n.logger.Info("notification sent", "to", to, "subject", subject)
}

func formatEuros(cents int64) string {
	return fmt.Sprintf("%d,%02d €", cents/100, cents%100)
}
