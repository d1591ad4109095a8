// Package gateway abstracts the card payment provider behind a narrow port so
// the payment service stays testable without network calls.
package gateway

import "context"

// Intent is the provider-agnostic view of a payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
	Metadata     map[string]string
}

// Intent statuses the service cares about. Providers report more states; the
// adapter collapses them to these.
const (
	IntentStatusSucceeded  = "succeeded"
	IntentStatusProcessing = "processing"
	IntentStatusFailed     = "failed"
)

// WebhookEvent is a verified provider notification.
type WebhookEvent struct {
	ID          string
	Type        string
	IntentID    string
	AmountCents int64
	Metadata    map[string]string
}

// Webhook event types the service reacts to.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// CreateIntentParams are the inputs for creating a payment intent.
type CreateIntentParams struct {
	AmountCents int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Gateway is the payment provider port.
type Gateway interface {
	// CreateIntent registers a payment of the given amount with the provider.
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	// GetIntent fetches the current state of an intent.
	GetIntent(ctx context.Context, id string) (*Intent, error)
	// VerifyEvent checks the webhook signature and decodes the event payload.
	VerifyEvent(payload []byte, signature string) (*WebhookEvent, error)
}
