// Package scheduler provides the asynq-backed task queue: clients enqueue
// background work, the worker consumes it. Tasks carry JSON payloads and are
// retried by asynq until they succeed or exhaust their retry budget.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeQuoteSync reconciles one quote installment state after a payment
// outcome. It exists so a webhook can acknowledge fast and leave the quote
// update to the worker.
const TypeQuoteSync = "payments:quote_sync"

// QuoteSyncPayload is the task body for TypeQuoteSync.
type QuoteSyncPayload struct {
	QuoteID     uuid.UUID `json:"quoteId"`
	Installment string    `json:"installment"`
	State       string    `json:"state"`
}

// NewQuoteSyncTask builds the quote sync task.
func NewQuoteSyncTask(quoteID uuid.UUID, installment, state string) (*asynq.Task, error) {
	payload, err := json.Marshal(QuoteSyncPayload{
		QuoteID:     quoteID,
		Installment: installment,
		State:       state,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal quote sync payload: %w", err)
	}
	return asynq.NewTask(TypeQuoteSync, payload), nil
}
