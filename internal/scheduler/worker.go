package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	paymentsservice "climstore_backend/internal/payments/service"
	"climstore_backend/platform/config"
	"climstore_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes background tasks. It runs in its own process (cmd/scheduler)
// against the same database as the API.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *logger.Logger
}

// NewWorker builds the asynq server and registers the task handlers.
func NewWorker(cfg config.SchedulerConfig, ledger paymentsservice.QuoteLedger, log *logger.Logger) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	queue := cfg.GetAsynqQueueName()
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{queue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("task failed", "type", task.Type(), "error", err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeQuoteSync, quoteSyncHandler(ledger, log))

	return &Worker{server: server, mux: mux, logger: log}, nil
}

// Run starts the worker and blocks until Shutdown is called.
func (w *Worker) Run() error {
	w.logger.Info("worker starting")
	return w.server.Run(w.mux)
}

// Shutdown drains in-flight tasks and stops the server.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func quoteSyncHandler(ledger paymentsservice.QuoteLedger, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload QuoteSyncPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// A malformed payload never becomes valid; skip the retries.
			return fmt.Errorf("unmarshal quote sync payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := ledger.SetInstallmentState(ctx, payload.QuoteID, payload.Installment, payload.State); err != nil {
			return fmt.Errorf("sync quote %s: %w", payload.QuoteID, err)
		}

		log.Info("quote synced", "quote_id", payload.QuoteID, "installment", payload.Installment, "state", payload.State)
		return nil
	}
}
