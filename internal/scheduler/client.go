package scheduler

import (
	"context"
	"fmt"
	"time"

	"climstore_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	quoteSyncMaxRetry  = 5
	quoteSyncRetention = 24 * time.Hour
)

// Client enqueues background tasks. It implements the payments module's
// Syncer port.
type Client struct {
	client *asynq.Client
	queue  string
	logger *logger.Logger
}

// NewClient connects a task client to Redis.
func NewClient(redisURL, queue string, log *logger.Logger) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
		logger: log,
	}, nil
}

// EnqueueQuoteSync queues an installment state update for the worker.
func (c *Client) EnqueueQuoteSync(ctx context.Context, quoteID uuid.UUID, installment, state string) error {
	task, err := NewQuoteSyncTask(quoteID, installment, state)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(quoteSyncMaxRetry),
		asynq.Retention(quoteSyncRetention),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeQuoteSync, err)
	}

	c.logger.Info("task enqueued", "type", TypeQuoteSync, "task_id", info.ID, "quote_id", quoteID, "installment", installment)
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
