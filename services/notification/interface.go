package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"fixmate/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeDispatchNotify is the asynq task type carrying a dispatch event to the
// delivery worker.
const TypeDispatchNotify = "dispatch:notify"

// EventNotifier delivers dispatch events to contractor devices and the
// customer-facing UI. The engine only emits events; the transport behind this
// interface is pluggable.
type EventNotifier interface {
	Notify(ctx context.Context, ev models.DispatchEvent) error
}

// LogNotifier writes events to the structured log. Default for development
// and tests.
type LogNotifier struct {
	Logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, ev models.DispatchEvent) error {
	n.Logger.Info("dispatch event",
		zap.String("type", ev.Type),
		zap.String("sessionId", ev.SessionID),
		zap.String("contractorId", ev.ContractorID),
		zap.String("outcome", ev.Outcome),
	)
	return nil
}

// QueueNotifier enqueues events onto the asynq notify queue; the cron worker
// picks them up and delivers the actual push.
type QueueNotifier struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewQueueNotifier(client *asynq.Client, logger *zap.Logger) (*QueueNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("queue notifier initialization error: asynq client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{Client: client, Logger: logger}, nil
}

func (n *QueueNotifier) Notify(ctx context.Context, ev models.DispatchEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}
	task := asynq.NewTask(TypeDispatchNotify, payload)
	if _, err := n.Client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue dispatch event: %w", err)
	}
	n.Logger.Debug("dispatch event enqueued",
		zap.String("type", ev.Type),
		zap.String("sessionId", ev.SessionID))
	return nil
}
