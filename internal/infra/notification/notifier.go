package notification

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the part of *asynq.Client the notifier uses.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands events to the worker. Enqueue failures are logged and
// swallowed; the reservation is already committed.
type QueueNotifier struct {
	client   TaskEnqueuer
	cfg      config.QueueConfig
	channels []string
}

func NewQueueNotifier(client TaskEnqueuer, cfg config.QueueConfig) *QueueNotifier {
	return &QueueNotifier{
		client:   client,
		cfg:      cfg,
		channels: []string{ChannelEmail, ChannelBroadcast},
	}
}

func (n *QueueNotifier) Send(ctx context.Context, event shared.ReservationEvent) {
	// the request context may be cancelled as soon as the response is written
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	for _, ch := range n.channels {
		task, err := NewTask(ch, event,
			asynq.Queue(n.cfg.Name),
			asynq.MaxRetry(n.cfg.MaxRetry),
			asynq.Timeout(n.cfg.Timeout),
		)
		if err != nil {
			slog.Error("failed to build notification task", "channel", ch, "reservation_id", event.ReservationID, "error", err)
			continue
		}
		info, err := n.client.EnqueueContext(ctx, task)
		if err != nil {
			slog.Error("failed to enqueue notification", "channel", ch, "reservation_id", event.ReservationID, "error", err)
			continue
		}
		slog.Debug("notification enqueued", "channel", ch, "task_id", info.ID, "kind", event.Kind)
	}
}

// LogNotifier is used when the queue is disabled.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, event shared.ReservationEvent) {
	n.logger.InfoContext(ctx, "reservation event",
		"kind", event.Kind,
		"reservation_id", event.ReservationID,
		"confirmation_code", event.ConfirmationCode,
		"customer_id", event.CustomerID,
		"check_in", event.CheckIn,
		"check_out", event.CheckOut,
		"status", event.Status,
	)
}
