package bootstrap

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/infra/notification"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var QueueModule = fx.Module("queue",
	fx.Provide(
		NewNotifier,
	),
)

func asynqRedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// NewNotifier enqueues delivery tasks when the queue is on and only logs otherwise.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.Notifier {
	if !cfg.Queue.Enabled {
		logger.Info("notification queue disabled; events are only logged")
		return notification.NewLogNotifier(logger)
	}

	client := asynq.NewClient(asynqRedisOpt(cfg))
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return notification.NewQueueNotifier(client, cfg.Queue)
}
