package bootstrap

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/infra/notification"
	"hotel-reservation-engine/internal/infra/scheduler"
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/config"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// WorkerModule runs notification delivery and the periodic jobs.
var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewMailer,
		NewPublisher,
		notification.NewProcessor,
		NewScheduler,
	),
	fx.Invoke(
		startTaskServer,
		startScheduler,
	),
)

func NewMailer(cfg config.Config) notification.Mailer {
	if !cfg.Mail.Enabled {
		return notification.LogMailer{}
	}
	return notification.NewSMTPMailer(cfg.Mail)
}

func NewPublisher(lc fx.Lifecycle, cfg config.Config) notification.Publisher {
	if !cfg.Broker.Enabled {
		return notification.LogPublisher{}
	}
	p := notification.NewAMQPPublisher(cfg.Broker)
	lc.Append(fx.StopHook(p.Close))
	return p
}

func NewScheduler(
	cfg config.Config,
	completer scheduler.StayCompleter,
	purger scheduler.IdempotencyPurger,
	clk clock.Clock,
) (*scheduler.Scheduler, error) {
	return scheduler.New(cfg.Scheduler, completer, purger, clk)
}

func startTaskServer(lc fx.Lifecycle, cfg config.Config, processor *notification.Processor, zl *zap.SugaredLogger) {
	if !cfg.Queue.Enabled {
		slog.Warn("notification queue disabled; task server not started")
		return
	}

	srv := asynq.NewServer(asynqRedisOpt(cfg), asynq.Config{
		Concurrency: cfg.Queue.Concurrency,
		Queues:      map[string]int{cfg.Queue.Name: 1},
		Logger:      zl,
	})
	mux := asynq.NewServeMux()
	processor.Register(mux)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			slog.Info("task server starting", "queue", cfg.Queue.Name, "concurrency", cfg.Queue.Concurrency)
			return srv.Start(mux)
		},
		OnStop: func(_ context.Context) error {
			srv.Shutdown()
			return nil
		},
	})
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
