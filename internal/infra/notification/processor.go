package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hotel-reservation-engine/internal/infra/repository"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

type DeliveryRecorder interface {
	Record(ctx context.Context, a repository.NotificationAttempt) error
}

// Processor runs inside the worker and logs every attempt to notification_jobs.
// A failed delivery returns its error so asynq retries it with backoff.
type Processor struct {
	mailer    Mailer
	publisher Publisher
	recorder  DeliveryRecorder
}

func NewProcessor(mailer Mailer, publisher Publisher, recorder DeliveryRecorder) *Processor {
	return &Processor{mailer: mailer, publisher: publisher, recorder: recorder}
}

func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeEmail, p.HandleEmail)
	mux.HandleFunc(TypeBroadcast, p.HandleBroadcast)
}

func (p *Processor) HandleEmail(ctx context.Context, t *asynq.Task) error {
	return p.deliver(ctx, t, ChannelEmail, p.mailer.SendReservationMail)
}

func (p *Processor) HandleBroadcast(ctx context.Context, t *asynq.Task) error {
	return p.deliver(ctx, t, ChannelBroadcast, p.publisher.Publish)
}

func (p *Processor) deliver(
	ctx context.Context,
	t *asynq.Task,
	channel string,
	send func(context.Context, shared.ReservationEvent) error,
) error {
	event, err := ParseEvent(t)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	sendErr := send(ctx, event)

	retried, _ := asynq.GetRetryCount(ctx)
	attempt := repository.NotificationAttempt{
		ReservationID: event.ReservationID,
		Kind:          channel,
		Topic:         string(event.Kind),
		Payload:       t.Payload(),
		Attempts:      retried + 1,
		Err:           sendErr,
	}
	if err := p.recorder.Record(ctx, attempt); err != nil {
		// the log is best effort; the delivery outcome decides the retry
		slog.Error("failed to record notification attempt", "channel", channel, "reservation_id", event.ReservationID, "error", err)
	}

	if errors.Is(sendErr, ErrNoRecipient) {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, sendErr)
	}
	if sendErr != nil {
		slog.Warn("notification delivery failed", "channel", channel, "reservation_id", event.ReservationID,
			"attempt", attempt.Attempts, "error", sendErr)
		return sendErr
	}
	return nil
}
