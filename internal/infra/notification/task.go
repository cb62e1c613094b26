// Package notification delivers reservation events after commit. The API
// enqueues one asynq task per channel and the worker drains them, so a slow
// mail server or broker never holds a booking transaction open.
package notification

import (
	"encoding/json"
	"fmt"

	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

// Channel names double as the notification_jobs.kind column.
const (
	ChannelEmail     = "email"
	ChannelBroadcast = "broadcast"
)

const (
	TypeEmail     = "notification:" + ChannelEmail
	TypeBroadcast = "notification:" + ChannelBroadcast
)

var taskTypes = map[string]string{
	ChannelEmail:     TypeEmail,
	ChannelBroadcast: TypeBroadcast,
}

func NewTask(channel string, event shared.ReservationEvent, opts ...asynq.Option) (*asynq.Task, error) {
	typ, ok := taskTypes[channel]
	if !ok {
		return nil, fmt.Errorf("unknown notification channel %q", channel)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal reservation event: %w", err)
	}
	return asynq.NewTask(typ, payload, opts...), nil
}

func ParseEvent(t *asynq.Task) (shared.ReservationEvent, error) {
	var event shared.ReservationEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return shared.ReservationEvent{}, fmt.Errorf("unmarshal reservation event: %w", err)
	}
	return event, nil
}
