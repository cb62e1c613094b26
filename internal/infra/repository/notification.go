package repository

import (
	"context"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/pgsql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

type NotificationWriteQueries interface {
	InsertNotificationJob(ctx context.Context, db pgsql.DBTX, arg pgsql.InsertNotificationJobParams) error
}

// NotificationRepository keeps the delivery log written by the worker.
type NotificationRepository struct {
	queries NotificationWriteQueries
	db      pgsql.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db pgsql.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

type NotificationAttempt struct {
	ReservationID uuid.UUID
	Kind          string
	Topic         string
	Payload       []byte
	Attempts      int
	Err           error
}

func (r *NotificationRepository) Record(ctx context.Context, a NotificationAttempt) error {
	params := pgsql.InsertNotificationJobParams{
		ReservationID: a.ReservationID,
		Kind:          a.Kind,
		Topic:         a.Topic,
		Payload:       a.Payload,
		Status:        NotificationStatusSent,
		Attempts:      clampInt32(a.Attempts),
	}
	if a.Err != nil {
		params.Status = NotificationStatusFailed
		params.LastError = pgtype.Text{String: a.Err.Error(), Valid: true}
	}

	if err := r.queries.InsertNotificationJob(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to record notification attempt", err)
	}
	return nil
}

func clampInt32(n int) int32 {
	if n < 0 {
		return 0
	}
	if n > 1<<31-1 {
		return 1<<31 - 1
	}
	// #nosec G115 -- clamped above
	return int32(n)
}
