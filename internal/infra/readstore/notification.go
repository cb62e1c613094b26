package readstore

import (
	"context"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/pgsql"

	"github.com/google/uuid"
)

type NotificationReadQueries interface {
	CountNotificationJobs(ctx context.Context, db pgsql.DBTX, reservationID uuid.UUID, topic string) (int64, error)
}

type NotificationReadStore struct {
	queries NotificationReadQueries
	db      pgsql.DBTX
}

func NewNotificationReadStore(queries NotificationReadQueries, db pgsql.DBTX) *NotificationReadStore {
	return &NotificationReadStore{
		queries: queries,
		db:      db,
	}
}

// CountDeliveries reports how many attempts were logged for a reservation on a topic.
func (r *NotificationReadStore) CountDeliveries(ctx context.Context, reservationID uuid.UUID, topic string) (int64, error) {
	n, err := r.queries.CountNotificationJobs(ctx, r.db, reservationID, topic)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count notification jobs", err)
	}
	return n, nil
}
