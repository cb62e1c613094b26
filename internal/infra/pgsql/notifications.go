package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertNotificationJob = `
INSERT INTO notification_jobs (reservation_id, kind, topic, payload, status, attempts, last_error)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

type InsertNotificationJobParams struct {
	ReservationID uuid.UUID
	Kind          string
	Topic         string
	Payload       []byte
	Status        string
	Attempts      int32
	LastError     pgtype.Text
}

func (q *Queries) InsertNotificationJob(ctx context.Context, db DBTX, arg InsertNotificationJobParams) error {
	_, err := db.Exec(ctx, insertNotificationJob,
		arg.ReservationID,
		arg.Kind,
		arg.Topic,
		arg.Payload,
		arg.Status,
		arg.Attempts,
		arg.LastError,
	)
	return err
}

const countNotificationJobs = `SELECT count(*) FROM notification_jobs WHERE reservation_id = $1 AND topic = $2`

func (q *Queries) CountNotificationJobs(ctx context.Context, db DBTX, reservationID uuid.UUID, topic string) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countNotificationJobs, reservationID, topic).Scan(&n)
	return n, err
}
