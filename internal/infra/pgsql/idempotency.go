package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Inserts a fresh key or takes over an expired one. A live key held by another
// transaction blocks here until that transaction ends.
const claimIdempotencyKey = `
INSERT INTO idempotency_keys (key, customer_id, endpoint, request_hash, status, created_at, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5, $6)
ON CONFLICT (key, customer_id) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    request_hash = EXCLUDED.request_hash,
    status = 'processing',
    result_reservation_id = NULL,
    created_at = EXCLUDED.created_at,
    expires_at = EXCLUDED.expires_at
WHERE idempotency_keys.expires_at <= EXCLUDED.created_at
RETURNING key`

type ClaimIdempotencyKeyParams struct {
	Key         uuid.UUID
	CustomerID  uuid.UUID
	Endpoint    string
	RequestHash string
	Now         pgtype.Timestamptz
	ExpiresAt   pgtype.Timestamptz
}

// ClaimIdempotencyKey reports whether the caller now owns the key.
func (q *Queries) ClaimIdempotencyKey(ctx context.Context, db DBTX, arg ClaimIdempotencyKeyParams) (bool, error) {
	rows, err := db.Query(ctx, claimIdempotencyKey,
		arg.Key,
		arg.CustomerID,
		arg.Endpoint,
		arg.RequestHash,
		arg.Now,
		arg.ExpiresAt,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	claimed := rows.Next()
	return claimed, rows.Err()
}

const completeIdempotencyKey = `
UPDATE idempotency_keys
SET status = 'completed', result_reservation_id = $3
WHERE key = $1 AND customer_id = $2`

func (q *Queries) CompleteIdempotencyKey(ctx context.Context, db DBTX, key, customerID, reservationID uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, completeIdempotencyKey, key, customerID, reservationID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getIdempotencyKey = `
SELECT key, customer_id, endpoint, request_hash, status, result_reservation_id, created_at, expires_at
FROM idempotency_keys
WHERE key = $1 AND customer_id = $2`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, key, customerID uuid.UUID) (IdempotencyKey, error) {
	var i IdempotencyKey
	err := db.QueryRow(ctx, getIdempotencyKey, key, customerID).Scan(
		&i.Key,
		&i.CustomerID,
		&i.Endpoint,
		&i.RequestHash,
		&i.Status,
		&i.ResultReservationID,
		&i.CreatedAt,
		&i.ExpiresAt,
	)
	return i, err
}

const deleteExpiredIdempotencyKeys = `DELETE FROM idempotency_keys WHERE expires_at <= $1`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX, now pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, deleteExpiredIdempotencyKeys, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
