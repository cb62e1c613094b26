package repository

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/pgsql"
	"hotel-reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyWriteQueries interface {
	ClaimIdempotencyKey(ctx context.Context, db pgsql.DBTX, arg pgsql.ClaimIdempotencyKeyParams) (bool, error)
	CompleteIdempotencyKey(ctx context.Context, db pgsql.DBTX, key, customerID, reservationID uuid.UUID) (int64, error)
	DeleteExpiredIdempotencyKeys(ctx context.Context, db pgsql.DBTX, now pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      pgsql.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db pgsql.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *IdempotencyRepository) Claim(
	ctx context.Context,
	key, customerID uuid.UUID,
	endpoint, requestHash string,
	now, expiresAt time.Time,
) (bool, error) {
	params := pgsql.ClaimIdempotencyKeyParams{
		Key:         key,
		CustomerID:  customerID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Now:         pgconv.TimeToPgtype(now),
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
	}

	claimed, err := r.queries.ClaimIdempotencyKey(ctx, r.db, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return claimed, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, customerID, reservationID uuid.UUID) error {
	n, err := r.queries.CompleteIdempotencyKey(ctx, r.db, key, customerID, reservationID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return count, nil
}
