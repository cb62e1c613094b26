package readstore

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/pgsql"
	"hotel-reservation-engine/internal/pkg/pgconv"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CatalogQueries interface {
	GetRoomType(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.RoomType, error)
	ListRateOverrides(ctx context.Context, db pgsql.DBTX, arg pgsql.ListRateOverridesParams) ([]pgsql.RateOverride, error)
	ListActiveStays(ctx context.Context, db pgsql.DBTX, arg pgsql.ListActiveStaysParams) ([]pgsql.ActiveStay, error)
	ConfirmationCodeExists(ctx context.Context, db pgsql.DBTX, code string) (bool, error)
	ListDueForCompletion(ctx context.Context, db pgsql.DBTX, today pgtype.Date, limit int32) ([]uuid.UUID, error)
}

// CatalogReadStore serves room type snapshots and the occupancy of a room type.
type CatalogReadStore struct {
	queries CatalogQueries
	db      pgsql.DBTX
}

func NewCatalogReadStore(queries CatalogQueries, db pgsql.DBTX) *CatalogReadStore {
	return &CatalogReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *CatalogReadStore) RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	row, err := r.queries.GetRoomType(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room type not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room type", err)
	}

	rate, err := pgconv.DecimalFromNumeric(row.NightlyRate)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt nightly rate", err)
	}

	return &shared.RoomTypeSnapshot{
		ID:          row.ID,
		HotelID:     row.HotelID,
		Name:        row.Name,
		Capacity:    int(row.Capacity),
		NightlyRate: rate,
	}, nil
}

func (r *CatalogReadStore) RateOverrides(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]shared.RateOverrideSnapshot, error) {
	rows, err := r.queries.ListRateOverrides(ctx, r.db, pgsql.ListRateOverridesParams{
		RoomTypeID: roomTypeID,
		From:       pgconv.DateToPgtype(from),
		To:         pgconv.DateToPgtype(to),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rate overrides", err)
	}

	overrides := make([]shared.RateOverrideSnapshot, 0, len(rows))
	for _, row := range rows {
		price, err := pgconv.DecimalFromNumeric(row.Price)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt override price", err)
		}
		overrides = append(overrides, shared.RateOverrideSnapshot{
			Date:  pgconv.DateFromPgtype(row.StayDate),
			Price: price,
		})
	}
	return overrides, nil
}

func (r *CatalogReadStore) ActiveStays(ctx context.Context, roomTypeID uuid.UUID, stay reservation.StayWindow) ([]reservation.BookedStay, error) {
	rows, err := r.queries.ListActiveStays(ctx, r.db, pgsql.ListActiveStaysParams{
		RoomTypeID: roomTypeID,
		CheckIn:    pgconv.DateToPgtype(stay.CheckIn()),
		CheckOut:   pgconv.DateToPgtype(stay.CheckOut()),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active stays", err)
	}

	booked := make([]reservation.BookedStay, 0, len(rows))
	for _, row := range rows {
		window, err := reservation.NewStayWindow(pgconv.DateFromPgtype(row.CheckIn), pgconv.DateFromPgtype(row.CheckOut))
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt stay window", err)
		}
		status, err := reservation.ParseStatus(row.Status)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt reservation status", err)
		}
		booked = append(booked, reservation.BookedStay{
			ReservationID: row.ID,
			Stay:          window,
			Status:        status,
		})
	}
	return booked, nil
}

func (r *CatalogReadStore) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := r.queries.ConfirmationCodeExists(ctx, r.db, code)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check confirmation code", err)
	}
	return exists, nil
}

func (r *CatalogReadStore) DueForCompletion(ctx context.Context, today time.Time, limit int) ([]uuid.UUID, error) {
	ids, err := r.queries.ListDueForCompletion(ctx, r.db, pgconv.DateToPgtype(today), clampLimit(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stays due for completion", err)
	}
	return ids, nil
}

func clampLimit(n int) int32 {
	if n <= 0 {
		return 1
	}
	if n > 10_000 {
		return 10_000
	}
	// #nosec G115 -- clamped above
	return int32(n)
}
