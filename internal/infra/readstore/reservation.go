package readstore

import (
	"context"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/pgsql"
	"hotel-reservation-engine/internal/pkg/calendar"
	"hotel-reservation-engine/internal/pkg/pgconv"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationViewQueries interface {
	GetReservationView(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.ReservationViewRow, error)
	GetReservationViewByCode(ctx context.Context, db pgsql.DBTX, code string) (pgsql.ReservationViewRow, error)
	ListReservationViews(ctx context.Context, db pgsql.DBTX, arg pgsql.ListReservationViewsParams) ([]pgsql.ReservationViewRow, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      pgsql.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db pgsql.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return rowToReservationView(row)
}

func (r *ReservationReadStore) FindByCode(ctx context.Context, code string) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationViewByCode(ctx, r.db, code)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by code", err)
	}
	return rowToReservationView(row)
}

func (r *ReservationReadStore) List(ctx context.Context, filter queries.ReservationFilter) ([]*queries.ReservationView, error) {
	params := pgsql.ListReservationViewsParams{
		CustomerID: pgconv.UUIDPtrToPgtype(filter.CustomerID),
		RoomTypeID: pgconv.UUIDPtrToPgtype(filter.RoomTypeID),
		HotelID:    pgconv.UUIDPtrToPgtype(filter.HotelID),
		Status:     pgconv.StringPtrToPgtype(filter.Status),
		CursorID:   pgconv.UUIDPtrToPgtype(filter.AfterID),
		Limit:      int32(min(filter.Limit, queries.MaxListLimit+1)), // #nosec G115 -- bounded
	}
	if filter.AfterCreatedAt != nil {
		params.CursorCreatedAt = pgconv.TimeToPgtype(*filter.AfterCreatedAt)
	} else {
		params.CursorCreatedAt = pgtype.Timestamptz{Valid: false}
	}

	rows, err := r.queries.ListReservationViews(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}

	result := make([]*queries.ReservationView, 0, len(rows))
	for _, row := range rows {
		v, err := rowToReservationView(row)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func rowToReservationView(row pgsql.ReservationViewRow) (*queries.ReservationView, error) {
	total, err := pgconv.DecimalFromNumeric(row.TotalPrice)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt reservation total", err)
	}
	checkIn := pgconv.DateFromPgtype(row.CheckIn)
	checkOut := pgconv.DateFromPgtype(row.CheckOut)
	nights, err := calendar.Nights(checkIn, checkOut)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt reservation stay", err)
	}

	return &queries.ReservationView{
		ID:               row.ID,
		ConfirmationCode: row.ConfirmationCode,
		CustomerID:       row.CustomerID,
		HotelID:          row.HotelID,
		HotelName:        row.HotelName,
		RoomTypeID:       row.RoomTypeID,
		RoomTypeName:     row.RoomTypeName,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Nights:           nights,
		GuestCount:       int(row.GuestCount),
		TotalPrice:       total.Round(2),
		Status:           row.Status,
		CreatedAt:        pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:        pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}
