package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `r.id, r.confirmation_code, r.customer_id, r.hotel_id, r.room_type_id,
	r.check_in, r.check_out, r.guest_count, r.total_price, r.status, r.created_at, r.updated_at`

func scanReservation(row pgx.Row, extra ...any) (Reservation, error) {
	var i Reservation
	dest := append([]any{
		&i.ID,
		&i.ConfirmationCode,
		&i.CustomerID,
		&i.HotelID,
		&i.RoomTypeID,
		&i.CheckIn,
		&i.CheckOut,
		&i.GuestCount,
		&i.TotalPrice,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return i, err
}

const insertReservation = `
INSERT INTO reservations (
	id, confirmation_code, customer_id, hotel_id, room_type_id,
	check_in, check_out, guest_count, total_price, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

type InsertReservationParams struct {
	ID               uuid.UUID
	ConfirmationCode string
	CustomerID       uuid.UUID
	HotelID          uuid.UUID
	RoomTypeID       uuid.UUID
	CheckIn          pgtype.Date
	CheckOut         pgtype.Date
	GuestCount       int32
	TotalPrice       pgtype.Numeric
	Status           string
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) InsertReservation(ctx context.Context, db DBTX, arg InsertReservationParams) error {
	_, err := db.Exec(ctx, insertReservation,
		arg.ID,
		arg.ConfirmationCode,
		arg.CustomerID,
		arg.HotelID,
		arg.RoomTypeID,
		arg.CheckIn,
		arg.CheckOut,
		arg.GuestCount,
		arg.TotalPrice,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateReservation = `
UPDATE reservations
SET check_in = $2, check_out = $3, guest_count = $4, total_price = $5, status = $6, updated_at = $7
WHERE id = $1`

type UpdateReservationParams struct {
	ID         uuid.UUID
	CheckIn    pgtype.Date
	CheckOut   pgtype.Date
	GuestCount int32
	TotalPrice pgtype.Numeric
	Status     string
	UpdatedAt  pgtype.Timestamptz
}

func (q *Queries) UpdateReservation(ctx context.Context, db DBTX, arg UpdateReservationParams) (int64, error) {
	tag, err := db.Exec(ctx, updateReservation,
		arg.ID,
		arg.CheckIn,
		arg.CheckOut,
		arg.GuestCount,
		arg.TotalPrice,
		arg.Status,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getReservation = `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1`

func (q *Queries) GetReservation(ctx context.Context, db DBTX, id uuid.UUID) (Reservation, error) {
	return scanReservation(db.QueryRow(ctx, getReservation, id))
}

const getReservationForUpdate = getReservation + ` FOR UPDATE`

// GetReservationForUpdate row-locks the reservation until the surrounding transaction ends.
func (q *Queries) GetReservationForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Reservation, error) {
	return scanReservation(db.QueryRow(ctx, getReservationForUpdate, id))
}

const confirmationCodeExists = `SELECT EXISTS (SELECT 1 FROM reservations WHERE confirmation_code = $1)`

func (q *Queries) ConfirmationCodeExists(ctx context.Context, db DBTX, code string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, confirmationCodeExists, code).Scan(&exists)
	return exists, err
}

const listActiveStays = `
SELECT id, check_in, check_out, status
FROM reservations
WHERE room_type_id = $1
  AND status IN ('PENDING', 'CONFIRMED')
  AND check_in < $3
  AND $2 < check_out
ORDER BY check_in`

type ListActiveStaysParams struct {
	RoomTypeID uuid.UUID
	CheckIn    pgtype.Date
	CheckOut   pgtype.Date
}

// ListActiveStays narrows candidates to PENDING/CONFIRMED stays touching [CheckIn, CheckOut).
func (q *Queries) ListActiveStays(ctx context.Context, db DBTX, arg ListActiveStaysParams) ([]ActiveStay, error) {
	rows, err := db.Query(ctx, listActiveStays, arg.RoomTypeID, arg.CheckIn, arg.CheckOut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ActiveStay
	for rows.Next() {
		var i ActiveStay
		if err := rows.Scan(&i.ID, &i.CheckIn, &i.CheckOut, &i.Status); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listDueForCompletion = `
SELECT id
FROM reservations
WHERE status = 'CONFIRMED' AND check_out <= $1
ORDER BY check_out, id
LIMIT $2`

func (q *Queries) ListDueForCompletion(ctx context.Context, db DBTX, today pgtype.Date, limit int32) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, listDueForCompletion, today, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const reservationViewSelect = `SELECT ` + reservationColumns + `, h.name, rt.name
FROM reservations r
JOIN hotels h ON h.id = r.hotel_id
JOIN room_types rt ON rt.id = r.room_type_id`

func scanReservationView(row pgx.Row) (ReservationViewRow, error) {
	var v ReservationViewRow
	res, err := scanReservation(row, &v.HotelName, &v.RoomTypeName)
	v.Reservation = res
	return v, err
}

const getReservationView = reservationViewSelect + ` WHERE r.id = $1`

func (q *Queries) GetReservationView(ctx context.Context, db DBTX, id uuid.UUID) (ReservationViewRow, error) {
	return scanReservationView(db.QueryRow(ctx, getReservationView, id))
}

const getReservationViewByCode = reservationViewSelect + ` WHERE r.confirmation_code = $1`

func (q *Queries) GetReservationViewByCode(ctx context.Context, db DBTX, code string) (ReservationViewRow, error) {
	return scanReservationView(db.QueryRow(ctx, getReservationViewByCode, code))
}

const listReservationViews = reservationViewSelect + `
WHERE ($1::uuid IS NULL OR r.customer_id = $1)
  AND ($2::uuid IS NULL OR r.room_type_id = $2)
  AND ($3::uuid IS NULL OR r.hotel_id = $3)
  AND ($4::text IS NULL OR r.status = $4)
  AND ($5::timestamptz IS NULL OR (r.created_at, r.id) < ($5, $6::uuid))
ORDER BY r.created_at DESC, r.id DESC
LIMIT $7`

// ListReservationViewsParams filters are optional; a null field does not filter.
type ListReservationViewsParams struct {
	CustomerID      pgtype.UUID
	RoomTypeID      pgtype.UUID
	HotelID         pgtype.UUID
	Status          pgtype.Text
	CursorCreatedAt pgtype.Timestamptz
	CursorID        pgtype.UUID
	Limit           int32
}

func (q *Queries) ListReservationViews(ctx context.Context, db DBTX, arg ListReservationViewsParams) ([]ReservationViewRow, error) {
	rows, err := db.Query(ctx, listReservationViews,
		arg.CustomerID,
		arg.RoomTypeID,
		arg.HotelID,
		arg.Status,
		arg.CursorCreatedAt,
		arg.CursorID,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReservationViewRow
	for rows.Next() {
		v, err := scanReservationView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
