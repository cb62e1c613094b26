package pgsql

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Reservation struct {
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

type ReservationViewRow struct {
	Reservation
	HotelName    string
	RoomTypeName string
}

type ActiveStay struct {
	ID       uuid.UUID
	CheckIn  pgtype.Date
	CheckOut pgtype.Date
	Status   string
}

type RoomType struct {
	ID          uuid.UUID
	HotelID     uuid.UUID
	Name        string
	Capacity    int32
	NightlyRate pgtype.Numeric
}

type RateOverride struct {
	StayDate pgtype.Date
	Price    pgtype.Numeric
}

type IdempotencyKey struct {
	Key                 uuid.UUID
	CustomerID          uuid.UUID
	Endpoint            string
	RequestHash         string
	Status              string
	ResultReservationID pgtype.UUID
	CreatedAt           pgtype.Timestamptz
	ExpiresAt           pgtype.Timestamptz
}
