package converter

import (
	"fmt"
	"math"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/infra/pgsql"
	"hotel-reservation-engine/internal/pkg/pgconv"
)

func ReservationToInsert(res *reservation.Reservation) pgsql.InsertReservationParams {
	return pgsql.InsertReservationParams{
		ID:               res.ID(),
		ConfirmationCode: res.Code().String(),
		CustomerID:       res.CustomerID(),
		HotelID:          res.HotelID(),
		RoomTypeID:       res.RoomTypeID(),
		CheckIn:          pgconv.DateToPgtype(res.Stay().CheckIn()),
		CheckOut:         pgconv.DateToPgtype(res.Stay().CheckOut()),
		GuestCount:       guestCountToInt32(res.Guests()),
		TotalPrice:       pgconv.DecimalToNumeric(res.TotalPrice().Decimal()),
		Status:           res.Status().String(),
		CreatedAt:        pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt:        pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

func ReservationToUpdate(res *reservation.Reservation) pgsql.UpdateReservationParams {
	return pgsql.UpdateReservationParams{
		ID:         res.ID(),
		CheckIn:    pgconv.DateToPgtype(res.Stay().CheckIn()),
		CheckOut:   pgconv.DateToPgtype(res.Stay().CheckOut()),
		GuestCount: guestCountToInt32(res.Guests()),
		TotalPrice: pgconv.DecimalToNumeric(res.TotalPrice().Decimal()),
		Status:     res.Status().String(),
		UpdatedAt:  pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

// ReservationToDomain rebuilds the aggregate from a stored row.
func ReservationToDomain(row pgsql.Reservation) (*reservation.Reservation, error) {
	code, err := reservation.ParseConfirmationCode(row.ConfirmationCode)
	if err != nil {
		return nil, err
	}
	stay, err := reservation.NewStayWindow(pgconv.DateFromPgtype(row.CheckIn), pgconv.DateFromPgtype(row.CheckOut))
	if err != nil {
		return nil, err
	}
	guests, err := reservation.NewGuestCount(int(row.GuestCount))
	if err != nil {
		return nil, err
	}
	amount, err := pgconv.DecimalFromNumeric(row.TotalPrice)
	if err != nil {
		return nil, err
	}
	total, err := reservation.NewMoney(amount)
	if err != nil {
		return nil, err
	}
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		row.ID,
		code,
		row.CustomerID,
		row.HotelID,
		row.RoomTypeID,
		stay,
		guests,
		total,
		status,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func guestCountToInt32(g reservation.GuestCount) int32 {
	n := g.Int()
	if n > math.MaxInt32 {
		panic(fmt.Sprintf("guest count out of int32 range: %d", n))
	}
	// #nosec G115 -- bounds checked above
	return int32(n)
}
