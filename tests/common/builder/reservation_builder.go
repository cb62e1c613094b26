//go:build unit || e2e

package builder

import (
	"time"

	domres "hotel-reservation-engine/internal/domain/reservation"
	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	"hotel-reservation-engine/internal/pkg/calendar"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationBuilder struct {
	ID               uuid.UUID
	ConfirmationCode string
	CustomerID       uuid.UUID
	HotelID          uuid.UUID
	HotelName        string
	RoomTypeID       uuid.UUID
	RoomTypeName     string
	CheckIn          time.Time
	CheckOut         time.Time
	GuestCount       int
	TotalPrice       string
	Status           domres.Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewReservationBuilder defaults to a confirmed three-night stay starting ten days from now.
func NewReservationBuilder() *ReservationBuilder {
	now := time.Now().UTC()
	checkIn := calendar.AddDays(now, 10)
	return &ReservationBuilder{
		ID:               uuid.New(),
		ConfirmationCode: "HBAB12CD34",
		CustomerID:       uuid.New(),
		HotelID:          uuid.New(),
		HotelName:        "Harbor View Hotel",
		RoomTypeID:       uuid.New(),
		RoomTypeName:     "Deluxe Double",
		CheckIn:          checkIn,
		CheckOut:         calendar.AddDays(checkIn, 3),
		GuestCount:       2,
		TotalPrice:       "3000.00",
		Status:           domres.StatusConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) WithStay(checkIn, checkOut time.Time) *ReservationBuilder {
	r.CheckIn = checkIn
	r.CheckOut = checkOut
	return r
}

func (r *ReservationBuilder) WithStatus(status domres.Status) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) WithCustomerID(id uuid.UUID) *ReservationBuilder {
	r.CustomerID = id
	return r
}

func (r *ReservationBuilder) WithRoomType(hotelID, roomTypeID uuid.UUID) *ReservationBuilder {
	r.HotelID = hotelID
	r.RoomTypeID = roomTypeID
	return r
}

// Build methods
func (r *ReservationBuilder) BuildDomain() (*domres.Reservation, error) {
	stay, err := domres.NewStayWindow(r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, err
	}
	guests, err := domres.NewGuestCount(r.GuestCount)
	if err != nil {
		return nil, err
	}
	total, err := domres.MoneyFromString(r.TotalPrice)
	if err != nil {
		return nil, err
	}
	code, err := domres.ParseConfirmationCode(r.ConfirmationCode)
	if err != nil {
		return nil, err
	}
	return domres.ReconstructReservation(
		r.ID, code, r.CustomerID, r.HotelID, r.RoomTypeID,
		stay, guests, total, r.Status, r.CreatedAt, r.UpdatedAt,
	), nil
}

func (r *ReservationBuilder) MustBuildDomain() *domres.Reservation {
	res, err := r.BuildDomain()
	if err != nil {
		panic(err)
	}
	return res
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	nights, _ := calendar.Nights(r.CheckIn, r.CheckOut)
	return &queries.ReservationView{
		ID:               r.ID,
		ConfirmationCode: r.ConfirmationCode,
		CustomerID:       r.CustomerID,
		HotelID:          r.HotelID,
		HotelName:        r.HotelName,
		RoomTypeID:       r.RoomTypeID,
		RoomTypeName:     r.RoomTypeName,
		CheckIn:          calendar.DateOf(r.CheckIn),
		CheckOut:         calendar.DateOf(r.CheckOut),
		Nights:           nights,
		GuestCount:       r.GuestCount,
		TotalPrice:       decimal.RequireFromString(r.TotalPrice),
		Status:           r.Status.String(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		HotelID:    r.HotelID,
		RoomTypeID: r.RoomTypeID,
		CheckIn:    calendar.Format(r.CheckIn),
		CheckOut:   calendar.Format(r.CheckOut),
		GuestCount: r.GuestCount,
	}
}

func (r *ReservationBuilder) BuildModifyRequestDTO() reqdto.ModifyReservationRequest {
	return reqdto.ModifyReservationRequest{
		CheckIn:    calendar.Format(r.CheckIn),
		CheckOut:   calendar.Format(r.CheckOut),
		GuestCount: r.GuestCount,
	}
}
