package request

import (
	"strings"
	"time"

	"hotel-reservation-engine/internal/pkg/calendar"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	HotelID    uuid.UUID `json:"hotelId" binding:"required"`
	RoomTypeID uuid.UUID `json:"roomTypeId" binding:"required"`
	CheckIn    string    `json:"checkIn" binding:"required" example:"2030-05-01"`
	CheckOut   string    `json:"checkOut" binding:"required" example:"2030-05-04"`
	GuestCount int       `json:"guestCount" binding:"required,min=1" example:"2"`
}

func (r CreateReservationRequest) StayDates() (time.Time, time.Time, error) {
	return parseStay(r.CheckIn, r.CheckOut)
}

type ModifyReservationRequest struct {
	CheckIn    string `json:"checkIn" binding:"required" example:"2030-05-02"`
	CheckOut   string `json:"checkOut" binding:"required" example:"2030-05-05"`
	GuestCount int    `json:"guestCount" binding:"required,min=1" example:"2"`
}

func (r ModifyReservationRequest) StayDates() (time.Time, time.Time, error) {
	return parseStay(r.CheckIn, r.CheckOut)
}

type AvailabilityQuery struct {
	CheckIn  string `form:"checkIn" binding:"required"`
	CheckOut string `form:"checkOut" binding:"required"`
	Guests   int    `form:"guests"`
}

func (q AvailabilityQuery) StayDates() (time.Time, time.Time, error) {
	return parseStay(q.CheckIn, q.CheckOut)
}

type ListReservationsQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit"`
}

type AdminListReservationsQuery struct {
	RoomTypeID string `form:"roomTypeId"`
	Status     string `form:"status"`
	After      string `form:"after"`
	Limit      int    `form:"limit"`
}

func (q AdminListReservationsQuery) NormalizedStatus() string {
	return strings.ToUpper(strings.TrimSpace(q.Status))
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := calendar.Parse(strings.TrimSpace(checkIn))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := calendar.Parse(strings.TrimSpace(checkOut))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}
