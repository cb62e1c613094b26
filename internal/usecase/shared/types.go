package shared

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/roomtype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the authenticated caller as asserted by the identity provider.
type Customer struct {
	ID    uuid.UUID
	Email string
}

type RoomTypeSnapshot struct {
	ID          uuid.UUID
	HotelID     uuid.UUID
	Name        string
	Capacity    int
	NightlyRate decimal.Decimal
	Overrides   []RateOverrideSnapshot
}

type RateOverrideSnapshot struct {
	Date  time.Time
	Price decimal.Decimal
}

func (s *RoomTypeSnapshot) ToDomain() (*roomtype.RoomType, error) {
	overrides := make([]roomtype.RateOverride, len(s.Overrides))
	for i, o := range s.Overrides {
		overrides[i] = roomtype.RateOverride{Date: o.Date, Price: o.Price}
	}
	return roomtype.NewRoomType(s.ID, s.HotelID, s.Name, s.Capacity, s.NightlyRate, overrides)
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key                 uuid.UUID
	CustomerID          uuid.UUID
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

type EventKind string

const (
	EventReservationCreated   EventKind = "reservation.created"
	EventReservationCancelled EventKind = "reservation.cancelled"
)

// ReservationEvent is a delivery intent; nothing downstream of it can fail a booking.
type ReservationEvent struct {
	Kind             EventKind `json:"kind"`
	ReservationID    uuid.UUID `json:"reservationId"`
	ConfirmationCode string    `json:"confirmationCode"`
	CustomerID       uuid.UUID `json:"customerId"`
	CustomerEmail    string    `json:"customerEmail,omitempty"`
	HotelID          uuid.UUID `json:"hotelId"`
	RoomTypeID       uuid.UUID `json:"roomTypeId"`
	CheckIn          string    `json:"checkIn"`
	CheckOut         string    `json:"checkOut"`
	GuestCount       int       `json:"guestCount"`
	TotalPrice       string    `json:"totalPrice"`
	Status           string    `json:"status"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// Notifier is fire-and-forget: implementations log their own failures.
type Notifier interface {
	Send(ctx context.Context, event ReservationEvent)
}
