package reservation

import (
	"errors"
	"time"

	"hotel-reservation-engine/internal/pkg/calendar"

	"github.com/google/uuid"
)

var (
	ErrInvalidDateRange         = errors.New("check-in must be today or later and before check-out")
	ErrCapacityExceeded         = errors.New("guest count exceeds room type capacity")
	ErrInvalidGuestCount        = errors.New("guest count must be positive")
	ErrInvalidStatus            = errors.New("invalid reservation status")
	ErrInvalidStatusTransition  = errors.New("reservation status does not allow this change")
	ErrCancellationWindowClosed = errors.New("cancellation window has closed")
	ErrStayNotElapsed           = errors.New("stay has not ended yet")
	ErrNotOwner                 = errors.New("reservation belongs to another customer")
	ErrNegativeAmount           = errors.New("amount cannot be negative")
	ErrInvalidConfirmationCode  = errors.New("invalid confirmation code")
)

type Reservation struct {
	id         uuid.UUID
	code       ConfirmationCode
	customerID uuid.UUID
	hotelID    uuid.UUID
	roomTypeID uuid.UUID
	stay       StayWindow
	guests     GuestCount
	totalPrice Money
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

func NewReservation(
	code ConfirmationCode,
	customerID, hotelID, roomTypeID uuid.UUID,
	stay StayWindow,
	guests GuestCount,
	totalPrice Money,
	now time.Time,
) *Reservation {
	// no payment gate yet, so bookings skip PENDING
	return &Reservation{
		id:         uuid.New(),
		code:       code,
		customerID: customerID,
		hotelID:    hotelID,
		roomTypeID: roomTypeID,
		stay:       stay,
		guests:     guests,
		totalPrice: totalPrice,
		status:     StatusConfirmed,
		createdAt:  now,
		updatedAt:  now,
	}
}

func ReconstructReservation(
	id uuid.UUID,
	code ConfirmationCode,
	customerID, hotelID, roomTypeID uuid.UUID,
	stay StayWindow,
	guests GuestCount,
	totalPrice Money,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		code:       code,
		customerID: customerID,
		hotelID:    hotelID,
		roomTypeID: roomTypeID,
		stay:       stay,
		guests:     guests,
		totalPrice: totalPrice,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Reservation) EnsureOwnedBy(customerID uuid.UUID) error {
	if r.customerID != customerID {
		return ErrNotOwner
	}
	return nil
}

// Cancel is allowed while check-in is at least leadDays after today.
func (r *Reservation) Cancel(today time.Time, leadDays int, now time.Time) error {
	if !r.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	if calendar.IsBefore(r.stay.CheckIn(), calendar.AddDays(today, leadDays)) {
		return ErrCancellationWindowClosed
	}
	r.status = StatusCancelled
	r.updatedAt = now
	return nil
}

// EnsureModifiable guards Modify before any new dates are looked at.
func (r *Reservation) EnsureModifiable() error {
	if !r.status.IsActive() {
		return ErrInvalidStatusTransition
	}
	return nil
}

func (r *Reservation) Modify(stay StayWindow, guests GuestCount, totalPrice Money, now time.Time) error {
	if err := r.EnsureModifiable(); err != nil {
		return err
	}
	r.stay = stay
	r.guests = guests
	r.totalPrice = totalPrice
	r.updatedAt = now
	return nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.status != StatusPending {
		return ErrInvalidStatusTransition
	}
	r.status = StatusConfirmed
	r.updatedAt = now
	return nil
}

// Complete closes a confirmed stay once its check-out date has been reached.
func (r *Reservation) Complete(today, now time.Time) error {
	if !r.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	if calendar.IsBefore(today, r.stay.CheckOut()) {
		return ErrStayNotElapsed
	}
	r.status = StatusCompleted
	r.updatedAt = now
	return nil
}

func (r *Reservation) Booked() BookedStay {
	return BookedStay{ReservationID: r.id, Stay: r.stay, Status: r.status}
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) Code() ConfirmationCode { return r.code }
func (r *Reservation) CustomerID() uuid.UUID  { return r.customerID }
func (r *Reservation) HotelID() uuid.UUID     { return r.hotelID }
func (r *Reservation) RoomTypeID() uuid.UUID  { return r.roomTypeID }
func (r *Reservation) Stay() StayWindow       { return r.stay }
func (r *Reservation) Guests() GuestCount     { return r.guests }
func (r *Reservation) TotalPrice() Money      { return r.totalPrice }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time   { return r.updatedAt }
