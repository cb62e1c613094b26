package reservation

import (
	"time"

	"hotel-reservation-engine/internal/domain/roomtype"
	"hotel-reservation-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
	}
}

// Quote is a validated and priced stay request, not yet checked for availability.
type Quote struct {
	Stay       StayWindow
	Guests     GuestCount
	TotalPrice Money
}

// Quote runs the date and capacity gates in that order and prices the stay.
// Create and Modify share it so both apply identical validation.
func (f *Factory) Quote(room *roomtype.RoomType, checkIn, checkOut time.Time, guestCount int) (Quote, error) {
	stay, err := NewStayWindow(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	if err := stay.ValidateFrom(f.Clock.Today()); err != nil {
		return Quote{}, err
	}

	guests, err := NewGuestCount(guestCount)
	if err != nil {
		return Quote{}, err
	}
	if !room.Accommodates(guests.Int()) {
		return Quote{}, ErrCapacityExceeded
	}

	total, err := f.PriceCalculator.CalculatePrice(room, stay)
	if err != nil {
		return Quote{}, err
	}

	return Quote{Stay: stay, Guests: guests, TotalPrice: total}, nil
}

func (f *Factory) CreateReservation(
	room *roomtype.RoomType,
	customerID uuid.UUID,
	quote Quote,
	code ConfirmationCode,
) *Reservation {
	return NewReservation(
		code,
		customerID,
		room.HotelID(),
		room.ID(),
		quote.Stay,
		quote.Guests,
		quote.TotalPrice,
		f.Clock.Now(),
	)
}
