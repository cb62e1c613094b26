package roomtype

import (
	"errors"
	"time"

	"hotel-reservation-engine/internal/pkg/calendar"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCapacity   = errors.New("room type capacity must be positive")
	ErrNegativeRate      = errors.New("nightly rate cannot be negative")
	ErrHotelMismatch     = errors.New("room type does not belong to hotel")
	ErrDuplicateOverride = errors.New("duplicate rate override for date")
)

// RoomType is a read-only catalog snapshot. It is fetched fresh for every
// booking operation and never written by the reservation engine.
type RoomType struct {
	id          uuid.UUID
	hotelID     uuid.UUID
	name        string
	capacity    int
	nightlyRate decimal.Decimal
	overrides   map[string]decimal.Decimal
}

type RateOverride struct {
	Date  time.Time
	Price decimal.Decimal
}

func NewRoomType(id, hotelID uuid.UUID, name string, capacity int, nightlyRate decimal.Decimal, overrides []RateOverride) (*RoomType, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if nightlyRate.IsNegative() {
		return nil, ErrNegativeRate
	}

	byDate := make(map[string]decimal.Decimal, len(overrides))
	for _, o := range overrides {
		if o.Price.IsNegative() {
			return nil, ErrNegativeRate
		}
		key := calendar.Format(o.Date)
		if _, dup := byDate[key]; dup {
			return nil, ErrDuplicateOverride
		}
		byDate[key] = o.Price
	}

	return &RoomType{
		id:          id,
		hotelID:     hotelID,
		name:        name,
		capacity:    capacity,
		nightlyRate: nightlyRate,
		overrides:   byDate,
	}, nil
}

func (r *RoomType) Accommodates(guests int) bool {
	return guests <= r.capacity
}

func (r *RoomType) BelongsTo(hotelID uuid.UUID) error {
	if r.hotelID != hotelID {
		return ErrHotelMismatch
	}
	return nil
}

// RateFor returns the override price for the night starting on date, or the base rate.
func (r *RoomType) RateFor(date time.Time) decimal.Decimal {
	if p, ok := r.overrides[calendar.Format(date)]; ok {
		return p
	}
	return r.nightlyRate
}

func (r *RoomType) HasOverrides() bool {
	return len(r.overrides) > 0
}

func (r *RoomType) ID() uuid.UUID                { return r.id }
func (r *RoomType) HotelID() uuid.UUID           { return r.hotelID }
func (r *RoomType) Name() string                 { return r.name }
func (r *RoomType) Capacity() int                { return r.capacity }
func (r *RoomType) NightlyRate() decimal.Decimal { return r.nightlyRate }
