package queries

import (
	"context"
	"errors"
	"time"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/roomtype"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AvailabilityView struct {
	RoomTypeID  uuid.UUID
	CheckIn     time.Time
	CheckOut    time.Time
	Nights      int
	Available   bool
	QuotedPrice decimal.Decimal
}

type AvailabilityReader interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error)
	RateOverrides(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]shared.RateOverrideSnapshot, error)
	ActiveStays(ctx context.Context, roomTypeID uuid.UUID, stay reservation.StayWindow) ([]reservation.BookedStay, error)
}

type AvailabilityQueries interface {
	// CheckAvailability is advisory: it takes no lock, so a later create may still lose.
	CheckAvailability(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut time.Time, guests int) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	reader         AvailabilityReader
	factory        *reservation.Factory
	detector       reservation.ConflictDetector
	applyOverrides bool
}

func NewAvailabilityQueries(reader AvailabilityReader, factory *reservation.Factory, applyOverrides bool) AvailabilityQueries {
	return &availabilityQueriesImpl{
		reader:         reader,
		factory:        factory,
		detector:       reservation.NewConflictDetector(),
		applyOverrides: applyOverrides,
	}
}

func (q *availabilityQueriesImpl) CheckAvailability(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut time.Time, guests int) (*AvailabilityView, error) {
	if guests <= 0 {
		guests = 1
	}

	room, err := q.loadRoomType(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	quote, err := q.factory.Quote(room, checkIn, checkOut, guests)
	if err != nil {
		return nil, translatePolicyErr(err)
	}

	stays, err := q.reader.ActiveStays(ctx, roomTypeID, quote.Stay)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &AvailabilityView{
		RoomTypeID:  roomTypeID,
		CheckIn:     quote.Stay.CheckIn(),
		CheckOut:    quote.Stay.CheckOut(),
		Nights:      quote.Stay.Nights(),
		Available:   !q.detector.HasConflict(quote.Stay, stays, nil),
		QuotedPrice: quote.TotalPrice.Decimal(),
	}, nil
}

func (q *availabilityQueriesImpl) loadRoomType(ctx context.Context, id uuid.UUID, from, to time.Time) (*roomtype.RoomType, error) {
	snap, err := q.reader.RoomTypeByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomTypeNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if q.applyOverrides {
		overrides, err := q.reader.RateOverrides(ctx, id, from, to)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		snap.Overrides = overrides
	}
	return snap.ToDomain()
}

func translatePolicyErr(err error) error {
	switch {
	case errors.Is(err, reservation.ErrInvalidDateRange):
		return errs.Mark(err, errs.ErrInvalidDateRange)
	case errors.Is(err, reservation.ErrCapacityExceeded):
		return errs.Mark(err, errs.ErrCapacityExceeded)
	case errors.Is(err, reservation.ErrInvalidGuestCount):
		return errs.Mark(err, errs.ErrInvalidGuestCount)
	default:
		return err
	}
}
