package shared

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/reservation"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
	// LockRoomType serializes conflict-check-and-write per room type until the transaction ends.
	LockRoomType(ctx context.Context, roomTypeID uuid.UUID) error
}

type CommandReads interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*RoomTypeSnapshot, error)
	RateOverrides(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]RateOverrideSnapshot, error)
	ConfirmationCodeExists(ctx context.Context, code string) (bool, error)
	// ActiveStays returns PENDING/CONFIRMED stays of the room type that touch the window.
	ActiveStays(ctx context.Context, roomTypeID uuid.UUID, stay reservation.StayWindow) ([]reservation.BookedStay, error)
	IdempotencyByKey(ctx context.Context, key, customerID uuid.UUID) (*IdempotencyRecord, error)
	DueForCompletion(ctx context.Context, today time.Time, limit int) ([]uuid.UUID, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	Update(ctx context.Context, res *reservation.Reservation) error
	// FindForUpdate row-locks the reservation for the rest of the transaction.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
}

type IdempotencyRepository interface {
	// Claim reports false when a live record for the key already exists.
	Claim(ctx context.Context, key, customerID uuid.UUID, endpoint, requestHash string, now, expiresAt time.Time) (bool, error)
	Complete(ctx context.Context, key, customerID, reservationID uuid.UUID) error
}
