package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/roomtype"
	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/calendar"
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const createEndpoint = "POST /api/reservations"

var errCodeCollision = errs.New("confirmation code collided on insert")

// BookingPolicy carries the tunable rules of the engine.
type BookingPolicy struct {
	CodeMaxAttempts      int
	CancellationLeadDays int
	ApplyRateOverrides   bool
	IdempotencyTTL       time.Duration
	CompletionBatchSize  int
}

func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		CodeMaxAttempts:      5,
		CancellationLeadDays: 1,
		ApplyRateOverrides:   true,
		IdempotencyTTL:       24 * time.Hour,
		CompletionBatchSize:  100,
	}
}

type CreateReservationResult struct {
	ReservationID uuid.UUID
	IsReplayed    bool
}

type ReservationCommands interface {
	// CreateReservation treats uuid.Nil as "no idempotency key".
	CreateReservation(ctx context.Context, req reqdto.CreateReservationRequest, customer shared.Customer, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	CancelReservation(ctx context.Context, reservationID uuid.UUID, customer shared.Customer) error
	ModifyReservation(ctx context.Context, reservationID uuid.UUID, req reqdto.ModifyReservationRequest, customer shared.Customer) error
	// CompleteElapsedStays moves CONFIRMED stays whose check-out has been reached to COMPLETED.
	CompleteElapsedStays(ctx context.Context) (int, error)
}

type reservationUseCaseImpl struct {
	uow      shared.UnitOfWork
	factory  *reservation.Factory
	codes    reservation.CodeGenerator
	detector reservation.ConflictDetector
	notifier shared.Notifier
	clock    clock.Clock
	policy   BookingPolicy
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	codes reservation.CodeGenerator,
	notifier shared.Notifier,
	clk clock.Clock,
	policy BookingPolicy,
) ReservationCommands {
	if policy.CodeMaxAttempts <= 0 {
		policy.CodeMaxAttempts = 1
	}
	if policy.CompletionBatchSize <= 0 {
		policy.CompletionBatchSize = 100
	}
	return &reservationUseCaseImpl{
		uow:      uow,
		factory:  factory,
		codes:    codes,
		detector: reservation.NewConflictDetector(),
		notifier: notifier,
		clock:    clk,
		policy:   policy,
	}
}

func (uc *reservationUseCaseImpl) CreateReservation(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	customer shared.Customer,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	checkIn, checkOut, err := req.StayDates()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDateRange)
	}
	requestHash := calculateRequestHash(req)

	var (
		result  CreateReservationResult
		created *reservation.Reservation
	)
	// an insert that loses a code race aborts the transaction, so the whole unit is rerun
	for attempt := 1; ; attempt++ {
		err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			result, created = CreateReservationResult{}, nil

			if idempotencyKey != uuid.Nil {
				replay, err := uc.claimIdempotencyKey(ctx, tx, idempotencyKey, customer.ID, requestHash)
				if err != nil {
					return err
				}
				if replay != nil {
					result = *replay
					return nil
				}
			}

			room, err := uc.loadRoomType(ctx, tx.Reads(), req.RoomTypeID, checkIn, checkOut)
			if err != nil {
				return err
			}
			if err := room.BelongsTo(req.HotelID); err != nil {
				return errs.Mark(err, errs.ErrRoomTypeNotFound)
			}

			quote, err := uc.factory.Quote(room, checkIn, checkOut, req.GuestCount)
			if err != nil {
				return translateDomainErr(err)
			}

			if err := tx.LockRoomType(ctx, room.ID()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if err := uc.ensureAvailable(ctx, tx.Reads(), room.ID(), quote.Stay, nil); err != nil {
				return err
			}

			code, err := uc.allocateCode(ctx, tx.Reads())
			if err != nil {
				return err
			}

			res := uc.factory.CreateReservation(room, customer.ID, quote, code)
			if err := tx.Reservations().Create(ctx, res); err != nil {
				return translateWriteErr(err)
			}

			if idempotencyKey != uuid.Nil {
				if err := tx.Idempotency().Complete(ctx, idempotencyKey, customer.ID, res.ID()); err != nil {
					return errs.Mark(err, errs.ErrDatabaseOperationFailed)
				}
			}

			result.ReservationID = res.ID()
			created = res
			return nil
		})
		if errs.Is(err, errCodeCollision) && attempt < uc.policy.CodeMaxAttempts {
			slog.WarnContext(ctx, "confirmation code collided on insert, retrying", "attempt", attempt)
			continue
		}
		break
	}
	if errs.Is(err, errCodeCollision) {
		return nil, errs.Mark(err, errs.ErrCodeGenerationExhausted)
	}
	if err != nil {
		return nil, err
	}

	if created != nil {
		uc.notifier.Send(ctx, newEvent(shared.EventReservationCreated, created, customer.Email, uc.clock.Now()))
	}
	return &result, nil
}

func (uc *reservationUseCaseImpl) CancelReservation(ctx context.Context, reservationID uuid.UUID, customer shared.Customer) error {
	var cancelled *reservation.Reservation
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cancelled = nil

		res, err := uc.loadOwned(ctx, tx, reservationID, customer.ID)
		if err != nil {
			return err
		}

		if err := res.Cancel(uc.clock.Today(), uc.policy.CancellationLeadDays, uc.clock.Now()); err != nil {
			return translateDomainErr(err)
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return translateWriteErr(err)
		}

		cancelled = res
		return nil
	})
	if err != nil {
		return err
	}

	uc.notifier.Send(ctx, newEvent(shared.EventReservationCancelled, cancelled, customer.Email, uc.clock.Now()))
	return nil
}

// ModifyReservation sends no notification.
func (uc *reservationUseCaseImpl) ModifyReservation(
	ctx context.Context,
	reservationID uuid.UUID,
	req reqdto.ModifyReservationRequest,
	customer shared.Customer,
) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := uc.loadOwned(ctx, tx, reservationID, customer.ID)
		if err != nil {
			return err
		}
		if err := res.EnsureModifiable(); err != nil {
			return translateDomainErr(err)
		}

		checkIn, checkOut, err := req.StayDates()
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidDateRange)
		}

		room, err := uc.loadRoomType(ctx, tx.Reads(), res.RoomTypeID(), checkIn, checkOut)
		if err != nil {
			return err
		}
		quote, err := uc.factory.Quote(room, checkIn, checkOut, req.GuestCount)
		if err != nil {
			return translateDomainErr(err)
		}

		if err := tx.LockRoomType(ctx, room.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		self := res.ID()
		if err := uc.ensureAvailable(ctx, tx.Reads(), room.ID(), quote.Stay, &self); err != nil {
			return err
		}

		if err := res.Modify(quote.Stay, quote.Guests, quote.TotalPrice, uc.clock.Now()); err != nil {
			return translateDomainErr(err)
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return translateWriteErr(err)
		}
		return nil
	})
}

func (uc *reservationUseCaseImpl) CompleteElapsedStays(ctx context.Context) (int, error) {
	today := uc.clock.Today()
	completed := 0

	for {
		ids, err := uc.uow.CommandReads().DueForCompletion(ctx, today, uc.policy.CompletionBatchSize)
		if err != nil {
			return completed, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		progressed := 0
		for _, id := range ids {
			done, err := uc.completeOne(ctx, id, today)
			if err != nil {
				return completed, err
			}
			if done {
				progressed++
			}
		}
		completed += progressed

		if len(ids) < uc.policy.CompletionBatchSize || progressed == 0 {
			return completed, nil
		}
	}
}

func (uc *reservationUseCaseImpl) completeOne(ctx context.Context, id uuid.UUID, today time.Time) (bool, error) {
	done := false
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		done = false

		res, err := tx.Reservations().FindForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// a concurrent cancel or modify may have won since the batch was read
		if err := res.Complete(today, uc.clock.Now()); err != nil {
			return nil
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		done = true
		return nil
	})
	return done, err
}

func (uc *reservationUseCaseImpl) loadOwned(ctx context.Context, tx shared.Tx, id, customerID uuid.UUID) (*reservation.Reservation, error) {
	res, err := tx.Reservations().FindForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := res.EnsureOwnedBy(customerID); err != nil {
		return nil, errs.Mark(err, errs.ErrUnauthorized)
	}
	return res, nil
}

func (uc *reservationUseCaseImpl) loadRoomType(
	ctx context.Context,
	reads shared.CommandReads,
	id uuid.UUID,
	checkIn, checkOut time.Time,
) (*roomtype.RoomType, error) {
	snap, err := reads.RoomTypeByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomTypeNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if uc.policy.ApplyRateOverrides && checkIn.Before(checkOut) {
		overrides, err := reads.RateOverrides(ctx, id, checkIn, checkOut)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		snap.Overrides = overrides
	}

	room, err := snap.ToDomain()
	if err != nil {
		return nil, errs.Wrap(err, "invalid room type in catalog")
	}
	return room, nil
}

// ensureAvailable must run after LockRoomType so the check and the write are atomic.
func (uc *reservationUseCaseImpl) ensureAvailable(
	ctx context.Context,
	reads shared.CommandReads,
	roomTypeID uuid.UUID,
	stay reservation.StayWindow,
	exclude *uuid.UUID,
) error {
	existing, err := reads.ActiveStays(ctx, roomTypeID, stay)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if uc.detector.HasConflict(stay, existing, exclude) {
		return errs.ErrNotAvailable
	}
	return nil
}

func (uc *reservationUseCaseImpl) allocateCode(ctx context.Context, reads shared.CommandReads) (reservation.ConfirmationCode, error) {
	for range uc.policy.CodeMaxAttempts {
		code, err := uc.codes.Generate()
		if err != nil {
			return reservation.ConfirmationCode{}, errs.Wrap(err, "generate confirmation code")
		}
		taken, err := reads.ConfirmationCodeExists(ctx, code.String())
		if err != nil {
			return reservation.ConfirmationCode{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !taken {
			return code, nil
		}
	}
	return reservation.ConfirmationCode{}, errs.ErrCodeGenerationExhausted
}

// claimIdempotencyKey returns a non-nil result when the request is a replay.
func (uc *reservationUseCaseImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, customerID uuid.UUID,
	requestHash string,
) (*CreateReservationResult, error) {
	now := uc.clock.Now()
	claimed, err := tx.Idempotency().Claim(ctx, key, customerID, createEndpoint, requestHash, now, now.Add(uc.policy.IdempotencyTTL))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if claimed {
		return nil, nil
	}

	existing, err := tx.Reads().IdempotencyByKey(ctx, key, customerID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultReservationID == nil {
			return nil, errs.New("completed request missing result reservation ID")
		}
		return &CreateReservationResult{ReservationID: *existing.ResultReservationID, IsReplayed: true}, nil
	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func translateDomainErr(err error) error {
	switch {
	case errs.Is(err, reservation.ErrInvalidDateRange):
		return errs.Mark(err, errs.ErrInvalidDateRange)
	case errs.Is(err, reservation.ErrInvalidGuestCount):
		return errs.Mark(err, errs.ErrInvalidGuestCount)
	case errs.Is(err, reservation.ErrCapacityExceeded):
		return errs.Mark(err, errs.ErrCapacityExceeded)
	case errs.Is(err, reservation.ErrInvalidStatusTransition):
		return errs.Mark(err, errs.ErrInvalidStatusTransition)
	case errs.Is(err, reservation.ErrCancellationWindowClosed):
		return errs.Mark(err, errs.ErrCancellationWindowClosed)
	case errs.Is(err, reservation.ErrNotOwner):
		return errs.Mark(err, errs.ErrUnauthorized)
	default:
		return err
	}
}

// translateWriteErr maps a lost exclusion race to NotAvailable.
func translateWriteErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrNotAvailable)
	case infra.IsKind(err, infra.KindDuplicateKey) && infra.ConstraintName(err) == "reservations_confirmation_code_key":
		return errs.Mark(err, errCodeCollision)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrReservationNotFound)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

func newEvent(kind shared.EventKind, res *reservation.Reservation, email string, now time.Time) shared.ReservationEvent {
	return shared.ReservationEvent{
		Kind:             kind,
		ReservationID:    res.ID(),
		ConfirmationCode: res.Code().String(),
		CustomerID:       res.CustomerID(),
		CustomerEmail:    email,
		HotelID:          res.HotelID(),
		RoomTypeID:       res.RoomTypeID(),
		CheckIn:          calendar.Format(res.Stay().CheckIn()),
		CheckOut:         calendar.Format(res.Stay().CheckOut()),
		GuestCount:       res.Guests().Int(),
		TotalPrice:       res.TotalPrice().String(),
		Status:           res.Status().String(),
		OccurredAt:       now,
	}
}

func calculateRequestHash(req reqdto.CreateReservationRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
