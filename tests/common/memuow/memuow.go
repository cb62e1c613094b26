//go:build unit || e2e

// Package memuow is an in-memory shared.UnitOfWork. Transactions are fully
// serialized and roll back on error, and the store enforces the same
// exclusion and unique constraints the database does.
package memuow

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type idemKey struct {
	key        uuid.UUID
	customerID uuid.UUID
}

type Store struct {
	mu sync.Mutex

	roomTypes    map[uuid.UUID]shared.RoomTypeSnapshot
	reservations map[uuid.UUID]reservation.Reservation
	idempotency  map[idemKey]shared.IdempotencyRecord

	// CreateHook, when set, runs before every insert and may fail it.
	CreateHook func(res *reservation.Reservation) error
	// TxCount counts committed and rolled back transactions.
	TxCount int
	locks   []uuid.UUID
}

func New() *Store {
	return &Store{
		roomTypes:    map[uuid.UUID]shared.RoomTypeSnapshot{},
		reservations: map[uuid.UUID]reservation.Reservation{},
		idempotency:  map[idemKey]shared.IdempotencyRecord{},
	}
}

func (s *Store) AddRoomType(snap *shared.RoomTypeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomTypes[snap.ID] = *snap
}

// Seed stores res as if committed earlier, bypassing constraints.
func (s *Store) Seed(res *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[res.ID()] = *res
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, false
	}
	return &res, true
}

func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

func (s *Store) Idempotency(key, customerID uuid.UUID) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.idempotency[idemKey{key, customerID}]
	return rec, ok
}

// LockedRoomTypes lists room type locks taken by committed or rolled back transactions.
func (s *Store) LockedRoomTypes() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.locks...)
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TxCount++

	savedRes := make(map[uuid.UUID]reservation.Reservation, len(s.reservations))
	for k, v := range s.reservations {
		savedRes[k] = v
	}
	savedIdem := make(map[idemKey]shared.IdempotencyRecord, len(s.idempotency))
	for k, v := range s.idempotency {
		savedIdem[k] = v
	}

	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.reservations = savedRes
		s.idempotency = savedIdem
		return err
	}
	return nil
}

// CommandReads reads outside a transaction.
func (s *Store) CommandReads() shared.CommandReads {
	return &lockingReads{s: s}
}

type memTx struct {
	s *Store
}

func (t *memTx) Reservations() shared.ReservationRepository { return &reservationRepo{s: t.s} }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return &idempotencyRepo{s: t.s} }
func (t *memTx) Reads() shared.CommandReads                 { return &reads{s: t.s} }

func (t *memTx) LockRoomType(_ context.Context, roomTypeID uuid.UUID) error {
	t.s.locks = append(t.s.locks, roomTypeID)
	return nil
}

type reservationRepo struct {
	s *Store
}

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if r.s.CreateHook != nil {
		if err := r.s.CreateHook(res); err != nil {
			return err
		}
	}
	for _, other := range r.s.reservations {
		if other.Code() == res.Code() {
			return infra.WrapRepoErr("failed to create reservation",
				&pgconn.PgError{Code: "23505", ConstraintName: "reservations_confirmation_code_key"})
		}
	}
	if err := r.checkOverlap(res); err != nil {
		return err
	}
	r.s.reservations[res.ID()] = *res
	return nil
}

func (r *reservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if _, ok := r.s.reservations[res.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	if err := r.checkOverlap(res); err != nil {
		return err
	}
	r.s.reservations[res.ID()] = *res
	return nil
}

func (r *reservationRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return &res, nil
}

func (r *reservationRepo) checkOverlap(res *reservation.Reservation) error {
	if !res.Status().IsActive() {
		return nil
	}
	for id, other := range r.s.reservations {
		if id == res.ID() || other.RoomTypeID() != res.RoomTypeID() || !other.Status().IsActive() {
			continue
		}
		if other.Stay().Overlaps(res.Stay()) {
			return infra.WrapRepoErr("failed to write reservation",
				&pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"})
		}
	}
	return nil
}

type idempotencyRepo struct {
	s *Store
}

func (r *idempotencyRepo) Claim(
	_ context.Context,
	key, customerID uuid.UUID,
	_ string, requestHash string,
	now, expiresAt time.Time,
) (bool, error) {
	k := idemKey{key, customerID}
	if existing, ok := r.s.idempotency[k]; ok && existing.ExpiresAt.After(now) {
		return false, nil
	}
	r.s.idempotency[k] = shared.IdempotencyRecord{
		Key:         key,
		CustomerID:  customerID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r *idempotencyRepo) Complete(_ context.Context, key, customerID, reservationID uuid.UUID) error {
	k := idemKey{key, customerID}
	rec, ok := r.s.idempotency[k]
	if !ok {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultReservationID = &reservationID
	r.s.idempotency[k] = rec
	return nil
}

// reads assumes the store mutex is already held by Within.
type reads struct {
	s *Store
}

func (r *reads) RoomTypeByID(_ context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	snap, ok := r.s.roomTypes[id]
	if !ok {
		return nil, infra.WrapRepoErr("room type not found", nil, infra.KindNotFound)
	}
	snap.Overrides = nil
	return &snap, nil
}

func (r *reads) RateOverrides(_ context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]shared.RateOverrideSnapshot, error) {
	snap, ok := r.s.roomTypes[roomTypeID]
	if !ok {
		return nil, nil
	}
	var out []shared.RateOverrideSnapshot
	for _, o := range snap.Overrides {
		if !o.Date.Before(from) && o.Date.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *reads) ConfirmationCodeExists(_ context.Context, code string) (bool, error) {
	for _, res := range r.s.reservations {
		if res.Code().String() == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *reads) ActiveStays(_ context.Context, roomTypeID uuid.UUID, stay reservation.StayWindow) ([]reservation.BookedStay, error) {
	var out []reservation.BookedStay
	for _, res := range r.s.reservations {
		if res.RoomTypeID() != roomTypeID || !res.Status().IsActive() || !res.Stay().Overlaps(stay) {
			continue
		}
		out = append(out, res.Booked())
	}
	return out, nil
}

func (r *reads) IdempotencyByKey(_ context.Context, key, customerID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.s.idempotency[idemKey{key, customerID}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (r *reads) DueForCompletion(_ context.Context, today time.Time, limit int) ([]uuid.UUID, error) {
	var due []reservation.Reservation
	for _, res := range r.s.reservations {
		if res.Status() == reservation.StatusConfirmed && !res.Stay().CheckOut().After(today) {
			due = append(due, res)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].Stay().CheckOut().Before(due[j].Stay().CheckOut())
	})
	ids := make([]uuid.UUID, 0, len(due))
	for i := 0; i < len(due) && i < limit; i++ {
		ids = append(ids, due[i].ID())
	}
	return ids, nil
}

// lockingReads takes the store mutex around each call.
type lockingReads struct {
	s *Store
}

func (r *lockingReads) inner() *reads { return &reads{s: r.s} }

func (r *lockingReads) RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().RoomTypeByID(ctx, id)
}

func (r *lockingReads) RateOverrides(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]shared.RateOverrideSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().RateOverrides(ctx, roomTypeID, from, to)
}

func (r *lockingReads) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().ConfirmationCodeExists(ctx, code)
}

func (r *lockingReads) ActiveStays(ctx context.Context, roomTypeID uuid.UUID, stay reservation.StayWindow) ([]reservation.BookedStay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().ActiveStays(ctx, roomTypeID, stay)
}

func (r *lockingReads) IdempotencyByKey(ctx context.Context, key, customerID uuid.UUID) (*shared.IdempotencyRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().IdempotencyByKey(ctx, key, customerID)
}

func (r *lockingReads) DueForCompletion(ctx context.Context, today time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().DueForCompletion(ctx, today, limit)
}

// RecordingNotifier keeps every event it is handed.
type RecordingNotifier struct {
	mu     sync.Mutex
	Events []shared.ReservationEvent
}

func (n *RecordingNotifier) Send(_ context.Context, event shared.ReservationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, event)
}

func (n *RecordingNotifier) Kinds() []shared.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]shared.EventKind, len(n.Events))
	for i, e := range n.Events {
		kinds[i] = e.Kind
	}
	return kinds
}
