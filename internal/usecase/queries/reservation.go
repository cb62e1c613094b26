package queries

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// Read models (DTO for read side)
type ReservationView struct {
	ID               uuid.UUID
	ConfirmationCode string
	CustomerID       uuid.UUID
	HotelID          uuid.UUID
	HotelName        string
	RoomTypeID       uuid.UUID
	RoomTypeName     string
	CheckIn          time.Time
	CheckOut         time.Time
	Nights           int
	GuestCount       int
	TotalPrice       decimal.Decimal
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ReservationPage struct {
	Items      []*ReservationView
	NextCursor *string
}

// ReservationFilter fields are optional; nil means "any".
type ReservationFilter struct {
	CustomerID     *uuid.UUID
	RoomTypeID     *uuid.UUID
	HotelID        *uuid.UUID
	Status         *string
	AfterCreatedAt *time.Time
	AfterID        *uuid.UUID
	Limit          int
}

type ReservationViewStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByCode(ctx context.Context, code string) (*ReservationView, error)
	List(ctx context.Context, filter ReservationFilter) ([]*ReservationView, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*ReservationView, error)
	GetByCode(ctx context.Context, actor uuid.UUID, code string) (*ReservationView, error)
	// GetByIDSystem skips the ownership check; used for read-after-write and replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByOwner(ctx context.Context, customerID uuid.UUID, page PageRequest) (*ReservationPage, error)
	ListByRoomType(ctx context.Context, roomTypeID uuid.UUID, page PageRequest) (*ReservationPage, error)
	ListByStatus(ctx context.Context, status string, page PageRequest) (*ReservationPage, error)
	ListByHotel(ctx context.Context, hotelID uuid.UUID, page PageRequest) (*ReservationPage, error)
}

type reservationQueriesImpl struct {
	store ReservationViewStore
}

func NewReservationQueries(store ReservationViewStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	return ensureOwner(view, actor)
}

func (q *reservationQueriesImpl) GetByCode(ctx context.Context, actor uuid.UUID, code string) (*ReservationView, error) {
	// malformed codes cannot exist in the store
	if _, err := reservation.ParseConfirmationCode(code); err != nil {
		return nil, errs.ErrReservationNotFound
	}

	view, err := q.store.FindByCode(ctx, code)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return ensureOwner(view, actor)
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByOwner(ctx context.Context, customerID uuid.UUID, page PageRequest) (*ReservationPage, error) {
	return q.list(ctx, ReservationFilter{CustomerID: &customerID}, page)
}

func (q *reservationQueriesImpl) ListByRoomType(ctx context.Context, roomTypeID uuid.UUID, page PageRequest) (*ReservationPage, error) {
	return q.list(ctx, ReservationFilter{RoomTypeID: &roomTypeID}, page)
}

func (q *reservationQueriesImpl) ListByStatus(ctx context.Context, status string, page PageRequest) (*ReservationPage, error) {
	st, err := reservation.ParseStatus(status)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidStatusFilter)
	}
	s := st.String()
	return q.list(ctx, ReservationFilter{Status: &s}, page)
}

func (q *reservationQueriesImpl) ListByHotel(ctx context.Context, hotelID uuid.UUID, page PageRequest) (*ReservationPage, error) {
	return q.list(ctx, ReservationFilter{HotelID: &hotelID}, page)
}

// list fetches one extra row to learn whether another page exists.
func (q *reservationQueriesImpl) list(ctx context.Context, filter ReservationFilter, page PageRequest) (*ReservationPage, error) {
	limit := ValidateLimit(page.Limit)
	filter.Limit = limit + 1

	if page.After != "" {
		createdAt, id, err := DecodeAfterCursor(page.After)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidCursor)
		}
		filter.AfterCreatedAt = &createdAt
		filter.AfterID = &id
	}

	items, err := q.store.List(ctx, filter)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	result := &ReservationPage{Items: items}
	if len(items) > limit {
		result.Items = items[:limit]
		last := result.Items[limit-1]
		next := EncodeAfterCursor(last.CreatedAt, last.ID)
		result.NextCursor = &next
	}
	if result.Items == nil {
		result.Items = []*ReservationView{}
	}
	return result, nil
}

func ensureOwner(view *ReservationView, actor uuid.UUID) (*ReservationView, error) {
	if view.CustomerID != actor {
		return nil, errs.ErrUnauthorized
	}
	return view, nil
}

func translateFindErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrReservationNotFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
