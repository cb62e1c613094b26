//go:build unit

package queries_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/queries"
	"hotel-reservation-engine/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeViewStore filters and orders like the SQL list query does.
type fakeViewStore struct {
	views   []*queries.ReservationView
	listErr error
	last    queries.ReservationFilter
}

func (f *fakeViewStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	for _, v := range f.views {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
}

func (f *fakeViewStore) FindByCode(_ context.Context, code string) (*queries.ReservationView, error) {
	for _, v := range f.views {
		if v.ConfirmationCode == code {
			return v, nil
		}
	}
	return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
}

func (f *fakeViewStore) List(_ context.Context, filter queries.ReservationFilter) ([]*queries.ReservationView, error) {
	f.last = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	sorted := append([]*queries.ReservationView(nil), f.views...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID.String() > sorted[j].ID.String()
	})

	var out []*queries.ReservationView
	for _, v := range sorted {
		if filter.CustomerID != nil && v.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.RoomTypeID != nil && v.RoomTypeID != *filter.RoomTypeID {
			continue
		}
		if filter.HotelID != nil && v.HotelID != *filter.HotelID {
			continue
		}
		if filter.Status != nil && v.Status != *filter.Status {
			continue
		}
		if filter.AfterCreatedAt != nil {
			after := v.CreatedAt.Before(*filter.AfterCreatedAt) ||
				(v.CreatedAt.Equal(*filter.AfterCreatedAt) && v.ID.String() < filter.AfterID.String())
			if !after {
				continue
			}
		}
		out = append(out, v)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func TestReservationQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	view := builder.NewReservationBuilder().BuildView()
	q := queries.NewReservationQueries(&fakeViewStore{views: []*queries.ReservationView{view}})

	t.Run("owner sees the reservation", func(t *testing.T) {
		got, err := q.GetByID(ctx, view.CustomerID, view.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(view, got); diff != "" {
			t.Errorf("view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("other customer is refused", func(t *testing.T) {
		_, err := q.GetByID(ctx, uuid.New(), view.ID)
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := q.GetByID(ctx, view.CustomerID, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrReservationNotFound))
	})

	t.Run("system read skips ownership", func(t *testing.T) {
		got, err := q.GetByIDSystem(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})
}

func TestReservationQueries_GetByCode(t *testing.T) {
	ctx := context.Background()
	view := builder.NewReservationBuilder().BuildView()
	q := queries.NewReservationQueries(&fakeViewStore{views: []*queries.ReservationView{view}})

	got, err := q.GetByCode(ctx, view.CustomerID, view.ConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)

	_, err = q.GetByCode(ctx, view.CustomerID, "not-a-code")
	assert.True(t, errs.Is(err, errs.ErrReservationNotFound))

	_, err = q.GetByCode(ctx, uuid.New(), view.ConfirmationCode)
	assert.True(t, errs.Is(err, errs.ErrUnauthorized))
}

func TestReservationQueries_ListByOwnerPaginates(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	store := &fakeViewStore{}
	for i := range 5 {
		v := builder.NewReservationBuilder().WithCustomerID(owner).BuildView()
		v.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		store.views = append(store.views, v)
	}
	store.views = append(store.views, builder.NewReservationBuilder().BuildView())
	q := queries.NewReservationQueries(store)

	var seen []uuid.UUID
	page := queries.PageRequest{Limit: 2}
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5, "pagination did not terminate")
		result, err := q.ListByOwner(ctx, owner, page)
		require.NoError(t, err)
		assert.Equal(t, 3, store.last.Limit)
		for _, v := range result.Items {
			assert.Equal(t, owner, v.CustomerID)
			seen = append(seen, v.ID)
		}
		if result.NextCursor == nil {
			break
		}
		page.After = *result.NextCursor
	}

	require.Len(t, seen, 5)
	assert.Equal(t, store.views[4].ID, seen[0], "newest first")
	assert.Equal(t, store.views[0].ID, seen[4])
}

func TestReservationQueries_ListFilters(t *testing.T) {
	ctx := context.Background()
	store := &fakeViewStore{}
	q := queries.NewReservationQueries(store)
	id := uuid.New()

	_, err := q.ListByRoomType(ctx, id, queries.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, &id, store.last.RoomTypeID)
	assert.Equal(t, queries.DefaultListLimit+1, store.last.Limit)

	_, err = q.ListByHotel(ctx, id, queries.PageRequest{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, &id, store.last.HotelID)
	assert.Equal(t, queries.MaxListLimit+1, store.last.Limit)

	result, err := q.ListByStatus(ctx, "CANCELLED", queries.PageRequest{})
	require.NoError(t, err)
	require.NotNil(t, store.last.Status)
	assert.Equal(t, "CANCELLED", *store.last.Status)
	assert.NotNil(t, result.Items)
	assert.Nil(t, result.NextCursor)

	_, err = q.ListByStatus(ctx, "ARCHIVED", queries.PageRequest{})
	assert.True(t, errs.Is(err, errs.ErrInvalidStatusFilter))
}

func TestReservationQueries_ListErrors(t *testing.T) {
	ctx := context.Background()

	q := queries.NewReservationQueries(&fakeViewStore{})
	_, err := q.ListByOwner(ctx, uuid.New(), queries.PageRequest{After: "garbage"})
	assert.True(t, errs.Is(err, queries.ErrInvalidCursor))

	q = queries.NewReservationQueries(&fakeViewStore{listErr: errors.New("db down")})
	_, err = q.ListByOwner(ctx, uuid.New(), queries.PageRequest{})
	assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
}
