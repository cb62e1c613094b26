//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/pgsql"
	"hotel-reservation-engine/internal/infra/repository"
	"hotel-reservation-engine/internal/pkg/pgconv"
	repositorymock "hotel-reservation-engine/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIdempotencyRepository_Claim(t *testing.T) {
	ctx := context.Background()
	key, customerID := uuid.New(), uuid.New()
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	expiresAt := now.Add(24 * time.Hour)

	wantParams := pgsql.ClaimIdempotencyKeyParams{
		Key:         key,
		CustomerID:  customerID,
		Endpoint:    "POST /api/reservations",
		RequestHash: "abc",
		Now:         pgconv.TimeToPgtype(now),
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
	}

	testCases := []struct {
		name        string
		claimed     bool
		dbErr       error
		wantClaimed bool
		wantErr     bool
	}{
		{name: "success: fresh key claimed", claimed: true, wantClaimed: true},
		{name: "success: live key held elsewhere", claimed: false, wantClaimed: false},
		{name: "error: database failure", dbErr: errors.New("boom"), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

			mockQueries.EXPECT().ClaimIdempotencyKey(ctx, mockDB, wantParams).Return(tc.claimed, tc.dbErr)

			claimed, err := repo.Claim(ctx, key, customerID, "POST /api/reservations", "abc", now, expiresAt)

			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantClaimed, claimed)
		})
	}
}

func TestIdempotencyRepository_Complete(t *testing.T) {
	ctx := context.Background()
	key, customerID, reservationID := uuid.New(), uuid.New(), uuid.New()

	t.Run("success: record completed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
		mockDB := &mockDBTX{}
		repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

		mockQueries.EXPECT().CompleteIdempotencyKey(ctx, mockDB, key, customerID, reservationID).Return(int64(1), nil)

		assert.NoError(t, repo.Complete(ctx, key, customerID, reservationID))
	})

	t.Run("error: record missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
		mockDB := &mockDBTX{}
		repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

		mockQueries.EXPECT().CompleteIdempotencyKey(ctx, mockDB, key, customerID, reservationID).Return(int64(0), nil)

		err := repo.Complete(ctx, key, customerID, reservationID)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
	mockDB := &mockDBTX{}
	repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

	mockQueries.EXPECT().DeleteExpiredIdempotencyKeys(ctx, mockDB, pgconv.TimeToPgtype(now)).Return(int64(3), nil)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
