//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"

	"hotel-reservation-engine/internal/infra/pgsql"
	"hotel-reservation-engine/internal/infra/repository"
	repositorymock "hotel-reservation-engine/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNotificationRepository_Record(t *testing.T) {
	ctx := context.Background()
	reservationID := uuid.New()

	testCases := []struct {
		name    string
		attempt repository.NotificationAttempt
		want    pgsql.InsertNotificationJobParams
	}{
		{
			name: "delivered attempt is logged as sent",
			attempt: repository.NotificationAttempt{
				ReservationID: reservationID,
				Kind:          "reservation.created",
				Topic:         "email",
				Payload:       []byte(`{}`),
				Attempts:      1,
			},
			want: pgsql.InsertNotificationJobParams{
				ReservationID: reservationID,
				Kind:          "reservation.created",
				Topic:         "email",
				Payload:       []byte(`{}`),
				Status:        repository.NotificationStatusSent,
				Attempts:      1,
			},
		},
		{
			name: "failed attempt keeps the error text",
			attempt: repository.NotificationAttempt{
				ReservationID: reservationID,
				Kind:          "reservation.cancelled",
				Topic:         "broker",
				Payload:       []byte(`{}`),
				Attempts:      3,
				Err:           errors.New("smtp timeout"),
			},
			want: pgsql.InsertNotificationJobParams{
				ReservationID: reservationID,
				Kind:          "reservation.cancelled",
				Topic:         "broker",
				Payload:       []byte(`{}`),
				Status:        repository.NotificationStatusFailed,
				Attempts:      3,
				LastError:     pgtype.Text{String: "smtp timeout", Valid: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockQueries := repositorymock.NewMockNotificationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewNotificationRepository(mockQueries, mockDB)

			mockQueries.EXPECT().InsertNotificationJob(ctx, mockDB, tc.want).Return(nil)

			assert.NoError(t, repo.Record(ctx, tc.attempt))
		})
	}
}
