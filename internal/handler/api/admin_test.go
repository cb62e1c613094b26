//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"hotel-reservation-engine/internal/handler/api"
	resdto "hotel-reservation-engine/internal/handler/dto/response"
	"hotel-reservation-engine/internal/pkg/calendar"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/queries"
	"hotel-reservation-engine/tests/common/builder"
	"hotel-reservation-engine/tests/common/httptest"
	queriesmock "hotel-reservation-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAdminReservationHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	q := queriesmock.NewMockReservationQueries(ctrl)
	h := api.NewAdminReservationHandler(q)

	router := gin.New()
	router.GET("/admin/reservations", h.ListReservations)
	router.GET("/admin/hotels/:id/reservations", h.ListHotelReservations)

	page := &queries.ReservationPage{Items: []*queries.ReservationView{builder.NewReservationBuilder().BuildView()}}

	t.Run("by room type", func(t *testing.T) {
		roomTypeID := uuid.New()
		q.EXPECT().ListByRoomType(gomock.Any(), roomTypeID, queries.PageRequest{Limit: 5}).Return(page, nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin/reservations?roomTypeId="+roomTypeID.String()+"&limit=5", nil, "")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Len(t, body.Items, 1)
		assert.Nil(t, body.NextCursor)
	})

	t.Run("status is normalized", func(t *testing.T) {
		q.EXPECT().ListByStatus(gomock.Any(), "CANCELLED", queries.PageRequest{}).Return(page, nil)
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin/reservations?status=cancelled", nil, "")
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &resdto.ReservationListResponse{})
	})

	t.Run("unknown status", func(t *testing.T) {
		q.EXPECT().ListByStatus(gomock.Any(), "ARCHIVED", gomock.Any()).
			Return(nil, errs.Mark(errors.New("parse"), errs.ErrInvalidStatusFilter))
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin/reservations?status=archived", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Unknown reservation status")
	})

	t.Run("filter must be exactly one", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin/reservations", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "exactly one")

		rec = httptest.PerformRequest(t, router, http.MethodGet,
			"/admin/reservations?status=CONFIRMED&roomTypeId="+uuid.NewString(), nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "exactly one")
	})

	t.Run("bad room type id", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin/reservations?roomTypeId=nope", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Invalid room type ID")
	})

	t.Run("by hotel", func(t *testing.T) {
		hotelID := uuid.New()
		q.EXPECT().ListByHotel(gomock.Any(), hotelID, queries.PageRequest{After: "c1"}).Return(page, nil)
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin/hotels/"+hotelID.String()+"/reservations?after=c1", nil, "")
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &resdto.ReservationListResponse{})
	})

	t.Run("store failure", func(t *testing.T) {
		q.EXPECT().ListByHotel(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errors.New("conn reset"), errs.ErrDatabaseOperationFailed))
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin/hotels/"+uuid.NewString()+"/reservations", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})
}

func TestRoomTypeHandler_CheckAvailability(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	availability := queriesmock.NewMockAvailabilityQueries(ctrl)
	h := api.NewRoomTypeHandler(availability)

	router := gin.New()
	router.GET("/room-types/:id/availability", h.CheckAvailability)

	roomTypeID := uuid.New()
	checkIn := time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2030, 7, 3, 0, 0, 0, 0, time.UTC)
	base := "/room-types/" + roomTypeID.String() + "/availability"

	t.Run("success", func(t *testing.T) {
		availability.EXPECT().CheckAvailability(gomock.Any(), roomTypeID, checkIn, checkOut, 2).
			Return(&queries.AvailabilityView{
				RoomTypeID:  roomTypeID,
				CheckIn:     checkIn,
				CheckOut:    checkOut,
				Nights:      2,
				Available:   true,
				QuotedPrice: decimal.RequireFromString("400"),
			}, nil)

		rec := httptest.PerformRequest(t, router, http.MethodGet, base+"?checkIn=2030-07-01&checkOut=2030-07-03&guests=2", nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.True(t, body.Available)
		assert.Equal(t, "400.00", body.QuotedPrice)
		assert.Equal(t, calendar.Format(checkIn), body.CheckIn)
		assert.Equal(t, 2, body.Nights)
	})

	t.Run("unparseable date", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, base+"?checkIn=07/01/2030&checkOut=2030-07-03", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Invalid date range")
	})

	t.Run("missing checkOut", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, base+"?checkIn=2030-07-01", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Invalid query parameters")
	})

	t.Run("unknown room type", func(t *testing.T) {
		availability.EXPECT().CheckAvailability(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrRoomTypeNotFound)
		rec := httptest.PerformRequest(t, router, http.MethodGet,
			"/room-types/"+uuid.NewString()+"/availability?checkIn=2030-07-01&checkOut=2030-07-03", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "Room type not found")
	})
}
