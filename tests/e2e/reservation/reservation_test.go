//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/user"
	"hotel-reservation-engine/internal/handler/api"
	"hotel-reservation-engine/internal/handler/dto/request"
	"hotel-reservation-engine/internal/handler/dto/response"
	"hotel-reservation-engine/tests/common/authtest"
	"hotel-reservation-engine/tests/common/dbtest"
	"hotel-reservation-engine/tests/common/httptest"
	"hotel-reservation-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/reservations"
	availabilityURL = "/api/room-types/%s/availability?checkIn=%s&checkOut=%s&guests=%d"
	adminListURL    = "/api/admin/reservations"
)

type ReservationSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *ReservationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *ReservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

type catalog struct {
	hotelID    uuid.UUID
	roomTypeID uuid.UUID
}

func (s *ReservationSuite) seedCatalog(t *testing.T, capacity int, rate string) catalog {
	t.Helper()
	hotelID := dbtest.CreateTestHotel(t, s.DB, "Harbour View")
	roomTypeID := dbtest.CreateTestRoomType(t, s.DB, hotelID, "Deluxe Double", capacity, rate)
	return catalog{hotelID: hotelID, roomTypeID: roomTypeID}
}

func (s *ReservationSuite) create(t *testing.T, token string, key uuid.UUID, body request.CreateReservationRequest) (*nethttptest.ResponseRecorder, response.ReservationResponse) {
	t.Helper()
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, body,
		map[string]string{api.HeaderIdempotencyKey: key.String()}, token)

	var res response.ReservationResponse
	if w.Code == http.StatusCreated || w.Code == http.StatusOK {
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	}
	return w, res
}

// =============================================================================
// TestCreateReservation
// =============================================================================

func (s *ReservationSuite) TestCreateReservation() {
	s.Run("Normal case: booking is confirmed and priced per night", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "120.00")
		dbtest.CreateRateOverride(t, s.DB, c.roomTypeID, "2031-03-02", "200.00")
		customerID, token := s.jwt.Customer(t, "guest@example.com")

		w, got := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID:    c.hotelID,
			RoomTypeID: c.roomTypeID,
			CheckIn:    "2031-03-01",
			CheckOut:   "2031-03-04",
			GuestCount: 2,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "/api/reservations/"+got.ID.String(), w.Header().Get("Location"))

		want := response.ReservationResponse{
			CustomerID:   customerID,
			HotelID:      c.hotelID,
			HotelName:    "Harbour View",
			RoomTypeID:   c.roomTypeID,
			RoomTypeName: "Deluxe Double",
			CheckIn:      "2031-03-01",
			CheckOut:     "2031-03-04",
			Nights:       3,
			GuestCount:   2,
			TotalPrice:   "440.00",
			Status:       "CONFIRMED",
		}
		opts := cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "ConfirmationCode", "CreatedAt", "UpdatedAt")
		if diff := cmp.Diff(want, got, opts); diff != "" {
			t.Errorf("reservation mismatch (-want +got):\n%s", diff)
		}
		assert.Regexp(t, `^HB[A-Z0-9]{8}$`, got.ConfirmationCode)
	})

	s.Run("Normal case: same idempotency key replays the first result", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "replay@example.com")
		key := uuid.New()
		body := request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-04-01", CheckOut: "2031-04-03", GuestCount: 1,
		}

		w1, first := s.create(t, token, key, body)
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

		w2, second := s.create(t, token, key, body)
		require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
		assert.Equal(t, "true", w2.Header().Get(api.HeaderIdempotentReplayed))
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, dbtest.CountReservations(t, s.DB, c.roomTypeID))
	})

	s.Run("Error case: same key with a different body is rejected", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "reuse@example.com")
		key := uuid.New()
		body := request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-04-01", CheckOut: "2031-04-03", GuestCount: 1,
		}

		w1, _ := s.create(t, token, key, body)
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

		body.CheckOut = "2031-04-05"
		w2, _ := s.create(t, token, key, body)
		httptest.AssertErrorResponse(t, w2, http.StatusConflict, "Idempotency key")
	})

	s.Run("Error case: overlapping stay is not available", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "overlap@example.com")

		w1, _ := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-05-01", CheckOut: "2031-05-05", GuestCount: 1,
		})
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

		w2, _ := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-05-04", CheckOut: "2031-05-06", GuestCount: 1,
		})
		httptest.AssertErrorResponse(t, w2, http.StatusConflict, "not available")
	})

	s.Run("Normal case: back-to-back stays do not conflict", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "adjacent@example.com")

		for _, stay := range [][2]string{{"2031-06-01", "2031-06-03"}, {"2031-06-03", "2031-06-05"}} {
			w, _ := s.create(t, token, uuid.New(), request.CreateReservationRequest{
				HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
				CheckIn: stay[0], CheckOut: stay[1], GuestCount: 1,
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}
	})

	s.Run("Error case: guests above capacity", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "crowd@example.com")

		w, _ := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-07-01", CheckOut: "2031-07-02", GuestCount: 3,
		})
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "capacity")
	})

	s.Run("Error case: check-out not after check-in", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "dates@example.com")

		w, _ := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-07-02", CheckOut: "2031-07-02", GuestCount: 1,
		})
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "date range")
	})

	s.Run("Error case: missing idempotency key", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "nokey@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-07-01", CheckOut: "2031-07-02", GuestCount: 1,
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("Error case: unauthenticated", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Concurrency: only one of many racing bookings wins", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		const racers = 8

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			statuses = map[int]int{}
		)
		for i := range racers {
			_, token := s.jwt.Customer(t, fmt.Sprintf("racer%d@example.com", i))
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL,
					request.CreateReservationRequest{
						HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
						CheckIn: "2031-08-10", CheckOut: "2031-08-12", GuestCount: 1,
					},
					map[string]string{api.HeaderIdempotencyKey: uuid.NewString()}, token)
				mu.Lock()
				statuses[w.Code]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, statuses[http.StatusCreated])
		assert.Equal(t, racers-1, statuses[http.StatusConflict])
		assert.Equal(t, 1, dbtest.CountReservations(t, s.DB, c.roomTypeID))
	})
}

// =============================================================================
// TestReservationLifecycle - read, modify, cancel
// =============================================================================

func (s *ReservationSuite) TestReservationLifecycle() {
	s.Run("Normal case: owner reads by id and by code", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "reader@example.com")
		_, created := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-09-01", CheckOut: "2031-09-02", GuestCount: 1,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, token)
		var byID response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &byID)
		assert.Equal(t, created.ConfirmationCode, byID.ConfirmationCode)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/code/"+created.ConfirmationCode, nil, token)
		var byCode response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &byCode)
		assert.Equal(t, created.ID, byCode.ID)
	})

	s.Run("Error case: another customer cannot read it", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, owner := s.jwt.Customer(t, "owner@example.com")
		_, stranger := s.jwt.Customer(t, "stranger@example.com")
		_, created := s.create(t, owner, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-09-01", CheckOut: "2031-09-02", GuestCount: 1,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, stranger)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Normal case: modify moves the stay and reprices", func() {
		t := s.T()
		c := s.seedCatalog(t, 3, "100.00")
		_, token := s.jwt.Customer(t, "mover@example.com")
		_, created := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-10-01", CheckOut: "2031-10-03", GuestCount: 1,
		})

		// overlaps its own old stay, which must not count as a conflict
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, reservationsURL+"/"+created.ID.String(),
			request.ModifyReservationRequest{CheckIn: "2031-10-02", CheckOut: "2031-10-06", GuestCount: 3}, token)
		var modified response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &modified)
		assert.Equal(t, "2031-10-02", modified.CheckIn)
		assert.Equal(t, 4, modified.Nights)
		assert.Equal(t, "400.00", modified.TotalPrice)
		assert.Equal(t, created.ConfirmationCode, modified.ConfirmationCode)
	})

	s.Run("Normal case: cancel well ahead of check-in", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "canceller@example.com")
		_, created := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-11-01", CheckOut: "2031-11-02", GuestCount: 1,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+created.ID.String()+"/cancel", nil, token)
		var cancelled response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		assert.Equal(t, "CANCELLED", cancelled.Status)

		// the dates are free again
		w2, _ := s.create(t, token, uuid.New(), request.CreateReservationRequest{
			HotelID: c.hotelID, RoomTypeID: c.roomTypeID,
			CheckIn: "2031-11-01", CheckOut: "2031-11-02", GuestCount: 1,
		})
		assert.Equal(t, http.StatusCreated, w2.Code, w2.Body.String())

		w3 := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+created.ID.String()+"/cancel", nil, token)
		assert.Equal(t, http.StatusConflict, w3.Code)
	})

	s.Run("Error case: cancel inside the lead window", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		customerID, token := s.jwt.Customer(t, "late@example.com")
		today := time.Now().UTC().Format(time.DateOnly)
		tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(time.DateOnly)
		id := dbtest.CreateTestReservation(t, s.DB, c.hotelID, c.roomTypeID, customerID, today, tomorrow, "CONFIRMED")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+id.String()+"/cancel", nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Cancellation window")
		assert.Equal(t, "CONFIRMED", dbtest.ReservationStatus(t, s.DB, id))
	})

	s.Run("Normal case: list pages newest first", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		_, token := s.jwt.Customer(t, "lister@example.com")
		for i := range 3 {
			in := fmt.Sprintf("2031-12-%02d", 1+i*2)
			out := fmt.Sprintf("2031-12-%02d", 2+i*2)
			w, _ := s.create(t, token, uuid.New(), request.CreateReservationRequest{
				HotelID: c.hotelID, RoomTypeID: c.roomTypeID, CheckIn: in, CheckOut: out, GuestCount: 1,
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?limit=2", nil, token)
		var page response.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Len(t, page.Items, 2)
		require.NotNil(t, page.NextCursor)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?limit=2&after="+*page.NextCursor, nil, token)
		var rest response.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &rest)
		assert.Len(t, rest.Items, 1)
		assert.Nil(t, rest.NextCursor)
	})
}

// =============================================================================
// TestAvailability and admin listing
// =============================================================================

func (s *ReservationSuite) TestAvailability() {
	s.Run("Normal case: free stay is quoted", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "80.00")
		_, token := s.jwt.Customer(t, "browser@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, c.roomTypeID, "2032-01-10", "2032-01-12", 2), nil, token)
		var got response.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.True(t, got.Available)
		assert.Equal(t, "160.00", got.QuotedPrice)
	})

	s.Run("Normal case: booked stay is reported unavailable", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "80.00")
		customerID, token := s.jwt.Customer(t, "browser2@example.com")
		dbtest.CreateTestReservation(t, s.DB, c.hotelID, c.roomTypeID, customerID, "2032-01-11", "2032-01-13", "CONFIRMED")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, c.roomTypeID, "2032-01-10", "2032-01-12", 1), nil, token)
		var got response.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.False(t, got.Available)
	})

	s.Run("Error case: unknown room type", func() {
		t := s.T()
		_, token := s.jwt.Customer(t, "browser3@example.com")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, uuid.New(), "2032-01-10", "2032-01-12", 1), nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *ReservationSuite) TestAdminListing() {
	s.Run("Normal case: operator filters by status", func() {
		t := s.T()
		c := s.seedCatalog(t, 2, "100.00")
		customerID := uuid.New()
		dbtest.CreateTestReservation(t, s.DB, c.hotelID, c.roomTypeID, customerID, "2032-02-01", "2032-02-02", "CONFIRMED")
		dbtest.CreateTestReservation(t, s.DB, c.hotelID, c.roomTypeID, customerID, "2032-02-01", "2032-02-02", "CANCELLED")
		token := s.jwt.GenerateToken(t, uuid.New(), user.RoleOperator, "ops@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, adminListURL+"?status=cancelled", nil, token)
		var page response.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CANCELLED", page.Items[0].Status)
	})

	s.Run("Error case: customers are refused", func() {
		t := s.T()
		_, token := s.jwt.Customer(t, "nosy@example.com")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, adminListURL+"?status=CONFIRMED", nil, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
