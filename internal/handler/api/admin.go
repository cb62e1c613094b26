package api

import (
	"errors"
	"net/http"

	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	resdto "hotel-reservation-engine/internal/handler/dto/response"
	"hotel-reservation-engine/internal/handler/httperr"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errUnauthenticated = errors.New("unauthenticated")
	errAmbiguousFilter = errors.New("exactly one of roomTypeId or status is required")
)

// AdminReservationHandler serves staff listings; routes are guarded by role.
type AdminReservationHandler struct {
	q queries.ReservationQueries
}

func NewAdminReservationHandler(q queries.ReservationQueries) *AdminReservationHandler {
	return &AdminReservationHandler{q: q}
}

// @Summary List reservations by room type or status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param roomTypeId query string false "Room type ID"
// @Param status query string false "PENDING, CONFIRMED, CANCELLED or COMPLETED"
// @Param limit query int false "Max items (default 20, max 200)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/reservations [get]
func (h *AdminReservationHandler) ListReservations(c *gin.Context) {
	var q reqdto.AdminListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}
	page := queries.PageRequest{After: q.After, Limit: q.Limit}

	var (
		result *queries.ReservationPage
		err    error
	)
	switch {
	case q.RoomTypeID != "" && q.Status == "":
		roomTypeID, parseErr := uuid.Parse(q.RoomTypeID)
		if parseErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, parseErr, "Invalid room type ID format", nil)
			return
		}
		result, err = h.q.ListByRoomType(c.Request.Context(), roomTypeID, page)
	case q.Status != "" && q.RoomTypeID == "":
		result, err = h.q.ListByStatus(c.Request.Context(), q.NormalizedStatus(), page)
	default:
		httperr.AbortWithError(c, http.StatusBadRequest, errAmbiguousFilter, errAmbiguousFilter.Error(), nil)
		return
	}
	if err != nil {
		httperr.AbortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationPage(result))
}

// @Summary List reservations of a hotel
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hotel ID"
// @Param limit query int false "Max items (default 20, max 200)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/hotels/{id}/reservations [get]
func (h *AdminReservationHandler) ListHotelReservations(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid hotel ID format", nil)
		return
	}
	var q reqdto.ListReservationsQuery
	if err = c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	result, err := h.q.ListByHotel(c.Request.Context(), hotelID, queries.PageRequest{After: q.After, Limit: q.Limit})
	if err != nil {
		httperr.AbortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationPage(result))
}
