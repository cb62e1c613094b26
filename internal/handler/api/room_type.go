package api

import (
	"net/http"

	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	resdto "hotel-reservation-engine/internal/handler/dto/response"
	"hotel-reservation-engine/internal/handler/httperr"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomTypeHandler struct {
	availability queries.AvailabilityQueries
}

func NewRoomTypeHandler(availability queries.AvailabilityQueries) *RoomTypeHandler {
	return &RoomTypeHandler{availability: availability}
}

// @Summary Check availability
// @Description Advisory probe: whether the room type is free for the stay and what it would cost. It takes no lock.
// @Tags room-types
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room type ID"
// @Param checkIn query string true "YYYY-MM-DD"
// @Param checkOut query string true "YYYY-MM-DD"
// @Param guests query int false "Guest count (default 1)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /room-types/{id}/availability [get]
func (h *RoomTypeHandler) CheckAvailability(c *gin.Context) {
	roomTypeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room type ID format", nil)
		return
	}
	var q reqdto.AvailabilityQuery
	if err = c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}
	checkIn, checkOut, err := q.StayDates()
	if err != nil {
		httperr.AbortWithUseCaseError(c, errs.Mark(err, errs.ErrInvalidDateRange))
		return
	}

	view, err := h.availability.CheckAvailability(c.Request.Context(), roomTypeID, checkIn, checkOut, q.Guests)
	if err != nil {
		httperr.AbortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
