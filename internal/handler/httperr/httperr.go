package httperr

import (
	"net/http"

	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	target  error
	status  int
	message string
}

// order matters only where a chain could carry two marks; the first match wins
var mappings = []mapping{
	{errs.ErrInvalidDateRange, http.StatusBadRequest, "Invalid date range"},
	{errs.ErrInvalidGuestCount, http.StatusBadRequest, "Invalid guest count"},
	{errs.ErrInvalidStatusFilter, http.StatusBadRequest, "Unknown reservation status"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, "Invalid cursor"},
	{errs.ErrCapacityExceeded, http.StatusUnprocessableEntity, "Guest count exceeds room capacity"},
	{errs.ErrCancellationWindowClosed, http.StatusUnprocessableEntity, "Cancellation window closed"},
	{errs.ErrNotAvailable, http.StatusConflict, "Room type not available for the requested dates"},
	{errs.ErrInvalidStatusTransition, http.StatusConflict, "Invalid status transition"},
	{errs.ErrIdempotencyKeyReused, http.StatusConflict, "Idempotency key already used with a different request"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, "Request with this idempotency key is still in progress"},
	{errs.ErrReservationNotFound, http.StatusNotFound, "Reservation not found"},
	{errs.ErrRoomTypeNotFound, http.StatusNotFound, "Room type not found"},
	{errs.ErrUnauthorized, http.StatusForbidden, "Not allowed to access this reservation"},
	{errs.ErrCodeGenerationExhausted, http.StatusInternalServerError, "Could not allocate a confirmation code"},
	{errs.ErrDatabaseOperationFailed, http.StatusInternalServerError, "Internal server error"},
}

// StatusFor maps a use-case error to its HTTP status and public message.
// Unknown errors are 500.
func StatusFor(err error) (int, string) {
	for _, m := range mappings {
		if errs.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// AbortWithUseCaseError responds with the status registered for err.
func AbortWithUseCaseError(c *gin.Context, err error) {
	status, msg := StatusFor(err)
	AbortWithError(c, status, err, msg, nil)
}
