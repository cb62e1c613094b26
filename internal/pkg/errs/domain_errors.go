package errs

import "errors"

// Sentinel errors shared by the command, query and handler layers.
// Each maps to one stable message and HTTP status.
var (
	// Booking policy
	ErrInvalidDateRange         = errors.New("invalid date range")
	ErrInvalidGuestCount        = errors.New("invalid guest count")
	ErrCapacityExceeded         = errors.New("capacity exceeded")
	ErrNotAvailable             = errors.New("room type not available for the requested dates")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")

	// Lookup and access
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomTypeNotFound    = errors.New("room type not found")
	ErrUnauthorized        = errors.New("not the owner of this reservation")
	ErrInvalidStatusFilter = errors.New("unknown reservation status")

	// Idempotency
	ErrIdempotencyKeyReused  = errors.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress = errors.New("idempotency in progress")

	// Operation errors
	ErrCodeGenerationExhausted = errors.New("could not allocate a unique confirmation code")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
