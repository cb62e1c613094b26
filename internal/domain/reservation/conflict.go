package reservation

import "github.com/google/uuid"

// BookedStay is the minimal projection of an existing reservation needed for overlap checks.
type BookedStay struct {
	ReservationID uuid.UUID
	Stay          StayWindow
	Status        Status
}

type ConflictDetector struct{}

func NewConflictDetector() ConflictDetector {
	return ConflictDetector{}
}

// HasConflict reports whether any active stay in existing overlaps candidate.
// existing must already be scoped to a single room type.
func (d ConflictDetector) HasConflict(candidate StayWindow, existing []BookedStay, exclude *uuid.UUID) bool {
	for _, b := range existing {
		if exclude != nil && b.ReservationID == *exclude {
			continue
		}
		if !b.Status.IsActive() {
			continue
		}
		if candidate.Overlaps(b.Stay) {
			return true
		}
	}
	return false
}
