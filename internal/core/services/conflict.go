package services

import (
	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/core/domain"
)

// FindConflicts returns every existing interval that blocks the candidate.
// An interval blocks when it is active, on a requested resource, on the same
// date, not owned by exclude, and overlaps under [start, end) semantics.
func FindConflicts(candidate domain.BookingRequest, existing []domain.BookingInterval, exclude *uuid.UUID) []domain.BookingInterval {
	var conflicts []domain.BookingInterval
	for _, iv := range existing {
		if !iv.Status.IsActive() {
			continue
		}
		if exclude != nil && iv.BookingID == *exclude {
			continue
		}
		if iv.Date != candidate.Date || !candidate.HasResource(iv.ResourceID) {
			continue
		}
		if candidate.Window.Overlaps(iv.Window) {
			conflicts = append(conflicts, iv)
		}
	}
	return conflicts
}
