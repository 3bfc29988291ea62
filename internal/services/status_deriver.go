package services

import (
	"time"

	"tripcraft/internal/models/db_models"
)

// DeriveStatus computes the date-driven status. Cancelled is absorbing; anything else,
// including an unrecognized stored value, is recomputed from the trip dates.
func DeriveStatus(current db_models.ItineraryStatus, start, end, now time.Time) db_models.ItineraryStatus {
	if current == db_models.StatusCancelled {
		return current
	}
	switch {
	case now.Before(start):
		return db_models.StatusConfirmed
	case now.After(end):
		return db_models.StatusCompleted
	default:
		return db_models.StatusInProgress
	}
}

// ApplyStatus updates itinerary in place and reports whether anything changed.
// last_updated moves only when the status does.
func ApplyStatus(itinerary *db_models.Itinerary, now time.Time) bool {
	next := DeriveStatus(itinerary.Status, itinerary.TripDetails.StartDate, itinerary.TripDetails.EndDate, now)
	if next == itinerary.Status {
		return false
	}
	itinerary.Status = next
	itinerary.Metadata.LastUpdated = now
	return true
}
