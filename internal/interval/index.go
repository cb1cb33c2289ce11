// Package interval derives per-room occupancy structures from booking
// intervals: the set of booked dates, a date-to-interval lookup, and the
// month-scoped layout used to render continuous booking bars.
package interval

import (
	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/models"
)

// DateSet is a set of canonical date strings.
type DateSet map[string]struct{}

// Contains reports whether the set holds the given date.
func (s DateSet) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

// BookedDates returns the union of every night occupied by the room's
// booking intervals. Check-out days are not included: the range is half-open.
func BookedDates(room models.Room) DateSet {
	booked := make(DateSet)
	for _, iv := range room.BookedIntervals {
		dates, err := dateutil.ExpandRangeStrings(iv.CheckIn, iv.CheckOut)
		if err != nil {
			// Malformed intervals from the remote service contribute no
			// occupied nights rather than poisoning the whole index.
			continue
		}
		for _, d := range dates {
			booked[d] = struct{}{}
		}
	}
	return booked
}

// Find returns the interval whose [checkIn, checkOut) range contains the
// given date. The remote service guarantees intervals on one room never
// overlap, so at most one interval matches.
func Find(intervals []models.BookingInterval, date string) (models.BookingInterval, bool) {
	for _, iv := range intervals {
		if iv.Contains(date) {
			return iv, true
		}
	}
	return models.BookingInterval{}, false
}
