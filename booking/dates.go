// booking/dates.go
package booking

import "time"

// Day truncates t to midnight UTC. Check-in and check-out are calendar
// dates; all comparisons in this package happen at day granularity.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights counts the occupied nights of a [checkIn, checkOut) stay.
func Nights(checkIn, checkOut time.Time) int {
	return int(Day(checkOut).Sub(Day(checkIn)).Hours() / 24)
}

// Overlaps reports whether the half-open ranges [a1,a2) and [b1,b2)
// intersect. Checkout day is not an occupied night, so a stay ending on
// the day another begins does not overlap.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}
