// booking/availability.go
package booking

import (
	"context"
	"sort"
	"time"
)

// Availability answers "is this room free for these dates" against the
// set of blocking bookings. Cancelled and no-show stays release the room.
type Availability struct {
	store Store
}

func NewAvailability(store Store) *Availability {
	return &Availability{store: store}
}

// IsAvailable reports whether the room is free for the stay
// [checkIn, checkOut). A zero-night or reversed range is an
// ErrInvalidDateRange, never "available".
func (a *Availability) IsAvailable(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	checkIn, checkOut = Day(checkIn), Day(checkOut)
	if !checkOut.After(checkIn) {
		return false, ErrInvalidDateRange
	}
	conflicts, err := a.store.Overlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// FirstConflict returns the earliest blocking stay overlapping the range,
// or nil when the room is free. Used to tell callers which dates collide.
func (a *Availability) FirstConflict(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (*UnavailableError, error) {
	checkIn, checkOut = Day(checkIn), Day(checkOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	conflicts, err := a.store.Overlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if len(conflicts) == 0 {
		return nil, nil
	}
	c := conflicts[0]
	return &UnavailableError{RoomID: roomID, CheckIn: Day(c.CheckIn), CheckOut: Day(c.CheckOut)}, nil
}

// UnavailableDates expands every blocking booking in [start, end) into its
// occupied nights and returns the sorted union, for calendar rendering.
func (a *Availability) UnavailableDates(ctx context.Context, roomID uint, start, end time.Time) ([]time.Time, error) {
	start, end = Day(start), Day(end)
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	bookings, err := a.store.Overlapping(ctx, roomID, start, end)
	if err != nil {
		return nil, err
	}
	seen := map[time.Time]struct{}{}
	for _, b := range bookings {
		for d := Day(b.CheckIn); d.Before(Day(b.CheckOut)); d = d.AddDate(0, 0, 1) {
			if d.Before(start) || !d.Before(end) {
				continue
			}
			seen[d] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
