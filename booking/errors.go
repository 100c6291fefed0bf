// booking/errors.go
package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrNotFound            = errors.New("booking not found")
	ErrConcurrencyConflict = errors.New("booking was modified concurrently")
	ErrInternal            = errors.New("internal error")
)

// UnavailableError reports an availability conflict along with the
// conflicting stay, so callers can suggest alternative dates.
type UnavailableError struct {
	RoomID   uint
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("room %d is not available: conflicts with stay %s to %s",
		e.RoomID, e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"))
}

// ErrRoomUnavailable matches any UnavailableError in errors.Is checks.
var ErrRoomUnavailable = errors.New("room unavailable")

func (e *UnavailableError) Is(target error) bool {
	return target == ErrRoomUnavailable
}
