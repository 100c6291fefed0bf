// booking/availability_test.go
package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saraih-server/models"
)

func seedBooking(t *testing.T, store *memStore, roomID uint, checkIn, checkOut time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := &models.Booking{
		Reference: NewReference(checkIn),
		RoomID:    roomID,
		GuestID:   1,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Status:    status,
	}
	require.NoError(t, store.CreateLocked(context.Background(), b))
	if status != models.StatusPending {
		store.bookings[b.ID].Status = status
	}
	return b
}

func TestIsAvailable_OverlapRejected(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, 7, date(2024, 6, 1), date(2024, 6, 4), models.StatusConfirmed)

	ok, err := NewAvailability(store).IsAvailable(context.Background(), 7, date(2024, 6, 3), date(2024, 6, 5))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAvailable_BackToBackAllowed(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, 7, date(2024, 6, 1), date(2024, 6, 4), models.StatusConfirmed)

	// Checkout day is not an occupied night.
	ok, err := NewAvailability(store).IsAvailable(context.Background(), 7, date(2024, 6, 4), date(2024, 6, 6))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailable_TerminalStatusesReleaseRoom(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, 7, date(2024, 6, 1), date(2024, 6, 4), models.StatusCancelled)
	seedBooking(t, store, 7, date(2024, 6, 2), date(2024, 6, 5), models.StatusNoShow)

	ok, err := NewAvailability(store).IsAvailable(context.Background(), 7, date(2024, 6, 1), date(2024, 6, 5))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailable_InvalidRange(t *testing.T) {
	store := newMemStore()
	avail := NewAvailability(store)

	_, err := avail.IsAvailable(context.Background(), 7, date(2024, 6, 4), date(2024, 6, 4))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = avail.IsAvailable(context.Background(), 7, date(2024, 6, 4), date(2024, 6, 1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestFirstConflict_ReportsConflictingRange(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, 7, date(2024, 6, 1), date(2024, 6, 4), models.StatusConfirmed)

	conflict, err := NewAvailability(store).FirstConflict(context.Background(), 7, date(2024, 6, 3), date(2024, 6, 5))
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, date(2024, 6, 1), conflict.CheckIn)
	assert.Equal(t, date(2024, 6, 4), conflict.CheckOut)
	assert.ErrorIs(t, conflict, ErrRoomUnavailable)
}

func TestUnavailableDates(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, 7, date(2024, 6, 1), date(2024, 6, 4), models.StatusConfirmed)
	seedBooking(t, store, 7, date(2024, 6, 10), date(2024, 6, 12), models.StatusPending)
	seedBooking(t, store, 9, date(2024, 6, 2), date(2024, 6, 20), models.StatusConfirmed) // other room

	dates, err := NewAvailability(store).UnavailableDates(context.Background(), 7, date(2024, 6, 1), date(2024, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2024, 6, 1), date(2024, 6, 2), date(2024, 6, 3),
		date(2024, 6, 10), date(2024, 6, 11),
	}, dates)
}

func TestUnavailableDates_ClipsToRequestedWindow(t *testing.T) {
	store := newMemStore()
	seedBooking(t, store, 7, date(2024, 5, 30), date(2024, 6, 3), models.StatusConfirmed)

	dates, err := NewAvailability(store).UnavailableDates(context.Background(), 7, date(2024, 6, 1), date(2024, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2024, 6, 1)}, dates)
}
