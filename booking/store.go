// booking/store.go
package booking

import (
	"context"
	"errors"
	"time"

	"saraih-server/models"
)

// ErrReferenceTaken is returned by Store.CreateLocked when the generated
// booking reference collides with an existing row; the creator regenerates
// and retries.
var ErrReferenceTaken = errors.New("booking reference already taken")

// Store is the transactional booking store. The storage package provides
// the Postgres implementation; tests use an in-memory fake.
type Store interface {
	ByID(ctx context.Context, id uint) (*models.Booking, error)

	// Overlapping returns the blocking (non-cancelled, non-no-show)
	// bookings on the room whose [checkIn, checkOut) intersects
	// [from, to), ordered by check-in.
	Overlapping(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error)

	// CreateLocked inserts the booking inside one transaction that locks
	// the candidate overlapping rows and re-validates the overlap
	// predicate, so two concurrent creates for the same room serialize.
	// Returns *UnavailableError on conflict, ErrReferenceTaken on a
	// reference collision.
	CreateLocked(ctx context.Context, b *models.Booking) error

	// CompareAndTransition applies updates only if the row's status still
	// equals expect. Returns ErrNotFound if the booking does not exist and
	// ErrConcurrencyConflict if another writer moved the status first.
	CompareAndTransition(ctx context.Context, id uint, expect models.BookingStatus, updates map[string]interface{}) (*models.Booking, error)
}

// RateCatalog supplies the read-only room rate data the pricing engine
// consumes. Implemented by storage.RoomStore.
type RateCatalog interface {
	// RoomRates returns the base nightly rate, currency and the seasonal
	// override ranges for a room, ordered by priority.
	RoomRates(ctx context.Context, roomID uint) (float64, string, []models.SeasonalRate, error)

	// PromoByCode returns nil, nil when the code does not exist; an
	// unknown promo is not an error, it just yields no discount.
	PromoByCode(ctx context.Context, code string) (*models.PromoCode, error)
}
