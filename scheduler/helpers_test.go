// scheduler/helpers_test.go
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"saraih-server/booking"
	"saraih-server/models"
)

// sweepStore is an in-memory booking.Store + SweepStore so the sweeps
// run against the real state machine service.
type sweepStore struct {
	mu       sync.Mutex
	seq      uint
	bookings map[uint]*models.Booking
}

func newSweepStore() *sweepStore {
	return &sweepStore{bookings: map[uint]*models.Booking{}}
}

func (m *sweepStore) add(b models.Booking) *models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = m.seq
	m.bookings[b.ID] = &b
	return &b
}

func (m *sweepStore) ByID(_ context.Context, id uint) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *sweepStore) Overlapping(_ context.Context, roomID uint, from, to time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.Status.Blocking() && booking.Overlaps(b.CheckIn, b.CheckOut, from, to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *sweepStore) CreateLocked(_ context.Context, b *models.Booking) error {
	m.add(*b)
	return nil
}

func (m *sweepStore) CompareAndTransition(_ context.Context, id uint, expect models.BookingStatus, updates map[string]interface{}) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	if b.Status != expect {
		return nil, booking.ErrConcurrencyConflict
	}
	for col, v := range updates {
		switch col {
		case "status":
			b.Status = v.(models.BookingStatus)
		case "confirmed_at":
			t := v.(time.Time)
			b.ConfirmedAt = &t
		case "cancelled_at":
			t := v.(time.Time)
			b.CancelledAt = &t
		case "cancelled_by":
			b.CancelledBy = v.(string)
		case "cancellation_reason":
			b.CancellationReason = v.(string)
		case "refund_amount":
			b.RefundAmount = v.(float64)
		case "payment_ref":
			b.PaymentRef = v.(string)
		}
	}
	cp := *b
	return &cp, nil
}

func (m *sweepStore) PendingOlderThan(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Status == models.StatusPending && b.CreatedAt.Before(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *sweepStore) NoShowCandidates(_ context.Context, today time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Status == models.StatusConfirmed && b.CheckIn.Before(today) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *sweepStore) RefundCandidates(_ context.Context, windowStart time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Status == models.StatusCancelled && b.RefundAmount > 0 && b.RefundSettledAt == nil &&
			b.CancelledAt != nil && !b.CancelledAt.Before(windowStart) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *sweepStore) MarkRefundSettled(_ context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	if b.RefundSettledAt != nil {
		return booking.ErrConcurrencyConflict
	}
	b.RefundSettledAt = &at
	return nil
}

func (m *sweepStore) StaysOn(_ context.Context, day time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		for _, st := range statuses {
			if b.Status == st && !b.CheckIn.After(day) && b.CheckOut.After(day) {
				out = append(out, *b)
			}
		}
	}
	return out, nil
}

func (m *sweepStore) CheckedOutOn(_ context.Context, day time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := day.AddDate(0, 0, 1)
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Status == models.StatusCheckedOut && b.CheckedOutAt != nil &&
			!b.CheckedOutAt.Before(day) && b.CheckedOutAt.Before(next) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// snapshot copies the store state so idempotence can compare before and
// after a repeated sweep.
func (m *sweepStore) snapshot() map[uint]models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uint]models.Booking{}
	for id, b := range m.bookings {
		out[id] = *b
	}
	return out
}

type fakeRooms struct {
	mu       sync.Mutex
	rooms    []models.Room
	statuses map[uint]models.RoomDisplayStatus
}

func newFakeRooms(rooms ...models.Room) *fakeRooms {
	return &fakeRooms{rooms: rooms, statuses: map[uint]models.RoomDisplayStatus{}}
}

func (f *fakeRooms) Rooms(context.Context) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Room, len(f.rooms))
	copy(out, f.rooms)
	return out, nil
}

func (f *fakeRooms) SetDisplayStatus(_ context.Context, roomID uint, status models.RoomDisplayStatus, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[roomID] = status
	for i := range f.rooms {
		if f.rooms[i].ID == roomID {
			f.rooms[i].DisplayStatus = status
		}
	}
	return nil
}

type fakeMirror struct {
	mu       sync.Mutex
	statuses map[uint]models.RoomDisplayStatus
	writes   int
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{statuses: map[uint]models.RoomDisplayStatus{}}
}

func (f *fakeMirror) Set(_ context.Context, roomID uint, status models.RoomDisplayStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.statuses[roomID] = status
	return nil
}

type fakeGateway struct {
	mu       sync.Mutex
	refunded []string
	fail     bool
}

func (g *fakeGateway) Refund(_ context.Context, b *models.Booking) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errors.New("gateway down")
	}
	g.refunded = append(g.refunded, b.Reference)
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) RoomRates(context.Context, uint) (float64, string, []models.SeasonalRate, error) {
	return 100, "MAD", nil, nil
}

func (fakeCatalog) PromoByCode(context.Context, string) (*models.PromoCode, error) {
	return nil, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
