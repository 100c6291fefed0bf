// booking/helpers_test.go
package booking

import (
	"context"
	"sync"
	"time"

	"saraih-server/models"
)

// memStore is an in-memory Store with the same CAS semantics as the
// Postgres implementation.
type memStore struct {
	mu       sync.Mutex
	seq      uint
	bookings map[uint]*models.Booking
	refs     map[string]bool

	// forceRefTaken makes the next n creates fail with ErrReferenceTaken.
	forceRefTaken int
}

func newMemStore() *memStore {
	return &memStore{bookings: map[uint]*models.Booking{}, refs: map[string]bool{}}
}

func (m *memStore) ByID(_ context.Context, id uint) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) Overlapping(_ context.Context, roomID uint, from, to time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.Status.Blocking() && Overlaps(b.CheckIn, b.CheckOut, from, to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) CreateLocked(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forceRefTaken > 0 {
		m.forceRefTaken--
		return ErrReferenceTaken
	}
	if m.refs[b.Reference] {
		return ErrReferenceTaken
	}
	for _, existing := range m.bookings {
		if existing.RoomID == b.RoomID && existing.Status.Blocking() &&
			Overlaps(existing.CheckIn, existing.CheckOut, b.CheckIn, b.CheckOut) {
			return &UnavailableError{RoomID: b.RoomID, CheckIn: existing.CheckIn, CheckOut: existing.CheckOut}
		}
	}
	m.seq++
	b.ID = m.seq
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.refs[b.Reference] = true
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) CompareAndTransition(_ context.Context, id uint, expect models.BookingStatus, updates map[string]interface{}) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status != expect {
		return nil, ErrConcurrencyConflict
	}
	applyUpdates(b, updates)
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func applyUpdates(b *models.Booking, updates map[string]interface{}) {
	for col, v := range updates {
		switch col {
		case "status":
			b.Status = v.(models.BookingStatus)
		case "confirmed_at":
			t := v.(time.Time)
			b.ConfirmedAt = &t
		case "checked_in_at":
			t := v.(time.Time)
			b.CheckedInAt = &t
		case "checked_out_at":
			t := v.(time.Time)
			b.CheckedOutAt = &t
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
}

// memCatalog is an in-memory RateCatalog.
type memCatalog struct {
	base     float64
	currency string
	seasons  []models.SeasonalRate
	promos   map[string]*models.PromoCode
}

func newMemCatalog(base float64) *memCatalog {
	return &memCatalog{base: base, currency: "MAD", promos: map[string]*models.PromoCode{}}
}

func (c *memCatalog) RoomRates(context.Context, uint) (float64, string, []models.SeasonalRate, error) {
	return c.base, c.currency, c.seasons, nil
}

func (c *memCatalog) PromoByCode(_ context.Context, code string) (*models.PromoCode, error) {
	return c.promos[code], nil
}

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
