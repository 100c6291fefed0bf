// scheduler/sweeps.go
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"saraih-server/booking"
	"saraih-server/models"
	"saraih-server/payments"
)

// refundWindow is how long after cancellation automatic settlement is
// attempted; older refunds are left for manual handling, not retried
// forever.
const refundWindow = 7 * 24 * time.Hour

// SweepStore is the slice of the booking store the sweeps read from.
type SweepStore interface {
	PendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	NoShowCandidates(ctx context.Context, today time.Time) ([]models.Booking, error)
	RefundCandidates(ctx context.Context, windowStart time.Time) ([]models.Booking, error)
	MarkRefundSettled(ctx context.Context, id uint, at time.Time) error
	StaysOn(ctx context.Context, day time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
	CheckedOutOn(ctx context.Context, day time.Time) ([]models.Booking, error)
}

type RoomCatalog interface {
	Rooms(ctx context.Context) ([]models.Room, error)
	SetDisplayStatus(ctx context.Context, roomID uint, status models.RoomDisplayStatus, at time.Time) error
}

type StatusMirror interface {
	Set(ctx context.Context, roomID uint, status models.RoomDisplayStatus) error
}

// Sweeps holds the four recurring jobs. Every mutation goes through the
// state machine's compare-and-transition (or a guarded marker update),
// so running any sweep twice leaves the store unchanged the second time.
type Sweeps struct {
	store   SweepStore
	svc     *booking.Service
	gateway payments.Gateway
	rooms   RoomCatalog
	mirror  StatusMirror
	pending time.Duration
	now     func() time.Time
}

func NewSweeps(store SweepStore, svc *booking.Service, gateway payments.Gateway, rooms RoomCatalog, mirror StatusMirror, pendingExpiry time.Duration, now func() time.Time) *Sweeps {
	if now == nil {
		now = time.Now
	}
	return &Sweeps{
		store:   store,
		svc:     svc,
		gateway: gateway,
		rooms:   rooms,
		mirror:  mirror,
		pending: pendingExpiry,
		now:     now,
	}
}

// ExpirePending cancels pending bookings that never saw a payment
// confirmation within the threshold, freeing their rooms.
func (s *Sweeps) ExpirePending(ctx context.Context) error {
	cutoff := s.now().Add(-s.pending)
	stale, err := s.store.PendingOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	for _, b := range stale {
		if _, err := s.svc.Cancel(ctx, b.ID, "expired", "scheduler"); err != nil {
			if skippable(err) {
				continue // another writer got there first
			}
			log.Printf("[scheduler] expire %s: %v", b.Reference, err)
		}
	}
	return nil
}

// MarkNoShows moves confirmed bookings whose check-in date has passed to
// no-show.
func (s *Sweeps) MarkNoShows(ctx context.Context) error {
	today := booking.Day(s.now())
	missed, err := s.store.NoShowCandidates(ctx, today)
	if err != nil {
		return err
	}
	for _, b := range missed {
		if _, err := s.svc.Transition(ctx, b.ID, models.StatusNoShow, "scheduler"); err != nil {
			if skippable(err) {
				continue
			}
			log.Printf("[scheduler] no-show %s: %v", b.Reference, err)
		}
	}
	return nil
}

// SettleRefunds forwards unsettled refunds cancelled within the window
// to the payment gateway, then marks them settled. The marker update is
// guarded, so a repeated sweep never forwards the same refund twice.
func (s *Sweeps) SettleRefunds(ctx context.Context) error {
	now := s.now()
	due, err := s.store.RefundCandidates(ctx, now.Add(-refundWindow))
	if err != nil {
		return err
	}
	for _, b := range due {
		b := b
		if err := s.gateway.Refund(ctx, &b); err != nil {
			log.Printf("[scheduler] refund %s: %v", b.Reference, err)
			continue // retried next run while inside the window
		}
		if err := s.store.MarkRefundSettled(ctx, b.ID, now); err != nil && !skippable(err) {
			log.Printf("[scheduler] settle %s: %v", b.Reference, err)
		}
	}
	return nil
}

// SyncRoomStatus derives each room's displayed status from today's
// bookings: occupied while a guest is checked in, cleaning on the day of
// a checkout, available otherwise.
func (s *Sweeps) SyncRoomStatus(ctx context.Context) error {
	today := booking.Day(s.now())
	rooms, err := s.rooms.Rooms(ctx)
	if err != nil {
		return err
	}
	occupied := map[uint]bool{}
	staying, err := s.store.StaysOn(ctx, today, []models.BookingStatus{models.StatusCheckedIn})
	if err != nil {
		return err
	}
	for _, b := range staying {
		occupied[b.RoomID] = true
	}
	cleaning := map[uint]bool{}
	departed, err := s.store.CheckedOutOn(ctx, today)
	if err != nil {
		return err
	}
	for _, b := range departed {
		cleaning[b.RoomID] = true
	}

	for _, room := range rooms {
		status := models.RoomAvailable
		switch {
		case occupied[room.ID]:
			status = models.RoomOccupied
		case cleaning[room.ID]:
			status = models.RoomCleaning
		}
		// The mirror is written every pass, not only on change, so it
		// repopulates itself after a Redis flush or redeploy.
		if s.mirror != nil {
			if err := s.mirror.Set(ctx, room.ID, status); err != nil {
				log.Printf("[scheduler] mirror room %s status: %v", room.Number, err)
			}
		}
		if room.DisplayStatus == status {
			continue
		}
		if err := s.rooms.SetDisplayStatus(ctx, room.ID, status, s.now()); err != nil {
			log.Printf("[scheduler] room %s status: %v", room.Number, err)
		}
	}
	return nil
}

// skippable errors mean another writer already handled the row; the
// sweep's job is done either way.
func skippable(err error) bool {
	return errors.Is(err, booking.ErrConcurrencyConflict) ||
		errors.Is(err, booking.ErrInvalidTransition) ||
		errors.Is(err, booking.ErrNotFound)
}
