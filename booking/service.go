// booking/service.go
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"saraih-server/models"
)

// transitions is the only legal state graph. Anything outside it fails
// with ErrInvalidTransition and leaves the booking untouched.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCheckedIn, models.StatusCancelled, models.StatusNoShow},
	models.StatusCheckedIn: {models.StatusCheckedOut},
}

func allowed(from, to models.BookingStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Service owns the booking lifecycle: it is the sole writer of status and
// cancellation fields. Creation runs availability and pricing first and
// persists nothing on failure.
type Service struct {
	store        Store
	availability *Availability
	pricer       *Pricer
	pub          EventPublisher
	now          func() time.Time
	newReference func(time.Time) string
}

func NewService(store Store, catalog RateCatalog, pub EventPublisher, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Service{
		store:        store,
		availability: NewAvailability(store),
		pricer:       NewPricer(catalog, now),
		pub:          pub,
		now:          now,
		newReference: NewReference,
	}
}

func (s *Service) Availability() *Availability { return s.availability }
func (s *Service) Pricer() *Pricer             { return s.pricer }

type CreateInput struct {
	RoomID          uint
	GuestID         uint
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	Rooms           int
	SpecialRequests string
	PromoCode       string
}

// Create validates dates, checks availability, prices the stay and
// persists the booking in pending. The store's locked insert re-validates
// the overlap inside its transaction, so the early availability check is
// a fast fail, not the correctness guarantee.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	checkIn, checkOut := Day(in.CheckIn), Day(in.CheckOut)
	today := Day(s.now())
	if !checkOut.After(checkIn) || checkIn.Before(today) {
		return nil, ErrInvalidDateRange
	}
	if in.Adults <= 0 {
		return nil, fmt.Errorf("%w: at least one adult is required", ErrInvalidDateRange)
	}
	if in.Rooms <= 0 {
		in.Rooms = 1
	}

	conflict, err := s.availability.FirstConflict(ctx, in.RoomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, conflict
	}

	breakdown, err := s.pricer.Price(ctx, PriceRequest{
		RoomID:    in.RoomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Rooms:     in.Rooms,
		PromoCode: in.PromoCode,
	})
	if err != nil {
		return nil, err
	}
	snapshot, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal pricing: %v", ErrInternal, err)
	}

	b := &models.Booking{
		GuestID:         in.GuestID,
		RoomID:          in.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          in.Adults,
		Children:        in.Children,
		SpecialRequests: in.SpecialRequests,
		Status:          models.StatusPending,
		Pricing:         snapshot,
		Total:           breakdown.Total,
		Currency:        breakdown.Currency,
	}

	for attempt := 0; ; attempt++ {
		b.Reference = s.newReference(today)
		err = s.store.CreateLocked(ctx, b)
		if err == nil {
			break
		}
		if errors.Is(err, ErrReferenceTaken) && attempt < referenceRetries {
			continue
		}
		if errors.Is(err, ErrReferenceTaken) {
			return nil, fmt.Errorf("%w: reference generation exhausted after %d attempts", ErrInternal, referenceRetries)
		}
		return nil, err
	}

	s.publish(ctx, b, "", "guest")
	return b, nil
}

// Transition moves a booking along the state graph on behalf of an actor
// (staff action, payment signal, scheduler sweep). Cancellations carry a
// refund and go through Cancel instead.
func (s *Service) Transition(ctx context.Context, id uint, target models.BookingStatus, actor string) (*models.Booking, error) {
	if target == models.StatusCancelled {
		return s.Cancel(ctx, id, "cancelled by "+actor, actor)
	}

	b, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(b.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, target)
	}

	now := s.now()
	updates := map[string]interface{}{"status": target}
	switch target {
	case models.StatusConfirmed:
		updates["confirmed_at"] = now
	case models.StatusCheckedIn:
		if Day(now).Before(Day(b.CheckIn)) {
			return nil, fmt.Errorf("%w: cannot check in before %s", ErrInvalidTransition, Day(b.CheckIn).Format("2006-01-02"))
		}
		updates["checked_in_at"] = now
	case models.StatusCheckedOut:
		updates["checked_out_at"] = now
	case models.StatusNoShow:
		if !Day(now).After(Day(b.CheckIn)) {
			return nil, fmt.Errorf("%w: check-in date has not passed", ErrInvalidTransition)
		}
	}

	from := b.Status
	updated, err := s.store.CompareAndTransition(ctx, id, from, updates)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated, from, actor)
	return updated, nil
}

// Cancel applies the refund policy and moves the booking to cancelled.
// Only pending and confirmed bookings can be cancelled.
func (s *Service) Cancel(ctx context.Context, id uint, reason, actor string) (*models.Booking, error) {
	b, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(b.Status, models.StatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, models.StatusCancelled)
	}

	now := s.now()
	refund := RefundAmount(b.Total, b.CheckIn, now)
	from := b.Status
	updated, err := s.store.CompareAndTransition(ctx, id, from, map[string]interface{}{
		"status":              models.StatusCancelled,
		"cancelled_at":        now,
		"cancelled_by":        actor,
		"cancellation_reason": reason,
		"refund_amount":       refund,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated, from, actor)
	return updated, nil
}

// ConfirmPayment consumes the gateway's asynchronous success signal.
// A booking expired in the meantime surfaces ErrConcurrencyConflict for
// the payment layer to reconcile.
func (s *Service) ConfirmPayment(ctx context.Context, id uint, paymentRef string) (*models.Booking, error) {
	b, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == models.StatusConfirmed && b.PaymentRef == paymentRef {
		return b, nil // duplicate gateway delivery, already applied
	}
	if !allowed(b.Status, models.StatusConfirmed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, models.StatusConfirmed)
	}
	from := b.Status
	updated, err := s.store.CompareAndTransition(ctx, id, from, map[string]interface{}{
		"status":       models.StatusConfirmed,
		"confirmed_at": s.now(),
		"payment_ref":  paymentRef,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated, from, "payment")
	return updated, nil
}

// FailPayment leaves the booking pending; the expiry sweep collects it if
// no later attempt succeeds.
func (s *Service) FailPayment(ctx context.Context, id uint, reason string) error {
	b, err := s.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	log.Printf("[booking] payment failed for %s (%s), left pending for expiry", b.Reference, reason)
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return s.store.ByID(ctx, id)
}

func (s *Service) publish(ctx context.Context, b *models.Booking, from models.BookingStatus, actor string) {
	evt := Event{
		BookingID:  b.ID,
		Reference:  b.Reference,
		GuestID:    b.GuestID,
		RoomID:     b.RoomID,
		From:       from,
		To:         b.Status,
		Actor:      actor,
		OccurredAt: s.now(),
	}
	if err := s.pub.Publish(ctx, evt); err != nil {
		log.Printf("[booking] publish %s for %s: %v", evt.RoutingKey(), b.Reference, err)
	}
}

// RefundAmount implements the cancellation refund policy: a
// non-increasing step function of the whole days left until check-in.
func RefundAmount(total float64, checkIn, now time.Time) float64 {
	days := int(checkIn.Sub(now).Hours() / 24)
	switch {
	case days >= 7:
		return total
	case days >= 3:
		return round2(total * 0.50)
	case days >= 1:
		return round2(total * 0.25)
	}
	return 0
}
