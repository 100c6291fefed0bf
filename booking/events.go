// booking/events.go
package booking

import (
	"context"
	"time"

	"saraih-server/models"
)

// Event is the fixed status-changed payload published on every
// successful transition. How it reaches mail, push or dashboards is the
// subscribers' concern.
type Event struct {
	BookingID  uint                 `json:"bookingId"`
	Reference  string               `json:"reference"`
	GuestID    uint                 `json:"guestId"`
	RoomID     uint                 `json:"roomId"`
	From       models.BookingStatus `json:"from,omitempty"`
	To         models.BookingStatus `json:"to"`
	Actor      string               `json:"actor,omitempty"`
	OccurredAt time.Time            `json:"occurredAt"`
}

// RoutingKey maps the event onto the topic exchange: booking.confirmed,
// booking.cancelled, ...
func (e Event) RoutingKey() string {
	if e.From == "" {
		return "booking.created"
	}
	return "booking." + string(e.To)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
