// mq/publisher.go
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"saraih-server/booking"
)

const Exchange = "saraih.bookings"

// Envelope wraps every published event with an id and key so consumers
// can deduplicate deliveries.
type Envelope struct {
	ID         string        `json:"id"`
	Key        string        `json:"key"`
	Version    int           `json:"version"`
	OccurredAt time.Time     `json:"occurredAt"`
	Data       booking.Event `json:"data"`
}

// Publisher sends booking status-changed events to a topic exchange.
// It implements booking.EventPublisher.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, evt booking.Event) error {
	env := Envelope{
		ID:         uuid.NewString(),
		Key:        evt.RoutingKey(),
		Version:    1,
		OccurredAt: evt.OccurredAt,
		Data:       evt,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, env.Key, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   env.ID,
		Body:        body,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
