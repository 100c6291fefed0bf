// notifications/worker.go
package notifications

import (
	"context"
	"encoding/json"
	"log"

	"saraih-server/mq"
)

// Worker drains booking.* deliveries and hands each event to the
// notifier. A bad payload is dropped; a notifier failure requeues the
// delivery once.
type Worker struct {
	consumer *mq.Consumer
	notifier *Notifier
}

func NewWorker(consumer *mq.Consumer, notifier *Notifier) *Worker {
	return &Worker{consumer: consumer, notifier: notifier}
}

func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.consumer.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			var env mq.Envelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				log.Printf("[notifications] unmarshal %s: %v", d.RoutingKey, err)
				_ = d.Nack(false, false)
				continue
			}
			if err := w.notifier.Notify(ctx, env.Data); err != nil {
				log.Printf("[notifications] %s: %v", env.Key, err)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}()
	return nil
}
