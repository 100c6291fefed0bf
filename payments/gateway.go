// payments/gateway.go
package payments

import (
	"context"
	"fmt"
	"log"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"saraih-server/models"
)

// Gateway is the black-box payment collaborator. Charging happens on the
// gateway's side and comes back asynchronously through the webhook; the
// core only ever asks it to execute refunds.
type Gateway interface {
	Refund(ctx context.Context, b *models.Booking) error
}

// OmiseGateway executes refunds against the charge recorded on the
// booking at payment confirmation.
type OmiseGateway struct {
	client *omise.Client
}

func NewOmiseGateway(publicKey, secretKey string) (*OmiseGateway, error) {
	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	client.SetDebug(false)
	return &OmiseGateway{client: client}, nil
}

func (g *OmiseGateway) Refund(ctx context.Context, b *models.Booking) error {
	if b.PaymentRef == "" {
		// Never charged (cancelled while pending); nothing to move.
		log.Printf("[payments] %s has no charge, refund is a no-op", b.Reference)
		return nil
	}
	refund := &omise.Refund{}
	err := g.client.Do(refund, &operations.CreateRefund{
		ChargeID: b.PaymentRef,
		Amount:   toSubunits(b.RefundAmount),
	})
	if err != nil {
		return fmt.Errorf("omise refund for %s: %w", b.Reference, err)
	}
	return nil
}

// Omise amounts are integer currency subunits.
func toSubunits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
