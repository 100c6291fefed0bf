// routes/payments.go
package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"saraih-server/booking"
	"saraih-server/utils"
)

// PaymentHandlers consumes the gateway's asynchronous webhook and turns
// it into state machine signals. The event is re-fetched from Omise so a
// forged request body cannot confirm a booking.
type PaymentHandlers struct {
	omc *omise.Client
	svc *booking.Service
}

func NewPaymentHandlers(omc *omise.Client, svc *booking.Service) *PaymentHandlers {
	return &PaymentHandlers{omc: omc, svc: svc}
}

type incomingEvent struct {
	ID string `json:"id"`
}

func (h *PaymentHandlers) Webhook(ctx iris.Context) {
	var inc incomingEvent
	if err := ctx.ReadJSON(&inc); err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ev := &omise.Event{}
	if err := h.omc.Do(ev, &operations.RetrieveEvent{EventID: inc.ID}); err != nil {
		log.Printf("[payments] retrieve event %s: %v", inc.ID, err)
		utils.CreateError(ctx, http.StatusUnauthorized, "Unknown event")
		return
	}
	if ev.Key != "charge.complete" {
		ctx.StatusCode(http.StatusOK)
		return
	}

	raw, err := json.Marshal(ev.Data)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	var charge omise.Charge
	if err := json.Unmarshal(raw, &charge); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	bookingID := bookingIDFromMetadata(charge.Metadata)
	if bookingID == 0 {
		log.Printf("[payments] charge %s carries no booking id", charge.ID)
		ctx.StatusCode(http.StatusOK)
		return
	}

	reqCtx := ctx.Request().Context()
	if charge.Status == omise.ChargeSuccessful {
		if _, err := h.svc.ConfirmPayment(reqCtx, bookingID, charge.ID); err != nil {
			// Logged and acknowledged: the gateway retries on non-2xx and
			// a booking expired mid-payment needs reconciliation, not a
			// webhook retry storm.
			log.Printf("[payments] confirm booking %d: %v", bookingID, err)
		}
	} else {
		if err := h.svc.FailPayment(reqCtx, bookingID, string(charge.Status)); err != nil {
			log.Printf("[payments] fail booking %d: %v", bookingID, err)
		}
	}
	ctx.StatusCode(http.StatusOK)
}

func bookingIDFromMetadata(meta map[string]interface{}) uint {
	switch v := meta["booking_id"].(type) {
	case string:
		id, _ := strconv.ParseUint(v, 10, 64)
		return uint(id)
	case float64:
		return uint(v)
	}
	return 0
}
