// notifications/notifier.go
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mailjet "github.com/mailjet/mailjet-apiv3-go"

	"saraih-server/booking"
	"saraih-server/models"
	"saraih-server/utils"
)

type GuestSource interface {
	ByID(ctx context.Context, id uint) (*models.Guest, error)
}

// Notifier turns booking status-changed events into guest-facing email
// and push messages. Delivery failures are logged, never propagated back
// into the booking flow.
type Notifier struct {
	guests GuestSource
	mail   *mailjet.Client
	sender string
}

func NewNotifier(guests GuestSource, mail *mailjet.Client, sender string) *Notifier {
	return &Notifier{guests: guests, mail: mail, sender: sender}
}

func (n *Notifier) Notify(ctx context.Context, evt booking.Event) error {
	guest, err := n.guests.ByID(ctx, evt.GuestID)
	if err != nil {
		return fmt.Errorf("load guest %d: %w", evt.GuestID, err)
	}
	if guest.AllowsNotifications != nil && !*guest.AllowsNotifications {
		return nil
	}

	subject, body := messageFor(evt)
	if guest.Email != "" && n.mail != nil {
		if err := n.sendEmail(guest, subject, body); err != nil {
			log.Printf("[notifications] email %s: %v", guest.Email, err)
		}
	}
	var tokens []string
	if len(guest.PushTokens) > 0 {
		if err := json.Unmarshal(guest.PushTokens, &tokens); err != nil {
			log.Printf("[notifications] guest %d push tokens: %v", guest.ID, err)
		}
	}
	for _, token := range tokens {
		err := utils.SendNotification(token, subject, body, map[string]string{
			"bookingId": fmt.Sprint(evt.BookingID),
			"reference": evt.Reference,
			"status":    string(evt.To),
		})
		if err != nil {
			log.Printf("[notifications] push %s: %v", token, err)
		}
	}
	return nil
}

func (n *Notifier) sendEmail(guest *models.Guest, subject, body string) error {
	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From: &mailjet.RecipientV31{Email: n.sender, Name: "Saraih Hotel"},
		To: &mailjet.RecipientsV31{{
			Email: guest.Email,
			Name:  guest.FirstName + " " + guest.LastName,
		}},
		Subject:  subject,
		TextPart: body,
	}}}
	_, err := n.mail.SendMailV31(&messages)
	return err
}

func messageFor(evt booking.Event) (string, string) {
	switch evt.To {
	case models.StatusPending:
		return "Reservation received",
			fmt.Sprintf("Your reservation %s is awaiting payment. It is held for you until payment completes.", evt.Reference)
	case models.StatusConfirmed:
		return "Reservation confirmed",
			fmt.Sprintf("Payment received. Your reservation %s is confirmed, see you soon!", evt.Reference)
	case models.StatusCheckedIn:
		return "Welcome to Saraih",
			fmt.Sprintf("You are checked in on reservation %s. Enjoy your stay.", evt.Reference)
	case models.StatusCheckedOut:
		return "Thanks for staying with us",
			fmt.Sprintf("You are checked out on reservation %s. We hope to see you again.", evt.Reference)
	case models.StatusCancelled:
		return "Reservation cancelled",
			fmt.Sprintf("Your reservation %s has been cancelled. Any refund due will be processed automatically.", evt.Reference)
	case models.StatusNoShow:
		return "We missed you",
			fmt.Sprintf("Reservation %s was marked as a no-show after the check-in date passed.", evt.Reference)
	}
	return "Reservation update", fmt.Sprintf("Reservation %s is now %s.", evt.Reference, evt.To)
}
