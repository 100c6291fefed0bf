// utils/notifications.go
package utils

import (
	"fmt"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

func SendNotification(token string, title string, body string, data map[string]string) error {
	pushToken, err := expo.NewExponentPushToken(token)
	if err != nil {
		return err
	}

	client := expo.NewPushClient(nil)
	response, err := client.Publish(&expo.PushMessage{
		To:       []expo.ExponentPushToken{pushToken},
		Title:    title,
		Body:     body,
		Data:     data,
		Sound:    "default",
		Priority: expo.DefaultPriority,
	})
	if err != nil {
		return err
	}
	if response.ValidateResponse() != nil {
		return fmt.Errorf("push to %s failed", response.PushMessage.To)
	}
	return nil
}
