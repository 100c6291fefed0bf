// models/guest.go
package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Guest struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"index"`
	Phone               string         `json:"phone"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
}
