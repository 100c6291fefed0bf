// models/room.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type RoomDisplayStatus string

const (
	RoomAvailable RoomDisplayStatus = "available"
	RoomOccupied  RoomDisplayStatus = "occupied"
	RoomCleaning  RoomDisplayStatus = "cleaning"
)

type Room struct {
	gorm.Model
	Number        string            `json:"number" gorm:"uniqueIndex;size:16"`
	Type          string            `json:"type"`
	BaseRate      float64           `json:"baseRate"`
	Currency      string            `json:"currency" gorm:"size:3;default:'MAD'"`
	MaxOccupancy  int               `json:"maxOccupancy"`
	DisplayStatus RoomDisplayStatus `json:"displayStatus" gorm:"size:16;default:'available'"`
	SeasonalRates []SeasonalRate    `json:"seasonalRates"`
}

// SeasonalRate overrides the room's base rate for nights inside
// [StartDate, EndDate). Rows are matched in Priority order and the
// first match wins, so overlapping ranges in the table are tolerated.
type SeasonalRate struct {
	gorm.Model
	RoomID      uint      `json:"roomId" gorm:"index"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	NightlyRate float64   `json:"nightlyRate"`
	Priority    int       `json:"priority" gorm:"index"`
}
