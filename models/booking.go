// models/booking.go
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled || s == StatusNoShow
}

// Blocking statuses occupy the room for availability purposes.
func (s BookingStatus) Blocking() bool {
	return s != StatusCancelled && s != StatusNoShow
}

type Booking struct {
	gorm.Model
	Reference       string         `json:"reference" gorm:"uniqueIndex;size:32"`
	GuestID         uint           `json:"guestId" gorm:"index"`
	Guest           Guest          `json:"guest"`
	RoomID          uint           `json:"roomId" gorm:"index:idx_room_dates"`
	Room            Room           `json:"room"`
	CheckIn         time.Time      `json:"checkIn" gorm:"index:idx_room_dates"`
	CheckOut        time.Time      `json:"checkOut" gorm:"index:idx_room_dates"`
	Adults          int            `json:"adults"`
	Children        int            `json:"children"`
	SpecialRequests string         `json:"specialRequests"`
	Status          BookingStatus  `json:"status" gorm:"index;size:16"`
	Pricing         datatypes.JSON `json:"pricing"`
	Total           float64        `json:"total"`
	Currency        string         `json:"currency" gorm:"size:3"`

	PaymentRef   string     `json:"paymentRef" gorm:"size:64"`
	ConfirmedAt  *time.Time `json:"confirmedAt"`
	CheckedInAt  *time.Time `json:"checkedInAt"`
	CheckedOutAt *time.Time `json:"checkedOutAt"`

	CancelledAt        *time.Time `json:"cancelledAt"`
	CancelledBy        string     `json:"cancelledBy"`
	CancellationReason string     `json:"cancellationReason"`
	RefundAmount       float64    `json:"refundAmount"`
	RefundSettledAt    *time.Time `json:"refundSettledAt"`
}
