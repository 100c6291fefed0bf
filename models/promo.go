// models/promo.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type PromoCode struct {
	gorm.Model
	Code       string    `json:"code" gorm:"uniqueIndex;size:32"`
	Percent    float64   `json:"percent"`
	ValidFrom  time.Time `json:"validFrom"`
	ValidUntil time.Time `json:"validUntil"`
	Active     bool      `json:"active" gorm:"default:true"`
}

// ValidOn reports whether the code can be applied on the given day.
func (p PromoCode) ValidOn(day time.Time) bool {
	return p.Active && !day.Before(p.ValidFrom) && !day.After(p.ValidUntil)
}
