// storage/guests.go
package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"saraih-server/booking"
	"saraih-server/models"
)

type GuestStore struct {
	db *gorm.DB
}

func NewGuestStore(db *gorm.DB) *GuestStore {
	return &GuestStore{db: db}
}

func (s *GuestStore) ByID(ctx context.Context, id uint) (*models.Guest, error) {
	var g models.Guest
	if err := s.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
