// storage/rooms.go
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"saraih-server/booking"
	"saraih-server/models"
)

// RoomStore serves the room catalog reads (rates, seasons, promos) and
// the derived display status writes.
type RoomStore struct {
	db *gorm.DB
}

func NewRoomStore(db *gorm.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) RoomRates(ctx context.Context, roomID uint) (float64, string, []models.SeasonalRate, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", nil, booking.ErrNotFound
		}
		return 0, "", nil, err
	}
	var seasons []models.SeasonalRate
	if err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("priority ASC, id ASC").
		Find(&seasons).Error; err != nil {
		return 0, "", nil, err
	}
	return room.BaseRate, room.Currency, seasons, nil
}

func (s *RoomStore) PromoByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *RoomStore) Rooms(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	err := s.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (s *RoomStore) ByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) SetDisplayStatus(ctx context.Context, roomID uint, status models.RoomDisplayStatus, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{"display_status": status, "updated_at": at}).Error
}
