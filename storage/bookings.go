// storage/bookings.go
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"saraih-server/booking"
	"saraih-server/models"
)

// Bookings in these statuses no longer occupy the room.
var releasedStatuses = []models.BookingStatus{models.StatusCancelled, models.StatusNoShow}

// BookingStore is the Postgres implementation of booking.Store plus the
// sweep queries the scheduler runs.
type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) ByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *BookingStore) Overlapping(ctx context.Context, roomID uint, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND status NOT IN ?", roomID, releasedStatuses).
		Where("check_in < ? AND check_out > ?", to, from).
		Order("check_in ASC").
		Find(&out).Error
	return out, err
}

// bookingCreateLockClass namespaces the advisory locks taken by
// CreateLocked so they cannot collide with other advisory lock users on
// the same database.
const bookingCreateLockClass = 7201

// CreateLocked prevents double booking with per-room serialization: the
// transaction takes a room-keyed advisory lock before re-checking the
// overlap predicate, so two concurrent creates for the same room run one
// after the other and the loser sees the winner's committed row. Row
// locks alone are not enough here: when the room has no existing
// overlapping bookings there is no row to lock, and two inserts can
// slip past each other.
func (s *BookingStore) CreateLocked(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Released automatically at commit or rollback.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", bookingCreateLockClass, int32(b.RoomID)).Error; err != nil {
			return err
		}
		var conflict models.Booking
		err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND status NOT IN ?", b.RoomID, releasedStatuses).
			Where("check_in < ? AND check_out > ?", b.CheckOut, b.CheckIn).
			Order("check_in ASC").
			Take(&conflict).Error
		if err == nil {
			return &booking.UnavailableError{
				RoomID:   b.RoomID,
				CheckIn:  conflict.CheckIn,
				CheckOut: conflict.CheckOut,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(b).Error; err != nil {
			if isUniqueViolation(err, "reference") {
				return booking.ErrReferenceTaken
			}
			return err
		}
		return nil
	})
}

func (s *BookingStore) CompareAndTransition(ctx context.Context, id uint, expect models.BookingStatus, updates map[string]interface{}) (*models.Booking, error) {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a vanished row from a lost race.
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, booking.ErrNotFound
		}
		return nil, booking.ErrConcurrencyConflict
	}
	return s.ByID(ctx, id)
}

// Sweep queries.

func (s *BookingStore) PendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Find(&out).Error
	return out, err
}

func (s *BookingStore) NoShowCandidates(ctx context.Context, today time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ? AND check_in < ?", models.StatusConfirmed, today).
		Find(&out).Error
	return out, err
}

func (s *BookingStore) RefundCandidates(ctx context.Context, windowStart time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ? AND refund_amount > 0 AND refund_settled_at IS NULL AND cancelled_at >= ?",
			models.StatusCancelled, windowStart).
		Find(&out).Error
	return out, err
}

// MarkRefundSettled is guarded on the marker still being unset, so a
// retried settle sweep never double-forwards a refund.
func (s *BookingStore) MarkRefundSettled(ctx context.Context, id uint, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND refund_settled_at IS NULL", id).
		Update("refund_settled_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return booking.ErrConcurrencyConflict
	}
	return nil
}

// StaysOn returns the bookings in the given statuses whose stay covers
// the day. Used by the room-status sync sweep.
func (s *BookingStore) StaysOn(ctx context.Context, day time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("status IN ? AND check_in <= ? AND check_out > ?", statuses, day, day).
		Find(&out).Error
	return out, err
}

func (s *BookingStore) CheckedOutOn(ctx context.Context, day time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ? AND checked_out_at >= ? AND checked_out_at < ?",
			models.StatusCheckedOut, day, day.AddDate(0, 0, 1)).
		Find(&out).Error
	return out, err
}

func (s *BookingStore) ByGuest(ctx context.Context, guestID uint) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Preload("Room").
		Order("check_in DESC").
		Find(&out).Error
	return out, err
}

func isUniqueViolation(err error, constraintPart string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, constraintPart)
	}
	return false
}
