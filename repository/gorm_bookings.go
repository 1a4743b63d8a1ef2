package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/agriconnect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormBookings struct {
	db *gorm.DB
}

func NewGormBookings(db *gorm.DB) *GormBookings {
	return &GormBookings{db: db}
}

func (r *GormBookings) CreateIfAvailable(ctx context.Context, b *models.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialises concurrent bookings of the same expert.
		var expert models.Expert
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&expert, "id = ?", b.ExpertID).Error; err != nil {
			return notFound(err)
		}

		var clashes int64
		err := tx.Model(&models.Booking{}).
			Where("expert_id = ? AND status IN ?", b.ExpertID, models.ActiveBookingStatuses).
			Where("starts_at < ? AND ends_at > ?", b.EndsAt, b.StartsAt).
			Count(&clashes).Error
		if err != nil {
			return err
		}
		if clashes > 0 {
			return ErrSlotTaken
		}

		return tx.Create(b).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	return err
}

func (r *GormBookings) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Expert").First(&booking, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *GormBookings) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Expert").
		Where("farmer_id = ?", farmerID).
		Order("booking_date ASC").Order("booking_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormBookings) ListByExpert(ctx context.Context, expertID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("expert_id = ?", expertID).
		Order("booking_date ASC").Order("booking_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormBookings) ListActiveForExpertOn(ctx context.Context, expertID uuid.UUID, date models.Date) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("expert_id = ? AND booking_date = ? AND status IN ?", expertID, date, models.ActiveBookingStatuses).
		Order("booking_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormBookings) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *GormBookings) ListStartingBetween(ctx context.Context, status models.BookingStatus, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Expert").
		Where("status = ? AND starts_at >= ? AND starts_at < ?", status, from, to).
		Find(&bookings).Error
	return bookings, err
}
