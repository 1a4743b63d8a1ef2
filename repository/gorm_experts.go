package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anjiri1684/agriconnect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormExperts struct {
	db *gorm.DB
}

func NewGormExperts(db *gorm.DB) *GormExperts {
	return &GormExperts{db: db}
}

func (r *GormExperts) FindByID(ctx context.Context, id uuid.UUID) (*models.Expert, error) {
	var expert models.Expert
	if err := r.db.WithContext(ctx).First(&expert, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &expert, nil
}

func (r *GormExperts) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Expert, error) {
	var expert models.Expert
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&expert).Error; err != nil {
		return nil, notFound(err)
	}
	return &expert, nil
}

func (r *GormExperts) List(ctx context.Context, filter ExpertFilter) ([]models.Expert, error) {
	q := r.db.WithContext(ctx).Model(&models.Expert{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Specialization != "" {
		q = q.Where("specialization = ?", filter.Specialization)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(location) LIKE ? OR LOWER(bio) LIKE ?", like, like, like)
	}

	var experts []models.Expert
	if err := q.Order("rating DESC").Order("created_at ASC").Find(&experts).Error; err != nil {
		return nil, err
	}
	return experts, nil
}

func (r *GormExperts) UpsertByUserID(ctx context.Context, userID uuid.UUID, mutate ApplicationMutator) (*models.Expert, error) {
	var stored models.Expert
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Expert
		exists := true
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			exists = false
			current = models.Expert{UserID: userID}
		} else if err != nil {
			return err
		}

		if err := mutate(&current, exists); err != nil {
			return err
		}
		current.UserID = userID

		if exists {
			if err := tx.Save(&current).Error; err != nil {
				return err
			}
		} else if err := tx.Create(&current).Error; err != nil {
			return err
		}
		stored = current
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &stored, nil
}

func (r *GormExperts) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ExpertStatus) (*models.Expert, error) {
	res := r.db.WithContext(ctx).Model(&models.Expert{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusChanged
	}
	return r.FindByID(ctx, id)
}
