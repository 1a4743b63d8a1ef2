package repository

import (
	"context"
	"errors"
	"math"

	"github.com/anjiri1684/agriconnect/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormReviews struct {
	db *gorm.DB
}

func NewGormReviews(db *gorm.DB) *GormReviews {
	return &GormReviews{db: db}
}

func (r *GormReviews) CreateAndRate(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expert models.Expert
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&expert, "id = ?", review.ExpertID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		rating, total := foldRating(expert.Rating, expert.TotalReviews, review.Rating)
		return tx.Model(&expert).Updates(map[string]interface{}{
			"rating":        rating,
			"total_reviews": total,
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// foldRating adds one score to a running mean rounded to two decimals.
func foldRating(current float64, count, score int) (float64, int) {
	total := count + 1
	mean := (current*float64(count) + float64(score)) / float64(total)
	return math.Round(mean*100) / 100, total
}
