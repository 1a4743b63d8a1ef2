package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/cache"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/repository"
	"github.com/google/uuid"
)

type ReviewService struct {
	bookings repository.BookingRepository
	reviews  repository.ReviewRepository
	cache    *cache.ExpertCache
	logger   *slog.Logger
}

func NewReviewService(bookings repository.BookingRepository, reviews repository.ReviewRepository, c *cache.ExpertCache, logger *slog.Logger) *ReviewService {
	return &ReviewService{bookings: bookings, reviews: reviews, cache: c, logger: logger}
}

// Create records the farmer's rating of a completed consultation.
func (s *ReviewService) Create(ctx context.Context, session *models.Session, bookingID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	if rating < 1 || rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Booking not found")
	}
	if err != nil {
		return nil, storeFailure("failed to load booking", err)
	}
	if b.FarmerID != session.UserID {
		return nil, apperror.Forbidden("You can only review your own consultations")
	}
	if b.Status != models.BookingCompleted {
		return nil, apperror.Conflict("Only completed consultations can be reviewed")
	}

	review := &models.Review{
		BookingID: b.ID,
		FarmerID:  session.UserID,
		ExpertID:  b.ExpertID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviews.CreateAndRate(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("This consultation has already been reviewed")
		}
		return nil, storeFailure("failed to save review", err)
	}

	s.cache.Invalidate(b.ExpertID)
	s.logger.Info("review created", "booking_id", b.ID, "expert_id", b.ExpertID, "rating", rating)
	return review, nil
}
