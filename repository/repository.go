package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/agriconnect/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrSlotTaken     = errors.New("slot already booked")
	ErrStatusChanged = errors.New("status changed by another request")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile overwrites the editable profile columns of user.
	UpdateProfile(ctx context.Context, user *models.User) error
}

// ExpertFilter narrows expert listings. Zero values match everything.
type ExpertFilter struct {
	Status         models.ExpertStatus
	Specialization models.Specialization
	Query          string
}

// ApplicationMutator edits an application inside the upsert transaction.
// exists is false when no row was stored for the user yet.
type ApplicationMutator func(expert *models.Expert, exists bool) error

type ExpertRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Expert, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Expert, error)
	// List orders by rating, highest first.
	List(ctx context.Context, filter ExpertFilter) ([]models.Expert, error)
	UpsertByUserID(ctx context.Context, userID uuid.UUID, mutate ApplicationMutator) (*models.Expert, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ExpertStatus) (*models.Expert, error)
}

type BookingRepository interface {
	// CreateIfAvailable inserts b unless an active booking of the same expert
	// overlaps [b.StartsAt, b.EndsAt). It returns ErrSlotTaken in that case.
	CreateIfAvailable(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Booking, error)
	ListByExpert(ctx context.Context, expertID uuid.UUID) ([]models.Booking, error)
	ListActiveForExpertOn(ctx context.Context, expertID uuid.UUID, date models.Date) ([]models.Booking, error)
	// UpdateStatus moves a booking from one status to another and returns
	// ErrStatusChanged when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) error
	ListStartingBetween(ctx context.Context, status models.BookingStatus, from, to time.Time) ([]models.Booking, error)
}

type ReviewRepository interface {
	// CreateAndRate stores r and folds its rating into the expert's average.
	CreateAndRate(ctx context.Context, r *models.Review) error
}
