package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/cache"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/anjiri1684/agriconnect/repository"
	"github.com/google/uuid"
)

type ExpertService struct {
	experts  repository.ExpertRepository
	cache    *cache.ExpertCache
	notifier notifications.Notifier
	logger   *slog.Logger
}

func NewExpertService(experts repository.ExpertRepository, c *cache.ExpertCache, notifier notifications.Notifier, logger *slog.Logger) *ExpertService {
	return &ExpertService{experts: experts, cache: c, notifier: notifier, logger: logger}
}

// ExpertApplication is the form an aspiring expert submits.
type ExpertApplication struct {
	FullName       string
	Email          string
	Phone          string
	Location       string
	Specialization models.Specialization
	Experience     models.ExperienceBand
	Education      string
	Certifications string
	Bio            string
	HourlyRate     float64
	Availability   models.AvailabilityBand
}

func (a *ExpertApplication) normalize() error {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Location = strings.TrimSpace(a.Location)
	a.Education = strings.TrimSpace(a.Education)
	a.Certifications = strings.TrimSpace(a.Certifications)
	a.Bio = strings.TrimSpace(a.Bio)

	switch {
	case a.FullName == "" || a.Email == "" || a.Phone == "" || a.Location == "":
		return apperror.Validation("name, email, phone and location are required")
	case !strings.Contains(a.Email, "@"):
		return apperror.Validation("email is invalid")
	case !a.Specialization.Valid():
		return apperror.Validation("unknown specialization")
	case !a.Experience.Valid():
		return apperror.Validation("unknown experience band")
	case !a.Availability.Valid():
		return apperror.Validation("unknown availability")
	case a.Education == "" || a.Bio == "":
		return apperror.Validation("education and bio are required")
	case !(a.HourlyRate > 0):
		return apperror.Validation("hourly rate must be a positive amount")
	}
	return nil
}

func (a *ExpertApplication) applyTo(e *models.Expert) {
	e.FullName = a.FullName
	e.Email = a.Email
	e.Phone = a.Phone
	e.Location = a.Location
	e.Specialization = a.Specialization
	e.Experience = a.Experience
	e.Education = a.Education
	e.Bio = a.Bio
	e.HourlyRate = a.HourlyRate
	e.Availability = a.Availability
	e.Certifications = nil
	if a.Certifications != "" {
		certs := a.Certifications
		e.Certifications = &certs
	}
}

// SubmitApplication stores the caller's application. A pending or rejected
// application is replaced in place and goes back to pending; an approved one
// cannot be resubmitted.
func (s *ExpertService) SubmitApplication(ctx context.Context, session *models.Session, app ExpertApplication) (*models.Expert, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	if app.Email == "" {
		app.Email = session.Email
	}
	if err := app.normalize(); err != nil {
		return nil, err
	}

	expert, err := s.experts.UpsertByUserID(ctx, session.UserID, func(e *models.Expert, exists bool) error {
		if exists && e.Status == models.ExpertApproved {
			return apperror.Conflict("Your application has already been approved")
		}
		app.applyTo(e)
		e.Status = models.ExpertPending
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("An application for this account is already being processed")
		}
		return nil, storeFailure("failed to submit application", err)
	}

	s.logger.Info("expert application submitted", "expert_id", expert.ID, "user_id", session.UserID)
	send(ctx, s.notifier, s.logger, notifications.ApplicationReceived(expert))
	return expert, nil
}

// GetUserApplication returns nil without error when the caller is anonymous or has not applied.
func (s *ExpertService) GetUserApplication(ctx context.Context, session *models.Session) (*models.Expert, error) {
	if session == nil {
		return nil, nil
	}
	expert, err := s.experts.FindByUserID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeFailure("failed to load application", err)
	}
	return expert, nil
}

type ExpertQuery struct {
	Specialization models.Specialization
	Query          string
}

// ListApproved returns approved experts, highest rated first.
func (s *ExpertService) ListApproved(ctx context.Context, q ExpertQuery) ([]models.Expert, error) {
	if q.Specialization != "" && !q.Specialization.Valid() {
		return nil, apperror.Validation("unknown specialization")
	}
	experts, err := s.experts.List(ctx, repository.ExpertFilter{
		Status:         models.ExpertApproved,
		Specialization: q.Specialization,
		Query:          q.Query,
	})
	if err != nil {
		return nil, storeFailure("failed to load experts", err)
	}
	return experts, nil
}

func (s *ExpertService) ListBySpecialization(ctx context.Context, spec models.Specialization) ([]models.Expert, error) {
	return s.ListApproved(ctx, ExpertQuery{Specialization: spec})
}

// GetApproved hides experts that are not approved.
func (s *ExpertService) GetApproved(ctx context.Context, id uuid.UUID) (*models.Expert, error) {
	if e, ok := s.cache.Get(id); ok {
		return e, nil
	}
	expert, err := s.experts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && expert.Status != models.ExpertApproved) {
		return nil, apperror.NotFound("Expert not found")
	}
	if err != nil {
		return nil, storeFailure("failed to load expert", err)
	}
	s.cache.Store(*expert)
	return expert, nil
}

func (s *ExpertService) ListPending(ctx context.Context, session *models.Session) ([]models.Expert, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	experts, err := s.experts.List(ctx, repository.ExpertFilter{Status: models.ExpertPending})
	if err != nil {
		return nil, storeFailure("failed to load applications", err)
	}
	return experts, nil
}

// Decide approves or rejects a pending application.
func (s *ExpertService) Decide(ctx context.Context, session *models.Session, id uuid.UUID, approve bool) (*models.Expert, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	to := models.ExpertRejected
	if approve {
		to = models.ExpertApproved
	}

	expert, err := s.experts.UpdateStatus(ctx, id, models.ExpertPending, to)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.NotFound("Application not found")
	case errors.Is(err, repository.ErrStatusChanged):
		return nil, apperror.Conflict("Only pending applications can be decided")
	case err != nil:
		return nil, storeFailure("failed to update application", err)
	}

	s.cache.Invalidate(id)
	s.logger.Info("expert application decided", "expert_id", id, "status", to, "admin_id", session.UserID)
	send(ctx, s.notifier, s.logger, notifications.ApplicationDecision(expert))
	return expert, nil
}

func requireAdmin(session *models.Session) error {
	if session == nil {
		return errUnauthenticated()
	}
	if !session.HasRole(models.RoleAdmin) {
		return apperror.Forbidden("Forbidden: Admin access required")
	}
	return nil
}
