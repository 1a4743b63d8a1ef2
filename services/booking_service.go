package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/anjiri1684/agriconnect/repository"
	"github.com/google/uuid"
)

type BookingOptions struct {
	CancellationWindow time.Duration
	Location           *time.Location
	Now                func() time.Time
}

type BookingService struct {
	bookings repository.BookingRepository
	experts  repository.ExpertRepository
	notifier notifications.Notifier
	events   Publisher
	logger   *slog.Logger

	window time.Duration
	loc    *time.Location
	now    func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	experts repository.ExpertRepository,
	notifier notifications.Notifier,
	events Publisher,
	logger *slog.Logger,
	opts BookingOptions,
) *BookingService {
	if events == nil {
		events = nopPublisher{}
	}
	if opts.CancellationWindow <= 0 {
		opts.CancellationWindow = 24 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &BookingService{
		bookings: bookings,
		experts:  experts,
		notifier: notifier,
		events:   events,
		logger:   logger,
		window:   opts.CancellationWindow,
		loc:      opts.Location,
		now:      systemClock(opts.Now),
	}
}

type BookingRequest struct {
	ExpertID    uuid.UUID
	Date        models.Date
	Time        models.SlotTime
	Duration    models.Duration
	FarmerName  string
	FarmerEmail string
	FarmerPhone string
	Reason      string
}

type SlotAvailability struct {
	Time      models.SlotTime `json:"time"`
	Available bool            `json:"available"`
}

type DashboardBooking struct {
	models.Booking
	CanCancel bool `json:"can_cancel"`
}

type DashboardStats struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type FarmerDashboard struct {
	Upcoming []DashboardBooking `json:"upcoming"`
	Past     []DashboardBooking `json:"past"`
	Stats    DashboardStats     `json:"stats"`
}

// CheckAvailability reports whether an active booking of the expert already
// starts at, or runs through, the given time on date.
func (s *BookingService) CheckAvailability(ctx context.Context, expertID uuid.UUID, date models.Date, at models.SlotTime) (bool, error) {
	minute := at.Minutes()
	if minute < 0 {
		return false, apperror.Validation("time must be in HH:MM format")
	}
	if _, err := s.approvedExpert(ctx, expertID); err != nil {
		return false, err
	}
	active, err := s.bookings.ListActiveForExpertOn(ctx, expertID, date)
	if err != nil {
		return false, storeFailure("failed to check availability", err)
	}
	for i := range active {
		if active[i].Covers(minute) {
			return false, nil
		}
	}
	return true, nil
}

// AvailableSlots annotates the slot grid for date. Sundays and past slots are never available.
func (s *BookingService) AvailableSlots(ctx context.Context, expertID uuid.UUID, date models.Date) ([]SlotAvailability, error) {
	if _, err := s.approvedExpert(ctx, expertID); err != nil {
		return nil, err
	}
	active, err := s.bookings.ListActiveForExpertOn(ctx, expertID, date)
	if err != nil {
		return nil, storeFailure("failed to load bookings", err)
	}

	now := s.now()
	slots := make([]SlotAvailability, 0, len(models.SlotGrid))
	for _, slot := range models.SlotGrid {
		free := date.Weekday() != time.Sunday && slot.At(date, s.loc).After(now)
		for i := 0; free && i < len(active); i++ {
			if active[i].Covers(slot.Minutes()) {
				free = false
			}
		}
		slots = append(slots, SlotAvailability{Time: slot, Available: free})
	}
	return slots, nil
}

func (s *BookingService) Create(ctx context.Context, session *models.Session, req BookingRequest) (*models.Booking, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	if req.FarmerName = strings.TrimSpace(req.FarmerName); req.FarmerName == "" {
		req.FarmerName = session.Metadata.FullName
	}
	if req.FarmerEmail = strings.TrimSpace(req.FarmerEmail); req.FarmerEmail == "" {
		req.FarmerEmail = session.Email
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	expert, err := s.approvedExpert(ctx, req.ExpertID)
	if err != nil {
		return nil, err
	}

	start := req.Time.At(req.Date, s.loc)
	booking := &models.Booking{
		FarmerID:           session.UserID,
		ExpertID:           expert.ID,
		BookingDate:        req.Date,
		BookingTime:        req.Time,
		DurationMinutes:    req.Duration,
		TotalPrice:         Price(expert.HourlyRate, req.Duration),
		FarmerName:         req.FarmerName,
		FarmerEmail:        req.FarmerEmail,
		FarmerPhone:        strings.TrimSpace(req.FarmerPhone),
		ConsultationReason: strings.TrimSpace(req.Reason),
		Status:             models.BookingPending,
		StartsAt:           start,
		EndsAt:             start.Add(req.Duration.Span()),
	}

	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, apperror.Conflict("This time slot is no longer available. Please choose another time.")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound("Expert not found")
		default:
			return nil, storeFailure("failed to create booking", err)
		}
	}
	booking.Expert = expert

	s.logger.Info("booking created", "booking_id", booking.ID, "expert_id", expert.ID, "farmer_id", session.UserID)
	send(ctx, s.notifier, s.logger, notifications.BookingRequested(expert, booking))
	s.publish(booking, EventBookingCreated)
	return booking, nil
}

func (s *BookingService) validate(req BookingRequest) error {
	if !req.Duration.Valid() {
		return apperror.Validation("duration must be one of 30, 60, 90 or 120 minutes")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperror.Validation("consultation reason is required")
	}
	if req.FarmerName == "" || req.FarmerEmail == "" || strings.TrimSpace(req.FarmerPhone) == "" {
		return apperror.Validation("name, email and phone are required")
	}
	if !strings.Contains(req.FarmerEmail, "@") {
		return apperror.Validation("email is invalid")
	}
	if req.Date.IsZero() {
		return apperror.Validation("date is required")
	}
	if !req.Time.OnGrid() {
		return apperror.Validation(fmt.Sprintf("time %q is not an available slot", req.Time))
	}
	if req.Date.Weekday() == time.Sunday {
		return apperror.Validation("consultations are not available on Sundays")
	}
	now := s.now().In(s.loc)
	if req.Date.Before(models.DateOf(now)) || !req.Time.At(req.Date, s.loc).After(now) {
		return apperror.Validation("cannot book a slot in the past")
	}
	return nil
}

func (s *BookingService) approvedExpert(ctx context.Context, id uuid.UUID) (*models.Expert, error) {
	expert, err := s.experts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && expert.Status != models.ExpertApproved) {
		return nil, apperror.NotFound("Expert not found")
	}
	if err != nil {
		return nil, storeFailure("failed to load expert", err)
	}
	return expert, nil
}

// CanCancel applies the farmer cancellation policy to b.
func (s *BookingService) CanCancel(b *models.Booking) bool {
	return b.Status.Active() && b.StartsAt.Sub(s.now()) > s.window
}

// Cancel is the farmer's cancellation. It is refused inside the cancellation window.
func (s *BookingService) Cancel(ctx context.Context, session *models.Session, id uuid.UUID) (*models.Booking, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.FarmerID != session.UserID {
		return nil, apperror.Forbidden("Only the farmer who made this booking can cancel it")
	}
	if !b.Status.Active() {
		return nil, apperror.Conflict(fmt.Sprintf("Booking is already %s", b.Status))
	}
	if !s.CanCancel(b) {
		return nil, apperror.Conflict(fmt.Sprintf("Bookings can only be cancelled more than %s before the consultation", humanWindow(s.window)))
	}

	if err := s.transition(ctx, b, models.BookingCancelled); err != nil {
		return nil, err
	}
	if b.Expert != nil {
		send(ctx, s.notifier, s.logger, notifications.BookingCancelledByFarmer(b.Expert, b))
	}
	return b, nil
}

// UpdateStatus is the expert's action on a booking addressed to them.
func (s *BookingService) UpdateStatus(ctx context.Context, session *models.Session, id uuid.UUID, to models.BookingStatus) (*models.Booking, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	if to != models.BookingConfirmed && to != models.BookingCompleted && to != models.BookingCancelled {
		return nil, apperror.Validation("status must be confirmed, completed or cancelled")
	}
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	expert, err := s.experts.FindByUserID(ctx, session.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeFailure("failed to load expert profile", err)
	}
	if expert == nil || expert.ID != b.ExpertID {
		return nil, apperror.Forbidden("Only the booked expert can update this booking")
	}
	if !b.Status.CanTransitionTo(to) {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot move a %s booking to %s", b.Status, to))
	}

	if err := s.transition(ctx, b, to); err != nil {
		return nil, err
	}
	send(ctx, s.notifier, s.logger, notifications.BookingStatusChanged(b, expert.FullName))
	return b, nil
}

func (s *BookingService) transition(ctx context.Context, b *models.Booking, to models.BookingStatus) error {
	from := b.Status
	if err := s.bookings.UpdateStatus(ctx, b.ID, from, to); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return apperror.Conflict("Booking was updated by someone else, please refresh")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Booking not found")
		}
		return storeFailure("failed to update booking", err)
	}
	b.Status = to
	b.UpdatedAt = s.now()
	s.logger.Info("booking status changed", "booking_id", b.ID, "from", from, "to", to)
	s.publish(b, EventBookingUpdated)
	return nil
}

func (s *BookingService) find(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Booking not found")
	}
	if err != nil {
		return nil, storeFailure("failed to load booking", err)
	}
	return b, nil
}

func (s *BookingService) publish(b *models.Booking, eventType string) {
	event := Event{Type: eventType, Data: b}
	s.events.Publish(b.FarmerID, event)
	if b.Expert != nil {
		s.events.Publish(b.Expert.UserID, event)
	}
}

func (s *BookingService) FarmerBookings(ctx context.Context, session *models.Session) ([]models.Booking, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	bookings, err := s.bookings.ListByFarmer(ctx, session.UserID)
	if err != nil {
		return nil, storeFailure("failed to load bookings", err)
	}
	return bookings, nil
}

// ExpertBookings lists bookings addressed to the caller's expert profile.
func (s *BookingService) ExpertBookings(ctx context.Context, session *models.Session) ([]models.Booking, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	expert, err := s.experts.FindByUserID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("No expert profile for this account")
	}
	if err != nil {
		return nil, storeFailure("failed to load expert profile", err)
	}
	bookings, err := s.bookings.ListByExpert(ctx, expert.ID)
	if err != nil {
		return nil, storeFailure("failed to load bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) FarmerDashboard(ctx context.Context, session *models.Session) (*FarmerDashboard, error) {
	bookings, err := s.FarmerBookings(ctx, session)
	if err != nil {
		return nil, err
	}

	today := models.DateOf(s.now().In(s.loc))
	dash := &FarmerDashboard{
		Upcoming: make([]DashboardBooking, 0),
		Past:     make([]DashboardBooking, 0),
	}
	for i := range bookings {
		b := bookings[i]
		entry := DashboardBooking{Booking: b, CanCancel: s.CanCancel(&b)}
		if b.Status.Active() && !b.BookingDate.Before(today) {
			dash.Upcoming = append(dash.Upcoming, entry)
		} else {
			dash.Past = append(dash.Past, entry)
		}
		switch b.Status {
		case models.BookingCompleted:
			dash.Stats.Completed++
		case models.BookingPending:
			dash.Stats.Pending++
		}
	}
	dash.Stats.Total = len(bookings)
	dash.Stats.Upcoming = len(dash.Upcoming)
	return dash, nil
}

func humanWindow(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return d.String()
}
