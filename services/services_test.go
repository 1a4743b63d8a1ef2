package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/anjiri1684/agriconnect/cache"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/anjiri1684/agriconnect/repository"
	"github.com/google/uuid"
)

// Monday 3 June 2024, 08:00 UTC.
var testNow = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.Message
}

func (r *recordingNotifier) Send(_ context.Context, msg notifications.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[uuid.UUID][]Event
}

func (r *recordingPublisher) Publish(userID uuid.UUID, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = make(map[uuid.UUID][]Event)
	}
	r.events[userID] = append(r.events[userID], ev)
}

func (r *recordingPublisher) forUser(id uuid.UUID) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id]
}

type fixture struct {
	store     *repository.MemoryStore
	notifier  *recordingNotifier
	publisher *recordingPublisher
	cache     *cache.ExpertCache
	bookings  *BookingService
	experts   *ExpertService
	reviews   *ReviewService
}

func newFixture() *fixture {
	store := repository.NewMemoryStore()
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}
	logger := quietLogger()
	c, _ := cache.NewExpertCache(true, 16, logger)

	return &fixture{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		cache:     c,
		bookings: NewBookingService(store.Bookings(), store.Experts(), notifier, publisher, logger, BookingOptions{
			CancellationWindow: 24 * time.Hour,
			Location:           time.UTC,
			Now:                fixedClock,
		}),
		experts: NewExpertService(store.Experts(), c, notifier, logger),
		reviews: NewReviewService(store.Bookings(), store.Reviews(), c, logger),
	}
}

func (f *fixture) approvedExpert(rate float64) models.Expert {
	return f.store.PutExpert(models.Expert{
		UserID:         uuid.New(),
		FullName:       "Dr. Adebayo Ogundimu",
		Email:          "adebayo@example.com",
		Specialization: models.SpecCropManagement,
		HourlyRate:     rate,
		Status:         models.ExpertApproved,
	})
}

func farmerSession() *models.Session {
	return &models.Session{
		UserID:   uuid.New(),
		Email:    "farmer@example.com",
		TokenID:  uuid.NewString(),
		Metadata: models.UserMetadata{FullName: "Amina Bello", Role: models.RoleFarmer},
	}
}

func sessionFor(userID uuid.UUID, role models.Role) *models.Session {
	return &models.Session{
		UserID:   userID,
		Email:    "user@example.com",
		TokenID:  uuid.NewString(),
		Metadata: models.UserMetadata{FullName: "Some User", Role: role},
	}
}
