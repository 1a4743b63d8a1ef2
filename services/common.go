package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/google/uuid"
)

// Price is the consultation fee for d minutes at hourlyRate, rounded half away
// from zero to 2 decimals. The rate is taken in whole cents so that half-cent
// results are exact before rounding.
func Price(hourlyRate float64, d models.Duration) float64 {
	cents := math.Round(hourlyRate * 100)
	return math.Round(cents*float64(d.Minutes())/60) / 100
}

// Event is pushed to connected clients of a user.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventBookingCreated = "booking.created"
	EventBookingUpdated = "booking.updated"
)

type Publisher interface {
	Publish(userID uuid.UUID, event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(uuid.UUID, Event) {}

func errUnauthenticated() error {
	return apperror.Unauthenticated("You must be signed in to do this")
}

// storeFailure keeps taxonomy errors intact and wraps everything else as a collaborator failure.
func storeFailure(msg string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Collaborator(msg, err)
}

func send(ctx context.Context, n notifications.Notifier, logger *slog.Logger, msg notifications.Message) {
	if err := n.Send(ctx, msg); err != nil {
		logger.Error("notification failed", "to", msg.ToEmail, "subject", msg.Subject, "error", err)
	}
}

func systemClock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
