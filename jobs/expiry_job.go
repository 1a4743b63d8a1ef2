package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/anjiri1684/agriconnect/repository"
)

// Expiry cancels pending requests the expert never answered once their start
// time is more than Grace in the past. Bookings older than Lookback are ignored.
type Expiry struct {
	Bookings repository.BookingRepository
	Notifier notifications.Notifier
	Grace    time.Duration
	Lookback time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

func (e *Expiry) Run(ctx context.Context) (int, error) {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	upper := now.Add(-e.Grace)
	lower := upper.Add(-e.Lookback)

	stale, err := e.Bookings.ListStartingBetween(ctx, models.BookingPending, lower, upper)
	if err != nil {
		e.Logger.Error("error checking for unanswered bookings", "error", err)
		return 0, err
	}

	expired := 0
	for i := range stale {
		b := &stale[i]
		err := e.Bookings.UpdateStatus(ctx, b.ID, models.BookingPending, models.BookingCancelled)
		if errors.Is(err, repository.ErrStatusChanged) {
			continue
		}
		if err != nil {
			e.Logger.Error("failed to expire booking", "booking_id", b.ID, "error", err)
			continue
		}
		b.Status = models.BookingCancelled
		expired++

		expertName := "your expert"
		if b.Expert != nil {
			expertName = b.Expert.FullName
		}
		if err := e.Notifier.Send(ctx, notifications.BookingStatusChanged(b, expertName)); err != nil {
			e.Logger.Error("failed to notify farmer", "booking_id", b.ID, "error", err)
		}
	}

	if expired > 0 {
		e.Logger.Info("expired unanswered bookings", "count", expired)
	}
	return expired, nil
}
