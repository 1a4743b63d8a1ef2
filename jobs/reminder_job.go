package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/anjiri1684/agriconnect/repository"
)

// Reminder e-mails both parties of confirmed consultations that start in
// [now+lead, now+lead+window). Run it every window so each booking is seen once.
type Reminder struct {
	Bookings repository.BookingRepository
	Notifier notifications.Notifier
	Lead     time.Duration
	Window   time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

func (r *Reminder) Run(ctx context.Context) (int, error) {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	lower := now.Add(r.Lead)
	upper := lower.Add(r.Window)

	upcoming, err := r.Bookings.ListStartingBetween(ctx, models.BookingConfirmed, lower, upper)
	if err != nil {
		r.Logger.Error("error checking for upcoming consultations", "error", err)
		return 0, err
	}

	for i := range upcoming {
		b := &upcoming[i]
		expertName, expertEmail := "your expert", ""
		if b.Expert != nil {
			expertName, expertEmail = b.Expert.FullName, b.Expert.Email
		}
		r.Logger.Info("sending consultation reminder", "booking_id", b.ID)

		r.send(ctx, notifications.Reminder(b.FarmerName, b.FarmerEmail, b, expertName))
		if expertEmail != "" {
			r.send(ctx, notifications.Reminder(expertName, expertEmail, b, b.FarmerName))
		}
	}
	return len(upcoming), nil
}

func (r *Reminder) send(ctx context.Context, msg notifications.Message) {
	if err := r.Notifier.Send(ctx, msg); err != nil {
		r.Logger.Error("failed to send reminder", "to", msg.ToEmail, "error", err)
	}
}
