package notifications

import (
	"fmt"
	"html"

	"github.com/anjiri1684/agriconnect/models"
)

func Welcome(user *models.User) Message {
	return Message{
		ToName:  user.FullName,
		ToEmail: user.Email,
		Subject: "Welcome to AgriConnect!",
		HTML: fmt.Sprintf(
			"<h1>Welcome, %s!</h1><p>Thank you for joining AgriConnect. You can now connect with agricultural experts across Nigeria.</p>",
			html.EscapeString(user.FullName),
		),
	}
}

func BookingRequested(expert *models.Expert, b *models.Booking) Message {
	return Message{
		ToName:  expert.FullName,
		ToEmail: expert.Email,
		Subject: "New Consultation Request",
		HTML: fmt.Sprintf(
			"<h1>New Consultation Request</h1><p>%s has requested a %d minute consultation on %s at %s.</p><p><b>Reason:</b> %s</p><p>Please confirm or decline from your dashboard.</p>",
			html.EscapeString(b.FarmerName),
			b.DurationMinutes.Minutes(),
			b.BookingDate,
			b.BookingTime,
			html.EscapeString(b.ConsultationReason),
		),
	}
}

func BookingStatusChanged(b *models.Booking, expertName string) Message {
	return Message{
		ToName:  b.FarmerName,
		ToEmail: b.FarmerEmail,
		Subject: fmt.Sprintf("Your consultation is now %s", b.Status),
		HTML: fmt.Sprintf(
			"<h1>Consultation Update</h1><p>Your consultation with %s on %s at %s is now <b>%s</b>.</p>",
			html.EscapeString(expertName),
			b.BookingDate,
			b.BookingTime,
			b.Status,
		),
	}
}

func BookingCancelledByFarmer(expert *models.Expert, b *models.Booking) Message {
	return Message{
		ToName:  expert.FullName,
		ToEmail: expert.Email,
		Subject: "Consultation Cancelled",
		HTML: fmt.Sprintf(
			"<h1>Consultation Cancelled</h1><p>%s cancelled the consultation on %s at %s.</p>",
			html.EscapeString(b.FarmerName),
			b.BookingDate,
			b.BookingTime,
		),
	}
}

func ApplicationReceived(expert *models.Expert) Message {
	return Message{
		ToName:  expert.FullName,
		ToEmail: expert.Email,
		Subject: "We received your expert application",
		HTML: fmt.Sprintf(
			"<h1>Application Received</h1><p>Thanks %s, your application as a %s expert is under review. We will email you once a decision is made.</p>",
			html.EscapeString(expert.FullName),
			expert.Specialization.Label(),
		),
	}
}

func ApplicationDecision(expert *models.Expert) Message {
	if expert.Status == models.ExpertApproved {
		return Message{
			ToName:  expert.FullName,
			ToEmail: expert.Email,
			Subject: "Your Expert Application has been Approved!",
			HTML:    "<h1>Congratulations!</h1><p>Your application has been approved. Farmers can now find you in the expert directory and book consultations.</p>",
		}
	}
	return Message{
		ToName:  expert.FullName,
		ToEmail: expert.Email,
		Subject: "Update on Your Expert Application",
		HTML:    "<h1>Application Update</h1><p>After careful review, your application was not approved at this time. You may update and resubmit it from your profile.</p>",
	}
}

func Reminder(name, email string, b *models.Booking, counterpart string) Message {
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Reminder: Your Consultation Starts in 1 Hour!",
		HTML: fmt.Sprintf(
			"<h1>Consultation Reminder</h1><p>Hi %s,</p><p>Your consultation with %s is scheduled to start in one hour at %s.</p>",
			html.EscapeString(name),
			html.EscapeString(counterpart),
			b.BookingTime,
		),
	}
}
