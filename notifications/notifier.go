package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/anjiri1684/agriconnect/configs"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the provider named in cfg.Provider. Unknown or unconfigured providers fall back to Noop.
func New(cfg config.EmailConfig, logger *slog.Logger) Notifier {
	switch cfg.Provider {
	case "brevo":
		if cfg.BrevoAPIKey == "" || cfg.SenderEmail == "" {
			logger.Warn("email service not configured, missing Brevo API key or sender")
			return Noop{}
		}
		return NewBrevo(cfg.BrevoAPIKey, cfg.SenderEmail, cfg.SenderName, logger)
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
			logger.Warn("email service not configured, missing SMTP host or user")
			return Noop{}
		}
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderName)
	default:
		return Noop{}
	}
}

type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }

// Async hands every message to a goroutine and never reports delivery errors to the caller.
type Async struct {
	next    Notifier
	logger  *slog.Logger
	timeout time.Duration
}

func NewAsync(next Notifier, logger *slog.Logger) *Async {
	return &Async{next: next, logger: logger, timeout: 15 * time.Second}
}

func (a *Async) Send(_ context.Context, msg Message) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.Send(ctx, msg); err != nil {
			a.logger.Error("failed to send email", "to", msg.ToEmail, "subject", msg.Subject, "error", err)
			return
		}
		a.logger.Debug("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	}()
	return nil
}

func validRecipient(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid recipient email: %s", email)
	}
	return nil
}

func recipientName(name, email string) string {
	if name != "" {
		return name
	}
	return email[:strings.Index(email, "@")]
}
