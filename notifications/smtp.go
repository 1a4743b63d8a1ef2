package notifications

import (
	"context"

	"gopkg.in/gomail.v2"
)

type SMTPService struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

func NewSMTP(host string, port int, user, pass, senderName string) *SMTPService {
	return &SMTPService{
		dialer:     gomail.NewDialer(host, port, user, pass),
		from:       user,
		senderName: senderName,
	}
}

func (s *SMTPService) Send(ctx context.Context, msg Message) error {
	if err := validRecipient(msg.ToEmail); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.senderName)
	m.SetAddressHeader("To", msg.ToEmail, recipientName(msg.ToName, msg.ToEmail))
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	return s.dialer.DialAndSend(m)
}
