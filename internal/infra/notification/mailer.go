package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hotel-reservation-engine/internal/domain/user"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase/shared"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipient = errors.New("event carries no usable customer email")

type Mailer interface {
	SendReservationMail(ctx context.Context, event shared.ReservationEvent) error
}

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	sender MailSender
	from   string
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return NewSMTPMailerWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewSMTPMailerWithSender(sender MailSender, from string) *SMTPMailer {
	return &SMTPMailer{sender: sender, from: from}
}

func (m *SMTPMailer) SendReservationMail(ctx context.Context, event shared.ReservationEvent) error {
	to, err := user.NewEmail(event.CustomerEmail)
	if err != nil {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to.Value())
	msg.SetHeader("Subject", mailSubject(event))
	msg.SetBody("text/plain", mailBody(event))

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s mail: %w", event.Kind, err)
	}
	return nil
}

func mailSubject(event shared.ReservationEvent) string {
	switch event.Kind {
	case shared.EventReservationCancelled:
		return "Reservation " + event.ConfirmationCode + " cancelled"
	default:
		return "Reservation " + event.ConfirmationCode + " confirmed"
	}
}

func mailBody(event shared.ReservationEvent) string {
	var b strings.Builder
	switch event.Kind {
	case shared.EventReservationCancelled:
		b.WriteString("Your reservation has been cancelled.\n\n")
	default:
		b.WriteString("Thank you for your booking.\n\n")
	}
	fmt.Fprintf(&b, "Confirmation code: %s\n", event.ConfirmationCode)
	fmt.Fprintf(&b, "Check-in:  %s\n", event.CheckIn)
	fmt.Fprintf(&b, "Check-out: %s\n", event.CheckOut)
	fmt.Fprintf(&b, "Guests:    %d\n", event.GuestCount)
	fmt.Fprintf(&b, "Total:     %s\n", event.TotalPrice)
	return b.String()
}

// LogMailer stands in for SMTP when mail is disabled.
type LogMailer struct{}

func (LogMailer) SendReservationMail(ctx context.Context, event shared.ReservationEvent) error {
	slog.InfoContext(ctx, "mail delivery disabled; logging instead",
		"kind", event.Kind, "reservation_id", event.ReservationID, "subject", mailSubject(event))
	return nil
}
