package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service sends portal notification mail. Failures are the caller's to
// log; nothing here retries.
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendBookingConfirmation(ctx context.Context, to, doctorName, slot string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type gomailService struct {
	cfg    Config
	dialer *gomail.Dialer
}

// NewService returns an SMTP-backed sender, or NoopService when no host
// is configured so dev runs work without a mail server.
func NewService(cfg Config) Service {
	if cfg.Host == "" {
		return NoopService{}
	}
	return &gomailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *gomailService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Virtra. Your account is ready.\n", name)
	return s.send(to, "Welcome to Virtra", body)
}

func (s *gomailService) SendBookingConfirmation(ctx context.Context, to, doctorName, slot string) error {
	body := fmt.Sprintf("Your appointment with %s at %s has been booked.\n", doctorName, slot)
	return s.send(to, "Appointment booked", body)
}

func (s *gomailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NoopService discards all mail. Used when SMTP is not configured.
type NoopService struct{}

func (NoopService) SendWelcome(ctx context.Context, to, name string) error { return nil }

func (NoopService) SendBookingConfirmation(ctx context.Context, to, doctorName, slot string) error {
	return nil
}
