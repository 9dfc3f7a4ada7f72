package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/consultapp/partner-api/config"
)

type Service interface {
	SendPartnershipRequested(ctx context.Context, to, counterpartyName, message string) error
	SendPartnershipApproved(ctx context.Context, to, counterpartyName string) error
	SendPartnershipRejected(ctx context.Context, to, counterpartyName string) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendPartnershipRequested(ctx context.Context, to, counterpartyName, message string) error {
	subject := fmt.Sprintf("New partnership request from %s", counterpartyName)
	body := fmt.Sprintf(
		"%s would like to partner with you.\n\nMessage:\n%s\n\nOpen your dashboard to approve or reject the request.",
		counterpartyName, message,
	)
	return s.send(to, subject, body)
}

func (s *service) SendPartnershipApproved(ctx context.Context, to, counterpartyName string) error {
	subject := fmt.Sprintf("%s accepted your partnership request", counterpartyName)
	body := fmt.Sprintf(
		"Your partnership with %s is now active. You can start publishing linked services.",
		counterpartyName,
	)
	return s.send(to, subject, body)
}

func (s *service) SendPartnershipRejected(ctx context.Context, to, counterpartyName string) error {
	subject := "Your partnership request was declined"
	body := fmt.Sprintf(
		"%s declined your partnership request. You can reach out again at any time.",
		counterpartyName,
	)
	return s.send(to, subject, body)
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
