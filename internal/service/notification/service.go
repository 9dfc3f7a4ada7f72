package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/consultapp/partner-api/internal/email"
	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
	"github.com/consultapp/partner-api/pkg/logger"
	"github.com/consultapp/partner-api/pkg/messaging"
)

// Service consumes partnership lifecycle events from the broker and
// emails the party on the receiving end of each transition.
type Service struct {
	broker    messaging.Broker
	directory repository.EntityDirectory
	emailSvc  email.Service
	logger    *logger.Logger
}

func NewService(broker messaging.Broker, directory repository.EntityDirectory, emailSvc email.Service, l *logger.Logger) *Service {
	return &Service{
		broker:    broker,
		directory: directory,
		emailSvc:  emailSvc,
		logger:    l,
	}
}

type eventEnvelope struct {
	Type    string                 `json:"type"`
	Payload model.PartnershipEvent `json:"payload"`
}

// Run subscribes to the lifecycle channels and blocks until the context
// is cancelled.
func (s *Service) Run(ctx context.Context) error {
	channels := []string{
		model.EventPartnershipRequested,
		model.EventPartnershipApproved,
		model.EventPartnershipRejected,
	}

	for _, channel := range channels {
		msgs, err := s.broker.Subscribe(ctx, channel)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		go s.consume(ctx, msgs)
	}

	<-ctx.Done()
	return ctx.Err()
}

func (s *Service) consume(ctx context.Context, msgs <-chan []byte) {
	for raw := range msgs {
		var envelope eventEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			s.logger.Error(err, "failed to decode event")
			continue
		}
		if err := s.notify(ctx, envelope); err != nil {
			s.logger.Error(err, "failed to notify", "event_type", envelope.Type)
		}
	}
}

// notify emails the counterparty of the acting side: new requests go to
// the party whose decision is pending, resolutions go back to the
// initiator.
func (s *Service) notify(ctx context.Context, envelope eventEnvelope) error {
	event := envelope.Payload

	actorName, err := s.displayName(ctx, event.ActorRole, event)
	if err != nil {
		return err
	}
	recipient, err := s.contactEmail(ctx, event.ActorRole.Opposite(), event)
	if err != nil {
		return err
	}

	switch envelope.Type {
	case model.EventPartnershipRequested:
		return s.emailSvc.SendPartnershipRequested(ctx, recipient, actorName, event.Message)
	case model.EventPartnershipApproved:
		return s.emailSvc.SendPartnershipApproved(ctx, recipient, actorName)
	case model.EventPartnershipRejected:
		return s.emailSvc.SendPartnershipRejected(ctx, recipient, actorName)
	}
	return nil
}

func (s *Service) displayName(ctx context.Context, role model.ActorRole, event model.PartnershipEvent) (string, error) {
	if role == model.RoleClinic {
		clinic, err := s.directory.GetClinic(ctx, event.ClinicID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve clinic: %w", err)
		}
		return clinic.FantasyName, nil
	}
	prof, err := s.directory.GetProfessional(ctx, event.ProfessionalID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve professional: %w", err)
	}
	return prof.Name, nil
}

func (s *Service) contactEmail(ctx context.Context, role model.ActorRole, event model.PartnershipEvent) (string, error) {
	if role == model.RoleClinic {
		clinic, err := s.directory.GetClinic(ctx, event.ClinicID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve clinic: %w", err)
		}
		return clinic.Email, nil
	}
	prof, err := s.directory.GetProfessional(ctx, event.ProfessionalID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve professional: %w", err)
	}
	return prof.Email, nil
}
