package partnership

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
	apperrors "github.com/consultapp/partner-api/pkg/errors"
	"github.com/consultapp/partner-api/pkg/logger"
	"github.com/consultapp/partner-api/pkg/metrics"
)

type PartnershipServicer interface {
	CreateRequest(ctx context.Context, role model.ActorRole, initiatorID, counterpartyID uuid.UUID, message string) (*model.Partnership, error)
	Respond(ctx context.Context, partnershipID uuid.UUID, role model.ActorRole, actorID uuid.UUID, decision model.ApprovalStatus) (*model.Partnership, error)
	Remove(ctx context.Context, partnershipID uuid.UUID, role model.ActorRole, actorID uuid.UUID) error
	GetViews(ctx context.Context, role model.ActorRole, actorID uuid.UUID, query string) (*model.PartnershipViews, error)
}

// Service owns the partnership state machine. Every mutation reads the
// current record, validates against that snapshot and writes back with a
// conditional update; it never retries a Conflict itself.
type Service struct {
	repo      repository.PartnershipRepository
	directory repository.EntityDirectory
	outbox    repository.OutboxRepository
	validator *Validator
	projector *Projector
	metrics   *metrics.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(
	repo repository.PartnershipRepository,
	directory repository.EntityDirectory,
	outbox repository.OutboxRepository,
	validator *Validator,
	projector *Projector,
	m *metrics.Metrics,
	l *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		outbox:    outbox,
		validator: validator,
		projector: projector,
		metrics:   m,
		logger:    l,
		now:       time.Now,
	}
}

// CreateRequest opens a bilateral request: the initiator's flag is set
// Approved, the counterparty's Pending. This is the only entry point that
// produces a record in a pending state.
func (s *Service) CreateRequest(ctx context.Context, role model.ActorRole, initiatorID, counterpartyID uuid.UUID, message string) (*model.Partnership, error) {
	// Checked before directory resolution so a self request is reported as
	// such, not as a missing counterparty.
	if initiatorID == counterpartyID {
		return nil, apperrors.NewSelfPartnership()
	}

	if err := s.resolveParties(ctx, role, initiatorID, counterpartyID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInfrastructure(err)
	}

	if err := s.validator.ValidateCreate(role, initiatorID, counterpartyID, message, existing); err != nil {
		return nil, err
	}

	clinicID, professionalID := pairIDs(role, initiatorID, counterpartyID)
	now := s.now().UTC()
	p := &model.Partnership{
		ID:             uuid.New(),
		ClinicID:       clinicID,
		ProfessionalID: professionalID,
		Message:        message,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	p.SetFlag(role, model.ApprovalApproved)
	p.SetFlag(role.Opposite(), model.ApprovalPending)

	if err := s.repo.Insert(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.NewDuplicateRequest()
		}
		return nil, apperrors.NewInfrastructure(err)
	}

	s.metrics.RequestsCreated.Inc()
	s.recordEvent(ctx, model.EventPartnershipRequested, p, role)
	return p, nil
}

// Respond applies the actor's decision to their own flag. The write is
// conditional on the version read here; a concurrent writer surfaces as
// Conflict and the caller re-reads and retries.
func (s *Service) Respond(ctx context.Context, partnershipID uuid.UUID, role model.ActorRole, actorID uuid.UUID, decision model.ApprovalStatus) (*model.Partnership, error) {
	p, err := s.repo.Get(ctx, partnershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("partnership", err)
		}
		return nil, apperrors.NewInfrastructure(err)
	}

	if err := s.validator.ValidateRespond(p, role, actorID, decision); err != nil {
		return nil, err
	}

	patch := repository.PartnershipPatch{UpdatedAt: s.nextVersion(p.UpdatedAt)}
	if role == model.RoleClinic {
		patch.ClinicApproved = &decision
	} else {
		patch.ProfessionalApproved = &decision
	}

	updated, err := s.repo.CompareAndUpdate(ctx, partnershipID, p.UpdatedAt, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			s.metrics.WriteConflicts.Inc()
			return nil, apperrors.NewConflict(err)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("partnership", err)
		default:
			return nil, apperrors.NewInfrastructure(err)
		}
	}

	s.metrics.Responses.WithLabelValues(strings.ToLower(string(decision))).Inc()

	switch updated.Status() {
	case model.StatusActive:
		s.recordEvent(ctx, model.EventPartnershipApproved, updated, role)
	case model.StatusRejected:
		s.recordEvent(ctx, model.EventPartnershipRejected, updated, role)
	}

	return updated, nil
}

// Remove dissolves an active partnership, returning the pair to the
// available pool. The caller is responsible for having confirmed the
// destructive action with the user beforehand.
func (s *Service) Remove(ctx context.Context, partnershipID uuid.UUID, role model.ActorRole, actorID uuid.UUID) error {
	p, err := s.repo.Get(ctx, partnershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("partnership", err)
		}
		return apperrors.NewInfrastructure(err)
	}

	if err := s.validator.ValidateRemove(p, role, actorID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, partnershipID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("partnership", err)
		}
		return apperrors.NewInfrastructure(err)
	}

	s.metrics.Removals.Inc()
	s.recordEvent(ctx, model.EventPartnershipRemoved, p, role)
	return nil
}

// GetViews materializes the three per-actor views from a fresh snapshot.
func (s *Service) GetViews(ctx context.Context, role model.ActorRole, actorID uuid.UUID, query string) (*model.PartnershipViews, error) {
	if !role.Valid() {
		return nil, apperrors.NewBadRequest("unknown actor role", nil)
	}

	partnerships, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInfrastructure(err)
	}

	snap := Snapshot{Partnerships: partnerships}
	if role == model.RoleClinic {
		snap.Professionals, err = s.directory.ListProfessionals(ctx)
	} else {
		snap.Clinics, err = s.directory.ListClinics(ctx)
	}
	if err != nil {
		return nil, apperrors.NewInfrastructure(err)
	}

	return s.projector.Project(role, actorID, query, snap), nil
}

// resolveParties confirms both entities exist in the directory before any
// state is touched.
func (s *Service) resolveParties(ctx context.Context, role model.ActorRole, initiatorID, counterpartyID uuid.UUID) error {
	if !role.Valid() {
		return apperrors.NewBadRequest("unknown actor role", nil)
	}

	clinicID, professionalID := pairIDs(role, initiatorID, counterpartyID)

	if _, err := s.directory.GetClinic(ctx, clinicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("clinic", err)
		}
		return apperrors.NewInfrastructure(err)
	}
	if _, err := s.directory.GetProfessional(ctx, professionalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("professional", err)
		}
		return apperrors.NewInfrastructure(err)
	}
	return nil
}

// nextVersion keeps updated_at strictly increasing even when the clock
// has not advanced past the stored value.
func (s *Service) nextVersion(current time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(current) {
		return current.Add(time.Microsecond)
	}
	return now
}

// recordEvent appends a lifecycle event to the outbox. Event delivery is
// best effort; a failure here never rolls back the accepted mutation.
func (s *Service) recordEvent(ctx context.Context, eventType string, p *model.Partnership, role model.ActorRole) {
	payload, err := json.Marshal(model.PartnershipEvent{
		PartnershipID:  p.ID,
		ClinicID:       p.ClinicID,
		ProfessionalID: p.ProfessionalID,
		Status:         p.Status(),
		ActorRole:      role,
		Message:        p.Message,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal partnership event", "event_type", eventType)
		return
	}

	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}
