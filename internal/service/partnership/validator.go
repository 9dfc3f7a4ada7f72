package partnership

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
	apperrors "github.com/consultapp/partner-api/pkg/errors"
)

// MinMessageLength is the shortest acceptable request message.
const MinMessageLength = 10

type createRequest struct {
	InitiatorID    uuid.UUID `validate:"required"`
	CounterpartyID uuid.UUID `validate:"required"`
	Message        string    `validate:"required,min=10"`
}

// Validator checks structural and business preconditions before the
// engine applies a mutation.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateCreate checks a new request against the current partnership set.
// The duplicate check here is a fast precondition; the insert itself is
// still the atomic authority via the repository's create-if-absent.
func (v *Validator) ValidateCreate(role model.ActorRole, initiatorID, counterpartyID uuid.UUID, message string, existing []*model.Partnership) error {
	if !role.Valid() {
		return apperrors.NewBadRequest("unknown actor role", nil)
	}

	req := createRequest{
		InitiatorID:    initiatorID,
		CounterpartyID: counterpartyID,
		Message:        message,
	}
	if err := v.validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				if fe.Field() == "Message" {
					return apperrors.NewInvalidMessage("message must be at least 10 characters")
				}
			}
		}
		return apperrors.NewBadRequest("invalid request", err)
	}

	if initiatorID == counterpartyID {
		return apperrors.NewSelfPartnership()
	}

	clinicID, professionalID := pairIDs(role, initiatorID, counterpartyID)
	for _, p := range existing {
		if p.ClinicID == clinicID && p.ProfessionalID == professionalID && p.Live() {
			return apperrors.NewDuplicateRequest()
		}
	}

	return nil
}

// ValidateRespond checks that the actor controls one side of the record
// and has not decided yet. A party may decide only once.
func (v *Validator) ValidateRespond(p *model.Partnership, role model.ActorRole, actorID uuid.UUID, decision model.ApprovalStatus) error {
	if !role.Valid() {
		return apperrors.NewBadRequest("unknown actor role", nil)
	}
	if decision != model.ApprovalApproved && decision != model.ApprovalRejected {
		return apperrors.NewBadRequest("decision must be approved or rejected", nil)
	}
	if !p.Involves(role, actorID) {
		return apperrors.NewUnauthorized("actor is not a party to this partnership")
	}
	if p.Flag(role) != model.ApprovalPending {
		return apperrors.NewAlreadyResolved()
	}
	return nil
}

// ValidateRemove checks that the actor is a party and the record is
// Active. Only active partnerships can be dissolved.
func (v *Validator) ValidateRemove(p *model.Partnership, role model.ActorRole, actorID uuid.UUID) error {
	if !role.Valid() {
		return apperrors.NewBadRequest("unknown actor role", nil)
	}
	if !p.Involves(role, actorID) {
		return apperrors.NewUnauthorized("actor is not a party to this partnership")
	}
	if p.Status() != model.StatusActive {
		return apperrors.NewNotActive()
	}
	return nil
}

// pairIDs resolves which side of the pair the initiator occupies.
func pairIDs(initiatorRole model.ActorRole, initiatorID, counterpartyID uuid.UUID) (clinicID, professionalID uuid.UUID) {
	if initiatorRole == model.RoleClinic {
		return initiatorID, counterpartyID
	}
	return counterpartyID, initiatorID
}
