package partnership

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/consultapp/partner-api/internal/model"
	apperrors "github.com/consultapp/partner-api/pkg/errors"
)

const validMessage = "gostaríamos de firmar parceria"

func TestValidateCreate(t *testing.T) {
	v := NewValidator()
	clinicID := uuid.New()
	professionalID := uuid.New()

	t.Run("valid request", func(t *testing.T) {
		err := v.ValidateCreate(model.RoleClinic, clinicID, professionalID, validMessage, nil)
		assert.NoError(t, err)
	})

	t.Run("message too short", func(t *testing.T) {
		err := v.ValidateCreate(model.RoleClinic, clinicID, professionalID, "oi", nil)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidMessage))
	})

	t.Run("empty message", func(t *testing.T) {
		err := v.ValidateCreate(model.RoleClinic, clinicID, professionalID, "", nil)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidMessage))
	})

	t.Run("self partnership", func(t *testing.T) {
		err := v.ValidateCreate(model.RoleClinic, clinicID, clinicID, validMessage, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrSelfPartnership))
	})

	t.Run("unknown role", func(t *testing.T) {
		err := v.ValidateCreate(model.ActorRole("admin"), clinicID, professionalID, validMessage, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})

	t.Run("live duplicate", func(t *testing.T) {
		existing := []*model.Partnership{{
			ID:                   uuid.New(),
			ClinicID:             clinicID,
			ProfessionalID:       professionalID,
			ClinicApproved:       model.ApprovalApproved,
			ProfessionalApproved: model.ApprovalPending,
		}}
		err := v.ValidateCreate(model.RoleClinic, clinicID, professionalID, validMessage, existing)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrDuplicateRequest))
	})

	t.Run("duplicate check sees pair from either side", func(t *testing.T) {
		existing := []*model.Partnership{{
			ID:                   uuid.New(),
			ClinicID:             clinicID,
			ProfessionalID:       professionalID,
			ClinicApproved:       model.ApprovalApproved,
			ProfessionalApproved: model.ApprovalApproved,
		}}
		err := v.ValidateCreate(model.RoleProfessional, professionalID, clinicID, validMessage, existing)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrDuplicateRequest))
	})

	t.Run("rejected pair does not block", func(t *testing.T) {
		existing := []*model.Partnership{{
			ID:                   uuid.New(),
			ClinicID:             clinicID,
			ProfessionalID:       professionalID,
			ClinicApproved:       model.ApprovalApproved,
			ProfessionalApproved: model.ApprovalRejected,
		}}
		err := v.ValidateCreate(model.RoleClinic, clinicID, professionalID, validMessage, existing)
		assert.NoError(t, err)
	})
}

func TestValidateRespond(t *testing.T) {
	v := NewValidator()
	clinicID := uuid.New()
	professionalID := uuid.New()

	pending := func() *model.Partnership {
		return &model.Partnership{
			ID:                   uuid.New(),
			ClinicID:             clinicID,
			ProfessionalID:       professionalID,
			ClinicApproved:       model.ApprovalApproved,
			ProfessionalApproved: model.ApprovalPending,
			UpdatedAt:            time.Now().UTC(),
		}
	}

	t.Run("pending side may decide", func(t *testing.T) {
		err := v.ValidateRespond(pending(), model.RoleProfessional, professionalID, model.ApprovalApproved)
		assert.NoError(t, err)
	})

	t.Run("stranger is unauthorized", func(t *testing.T) {
		err := v.ValidateRespond(pending(), model.RoleProfessional, uuid.New(), model.ApprovalApproved)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("initiator already decided", func(t *testing.T) {
		err := v.ValidateRespond(pending(), model.RoleClinic, clinicID, model.ApprovalApproved)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrAlreadyResolved))
	})

	t.Run("rejected record is terminal", func(t *testing.T) {
		p := pending()
		p.ProfessionalApproved = model.ApprovalRejected
		err := v.ValidateRespond(p, model.RoleProfessional, professionalID, model.ApprovalApproved)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrAlreadyResolved))
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		err := v.ValidateRespond(pending(), model.RoleProfessional, professionalID, model.ApprovalPending)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})
}

func TestValidateRemove(t *testing.T) {
	v := NewValidator()
	clinicID := uuid.New()
	professionalID := uuid.New()

	active := func() *model.Partnership {
		return &model.Partnership{
			ID:                   uuid.New(),
			ClinicID:             clinicID,
			ProfessionalID:       professionalID,
			ClinicApproved:       model.ApprovalApproved,
			ProfessionalApproved: model.ApprovalApproved,
		}
	}

	t.Run("party may remove active", func(t *testing.T) {
		assert.NoError(t, v.ValidateRemove(active(), model.RoleClinic, clinicID))
		assert.NoError(t, v.ValidateRemove(active(), model.RoleProfessional, professionalID))
	})

	t.Run("stranger is unauthorized", func(t *testing.T) {
		err := v.ValidateRemove(active(), model.RoleClinic, uuid.New())
		assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("pending cannot be removed", func(t *testing.T) {
		p := active()
		p.ProfessionalApproved = model.ApprovalPending
		err := v.ValidateRemove(p, model.RoleClinic, clinicID)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotActive))
	})

	t.Run("rejected cannot be removed", func(t *testing.T) {
		p := active()
		p.ClinicApproved = model.ApprovalRejected
		err := v.ValidateRemove(p, model.RoleProfessional, professionalID)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotActive))
	})
}
