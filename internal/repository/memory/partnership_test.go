package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
)

func newPartnership(clinicID, professionalID uuid.UUID) *model.Partnership {
	now := time.Now().UTC()
	return &model.Partnership{
		ID:                   uuid.New(),
		ClinicID:             clinicID,
		ProfessionalID:       professionalID,
		ClinicApproved:       model.ApprovalApproved,
		ProfessionalApproved: model.ApprovalPending,
		Message:              "gostaríamos de firmar parceria",
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func TestInsertRejectsLiveDuplicate(t *testing.T) {
	repo := NewPartnershipRepository()
	ctx := context.Background()

	clinicID := uuid.New()
	professionalID := uuid.New()

	require.NoError(t, repo.Insert(ctx, newPartnership(clinicID, professionalID)))

	err := repo.Insert(ctx, newPartnership(clinicID, professionalID))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestInsertAllowsNewRequestAfterRejection(t *testing.T) {
	repo := NewPartnershipRepository()
	ctx := context.Background()

	clinicID := uuid.New()
	professionalID := uuid.New()

	rejected := newPartnership(clinicID, professionalID)
	rejected.ProfessionalApproved = model.ApprovalRejected
	require.NoError(t, repo.Insert(ctx, rejected))

	assert.NoError(t, repo.Insert(ctx, newPartnership(clinicID, professionalID)))
}

func TestCompareAndUpdate(t *testing.T) {
	repo := NewPartnershipRepository()
	ctx := context.Background()

	p := newPartnership(uuid.New(), uuid.New())
	require.NoError(t, repo.Insert(ctx, p))

	approved := model.ApprovalApproved
	newVersion := p.UpdatedAt.Add(time.Second)
	updated, err := repo.CompareAndUpdate(ctx, p.ID, p.UpdatedAt, repository.PartnershipPatch{
		ProfessionalApproved: &approved,
		UpdatedAt:            newVersion,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, updated.ProfessionalApproved)
	assert.True(t, updated.UpdatedAt.Equal(newVersion))
	assert.Equal(t, model.ApprovalApproved, updated.ClinicApproved, "untouched flag must survive")
}

func TestCompareAndUpdateConflict(t *testing.T) {
	repo := NewPartnershipRepository()
	ctx := context.Background()

	p := newPartnership(uuid.New(), uuid.New())
	require.NoError(t, repo.Insert(ctx, p))

	staleVersion := p.UpdatedAt.Add(-time.Minute)
	rejected := model.ApprovalRejected
	_, err := repo.CompareAndUpdate(ctx, p.ID, staleVersion, repository.PartnershipPatch{
		ProfessionalApproved: &rejected,
		UpdatedAt:            time.Now().UTC(),
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalPending, stored.ProfessionalApproved)
}

func TestCompareAndUpdateNotFound(t *testing.T) {
	repo := NewPartnershipRepository()

	approved := model.ApprovalApproved
	_, err := repo.CompareAndUpdate(context.Background(), uuid.New(), time.Now(), repository.PartnershipPatch{
		ClinicApproved: &approved,
		UpdatedAt:      time.Now(),
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetNotFound(t *testing.T) {
	repo := NewPartnershipRepository()

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := NewPartnershipRepository()
	ctx := context.Background()

	p := newPartnership(uuid.New(), uuid.New())
	require.NoError(t, repo.Insert(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestListAll(t *testing.T) {
	repo := NewPartnershipRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newPartnership(uuid.New(), uuid.New())))
	require.NoError(t, repo.Insert(ctx, newPartnership(uuid.New(), uuid.New())))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
