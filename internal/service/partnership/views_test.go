package partnership

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/pkg/metrics"
)

func professional(name, specialty string) *model.Professional {
	now := time.Now().UTC()
	return &model.Professional{
		ID:        uuid.New(),
		Name:      name,
		Specialty: specialty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func clinic(fantasyName, registration string) *model.Clinic {
	now := time.Now().UTC()
	return &model.Clinic{
		ID:                 uuid.New(),
		FantasyName:        fantasyName,
		RegistrationNumber: registration,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func partnershipBetween(clinicID, professionalID uuid.UUID, clinicFlag, professionalFlag model.ApprovalStatus) *model.Partnership {
	now := time.Now().UTC()
	return &model.Partnership{
		ID:                   uuid.New(),
		ClinicID:             clinicID,
		ProfessionalID:       professionalID,
		ClinicApproved:       clinicFlag,
		ProfessionalApproved: professionalFlag,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func TestProjectPartitionsEveryCounterparty(t *testing.T) {
	pr := NewProjector(metrics.New("test"))

	c := clinic("Clínica Vida", "12.345.678/0001-90")
	partner := professional("Ana Souza", "Cardiologia")
	requested := professional("Bruno Lima", "Ortopedia")
	rejected := professional("Carla Dias", "Dermatologia")
	free := professional("Diego Nunes", "Pediatria")

	snap := Snapshot{
		Partnerships: []*model.Partnership{
			partnershipBetween(c.ID, partner.ID, model.ApprovalApproved, model.ApprovalApproved),
			partnershipBetween(c.ID, requested.ID, model.ApprovalApproved, model.ApprovalPending),
			partnershipBetween(c.ID, rejected.ID, model.ApprovalApproved, model.ApprovalRejected),
		},
		Professionals: []*model.Professional{partner, requested, rejected, free},
	}

	views := pr.Project(model.RoleClinic, c.ID, "", snap)

	require.Len(t, views.Partners, 1)
	assert.Equal(t, partner.ID, views.Partners[0].Counterparty.Professional.ID)

	require.Len(t, views.Pending, 1)
	assert.Equal(t, requested.ID, views.Pending[0].Counterparty.Professional.ID)

	// Rejected pairs are history: both sides are available again.
	availableIDs := make(map[uuid.UUID]bool)
	for _, e := range views.Available {
		availableIDs[e.Professional.ID] = true
	}
	assert.True(t, availableIDs[rejected.ID])
	assert.True(t, availableIDs[free.ID])
	assert.Len(t, views.Available, 2)

	assert.Equal(t, 2, views.AvailableCount)
	assert.Equal(t, 1, views.PendingCount)
	assert.Equal(t, 1, views.PartnersCount)
}

func TestProjectActionableFlag(t *testing.T) {
	pr := NewProjector(metrics.New("test"))

	c := clinic("Clínica Vida", "12.345.678/0001-90")
	p := professional("Ana Souza", "Cardiologia")

	// Clinic initiated: the decision belongs to the professional.
	snap := Snapshot{
		Partnerships:  []*model.Partnership{partnershipBetween(c.ID, p.ID, model.ApprovalApproved, model.ApprovalPending)},
		Professionals: []*model.Professional{p},
	}
	clinicViews := pr.Project(model.RoleClinic, c.ID, "", snap)
	require.Len(t, clinicViews.Pending, 1)
	assert.False(t, clinicViews.Pending[0].Actionable)

	snap.Clinics = []*model.Clinic{c}
	professionalViews := pr.Project(model.RoleProfessional, p.ID, "", snap)
	require.Len(t, professionalViews.Pending, 1)
	assert.True(t, professionalViews.Pending[0].Actionable)
}

func TestProjectFilter(t *testing.T) {
	pr := NewProjector(metrics.New("test"))

	c := clinic("Clínica Vida", "12.345.678/0001-90")
	snap := Snapshot{
		Professionals: []*model.Professional{
			professional("Ana Souza", "Cardiologia"),
			professional("Mariana Reis", "Ortopedia"),
			professional("Bruno Lima", "Anatomia Patológica"),
			professional("Diego Nunes", "Pediatria"),
		},
	}

	views := pr.Project(model.RoleClinic, c.ID, "ana", snap)

	// Matches name or specialty, case-insensitively.
	require.Len(t, views.Available, 3)
	names := []string{
		views.Available[0].Professional.Name,
		views.Available[1].Professional.Name,
		views.Available[2].Professional.Name,
	}
	assert.NotContains(t, names, "Diego Nunes")
}

func TestProjectFilterAppliesToPendingAndPartners(t *testing.T) {
	pr := NewProjector(metrics.New("test"))

	c := clinic("Clínica Vida", "12.345.678/0001-90")
	partner := professional("Ana Souza", "Cardiologia")
	pending := professional("Bruno Lima", "Ortopedia")

	snap := Snapshot{
		Partnerships: []*model.Partnership{
			partnershipBetween(c.ID, partner.ID, model.ApprovalApproved, model.ApprovalApproved),
			partnershipBetween(c.ID, pending.ID, model.ApprovalApproved, model.ApprovalPending),
		},
		Professionals: []*model.Professional{partner, pending},
	}

	views := pr.Project(model.RoleClinic, c.ID, "ana", snap)
	assert.Len(t, views.Partners, 1)
	assert.Empty(t, views.Pending)
	assert.Empty(t, views.Available)
}

func TestProjectMissingCounterparty(t *testing.T) {
	pr := NewProjector(metrics.New("test"))

	c := clinic("Clínica Vida", "12.345.678/0001-90")
	goneID := uuid.New()

	snap := Snapshot{
		Partnerships: []*model.Partnership{
			partnershipBetween(c.ID, goneID, model.ApprovalApproved, model.ApprovalApproved),
		},
	}

	views := pr.Project(model.RoleClinic, c.ID, "", snap)
	require.Len(t, views.Partners, 1)

	cp := views.Partners[0].Counterparty
	assert.False(t, cp.Found)
	assert.Equal(t, goneID, cp.MissingID)
	assert.Nil(t, cp.Professional)

	// A dangling reference has nothing to match a query against.
	filtered := pr.Project(model.RoleClinic, c.ID, "ana", snap)
	assert.Empty(t, filtered.Partners)
}

func TestProjectCacheInvalidatesOnSnapshotChange(t *testing.T) {
	pr := NewProjector(metrics.New("test"))

	c := clinic("Clínica Vida", "12.345.678/0001-90")
	p := professional("Ana Souza", "Cardiologia")

	snap := Snapshot{Professionals: []*model.Professional{p}}

	first := pr.Project(model.RoleClinic, c.ID, "", snap)
	assert.Len(t, first.Available, 1)

	// Same snapshot serves the cached result.
	again := pr.Project(model.RoleClinic, c.ID, "", snap)
	assert.Same(t, first, again)

	// A changed record produces a fresh projection.
	record := partnershipBetween(c.ID, p.ID, model.ApprovalApproved, model.ApprovalPending)
	changed := Snapshot{
		Partnerships:  []*model.Partnership{record},
		Professionals: []*model.Professional{p},
	}
	fresh := pr.Project(model.RoleClinic, c.ID, "", changed)
	assert.Empty(t, fresh.Available)
	assert.Len(t, fresh.Pending, 1)
}

func TestSnapshotKeyOrderIndependent(t *testing.T) {
	a := professional("Ana Souza", "Cardiologia")
	b := professional("Bruno Lima", "Ortopedia")
	actorID := uuid.New()

	k1 := snapshotKey(model.RoleClinic, actorID, "", Snapshot{Professionals: []*model.Professional{a, b}})
	k2 := snapshotKey(model.RoleClinic, actorID, "", Snapshot{Professionals: []*model.Professional{b, a}})
	assert.Equal(t, k1, k2)

	k3 := snapshotKey(model.RoleClinic, actorID, "ana", Snapshot{Professionals: []*model.Professional{a, b}})
	assert.NotEqual(t, k1, k3)
}
