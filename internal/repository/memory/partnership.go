package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
)

// PartnershipRepository is an in-memory implementation with the same
// create-if-absent and compare-and-update semantics as the postgres one.
// It backs unit tests and local development.
type PartnershipRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]model.Partnership
}

func NewPartnershipRepository() *PartnershipRepository {
	return &PartnershipRepository{records: make(map[uuid.UUID]model.Partnership)}
}

func (r *PartnershipRepository) Insert(ctx context.Context, p *model.Partnership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.ClinicID == p.ClinicID && existing.ProfessionalID == p.ProfessionalID && existing.Live() {
			return repository.ErrDuplicateKey
		}
	}

	r.records[p.ID] = *p
	return nil
}

func (r *PartnershipRepository) Get(ctx context.Context, id uuid.UUID) (*model.Partnership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PartnershipRepository) ListAll(ctx context.Context) ([]*model.Partnership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Partnership, 0, len(r.records))
	for _, p := range r.records {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *PartnershipRepository) CompareAndUpdate(ctx context.Context, id uuid.UUID, expectedVersion time.Time, patch repository.PartnershipPatch) (*model.Partnership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !p.UpdatedAt.Equal(expectedVersion) {
		return nil, repository.ErrConflict
	}

	if patch.ClinicApproved != nil {
		p.ClinicApproved = *patch.ClinicApproved
	}
	if patch.ProfessionalApproved != nil {
		p.ProfessionalApproved = *patch.ProfessionalApproved
	}
	p.UpdatedAt = patch.UpdatedAt

	r.records[id] = p
	return &p, nil
}

func (r *PartnershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	return nil
}
