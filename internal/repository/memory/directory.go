package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
)

// EntityDirectory is an in-memory read-only lookup seeded up front.
type EntityDirectory struct {
	mu            sync.RWMutex
	professionals map[uuid.UUID]model.Professional
	clinics       map[uuid.UUID]model.Clinic
}

func NewEntityDirectory() *EntityDirectory {
	return &EntityDirectory{
		professionals: make(map[uuid.UUID]model.Professional),
		clinics:       make(map[uuid.UUID]model.Clinic),
	}
}

// SeedProfessional registers a professional in the directory.
func (d *EntityDirectory) SeedProfessional(p model.Professional) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.professionals[p.ID] = p
}

// SeedClinic registers a clinic in the directory.
func (d *EntityDirectory) SeedClinic(c model.Clinic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clinics[c.ID] = c
}

func (d *EntityDirectory) GetProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.professionals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (d *EntityDirectory) ListProfessionals(ctx context.Context) ([]*model.Professional, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*model.Professional, 0, len(d.professionals))
	for _, p := range d.professionals {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (d *EntityDirectory) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.clinics[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (d *EntityDirectory) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*model.Clinic, 0, len(d.clinics))
	for _, c := range d.clinics {
		c := c
		out = append(out, &c)
	}
	return out, nil
}
