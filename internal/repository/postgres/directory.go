package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
)

type entityDirectory struct {
	BaseRepository
}

// NewEntityDirectory returns the read-only professional/clinic lookup.
// These tables are owned by the catalog service, never written here.
func NewEntityDirectory(base BaseRepository) repository.EntityDirectory {
	return &entityDirectory{base}
}

func (r *entityDirectory) GetProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `
		SELECT
			id, name, specialty, council_number, email, phone, created_at, updated_at
		FROM professionals
		WHERE id = $1
	`
	var p model.Professional
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &p, nil
}

func (r *entityDirectory) ListProfessionals(ctx context.Context) ([]*model.Professional, error) {
	query := `
		SELECT
			id, name, specialty, council_number, email, phone, created_at, updated_at
		FROM professionals
	`
	var professionals []*model.Professional
	if err := r.db.SelectContext(ctx, &professionals, query); err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return professionals, nil
}

func (r *entityDirectory) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT
			id, legal_name, fantasy_name, registration_number, email, phone,
			created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var c model.Clinic
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &c, nil
}

func (r *entityDirectory) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	query := `
		SELECT
			id, legal_name, fantasy_name, registration_number, email, phone,
			created_at, updated_at
		FROM clinics
	`
	var clinics []*model.Clinic
	if err := r.db.SelectContext(ctx, &clinics, query); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}
