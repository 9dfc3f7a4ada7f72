package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
)

type partnershipRepository struct {
	BaseRepository
}

func NewPartnershipRepository(base BaseRepository) repository.PartnershipRepository {
	return &partnershipRepository{base}
}

// Insert relies on the partial unique index over (clinic_id, professional_id)
// for live rows, so the duplicate check is atomic with the write.
func (r *partnershipRepository) Insert(ctx context.Context, p *model.Partnership) error {
	query := `
		INSERT INTO partnerships (
			id, clinic_id, professional_id, clinic_approved, professional_approved,
			message, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ClinicID,
		p.ProfessionalID,
		p.ClinicApproved,
		p.ProfessionalApproved,
		p.Message,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert partnership: %w", err)
	}
	return nil
}

func (r *partnershipRepository) Get(ctx context.Context, id uuid.UUID) (*model.Partnership, error) {
	query := `
		SELECT
			id, clinic_id, professional_id, clinic_approved, professional_approved,
			message, created_at, updated_at
		FROM partnerships
		WHERE id = $1
	`
	var p model.Partnership
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get partnership: %w", err)
	}
	return &p, nil
}

func (r *partnershipRepository) ListAll(ctx context.Context) ([]*model.Partnership, error) {
	query := `
		SELECT
			id, clinic_id, professional_id, clinic_approved, professional_approved,
			message, created_at, updated_at
		FROM partnerships
	`
	var partnerships []*model.Partnership
	if err := r.db.SelectContext(ctx, &partnerships, query); err != nil {
		return nil, fmt.Errorf("failed to list partnerships: %w", err)
	}
	return partnerships, nil
}

// CompareAndUpdate writes the patch only when the stored updated_at still
// matches expectedVersion. Zero affected rows means either a concurrent
// writer won or the record is gone; the follow-up read tells them apart.
func (r *partnershipRepository) CompareAndUpdate(ctx context.Context, id uuid.UUID, expectedVersion time.Time, patch repository.PartnershipPatch) (*model.Partnership, error) {
	query := `
		UPDATE partnerships
		SET clinic_approved = COALESCE($1, clinic_approved),
			professional_approved = COALESCE($2, professional_approved),
			updated_at = $3
		WHERE id = $4 AND updated_at = $5
		RETURNING
			id, clinic_id, professional_id, clinic_approved, professional_approved,
			message, created_at, updated_at
	`
	var p model.Partnership
	err := r.db.GetContext(ctx, &p, query,
		patch.ClinicApproved,
		patch.ProfessionalApproved,
		patch.UpdatedAt,
		id,
		expectedVersion,
	)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update partnership: %w", err)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM partnerships WHERE id = $1)`, id); err != nil {
		return nil, fmt.Errorf("failed to check partnership existence: %w", err)
	}
	if exists {
		return nil, repository.ErrConflict
	}
	return nil, repository.ErrNotFound
}

func (r *partnershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM partnerships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete partnership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
