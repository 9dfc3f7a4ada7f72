package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
)

// Sentinel errors returned by repository implementations. The engine maps
// them onto its user-facing error taxonomy.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrConflict     = errors.New("version conflict")
)

// PartnershipPatch is the set of fields a conditional update may change.
// Nil approval pointers leave the corresponding flag untouched.
type PartnershipPatch struct {
	ClinicApproved       *model.ApprovalStatus
	ProfessionalApproved *model.ApprovalStatus
	UpdatedAt            time.Time
}

// All repository interfaces in one file
type (
	// PartnershipRepository stores the only mutable entity of the engine.
	PartnershipRepository interface {
		// Insert persists a new record; it fails with ErrDuplicateKey when a
		// live (neither flag rejected) record already exists for the pair.
		// The duplicate check is atomic with the insert.
		Insert(ctx context.Context, p *model.Partnership) error
		Get(ctx context.Context, id uuid.UUID) (*model.Partnership, error)
		ListAll(ctx context.Context) ([]*model.Partnership, error)
		// CompareAndUpdate applies the patch only if the stored UpdatedAt
		// still equals expectedVersion; otherwise it fails with ErrConflict.
		CompareAndUpdate(ctx context.Context, id uuid.UUID, expectedVersion time.Time, patch PartnershipPatch) (*model.Partnership, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	// EntityDirectory is the read-only lookup of professionals and clinics.
	// The engine never mutates these records.
	EntityDirectory interface {
		GetProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error)
		ListProfessionals(ctx context.Context) ([]*model.Professional, error)
		GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		ListClinics(ctx context.Context) ([]*model.Clinic, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
