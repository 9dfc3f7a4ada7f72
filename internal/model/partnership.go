package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the state of one party's approval flag.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ActorRole identifies which side of a partnership a command acts for.
type ActorRole string

const (
	RoleClinic       ActorRole = "clinic"
	RoleProfessional ActorRole = "professional"
)

// Opposite returns the counterparty role.
func (r ActorRole) Opposite() ActorRole {
	if r == RoleClinic {
		return RoleProfessional
	}
	return RoleClinic
}

func (r ActorRole) Valid() bool {
	return r == RoleClinic || r == RoleProfessional
}

// PartnershipStatus is derived from the two approval flags; it is never
// stored independently.
type PartnershipStatus string

const (
	StatusActive              PartnershipStatus = "ACTIVE"
	StatusRejected            PartnershipStatus = "REJECTED"
	StatusPendingClinic       PartnershipStatus = "PENDING_CLINIC"
	StatusPendingProfessional PartnershipStatus = "PENDING_PROFESSIONAL"
)

// Partnership links a clinic and an independent professional. Both sides
// hold their own approval flag; the record is Active only when both are
// Approved, and terminal once either is Rejected.
type Partnership struct {
	ID                   uuid.UUID      `db:"id" json:"id"`
	ClinicID             uuid.UUID      `db:"clinic_id" json:"clinic_id"`
	ProfessionalID       uuid.UUID      `db:"professional_id" json:"professional_id"`
	ClinicApproved       ApprovalStatus `db:"clinic_approved" json:"clinic_approved"`
	ProfessionalApproved ApprovalStatus `db:"professional_approved" json:"professional_approved"`
	Message              string         `db:"message" json:"message"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// Status derives the overall state from the two flags. (Pending, Pending)
// cannot occur: creation always sets the initiator's flag Approved.
func (p *Partnership) Status() PartnershipStatus {
	switch {
	case p.ClinicApproved == ApprovalRejected || p.ProfessionalApproved == ApprovalRejected:
		return StatusRejected
	case p.ClinicApproved == ApprovalApproved && p.ProfessionalApproved == ApprovalApproved:
		return StatusActive
	case p.ClinicApproved == ApprovalApproved:
		return StatusPendingProfessional
	default:
		return StatusPendingClinic
	}
}

// Live reports whether the record still occupies the pair, i.e. neither
// flag is Rejected. A non-live pair is available again.
func (p *Partnership) Live() bool {
	return p.ClinicApproved != ApprovalRejected && p.ProfessionalApproved != ApprovalRejected
}

// Involves reports whether the given actor is one of the two parties.
func (p *Partnership) Involves(role ActorRole, id uuid.UUID) bool {
	switch role {
	case RoleClinic:
		return p.ClinicID == id
	case RoleProfessional:
		return p.ProfessionalID == id
	}
	return false
}

// CounterpartyID returns the id of the entity opposite the given role.
func (p *Partnership) CounterpartyID(role ActorRole) uuid.UUID {
	if role == RoleClinic {
		return p.ProfessionalID
	}
	return p.ClinicID
}

// Flag returns the approval flag owned by the given role.
func (p *Partnership) Flag(role ActorRole) ApprovalStatus {
	if role == RoleClinic {
		return p.ClinicApproved
	}
	return p.ProfessionalApproved
}

// SetFlag sets the approval flag owned by the given role.
func (p *Partnership) SetFlag(role ActorRole, status ApprovalStatus) {
	if role == RoleClinic {
		p.ClinicApproved = status
		return
	}
	p.ProfessionalApproved = status
}
