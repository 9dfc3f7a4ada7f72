package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Partnership lifecycle event types published through the outbox.
const (
	EventPartnershipRequested = "partnership.requested"
	EventPartnershipApproved  = "partnership.approved"
	EventPartnershipRejected  = "partnership.rejected"
	EventPartnershipRemoved   = "partnership.removed"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
}

// PartnershipEvent is the payload carried by partnership outbox events.
type PartnershipEvent struct {
	PartnershipID  uuid.UUID         `json:"partnership_id"`
	ClinicID       uuid.UUID         `json:"clinic_id"`
	ProfessionalID uuid.UUID         `json:"professional_id"`
	Status         PartnershipStatus `json:"status"`
	ActorRole      ActorRole         `json:"actor_role"`
	Message        string            `json:"message,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}
