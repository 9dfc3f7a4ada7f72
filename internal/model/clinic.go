package model

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is owned by the entity directory; the partnership engine only
// reads it.
type Clinic struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	LegalName          string    `db:"legal_name" json:"legal_name"`
	FantasyName        string    `db:"fantasy_name" json:"fantasy_name"`
	RegistrationNumber string    `db:"registration_number" json:"registration_number"`
	Email              string    `db:"email" json:"email"`
	Phone              string    `db:"phone" json:"phone"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
