package model

import (
	"time"

	"github.com/google/uuid"
)

// Professional is owned by the entity directory; the partnership engine
// only reads it.
type Professional struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Specialty     string    `db:"specialty" json:"specialty"`
	CouncilNumber string    `db:"council_number" json:"council_number"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
