package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskZone is an operator-declared polygon under active alert. Geometry is
// stored as raw JSON coordinate rings (closed, first point equal to last) and
// parsed with pkg/geo before any containment test.
type RiskZone struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Geometry    string    `json:"geometry"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
