package models

import (
	"time"

	"github.com/google/uuid"
)

// Safety statuses for a citizen inside a risk zone. A record starts pending,
// becomes safe or unsafe on the citizen's answer, and is deleted entirely when
// the citizen leaves the zone or the zone itself is deactivated.
const (
	SafetyPending = "pending"
	SafetySafe    = "safe"
	SafetyUnsafe  = "unsafe"
)

// SafetyStatus tracks whether one citizen inside one risk zone has confirmed
// their safety. At most one record exists per (citizen, zone) pair.
type SafetyStatus struct {
	ID          uuid.UUID  `json:"id"`
	CitizenID   string     `json:"citizen_id"`
	DisplayName string     `json:"display_name"`
	ZoneID      uuid.UUID  `json:"zone_id"`
	Status      string     `json:"status"`
	Location    Location   `json:"location"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdate  time.Time  `json:"last_update"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Responded reports whether the citizen already answered for this zone.
// Answers are terminal until the citizen leaves the zone.
func (s *SafetyStatus) Responded() bool {
	return s.Status == SafetySafe || s.Status == SafetyUnsafe
}
