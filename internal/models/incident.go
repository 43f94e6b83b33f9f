package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident statuses. "resolved" is never persisted: resolving an incident
// deletes its record, so live views only ever see the three active statuses.
const (
	StatusOpen       = "open"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// Report types accepted from citizens.
const (
	TypeFlooding  = "flooding"
	TypeLandslide = "landslide"
	TypeFire      = "fire"
	TypeAccident  = "accident"
	TypeOther     = "other"
)

// ActiveStatuses are the statuses that count toward the
// one-active-report-per-citizen guard.
var ActiveStatuses = []string{StatusOpen, StatusConfirmed, StatusInProgress}

// IsActiveStatus reports whether a status counts as active.
func IsActiveStatus(status string) bool {
	for _, s := range ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// statusRank orders the lifecycle chain. Transitions may only move forward.
var statusRank = map[string]int{
	StatusOpen:       0,
	StatusConfirmed:  1,
	StatusInProgress: 2,
	StatusResolved:   3,
}

// CanTransition reports whether an operator may move an incident from one
// status to another. Only strictly forward moves along the chain are legal.
func CanTransition(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Location is a WGS84 point.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Member is one citizen's report contribution within an incident.
// Members are kept in join order; a citizen appears at most once.
type Member struct {
	CitizenID   string    `json:"citizen_id"`
	DisplayName string    `json:"display_name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ReportedAt  time.Time `json:"reported_at"`
}

// Incident is a persisted cluster of one or more citizen reports sharing
// approximate location and active status. Location is the anchor point set by
// the first reporter and never recomputed as members join.
type Incident struct {
	ID        uuid.UUID `json:"id"`
	Location  Location  `json:"location"`
	Status    string    `json:"status"`
	Types     []string  `json:"types"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasMember reports whether the citizen already contributed to this incident.
func (i *Incident) HasMember(citizenID string) bool {
	for _, m := range i.Members {
		if m.CitizenID == citizenID {
			return true
		}
	}
	return false
}

// HasType reports whether the incident already carries the given type tag.
func (i *Incident) HasType(t string) bool {
	for _, existing := range i.Types {
		if existing == t {
			return true
		}
	}
	return false
}
