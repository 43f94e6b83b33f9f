package v1

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubmitReportRequest is the payload a citizen sends to report an incident.
// @Description Citizen incident report submission
type SubmitReportRequest struct {
	CitizenID   string  `json:"citizen_id" validate:"required"`
	DisplayName string  `json:"display_name" validate:"required,min=1,max=255"`
	Type        string  `json:"type" validate:"required,oneof=flooding landslide fire accident other"`
	Description string  `json:"description,omitempty" validate:"max=2000"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
}

// SubmitReportResponse tells the citizen which incident their report ended up
// in and whether it was merged into an existing one.
// @Description Report submission outcome
type SubmitReportResponse struct {
	IncidentID uuid.UUID `json:"incident_id"`
	Merged     bool      `json:"merged"`
}

// MemberResponse is one citizen report inside an incident.
// @Description Individual report inside an incident
type MemberResponse struct {
	CitizenID   string    `json:"citizen_id"`
	DisplayName string    `json:"display_name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
}

// IncidentResponse is the full incident document.
// @Description Incident with all member reports
type IncidentResponse struct {
	ID        uuid.UUID        `json:"id"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Status    string           `json:"status"`
	Types     []string         `json:"types"`
	Members   []MemberResponse `json:"members"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// UpdateStatusRequest advances one incident through its lifecycle.
// @Description Lifecycle transition request
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in-progress resolved"`
}

// BulkUpdateStatusRequest applies one transition to several incidents at
// once, atomically.
// @Description Bulk lifecycle transition request
type BulkUpdateStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1"`
	Status string      `json:"status" validate:"required,oneof=confirmed in-progress resolved"`
}

// PositionRequest is a citizen position update for risk-zone tracking.
// @Description Citizen position update
type PositionRequest struct {
	CitizenID   string  `json:"citizen_id" validate:"required"`
	DisplayName string  `json:"display_name" validate:"required,min=1,max=255"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
}

// PositionResponse reports the zone membership outcome for a position update.
// @Description Zone membership outcome
type PositionResponse struct {
	InZone bool                  `json:"in_zone"`
	Prompt bool                  `json:"prompt"`
	Zone   *ZoneResponse         `json:"zone,omitempty"`
	Status *SafetyStatusResponse `json:"status,omitempty"`
}

// SafetyResponseRequest is a citizen's answer to the safety prompt.
// @Description Safety prompt answer
type SafetyResponseRequest struct {
	CitizenID string    `json:"citizen_id" validate:"required"`
	ZoneID    uuid.UUID `json:"zone_id" validate:"required"`
	Answer    string    `json:"answer" validate:"required,oneof=safe unsafe"`
}

// SafetyStatusResponse is one tracked citizen-in-zone record.
// @Description Safety status record
type SafetyStatusResponse struct {
	ID          uuid.UUID  `json:"id"`
	CitizenID   string     `json:"citizen_id"`
	DisplayName string     `json:"display_name"`
	ZoneID      uuid.UUID  `json:"zone_id"`
	Status      string     `json:"status"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdate  time.Time  `json:"last_update"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// CreateZoneRequest declares a new risk zone.
// @Description Risk zone declaration
type CreateZoneRequest struct {
	Description string          `json:"description" validate:"required,min=2,max=500"`
	Geometry    json.RawMessage `json:"geometry" validate:"required"`
}

// ZoneResponse is one risk zone.
// @Description Risk zone
type ZoneResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Geometry    json.RawMessage `json:"geometry"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
