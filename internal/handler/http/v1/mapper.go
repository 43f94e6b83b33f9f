package v1

import (
	"encoding/json"

	"github.com/defesacivil/citizen_incident_system/internal/models"
)

// ModelToIncidentResponse converts a domain incident into its response DTO.
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	members := make([]MemberResponse, len(model.Members))
	for i, m := range model.Members {
		members[i] = MemberResponse{
			CitizenID:   m.CitizenID,
			DisplayName: m.DisplayName,
			Type:        m.Type,
			Description: m.Description,
			ReportedAt:  m.ReportedAt,
		}
	}
	return &IncidentResponse{
		ID:        model.ID,
		Latitude:  model.Location.Lat,
		Longitude: model.Location.Lng,
		Status:    model.Status,
		Types:     model.Types,
		Members:   members,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// ModelsToIncidentResponses converts a slice of domain incidents to DTOs.
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, incident := range incidents {
		responses[i] = ModelToIncidentResponse(incident)
	}
	return responses
}

// ModelToSafetyStatusResponse converts a domain safety record into its DTO.
func ModelToSafetyStatusResponse(model *models.SafetyStatus) *SafetyStatusResponse {
	return &SafetyStatusResponse{
		ID:          model.ID,
		CitizenID:   model.CitizenID,
		DisplayName: model.DisplayName,
		ZoneID:      model.ZoneID,
		Status:      model.Status,
		Latitude:    model.Location.Lat,
		Longitude:   model.Location.Lng,
		CreatedAt:   model.CreatedAt,
		LastUpdate:  model.LastUpdate,
		RespondedAt: model.RespondedAt,
	}
}

// ModelsToSafetyStatusResponses converts a slice of safety records to DTOs.
func ModelsToSafetyStatusResponses(statuses []*models.SafetyStatus) []*SafetyStatusResponse {
	responses := make([]*SafetyStatusResponse, len(statuses))
	for i, status := range statuses {
		responses[i] = ModelToSafetyStatusResponse(status)
	}
	return responses
}

// ModelToZoneResponse converts a domain risk zone into its DTO. Geometry is
// stored as raw JSON and passed through untouched.
func ModelToZoneResponse(model *models.RiskZone) *ZoneResponse {
	return &ZoneResponse{
		ID:          model.ID,
		Description: model.Description,
		Geometry:    json.RawMessage(model.Geometry),
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ModelsToZoneResponses converts a slice of risk zones to DTOs.
func ModelsToZoneResponses(zones []*models.RiskZone) []*ZoneResponse {
	responses := make([]*ZoneResponse, len(zones))
	for i, zone := range zones {
		responses[i] = ModelToZoneResponse(zone)
	}
	return responses
}
