// Package live fans the store's change feed out to connected clients.
// Repositories commit, services publish one event per committed document, and
// the hub delivers ordered added/modified/removed events (full payloads) to
// every websocket subscriber of the matching topic.
package live

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// Feed topics. Citizens follow incidents and zones; operator consoles follow
// all three.
const (
	TopicIncidents = "incidents"
	TopicSafety    = "safety"
	TopicZones     = "zones"
)

// Channel is the Redis pub/sub channel carrying the change feed.
const Channel = "live_events"

// IncidentEvent builds a change event carrying the full incident document.
// Resolution is always a removal: resolved incidents have no stored form.
func IncidentEvent(changeType string, incident *models.Incident) liveview.Event {
	ev := liveview.Event{
		Type:  changeType,
		Topic: TopicIncidents,
		Key:   incident.ID.String(),
	}
	if changeType != liveview.Removed {
		ev.Doc, _ = json.Marshal(incident)
	}
	return ev
}

// SafetyEvent builds a change event for a safety status record.
func SafetyEvent(changeType string, status *models.SafetyStatus) liveview.Event {
	ev := liveview.Event{
		Type:  changeType,
		Topic: TopicSafety,
		Key:   status.ID.String(),
	}
	if changeType != liveview.Removed {
		ev.Doc, _ = json.Marshal(status)
	}
	return ev
}

// SafetyRemoved builds the removal event for a deleted safety record by id,
// for the cases where only the id survives the delete.
func SafetyRemoved(id uuid.UUID) liveview.Event {
	return liveview.Event{
		Type:  liveview.Removed,
		Topic: TopicSafety,
		Key:   id.String(),
	}
}

// ZoneEvent builds a change event for a risk zone. Deactivation is delivered
// as a removal so subscribers drop the zone from their views.
func ZoneEvent(changeType string, zone *models.RiskZone) liveview.Event {
	ev := liveview.Event{
		Type:  changeType,
		Topic: TopicZones,
		Key:   zone.ID.String(),
	}
	if changeType != liveview.Removed {
		ev.Doc, _ = json.Marshal(zone)
	}
	return ev
}
