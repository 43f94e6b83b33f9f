package service

import (
	"context"
	"fmt"

	"github.com/defesacivil/citizen_incident_system/internal/live"
	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// FeedSnapshot renders the current store state as a sequence of added events.
// The hub replays it into its projections on startup, and replaying it over a
// live projection converges to the same state.
type FeedSnapshot struct {
	incidents IncidentRepository
	safety    SafetyRepository
	zones     ZoneRepository
}

func NewFeedSnapshot(incidents IncidentRepository, safety SafetyRepository, zones ZoneRepository) *FeedSnapshot {
	return &FeedSnapshot{incidents: incidents, safety: safety, zones: zones}
}

// SnapshotEvents lists every active incident, open safety status and active
// zone as added events, grouped by topic.
func (f *FeedSnapshot) SnapshotEvents(ctx context.Context) ([]liveview.Event, error) {
	var events []liveview.Event

	incidents, err := f.incidents.ListAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: could not list active incidents: %w", err)
	}
	for _, incident := range incidents {
		events = append(events, live.IncidentEvent(liveview.Added, incident))
	}

	statuses, err := f.safety.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: could not list open safety statuses: %w", err)
	}
	for _, status := range statuses {
		events = append(events, live.SafetyEvent(liveview.Added, status))
	}

	zones, err := f.zones.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: could not list risk zones: %w", err)
	}
	for _, zone := range zones {
		events = append(events, live.ZoneEvent(liveview.Added, zone))
	}

	return events, nil
}
