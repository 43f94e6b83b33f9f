package service

import (
	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/pkg/geo"
)

// NearestWithin picks the incident a report at loc would merge into, given a
// snapshot of incidents: the nearest active one whose anchor lies within
// radiusMeters, oldest first on equal distance. Returns nil when nothing is
// in range. This is the pure form of the proximity query the store runs
// inside the submit transaction; clients use it to preview the merge
// decision against their local view.
func NearestWithin(incidents []*models.Incident, loc models.Location, radiusMeters float64) *models.Incident {
	point := geo.Point{Lat: loc.Lat, Lng: loc.Lng}

	var (
		best     *models.Incident
		bestDist float64
	)
	for _, incident := range incidents {
		if !models.IsActiveStatus(incident.Status) {
			continue
		}
		anchor := geo.Point{Lat: incident.Location.Lat, Lng: incident.Location.Lng}
		dist := geo.Distance(point, anchor)
		if dist > radiusMeters {
			continue
		}
		switch {
		case best == nil:
			best, bestDist = incident, dist
		case dist < bestDist:
			best, bestDist = incident, dist
		case dist == bestDist && incident.CreatedAt.Before(best.CreatedAt):
			best = incident
		}
	}
	return best
}
