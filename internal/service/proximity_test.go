package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/defesacivil/citizen_incident_system/internal/models"
)

// Roughly 111.2 m per 0.001 degrees of latitude.
func incidentAt(lat, lng float64, createdAt time.Time) *models.Incident {
	return &models.Incident{
		ID:        uuid.New(),
		Location:  models.Location{Lat: lat, Lng: lng},
		Status:    models.StatusOpen,
		CreatedAt: createdAt,
	}
}

func TestNearestWithin_PicksNearest(t *testing.T) {
	now := time.Now()
	near := incidentAt(0.0003, 0, now) // ~33 m
	far := incidentAt(0.0008, 0, now)  // ~89 m
	out := incidentAt(0.002, 0, now)   // ~222 m

	got := NearestWithin([]*models.Incident{out, far, near}, models.Location{Lat: 0, Lng: 0}, 100)

	assert.Equal(t, near.ID, got.ID)
}

func TestNearestWithin_MergeRadiusBoundary(t *testing.T) {
	now := time.Now()
	origin := models.Location{Lat: 0, Lng: 0}
	justInside := incidentAt(0.00089, 0, now)   // ~99 m
	justOutside := incidentAt(0.000909, 0, now) // ~101 m

	assert.NotNil(t, NearestWithin([]*models.Incident{justInside}, origin, 100))
	assert.Nil(t, NearestWithin([]*models.Incident{justOutside}, origin, 100))
}

func TestNearestWithin_NothingInRange(t *testing.T) {
	now := time.Now()
	incidents := []*models.Incident{
		incidentAt(0.002, 0, now),
		incidentAt(0, 0.002, now),
	}

	got := NearestWithin(incidents, models.Location{Lat: 0, Lng: 0}, 100)

	assert.Nil(t, got)
}

func TestNearestWithin_OldestWinsOnTie(t *testing.T) {
	now := time.Now()
	older := incidentAt(0.0005, 0, now.Add(-time.Hour))
	newer := incidentAt(-0.0005, 0, now)

	// Both anchors sit at the same distance from the origin.
	got := NearestWithin([]*models.Incident{newer, older}, models.Location{Lat: 0, Lng: 0}, 100)

	assert.Equal(t, older.ID, got.ID)
}

func TestNearestWithin_EmptySnapshot(t *testing.T) {
	assert.Nil(t, NearestWithin(nil, models.Location{Lat: 0, Lng: 0}, 100))
}

func TestNearestWithin_BoundaryIsInclusive(t *testing.T) {
	now := time.Now()
	onEdge := incidentAt(0, 0, now)

	got := NearestWithin([]*models.Incident{onEdge}, models.Location{Lat: 0, Lng: 0}, 0)

	assert.NotNil(t, got)
}
