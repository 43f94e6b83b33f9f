package service

//go:generate mockgen -source=safety.go -destination=mocks/safety_mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/defesacivil/citizen_incident_system/internal/live"
	"github.com/defesacivil/citizen_incident_system/internal/metrics"
	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/internal/webhook"
	"github.com/defesacivil/citizen_incident_system/pkg/geo"
	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// SafetyRepository is the contract for the safety status store.
type SafetyRepository interface {
	GetByCitizenZone(ctx context.Context, citizenID string, zoneID uuid.UUID) (*models.SafetyStatus, error)
	ListByCitizen(ctx context.Context, citizenID string) ([]*models.SafetyStatus, error)
	ListOpen(ctx context.Context) ([]*models.SafetyStatus, error)
	Create(ctx context.Context, status *models.SafetyStatus) error
	UpdateLocation(ctx context.Context, id uuid.UUID, loc models.Location) (*models.SafetyStatus, error)
	SetResponse(ctx context.Context, id uuid.UUID, answer string) (*models.SafetyStatus, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByZone(ctx context.Context, zoneID uuid.UUID) ([]uuid.UUID, error)
}

// ZoneRepository is the contract for the risk zone store.
type ZoneRepository interface {
	ListActive(ctx context.Context) ([]*models.RiskZone, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.RiskZone, error)
	Create(ctx context.Context, zone *models.RiskZone) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// PromptSessionStore remembers which (citizen, zone) pairs were prompted this
// session, independent of the persisted safety record.
type PromptSessionStore interface {
	Seen(ctx context.Context, citizenID string, zoneID uuid.UUID) (bool, error)
	Mark(ctx context.Context, citizenID string, zoneID uuid.UUID) error
	Clear(ctx context.Context, citizenID string, zoneID uuid.UUID) error
}

// PositionResult tells the caller what a position update led to: whether the
// citizen is inside a zone, the tracked record, and whether the client
// should show the safety prompt now.
type PositionResult struct {
	InZone bool
	Zone   *models.RiskZone
	Status *models.SafetyStatus
	Prompt bool
}

// SafetyService is the contract for risk-zone membership tracking.
type SafetyService interface {
	HandlePosition(ctx context.Context, citizenID, displayName string, loc models.Location) (*PositionResult, error)
	Respond(ctx context.Context, citizenID string, zoneID uuid.UUID, answer string) (*models.SafetyStatus, error)
	ListOpenStatuses(ctx context.Context) ([]*models.SafetyStatus, error)
	ListActiveZones(ctx context.Context) ([]*models.RiskZone, error)
	CreateZone(ctx context.Context, description, geometry string) (*models.RiskZone, error)
	DeactivateZone(ctx context.Context, id uuid.UUID) error
}

type safetyService struct {
	safetyRepo SafetyRepository
	zoneRepo   ZoneRepository
	sessions   PromptSessionStore
	feed       live.Publisher
	alerts     webhook.AlertPublisher
	metrics    *metrics.Metrics
	clock      clockwork.Clock
	logger     *logrus.Logger
}

func NewSafetyService(safetyRepo SafetyRepository, zoneRepo ZoneRepository, sessions PromptSessionStore, feed live.Publisher, alerts webhook.AlertPublisher, m *metrics.Metrics, clock clockwork.Clock, logger *logrus.Logger) SafetyService {
	return &safetyService{
		safetyRepo: safetyRepo,
		zoneRepo:   zoneRepo,
		sessions:   sessions,
		feed:       feed,
		alerts:     alerts,
		metrics:    m,
		clock:      clock,
		logger:     logger,
	}
}

// HandlePosition runs the zone membership scan for one position update. The
// first active zone containing the point wins; a citizen is attributed to at
// most one zone at a time. Records whose zone disappeared, or whose zone no
// longer contains the citizen, are deleted so re-entry starts fresh.
func (s *safetyService) HandlePosition(ctx context.Context, citizenID, displayName string, loc models.Location) (*PositionResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "safety",
		"method":     "HandlePosition",
		"citizen_id": citizenID,
	})

	zones, err := s.zoneRepo.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list active risk zones")
		return nil, fmt.Errorf("service: could not list risk zones: %w", err)
	}

	point := geo.Point{Lat: loc.Lat, Lng: loc.Lng}
	polygons := make(map[uuid.UUID]geo.Polygon, len(zones))

	var matched *models.RiskZone
	for _, zone := range zones {
		poly, err := geo.ParsePolygon([]byte(zone.Geometry))
		if err != nil {
			log.WithError(err).WithField("zone_id", zone.ID).Warn("Skipping zone with bad geometry")
			continue
		}
		polygons[zone.ID] = poly
		if matched == nil && poly.Contains(point) {
			matched = zone
		}
	}

	if err := s.cleanupStale(ctx, log, citizenID, point, matched, polygons); err != nil {
		return nil, err
	}

	if matched == nil {
		return &PositionResult{InZone: false}, nil
	}
	log = log.WithField("zone_id", matched.ID)

	existing, err := s.safetyRepo.GetByCitizenZone(ctx, citizenID, matched.ID)
	if err != nil {
		log.WithError(err).Error("Failed to read safety status")
		return nil, fmt.Errorf("service: could not read safety status: %w", err)
	}

	if existing == nil {
		status := &models.SafetyStatus{
			CitizenID:   citizenID,
			DisplayName: displayName,
			ZoneID:      matched.ID,
			Status:      models.SafetyPending,
			Location:    loc,
		}
		if err := s.safetyRepo.Create(ctx, status); err != nil {
			log.WithError(err).Error("Failed to create pending safety status")
			return nil, fmt.Errorf("service: could not create safety status: %w", err)
		}
		s.publish(ctx, log, live.SafetyEvent(liveview.Added, status))

		if err := s.sessions.Mark(ctx, citizenID, matched.ID); err != nil {
			log.WithError(err).Warn("Failed to mark prompt session")
		}
		s.metrics.SafetyPrompts.Inc()
		log.Info("Citizen entered risk zone, prompting for safety confirmation")
		return &PositionResult{InZone: true, Zone: matched, Status: status, Prompt: true}, nil
	}

	updated, err := s.safetyRepo.UpdateLocation(ctx, existing.ID, loc)
	if err != nil {
		log.WithError(err).Error("Failed to update safety status location")
		return nil, fmt.Errorf("service: could not update safety status: %w", err)
	}
	s.publish(ctx, log, live.SafetyEvent(liveview.Modified, updated))

	prompt := false
	if updated.Status == models.SafetyPending {
		seen, err := s.sessions.Seen(ctx, citizenID, matched.ID)
		if err != nil {
			log.WithError(err).Warn("Failed to check prompt session")
		}
		if !seen {
			prompt = true
			if err := s.sessions.Mark(ctx, citizenID, matched.ID); err != nil {
				log.WithError(err).Warn("Failed to mark prompt session")
			}
			s.metrics.SafetyPrompts.Inc()
		}
	}

	return &PositionResult{InZone: true, Zone: matched, Status: updated, Prompt: prompt}, nil
}

// cleanupStale deletes the citizen's records for zones that are gone or no
// longer contain them. The matched zone, if any, is left for the caller.
func (s *safetyService) cleanupStale(ctx context.Context, log *logrus.Entry, citizenID string, point geo.Point, matched *models.RiskZone, polygons map[uuid.UUID]geo.Polygon) error {
	statuses, err := s.safetyRepo.ListByCitizen(ctx, citizenID)
	if err != nil {
		log.WithError(err).Error("Failed to list citizen safety statuses")
		return fmt.Errorf("service: could not list safety statuses: %w", err)
	}

	for _, status := range statuses {
		if matched != nil && status.ZoneID == matched.ID {
			continue
		}
		poly, zoneAlive := polygons[status.ZoneID]
		if zoneAlive && poly.Contains(point) {
			// Still inside a secondary zone; keep its record but do not
			// re-attribute. One zone at a time.
			continue
		}

		if err := s.safetyRepo.Delete(ctx, status.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
			log.WithError(err).Error("Failed to delete stale safety status")
			return fmt.Errorf("service: could not delete stale safety status: %w", err)
		}
		if err := s.sessions.Clear(ctx, citizenID, status.ZoneID); err != nil {
			log.WithError(err).Warn("Failed to clear prompt session")
		}
		s.publish(ctx, log, live.SafetyRemoved(status.ID))
		log.WithField("zone_id", status.ZoneID).Info("Citizen left risk zone, status removed")
	}
	return nil
}

// Respond records the citizen's answer for a zone. Answers are terminal for
// the stay: a pair that already answered cannot answer again before leaving.
// An unsafe answer additionally queues an operator alert.
func (s *safetyService) Respond(ctx context.Context, citizenID string, zoneID uuid.UUID, answer string) (*models.SafetyStatus, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "safety",
		"method":     "Respond",
		"citizen_id": citizenID,
		"zone_id":    zoneID,
		"answer":     answer,
	})

	if answer != models.SafetySafe && answer != models.SafetyUnsafe {
		return nil, fmt.Errorf("service: answer must be %q or %q", models.SafetySafe, models.SafetyUnsafe)
	}

	existing, err := s.safetyRepo.GetByCitizenZone(ctx, citizenID, zoneID)
	if err != nil {
		log.WithError(err).Error("Failed to read safety status")
		return nil, fmt.Errorf("service: could not read safety status: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("service: no safety status for citizen in zone: %w", models.ErrNotFound)
	}

	status, err := s.safetyRepo.SetResponse(ctx, existing.ID, answer)
	if err != nil {
		log.WithError(err).Warn("Failed to record safety response")
		return nil, fmt.Errorf("service: could not record safety response: %w", err)
	}

	s.metrics.SafetyResponses.WithLabelValues(answer).Inc()
	s.publish(ctx, log, live.SafetyEvent(liveview.Modified, status))

	if answer == models.SafetyUnsafe {
		event := webhook.AlertEvent{
			CitizenID:   status.CitizenID,
			DisplayName: status.DisplayName,
			ZoneID:      status.ZoneID,
			Status:      status.Status,
			Location:    status.Location,
			Timestamp:   s.clock.Now().UTC(),
		}
		if err := s.alerts.Publish(ctx, event); err != nil {
			log.WithError(err).Error("Failed to queue operator alert")
		}
	}

	log.Info("Safety response recorded")
	return status, nil
}

// ListOpenStatuses returns the records operators watch: pending and unsafe.
func (s *safetyService) ListOpenStatuses(ctx context.Context) ([]*models.SafetyStatus, error) {
	statuses, err := s.safetyRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list open safety statuses: %w", err)
	}
	return statuses, nil
}

// ListActiveZones returns every zone currently under alert.
func (s *safetyService) ListActiveZones(ctx context.Context) ([]*models.RiskZone, error) {
	zones, err := s.zoneRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list risk zones: %w", err)
	}
	return zones, nil
}

// CreateZone validates the polygon geometry and declares a new active zone.
func (s *safetyService) CreateZone(ctx context.Context, description, geometry string) (*models.RiskZone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  "CreateZone",
	})

	if _, err := geo.ParsePolygon([]byte(geometry)); err != nil {
		log.WithError(err).Warn("Rejected zone with invalid geometry")
		return nil, fmt.Errorf("service: %w: %v", models.ErrInvalidGeometry, err)
	}

	zone := &models.RiskZone{
		Description: description,
		Geometry:    geometry,
		Active:      true,
	}
	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		log.WithError(err).Error("Failed to create risk zone")
		return nil, fmt.Errorf("service: could not create risk zone: %w", err)
	}

	s.publish(ctx, log, live.ZoneEvent(liveview.Added, zone))
	log.WithField("zone_id", zone.ID).Info("Risk zone created")
	return zone, nil
}

// DeactivateZone lowers a zone's alert and deletes every safety record the
// zone held, emitting a removal for each so operator views drop them.
func (s *safetyService) DeactivateZone(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  "DeactivateZone",
		"zone_id": id,
	})

	zone, err := s.zoneRepo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to deactivate an unknown zone")
		return fmt.Errorf("service: could not load risk zone: %w", err)
	}

	if err := s.zoneRepo.Deactivate(ctx, id); err != nil {
		log.WithError(err).Error("Failed to deactivate risk zone")
		return fmt.Errorf("service: could not deactivate risk zone: %w", err)
	}

	removed, err := s.safetyRepo.DeleteByZone(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to clear safety statuses for zone")
		return fmt.Errorf("service: could not clear safety statuses: %w", err)
	}

	s.publish(ctx, log, live.ZoneEvent(liveview.Removed, zone))
	for _, statusID := range removed {
		s.publish(ctx, log, live.SafetyRemoved(statusID))
	}

	log.WithField("cleared_statuses", len(removed)).Info("Risk zone deactivated")
	return nil
}

func (s *safetyService) publish(ctx context.Context, log *logrus.Entry, ev liveview.Event) {
	if err := s.feed.Publish(ctx, ev); err != nil {
		log.WithError(err).Error("Failed to publish live event")
	}
}
