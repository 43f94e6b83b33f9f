package service

//go:generate mockgen -source=incident.go -destination=mocks/incident_mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/defesacivil/citizen_incident_system/internal/config"
	"github.com/defesacivil/citizen_incident_system/internal/live"
	"github.com/defesacivil/citizen_incident_system/internal/metrics"
	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// DefaultMergeRadiusMeters is the proximity-deduplication radius: a report
// within this distance of an active incident's anchor joins it instead of
// opening a new one.
const DefaultMergeRadiusMeters = 100

// SubmitStore is the transaction-scoped view the clustering engine works
// against. All four calls observe one consistent snapshot: the guard check
// and the merge-or-create write cannot race with a concurrent submission.
type SubmitStore interface {
	ActiveIncidentFor(ctx context.Context, citizenID string) (*models.Incident, error)
	NearestActiveWithin(ctx context.Context, loc models.Location, radiusMeters float64) (*models.Incident, error)
	AppendMember(ctx context.Context, id uuid.UUID, member models.Member) (*models.Incident, error)
	InsertIncident(ctx context.Context, incident *models.Incident) error
}

// IncidentRepository is the contract for the incident store.
type IncidentRepository interface {
	Submit(ctx context.Context, citizenID string, fn func(ctx context.Context, store SubmitStore) error) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListAllActive(ctx context.Context) ([]*models.Incident, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Incident, error)
	TransitionStatusBulk(ctx context.Context, ids []uuid.UUID, newStatus string) ([]*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// SubmitResult reports which branch the clustering engine took.
type SubmitResult struct {
	IncidentID uuid.UUID
	Merged     bool
}

// IncidentService is the contract for incident business logic.
type IncidentService interface {
	SubmitReport(ctx context.Context, citizenID, displayName, reportType, description string, loc models.Location) (*SubmitResult, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Incident, error)
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, newStatus string) ([]*models.Incident, error)
}

type incidentService struct {
	repo    IncidentRepository
	feed    live.Publisher
	metrics *metrics.Metrics
	clock   clockwork.Clock
	logger  *logrus.Logger
	cfg     *config.Config
}

func NewIncidentService(repo IncidentRepository, feed live.Publisher, m *metrics.Metrics, clock clockwork.Clock, logger *logrus.Logger, cfg *config.Config) IncidentService {
	return &incidentService{
		repo:    repo,
		feed:    feed,
		metrics: m,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
	}
}

func (s *incidentService) mergeRadius() float64 {
	if s.cfg != nil && s.cfg.MergeRadiusMeters > 0 {
		return s.cfg.MergeRadiusMeters
	}
	return DefaultMergeRadiusMeters
}

// SubmitReport runs the clustering pipeline: reject if the citizen already
// has an active report, merge into the nearest active incident within the
// radius, otherwise open a new incident anchored at the submitter's point.
// Guard, proximity lookup and the write share one store transaction, so a
// failure anywhere abandons the whole submission.
func (s *incidentService) SubmitReport(ctx context.Context, citizenID, displayName, reportType, description string, loc models.Location) (*SubmitResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "incident",
		"method":     "SubmitReport",
		"citizen_id": citizenID,
		"type":       reportType,
	})
	log.Info("Submitting citizen report")

	var (
		result    SubmitResult
		committed *models.Incident
	)

	err := s.repo.Submit(ctx, citizenID, func(ctx context.Context, store SubmitStore) error {
		existing, err := store.ActiveIncidentFor(ctx, citizenID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("incident %s: %w", existing.ID, models.ErrAlreadyActive)
		}

		member := models.Member{
			CitizenID:   citizenID,
			DisplayName: displayName,
			Type:        reportType,
			Description: description,
			ReportedAt:  s.clock.Now().UTC(),
		}

		nearest, err := store.NearestActiveWithin(ctx, loc, s.mergeRadius())
		if err != nil {
			return err
		}

		if nearest != nil {
			merged, err := store.AppendMember(ctx, nearest.ID, member)
			if err != nil {
				return err
			}
			committed = merged
			result = SubmitResult{IncidentID: merged.ID, Merged: true}
			return nil
		}

		incident := &models.Incident{
			Location: loc,
			Status:   models.StatusOpen,
			Types:    []string{reportType},
			Members:  []models.Member{member},
		}
		if err := store.InsertIncident(ctx, incident); err != nil {
			return err
		}
		committed = incident
		result = SubmitResult{IncidentID: incident.ID, Merged: false}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrAlreadyActive) {
			log.Info("Rejected: citizen already has an active report")
			s.metrics.ReportsSubmitted.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("service: %w", err)
		}
		log.WithError(err).Error("Failed to submit report")
		return nil, fmt.Errorf("service: could not submit report: %w", err)
	}

	outcome := "created"
	changeType := liveview.Added
	if result.Merged {
		outcome = "merged"
		changeType = liveview.Modified
		if err := s.repo.InvalidateIncidentCache(ctx, result.IncidentID); err != nil {
			log.WithError(err).Warn("Failed to invalidate incident cache after merge")
		}
	}
	s.metrics.ReportsSubmitted.WithLabelValues(outcome).Inc()
	s.publish(ctx, log, live.IncidentEvent(changeType, committed))

	log.WithFields(logrus.Fields{"incident_id": result.IncidentID, "merged": result.Merged}).
		Info("Report submitted successfully")
	return &result, nil
}

// GetIncident returns an incident by ID, trying the cache first.
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Incident cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents returns incidents with pagination.
func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// UpdateStatus applies one forward lifecycle transition. Resolving deletes
// the record and emits a removal, so the incident disappears from every
// subscribed view.
func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"new_status":  newStatus,
	})
	log.Info("Applying status transition")

	incident, err := s.repo.TransitionStatus(ctx, id, newStatus)
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) || errors.Is(err, models.ErrNotFound) {
			log.WithError(err).Warn("Status transition rejected")
		} else {
			log.WithError(err).Error("Failed to transition incident status")
		}
		return nil, fmt.Errorf("service: could not transition status: %w", err)
	}

	s.afterTransition(ctx, log, incident)
	log.Info("Status transition applied")
	return incident, nil
}

// BulkUpdateStatus applies the same transition to a set of incidents
// atomically. One invalid target means zero applied changes.
func (s *incidentService) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, newStatus string) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "incident",
		"method":     "BulkUpdateStatus",
		"count":      len(ids),
		"new_status": newStatus,
	})
	log.Info("Applying bulk status transition")

	incidents, err := s.repo.TransitionStatusBulk(ctx, ids, newStatus)
	if err != nil {
		log.WithError(err).Warn("Bulk status transition rejected; no changes applied")
		return nil, fmt.Errorf("service: could not transition batch: %w", err)
	}

	for _, incident := range incidents {
		s.afterTransition(ctx, log, incident)
	}
	log.Info("Bulk status transition applied")
	return incidents, nil
}

func (s *incidentService) afterTransition(ctx context.Context, log *logrus.Entry, incident *models.Incident) {
	s.metrics.Transitions.WithLabelValues(incident.Status).Inc()

	if err := s.repo.InvalidateIncidentCache(ctx, incident.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache after transition")
	}

	changeType := liveview.Modified
	if incident.Status == models.StatusResolved {
		changeType = liveview.Removed
	}
	s.publish(ctx, log, live.IncidentEvent(changeType, incident))
}

// publish pushes one committed change into the live feed. Delivery failures
// are logged, not propagated: subscribers recover through snapshot resend,
// and the store remains the single source of truth.
func (s *incidentService) publish(ctx context.Context, log *logrus.Entry, ev liveview.Event) {
	if err := s.feed.Publish(ctx, ev); err != nil {
		log.WithError(err).Error("Failed to publish live event")
	}
}
