package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/defesacivil/citizen_incident_system/internal/config"
	live_mocks "github.com/defesacivil/citizen_incident_system/internal/live/mocks"
	"github.com/defesacivil/citizen_incident_system/internal/metrics"
	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/internal/service"
	"github.com/defesacivil/citizen_incident_system/internal/service/mocks"
	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// newTestIncidentService builds a service instance wired to mocks and a fake
// clock pinned at a known instant.
func newTestIncidentService(t *testing.T) (service.IncidentService, *mocks.MockIncidentRepository, *live_mocks.MockPublisher, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	feedMock := live_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	cfg := &config.Config{MergeRadiusMeters: 100}
	m := metrics.New(prometheus.NewRegistry())

	svc := service.NewIncidentService(repoMock, feedMock, m, clock, logger, cfg)
	return svc, repoMock, feedMock, clock
}

// runSubmit makes the repository mock execute the submission closure against
// the given transaction-store mock, the way the real repository does inside
// its transaction.
func runSubmit(repoMock *mocks.MockIncidentRepository, store *mocks.MockSubmitStore) *gomock.Call {
	return repoMock.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, citizenID string, fn func(context.Context, service.SubmitStore) error) error {
			return fn(ctx, store)
		})
}

func newSubmitStore(t *testing.T) *mocks.MockSubmitStore {
	return mocks.NewMockSubmitStore(gomock.NewController(t))
}

func TestSubmitReport_CreatesNewIncident(t *testing.T) {
	svc, repoMock, feedMock, clock := newTestIncidentService(t)
	ctx := context.Background()
	store := newSubmitStore(t)

	loc := models.Location{Lat: -23.5505, Lng: -46.6333}

	store.EXPECT().
		ActiveIncidentFor(gomock.Any(), "citizen-1").
		Return(nil, nil)
	store.EXPECT().
		NearestActiveWithin(gomock.Any(), loc, 100.0).
		Return(nil, nil)
	store.EXPECT().
		InsertIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, incident *models.Incident) error {
			incident.ID = uuid.New()
			incident.CreatedAt = clock.Now().UTC()
			incident.UpdatedAt = incident.CreatedAt

			assert.Equal(t, models.StatusOpen, incident.Status)
			assert.Equal(t, []string{models.TypeFlooding}, incident.Types)
			require.Len(t, incident.Members, 1)
			assert.Equal(t, "citizen-1", incident.Members[0].CitizenID)
			assert.Equal(t, clock.Now().UTC(), incident.Members[0].ReportedAt)
			return nil
		})
	runSubmit(repoMock, store)

	feedMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev liveview.Event) error {
			assert.Equal(t, liveview.Added, ev.Type)
			assert.Equal(t, "incidents", ev.Topic)
			return nil
		})

	result, err := svc.SubmitReport(ctx, "citizen-1", "Ana", models.TypeFlooding, "street under water", loc)

	require.NoError(t, err)
	assert.False(t, result.Merged)
	assert.NotEqual(t, uuid.Nil, result.IncidentID)
}

func TestSubmitReport_MergesIntoNearbyIncident(t *testing.T) {
	svc, repoMock, feedMock, clock := newTestIncidentService(t)
	ctx := context.Background()
	store := newSubmitStore(t)

	loc := models.Location{Lat: -23.5506, Lng: -46.6334}
	existingID := uuid.New()
	existing := &models.Incident{
		ID:     existingID,
		Status: models.StatusOpen,
		Types:  []string{models.TypeFlooding},
	}
	merged := &models.Incident{
		ID:     existingID,
		Status: models.StatusOpen,
		Types:  []string{models.TypeFlooding, models.TypeLandslide},
	}

	store.EXPECT().
		ActiveIncidentFor(gomock.Any(), "citizen-2").
		Return(nil, nil)
	store.EXPECT().
		NearestActiveWithin(gomock.Any(), loc, 100.0).
		Return(existing, nil)
	store.EXPECT().
		AppendMember(gomock.Any(), existingID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, member models.Member) (*models.Incident, error) {
			assert.Equal(t, "citizen-2", member.CitizenID)
			assert.Equal(t, models.TypeLandslide, member.Type)
			assert.Equal(t, clock.Now().UTC(), member.ReportedAt)
			return merged, nil
		})
	runSubmit(repoMock, store)

	repoMock.EXPECT().
		InvalidateIncidentCache(gomock.Any(), existingID).
		Return(nil)
	feedMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev liveview.Event) error {
			assert.Equal(t, liveview.Modified, ev.Type)
			assert.Equal(t, existingID.String(), ev.Key)
			return nil
		})

	result, err := svc.SubmitReport(ctx, "citizen-2", "Bruno", models.TypeLandslide, "slope is cracking", loc)

	require.NoError(t, err)
	assert.True(t, result.Merged)
	assert.Equal(t, existingID, result.IncidentID)
}

func TestSubmitReport_RejectsSecondActiveReport(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	store := newSubmitStore(t)

	active := &models.Incident{ID: uuid.New(), Status: models.StatusConfirmed}

	store.EXPECT().
		ActiveIncidentFor(gomock.Any(), "citizen-3").
		Return(active, nil)
	runSubmit(repoMock, store)

	result, err := svc.SubmitReport(ctx, "citizen-3", "Carla", models.TypeFire, "smoke nearby", models.Location{Lat: 1, Lng: 1})

	require.ErrorIs(t, err, models.ErrAlreadyActive)
	assert.Nil(t, result)
}

func TestSubmitReport_StoreFailureAbortsSubmission(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: connection refused", models.ErrStoreUnavailable))

	result, err := svc.SubmitReport(ctx, "citizen-4", "Davi", models.TypeOther, "", models.Location{Lat: 1, Lng: 1})

	require.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Nil(t, result)
}

func TestGetIncident_FromCache(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	cached := &models.Incident{ID: incidentID, Status: models.StatusOpen}

	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(cached, nil)

	incident, err := svc.GetIncident(ctx, incidentID)

	require.NoError(t, err)
	assert.Equal(t, cached, incident)
}

func TestGetIncident_FromDBOnCacheMiss(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	stored := &models.Incident{ID: incidentID, Status: models.StatusInProgress}

	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil)
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(stored, nil)
	repoMock.EXPECT().
		SetIncidentCache(ctx, stored).
		Return(nil)

	incident, err := svc.GetIncident(ctx, incidentID)

	require.NoError(t, err)
	assert.Equal(t, stored, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil)
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, models.ErrNotFound)

	incident, err := svc.GetIncident(ctx, incidentID)

	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, incident)
}

func TestListIncidents_ClampsPagination(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		ListIncidents(ctx, 1, 20).
		Return([]*models.Incident{}, nil)

	incidents, err := svc.ListIncidents(ctx, -5, 1000)

	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestUpdateStatus_PublishesModifiedEvent(t *testing.T) {
	svc, repoMock, feedMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	confirmed := &models.Incident{ID: incidentID, Status: models.StatusConfirmed}

	repoMock.EXPECT().
		TransitionStatus(ctx, incidentID, models.StatusConfirmed).
		Return(confirmed, nil)
	repoMock.EXPECT().
		InvalidateIncidentCache(ctx, incidentID).
		Return(nil)
	feedMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev liveview.Event) error {
			assert.Equal(t, liveview.Modified, ev.Type)
			assert.NotEmpty(t, ev.Doc)
			return nil
		})

	incident, err := svc.UpdateStatus(ctx, incidentID, models.StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, incident.Status)
}

func TestUpdateStatus_ResolvedIsRemoval(t *testing.T) {
	svc, repoMock, feedMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	resolved := &models.Incident{ID: incidentID, Status: models.StatusResolved}

	repoMock.EXPECT().
		TransitionStatus(ctx, incidentID, models.StatusResolved).
		Return(resolved, nil)
	repoMock.EXPECT().
		InvalidateIncidentCache(ctx, incidentID).
		Return(nil)
	feedMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev liveview.Event) error {
			assert.Equal(t, liveview.Removed, ev.Type)
			assert.Empty(t, ev.Doc)
			return nil
		})

	_, err := svc.UpdateStatus(ctx, incidentID, models.StatusResolved)
	require.NoError(t, err)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	repoMock.EXPECT().
		TransitionStatus(ctx, incidentID, models.StatusOpen).
		Return(nil, fmt.Errorf("confirmed -> open: %w", models.ErrInvalidTransition))

	incident, err := svc.UpdateStatus(ctx, incidentID, models.StatusOpen)

	require.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Nil(t, incident)
}

func TestBulkUpdateStatus_AllOrNothing(t *testing.T) {
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	repoMock.EXPECT().
		TransitionStatusBulk(ctx, ids, models.StatusInProgress).
		Return(nil, fmt.Errorf("open -> open: %w", models.ErrInvalidTransition))

	incidents, err := svc.BulkUpdateStatus(ctx, ids, models.StatusInProgress)

	require.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Nil(t, incidents)
}

func TestBulkUpdateStatus_PublishesPerIncident(t *testing.T) {
	svc, repoMock, feedMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	transitioned := []*models.Incident{
		{ID: ids[0], Status: models.StatusConfirmed},
		{ID: ids[1], Status: models.StatusConfirmed},
	}

	repoMock.EXPECT().
		TransitionStatusBulk(ctx, ids, models.StatusConfirmed).
		Return(transitioned, nil)
	repoMock.EXPECT().
		InvalidateIncidentCache(ctx, gomock.Any()).
		Return(nil).
		Times(2)
	feedMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	incidents, err := svc.BulkUpdateStatus(ctx, ids, models.StatusConfirmed)

	require.NoError(t, err)
	assert.Len(t, incidents, 2)
}
