package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/defesacivil/citizen_incident_system/internal/config"
	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/internal/service"
	"github.com/defesacivil/citizen_incident_system/internal/service/mocks"
)

// newTestHandler builds a Handler wired to mocked services and a test router.
func newTestHandler(t *testing.T) (*Handler, *mocks.MockIncidentService, *mocks.MockSafetyService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	incidentMock := mocks.NewMockIncidentService(ctrl)
	safetyMock := mocks.NewMockSafetyService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(incidentMock, safetyMock, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, incidentMock, safetyMock, router
}

// makeRequest is a helper for running HTTP requests against the test router.
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func TestSubmitReport_NewIncident(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := SubmitReportRequest{
		CitizenID:   "citizen-1",
		DisplayName: "Ana",
		Type:        "flooding",
		Description: "street under water",
		Latitude:    -23.5505,
		Longitude:   -46.6333,
	}

	incidentMock.EXPECT().
		SubmitReport(gomock.Any(), "citizen-1", "Ana", "flooding", "street under water", models.Location{Lat: -23.5505, Lng: -46.6333}).
		Return(&service.SubmitResult{IncidentID: incidentID, Merged: false}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/reports", jsonBody(t, reqBody))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp SubmitReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.IncidentID)
	assert.False(t, resp.Merged)
}

func TestSubmitReport_Merged(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := SubmitReportRequest{
		CitizenID:   "citizen-2",
		DisplayName: "Bruno",
		Type:        "landslide",
		Latitude:    -23.5506,
		Longitude:   -46.6334,
	}

	incidentMock.EXPECT().
		SubmitReport(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&service.SubmitResult{IncidentID: incidentID, Merged: true}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/reports", jsonBody(t, reqBody))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SubmitReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Merged)
}

func TestSubmitReport_AlreadyActiveConflict(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	reqBody := SubmitReportRequest{
		CitizenID:   "citizen-3",
		DisplayName: "Carla",
		Type:        "fire",
		Latitude:    1,
		Longitude:   1,
	}

	incidentMock.EXPECT().
		SubmitReport(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: %w", models.ErrAlreadyActive))

	w := makeRequest(router, http.MethodPost, "/api/v1/reports", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitReport_UnknownTypeRejected(t *testing.T) {
	_, _, _, router := newTestHandler(t)
	reqBody := SubmitReportRequest{
		CitizenID:   "citizen-4",
		DisplayName: "Davi",
		Type:        "meteor",
		Latitude:    1,
		Longitude:   1,
	}

	w := makeRequest(router, http.MethodPost, "/api/v1/reports", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReport_StoreUnavailable(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	reqBody := SubmitReportRequest{
		CitizenID:   "citizen-5",
		DisplayName: "Elisa",
		Type:        "other",
		Latitude:    1,
		Longitude:   1,
	}

	incidentMock.EXPECT().
		SubmitReport(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: %w", models.ErrStoreUnavailable))

	w := makeRequest(router, http.MethodPost, "/api/v1/reports", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetIncident_Success(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	incident := &models.Incident{
		ID:       incidentID,
		Location: models.Location{Lat: -23.5505, Lng: -46.6333},
		Status:   models.StatusOpen,
		Types:    []string{"flooding"},
		Members: []models.Member{
			{CitizenID: "citizen-1", DisplayName: "Ana", Type: "flooding", ReportedAt: time.Now()},
		},
	}

	incidentMock.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(incident, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Len(t, resp.Members, 1)
	assert.Equal(t, -23.5505, resp.Latitude)
}

func TestGetIncident_NotFound(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("service: %w", models.ErrNotFound))

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_Success(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	confirmed := &models.Incident{ID: incidentID, Status: models.StatusConfirmed}

	incidentMock.EXPECT().
		UpdateStatus(gomock.Any(), incidentID, models.StatusConfirmed).
		Return(confirmed, nil)

	w := makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status",
		jsonBody(t, UpdateStatusRequest{Status: models.StatusConfirmed}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusConfirmed, resp.Status)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		UpdateStatus(gomock.Any(), incidentID, models.StatusConfirmed).
		Return(nil, fmt.Errorf("service: %w", models.ErrInvalidTransition))

	w := makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status",
		jsonBody(t, UpdateStatusRequest{Status: models.StatusConfirmed}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateStatus_BackwardRejectedByValidation(t *testing.T) {
	_, _, _, router := newTestHandler(t)
	incidentID := uuid.New()

	// "open" is never a legal target status.
	w := makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status",
		jsonBody(t, UpdateStatusRequest{Status: models.StatusOpen}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkUpdateStatus_Success(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	transitioned := []*models.Incident{
		{ID: ids[0], Status: models.StatusInProgress},
		{ID: ids[1], Status: models.StatusInProgress},
	}

	incidentMock.EXPECT().
		BulkUpdateStatus(gomock.Any(), ids, models.StatusInProgress).
		Return(transitioned, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/status",
		jsonBody(t, BulkUpdateStatusRequest{IDs: ids, Status: models.StatusInProgress}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestBulkUpdateStatus_EmptyBatchRejected(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/status",
		jsonBody(t, BulkUpdateStatusRequest{IDs: nil, Status: models.StatusConfirmed}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkUpdateStatus_AtomicRejection(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	ids := []uuid.UUID{uuid.New()}

	incidentMock.EXPECT().
		BulkUpdateStatus(gomock.Any(), ids, models.StatusResolved).
		Return(nil, fmt.Errorf("service: %w", models.ErrInvalidTransition))

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/status",
		jsonBody(t, BulkUpdateStatusRequest{IDs: ids, Status: models.StatusResolved}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandlePosition_EntryPrompts(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	zoneID := uuid.New()
	reqBody := PositionRequest{
		CitizenID:   "citizen-1",
		DisplayName: "Ana",
		Latitude:    0.1,
		Longitude:   0.1,
	}

	safetyMock.EXPECT().
		HandlePosition(gomock.Any(), "citizen-1", "Ana", models.Location{Lat: 0.1, Lng: 0.1}).
		Return(&service.PositionResult{
			InZone: true,
			Prompt: true,
			Zone:   &models.RiskZone{ID: zoneID, Description: "Flooded riverbank", Geometry: `{"coordinates": []}`, Active: true},
			Status: &models.SafetyStatus{ID: uuid.New(), CitizenID: "citizen-1", ZoneID: zoneID, Status: models.SafetyPending},
		}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/safety/position", jsonBody(t, reqBody))

	require.Equal(t, http.StatusOK, w.Code)
	var resp PositionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.InZone)
	assert.True(t, resp.Prompt)
	require.NotNil(t, resp.Zone)
	assert.Equal(t, zoneID, resp.Zone.ID)
}

func TestHandlePosition_OutsideZones(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	reqBody := PositionRequest{
		CitizenID:   "citizen-1",
		DisplayName: "Ana",
		Latitude:    50,
		Longitude:   50,
	}

	safetyMock.EXPECT().
		HandlePosition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&service.PositionResult{InZone: false}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/safety/position", jsonBody(t, reqBody))

	require.Equal(t, http.StatusOK, w.Code)
	var resp PositionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.InZone)
	assert.Nil(t, resp.Zone)
}

func TestRespondSafety_Success(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	zoneID := uuid.New()
	now := time.Now()
	answered := &models.SafetyStatus{
		ID:          uuid.New(),
		CitizenID:   "citizen-1",
		ZoneID:      zoneID,
		Status:      models.SafetySafe,
		RespondedAt: &now,
	}

	safetyMock.EXPECT().
		Respond(gomock.Any(), "citizen-1", zoneID, models.SafetySafe).
		Return(answered, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/safety/response",
		jsonBody(t, SafetyResponseRequest{CitizenID: "citizen-1", ZoneID: zoneID, Answer: models.SafetySafe}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SafetyStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.SafetySafe, resp.Status)
	assert.NotNil(t, resp.RespondedAt)
}

func TestRespondSafety_NoRecord(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	zoneID := uuid.New()

	safetyMock.EXPECT().
		Respond(gomock.Any(), "citizen-1", zoneID, models.SafetyUnsafe).
		Return(nil, fmt.Errorf("service: %w", models.ErrNotFound))

	w := makeRequest(router, http.MethodPost, "/api/v1/safety/response",
		jsonBody(t, SafetyResponseRequest{CitizenID: "citizen-1", ZoneID: zoneID, Answer: models.SafetyUnsafe}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondSafety_InvalidAnswer(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/safety/response",
		jsonBody(t, SafetyResponseRequest{CitizenID: "citizen-1", ZoneID: uuid.New(), Answer: "maybe"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateZone_Success(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	// Compact form: binding re-marshals the raw geometry without whitespace.
	geometry := `{"coordinates":[[[-0.5,-0.5],[0.5,-0.5],[0.5,0.5],[-0.5,0.5],[-0.5,-0.5]]]}`
	zoneID := uuid.New()

	safetyMock.EXPECT().
		CreateZone(gomock.Any(), "Flooded riverbank", geometry).
		Return(&models.RiskZone{
			ID:          zoneID,
			Description: "Flooded riverbank",
			Geometry:    geometry,
			Active:      true,
		}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/zones",
		jsonBody(t, CreateZoneRequest{Description: "Flooded riverbank", Geometry: json.RawMessage(geometry)}))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp ZoneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, zoneID, resp.ID)
	assert.True(t, resp.Active)
}

func TestCreateZone_BadGeometry(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	geometry := `{"coordinates":[[[0,0],[1,1]]]}`

	safetyMock.EXPECT().
		CreateZone(gomock.Any(), "bad", geometry).
		Return(nil, fmt.Errorf("service: %w: ring not closed", models.ErrInvalidGeometry))

	w := makeRequest(router, http.MethodPost, "/api/v1/zones",
		jsonBody(t, CreateZoneRequest{Description: "bad", Geometry: json.RawMessage(geometry)}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateZone_StoreFailureIsUnavailable(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	geometry := `{"coordinates":[[[-0.5,-0.5],[0.5,-0.5],[0.5,0.5],[-0.5,0.5],[-0.5,-0.5]]]}`

	safetyMock.EXPECT().
		CreateZone(gomock.Any(), "Flooded riverbank", geometry).
		Return(nil, fmt.Errorf("service: %w: connection refused", models.ErrStoreUnavailable))

	w := makeRequest(router, http.MethodPost, "/api/v1/zones",
		jsonBody(t, CreateZoneRequest{Description: "Flooded riverbank", Geometry: json.RawMessage(geometry)}))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDeactivateZone_Success(t *testing.T) {
	_, _, safetyMock, router := newTestHandler(t)
	zoneID := uuid.New()

	safetyMock.EXPECT().
		DeactivateZone(gomock.Any(), zoneID).
		Return(nil)

	w := makeRequest(router, http.MethodDelete, "/api/v1/zones/"+zoneID.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	cfg := &config.Config{APIKeys: []string{"test-api-key"}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("missing key", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/ping", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/ping", nil, map[string]string{"X-API-Key": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid key", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/ping", nil, map[string]string{"X-API-Key": "test-api-key"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/ping", nil, map[string]string{"Authorization": "Bearer test-api-key"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
