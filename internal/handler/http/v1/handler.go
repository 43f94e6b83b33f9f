package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/defesacivil/citizen_incident_system/internal/config"
	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/internal/service"
)

type Handler struct {
	incidentService service.IncidentService
	safetyService   service.SafetyService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, safetyService service.SafetyService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		safetyService:   safetyService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrAlreadyActive):
		c.JSON(http.StatusConflict, gin.H{"error": "citizen already has an active report"})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid status transition"})
	case errors.Is(err, models.ErrInvalidGeometry):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone geometry"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Submit a citizen incident report
// @Description Submit a report. Nearby active incidents absorb the report; otherwise a new incident opens. A citizen can hold at most one active report. Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param report body SubmitReportRequest true "Report submission"
// @Success 201 {object} SubmitReportResponse "New incident opened"
// @Success 200 {object} SubmitReportResponse "Report merged into an existing incident"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Citizen already has an active report"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /reports [post]
func (h *Handler) submitReport(c *gin.Context) {
	var input SubmitReportRequest
	log := h.logger.WithField("method", "submitReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := models.Location{Lat: input.Latitude, Lng: input.Longitude}
	result, err := h.incidentService.SubmitReport(c.Request.Context(), input.CitizenID, input.DisplayName, input.Type, input.Description, loc)
	if err != nil {
		log.WithError(err).Warn("Failed to submit report")
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Merged {
		status = http.StatusOK
	}
	c.JSON(status, SubmitReportResponse{IncidentID: result.IncidentID, Merged: result.Merged})
}

// @Summary Get a list of incidents
// @Description Get a paginated list of active incidents. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident with all its member reports. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Advance incident lifecycle status
// @Description Apply one forward lifecycle transition (open -> confirmed -> in-progress -> resolved). Resolving removes the incident. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param transition body UpdateStatusRequest true "Target status"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Router /incidents/{id}/status [patch]
func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "updateStatus").WithField("id", id)

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidentService.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		log.WithError(err).Warn("Failed to transition incident status")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Advance several incidents at once
// @Description Apply the same lifecycle transition to a set of incidents atomically. One invalid target rejects the whole batch. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param transition body BulkUpdateStatusRequest true "Incident IDs and target status"
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "An incident was not found"
// @Failure 422 {object} map[string]string "A transition in the batch is invalid"
// @Router /incidents/status [post]
func (h *Handler) bulkUpdateStatus(c *gin.Context) {
	var input BulkUpdateStatusRequest
	log := h.logger.WithField("method", "bulkUpdateStatus")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidents, err := h.incidentService.BulkUpdateStatus(c.Request.Context(), input.IDs, input.Status)
	if err != nil {
		log.WithError(err).Warn("Failed to transition incident batch")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Report a citizen position
// @Description Update a citizen's position for risk-zone tracking. Entering an active zone creates a pending safety status and may prompt the citizen. Requires API key.
// @Tags Safety
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param position body PositionRequest true "Citizen position"
// @Success 200 {object} PositionResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /safety/position [post]
func (h *Handler) handlePosition(c *gin.Context) {
	var input PositionRequest
	log := h.logger.WithField("method", "handlePosition")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := models.Location{Lat: input.Latitude, Lng: input.Longitude}
	result, err := h.safetyService.HandlePosition(c.Request.Context(), input.CitizenID, input.DisplayName, loc)
	if err != nil {
		log.WithError(err).Error("Failed to handle position update")
		respondError(c, err)
		return
	}

	resp := PositionResponse{InZone: result.InZone, Prompt: result.Prompt}
	if result.Zone != nil {
		resp.Zone = ModelToZoneResponse(result.Zone)
	}
	if result.Status != nil {
		resp.Status = ModelToSafetyStatusResponse(result.Status)
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Answer the safety prompt
// @Description Record a citizen's safe/unsafe answer for a zone they are in. An unsafe answer alerts operators. Requires API key.
// @Tags Safety
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param response body SafetyResponseRequest true "Safety answer"
// @Success 200 {object} SafetyStatusResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No pending status for this citizen and zone"
// @Router /safety/response [post]
func (h *Handler) respondSafety(c *gin.Context) {
	var input SafetyResponseRequest
	log := h.logger.WithField("method", "respondSafety")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.safetyService.Respond(c.Request.Context(), input.CitizenID, input.ZoneID, input.Answer)
	if err != nil {
		log.WithError(err).Warn("Failed to record safety response")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToSafetyStatusResponse(status))
}

// @Summary List open safety statuses
// @Description List the safety records operators watch: pending and unsafe. Requires API key.
// @Tags Safety
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} SafetyStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /safety [get]
func (h *Handler) listSafety(c *gin.Context) {
	log := h.logger.WithField("method", "listSafety")

	statuses, err := h.safetyService.ListOpenStatuses(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list safety statuses")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToSafetyStatusResponses(statuses))
}

// @Summary Declare a risk zone
// @Description Declare a new active risk zone with a polygon geometry. Requires API key.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param zone body CreateZoneRequest true "Zone declaration"
// @Success 201 {object} ZoneResponse
// @Failure 400 {object} map[string]string "Invalid request body or geometry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /zones [post]
func (h *Handler) createZone(c *gin.Context) {
	var input CreateZoneRequest
	log := h.logger.WithField("method", "createZone")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone, err := h.safetyService.CreateZone(c.Request.Context(), input.Description, string(input.Geometry))
	if err != nil {
		log.WithError(err).Warn("Failed to create risk zone")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToZoneResponse(zone))
}

// @Summary List active risk zones
// @Description List every zone currently under alert. Requires API key.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} ZoneResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /zones [get]
func (h *Handler) listZones(c *gin.Context) {
	log := h.logger.WithField("method", "listZones")

	zones, err := h.safetyService.ListActiveZones(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list risk zones")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToZoneResponses(zones))
}

// @Summary Deactivate a risk zone
// @Description Lower a zone's alert. Every safety record in the zone is cleared. Requires API key.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Zone ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid zone ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Zone not found"
// @Router /zones/{id} [delete]
func (h *Handler) deactivateZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone ID"})
		return
	}
	log := h.logger.WithField("method", "deactivateZone").WithField("id", id)

	if err := h.safetyService.DeactivateZone(c.Request.Context(), id); err != nil {
		log.WithError(err).Warn("Failed to deactivate risk zone")
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
