// Package client is the Go client for the citizen incident service: report
// submission with automatic position acquisition, safety prompt answers, and
// the live view feed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/pkg/geoloc"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	locator    geoloc.Provider
}

type ClientOptions struct {
	Timeout time.Duration
	// Locator supplies the citizen's position for calls that do not pass
	// coordinates explicitly. Optional; those calls fail with
	// geoloc.ErrUnavailable when unset.
	Locator geoloc.Provider
	// LocationTimeout bounds each position acquisition; overruns surface as
	// geoloc.ErrTimeout. Zero means geoloc.DefaultTimeout.
	LocationTimeout time.Duration
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:         15 * time.Second,
		LocationTimeout: geoloc.DefaultTimeout,
	}
}

func NewClient(baseURL, apiKey string, options ...ClientOptions) *Client {
	opts := DefaultClientOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	locator := opts.Locator
	if locator != nil {
		locator = geoloc.WithTimeout(locator, opts.LocationTimeout)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		locator:    locator,
	}
}

// SubmitOutcome is the result of a report submission.
type SubmitOutcome struct {
	IncidentID uuid.UUID `json:"incident_id"`
	Merged     bool      `json:"merged"`
}

// PositionOutcome is the result of a position update.
type PositionOutcome struct {
	InZone bool          `json:"in_zone"`
	Prompt bool          `json:"prompt"`
	Zone   *Zone         `json:"zone,omitempty"`
	Status *SafetyStatus `json:"status,omitempty"`
}

// Zone is a risk zone as the API returns it.
type Zone struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Geometry    json.RawMessage `json:"geometry"`
	Active      bool            `json:"active"`
}

// SafetyStatus is a tracked citizen-in-zone record.
type SafetyStatus struct {
	ID          uuid.UUID  `json:"id"`
	CitizenID   string     `json:"citizen_id"`
	ZoneID      uuid.UUID  `json:"zone_id"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Incident is an incident document as the API returns it.
type Incident struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Status    string    `json:"status"`
	Types     []string  `json:"types"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is one citizen report inside an incident.
type Member struct {
	CitizenID   string    `json:"citizen_id"`
	DisplayName string    `json:"display_name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
}

type submitReportRequest struct {
	CitizenID   string  `json:"citizen_id"`
	DisplayName string  `json:"display_name"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type positionRequest struct {
	CitizenID   string  `json:"citizen_id"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type safetyResponseRequest struct {
	CitizenID string    `json:"citizen_id"`
	ZoneID    uuid.UUID `json:"zone_id"`
	Answer    string    `json:"answer"`
}

// SubmitReport acquires the citizen's position from the configured locator
// and submits a report. Position failures surface as the geoloc errors; a
// second active report surfaces as models.ErrAlreadyActive.
func (c *Client) SubmitReport(ctx context.Context, citizenID, displayName, reportType, description string) (*SubmitOutcome, error) {
	pos, err := c.position(ctx)
	if err != nil {
		return nil, err
	}
	return c.SubmitReportAt(ctx, citizenID, displayName, reportType, description, pos.Lat, pos.Lng)
}

// SubmitReportAt submits a report with explicit coordinates.
func (c *Client) SubmitReportAt(ctx context.Context, citizenID, displayName, reportType, description string, lat, lng float64) (*SubmitOutcome, error) {
	body := submitReportRequest{
		CitizenID:   citizenID,
		DisplayName: displayName,
		Type:        reportType,
		Description: description,
		Latitude:    lat,
		Longitude:   lng,
	}

	var outcome SubmitOutcome
	if err := c.post(ctx, "/reports", body, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// UpdatePosition acquires the citizen's position and reports it for risk-zone
// tracking. The outcome says whether to show the safety prompt.
func (c *Client) UpdatePosition(ctx context.Context, citizenID, displayName string) (*PositionOutcome, error) {
	pos, err := c.position(ctx)
	if err != nil {
		return nil, err
	}

	body := positionRequest{
		CitizenID:   citizenID,
		DisplayName: displayName,
		Latitude:    pos.Lat,
		Longitude:   pos.Lng,
	}

	var outcome PositionOutcome
	if err := c.post(ctx, "/safety/position", body, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// RespondSafety answers the safety prompt for a zone with "safe" or "unsafe".
func (c *Client) RespondSafety(ctx context.Context, citizenID string, zoneID uuid.UUID, answer string) (*SafetyStatus, error) {
	body := safetyResponseRequest{CitizenID: citizenID, ZoneID: zoneID, Answer: answer}

	var status SafetyStatus
	if err := c.post(ctx, "/safety/response", body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Incident fetches one incident by ID.
func (c *Client) Incident(ctx context.Context, id uuid.UUID) (*Incident, error) {
	var incident Incident
	if err := c.get(ctx, "/incidents/"+id.String(), &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// Incidents fetches a page of active incidents.
func (c *Client) Incidents(ctx context.Context, page, pageSize int) ([]*Incident, error) {
	var incidents []*Incident
	path := fmt.Sprintf("/incidents?page=%d&pageSize=%d", page, pageSize)
	if err := c.get(ctx, path, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

func (c *Client) position(ctx context.Context) (pos struct{ Lat, Lng float64 }, err error) {
	if c.locator == nil {
		return pos, fmt.Errorf("no locator configured: %w", geoloc.ErrUnavailable)
	}
	point, err := c.locator.Position(ctx)
	if err != nil {
		return pos, err
	}
	pos.Lat, pos.Lng = point.Lat, point.Lng
	return pos, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError translates the API's error statuses back into the domain
// sentinels, so callers branch with errors.Is exactly as on the server side.
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusConflict:
		return models.ErrAlreadyActive
	case code == http.StatusUnprocessableEntity:
		return models.ErrInvalidTransition
	case code == http.StatusNotFound:
		return models.ErrNotFound
	case code == http.StatusServiceUnavailable:
		return models.ErrStoreUnavailable
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}
