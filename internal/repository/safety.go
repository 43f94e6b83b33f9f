package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/internal/service"
)

const safetyColumns = `
	id,
	citizen_id,
	display_name,
	zone_id,
	status,
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lng,
	created_at,
	last_update,
	responded_at
`

type SafetyRepository struct {
	db *pgxpool.Pool
}

func NewSafetyRepository(db *pgxpool.Pool) service.SafetyRepository {
	return &SafetyRepository{db: db}
}

func scanSafetyStatus(row scannable) (*models.SafetyStatus, error) {
	status := &models.SafetyStatus{}
	err := row.Scan(
		&status.ID,
		&status.CitizenID,
		&status.DisplayName,
		&status.ZoneID,
		&status.Status,
		&status.Location.Lat,
		&status.Location.Lng,
		&status.CreatedAt,
		&status.LastUpdate,
		&status.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// GetByCitizenZone returns the record for a (citizen, zone) pair, or nil when
// the pair has no record.
func (r *SafetyRepository) GetByCitizenZone(ctx context.Context, citizenID string, zoneID uuid.UUID) (*models.SafetyStatus, error) {
	query := `SELECT ` + safetyColumns + ` FROM safety_statuses WHERE citizen_id = $1 AND zone_id = $2 LIMIT 1;`

	status, err := scanSafetyStatus(r.db.QueryRow(ctx, query, citizenID, zoneID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get safety status: %w", err)
	}
	return status, nil
}

// ListByCitizen returns all safety records a citizen currently has.
func (r *SafetyRepository) ListByCitizen(ctx context.Context, citizenID string) ([]*models.SafetyStatus, error) {
	query := `SELECT ` + safetyColumns + ` FROM safety_statuses WHERE citizen_id = $1 ORDER BY created_at ASC;`

	rows, err := r.db.Query(ctx, query, citizenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list safety statuses by citizen: %w", err)
	}
	defer rows.Close()

	return collectSafetyStatuses(rows)
}

// ListOpen returns the records operators watch: anyone pending or unsafe.
func (r *SafetyRepository) ListOpen(ctx context.Context) ([]*models.SafetyStatus, error) {
	query := `
		SELECT ` + safetyColumns + `
		FROM safety_statuses
		WHERE status IN ($1, $2)
		ORDER BY created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, models.SafetyPending, models.SafetyUnsafe)
	if err != nil {
		return nil, fmt.Errorf("failed to list open safety statuses: %w", err)
	}
	defer rows.Close()

	return collectSafetyStatuses(rows)
}

func collectSafetyStatuses(rows pgx.Rows) ([]*models.SafetyStatus, error) {
	statuses := make([]*models.SafetyStatus, 0)
	for rows.Next() {
		status, err := scanSafetyStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan safety status row: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during safety status iteration: %w", err)
	}
	return statuses, nil
}

// Create inserts a pending record for a (citizen, zone) pair. The unique pair
// constraint makes duplicate entries impossible even under concurrent
// position updates.
func (r *SafetyRepository) Create(ctx context.Context, status *models.SafetyStatus) error {
	query := `
		INSERT INTO safety_statuses (citizen_id, display_name, zone_id, status, location)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326))
		RETURNING id, created_at, last_update;
	`
	err := r.db.QueryRow(ctx, query,
		status.CitizenID,
		status.DisplayName,
		status.ZoneID,
		status.Status,
		status.Location.Lng,
		status.Location.Lat,
	).Scan(&status.ID, &status.CreatedAt, &status.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to create safety status: %w", err)
	}
	return nil
}

// UpdateLocation refreshes the last known position while the citizen remains
// inside the zone.
func (r *SafetyRepository) UpdateLocation(ctx context.Context, id uuid.UUID, loc models.Location) (*models.SafetyStatus, error) {
	query := `
		UPDATE safety_statuses SET
			location = ST_SetSRID(ST_MakePoint($2, $3), 4326),
			last_update = NOW()
		WHERE id = $1
		RETURNING ` + safetyColumns + `;
	`
	status, err := scanSafetyStatus(r.db.QueryRow(ctx, query, id, loc.Lng, loc.Lat))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("safety status %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update safety status location: %w", err)
	}
	return status, nil
}

// SetResponse records the citizen's answer and stamps responded_at. Answers
// only apply to pending records; a repeated answer is a no-op conflict.
func (r *SafetyRepository) SetResponse(ctx context.Context, id uuid.UUID, answer string) (*models.SafetyStatus, error) {
	query := `
		UPDATE safety_statuses SET
			status = $2,
			responded_at = NOW(),
			last_update = NOW()
		WHERE id = $1 AND status = $3
		RETURNING ` + safetyColumns + `;
	`
	status, err := scanSafetyStatus(r.db.QueryRow(ctx, query, id, answer, models.SafetyPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pending safety status %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to set safety response: %w", err)
	}
	return status, nil
}

// Delete removes a record, returning the citizen to the untracked state for
// that zone.
func (r *SafetyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM safety_statuses WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete safety status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("safety status %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteByZone removes every record attached to a zone, returning the ids of
// the deleted records so removal events can be emitted for each.
func (r *SafetyRepository) DeleteByZone(ctx context.Context, zoneID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `DELETE FROM safety_statuses WHERE zone_id = $1 RETURNING id;`, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete safety statuses by zone: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted safety status id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during zone cleanup iteration: %w", err)
	}
	return ids, nil
}
