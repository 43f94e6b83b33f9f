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

const zoneColumns = `id, description, geometry::text, active, created_at, updated_at`

type RiskZoneRepository struct {
	db *pgxpool.Pool
}

func NewRiskZoneRepository(db *pgxpool.Pool) service.ZoneRepository {
	return &RiskZoneRepository{db: db}
}

func scanZone(row scannable) (*models.RiskZone, error) {
	zone := &models.RiskZone{}
	err := row.Scan(
		&zone.ID,
		&zone.Description,
		&zone.Geometry,
		&zone.Active,
		&zone.CreatedAt,
		&zone.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return zone, nil
}

// ListActive returns every zone currently under alert.
func (r *RiskZoneRepository) ListActive(ctx context.Context) ([]*models.RiskZone, error) {
	query := `SELECT ` + zoneColumns + ` FROM risk_zones WHERE active ORDER BY created_at ASC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active risk zones: %w", err)
	}
	defer rows.Close()

	zones := make([]*models.RiskZone, 0)
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk zone row: %w", err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during risk zone iteration: %w", err)
	}
	return zones, nil
}

// GetByID returns one zone regardless of its active flag.
func (r *RiskZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RiskZone, error) {
	query := `SELECT ` + zoneColumns + ` FROM risk_zones WHERE id = $1;`

	zone, err := scanZone(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("risk zone %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get risk zone by id: %w", err)
	}
	return zone, nil
}

// Create stores a new active zone. Geometry is kept as the raw JSON the
// operator tooling produced; it is validated by the service before insert.
func (r *RiskZoneRepository) Create(ctx context.Context, zone *models.RiskZone) error {
	query := `
		INSERT INTO risk_zones (description, geometry, active)
		VALUES ($1, $2::jsonb, $3)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query, zone.Description, zone.Geometry, zone.Active).
		Scan(&zone.ID, &zone.CreatedAt, &zone.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create risk zone: %w", err)
	}
	return nil
}

// Deactivate lowers a zone's alert. The record stays for audit; live feeds
// stop seeing it because they filter on active.
func (r *RiskZoneRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE risk_zones SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active;`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate risk zone: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("active risk zone %s: %w", id, models.ErrNotFound)
	}
	return nil
}
