package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/internal/service"
)

const incidentColumns = `
	id,
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lng,
	status,
	types,
	members,
	created_at,
	updated_at
`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanIncident(row scannable) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Location.Lat,
		&incident.Location.Lng,
		&incident.Status,
		&incident.Types,
		&incident.Members,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Submit runs fn inside one transaction holding a per-citizen advisory lock,
// so the active-report guard and the subsequent merge-or-create write behave
// atomically even when the same citizen submits concurrently.
func (r *IncidentRepository) Submit(ctx context.Context, citizenID string, fn func(ctx context.Context, store service.SubmitStore) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin submit transaction: %v", models.ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, citizenID); err != nil {
		return fmt.Errorf("%w: failed to take citizen lock: %v", models.ErrStoreUnavailable, err)
	}

	if err := fn(ctx, &submitStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit submit transaction: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// submitStore exposes the queries the clustering engine needs, bound to the
// submit transaction.
type submitStore struct {
	tx pgx.Tx
}

// ActiveIncidentFor returns the active incident the citizen is a member of,
// or nil when there is none.
func (s *submitStore) ActiveIncidentFor(ctx context.Context, citizenID string) (*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			status = ANY($2)
			AND members @> jsonb_build_array(jsonb_build_object('citizen_id', $1::text))
		LIMIT 1;
	`
	incident, err := scanIncident(s.tx.QueryRow(ctx, query, citizenID, models.ActiveStatuses))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query active incident for citizen: %w", err)
	}
	return incident, nil
}

// NearestActiveWithin returns the closest active incident within the radius,
// or nil when none qualifies. Ties on distance break on created_at so the
// pick is deterministic for a given snapshot.
func (s *submitStore) NearestActiveWithin(ctx context.Context, loc models.Location, radiusMeters float64) (*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			status = ANY($4)
			AND ST_DWithin(
				location,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
				$3
			)
		ORDER BY
			ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) ASC,
			created_at ASC
		LIMIT 1;
	`
	incident, err := scanIncident(s.tx.QueryRow(ctx, query, loc.Lng, loc.Lat, radiusMeters, models.ActiveStatuses))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query nearest active incident: %w", err)
	}
	return incident, nil
}

// AppendMember merges one more report into an existing incident: the member
// list grows in join order, the type set gains the tag if absent, and
// updated_at is stamped. The anchor location is never touched.
func (s *submitStore) AppendMember(ctx context.Context, id uuid.UUID, member models.Member) (*models.Incident, error) {
	entry, err := json.Marshal([]models.Member{member})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal member entry: %w", err)
	}

	query := `
		UPDATE incidents SET
			members = members || $2::jsonb,
			types = CASE WHEN $3 = ANY(types) THEN types ELSE array_append(types, $3) END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + incidentColumns + `;
	`
	incident, err := scanIncident(s.tx.QueryRow(ctx, query, id, entry, member.Type))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to append member to incident: %w", err)
	}
	return incident, nil
}

// InsertIncident creates a fresh incident anchored at the submitter's point.
func (s *submitStore) InsertIncident(ctx context.Context, incident *models.Incident) error {
	members, err := json.Marshal(incident.Members)
	if err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}

	query := `
		INSERT INTO incidents (location, status, types, members)
		VALUES (ST_SetSRID(ST_MakePoint($1, $2), 4326), $3, $4, $5::jsonb)
		RETURNING id, created_at, updated_at;
	`
	err = s.tx.QueryRow(ctx, query,
		incident.Location.Lng,
		incident.Location.Lat,
		incident.Status,
		incident.Types,
		members,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}
	return nil
}

// GetByID returns an incident by its UUID.
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// ListIncidents returns incidents with pagination, newest first.
func (r *IncidentRepository) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	offset := (page - 1) * pageSize

	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during list iteration: %w", err)
	}
	return incidents, nil
}

// ListAllActive returns every active incident, oldest first. Used to build
// the snapshot new live subscribers receive.
func (r *IncidentRepository) ListAllActive(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE status = ANY($1)
		ORDER BY created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, models.ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list active incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during active list iteration: %w", err)
	}
	return incidents, nil
}

// TransitionStatus applies a single forward lifecycle transition. Resolving
// deletes the record entirely; the returned incident carries the resolved
// status so callers can emit the removal event.
func (r *IncidentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transition: %v", models.ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	incident, err := transitionInTx(ctx, tx, id, newStatus)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit transition: %v", models.ErrStoreUnavailable, err)
	}
	return incident, nil
}

// TransitionStatusBulk applies the same transition to every incident in one
// transaction. Any invalid target rolls back the whole batch.
func (r *IncidentRepository) TransitionStatusBulk(ctx context.Context, ids []uuid.UUID, newStatus string) ([]*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin bulk transition: %v", models.ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	incidents := make([]*models.Incident, 0, len(ids))
	for _, id := range ids {
		incident, err := transitionInTx(ctx, tx, id, newStatus)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit bulk transition: %v", models.ErrStoreUnavailable, err)
	}
	return incidents, nil
}

func transitionInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, newStatus string) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1 FOR UPDATE;`

	incident, err := scanIncident(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock incident for transition: %w", err)
	}

	if !models.CanTransition(incident.Status, newStatus) {
		return nil, fmt.Errorf("cannot move incident %s from %q to %q: %w",
			id, incident.Status, newStatus, models.ErrInvalidTransition)
	}

	if newStatus == models.StatusResolved {
		if _, err := tx.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id); err != nil {
			return nil, fmt.Errorf("failed to delete resolved incident: %w", err)
		}
		incident.Status = models.StatusResolved
		return incident, nil
	}

	err = tx.QueryRow(ctx,
		`UPDATE incidents SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at;`,
		id, newStatus,
	).Scan(&incident.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}
	incident.Status = newStatus
	return incident, nil
}

// GetIncidentFromCache tries to fetch an incident from Redis. A nil incident
// with nil error means a cache miss.
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache stores an incident in Redis with a short TTL.
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache drops an incident from the Redis cache.
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
