package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/defesacivil/citizen_incident_system/internal/service"
)

// PromptSessionStore remembers which (citizen, zone) pairs were already
// prompted this session, so a citizen lingering inside a zone is not re-asked
// on every position update. This is deliberately separate from the persisted
// safety status: the record may stay pending for a long time, but the prompt
// fires at most once per session.
type PromptSessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewPromptSessionStore(redisClient *redis.Client, ttl time.Duration) service.PromptSessionStore {
	return &PromptSessionStore{redisClient: redisClient, ttl: ttl}
}

func promptKey(citizenID string, zoneID uuid.UUID) string {
	return fmt.Sprintf("safety:prompted:%s:%s", citizenID, zoneID.String())
}

// Seen reports whether the pair was already prompted within the session TTL.
func (s *PromptSessionStore) Seen(ctx context.Context, citizenID string, zoneID uuid.UUID) (bool, error) {
	n, err := s.redisClient.Exists(ctx, promptKey(citizenID, zoneID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check prompt session: %w", err)
	}
	return n > 0, nil
}

// Mark records that the pair was prompted.
func (s *PromptSessionStore) Mark(ctx context.Context, citizenID string, zoneID uuid.UUID) error {
	if err := s.redisClient.Set(ctx, promptKey(citizenID, zoneID), 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark prompt session: %w", err)
	}
	return nil
}

// Clear forgets the pair, re-arming the prompt. Called when the citizen
// leaves the zone so a genuine re-entry asks again.
func (s *PromptSessionStore) Clear(ctx context.Context, citizenID string, zoneID uuid.UUID) error {
	if err := s.redisClient.Del(ctx, promptKey(citizenID, zoneID)).Err(); err != nil {
		return fmt.Errorf("failed to clear prompt session: %w", err)
	}
	return nil
}
