package live

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// Publisher delivers committed change events into the live feed. Services
// publish after the store write commits, never before, so subscribers can
// only ever observe durable state.
type Publisher interface {
	Publish(ctx context.Context, event liveview.Event) error
}

// RedisPublisher implements Publisher over Redis pub/sub. Redis preserves
// publish order per channel, which gives the feed the ordering guarantee the
// projection layer relies on.
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{redisClient: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, event liveview.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal live event: %w", err)
	}
	if err := p.redisClient.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish live event: %w", err)
	}
	return nil
}
