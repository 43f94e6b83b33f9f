// Package webhook delivers out-of-band operator alerts. The live feed covers
// connected consoles; the webhook covers the dispatch systems that are not,
// in particular when a citizen inside a risk zone answers that they need
// help.
package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/defesacivil/citizen_incident_system/internal/models"
)

const alertQueueKey = "safety_alert_events"

// AlertEvent is the payload delivered to the operator webhook.
type AlertEvent struct {
	CitizenID   string          `json:"citizen_id"`
	DisplayName string          `json:"display_name"`
	ZoneID      uuid.UUID       `json:"zone_id"`
	Status      string          `json:"status"`
	Location    models.Location `json:"location"`
	Timestamp   time.Time       `json:"timestamp"`
}

// AlertPublisher queues alert events for asynchronous delivery.
type AlertPublisher interface {
	Publish(ctx context.Context, event AlertEvent) error
}

// RedisAlertPublisher implements AlertPublisher over a Redis list, decoupling
// the request path from webhook delivery latency and retries.
type RedisAlertPublisher struct {
	redisClient *redis.Client
}

func NewRedisAlertPublisher(client *redis.Client) *RedisAlertPublisher {
	return &RedisAlertPublisher{redisClient: client}
}

func (p *RedisAlertPublisher) Publish(ctx context.Context, event AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, alertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to queue alert event: %w", err)
	}
	return nil
}
