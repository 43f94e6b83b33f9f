package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/defesacivil/citizen_incident_system/internal/config"
)

// AlertWorker drains the alert queue and posts each event to the configured
// operator webhook, signing the payload when a secret is set.
type AlertWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

func NewAlertWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *AlertWorker {
	return &AlertWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// Start runs the queue loop in a goroutine until the context is cancelled.
func (w *AlertWorker) Start(ctx context.Context) {
	w.logger.Info("Starting safety alert worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping safety alert worker.")
				return
			default:
				result, err := w.redisClient.BRPop(ctx, 0, alertQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop alert event from Redis")
					time.Sleep(w.cfg.WebhookTimeout)
					continue
				}

				payload := result[1]
				var event AlertEvent
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal alert event from Redis")
					continue
				}

				w.deliver(ctx, event, payload)
			}
		}
	}()
}

func (w *AlertWorker) deliver(ctx context.Context, event AlertEvent, rawPayload string) {
	log := w.logger.WithFields(logrus.Fields{
		"citizen_id": event.CitizenID,
		"zone_id":    event.ZoneID,
		"status":     event.Status,
	})
	log.Debug("Delivering safety alert...")

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping alert delivery.")
		return
	}

	delay := w.cfg.WebhookBaseDelay
	for i := 0; i < w.cfg.WebhookMaxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Error("Failed to build alert request")
			return
		}

		req.Header.Set("Content-Type", "application/json")
		if w.cfg.WebhookSecret != "" {
			req.Header.Set("X-Webhook-Signature", signHMACSHA256(rawPayload, w.cfg.WebhookSecret))
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to send alert. Retrying in %v", delay)
			time.Sleep(delay)
			delay *= 2
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Info("Safety alert delivered.")
			return
		}
		log.Warnf("Alert delivery failed with status %d. Retrying in %v", resp.StatusCode, delay)
		time.Sleep(delay)
		delay *= 2
	}

	log.Errorf("Failed to deliver safety alert after %d retries.", w.cfg.WebhookMaxRetries)
}

func signHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
