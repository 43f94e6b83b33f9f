package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// SnapshotSource supplies the full authoritative state of every topic, used
// to seed the hub's projections on startup and after a feed reconnect. Replay
// on top of live diffs is safe: projections are idempotent per key.
type SnapshotSource interface {
	SnapshotEvents(ctx context.Context) ([]liveview.Event, error)
}

type subscription struct {
	client      *client
	unsubscribe bool
	topics      []string
}

// Hub owns the websocket client registry and one projection per topic. All
// state changes flow through the run loop, so events are applied and fanned
// out in the exact order the feed emits them.
type Hub struct {
	logger   *logrus.Logger
	source   SnapshotSource
	redis    *redis.Client
	upgrader websocket.Upgrader

	register     chan *client
	unregister   chan *client
	subscription chan *subscription
	events       chan liveview.Event

	clients     map[*client]bool
	projections map[string]*liveview.Projection
}

func NewHub(logger *logrus.Logger, source SnapshotSource, redisClient *redis.Client) *Hub {
	return &Hub{
		logger: logger,
		source: source,
		redis:  redisClient,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:     make(chan *client),
		unregister:   make(chan *client),
		subscription: make(chan *subscription),
		events:       make(chan liveview.Event, 64),
		clients:      make(map[*client]bool),
		projections: map[string]*liveview.Projection{
			TopicIncidents: liveview.NewProjection(),
			TopicSafety:    liveview.NewProjection(),
			TopicZones:     liveview.NewProjection(),
		},
	}
}

// ServeHTTP upgrades the connection and attaches it to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade live connection")
		return
	}

	c := newClient(ws, h)
	h.register <- c

	go c.listenWrite()
	c.listenRead()
}

// Run drives the hub until the context is cancelled: it loads the initial
// snapshot, consumes the Redis feed, and serializes registry changes with
// event fan-out.
func (h *Hub) Run(ctx context.Context) error {
	if err := h.loadSnapshot(ctx); err != nil {
		return err
	}

	go h.consumeFeed(ctx)

	h.logger.Info("Live hub running")
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Stopping live hub")
			return nil
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
		case s := <-h.subscription:
			h.applySubscription(s)
		case ev := <-h.events:
			h.applyEvent(ev)
		}
	}
}

func (h *Hub) loadSnapshot(ctx context.Context) error {
	events, err := h.source.SnapshotEvents(ctx)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if p, ok := h.projections[ev.Topic]; ok {
			p.Apply([]liveview.Event{ev})
		}
	}
	h.logger.WithField("events", len(events)).Info("Live hub snapshot loaded")
	return nil
}

// consumeFeed forwards the Redis pub/sub stream into the run loop.
func (h *Hub) consumeFeed(ctx context.Context) {
	pubsub := h.redis.Subscribe(ctx, Channel)
	defer pubsub.Close()

	msgCh := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgCh:
			if !ok {
				h.logger.Warn("Live feed channel closed by Redis")
				return
			}
			var ev liveview.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				h.logger.WithError(err).Error("Failed to decode live event")
				continue
			}
			select {
			case h.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// applySubscription updates a client's topic set. New subscriptions receive
// the current projection as a snapshot of added events before any diff, so
// the client's first view already equals authoritative state.
func (h *Hub) applySubscription(s *subscription) {
	for _, topic := range s.topics {
		p, ok := h.projections[topic]
		if !ok {
			continue
		}
		if s.unsubscribe {
			delete(s.client.topics, topic)
			continue
		}
		s.client.topics[topic] = struct{}{}
		for _, ev := range p.Snapshot(topic) {
			s.client.send(ev)
		}
	}
}

// applyEvent folds one feed event into the topic projection and fans it out
// to every subscribed client, preserving feed order.
func (h *Hub) applyEvent(ev liveview.Event) {
	p, ok := h.projections[ev.Topic]
	if !ok {
		return
	}
	p.Apply([]liveview.Event{ev})

	for c := range h.clients {
		if _, subscribed := c.topics[ev.Topic]; subscribed {
			c.send(ev)
		}
	}
}

// Projection returns the hub's current view of a topic. Only for use from
// the run loop or tests; the hub does not lock projections.
func (h *Hub) Projection(topic string) (*liveview.Projection, error) {
	p, ok := h.projections[topic]
	if !ok {
		return nil, errors.New("unknown live topic: " + topic)
	}
	return p, nil
}
