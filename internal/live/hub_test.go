package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defesacivil/citizen_incident_system/internal/models"
	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

// staticSnapshot serves a fixed event list as the authoritative state.
type staticSnapshot struct {
	events []liveview.Event
	err    error
}

func (s staticSnapshot) SnapshotEvents(context.Context) ([]liveview.Event, error) {
	return s.events, s.err
}

func newTestHub(source SnapshotSource) *Hub {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewHub(logger, source, nil)
}

// attach registers a client the way the run loop does, without a websocket.
func attach(h *Hub) *client {
	c := newClient(nil, h)
	h.clients[c] = true
	return c
}

// received drains everything currently queued for the client.
func received(c *client) []liveview.Event {
	var events []liveview.Event
	for {
		select {
		case ev := <-c.out:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestHub_SnapshotOnSubscribeEqualsAuthoritativeState(t *testing.T) {
	first := IncidentEvent(liveview.Added, &models.Incident{ID: uuid.New(), Status: models.StatusOpen})
	second := IncidentEvent(liveview.Added, &models.Incident{ID: uuid.New(), Status: models.StatusConfirmed})
	zone := ZoneEvent(liveview.Added, &models.RiskZone{ID: uuid.New(), Active: true})

	h := newTestHub(staticSnapshot{events: []liveview.Event{first, second, zone}})
	require.NoError(t, h.loadSnapshot(context.Background()))

	c := attach(h)
	h.applySubscription(&subscription{client: c, topics: []string{TopicIncidents}})

	events := received(c)
	require.Len(t, events, 2, "only the subscribed topic is replayed")

	// Rebuilding a projection from the replayed events yields the hub's own
	// view of the topic.
	rebuilt := liveview.NewProjection()
	rebuilt.Apply(events)
	authoritative, err := h.Projection(TopicIncidents)
	require.NoError(t, err)
	assert.Equal(t, authoritative.Keys(), rebuilt.Keys())
}

func TestHub_ResubscribeReplayConverges(t *testing.T) {
	ev := IncidentEvent(liveview.Added, &models.Incident{ID: uuid.New(), Status: models.StatusOpen})
	h := newTestHub(staticSnapshot{events: []liveview.Event{ev}})
	require.NoError(t, h.loadSnapshot(context.Background()))

	c := attach(h)
	h.applySubscription(&subscription{client: c, topics: []string{TopicIncidents}})
	h.applySubscription(&subscription{client: c, topics: []string{TopicIncidents}})

	// The duplicate replay delivers the event twice, but a projection built
	// from the doubled stream still equals the authoritative view.
	events := received(c)
	require.Len(t, events, 2)
	rebuilt := liveview.NewProjection()
	rebuilt.Apply(events)
	assert.Equal(t, 1, rebuilt.Len())
}

func TestHub_FanOutPreservesOrderPerTopic(t *testing.T) {
	h := newTestHub(staticSnapshot{})
	require.NoError(t, h.loadSnapshot(context.Background()))

	incidentWatcher := attach(h)
	safetyWatcher := attach(h)
	h.applySubscription(&subscription{client: incidentWatcher, topics: []string{TopicIncidents}})
	h.applySubscription(&subscription{client: safetyWatcher, topics: []string{TopicSafety}})

	incident := &models.Incident{ID: uuid.New(), Status: models.StatusOpen}
	h.applyEvent(IncidentEvent(liveview.Added, incident))
	incident.Status = models.StatusConfirmed
	h.applyEvent(IncidentEvent(liveview.Modified, incident))
	incident.Status = models.StatusResolved
	h.applyEvent(IncidentEvent(liveview.Removed, incident))

	events := received(incidentWatcher)
	require.Len(t, events, 3)
	assert.Equal(t, liveview.Added, events[0].Type)
	assert.Equal(t, liveview.Modified, events[1].Type)
	assert.Equal(t, liveview.Removed, events[2].Type)

	var modified models.Incident
	require.NoError(t, json.Unmarshal(events[1].Doc, &modified))
	assert.Equal(t, models.StatusConfirmed, modified.Status)

	assert.Empty(t, received(safetyWatcher), "unsubscribed topics deliver nothing")

	// The resolved incident is gone from the hub's own view too.
	authoritative, err := h.Projection(TopicIncidents)
	require.NoError(t, err)
	assert.Equal(t, 0, authoritative.Len())
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := newTestHub(staticSnapshot{})
	require.NoError(t, h.loadSnapshot(context.Background()))

	c := attach(h)
	h.applySubscription(&subscription{client: c, topics: []string{TopicIncidents}})
	h.applySubscription(&subscription{client: c, unsubscribe: true, topics: []string{TopicIncidents}})

	h.applyEvent(IncidentEvent(liveview.Added, &models.Incident{ID: uuid.New(), Status: models.StatusOpen}))

	assert.Empty(t, received(c))
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := newTestHub(staticSnapshot{})
	require.NoError(t, h.loadSnapshot(context.Background()))

	c := attach(h)
	h.applySubscription(&subscription{client: c, topics: []string{TopicIncidents}})

	// Saturate the client's queue so the next fan-out cannot be delivered.
	for i := 0; i < cap(c.out); i++ {
		c.out <- liveview.Event{Type: liveview.Added, Topic: TopicIncidents}
	}
	h.applyEvent(IncidentEvent(liveview.Added, &models.Incident{ID: uuid.New(), Status: models.StatusOpen}))

	select {
	case dropped := <-h.unregister:
		assert.Same(t, c, dropped)
	case <-time.After(time.Second):
		t.Fatal("expected the saturated client to be unregistered")
	}
}

func TestHub_SnapshotFailureSurfaces(t *testing.T) {
	h := newTestHub(staticSnapshot{err: errors.New("store down")})

	err := h.loadSnapshot(context.Background())

	require.Error(t, err)
}
