package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

type subscribeMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// LiveFeed is a subscription to the server's live view. Incoming events are
// folded into one projection per topic and forwarded on Events. The server
// replays the current view on subscribe, so a fresh feed converges to the
// live state without any separate fetch.
type LiveFeed struct {
	conn   *websocket.Conn
	events chan liveview.Event

	mu          sync.RWMutex
	projections map[string]*liveview.Projection

	closeOnce sync.Once
	done      chan struct{}
}

// ConnectLive opens the websocket feed and subscribes to the given topics
// ("incidents", "safety", "zones").
func (c *Client) ConnectLive(ctx context.Context, topics ...string) (*LiveFeed, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/live"

	header := http.Header{}
	header.Set("X-API-Key", c.apiKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial live feed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	feed := &LiveFeed{
		conn:        conn,
		events:      make(chan liveview.Event, 64),
		projections: make(map[string]*liveview.Projection),
		done:        make(chan struct{}),
	}

	if err := conn.WriteJSON(subscribeMessage{Action: "subscribe", Topics: topics}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	go feed.listen()
	return feed, nil
}

// Events returns the stream of change events as they arrive, already applied
// to the feed's projections. The channel closes when the feed closes.
func (f *LiveFeed) Events() <-chan liveview.Event {
	return f.events
}

// Get returns the current document for a key within a topic. Reads reflect
// every event received so far, which may be ahead of what the consumer has
// drained from Events.
func (f *LiveFeed) Get(topic, key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.projections[topic]
	if !ok {
		return nil, false
	}
	doc, ok := p.Get(key)
	return doc, ok
}

// Keys returns the sorted keys currently present in a topic's view.
func (f *LiveFeed) Keys(topic string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.projections[topic]
	if !ok {
		return nil
	}
	return p.Keys()
}

// Close shuts the feed down and closes the Events channel.
func (f *LiveFeed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		err = f.conn.Close()
	})
	return err
}

func (f *LiveFeed) listen() {
	defer close(f.events)
	for {
		var ev liveview.Event
		if err := f.conn.ReadJSON(&ev); err != nil {
			f.Close()
			return
		}

		f.mu.Lock()
		p, ok := f.projections[ev.Topic]
		if !ok {
			p = liveview.NewProjection()
			f.projections[ev.Topic] = p
		}
		p.Apply([]liveview.Event{ev})
		f.mu.Unlock()

		select {
		case f.events <- ev:
		case <-f.done:
			return
		}
	}
}
