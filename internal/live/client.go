package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/defesacivil/citizen_incident_system/pkg/liveview"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// subscribeRequest is the only inbound message shape clients send.
type subscribeRequest struct {
	Action string   `json:"action"` // "subscribe" | "unsubscribe"
	Topics []string `json:"topics"`
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	out    chan liveview.Event
	topics map[string]struct{}

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, hub *Hub) *client {
	return &client{
		hub:    hub,
		conn:   conn,
		out:    make(chan liveview.Event, 64),
		topics: make(map[string]struct{}),
	}
}

// send queues an event for delivery. A client that cannot keep up is dropped
// rather than allowed to stall the hub loop.
func (c *client) send(ev liveview.Event) {
	select {
	case c.out <- ev:
	default:
		c.hub.logger.Warn("Dropping slow live client")
		go func() { c.hub.unregister <- c }()
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.out)
	})
}

// listenRead consumes subscribe/unsubscribe requests until the peer hangs up.
func (c *client) listenRead() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var req subscribeRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			c.hub.logger.WithError(err).Warn("Ignoring malformed live request")
			continue
		}

		c.hub.subscription <- &subscription{
			client:      c,
			unsubscribe: req.Action == "unsubscribe",
			topics:      req.Topics,
		}
	}
}

// listenWrite pushes queued events and keepalive pings to the peer.
func (c *client) listenWrite() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
