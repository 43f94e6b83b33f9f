// Package liveview keeps a client-side projection of a store collection in
// sync with an ordered stream of change events. The projection is a local
// cache of full document payloads keyed by document id; it is never treated
// as authoritative and can always be rebuilt from a fresh snapshot.
package liveview

import (
	"encoding/json"
	"sort"
)

// Change types emitted by the store's live subscription.
const (
	Added    = "added"
	Modified = "modified"
	Removed  = "removed"
)

// Event is one ordered change notification with the full document payload.
type Event struct {
	Type  string          `json:"type"`
	Topic string          `json:"topic"`
	Key   string          `json:"key"`
	Doc   json.RawMessage `json:"doc,omitempty"`
}

// Projection is the reconciled local view of one collection. Applying any
// prefix of the event stream leaves the projection equal to what a full read
// of the store would yield at that point: added and modified both replace the
// entry wholesale, removed deletes it, and replays converge to the same
// state. Not safe for concurrent use; callers serialize event application.
type Projection struct {
	docs map[string]json.RawMessage
}

func NewProjection() *Projection {
	return &Projection{docs: make(map[string]json.RawMessage)}
}

// Apply reconciles one batch of events in order.
func (p *Projection) Apply(events []Event) {
	for _, ev := range events {
		switch ev.Type {
		case Added, Modified:
			// Replace rather than patch: full payloads make the two
			// cases identical and keep reapplication idempotent.
			p.docs[ev.Key] = ev.Doc
		case Removed:
			delete(p.docs, ev.Key)
		}
	}
}

// Get returns the current payload for a key.
func (p *Projection) Get(key string) (json.RawMessage, bool) {
	doc, ok := p.docs[key]
	return doc, ok
}

func (p *Projection) Len() int {
	return len(p.docs)
}

// Keys returns the projected key set in sorted order.
func (p *Projection) Keys() []string {
	keys := make([]string, 0, len(p.docs))
	for k := range p.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot renders the whole projection as a sequence of added events, the
// form a subscriber receives when it first attaches to a topic.
func (p *Projection) Snapshot(topic string) []Event {
	events := make([]Event, 0, len(p.docs))
	for _, key := range p.Keys() {
		events = append(events, Event{
			Type:  Added,
			Topic: topic,
			Key:   key,
			Doc:   p.docs[key],
		})
	}
	return events
}
