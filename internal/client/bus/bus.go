// Package bus is the in-process notification channel between the capture
// pipeline, the sync worker and any observers (e.g. a history view).
// Delivery is at-most-once per subscriber, fire-and-forget: nothing is
// persisted, and a subscriber that registers after an event was published
// must bulk-read from the local store instead.
package bus

import "sync"

// Kind is the notification type.
type Kind string

const (
	// KindRecordingCreated carries the full new recording.
	KindRecordingCreated Kind = "recording-created"
	// KindRecordingUpdated carries the id plus the changed fields.
	KindRecordingUpdated Kind = "recording-updated"
)

// UpdatedFields names what changed on an existing row. SyncError is set on
// failure notifications; the row itself stays pending in that case.
type UpdatedFields struct {
	Status         string `json:"status,omitempty"`
	RemoteAudioRef string `json:"remoteAudioRef,omitempty"`
	SyncError      string `json:"syncError,omitempty"`
}

// Event is one notification. Recording is set for created events, ID and
// Fields for updated events.
type Event struct {
	Kind      Kind          `json:"kind"`
	Recording any           `json:"recording,omitempty"`
	ID        int64         `json:"id,omitempty"`
	Fields    UpdatedFields `json:"fields,omitempty"`
}

// Bus fans events out to subscribers in publish order. A slow subscriber
// whose buffer is full loses the event rather than blocking the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	buffer int
	closed bool
}

// New returns a bus whose subscriber channels hold up to buffer events.
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{subs: make(map[int]chan Event), buffer: buffer}
}

// Subscribe registers a listener and returns its channel together with a
// deregistration func. Callers must deregister on teardown; the returned
// func closes the channel and is safe to call twice.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber too slow; at-most-once means the event is dropped.
		}
	}
}

// Close deregisters and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
