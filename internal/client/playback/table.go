// Package playback tracks transient playback handles with explicit
// ownership: every Open must be paired with a Release, and the delete path
// releases before the row is removed from the store.
package playback

import (
	"bytes"
	"io"
	"sync"
)

// Handle is a readable view over a recording's payload. It stays valid until
// released, independent of what happens to the row afterwards.
type Handle struct {
	id     int64
	reader *bytes.Reader

	mu       sync.Mutex
	released bool
}

// ID returns the recording id the handle was opened for.
func (h *Handle) ID() int64 { return h.id }

// Read implements io.Reader over the payload.
func (h *Handle) Read(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return 0, io.ErrClosedPipe
	}
	return h.reader.Read(p)
}

// Released reports whether the handle has been freed.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Table is the ownership table for open handles, keyed by recording id.
// At most one handle per id is tracked; opening again replaces (and
// releases) the previous one.
type Table struct {
	mu      sync.Mutex
	handles map[int64]*Handle
}

// NewTable returns an empty handle table.
func NewTable() *Table {
	return &Table{handles: make(map[int64]*Handle)}
}

// Open creates a handle over the payload and registers it.
func (t *Table) Open(id int64, payload []byte) *Handle {
	h := &Handle{id: id, reader: bytes.NewReader(payload)}

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.handles[id]; ok {
		prev.free()
	}
	t.handles[id] = h
	return h
}

// Release frees the handle for the given id. Releasing an unknown id is a
// no-op.
func (t *Table) Release(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.handles[id]; ok {
		h.free()
		delete(t.handles, id)
	}
}

// ReleaseAll frees every open handle. Called on component teardown.
func (t *Table) ReleaseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, h := range t.handles {
		h.free()
		delete(t.handles, id)
	}
}

// Len reports the number of open handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

func (h *Handle) free() {
	h.mu.Lock()
	h.released = true
	h.reader = nil
	h.mu.Unlock()
}
