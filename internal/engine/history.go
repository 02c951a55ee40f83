package engine

import (
	"encoding/json"
	"sync"
)

// History is the bounded ring of encoded events kept for pull-style
// polling. Appending past capacity drops the oldest entry; this is a
// deliberately lossy buffer, not a durable log. Safe for one writer and
// concurrent readers.
type History struct {
	mu  sync.RWMutex
	buf []json.RawMessage
	cap int
}

// NewHistory creates a ring with the given capacity. Capacity <= 0
// disables the buffer entirely.
func NewHistory(capacity int) *History {
	return &History{cap: capacity}
}

// Append records one encoded event, evicting the oldest when full.
func (h *History) Append(payload json.RawMessage) {
	if h == nil || h.cap <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.buf) == h.cap {
		h.buf = append(h.buf[1:], payload)
		return
	}
	h.buf = append(h.buf, payload)
}

// Latest returns up to limit of the most recent entries, oldest first.
// limit <= 0 returns everything buffered.
func (h *History) Latest(limit int) []json.RawMessage {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.buf)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]json.RawMessage, n)
	copy(out, h.buf[len(h.buf)-n:])
	return out
}

// Len reports the number of buffered entries.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.buf)
}
