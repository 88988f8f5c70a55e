// Package stream publishes sand frames to websocket clients and accepts paint
// requests over HTTP.
package stream

import (
	"sync"

	"sandfall/internal/sims/sand"
)

// Frame is one published view of the world. Cells holds display codes in
// screen order, top row first; it is base64 encoded on the wire.
type Frame struct {
	Step  uint32 `json:"step"`
	Size  int    `json:"size"`
	Cells []byte `json:"cells"`
}

// Snapshot copies the world's current display buffer into a Frame.
func Snapshot(w *sand.World) Frame {
	return Frame{
		Step:  w.Steps(),
		Size:  w.GridSize(),
		Cells: append([]byte(nil), w.Cells()...),
	}
}

// Hub fans frames out to subscribers. Each subscriber holds at most one
// pending frame; a newer frame replaces one that has not been read yet, so a
// slow client never stalls the runner.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Frame]struct{}
	latest *Frame
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Frame]struct{})}
}

// Subscribe registers a subscriber. The latest frame, if any, is delivered
// immediately. cancel must be called once the subscriber is done.
func (h *Hub) Subscribe() (frames <-chan Frame, cancel func()) {
	ch := make(chan Frame, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.latest != nil {
		ch <- *h.latest
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// Publish delivers f to every subscriber.
func (h *Hub) Publish(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &f
	for ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- f
	}
}

// Subscribers reports how many subscribers are registered.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Latest returns the most recently published frame.
func (h *Hub) Latest() (Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return Frame{}, false
	}
	return *h.latest, true
}
