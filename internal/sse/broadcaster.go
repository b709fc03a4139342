// internal/sse/broadcaster.go
//
// Fan-out of server-sent events to the clients watching one game.
//
// Publish never blocks the game: each client has a buffered channel and a
// message that does not fit in it is dropped for that client only. Callers
// publish while holding their game lock, so a stalled reader must cost
// nothing.

package sse

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// ClientBuffer is how many undelivered messages a client may fall behind.
const ClientBuffer = 16

// Message is one event on the stream.
type Message struct {
	Event string
	Data  string
}

// Write encodes m in text/event-stream framing.
func (m Message) Write(w io.Writer) error {
	var b strings.Builder
	if m.Event != "" {
		fmt.Fprintf(&b, "event: %s\n", m.Event)
	}
	for _, line := range strings.Split(m.Data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Hub tracks the subscribers of one stream.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan Message]struct{}
	closed  bool
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[chan Message]struct{})}
}

// Subscribe registers a new client. The returned cancel func unregisters it;
// the channel is closed when the client is removed or the Hub shuts down.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, ClientBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.clients[ch] = struct{}{}
	return ch, func() { h.remove(ch) }
}

func (h *Hub) remove(ch chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends m to every client without waiting. A client whose buffer is
// full misses m.
func (h *Hub) Publish(m Message) {
	// The read lock keeps remove from closing a channel mid-send; sends never
	// block, so holding it is brief.
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.clients {
		select {
		case ch <- m:
			delivered++
		default:
		}
	}
	if dropped := len(h.clients) - delivered; dropped > 0 {
		log.Debug().Str("event", m.Event).Int("dropped", dropped).Msg("sse slow clients")
	}
}

// Close disconnects every client. Later subscribers get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		close(ch)
	}
	h.clients = make(map[chan Message]struct{})
	h.closed = true
}
