package runner

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/events"
	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/metrics"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

// Hub fans stopwatch change events out to SSE clients on /events.
//
// Delivery is lossy: a client that cannot keep up with the tick cadence is
// dropped rather than allowed to stall the broadcast, and every frame
// carries the full status so a reconnecting client is current again after
// one event.
type Hub struct {
	rec metrics.Recorder

	mu      sync.RWMutex
	nextID  int
	clients map[int]*sseClient
	closed  bool
	last    []byte

	unsub func()
	done  chan struct{}
}

type sseClient struct {
	id   int
	ch   chan sseFrame
	done chan struct{}
}

type sseFrame struct {
	event string
	data  []byte
}

// NewHub returns a hub with no clients. Call Start to begin forwarding.
func NewHub(rec metrics.Recorder) *Hub {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Hub{rec: rec, clients: map[int]*sseClient{}}
}

// Start subscribes the hub to the bus until Shutdown or bus close.
func (h *Hub) Start(bus *events.Bus) {
	ch, unsub := events.Subscribe[stopwatch.Event](bus, 128)
	h.unsub = unsub
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		for evt := range ch {
			data, err := json.Marshal(newStatusPayload(evt.State()))
			if err != nil {
				slog.Debug("status payload encoding failed", logfields.Error(err))
				continue
			}
			h.broadcast(evt.Op(), data)
		}
	}()
}

// ServeHTTP implements the SSE endpoint.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	last := h.last
	h.mu.RUnlock()
	if closed {
		http.Error(w, "event stream shutting down", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	client := &sseClient{ch: make(chan sseFrame, 32), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	h.mu.Unlock()

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		slog.Debug("sse write", logfields.Error(err))
		h.removeClient(client.id)
		return
	}
	if last != nil {
		writeFrame(bw, sseFrame{event: "status", data: last})
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}

	hb := time.NewTicker(30 * time.Second)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.removeClient(client.id)
			return
		case <-client.done:
			return
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err == nil {
				bw.Flush()
				flusher.Flush()
			} else {
				h.removeClient(client.id)
				return
			}
		case frame := <-client.ch:
			if err := writeFrame(bw, frame); err == nil {
				bw.Flush()
				flusher.Flush()
			} else {
				h.removeClient(client.id)
				return
			}
		}
	}
}

func writeFrame(bw *bufio.Writer, frame sseFrame) error {
	if _, err := bw.WriteString("event: " + frame.event + "\n"); err != nil {
		return err
	}
	if _, err := bw.WriteString("data: "); err != nil {
		return err
	}
	if _, err := bw.Write(frame.data); err != nil {
		return err
	}
	_, err := bw.WriteString("\n\n")
	return err
}

// broadcast sends the frame to all clients, dropping any whose buffers are
// full.
func (h *Hub) broadcast(event string, data []byte) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.last = data
	snapshot := make([]*sseClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		select {
		case c.ch <- sseFrame{event: event, data: data}:
		default:
			h.removeClient(c.id)
			h.rec.IncEventsDropped("sse")
			slog.Debug("dropped slow sse client", slog.Int("client", c.id))
		}
	}
}

func (h *Hub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects all clients and stops forwarding.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*sseClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = map[int]*sseClient{}
	h.mu.Unlock()

	for _, c := range clients {
		close(c.done)
	}
	if h.unsub != nil {
		h.unsub()
		<-h.done
	}
}
