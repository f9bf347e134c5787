package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

// statusPayload is the JSON shape served by /api/status, returned from every
// mutation endpoint, and streamed over /events.
type statusPayload struct {
	Running      bool     `json:"running"`
	Elapsed      float64  `json:"elapsed"`
	Display      string   `json:"display"`
	LapCount     int      `json:"lapCount"`
	TotalLapTime float64  `json:"totalLapTime"`
	TotalDisplay string   `json:"totalDisplay"`
	Laps         []apiLap `json:"laps"`
}

type apiLap struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Elapsed   float64   `json:"elapsed"`
	Display   string    `json:"display"`
}

func newStatusPayload(snap stopwatch.Snapshot) statusPayload {
	laps := make([]apiLap, 0, len(snap.Laps))
	var total time.Duration
	for _, lap := range snap.Laps {
		total += lap.Elapsed
		laps = append(laps, apiLap{
			ID:        lap.ID,
			Name:      lap.Name,
			CreatedAt: lap.CreatedAt,
			Elapsed:   lap.Elapsed.Seconds(),
			Display:   stopwatch.FormatElapsed(lap.Elapsed),
		})
	}
	return statusPayload{
		Running:      snap.Running,
		Elapsed:      snap.Elapsed.Seconds(),
		Display:      stopwatch.FormatElapsed(snap.Elapsed),
		LapCount:     len(snap.Laps),
		TotalLapTime: total.Seconds(),
		TotalDisplay: stopwatch.FormatElapsed(total),
		Laps:         laps,
	}
}

// Server exposes the session over HTTP: status and mutation endpoints under
// /api, the SSE stream on /events, and optionally /metrics.
type Server struct {
	sess    *session.Session
	hub     *Hub
	metrics http.Handler
	addr    string

	ln  net.Listener
	srv *http.Server
}

// NewServer wires the handlers but does not listen yet. A nil metricsHandler
// leaves /metrics unregistered.
func NewServer(sess *session.Session, hub *Hub, addr string, metricsHandler http.Handler) *Server {
	return &Server{sess: sess, hub: hub, metrics: metricsHandler, addr: addr}
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	// No WriteTimeout: /events holds its stream open indefinitely.
	s.srv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server terminated", logfields.Error(err))
		}
	}()
	slog.Info("http server listening", logfields.Addr(ln.Addr().String()))
	return nil
}

// Addr returns the bound address, useful when the configured port is 0.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/start", s.mutation(func() { s.sess.Start() }))
	mux.HandleFunc("POST /api/stop", s.mutation(func() { s.sess.Stop() }))
	mux.HandleFunc("POST /api/toggle", s.mutation(func() { s.sess.Toggle() }))
	mux.HandleFunc("POST /api/reset", s.mutation(func() { s.sess.Reset() }))
	mux.HandleFunc("POST /api/lap", s.mutation(func() { s.sess.SaveLap() }))
	mux.HandleFunc("POST /api/laps/delete", s.handleDeleteLaps)
	mux.HandleFunc("POST /api/laps/rename", s.handleRenameLap)
	if s.hub != nil {
		mux.Handle("GET /events", s.hub)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newStatusPayload(s.sess.Snapshot()))
}

// mutation adapts a session operation into a handler that responds with the
// state after the operation applied.
func (s *Server) mutation(op func()) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		op()
		writeJSON(w, http.StatusOK, newStatusPayload(s.sess.Snapshot()))
	}
}

func (s *Server) handleDeleteLaps(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Indices []int `json:"indices"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Indices) == 0 {
		writeError(w, http.StatusBadRequest, "indices required")
		return
	}
	removed := s.sess.DeleteLaps(req.Indices)
	writeJSON(w, http.StatusOK, struct {
		Removed int `json:"removed"`
		statusPayload
	}{removed, newStatusPayload(s.sess.Snapshot())})
}

func (s *Server) handleRenameLap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name required")
		return
	}
	if !s.sess.Rename(req.ID, req.Name) {
		writeError(w, http.StatusNotFound, "lap not found")
		return
	}
	writeJSON(w, http.StatusOK, newStatusPayload(s.sess.Snapshot()))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encoding failed", logfields.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
