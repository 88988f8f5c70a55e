package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sandfall/internal/sims/sand"
)

// PaintRequest is the body accepted by POST /paint.
type PaintRequest struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Material string `json:"material"`
}

// Server exposes a Runner over HTTP:
//
//	GET  /frame  current frame as JSON
//	GET  /ws     websocket stream of frames
//	POST /paint  paint one cell
//	POST /reset  rebuild the world
type Server struct {
	runner   *Runner
	hub      *Hub
	interval time.Duration
	log      *slog.Logger

	// ctx ends every websocket session on shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer builds a server publishing at most one frame per interval to
// each websocket client.
func NewServer(runner *Runner, hub *Hub, interval time.Duration, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{runner: runner, hub: hub, interval: interval, log: log, ctx: ctx, cancel: cancel}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/frame", s.serveFrame).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)
	r.HandleFunc("/paint", s.servePaint).Methods(http.MethodPost)
	r.HandleFunc("/reset", s.serveReset).Methods(http.MethodPost)
	return r
}

// Close ends all websocket sessions.
func (s *Server) Close() { s.cancel() }

// ListenAndServe serves on addr until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		s.Close()
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Frame())
}

func (s *Server) servePaint(w http.ResponseWriter, r *http.Request) {
	var req PaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad paint request: "+err.Error(), http.StatusBadRequest)
		return
	}
	m, err := sand.ParseMaterial(req.Material)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.runner.InBounds(req.Row, req.Col) {
		http.Error(w, fmt.Sprintf("cell (%d, %d) is outside the grid", req.Row, req.Col), http.StatusBadRequest)
		return
	}
	if !s.runner.Paint(req.Row, req.Col, m) {
		http.Error(w, fmt.Sprintf("%s is not in the world's material set", m), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveReset(w http.ResponseWriter, r *http.Request) {
	s.runner.Reset(0)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	frames, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	cli, err := newClient(frames, s.interval, w, r)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	s.log.Info("client connected", "remote", r.RemoteAddr, "clients", s.hub.Subscribers())
	if err := cli.sync(ctx); err != nil {
		s.log.Info("client disconnected", "remote", r.RemoteAddr, "err", err)
		return
	}
	s.log.Info("client disconnected", "remote", r.RemoteAddr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
