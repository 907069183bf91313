package sim

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/udisondev/statforge/internal/content"
	"github.com/udisondev/statforge/internal/game/timeunit"
)

var errLoopStopped = errors.New("update loop stopped")

// Server exposes a live entity over HTTP. Every request touching the entity
// is posted to the update loop, so handlers never race the clock.
type Server struct {
	loop   *timeunit.Loop
	entity *Entity
	reg    *prometheus.Registry
}

// NewServer creates a server for entity driven by loop. reg is served on
// /metrics.
func NewServer(loop *timeunit.Loop, entity *Entity, reg *prometheus.Registry) *Server {
	return &Server{loop: loop, entity: entity, reg: reg}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /effects/{name}", s.handleApply)
	mux.HandleFunc("DELETE /effects/{name}", s.handleRemove)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.reg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	return mux
}

type statsResponse struct {
	Now     string    `json:"now"`
	Stats   []StatRow `json:"stats"`
	Effects []string  `json:"effects"`
}

type applyResponse struct {
	Handle string `json:"handle"`
	Active bool   `json:"active"`
}

type removeResponse struct {
	Removed int `json:"removed"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var resp statsResponse
	err := s.onLoop(r.Context(), func() error {
		resp.Now = s.entity.Clock.Now().String()
		resp.Stats = s.entity.Rows()
		for _, ae := range s.entity.System.ActiveSkillEffects() {
			resp.Effects = append(resp.Effects, ae.Effect().Name)
		}
		return nil
	})
	s.reply(w, resp, err)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	magnitude := 0.0
	if v := r.URL.Query().Get("magnitude"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "invalid magnitude", http.StatusBadRequest)
			return
		}
		magnitude = m
	}

	var resp applyResponse
	err := s.onLoop(r.Context(), func() error {
		h, err := s.entity.Apply(name, magnitude)
		if err != nil {
			return err
		}
		resp.Handle = h.String()
		resp.Active = h.IsValid()
		return nil
	})
	s.reply(w, resp, err)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var resp removeResponse
	err := s.onLoop(r.Context(), func() error {
		resp.Removed = s.entity.Remove(name)
		return nil
	})
	s.reply(w, resp, err)
}

// onLoop runs fn on the update loop and waits for it. Work the loop
// accepted is run even while it stops, so the result is still reported.
func (s *Server) onLoop(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if !s.loop.Post(func() { done <- fn() }) {
		return errLoopStopped
	}
	select {
	case err := <-done:
		return err
	case <-s.loop.Done():
		select {
		case err := <-done:
			return err
		default:
			return errLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) reply(w http.ResponseWriter, body any, err error) {
	switch {
	case err == nil:
	case errors.Is(err, errLoopStopped):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	case content.ErrorCode(err) == CodeUnknownEffect:
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("writing response", "error", err)
	}
}
