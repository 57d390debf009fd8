// Package httpapi exposes the session's administrative operations
// over HTTP: reading and patching the detection parameters and
// selecting a steeping profile.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/luki/steepwatch/internal/detect"
	"github.com/luki/steepwatch/internal/monitor"
	"github.com/luki/steepwatch/internal/steep"
)

// Server serves the admin API for one running session.
type Server struct {
	session *monitor.Session
	lg      *slog.Logger
	http    *http.Server
}

// NewServer builds the server; Start binds it.
func NewServer(bind string, session *monitor.Session, lg *slog.Logger) *Server {
	s := &Server{session: session, lg: lg}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.getHealth)
	mux.HandleFunc("/v1/params", s.handleParams)
	mux.HandleFunc("/v1/profile", s.postProfile)

	s.http = &http.Server{
		Addr:    bind,
		Handler: mux,
	}
	return s
}

// Start blocks serving requests until Stop is called.
func (s *Server) Start() error {
	s.lg.Info("admin api starting", "bind", s.http.Addr)
	return s.http.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.lg.Info("admin api stopping")
	return s.http.Shutdown(ctx)
}

// Handler returns the route table, used directly by tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		params, err := s.session.Params(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, params)

	case http.MethodPatch:
		var update detect.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		params, err := s.session.UpdateParams(r.Context(), update)
		if err != nil {
			if errors.Is(err, detect.ErrConfig) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		s.lg.Info("detection params updated",
			"moving_avg_window", params.MovingAvgWindow,
			"point_spacing", params.PointSpacing,
			"min_grad", params.MinGrad,
			"max_grad", params.MaxGrad)
		writeJSON(w, params)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type profileRequest struct {
	TeaType string `json:"tea_type"`
}

func (s *Server) postProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tea, err := steep.ParseTeaType(req.TeaType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.session.SelectProfile(r.Context(), tea); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.lg.Info("profile selected", "tea", tea.String())
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
