package service

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"stdsdb/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Status endpoint: /health, /metrics, /runs
// ─────────────────────────────────────────────────────────────

// NewStatusRouter routes the watch daemon's read-only endpoints.
func NewStatusRouter(p *Pipeline, m *Metrics) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler(p)).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/runs", runsHandler(p)).Methods(http.MethodGet)
	return r
}

func healthHandler(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		running := p.Running()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"running": running,
		})
	}
}

func runsHandler(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}
		runs, err := p.Runs(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if runs == nil {
			runs = []domain.PipelineRun{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusServer serves a handler on a TCP address.
type StatusServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *zap.SugaredLogger
}

// NewStatusServer prepares a server for addr.
func NewStatusServer(addr string, h http.Handler, logger *zap.SugaredLogger) *StatusServer {
	return &StatusServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start binds the address and serves in the background.
func (s *StatusServer) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("status server stopped", "error", err)
		}
	}()
	s.logger.Infow("status server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *StatusServer) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
