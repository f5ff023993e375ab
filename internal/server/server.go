package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/bazaarsetu/internal/model"
	"github.com/rickgao/bazaarsetu/internal/session"
	"github.com/rickgao/bazaarsetu/internal/view"
)

// Config holds transport timeouts.
type Config struct {
	ViewTimeout   time.Duration // Max wait for a one-shot render to settle
	HealthTimeout time.Duration
	WriteTimeout  time.Duration
	PongTimeout   time.Duration
	PingInterval  time.Duration // Must be shorter than PongTimeout

	DefaultTrendDays int // Trend window when the client sends none
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ViewTimeout:   10 * time.Second,
		HealthTimeout: 5 * time.Second,
		WriteTimeout:  10 * time.Second,
		PongTimeout:   60 * time.Second,
		PingInterval:  50 * time.Second,

		DefaultTrendDays: model.DefaultTrendDays,
	}
}

// Server routes dashboard requests to screens backed by one data source.
type Server struct {
	cfg      Config
	src      view.Source
	sessions *session.Registry
	logger   *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a server. Zero config fields take their defaults.
func New(cfg Config, src view.Source, sessions *session.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.ViewTimeout <= 0 {
		cfg.ViewTimeout = def.ViewTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = def.HealthTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = def.PongTimeout
	}
	if cfg.DefaultTrendDays <= 0 {
		cfg.DefaultTrendDays = def.DefaultTrendDays
	}
	if cfg.PingInterval <= 0 || cfg.PingInterval >= cfg.PongTimeout {
		cfg.PingInterval = cfg.PongTimeout * 9 / 10
	}

	s := &Server{
		cfg:      cfg,
		src:      src,
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		mux: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /views/home", s.handleHomeView)
	s.mux.HandleFunc("GET /views/markets/{id}", s.handleMarketView)
	s.mux.HandleFunc("GET /views/trend/{commodityId}", s.handleTrendView)

	s.mux.HandleFunc("GET /ws/home", s.handleHomeSession)
	s.mux.HandleFunc("GET /ws/markets/{id}", s.handleMarketSession)
	s.mux.HandleFunc("GET /ws/trend/{commodityId}", s.handleTrendSession)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthTimeout)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if err := s.src.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Components["source"] = map[string]string{
			"status": "disconnected",
			"error":  err.Error(),
		}
	} else {
		health.Components["source"] = "connected"
	}

	health.Components["sessions"] = map[string]int{
		"open": s.sessions.Len(),
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
