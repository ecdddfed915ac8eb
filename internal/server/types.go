// Package server exposes the morph engine over HTTP: one-shot morph, merge,
// and grid endpoints plus a WebSocket stream for animation frames.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/morphium/internal/config"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	warpParams  warp.Params
	warpWorkers int
	gridSpacing int
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	rateLimiter *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int
	WarpParams  warp.Params
	WarpWorkers int
	GridSpacing int
	RateLimit   config.RateLimitConfig
}

// NewServer creates a new morph server instance.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.WarpParams.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		warpParams:  cfg.WarpParams,
		warpWorkers: cfg.WarpWorkers,
		gridSpacing: cfg.GridSpacing,
		corsOrigin:  cfg.CORSOrigin,
		maxUploadMB: cfg.MaxUploadMB,
		timeoutSec:  cfg.TimeoutSec,
	}
	if s.gridSpacing <= 0 {
		s.gridSpacing = 30
	}
	if cfg.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMinute,
			int64(cfg.RateLimit.MaxDataPerDayMB)*1024*1024)
	}
	return s, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/morph", s.corsMiddleware(s.rateLimitMiddleware(s.morphHandler)))
	mux.HandleFunc("/merge", s.corsMiddleware(s.rateLimitMiddleware(s.mergeHandler)))
	mux.HandleFunc("/grid", s.corsMiddleware(s.rateLimitMiddleware(s.gridHandler)))
	mux.HandleFunc("/ws/animate", s.animateWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// MorphResponse carries the outputs of a two-image morph, PNG-encoded and
// base64-wrapped so the whole result travels as one JSON document.
type MorphResponse struct {
	Success bool    `json:"success"`
	Alpha   float64 `json:"alpha"`
	WarpedA string  `json:"warped_a,omitempty"`
	WarpedB string  `json:"warped_b,omitempty"`
	Blended string  `json:"blended"`
	TimeMS  int64   `json:"time_ms"`
}

// MergeResponse carries the four outputs of a three-image merge.
type MergeResponse struct {
	Success bool       `json:"success"`
	Weights [3]float64 `json:"weights"`
	Warped  [3]string  `json:"warped"`
	Blended string     `json:"blended"`
	TimeMS  int64      `json:"time_ms"`
}

// GridResponse carries displaced grid polylines for overlay rendering.
type GridResponse struct {
	Success   bool          `json:"success"`
	Polylines [][]gridPoint `json:"polylines"`
}

type gridPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
