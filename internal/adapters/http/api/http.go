// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pitchmix/pitchmix/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ListPitchers exposes the pitcher directory ordered by name.
	ListPitchers(ctx context.Context) ([]Pitcher, error)

	// Recommend runs the situational recommendation cascade.
	Recommend(ctx context.Context, pitcherID int64, balls, strikes int, batterHand string) (Recommendation, error)

	// Usage returns per-count pitch mix summaries for one pitcher.
	Usage(ctx context.Context, pitcherID int64, batterHand string) ([]CountUsage, error)

	// PitchLocations returns located pitches plus averaged zone bounds.
	PitchLocations(ctx context.Context, pitcherID int64, balls, strikes int, batterHand string, limit int) (LocationSummary, error)
}

// Read shapes mirrored from the domain layer.
type (
	Pitcher         = types.Pitcher
	Recommendation  = types.Recommendation
	CountUsage      = types.CountUsage
	LocationSummary = types.LocationSummary
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	pitchersHandler       *PitchersHandler
	recommendationHandler *RecommendationHandler
	usageHandler          *UsageHandler
	pitchesHandler        *PitchesHandler
	dashboardHandler      *dashboardHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithPitchLimits sets the default and maximum row caps for the pitch
// location endpoint.
func WithPitchLimits(def, max int) Option {
	return func(s *Server) {
		if def > 0 && max >= def {
			s.pitchesHandler.defaultLimit = def
			s.pitchesHandler.maxLimit = max
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		pitchersHandler:       NewPitchersHandler(deps),
		recommendationHandler: NewRecommendationHandler(deps),
		usageHandler:          NewUsageHandler(deps),
		pitchesHandler:        NewPitchesHandler(deps),
		dashboardHandler:      newDashboardHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/healthz", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/recommendation", MetricsMiddleware(s.recommendationHandler.HandlePostRecommendation, "recommendation"))
	mux.HandleFunc("/api/pitchers", MetricsMiddleware(s.pitchersHandler.HandleListPitchers, "pitchers"))
	mux.HandleFunc("/api/pitchers/", MetricsMiddleware(s.handlePitcherSubtree, "pitcher_detail"))
}

// handlePitcherSubtree dispatches /api/pitchers/{id}/usage and
// /api/pitchers/{id}/pitches requests to their handlers.
func (s *Server) handlePitcherSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/pitchers/")
	idPart, suffix, ok := strings.Cut(rest, "/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	pitcherID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || pitcherID < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind("api.pitcher_detail", ErrBadRequest))
		return
	}

	switch suffix {
	case "usage":
		s.usageHandler.HandleGetUsage(w, r, pitcherID)
	case "pitches":
		s.pitchesHandler.HandleGetPitches(w, r, pitcherID)
	default:
		http.NotFound(w, r)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// validHand reports whether hand is one of the two filterable batter hands.
// Anything else means "no hand filter" on read endpoints.
func validHand(hand string) bool {
	return hand == "L" || hand == "R"
}
