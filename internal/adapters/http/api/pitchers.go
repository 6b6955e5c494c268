// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// PitchersDependencies defines the interface for pitcher directory reads.
type PitchersDependencies interface {
	ListPitchers(ctx context.Context) ([]Pitcher, error)
}

// PitchersHandler handles pitcher directory requests.
type PitchersHandler struct {
	deps PitchersDependencies
}

// NewPitchersHandler creates a new pitchers handler.
func NewPitchersHandler(deps PitchersDependencies) *PitchersHandler {
	return &PitchersHandler{deps: deps}
}

// HandleListPitchers handles GET /api/pitchers requests.
func (h *PitchersHandler) HandleListPitchers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_pitchers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	pitchers, err := h.deps.ListPitchers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if pitchers == nil {
		pitchers = []Pitcher{}
	}
	writeJSON(w, http.StatusOK, pitchers)
}
