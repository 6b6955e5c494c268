// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pitchmix/pitchmix/internal/domain/types"
)

// Default caps for the pitch location endpoint.
const (
	defaultPitchLimit = 500
	maxPitchLimit     = 2000
)

// PitchesDependencies defines the interface for pitch location reads.
type PitchesDependencies interface {
	PitchLocations(ctx context.Context, pitcherID int64, balls, strikes int, batterHand string, limit int) (LocationSummary, error)
}

// PitchesHandler handles pitch location requests.
type PitchesHandler struct {
	deps         PitchesDependencies
	defaultLimit int
	maxLimit     int
}

// NewPitchesHandler creates a new pitches handler.
func NewPitchesHandler(deps PitchesDependencies) *PitchesHandler {
	return &PitchesHandler{
		deps:         deps,
		defaultLimit: defaultPitchLimit,
		maxLimit:     maxPitchLimit,
	}
}

// pitchesResponse carries located pitches and the averaged strike-zone
// bounds so a client can draw the zone.
type pitchesResponse struct {
	PitcherID  int64                `json:"pitcher_id"`
	Balls      int                  `json:"balls"`
	Strikes    int                  `json:"strikes"`
	BatterHand *string              `json:"batter_hand"`
	AvgSzTop   *float64             `json:"avg_sz_top"`
	AvgSzBot   *float64             `json:"avg_sz_bot"`
	Pitches    []types.LocatedPitch `json:"pitches"`
}

// HandleGetPitches handles GET /api/pitchers/{id}/pitches requests.
func (h *PitchesHandler) HandleGetPitches(w http.ResponseWriter, r *http.Request, pitcherID int64) {
	const op = "api.get_pitches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	balls, err := parseBoundedInt(q.Get("balls"), 0, maxBalls)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	strikes, err := parseBoundedInt(q.Get("strikes"), 0, maxStrikes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	limit := h.defaultLimit
	if raw := q.Get("limit"); raw != "" {
		limit, err = parseBoundedInt(raw, 1, h.maxLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	hand := q.Get("batter_hand")
	if !validHand(hand) {
		hand = ""
	}

	summary, err := h.deps.PitchLocations(r.Context(), pitcherID, balls, strikes, hand, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := pitchesResponse{
		PitcherID: pitcherID,
		Balls:     balls,
		Strikes:   strikes,
		AvgSzTop:  summary.AvgSzTop,
		AvgSzBot:  summary.AvgSzBot,
		Pitches:   summary.Pitches,
	}
	if hand != "" {
		resp.BatterHand = &hand
	}
	if resp.Pitches == nil {
		resp.Pitches = []types.LocatedPitch{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseBoundedInt parses raw as an integer in [min, max].
func parseBoundedInt(raw string, min, max int) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrBadRequest
	}
	if n < min || n > max {
		return 0, ErrBadRequest
	}
	return n, nil
}
