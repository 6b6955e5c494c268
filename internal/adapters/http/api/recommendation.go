// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Ball/strike count bounds for a legal pitch situation.
const (
	maxBalls   = 3
	maxStrikes = 2
)

// RecommendationDependencies defines the interface for recommendation
// operations.
type RecommendationDependencies interface {
	Recommend(ctx context.Context, pitcherID int64, balls, strikes int, batterHand string) (Recommendation, error)
}

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendationDependencies) *RecommendationHandler {
	return &RecommendationHandler{deps: deps}
}

// recommendationRequest mirrors the OpenAPI schema for POST /api/recommendation.
// LastPitchType is accepted for forward compatibility but does not influence
// current scoring.
type recommendationRequest struct {
	PitcherID     int64  `json:"pitcher_id"`
	Balls         *int   `json:"balls"`
	Strikes       *int   `json:"strikes"`
	BatterHand    string `json:"batter_hand"`
	LastPitchType string `json:"last_pitch_type"`
}

func (req recommendationRequest) validate() error {
	switch {
	case req.PitcherID < 1:
		return errors.New("missing pitcher_id")
	case req.Balls == nil:
		return errors.New("missing balls")
	case *req.Balls < 0 || *req.Balls > maxBalls:
		return errors.New("balls must be between 0 and 3")
	case req.Strikes == nil:
		return errors.New("missing strikes")
	case *req.Strikes < 0 || *req.Strikes > maxStrikes:
		return errors.New("strikes must be between 0 and 2")
	case !validHand(req.BatterHand):
		return errors.New("batter_hand must be 'L' or 'R'")
	}
	return nil
}

// HandlePostRecommendation handles POST /api/recommendation requests.
func (h *RecommendationHandler) HandlePostRecommendation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recommendation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Recommend(r.Context(), req.PitcherID, *req.Balls, *req.Strikes, req.BatterHand)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
