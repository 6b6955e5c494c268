// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pitchmix/pitchmix/internal/domain/types"
)

// UsageDependencies defines the interface for usage breakdown reads.
type UsageDependencies interface {
	Usage(ctx context.Context, pitcherID int64, batterHand string) ([]CountUsage, error)
}

// UsageHandler handles usage breakdown requests.
type UsageHandler struct {
	deps UsageDependencies
}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler(deps UsageDependencies) *UsageHandler {
	return &UsageHandler{deps: deps}
}

// usageResponse maps "{balls}-{strikes}" labels to ordered pitch-type
// summaries. The string keys exist only at this JSON boundary.
type usageResponse struct {
	PitcherID    int64                         `json:"pitcher_id"`
	UsageByCount map[string][]types.PitchUsage `json:"usage_by_count"`
}

// HandleGetUsage handles GET /api/pitchers/{id}/usage requests. An invalid
// batter_hand value means no hand filter rather than an error.
func (h *UsageHandler) HandleGetUsage(w http.ResponseWriter, r *http.Request, pitcherID int64) {
	const op = "api.get_usage"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	hand := r.URL.Query().Get("batter_hand")
	if !validHand(hand) {
		hand = ""
	}

	groups, err := h.deps.Usage(r.Context(), pitcherID, hand)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := usageResponse{
		PitcherID:    pitcherID,
		UsageByCount: make(map[string][]types.PitchUsage, len(groups)),
	}
	for _, g := range groups {
		label := fmt.Sprintf("%d-%d", g.Key.Balls, g.Key.Strikes)
		resp.UsageByCount[label] = g.Pitches
	}
	writeJSON(w, http.StatusOK, resp)
}
