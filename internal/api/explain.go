package api

import (
	"net/http"

	"github.com/currypot/recommender/internal/scoring"
)

type ExplainHandler struct {
	scorer *scoring.Scorer
}

func NewExplainHandler(s *scoring.Scorer) *ExplainHandler {
	return &ExplainHandler{scorer: s}
}

type ExplainRequest struct {
	Preferences scoring.PreferenceProfile `json:"preferences"`
	Candidates  []scoring.DishCandidate   `json:"candidates" validate:"max=500"`
	Limit       *int                      `json:"limit" validate:"omitempty,gte=0"`
}

type ExplainedDish struct {
	Rank    int                    `json:"rank"`
	Dish    scoring.DishCandidate  `json:"dish"`
	Score   float64                `json:"score"`
	Factors []scoring.FactorResult `json:"factors"`
}

// Explain ranks caller-supplied candidates and returns the breakdown.
// POST /scoring/explain
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := len(req.Candidates)
	if req.Limit != nil {
		limit = *req.Limit
	}

	ranked := h.scorer.RankExplained(req.Candidates, req.Preferences, limit)
	out := make([]ExplainedDish, len(ranked))
	for i, e := range ranked {
		out[i] = ExplainedDish{
			Rank:    i + 1,
			Dish:    e.Candidate,
			Score:   e.Result.TotalScore,
			Factors: e.Result.Factors,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ranked":     out,
		"candidates": len(req.Candidates),
	})
}
