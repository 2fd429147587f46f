package api

import (
	"context"
	"net/http"

	"github.com/currypot/recommender/internal/recommend"
	"github.com/currypot/recommender/internal/scoring"
)

// Recommender is the part of recommend.Service the handlers use.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) recommend.Result
}

type RecommendHandler struct {
	svc          Recommender
	defaultLimit int
}

func NewRecommendHandler(svc Recommender, defaultLimit int) *RecommendHandler {
	return &RecommendHandler{svc: svc, defaultLimit: defaultLimit}
}

type RecommendationRequest struct {
	UserID      *int64                     `json:"user_id" validate:"required"`
	Lat         *float64                   `json:"lat" validate:"omitempty,latitude"`
	Lon         *float64                   `json:"lon" validate:"omitempty,longitude"`
	Limit       *int                       `json:"limit" validate:"omitempty,gte=0,lte=100"`
	Preferences *scoring.PreferenceProfile `json:"preferences"`
}

type RecommendationResponse struct {
	Recommendations []scoring.DishCandidate `json:"recommendations"`
	Source          string                  `json:"source"`
	UserID          int64                   `json:"user_id"`
	RequestID       string                  `json:"request_id"`
}

// Recommend handles POST /recommend
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := h.defaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	var prefs scoring.PreferenceProfile
	if req.Preferences != nil {
		prefs = *req.Preferences
	}

	res := h.svc.Recommend(r.Context(), recommend.Request{
		UserID:      *req.UserID,
		Lat:         req.Lat,
		Lon:         req.Lon,
		Limit:       limit,
		Preferences: prefs,
	})

	writeJSON(w, http.StatusOK, RecommendationResponse{
		Recommendations: res.Recommendations,
		Source:          res.Source,
		UserID:          res.UserID,
		RequestID:       res.RequestID.String(),
	})
}
