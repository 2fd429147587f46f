// Package recommend fetches candidate dishes and ranks them for one user.
package recommend

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/currypot/recommender/internal/catalog"
	"github.com/currypot/recommender/internal/hermes"
	"github.com/currypot/recommender/internal/metrics"
	"github.com/currypot/recommender/internal/scoring"
)

// SourceRuleBased identifies recommendations produced by the point scorer.
const SourceRuleBased = "rule-based"

// Request is one user's recommendation request.
type Request struct {
	UserID      int64
	Lat         *float64
	Lon         *float64
	Limit       int
	Preferences scoring.PreferenceProfile
}

// Result is always usable: on upstream failure it carries no dishes and
// Degraded is set.
type Result struct {
	RequestID       uuid.UUID
	Recommendations []scoring.DishCandidate
	Source          string
	UserID          int64
	Degraded        bool
}

type Service struct {
	catalog catalog.Client
	scorer  *scoring.Scorer
	hermes  hermes.Client
	logger  *slog.Logger
}

// NewService wires the service. h may be nil to run without events.
func NewService(c catalog.Client, s *scoring.Scorer, h hermes.Client, logger *slog.Logger) *Service {
	return &Service{catalog: c, scorer: s, hermes: h, logger: logger}
}

// Recommend returns up to req.Limit dishes ranked for req.Preferences.
func (s *Service) Recommend(ctx context.Context, req Request) Result {
	start := time.Now()
	result := Result{
		RequestID:       uuid.New(),
		Recommendations: []scoring.DishCandidate{},
		Source:          SourceRuleBased,
		UserID:          req.UserID,
	}
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	if req.Limit <= 0 {
		s.finish(req, &result)
		return result
	}

	candidates, ok := s.fetch(ctx, req)
	if !ok {
		result.Degraded = true
		s.finish(req, &result)
		return result
	}

	ranked := s.scorer.Rank(candidates, req.Preferences, req.Limit)
	metrics.CandidatesScored.Add(float64(len(candidates)))
	result.Recommendations = scoring.Dishes(ranked)

	s.logger.Info("recommendations ranked",
		"request_id", result.RequestID,
		"user_id", req.UserID,
		"candidates", len(candidates),
		"returned", len(result.Recommendations),
	)
	s.finish(req, &result)
	return result
}

// fetch asks the catalog for candidates. Any failure is logged and
// reported as !ok so the scorer never sees a failed fetch.
func (s *Service) fetch(ctx context.Context, req Request) ([]scoring.DishCandidate, bool) {
	candidates, err := s.catalog.FetchCandidates(ctx, catalog.Query{
		UserID:      req.UserID,
		Lat:         req.Lat,
		Lon:         req.Lon,
		DietaryType: req.Preferences.DietaryType,
		SpiceLevel:  req.Preferences.SpiceLevel,
		Limit:       req.Limit,
	})
	metrics.CatalogFetches.WithLabelValues(catalog.FetchResult(err)).Inc()
	if err != nil {
		s.logger.Warn("catalog unavailable, returning no recommendations",
			"user_id", req.UserID,
			"error", err,
		)
		return nil, false
	}
	return candidates, true
}

func (s *Service) finish(req Request, result *Result) {
	outcome := metrics.OutcomeOK
	subject := hermes.SubjectRecommendationServed(req.UserID)
	if result.Degraded {
		outcome = metrics.OutcomeDegraded
		subject = hermes.SubjectRecommendationDegraded(req.UserID)
	}
	metrics.RecommendRequests.WithLabelValues(outcome).Inc()

	if s.hermes == nil {
		return
	}
	ids := make([]string, len(result.Recommendations))
	for i, d := range result.Recommendations {
		ids[i] = string(d.ID)
	}
	evt := hermes.RecommendationServedEvent{
		RequestID: result.RequestID,
		UserID:    req.UserID,
		DishIDs:   ids,
		Limit:     req.Limit,
		Source:    result.Source,
		Degraded:  result.Degraded,
		Timestamp: time.Now().UTC(),
	}
	if err := s.hermes.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish recommendation event", "request_id", result.RequestID, "error", err)
	}
}
