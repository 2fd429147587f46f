package scoring

import (
	"log/slog"
	"sort"
)

// ScoringResult captures the complete scoring output for a single dish.
type ScoringResult struct {
	DishID     DishID         `json:"dish_id"`
	TotalScore float64        `json:"total_score"`
	Factors    []FactorResult `json:"factors"`
}

// Scorer ranks dishes with an additive point system. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	points PointSet
	logger *slog.Logger
}

// NewScorer creates a Scorer with the given point table.
func NewScorer(points PointSet, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		points: points,
		logger: logger,
	}
}

// Points returns the point table the scorer was built with.
func (s *Scorer) Points() PointSet {
	return s.points
}

// Explain computes the score for one dish together with every factor.
func (s *Scorer) Explain(dish DishCandidate, prefs PreferenceProfile) ScoringResult {
	dc := &DishContext{Dish: &dish, Prefs: &prefs, Points: s.points}

	factors := []FactorResult{
		RatingFactor(dc),
		OrderPopularityFactor(dc),
		ViewPopularityFactor(dc),
		DietaryFactor(dc),
		SpiceFactor(dc),
		CuisineFactor(dc),
		AllergenFactor(dc),
	}

	var total float64
	for _, f := range factors {
		total += f.Points
	}

	return ScoringResult{
		DishID:     dish.ID,
		TotalScore: total,
		Factors:    factors,
	}
}

// Score returns the relevance score of one dish for the given preferences.
func (s *Scorer) Score(dish DishCandidate, prefs PreferenceProfile) float64 {
	return s.Explain(dish, prefs).TotalScore
}

// ExplainedCandidate is a ranked candidate with its factor breakdown.
type ExplainedCandidate struct {
	Candidate DishCandidate
	Result    ScoringResult
}

// Rank scores every candidate and returns the best limit of them, highest
// score first. Equal scores keep their input order. A limit of zero or less
// returns an empty slice without scoring anything.
func (s *Scorer) Rank(candidates []DishCandidate, prefs PreferenceProfile, limit int) []ScoredCandidate {
	explained := s.RankExplained(candidates, prefs, limit)
	scored := make([]ScoredCandidate, len(explained))
	for i, e := range explained {
		scored[i] = ScoredCandidate{Candidate: e.Candidate, Score: e.Result.TotalScore}
	}
	return scored
}

// RankExplained orders candidates like Rank and keeps each one's breakdown,
// scoring every candidate exactly once.
func (s *Scorer) RankExplained(candidates []DishCandidate, prefs PreferenceProfile, limit int) []ExplainedCandidate {
	if limit <= 0 {
		if limit < 0 {
			s.logger.Warn("negative rank limit clamped to zero", "limit", limit)
		}
		return []ExplainedCandidate{}
	}

	explained := make([]ExplainedCandidate, len(candidates))
	for i, c := range candidates {
		explained[i] = ExplainedCandidate{Candidate: c, Result: s.Explain(c, prefs)}
	}

	sort.SliceStable(explained, func(i, j int) bool {
		return explained[i].Result.TotalScore > explained[j].Result.TotalScore
	})

	if len(explained) > limit {
		explained = explained[:limit]
	}

	s.logger.Debug("ranked candidates", "candidates", len(candidates), "returned", len(explained))
	return explained
}
