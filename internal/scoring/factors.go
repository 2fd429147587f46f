package scoring

import (
	"math"
	"strings"
)

// FactorResult captures one factor's contribution to a dish's score.
type FactorResult struct {
	Name    string  `json:"name"`
	Points  float64 `json:"points"`
	Applied bool    `json:"applied"`
	Reason  string  `json:"reason"`
}

// DishContext bundles the inputs needed to score one dish for one user.
// Factors only read through the pointers.
type DishContext struct {
	Dish   *DishCandidate
	Prefs  *PreferenceProfile
	Points PointSet
}

// --- Individual factor calculators ---

// RatingFactor scales the 0-5 average rating. It is not capped.
func RatingFactor(dc *DishContext) FactorResult {
	pts := dc.Dish.AverageRating * dc.Points.RatingMultiplier
	return FactorResult{Name: "rating", Points: pts, Applied: pts != 0, Reason: "average rating"}
}

// OrderPopularityFactor rewards order volume up to OrderCap.
func OrderPopularityFactor(dc *DishContext) FactorResult {
	pts := math.Min(dc.Dish.OrderCount*dc.Points.OrderMultiplier, dc.Points.OrderCap)
	reason := "order count"
	if pts == dc.Points.OrderCap {
		reason = "order count (capped)"
	}
	return FactorResult{Name: "order_popularity", Points: pts, Applied: pts != 0, Reason: reason}
}

// ViewPopularityFactor rewards page views up to ViewCap.
func ViewPopularityFactor(dc *DishContext) FactorResult {
	pts := math.Min(dc.Dish.ViewCount*dc.Points.ViewMultiplier, dc.Points.ViewCap)
	reason := "view count"
	if pts == dc.Points.ViewCap {
		reason = "view count (capped)"
	}
	return FactorResult{Name: "view_popularity", Points: pts, Applied: pts != 0, Reason: reason}
}

// DietaryFactor awards DietaryMatch when the dish has the preferred dietary type.
func DietaryFactor(dc *DishContext) FactorResult {
	if dc.Prefs.DietaryType == "" {
		return FactorResult{Name: "dietary", Reason: "no dietary preference"}
	}
	if !strings.EqualFold(dc.Prefs.DietaryType, dc.Dish.DietaryType) {
		return FactorResult{Name: "dietary", Reason: "dietary type differs"}
	}
	return FactorResult{Name: "dietary", Points: dc.Points.DietaryMatch, Applied: true, Reason: "dietary type matched"}
}

// SpiceFactor awards SpiceMatch when the dish has the preferred spice level.
func SpiceFactor(dc *DishContext) FactorResult {
	if dc.Prefs.SpiceLevel == "" {
		return FactorResult{Name: "spice", Reason: "no spice preference"}
	}
	if !strings.EqualFold(dc.Prefs.SpiceLevel, dc.Dish.SpiceLevel) {
		return FactorResult{Name: "spice", Reason: "spice level differs"}
	}
	return FactorResult{Name: "spice", Points: dc.Points.SpiceMatch, Applied: true, Reason: "spice level matched"}
}

// CuisineFactor compares the preferred cuisines with the producer's specialty.
// The first matching token earns CuisineMatch; when none match the dish
// loses CuisineMismatch instead. Nothing applies if either side is empty.
//
// Mismatched cuisines are usually filtered out before scoring as well, so a
// mismatch that reaches the scorer is penalised a second time here.
func CuisineFactor(dc *DishContext) FactorResult {
	tokens := cuisineTokens(dc.Prefs.PreferredCuisines)
	if len(tokens) == 0 {
		return FactorResult{Name: "cuisine", Reason: "no cuisine preference"}
	}
	specialty := dc.Dish.CuisineSpecialty()
	if specialty == "" {
		return FactorResult{Name: "cuisine", Reason: "producer has no cuisine specialty"}
	}

	producer := strings.ToLower(specialty)
	for _, token := range tokens {
		if cuisinesMatch(token, producer) {
			return FactorResult{Name: "cuisine", Points: dc.Points.CuisineMatch, Applied: true, Reason: "matched: " + token}
		}
	}
	return FactorResult{Name: "cuisine", Points: -dc.Points.CuisineMismatch, Applied: true, Reason: "no preferred cuisine matches " + producer}
}

// AllergenFactor subtracts AllergenConflict once if any avoided allergen is in the dish.
func AllergenFactor(dc *DishContext) FactorResult {
	if len(dc.Prefs.Allergens) == 0 || len(dc.Dish.Allergens) == 0 {
		return FactorResult{Name: "allergen", Reason: "no allergen overlap"}
	}
	present := make(map[string]struct{}, len(dc.Dish.Allergens))
	for _, a := range dc.Dish.Allergens {
		present[strings.ToLower(a)] = struct{}{}
	}
	for _, a := range dc.Prefs.Allergens {
		if _, ok := present[strings.ToLower(a)]; ok {
			return FactorResult{Name: "allergen", Points: -dc.Points.AllergenConflict, Applied: true, Reason: "contains " + strings.ToLower(a)}
		}
	}
	return FactorResult{Name: "allergen", Reason: "no allergen overlap"}
}

// cuisineTokens lower-cases the preferred cuisines. Blank entries are kept:
// an empty token is a substring of every specialty and so always matches.
func cuisineTokens(cuisines StringList) []string {
	tokens := make([]string, len(cuisines))
	for i, c := range cuisines {
		tokens[i] = strings.ToLower(c)
	}
	return tokens
}

// cuisinesMatch reports whether a lower-cased user token and producer label
// refer to the same cuisine. South and north never match each other, even
// when one label contains the other.
func cuisinesMatch(token, producer string) bool {
	if strings.Contains(token, "south") && strings.Contains(producer, "north") {
		return false
	}
	if strings.Contains(token, "north") && strings.Contains(producer, "south") {
		return false
	}
	return strings.Contains(producer, token) || strings.Contains(token, producer)
}
