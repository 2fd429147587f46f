package scoring

import (
	"fmt"
)

// PointSet defines how many points each factor contributes.
// Penalties are stored as positive magnitudes and subtracted by the scorer.
type PointSet struct {
	RatingMultiplier float64
	OrderMultiplier  float64
	OrderCap         float64
	ViewMultiplier   float64
	ViewCap          float64
	DietaryMatch     float64
	SpiceMatch       float64
	CuisineMatch     float64
	CuisineMismatch  float64
	AllergenConflict float64
}

// DefaultPoints returns the standard point table.
func DefaultPoints() PointSet {
	return PointSet{
		RatingMultiplier: 10,
		OrderMultiplier:  0.1,
		OrderCap:         20,
		ViewMultiplier:   0.01,
		ViewCap:          10,
		DietaryMatch:     15,
		SpiceMatch:       10,
		CuisineMatch:     30,
		CuisineMismatch:  40,
		AllergenConflict: 50,
	}
}

// Validate checks that no entry is negative.
func (p PointSet) Validate() error {
	for name, v := range p.asMap() {
		if v < 0 {
			return fmt.Errorf("negative point value for %s: %f", name, v)
		}
	}
	return nil
}

func (p PointSet) asMap() map[string]float64 {
	return map[string]float64{
		"rating_multiplier": p.RatingMultiplier,
		"order_multiplier":  p.OrderMultiplier,
		"order_cap":         p.OrderCap,
		"view_multiplier":   p.ViewMultiplier,
		"view_cap":          p.ViewCap,
		"dietary_match":     p.DietaryMatch,
		"spice_match":       p.SpiceMatch,
		"cuisine_match":     p.CuisineMatch,
		"cuisine_mismatch":  p.CuisineMismatch,
		"allergen_conflict": p.AllergenConflict,
	}
}
