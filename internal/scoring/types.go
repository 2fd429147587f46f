package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// StringList is a list of strings that also accepts a bare JSON string.
// "" and null decode to an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = list
	return nil
}

// DishID is a catalog identifier; the catalog may send it as a number or a string.
type DishID string

func (id *DishID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = DishID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("dish id must be a number or string: %w", err)
	}
	*id = DishID(n)
	return nil
}

// PreferenceProfile is the user's stated constraints for one request.
type PreferenceProfile struct {
	DietaryType       string     `json:"dietary_preferences,omitempty"`
	SpiceLevel        string     `json:"spice_level,omitempty"`
	Allergens         StringList `json:"allergens,omitempty"`
	PreferredCuisines StringList `json:"preferred_cuisines,omitempty"`
}

// Producer is the kitchen a dish comes from.
type Producer struct {
	CuisineSpecialty string `json:"cuisine_specialty"`
}

// DishCandidate is a catalog dish eligible for recommendation.
//
// A candidate decoded from JSON keeps the source record and re-emits it
// unchanged on MarshalJSON, so fields the scorer ignores reach the caller
// in the catalog's own shape. Decoding is lenient per field: a field of the
// wrong type decodes to its zero value and contributes nothing to the score.
// Only a record that is not a JSON object is rejected.
type DishCandidate struct {
	ID            DishID     `json:"id,omitempty"`
	AverageRating float64    `json:"average_rating"`
	OrderCount    float64    `json:"order_count"`
	ViewCount     float64    `json:"view_count"`
	DietaryType   string     `json:"dietary_type"`
	SpiceLevel    string     `json:"spice_level"`
	Allergens     StringList `json:"allergens"`
	Producer      *Producer  `json:"producer,omitempty"`

	raw json.RawMessage
}

type dishAlias DishCandidate

type dishFields struct {
	ID            json.RawMessage `json:"id"`
	AverageRating json.RawMessage `json:"average_rating"`
	OrderCount    json.RawMessage `json:"order_count"`
	ViewCount     json.RawMessage `json:"view_count"`
	DietaryType   json.RawMessage `json:"dietary_type"`
	SpiceLevel    json.RawMessage `json:"spice_level"`
	Allergens     json.RawMessage `json:"allergens"`
	Producer      json.RawMessage `json:"producer"`
}

type producerFields struct {
	CuisineSpecialty json.RawMessage `json:"cuisine_specialty"`
}

func (d *DishCandidate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("dish record is null")
	}
	var f dishFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	out := DishCandidate{
		ID:            lenient[DishID](f.ID),
		AverageRating: lenient[float64](f.AverageRating),
		OrderCount:    lenient[float64](f.OrderCount),
		ViewCount:     lenient[float64](f.ViewCount),
		DietaryType:   lenient[string](f.DietaryType),
		SpiceLevel:    lenient[string](f.SpiceLevel),
		Allergens:     lenient[StringList](f.Allergens),
		raw:           append(json.RawMessage(nil), data...),
	}
	if p := lenient[*producerFields](f.Producer); p != nil {
		out.Producer = &Producer{CuisineSpecialty: lenient[string](p.CuisineSpecialty)}
	}
	*d = out
	return nil
}

// lenient decodes raw into a T, or returns the zero T when raw is absent
// or of the wrong type.
func lenient[T any](raw json.RawMessage) T {
	var v T
	if len(raw) == 0 {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

func (d DishCandidate) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	return json.Marshal(dishAlias(d))
}

// CuisineSpecialty returns the producer's cuisine label, or "" without a producer.
func (d DishCandidate) CuisineSpecialty() string {
	if d.Producer == nil {
		return ""
	}
	return d.Producer.CuisineSpecialty
}

// ScoredCandidate pairs a candidate with its ranking key.
type ScoredCandidate struct {
	Candidate DishCandidate `json:"dish"`
	Score     float64       `json:"score"`
}

// Dishes strips the scores, keeping order.
func Dishes(scored []ScoredCandidate) []DishCandidate {
	out := make([]DishCandidate, len(scored))
	for i, sc := range scored {
		out[i] = sc.Candidate
	}
	return out
}
