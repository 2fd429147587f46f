package hermes

import (
	"time"

	"github.com/google/uuid"
)

// RecommendationServedEvent is published once per recommendation request.
type RecommendationServedEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	UserID    int64     `json:"user_id"`
	DishIDs   []string  `json:"dish_ids"`
	Limit     int       `json:"limit"`
	Source    string    `json:"source"`
	Degraded  bool      `json:"degraded"`
	Timestamp time.Time `json:"timestamp"`
}
