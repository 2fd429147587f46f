package hermes

import "strconv"

const (
	SubjectRecommendWildcard = "currypot.recommend.>"

	StreamName   = "RECOMMENDER_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectRecommendationServed(userID int64) string {
	return "currypot.recommend." + strconv.FormatInt(userID, 10) + ".served"
}

func SubjectRecommendationDegraded(userID int64) string {
	return "currypot.recommend." + strconv.FormatInt(userID, 10) + ".degraded"
}
