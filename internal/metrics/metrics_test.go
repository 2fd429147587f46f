package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsRegistered(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues(OutcomeDegraded))
	RecommendRequests.WithLabelValues(OutcomeDegraded).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RecommendRequests.WithLabelValues(OutcomeDegraded)))

	CatalogBreakerState.WithLabelValues("test").Set(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(CatalogBreakerState.WithLabelValues("test")))
}
