package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/currypot/recommender/internal/metrics"
	"github.com/currypot/recommender/internal/scoring"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func float64Ptr(v float64) *float64 { return &v }

func TestFetchCandidatesQueryParams(t *testing.T) {
	var got *url.URL
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dishes": []}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/api/", time.Second, 10, 2, discardLogger())
	_, err := c.FetchCandidates(context.Background(), Query{
		UserID:      7,
		Lat:         float64Ptr(12.97),
		Lon:         float64Ptr(77.59),
		DietaryType: "Vegetarian",
		SpiceLevel:  "HOT",
		Limit:       10,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/dishes", got.Path)
	q := got.Query()
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "12.97", q.Get("lat"))
	assert.Equal(t, "77.59", q.Get("lon"))
	assert.Equal(t, "10", q.Get("radius"))
	assert.Equal(t, "vegetarian", q.Get("dietary_type"))
	assert.Equal(t, "hot", q.Get("spice_level"))
}

func TestFetchCandidatesOmitsUnsetParams(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"dishes": []}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, 10, 2, discardLogger())
	_, err := c.FetchCandidates(context.Background(), Query{Lat: float64Ptr(12.9), Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"6"}, query["limit"])
	for _, k := range []string{"lat", "lon", "radius", "dietary_type", "spice_level"} {
		assert.NotContains(t, query, k)
	}
}

func TestFetchCandidatesDecodesAndSkipsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dishes": [
			{"id": 1, "name": "Idli", "average_rating": 4, "producer": {"cuisine_specialty": "South Indian"}},
			"not a dish",
			{"id": 3, "order_count": 50}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, 10, 2, discardLogger())
	dishes, err := c.FetchCandidates(context.Background(), Query{Limit: 5})
	require.NoError(t, err)
	require.Len(t, dishes, 2)

	assert.Equal(t, scoring.DishID("1"), dishes[0].ID)
	assert.Equal(t, "South Indian", dishes[0].CuisineSpecialty())
	assert.Equal(t, scoring.DishID("3"), dishes[1].ID)
	assert.Equal(t, 50.0, dishes[1].OrderCount)
}

func TestFetchCandidatesKeepsDishWithWrongTypedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dishes": [
			{"id": 2, "average_rating": "4.5", "order_count": 10, "producer": {"cuisine_specialty": 12}}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, 10, 2, discardLogger())
	dishes, err := c.FetchCandidates(context.Background(), Query{Limit: 5})
	require.NoError(t, err)
	require.Len(t, dishes, 1)

	assert.Equal(t, scoring.DishID("2"), dishes[0].ID)
	assert.Zero(t, dishes[0].AverageRating)
	assert.Equal(t, 10.0, dishes[0].OrderCount)
	assert.Empty(t, dishes[0].CuisineSpecialty())
}

func TestFetchCandidatesErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"non-200 success", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"dishes": []}`))
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewHTTPClient(srv.URL, time.Second, 10, 2, discardLogger())
			dishes, err := c.FetchCandidates(context.Background(), Query{Limit: 5})
			assert.Error(t, err)
			assert.Nil(t, dishes)
		})
	}
}

func TestFetchCandidatesTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPClient(srv.URL, 50*time.Millisecond, 10, 2, discardLogger())
	start := time.Now()
	_, err := c.FetchCandidates(context.Background(), Query{Limit: 5})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchCandidatesUnreachable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", time.Second, 10, 2, discardLogger())
	_, err := c.FetchCandidates(context.Background(), Query{Limit: 5})
	assert.Error(t, err)
}

type stubClient struct {
	calls  int
	dishes []scoring.DishCandidate
	err    error
}

func (s *stubClient) FetchCandidates(_ context.Context, _ Query) ([]scoring.DishCandidate, error) {
	s.calls++
	return s.dishes, s.err
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	stub := &stubClient{err: errors.New("catalog down")}
	b := NewBreakerClient(stub, BreakerSettings{
		Name:         "catalog-test-open",
		MaxRequests:  1,
		Interval:     time.Minute,
		OpenTimeout:  time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}, discardLogger())

	for i := 0; i < 3; i++ {
		_, err := b.FetchCandidates(context.Background(), Query{Limit: 1})
		assert.Error(t, err)
		assert.Equal(t, metrics.FetchFailure, FetchResult(err))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.FetchCandidates(context.Background(), Query{Limit: 1})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, metrics.FetchRejected, FetchResult(err))
	assert.Equal(t, 3, stub.calls, "open breaker must not call the catalog")
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	stub := &stubClient{dishes: []scoring.DishCandidate{{ID: "a"}}}
	b := NewBreakerClient(stub, BreakerSettings{Name: "catalog-test-ok", MinRequests: 1, FailureRatio: 0.5}, discardLogger())

	dishes, err := b.FetchCandidates(context.Background(), Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, dishes, 1)
	assert.Equal(t, metrics.FetchSuccess, FetchResult(err))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
