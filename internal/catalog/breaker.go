package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/currypot/recommender/internal/metrics"
	"github.com/currypot/recommender/internal/scoring"
)

// BreakerSettings configures the catalog circuit breaker.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32        // requests allowed through while half-open
	Interval     time.Duration // closed-state count reset
	OpenTimeout  time.Duration // how long to stay open before probing
	MinRequests  uint32
	FailureRatio float64
}

// BreakerClient short-circuits catalog fetches while the catalog keeps failing.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[[]scoring.DishCandidate]
}

func NewBreakerClient(next Client, st BreakerSettings, logger *slog.Logger) *BreakerClient {
	if st.Name == "" {
		st.Name = "catalog"
	}
	metrics.CatalogBreakerState.WithLabelValues(st.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]scoring.DishCandidate](gobreaker.Settings{
		Name:        st.Name,
		MaxRequests: st.MaxRequests,
		Interval:    st.Interval,
		Timeout:     st.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < st.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= st.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("catalog breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CatalogBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up is not the catalog's fault
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerClient{next: next, cb: cb}
}

func (b *BreakerClient) FetchCandidates(ctx context.Context, q Query) ([]scoring.DishCandidate, error) {
	return b.cb.Execute(func() ([]scoring.DishCandidate, error) {
		return b.next.FetchCandidates(ctx, q)
	})
}

// FetchResult labels a fetch error for metrics: success, rejected by an
// open breaker, or a plain failure.
func FetchResult(err error) string {
	switch {
	case err == nil:
		return metrics.FetchSuccess
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return metrics.FetchRejected
	default:
		return metrics.FetchFailure
	}
}

// State reports the breaker's current state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
