package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/currypot/recommender/internal/scoring"
)

// Query describes the candidates to fetch for one recommendation.
type Query struct {
	UserID      int64
	Lat         *float64
	Lon         *float64
	DietaryType string
	SpiceLevel  string
	Limit       int
}

// Client fetches candidate dishes from the catalog.
type Client interface {
	FetchCandidates(ctx context.Context, q Query) ([]scoring.DishCandidate, error)
}

type HTTPClient struct {
	baseURL    string
	radiusKm   float64
	oversample int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient returns a catalog client. It asks for oversample times the
// requested limit so ranking still has enough to choose from after penalties.
func NewHTTPClient(baseURL string, timeout time.Duration, radiusKm float64, oversample int, logger *slog.Logger) *HTTPClient {
	if oversample < 1 {
		oversample = 1
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		radiusKm:   radiusKm,
		oversample: oversample,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type dishesResponse struct {
	Dishes []json.RawMessage `json:"dishes"`
}

func (c *HTTPClient) params(q Query) url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit*c.oversample))
	if q.Lat != nil && q.Lon != nil && *q.Lat != 0 && *q.Lon != 0 {
		v.Set("lat", strconv.FormatFloat(*q.Lat, 'f', -1, 64))
		v.Set("lon", strconv.FormatFloat(*q.Lon, 'f', -1, 64))
		v.Set("radius", strconv.FormatFloat(c.radiusKm, 'f', -1, 64))
	}
	if q.DietaryType != "" {
		v.Set("dietary_type", strings.ToLower(q.DietaryType))
	}
	if q.SpiceLevel != "" {
		v.Set("spice_level", strings.ToLower(q.SpiceLevel))
	}
	return v
}

func (c *HTTPClient) FetchCandidates(ctx context.Context, q Query) ([]scoring.DishCandidate, error) {
	endpoint := c.baseURL + "/dishes?" + c.params(q).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: %d %s", resp.StatusCode, string(body))
	}

	var wrapper dishesResponse
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	dishes := make([]scoring.DishCandidate, 0, len(wrapper.Dishes))
	for i, raw := range wrapper.Dishes {
		var d scoring.DishCandidate
		if err := json.Unmarshal(raw, &d); err != nil {
			c.logger.Warn("skipping malformed dish", "index", i, "error", err)
			continue
		}
		dishes = append(dishes, d)
	}
	return dishes, nil
}
