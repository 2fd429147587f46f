package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Recommend RecommendConfig `yaml:"recommend"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type CatalogConfig struct {
	URL        string        `yaml:"url"`
	TimeoutMs  int           `yaml:"timeout_ms"`
	RadiusKm   float64       `yaml:"radius_km"`
	Oversample int           `yaml:"oversample"`
	Breaker    BreakerConfig `yaml:"breaker"`
}

type BreakerConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MaxRequests   uint32  `yaml:"max_requests"`
	IntervalMs    int     `yaml:"interval_ms"`
	OpenTimeoutMs int     `yaml:"open_timeout_ms"`
	MinRequests   uint32  `yaml:"min_requests"`
	FailureRatio  float64 `yaml:"failure_ratio"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// MaxRecommendLimit is the largest limit a recommendation request may ask for.
const MaxRecommendLimit = 100

type RecommendConfig struct {
	DefaultLimit int `yaml:"default_limit"`
}

type ScoringConfig struct {
	Points ScoringPoints `yaml:"points"`
}

type ScoringPoints struct {
	RatingMultiplier float64 `yaml:"rating_multiplier"`
	OrderMultiplier  float64 `yaml:"order_multiplier"`
	OrderCap         float64 `yaml:"order_cap"`
	ViewMultiplier   float64 `yaml:"view_multiplier"`
	ViewCap          float64 `yaml:"view_cap"`
	DietaryMatch     float64 `yaml:"dietary_match"`
	SpiceMatch       float64 `yaml:"spice_match"`
	CuisineMatch     float64 `yaml:"cuisine_match"`
	CuisineMismatch  float64 `yaml:"cuisine_mismatch"`
	AllergenConflict float64 `yaml:"allergen_conflict"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutMs) * time.Millisecond
}

func (c *Config) BreakerInterval() time.Duration {
	return time.Duration(c.Catalog.Breaker.IntervalMs) * time.Millisecond
}

func (c *Config) BreakerOpenTimeout() time.Duration {
	return time.Duration(c.Catalog.Breaker.OpenTimeoutMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8001,
			MetricsPort:        8002,
			RateLimitPerMinute: 120,
		},
		Catalog: CatalogConfig{
			URL:        "http://localhost:5000/api",
			TimeoutMs:  5000,
			RadiusKm:   10,
			Oversample: 2,
			Breaker: BreakerConfig{
				Enabled:       true,
				MaxRequests:   3,
				IntervalMs:    60000,
				OpenTimeoutMs: 30000,
				MinRequests:   10,
				FailureRatio:  0.6,
			},
		},
		Recommend: RecommendConfig{
			DefaultLimit: 10,
		},
		Scoring: ScoringConfig{
			Points: ScoringPoints{
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
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog url required")
	}
	if c.Catalog.TimeoutMs <= 0 {
		return fmt.Errorf("catalog timeout_ms must be positive, got %d", c.Catalog.TimeoutMs)
	}
	if c.Catalog.Oversample < 1 {
		return fmt.Errorf("catalog oversample must be at least 1, got %d", c.Catalog.Oversample)
	}
	if c.Recommend.DefaultLimit < 0 || c.Recommend.DefaultLimit > MaxRecommendLimit {
		return fmt.Errorf("recommend default_limit %d outside 0..%d", c.Recommend.DefaultLimit, MaxRecommendLimit)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RECOMMENDER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("RECOMMENDER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("RECOMMENDER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("RECOMMENDER_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	// BACKEND_API_URL is what the catalog deployment already exports.
	if v := os.Getenv("BACKEND_API_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv("RECOMMENDER_CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv("RECOMMENDER_CATALOG_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.TimeoutMs = n
		}
	}
	if v := os.Getenv("RECOMMENDER_BREAKER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Catalog.Breaker.Enabled = b
		}
	}
	if v := os.Getenv("RECOMMENDER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("RECOMMENDER_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.DefaultLimit = n
		}
	}
	if v := os.Getenv("RECOMMENDER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RECOMMENDER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
