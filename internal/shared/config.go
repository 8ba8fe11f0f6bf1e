package shared

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

const (
	minTimeout = 5 * time.Second
	maxTimeout = 10 * time.Second
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR"`

	SourceID      string        `env:"REVIEWS_SOURCE_ID"`
	BaseURL       string        `env:"REVIEWS_BASE_URL" envDefault:"https://androidpublisher.googleapis.com/androidpublisher/v3"`
	EndpointStyle string        `env:"REVIEWS_ENDPOINT_STYLE" envDefault:"play"`
	AccessToken   string        `env:"REVIEWS_ACCESS_TOKEN"`
	KeyFile       string        `env:"REVIEWS_SERVICE_ACCOUNT_FILE"`
	TokenURL      string        `env:"REVIEWS_TOKEN_URL"`
	Timeout       time.Duration `env:"REVIEWS_TIMEOUT" envDefault:"8s"`
	RPS           int           `env:"REVIEWS_RPS" envDefault:"5"`
	FallbackFile  string        `env:"REVIEWS_FALLBACK_FILE"`

	CacheTTLSeconds int    `env:"REVIEWS_CACHE_TTL_SECONDS" envDefault:"0"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`

	ProbeSourceIDs []string `env:"PROBE_SOURCE_IDS" envSeparator:","`
	ProbeWorkers   int      `env:"PROBE_WORKERS" envDefault:"4"`
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

// Parse reads the environment and normalizes out-of-range values.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.Timeout < minTimeout || c.Timeout > maxTimeout {
		clamped := min(max(c.Timeout, minTimeout), maxTimeout)
		log.Warn().Dur("requested", c.Timeout).Dur("using", clamped).Msg("REVIEWS_TIMEOUT outside 5s-10s")
		c.Timeout = clamped
	}
	if c.ProbeWorkers <= 0 {
		c.ProbeWorkers = 1
	}
	if c.CacheTTLSeconds < 0 {
		c.CacheTTLSeconds = 0
	}
	return c, nil
}

// Load is Parse for main packages: a broken environment is fatal.
func Load() Config {
	c, err := Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if c.AccessToken == "" && c.KeyFile == "" {
		log.Warn().Msg("neither REVIEWS_ACCESS_TOKEN nor REVIEWS_SERVICE_ACCOUNT_FILE is set; fallback reviews will be served")
	}
	if c.SourceID == "" {
		log.Warn().Msg("REVIEWS_SOURCE_ID is empty")
	}
	return c
}
