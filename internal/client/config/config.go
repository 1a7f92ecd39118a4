package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the petsync client.
type Config struct {
	// APIBaseURL is the root of the animal listing API, e.g. https://api.petfinder.com.
	APIBaseURL string `env:"PETSYNC_API_BASE_URL"`
	// TokenURL is the OAuth2 token endpoint used for client-credentials exchange.
	TokenURL     string `env:"PETSYNC_TOKEN_URL"`
	ClientID     string `env:"PETSYNC_CLIENT_ID"`
	ClientSecret string `env:"PETSYNC_CLIENT_SECRET"`

	// DatabasePath is the SQLite file backing the local cache.
	DatabasePath string `env:"PETSYNC_DATABASE_PATH"`

	PageSize int    `env:"PETSYNC_PAGE_SIZE"`
	Postcode string `env:"PETSYNC_POSTCODE"`
	Distance int    `env:"PETSYNC_DISTANCE"`

	RequestTimeout time.Duration `env:"PETSYNC_REQUEST_TIMEOUT"`
	RefreshTimeout time.Duration `env:"PETSYNC_REFRESH_TIMEOUT"`
	SearchDebounce time.Duration `env:"PETSYNC_SEARCH_DEBOUNCE"`

	// RequestsPerSecond caps outbound API calls; zero disables the limit.
	RequestsPerSecond float64 `env:"PETSYNC_REQUESTS_PER_SECOND"`

	LogBackend string `env:"PETSYNC_LOG_BACKEND"`
	LogLevel   string `env:"PETSYNC_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.petfinder.com"
	c.TokenURL = "https://api.petfinder.com/v2/oauth2/token"
	c.DatabasePath = "petsync.db"
	c.PageSize = 20
	c.Distance = 100
	c.RequestTimeout = 20 * time.Second
	c.RefreshTimeout = 10 * time.Second
	c.SearchDebounce = 500 * time.Millisecond
	c.RequestsPerSecond = 2
	c.LogBackend = "slog"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{"api base url": c.APIBaseURL, "token url": c.TokenURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s %q must be an absolute URL", name, raw))
		}
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be > 0, got %d", c.PageSize))
	}
	if c.Distance < 0 {
		errs = append(errs, fmt.Errorf("distance must be >= 0, got %d", c.Distance))
	}
	if c.RequestTimeout <= 0 || c.RefreshTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("requests per second must be >= 0"))
	}
	return errors.Join(errs...)
}
