package config

import (
	"fmt"
	"time"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8080/api"
	DefaultSessionDBPath  = "postit.db"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "warn"
	DefaultPageSize       = 20
)

// Config holds runtime settings for the postit CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API, e.g. http://localhost:8080/api.
//   - SessionDBPath: SQLite file holding the persisted session.
//   - RequestTimeout: bound on a single HTTP exchange.
//   - LogLevel: debug, info, warn or error.
//   - PageSize: items fetched per page by list views.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	SessionDBPath  string        `env:"SESSION_DB"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	PageSize       int           `env:"PAGE_SIZE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.SessionDBPath = DefaultSessionDBPath
	c.RequestTimeout = DefaultRequestTimeout
	c.LogLevel = DefaultLogLevel
	c.PageSize = DefaultPageSize
}

// Load builds a Config from defaults, then the config file named by -c or
// -config (if any), then POSTIT_* environment variables, then flags. Later
// sources take precedence over earlier ones. args excludes the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, nil); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if c.SessionDBPath == "" {
		return fmt.Errorf("session database path is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}
