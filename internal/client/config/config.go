package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/client/services"
	"github.com/dmitrijs2005/mailadmin/internal/client/session"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
)

// Config holds runtime settings for the mailadmin CLI.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	SessionDB      string

	CascadePolicy      string
	CascadeConcurrency int
	CascadeRate        float64
	CascadeRetries     int
	CascadeBackoff     time.Duration

	ExpiryPolicy string

	LogFormat string
	LogLevel  string
}

func defaultSessionDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mailadmin-session.db"
	}
	return filepath.Join(dir, "mailadmin", "session.db")
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3000"
	c.RequestTimeout = 15 * time.Second
	c.SessionDB = defaultSessionDB()
	c.CascadePolicy = string(services.CascadeRequireAll)
	c.CascadeConcurrency = 4
	c.CascadeRate = 0
	c.CascadeRetries = 2
	c.CascadeBackoff = 200 * time.Millisecond
	c.ExpiryPolicy = string(session.ExpiryCheck)
	c.LogFormat = logging.FormatText
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the config file (if any), then flags,
// and validates the result.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server base url %q: must be an http(s) URL", c.ServerBaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	if _, err := services.ParseCascadePolicy(c.CascadePolicy); err != nil {
		return err
	}
	if c.CascadeConcurrency < 0 || c.CascadeRate < 0 || c.CascadeRetries < 0 {
		return fmt.Errorf("cascade limits must not be negative")
	}
	if _, err := session.ParseExpiryPolicy(c.ExpiryPolicy); err != nil {
		return err
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON, logging.FormatZap:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Cascade returns the cascade options described by c. Validate must have
// passed.
func (c *Config) Cascade() services.CascadeOptions {
	policy, _ := services.ParseCascadePolicy(c.CascadePolicy)
	return services.CascadeOptions{
		Policy:        policy,
		Concurrency:   c.CascadeConcurrency,
		RatePerSecond: c.CascadeRate,
		Retries:       c.CascadeRetries,
		Backoff:       c.CascadeBackoff,
	}
}

// Expiry returns the token expiry policy. Validate must have passed.
func (c *Config) Expiry() session.ExpiryPolicy {
	p, _ := session.ParseExpiryPolicy(c.ExpiryPolicy)
	return p
}
