package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mailadmin/internal/flagx"
	"github.com/dmitrijs2005/mailadmin/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used only for decoding config files. Pointer fields
// tell "absent" from "zero".
type FileConfig struct {
	ServerBaseURL      *string         `json:"server_base_url" yaml:"server_base_url"`
	RequestTimeout     *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SessionDB          *string         `json:"session_db" yaml:"session_db"`
	CascadePolicy      *string         `json:"cascade_policy" yaml:"cascade_policy"`
	CascadeConcurrency *int            `json:"cascade_concurrency" yaml:"cascade_concurrency"`
	CascadeRate        *float64        `json:"cascade_rate" yaml:"cascade_rate"`
	CascadeRetries     *int            `json:"cascade_retries" yaml:"cascade_retries"`
	CascadeBackoff     *timex.Duration `json:"cascade_backoff" yaml:"cascade_backoff"`
	ExpiryPolicy       *string         `json:"expiry_policy" yaml:"expiry_policy"`
	LogFormat          *string         `json:"log_format" yaml:"log_format"`
	LogLevel           *string         `json:"log_level" yaml:"log_level"`
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *fc.ServerBaseURL
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.SessionDB != nil {
		cfg.SessionDB = *fc.SessionDB
	}
	if fc.CascadePolicy != nil {
		cfg.CascadePolicy = *fc.CascadePolicy
	}
	if fc.CascadeConcurrency != nil {
		cfg.CascadeConcurrency = *fc.CascadeConcurrency
	}
	if fc.CascadeRate != nil {
		cfg.CascadeRate = *fc.CascadeRate
	}
	if fc.CascadeRetries != nil {
		cfg.CascadeRetries = *fc.CascadeRetries
	}
	if fc.CascadeBackoff != nil {
		cfg.CascadeBackoff = fc.CascadeBackoff.Duration
	}
	if fc.ExpiryPolicy != nil {
		cfg.ExpiryPolicy = *fc.ExpiryPolicy
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}
