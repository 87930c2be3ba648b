package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mailadmin/internal/flagx"
)

// Flags lists every flag parseFlags understands; other components use it
// to ignore them.
var Flags = []string{
	"-a", "-t", "-d", "-p", "-j", "-rate", "-retries", "-e", "-log-format", "-log-level",
}

// parseFlags overlays cfg with command-line flags. os.Args is filtered with
// flagx.FilterArgs so subcommand arguments do not interfere.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("mailadmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "backend base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.SessionDB, "d", cfg.SessionDB, "session database path")
	fs.StringVar(&cfg.CascadePolicy, "p", cfg.CascadePolicy, "cascade policy")
	fs.IntVar(&cfg.CascadeConcurrency, "j", cfg.CascadeConcurrency, "concurrent item deletes")
	fs.Float64Var(&cfg.CascadeRate, "rate", cfg.CascadeRate, "item deletes per second")
	fs.IntVar(&cfg.CascadeRetries, "retries", cfg.CascadeRetries, "item delete retries")
	fs.StringVar(&cfg.ExpiryPolicy, "e", cfg.ExpiryPolicy, "token expiry policy")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
