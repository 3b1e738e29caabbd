package config

import (
	"time"

	"github.com/marmos91/resolvefs/pkg/resolver"
)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in defaults for any unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = ":9095"
	}
	if cfg.Metrics.ShutdownTimeout == 0 {
		cfg.Metrics.ShutdownTimeout = 5 * time.Second
	}

	if cfg.Gate.MaxInFlight == 0 {
		cfg.Gate.MaxInFlight = resolver.DefaultMaxInFlight
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
}
