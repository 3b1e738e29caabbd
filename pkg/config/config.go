// Package config loads and validates the resolvefs configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (RESOLVEFS_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the resolvefs configuration.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics contains Prometheus metrics server configuration.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Gate bounds the number of concurrent storage calls.
	Gate GateConfig `mapstructure:"gate" yaml:"gate"`

	// Store selects and configures the handle store backend.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Federation is the static junction-to-fileset-root table.
	// Entries are hex-encoded 32-byte handles.
	Federation []FederationMapping `mapstructure:"federation" yaml:"federation,omitempty"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format selects the handler: text or json.
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json" yaml:"format"`

	// Output is "stdout", "stderr" or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns metric collection and the /metrics listener on.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// ListenAddr is the metrics listen address, e.g. ":9095".
	ListenAddr string `mapstructure:"listen_addr" validate:"required_if=Enabled true" yaml:"listen_addr"`

	// ShutdownTimeout bounds the graceful drain of the metrics listener.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`
}

// GateConfig configures the storage-call admission gate.
type GateConfig struct {
	// MaxInFlight is the maximum number of concurrent storage calls.
	// Zero selects the built-in default.
	MaxInFlight int64 `mapstructure:"max_in_flight" validate:"gte=0" yaml:"max_in_flight"`
}

// StoreConfig selects the handle store backend.
type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `mapstructure:"backend" validate:"required,oneof=memory badger" yaml:"backend"`

	// Path is the badger database directory. Required for the badger
	// backend.
	Path string `mapstructure:"path" validate:"required_if=Backend badger" yaml:"path,omitempty"`
}

// FederationMapping maps one junction handle to the root handle of the
// fileset mounted there.
type FederationMapping struct {
	// Junction is the hex-encoded handle of the junction object.
	Junction string `mapstructure:"junction" validate:"required,hexadecimal,len=64" yaml:"junction"`

	// Target is the hex-encoded root handle of the target namespace.
	Target string `mapstructure:"target" validate:"required,hexadecimal,len=64" yaml:"target"`
}

// Load reads, decodes and validates the configuration.
// An empty configPath uses the default search locations; a missing file
// yields the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := Default()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to path as YAML.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the default config file location:
// $XDG_CONFIG_HOME/resolvefs/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "resolvefs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "resolvefs"
	}
	return filepath.Join(home, ".config", "resolvefs")
}

// setupViper configures environment variable support and file search paths.
// Example override: RESOLVEFS_LOGGING_LEVEL=DEBUG.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("RESOLVEFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// configDecodeHooks returns the combined decode hook for custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook converts strings like "500ms" to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		if from.Kind() != reflect.String {
			return data, nil
		}
		return time.ParseDuration(data.(string))
	}
}
