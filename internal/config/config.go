// Package config loads report settings from defaults, an optional YAML
// file, NICEMAP_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// MaxZoom is the deepest zoom level served by the OpenStreetMap tiles.
const MaxZoom = 18

// Config holds everything a report run needs.
type Config struct {
	Database    string    `mapstructure:"database"`
	Period      int       `mapstructure:"period"`
	Limit       int       `mapstructure:"limit"`
	Output      string    `mapstructure:"output"`
	Zoom        int       `mapstructure:"zoom"`
	MetricsFile string    `mapstructure:"metrics_file"`
	Log         LogConfig `mapstructure:"log"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration.
//
// configFile names an explicit YAML file; when empty, nicemap.yaml is looked
// up in the working directory and ./configs, and a missing file is not an
// error. flags maps config keys to command-line flags; a flag wins only when
// it was set explicitly.
func Load(configFile string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("database", "kids.db")
	v.SetDefault("period", 2025)
	v.SetDefault("limit", 3)
	v.SetDefault("output", "top3_sages_map.html")
	v.SetDefault("zoom", 2)
	v.SetDefault("metrics_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Config file
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("nicemap")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Environment variables: NICEMAP_LOG_LEVEL → log.level
	v.SetEnvPrefix("NICEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Database) == "" {
		errs = append(errs, "database is required")
	}
	if c.Limit <= 0 {
		errs = append(errs, fmt.Sprintf("limit must be positive, got %d", c.Limit))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, "output is required")
	}
	if c.Zoom < 0 || c.Zoom > MaxZoom {
		errs = append(errs, fmt.Sprintf("zoom must be 0-%d, got %d", MaxZoom, c.Zoom))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
