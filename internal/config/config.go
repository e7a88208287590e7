// Package config provides configuration management for cra-watch.
//
// Configuration is loaded from four sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CRA_WATCH_ prefix, plus NODE_ENV for the mode)
//  3. Config file (.cra-watch.yaml)
//  4. Defaults
//
// The application's .env files are loaded into the process environment
// before any of the above is read, without overriding variables that are
// already set.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Build modes shown in the report banner.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)

// DefaultDebounce is the quiet period applied to public folder changes.
const DefaultDebounce = 200 * time.Millisecond

// Config represents the global configuration for cra-watch.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// AppDir is the application root containing public/, src/ and build/.
	AppDir string `mapstructure:"app-dir" json:"appDir"`

	// Mode is the build mode (NODE_ENV). It is display text and the value
	// of process.env.NODE_ENV inside the bundle.
	Mode string `mapstructure:"mode" json:"mode"`

	// Debounce is the quiet period before a public folder change triggers
	// a rebuild.
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`

	// WatchPublic enables rebuilds on public folder changes.
	WatchPublic bool `mapstructure:"watch-public" json:"watchPublic"`

	// ClearConsole clears an interactive terminal before each report.
	ClearConsole bool `mapstructure:"clear-console" json:"clearConsole"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), never read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`

	// EnvFiles lists the .env files that were loaded, in precedence order.
	EnvFiles []string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:     LogLevelInfo,
		LogFormat:    LogFormatText,
		AppDir:       ".",
		Mode:         ModeDevelopment,
		Debounce:     DefaultDebounce,
		WatchPublic:  true,
		ClearConsole: true,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if strings.TrimSpace(c.Mode) == "" {
		return fmt.Errorf("build mode must not be empty")
	}

	if c.Debounce < 0 {
		return fmt.Errorf("invalid debounce %s: must not be negative", c.Debounce)
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := configureEnv(v); err != nil {
		return nil, err
	}

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	// .env files live in the app directory and may set REACT_APP_* values,
	// so they are loaded once the app directory is known but before
	// unmarshaling.
	envFiles, err := LoadDotEnv(v.GetString("app-dir"), v.GetString("mode"))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Store the resolved config file path so downstream code can locate it.
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.EnvFiles = envFiles

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("no-color", d.NoColor)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("app-dir", d.AppDir)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("watch-public", d.WatchPublic)
	v.SetDefault("clear-console", d.ClearConsole)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) error {
	v.SetEnvPrefix("CRA_WATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// The mode follows the Node convention unless overridden explicitly.
	if err := v.BindEnv("mode", "CRA_WATCH_MODE", "NODE_ENV"); err != nil {
		return fmt.Errorf("binding mode environment: %w", err)
	}

	return nil
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".cra-watch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "cra-watch"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		// Found a file but it was malformed.
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	// Bind the current command's own flags.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	// Walk up to root and bind all persistent flags at each level.
	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
