// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/widgetdash/internal/layout"
	"github.com/jmylchreest/widgetdash/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. WIDGETDASH_TOASTS_POSITION.
const EnvPrefix = "WIDGETDASH_"

// Default configuration values.
const (
	DefaultHTTPAddr         = "127.0.0.1:7878"
	DefaultNotifierInterval = 5 * time.Second
	DefaultLowTimeout       = 5 * time.Second
	DefaultCriticalTimeout  = 0
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer milliseconds.
// A value of "0" or 0 means never expire.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML and env parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Integer milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the widgetdash configuration.
// Loaded from ~/.config/widgetdash/config.toml, then overridden by
// WIDGETDASH_* environment variables.
type Config struct {
	Toasts   ToastsConfig   `toml:"toasts" envPrefix:"TOASTS_"`
	Theme    ThemeConfig    `toml:"theme" envPrefix:"THEME_"`
	Layout   LayoutConfig   `toml:"layout" envPrefix:"LAYOUT_"`
	DBus     DBusConfig     `toml:"dbus" envPrefix:"DBUS_"`
	HTTP     HTTPConfig     `toml:"http" envPrefix:"HTTP_"`
	Notifier NotifierConfig `toml:"notifier" envPrefix:"NOTIFIER_"`
	TUI      TUIConfig      `toml:"tui" envPrefix:"TUI_"`
}

// ToastsConfig holds toast stack settings.
type ToastsConfig struct {
	Position        string   `toml:"position" env:"POSITION"`                 // "top-right", "bottom-left", etc.
	DefaultDuration Duration `toml:"default_duration" env:"DEFAULT_DURATION"` // Used when a toast sets none
}

// ThemeConfig selects the palette.
type ThemeConfig struct {
	Name   string `toml:"name" env:"NAME"`     // Bundled or user palette name
	Accent string `toml:"accent" env:"ACCENT"` // Optional custom accent colour
}

// LayoutConfig holds the size-class thresholds in terminal columns.
type LayoutConfig struct {
	Small  int `toml:"small" env:"SMALL"`
	Medium int `toml:"medium" env:"MEDIUM"`
}

// DBusConfig controls the session bus surfaces.
type DBusConfig struct {
	Notifications bool          `toml:"notifications" env:"NOTIFICATIONS"` // Claim org.freedesktop.Notifications
	Control       bool          `toml:"control" env:"CONTROL"`             // Export the control interface
	Timeouts      TimeoutConfig `toml:"timeouts" envPrefix:"TIMEOUT_"`
}

// TimeoutConfig contains timeout settings per urgency level, used when a
// D-Bus client asks for the server default (expire_timeout -1).
type TimeoutConfig struct {
	Low      Duration `toml:"low" env:"LOW"`
	Normal   Duration `toml:"normal" env:"NORMAL"`
	Critical Duration `toml:"critical" env:"CRITICAL"` // 0 = persistent
}

// HTTPConfig controls the HTTP API.
type HTTPConfig struct {
	Enabled bool   `toml:"enabled" env:"ENABLED"`
	Addr    string `toml:"addr" env:"ADDR"`
}

// NotifierConfig controls toasts the application raises about itself.
type NotifierConfig struct {
	Enabled     bool     `toml:"enabled" env:"ENABLED"`
	MinInterval Duration `toml:"min_interval" env:"MIN_INTERVAL"` // Rate limit per message kind
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp         bool   `toml:"show_help" env:"SHOW_HELP"`
	ClipboardCommand string `toml:"clipboard_command" env:"CLIPBOARD_COMMAND"` // Empty = auto-detect
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Toasts: ToastsConfig{
			Position:        string(model.DefaultPosition),
			DefaultDuration: Duration(model.DefaultToastDuration),
		},
		Theme: ThemeConfig{
			Name: "aurora",
		},
		Layout: LayoutConfig{
			Small:  layout.ColumnBreakpoints.Small,
			Medium: layout.ColumnBreakpoints.Medium,
		},
		DBus: DBusConfig{
			Notifications: true,
			Control:       true,
			Timeouts: TimeoutConfig{
				Low:      Duration(DefaultLowTimeout),
				Normal:   Duration(model.DefaultToastDuration),
				Critical: Duration(DefaultCriticalTimeout),
			},
		},
		HTTP: HTTPConfig{
			Enabled: false,
			Addr:    DefaultHTTPAddr,
		},
		Notifier: NotifierConfig{
			Enabled:     true,
			MinInterval: Duration(DefaultNotifierInterval),
		},
		TUI: TUIConfig{
			ShowHelp: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "widgetdash", "config.toml")
}

// ThemesDir returns the user palette directory next to the config file.
func ThemesDir(configPath string) string {
	if configPath == "" {
		configPath = ConfigPath()
	}
	return filepath.Join(filepath.Dir(configPath), "themes")
}

// Load reads the file at path (defaults when absent), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from the specified path without
// environment overrides. If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays WIDGETDASH_* environment variables. Unset variables
// leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Save writes the configuration to the specified path atomically.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := model.ParsePosition(c.Toasts.Position); err != nil {
		return fmt.Errorf("toasts.position: %w (must be one of %v)", err, model.Positions())
	}
	if c.Toasts.DefaultDuration < 0 {
		return fmt.Errorf("toasts.default_duration must not be negative, got %s", c.Toasts.DefaultDuration.Duration())
	}
	if err := c.Breakpoints().Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	for name, d := range map[string]Duration{
		"low":      c.DBus.Timeouts.Low,
		"normal":   c.DBus.Timeouts.Normal,
		"critical": c.DBus.Timeouts.Critical,
	} {
		if d < 0 {
			return fmt.Errorf("dbus.timeouts.%s must not be negative", name)
		}
	}
	if c.HTTP.Enabled && c.HTTP.Addr == "" {
		return errors.New("http.addr is required when http is enabled")
	}
	if c.Notifier.MinInterval < 0 {
		return errors.New("notifier.min_interval must not be negative")
	}
	return nil
}

// ToastPosition returns the configured anchor, or the default if invalid.
func (c *Config) ToastPosition() model.Position {
	p, err := model.ParsePosition(c.Toasts.Position)
	if err != nil {
		return model.DefaultPosition
	}
	return p
}

// Breakpoints returns the configured column thresholds.
func (c *Config) Breakpoints() layout.Breakpoints {
	return layout.Breakpoints{Small: c.Layout.Small, Medium: c.Layout.Medium}
}

// TimeoutForUrgency returns the toast duration for a freedesktop urgency
// level (0 low, 1 normal, 2 critical).
func (c *Config) TimeoutForUrgency(urgency byte) time.Duration {
	switch urgency {
	case 0:
		return c.DBus.Timeouts.Low.Duration()
	case 2:
		return c.DBus.Timeouts.Critical.Duration()
	default:
		return c.DBus.Timeouts.Normal.Duration()
	}
}
