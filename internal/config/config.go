// Package config resolves where today keeps its files and how it behaves.
//
// Values are layered, lowest priority first:
//  1. Defaults
//  2. XDG (or OS-specific) config and data directories
//  3. The config file (<config-dir>/config.toml)
//  4. Environment variables
//  5. CLI flags
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amirbrooks/today/internal/store"
)

const (
	AppName        = "today"
	ConfigFileName = "config.toml"
	DataFileName   = store.DataFileName

	DefaultIDMinLength   = 5
	DefaultLogLevel      = "info"
	DefaultWatchInterval = 300 * time.Millisecond
	DefaultQuitKey       = "q"

	// maxIDLength is the length of a fully rendered task id.
	maxIDLength = store.IDLength
)

// Config is the fully resolved configuration.
type Config struct {
	ConfigDir   string
	DataDir     string
	IDMinLength int
	LogLevel    string
	Color       bool
	Watch       WatchConfig
}

type WatchConfig struct {
	Interval time.Duration
	QuitKey  byte
}

// ConfigFile is the path of the TOML config file.
func (c Config) ConfigFile() string {
	return filepath.Join(c.ConfigDir, ConfigFileName)
}

// DataFile is the path of the task file.
func (c Config) DataFile() string {
	return filepath.Join(c.DataDir, DataFileName)
}

// ExportDir is where exports go unless a directory is given.
func (c Config) ExportDir() string {
	return filepath.Join(c.DataDir, "exports")
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config-dir: %s\n", c.ConfigDir)
	fmt.Fprintf(&b, "data-dir: %s\n", c.DataDir)
	fmt.Fprintf(&b, "id-min-length: %d\n", c.IDMinLength)
	fmt.Fprintf(&b, "log-level: %s\n", c.LogLevel)
	fmt.Fprintf(&b, "color: %t\n", c.Color)
	fmt.Fprintf(&b, "watch-interval: %s\n", c.Watch.Interval)
	fmt.Fprintf(&b, "watch-quit-key: %q", string(c.Watch.QuitKey))
	return b.String()
}

// Partial is one source's view of the configuration. Nil fields are unset.
type Partial struct {
	ConfigDir     *string
	DataDir       *string
	IDMinLength   *int
	LogLevel      *string
	Color         *bool
	WatchInterval *time.Duration
	QuitKey       *string
}

// Merge layers parts from lowest to highest priority: a field set in a later
// part replaces the same field from an earlier one.
func Merge(parts ...Partial) Partial {
	var out Partial
	for _, p := range parts {
		out.ConfigDir = pick(out.ConfigDir, p.ConfigDir)
		out.DataDir = pick(out.DataDir, p.DataDir)
		out.IDMinLength = pick(out.IDMinLength, p.IDMinLength)
		out.LogLevel = pick(out.LogLevel, p.LogLevel)
		out.Color = pick(out.Color, p.Color)
		out.WatchInterval = pick(out.WatchInterval, p.WatchInterval)
		out.QuitKey = pick(out.QuitKey, p.QuitKey)
	}
	return out
}

func pick[T any](current, next *T) *T {
	if next != nil {
		return next
	}
	return current
}

// Defaults holds the values used when no other source sets them.
func Defaults() Partial {
	return Partial{
		IDMinLength:   ptr(DefaultIDMinLength),
		LogLevel:      ptr(DefaultLogLevel),
		Color:         ptr(true),
		WatchInterval: ptr(DefaultWatchInterval),
		QuitKey:       ptr(DefaultQuitKey),
	}
}

// Build validates p and turns it into a Config. Missing fields fall back to
// Defaults; directories are required.
func (p Partial) Build() (Config, error) {
	p = Merge(Defaults(), p)
	cfg := Config{
		IDMinLength: *p.IDMinLength,
		LogLevel:    strings.ToLower(strings.TrimSpace(*p.LogLevel)),
		Color:       *p.Color,
		Watch:       WatchConfig{Interval: *p.WatchInterval},
	}
	if p.ConfigDir == nil || strings.TrimSpace(*p.ConfigDir) == "" {
		return Config{}, fmt.Errorf("config directory is not set")
	}
	if p.DataDir == nil || strings.TrimSpace(*p.DataDir) == "" {
		return Config{}, fmt.Errorf("data directory is not set")
	}
	cfg.ConfigDir = expandPath(*p.ConfigDir)
	cfg.DataDir = expandPath(*p.DataDir)

	if cfg.IDMinLength < 0 || cfg.IDMinLength > maxIDLength {
		return Config{}, fmt.Errorf("id_min_length must be between 0 and %d, got %d", maxIDLength, cfg.IDMinLength)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("log_level %q: %w", cfg.LogLevel, err)
	}
	if cfg.Watch.Interval <= 0 {
		return Config{}, fmt.Errorf("watch interval must be positive, got %s", cfg.Watch.Interval)
	}
	key := *p.QuitKey
	if len(key) != 1 || key[0] < 0x20 || key[0] > 0x7e {
		return Config{}, fmt.Errorf("watch quit_key must be a single printable ASCII character, got %q", key)
	}
	cfg.Watch.QuitKey = key[0]
	return cfg, nil
}

func ptr[T any](v T) *T {
	return &v
}
