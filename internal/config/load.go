package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables read by FromEnv.
const (
	EnvConfigPath = "TODAY_CONFIG_PATH"
	EnvDataPath   = "TODAY_DATA_PATH"
	EnvLogLevel   = "TODAY_LOG_LEVEL"
	EnvNoColor    = "NO_COLOR"
)

// Load resolves the configuration. flags carries whatever the command line set.
// The config file is looked up in the config directory resolved from every
// other source, so TODAY_CONFIG_PATH and --config-dir move it too.
func Load(flags Partial) (Config, error) {
	return load(flags, os.Getenv)
}

func load(flags Partial, getenv func(string) string) (Config, error) {
	xdg := FromXDG(getenv)
	env := FromEnv(getenv)

	dirs := Merge(Defaults(), xdg, env, flags)
	var file Partial
	if dirs.ConfigDir != nil {
		path := filepath.Join(expandPath(*dirs.ConfigDir), ConfigFileName)
		var err error
		file, err = FromFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	cfg, err := Merge(Defaults(), xdg, file, env, flags).Build()
	if err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv reads the TODAY_* variables and NO_COLOR.
func FromEnv(getenv func(string) string) Partial {
	var p Partial
	if v := strings.TrimSpace(getenv(EnvConfigPath)); v != "" {
		p.ConfigDir = ptr(v)
	}
	if v := strings.TrimSpace(getenv(EnvDataPath)); v != "" {
		p.DataDir = ptr(v)
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		p.LogLevel = ptr(v)
	}
	if getenv(EnvNoColor) != "" {
		p.Color = ptr(false)
	}
	return p
}

type fileConfig struct {
	DataDir     *string `toml:"data_dir"`
	IDMinLength *int    `toml:"id_min_length"`
	LogLevel    *string `toml:"log_level"`
	Color       *bool   `toml:"color"`
	Watch       struct {
		Interval *string `toml:"interval"`
		QuitKey  *string `toml:"quit_key"`
	} `toml:"watch"`
}

// FromFile reads a TOML config file. A missing file sets nothing. Unknown keys
// are rejected so that typos do not go unnoticed.
func FromFile(path string) (Partial, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Partial{}, nil
		}
		return Partial{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		return Partial{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	p := Partial{
		DataDir:     fc.DataDir,
		IDMinLength: fc.IDMinLength,
		LogLevel:    fc.LogLevel,
		Color:       fc.Color,
		QuitKey:     fc.Watch.QuitKey,
	}
	if fc.DataDir != nil && !filepath.IsAbs(expandPath(*fc.DataDir)) {
		// Relative data directories are relative to the config file.
		p.DataDir = ptr(filepath.Join(filepath.Dir(path), *fc.DataDir))
	}
	if fc.Watch.Interval != nil {
		d, err := time.ParseDuration(*fc.Watch.Interval)
		if err != nil {
			return Partial{}, fmt.Errorf("watch.interval: %w", err)
		}
		p.WatchInterval = &d
	}
	return p, nil
}
