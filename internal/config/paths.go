package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FromXDG resolves the per-user config and data directories for today.
// XDG_CONFIG_HOME and XDG_DATA_HOME win when set; otherwise the platform
// conventions apply.
func FromXDG(getenv func(string) string) Partial {
	var p Partial
	if dir := configHome(getenv); dir != "" {
		p.ConfigDir = ptr(filepath.Join(dir, AppName))
	}
	if dir := dataHome(getenv); dir != "" {
		p.DataDir = ptr(filepath.Join(dir, AppName))
	}
	return p
}

func configHome(getenv func(string) string) string {
	if v := getenv("XDG_CONFIG_HOME"); filepath.IsAbs(v) {
		return v
	}
	switch runtime.GOOS {
	case "windows":
		return getenv("APPDATA")
	case "darwin":
		if home := homeDir(getenv); home != "" {
			return filepath.Join(home, "Library", "Application Support")
		}
		return ""
	default:
		if home := homeDir(getenv); home != "" {
			return filepath.Join(home, ".config")
		}
		return ""
	}
}

func dataHome(getenv func(string) string) string {
	if v := getenv("XDG_DATA_HOME"); filepath.IsAbs(v) {
		return v
	}
	switch runtime.GOOS {
	case "windows":
		if v := getenv("LOCALAPPDATA"); v != "" {
			return v
		}
		return getenv("APPDATA")
	case "darwin":
		if home := homeDir(getenv); home != "" {
			return filepath.Join(home, "Library", "Application Support")
		}
		return ""
	default:
		if home := homeDir(getenv); home != "" {
			return filepath.Join(home, ".local", "share")
		}
		return ""
	}
}

func homeDir(getenv func(string) string) string {
	if runtime.GOOS == "windows" {
		if v := getenv("USERPROFILE"); v != "" {
			return v
		}
	}
	if v := getenv("HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		if p == "~" {
			return home
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
