// Package paths resolves the configuration, data, and cache directory
// locations for the shopmap CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when nothing overrides them.
const (
	DefaultConfigDirName = ".shopmap"
	DefaultDataDirName   = ".shopmap-db"
)

// appDirName is the per-user directory name under platform base dirs.
const appDirName = "shopmap"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SHOPMAP_CONFIG_DIR"
	EnvDataDir   = "SHOPMAP_DATA_DIR"
	EnvCacheDir  = "SHOPMAP_CACHE_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir      func() (string, error)
	userCacheDir func() (string, error)
}{
	homeDir:      os.UserHomeDir,
	userCacheDir: os.UserCacheDir,
}

// DefaultCacheDir returns the platform-specific directory where exports
// are staged for sharing.
//
// Linux:   $XDG_CACHE_HOME/shopmap (fallback ~/.cache/shopmap)
// macOS:   ~/Library/Caches/shopmap
// Windows: %LocalAppData%/shopmap
func DefaultCacheDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".cache", appDirName), nil
	default:
		dir, err := platformDir.userCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SHOPMAP_CONFIG_DIR env > $(CWD)/.shopmap.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultConfigDirName)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > SHOPMAP_DATA_DIR env > $(CWD)/.shopmap-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultDataDirName)
}

// ResolveCacheDir returns the export staging directory following the
// precedence chain: configYAMLValue > SHOPMAP_CACHE_DIR env > DefaultCacheDir().
func ResolveCacheDir(configYAMLValue string) (string, error) {
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvCacheDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultCacheDir()
}

func cwdJoin(name string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}
