package types

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Config holds workspace settings for Shop.Attach.
type Config struct {
	Backend         string `json:"backend" yaml:"backend"`
	DataDir         string `json:"data_dir" yaml:"data_dir"`
	CacheDir        string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
	NamePrefix      string `json:"name_prefix,omitempty" yaml:"name_prefix,omitempty"`
	ShelfColor      string `json:"shelf_color,omitempty" yaml:"shelf_color,omitempty"`
	AllowBlankItems bool   `json:"allow_blank_items,omitempty" yaml:"allow_blank_items,omitempty"`
	StrictImport    bool   `json:"strict_import,omitempty" yaml:"strict_import,omitempty"`
	SyncStrategy    string `json:"sync_strategy,omitempty" yaml:"sync_strategy,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Sync strategies control when the map file is written.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
	ErrNamePrefixInvalid   = errors.New("name prefix must be valid UTF-8")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose:
	default:
		return ErrSyncStrategyUnknown
	}
	if !utf8.ValidString(c.NamePrefix) {
		return ErrNamePrefixInvalid
	}
	if c.ShelfColor != "" {
		if _, err := ParseColor(c.ShelfColor); err != nil {
			return fmt.Errorf("shelf_color: %w", err)
		}
	}
	return nil
}

// GetSyncStrategy returns the effective sync strategy, defaulting to
// immediate.
func (c Config) GetSyncStrategy() string {
	if c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}

// GetShelfColor returns the configured shelf color, or DefaultShelfColor
// when unset or unparseable.
func (c Config) GetShelfColor() Color {
	if c.ShelfColor == "" {
		return DefaultShelfColor
	}
	color, err := ParseColor(c.ShelfColor)
	if err != nil {
		return DefaultShelfColor
	}
	return color
}

// GetNamePrefix returns the configured shelf name prefix, or
// DefaultNamePrefix.
func (c Config) GetNamePrefix() string {
	if c.NamePrefix == "" {
		return DefaultNamePrefix
	}
	return c.NamePrefix
}
