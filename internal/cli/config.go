// Config loading for the shopmap CLI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/shopmap/internal/logging"
	"github.com/mesh-intelligence/shopmap/internal/paths"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyCacheDir        = "cache_dir"
	cfgKeyNamePrefix      = "name_prefix"
	cfgKeyShelfColor      = "shelf_color"
	cfgKeyAllowBlankItems = "allow_blank_items"
	cfgKeyStrictImport    = "strict_import"
	cfgKeySyncStrategy    = "sync_strategy"
	cfgKeyLogLevel        = "log_level"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend         string `yaml:"backend"`
	DataDir         string `yaml:"data_dir,omitempty"`
	CacheDir        string `yaml:"cache_dir,omitempty"`
	NamePrefix      string `yaml:"name_prefix"`
	ShelfColor      string `yaml:"shelf_color"`
	AllowBlankItems bool   `yaml:"allow_blank_items"`
	StrictImport    bool   `yaml:"strict_import"`
	SyncStrategy    string `yaml:"sync_strategy"`
	LogLevel        string `yaml:"log_level"`
}

// defaultConfigFile returns the settings init writes.
func defaultConfigFile() configFile {
	return configFile{
		Backend:      types.BackendSQLite,
		NamePrefix:   types.DefaultNamePrefix,
		ShelfColor:   types.DefaultShelfColor.String(),
		SyncStrategy: types.SyncImmediate,
		LogLevel:     logging.DefaultLevel,
	}
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// directory or file is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := defaultConfigFile()

	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyNamePrefix, def.NamePrefix)
	v.SetDefault(cfgKeyShelfColor, def.ShelfColor)
	v.SetDefault(cfgKeyAllowBlankItems, false)
	v.SetDefault(cfgKeyStrictImport, false)
	v.SetDefault(cfgKeySyncStrategy, def.SyncStrategy)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile()
	cfg.DataDir = dataDir

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# shopmap configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// workspaceConfig builds the backend config from flags and config.yaml.
func (a *app) workspaceConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cacheDir, err := paths.ResolveCacheDir(a.v.GetString(cfgKeyCacheDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve cache dir: %w", err)
	}

	cfg := types.Config{
		Backend:         a.v.GetString(cfgKeyBackend),
		DataDir:         dataDir,
		CacheDir:        cacheDir,
		NamePrefix:      a.v.GetString(cfgKeyNamePrefix),
		ShelfColor:      a.v.GetString(cfgKeyShelfColor),
		AllowBlankItems: a.v.GetBool(cfgKeyAllowBlankItems),
		StrictImport:    a.v.GetBool(cfgKeyStrictImport),
		SyncStrategy:    a.v.GetString(cfgKeySyncStrategy),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(fmt.Errorf("invalid config: %w", err))
	}
	return cfg, nil
}

// configPath returns the config.yaml path in the resolved config dir.
func (a *app) configPath() string {
	return filepath.Join(a.configDir, configFileExt)
}
