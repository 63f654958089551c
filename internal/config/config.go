// Package config loads modstudio settings from TOML and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/modstudio/internal/lang"
	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/persist"
	"github.com/bethropolis/modstudio/internal/snippets"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"`
	Studio  StudioConfig  `toml:"studio"`
	Storage StorageConfig `toml:"storage"`
	Reparse ReparseConfig `toml:"reparse"`
	Cache   CacheConfig   `toml:"cache"`
}

// StudioConfig holds defaults for a fresh editor collection.
type StudioConfig struct {
	Engine       string `toml:"engine"`
	Language     string `toml:"language"`
	HistoryLimit int    `toml:"history_limit"`
}

// StorageConfig selects where the collection is persisted.
type StorageConfig struct {
	Backend string `toml:"backend"` // memory, file, sqlite or none
	Path    string `toml:"path"`
	Key     string `toml:"key"`
	Async   bool   `toml:"async"` // write through a background writer
}

// ReparseConfig tunes background parsing.
type ReparseConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// CacheConfig tunes the parse result cache.
type CacheConfig struct {
	TTL time.Duration `toml:"ttl"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Studio: StudioConfig{
			Engine:       string(snippets.DefaultEngine),
			Language:     lang.DefaultLanguage,
			HistoryLimit: DefaultHistoryLimit,
		},
		Storage: StorageConfig{
			Backend: DefaultStorageBackend,
			Key:     persist.DefaultKey,
		},
		Reparse: ReparseConfig{Debounce: DefaultDebounce},
		Cache:   CacheConfig{TTL: DefaultCacheTTL},
	}
}

// DefaultConfigPath returns ~/.config/modstudio/config.toml or its platform equivalent.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName), nil
}

// loadFromFile decodes filePath over cfg. A missing file leaves cfg untouched.
func loadFromFile(cfg *Config, filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.DebugTagf("config", "Config file not found: %s", filePath)
			return nil
		}
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.WarnTagf("config", "Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.DebugTagf("config", "Loaded configuration from: %s", filePath)
	return nil
}

// validate resets invalid values to their defaults and fills derived paths.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Logger.LogFilePath == "" {
		c.Logger.LogFilePath = defaultLogPath()
	}
	if _, known := logger.ParseLevel(c.Logger.LogLevel); !known {
		logger.WarnTagf("config", "Unknown log level %q, using %s", c.Logger.LogLevel, defaults.Logger.LogLevel)
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	if e, err := snippets.ParseEngine(c.Studio.Engine); err != nil {
		logger.WarnTagf("config", "%v, using %s", err, defaults.Studio.Engine)
		c.Studio.Engine = defaults.Studio.Engine
	} else {
		c.Studio.Engine = string(e)
	}
	lang.RegisterBuiltins()
	if l := lang.Get(c.Studio.Language); l == nil {
		logger.WarnTagf("config", "Unknown language %q, using %s", c.Studio.Language, defaults.Studio.Language)
		c.Studio.Language = defaults.Studio.Language
	} else {
		c.Studio.Language = l.Name
	}
	if c.Studio.HistoryLimit <= 0 {
		c.Studio.HistoryLimit = defaults.Studio.HistoryLimit
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case persist.BackendMemory, persist.BackendFile, persist.BackendSQLite, persist.BackendNone:
	default:
		logger.WarnTagf("config", "Unknown storage backend %q, using %s", c.Storage.Backend, defaults.Storage.Backend)
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaults.Storage.Key
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaultStoragePath(c.Storage.Backend)
	}
	if c.Storage.Path == "" && (c.Storage.Backend == persist.BackendFile || c.Storage.Backend == persist.BackendSQLite) {
		logger.WarnTagf("config", "No location for %s storage, falling back to memory", c.Storage.Backend)
		c.Storage.Backend = persist.BackendMemory
	}

	if c.Reparse.Debounce < 0 {
		c.Reparse.Debounce = defaults.Reparse.Debounce
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = defaults.Cache.TTL
	}
}

// defaultLogPath keeps logs out of the terminal; "-" selects stderr explicitly.
func defaultLogPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultLogFileName)
}

func defaultStoragePath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	switch backend {
	case persist.BackendFile:
		return filepath.Join(dir, AppName, DefaultSnippetsDirName)
	case persist.BackendSQLite:
		return filepath.Join(dir, AppName, DefaultDatabaseFileName)
	}
	return ""
}

// Load builds the effective configuration: defaults, then the TOML file at
// configFilePath (or the default location when empty), then explicitly set
// flags, then validation. A broken config file is reported but the returned
// Config is still usable.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		if p, err := DefaultConfigPath(); err == nil {
			effectivePath = p
		}
	}

	var loadErr error
	if effectivePath != "" {
		fileCfg := NewDefaultConfig()
		if err := loadFromFile(fileCfg, effectivePath); err != nil {
			loadErr = err
		} else {
			cfg = fileCfg
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	cfg.validate()
	return cfg, loadErr
}

// StorageOptions converts the storage section for persist.New.
func (c *Config) StorageOptions() persist.Config {
	return persist.Config{Backend: c.Storage.Backend, Path: c.Storage.Path}
}
