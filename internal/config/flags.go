package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bethropolis/modstudio/internal/logger"
)

// Flags holds values parsed from command-line flags. Only flags the user
// actually set override the configuration.
type Flags struct {
	fs *pflag.FlagSet

	ConfigFilePath string
	LogLevel       string
	LogFilePath    string
	StorageBackend string
	StoragePath    string
	StorageKey     string
	Language       string
	Engine         string
	EnableTags     string
	DisableTags    string
	EnablePkgs     string
	DisablePkgs    string
	DebugLog       bool
}

// DefineFlags registers the flags on fs.
func (f *Flags) DefineFlags(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVar(&f.ConfigFilePath, "config", "", fmt.Sprintf("path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	fs.StringVar(&f.LogLevel, "loglevel", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFilePath, "logfile", "", "path to write log file (use '-' for stderr)")
	fs.StringVar(&f.StorageBackend, "storage", "", "storage backend (memory, file, sqlite, none)")
	fs.StringVar(&f.StoragePath, "storage-path", "", "directory (file) or database (sqlite) for persisted snippets")
	fs.StringVar(&f.StorageKey, "storage-key", "", "key the editor collection is stored under")
	fs.StringVar(&f.Language, "language", "", "snippet language (tsx, typescript, javascript, go, python, rust)")
	fs.StringVar(&f.Engine, "engine", "", "default codemod engine for a fresh collection")
	fs.StringVar(&f.EnableTags, "log-tags", "", "comma-separated list of log tags to enable")
	fs.StringVar(&f.DisableTags, "log-disable-tags", "", "comma-separated list of log tags to disable")
	fs.StringVar(&f.EnablePkgs, "log-packages", "", "comma-separated list of packages to enable")
	fs.StringVar(&f.DisablePkgs, "log-disable-packages", "", "comma-separated list of packages to disable")
	fs.BoolVar(&f.DebugLog, "debug-log", false, "print log filtering decisions to stderr")
}

// Changed reports whether the named flag was set on the command line.
func (f *Flags) Changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// ApplyOverrides updates cfg with values from flags that were set. The flag
// set may be a parent's persistent set that cobra merged into a subcommand
// before parsing: its own Visit then sees nothing, but the shared *pflag.Flag
// values still record Changed.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil {
		return
	}
	f.fs.VisitAll(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		logger.DebugTagf("config", "Applying flag override: %s=%s", fl.Name, fl.Value)
		switch fl.Name {
		case "loglevel":
			cfg.Logger.LogLevel = f.LogLevel
		case "logfile":
			cfg.Logger.LogFilePath = f.LogFilePath
		case "storage":
			cfg.Storage.Backend = f.StorageBackend
		case "storage-path":
			cfg.Storage.Path = f.StoragePath
		case "storage-key":
			cfg.Storage.Key = f.StorageKey
		case "language":
			cfg.Studio.Language = f.Language
		case "engine":
			cfg.Studio.Engine = f.Engine
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(f.DisablePkgs)
		case "debug-log":
			logger.SetFilterDebug(f.DebugLog)
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
