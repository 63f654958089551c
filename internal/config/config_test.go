package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	f := &Flags{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.DefineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, "jscodeshift", cfg.Studio.Engine)
	assert.Equal(t, "tsx", cfg.Studio.Language)
	assert.Equal(t, DefaultHistoryLimit, cfg.Studio.HistoryLimit)
	assert.Equal(t, "editors", cfg.Storage.Key)
	assert.Equal(t, DefaultDebounce, cfg.Reparse.Debounce)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[logger]
log_level = "debug"
disabled_tags = ["event"]

[studio]
engine = "ts-morph"
language = "py"
history_limit = 5

[storage]
backend = "sqlite"
path = "`+filepath.ToSlash(filepath.Join(dir, "s.db"))+`"
key = "mine"
async = true

[reparse]
debounce = "10ms"

[cache]
ttl = "1m"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"event"}, cfg.Logger.DisabledTags)
	assert.Equal(t, "ts-morph", cfg.Studio.Engine)
	assert.Equal(t, "python", cfg.Studio.Language, "aliases resolve to the canonical name")
	assert.Equal(t, 5, cfg.Studio.HistoryLimit)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "mine", cfg.Storage.Key)
	assert.True(t, cfg.Storage.Async)
	assert.Equal(t, 10*time.Millisecond, cfg.Reparse.Debounce)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "chatty"

[studio]
engine = "sed"
language = "cobol"
history_limit = -3

[storage]
backend = "floppy"
path = "/tmp/x"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, "jscodeshift", cfg.Studio.Engine)
	assert.Equal(t, "tsx", cfg.Studio.Language)
	assert.Equal(t, DefaultHistoryLimit, cfg.Studio.HistoryLimit)
	assert.Equal(t, DefaultStorageBackend, cfg.Storage.Backend)
}

func TestLoadBrokenFileStillReturnsConfig(t *testing.T) {
	path := writeConfig(t, "[studio\nengine = ")

	cfg, err := Load(path, nil)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "jscodeshift", cfg.Studio.Engine)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "warn"

[studio]
language = "go"

[storage]
backend = "file"
path = "/tmp/from-file"
`)
	flags := parseFlags(t,
		"--loglevel", "debug",
		"--storage", "memory",
		"--log-tags", "store, parser,",
	)

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, []string{"store", "parser"}, cfg.Logger.EnabledTags)
	assert.Equal(t, "go", cfg.Studio.Language, "unset flags leave file values alone")
	assert.Equal(t, "/tmp/from-file", cfg.Storage.Path)
	assert.True(t, flags.Changed("storage"))
	assert.False(t, flags.Changed("language"))
}

func TestStorageOptions(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = "x.db"

	opts := cfg.StorageOptions()
	assert.Equal(t, "sqlite", opts.Backend)
	assert.Equal(t, "x.db", opts.Path)
}

func TestSplitCommaList(t *testing.T) {
	assert.Nil(t, splitCommaList(""))
	assert.Equal(t, []string{"a", "b"}, splitCommaList(" a ,, b "))
}

func TestFlagsOverrideThroughSubcommand(t *testing.T) {
	dir := t.TempDir()
	var (
		f   Flags
		cfg *Config
	)
	root := &cobra.Command{Use: AppName}
	f.DefineFlags(root.PersistentFlags())
	root.AddCommand(&cobra.Command{
		Use: "sub",
		RunE: func(*cobra.Command, []string) error {
			var err error
			cfg, err = Load(f.ConfigFilePath, &f)
			return err
		},
	})
	root.SetArgs([]string{"sub",
		"--config", writeConfig(t, "[studio]\nengine = \"babel\"\n"),
		"--storage", "sqlite",
		"--storage-path", filepath.Join(dir, "studio.db"),
		"--language", "go",
		"--loglevel", "debug",
		"--logfile", filepath.Join(dir, "modstudio.log"),
		"--log-tags", "store, cli",
	})
	require.NoError(t, root.Execute())
	require.NotNil(t, cfg)

	assert.True(t, f.Changed("language"))
	assert.False(t, f.Changed("engine"))
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "studio.db"), cfg.Storage.Path)
	assert.Equal(t, "go", cfg.Studio.Language)
	assert.Equal(t, "babel", cfg.Studio.Engine, "unset flags leave the file value")
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, filepath.Join(dir, "modstudio.log"), cfg.Logger.LogFilePath)
	assert.Equal(t, []string{"store", "cli"}, cfg.Logger.EnabledTags)
}
