package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/bethropolis/modstudio/internal/config"
	"github.com/bethropolis/modstudio/internal/event"
	"github.com/bethropolis/modstudio/internal/lang"
	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/parser"
	"github.com/bethropolis/modstudio/internal/persist"
	"github.com/bethropolis/modstudio/internal/snippets"
)

// app carries what the subcommands share: configuration, the lazily opened
// store and everything that must be released on exit.
type app struct {
	flags    config.Flags
	noColor  bool
	copyText func(string) error

	cfg     *config.Config
	store   *snippets.Store
	closers []func() error
}

func newApp() *app {
	return &app{copyText: clipboard.WriteAll}
}

func newRootCmd() *cobra.Command {
	return newApp().command()
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Inspect and edit codemod before/after snippets",
		Long: `modstudio keeps a collection of before/after/output snippet pairs for codemod
development, parses them with tree-sitter and resolves selections against their trees.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	a.flags.DefineFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newTreeCmd(a),
		newTokensCmd(a),
		newPairsCmd(a),
		newSetCmd(a),
		newSelectCmd(a),
		newSnippetsCmd(a),
		newStatsCmd(a),
		newEngineCmd(a),
		newLanguagesCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.flags.ConfigFilePath, &a.flags)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}
	a.cfg = cfg

	out, closeLog, err := logger.OpenOutput(cfg.Logger.LogFilePath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v, logging disabled\n", err)
		out = io.Discard
	}
	a.closers = append(a.closers, closeLog)
	logger.Init(cfg.Logger, out)
	logger.DebugTagf("cli", "Running %q with storage=%s language=%s", cmd.CommandPath(), cfg.Storage.Backend, cfg.Studio.Language)
	return nil
}

type runFunc func(cmd *cobra.Command, args []string) error

// wrap runs fn and always releases the store, storage and log output,
// including when fn fails.
func (a *app) wrap(fn runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() { err = errors.Join(err, a.teardown()) }()
		return fn(cmd, args)
	}
}

func (a *app) teardown() error {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	var errs []error
	// Release in reverse order of acquisition.
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// language resolves the grammar for a stateless command: explicit flag,
// then file extension, then the configured default.
func (a *app) language(path string) *lang.Language {
	lang.RegisterBuiltins()
	if a.flags.Changed("language") {
		if l := lang.Get(a.cfg.Studio.Language); l != nil {
			return l
		}
	}
	if path != "" && path != "-" {
		if l := lang.GetForFile(path); l != nil {
			return l
		}
	}
	if l := lang.Get(a.cfg.Studio.Language); l != nil {
		return l
	}
	return lang.Default()
}

func (a *app) newParser(l *lang.Language) *parser.Parser {
	return parser.New(l, parser.WithCache(parser.NewCache(a.cfg.Cache.TTL, 0)))
}

// openStore opens storage and restores the collection on first use.
func (a *app) openStore() (*snippets.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	storage, closeStorage, err := persist.New(a.cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	a.closers = append(a.closers, closeStorage)

	events := event.NewManager()
	events.Subscribe(event.TypePersistFailed, func(e event.Event) bool {
		if data, ok := e.Data.(event.PersistFailedData); ok {
			logger.ErrorTagf("cli", "Changes were not saved under %q: %v", data.Key, data.Err)
		}
		return false
	})

	if a.cfg.Storage.Async {
		w := persist.NewWriter(storage, func(key string, err error) {
			events.Dispatch(event.TypePersistFailed, event.PersistFailedData{Key: key, Err: err})
		})
		a.closers = append(a.closers, w.Close)
		storage = w
	}

	base := lang.Get(a.cfg.Studio.Language)
	a.store = snippets.NewStore(
		snippets.WithStorage(storage),
		snippets.WithStorageKey(a.cfg.Storage.Key),
		snippets.WithParser(a.newParser(base)),
		snippets.WithEvents(events),
		snippets.WithEngine(snippets.Engine(a.cfg.Studio.Engine)),
		snippets.WithHistoryLimit(a.cfg.Studio.HistoryLimit),
		snippets.WithDebounce(a.cfg.Reparse.Debounce),
	)
	if a.flags.Changed("language") {
		if err := a.store.SetLanguage(a.cfg.Studio.Language); err != nil {
			return nil, err
		}
	}
	return a.store, nil
}
