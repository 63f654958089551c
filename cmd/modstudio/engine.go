package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bethropolis/modstudio/internal/lang"
	"github.com/bethropolis/modstudio/internal/snippets"
)

func newEngineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "engine [name]",
		Short: "Show or set the codemod engine",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				e, err := snippets.ParseEngine(args[0])
				if err != nil {
					return err
				}
				if err := store.SetEngine(e); err != nil {
					return err
				}
				fmt.Fprintf(out, "engine set to %s\n", e)
				return nil
			}

			st := a.styles(out)
			current := store.Snapshot().Engine
			for _, e := range snippets.Engines {
				marker := " "
				if e == current {
					marker = st.marker.Sprint("*")
				}
				fmt.Fprintf(out, "%s %s\n", marker, e)
			}
			return nil
		}),
	}
}

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the snippet languages",
		Args:  cobra.NoArgs,
		RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
			lang.RegisterBuiltins()
			out := cmd.OutOrStdout()
			st := a.styles(out)
			for _, l := range lang.GetAll() {
				marker := " "
				if l.Name == a.cfg.Studio.Language {
					marker = st.marker.Sprint("*")
				}
				fmt.Fprintf(out, "%s %-11s aliases=%s extensions=%s\n", marker, st.heading.Sprint(l.Name),
					strings.Join(l.Aliases, ","), strings.Join(l.Extensions, ","))
			}
			return nil
		}),
	}
}
