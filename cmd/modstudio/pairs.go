package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bethropolis/modstudio/internal/snippets"
)

// pairView is the encoded summary of one pair.
type pairView struct {
	Index    int                 `json:"index" yaml:"index"`
	ID       string              `json:"id" yaml:"id"`
	Name     string              `json:"name" yaml:"name"`
	Selected bool                `json:"selected" yaml:"selected"`
	Slots    map[string]slotView `json:"slots" yaml:"slots"`
}

type slotView struct {
	Bytes  int  `json:"bytes" yaml:"bytes"`
	Parsed bool `json:"parsed" yaml:"parsed"`
}

func viewPairs(st snippets.State) []pairView {
	views := make([]pairView, len(st.Pairs))
	for i, p := range st.Pairs {
		slots := make(map[string]slotView, len(snippets.EditorTypes))
		for _, t := range snippets.EditorTypes {
			v := p.Snippet(t)
			slots[string(t)] = slotView{Bytes: len(v.Content), Parsed: v.Root != nil}
		}
		views[i] = pairView{Index: i, ID: p.ID, Name: p.Name, Selected: i == st.SelectedPairIndex, Slots: slots}
	}
	return views
}

func newPairsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List and manage editor pairs",
	}
	cmd.AddCommand(
		newPairsListCmd(a),
		&cobra.Command{
			Use:   "add",
			Short: "Append an empty pair",
			Args:  cobra.NoArgs,
			RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				index := store.AddPair()
				p, _ := store.Pair(index)
				fmt.Fprintf(cmd.OutOrStdout(), "added pair %d (%s)\n", index, p.Name)
				return nil
			}),
		},
		&cobra.Command{
			Use:     "rm <index>",
			Aliases: []string{"remove"},
			Short:   "Remove a pair (the last remaining pair is kept)",
			Args:    cobra.ExactArgs(1),
			RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				index, err := pairArg(store, args[0])
				if err != nil {
					return err
				}
				if err := store.RemovePair(index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed pair %d, %d left\n", index, store.Len())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rename <index> <name>",
			Short: "Rename a pair",
			Args:  cobra.MinimumNArgs(2),
			RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				index, err := pairArg(store, args[0])
				if err != nil {
					return err
				}
				name := strings.Join(args[1:], " ")
				store.RenameEditor(index)(name)
				fmt.Fprintf(cmd.OutOrStdout(), "renamed pair %d to %q\n", index, name)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Replace every pair with a single empty one",
			Args:  cobra.NoArgs,
			RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				store.ClearAll()
				fmt.Fprintln(cmd.OutOrStdout(), "cleared all pairs")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "select <index>",
			Short: "Select a pair",
			Args:  cobra.ExactArgs(1),
			RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				index, err := pairArg(store, args[0])
				if err != nil {
					return err
				}
				if err := store.SetSelectedPairIndex(index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "selected pair %d\n", index)
				return nil
			}),
		},
	)
	return cmd
}

func newPairsListCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pairs",
		Args:    cobra.NoArgs,
		RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			views := viewPairs(store.Snapshot())
			out := cmd.OutOrStdout()
			if format != formatText {
				return encode(out, format, views)
			}

			st := a.styles(out)
			for _, v := range views {
				marker := " "
				if v.Selected {
					marker = st.marker.Sprint("*")
				}
				var slots []string
				for _, t := range snippets.EditorTypes {
					s := v.Slots[string(t)]
					state := "ok"
					if !s.Parsed {
						state = "invalid"
					}
					slots = append(slots, fmt.Sprintf("%s=%dB/%s", t, s.Bytes, state))
				}
				fmt.Fprintf(out, "%s %d  %s  %s  %s\n", marker, v.Index, st.heading.Sprint(v.Name),
					st.id.Sprint(shortID(v.ID)), strings.Join(slots, " "))
			}
			return nil
		}),
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
