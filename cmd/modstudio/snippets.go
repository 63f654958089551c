package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bethropolis/modstudio/internal/snippets"
)

func newSnippetsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "Print every pair's snippets",
		Args:  cobra.NoArgs,
		RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format != formatText {
				return encode(out, format, store.AllSnippets())
			}

			st := a.styles(out)
			for i, p := range store.Snapshot().Pairs {
				fmt.Fprintln(out, st.heading.Sprintf("== %d: %s ==", i, p.Name))
				for _, t := range snippets.EditorTypes {
					fmt.Fprintln(out, st.label.Sprintf("-- %s --", t))
					if content := p.Snippet(t).Content; content != "" {
						fmt.Fprintln(out, content)
					}
				}
			}
			return nil
		}),
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats [pair]",
		Short: "Count lines, words, bytes and nodes of a pair's snippets",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			index := store.Snapshot().SelectedPairIndex
			if len(args) == 1 {
				if index, err = pairArg(store, args[0]); err != nil {
					return err
				}
			}
			p, _ := store.Pair(index)

			stats := make(map[string]snippets.SnippetStats, len(snippets.EditorTypes))
			for _, t := range snippets.EditorTypes {
				stats[string(t)] = snippets.Stats(p.Snippet(t))
			}
			out := cmd.OutOrStdout()
			if format != formatText {
				return encode(out, format, stats)
			}

			st := a.styles(out)
			fmt.Fprintln(out, st.heading.Sprintf("%d: %s", index, p.Name))
			for _, t := range snippets.EditorTypes {
				s := stats[string(t)]
				fmt.Fprintf(out, "  %-6s lines=%d words=%d bytes=%d nodes=%d depth=%d tokens=%d parsed=%t\n",
					t, s.Lines, s.Words, s.Bytes, s.Nodes, s.Depth, s.Tokens, s.Parsed)
			}
			return nil
		}),
	}
	addFormatFlag(cmd, &format)
	return cmd
}
