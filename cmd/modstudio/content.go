package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/parser"
	"github.com/bethropolis/modstudio/internal/tree"
)

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <pair> <before|after|output> [file]",
		Short: "Replace a snippet with the contents of a file or stdin",
		Args:  cobra.RangeArgs(2, 3),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			index, slot, err := slotArgs(store, args)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, argAt(args, 2))
			if err != nil {
				return err
			}

			store.SetContent(index, slot)(text)

			p, _ := store.Pair(index)
			v := p.Snippet(slot)
			state := fmt.Sprintf("%d nodes", tree.Count(v.Root))
			if v.Root == nil {
				state = "does not parse as " + store.Snapshot().Language
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: %d bytes, %s\n", p.Name, slot, len(v.Content), state)
			return nil
		}),
	}
}

func newSelectCmd(a *app) *cobra.Command {
	var (
		format string
		copyIt bool
	)
	cmd := &cobra.Command{
		Use:   "select <pair> <before|after|output> <node|range|parent|enclosing|clear> [args...]",
		Short: "Resolve a selection against a snippet's tree",
		Long: `Resolve a selection command against the tree of a stored snippet and print the
resulting ranges:

  select 0 before node 0.1          the node with id 0.1
  select 0 before parent 0.1.0      the parent of node 0.1.0
  select 0 before range 6 11        the byte span [6,11), or the outermost node with that span
  select 0 before enclosing 7 8     the innermost node containing [7,8)
  select 0 before clear             nothing`,
		Args: cobra.MinimumNArgs(3),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			index, slot, err := slotArgs(store, args)
			if err != nil {
				return err
			}
			command, err := tree.ParseCommand(args[2], args[3:]...)
			if err != nil {
				return err
			}

			p, _ := store.Pair(index)
			if p.Snippet(slot).Root == nil {
				return fmt.Errorf("%s/%s has no syntax tree: %w", p.Name, slot, parser.ErrParseFailure)
			}
			store.SetSelection(index, slot)(command)

			p, _ = store.Pair(index)
			views := viewRanges(p.Snippet(slot))
			if copyIt {
				if err := a.copyFirst(views); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return encode(out, format, views)
			}
			printRanges(out, a.styles(out), views)
			return nil
		}),
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVarP(&copyIt, "copy", "c", false, "copy the first selected range's text to the clipboard")
	return cmd
}

func (a *app) copyFirst(views []rangeView) error {
	if len(views) == 0 {
		return errors.New("nothing selected to copy")
	}
	if err := a.copyText(views[0].Text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	logger.DebugTagf("cli", "Copied %d bytes to the clipboard", len(views[0].Text))
	return nil
}
