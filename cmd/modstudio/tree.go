package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bethropolis/modstudio/internal/parser"
)

func newTreeCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the syntax tree of a snippet",
		Long: `Parse a file (or stdin) and print its projected syntax tree. Only named nodes
are shown; each line carries the node's field label, type, byte span and id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			path := argAt(args, 0)
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			l := a.language(path)
			res, err := a.newParser(l).Snippet(cmd.Context(), text)
			if err != nil {
				return err
			}
			if res.Root == nil {
				return fmt.Errorf("snippet is not a valid %s program: %w", l.Name, parser.ErrParseFailure)
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return encode(out, format, res.Root)
			}
			printTree(out, a.styles(out), res.Root, text)
			return nil
		}),
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newTokensCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the lexical tokens of a snippet",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			path := argAt(args, 0)
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			l := a.language(path)
			res, err := a.newParser(l).Snippet(cmd.Context(), text)
			if err != nil {
				return err
			}
			if res.Root == nil {
				return fmt.Errorf("snippet is not a valid %s program: %w", l.Name, parser.ErrParseFailure)
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return encode(out, format, res.Tokens)
			}
			st := a.styles(out)
			for _, tok := range res.Tokens {
				fmt.Fprintf(out, "%s\t%s\n", st.span.Sprintf("[%d,%d)", tok.Start, tok.End), st.text.Sprint(excerpt(tok.Value, 60)))
			}
			return nil
		}),
	}
	addFormatFlag(cmd, &format)
	return cmd
}
