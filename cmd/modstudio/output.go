package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/modstudio/internal/snippets"
	"github.com/bethropolis/modstudio/internal/tree"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// styles holds the color formatters for tree and range output.
type styles struct {
	nodeType *color.Color
	label    *color.Color
	id       *color.Color
	span     *color.Color
	text     *color.Color
	heading  *color.Color
	marker   *color.Color
}

// newStyles creates color formatters. enabled=false honours --no-color,
// NO_COLOR and non-terminal output.
func newStyles(enabled bool) *styles {
	s := &styles{
		nodeType: color.New(color.Bold, color.FgHiBlue),
		label:    color.New(color.FgMagenta),
		id:       color.New(color.FgHiBlack),
		span:     color.New(color.FgCyan),
		text:     color.New(color.FgYellow),
		heading:  color.New(color.Bold),
		marker:   color.New(color.FgHiGreen),
	}
	if !enabled {
		for _, c := range []*color.Color{s.nodeType, s.label, s.id, s.span, s.text, s.heading, s.marker} {
			c.DisableColor()
		}
	}
	return s
}

func (a *app) styles(w io.Writer) *styles {
	_, isFile := w.(*os.File)
	return newStyles(isFile && !a.noColor && !color.NoColor)
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", formatText, "output format: text, json, yaml")
}

// excerpt quotes a short single-line preview of text.
func excerpt(text string, limit int) string {
	if len([]rune(text)) > limit {
		text = string([]rune(text)[:limit]) + "…"
	}
	return strconv.Quote(text)
}

// printTree writes one line per node, indented by depth. Leaves show their text.
func printTree(w io.Writer, st *styles, root *tree.Node, content string) {
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", depth))
		if n.Label != "" {
			b.WriteString(st.label.Sprint(n.Label + ": "))
		}
		b.WriteString(st.nodeType.Sprint(n.Type))
		b.WriteString(" " + st.span.Sprintf("[%d,%d)", n.Start, n.End))
		b.WriteString(" " + st.id.Sprint("#"+n.ID))
		if len(n.Children) == 0 && n.End > n.Start && n.End <= len(content) {
			b.WriteString(" " + st.text.Sprint(excerpt(content[n.Start:n.End], 40)))
		}
		fmt.Fprintln(w, b.String())
		return true
	})
}

// rangeView is the encoded form of one selected range.
type rangeView struct {
	Kind  string `json:"kind" yaml:"kind"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

func viewRanges(v snippets.SnippetValues) []rangeView {
	views := make([]rangeView, 0, len(v.Ranges))
	for _, r := range v.Ranges {
		start, end := r.Span()
		view := rangeView{Kind: "range", Start: start, End: end}
		if start >= 0 && end <= len(v.Content) && start <= end {
			view.Text = v.Content[start:end]
		}
		if n, ok := tree.AsNode(r); ok {
			view.Kind, view.ID, view.Type = "node", n.ID, n.Type
		}
		views = append(views, view)
	}
	return views
}

func printRanges(w io.Writer, st *styles, views []rangeView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "no ranges selected")
		return
	}
	for _, r := range views {
		head := st.span.Sprintf("[%d,%d)", r.Start, r.End)
		if r.Kind == "node" {
			head = st.nodeType.Sprint(r.Type) + " " + head + " " + st.id.Sprint("#"+r.ID)
		} else {
			head = "range " + head
		}
		fmt.Fprintf(w, "%s %s\n", head, st.text.Sprint(excerpt(r.Text, 60)))
	}
}
