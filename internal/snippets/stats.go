package snippets

import (
	"strings"

	"github.com/bethropolis/modstudio/internal/tree"
)

// SnippetStats summarises one snippet.
type SnippetStats struct {
	Lines  int  `json:"lines" yaml:"lines"`
	Words  int  `json:"words" yaml:"words"`
	Bytes  int  `json:"bytes" yaml:"bytes"`
	Nodes  int  `json:"nodes" yaml:"nodes"`
	Depth  int  `json:"depth" yaml:"depth"`
	Tokens int  `json:"tokens" yaml:"tokens"`
	Parsed bool `json:"parsed" yaml:"parsed"`
}

// Stats counts lines, whitespace-separated words, bytes and tree size. A
// trailing newline ends the last line rather than opening a new one.
func Stats(v SnippetValues) SnippetStats {
	st := SnippetStats{
		Bytes:  len(v.Content),
		Words:  len(strings.Fields(v.Content)),
		Nodes:  tree.Count(v.Root),
		Depth:  tree.Depth(v.Root),
		Tokens: len(v.Tokens),
		Parsed: v.Root != nil,
	}
	if v.Content != "" {
		st.Lines = strings.Count(v.Content, "\n")
		if !strings.HasSuffix(v.Content, "\n") {
			st.Lines++
		}
	}
	return st
}
