package snippets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	s := newTestStore(t)
	s.SetContent(0, Before)("const x = 1;\nfoo(x);\n")
	st := Stats(s.Snapshot().Pairs[0].Before)

	assert.Equal(t, 2, st.Lines, "trailing newline ends the last line")
	assert.Equal(t, 5, st.Words)
	assert.Equal(t, 21, st.Bytes)
	assert.True(t, st.Parsed)
	assert.Greater(t, st.Nodes, 3)
	assert.GreaterOrEqual(t, st.Depth, 3)
	assert.Positive(t, st.Tokens)
}

func TestStatsUnparsed(t *testing.T) {
	st := Stats(SnippetValues{Content: "let ("})
	assert.Equal(t, SnippetStats{Lines: 1, Words: 2, Bytes: 5}, st)
}

func TestStatsEmpty(t *testing.T) {
	assert.Equal(t, SnippetStats{}, Stats(SnippetValues{}))
}

func TestStatsLines(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\n\n", 2},
		{"\n", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stats(SnippetValues{Content: tt.content}).Lines, "%q", tt.content)
	}
}
