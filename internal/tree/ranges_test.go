package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bethropolis/modstudio/internal/types"
)

func TestBuildRangesSelectNode(t *testing.T) {
	root := projectJS(t, "const x = 1;")

	got := BuildRanges(root, SelectNode{ID: "0.0.0.0"})
	require.Len(t, got, 1)
	n, ok := AsNode(got[0])
	require.True(t, ok)
	assert.Equal(t, "identifier", n.Type)

	assert.Empty(t, BuildRanges(root, SelectNode{ID: "0.0.9"}), "stale id")
	assert.Empty(t, BuildRanges(root, SelectNode{ID: "garbage"}))
	assert.Empty(t, BuildRanges(root, SelectNode{ID: ""}))
}

func TestBuildRangesSelectNodeIdempotent(t *testing.T) {
	root := projectJS(t, "foo(bar, 2);\nlet y = foo;")
	rapid.Check(t, func(rt *rapid.T) {
		var ids []string
		Walk(root, func(n *Node, _ int) bool { ids = append(ids, n.ID); return true })
		id := rapid.SampledFrom(ids).Draw(rt, "id")

		first := BuildRanges(root, SelectNode{ID: id})
		second := BuildRanges(root, SelectNode{ID: id})
		if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
			rt.Fatalf("select-node %s is not idempotent: %v vs %v", id, first, second)
		}
	})
}

func TestBuildRangesSelectOffsetRange(t *testing.T) {
	root := projectJS(t, "const x = 1;")

	tests := []struct {
		name     string
		start    int
		end      int
		wantNode string
		wantSpan *types.OffsetRange
	}{
		{name: "exact identifier", start: 6, end: 7, wantNode: "identifier"},
		{name: "exact declarator", start: 6, end: 11, wantNode: "variable_declarator"},
		{name: "shared span prefers outermost", start: 0, end: 12, wantNode: "program"},
		{name: "raw span", start: 6, end: 9, wantSpan: &types.OffsetRange{Start: 6, End: 9}},
		{name: "clamped to text", start: 8, end: 40, wantSpan: &types.OffsetRange{Start: 8, End: 12}},
		{name: "reversed", start: 7, end: 6, wantNode: "identifier"},
		{name: "degenerate", start: 3, end: 3},
		{name: "outside", start: 50, end: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRanges(root, SelectOffsetRange{Start: tt.start, End: tt.end})
			switch {
			case tt.wantNode != "":
				require.Len(t, got, 1)
				n, ok := AsNode(got[0])
				require.True(t, ok)
				assert.Equal(t, tt.wantNode, n.Type)
			case tt.wantSpan != nil:
				require.Len(t, got, 1)
				assert.Equal(t, *tt.wantSpan, got[0])
			default:
				assert.Empty(t, got)
			}
		})
	}
}

func TestBuildRangesOnEmptyText(t *testing.T) {
	root := projectJS(t, "")
	assert.Empty(t, BuildRanges(root, SelectOffsetRange{Start: 0, End: 0}))
	assert.Empty(t, BuildRanges(root, SelectParent{ID: RootID}))
}

func TestBuildRangesSelectParent(t *testing.T) {
	root := projectJS(t, "const x = 1;")

	got := BuildRanges(root, SelectParent{ID: "0.0.0.1"})
	require.Len(t, got, 1)
	assert.Equal(t, "variable_declarator", FirstNode(got).Type)

	got = BuildRanges(root, SelectParent{ID: "0.0"})
	require.Len(t, got, 1)
	assert.Equal(t, RootID, FirstNode(got).ID)

	assert.Empty(t, BuildRanges(root, SelectParent{ID: RootID}))
	assert.Empty(t, BuildRanges(root, SelectParent{ID: "0.4"}))
}

func TestBuildRangesSelectEnclosing(t *testing.T) {
	root := projectJS(t, "const x = 1;")

	got := BuildRanges(root, SelectEnclosing{Start: 6, End: 6})
	require.Len(t, got, 1)
	assert.Equal(t, "identifier", FirstNode(got).Type)

	got = BuildRanges(root, SelectEnclosing{Start: 7, End: 10})
	require.Len(t, got, 1)
	assert.Equal(t, "variable_declarator", FirstNode(got).Type)

	got = BuildRanges(root, SelectEnclosing{Start: 0, End: 12})
	require.Len(t, got, 1)
	assert.Equal(t, RootID, FirstNode(got).ID)
}

func TestBuildRangesPassThrough(t *testing.T) {
	before := projectJS(t, "const x = 1;")
	after := projectJS(t, "const x = 1;\nfoo();")
	reshaped := projectJS(t, "let longer = 1;")

	ranges := []Range{
		Find(before, "0.0.0.0"),
		types.OffsetRange{Start: 2, End: 4},
		types.OffsetRange{Start: 5, End: 5},
	}

	got := BuildRanges(after, PassThrough{Ranges: ranges})
	require.Len(t, got, 2)
	assert.Same(t, Find(after, "0.0.0.0"), got[0])
	assert.Equal(t, types.OffsetRange{Start: 2, End: 4}, got[1])

	got = BuildRanges(reshaped, PassThrough{Ranges: ranges})
	require.Len(t, got, 1, "identifier moved, only the raw span survives")
}

func TestBuildRangesClearAndNil(t *testing.T) {
	root := projectJS(t, "a;")
	assert.Empty(t, BuildRanges(root, Clear{}))
	assert.Empty(t, BuildRanges(nil, SelectNode{ID: RootID}))
	assert.Empty(t, BuildRanges(root, nil))
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("node", "0.1")
	require.NoError(t, err)
	assert.Equal(t, SelectNode{ID: "0.1"}, cmd)

	cmd, err = ParseCommand("range", "3", "9")
	require.NoError(t, err)
	assert.Equal(t, SelectOffsetRange{Start: 3, End: 9}, cmd)

	cmd, err = ParseCommand("select-enclosing", "4", "4")
	require.NoError(t, err)
	assert.Equal(t, "select-enclosing", cmd.Kind())

	cmd, err = ParseCommand("clear")
	require.NoError(t, err)
	assert.Equal(t, Clear{}, cmd)

	_, err = ParseCommand("range", "3")
	assert.Error(t, err)
	_, err = ParseCommand("range", "a", "b")
	assert.Error(t, err)
	_, err = ParseCommand("range", "6abc", "11")
	assert.Error(t, err, "trailing garbage is rejected")
	_, err = ParseCommand("enclosing", "6", "11 ")
	assert.Error(t, err)
	_, err = ParseCommand("explode")
	assert.Error(t, err)
}
