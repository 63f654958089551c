package tree

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/require"
)

type testSource struct {
	tree    *sitter.Tree
	text    []byte
	program bool
}

func (s *testSource) RootNode() *sitter.Node { return s.tree.RootNode() }
func (s *testSource) Text() []byte           { return s.text }
func (s *testSource) IsProgram() bool        { return s.program }

func parseJS(t testing.TB, text string) *testSource {
	t.Helper()
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(javascript.GetLanguage())

	tr, err := p.ParseCtx(context.Background(), nil, []byte(text))
	require.NoError(t, err)
	t.Cleanup(tr.Close)

	return &testSource{
		tree:    tr,
		text:    []byte(text),
		program: tr.RootNode().Type() == "program",
	}
}

// projectOnce parses, projects and releases the tree without a test handle.
func projectOnce(text string) *Node {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(javascript.GetLanguage())

	tr, err := p.ParseCtx(context.Background(), nil, []byte(text))
	if err != nil {
		return nil
	}
	defer tr.Close()
	return Project(&testSource{tree: tr, text: []byte(text), program: tr.RootNode().Type() == "program"})
}

func projectJS(t testing.TB, text string) *Node {
	t.Helper()
	root := Project(parseJS(t, text))
	require.NotNil(t, root)
	return root
}
