package tree

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/modstudio/internal/textutil"
	"github.com/bethropolis/modstudio/internal/types"
)

// Source is a parsed syntax tree together with the text it was parsed from.
type Source interface {
	RootNode() *sitter.Node
	Text() []byte
	// IsProgram reports whether the root is a full program unit for its grammar.
	IsProgram() bool
}

type mapper struct {
	lines *textutil.LineIndex
}

// Project converts a syntax tree into renderable nodes. It returns nil when
// the tree is not a full program.
//
// Only named tree-sitter nodes are projected. Anonymous tokens (keywords,
// punctuation, operators) are elided, and any named nodes below an anonymous
// one are attached to the nearest named ancestor. The root always spans the
// whole text.
func Project(src Source) *Node {
	if src == nil || !src.IsProgram() {
		return nil
	}
	root := src.RootNode()
	if root == nil {
		return nil
	}
	text := src.Text()
	m := mapper{lines: textutil.NewLineIndex(string(text))}

	out := &Node{
		ID:       RootID,
		Type:     root.Type(),
		Start:    0,
		End:      len(text),
		StartPos: m.lines.Position(0),
		EndPos:   m.lines.Position(len(text)),
	}

	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()
	m.collect(cursor, out)
	return out
}

// collect appends the named children below the cursor's current node to parent.
func (m *mapper) collect(c *sitter.TreeCursor, parent *Node) {
	if !c.GoToFirstChild() {
		return
	}
	for {
		n := c.CurrentNode()
		if n.IsNamed() {
			child := m.node(n, childID(parent.ID, len(parent.Children)), c.CurrentFieldName())
			parent.Children = append(parent.Children, child)
			m.collect(c, child)
		} else {
			m.collect(c, parent)
		}
		if !c.GoToNextSibling() {
			break
		}
	}
	c.GoToParent()
}

func (m *mapper) node(n *sitter.Node, id, field string) *Node {
	start, end := int(n.StartByte()), int(n.EndByte())
	return &Node{
		ID:       id,
		Type:     n.Type(),
		Label:    field,
		Start:    start,
		End:      end,
		StartPos: m.lines.Position(start),
		EndPos:   m.lines.Position(end),
	}
}

// Tokens lists the leaves of the syntax tree in source order. Zero-width
// leaves are skipped.
func Tokens(src Source) []types.Token {
	if src == nil || src.RootNode() == nil {
		return nil
	}
	text := src.Text()
	var tokens []types.Token

	cursor := sitter.NewTreeCursor(src.RootNode())
	defer cursor.Close()

	for {
		n := cursor.CurrentNode()
		if n.ChildCount() == 0 {
			start, end := int(n.StartByte()), int(n.EndByte())
			if start < end && end <= len(text) {
				tokens = append(tokens, types.Token{Start: start, End: end, Value: string(text[start:end])})
			}
		}
		if cursor.GoToFirstChild() {
			continue
		}
		for !cursor.GoToNextSibling() {
			if !cursor.GoToParent() {
				return tokens
			}
		}
	}
}
