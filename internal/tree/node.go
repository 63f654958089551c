// Package tree projects tree-sitter syntax trees into renderable nodes and
// resolves selection commands against them.
package tree

import (
	"strconv"
	"strings"

	"github.com/bethropolis/modstudio/internal/types"
)

// RootID is the identity of every projected root.
const RootID = "0"

// Node is one syntax node projected for display. Nodes are never mutated
// after projection, so they can be shared freely between snapshots.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	Start    int            `json:"start" yaml:"start"`
	End      int            `json:"end" yaml:"end"`
	StartPos types.Position `json:"startPos" yaml:"startPos"`
	EndPos   types.Position `json:"endPos" yaml:"endPos"`
	Children []*Node        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Span returns the node's half-open byte span.
func (n *Node) Span() (int, int) {
	return n.Start, n.End
}

// OffsetRange returns the node's span as a raw range.
func (n *Node) OffsetRange() types.OffsetRange {
	return types.OffsetRange{Start: n.Start, End: n.End}
}

// Range is either a *Node or a types.OffsetRange.
type Range interface {
	Span() (int, int)
}

// AsNode unwraps a node range.
func AsNode(r Range) (*Node, bool) {
	n, ok := r.(*Node)
	return n, ok && n != nil
}

// FirstNode returns the first node among ranges, if any.
func FirstNode(ranges []Range) *Node {
	if len(ranges) == 0 {
		return nil
	}
	n, _ := AsNode(ranges[0])
	return n
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node, int) bool { count++; return true })
	return count
}

// Depth returns the number of levels in the tree rooted at n.
func Depth(n *Node) int {
	deepest := 0
	Walk(n, func(_ *Node, d int) bool {
		deepest = max(deepest, d+1)
		return true
	})
	return deepest
}

// childID derives a child's id from its parent's id and its index.
func childID(parentID string, index int) string {
	return parentID + "." + strconv.Itoa(index)
}

// path resolves id to the chain of nodes from root to the target.
// Ids encode named-child indices, so the search descends one level per segment.
func path(root *Node, id string) []*Node {
	if root == nil || id == "" {
		return nil
	}
	segments := strings.Split(id, ".")
	if segments[0] != root.ID {
		return nil
	}
	chain := []*Node{root}
	current := root
	for _, seg := range segments[1:] {
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(current.Children) {
			return nil
		}
		current = current.Children[idx]
		chain = append(chain, current)
	}
	if current.ID != id {
		return nil
	}
	return chain
}

// Find locates the node with the given id.
func Find(root *Node, id string) *Node {
	chain := path(root, id)
	if len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}

// Parent returns the structural parent of the node with the given id.
// The root and unknown ids have no parent.
func Parent(root *Node, id string) *Node {
	chain := path(root, id)
	if len(chain) < 2 {
		return nil
	}
	return chain[len(chain)-2]
}
