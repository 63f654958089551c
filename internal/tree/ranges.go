package tree

import (
	"fmt"
	"strconv"

	"github.com/bethropolis/modstudio/internal/types"
)

// Command is a selection intent resolved by BuildRanges.
type Command interface {
	// Kind names the command for logs and wire formats.
	Kind() string
	command()
}

// SelectNode selects the node with the given id.
type SelectNode struct{ ID string }

// SelectOffsetRange selects a raw span, upgraded to a node when one matches exactly.
type SelectOffsetRange struct{ Start, End int }

// SelectParent selects the structural parent of the node with the given id.
type SelectParent struct{ ID string }

// SelectEnclosing selects the innermost node that contains the span.
type SelectEnclosing struct{ Start, End int }

// PassThrough re-validates ranges that were built elsewhere against the tree.
type PassThrough struct{ Ranges []Range }

// Clear selects nothing.
type Clear struct{}

func (SelectNode) Kind() string        { return "select-node" }
func (SelectOffsetRange) Kind() string { return "select-offset-range" }
func (SelectParent) Kind() string      { return "select-parent" }
func (SelectEnclosing) Kind() string   { return "select-enclosing" }
func (PassThrough) Kind() string       { return "pass-through" }
func (Clear) Kind() string             { return "clear" }

func (SelectNode) command()        {}
func (SelectOffsetRange) command() {}
func (SelectParent) command()      {}
func (SelectEnclosing) command()   {}
func (PassThrough) command()       {}
func (Clear) command()             {}

// BuildRanges resolves cmd against root. The result depends only on its
// arguments; unknown targets resolve to an empty result.
func BuildRanges(root *Node, cmd Command) []Range {
	if root == nil || cmd == nil {
		return nil
	}

	switch c := cmd.(type) {
	case SelectNode:
		if n := Find(root, c.ID); n != nil {
			return []Range{n}
		}
		return nil

	case SelectOffsetRange:
		span := types.OffsetRange{Start: c.Start, End: c.End}.Clamp(root.End)
		if span.Empty() {
			return nil
		}
		if n := outermostExact(root, span); n != nil {
			return []Range{n}
		}
		return []Range{span}

	case SelectParent:
		if p := Parent(root, c.ID); p != nil {
			return []Range{p}
		}
		return nil

	case SelectEnclosing:
		span := types.OffsetRange{Start: c.Start, End: c.End}.Clamp(root.End)
		if n := innermostEnclosing(root, span); n != nil {
			return []Range{n}
		}
		return nil

	case PassThrough:
		return revalidate(root, c.Ranges)

	case Clear:
		return nil
	}
	return nil
}

// outermostExact finds the node closest to the root whose span equals span.
func outermostExact(root *Node, span types.OffsetRange) *Node {
	var found *Node
	Walk(root, func(n *Node, _ int) bool {
		if found != nil || !n.OffsetRange().Contains(span) {
			return false
		}
		if n.Start == span.Start && n.End == span.End {
			found = n
			return false
		}
		return true
	})
	return found
}

// innermostEnclosing descends while a child contains span, then climbs back
// over ancestors sharing the same span so that ties resolve to the outermost.
func innermostEnclosing(root *Node, span types.OffsetRange) *Node {
	if !root.OffsetRange().Contains(span) {
		return nil
	}
	chain := []*Node{root}
	current := root
	for {
		var next *Node
		for _, child := range current.Children {
			if child.OffsetRange().Contains(span) {
				next = child
				break
			}
		}
		if next == nil {
			break
		}
		chain = append(chain, next)
		current = next
	}
	i := len(chain) - 1
	for i > 0 && chain[i-1].Start == chain[i].Start && chain[i-1].End == chain[i].End {
		i--
	}
	return chain[i]
}

func revalidate(root *Node, ranges []Range) []Range {
	var out []Range
	for _, r := range ranges {
		switch v := r.(type) {
		case *Node:
			if v == nil {
				continue
			}
			if n := Find(root, v.ID); n != nil && n.Start == v.Start && n.End == v.End && n.Type == v.Type {
				out = append(out, n)
			}
		case types.OffsetRange:
			if span := v.Clamp(root.End); !span.Empty() {
				out = append(out, span)
			}
		}
	}
	return out
}

// ParseCommand builds a command from its kind and arguments, the textual
// form used by the command line.
func ParseCommand(kind string, args ...string) (Command, error) {
	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s expects %d argument(s), got %d", kind, n, len(args))
		}
		return nil
	}
	span := func() (int, int, error) {
		if err := need(2); err != nil {
			return 0, 0, err
		}
		start, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start offset %q: %w", args[0], err)
		}
		end, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end offset %q: %w", args[1], err)
		}
		return start, end, nil
	}

	switch kind {
	case "node", SelectNode{}.Kind():
		if err := need(1); err != nil {
			return nil, err
		}
		return SelectNode{ID: args[0]}, nil
	case "parent", SelectParent{}.Kind():
		if err := need(1); err != nil {
			return nil, err
		}
		return SelectParent{ID: args[0]}, nil
	case "range", SelectOffsetRange{}.Kind():
		start, end, err := span()
		if err != nil {
			return nil, err
		}
		return SelectOffsetRange{Start: start, End: end}, nil
	case "enclosing", SelectEnclosing{}.Kind():
		start, end, err := span()
		if err != nil {
			return nil, err
		}
		return SelectEnclosing{Start: start, End: end}, nil
	case "clear":
		if err := need(0); err != nil {
			return nil, err
		}
		return Clear{}, nil
	}
	return nil, fmt.Errorf("unknown selection command %q", kind)
}
