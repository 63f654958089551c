// Package lang keeps the registry of tree-sitter grammars snippets can be parsed with.
package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language describes one grammar and how its parse trees are shaped.
type Language struct {
	// Name is the canonical, lower-case registry key (e.g. "tsx").
	Name string

	// Aliases are additional lookup names (e.g. "ts" for "typescript").
	Aliases []string

	// Extensions maps file extensions to this language.
	Extensions []string

	// TreeSitterLang is the tree-sitter language instance.
	TreeSitterLang *sitter.Language

	// RootTypes lists the node kinds that represent a full program unit.
	// A parse whose root is not one of them cannot be projected.
	RootTypes []string
}

// IsRootType reports whether kind is a full-program root kind for l.
func (l *Language) IsRootType(kind string) bool {
	for _, rt := range l.RootTypes {
		if rt == kind {
			return true
		}
	}
	return false
}

// Matches reports whether name is l's name or one of its aliases.
func (l *Language) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == l.Name {
		return true
	}
	for _, a := range l.Aliases {
		if a == name {
			return true
		}
	}
	return false
}
