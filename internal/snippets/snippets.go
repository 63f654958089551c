// Package snippets holds the editor pair collection: before/after/output
// snippets with their parsed trees and current selections.
package snippets

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bethropolis/modstudio/internal/tree"
	"github.com/bethropolis/modstudio/internal/types"
)

var (
	ErrIndexOutOfRange   = errors.New("pair index out of range")
	ErrLastPair          = errors.New("cannot remove the last pair")
	ErrUnknownEngine     = errors.New("unknown engine")
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrUnknownEditorType = errors.New("unknown editor type")
)

// EditorType names one of the three snippet slots of a pair.
type EditorType string

const (
	Before EditorType = "before"
	After  EditorType = "after"
	Output EditorType = "output"
)

// EditorTypes lists the slots in display order.
var EditorTypes = []EditorType{Before, After, Output}

// Valid reports whether t is one of the known slots.
func (t EditorType) Valid() bool {
	return slices.Contains(EditorTypes, t)
}

// ParseEditorType resolves a slot name, case-insensitively.
func ParseEditorType(name string) (EditorType, error) {
	t := EditorType(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEditorType, name)
	}
	return t, nil
}

// Engine identifies the codemod engine the collection is authored for.
type Engine string

const (
	EngineJSCodeshift Engine = "jscodeshift"
	EngineTSMorph     Engine = "ts-morph"
	EngineBabel       Engine = "babel"
	EngineRecast      Engine = "recast"
	EngineASTGrep     Engine = "ast-grep"
	EnginePiranha     Engine = "piranha"
	EngineFilemod     Engine = "filemod"
	EngineWorkflow    Engine = "workflow"

	DefaultEngine = EngineJSCodeshift
)

// Engines lists every known engine.
var Engines = []Engine{
	EngineJSCodeshift, EngineTSMorph, EngineBabel, EngineRecast,
	EngineASTGrep, EnginePiranha, EngineFilemod, EngineWorkflow,
}

// Valid reports whether e is a known engine.
func (e Engine) Valid() bool {
	return slices.Contains(Engines, e)
}

// ParseEngine resolves an engine name.
func ParseEngine(name string) (Engine, error) {
	e := Engine(strings.ToLower(strings.TrimSpace(name)))
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return e, nil
}

// SnippetValues is one snippet with everything derived from it.
// Root is nil when Content does not parse; Ranges always refer to Root.
type SnippetValues struct {
	Content        string        `json:"content"`
	Root           *tree.Node    `json:"root,omitempty"`
	Ranges         []tree.Range  `json:"ranges,omitempty"`
	Tokens         []types.Token `json:"tokens,omitempty"`
	RangeUpdatedAt time.Time     `json:"rangeUpdatedAt"`
}

// EditorPair is one before/after/output triple.
type EditorPair struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Before SnippetValues `json:"before"`
	After  SnippetValues `json:"after"`
	Output SnippetValues `json:"output"`
}

// Snippet returns the slot named t. Unknown slots yield the zero value.
func (p EditorPair) Snippet(t EditorType) SnippetValues {
	switch t {
	case Before:
		return p.Before
	case After:
		return p.After
	case Output:
		return p.Output
	}
	return SnippetValues{}
}

// slot returns a pointer into p for in-place updates of a copied pair.
func (p *EditorPair) slot(t EditorType) *SnippetValues {
	switch t {
	case Before:
		return &p.Before
	case After:
		return &p.After
	case Output:
		return &p.Output
	}
	return nil
}

// State is an immutable snapshot of the collection. Callers must treat the
// slices it exposes as read-only.
type State struct {
	Pairs             []EditorPair `json:"editors"`
	SelectedPairIndex int          `json:"selectedPairIndex"`
	Engine            Engine       `json:"engine"`
	Language          string       `json:"language"`
}

// Selected returns the selected pair.
func (s State) Selected() EditorPair {
	if s.SelectedPairIndex < 0 || s.SelectedPairIndex >= len(s.Pairs) {
		return EditorPair{}
	}
	return s.Pairs[s.SelectedPairIndex]
}

// AllSnippets collects the contents of every pair, slot by slot, in pair order.
type AllSnippets struct {
	Before []string `json:"before" yaml:"before"`
	After  []string `json:"after" yaml:"after"`
	Output []string `json:"output" yaml:"output"`
}

func pairName(n int) string {
	return fmt.Sprintf("Test %d", n)
}
