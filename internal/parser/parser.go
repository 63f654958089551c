// Package parser turns snippet text into syntax trees and renderable nodes.
package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/modstudio/internal/lang"
	"github.com/bethropolis/modstudio/internal/logger"
)

// ErrParseFailure marks text that did not parse cleanly.
var ErrParseFailure = errors.New("parse failure")

// Tree is a parsed snippet. It owns a private copy of the source text.
type Tree struct {
	tree     *sitter.Tree
	text     []byte
	language *lang.Language
}

// RootNode returns the tree-sitter root.
func (t *Tree) RootNode() *sitter.Node {
	if t == nil || t.tree == nil {
		return nil
	}
	return t.tree.RootNode()
}

// Text returns the source the tree was parsed from.
func (t *Tree) Text() []byte {
	return t.text
}

// IsProgram reports whether the root is a full program unit for the grammar.
func (t *Tree) IsProgram() bool {
	root := t.RootNode()
	return root != nil && t.language.IsRootType(root.Type())
}

// Language returns the grammar the tree was parsed with.
func (t *Tree) Language() *lang.Language {
	return t.language
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Parser parses snippets for a single language. It is safe for concurrent use:
// every call gets its own tree-sitter parser.
type Parser struct {
	language *lang.Language
	cache    *Cache
}

// Option configures a Parser.
type Option func(*Parser)

// WithCache memoises Snippet results.
func WithCache(c *Cache) Option {
	return func(p *Parser) { p.cache = c }
}

// New creates a parser for language. A nil language selects the default.
func New(language *lang.Language, opts ...Option) *Parser {
	if language == nil {
		language = lang.Default()
	}
	p := &Parser{language: language}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the parser's grammar.
func (p *Parser) Language() *lang.Language {
	return p.language
}

// ForLanguage returns a parser for another grammar sharing p's cache.
func (p *Parser) ForLanguage(language *lang.Language) *Parser {
	if language == nil {
		language = lang.Default()
	}
	cp := *p
	cp.language = language
	return &cp
}

// Parse parses text. Any syntax error, missing node or cancellation yields an
// error wrapping ErrParseFailure; the caller owns the returned tree and must Close it.
func (p *Parser) Parse(ctx context.Context, text string) (tree *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorTagf("parser", "Parser: recovered from panic: %v", r)
			tree = nil
			err = fmt.Errorf("%w: %v", ErrParseFailure, r)
		}
	}()

	source := []byte(text) // private copy, never aliases the caller's buffer

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(p.language.TreeSitterLang)

	st, err := sp.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailure, p.language.Name, err)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %s: no tree", ErrParseFailure, p.language.Name)
	}

	if root := st.RootNode(); root.HasError() {
		st.Close()
		return nil, fmt.Errorf("%w: %s: syntax error", ErrParseFailure, p.language.Name)
	}

	return &Tree{tree: st, text: source, language: p.language}, nil
}
