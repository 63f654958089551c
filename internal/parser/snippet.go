package parser

import (
	"context"
	"errors"

	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/tree"
	"github.com/bethropolis/modstudio/internal/types"
)

// Result is a parsed, projected snippet.
type Result struct {
	// Root is nil when the text failed to parse or is not a full program.
	Root   *tree.Node
	Tokens []types.Token
}

// Snippet parses and projects text. Parse failures are not errors here:
// they produce a Result with a nil Root. Only cancellation is reported.
func (p *Parser) Snippet(ctx context.Context, text string) (Result, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(p.language.Name, text); ok {
			return cached, nil
		}
	}

	t, err := p.Parse(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		if !errors.Is(err, ErrParseFailure) {
			return Result{}, err
		}
		logger.DebugTagf("parser", "Parser: %v", err)
		res := Result{}
		if p.cache != nil {
			p.cache.Set(p.language.Name, text, res)
		}
		return res, nil
	}
	defer t.Close()

	res := Result{
		Root:   tree.Project(t),
		Tokens: tree.Tokens(t),
	}
	if res.Root == nil {
		logger.DebugTagf("parser", "Parser: root %q is not a program for %s", t.RootNode().Type(), p.language.Name)
		res.Tokens = nil
	}
	if p.cache != nil {
		p.cache.Set(p.language.Name, text, res)
	}
	return res, nil
}
