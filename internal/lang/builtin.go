package lang

import (
	"sync"

	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/bethropolis/modstudio/internal/logger"
)

// DefaultLanguage parses TypeScript with JSX, the superset codemod snippets are written in.
const DefaultLanguage = "tsx"

var builtinOnce sync.Once

// RegisterBuiltins registers the grammars bundled with the binary. Safe to call repeatedly.
func RegisterBuiltins() {
	builtinOnce.Do(func() {
		logger.DebugTagf("lang", "Registering languages...")

		Register(&Language{
			Name:           "javascript",
			Aliases:        []string{"js", "jsx"},
			Extensions:     []string{".js", ".mjs", ".cjs", ".jsx"},
			TreeSitterLang: javascript.GetLanguage(),
			RootTypes:      []string{"program"},
		})
		Register(&Language{
			Name:           "typescript",
			Aliases:        []string{"ts"},
			Extensions:     []string{".ts", ".mts", ".cts"},
			TreeSitterLang: typescript.GetLanguage(),
			RootTypes:      []string{"program"},
		})
		Register(&Language{
			Name:           "tsx",
			Extensions:     []string{".tsx"},
			TreeSitterLang: tsx.GetLanguage(),
			RootTypes:      []string{"program"},
		})
		Register(&Language{
			Name:           "go",
			Aliases:        []string{"golang"},
			Extensions:     []string{".go"},
			TreeSitterLang: golang.GetLanguage(),
			RootTypes:      []string{"source_file"},
		})
		Register(&Language{
			Name:           "python",
			Aliases:        []string{"py"},
			Extensions:     []string{".py", ".pyw"},
			TreeSitterLang: python.GetLanguage(),
			RootTypes:      []string{"module"},
		})
		Register(&Language{
			Name:           "rust",
			Aliases:        []string{"rs"},
			Extensions:     []string{".rs"},
			TreeSitterLang: rust.GetLanguage(),
			RootTypes:      []string{"source_file"},
		})

		logger.DebugTagf("lang", "Registration complete. Registered %d languages.", len(GetAll()))
	})
}

// Default returns the default snippet language, registering builtins if needed.
func Default() *Language {
	RegisterBuiltins()
	return Get(DefaultLanguage)
}
