// Package chesslang is the external interfaces facade for the ChessLang
// DSL and engine (spec.md §6): parse source into an AST, compile the AST
// into a resolved Game, and drive that Game with an Engine. Most callers
// only need this file; the pipeline packages (lexer, parser, ast,
// compiler, pattern, trigger, script, engine) are exported for callers
// who need finer-grained access (IDE tooling, test harnesses).
package chesslang

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/compiler"
	"github.com/walterschell/chesslang/engine"
	"github.com/walterschell/chesslang/parser"
)

// Parse lexes and parses ChessLang source into an AST (spec.md §4.1-4.2).
// filename is used only for error locations.
func Parse(source, filename string) (*ast.Game, error) {
	return parser.Parse(source, filename)
}

// Compile lowers a parsed AST into a resolved Game, merging any `extends`
// base and resolving named patterns (spec.md §4.3).
func Compile(g *ast.Game) (*compiler.Game, error) {
	return compiler.Compile(g)
}

// CompileSource is the common Parse+Compile shortcut.
func CompileSource(source, filename string) (*compiler.Game, error) {
	g, err := Parse(source, filename)
	if err != nil {
		return nil, err
	}
	return Compile(g)
}

// NewEngine builds a fresh Engine for a compiled Game, placing the initial
// setup (spec.md §4.6).
func NewEngine(g *compiler.Game) (*engine.Engine, error) {
	return engine.New(g)
}
