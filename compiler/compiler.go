// Package compiler lowers a parsed ast.Game into a resolved Game: base
// games are merged in (inheritance), named pattern references are
// resolved, and the result is validated for referential integrity
// (spec.md §4.3 Compiler).
package compiler

import (
	_ "embed"
	"log/slog"
	"sync"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/parser"
	"github.com/walterschell/chesslang/script"
)

var log = slog.Default().With("package", "compiler")

//go:embed standard_chess.chesslang
var standardChessSource string

var (
	standardChessOnce sync.Once
	standardChessGame *ast.Game
	standardChessErr  error
)

// StandardChess returns the STANDARD_CHESS base game as a parsed AST,
// parsing the embedded DSL source exactly once (spec.md's design note:
// "the base game is itself authored as ChessLang source").
func StandardChess() (*ast.Game, error) {
	standardChessOnce.Do(func() {
		g, err := parser.Parse(standardChessSource, "standard_chess.chesslang")
		if err != nil {
			standardChessErr = errf("failed to parse embedded STANDARD_CHESS base: %v", err)
			return
		}
		standardChessGame = g
	})
	return standardChessGame, standardChessErr
}

// Game is the compiler's resolved output: an ast.Game with inheritance
// merged and named patterns bound, ready for the engine to load.
type Game struct {
	*ast.Game
	Patterns map[string]ast.Pattern
}

// Compile lowers a parsed ast.Game into a resolved Game, merging in
// `extends` (only "StandardChess"/"STANDARD_CHESS" is resolvable today;
// spec.md does not define a registry of other named bases) and resolving
// every Named pattern reference.
func Compile(g *ast.Game) (*Game, error) {
	merged := g
	if g.HasExtends {
		base, err := resolveBase(g.Extends)
		if err != nil {
			return nil, err
		}
		merged = mergeGame(base, g)
	}
	patterns := map[string]ast.Pattern{}
	for _, decl := range merged.Patterns {
		patterns[decl.Name] = decl.Pattern
	}
	if err := resolveNamedPatterns(merged, patterns); err != nil {
		return nil, err
	}
	if err := validate(merged); err != nil {
		return nil, err
	}
	log.Debug("compiled game", "name", merged.Name, "pieces", len(merged.Pieces))
	return &Game{Game: merged, Patterns: patterns}, nil
}

func resolveBase(name string) (*ast.Game, error) {
	switch name {
	case "StandardChess", "STANDARD_CHESS", "Standard Chess":
		return StandardChess()
	default:
		return nil, errf("unknown base game %q", name)
	}
}

// resolveNamedPatterns walks every pattern tree reachable from pieces and
// fills in Named.Resolved, so the pattern package never has to consult a
// side table at evaluation time. Cyclic references are rejected.
func resolveNamedPatterns(g *ast.Game, table map[string]ast.Pattern) error {
	resolving := map[string]bool{}
	var resolve func(p ast.Pattern) (ast.Pattern, error)
	resolve = func(p ast.Pattern) (ast.Pattern, error) {
		switch n := p.(type) {
		case ast.Named:
			if resolving[n.Ref] {
				return nil, errf("cyclic named pattern reference %q", n.Ref)
			}
			target, ok := table[n.Ref]
			if !ok {
				return nil, errf("undefined named pattern %q", n.Ref)
			}
			resolving[n.Ref] = true
			resolved, err := resolve(target)
			resolving[n.Ref] = false
			if err != nil {
				return nil, err
			}
			n.Resolved = resolved
			return n, nil
		case ast.Conditional:
			sub, err := resolve(n.Pattern)
			if err != nil {
				return nil, err
			}
			n.Pattern = sub
			return n, nil
		case ast.Composite:
			for i, sub := range n.Patterns {
				r, err := resolve(sub)
				if err != nil {
					return nil, err
				}
				n.Patterns[i] = r
			}
			return n, nil
		default:
			return p, nil
		}
	}
	for i, pd := range g.Pieces {
		if pd.Move != nil {
			r, err := resolve(pd.Move)
			if err != nil {
				return errf("piece %q move pattern: %v", pd.Name, err)
			}
			g.Pieces[i].Move = r
		}
		if pd.Capture != nil {
			r, err := resolve(pd.Capture)
			if err != nil {
				return errf("piece %q capture pattern: %v", pd.Name, err)
			}
			g.Pieces[i].Capture = r
		}
	}
	return nil
}

// validate checks referential integrity: setup placements and setup
// replace targets name declared piece types, promote_to lists name declared
// piece types, and every script block passes a syntax check.
func validate(g *ast.Game) error {
	known := map[string]bool{}
	for _, pd := range g.Pieces {
		known[pd.Name] = true
	}
	if g.Setup != nil {
		for _, pl := range g.Setup.Placements {
			if !known[pl.PieceType] {
				return errf("setup placement references undeclared piece type %q", pl.PieceType)
			}
		}
		for dst := range g.Setup.Replace {
			if !known[dst] {
				return errf("setup replace references undeclared piece type %q", dst)
			}
		}
	}
	for _, pd := range g.Pieces {
		for _, promo := range pd.PromoteTo {
			if !known[promo] {
				return errf("piece %q promote_to references undeclared piece type %q", pd.Name, promo)
			}
		}
	}
	for i, sb := range g.Scripts {
		if err := script.ValidateSyntax(sb.Source); err != nil {
			return errf("script block %d: %v", i, err)
		}
	}
	return nil
}
