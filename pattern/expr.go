package pattern

import "github.com/walterschell/chesslang/ast"

// EvalExpr evaluates an expression tree against ctx. Unknown identifiers
// and member accesses yield nil rather than an error (spec.md §4.4).
func EvalExpr(e ast.Expr, ctx Context) any {
	switch n := e.(type) {
	case ast.Literal:
		return n.Value
	case ast.Ident:
		return evalIdent(n.Name, ctx)
	case ast.Member:
		target := EvalExpr(n.Target, ctx)
		return evalMember(target, n.Field, ctx)
	case ast.Binary:
		return evalBinary(n, ctx)
	case ast.Not:
		return !truthy(EvalExpr(n.X, ctx))
	default:
		log.Warn("unknown expr node", "type", e)
		return nil
	}
}

// rootBinding is a sentinel value used to mark "piece"/"state"/"candidate"
// idents so Member lookups below can special-case them instead of treating
// every root as a literal string. bindState and bindPieceState are kept
// distinct so a bare `state.x` (the game's custom state, spec.md §3
// GameState / §4.4) never aliases `piece.state.x` (the moving piece's own
// state) even though both read through the same Member-eval machinery.
type rootBinding int

const (
	bindPiece rootBinding = iota
	bindState
	bindPieceState
	bindCandidate
	bindZone
	bindEvent
)

func evalIdent(name string, ctx Context) any {
	switch name {
	case "piece":
		return bindPiece
	case "state":
		return bindState
	case "candidate", "target":
		return bindCandidate
	case "zone":
		return bindZone
	case "event":
		return bindEvent
	default:
		return nil
	}
}

func evalMember(target any, field string, ctx Context) any {
	switch target {
	case bindPiece:
		return pieceField(field, ctx)
	case bindState:
		if ctx.GameState == nil {
			return nil
		}
		return ctx.GameState[field]
	case bindPieceState:
		if ctx.Piece == nil {
			return nil
		}
		return ctx.Piece.State[field]
	case bindCandidate:
		if !ctx.HasCandidate {
			return nil
		}
		switch field {
		case "file":
			return float64(ctx.Candidate.File)
		case "rank":
			return float64(ctx.Candidate.Rank)
		case "square":
			return ctx.Candidate.Algebraic()
		}
		return nil
	case bindZone:
		if !ctx.HasCandidate {
			return false
		}
		return ctx.Board.InZone(field, ctx.Candidate)
	case bindEvent:
		if ctx.Event == nil {
			return nil
		}
		return ctx.Event[field]
	default:
		return nil
	}
}

func pieceField(field string, ctx Context) any {
	if ctx.Piece == nil {
		return nil
	}
	switch field {
	case "type":
		return ctx.Piece.Type
	case "owner":
		return ctx.Piece.Owner.String()
	case "file":
		return float64(ctx.Piece.Pos.File)
	case "rank":
		return float64(ctx.Piece.Pos.Rank)
	case "square":
		return ctx.Piece.Pos.Algebraic()
	case "state":
		return bindPieceState
	default:
		return nil
	}
}

func evalBinary(n ast.Binary, ctx Context) any {
	// and/or short-circuit on truthiness rather than eagerly evaluating
	// both sides, matching ordinary boolean-expression semantics.
	if n.Op == ast.OpAnd {
		if !truthy(EvalExpr(n.Left, ctx)) {
			return false
		}
		return truthy(EvalExpr(n.Right, ctx))
	}
	if n.Op == ast.OpOr {
		if truthy(EvalExpr(n.Left, ctx)) {
			return true
		}
		return truthy(EvalExpr(n.Right, ctx))
	}
	l, r := EvalExpr(n.Left, ctx), EvalExpr(n.Right, ctx)
	switch n.Op {
	case ast.OpEq:
		return equalValues(l, r)
	case ast.OpNeq:
		return !equalValues(l, r)
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil
	}
	switch n.Op {
	case ast.OpLt:
		return lf < rf
	case ast.OpGt:
		return lf > rf
	case ast.OpLte:
		return lf <= rf
	case ast.OpGte:
		return lf >= rf
	case ast.OpAdd:
		return lf + rf
	case ast.OpSub:
		return lf - rf
	case ast.OpMul:
		return lf * rf
	case ast.OpDiv:
		if rf == 0 {
			return nil
		}
		return lf / rf
	default:
		return nil
	}
}

func equalValues(l, r any) bool {
	if lf, lok := toFloat(l); lok {
		if rf, rok := toFloat(r); rok {
			return lf == rf
		}
	}
	return l == r
}
