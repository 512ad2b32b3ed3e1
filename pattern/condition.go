package pattern

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/position"
)

// CustomPredicate is a host-registered function backing a `Custom` ast
// condition node (spec.md §3 Condition: "custom(...) invokes a host
// predicate").
type CustomPredicate func(ctx Context, args []any) bool

// Predicates is the registry of custom predicate names available to
// compiled games. The compiler/engine populate it at startup; unregistered
// names evaluate to false (spec.md §4.4: unknown names are falsy, not an
// error).
var Predicates = map[string]CustomPredicate{}

// EvalCondition evaluates a Condition node against ctx. ctx.Candidate must
// be set when the condition inspects the destination square (Empty, Enemy,
// Friend, InZone, Clear).
func EvalCondition(c ast.Condition, ctx Context) bool {
	switch n := c.(type) {
	case ast.Empty:
		if !ctx.HasCandidate {
			return false
		}
		return ctx.Board.PieceAt(ctx.Candidate) == nil
	case ast.Enemy:
		if !ctx.HasCandidate {
			return false
		}
		occ := ctx.Board.PieceAt(ctx.Candidate)
		return occ != nil && occ.Owner != ctx.Piece.Owner
	case ast.Friend:
		if !ctx.HasCandidate {
			return false
		}
		occ := ctx.Board.PieceAt(ctx.Candidate)
		return occ != nil && occ.Owner == ctx.Piece.Owner
	case ast.Check:
		owner := ctx.Piece.Owner
		if n.Owner != nil {
			if v, ok := EvalExpr(n.Owner, ctx).(string); ok {
				if v == "opponent" {
					owner = owner.Opponent()
				}
			}
		}
		return IsInCheck(ctx, owner)
	case ast.FirstMove:
		return ctx.Piece.State["moved"] != true
	case ast.InZone:
		if !ctx.HasCandidate {
			return false
		}
		return ctx.Board.InZone(n.Zone, ctx.Candidate)
	case ast.Clear:
		if !ctx.HasCandidate {
			return false
		}
		return pathClear(ctx.Piece.Pos, ctx.Candidate, ctx.Board)
	case ast.Logical:
		left := EvalCondition(n.Left, ctx)
		if n.Op == ast.LogicalAnd {
			return left && EvalCondition(n.Right, ctx)
		}
		return left || EvalCondition(n.Right, ctx)
	case ast.NotCond:
		return !EvalCondition(n.X, ctx)
	case ast.Comparison:
		return evalComparison(n, ctx)
	case ast.ExprCondition:
		return truthy(EvalExpr(n.X, ctx))
	case ast.Custom:
		fn, ok := Predicates[n.Name]
		if !ok {
			log.Warn("unregistered custom predicate", "name", n.Name)
			return false
		}
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = EvalExpr(a, ctx)
		}
		return fn(ctx, args)
	default:
		log.Warn("unknown condition node", "type", c)
		return false
	}
}

// pathClear walks the straight line from-to (orthogonal or diagonal only,
// per the pattern geometries that can ever need it) and reports whether
// every intervening square is empty.
func pathClear(from, to position.Position, b *board.Board) bool {
	df, dr := sign(to.File-from.File), sign(to.Rank-from.Rank)
	cur := from.Add(position.Vector{DFile: df, DRank: dr})
	for cur != to {
		if b.PieceAt(cur) != nil {
			return false
		}
		cur = cur.Add(position.Vector{DFile: df, DRank: dr})
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func evalComparison(n ast.Comparison, ctx Context) bool {
	l, r := EvalExpr(n.Left, ctx), EvalExpr(n.Right, ctx)
	if lf, ok := toFloat(l); ok {
		if rf, ok := toFloat(r); ok {
			switch n.Op {
			case ast.CmpEq:
				return lf == rf
			case ast.CmpNeq:
				return lf != rf
			case ast.CmpLt:
				return lf < rf
			case ast.CmpGt:
				return lf > rf
			case ast.CmpLte:
				return lf <= rf
			case ast.CmpGte:
				return lf >= rf
			}
		}
	}
	switch n.Op {
	case ast.CmpEq:
		return l == r
	case ast.CmpNeq:
		return l != r
	default:
		return false
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return v != nil
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
