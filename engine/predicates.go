package engine

import (
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/pattern"
)

// init registers the five standard-chess terminal conditions as custom
// predicates (spec.md §4.4: STANDARD_CHESS's victory/draw block calls
// checkmate(), stalemate(), insufficient_material(), fifty_move_rule(),
// threefold_repetition() by name). Each closure is pure over ctx, so it
// stays safe across any number of concurrent Engine instances — none of
// them close over an *Engine.
func init() {
	pattern.Predicates["checkmate"] = func(ctx pattern.Context, args []any) bool {
		return pattern.IsInCheck(ctx, ctx.Piece.Owner) && !hasAnyLegalMove(ctx)
	}
	pattern.Predicates["stalemate"] = func(ctx pattern.Context, args []any) bool {
		return !pattern.IsInCheck(ctx, ctx.Piece.Owner) && !hasAnyLegalMove(ctx)
	}
	pattern.Predicates["insufficient_material"] = func(ctx pattern.Context, args []any) bool {
		return insufficientMaterial(ctx.Board)
	}
	pattern.Predicates["fifty_move_rule"] = func(ctx pattern.Context, args []any) bool {
		return ctx.Halfmove >= 100
	}
	pattern.Predicates["threefold_repetition"] = func(ctx pattern.Context, args []any) bool {
		return ctx.Repetition >= 3
	}
}

// hasAnyLegalMove reports whether ctx.Piece.Owner has at least one move
// that does not leave their own royal piece attacked. It reimplements the
// check-safety filter from moves.go directly against ctx.Board/ctx.PieceDefs
// rather than calling into an *Engine, so the predicate stays a pure
// function of its Context.
func hasAnyLegalMove(ctx pattern.Context) bool {
	for _, p := range ctx.Board.PiecesOf(ctx.Piece.Owner) {
		for _, m := range basicPseudoMoves(ctx.Board, ctx.PieceDefs, ctx.Rules, ctx.EnPassant, p) {
			clone := ctx.Board.Clone()
			applyMoveTo(clone, ctx.PieceDefs, m)
			sub := pattern.Context{Board: clone, PieceDefs: ctx.PieceDefs}
			if !pattern.IsInCheck(sub, p.Owner) {
				return true
			}
		}
	}
	return false
}

// insufficientMaterial reports whether neither side has enough material to
// deliver checkmate: besides the kings, the whole board holds at most one
// piece, and that piece is a bishop or knight. King and minor piece against
// king and minor piece is not counted as insufficient. STANDARD_CHESS's
// insufficient_material() call is backed by this check.
func insufficientMaterial(b *board.Board) bool {
	var minors, others int
	for _, p := range b.Pieces() {
		switch {
		case p.HasTrait("king"):
		case p.HasTrait("bishop"), p.HasTrait("knight"):
			minors++
		default:
			others++
		}
	}
	return others == 0 && minors <= 1
}
