// Package pattern evaluates a ChessLang ast.Pattern against a board and
// piece, producing the set of candidate destination squares, and evaluates
// ast.Condition / ast.Expr trees against an evaluation context (spec.md §5
// Pattern interpreter).
package pattern

import (
	"log/slog"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/position"
)

var log = slog.Default().With("package", "pattern")

// Mode selects whether a pattern is being evaluated for a move or a
// capture. Candidates passes it down through nested patterns; no pattern
// or condition currently evaluates differently by mode.
type Mode int

const (
	ModeMove Mode = iota
	ModeCapture
)

// Context carries everything a pattern/condition/expression evaluation
// needs: the board, the moving piece, and (for conditions evaluated against
// a specific candidate square) the square under consideration.
type Context struct {
	Board        *board.Board
	Piece        *board.Piece
	Candidate    position.Position
	HasCandidate bool
	Named        map[string]ast.Pattern   // resolved top-level `pattern name = ...` table
	Event        map[string]any           // bindings for a trigger's `event.*` accesses
	PieceDefs    map[string]ast.PieceDecl // piece type name -> declaration, for Check's attack scan
	Rules        map[string]any           // compiled game's `rules:` block, read by engine-level predicates
	EnPassant    *position.Position       // square a pawn may currently capture en passant onto, nil if none
	Halfmove     int                      // plies since the last pawn move or capture, for fifty_move_rule
	Repetition   int                      // number of times the current position has occurred, for threefold_repetition
	GameState    map[string]any           // engine-owned custom state, the game's `state.*` bindings (spec.md §3 GameState, §4.4), distinct from piece.state
}

// Candidates returns every square reachable from ctx.Piece's current
// position by pat, honoring Step/Slide/Leap/Hop geometry, Conditional
// filters, and Composite union/intersection (spec.md §3 Pattern).
func Candidates(pat ast.Pattern, ctx Context, mode Mode) []position.Position {
	switch n := pat.(type) {
	case ast.Step:
		return stepCandidates(n, ctx)
	case ast.Slide:
		return slideCandidates(n, ctx)
	case ast.Leap:
		return leapCandidates(n, ctx)
	case ast.Hop:
		return hopCandidates(n, ctx)
	case ast.Conditional:
		base := Candidates(n.Pattern, ctx, mode)
		var out []position.Position
		for _, sq := range base {
			sub := ctx
			sub.Candidate = sq
			sub.HasCandidate = true
			if EvalCondition(n.Condition, sub) {
				out = append(out, sq)
			}
		}
		return out
	case ast.Composite:
		return compositeCandidates(n, ctx, mode)
	case ast.Named:
		resolved := n.Resolved
		if resolved == nil {
			resolved = ctx.Named[n.Ref]
		}
		if resolved == nil {
			log.Warn("unresolved named pattern", "name", n.Ref)
			return nil
		}
		return Candidates(resolved, ctx, mode)
	default:
		log.Warn("unknown pattern node", "type", pat)
		return nil
	}
}

func stepCandidates(n ast.Step, ctx Context) []position.Position {
	dist := n.Distance
	if dist <= 0 {
		dist = 1
	}
	var out []position.Position
	for _, v := range n.Direction.Vectors(ctx.Piece.Owner) {
		sq := ctx.Piece.Pos.Add(v.Scale(dist))
		if ctx.Board.InBounds(sq) {
			out = append(out, sq)
		}
	}
	return out
}

func slideCandidates(n ast.Slide, ctx Context) []position.Position {
	var out []position.Position
	for _, v := range n.Direction.Vectors(ctx.Piece.Owner) {
		sq := ctx.Piece.Pos
		for {
			sq = sq.Add(v)
			if !ctx.Board.InBounds(sq) {
				break
			}
			out = append(out, sq)
			if ctx.Board.PieceAt(sq) != nil {
				break
			}
		}
	}
	return out
}

func leapCandidates(n ast.Leap, ctx Context) []position.Position {
	var out []position.Position
	for _, v := range position.LeapOffsets(n.DX, n.DY) {
		sq := ctx.Piece.Pos.Add(v)
		if ctx.Board.InBounds(sq) {
			out = append(out, sq)
		}
	}
	return out
}

// hopCandidates implements the "screen" geometry (spec.md §4.4): the first
// occupied square along a direction is jumped over as a screen, every empty
// square past it is not a candidate, and the first occupied square past the
// screen is the single candidate (move-mode callers filter it out since it's
// occupied; capture-mode callers accept it if the occupant is an enemy).
func hopCandidates(n ast.Hop, ctx Context) []position.Position {
	var out []position.Position
	for _, v := range n.Direction.Vectors(ctx.Piece.Owner) {
		sq := ctx.Piece.Pos
		foundScreen := false
		for {
			sq = sq.Add(v)
			if !ctx.Board.InBounds(sq) {
				break
			}
			occupied := ctx.Board.PieceAt(sq) != nil
			if !foundScreen {
				if occupied {
					foundScreen = true
				}
				continue
			}
			if occupied {
				out = append(out, sq)
				break
			}
		}
	}
	return out
}

func compositeCandidates(n ast.Composite, ctx Context, mode Mode) []position.Position {
	if len(n.Patterns) == 0 {
		return nil
	}
	if n.Op == ast.CompositeOr {
		seen := map[position.Position]bool{}
		var out []position.Position
		for _, sub := range n.Patterns {
			for _, sq := range Candidates(sub, ctx, mode) {
				if !seen[sq] {
					seen[sq] = true
					out = append(out, sq)
				}
			}
		}
		return out
	}
	// CompositeAnd: intersection across every sub-pattern's candidate set.
	counts := map[position.Position]int{}
	var order []position.Position
	for _, sub := range n.Patterns {
		for _, sq := range Candidates(sub, ctx, mode) {
			if counts[sq] == 0 {
				order = append(order, sq)
			}
			counts[sq]++
		}
	}
	var out []position.Position
	for _, sq := range order {
		if counts[sq] == len(n.Patterns) {
			out = append(out, sq)
		}
	}
	return out
}
