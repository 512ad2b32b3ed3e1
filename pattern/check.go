package pattern

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/position"
)

// IsInCheck reports whether owner's royal piece (trait "royal") is
// attacked by any of the opponent's pieces, by asking each opponent piece's
// capture pattern whether it reaches the royal piece's square. ctx.Board
// and ctx.PieceDefs must be populated; ctx.Piece is overwritten per
// attacker as the scan proceeds. A side with no royal piece cannot be in
// check (spec.md §3: "royal" pieces are ordinary pieces tagged by trait,
// not a built-in concept).
func IsInCheck(ctx Context, owner position.Owner) bool {
	royal := findRoyal(ctx.Board, owner)
	if royal == nil {
		return false
	}
	for _, attacker := range ctx.Board.PiecesOf(owner.Opponent()) {
		def, ok := ctx.PieceDefs[attacker.Type]
		if !ok {
			continue
		}
		capPat, ok := CapturePatternFor(def)
		if !ok {
			continue
		}
		sub := ctx
		sub.Piece = attacker
		sub.HasCandidate = false
		for _, sq := range Candidates(capPat, sub, ModeCapture) {
			if sq == royal.Pos {
				return true
			}
		}
	}
	return false
}

func findRoyal(b *board.Board, owner position.Owner) *board.Piece {
	for _, p := range b.PiecesOf(owner) {
		if p.HasTrait("royal") {
			return p
		}
	}
	return nil
}

// CapturePatternFor resolves the pattern a piece definition actually
// captures with: its own Capture pattern, its Move pattern when capture is
// declared `same`, or no pattern at all when capture is declared `none`.
func CapturePatternFor(def ast.PieceDecl) (ast.Pattern, bool) {
	switch def.CaptureSpecial {
	case ast.CaptureNone:
		return nil, false
	case ast.CaptureSame:
		if def.Move == nil {
			return nil, false
		}
		return def.Move, true
	default:
		if def.Capture == nil {
			return nil, false
		}
		return def.Capture, true
	}
}
