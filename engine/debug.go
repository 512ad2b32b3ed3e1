package engine

import "github.com/walterschell/chesslang/position"

// The accessors below exist purely for debug/interop rendering
// (chessconv.ToStandardPosition, FEN export) — core move legality never
// calls them.

// Halfmove returns the current halfmove clock (plies since the last pawn
// move or capture).
func (e *Engine) Halfmove() int { return e.halfmove }

// Fullmove returns the standard chess fullmove counter (1-based, increments
// after Black moves).
func (e *Engine) Fullmove() int { return e.ply/2 + 1 }

// EnPassantSquare returns the square a pawn may currently capture en
// passant onto, if any.
func (e *Engine) EnPassantSquare() (string, bool) {
	if e.enPassant == nil {
		return "", false
	}
	return e.enPassant.Algebraic(), true
}

// CastlingRights renders the FEN castling-availability field ("KQkq", "-",
// etc.), approximated from king/rook "moved" state rather than from full
// legality (a debug rendering does not need to account for an attacked
// passage square the way MakeMove's own castling check does).
func (e *Engine) CastlingRights() string {
	if !ruleEnabled(e.game.Rules, "castling") {
		return "-"
	}
	out := ""
	out += e.sideCastling(position.White, "KQ")
	out += e.sideCastling(position.Black, "kq")
	if out == "" {
		return "-"
	}
	return out
}

func (e *Engine) sideCastling(owner position.Owner, letters string) string {
	var king *positionedPiece
	for _, p := range e.board.PiecesOf(owner) {
		if p.HasTrait("king") && p.State["moved"] != true {
			king = &positionedPiece{file: p.Pos.File, rank: p.Pos.Rank}
			break
		}
	}
	if king == nil {
		return ""
	}
	out := ""
	if rook := e.board.PieceAt(position.Position{File: e.board.Width - 1, Rank: king.rank}); rook != nil &&
		rook.Owner == owner && rook.HasTrait("rook") && rook.State["moved"] != true {
		out += string(letters[0])
	}
	if rook := e.board.PieceAt(position.Position{File: 0, Rank: king.rank}); rook != nil &&
		rook.Owner == owner && rook.HasTrait("rook") && rook.State["moved"] != true {
		out += string(letters[1])
	}
	return out
}

type positionedPiece struct{ file, rank int }
