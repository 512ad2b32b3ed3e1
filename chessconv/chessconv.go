// Package chessconv bridges a ChessLang engine position to
// github.com/corentings/chess/v2, the teacher's own chess engine
// dependency, strictly for debug/interop rendering: FEN dumps and a
// corentings/chess game built from the current position, for games
// recognized as standard-chess compatible. It renders no SAN or PGN move
// text. ChessLang's own move legality never depends on this
// package — corentings/chess plays the same supporting, board/notation
// role here that it plays as the analysis substrate in the teacher.
package chessconv

import (
	"fmt"
	"log/slog"
	"strings"

	chess "github.com/corentings/chess/v2"
	"github.com/walterschell/chesslang/compiler"
	"github.com/walterschell/chesslang/engine"
	"github.com/walterschell/chesslang/position"
)

var log = slog.Default().With("package", "chessconv")

// IsStandardCompatible reports whether g extends StandardChess and leaves
// its rule set untouched, the condition under which ToStandardPosition can
// produce a meaningful rendering (spec.md's domain-stack note: "whenever a
// compiled game is recognized as standard-chess-compatible").
func IsStandardCompatible(g *compiler.Game) bool {
	if !g.HasExtends {
		return false
	}
	switch g.Extends {
	case "StandardChess", "STANDARD_CHESS", "Standard Chess":
	default:
		return false
	}
	if g.Board != nil && (g.Board.Width != 8 || g.Board.Height != 8) {
		return false
	}
	for _, key := range []string{"castling", "en_passant"} {
		if v, ok := g.Rules[key]; ok {
			if b, ok := v.(bool); ok && !b {
				return false
			}
		}
	}
	return true
}

// ToStandardPosition renders e's current position as a full FEN string and
// loads it into a *chess.Game, for use by a debug endpoint or test
// assertion that wants SAN/FEN rather than ChessLang's own Move shape.
// Returns an error if e's compiled game isn't standard-chess-compatible.
func ToStandardPosition(e *engine.Engine, g *compiler.Game) (*chess.Game, error) {
	if !IsStandardCompatible(g) {
		return nil, fmt.Errorf("chessconv: game is not standard-chess compatible")
	}
	fen := FEN(e)
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("chessconv: %w", err)
	}
	cg := chess.NewGame(opt)
	log.Debug("rendered standard position", "fen", fen)
	return cg, nil
}

// FEN assembles the full six-field FEN string for e's current position:
// piece placement (from board.Board.FEN), active color, castling rights,
// en passant target, halfmove clock, and fullmove number.
func FEN(e *engine.Engine) string {
	state := e.GetState()
	active := "w"
	if state.Turn == position.Black {
		active = "b"
	}
	ep := "-"
	if sq, ok := e.EnPassantSquare(); ok {
		ep = sq
	}
	fields := []string{
		e.GetBoard().FEN(),
		active,
		e.CastlingRights(),
		ep,
		fmt.Sprintf("%d", e.Halfmove()),
		fmt.Sprintf("%d", e.Fullmove()),
	}
	return strings.Join(fields, " ")
}
