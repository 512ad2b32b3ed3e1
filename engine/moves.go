package engine

import (
	"strings"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/pattern"
	"github.com/walterschell/chesslang/position"
	"golang.org/x/exp/slices"
)

// GetLegalMoves enumerates every legal move for owner (spec.md §4.6),
// caching the result per turn. Pass position.NoOwner to get the current
// player's moves. The result is sorted into a stable order (by origin
// square, then destination, then promotion) so callers such as
// cmd/chesslangd get a deterministic move list across identical positions.
func (e *Engine) GetLegalMoves(owner position.Owner) []Move {
	if owner == position.NoOwner {
		owner = e.turn
	}
	if cached, ok := e.legalCache[owner]; ok {
		return cached
	}
	var out []Move
	for _, p := range e.board.PiecesOf(owner) {
		out = append(out, e.legalMovesForPiece(p)...)
	}
	slices.SortFunc(out, func(a, b Move) int {
		if a.From != b.From {
			return strings.Compare(a.From.Algebraic(), b.From.Algebraic())
		}
		if a.To != b.To {
			return strings.Compare(a.To.Algebraic(), b.To.Algebraic())
		}
		return strings.Compare(a.Promotion, b.Promotion)
	})
	if e.legalCache == nil {
		e.legalCache = map[position.Owner][]Move{}
	}
	e.legalCache[owner] = out
	return out
}

// MakeMoveAlgebraic resolves from/to/promotion against the current legal
// move set and applies it, a thin convenience wrapper over MakeMove for
// callers working in plain algebraic notation (SPEC_FULL.md's supplemented
// features, "Algebraic move input").
func (e *Engine) MakeMoveAlgebraic(from, to, promotion string) (*MakeMoveOutcome, error) {
	fromPos, err := position.ParseAlgebraic(from)
	if err != nil {
		return nil, errf("invalid origin square %q: %v", from, err)
	}
	toPos, err := position.ParseAlgebraic(to)
	if err != nil {
		return nil, errf("invalid destination square %q: %v", to, err)
	}
	for _, m := range e.GetLegalMoves(e.turn) {
		if m.From == fromPos && m.To == toPos && m.Promotion == promotion {
			return e.MakeMove(m)
		}
	}
	return nil, errf("no legal move %s%s", from, to)
}

// legalMovesForPiece computes p's pseudo-legal moves and filters out any
// that would leave p's side's royal piece attacked, by cloning the board,
// applying the move, and asking pattern.IsInCheck (spec.md §4.6).
func (e *Engine) legalMovesForPiece(p *board.Piece) []Move {
	var out []Move
	for _, m := range e.pseudoMoves(p) {
		clone := e.board.Clone()
		applyMoveTo(clone, e.pieceDefs, m)
		ctx := pattern.Context{Board: clone, PieceDefs: e.pieceDefs}
		if pattern.IsInCheck(ctx, p.Owner) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// pseudoMoves computes every geometrically legal move for p, ignoring
// check safety: quiet moves and captures from its pattern declarations,
// plus castling/en-passant when the game's rules enable them.
func (e *Engine) pseudoMoves(p *board.Piece) []Move {
	out := basicPseudoMoves(e.board, e.pieceDefs, e.game.Rules, e.enPassant, p)
	out = append(out, e.castlingMoves(p)...)
	out = append(out, e.enPassantMoves(p)...)
	return out
}

// basicPseudoMoves computes p's quiet moves and captures from its pattern
// declarations alone, ignoring castling and en passant (those need access
// to sibling pieces' state and are layered on separately). It takes its
// inputs explicitly rather than an *Engine so terminal-condition predicates
// (engine/predicates.go) can reuse it as a pure function of a
// pattern.Context, matching the no-captured-Engine design used throughout
// this package (see pattern.IsInCheck).
func basicPseudoMoves(b *board.Board, defs map[string]ast.PieceDecl, rules map[string]any, enPassant *position.Position, p *board.Piece) []Move {
	def, ok := defs[p.Type]
	if !ok {
		return nil
	}
	ctx := pattern.Context{Board: b, Piece: p, PieceDefs: defs, Rules: rules, EnPassant: enPassant}
	var out []Move
	if def.Move != nil {
		for _, sq := range pattern.Candidates(def.Move, ctx, pattern.ModeMove) {
			if b.PieceAt(sq) != nil || blockedByEffect(b, sq, p.Owner) {
				continue
			}
			out = append(out, expandPromotions(b, p, def, sq, MoveNormal)...)
		}
	}
	switch def.CaptureSpecial {
	case ast.CaptureNone:
	case ast.CaptureSame:
		if def.Move != nil {
			for _, sq := range pattern.Candidates(def.Move, ctx, pattern.ModeCapture) {
				occ := b.PieceAt(sq)
				if occ == nil || occ.Owner == p.Owner || blockedByEffect(b, sq, p.Owner) {
					continue
				}
				out = append(out, expandPromotions(b, p, def, sq, MoveNormal)...)
			}
		}
	default:
		if def.Capture != nil {
			for _, sq := range pattern.Candidates(def.Capture, ctx, pattern.ModeCapture) {
				occ := b.PieceAt(sq)
				if occ == nil || occ.Owner == p.Owner || blockedByEffect(b, sq, p.Owner) {
					continue
				}
				out = append(out, expandPromotions(b, p, def, sq, MoveNormal)...)
			}
		}
	}
	return out
}

func blockedByEffect(b *board.Board, sq position.Position, mover position.Owner) bool {
	for _, eff := range b.Effects(sq) {
		if eff.Blocks_(mover, false) {
			return true
		}
	}
	return false
}

func isPromotionRank(b *board.Board, sq position.Position, owner position.Owner) bool {
	if owner == position.Black {
		return sq.Rank == 0
	}
	return sq.Rank == b.Height-1
}

func expandPromotions(b *board.Board, p *board.Piece, def ast.PieceDecl, sq position.Position, kind MoveKind) []Move {
	if len(def.PromoteTo) == 0 || !isPromotionRank(b, sq, p.Owner) {
		return []Move{{PieceID: p.ID, From: p.Pos, To: sq, Kind: kind}}
	}
	out := make([]Move, 0, len(def.PromoteTo))
	for _, promo := range def.PromoteTo {
		out = append(out, Move{PieceID: p.ID, From: p.Pos, To: sq, Kind: kind, Promotion: promo})
	}
	return out
}

func (e *Engine) castlingMoves(king *board.Piece) []Move {
	if !ruleEnabled(e.game.Rules, "castling") || !king.HasTrait("king") || king.State["moved"] == true {
		return nil
	}
	ctx := pattern.Context{Board: e.board, Piece: king, PieceDefs: e.pieceDefs}
	if pattern.IsInCheck(ctx, king.Owner) {
		return nil
	}
	rank := king.Pos.Rank
	var out []Move
	try := func(rookFile, kingToFile int, kind MoveKind) {
		rookPos := position.Position{File: rookFile, Rank: rank}
		rook := e.board.PieceAt(rookPos)
		if rook == nil || rook.Owner != king.Owner || !rook.HasTrait("rook") || rook.State["moved"] == true {
			return
		}
		lo, hi := king.Pos.File, rookFile
		if lo > hi {
			lo, hi = hi, lo
		}
		for f := lo + 1; f < hi; f++ {
			if e.board.PieceAt(position.Position{File: f, Rank: rank}) != nil {
				return
			}
		}
		step := 1
		if kingToFile < king.Pos.File {
			step = -1
		}
		for f := king.Pos.File; f != kingToFile+step; f += step {
			if squareAttacked(e.board, e.pieceDefs, position.Position{File: f, Rank: rank}, king.Owner.Opponent()) {
				return
			}
		}
		out = append(out, Move{PieceID: king.ID, From: king.Pos, To: position.Position{File: kingToFile, Rank: rank}, Kind: kind})
	}
	try(e.board.Width-1, king.Pos.File+2, MoveCastleKingside)
	try(0, king.Pos.File-2, MoveCastleQueenside)
	return out
}

func (e *Engine) enPassantMoves(p *board.Piece) []Move {
	if !ruleEnabled(e.game.Rules, "en_passant") || e.enPassant == nil || !p.HasTrait("pawn") {
		return nil
	}
	var out []Move
	for _, dir := range []position.Direction{position.DiagForwardLeft, position.DiagForwardRight} {
		for _, v := range dir.Vectors(p.Owner) {
			if p.Pos.Add(v) == *e.enPassant {
				out = append(out, Move{PieceID: p.ID, From: p.Pos, To: *e.enPassant, Kind: MoveEnPassant})
			}
		}
	}
	return out
}

func ruleEnabled(rules map[string]any, key string) bool {
	v, ok := rules[key]
	if !ok {
		return true
	}
	b, ok := v.(bool)
	return !ok || b
}

// squareAttacked reports whether any of byOwner's pieces can capture onto
// sq, using the same capture-pattern scan as pattern.IsInCheck but against
// an arbitrary square rather than a royal piece's position (used for
// castling's "king does not pass through check" rule).
func squareAttacked(b *board.Board, defs map[string]ast.PieceDecl, sq position.Position, byOwner position.Owner) bool {
	for _, attacker := range b.PiecesOf(byOwner) {
		def, ok := defs[attacker.Type]
		if !ok {
			continue
		}
		capPat, ok := pattern.CapturePatternFor(def)
		if !ok {
			continue
		}
		ctx := pattern.Context{Board: b, Piece: attacker, PieceDefs: defs}
		for _, cand := range pattern.Candidates(capPat, ctx, pattern.ModeCapture) {
			if cand == sq {
				return true
			}
		}
	}
	return false
}
