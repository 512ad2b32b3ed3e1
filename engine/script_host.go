package engine

import (
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/position"
	"github.com/walterschell/chesslang/script"
)

// Engine implements script.Host directly: scripts see the same board an
// engine method call would, routed through these curated accessors so a
// script body can never reach anything outside spec.md §5's API list.

func (e *Engine) At(square string) (script.PieceView, bool) {
	pos, err := position.ParseAlgebraic(square)
	if err != nil {
		return script.PieceView{}, false
	}
	p := e.board.PieceAt(pos)
	if p == nil {
		return script.PieceView{}, false
	}
	return toView(p), true
}

func (e *Engine) Pieces(owner string) []script.PieceView {
	o := position.White
	if owner == "Black" {
		o = position.Black
	}
	ps := e.board.PiecesOf(o)
	out := make([]script.PieceView, len(ps))
	for i, p := range ps {
		out[i] = toView(p)
	}
	return out
}

func (e *Engine) EmptySquares() []string {
	var out []string
	for f := 0; f < e.board.Width; f++ {
		for r := 0; r < e.board.Height; r++ {
			pos := position.Position{File: f, Rank: r}
			if e.board.PieceAt(pos) == nil {
				out = append(out, pos.Algebraic())
			}
		}
	}
	return out
}

func (e *Engine) Adjacent(square string) []string {
	pos, err := position.ParseAlgebraic(square)
	if err != nil {
		return nil
	}
	var out []string
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			sq := pos.Add(position.Vector{DFile: df, DRank: dr})
			if e.board.InBounds(sq) {
				out = append(out, sq.Algebraic())
			}
		}
	}
	return out
}

func (e *Engine) IsValidPos(square string) bool {
	pos, err := position.ParseAlgebraic(square)
	if err != nil {
		return false
	}
	return e.board.InBounds(pos)
}

func (e *Engine) GetPieces() []script.PieceView {
	ps := e.board.Pieces()
	out := make([]script.PieceView, len(ps))
	for i, p := range ps {
		out[i] = toView(p)
	}
	return out
}

func (e *Engine) MovePiece(from, to string) error {
	fp, err := position.ParseAlgebraic(from)
	if err != nil {
		return errf("movePiece: bad from square %q", from)
	}
	tp, err := position.ParseAlgebraic(to)
	if err != nil {
		return errf("movePiece: bad to square %q", to)
	}
	piece := e.board.PieceAt(fp)
	if piece == nil {
		return errf("movePiece: no piece at %q", from)
	}
	if e.board.PieceAt(tp) != nil {
		return errf("movePiece: %q is occupied", to)
	}
	e.board.Move(piece.ID, tp)
	e.legalCache = nil
	return nil
}

func (e *Engine) RemovePiece(square string) error {
	pos, err := position.ParseAlgebraic(square)
	if err != nil {
		return errf("removePiece: bad square %q", square)
	}
	e.board.Remove(pos)
	e.legalCache = nil
	return nil
}

func (e *Engine) CreatePiece(pieceType, square, owner string) error {
	pos, err := position.ParseAlgebraic(square)
	if err != nil {
		return errf("createPiece: bad square %q", square)
	}
	o := position.White
	if owner == "Black" {
		o = position.Black
	}
	def := e.pieceDefs[pieceType]
	p := &board.Piece{
		ID:     e.allocPieceID(),
		Type:   pieceType,
		Owner:  o,
		Pos:    pos,
		Traits: traitSet(def.Traits),
		State:  initialState(def),
	}
	if !e.board.PlaceIfEmpty(p) {
		return errf("createPiece: %q is occupied", square)
	}
	e.legalCache = nil
	return nil
}

func (e *Engine) ToSquare(file, rank int) string {
	return position.Position{File: file, Rank: rank}.Algebraic()
}

func (e *Engine) ParseSquare(square string) (int, int, bool) {
	pos, err := position.ParseAlgebraic(square)
	if err != nil {
		return 0, 0, false
	}
	return pos.File, pos.Rank, true
}

func (e *Engine) Distance(a, b string) int {
	pa, err1 := position.ParseAlgebraic(a)
	pb, err2 := position.ParseAlgebraic(b)
	if err1 != nil || err2 != nil {
		return -1
	}
	df, dr := pa.File-pb.File, pa.Rank-pb.Rank
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

func toView(p *board.Piece) script.PieceView {
	return script.PieceView{Type: p.Type, Owner: p.Owner.String(), Square: p.Pos.Algebraic()}
}
