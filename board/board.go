/*
Package board implements the ChessLang runtime board: a width x height grid
of squares, a piece slab indexed by opaque id, per-square effect lists, and
named zones.

Pieces and effects live in flat slabs rather than a reference graph so that
cloning a board for hypothetical-move check detection (engine package) is a
cheap copy of slices/maps rather than a deep object walk.
*/
package board

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/walterschell/chesslang/position"
)

var log = slog.Default().With("package", "board")

// PieceID uniquely identifies a piece for the lifetime of the engine that
// created it. IDs are assigned by an engine-owned monotonic counter (see
// engine.Engine) — never shared across engines in the same process.
type PieceID uint64

// EffectID uniquely identifies an effect instance on a square.
type EffectID uint64

// Blocks describes which movers an effect impedes.
type Blocks int

const (
	BlocksNone Blocks = iota
	BlocksAll
	BlocksEnemy
	BlocksFriend
)

// Piece is a single piece on the board.
type Piece struct {
	ID     PieceID
	Type   string
	Owner  position.Owner
	Pos    position.Position
	Traits map[string]bool
	State  map[string]any
}

// HasTrait reports whether the piece carries the named trait.
func (p *Piece) HasTrait(name string) bool {
	return p != nil && p.Traits[name]
}

// Clone deep-copies a piece (used by the engine's hypothetical-move check).
func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	cp := &Piece{ID: p.ID, Type: p.Type, Owner: p.Owner, Pos: p.Pos}
	cp.Traits = make(map[string]bool, len(p.Traits))
	for k, v := range p.Traits {
		cp.Traits[k] = v
	}
	cp.State = make(map[string]any, len(p.State))
	for k, v := range p.State {
		cp.State[k] = v
	}
	return cp
}

// Effect is a marker attached to a square.
type Effect struct {
	ID       EffectID
	Type     string
	Blocks   Blocks
	Owner    position.Owner
	Duration int // -1 means permanent
}

func (e *Effect) Clone() *Effect {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// Blocks_ reports whether this effect prevents mover (owner, hasPhase) from
// landing on the square it is attached to.
func (e *Effect) Blocks_(mover position.Owner, moverHasPhase bool) bool {
	if moverHasPhase {
		return false
	}
	switch e.Blocks {
	case BlocksAll:
		return true
	case BlocksEnemy:
		return e.Owner != position.NoOwner && e.Owner != mover
	case BlocksFriend:
		return e.Owner == mover
	default:
		return false
	}
}

// Board is the runtime grid. Width/Height follow spec.md §3 ("Width <= 26,
// Height <= 99").
type Board struct {
	Width, Height int

	pieceAt map[position.Position]PieceID
	pieces  map[PieceID]*Piece
	effects map[position.Position][]*Effect
	zones   map[string]map[position.Position]bool

	nextEffectID EffectID
}

// New creates an empty board of the given dimensions.
func New(width, height int) *Board {
	if width < 1 || width > 26 {
		panic(fmt.Sprintf("board: width %d out of range [1,26]", width))
	}
	if height < 1 || height > 99 {
		panic(fmt.Sprintf("board: height %d out of range [1,99]", height))
	}
	return &Board{
		Width: width, Height: height,
		pieceAt: make(map[position.Position]PieceID),
		pieces:  make(map[PieceID]*Piece),
		effects: make(map[position.Position][]*Effect),
		zones:   make(map[string]map[position.Position]bool),
	}
}

// InBounds reports whether p is on this board.
func (b *Board) InBounds(p position.Position) bool {
	return p.InBounds(b.Width, b.Height)
}

// PieceAt returns the piece occupying p, or nil.
func (b *Board) PieceAt(p position.Position) *Piece {
	id, ok := b.pieceAt[p]
	if !ok {
		return nil
	}
	return b.pieces[id]
}

// Piece looks a piece up by id.
func (b *Board) Piece(id PieceID) *Piece {
	return b.pieces[id]
}

// Pieces returns every piece on the board, order unspecified.
func (b *Board) Pieces() []*Piece {
	out := make([]*Piece, 0, len(b.pieces))
	for _, p := range b.pieces {
		out = append(out, p)
	}
	return out
}

// PiecesOf returns every piece belonging to owner.
func (b *Board) PiecesOf(owner position.Owner) []*Piece {
	out := make([]*Piece, 0)
	for _, p := range b.pieces {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out
}

// Place installs piece at its Pos, replacing any occupant (invariant: exactly
// one piece per square — placing replaces). Returns the displaced piece, if
// any.
func (b *Board) Place(p *Piece) *Piece {
	var displaced *Piece
	if existingID, ok := b.pieceAt[p.Pos]; ok {
		displaced = b.pieces[existingID]
		delete(b.pieces, existingID)
	}
	b.pieceAt[p.Pos] = p.ID
	b.pieces[p.ID] = p
	return displaced
}

// PlaceIfEmpty places p only if its square is empty; returns false if
// occupied. Used by the `create` action per the documented default for the
// open question "create at an occupied square" (see DESIGN.md).
func (b *Board) PlaceIfEmpty(p *Piece) bool {
	if _, occupied := b.pieceAt[p.Pos]; occupied {
		return false
	}
	b.pieceAt[p.Pos] = p.ID
	b.pieces[p.ID] = p
	return true
}

// Remove deletes the piece at p, if any, and returns it.
func (b *Board) Remove(p position.Position) *Piece {
	id, ok := b.pieceAt[p]
	if !ok {
		return nil
	}
	piece := b.pieces[id]
	delete(b.pieceAt, p)
	delete(b.pieces, id)
	return piece
}

// RemoveByID deletes a piece wherever it sits, by id.
func (b *Board) RemoveByID(id PieceID) *Piece {
	piece, ok := b.pieces[id]
	if !ok {
		return nil
	}
	delete(b.pieceAt, piece.Pos)
	delete(b.pieces, id)
	return piece
}

// Move relocates a piece's position without touching any occupant at dest
// (callers must resolve captures first). It is a programmer error to move
// onto an occupied square; this panics to surface the bug immediately,
// consistent with spec.md §9 ("internal helpers may still unwind when a
// programmer bug is detected").
func (b *Board) Move(id PieceID, to position.Position) {
	piece, ok := b.pieces[id]
	if !ok {
		panic(fmt.Sprintf("board: move of unknown piece id %d", id))
	}
	if occ, ok := b.pieceAt[to]; ok && occ != id {
		panic(fmt.Sprintf("board: move to occupied square %s", to))
	}
	delete(b.pieceAt, piece.Pos)
	piece.Pos = to
	b.pieceAt[to] = id
}

// Effects returns the effects attached to p.
func (b *Board) Effects(p position.Position) []*Effect {
	return b.effects[p]
}

// Mark attaches a new effect to p and returns its id.
func (b *Board) Mark(p position.Position, effectType string, blocks Blocks, owner position.Owner, duration int) EffectID {
	b.nextEffectID++
	e := &Effect{ID: b.nextEffectID, Type: effectType, Blocks: blocks, Owner: owner, Duration: duration}
	b.effects[p] = append(b.effects[p], e)
	return e.ID
}

// RemoveEffect removes a specific effect instance from p.
func (b *Board) RemoveEffect(p position.Position, id EffectID) {
	list := b.effects[p]
	for i, e := range list {
		if e.ID == id {
			b.effects[p] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// TickEffects decrements duration on every effect and removes those that
// reach zero. Permanent effects carry Duration < 0 and are left alone.
func (b *Board) TickEffects() {
	for p, list := range b.effects {
		kept := list[:0]
		for _, e := range list {
			if e.Duration > 0 {
				e.Duration--
			}
			if e.Duration == 0 {
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(b.effects, p)
		} else {
			b.effects[p] = kept
		}
	}
}

// DefineZone (re)defines a named zone as the given set of squares.
func (b *Board) DefineZone(name string, squares []position.Position) {
	set := make(map[position.Position]bool, len(squares))
	for _, s := range squares {
		set[s] = true
	}
	b.zones[name] = set
}

// InZone reports whether p belongs to the named zone. An undeclared zone
// contains no squares.
func (b *Board) InZone(name string, p position.Position) bool {
	return b.zones[name][p]
}

// ZoneNames lists declared zones, for iteration by action ranges like
// `in zone.name`.
func (b *Board) ZoneNames() []string {
	out := make([]string, 0, len(b.zones))
	for name := range b.zones {
		out = append(out, name)
	}
	return out
}

// ZoneSquares returns the squares belonging to a named zone.
func (b *Board) ZoneSquares(name string) []position.Position {
	set := b.zones[name]
	out := make([]position.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// Clone returns a deep copy of the board, used by the engine to evaluate a
// hypothetical move without mutating live state.
func (b *Board) Clone() *Board {
	nb := New(b.Width, b.Height)
	for pos, id := range b.pieceAt {
		nb.pieceAt[pos] = id
	}
	for id, p := range b.pieces {
		nb.pieces[id] = p.Clone()
	}
	for pos, list := range b.effects {
		cloned := make([]*Effect, len(list))
		for i, e := range list {
			cloned[i] = e.Clone()
		}
		nb.effects[pos] = cloned
	}
	for name, set := range b.zones {
		cp := make(map[position.Position]bool, len(set))
		for p, v := range set {
			cp[p] = v
		}
		nb.zones[name] = cp
	}
	nb.nextEffectID = b.nextEffectID
	return nb
}

// Bijective reports whether the piece index exactly matches the set of
// squares carrying a piece (testable property #1 from spec.md §8).
func (b *Board) Bijective() bool {
	if len(b.pieceAt) != len(b.pieces) {
		return false
	}
	for pos, id := range b.pieceAt {
		p, ok := b.pieces[id]
		if !ok || p.Pos != pos {
			return false
		}
	}
	return true
}

// pieceLetters maps the standard 8x8 piece type names to FEN letters.
var pieceLetters = map[string]byte{
	"Pawn": 'p', "Knight": 'n', "Bishop": 'b', "Rook": 'r', "Queen": 'q', "King": 'k',
}
var letterToPieceType = map[byte]string{
	'p': "Pawn", 'n': "Knight", 'b': "Bishop", 'r': "Rook", 'q': "Queen", 'k': "King",
}

// FEN renders the 8x8 subset of the board as a FEN piece-placement string
// (spec.md §6: "used for the standard initial position and for debugging
// dumps; it is not a general variant serialization"). Boards of other
// dimensions produce a best-effort rank-by-rank dump of the first 8 files.
func (b *Board) FEN() string {
	var ranks []string
	top := b.Height - 1
	limit := 8
	if b.Height < limit {
		limit = b.Height
	}
	for r := top; r > top-limit; r-- {
		var sb strings.Builder
		empty := 0
		filesToWrite := 8
		if b.Width < filesToWrite {
			filesToWrite = b.Width
		}
		for f := 0; f < filesToWrite; f++ {
			p := b.PieceAt(position.Position{File: f, Rank: r})
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			letter, ok := pieceLetters[p.Type]
			if !ok {
				letter = '?'
			}
			if p.Owner == position.White {
				letter = byte(strings.ToUpper(string(letter))[0])
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		ranks = append(ranks, sb.String())
	}
	return strings.Join(ranks, "/")
}

// LoadFEN populates an empty 8x8 board from a FEN piece-placement field.
func LoadFEN(fen string) (*Board, error) {
	ranks := strings.Split(strings.TrimSpace(fen), "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("board: FEN must have 8 ranks, got %d", len(ranks))
	}
	b := New(8, 8)
	nextID := PieceID(1)
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			lower := byte(c)
			if c >= 'A' && c <= 'Z' {
				lower = byte(c - 'A' + 'a')
			}
			typ, ok := letterToPieceType[lower]
			if !ok {
				return nil, fmt.Errorf("board: unknown FEN piece letter %q", c)
			}
			owner := position.Black
			if c >= 'A' && c <= 'Z' {
				owner = position.White
			}
			if file >= 8 {
				return nil, fmt.Errorf("board: FEN rank %d overflows 8 files", i)
			}
			pos := position.Position{File: file, Rank: rank}
			b.Place(&Piece{ID: nextID, Type: typ, Owner: owner, Pos: pos, Traits: map[string]bool{}, State: map[string]any{}})
			nextID++
			file++
		}
	}
	log.Debug("loaded board from FEN", "fen", fen, "pieces", len(b.pieces))
	return b, nil
}
