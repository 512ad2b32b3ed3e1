// Package engine drives one ChessLang game instance: it owns the runtime
// board, the compiled game definition, the undo stack, and the pending
// optional-trigger queue, and exposes the synchronous state-machine surface
// described in spec.md §4.6 (getState, getBoard, getLegalMoves, makeMove,
// undoMove, executeOptionalTrigger, skipOptionalTrigger,
// getPendingOptionalTriggers, hasPendingOptionalTriggers, reset).
package engine

import (
	"log/slog"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/compiler"
	"github.com/walterschell/chesslang/position"
)

var log = slog.Default().With("package", "engine")

// Engine runs one game: the compiled Game is treated as immutable and may
// be shared across instances (spec.md §5), but Board and the rest of this
// struct are owned exclusively by this Engine.
type Engine struct {
	game      *compiler.Game
	pieceDefs map[string]ast.PieceDecl

	board     *board.Board
	turn      position.Owner
	result    *Result
	ply       int
	nextPiece board.PieceID

	halfmove       int
	positionCounts map[string]int
	enPassant      *position.Position

	// customState backs every bare `state.*` access (spec.md §3 GameState's
	// "custom state", §4.4's `state` binding) — distinct from a piece's own
	// state, which lives on board.Piece.State.
	customState map[string]any

	history            []undoRecord
	pending            []PendingTrigger
	pendingTriggerBody []pendingBody
	nextPendingID      int
	resumeSteps        []stepEntry

	legalCache map[position.Owner][]Move

	scripts []compiledScript
}

// New builds an Engine from a compiled Game, placing the initial setup.
func New(g *compiler.Game) (*Engine, error) {
	e := &Engine{game: g}
	e.pieceDefs = make(map[string]ast.PieceDecl, len(g.Pieces))
	for _, pd := range g.Pieces {
		e.pieceDefs[pd.Name] = pd
	}
	scripts, err := compileScripts(g.Scripts)
	if err != nil {
		return nil, err
	}
	e.scripts = scripts
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset rebuilds the starting state from game.setup (spec.md §4.6).
func (e *Engine) Reset() error {
	w, h := 8, 8
	if e.game.Board != nil {
		w, h = e.game.Board.Width, e.game.Board.Height
	}
	b := board.New(w, h)
	if e.game.Board != nil {
		for name, squares := range e.game.Board.Zones {
			var ps []position.Position
			for _, sq := range squares {
				p, err := position.ParseAlgebraic(sq)
				if err != nil {
					return errf("zone %q: %v", name, err)
				}
				ps = append(ps, p)
			}
			b.DefineZone(name, ps)
		}
	}
	if e.game.Setup != nil {
		for _, pl := range e.game.Setup.Placements {
			pos, err := position.ParseAlgebraic(pl.Square)
			if err != nil {
				return errf("setup placement %q: %v", pl.Square, err)
			}
			owner := position.White
			if pl.Owner == "Black" {
				owner = position.Black
			}
			def := e.pieceDefs[pl.PieceType]
			p := &board.Piece{
				ID:     e.allocPieceID(),
				Type:   pl.PieceType,
				Owner:  owner,
				Pos:    pos,
				Traits: traitSet(def.Traits),
				State:  initialState(def),
			}
			b.Place(p)
		}
	}
	e.board = b
	e.turn = position.White
	e.result = nil
	e.ply = 0
	e.halfmove = 0
	e.enPassant = nil
	e.positionCounts = map[string]int{}
	e.customState = map[string]any{}
	e.history = nil
	e.pending = nil
	e.pendingTriggerBody = nil
	e.nextPendingID = 0
	e.resumeSteps = nil
	e.legalCache = nil
	e.notePosition()
	return nil
}

func (e *Engine) allocPieceID() board.PieceID {
	e.nextPiece++
	return board.PieceID(e.nextPiece)
}

// NextPieceID implements trigger.Host, handing out fresh ids for `create`
// actions.
func (e *Engine) NextPieceID() board.PieceID {
	return e.allocPieceID()
}

// EffectDecl implements trigger.Host, resolving an effect name to its
// declaration for `mark ... with Name`.
func (e *Engine) EffectDecl(name string) (ast.EffectDecl, bool) {
	for _, ed := range e.game.Effects {
		if ed.Name == name {
			return ed, true
		}
	}
	return ast.EffectDecl{}, false
}

func traitSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func initialState(def ast.PieceDecl) map[string]any {
	out := make(map[string]any, len(def.InitialState))
	for k, v := range def.InitialState {
		out[k] = v
	}
	return out
}

// GetState returns a snapshot of the engine's externally visible state.
func (e *Engine) GetState() GameState {
	pending := make([]PendingTrigger, len(e.pending))
	copy(pending, e.pending)
	custom := make(map[string]any, len(e.customState))
	for k, v := range e.customState {
		custom[k] = v
	}
	return GameState{Turn: e.turn, Result: e.result, Pending: pending, Ply: e.ply, CustomState: custom}
}

// GetBoard returns the live board. Callers must not mutate it directly;
// all mutation is expected to flow through Engine methods (spec.md §5).
func (e *Engine) GetBoard() *board.Board {
	return e.board
}

// GetPendingOptionalTriggers lists queued optional-trigger decisions.
func (e *Engine) GetPendingOptionalTriggers() []PendingTrigger {
	out := make([]PendingTrigger, len(e.pending))
	copy(out, e.pending)
	return out
}

// HasPendingOptionalTriggers reports whether a decision is awaited.
func (e *Engine) HasPendingOptionalTriggers() bool {
	return len(e.pending) > 0
}
