package engine

import (
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/position"
)

// MoveKind distinguishes a plain move/capture from the engine-level special
// moves that the DSL's pattern/action vocabulary cannot express on its own
// (spec.md §4.6: "castling, en-passant... encoded as hard-wired patterns").
type MoveKind int

const (
	MoveNormal MoveKind = iota
	MoveCastleKingside
	MoveCastleQueenside
	MoveEnPassant
)

// Move is a single legal move as returned by GetLegalMoves and accepted by
// MakeMove. Promotion names the destination piece type when a pawn (or any
// piece with promote_to) reaches the far rank; empty otherwise.
type Move struct {
	PieceID   board.PieceID
	From      position.Position
	To        position.Position
	Kind      MoveKind
	Promotion string
}

// Algebraic renders a move in the bare from-to notation used by
// MakeMoveAlgebraic and the end-to-end scenarios in spec.md §8 (e.g.
// "e2e4", "e7e8q" for a queen promotion).
func (m Move) Algebraic() string {
	s := m.From.Algebraic() + m.To.Algebraic()
	if m.Promotion != "" {
		s += string(promotionLetter(m.Promotion))
	}
	return s
}

func movesEqual(a, b Move) bool {
	return a.PieceID == b.PieceID && a.From == b.From && a.To == b.To && a.Promotion == b.Promotion
}

// Result is the terminal outcome of a game: either a winner or a draw.
type Result struct {
	Winner position.Owner
	Draw   bool
	Reason string
}

// PendingTrigger is one queued optional-trigger decision, surfaced for a UI
// to prompt the player (spec.md §4.6: "PendingOptionalTrigger { triggerId,
// triggerName, description }").
type PendingTrigger struct {
	ID          int
	TriggerName string
	Description string
}

// GameState is the externally visible snapshot returned by GetState.
type GameState struct {
	Turn        position.Owner
	Result      *Result
	Pending     []PendingTrigger
	Ply         int
	CustomState map[string]any // game-level `state.*` store (spec.md §3 GameState, "custom state")
}

// MakeMoveOutcome is returned by MakeMove: either the move completed (and
// may have set a Result), or it paused with a non-empty pending queue.
type MakeMoveOutcome struct {
	Success bool
	Pending bool
	Result  *Result
}
