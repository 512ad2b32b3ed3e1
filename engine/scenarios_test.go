package engine

import (
	"testing"

	"github.com/walterschell/chesslang/compiler"
	"github.com/walterschell/chesslang/parser"
	"github.com/walterschell/chesslang/position"
)

// TestKingOfTheHillZoneVictory exercises a zone-based victory condition
// triggered as a side effect of an ordinary move (spec.md §8 scenario 2).
func TestKingOfTheHillZoneVictory(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"King of the Hill\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"  zones:\n" +
		"    hill: [d4, d5, e4, e5]\n" +
		"piece King:\n" +
		"  move: step(orthogonal) | step(diagonal)\n" +
		"  capture: same\n" +
		"  traits: [king, royal]\n" +
		"trigger kingReachesHill on move when piece.type == \"King\" and in_zone(\"hill\"):\n" +
		"  do:\n" +
		"    win\n" +
		"setup:\n" +
		"  add:\n" +
		"    King at d3 White\n" +
		"    King at h8 Black\n"
	g, err := parser.Parse(src, "koth.chesslang")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e, err := New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	outcome, err := e.MakeMoveAlgebraic("d3", "d4", "")
	if err != nil {
		t.Fatalf("MakeMoveAlgebraic: %v", err)
	}
	if outcome.Result == nil {
		t.Fatal("expected the King's entry into the hill to end the game")
	}
	if outcome.Result.Winner != position.White {
		t.Fatalf("expected White to win by reaching the hill, got %+v", outcome.Result)
	}
}

// TestThreeCheckVictory exercises the engine-owned custom-state store
// (spec.md §3 GameState, §8 scenario 3): a top-level trigger tallies checks
// into `state.checkCount`, and a victory condition reads it back.
func TestThreeCheckVictory(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Three-Check\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"piece King:\n" +
		"  move: step(orthogonal) | step(diagonal)\n" +
		"  capture: same\n" +
		"  traits: [king, royal]\n" +
		"piece Rook:\n" +
		"  move: slide(orthogonal)\n" +
		"  capture: same\n" +
		"  traits: [rook]\n" +
		"trigger tallyChecks on check:\n" +
		"  do:\n" +
		"    set state.checkCount += 1\n" +
		"victory:\n" +
		"  threeChecks: state.checkCount >= 3 winner: opponent\n" +
		"setup:\n" +
		"  add:\n" +
		"    King at h1 White\n" +
		"    Rook at a1 White\n" +
		"    King at e8 Black\n"
	g, err := parser.Parse(src, "threecheck.chesslang")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e, err := New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	moves := [][2]string{
		{"a1", "e1"}, {"e8", "d8"}, // 1st check (e-file), King escapes off the e-file
		{"e1", "d1"}, {"d8", "e8"}, // 2nd check (d-file), King escapes off the d-file
		{"d1", "e1"}, // 3rd check (e-file) - game should end here
	}
	var outcome *MakeMoveOutcome
	for i, mv := range moves {
		outcome, err = e.MakeMoveAlgebraic(mv[0], mv[1], "")
		if err != nil {
			t.Fatalf("move %d (%s%s): %v", i, mv[0], mv[1], err)
		}
	}
	if outcome.Result == nil {
		t.Fatal("expected the third check to end the game")
	}
	if outcome.Result.Winner != position.White {
		t.Fatalf("expected White (the side delivering the third check) to win, got %+v", outcome.Result)
	}
	state := e.GetState()
	if cc, _ := state.CustomState["checkCount"].(float64); cc != 3 {
		t.Fatalf("expected state.checkCount == 3, got %v", state.CustomState["checkCount"])
	}
}

// TestAtomicChessExplosion exercises a capture-triggered `remove radius`
// action (spec.md §8 scenario 4): capturing detonates every non-pawn piece
// adjacent to the captured square, in addition to the capture itself.
func TestAtomicChessExplosion(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Atomic Chess\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"piece King:\n" +
		"  move: step(orthogonal) | step(diagonal)\n" +
		"  capture: same\n" +
		"  traits: [king, royal]\n" +
		"piece Pawn:\n" +
		"  move: step(forward) where empty\n" +
		"  capture: step(forward_left) where enemy | step(forward_right) where enemy\n" +
		"  traits: [pawn]\n" +
		"piece Knight:\n" +
		"  move: leap(1,2)\n" +
		"  capture: same\n" +
		"  traits: [knight]\n" +
		"trigger explode on capture:\n" +
		"  do:\n" +
		"    remove radius(1) from target where type_not_in(Pawn)\n" +
		"setup:\n" +
		"  add:\n" +
		"    King at a1 White\n" +
		"    King at a8 Black\n" +
		"    Pawn at d4 White\n" +
		"    Pawn at e5 Black\n" +
		"    Knight at d5 White\n" +
		"    Knight at e4 Black\n"
	g, err := parser.Parse(src, "atomic.chesslang")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e, err := New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	countPieces := func() int {
		n := 0
		n += len(e.GetBoard().PiecesOf(position.White))
		n += len(e.GetBoard().PiecesOf(position.Black))
		return n
	}
	before := countPieces()
	if _, err := e.MakeMoveAlgebraic("d4", "e5", ""); err != nil {
		t.Fatalf("MakeMoveAlgebraic: %v", err)
	}
	after := countPieces()
	// The capturing Pawn takes e5 (1), the explosion clears the two
	// adjacent Knights on d5 and e4 (2 more) but spares both Pawns and both
	// Kings: at least 3 pieces should be gone from a starting 6.
	if before-after < 3 {
		t.Fatalf("expected at least 3 pieces removed by the explosion, went from %d to %d", before, after)
	}
	d5, _ := position.ParseAlgebraic("d5")
	e4, _ := position.ParseAlgebraic("e4")
	a1, _ := position.ParseAlgebraic("a1")
	if e.GetBoard().PieceAt(d5) != nil {
		t.Fatal("expected the Knight on d5 to be destroyed by the explosion")
	}
	if e.GetBoard().PieceAt(e4) != nil {
		t.Fatal("expected the Knight on e4 to be destroyed by the explosion")
	}
	if e.GetBoard().PieceAt(a1) == nil {
		t.Fatal("expected the far-away White King to survive the explosion")
	}
}

// TestOptionalTriggerExecuteAndSkip exercises the pending-optional-trigger
// queue (spec.md §4.5, §8 scenario 5): a move pauses on an `optional`
// trigger, a further move is rejected until it drains, and executing vs.
// skipping it has the expected effect on piece state.
func TestOptionalTriggerExecuteAndSkip(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Trapper\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"piece King:\n" +
		"  move: step(orthogonal) | step(diagonal)\n" +
		"  capture: same\n" +
		"  traits: [king, royal]\n" +
		"piece Trapper:\n" +
		"  move: step(orthogonal)\n" +
		"  capture: same\n" +
		"  traits: [trapper]\n" +
		"  state:\n" +
		"    traps: 0\n" +
		"  trigger layTrap on move optional:\n" +
		"    description: \"Lay a trap on the square just vacated\"\n" +
		"    do:\n" +
		"      set piece.state.traps += 1\n" +
		"setup:\n" +
		"  add:\n" +
		"    King at a1 White\n" +
		"    Trapper at d4 White\n" +
		"    King at a8 Black\n"
	g, err := parser.Parse(src, "trapper.chesslang")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e, err := New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	outcome, err := e.MakeMoveAlgebraic("d4", "d5", "")
	if err != nil {
		t.Fatalf("MakeMoveAlgebraic: %v", err)
	}
	if !outcome.Pending {
		t.Fatalf("expected the move to pause on the optional trigger, got %+v", outcome)
	}
	if !e.HasPendingOptionalTriggers() {
		t.Fatal("expected a pending optional trigger")
	}
	if _, err := e.MakeMoveAlgebraic("a1", "a2", ""); err == nil {
		t.Fatal("expected a move to be rejected while an optional trigger is pending")
	}
	pending := e.GetPendingOptionalTriggers()
	if len(pending) != 1 || pending[0].TriggerName != "layTrap" {
		t.Fatalf("expected one pending layTrap trigger, got %+v", pending)
	}
	if _, err := e.ExecuteOptionalTrigger(pending[0].ID); err != nil {
		t.Fatalf("ExecuteOptionalTrigger: %v", err)
	}
	d5, _ := position.ParseAlgebraic("d5")
	trapper := e.GetBoard().PieceAt(d5)
	if trapper == nil {
		t.Fatal("expected the Trapper to still be on d5")
	}
	if traps, _ := trapper.State["traps"].(float64); traps != 1 {
		t.Fatalf("expected piece.state.traps == 1 after executing the trigger, got %v", trapper.State["traps"])
	}

	// Black moves before White's Trapper can move again.
	if outcome, err = e.MakeMoveAlgebraic("a8", "b7", ""); err != nil {
		t.Fatalf("MakeMoveAlgebraic (Black): %v", err)
	}
	if outcome.Pending {
		t.Fatalf("did not expect Black's move to queue an optional trigger, got %+v", outcome)
	}

	// Move again and this time skip the optional trigger: traps stays put.
	outcome, err = e.MakeMoveAlgebraic("d5", "d4", "")
	if err != nil {
		t.Fatalf("MakeMoveAlgebraic: %v", err)
	}
	if !outcome.Pending {
		t.Fatalf("expected the second move to pause again, got %+v", outcome)
	}
	pending = e.GetPendingOptionalTriggers()
	if len(pending) != 1 {
		t.Fatalf("expected one pending trigger, got %+v", pending)
	}
	if _, err := e.SkipOptionalTrigger(pending[0].ID); err != nil {
		t.Fatalf("SkipOptionalTrigger: %v", err)
	}
	d4, _ := position.ParseAlgebraic("d4")
	trapper = e.GetBoard().PieceAt(d4)
	if trapper == nil {
		t.Fatal("expected the Trapper to be on d4 after the second move")
	}
	if traps, _ := trapper.State["traps"].(float64); traps != 1 {
		t.Fatalf("expected piece.state.traps to remain 1 after skipping, got %v", trapper.State["traps"])
	}
}

// TestSuperKnightInheritance exercises extends + setup:replace (spec.md §8
// scenario 6): a variant built on StandardChess swaps every Knight for a
// SuperKnight and keeps the rest of the base game intact.
func TestSuperKnightInheritance(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"SuperKnight Chess\"\n" +
		"extends: \"StandardChess\"\n" +
		"piece SuperKnight:\n" +
		"  move: leap(1,2) | step(orthogonal)\n" +
		"  capture: same\n" +
		"  traits: [jump, super, enhanced]\n" +
		"setup:\n" +
		"  replace:\n" +
		"    Knight: SuperKnight\n"
	g, err := parser.Parse(src, "superknight.chesslang")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e, err := New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var knights []string
	for _, owner := range []position.Owner{position.White, position.Black} {
		for _, p := range e.GetBoard().PiecesOf(owner) {
			if p.Type == "SuperKnight" {
				knights = append(knights, p.Type)
				for _, tr := range []string{"jump", "super", "enhanced"} {
					if !p.HasTrait(tr) {
						t.Fatalf("expected SuperKnight to carry trait %q", tr)
					}
				}
			}
		}
	}
	if len(knights) != 4 {
		t.Fatalf("expected 4 SuperKnight pieces (2 per side), got %d", len(knights))
	}
	// The rest of the base game survives the merge: White still has legal
	// opening moves after the Knight -> SuperKnight swap.
	moves := e.GetLegalMoves(position.White)
	if len(moves) == 0 {
		t.Fatal("expected legal opening moves to remain after the SuperKnight merge")
	}
}
