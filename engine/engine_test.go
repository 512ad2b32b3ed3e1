package engine

import (
	"testing"

	"github.com/walterschell/chesslang/compiler"
	"github.com/walterschell/chesslang/parser"
	"github.com/walterschell/chesslang/position"
)

func standardEngine(t *testing.T) *Engine {
	t.Helper()
	ast, err := compiler.StandardChess()
	if err != nil {
		t.Fatalf("StandardChess: %v", err)
	}
	cg, err := compiler.Compile(ast)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	e, err := New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestOpeningMoveCount(t *testing.T) {
	e := standardEngine(t)
	moves := e.GetLegalMoves(position.White)
	if len(moves) != 20 {
		t.Fatalf("expected 20 legal opening moves for White, got %d", len(moves))
	}
}

func TestMakeMoveAndUndoRoundTrip(t *testing.T) {
	e := standardEngine(t)
	before := e.GetState()
	outcome, err := e.MakeMoveAlgebraic("e2", "e4", "")
	if err != nil {
		t.Fatalf("MakeMoveAlgebraic: %v", err)
	}
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if e.GetState().Turn != position.Black {
		t.Fatalf("expected turn to pass to Black, got %v", e.GetState().Turn)
	}
	sq, ok := e.EnPassantSquare()
	if !ok || sq != "e3" {
		t.Fatalf("expected en passant target e3, got %q (%v)", sq, ok)
	}
	if !e.UndoMove() {
		t.Fatal("expected UndoMove to succeed")
	}
	after := e.GetState()
	if after.Turn != before.Turn || after.Ply != before.Ply {
		t.Fatalf("expected state to be restored, got %+v want %+v", after, before)
	}
	if _, ok := e.EnPassantSquare(); ok {
		t.Fatal("expected en passant target to be cleared after undo")
	}
}

func TestUndoOnFreshEngineFails(t *testing.T) {
	e := standardEngine(t)
	if e.UndoMove() {
		t.Fatal("expected UndoMove on a fresh engine to report false")
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	e := standardEngine(t)
	if _, err := e.MakeMoveAlgebraic("e2", "e5", ""); err == nil {
		t.Fatal("expected an error for an illegal pawn jump")
	}
}

// TestFoolsMate drives the fastest standard checkmate to exercise
// checkmate detection end to end.
func TestFoolsMate(t *testing.T) {
	e := standardEngine(t)
	moves := [][2]string{
		{"f2", "f3"}, {"e7", "e5"},
		{"g2", "g4"}, {"d8", "h4"},
	}
	var outcome *MakeMoveOutcome
	var err error
	for _, mv := range moves {
		outcome, err = e.MakeMoveAlgebraic(mv[0], mv[1], "")
		if err != nil {
			t.Fatalf("move %s%s: %v", mv[0], mv[1], err)
		}
	}
	if outcome.Result == nil {
		t.Fatal("expected a terminal result after fool's mate")
	}
	if outcome.Result.Winner != position.Black {
		t.Fatalf("expected Black to win, got %+v", outcome.Result)
	}
}

func TestPromotion(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Promotion Test\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"piece Pawn:\n" +
		"  move: step(forward) where empty\n" +
		"  capture: none\n" +
		"  traits: [pawn]\n" +
		"  promote_to: [Queen]\n" +
		"piece Queen:\n" +
		"  move: slide(orthogonal) | slide(diagonal)\n" +
		"  capture: same\n" +
		"  traits: [queen]\n" +
		"piece King:\n" +
		"  move: step(orthogonal) | step(diagonal)\n" +
		"  capture: same\n" +
		"  traits: [king, royal]\n" +
		"setup:\n" +
		"  add:\n" +
		"    King at e1 White\n" +
		"    King at e8 Black\n" +
		"    Pawn at a7 White\n"
	g, err := parser.Parse(src, "promotion.chesslang")
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
	moves := e.GetLegalMoves(position.White)
	found := false
	for _, m := range moves {
		if m.To.Algebraic() == "a8" && m.Promotion == "Queen" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a promotion-to-Queen move among %+v", moves)
	}
	outcome, err := e.MakeMoveAlgebraic("a7", "a8", "Queen")
	if err != nil {
		t.Fatalf("MakeMoveAlgebraic: %v", err)
	}
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	a8, err := position.ParseAlgebraic("a8")
	if err != nil {
		t.Fatalf("ParseAlgebraic: %v", err)
	}
	promoted := e.GetBoard().PieceAt(a8)
	if promoted == nil || promoted.Type != "Queen" {
		t.Fatalf("expected a Queen on a8, got %+v", promoted)
	}
}
