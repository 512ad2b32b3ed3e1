package parser

import (
	"testing"

	"github.com/walterschell/chesslang/ast"
)

func TestParseMinimalGame(t *testing.T) {
	src := "game:\n  name: \"Test Game\"\nboard:\n  width: 8\n  height: 8\n"
	g, err := Parse(src, "test.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Name != "Test Game" {
		t.Errorf("Name = %q, want Test Game", g.Name)
	}
	if g.Board.Width != 8 || g.Board.Height != 8 {
		t.Errorf("Board = %+v", g.Board)
	}
}

func TestParsePieceWithPatternAndTrigger(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Custom\"\n" +
		"piece Knight:\n" +
		"  move: leap(1, 2)\n" +
		"  capture: same\n" +
		"  traits: [jumper]\n" +
		"  trigger onLand on move:\n" +
		"    do:\n" +
		"      set piece.state.moved = true\n"
	g, err := Parse(src, "test.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(g.Pieces) != 1 {
		t.Fatalf("Pieces = %d, want 1", len(g.Pieces))
	}
	piece := g.Pieces[0]
	if piece.Name != "Knight" {
		t.Errorf("piece name = %q", piece.Name)
	}
	leap, ok := piece.Move.(ast.Leap)
	if !ok {
		t.Fatalf("Move type = %T, want ast.Leap", piece.Move)
	}
	if leap.DX != 1 || leap.DY != 2 {
		t.Errorf("Leap = %+v", leap)
	}
	if piece.CaptureSpecial != ast.CaptureSame {
		t.Errorf("CaptureSpecial = %v, want CaptureSame", piece.CaptureSpecial)
	}
	if len(piece.Traits) != 1 || piece.Traits[0] != "jumper" {
		t.Errorf("Traits = %v", piece.Traits)
	}
	if len(piece.Triggers) != 1 {
		t.Fatalf("Triggers = %d, want 1", len(piece.Triggers))
	}
	tr := piece.Triggers[0]
	if tr.On != ast.OnMove {
		t.Errorf("trigger On = %v, want OnMove", tr.On)
	}
	if len(tr.Actions) != 1 {
		t.Fatalf("Actions = %d, want 1", len(tr.Actions))
	}
	set, ok := tr.Actions[0].(ast.Set)
	if !ok {
		t.Fatalf("Action type = %T, want ast.Set", tr.Actions[0])
	}
	if set.Op != ast.AssignSet {
		t.Errorf("Set.Op = %v", set.Op)
	}
}

func TestParsePatternWithWhereAndComposite(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Custom\"\n" +
		"piece Pawn:\n" +
		"  move: step(forward) where empty\n" +
		"  capture: step(forward, 1) | slide(diagonal) where enemy and not first_move\n"
	g, err := Parse(src, "test.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	piece := g.Pieces[0]
	cond, ok := piece.Move.(ast.Conditional)
	if !ok {
		t.Fatalf("Move type = %T, want ast.Conditional", piece.Move)
	}
	if _, ok := cond.Condition.(ast.Empty); !ok {
		t.Errorf("Move condition = %T, want ast.Empty", cond.Condition)
	}
	comp, ok := piece.Capture.(ast.Composite)
	if !ok {
		t.Fatalf("Capture type = %T, want ast.Composite", piece.Capture)
	}
	if comp.Op != ast.CompositeOr || len(comp.Patterns) != 2 {
		t.Errorf("Capture composite = %+v", comp)
	}
}

func TestParseSetupVictoryDraw(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Custom\"\n" +
		"setup:\n" +
		"  King at e1 White\n" +
		"  King at e8 Black\n" +
		"victory:\n" +
		"  checkmate: check and not empty winner: opponent\n" +
		"draw:\n" +
		"  stalemate: not check reason: \"stalemate\"\n"
	g, err := Parse(src, "test.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(g.Setup.Placements) != 2 {
		t.Fatalf("Placements = %d, want 2", len(g.Setup.Placements))
	}
	if len(g.Victory) != 1 || g.Victory[0].Name != "checkmate" {
		t.Fatalf("Victory = %+v", g.Victory)
	}
	if !g.Victory[0].HasWinner || g.Victory[0].Winner != ast.PlayerOpponent {
		t.Errorf("Victory winner = %+v", g.Victory[0])
	}
	if len(g.Draw) != 1 || g.Draw[0].Reason != "stalemate" {
		t.Fatalf("Draw = %+v", g.Draw)
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse("piece:\n", "bad.chesslang")
	if err == nil {
		t.Fatal("expected parse error")
	}
}
