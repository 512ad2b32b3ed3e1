package compiler

import (
	"testing"

	"github.com/walterschell/chesslang/parser"
)

func TestStandardChessCompiles(t *testing.T) {
	g, err := StandardChess()
	if err != nil {
		t.Fatalf("StandardChess: %v", err)
	}
	if len(g.Pieces) != 6 {
		t.Fatalf("expected 6 piece types, got %d", len(g.Pieces))
	}
	if g.Setup == nil || len(g.Setup.Placements) != 32 {
		t.Fatalf("expected 32 setup placements, got %+v", g.Setup)
	}
}

func TestCompileExtendsStandardChess(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"King of the Hill\"\n" +
		"extends: \"StandardChess\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"  zones:\n" +
		"    hill: [d4, d5, e4, e5]\n" +
		"victory:\n" +
		"  add:\n" +
		"    hill_victory: in_zone(\"hill\") winner: opponent\n"
	g, err := parser.Parse(src, "koth.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	compiled, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(compiled.Pieces) != 6 {
		t.Fatalf("expected inherited pieces, got %d", len(compiled.Pieces))
	}
	if len(compiled.Victory) != 2 {
		t.Fatalf("expected checkmate + hill_victory, got %d: %+v", len(compiled.Victory), compiled.Victory)
	}
	foundHill := false
	for _, vc := range compiled.Victory {
		if vc.Name == "hill_victory" {
			foundHill = true
		}
	}
	if !foundHill {
		t.Error("expected hill_victory condition to be present")
	}
	if compiled.Board.Zones["hill"] == nil {
		t.Error("expected hill zone to be merged into board")
	}
}

func TestCompileUndeclaredSetupPieceFails(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Bad\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"setup:\n" +
		"  Wizard at e4 White\n"
	g, err := parser.Parse(src, "bad.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Compile(g); err == nil {
		t.Fatal("expected compile error for undeclared piece type")
	}
}
