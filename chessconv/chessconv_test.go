package chessconv

import (
	"strings"
	"testing"

	"github.com/walterschell/chesslang/compiler"
	"github.com/walterschell/chesslang/engine"
	"github.com/walterschell/chesslang/parser"
)

func standardGame(t *testing.T) (*engine.Engine, *compiler.Game) {
	t.Helper()
	g, err := compiler.StandardChess()
	if err != nil {
		t.Fatalf("StandardChess: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	e, err := engine.New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, cg
}

func TestIsStandardCompatible(t *testing.T) {
	_, cg := standardGame(t)
	if !IsStandardCompatible(cg) {
		t.Fatal("expected the embedded STANDARD_CHESS base to be standard-compatible")
	}
}

func TestIsStandardCompatibleRejectsVariant(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Atomic-ish\"\n" +
		"extends: \"StandardChess\"\n" +
		"board:\n" +
		"  width: 8\n" +
		"  height: 8\n" +
		"rules:\n" +
		"  castling: false\n"
	g, err := parser.Parse(src, "variant.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if IsStandardCompatible(cg) {
		t.Fatal("expected a game with castling disabled to be rejected")
	}
}

func TestFENInitialPosition(t *testing.T) {
	e, _ := standardGame(t)
	fen := FEN(e)
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		t.Fatalf("expected 6 FEN fields, got %d: %q", len(fields), fen)
	}
	if fields[1] != "w" {
		t.Fatalf("expected White to move initially, got %q", fields[1])
	}
	if fields[2] != "KQkq" {
		t.Fatalf("expected full castling rights initially, got %q", fields[2])
	}
	if fields[3] != "-" {
		t.Fatalf("expected no en passant target initially, got %q", fields[3])
	}
	if fields[4] != "0" || fields[5] != "1" {
		t.Fatalf("expected halfmove 0 / fullmove 1 initially, got %q/%q", fields[4], fields[5])
	}
}

func TestFENAfterDoubleStepSetsEnPassant(t *testing.T) {
	e, _ := standardGame(t)
	if _, err := e.MakeMoveAlgebraic("e2", "e4", ""); err != nil {
		t.Fatalf("MakeMoveAlgebraic: %v", err)
	}
	fields := strings.Fields(FEN(e))
	if fields[1] != "b" {
		t.Fatalf("expected Black to move, got %q", fields[1])
	}
	if fields[3] != "e3" {
		t.Fatalf("expected en passant target e3, got %q", fields[3])
	}
}

func TestToStandardPositionRejectsNonCompatibleGame(t *testing.T) {
	src := "" +
		"game:\n" +
		"  name: \"Custom\"\n" +
		"board:\n" +
		"  width: 5\n" +
		"  height: 5\n" +
		"piece King:\n" +
		"  move: step(orthogonal)\n" +
		"  capture: same\n" +
		"  traits: [king, royal]\n" +
		"setup:\n" +
		"  add:\n" +
		"    King at a1 White\n" +
		"    King at e5 Black\n"
	g, err := parser.Parse(src, "custom.chesslang")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cg, err := compiler.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	e, err := engine.New(cg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ToStandardPosition(e, cg); err == nil {
		t.Fatal("expected an error for a non-standard-compatible game")
	}
}
