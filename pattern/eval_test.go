package pattern

import (
	"sort"
	"testing"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/position"
)

func squares(ps []position.Position) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Algebraic()
	}
	sort.Strings(out)
	return out
}

func newTestBoard() (*board.Board, *board.Piece) {
	b := board.New(8, 8)
	knight := &board.Piece{ID: 1, Type: "Knight", Owner: position.White, Pos: position.Position{File: 3, Rank: 3}, Traits: map[string]bool{}, State: map[string]any{}}
	b.Place(knight)
	return b, knight
}

func TestLeapCandidates(t *testing.T) {
	b, knight := newTestBoard()
	ctx := Context{Board: b, Piece: knight}
	got := Candidates(ast.Leap{DX: 1, DY: 2}, ctx, ModeMove)
	want := []string{"b3", "b5", "c2", "c6", "e2", "e6", "f3", "f5"}
	gotSorted := squares(got)
	if len(gotSorted) != len(want) {
		t.Fatalf("got %v, want %v", gotSorted, want)
	}
	for i := range want {
		if gotSorted[i] != want[i] {
			t.Errorf("got %v, want %v", gotSorted, want)
			break
		}
	}
}

func TestSlideStopsAtOccupied(t *testing.T) {
	b, rook := newTestBoard()
	rook.Type = "Rook"
	blocker := &board.Piece{ID: 2, Type: "Pawn", Owner: position.White, Pos: position.Position{File: 3, Rank: 6}, Traits: map[string]bool{}, State: map[string]any{}}
	b.Place(blocker)
	ctx := Context{Board: b, Piece: rook}
	got := Candidates(ast.Slide{Direction: position.North}, ctx, ModeMove)
	want := []string{"d5", "d6", "d7"}
	gotSorted := squares(got)
	if len(gotSorted) != len(want) {
		t.Fatalf("got %v, want %v", gotSorted, want)
	}
}

func TestConditionalWhereEmpty(t *testing.T) {
	b, pawn := newTestBoard()
	pawn.Type = "Pawn"
	ctx := Context{Board: b, Piece: pawn}
	pat := ast.Conditional{Pattern: ast.Step{Direction: position.North, Distance: 1}, Condition: ast.Empty{}}
	got := Candidates(pat, ctx, ModeMove)
	if len(got) != 1 || got[0].Algebraic() != "d5" {
		t.Fatalf("got %v", squares(got))
	}
	b.Place(&board.Piece{ID: 3, Type: "Pawn", Owner: position.Black, Pos: position.Position{File: 3, Rank: 4}, Traits: map[string]bool{}, State: map[string]any{}})
	got = Candidates(pat, ctx, ModeMove)
	if len(got) != 0 {
		t.Fatalf("expected blocked square to be filtered, got %v", squares(got))
	}
}

func TestCompositeAnd(t *testing.T) {
	b, piece := newTestBoard()
	ctx := Context{Board: b, Piece: piece}
	pat := ast.Composite{Op: ast.CompositeAnd, Patterns: []ast.Pattern{
		ast.Slide{Direction: position.North},
		ast.Slide{Direction: position.East},
	}}
	got := Candidates(pat, ctx, ModeMove)
	if len(got) != 0 {
		t.Fatalf("expected empty intersection of disjoint lines, got %v", squares(got))
	}
}

func TestEvalExprMemberChain(t *testing.T) {
	b, piece := newTestBoard()
	piece.State["moved"] = true
	ctx := Context{Board: b, Piece: piece}
	expr := ast.Binary{
		Op:   ast.OpEq,
		Left: ast.Member{Target: ast.Member{Target: ast.Ident{Name: "piece"}, Field: "state"}, Field: "moved"},
		Right: ast.Literal{Value: true},
	}
	if got := EvalExpr(expr, ctx); got != true {
		t.Errorf("EvalExpr = %v, want true", got)
	}
}

func TestEvalConditionFirstMove(t *testing.T) {
	b, piece := newTestBoard()
	ctx := Context{Board: b, Piece: piece}
	if !EvalCondition(ast.FirstMove{}, ctx) {
		t.Error("expected FirstMove true before any move")
	}
	piece.State["moved"] = true
	if EvalCondition(ast.FirstMove{}, ctx) {
		t.Error("expected FirstMove false after moved=true")
	}
}
