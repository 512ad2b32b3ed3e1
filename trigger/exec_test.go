package trigger

import (
	"testing"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/pattern"
	"github.com/walterschell/chesslang/position"
)

type fakeHost struct{ nextID board.PieceID }

func (h *fakeHost) NextPieceID() board.PieceID {
	h.nextID++
	return h.nextID
}

func (h *fakeHost) EffectDecl(name string) (ast.EffectDecl, bool) { return ast.EffectDecl{}, false }

func freshBoard() *board.Board {
	b := board.New(8, 8)
	king := &board.Piece{ID: 1, Type: "King", Owner: position.White, Pos: position.Position{File: 4, Rank: 0}, Traits: map[string]bool{"king": true, "royal": true}, State: map[string]any{}}
	b.Place(king)
	return b
}

func TestCreateAtOccupiedSquareFails(t *testing.T) {
	b := freshBoard()
	ctx := pattern.Context{Board: b, Piece: b.Piece(1)}
	actions := []ast.Action{
		ast.Create{PieceType: "Queen", Position: ast.Literal{Value: "d1"}, Owner: ast.Literal{Value: "White"}},
	}
	if _, err := Execute(actions, ctx, &fakeHost{}); err != nil {
		t.Fatalf("expected the first create to succeed, got %v", err)
	}
	if _, err := Execute(actions, ctx, &fakeHost{}); err == nil {
		t.Fatal("expected creating on an already-occupied square to fail")
	}
}

func TestCancelStopsRemainingActions(t *testing.T) {
	b := freshBoard()
	ctx := pattern.Context{Board: b, Piece: b.Piece(1)}
	actions := []ast.Action{
		ast.Cancel{},
		ast.Create{PieceType: "Queen", Position: ast.Literal{Value: "a1"}, Owner: ast.Literal{Value: "White"}},
	}
	res, err := Execute(actions, ctx, &fakeHost{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Cancelled {
		t.Fatal("expected Cancelled to be set")
	}
	a1, _ := position.ParseAlgebraic("a1")
	if b.PieceAt(a1) != nil {
		t.Fatal("expected the create action after cancel to have been skipped")
	}
}

func TestWinAction(t *testing.T) {
	b := freshBoard()
	ctx := pattern.Context{Board: b, Piece: b.Piece(1)}
	actions := []ast.Action{ast.Win{Player: ast.PlayerOpponent}}
	res, err := Execute(actions, ctx, &fakeHost{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Won || res.Winner != position.Black {
		t.Fatalf("expected Black to win, got %+v", res)
	}
}
