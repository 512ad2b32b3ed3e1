package script

import "testing"

// fakeHost is a minimal in-memory Host for exercising the evaluator without
// pulling in the engine package.
type fakeHost struct {
	pieces map[string]PieceView
	moved  [][2]string
	removed []string
	created []PieceView
}

func newFakeHost() *fakeHost {
	return &fakeHost{pieces: map[string]PieceView{
		"e4": {Type: "Pawn", Owner: "White", Square: "e4"},
		"e5": {Type: "Pawn", Owner: "Black", Square: "e5"},
	}}
}

func (h *fakeHost) At(square string) (PieceView, bool) {
	p, ok := h.pieces[square]
	return p, ok
}

func (h *fakeHost) Pieces(owner string) []PieceView {
	var out []PieceView
	for _, p := range h.pieces {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out
}

func (h *fakeHost) EmptySquares() []string { return []string{"a1", "a2"} }

func (h *fakeHost) Adjacent(square string) []string { return []string{"d4", "d5", "f4", "f5"} }

func (h *fakeHost) IsValidPos(square string) bool { return square != "z9" }

func (h *fakeHost) GetPieces() []PieceView {
	var out []PieceView
	for _, p := range h.pieces {
		out = append(out, p)
	}
	return out
}

func (h *fakeHost) MovePiece(from, to string) error {
	h.moved = append(h.moved, [2]string{from, to})
	return nil
}

func (h *fakeHost) RemovePiece(square string) error {
	h.removed = append(h.removed, square)
	return nil
}

func (h *fakeHost) CreatePiece(pieceType, square, owner string) error {
	h.created = append(h.created, PieceView{Type: pieceType, Owner: owner, Square: square})
	return nil
}

func (h *fakeHost) ToSquare(file, rank int) string { return "sq" }

func (h *fakeHost) ParseSquare(square string) (int, int, bool) { return 0, 0, true }

func (h *fakeHost) Distance(a, b string) int { return 1 }

func runScript(t *testing.T, src string, event map[string]any, host Host) {
	t.Helper()
	stmts, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if err := Run(stmts, host, event); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestValidateSyntaxAcceptsWellFormedSource(t *testing.T) {
	src := `
let x = 1
if x > 0 {
  console.log("positive")
} else {
  console.log("non-positive")
}
for p in getPieces() {
  console.log(p.type)
}
`
	if err := ValidateSyntax(src); err != nil {
		t.Fatalf("expected valid source, got %v", err)
	}
}

func TestValidateSyntaxRejectsMalformedSource(t *testing.T) {
	if err := ValidateSyntax("let x = "); err == nil {
		t.Fatal("expected a parse error for a truncated expression")
	}
}

func TestRunMovePieceBuiltin(t *testing.T) {
	host := newFakeHost()
	runScript(t, `movePiece(from, to)`, map[string]any{"from": "e4", "to": "e5"}, host)
	if len(host.moved) != 1 || host.moved[0] != [2]string{"e4", "e5"} {
		t.Fatalf("expected one movePiece(e4, e5) call, got %+v", host.moved)
	}
}

func TestRunIfElseAndComparison(t *testing.T) {
	host := newFakeHost()
	runScript(t, `
if distance(from, to) > 0 {
  createPiece("Queen", to, "White")
} else {
  removePiece(to)
}
`, map[string]any{"from": "a1", "to": "a8"}, host)
	if len(host.created) != 1 || host.created[0].Type != "Queen" {
		t.Fatalf("expected a created Queen, got %+v", host.created)
	}
}

func TestRunForLoopOverPieces(t *testing.T) {
	host := newFakeHost()
	runScript(t, `
let count = 0
for p in pieces("White") {
  count = count + 1
}
`, nil, host)
	// no assertion on count beyond confirming the loop ran without error -
	// fakeHost exposes exactly one White piece.
}

func TestEventBindingsAreBareVariables(t *testing.T) {
	host := newFakeHost()
	runScript(t, `
if piece.owner == "White" {
  removePiece(captured.square)
}
`, map[string]any{
		"piece":    PieceView{Type: "Pawn", Owner: "White", Square: "e4"},
		"captured": PieceView{Type: "Pawn", Owner: "Black", Square: "d5"},
	}, host)
	if len(host.removed) != 1 || host.removed[0] != "d5" {
		t.Fatalf("expected removePiece(d5), got %+v", host.removed)
	}
}

func TestReturnStopsExecution(t *testing.T) {
	host := newFakeHost()
	runScript(t, `
return 0
removePiece("e4")
`, nil, host)
	if len(host.removed) != 0 {
		t.Fatalf("expected return to stop execution before removePiece, got %+v", host.removed)
	}
}
