package lexer

import "testing"

func typesOf(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func TestIndentation(t *testing.T) {
	src := "game:\n  name: \"Foo\"\n  board:\n    size: 8x8\n"
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var indents, dedents int
	for _, tok := range tokens {
		switch tok.Type {
		case INDENT:
			indents++
		case DEDENT:
			dedents++
		}
	}
	if indents != 2 {
		t.Fatalf("expected 2 INDENTs, got %d", indents)
	}
	if dedents != 2 {
		t.Fatalf("expected 2 DEDENTs (drained at EOF), got %d", dedents)
	}
}

func TestDeepIndentation(t *testing.T) {
	var src string
	depth := 16
	for i := 0; i < depth; i++ {
		for j := 0; j <= i; j++ {
			src += "  "
		}
		src += "a" + string(rune('0'+i%10)) + ":\n"
	}
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("unexpected error at depth %d: %v", depth, err)
	}
	var indents int
	for _, tok := range tokens {
		if tok.Type == INDENT {
			indents++
		}
	}
	if indents != depth {
		t.Fatalf("expected %d INDENTs, got %d", depth, indents)
	}
}

func TestMismatchedIndentation(t *testing.T) {
	src := "a:\n    b:\n  c:\n"
	if _, err := Lex(src); err == nil {
		t.Fatal("expected an error for mismatched dedent level")
	}
}

func TestSquareNotation(t *testing.T) {
	tokens, err := Lex("e4 a1 z99 k5 foo a100\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{SQUARE, SQUARE, SQUARE, SQUARE, IDENT, IDENT, NEWLINE, EOF}
	got := typesOf(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tokens, err := Lex(`"a\nb\tc\\d\"e"` + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Type != STRING {
		t.Fatalf("expected STRING token, got %v", tokens[0].Type)
	}
	want := "a\nb\tc\\d\"e"
	if tokens[0].Value != want {
		t.Fatalf("got %q want %q", tokens[0].Value, want)
	}
}

func TestUnterminatedString(t *testing.T) {
	if _, err := Lex("\"abc\n"); err == nil {
		t.Fatal("expected error for newline inside string")
	}
	if _, err := Lex("\"abc"); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	if _, err := Lex("/* never closes\n"); err == nil {
		t.Fatal("expected error for unterminated block comment")
	}
}

func TestScriptBodyVerbatim(t *testing.T) {
	src := "script {\n  if x == 1 {\n    y = 2\n  }\n}\n"
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var bodies []string
	for _, tok := range tokens {
		if tok.Type == SCRIPT_BODY {
			bodies = append(bodies, tok.Value)
		}
	}
	if len(bodies) != 1 {
		t.Fatalf("expected exactly one SCRIPT_BODY token, got %d", len(bodies))
	}
	want := "\n  if x == 1 {\n    y = 2\n  }\n"
	if bodies[0] != want {
		t.Fatalf("script body mismatch:\ngot:  %q\nwant: %q", bodies[0], want)
	}
	// no INDENT/DEDENT/NEWLINE should come from inside the script body
	seenScript := false
	for _, tok := range tokens {
		if tok.Type == KEYWORD && tok.Value == "script" {
			seenScript = true
		}
		if seenScript && tok.Type == RBRACE {
			break
		}
		if seenScript && (tok.Type == INDENT || tok.Type == DEDENT || tok.Type == NEWLINE) {
			t.Fatalf("unexpected %v token inside the script block", tok.Type)
		}
	}
}

func TestComments(t *testing.T) {
	src := "game: # a comment\n  name: \"x\" // another\n  /* block\n     comment */\n  size: 1\n"
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}
}
