// Package parser implements ChessLang's recursive-descent parser: tokens
// from the lexer package become an *ast.Game (spec.md §4.2).
package parser

import (
	"fmt"
	"strconv"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/lexer"
)

// Parser is a recursive-descent parser with one-token lookahead, peeking a
// second token where the grammar needs it (e.g. distinguishing a brace
// block from a bare value).
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses source into a Game AST.
func Parse(source string, filename string) (*ast.Game, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	return p.parseGame()
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) atKeyword(kw string) bool { return p.cur().Is(kw) }

func (p *Parser) errf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Location: p.cur().Location}
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.at(tt) {
		return lexer.Token{}, p.errf("expected %s, found %s %q", tt, p.cur().Type, p.cur().Value)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(kw string) (lexer.Token, error) {
	if !p.atKeyword(kw) {
		return lexer.Token{}, p.errf("expected keyword %q, found %s %q", kw, p.cur().Type, p.cur().Value)
	}
	return p.advance(), nil
}

// skipNewlines consumes zero or more NEWLINE tokens, used inside brace
// blocks where "NEWLINEs between fields" are permitted but not meaningful
// (spec.md §4.2).
func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

// ident reads an IDENT or KEYWORD token as a bare name (many DSL positions,
// like piece type names, overlap with keywords).
func (p *Parser) ident() (string, error) {
	if p.at(lexer.IDENT) || p.at(lexer.KEYWORD) {
		return p.advance().Value, nil
	}
	return "", p.errf("expected identifier, found %s %q", p.cur().Type, p.cur().Value)
}

func (p *Parser) parseGame() (*ast.Game, error) {
	g := &ast.Game{Rules: map[string]any{}}
	seen := map[string]bool{}

	for !p.at(lexer.EOF) {
		switch {
		case p.atKeyword("game"):
			if seen["game"] {
				return nil, p.errf("duplicate `game:` section")
			}
			seen["game"] = true
			if err := p.parseGameHeader(g); err != nil {
				return nil, err
			}
		case p.atKeyword("extends"):
			if seen["extends"] {
				return nil, p.errf("duplicate `extends:` section")
			}
			seen["extends"] = true
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			name, err := p.expect(lexer.STRING)
			if err != nil {
				return nil, err
			}
			g.Extends = name.Value
			g.HasExtends = true
			p.skipLineEnd()
		case p.atKeyword("board"):
			if seen["board"] {
				return nil, p.errf("duplicate `board:` section")
			}
			seen["board"] = true
			bc, err := p.parseBoardBlock()
			if err != nil {
				return nil, err
			}
			g.Board = bc
		case p.atKeyword("piece"):
			pd, err := p.parsePieceDecl()
			if err != nil {
				return nil, err
			}
			g.Pieces = append(g.Pieces, *pd)
		case p.atKeyword("effect"):
			ed, err := p.parseEffectDecl()
			if err != nil {
				return nil, err
			}
			g.Effects = append(g.Effects, *ed)
		case p.atKeyword("trigger"):
			tr, err := p.parseTriggerDecl()
			if err != nil {
				return nil, err
			}
			g.Triggers = append(g.Triggers, *tr)
		case p.atKeyword("setup"):
			if seen["setup"] {
				return nil, p.errf("duplicate `setup:` section")
			}
			seen["setup"] = true
			sc, err := p.parseSetupBlock()
			if err != nil {
				return nil, err
			}
			g.Setup = sc
		case p.atKeyword("victory"):
			if seen["victory"] {
				return nil, p.errf("duplicate `victory:` section")
			}
			seen["victory"] = true
			vs, err := p.parseVictoryBlock()
			if err != nil {
				return nil, err
			}
			g.Victory = vs
		case p.atKeyword("draw"):
			if seen["draw"] {
				return nil, p.errf("duplicate `draw:` section")
			}
			seen["draw"] = true
			ds, err := p.parseDrawBlock()
			if err != nil {
				return nil, err
			}
			g.Draw = ds
		case p.atKeyword("rules"):
			if seen["rules"] {
				return nil, p.errf("duplicate `rules:` section")
			}
			seen["rules"] = true
			r, err := p.parseRulesBlock()
			if err != nil {
				return nil, err
			}
			g.Rules = r
		case p.atKeyword("pattern"):
			decl, err := p.parseNamedPatternDecl()
			if err != nil {
				return nil, err
			}
			g.Patterns = append(g.Patterns, *decl)
		case p.atKeyword("script"):
			sb, err := p.parseTopLevelScript()
			if err != nil {
				return nil, err
			}
			g.Scripts = append(g.Scripts, *sb)
		case p.at(lexer.NEWLINE):
			p.advance()
		default:
			return nil, p.errf("unexpected top-level token %s %q", p.cur().Type, p.cur().Value)
		}
	}
	return g, nil
}

// skipLineEnd consumes a trailing NEWLINE if present (tolerant of EOF right
// after the last section).
func (p *Parser) skipLineEnd() {
	if p.at(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) parseGameHeader(g *ast.Game) error {
	if _, err := p.expectKeyword("game"); err != nil {
		return err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return err
	}
	if _, err := p.expect(lexer.NEWLINE); err != nil {
		return err
	}
	if _, err := p.expect(lexer.INDENT); err != nil {
		return err
	}
	for !p.at(lexer.DEDENT) {
		if p.at(lexer.NEWLINE) {
			p.advance()
			continue
		}
		key, err := p.ident()
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return err
		}
		switch key {
		case "name":
			v, err := p.expect(lexer.STRING)
			if err != nil {
				return err
			}
			g.Name = v.Value
		default:
			// Unknown keys are skipped as a single value token, to stay
			// forward-compatible with future `game:` fields.
			p.advance()
		}
		p.skipLineEnd()
	}
	_, err := p.expect(lexer.DEDENT)
	return err
}

// parseNumber reads a NUMBER token as float64.
func (p *Parser) parseNumber() (float64, error) {
	tok, err := p.expect(lexer.NUMBER)
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.ParseFloat(tok.Value, 64)
	if convErr != nil {
		return 0, p.errf("malformed number %q", tok.Value)
	}
	return v, nil
}

func (p *Parser) parseInt() (int, error) {
	v, err := p.parseNumber()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
