package parser

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/lexer"
)

// parsePieceDecl parses:
//
//	piece Name:
//	  move: <pattern>
//	  capture: <pattern> | same | none
//	  traits: [a, b]
//	  state:
//	    key: value
//	  value: N
//	  promote_to: [Queen, Rook]
//	  trigger ... (zero or more, nested)
func (p *Parser) parsePieceDecl() (*ast.PieceDecl, error) {
	if _, err := p.expectKeyword("piece"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.INDENT); err != nil {
		return nil, err
	}
	pd := &ast.PieceDecl{Name: name}
	for !p.at(lexer.DEDENT) {
		switch {
		case p.at(lexer.NEWLINE):
			p.advance()
		case p.atKeyword("move"):
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pd.Move = pat
			p.skipLineEnd()
		case p.atKeyword("capture"):
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			switch {
			case p.atWord("same"):
				p.advance()
				pd.CaptureSpecial = ast.CaptureSame
			case p.atWord("none"):
				p.advance()
				pd.CaptureSpecial = ast.CaptureNone
			default:
				pat, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				pd.Capture = pat
			}
			p.skipLineEnd()
		case p.atKeyword("traits"):
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			traits, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			pd.Traits = traits
			p.skipLineEnd()
		case p.atKeyword("state"):
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.NEWLINE); err != nil {
				return nil, err
			}
			m, err := p.parseKeyValueBlock()
			if err != nil {
				return nil, err
			}
			pd.InitialState = m
		case p.at(lexer.IDENT) && p.cur().Value == "value":
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			v, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			pd.Value = v
			pd.HasValue = true
			p.skipLineEnd()
		case p.at(lexer.IDENT) && p.cur().Value == "promote_to":
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			types, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			pd.PromoteTo = types
			p.skipLineEnd()
		case p.atKeyword("trigger"):
			tr, err := p.parseTriggerDecl()
			if err != nil {
				return nil, err
			}
			pd.Triggers = append(pd.Triggers, *tr)
		default:
			return nil, p.errf("unexpected token in piece %q: %s %q", name, p.cur().Type, p.cur().Value)
		}
	}
	if _, err := p.expect(lexer.DEDENT); err != nil {
		return nil, err
	}
	return pd, nil
}

// parseIdentList parses `[a, b, c]`.
func (p *Parser) parseIdentList() ([]string, error) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var out []string
	for !p.at(lexer.RBRACKET) {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		out = append(out, name)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return out, nil
}

// parseKeyValueBlock parses an indented `key: value` block into a map,
// used for piece `state:` initializers.
func (p *Parser) parseKeyValueBlock() (map[string]any, error) {
	if _, err := p.expect(lexer.INDENT); err != nil {
		return nil, err
	}
	m := map[string]any{}
	for !p.at(lexer.DEDENT) {
		if p.at(lexer.NEWLINE) {
			p.advance()
			continue
		}
		key, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		v, err := p.parseScalarValue()
		if err != nil {
			return nil, err
		}
		m[key] = v
		p.skipLineEnd()
	}
	if _, err := p.expect(lexer.DEDENT); err != nil {
		return nil, err
	}
	return m, nil
}

// parseEffectDecl parses:
//
//	effect Name:
//	  blocks: none|all|enemy|friend
//	  duration: N
func (p *Parser) parseEffectDecl() (*ast.EffectDecl, error) {
	if _, err := p.expectKeyword("effect"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.INDENT); err != nil {
		return nil, err
	}
	ed := &ast.EffectDecl{Name: name}
	for !p.at(lexer.DEDENT) {
		if p.at(lexer.NEWLINE) {
			p.advance()
			continue
		}
		key, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		switch key {
		case "blocks":
			v, err := p.ident()
			if err != nil {
				return nil, err
			}
			ed.Blocks = v
		case "duration":
			v, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			ed.Duration = v
		default:
			p.advance()
		}
		p.skipLineEnd()
	}
	if _, err := p.expect(lexer.DEDENT); err != nil {
		return nil, err
	}
	return ed, nil
}

// parseTriggerDecl parses:
//
//	trigger Name [on EVENT] [when COND] [optional]:
//	  do:
//	    <action>*
//
// Triggers appear both at the top level and nested inside a piece
// declaration (spec.md §3 Trigger).
func (p *Parser) parseTriggerDecl() (*ast.Trigger, error) {
	if _, err := p.expectKeyword("trigger"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	tr := &ast.Trigger{Name: name, On: ast.OnTurnEnd}
	if p.atKeyword("on") {
		p.advance()
		ev, err := p.ident()
		if err != nil {
			return nil, err
		}
		kind, ok := ast.ParseEventKind(ev)
		if !ok {
			return nil, p.errf("unknown trigger event %q", ev)
		}
		tr.On = kind
	}
	if p.atKeyword("when") {
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		tr.When = cond
	}
	if p.atWord("optional") {
		p.advance()
		tr.Optional = true
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.INDENT); err != nil {
		return nil, err
	}
	for !p.at(lexer.DEDENT) {
		switch {
		case p.at(lexer.NEWLINE):
			p.advance()
		case p.atKeyword("do"):
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.NEWLINE); err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.INDENT); err != nil {
				return nil, err
			}
			actions, err := p.parseActionList()
			if err != nil {
				return nil, err
			}
			tr.Actions = actions
			if _, err := p.expect(lexer.DEDENT); err != nil {
				return nil, err
			}
		case p.at(lexer.IDENT) && p.cur().Value == "description":
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			v, err := p.expect(lexer.STRING)
			if err != nil {
				return nil, err
			}
			tr.Description = v.Value
			p.skipLineEnd()
		default:
			return nil, p.errf("unexpected token in trigger %q: %s %q", name, p.cur().Type, p.cur().Value)
		}
	}
	if _, err := p.expect(lexer.DEDENT); err != nil {
		return nil, err
	}
	return tr, nil
}
