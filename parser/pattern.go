package parser

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/lexer"
	"github.com/walterschell/chesslang/position"
)

// parsePattern parses a pattern expression:
//
//	pattern  = and ( '|' and )*
//	and      = where ( '&' where )*
//	where    = factor [ 'where' condition ]
//	factor   = 'step' '(' dir [',' N] ')' | 'slide' '(' dir ')'
//	         | 'leap' '(' N ',' N ')'     | 'hop' '(' dir ')'
//	         | IDENT                      | '(' pattern ')'
//
// ('|' unions candidate squares, '&' intersects them — spec.md §3 Pattern.)
func (p *Parser) parsePattern() (ast.Pattern, error) {
	return p.parsePatternOr()
}

func (p *Parser) parsePatternOr() (ast.Pattern, error) {
	first, err := p.parsePatternAnd()
	if err != nil {
		return nil, err
	}
	parts := []ast.Pattern{first}
	for p.at(lexer.PIPE) {
		p.advance()
		next, err := p.parsePatternAnd()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return ast.Composite{Op: ast.CompositeOr, Patterns: parts}, nil
}

func (p *Parser) parsePatternAnd() (ast.Pattern, error) {
	first, err := p.parsePatternWhere()
	if err != nil {
		return nil, err
	}
	parts := []ast.Pattern{first}
	for p.at(lexer.AMP) {
		p.advance()
		next, err := p.parsePatternWhere()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return ast.Composite{Op: ast.CompositeAnd, Patterns: parts}, nil
}

func (p *Parser) parsePatternWhere() (ast.Pattern, error) {
	pat, err := p.parsePatternFactor()
	if err != nil {
		return nil, err
	}
	if p.atWord("where") {
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		return ast.Conditional{Pattern: pat, Condition: cond}, nil
	}
	return pat, nil
}

func (p *Parser) parsePatternFactor() (ast.Pattern, error) {
	switch {
	case p.at(lexer.LPAREN):
		p.advance()
		inner, err := p.parsePatternOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case p.atWord("step"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		dir, err := p.parseDirection()
		if err != nil {
			return nil, err
		}
		distance := 0
		if p.at(lexer.COMMA) {
			p.advance()
			distance, err = p.parseInt()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return ast.Step{Direction: dir, Distance: distance}, nil
	case p.atWord("slide"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		dir, err := p.parseDirection()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return ast.Slide{Direction: dir}, nil
	case p.atWord("leap"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		dx, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COMMA); err != nil {
			return nil, err
		}
		dy, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return ast.Leap{DX: dx, DY: dy}, nil
	case p.atWord("hop"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		dir, err := p.parseDirection()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return ast.Hop{Direction: dir}, nil
	case p.at(lexer.IDENT):
		return ast.Named{Ref: p.advance().Value}, nil
	default:
		return nil, p.errf("expected a pattern, found %s %q", p.cur().Type, p.cur().Value)
	}
}

func (p *Parser) parseDirection() (position.Direction, error) {
	name, err := p.ident()
	if err != nil {
		return 0, err
	}
	d, ok := position.ParseDirection(name)
	if !ok {
		return 0, p.errf("unknown direction %q", name)
	}
	return d, nil
}
