package parser

import "github.com/walterschell/chesslang/ast"
import "github.com/walterschell/chesslang/lexer"

// atWord reports whether the current token is an IDENT or KEYWORD whose
// text matches w. Most DSL "soft keywords" (step, slide, empty, check, ...)
// are lexed as plain IDENT since they are only reserved in specific grammar
// positions (spec.md §4.1 lists the hard keywords separately).
func (p *Parser) atWord(w string) bool {
	t := p.cur()
	return (t.Type == lexer.IDENT || t.Type == lexer.KEYWORD) && t.Value == w
}

// parseExpr parses a full expression, honoring the precedence climb
// or < and < equality < relational < additive < multiplicative < unary.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseExprOr()
}

func (p *Parser) parseExprOr() (ast.Expr, error) {
	left, err := p.parseExprAnd()
	if err != nil {
		return nil, err
	}
	for p.atWord("or") {
		p.advance()
		right, err := p.parseExprAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseExprAnd() (ast.Expr, error) {
	left, err := p.parseExprEquality()
	if err != nil {
		return nil, err
	}
	for p.atWord("and") {
		p.advance()
		right, err := p.parseExprEquality()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseExprEquality() (ast.Expr, error) {
	left, err := p.parseExprRelational()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.EQEQ) || p.at(lexer.NEQ) {
		op := ast.OpEq
		if p.at(lexer.NEQ) {
			op = ast.OpNeq
		}
		p.advance()
		right, err := p.parseExprRelational()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseExprRelational() (ast.Expr, error) {
	left, err := p.parseExprAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.cur().Type {
		case lexer.LT:
			op = ast.OpLt
		case lexer.GT:
			op = ast.OpGt
		case lexer.LTE:
			op = ast.OpLte
		case lexer.GTE:
			op = ast.OpGte
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseExprAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseExprAdditive() (ast.Expr, error) {
	left, err := p.parseExprMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		op := ast.OpAdd
		if p.at(lexer.MINUS) {
			op = ast.OpSub
		}
		p.advance()
		right, err := p.parseExprMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseExprMultiplicative() (ast.Expr, error) {
	left, err := p.parseExprUnary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.STAR) || p.at(lexer.SLASH) {
		op := ast.OpMul
		if p.at(lexer.SLASH) {
			op = ast.OpDiv
		}
		p.advance()
		right, err := p.parseExprUnary()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseExprUnary() (ast.Expr, error) {
	if p.atWord("not") {
		p.advance()
		x, err := p.parseExprUnary()
		if err != nil {
			return nil, err
		}
		return ast.Not{X: x}, nil
	}
	if p.at(lexer.MINUS) {
		p.advance()
		x, err := p.parseExprUnary()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: ast.OpSub, Left: ast.Literal{Value: float64(0)}, Right: x}, nil
	}
	return p.parseExprPrimary()
}

func (p *Parser) parseExprPrimary() (ast.Expr, error) {
	switch p.cur().Type {
	case lexer.NUMBER:
		v, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return ast.Literal{Value: v}, nil
	case lexer.STRING:
		return ast.Literal{Value: p.advance().Value}, nil
	case lexer.SQUARE:
		return ast.Literal{Value: p.advance().Value}, nil
	case lexer.BOOLEAN:
		return ast.Literal{Value: p.advance().Value == "true"}, nil
	case lexer.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.IDENT, lexer.KEYWORD:
		name := p.advance().Value
		var expr ast.Expr = ast.Ident{Name: name}
		for p.at(lexer.DOT) {
			p.advance()
			field, err := p.ident()
			if err != nil {
				return nil, err
			}
			expr = ast.Member{Target: expr, Field: field}
		}
		return expr, nil
	default:
		return nil, p.errf("expected an expression, found %s %q", p.cur().Type, p.cur().Value)
	}
}
