package parser

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/lexer"
)

// parseActionList parses the body of a `do:` block: one action per line
// until DEDENT.
func (p *Parser) parseActionList() ([]ast.Action, error) {
	var actions []ast.Action
	for !p.at(lexer.DEDENT) {
		if p.at(lexer.NEWLINE) {
			p.advance()
			continue
		}
		a, err := p.parseAction()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
		p.skipLineEnd()
	}
	return actions, nil
}

// parseAccessPath parses an lvalue path: IDENT ('.' IDENT)*.
func (p *Parser) parseAccessPath() (ast.Expr, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	var e ast.Expr = ast.Ident{Name: name}
	for p.at(lexer.DOT) {
		p.advance()
		field, err := p.ident()
		if err != nil {
			return nil, err
		}
		e = ast.Member{Target: e, Field: field}
	}
	return e, nil
}

func (p *Parser) parseAction() (ast.Action, error) {
	switch {
	case p.atWord("set"):
		p.advance()
		target, err := p.parseAccessPath()
		if err != nil {
			return nil, err
		}
		var op ast.AssignOp
		switch p.cur().Type {
		case lexer.EQ:
			op = ast.AssignSet
		case lexer.PLUSEQ:
			op = ast.AssignAdd
		case lexer.MINUSEQ:
			op = ast.AssignSub
		default:
			return nil, p.errf("expected '=', '+=' or '-=' in set action, found %s %q", p.cur().Type, p.cur().Value)
		}
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Set{Target: target, Op: op, Value: value}, nil
	case p.atWord("remove"):
		return p.parseRemoveAction()
	case p.atWord("create"):
		p.advance()
		typ, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("at"); err != nil {
			return nil, err
		}
		posExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		var owner ast.Expr
		if p.atWord("owner") {
			p.advance()
			owner, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		return ast.Create{PieceType: typ, Position: posExpr, Owner: owner}, nil
	case p.atWord("move"):
		p.advance()
		pieceExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("to"); err != nil {
			return nil, err
		}
		toExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Move{Piece: pieceExpr, To: toExpr}, nil
	case p.atWord("win"):
		p.advance()
		if p.at(lexer.NEWLINE) || p.at(lexer.DEDENT) {
			return ast.Win{Player: ast.PlayerCurrent}, nil
		}
		who, err := p.ident()
		if err != nil {
			return nil, err
		}
		return ast.Win{Player: parsePlayerRef(who)}, nil
	case p.atWord("draw"):
		p.advance()
		reason := ""
		if p.at(lexer.STRING) {
			reason = p.advance().Value
		}
		return ast.Draw{Reason: reason}, nil
	case p.atWord("mark"):
		p.advance()
		posExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.atWord("with") {
			return nil, p.errf("expected 'with', found %s %q", p.cur().Type, p.cur().Value)
		}
		p.advance()
		effectName, err := p.ident()
		if err != nil {
			return nil, err
		}
		return ast.Mark{Position: posExpr, Effect: effectName}, nil
	case p.atWord("cancel"):
		p.advance()
		return ast.Cancel{}, nil
	default:
		return nil, p.errf("expected an action, found %s %q", p.cur().Type, p.cur().Value)
	}
}

func (p *Parser) parseRemoveAction() (ast.Action, error) {
	p.advance() // 'remove'
	switch {
	case p.atWord("radius"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("from"); err != nil {
			return nil, err
		}
		from, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		filter, err := p.parseOptionalFilter()
		if err != nil {
			return nil, err
		}
		return ast.Remove{Range: &ast.Range{Kind: ast.RangeRadius, Radius: n, From: from}, Filter: filter}, nil
	case p.atWord("adjacent"):
		p.advance()
		var from ast.Expr
		if p.atKeyword("from") {
			p.advance()
			var err error
			from, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		filter, err := p.parseOptionalFilter()
		if err != nil {
			return nil, err
		}
		return ast.Remove{Range: &ast.Range{Kind: ast.RangeAdjacent, From: from}, Filter: filter}, nil
	case p.atWord("in_zone"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.STRING)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		filter, err := p.parseOptionalFilter()
		if err != nil {
			return nil, err
		}
		return ast.Remove{Range: &ast.Range{Kind: ast.RangeZone, Zone: name.Value}, Filter: filter}, nil
	case p.atWord("line"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		dir, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("from"); err != nil {
			return nil, err
		}
		from, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		filter, err := p.parseOptionalFilter()
		if err != nil {
			return nil, err
		}
		return ast.Remove{Range: &ast.Range{Kind: ast.RangeLine, Direction: dir, From: from}, Filter: filter}, nil
	default:
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		filter, err := p.parseOptionalFilter()
		if err != nil {
			return nil, err
		}
		return ast.Remove{Target: target, Filter: filter}, nil
	}
}

func (p *Parser) parseOptionalFilter() (*ast.Filter, error) {
	if !p.atKeyword("where") {
		return nil, nil
	}
	p.advance()
	switch {
	case p.atWord("enemy"):
		p.advance()
		return &ast.Filter{Kind: ast.FilterEnemy}, nil
	case p.atWord("friend"):
		p.advance()
		return &ast.Filter{Kind: ast.FilterFriend}, nil
	case p.atWord("type_in"), p.atWord("type_not_in"):
		neg := p.atWord("type_not_in")
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		types, err := p.parseIdentListUntilRParen()
		if err != nil {
			return nil, err
		}
		kind := ast.FilterTypeIn
		if neg {
			kind = ast.FilterTypeNotIn
		}
		return &ast.Filter{Kind: kind, Types: types}, nil
	default:
		return nil, p.errf("unknown filter clause, found %s %q", p.cur().Type, p.cur().Value)
	}
}

func (p *Parser) parseIdentListUntilRParen() ([]string, error) {
	var out []string
	for !p.at(lexer.RPAREN) {
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
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return out, nil
}
