package parser

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/lexer"
)

// parseCondition parses a condition expression:
//
//	cond   = or
//	or     = and ( 'or' and )*
//	and    = unary ( 'and' unary )*
//	unary  = 'not' unary | atom
//	atom   = 'empty' | 'enemy' | 'friend' | 'clear' | 'first_move'
//	       | 'check' [ '(' expr ')' ]
//	       | 'in_zone' '(' STRING ')'
//	       | IDENT '(' args ')'        -- custom predicate
//	       | '(' cond ')'
//	       | expr [ cmpOp expr ]       -- bare expression or comparison
//
// (Precedence: not binds tighter than and, and tighter than or, matching
// the usual short-circuit reading order — spec.md §3 Condition.)
func (p *Parser) parseCondition() (ast.Condition, error) {
	return p.parseCondOr()
}

func (p *Parser) parseCondOr() (ast.Condition, error) {
	left, err := p.parseCondAnd()
	if err != nil {
		return nil, err
	}
	for p.atWord("or") {
		p.advance()
		right, err := p.parseCondAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Logical{Op: ast.LogicalOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseCondAnd() (ast.Condition, error) {
	left, err := p.parseCondUnary()
	if err != nil {
		return nil, err
	}
	for p.atWord("and") {
		p.advance()
		right, err := p.parseCondUnary()
		if err != nil {
			return nil, err
		}
		left = ast.Logical{Op: ast.LogicalAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseCondUnary() (ast.Condition, error) {
	if p.atWord("not") {
		p.advance()
		x, err := p.parseCondUnary()
		if err != nil {
			return nil, err
		}
		return ast.NotCond{X: x}, nil
	}
	return p.parseCondAtom()
}

var cmpOps = map[lexer.TokenType]ast.CompareOp{
	lexer.EQEQ: ast.CmpEq, lexer.NEQ: ast.CmpNeq,
	lexer.LT: ast.CmpLt, lexer.GT: ast.CmpGt,
	lexer.LTE: ast.CmpLte, lexer.GTE: ast.CmpGte,
}

func (p *Parser) parseCondAtom() (ast.Condition, error) {
	switch {
	case p.at(lexer.LPAREN):
		p.advance()
		inner, err := p.parseCondOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case p.atWord("empty"):
		p.advance()
		return ast.Empty{}, nil
	case p.atWord("enemy"):
		p.advance()
		return ast.Enemy{}, nil
	case p.atWord("friend"):
		p.advance()
		return ast.Friend{}, nil
	case p.atWord("clear"):
		p.advance()
		return ast.Clear{}, nil
	case p.atWord("first_move"):
		p.advance()
		return ast.FirstMove{}, nil
	case p.atWord("check"):
		p.advance()
		var owner ast.Expr
		if p.at(lexer.LPAREN) {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			owner = e
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
		}
		return ast.Check{Owner: owner}, nil
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
		return ast.InZone{Zone: name.Value}, nil
	case p.at(lexer.IDENT) && p.peekAt(1).Type == lexer.LPAREN:
		name := p.advance().Value
		p.advance() // (
		var args []ast.Expr
		for !p.at(lexer.RPAREN) {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return ast.Custom{Name: name, Args: args}, nil
	default:
		left, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if op, ok := cmpOps[p.cur().Type]; ok {
			p.advance()
			right, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return ast.Comparison{Left: left, Op: op, Right: right}, nil
		}
		return ast.ExprCondition{X: left}, nil
	}
}
