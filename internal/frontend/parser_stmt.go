package frontend

import (
	"fmt"

	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

func (p *Parser) parseBlock() ([]hir.Stmt, error) {
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return nil, err
	}
	var body []hir.Stmt
	for !p.at(TokRBrace) {
		if p.at(TokSemicolon) {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if err := p.skipSemicolons(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseStmt() (hir.Stmt, error) {
	switch p.cur.Kind {
	case TokLet, TokConst, TokVar:
		return p.parseVarDecl()
	case TokIf:
		return p.parseIf()
	case TokWhile:
		return p.parseWhile()
	case TokFor:
		return p.parseFor()
	case TokReturn:
		return p.parseReturn()
	case TokBreak:
		start := p.cur.Start
		if err := p.next(); err != nil {
			return nil, err
		}
		n := &hir.Break{}
		n.Sp = p.span(start)
		return n, nil
	case TokContinue:
		start := p.cur.Start
		if err := p.next(); err != nil {
			return nil, err
		}
		n := &hir.Continue{}
		n.Sp = p.span(start)
		return n, nil
	case TokLBrace:
		start := p.cur.Start
		p.mod.Symbols.PushScope()
		body, err := p.parseBlock()
		p.mod.Symbols.PopScope()
		if err != nil {
			return nil, err
		}
		n := &hir.Block{Body: body}
		n.Sp = p.span(start)
		return n, nil
	case TokTry:
		return p.parseTry()
	case TokThrow:
		return p.parseThrow()
	case TokFunction:
		return p.parseFuncDeclStmt(false)
	case TokAsync:
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.parseFuncDeclStmt(true)
	case TokClass:
		return p.parseClassDeclStmt()
	default:
		start := p.cur.Start
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		n := &hir.ExprStmt{X: expr}
		n.Sp = p.span(start)
		return n, nil
	}
}

func (p *Parser) parseVarDecl() (hir.Stmt, error) {
	start := p.cur.Start
	isConst := p.at(TokConst)
	if err := p.next(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokIdent, "variable name")
	if err != nil {
		return nil, err
	}
	ty := types.Any()
	annotated := false
	if p.at(TokColon) {
		annotated = true
		if err := p.next(); err != nil {
			return nil, err
		}
		ty, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	var init hir.Expr
	if p.at(TokAssign) {
		if err := p.next(); err != nil {
			return nil, err
		}
		init, err = p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		if !annotated && init != nil {
			ty = init.Type()
		}
	}
	p.mod.Symbols.Declare(&hir.Symbol{Name: nameTok.Text, Kind: hir.SymVar})
	n := &hir.VarDecl{Name: nameTok.Text, Type: ty, Const: isConst, Init: init}
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseIf() (hir.Stmt, error) {
	start := p.cur.Start
	if err := p.next(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	p.mod.Symbols.PushScope()
	then, err := p.parseStmtAsBlock()
	p.mod.Symbols.PopScope()
	if err != nil {
		return nil, err
	}
	var els []hir.Stmt
	if p.at(TokElse) {
		if err := p.next(); err != nil {
			return nil, err
		}
		p.mod.Symbols.PushScope()
		els, err = p.parseStmtAsBlock()
		p.mod.Symbols.PopScope()
		if err != nil {
			return nil, err
		}
	}
	n := &hir.If{Cond: cond, Then: then, Else: els}
	n.Sp = p.span(start)
	return n, nil
}

// parseStmtAsBlock parses either a brace-delimited block or a single
// statement, normalizing both to a statement list.
func (p *Parser) parseStmtAsBlock() ([]hir.Stmt, error) {
	if p.at(TokLBrace) {
		return p.parseBlock()
	}
	stmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if err := p.skipSemicolons(); err != nil {
		return nil, err
	}
	return []hir.Stmt{stmt}, nil
}

func (p *Parser) parseWhile() (hir.Stmt, error) {
	start := p.cur.Start
	if err := p.next(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	p.mod.Symbols.PushScope()
	body, err := p.parseStmtAsBlock()
	p.mod.Symbols.PopScope()
	if err != nil {
		return nil, err
	}
	n := &hir.While{Cond: cond, Body: body}
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseFor() (hir.Stmt, error) {
	start := p.cur.Start
	if err := p.next(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	p.mod.Symbols.PushScope()
	defer p.mod.Symbols.PopScope()

	var init hir.Stmt
	if !p.at(TokSemicolon) {
		var err error
		init, err = p.parseForInit()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokSemicolon, ";"); err != nil {
		return nil, err
	}
	var cond hir.Expr
	if !p.at(TokSemicolon) {
		var err error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokSemicolon, ";"); err != nil {
		return nil, err
	}
	var post hir.Stmt
	if !p.at(TokRParen) {
		postExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		post = &hir.ExprStmt{X: postExpr}
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmtAsBlock()
	if err != nil {
		return nil, err
	}
	n := &hir.For{Init: init, Cond: cond, Post: post, Body: body}
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseForInit() (hir.Stmt, error) {
	if p.at(TokLet) || p.at(TokConst) || p.at(TokVar) {
		return p.parseVarDecl()
	}
	start := p.cur.Start
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n := &hir.ExprStmt{X: expr}
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseReturn() (hir.Stmt, error) {
	start := p.cur.Start
	if err := p.next(); err != nil {
		return nil, err
	}
	var value hir.Expr
	if !p.at(TokSemicolon) && !p.at(TokRBrace) {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	n := &hir.Return{Value: value}
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseThrow() (hir.Stmt, error) {
	start := p.cur.Start
	if err := p.next(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n := &hir.Throw{Value: value}
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseTry() (hir.Stmt, error) {
	start := p.cur.Start
	if err := p.next(); err != nil {
		return nil, err
	}
	p.mod.Symbols.PushScope()
	body, err := p.parseBlock()
	p.mod.Symbols.PopScope()
	if err != nil {
		return nil, err
	}

	n := &hir.Try{Body: body}
	if p.at(TokCatch) {
		n.HasCatch = true
		if err := p.next(); err != nil {
			return nil, err
		}
		p.mod.Symbols.PushScope()
		if p.at(TokLParen) {
			if err := p.next(); err != nil {
				return nil, err
			}
			nameTok, err := p.expect(TokIdent, "catch binding")
			if err != nil {
				return nil, err
			}
			n.CatchName = nameTok.Text
			p.mod.Symbols.Declare(&hir.Symbol{Name: nameTok.Text, Kind: hir.SymVar})
			if p.at(TokColon) {
				if err := p.next(); err != nil {
					return nil, err
				}
				if _, err := p.parseType(); err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(TokRParen, ")"); err != nil {
				return nil, err
			}
		}
		n.Catch, err = p.parseBlock()
		p.mod.Symbols.PopScope()
		if err != nil {
			return nil, err
		}
	}
	if p.at(TokFinally) {
		n.HasFinally = true
		if err := p.next(); err != nil {
			return nil, err
		}
		p.mod.Symbols.PushScope()
		n.Finally, err = p.parseBlock()
		p.mod.Symbols.PopScope()
		if err != nil {
			return nil, err
		}
	}
	if !n.HasCatch && !n.HasFinally {
		return nil, fmt.Errorf("frontend: try at line %d needs a catch or finally clause", p.cur.Line)
	}
	n.Sp = p.span(start)
	return n, nil
}
