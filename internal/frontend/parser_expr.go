package frontend

import (
	"fmt"
	"strconv"

	"github.com/skelpo/perryc/internal/diag"
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

func (p *Parser) parseExpr() (hir.Expr, error) { return p.parseAssignExpr() }

var assignOps = map[TokenKind]string{
	TokAssign:      "",
	TokPlusAssign:  "+",
	TokMinusAssign: "-",
	TokStarAssign:  "*",
	TokSlashAssign: "/",
}

func (p *Parser) parseAssignExpr() (hir.Expr, error) {
	start := p.cur.Start
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if op, ok := assignOps[p.cur.Kind]; ok {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		n := &hir.Assign{Op: op, Target: left, Value: right}
		n.Ty = right.Type()
		n.Sp = p.span(start)
		return n, nil
	}
	return left, nil
}

func (p *Parser) parseTernary() (hir.Expr, error) {
	start := p.cur.Start
	cond, err := p.parseNullish()
	if err != nil {
		return nil, err
	}
	if !p.at(TokQuestion) {
		return cond, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	then, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon, ":"); err != nil {
		return nil, err
	}
	els, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	n := &hir.Ternary{Cond: cond, Then: then, Else: els}
	n.Ty = types.Union(then.Type(), els.Type())
	n.Sp = p.span(start)
	return n, nil
}

// binaryLevel parses one left-associative precedence level, given the
// tokens accepted at this level and the parser for the next-tighter
// level, generalized with a table instead of one function per level.
func (p *Parser) binaryLevel(ops map[TokenKind]string, next func() (hir.Expr, error), resultType func(op string, l, r hir.Expr) *types.Type) (hir.Expr, error) {
	start := p.cur.Start
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur.Kind]
		if !ok {
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		n := &hir.Binary{Op: op, Left: left, Right: right}
		n.Ty = resultType(op, left, right)
		n.Sp = p.span(start)
		left = n
	}
}

func boolResult(string, hir.Expr, hir.Expr) *types.Type { return types.Boolean() }
func operandResult(op string, l, r hir.Expr) *types.Type {
	if l.Type() != nil && l.Type().Kind == types.KindString {
		return types.String()
	}
	return types.Number()
}

func (p *Parser) parseNullish() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokQuestionQuestion: "??"}, p.parseOr, func(_ string, l, r hir.Expr) *types.Type {
		return types.Union(l.Type(), r.Type())
	})
}

func (p *Parser) parseOr() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokOrOr: "||"}, p.parseAnd, boolResult)
}

func (p *Parser) parseAnd() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokAndAnd: "&&"}, p.parseBitOr, boolResult)
}

func (p *Parser) parseBitOr() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokPipe: "|"}, p.parseBitXor, operandResult)
}

func (p *Parser) parseBitXor() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokCaret: "^"}, p.parseBitAnd, operandResult)
}

func (p *Parser) parseBitAnd() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokAmp: "&"}, p.parseEquality, operandResult)
}

func (p *Parser) parseEquality() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{
		TokEqEq: "==", TokEqEqEq: "===", TokNotEq: "!=", TokNotEqEq: "!==",
	}, p.parseRelational, boolResult)
}

func (p *Parser) parseRelational() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{
		TokLt: "<", TokGt: ">", TokLeq: "<=", TokGeq: ">=",
	}, p.parseAdditive, boolResult)
}

func (p *Parser) parseAdditive() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokPlus: "+", TokMinus: "-"}, p.parseMultiplicative, operandResult)
}

func (p *Parser) parseMultiplicative() (hir.Expr, error) {
	return p.binaryLevel(map[TokenKind]string{TokStar: "*", TokSlash: "/", TokPercent: "%"}, p.parseUnary, operandResult)
}

func (p *Parser) parseUnary() (hir.Expr, error) {
	start := p.cur.Start
	switch p.cur.Kind {
	case TokNot:
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &hir.Unary{Op: "!", Operand: operand}
		n.Ty = types.Boolean()
		n.Sp = p.span(start)
		return n, nil
	case TokMinus, TokPlus:
		op := "-"
		if p.cur.Kind == TokPlus {
			op = "+"
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &hir.Unary{Op: op, Operand: operand}
		n.Ty = types.Number()
		n.Sp = p.span(start)
		return n, nil
	case TokTypeof:
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &hir.Unary{Op: "typeof", Operand: operand}
		n.Ty = types.String()
		n.Sp = p.span(start)
		return n, nil
	case TokAwait:
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &hir.Await{Operand: operand}
		if operand.Type() != nil && operand.Type().Kind == types.KindPromise {
			n.Ty = operand.Type().Elem
		} else {
			n.Ty = types.Any()
		}
		n.Sp = p.span(start)
		return n, nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (hir.Expr, error) {
	start := p.cur.Start
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case TokDot:
			if err := p.next(); err != nil {
				return nil, err
			}
			nameTok, err := p.expect(TokIdent, "member name")
			if err != nil {
				return nil, err
			}
			n := &hir.Member{Obj: expr, Name: nameTok.Text}
			n.Ty = memberType(expr.Type(), nameTok.Text)
			n.Sp = p.span(start)
			expr = n
		case TokLBrack:
			if err := p.next(); err != nil {
				return nil, err
			}
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBrack, "]"); err != nil {
				return nil, err
			}
			n := &hir.Index{Obj: expr, Key: key}
			n.Ty = indexType(expr.Type())
			n.Sp = p.span(start)
			expr = n
		case TokLParen:
			args, typeArgs, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			n := p.buildCall(expr, args, typeArgs, start)
			expr = n
		case TokLt:
			// identity<number>(1): explicit generic call type arguments.
			// Only consume "<...>" here if it is immediately followed by a
			// call's "(" — otherwise this is the relational operator, which
			// parseRelational (above postfix in the precedence chain) is
			// left to handle.
			typeArgs, args, ok, err := p.tryParseGenericCallArgs()
			if err != nil {
				return nil, err
			}
			if !ok {
				return expr, nil
			}
			expr = p.buildCall(expr, args, typeArgs, start)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) buildCall(callee hir.Expr, args []hir.Expr, typeArgs []*types.Type, start uint32) hir.Expr {
	n := &hir.Call{Callee: callee, Args: args, TypeArgs: typeArgs}
	n.Ty = callResultType(callee.Type())
	if id, ok := callee.(*hir.Ident); ok && id.Sym != nil && id.Sym.Kind == hir.SymFunc {
		n.IsDirect = true
		n.DirectTo = id.Sym.Func
	}
	n.Sp = p.span(start)
	return n
}

// tryParseGenericCallArgs speculatively parses "<Type, ...>(args)". If the
// type-argument list isn't immediately followed by "(", the lexer position
// is restored and ok is false.
func (p *Parser) tryParseGenericCallArgs() ([]*types.Type, []hir.Expr, bool, error) {
	save := *p.lex
	saveCur := p.cur
	typeArgs, err := p.parseTypeArgs()
	if err != nil || !p.at(TokLParen) {
		*p.lex = save
		p.cur = saveCur
		return nil, nil, false, nil
	}
	args, _, err := p.parseCallArgs()
	if err != nil {
		return nil, nil, false, err
	}
	return typeArgs, args, true, nil
}

func (p *Parser) parseCallArgs() ([]hir.Expr, []*types.Type, error) {
	var typeArgs []*types.Type
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, nil, err
	}
	var args []hir.Expr
	for !p.at(TokRParen) {
		arg, err := p.parseAssignExpr()
		if err != nil {
			return nil, nil, err
		}
		args = append(args, arg)
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return nil, nil, err
			}
		}
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, nil, err
	}
	return args, typeArgs, nil
}

func memberType(objType *types.Type, name string) *types.Type {
	if objType == nil {
		return types.Any()
	}
	if objType.Kind == types.KindObject {
		for _, f := range objType.Fields {
			if f.Name == name {
				return f.Type
			}
		}
	}
	return types.Any()
}

func indexType(objType *types.Type) *types.Type {
	if objType != nil && objType.Kind == types.KindArray {
		return objType.Elem
	}
	return types.Any()
}

func callResultType(calleeType *types.Type) *types.Type {
	if calleeType != nil && calleeType.Kind == types.KindFunction {
		return calleeType.Return
	}
	return types.Any()
}

func (p *Parser) parsePrimary() (hir.Expr, error) {
	start := p.cur.Start
	switch p.cur.Kind {
	case TokNumber:
		text := p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("frontend: bad number literal %q", text)
		}
		n := &hir.NumberLit{Value: v}
		n.Ty = types.Number()
		n.Sp = p.span(start)
		return n, nil
	case TokString, TokTemplateString:
		text := p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		n := &hir.StringLit{Value: text}
		n.Ty = types.String()
		n.Sp = p.span(start)
		return n, nil
	case TokTrue, TokFalse:
		v := p.cur.Kind == TokTrue
		if err := p.next(); err != nil {
			return nil, err
		}
		n := &hir.BoolLit{Value: v}
		n.Ty = types.Boolean()
		n.Sp = p.span(start)
		return n, nil
	case TokNull:
		if err := p.next(); err != nil {
			return nil, err
		}
		n := &hir.NullLit{}
		n.Ty = types.Null()
		n.Sp = p.span(start)
		return n, nil
	case TokUndefined:
		if err := p.next(); err != nil {
			return nil, err
		}
		n := &hir.VoidLit{}
		n.Ty = types.Void()
		n.Sp = p.span(start)
		return n, nil
	case TokThis:
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.identExpr("this", start), nil
	case TokNew:
		return p.parseNew()
	case TokLParen:
		return p.parseParenOrArrow()
	case TokLBrack:
		return p.parseArrayLit()
	case TokLBrace:
		return p.parseObjectLit()
	case TokFunction:
		return p.parseFuncLitExpr(false)
	case TokAsync:
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.at(TokFunction) {
			return p.parseFuncLitExpr(true)
		}
		return p.parseArrowFromIdentOrParen(true)
	case TokIdent:
		name := p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.at(TokArrow) {
			return p.finishArrow([]hir.Param{{Name: name, Type: types.Any()}}, false, start)
		}
		return p.identExpr(name, start), nil
	default:
		return nil, fmt.Errorf("frontend: unexpected token %q at line %d", p.cur.Text, p.cur.Line)
	}
}

func (p *Parser) identExpr(name string, start uint32) hir.Expr {
	sym, _ := p.mod.Symbols.Resolve(name)
	n := &hir.Ident{Name: name, Sym: sym}
	// Declared type information isn't tracked per-variable in the symbol
	// table, so every Ident is typed Any. Lowering and closure conversion
	// read this type, so operations on identifiers take their Any-typed
	// paths (e.g. `+` on two identifiers lowers to the dynamic add).
	n.Ty = types.Any()
	n.Sp = p.span(start)
	if sym == nil && !isWellKnownGlobal(name) {
		p.diags.Add(diag.New(diag.R001, n.Sp, fmt.Sprintf("undefined name %q", name)))
	}
	return n
}

// isWellKnownGlobal silences R001 for the ambient names every program can
// reach without a local declaration (console, Math, JSON, the built-in
// collection/promise constructors). These names have no symbol-table
// entry, and lowering treats them like any other identifier.
func isWellKnownGlobal(name string) bool {
	switch name {
	case "console", "Math", "JSON", "Map", "Set", "Promise", "Array", "Object", "Number", "String", "Boolean", "Error", "globalThis":
		return true
	default:
		return false
	}
}

func (p *Parser) parseNew() (hir.Expr, error) {
	start := p.cur.Start
	if err := p.next(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokIdent, "class name")
	if err != nil {
		return nil, err
	}
	var typeArgs []*types.Type
	if p.at(TokLt) {
		typeArgs, err = p.parseTypeArgs()
		if err != nil {
			return nil, err
		}
	}
	args, _, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	n := &hir.New{Args: args, TypeArgs: typeArgs}
	if sym, ok := p.mod.Symbols.Resolve(nameTok.Text); ok && sym.Kind == hir.SymClass {
		n.Class = sym.Class
		n.Ty = types.Named(nameTok.Text)
	} else {
		// Built-in constructors (Map, Set, Promise, Array, Error) have no
		// hir.Class; n.Class is left unset and the constructor's name is
		// carried only by the result type.
		n.Ty = types.Named(nameTok.Text)
	}
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseArrayLit() (hir.Expr, error) {
	start := p.cur.Start
	if _, err := p.expect(TokLBrack, "["); err != nil {
		return nil, err
	}
	var elems []hir.Expr
	for !p.at(TokRBrack) {
		e, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokRBrack, "]"); err != nil {
		return nil, err
	}
	elemTy := types.Any()
	if len(elems) > 0 {
		elemTy = elems[0].Type()
	}
	n := &hir.ArrayLit{Elems: elems}
	n.Ty = types.Array(elemTy)
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseObjectLit() (hir.Expr, error) {
	start := p.cur.Start
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return nil, err
	}
	var names []string
	var values []hir.Expr
	for !p.at(TokRBrace) {
		keyTok := p.cur
		var key string
		switch keyTok.Kind {
		case TokIdent:
			key = keyTok.Text
		case TokString:
			key = keyTok.Text
		default:
			return nil, fmt.Errorf("frontend: expected property name at line %d", keyTok.Line)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		var value hir.Expr
		if p.at(TokColon) {
			if err := p.next(); err != nil {
				return nil, err
			}
			v, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			value = v
		} else {
			// Shorthand { x } === { x: x }.
			value = p.identExpr(key, p.cur.Start)
		}
		names = append(names, key)
		values = append(values, value)
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return nil, err
	}
	fields := make([]types.Field, len(names))
	for i, name := range names {
		fields[i] = types.Field{Name: name, Type: values[i].Type()}
	}
	n := &hir.ObjectLit{Names: names, Values: values}
	n.Ty = types.Object("", fields, nil)
	n.Sp = p.span(start)
	return n, nil
}

// parseParenOrArrow disambiguates "(expr)" from an arrow function's
// parameter list by a speculative parse: it tries to read a parameter
// list followed by "=>" and, if that fails, restores the saved lexer
// state and parses a parenthesized expression instead. (A single bare
// identifier before "=>" is handled in parsePrimary.)
func (p *Parser) parseParenOrArrow() (hir.Expr, error) {
	save := *p.lex
	saveCur := p.cur
	params, isArrow, err := p.tryParseArrowParams()
	if err == nil && isArrow {
		return p.finishArrow(params, false, saveCur.Start)
	}
	*p.lex = save
	p.cur = saveCur
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) tryParseArrowParams() ([]hir.Param, bool, error) {
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, false, err
	}
	var params []hir.Param
	for !p.at(TokRParen) {
		if !p.at(TokIdent) {
			return nil, false, fmt.Errorf("frontend: not an arrow parameter list")
		}
		tok := p.cur
		if err := p.next(); err != nil {
			return nil, false, err
		}
		ty := types.Any()
		if p.at(TokColon) {
			if err := p.next(); err != nil {
				return nil, false, err
			}
			var err2 error
			ty, err2 = p.parseType()
			if err2 != nil {
				return nil, false, err2
			}
		}
		params = append(params, hir.Param{Name: tok.Text, Type: ty})
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return nil, false, err
			}
		}
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, false, err
	}
	if p.at(TokColon) {
		if err := p.next(); err != nil {
			return nil, false, err
		}
		if _, err := p.parseType(); err != nil {
			return nil, false, err
		}
	}
	if !p.at(TokArrow) {
		return nil, false, fmt.Errorf("frontend: not an arrow function")
	}
	return params, true, nil
}

func (p *Parser) parseArrowFromIdentOrParen(isAsync bool) (hir.Expr, error) {
	start := p.cur.Start
	if p.at(TokIdent) {
		name := p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		if !p.at(TokArrow) {
			return nil, fmt.Errorf("frontend: expected arrow function at line %d", p.cur.Line)
		}
		return p.finishArrow([]hir.Param{{Name: name, Type: types.Any()}}, isAsync, start)
	}
	params, isArrow, err := p.tryParseArrowParams()
	if err != nil || !isArrow {
		return nil, fmt.Errorf("frontend: expected arrow function at line %d", p.cur.Line)
	}
	return p.finishArrow(params, isAsync, start)
}

func (p *Parser) finishArrow(params []hir.Param, isAsync bool, start uint32) (hir.Expr, error) {
	if _, err := p.expect(TokArrow, "=>"); err != nil {
		return nil, err
	}
	p.mod.Symbols.PushScope()
	for _, prm := range params {
		p.mod.Symbols.Declare(&hir.Symbol{Name: prm.Name, Kind: hir.SymVar})
	}
	var body []hir.Stmt
	var retType *types.Type = types.Void()
	if p.at(TokLBrace) {
		var err error
		body, err = p.parseBlock()
		if err != nil {
			p.mod.Symbols.PopScope()
			return nil, err
		}
	} else {
		expr, err := p.parseAssignExpr()
		if err != nil {
			p.mod.Symbols.PopScope()
			return nil, err
		}
		ret := &hir.Return{Value: expr}
		ret.Sp = expr.Span()
		body = []hir.Stmt{ret}
		retType = expr.Type()
	}
	p.mod.Symbols.PopScope()
	fn := &hir.Func{Params: params, Return: retType, IsAsync: isAsync, Body: body}
	id := p.mod.NewFuncID()
	fn.ID = id
	p.mod.AddFunc(fn)
	n := &hir.FuncLit{Func: fn}
	n.Ty = types.Function(paramsToTypeParams(params), retType, isAsync, false)
	n.Sp = p.span(start)
	return n, nil
}

func (p *Parser) parseFuncLitExpr(isAsync bool) (hir.Expr, error) {
	start := p.cur.Start
	fn, err := p.parseFuncRest(isAsync)
	if err != nil {
		return nil, err
	}
	id := p.mod.NewFuncID()
	fn.ID = id
	p.mod.AddFunc(fn)
	n := &hir.FuncLit{Func: fn}
	n.Ty = types.Function(paramsToTypeParams(fn.Params), fn.Return, isAsync, false)
	n.Sp = p.span(start)
	return n, nil
}

func paramsToTypeParams(params []hir.Param) []types.Param {
	out := make([]types.Param, len(params))
	for i, prm := range params {
		out[i] = types.Param{Name: prm.Name, Type: prm.Type, Optional: prm.Optional}
	}
	return out
}
