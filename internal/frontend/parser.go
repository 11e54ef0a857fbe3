package frontend

import (
	"fmt"

	"github.com/skelpo/perryc/internal/diag"
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

// Parser turns one source file into contributions to a shared hir.Module:
// top-level function/class declarations and global statements. Multiple
// files sharing a Module (and its SymbolTable) is how a multi-file
// program's cross-file references resolve — this frontend has no import
// graph to walk, so every file just parses into the same Module.
type Parser struct {
	lex     *Lexer
	cur     Token
	file    diag.FileID
	mod     *hir.Module
	diags   *diag.Collection
}

// Parse lexes and parses src (registered in cache under path) into mod,
// adding any diagnostics to diags. A parse error that prevents further
// progress is returned directly; recoverable problems are reported as
// diagnostics and parsing continues on a best-effort basis.
func Parse(cache *diag.Cache, path, src string, mod *hir.Module, diags *diag.Collection) error {
	file := cache.AddFile(path, src)
	p := &Parser{lex: NewLexer(src), file: file, mod: mod, diags: diags}
	if err := p.next(); err != nil {
		return err
	}
	return p.parseProgram()
}

func (p *Parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) span(start uint32) diag.Span {
	return diag.NewSpan(p.file, start, p.cur.End)
}

func (p *Parser) at(k TokenKind) bool { return p.cur.Kind == k }

func (p *Parser) expect(k TokenKind, what string) (Token, error) {
	if p.cur.Kind != k {
		return Token{}, fmt.Errorf("frontend: expected %s at line %d, got %q", what, p.cur.Line, p.cur.Text)
	}
	tok := p.cur
	if err := p.next(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (p *Parser) skipSemicolons() error {
	for p.at(TokSemicolon) {
		if err := p.next(); err != nil {
			return err
		}
	}
	return nil
}

// parseProgram consumes top-level declarations and statements until EOF.
func (p *Parser) parseProgram() error {
	for !p.at(TokEOF) {
		if p.at(TokExport) {
			if err := p.next(); err != nil {
				return err
			}
			continue
		}
		stmt, err := p.parseTopLevelStmt()
		if err != nil {
			return err
		}
		if stmt != nil {
			p.mod.Globals = append(p.mod.Globals, stmt)
		}
		if err := p.skipSemicolons(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseTopLevelStmt() (hir.Stmt, error) {
	switch p.cur.Kind {
	case TokFunction:
		return p.parseFuncDeclStmt(false)
	case TokAsync:
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.parseFuncDeclStmt(true)
	case TokClass:
		return p.parseClassDeclStmt()
	case TokInterface:
		return nil, p.skipInterface()
	default:
		return p.parseStmt()
	}
}

// skipInterface discards a TypeScript interface declaration: its shape is
// folded into the object/structural type system at annotation sites, not
// carried as a separate declaration.
func (p *Parser) skipInterface() error {
	if _, err := p.expect(TokInterface, "interface"); err != nil {
		return err
	}
	if _, err := p.expect(TokIdent, "interface name"); err != nil {
		return err
	}
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.at(TokEOF) {
			return fmt.Errorf("frontend: unterminated interface body")
		}
		if p.at(TokLBrace) {
			depth++
		}
		if p.at(TokRBrace) {
			depth--
		}
		if err := p.next(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseFuncDeclStmt(isAsync bool) (hir.Stmt, error) {
	start := p.cur.Start
	fn, err := p.parseFuncRest(isAsync)
	if err != nil {
		return nil, err
	}
	id := p.mod.NewFuncID()
	fn.ID = id
	p.mod.AddFunc(fn)
	p.mod.Symbols.Declare(&hir.Symbol{Name: fn.Name, Kind: hir.SymFunc, Func: id})
	decl := &hir.FuncDecl{Func: id}
	decl.Sp = p.span(start)
	return decl, nil
}

// parseFuncRest parses "function name(...)[: T] { ... }" with the leading
// "function" keyword still unconsumed.
func (p *Parser) parseFuncRest(isAsync bool) (*hir.Func, error) {
	if _, err := p.expect(TokFunction, "function"); err != nil {
		return nil, err
	}
	name := ""
	if p.at(TokIdent) {
		name = p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	generics, err := p.parseOptionalGenerics()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	ret := types.Void()
	if p.at(TokColon) {
		if err := p.next(); err != nil {
			return nil, err
		}
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	p.mod.Symbols.PushScope()
	for _, prm := range params {
		p.mod.Symbols.Declare(&hir.Symbol{Name: prm.Name, Kind: hir.SymVar})
	}
	body, err := p.parseBlock()
	p.mod.Symbols.PopScope()
	if err != nil {
		return nil, err
	}
	return &hir.Func{Name: name, Generic: generics, Params: params, Return: ret, IsAsync: isAsync, Body: body}, nil
}

func (p *Parser) parseOptionalGenerics() ([]string, error) {
	if !p.at(TokLt) {
		return nil, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	var names []string
	for !p.at(TokGt) {
		tok, err := p.expect(TokIdent, "type parameter")
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Text)
		if p.at(TokExtends) {
			if err := p.next(); err != nil {
				return nil, err
			}
			if _, err := p.parseType(); err != nil {
				return nil, err
			}
		}
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokGt, ">"); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseParams() ([]hir.Param, error) {
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var params []hir.Param
	for !p.at(TokRParen) {
		tok, err := p.expect(TokIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		optional := false
		if p.at(TokQuestion) {
			optional = true
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		ty := types.Any()
		if p.at(TokColon) {
			if err := p.next(); err != nil {
				return nil, err
			}
			ty, err = p.parseType()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, hir.Param{Name: tok.Text, Type: ty, Optional: optional})
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseType parses a type annotation: a primitive keyword, an identifier
// (named type, or a generic instantiation Name<Args>), T[] / Array<T>,
// Promise<T>, or a union "A | B".
func (p *Parser) parseType() (*types.Type, error) {
	first, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	if !p.at(TokPipe) {
		return first, nil
	}
	members := []*types.Type{first}
	for p.at(TokPipe) {
		if err := p.next(); err != nil {
			return nil, err
		}
		next, err := p.parseTypeAtom()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	return types.Union(members...), nil
}

func (p *Parser) parseTypeAtom() (*types.Type, error) {
	tok := p.cur
	if tok.Kind != TokIdent {
		return nil, fmt.Errorf("frontend: expected type at line %d, got %q", tok.Line, tok.Text)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	var base *types.Type
	switch tok.Text {
	case "number":
		base = types.Number()
	case "string":
		base = types.String()
	case "boolean":
		base = types.Boolean()
	case "void":
		base = types.Void()
	case "any":
		base = types.Any()
	case "unknown":
		base = types.Unknown()
	case "never":
		base = types.Never()
	case "bigint":
		base = types.BigInt()
	case "symbol":
		base = types.Symbol()
	case "Array":
		elem := types.Any()
		var err error
		if p.at(TokLt) {
			elem, err = p.parseTypeArgsOne()
			if err != nil {
				return nil, err
			}
		}
		base = types.Array(elem)
	case "Promise":
		elem, err := p.parseTypeArgsOne()
		if err != nil {
			return nil, err
		}
		base = types.Promise(elem)
	default:
		base = types.Named(tok.Text)
		if p.at(TokLt) {
			args, err := p.parseTypeArgs()
			if err != nil {
				return nil, err
			}
			base = types.Generic(types.Named(tok.Text), args...)
		}
	}
	for p.at(TokLBrack) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBrack, "]"); err != nil {
			return nil, err
		}
		base = types.Array(base)
	}
	return base, nil
}

func (p *Parser) parseTypeArgsOne() (*types.Type, error) {
	args, err := p.parseTypeArgs()
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return types.Any(), nil
	}
	return args[0], nil
}

func (p *Parser) parseTypeArgs() ([]*types.Type, error) {
	if _, err := p.expect(TokLt, "<"); err != nil {
		return nil, err
	}
	var args []*types.Type
	for !p.at(TokGt) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokGt, ">"); err != nil {
		return nil, err
	}
	return args, nil
}
