package frontend

import (
	"fmt"

	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/types"
)

// parseClassDeclStmt parses "class Name [extends Base] { ... }" into a
// hir.Class plus its methods (each registered as its own hir.Func with
// OwnerClass set).
func (p *Parser) parseClassDeclStmt() (hir.Stmt, error) {
	start := p.cur.Start
	if _, err := p.expect(TokClass, "class"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokIdent, "class name")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseOptionalGenerics()
	if err != nil {
		return nil, err
	}
	extends := ""
	if p.at(TokExtends) {
		if err := p.next(); err != nil {
			return nil, err
		}
		baseTok, err := p.expect(TokIdent, "superclass name")
		if err != nil {
			return nil, err
		}
		extends = baseTok.Text
		if p.at(TokLt) {
			if _, err := p.parseTypeArgs(); err != nil {
				return nil, err
			}
		}
	}

	classID := p.mod.NewClassID()
	cls := &hir.Class{ID: classID, Name: nameTok.Text, Generic: generics, Extends: extends}
	p.mod.Symbols.Declare(&hir.Symbol{Name: nameTok.Text, Kind: hir.SymClass, Class: classID})

	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return nil, err
	}
	p.mod.Symbols.PushScope()
	for _, g := range generics {
		p.mod.Symbols.Declare(&hir.Symbol{Name: g, Kind: hir.SymVar})
	}
	for !p.at(TokRBrace) {
		if err := p.parseClassMember(cls); err != nil {
			p.mod.Symbols.PopScope()
			return nil, err
		}
	}
	p.mod.Symbols.PopScope()
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return nil, err
	}

	p.mod.AddClass(cls)
	decl := &hir.ClassDecl{Class: classID}
	decl.Sp = p.span(start)
	return decl, nil
}

func (p *Parser) parseClassMember(cls *hir.Class) error {
	readonly := false
	if p.at(TokReadonly) {
		readonly = true
		if err := p.next(); err != nil {
			return err
		}
	}
	isAsync := false
	if p.at(TokAsync) {
		isAsync = true
		if err := p.next(); err != nil {
			return err
		}
	}

	if p.at(TokConstructor) {
		return p.parseConstructor(cls)
	}

	nameTok, err := p.expect(TokIdent, "member name")
	if err != nil {
		return err
	}

	if p.at(TokLParen) || p.at(TokLt) {
		return p.parseMethod(cls, nameTok.Text, isAsync)
	}

	// Field declaration: name[?][: Type][;]
	// A "?" is accepted and dropped: hir.Field has no optional flag.
	if p.at(TokQuestion) {
		if err := p.next(); err != nil {
			return err
		}
	}
	ty := types.Any()
	if p.at(TokColon) {
		if err := p.next(); err != nil {
			return err
		}
		ty, err = p.parseType()
		if err != nil {
			return err
		}
	}
	if p.at(TokAssign) {
		// Field initializers are not represented in the class shape
		// hir.Field has no Init; skip the expression here, the way a
		// constructor-assigned default is expected to work instead.
		if err := p.next(); err != nil {
			return err
		}
		if _, err := p.parseAssignExpr(); err != nil {
			return err
		}
	}
	cls.Fields = append(cls.Fields, hir.Field{Name: nameTok.Text, Type: ty, Readonly: readonly})
	return p.skipSemicolons()
}

func (p *Parser) parseConstructor(cls *hir.Class) error {
	if _, err := p.expect(TokConstructor, "constructor"); err != nil {
		return err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return err
	}
	var params []hir.Param
	for !p.at(TokRParen) {
		// A "readonly" modifier before a param name promotes it to a
		// field too (TS parameter-property shorthand); visibility
		// modifiers (public/private/protected) are not recognised here.
		promote := false
		for p.at(TokReadonly) {
			promote = true
			if err := p.next(); err != nil {
				return err
			}
		}
		tok, err := p.expect(TokIdent, "parameter name")
		if err != nil {
			return err
		}
		ty := types.Any()
		if p.at(TokColon) {
			if err := p.next(); err != nil {
				return err
			}
			ty, err = p.parseType()
			if err != nil {
				return err
			}
		}
		params = append(params, hir.Param{Name: tok.Text, Type: ty})
		if promote {
			cls.Fields = append(cls.Fields, hir.Field{Name: tok.Text, Type: ty})
		}
		if p.at(TokComma) {
			if err := p.next(); err != nil {
				return err
			}
		}
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return err
	}
	p.mod.Symbols.PushScope()
	p.mod.Symbols.Declare(&hir.Symbol{Name: "this", Kind: hir.SymVar})
	for _, prm := range params {
		p.mod.Symbols.Declare(&hir.Symbol{Name: prm.Name, Kind: hir.SymVar})
	}
	body, err := p.parseBlock()
	p.mod.Symbols.PopScope()
	if err != nil {
		return err
	}
	fn := &hir.Func{Name: cls.Name + ".constructor", Params: params, Return: types.Void(), Body: body, OwnerClass: cls.ID, HasOwner: true}
	id := p.mod.NewFuncID()
	fn.ID = id
	p.mod.AddFunc(fn)
	cls.Methods = append(cls.Methods, id)
	return nil
}

func (p *Parser) parseMethod(cls *hir.Class, name string, isAsync bool) error {
	generics, err := p.parseOptionalGenerics()
	if err != nil {
		return err
	}
	params, err := p.parseParams()
	if err != nil {
		return err
	}
	ret := types.Void()
	if p.at(TokColon) {
		if err := p.next(); err != nil {
			return err
		}
		ret, err = p.parseType()
		if err != nil {
			return err
		}
	}
	p.mod.Symbols.PushScope()
	p.mod.Symbols.Declare(&hir.Symbol{Name: "this", Kind: hir.SymVar})
	for _, g := range generics {
		p.mod.Symbols.Declare(&hir.Symbol{Name: g, Kind: hir.SymVar})
	}
	for _, prm := range params {
		p.mod.Symbols.Declare(&hir.Symbol{Name: prm.Name, Kind: hir.SymVar})
	}
	body, err := p.parseBlock()
	p.mod.Symbols.PopScope()
	if err != nil {
		return err
	}
	fn := &hir.Func{Name: fmt.Sprintf("%s.%s", cls.Name, name), Generic: generics, Params: params, Return: ret, IsAsync: isAsync, Body: body, OwnerClass: cls.ID, HasOwner: true}
	id := p.mod.NewFuncID()
	fn.ID = id
	p.mod.AddFunc(fn)
	cls.Methods = append(cls.Methods, id)
	return nil
}
