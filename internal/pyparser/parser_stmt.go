package pyparser

import (
	"github.com/depyler-dev/depyler/internal/pyast"
	"github.com/depyler-dev/depyler/internal/pylexer"
)

func (p *Parser) parseStatement() pyast.Stmt {
	switch p.cur.Type {
	case pylexer.AT:
		return p.parseDecorated()
	case pylexer.DEF:
		return p.parseFuncDef(nil, false)
	case pylexer.ASYNC:
		pos := p.pos()
		p.advance()
		if !p.at(pylexer.DEF) {
			p.errorf("expected 'def' after 'async'")
			p.resync()
			return nil
		}
		fn := p.parseFuncDef(nil, true)
		fn.Pos = pos
		return fn
	case pylexer.CLASS:
		return p.parseClassDef()
	case pylexer.IF:
		return p.parseIf()
	case pylexer.WHILE:
		return p.parseWhile()
	case pylexer.FOR:
		return p.parseFor()
	case pylexer.TRY:
		return p.parseTry()
	case pylexer.WITH:
		return p.parseWith()
	case pylexer.RETURN:
		return p.parseReturn()
	case pylexer.RAISE:
		return p.parseRaise()
	case pylexer.ASSERT:
		return p.parseAssert()
	case pylexer.PASS:
		pos := p.pos()
		p.advance()
		p.endSimpleStmt()
		return &pyast.Pass{Pos: pos}
	case pylexer.BREAK:
		pos := p.pos()
		p.advance()
		p.endSimpleStmt()
		return &pyast.Break{Pos: pos}
	case pylexer.CONTINUE:
		pos := p.pos()
		p.advance()
		p.endSimpleStmt()
		return &pyast.Continue{Pos: pos}
	case pylexer.DEL:
		return p.parseDel()
	case pylexer.GLOBAL:
		return p.parseGlobal()
	case pylexer.NONLOCAL:
		return p.parseNonlocal()
	case pylexer.IMPORT, pylexer.FROM:
		return p.parseImport()
	default:
		return p.parseExprOrAssignStatement()
	}
}

// endSimpleStmt consumes the trailing ';' or NEWLINE that terminates a
// simple statement, tolerating multiple semicolon-separated statements is
// left to the caller; here we just swallow the line terminator.
func (p *Parser) endSimpleStmt() {
	if p.at(pylexer.SEMICOLON) {
		p.advance()
		return
	}
	if p.at(pylexer.NEWLINE) {
		p.advance()
		return
	}
}

func (p *Parser) parseBlock() []pyast.Stmt {
	p.expect(pylexer.COLON)
	if p.at(pylexer.NEWLINE) {
		p.advance()
		p.expect(pylexer.INDENT)
		var body []pyast.Stmt
		for !p.at(pylexer.DEDENT) && !p.at(pylexer.EOF) {
			if s := p.parseStatement(); s != nil {
				body = append(body, s)
			}
			p.skipNewlines()
		}
		p.expect(pylexer.DEDENT)
		return body
	}
	// Single-line suite: `if x: return y`
	var body []pyast.Stmt
	if s := p.parseStatement(); s != nil {
		body = append(body, s)
	}
	return body
}

func (p *Parser) parseDecorated() pyast.Stmt {
	var decorators []pyast.Expr
	for p.at(pylexer.AT) {
		p.advance()
		decorators = append(decorators, p.parseExpr())
		if p.at(pylexer.NEWLINE) {
			p.advance()
		}
	}
	if p.at(pylexer.ASYNC) {
		p.advance()
		fn := p.parseFuncDef(decorators, true)
		return fn
	}
	if p.at(pylexer.CLASS) {
		cd := p.parseClassDef()
		return cd
	}
	return p.parseFuncDef(decorators, false)
}

func (p *Parser) parseFuncDef(decorators []pyast.Expr, isAsync bool) *pyast.FuncDef {
	pos := p.pos()
	p.expect(pylexer.DEF)
	name := p.expect(pylexer.IDENT).Literal
	params := p.parseParamList()
	var ret pyast.Expr
	if p.at(pylexer.ARROW) {
		p.advance()
		ret = p.parseExpr()
	}
	body := p.parseBlock()
	doc, rest := splitDocstring(body)
	return &pyast.FuncDef{
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       rest,
		Decorators: decorators,
		Docstring:  doc,
		IsAsync:    isAsync,
		Pos:        pos,
	}
}

func splitDocstring(body []pyast.Stmt) (string, []pyast.Stmt) {
	if len(body) == 0 {
		return "", body
	}
	es, ok := body[0].(*pyast.ExprStmt)
	if !ok {
		return "", body
	}
	lit, ok := es.Value.(*pyast.Literal)
	if !ok || lit.Kind != pyast.StringLit {
		return "", body
	}
	s, _ := lit.Value.(string)
	return s, body[1:]
}

func (p *Parser) parseParamList() []*pyast.Param {
	p.expect(pylexer.LPAREN)
	var params []*pyast.Param
	for !p.at(pylexer.RPAREN) && !p.at(pylexer.EOF) {
		if p.at(pylexer.STAR) || p.at(pylexer.DOUBLESTAR) {
			// *args / **kwargs: kept positionally, untyped unless annotated.
			p.advance()
		}
		pos := p.pos()
		name := p.expect(pylexer.IDENT).Literal
		var ann, def pyast.Expr
		if p.at(pylexer.COLON) {
			p.advance()
			ann = p.parseExpr()
		}
		if p.at(pylexer.ASSIGN) {
			p.advance()
			def = p.parseExpr()
		}
		params = append(params, &pyast.Param{Name: name, Annotation: ann, Default: def, Pos: pos})
		if p.at(pylexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(pylexer.RPAREN)
	return params
}

func (p *Parser) parseClassDef() *pyast.ClassDef {
	pos := p.pos()
	p.expect(pylexer.CLASS)
	name := p.expect(pylexer.IDENT).Literal
	var bases []pyast.Expr
	if p.at(pylexer.LPAREN) {
		p.advance()
		for !p.at(pylexer.RPAREN) && !p.at(pylexer.EOF) {
			bases = append(bases, p.parseExpr())
			if p.at(pylexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(pylexer.RPAREN)
	}
	body := p.parseBlock()
	doc, rest := splitDocstring(body)
	return &pyast.ClassDef{Name: name, Bases: bases, Body: rest, Docstring: doc, Pos: pos}
}

func (p *Parser) parseIf() *pyast.If {
	pos := p.pos()
	p.expect(pylexer.IF)
	cond := p.parseExpr()
	body := p.parseBlock()
	var elseBody []pyast.Stmt
	if p.at(pylexer.ELIF) {
		elseBody = []pyast.Stmt{p.parseElif()}
	} else if p.at(pylexer.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	return &pyast.If{Cond: cond, Body: body, Else: elseBody, Pos: pos}
}

// parseElif treats `elif` as sugar for `else: if ...`, matching the
// language's own semantics and collapsing the surface grammar into a
// single If node shape.
func (p *Parser) parseElif() *pyast.If {
	pos := p.pos()
	p.expect(pylexer.ELIF)
	cond := p.parseExpr()
	body := p.parseBlock()
	var elseBody []pyast.Stmt
	if p.at(pylexer.ELIF) {
		elseBody = []pyast.Stmt{p.parseElif()}
	} else if p.at(pylexer.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	return &pyast.If{Cond: cond, Body: body, Else: elseBody, Pos: pos}
}

func (p *Parser) parseWhile() *pyast.While {
	pos := p.pos()
	p.expect(pylexer.WHILE)
	cond := p.parseExpr()
	body := p.parseBlock()
	var elseBody []pyast.Stmt
	if p.at(pylexer.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	return &pyast.While{Cond: cond, Body: body, Else: elseBody, Pos: pos}
}

func (p *Parser) parseFor() *pyast.For {
	pos := p.pos()
	p.expect(pylexer.FOR)
	target := p.parseTargetList()
	p.expect(pylexer.IN)
	iter := p.parseExprList()
	body := p.parseBlock()
	var elseBody []pyast.Stmt
	if p.at(pylexer.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	return &pyast.For{Target: target, Iter: iter, Body: body, Else: elseBody, Pos: pos}
}

func (p *Parser) parseTry() *pyast.Try {
	pos := p.pos()
	p.expect(pylexer.TRY)
	body := p.parseBlock()
	var handlers []*pyast.ExceptHandler
	for p.at(pylexer.EXCEPT) {
		hpos := p.pos()
		p.advance()
		var typ pyast.Expr
		var name string
		if !p.at(pylexer.COLON) {
			typ = p.parseExpr()
			if p.at(pylexer.AS) {
				p.advance()
				name = p.expect(pylexer.IDENT).Literal
			}
		}
		hbody := p.parseBlock()
		handlers = append(handlers, &pyast.ExceptHandler{Type: typ, Name: name, Body: hbody, Pos: hpos})
	}
	var elseBody, finallyBody []pyast.Stmt
	if p.at(pylexer.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	if p.at(pylexer.FINALLY) {
		p.advance()
		finallyBody = p.parseBlock()
	}
	return &pyast.Try{Body: body, Handlers: handlers, Else: elseBody, Finally: finallyBody, Pos: pos}
}

func (p *Parser) parseWith() *pyast.With {
	pos := p.pos()
	p.expect(pylexer.WITH)
	var items []*pyast.WithItem
	for {
		ctx := p.parseExpr()
		var target pyast.Expr
		if p.at(pylexer.AS) {
			p.advance()
			target = p.parsePrimary()
		}
		items = append(items, &pyast.WithItem{Context: ctx, Target: target})
		if p.at(pylexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	body := p.parseBlock()
	return &pyast.With{Items: items, Body: body, Pos: pos}
}

func (p *Parser) parseReturn() *pyast.Return {
	pos := p.pos()
	p.expect(pylexer.RETURN)
	var val pyast.Expr
	if !p.at(pylexer.NEWLINE) && !p.at(pylexer.SEMICOLON) && !p.at(pylexer.EOF) {
		val = p.parseExprList()
	}
	p.endSimpleStmt()
	return &pyast.Return{Value: val, Pos: pos}
}

func (p *Parser) parseRaise() *pyast.Raise {
	pos := p.pos()
	p.expect(pylexer.RAISE)
	var exc, from pyast.Expr
	if !p.at(pylexer.NEWLINE) && !p.at(pylexer.EOF) {
		exc = p.parseExpr()
		if p.at(pylexer.FROM) {
			p.advance()
			from = p.parseExpr()
		}
	}
	p.endSimpleStmt()
	return &pyast.Raise{Exc: exc, From: from, Pos: pos}
}

func (p *Parser) parseAssert() *pyast.Assert {
	pos := p.pos()
	p.expect(pylexer.ASSERT)
	test := p.parseExpr()
	var msg pyast.Expr
	if p.at(pylexer.COMMA) {
		p.advance()
		msg = p.parseExpr()
	}
	p.endSimpleStmt()
	return &pyast.Assert{Test: test, Msg: msg, Pos: pos}
}

func (p *Parser) parseDel() *pyast.Del {
	pos := p.pos()
	p.expect(pylexer.DEL)
	var targets []pyast.Expr
	targets = append(targets, p.parseExpr())
	for p.at(pylexer.COMMA) {
		p.advance()
		targets = append(targets, p.parseExpr())
	}
	p.endSimpleStmt()
	return &pyast.Del{Targets: targets, Pos: pos}
}

func (p *Parser) parseGlobal() *pyast.Global {
	pos := p.pos()
	p.expect(pylexer.GLOBAL)
	names := []string{p.expect(pylexer.IDENT).Literal}
	for p.at(pylexer.COMMA) {
		p.advance()
		names = append(names, p.expect(pylexer.IDENT).Literal)
	}
	p.endSimpleStmt()
	return &pyast.Global{Names: names, Pos: pos}
}

func (p *Parser) parseNonlocal() *pyast.Nonlocal {
	pos := p.pos()
	p.expect(pylexer.NONLOCAL)
	names := []string{p.expect(pylexer.IDENT).Literal}
	for p.at(pylexer.COMMA) {
		p.advance()
		names = append(names, p.expect(pylexer.IDENT).Literal)
	}
	p.endSimpleStmt()
	return &pyast.Nonlocal{Names: names, Pos: pos}
}

func (p *Parser) parseImport() pyast.Stmt {
	pos := p.pos()
	if p.at(pylexer.IMPORT) {
		p.advance()
		mod := p.parseDottedName()
		aliases := map[string]string{}
		if p.at(pylexer.AS) {
			p.advance()
			aliases[mod] = p.expect(pylexer.IDENT).Literal
		}
		p.endSimpleStmt()
		return &pyast.Import{Module: mod, Aliases: aliases, Pos: pos}
	}
	p.expect(pylexer.FROM)
	mod := p.parseDottedName()
	p.expect(pylexer.IMPORT)
	var names []string
	aliases := map[string]string{}
	star := p.at(pylexer.STAR)
	if star {
		p.advance()
	} else {
		paren := p.at(pylexer.LPAREN)
		if paren {
			p.advance()
		}
		for {
			n := p.expect(pylexer.IDENT).Literal
			names = append(names, n)
			if p.at(pylexer.AS) {
				p.advance()
				aliases[n] = p.expect(pylexer.IDENT).Literal
			}
			if p.at(pylexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if paren {
			p.expect(pylexer.RPAREN)
		}
	}
	p.endSimpleStmt()
	return &pyast.Import{Module: mod, Names: names, Aliases: aliases, IsFrom: true, Pos: pos}
}

func (p *Parser) parseDottedName() string {
	name := p.expect(pylexer.IDENT).Literal
	for p.at(pylexer.DOT) {
		p.advance()
		name += "." + p.expect(pylexer.IDENT).Literal
	}
	return name
}

// parseExprOrAssignStatement handles plain expression statements, `=`
// assignment (possibly chained/annotated), and augmented assignment.
func (p *Parser) parseExprOrAssignStatement() pyast.Stmt {
	pos := p.pos()
	first := p.parseTargetList()

	if p.at(pylexer.COLON) {
		p.advance()
		ann := p.parseExpr()
		var val pyast.Expr
		if p.at(pylexer.ASSIGN) {
			p.advance()
			val = p.parseExprList()
		}
		p.endSimpleStmt()
		return &pyast.Assign{Targets: []pyast.Expr{first}, Value: val, Annotation: ann, Pos: pos}
	}

	if op, ok := augOp(p.cur.Type); ok {
		p.advance()
		val := p.parseExprList()
		p.endSimpleStmt()
		return &pyast.AugAssign{Target: first, Op: op, Value: val, Pos: pos}
	}

	if p.at(pylexer.ASSIGN) {
		targets := []pyast.Expr{first}
		var val pyast.Expr
		for p.at(pylexer.ASSIGN) {
			p.advance()
			if val != nil {
				targets = append(targets, val)
			}
			val = p.parseTargetList()
		}
		p.endSimpleStmt()
		return &pyast.Assign{Targets: targets, Value: val, Pos: pos}
	}

	p.endSimpleStmt()
	return &pyast.ExprStmt{Value: first, Pos: pos}
}

func augOp(t pylexer.TokenType) (string, bool) {
	switch t {
	case pylexer.PLUSEQ:
		return "+", true
	case pylexer.MINUSEQ:
		return "-", true
	case pylexer.STAREQ:
		return "*", true
	case pylexer.SLASHEQ:
		return "/", true
	case pylexer.PERCENTEQ:
		return "%", true
	}
	return "", false
}

// parseTargetList parses a comma-separated list of expressions, collapsing
// into a TupleExpr when more than one is present (used both for assignment
// targets and for-loop targets/iterables).
func (p *Parser) parseTargetList() pyast.Expr {
	pos := p.pos()
	first := p.parseExpr()
	if !p.at(pylexer.COMMA) {
		return first
	}
	elts := []pyast.Expr{first}
	for p.at(pylexer.COMMA) {
		p.advance()
		if p.at(pylexer.ASSIGN) || p.at(pylexer.NEWLINE) || p.at(pylexer.COLON) || p.at(pylexer.IN) {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	return &pyast.TupleExpr{Elts: elts, Pos: pos}
}

func (p *Parser) parseExprList() pyast.Expr { return p.parseTargetList() }
