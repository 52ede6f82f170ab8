package pyparser

import (
	"strconv"
	"strings"

	"github.com/depyler-dev/depyler/internal/pyast"
	"github.com/depyler-dev/depyler/internal/pylexer"
)

// parseExpr is the entry point for a single expression ("test" in the
// Python grammar): lambda, ternary, or an or_test, with walrus handled one
// level down since it binds tighter than everything except atoms.
func (p *Parser) parseExpr() pyast.Expr {
	if p.at(pylexer.LAMBDA) {
		return p.parseLambda()
	}
	body := p.parseOrTest()
	if p.at(pylexer.IF) {
		pos := p.pos()
		p.advance()
		cond := p.parseOrTest()
		p.expect(pylexer.ELSE)
		elseExpr := p.parseExpr()
		return &pyast.Ternary{Body: body, Cond: cond, Else: elseExpr, Pos: pos}
	}
	return body
}

func (p *Parser) parseLambda() pyast.Expr {
	pos := p.pos()
	p.expect(pylexer.LAMBDA)
	var params []*pyast.Param
	for !p.at(pylexer.COLON) && !p.at(pylexer.EOF) {
		ppos := p.pos()
		name := p.expect(pylexer.IDENT).Literal
		var def pyast.Expr
		if p.at(pylexer.ASSIGN) {
			p.advance()
			def = p.parseExpr()
		}
		params = append(params, &pyast.Param{Name: name, Default: def, Pos: ppos})
		if p.at(pylexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(pylexer.COLON)
	body := p.parseExpr()
	return &pyast.Lambda{Params: params, Body: body, Pos: pos}
}

func (p *Parser) parseOrTest() pyast.Expr {
	pos := p.pos()
	left := p.parseAndTest()
	if !p.at(pylexer.OR) {
		return left
	}
	values := []pyast.Expr{left}
	for p.at(pylexer.OR) {
		p.advance()
		values = append(values, p.parseAndTest())
	}
	return &pyast.BoolOp{Op: "or", Values: values, Pos: pos}
}

func (p *Parser) parseAndTest() pyast.Expr {
	pos := p.pos()
	left := p.parseNotTest()
	if !p.at(pylexer.AND) {
		return left
	}
	values := []pyast.Expr{left}
	for p.at(pylexer.AND) {
		p.advance()
		values = append(values, p.parseNotTest())
	}
	return &pyast.BoolOp{Op: "and", Values: values, Pos: pos}
}

func (p *Parser) parseNotTest() pyast.Expr {
	if p.at(pylexer.NOT) {
		pos := p.pos()
		p.advance()
		return &pyast.UnaryOp{Op: "not", Operand: p.parseNotTest(), Pos: pos}
	}
	return p.parseComparison()
}

var compareOps = map[pylexer.TokenType]string{
	pylexer.LT: "<", pylexer.GT: ">", pylexer.LE: "<=", pylexer.GE: ">=",
	pylexer.EQ: "==", pylexer.NEQ: "!=",
}

func (p *Parser) parseComparison() pyast.Expr {
	pos := p.pos()
	left := p.parseBitOr()
	var ops []string
	var comps []pyast.Expr
	for {
		if op, ok := compareOps[p.cur.Type]; ok {
			p.advance()
			ops = append(ops, op)
			comps = append(comps, p.parseBitOr())
			continue
		}
		if p.at(pylexer.IN) {
			p.advance()
			ops = append(ops, "in")
			comps = append(comps, p.parseBitOr())
			continue
		}
		if p.at(pylexer.NOT) && p.peekAt(pylexer.IN) {
			p.advance()
			p.advance()
			ops = append(ops, "not in")
			comps = append(comps, p.parseBitOr())
			continue
		}
		if p.at(pylexer.IS) {
			p.advance()
			if p.at(pylexer.NOT) {
				p.advance()
				ops = append(ops, "is not")
			} else {
				ops = append(ops, "is")
			}
			comps = append(comps, p.parseBitOr())
			continue
		}
		break
	}
	if len(ops) == 0 {
		return left
	}
	return &pyast.Compare{Left: left, Ops: ops, Comps: comps, Pos: pos}
}

func (p *Parser) parseBitOr() pyast.Expr {
	left := p.parseBitXor()
	for p.at(pylexer.PIPE) {
		pos := p.pos()
		p.advance()
		left = &pyast.BinOp{Op: "|", Left: left, Right: p.parseBitXor(), Pos: pos}
	}
	return left
}

func (p *Parser) parseBitXor() pyast.Expr {
	left := p.parseBitAnd()
	for p.at(pylexer.CARET) {
		pos := p.pos()
		p.advance()
		left = &pyast.BinOp{Op: "^", Left: left, Right: p.parseBitAnd(), Pos: pos}
	}
	return left
}

func (p *Parser) parseBitAnd() pyast.Expr {
	left := p.parseShift()
	for p.at(pylexer.AMP) {
		pos := p.pos()
		p.advance()
		left = &pyast.BinOp{Op: "&", Left: left, Right: p.parseShift(), Pos: pos}
	}
	return left
}

func (p *Parser) parseShift() pyast.Expr {
	left := p.parseArith()
	for p.at(pylexer.LSHIFT) || p.at(pylexer.RSHIFT) {
		op := "<<"
		if p.at(pylexer.RSHIFT) {
			op = ">>"
		}
		pos := p.pos()
		p.advance()
		left = &pyast.BinOp{Op: op, Left: left, Right: p.parseArith(), Pos: pos}
	}
	return left
}

func (p *Parser) parseArith() pyast.Expr {
	left := p.parseTerm()
	for p.at(pylexer.PLUS) || p.at(pylexer.MINUS) {
		op := "+"
		if p.at(pylexer.MINUS) {
			op = "-"
		}
		pos := p.pos()
		p.advance()
		left = &pyast.BinOp{Op: op, Left: left, Right: p.parseTerm(), Pos: pos}
	}
	return left
}

func (p *Parser) parseTerm() pyast.Expr {
	left := p.parseFactor()
	for {
		var op string
		switch p.cur.Type {
		case pylexer.STAR:
			op = "*"
		case pylexer.SLASH:
			op = "/"
		case pylexer.DOUBLESLASH:
			op = "//"
		case pylexer.PERCENT:
			op = "%"
		case pylexer.AT:
			op = "@"
		default:
			return left
		}
		pos := p.pos()
		p.advance()
		left = &pyast.BinOp{Op: op, Left: left, Right: p.parseFactor(), Pos: pos}
	}
}

func (p *Parser) parseFactor() pyast.Expr {
	switch p.cur.Type {
	case pylexer.PLUS, pylexer.MINUS, pylexer.TILDE:
		op := map[pylexer.TokenType]string{pylexer.PLUS: "+", pylexer.MINUS: "-", pylexer.TILDE: "~"}[p.cur.Type]
		pos := p.pos()
		p.advance()
		return &pyast.UnaryOp{Op: op, Operand: p.parseFactor(), Pos: pos}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() pyast.Expr {
	left := p.parseAwaitOrPrimary()
	if p.at(pylexer.DOUBLESTAR) {
		pos := p.pos()
		p.advance()
		right := p.parseFactor() // right-associative, binds unary minus on RHS
		return &pyast.BinOp{Op: "**", Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseAwaitOrPrimary() pyast.Expr {
	if p.at(pylexer.AWAIT) {
		pos := p.pos()
		p.advance()
		return &pyast.Await{Value: p.parsePrimary(), Pos: pos}
	}
	return p.parsePrimary()
}

// parsePrimary parses an atom followed by any chain of trailers:
// attribute access, call, or subscript.
func (p *Parser) parsePrimary() pyast.Expr {
	expr := p.parseAtom()
	for {
		switch p.cur.Type {
		case pylexer.DOT:
			pos := p.pos()
			p.advance()
			name := p.expect(pylexer.IDENT).Literal
			if p.at(pylexer.LPAREN) {
				args, kwargs := p.parseCallArgs()
				expr = &pyast.MethodCall{Obj: expr, Name: name, Args: args, Kwargs: kwargs, Pos: pos}
				continue
			}
			expr = &pyast.Attribute{Value: expr, Attr: name, Pos: pos}
		case pylexer.LPAREN:
			pos := p.pos()
			args, kwargs := p.parseCallArgs()
			expr = &pyast.Call{Func: expr, Args: args, Kwargs: kwargs, Pos: pos}
		case pylexer.LBRACKET:
			pos := p.pos()
			p.advance()
			idx := p.parseSubscript()
			p.expect(pylexer.RBRACKET)
			if sl, ok := idx.(*pyast.Slice); ok {
				expr = &pyast.Index{Value: expr, Index: sl, Pos: pos}
			} else {
				expr = &pyast.Index{Value: expr, Index: idx, Pos: pos}
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs() ([]pyast.Expr, []*pyast.Keyword) {
	p.expect(pylexer.LPAREN)
	var args []pyast.Expr
	var kwargs []*pyast.Keyword
	for !p.at(pylexer.RPAREN) && !p.at(pylexer.EOF) {
		if p.at(pylexer.DOUBLESTAR) {
			p.advance()
			kwargs = append(kwargs, &pyast.Keyword{Name: "", Value: p.parseExpr()})
		} else if p.at(pylexer.STAR) {
			pos := p.pos()
			p.advance()
			args = append(args, &pyast.Starred{Value: p.parseExpr(), Pos: pos})
		} else if p.at(pylexer.IDENT) && p.peekAt(pylexer.ASSIGN) {
			name := p.cur.Literal
			p.advance()
			p.advance()
			kwargs = append(kwargs, &pyast.Keyword{Name: name, Value: p.parseExpr()})
		} else {
			args = append(args, p.parseExpr())
		}
		if p.at(pylexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(pylexer.RPAREN)
	return args, kwargs
}

// parseSubscript handles both plain indices and slice syntax `a:b:c`.
func (p *Parser) parseSubscript() pyast.Expr {
	pos := p.pos()
	var lower, upper, step pyast.Expr
	if !p.at(pylexer.COLON) {
		lower = p.parseExpr()
	}
	if !p.at(pylexer.COLON) {
		return lower
	}
	p.advance()
	if !p.at(pylexer.COLON) && !p.at(pylexer.RBRACKET) {
		upper = p.parseExpr()
	}
	if p.at(pylexer.COLON) {
		p.advance()
		if !p.at(pylexer.RBRACKET) {
			step = p.parseExpr()
		}
	}
	return &pyast.Slice{Lower: lower, Upper: upper, Step: step, Pos: pos}
}

func (p *Parser) parseAtom() pyast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case pylexer.INT:
		lit := p.cur.Literal
		p.advance()
		v, _ := strconv.ParseInt(lit, 10, 64)
		return &pyast.Literal{Kind: pyast.IntLit, Value: v, Pos: pos}
	case pylexer.FLOAT:
		lit := p.cur.Literal
		p.advance()
		v, _ := strconv.ParseFloat(lit, 64)
		return &pyast.Literal{Kind: pyast.FloatLit, Value: v, Pos: pos}
	case pylexer.STRING:
		lit := p.cur.Literal
		p.advance()
		return &pyast.Literal{Kind: pyast.StringLit, Value: lit, Pos: pos}
	case pylexer.BYTES:
		lit := p.cur.Literal
		p.advance()
		return &pyast.Literal{Kind: pyast.BytesLit, Value: lit, Pos: pos}
	case pylexer.FSTRING_START:
		raw := p.cur.Literal
		p.advance()
		return p.parseFString(raw, pos)
	case pylexer.TRUE:
		p.advance()
		return &pyast.Literal{Kind: pyast.BoolLit, Value: true, Pos: pos}
	case pylexer.FALSE:
		p.advance()
		return &pyast.Literal{Kind: pyast.BoolLit, Value: false, Pos: pos}
	case pylexer.NONE:
		p.advance()
		return &pyast.Literal{Kind: pyast.NoneLit, Pos: pos}
	case pylexer.IDENT:
		name := p.cur.Literal
		p.advance()
		if p.at(pylexer.WALRUS) {
			p.advance()
			return &pyast.Walrus{Name: name, Value: p.parseExpr(), Pos: pos}
		}
		return &pyast.Name{Id: name, Pos: pos}
	case pylexer.STAR:
		p.advance()
		return &pyast.Starred{Value: p.parseExpr(), Pos: pos}
	case pylexer.YIELD:
		p.advance()
		if p.at(pylexer.NEWLINE) || p.at(pylexer.RPAREN) || p.at(pylexer.SEMICOLON) {
			return &pyast.Yield{Pos: pos}
		}
		return &pyast.Yield{Value: p.parseExprList(), Pos: pos}
	case pylexer.LPAREN:
		return p.parseParenOrTupleOrGenexp()
	case pylexer.LBRACKET:
		return p.parseListOrListcomp()
	case pylexer.LBRACE:
		return p.parseDictOrSetOrComp()
	}
	p.errorf("unexpected token %v %q in expression", p.cur.Type, p.cur.Literal)
	p.advance()
	return &pyast.Literal{Kind: pyast.NoneLit, Pos: pos}
}

func (p *Parser) parseParenOrTupleOrGenexp() pyast.Expr {
	pos := p.pos()
	p.expect(pylexer.LPAREN)
	if p.at(pylexer.RPAREN) {
		p.advance()
		return &pyast.TupleExpr{Pos: pos}
	}
	first := p.parseExpr()
	if gens := p.tryParseComprehensionTail(); gens != nil {
		p.expect(pylexer.RPAREN)
		return &pyast.GeneratorExp{Elt: first, Generators: gens, Pos: pos}
	}
	if !p.at(pylexer.COMMA) {
		p.expect(pylexer.RPAREN)
		return first
	}
	elts := []pyast.Expr{first}
	for p.at(pylexer.COMMA) {
		p.advance()
		if p.at(pylexer.RPAREN) {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	p.expect(pylexer.RPAREN)
	return &pyast.TupleExpr{Elts: elts, Pos: pos}
}

func (p *Parser) parseListOrListcomp() pyast.Expr {
	pos := p.pos()
	p.expect(pylexer.LBRACKET)
	if p.at(pylexer.RBRACKET) {
		p.advance()
		return &pyast.ListExpr{Pos: pos}
	}
	first := p.parseExpr()
	if gens := p.tryParseComprehensionTail(); gens != nil {
		p.expect(pylexer.RBRACKET)
		return &pyast.ListComp{Elt: first, Generators: gens, Pos: pos}
	}
	elts := []pyast.Expr{first}
	for p.at(pylexer.COMMA) {
		p.advance()
		if p.at(pylexer.RBRACKET) {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	p.expect(pylexer.RBRACKET)
	return &pyast.ListExpr{Elts: elts, Pos: pos}
}

func (p *Parser) parseDictOrSetOrComp() pyast.Expr {
	pos := p.pos()
	p.expect(pylexer.LBRACE)
	if p.at(pylexer.RBRACE) {
		p.advance()
		return &pyast.DictExpr{Pos: pos}
	}
	if p.at(pylexer.DOUBLESTAR) {
		p.advance()
		val := p.parseOrTest()
		entries := []*pyast.DictEntry{{Key: nil, Value: val}}
		for p.at(pylexer.COMMA) {
			p.advance()
			if p.at(pylexer.RBRACE) {
				break
			}
			entries = append(entries, p.parseDictEntry())
		}
		p.expect(pylexer.RBRACE)
		return &pyast.DictExpr{Entries: entries, Pos: pos}
	}

	first := p.parseExpr()
	if p.at(pylexer.COLON) {
		p.advance()
		val := p.parseExpr()
		if gens := p.tryParseComprehensionTail(); gens != nil {
			p.expect(pylexer.RBRACE)
			return &pyast.DictComp{Key: first, Value: val, Generators: gens, Pos: pos}
		}
		entries := []*pyast.DictEntry{{Key: first, Value: val}}
		for p.at(pylexer.COMMA) {
			p.advance()
			if p.at(pylexer.RBRACE) {
				break
			}
			entries = append(entries, p.parseDictEntry())
		}
		p.expect(pylexer.RBRACE)
		return &pyast.DictExpr{Entries: entries, Pos: pos}
	}

	if gens := p.tryParseComprehensionTail(); gens != nil {
		p.expect(pylexer.RBRACE)
		return &pyast.SetComp{Elt: first, Generators: gens, Pos: pos}
	}
	elts := []pyast.Expr{first}
	for p.at(pylexer.COMMA) {
		p.advance()
		if p.at(pylexer.RBRACE) {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	p.expect(pylexer.RBRACE)
	return &pyast.SetExpr{Elts: elts, Pos: pos}
}

func (p *Parser) parseDictEntry() *pyast.DictEntry {
	if p.at(pylexer.DOUBLESTAR) {
		p.advance()
		return &pyast.DictEntry{Key: nil, Value: p.parseOrTest()}
	}
	key := p.parseExpr()
	p.expect(pylexer.COLON)
	val := p.parseExpr()
	return &pyast.DictEntry{Key: key, Value: val}
}

// tryParseComprehensionTail consumes one or more `for ... in ... [if ...]`
// clauses if the current token starts one, returning nil otherwise.
func (p *Parser) tryParseComprehensionTail() []*pyast.Comprehension {
	if !p.at(pylexer.FOR) {
		return nil
	}
	var gens []*pyast.Comprehension
	for p.at(pylexer.FOR) {
		p.advance()
		target := p.parseTargetList()
		p.expect(pylexer.IN)
		iter := p.parseOrTest()
		var ifs []pyast.Expr
		for p.at(pylexer.IF) {
			p.advance()
			ifs = append(ifs, p.parseOrTest())
		}
		gens = append(gens, &pyast.Comprehension{Target: target, Iter: iter, Ifs: ifs})
	}
	return gens
}

// parseFString splits a raw f-string body into literal-text and
// interpolated-expression parts, reusing this parser's own expression
// grammar for each `{...}` region.
func (p *Parser) parseFString(raw string, pos pyast.Pos) *pyast.FString {
	f := &pyast.FString{Pos: pos}
	var text strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '{' && i+1 < len(raw) && raw[i+1] == '{' {
			text.WriteByte('{')
			i += 2
			continue
		}
		if c == '}' && i+1 < len(raw) && raw[i+1] == '}' {
			text.WriteByte('}')
			i += 2
			continue
		}
		if c == '{' {
			if text.Len() > 0 {
				f.Parts = append(f.Parts, &pyast.FStringPart{Text: text.String()})
				text.Reset()
			}
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						goto found
					}
				}
				j++
			}
		found:
			inner := raw[i+1 : j]
			spec := ""
			if idx := strings.Index(inner, "!"); idx >= 0 {
				inner = inner[:idx]
			}
			if idx := strings.Index(inner, ":"); idx >= 0 {
				spec = inner[idx+1:]
				inner = inner[:idx]
			}
			sub, _ := Parse([]byte(inner), p.filename)
			var expr pyast.Expr
			if len(sub.Body) > 0 {
				if es, ok := sub.Body[0].(*pyast.ExprStmt); ok {
					expr = es.Value
				}
			}
			f.Parts = append(f.Parts, &pyast.FStringPart{Expr: expr, Spec: spec})
			i = j + 1
			continue
		}
		text.WriteByte(c)
		i++
	}
	if text.Len() > 0 {
		f.Parts = append(f.Parts, &pyast.FStringPart{Text: text.String()})
	}
	return f
}
