package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/depyler-dev/depyler/internal/hir"
)

// exprPrecedence reports the §4.6 precedence level an expression occupies
// when it appears as an operand, so emitChild knows whether to wrap it.
// Atomic forms (literals, names, calls, attribute/index access) return a
// sentinel above every real operator precedence, since syntactically they
// never need parens as an operand. Ternary/Lambda/Walrus are "non-binary
// forms" and count as 0 per the spec's parenthesise-when-in-doubt floor.
func exprPrecedence(e hir.Expr) int {
	switch v := e.(type) {
	case *hir.Binary:
		return precedence(v.Op)
	case *hir.BoolOp:
		if v.Op == "and" {
			return 6
		}
		return 5
	case *hir.Compare:
		return 7
	case *hir.Unary:
		return 13
	case *hir.Ternary, *hir.Lambda, *hir.Walrus:
		return 0
	default:
		return 100
	}
}

func needsParens(child hir.Expr, parentPrec int, isRightOperand bool) bool {
	cp := exprPrecedence(child)
	if cp < parentPrec {
		return true
	}
	if cp == parentPrec && isRightOperand {
		return true
	}
	return false
}

// emitChild renders e as an operand of a context with the given
// precedence, adding parens exactly when §4.6 requires it.
func (fc *funcCodegen) emitChild(e hir.Expr, parentPrec int, isRightOperand bool) string {
	s := fc.emitExprBare(e)
	if needsParens(e, parentPrec, isRightOperand) {
		return "(" + s + ")"
	}
	return s
}

// emit is the top-level entry point (statement RHS, call argument, return
// value, ...) where no surrounding operator could ever require a paren.
func (fc *funcCodegen) emit(e hir.Expr) string {
	return fc.emitChild(e, 0, false)
}

// isFloatTyped is codegen's local, syntax-directed approximation of
// "known float" from §4.6's numeric-coercion rule: literals carry their
// own kind, names consult the scope tracker's var_types map or the
// function's own parameter types, and compound expressions recurse.
func (fc *funcCodegen) isFloatTyped(e hir.Expr) bool {
	switch v := e.(type) {
	case *hir.Literal:
		return v.Kind == hir.FloatLit
	case *hir.Var:
		if t, ok := fc.scope.typeOf(v.Name); ok {
			return t == "f64"
		}
		for _, p := range fc.fn.Params {
			if p.Name == v.Name {
				_, isFloat := p.Type.(hir.Float)
				return isFloat
			}
		}
		return false
	case *hir.Binary:
		return fc.isFloatTyped(v.Left) || fc.isFloatTyped(v.Right)
	case *hir.Unary:
		return fc.isFloatTyped(v.Operand)
	case *hir.Ternary:
		return fc.isFloatTyped(v.Body) || fc.isFloatTyped(v.Else)
	default:
		return false
	}
}

func isIntLiteral(e hir.Expr) bool {
	lit, ok := e.(*hir.Literal)
	return ok && lit.Kind == hir.IntLit
}

func emitIntLiteralAsFloat(lit *hir.Literal) string {
	switch v := lit.Value.(type) {
	case int64:
		return fmt.Sprintf("%d.0", v)
	case int:
		return fmt.Sprintf("%d.0", v)
	default:
		return fmt.Sprintf("%v.0", v)
	}
}

// renderOperand renders e as one operand of a binary context, applying
// the §4.6 numeric-coercion rule when wantFloat is true and e is not
// already float-typed: an integer literal is reformatted in place
// ("1" -> "1.0"); anything else is wrapped "(expr as f64)".
func (fc *funcCodegen) renderOperand(e hir.Expr, parentPrec int, isRight, wantFloat bool) string {
	if wantFloat && !fc.isFloatTyped(e) {
		if lit, ok := e.(*hir.Literal); ok && lit.Kind == hir.IntLit {
			return emitIntLiteralAsFloat(lit)
		}
		return "(" + fc.emitChild(e, 0, false) + " as f64)"
	}
	return fc.emitChild(e, parentPrec, isRight)
}

func (fc *funcCodegen) emitExprBare(e hir.Expr) string {
	switch v := e.(type) {
	case *hir.Literal:
		return fc.emitLiteral(v)
	case *hir.Var:
		return fc.emitVar(v)
	case *hir.Attribute:
		return fc.emit(v.Obj) + "." + v.Name
	case *hir.Index:
		return fc.emit(v.Obj) + "[" + fc.emit(v.Index) + "]"
	case *hir.Slice:
		return fc.emitSlice(v)
	case *hir.Binary:
		return fc.emitBinary(v)
	case *hir.Unary:
		return fc.emitUnary(v)
	case *hir.Compare:
		return fc.emitCompare(v)
	case *hir.BoolOp:
		return fc.emitBoolOp(v)
	case *hir.Call:
		return fc.emitCall(v)
	case *hir.MethodCall:
		return fc.emitMethodCall(v)
	case *hir.Lambda:
		return fc.emitLambda(v)
	case *hir.ListExpr:
		return fc.emitListExpr(v)
	case *hir.TupleExpr:
		return fc.emitTupleExpr(v)
	case *hir.SetExpr:
		return fc.emitSetExpr(v)
	case *hir.DictExpr:
		return fc.emitDictExpr(v)
	case *hir.ListComp:
		return fc.emitListComp(v)
	case *hir.SetComp:
		return fc.emitSetComp(v)
	case *hir.DictComp:
		return fc.emitDictComp(v)
	case *hir.GeneratorExp:
		return fc.emitGeneratorExp(v)
	case *hir.FString:
		return fc.emitFString(v)
	case *hir.Ternary:
		return fc.emitTernary(v)
	case *hir.Yield:
		if v.Value == nil {
			return "None"
		}
		return fc.emit(v.Value)
	case *hir.Await:
		return fc.emit(v.Value) + ".await"
	case *hir.Walrus:
		return "{ " + v.Name + " = " + fc.emit(v.Value) + "; " + v.Name + " }"
	case *hir.Starred:
		return "..." + fc.emit(v.Value)
	default:
		return "/* unsupported expression */"
	}
}

func (fc *funcCodegen) emitLiteral(l *hir.Literal) string {
	switch l.Kind {
	case hir.IntLit:
		switch v := l.Value.(type) {
		case int64:
			return strconv.FormatInt(v, 10)
		default:
			return fmt.Sprintf("%v", v)
		}
	case hir.FloatLit:
		switch v := l.Value.(type) {
		case float64:
			s := strconv.FormatFloat(v, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			return s
		default:
			return fmt.Sprintf("%v", v)
		}
	case hir.StringLit:
		return fmt.Sprintf("%q", l.Value)
	case hir.BytesLit:
		return fmt.Sprintf("b%q", l.Value)
	case hir.BoolLit:
		if b, ok := l.Value.(bool); ok && b {
			return "true"
		}
		return "false"
	case hir.NoneLit:
		return "None"
	default:
		return "/* literal */"
	}
}

func (fc *funcCodegen) emitVar(v *hir.Var) string {
	if fc.selfPrefixed && fc.selfFields[v.Name] {
		return "self." + v.Name
	}
	return v.Name
}

func (fc *funcCodegen) emitSlice(s *hir.Slice) string {
	lower := ""
	if s.Lower != nil {
		lower = fc.emit(s.Lower)
	}
	upper := ""
	if s.Upper != nil {
		upper = fc.emit(s.Upper)
	}
	rng := lower + ".." + upper
	if s.Step != nil {
		return fmt.Sprintf("%s[%s].iter().step_by(%s as usize)", fc.emit(s.Obj), rng, fc.emit(s.Step))
	}
	return fmt.Sprintf("%s[%s]", fc.emit(s.Obj), rng)
}

func (fc *funcCodegen) emitBinary(b *hir.Binary) string {
	prec := precedence(b.Op)

	switch b.Op {
	case "**":
		base := fc.emitChild(b.Left, 100, false)
		exp := fc.emitChild(b.Right, 100, false)
		if fc.isFloatTyped(b.Left) || fc.isFloatTyped(b.Right) {
			return base + ".powf(" + exp + ")"
		}
		return base + ".pow(" + exp + " as u32)"
	case "//":
		if !fc.isFloatTyped(b.Left) && !fc.isFloatTyped(b.Right) {
			l := fc.emitChild(b.Left, prec, false)
			r := fc.emitChild(b.Right, prec, true)
			return l + " / " + r
		}
		l := fc.emitChild(b.Left, 0, false)
		r := fc.emitChild(b.Right, 0, false)
		return fmt.Sprintf("(%s as f64 / %s as f64).floor()", l, r)
	}

	anyFloat := fc.isFloatTyped(b.Left) || fc.isFloatTyped(b.Right)
	l := fc.renderOperand(b.Left, prec, false, anyFloat)
	r := fc.renderOperand(b.Right, prec, true, anyFloat)
	return fmt.Sprintf("%s %s %s", l, b.Op, r)
}

func (fc *funcCodegen) emitUnary(u *hir.Unary) string {
	operand := fc.emitChild(u.Operand, 13, false)
	switch u.Op {
	case "not":
		return "!" + operand
	default:
		return u.Op + operand
	}
}

func (fc *funcCodegen) emitCompare(c *hir.Compare) string {
	parts := make([]string, 0, len(c.Ops))
	prev := fc.emitChild(c.Left, 7, false)
	for i, op := range c.Ops {
		cur := fc.emitChild(c.Comps[i], 7, true)
		switch op {
		case "in":
			parts = append(parts, fmt.Sprintf("%s.contains(&%s)", cur, prev))
		case "not in":
			parts = append(parts, fmt.Sprintf("!%s.contains(&%s)", cur, prev))
		case "is":
			if isNoneExpr(c.Comps[i]) {
				parts = append(parts, prev+".is_none()")
			} else {
				parts = append(parts, prev+" == "+cur)
			}
		case "is not":
			if isNoneExpr(c.Comps[i]) {
				parts = append(parts, prev+".is_some()")
			} else {
				parts = append(parts, prev+" != "+cur)
			}
		default:
			parts = append(parts, fmt.Sprintf("%s %s %s", prev, op, cur))
		}
		prev = cur
	}
	return strings.Join(parts, " && ")
}

func isNoneExpr(e hir.Expr) bool {
	lit, ok := e.(*hir.Literal)
	return ok && lit.Kind == hir.NoneLit
}

func (fc *funcCodegen) emitBoolOp(b *hir.BoolOp) string {
	prec := 6
	joiner := " && "
	if b.Op == "or" {
		prec = 5
		joiner = " || "
	}
	parts := make([]string, len(b.Values))
	for i, v := range b.Values {
		parts[i] = fc.emitChild(v, prec, false)
	}
	return strings.Join(parts, joiner)
}

func (fc *funcCodegen) emitArgs(args []hir.Expr) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = fc.emit(a)
	}
	return out
}

// emitCall implements §4.6's builtin special forms (`len`, `min`/`max`,
// `print`), the upper-case-callee constructor heuristic, stdlib rewriting
// through the library-map registry, and plain user function calls.
func (fc *funcCodegen) emitCall(c *hir.Call) string {
	args := fc.emitArgs(c.Args)

	if name, ok := dottedName(c.Callee); ok {
		switch name {
		case "len":
			if len(args) == 1 {
				return args[0] + ".len() as i32"
			}
		case "min", "max":
			if len(args) >= 2 {
				floatArgs := make([]string, len(args))
				for i, a := range args {
					floatArgs[i] = "(" + a + " as f64)"
				}
				acc := floatArgs[0]
				for _, a := range floatArgs[1:] {
					acc = fmt.Sprintf("f64::%s(%s, %s)", name, acc, a)
				}
				return acc
			}
		case "print":
			if len(args) == 0 {
				return "println!()"
			}
			fmtStr := strings.Repeat("{} ", len(args))
			fmtStr = strings.TrimSpace(fmtStr)
			return fmt.Sprintf("println!(%q, %s)", fmtStr, strings.Join(args, ", "))
		case "open":
			return emitOpenCall(args)
		case "subprocess.run":
			if rewritten, ok := fc.emitSubprocessRun(c); ok {
				return rewritten
			}
		}
		if !strings.Contains(name, ".") {
			if v, ok := c.Callee.(*hir.Var); ok && isUpperFirst(v.Name) {
				return constructorName(v.Name) + "::new(" + strings.Join(args, ", ") + ")"
			}
		}
		if fc.emitter.Registry != nil && strings.Contains(name, ".") {
			if rewritten, ok := tryLibraryRewrite(fc.emitter.Registry, c.Callee, args); ok {
				return rewritten
			}
		}
	}

	// List/dict/set literals passed to a function defined in this module
	// are borrowed (&vec![...]); calls to unresolved names stay owned.
	if v, ok := c.Callee.(*hir.Var); ok && fc.plan != nil {
		if _, known := fc.plan.perFunction[v.Name]; known {
			for i, a := range c.Args {
				switch a.(type) {
				case *hir.ListExpr, *hir.DictExpr, *hir.SetExpr:
					args[i] = "&" + args[i]
				}
			}
		}
	}

	callee := fc.emit(c.Callee)
	return callee + "(" + strings.Join(args, ", ") + ")"
}

// isUpperFirst and constructorName implement §4.6's constructor heuristic
// ("a callee whose first letter is upper-case ... lowered to
// ClassName::new(args)"), renaming names that shadow stdlib types.
func isUpperFirst(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

var shadowedStdlibNames = map[string]string{
	"Box":    "PyBox",
	"Result": "PyResult",
	"Option": "PyOption",
	"Vec":    "PyVec",
	"String": "PyString",
}

func constructorName(name string) string {
	if alt, ok := shadowedStdlibNames[name]; ok {
		return alt
	}
	return name
}

// ownedReturningStringMethods lists the Python string methods whose Rust
// lowering returns an owned String rather than a borrow (§4.6's
// owned-returning vs. borrow-returning string-method classification).
var ownedReturningStringMethods = map[string]bool{
	"upper": true, "lower": true, "strip": true, "replace": true,
	"format": true, "join": true, "title": true, "capitalize": true,
}

func (fc *funcCodegen) emitMethodCall(m *hir.MethodCall) string {
	args := fc.emitArgs(m.Args)
	obj := fc.emit(m.Obj)

	switch m.Name {
	case "append":
		return fmt.Sprintf("%s.push(%s)", obj, strings.Join(args, ", "))
	case "extend":
		return fmt.Sprintf("%s.extend(%s)", obj, strings.Join(args, ", "))
	case "pop":
		if len(args) == 0 {
			return obj + ".pop().unwrap()"
		}
		return fmt.Sprintf("%s.remove(%s as usize)", obj, args[0])
	case "sort":
		return obj + ".sort()"
	case "reverse":
		return obj + ".reverse()"
	case "keys":
		return obj + ".keys()"
	case "values":
		return obj + ".values()"
	case "items":
		return obj + ".iter()"
	case "get":
		if len(args) == 2 {
			return fmt.Sprintf("%s.get(&%s).cloned().unwrap_or(%s)", obj, args[0], args[1])
		}
		if len(args) == 1 {
			return fmt.Sprintf("%s.get(&%s)", obj, args[0])
		}
	case "startswith":
		if len(args) == 1 {
			return fmt.Sprintf("%s.starts_with(%s)", obj, args[0])
		}
	case "endswith":
		if len(args) == 1 {
			return fmt.Sprintf("%s.ends_with(%s)", obj, args[0])
		}
	case "strip":
		return obj + ".trim().to_string()"
	case "upper":
		return obj + ".to_uppercase()"
	case "lower":
		return obj + ".to_lowercase()"
	case "split":
		if len(args) == 0 {
			return obj + ".split_whitespace().collect::<Vec<_>>()"
		}
		return fmt.Sprintf("%s.split(%s).collect::<Vec<_>>()", obj, args[0])
	case "join":
		if len(args) == 1 {
			return fmt.Sprintf("%s.join(%s)", args[0], obj)
		}
	case "format":
		return obj + ".clone()" // conservative fallback; real .format() needs arg-position rewriting
	}

	if name, ok := dottedName(m.Obj); ok && fc.emitter.Registry != nil {
		full := name + "." + m.Name
		if rewritten, ok := tryLibraryRewrite(fc.emitter.Registry, &hir.Var{Name: full}, args); ok {
			return rewritten
		}
	}

	return fmt.Sprintf("%s.%s(%s)", obj, m.Name, strings.Join(args, ", "))
}

func (fc *funcCodegen) emitLambda(l *hir.Lambda) string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return "|" + strings.Join(names, ", ") + "| " + fc.emit(l.Body)
}

func (fc *funcCodegen) emitListExpr(l *hir.ListExpr) string {
	return "vec![" + strings.Join(fc.emitArgs(l.Elts), ", ") + "]"
}

func (fc *funcCodegen) emitTupleExpr(t *hir.TupleExpr) string {
	return "(" + strings.Join(fc.emitArgs(t.Elts), ", ") + ")"
}

func (fc *funcCodegen) emitSetExpr(s *hir.SetExpr) string {
	return "HashSet::from([" + strings.Join(fc.emitArgs(s.Elts), ", ") + "])"
}

func (fc *funcCodegen) emitDictExpr(d *hir.DictExpr) string {
	parts := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Key == nil {
			parts = append(parts, fmt.Sprintf("/* **%s spread unsupported */", fc.emit(e.Value)))
			continue
		}
		parts = append(parts, fmt.Sprintf("(%s, %s)", fc.emit(e.Key), fc.emit(e.Value)))
	}
	return "HashMap::from([" + strings.Join(parts, ", ") + "])"
}

func (fc *funcCodegen) emitComprehensionSource(gens []*hir.Comprehension) string {
	if len(gens) == 0 {
		return ""
	}
	g := gens[0]
	src := fmt.Sprintf("%s.iter()", fc.emit(g.Iter))
	for _, cond := range g.Ifs {
		src += fmt.Sprintf(".filter(|%s| %s)", targetPattern(g.Target), fc.emit(cond))
	}
	return src
}

func targetPattern(t *hir.AssignTarget) string {
	if t == nil {
		return "_"
	}
	if len(t.Pattern) > 0 {
		names := make([]string, len(t.Pattern))
		for i, p := range t.Pattern {
			names[i] = targetPattern(p)
		}
		return "(" + strings.Join(names, ", ") + ")"
	}
	if t.Name == "" {
		return "_"
	}
	return t.Name
}

func (fc *funcCodegen) emitListComp(l *hir.ListComp) string {
	src := fc.emitComprehensionSource(l.Generators)
	target := "_"
	if len(l.Generators) > 0 {
		target = targetPattern(l.Generators[0].Target)
	}
	return fmt.Sprintf("%s.map(|%s| %s).collect::<Vec<_>>()", src, target, fc.emit(l.Elt))
}

func (fc *funcCodegen) emitSetComp(s *hir.SetComp) string {
	src := fc.emitComprehensionSource(s.Generators)
	target := "_"
	if len(s.Generators) > 0 {
		target = targetPattern(s.Generators[0].Target)
	}
	return fmt.Sprintf("%s.map(|%s| %s).collect::<HashSet<_>>()", src, target, fc.emit(s.Elt))
}

func (fc *funcCodegen) emitDictComp(d *hir.DictComp) string {
	src := fc.emitComprehensionSource(d.Generators)
	target := "_"
	if len(d.Generators) > 0 {
		target = targetPattern(d.Generators[0].Target)
	}
	return fmt.Sprintf("%s.map(|%s| (%s, %s)).collect::<HashMap<_, _>>()", src, target, fc.emit(d.Key), fc.emit(d.Value))
}

func (fc *funcCodegen) emitGeneratorExp(g *hir.GeneratorExp) string {
	src := fc.emitComprehensionSource(g.Generators)
	target := "_"
	if len(g.Generators) > 0 {
		target = targetPattern(g.Generators[0].Target)
	}
	return fmt.Sprintf("%s.map(|%s| %s)", src, target, fc.emit(g.Elt))
}

// emitFString implements §4.6's f-string lowering: parts become a single
// format!() string with `{}`/`{:spec}` placeholders plus positional args.
func (fc *funcCodegen) emitFString(f *hir.FString) string {
	var tmpl strings.Builder
	args := make([]string, 0, len(f.Parts))
	for _, p := range f.Parts {
		if p.Expr == nil {
			tmpl.WriteString(strings.ReplaceAll(strings.ReplaceAll(p.Text, "{", "{{"), "}", "}}"))
			continue
		}
		if p.Spec != "" {
			tmpl.WriteString("{:" + p.Spec + "}")
		} else {
			tmpl.WriteString("{}")
		}
		args = append(args, fc.emit(p.Expr))
	}
	if len(args) == 0 {
		return fmt.Sprintf("%q.to_string()", tmpl.String())
	}
	return fmt.Sprintf("format!(%q, %s)", tmpl.String(), strings.Join(args, ", "))
}

func (fc *funcCodegen) emitTernary(t *hir.Ternary) string {
	return fmt.Sprintf("if %s { %s } else { %s }", fc.emit(t.Cond), fc.emit(t.Body), fc.emit(t.Else))
}
