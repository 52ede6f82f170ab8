package codegen

import (
	"fmt"
	"strings"

	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
)

// funcCodegen holds the per-function emission state threaded through
// statement/expression emission: the §4.7 scope tracker, the exception
// plan this function's Result-wrapping decision came from, and (for
// generator bodies) the redirection needed to turn `yield` into a push
// into the collecting Vec, plus the self-prefixing needed when emitting
// inside a generator state struct's `next` or a class method.
type funcCodegen struct {
	emitter *Emitter
	fn      *hir.Function
	scope   *scopeTracker
	plan    *moduleExceptionPlan

	errType     string // "" => plain return type, else Result<T, errType>
	baseRetType string

	// currentTryLabel is the innermost enclosing try's labeled-block name;
	// "" when not inside any try. A Raise breaks this label with Err(...);
	// a Return breaks it with Ok(...) instead of returning directly, so
	// the match dispatch after the block can still decide whether the
	// exception was handled before any value escapes the function.
	currentTryLabel string
	tryCounter      int

	// yieldSink is the Vec-of-yields variable name inside a generator's
	// `next`, non-empty only while emitting a generator function body.
	yieldSink string

	// eagerCollect is true when yieldSink names a Vec local inside a plain
	// (non-struct) eagerly-collecting generator fallback function rather
	// than a generator state struct's `next`: a `return` there must still
	// produce the collected iterator instead of `None`.
	eagerCollect bool

	selfPrefixed bool
	selfFields   map[string]bool
}

func ind(level int) string { return strings.Repeat("    ", level) }

func (fc *funcCodegen) emitBlock(stmts []hir.Stmt, level int) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(fc.emitStmt(s, level))
	}
	return b.String()
}

func (fc *funcCodegen) emitStmt(s hir.Stmt, level int) string {
	switch v := s.(type) {
	case *hir.Assign:
		return fc.emitAssign(v, level)
	case *hir.AugAssign:
		return fc.emitAugAssign(v, level)
	case *hir.Return:
		return fc.emitReturn(v, level)
	case *hir.If:
		return fc.emitIf(v, level)
	case *hir.While:
		return fc.emitWhile(v, level)
	case *hir.For:
		return fc.emitFor(v, level)
	case *hir.Try:
		return fc.emitTry(v, level)
	case *hir.With:
		return fc.emitWith(v, level)
	case *hir.Raise:
		return fc.emitRaise(v, level)
	case *hir.Assert:
		return fc.emitAssert(v, level)
	case *hir.Pass:
		return ""
	case *hir.Break:
		return ind(level) + "break;\n"
	case *hir.Continue:
		return ind(level) + "continue;\n"
	case *hir.ExprStmt:
		return fc.emitExprStmt(v, level)
	case *hir.Del:
		return fc.emitDel(v, level)
	case *hir.Global, *hir.Nonlocal:
		return ind(level) + "// global/nonlocal: no Rust equivalent at function scope\n"
	default:
		return ind(level) + "// unsupported statement\n"
	}
}

func (fc *funcCodegen) emitTargetDecl(t *hir.AssignTarget, valueExpr string, level int) string {
	if t == nil {
		return ""
	}
	if len(t.Pattern) > 0 {
		names := make([]string, len(t.Pattern))
		anyFirst := false
		for i, p := range t.Pattern {
			if p.Name == "" {
				names[i] = "_"
				continue
			}
			if fc.scope.declare(p.Name) {
				anyFirst = true
				names[i] = "mut " + p.Name
			} else {
				names[i] = p.Name
			}
		}
		prefix := ""
		if anyFirst {
			prefix = "let "
		}
		return fmt.Sprintf("%s%s(%s) = %s;\n", ind(level), prefix, strings.Join(names, ", "), valueExpr)
	}
	if t.Attr != nil {
		return fmt.Sprintf("%s%s.%s = %s;\n", ind(level), fc.emit(t.Attr.Obj), t.Attr.Name, valueExpr)
	}
	if t.Index != nil {
		obj := fc.emit(t.Index.Obj)
		if objType, ok := fc.scope.typeOf(objStem(t.Index.Obj)); ok && strings.Contains(objType, "Map") {
			return fmt.Sprintf("%s%s.insert(%s, %s);\n", ind(level), obj, fc.emit(t.Index.Index), valueExpr)
		}
		return fmt.Sprintf("%s%s[%s] = %s;\n", ind(level), obj, fc.emit(t.Index.Index), valueExpr)
	}
	name := t.Name
	if strings.HasPrefix(name, "*") {
		name = strings.TrimPrefix(name, "*")
	}
	if name == "_" || name == "" {
		return fmt.Sprintf("%slet _ = %s;\n", ind(level), valueExpr)
	}
	if fc.scope.declare(name) {
		return fmt.Sprintf("%slet mut %s = %s;\n", ind(level), name, valueExpr)
	}
	target := name
	if fc.selfPrefixed && fc.selfFields[name] {
		target = "self." + name
	}
	return fmt.Sprintf("%s%s = %s;\n", ind(level), target, valueExpr)
}

func objStem(e hir.Expr) string {
	if v, ok := e.(*hir.Var); ok {
		return v.Name
	}
	return ""
}

func (fc *funcCodegen) emitAssign(a *hir.Assign, level int) string {
	valueExpr := fc.emit(a.Value)
	if len(a.Targets) == 1 {
		return fc.emitTargetDecl(a.Targets[0], valueExpr, level)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%slet __assign_tmp = %s;\n", ind(level), valueExpr)
	for _, t := range a.Targets {
		b.WriteString(fc.emitTargetDecl(t, "__assign_tmp.clone()", level))
	}
	return b.String()
}

// emitAugAssign implements §4.7's dict-augmented-assignment regression
// case (S3): `d[k] += v` reads, clones, and re-inserts rather than
// holding a borrow across the update. Name/attribute targets use a plain
// Rust compound assignment operator.
func (fc *funcCodegen) emitAugAssign(a *hir.AugAssign, level int) string {
	valueExpr := fc.emit(a.Value)
	t := a.Target
	if t != nil && t.Index != nil {
		obj := fc.emit(t.Index.Obj)
		key := fc.emit(t.Index.Index)
		return fmt.Sprintf(
			"%slet _old = %s.get(&%s).cloned().unwrap_or_default();\n%s%s.insert(%s, _old %s %s);\n",
			ind(level), obj, key, ind(level), obj, key, a.Op, valueExpr,
		)
	}
	if t != nil && t.Attr != nil {
		return fmt.Sprintf("%s%s.%s %s= %s;\n", ind(level), fc.emit(t.Attr.Obj), t.Attr.Name, a.Op, valueExpr)
	}
	name := ""
	if t != nil {
		name = t.Name
	}
	if fc.selfPrefixed && fc.selfFields[name] {
		name = "self." + name
	}
	return fmt.Sprintf("%s%s %s= %s;\n", ind(level), name, a.Op, valueExpr)
}

func (fc *funcCodegen) emitReturn(r *hir.Return, level int) string {
	var valueExpr string
	if r.Value == nil {
		valueExpr = "()"
	} else {
		valueExpr = fc.emit(r.Value)
	}
	if fc.yieldSink != "" {
		if fc.eagerCollect {
			// Inside the eager-collection fallback: a `return` ends
			// collection early, handing back whatever was gathered so far.
			return fmt.Sprintf("%sreturn %s.into_iter();\n", ind(level), fc.yieldSink)
		}
		// Inside a generator state struct's `next`: a `return` ends the sequence.
		return fmt.Sprintf("%sreturn None;\n", ind(level))
	}
	if fc.currentTryLabel != "" {
		return fmt.Sprintf("%sbreak %s Ok(%s);\n", ind(level), fc.currentTryLabel, valueExpr)
	}
	if fc.errType != "" {
		return fmt.Sprintf("%sreturn Ok(%s);\n", ind(level), valueExpr)
	}
	if r.Value == nil {
		return fmt.Sprintf("%sreturn;\n", ind(level))
	}
	return fmt.Sprintf("%sreturn %s;\n", ind(level), valueExpr)
}

func (fc *funcCodegen) emitIf(i *hir.If, level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sif %s {\n", ind(level), fc.emit(i.Cond))
	fc.scope.push()
	b.WriteString(fc.emitBlock(i.Then, level+1))
	fc.scope.pop()
	if len(i.Else) > 0 {
		b.WriteString(ind(level) + "} else {\n")
		fc.scope.push()
		b.WriteString(fc.emitBlock(i.Else, level+1))
		fc.scope.pop()
	}
	b.WriteString(ind(level) + "}\n")
	return b.String()
}

func isLiteralTrueExpr(e hir.Expr) bool {
	lit, ok := e.(*hir.Literal)
	if !ok || lit.Kind != hir.BoolLit {
		return false
	}
	v, _ := lit.Value.(bool)
	return v
}

func (fc *funcCodegen) emitWhile(w *hir.While, level int) string {
	var b strings.Builder
	fc.scope.push()
	if isLiteralTrueExpr(w.Cond) {
		b.WriteString(ind(level) + "loop {\n")
	} else {
		fmt.Fprintf(&b, "%swhile %s {\n", ind(level), fc.emit(w.Cond))
	}
	b.WriteString(fc.emitBlock(w.Body, level+1))
	fc.scope.pop()
	b.WriteString(ind(level) + "}\n")
	return b.String()
}

// emitFor implements §4.7's `range` special-casing and reference
// iteration default (the safe default that never moves the source
// collection away from its owner).
func (fc *funcCodegen) emitFor(f *hir.For, level int) string {
	var b strings.Builder
	target := targetPattern(f.Target)

	if call, ok := f.Iter.(*hir.Call); ok {
		if name, ok := dottedName(call.Callee); ok && name == "range" {
			args := fc.emitArgs(call.Args)
			var rangeExpr string
			switch len(args) {
			case 1:
				rangeExpr = "0.." + args[0]
			case 2:
				rangeExpr = args[0] + ".." + args[1]
			case 3:
				rangeExpr = fmt.Sprintf("(%s..%s).step_by((%s) as usize)", args[0], args[1], args[2])
			default:
				rangeExpr = "0..0"
			}
			fmt.Fprintf(&b, "%sfor %s in %s {\n", ind(level), target, rangeExpr)
			fc.scope.push()
			if f.Target != nil && f.Target.Name != "" {
				fc.scope.declare(f.Target.Name)
			}
			b.WriteString(fc.emitBlock(f.Body, level+1))
			fc.scope.pop()
			b.WriteString(ind(level) + "}\n")
			return b.String()
		}
	}

	fmt.Fprintf(&b, "%sfor %s in &%s {\n", ind(level), target, fc.emit(f.Iter))
	fc.scope.push()
	if f.Target != nil && f.Target.Name != "" {
		fc.scope.declare(f.Target.Name)
	}
	b.WriteString(fc.emitBlock(f.Body, level+1))
	fc.scope.pop()
	b.WriteString(ind(level) + "}\n")
	return b.String()
}

// emitTry implements §4.8 via a labeled block rather than a closure:
// `return` inside the try body breaks the label with Ok(value) (see
// emitReturn), and `raise`/fall-through also use `break 'label`, so every
// exit of the body produces a Result the subsequent match dispatches on;
// its Ok arm returns the value from the real function. This is what
// resolves DEPYLER-0333: the match's
// handler arms run inline in the function's own scope, so a caught
// exception never needs the enclosing function's return type to widen.
func (fc *funcCodegen) emitTry(t *hir.Try, level int) string {
	label := fmt.Sprintf("'try_%d", fc.tryCounter)
	tmp := fmt.Sprintf("__try_result_%d", fc.tryCounter)
	fc.tryCounter++

	var b strings.Builder
	fmt.Fprintf(&b, "%slet %s: Result<%s, Box<dyn std::error::Error>> = %s: {\n", ind(level), tmp, fc.baseRetType, label)

	prevLabel := fc.currentTryLabel
	fc.currentTryLabel = label
	fc.scope.push()
	b.WriteString(fc.emitBlock(t.Body, level+1))
	b.WriteString(fc.emitBlock(t.Else, level+1))
	fc.scope.pop()
	fc.currentTryLabel = prevLabel
	fmt.Fprintf(&b, "%s    break %s Ok(Default::default());\n", ind(level), label)
	fmt.Fprintf(&b, "%s};\n", ind(level))

	fmt.Fprintf(&b, "%smatch %s {\n", ind(level), tmp)
	fmt.Fprintf(&b, "%s    Ok(__v) => { return __v; }\n", ind(level))

	hasCatchAll := false
	for _, h := range t.Handlers {
		if h.ExcType == "" {
			hasCatchAll = true
			fmt.Fprintf(&b, "%s    Err(ref __e) => {\n", ind(level))
		} else {
			fmt.Fprintf(&b, "%s    Err(ref __e) if __e.downcast_ref::<%s>().is_some() => {\n", ind(level), h.ExcType)
		}
		fc.scope.push()
		if h.Name != "" {
			fmt.Fprintf(&b, "%s        let %s = __e;\n", ind(level), h.Name)
			fc.scope.declare(h.Name)
		}
		b.WriteString(fc.emitBlock(h.Body, level+2))
		fc.scope.pop()
		b.WriteString(ind(level) + "    }\n")
	}

	if !hasCatchAll {
		fmt.Fprintf(&b, "%s    Err(__e) => {\n", ind(level))
		if fc.errType != "" {
			fmt.Fprintf(&b, "%s        return Err(__e);\n", ind(level))
		} else {
			fmt.Fprintf(&b, "%s        panic!(\"unhandled exception: {}\", __e);\n", ind(level))
		}
		fmt.Fprintf(&b, "%s    }\n", ind(level))
	}
	b.WriteString(ind(level) + "}\n")

	if len(t.Finally) > 0 {
		// TODO: finally does not run on the Ok(__v) early-return path
		// above; only the fall-through-after-match path reaches here.
		b.WriteString(fc.emitBlock(t.Finally, level))
	}

	return b.String()
}

// emitRaise always breaks the innermost try (if any) with a boxed error
// value, or returns Err directly from a function with no enclosing try.
// Bare re-raise reuses the handler-bound error name.
func (fc *funcCodegen) emitRaise(r *hir.Raise, level int) string {
	var errExpr string
	if r.ExcType == "" {
		errExpr = "__e" // bare re-raise inside an except body
	} else {
		msg := `""`
		if r.Message != nil {
			msg = fc.emit(r.Message)
		}
		errExpr = fmt.Sprintf("Box::new(%s::new(%s))", r.ExcType, msg)
	}
	if fc.currentTryLabel != "" {
		return fmt.Sprintf("%sbreak %s Err(%s);\n", ind(level), fc.currentTryLabel, errExpr)
	}
	return fmt.Sprintf("%sreturn Err(%s);\n", ind(level), errExpr)
}

// emitWith lowers §4.7's with-statement to a scoped block; known context
// managers use RAII naturally (a `std::fs::File` simply drops), unknown
// ones still bind but get a diagnostic.
func (fc *funcCodegen) emitWith(w *hir.With, level int) string {
	var b strings.Builder
	b.WriteString(ind(level) + "{\n")
	fc.scope.push()
	for _, item := range w.Items {
		ctxExpr := fc.emit(item.Context)
		if item.Target != nil && item.Target.Name != "" {
			fc.scope.declare(item.Target.Name)
			fmt.Fprintf(&b, "%slet mut %s = %s;\n", ind(level+1), item.Target.Name, ctxExpr)
		} else {
			fmt.Fprintf(&b, "%slet _ctx = %s;\n", ind(level+1), ctxExpr)
		}
		if !isKnownContextManager(item.Context) && fc.emitter.Report != nil {
			fc.emitter.Report.Addf(diagnostics.Warning, diagnostics.UnsupportedConstruct, "DEPYLER-0240", fc.fn.Span, "unknown context manager in with-statement; RAII behavior not verified")
		}
	}
	b.WriteString(fc.emitBlock(w.Body, level+1))
	fc.scope.pop()
	b.WriteString(ind(level) + "}\n")
	return b.String()
}

func isKnownContextManager(e hir.Expr) bool {
	call, ok := e.(*hir.Call)
	if !ok {
		return false
	}
	name, ok := dottedName(call.Callee)
	return ok && name == "open"
}

func (fc *funcCodegen) emitAssert(a *hir.Assert, level int) string {
	cond := fc.emit(a.Test)
	if a.Msg != nil {
		return fmt.Sprintf("%sassert!(%s, %s);\n", ind(level), cond, fc.emit(a.Msg))
	}
	return fmt.Sprintf("%sassert!(%s);\n", ind(level), cond)
}

func (fc *funcCodegen) emitExprStmt(e *hir.ExprStmt, level int) string {
	if y, ok := e.Value.(*hir.Yield); ok && fc.yieldSink != "" {
		val := "()"
		if y.Value != nil {
			val = fc.emit(y.Value)
		}
		return fmt.Sprintf("%s%s.push(%s);\n", ind(level), fc.yieldSink, val)
	}
	return fmt.Sprintf("%s%s;\n", ind(level), fc.emit(e.Value))
}

func (fc *funcCodegen) emitDel(d *hir.Del, level int) string {
	var b strings.Builder
	for _, target := range d.Targets {
		if v, ok := target.(*hir.Var); ok {
			fmt.Fprintf(&b, "%sdrop(%s);\n", ind(level), v.Name)
		} else {
			b.WriteString(ind(level) + "// del target unsupported\n")
		}
	}
	return b.String()
}
