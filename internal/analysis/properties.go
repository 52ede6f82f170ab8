package analysis

import "github.com/depyler-dev/depyler/internal/hir"

// mutatingMethods are receiver methods known to mutate in place, used by
// both the purity check and mutates_params (§4.3).
var mutatingMethods = map[string]bool{
	"append": true, "extend": true, "insert": true, "remove": true,
	"pop": true, "sort": true, "reverse": true, "clear": true,
	"update": true, "add": true, "discard": true, "popitem": true,
	"setdefault": true,
}

var ioFuncs = map[string]bool{
	"print": true, "open": true, "input": true,
}

// AnalyzeProperties computes FunctionProperties for every function and
// method in mod as a fixed point over the call graph's strongly connected
// components (§4.3), so that can_panic and error_types propagate through
// calls within and across SCCs.
func AnalyzeProperties(mod *hir.Module) {
	all := map[string]*hir.Function{}
	for _, fn := range mod.Functions {
		all[fn.Name] = fn
	}
	for _, cls := range mod.Classes {
		for _, m := range cls.Methods {
			all[m.Name] = m
		}
	}

	for _, fn := range all {
		fn.Props = localProperties(fn)
	}

	g := BuildCallGraph(mod)
	sccs := g.SCCs()
	// sccs is in reverse topological order (callees before callers); walk
	// it front-to-back so a callee's component is processed before its
	// caller's, then iterate each component to a local fixed point.
	for i := 0; i < len(sccs); i++ {
		comp := sccs[i]
		for changed := true; changed; {
			changed = false
			for _, name := range comp {
				fn, ok := all[name]
				if !ok {
					continue
				}
				if propagateFromCallees(fn, g, all) {
					changed = true
				}
			}
		}
	}
}

// propagateFromCallees folds each direct callee's already-computed
// properties into fn's, returning whether fn's properties changed.
func propagateFromCallees(fn *hir.Function, g *CallGraph, all map[string]*hir.Function) bool {
	changed := false
	for callee := range g.Callees(fn.Name) {
		target, ok := all[callee]
		if !ok {
			continue
		}
		if target.Props.CanPanic && !fn.Props.CanPanic {
			fn.Props.CanPanic = true
			changed = true
		}
		if !target.Props.IsPure && fn.Props.IsPure {
			fn.Props.IsPure = false
			changed = true
		}
		if !target.Props.Terminates && fn.Props.Terminates {
			fn.Props.Terminates = false
			changed = true
		}
		for name := range target.Props.ErrorTypes {
			if !fn.Props.ErrorTypes[name] {
				fn.Props.ErrorTypes[name] = true
				changed = true
			}
		}
	}
	return changed
}

// localProperties computes the body-local component of FunctionProperties,
// ignoring any contribution callees make (that is folded in afterwards by
// propagateFromCallees).
func localProperties(fn *hir.Function) hir.FunctionProperties {
	p := hir.NewFunctionProperties()
	p.IsPure = true
	p.Terminates = true

	w := &propWalker{props: &p, paramNames: paramSet(fn)}
	w.walkStmts(fn.Body)

	if w.hasUnprovenWhileTrue {
		p.Terminates = false
	}
	return p
}

func paramSet(fn *hir.Function) map[string]bool {
	m := map[string]bool{}
	for _, p := range fn.Params {
		m[p.Name] = true
	}
	return m
}

type propWalker struct {
	props                 *hir.FunctionProperties
	paramNames            map[string]bool
	hasUnprovenWhileTrue  bool
}

func (w *propWalker) walkStmts(stmts []hir.Stmt) {
	for _, s := range stmts {
		w.walkStmt(s)
	}
}

func (w *propWalker) walkStmt(s hir.Stmt) {
	switch v := s.(type) {
	case *hir.Assign:
		w.walkExpr(v.Value)
		for _, t := range v.Targets {
			w.recordMutationTarget(t)
		}
	case *hir.AugAssign:
		w.walkExpr(v.Value)
		w.recordMutationTarget(v.Target)
	case *hir.Return:
		w.walkExpr(v.Value)
		w.recordEscape(v.Value)
	case *hir.If:
		w.walkExpr(v.Cond)
		w.walkStmts(v.Then)
		w.walkStmts(v.Else)
	case *hir.While:
		w.walkExpr(v.Cond)
		w.walkStmts(v.Body)
		if isLiteralTrue(v.Cond) && !bodyHasBreak(v.Body) {
			w.hasUnprovenWhileTrue = true
		}
	case *hir.For:
		w.walkExpr(v.Iter)
		w.walkStmts(v.Body)
	case *hir.Try:
		w.walkStmts(v.Body)
		for _, h := range v.Handlers {
			if h.ExcType != "" {
				w.props.ErrorTypes[h.ExcType] = true
			}
			w.walkStmts(h.Body)
		}
		w.walkStmts(v.Else)
		w.walkStmts(v.Finally)
	case *hir.With:
		for _, it := range v.Items {
			w.walkExpr(it.Context)
		}
		w.walkStmts(v.Body)
	case *hir.Raise:
		w.walkExpr(v.Message)
		if v.ExcType != "" {
			w.props.ErrorTypes[v.ExcType] = true
		}
		w.props.CanPanic = true
	case *hir.Assert:
		w.walkExpr(v.Test)
		w.walkExpr(v.Msg)
	case *hir.Global, *hir.Nonlocal:
		w.props.IsPure = false
	case *hir.ExprStmt:
		w.walkExpr(v.Value)
	}
}

func (w *propWalker) recordMutationTarget(t *hir.AssignTarget) {
	if t == nil {
		return
	}
	switch {
	case t.Attr != nil:
		if name, ok := t.Attr.Obj.(*hir.Var); ok && w.paramNames[name.Name] {
			w.props.MutatesParams[name.Name] = true
			w.props.IsPure = false
		}
	case t.Index != nil:
		if name, ok := t.Index.Obj.(*hir.Var); ok && w.paramNames[name.Name] {
			w.props.MutatesParams[name.Name] = true
			w.props.IsPure = false
		}
	case t.Pattern != nil:
		for _, p := range t.Pattern {
			w.recordMutationTarget(p)
		}
	case w.paramNames[t.Name]:
		w.props.MutatesParams[t.Name] = true
	}
}

// recordEscape marks parameters that flow directly into a return value, or
// into a list/tuple literal that is returned (§4.3 escapes_params).
func (w *propWalker) recordEscape(e hir.Expr) {
	switch v := e.(type) {
	case *hir.Var:
		if w.paramNames[v.Name] {
			w.props.EscapesParams[v.Name] = true
		}
	case *hir.ListExpr:
		for _, elt := range v.Elts {
			w.recordEscape(elt)
		}
	case *hir.TupleExpr:
		for _, elt := range v.Elts {
			w.recordEscape(elt)
		}
	}
}

func (w *propWalker) walkExpr(e hir.Expr) {
	switch v := e.(type) {
	case nil:
	case *hir.Call:
		if name, ok := v.Callee.(*hir.Var); ok && ioFuncs[name.Name] {
			w.props.IsPure = false
		}
		for _, a := range v.Args {
			w.walkExpr(a)
		}
	case *hir.MethodCall:
		w.walkExpr(v.Obj)
		if mutatingMethods[v.Name] {
			w.props.IsPure = false
			if name, ok := v.Obj.(*hir.Var); ok && w.paramNames[name.Name] {
				w.props.MutatesParams[name.Name] = true
			}
		}
		if v.Name == "get" {
			// `.get(...)` is the checked form of dict access; no panic.
		}
		for _, a := range v.Args {
			w.walkExpr(a)
		}
	case *hir.Index:
		w.walkExpr(v.Obj)
		w.walkExpr(v.Index)
		w.props.CanPanic = true // unchecked indexing/dict access (§4.3)
	case *hir.Binary:
		w.walkExpr(v.Left)
		w.walkExpr(v.Right)
		if (v.Op == "/" || v.Op == "//" || v.Op == "%") && !isNonZeroLiteral(v.Right) {
			w.props.CanPanic = true
		}
	case *hir.Unary:
		w.walkExpr(v.Operand)
	case *hir.Compare:
		w.walkExpr(v.Left)
		for _, c := range v.Comps {
			w.walkExpr(c)
		}
	case *hir.BoolOp:
		for _, val := range v.Values {
			w.walkExpr(val)
		}
	case *hir.Ternary:
		w.walkExpr(v.Body)
		w.walkExpr(v.Cond)
		w.walkExpr(v.Else)
	case *hir.Yield:
		w.walkExpr(v.Value)
	case *hir.Await:
		w.walkExpr(v.Value)
	case *hir.ListExpr:
		for _, elt := range v.Elts {
			w.walkExpr(elt)
		}
	case *hir.DictExpr:
		for _, ent := range v.Entries {
			w.walkExpr(ent.Key)
			w.walkExpr(ent.Value)
		}
	}
}

func isLiteralTrue(e hir.Expr) bool {
	lit, ok := e.(*hir.Literal)
	if !ok || lit.Kind != hir.BoolLit {
		return false
	}
	b, _ := lit.Value.(bool)
	return b
}

func isNonZeroLiteral(e hir.Expr) bool {
	lit, ok := e.(*hir.Literal)
	if !ok {
		return false
	}
	switch lit.Kind {
	case hir.IntLit:
		n, _ := lit.Value.(int64)
		return n != 0
	case hir.FloatLit:
		f, _ := lit.Value.(float64)
		return f != 0
	}
	return false
}

func bodyHasBreak(stmts []hir.Stmt) bool {
	for _, s := range stmts {
		switch v := s.(type) {
		case *hir.Break:
			return true
		case *hir.If:
			if bodyHasBreak(v.Then) || bodyHasBreak(v.Else) {
				return true
			}
		case *hir.Try:
			if bodyHasBreak(v.Body) || bodyHasBreak(v.Else) || bodyHasBreak(v.Finally) {
				return true
			}
			for _, h := range v.Handlers {
				if bodyHasBreak(h.Body) {
					return true
				}
			}
		case *hir.With:
			if bodyHasBreak(v.Body) {
				return true
			}
		}
	}
	return false
}
