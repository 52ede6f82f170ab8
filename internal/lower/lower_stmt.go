package lower

import (
	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/pyast"
)

func (lw *Lowerer) lowerStmts(stmts []pyast.Stmt) []hir.Stmt {
	out := make([]hir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		if h := lw.lowerStmt(s); h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (lw *Lowerer) lowerStmt(stmt pyast.Stmt) hir.Stmt {
	switch s := stmt.(type) {
	case *pyast.Assign:
		return lw.lowerAssign(s)
	case *pyast.AugAssign:
		return &hir.AugAssign{
			Target: lw.lowerAssignTarget(s.Target),
			Op:     s.Op,
			Value:  lw.lowerExpr(s.Value),
			Span:   span(s.Pos),
		}
	case *pyast.Return:
		return &hir.Return{Value: lw.lowerOptExpr(s.Value), Span: span(s.Pos)}
	case *pyast.If:
		return &hir.If{
			Cond: lw.lowerExpr(s.Cond),
			Then: lw.lowerStmts(s.Body),
			Else: lw.lowerStmts(s.Else),
			Span: span(s.Pos),
		}
	case *pyast.While:
		if len(s.Else) > 0 {
			lw.report.Addf(diagnostics.Error, diagnostics.UnsupportedConstruct,
				diagnostics.CodeForElseUnsupported, span(s.Pos), "while/else is not supported")
		}
		return &hir.While{Cond: lw.lowerExpr(s.Cond), Body: lw.lowerStmts(s.Body), Span: span(s.Pos)}
	case *pyast.For:
		if len(s.Else) > 0 {
			lw.report.Addf(diagnostics.Error, diagnostics.UnsupportedConstruct,
				diagnostics.CodeForElseUnsupported, span(s.Pos), "for/else is not supported")
		}
		return &hir.For{
			Target: lw.lowerAssignTarget(s.Target),
			Iter:   lw.lowerExpr(s.Iter),
			Body:   lw.lowerStmts(s.Body),
			Span:   span(s.Pos),
		}
	case *pyast.Try:
		return lw.lowerTry(s)
	case *pyast.With:
		return lw.lowerWith(s)
	case *pyast.Raise:
		return lw.lowerRaise(s)
	case *pyast.Assert:
		return &hir.Assert{Test: lw.lowerExpr(s.Test), Msg: lw.lowerOptExpr(s.Msg), Span: span(s.Pos)}
	case *pyast.Pass:
		return &hir.Pass{Span: span(s.Pos)}
	case *pyast.Break:
		return &hir.Break{Span: span(s.Pos)}
	case *pyast.Continue:
		return &hir.Continue{Span: span(s.Pos)}
	case *pyast.Del:
		targets := make([]hir.Expr, 0, len(s.Targets))
		for _, t := range s.Targets {
			targets = append(targets, lw.lowerExpr(t))
		}
		return &hir.Del{Targets: targets, Span: span(s.Pos)}
	case *pyast.Global:
		return &hir.Global{Names: s.Names, Span: span(s.Pos)}
	case *pyast.Nonlocal:
		return &hir.Nonlocal{Names: s.Names, Span: span(s.Pos)}
	case *pyast.ExprStmt:
		if call, ok := s.Value.(*pyast.Call); ok {
			if name, ok := call.Func.(*pyast.Name); ok && (name.Id == "exec" || name.Id == "eval") {
				lw.report.Addf(diagnostics.Fatal, diagnostics.UnsupportedConstruct,
					diagnostics.CodeUnsupportedConstruct, span(s.Pos), "%s() is not supported", name.Id)
			}
		}
		return &hir.ExprStmt{Value: lw.lowerExpr(s.Value), Span: span(s.Pos)}
	case *pyast.FuncDef:
		// Nested function definitions are not lowered: they have no
		// module-level home here, so the enclosing function's body gets a
		// Pass in place of the nested def; closures over enclosing locals
		// are out of scope for this subset.
		return &hir.Pass{Span: span(s.Pos)}
	case *pyast.ClassDef:
		return &hir.Pass{Span: span(s.Pos)}
	default:
		return nil
	}
}

func (lw *Lowerer) lowerAssign(s *pyast.Assign) *hir.Assign {
	targets := make([]*hir.AssignTarget, 0, len(s.Targets))
	for _, t := range s.Targets {
		targets = append(targets, lw.lowerAssignTarget(t))
	}
	a := &hir.Assign{
		Targets: targets,
		Value:   lw.lowerExpr(s.Value),
		Span:    span(s.Pos),
	}
	if s.Annotation != nil {
		a.Annotation = ExtractType(s.Annotation)
		a.HasAnnot = true
	}
	return a
}

// lowerAssignTarget converts an assignment-target expression into the
// pattern-aware hir.AssignTarget per §4.1's "single Assign with a pattern
// target variant" guarantee.
func (lw *Lowerer) lowerAssignTarget(e pyast.Expr) *hir.AssignTarget {
	switch v := e.(type) {
	case *pyast.Name:
		return &hir.AssignTarget{Name: v.Id}
	case *pyast.TupleExpr:
		pattern := make([]*hir.AssignTarget, 0, len(v.Elts))
		for _, elt := range v.Elts {
			pattern = append(pattern, lw.lowerAssignTarget(elt))
		}
		return &hir.AssignTarget{Pattern: pattern}
	case *pyast.ListExpr:
		pattern := make([]*hir.AssignTarget, 0, len(v.Elts))
		for _, elt := range v.Elts {
			pattern = append(pattern, lw.lowerAssignTarget(elt))
		}
		return &hir.AssignTarget{Pattern: pattern}
	case *pyast.Attribute:
		return &hir.AssignTarget{Attr: &hir.AttributeTarget{Obj: lw.lowerExpr(v.Value), Name: v.Attr}}
	case *pyast.Index:
		return &hir.AssignTarget{Index: &hir.IndexTarget{Obj: lw.lowerExpr(v.Value), Index: lw.lowerExpr(v.Index)}}
	case *pyast.Starred:
		inner := lw.lowerAssignTarget(v.Value)
		inner.Name = "*" + inner.Name
		return inner
	default:
		return &hir.AssignTarget{Name: "_"}
	}
}

func (lw *Lowerer) lowerTry(s *pyast.Try) *hir.Try {
	handlers := make([]*hir.ExceptHandler, 0, len(s.Handlers))
	for _, h := range s.Handlers {
		handlers = append(handlers, &hir.ExceptHandler{
			ExcType: exprName(h.Type),
			Name:    h.Name,
			Body:    lw.lowerStmts(h.Body),
			Span:    span(h.Pos),
		})
	}
	return &hir.Try{
		Body:     lw.lowerStmts(s.Body),
		Handlers: handlers,
		Else:     lw.lowerStmts(s.Else),
		Finally:  lw.lowerStmts(s.Finally),
		Span:     span(s.Pos),
	}
}

func (lw *Lowerer) lowerWith(s *pyast.With) *hir.With {
	items := make([]*hir.WithItem, 0, len(s.Items))
	for _, it := range s.Items {
		wi := &hir.WithItem{Context: lw.lowerExpr(it.Context)}
		if it.Target != nil {
			wi.Target = lw.lowerAssignTarget(it.Target)
		}
		items = append(items, wi)
	}
	return &hir.With{Items: items, Body: lw.lowerStmts(s.Body), Span: span(s.Pos)}
}

// lowerRaise splits `raise ExcName("message")` into (ExcType, Message) so
// downstream error-struct synthesis (§4.8) never has to re-parse a call
// expression to find the exception's name.
func (lw *Lowerer) lowerRaise(s *pyast.Raise) *hir.Raise {
	r := &hir.Raise{Span: span(s.Pos)}
	if s.From != nil {
		r.From = lw.lowerExpr(s.From)
	}
	switch exc := s.Exc.(type) {
	case nil:
		return r
	case *pyast.Call:
		r.ExcType = exprName(exc.Func)
		if len(exc.Args) > 0 {
			r.Message = lw.lowerExpr(exc.Args[0])
		}
	case *pyast.Name:
		r.ExcType = exc.Id
	default:
		r.Message = lw.lowerExpr(s.Exc)
	}
	return r
}

// containsYieldStmts reports whether any statement in body (transitively,
// excluding nested function/class defs) contains a `yield` expression.
func containsYieldStmts(body []pyast.Stmt) bool {
	for _, s := range body {
		if stmtHasYield(s) {
			return true
		}
	}
	return false
}

func stmtHasYield(s pyast.Stmt) bool {
	switch v := s.(type) {
	case *pyast.ExprStmt:
		return exprHasYield(v.Value)
	case *pyast.Assign:
		return exprHasYield(v.Value)
	case *pyast.AugAssign:
		return exprHasYield(v.Value)
	case *pyast.Return:
		return exprHasYield(v.Value)
	case *pyast.If:
		return containsYieldStmts(v.Body) || containsYieldStmts(v.Else) || exprHasYield(v.Cond)
	case *pyast.While:
		return containsYieldStmts(v.Body) || exprHasYield(v.Cond)
	case *pyast.For:
		return containsYieldStmts(v.Body) || exprHasYield(v.Iter)
	case *pyast.Try:
		if containsYieldStmts(v.Body) || containsYieldStmts(v.Else) || containsYieldStmts(v.Finally) {
			return true
		}
		for _, h := range v.Handlers {
			if containsYieldStmts(h.Body) {
				return true
			}
		}
		return false
	case *pyast.With:
		return containsYieldStmts(v.Body)
	}
	return false
}

func exprHasYield(e pyast.Expr) bool {
	switch v := e.(type) {
	case nil:
		return false
	case *pyast.Yield:
		return true
	case *pyast.BinOp:
		return exprHasYield(v.Left) || exprHasYield(v.Right)
	case *pyast.UnaryOp:
		return exprHasYield(v.Operand)
	case *pyast.Ternary:
		return exprHasYield(v.Body) || exprHasYield(v.Cond) || exprHasYield(v.Else)
	case *pyast.Call:
		if exprHasYield(v.Func) {
			return true
		}
		for _, a := range v.Args {
			if exprHasYield(a) {
				return true
			}
		}
		return false
	}
	return false
}
