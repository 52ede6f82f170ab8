package lower

import (
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/pyast"
)

func (lw *Lowerer) lowerExpr(e pyast.Expr) hir.Expr {
	switch v := e.(type) {
	case *pyast.Literal:
		return &hir.Literal{Kind: hir.LiteralKind(v.Kind), Value: v.Value, Span: span(v.Pos)}
	case *pyast.Name:
		return &hir.Var{Name: v.Id, Span: span(v.Pos)}
	case *pyast.Attribute:
		return &hir.Attribute{Obj: lw.lowerExpr(v.Value), Name: v.Attr, Span: span(v.Pos)}
	case *pyast.Index:
		if sl, ok := v.Index.(*pyast.Slice); ok {
			return &hir.Slice{
				Obj:   lw.lowerExpr(v.Value),
				Lower: lw.lowerOptExpr(sl.Lower),
				Upper: lw.lowerOptExpr(sl.Upper),
				Step:  lw.lowerOptExpr(sl.Step),
				Span:  span(v.Pos),
			}
		}
		return &hir.Index{Obj: lw.lowerExpr(v.Value), Index: lw.lowerExpr(v.Index), Span: span(v.Pos)}
	case *pyast.Subscript:
		return &hir.Index{Obj: lw.lowerExpr(v.Value), Index: lw.lowerExpr(v.Slice), Span: span(v.Pos)}
	case *pyast.Slice:
		return &hir.Slice{
			Lower: lw.lowerOptExpr(v.Lower),
			Upper: lw.lowerOptExpr(v.Upper),
			Step:  lw.lowerOptExpr(v.Step),
			Span:  span(v.Pos),
		}
	case *pyast.BinOp:
		return &hir.Binary{Op: v.Op, Left: lw.lowerExpr(v.Left), Right: lw.lowerExpr(v.Right), Span: span(v.Pos)}
	case *pyast.UnaryOp:
		return &hir.Unary{Op: v.Op, Operand: lw.lowerExpr(v.Operand), Span: span(v.Pos)}
	case *pyast.Compare:
		comps := make([]hir.Expr, 0, len(v.Comps))
		for _, c := range v.Comps {
			comps = append(comps, lw.lowerExpr(c))
		}
		return &hir.Compare{Left: lw.lowerExpr(v.Left), Ops: v.Ops, Comps: comps, Span: span(v.Pos)}
	case *pyast.BoolOp:
		vals := make([]hir.Expr, 0, len(v.Values))
		for _, val := range v.Values {
			vals = append(vals, lw.lowerExpr(val))
		}
		return &hir.BoolOp{Op: v.Op, Values: vals, Span: span(v.Pos)}
	case *pyast.Call:
		args := make([]hir.Expr, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, lw.lowerExpr(a))
		}
		kwargs := make([]*hir.Keyword, 0, len(v.Kwargs))
		for _, kw := range v.Kwargs {
			kwargs = append(kwargs, &hir.Keyword{Name: kw.Name, Value: lw.lowerExpr(kw.Value)})
		}
		return &hir.Call{Callee: lw.lowerExpr(v.Func), Args: args, Kwargs: kwargs, Span: span(v.Pos)}
	case *pyast.MethodCall:
		args := make([]hir.Expr, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, lw.lowerExpr(a))
		}
		kwargs := make([]*hir.Keyword, 0, len(v.Kwargs))
		for _, kw := range v.Kwargs {
			kwargs = append(kwargs, &hir.Keyword{Name: kw.Name, Value: lw.lowerExpr(kw.Value)})
		}
		return &hir.MethodCall{Obj: lw.lowerExpr(v.Obj), Name: v.Name, Args: args, Kwargs: kwargs, Span: span(v.Pos)}
	case *pyast.Lambda:
		params := make([]*hir.Param, 0, len(v.Params))
		for _, p := range v.Params {
			params = append(params, &hir.Param{Name: p.Name, Type: hir.Unknown{}, Default: lw.lowerOptExpr(p.Default)})
		}
		return &hir.Lambda{Params: params, Body: lw.lowerExpr(v.Body), Span: span(v.Pos)}
	case *pyast.ListExpr:
		return &hir.ListExpr{Elts: lw.lowerExprList(v.Elts), Span: span(v.Pos)}
	case *pyast.TupleExpr:
		return &hir.TupleExpr{Elts: lw.lowerExprList(v.Elts), Span: span(v.Pos)}
	case *pyast.SetExpr:
		return &hir.SetExpr{Elts: lw.lowerExprList(v.Elts), Span: span(v.Pos)}
	case *pyast.DictExpr:
		entries := make([]*hir.DictEntry, 0, len(v.Entries))
		for _, e := range v.Entries {
			entries = append(entries, &hir.DictEntry{Key: lw.lowerOptExpr(e.Key), Value: lw.lowerExpr(e.Value)})
		}
		return &hir.DictExpr{Entries: entries, Span: span(v.Pos)}
	case *pyast.ListComp:
		return &hir.ListComp{Elt: lw.lowerExpr(v.Elt), Generators: lw.lowerComps(v.Generators), Span: span(v.Pos)}
	case *pyast.SetComp:
		return &hir.SetComp{Elt: lw.lowerExpr(v.Elt), Generators: lw.lowerComps(v.Generators), Span: span(v.Pos)}
	case *pyast.DictComp:
		return &hir.DictComp{
			Key:        lw.lowerExpr(v.Key),
			Value:      lw.lowerExpr(v.Value),
			Generators: lw.lowerComps(v.Generators),
			Span:       span(v.Pos),
		}
	case *pyast.GeneratorExp:
		return &hir.GeneratorExp{Elt: lw.lowerExpr(v.Elt), Generators: lw.lowerComps(v.Generators), Span: span(v.Pos)}
	case *pyast.FString:
		parts := make([]*hir.FStringPart, 0, len(v.Parts))
		for _, p := range v.Parts {
			parts = append(parts, &hir.FStringPart{Text: p.Text, Expr: lw.lowerOptExpr(p.Expr), Spec: p.Spec})
		}
		return &hir.FString{Parts: parts, Span: span(v.Pos)}
	case *pyast.Ternary:
		return &hir.Ternary{Body: lw.lowerExpr(v.Body), Cond: lw.lowerExpr(v.Cond), Else: lw.lowerExpr(v.Else), Span: span(v.Pos)}
	case *pyast.Yield:
		return &hir.Yield{Value: lw.lowerOptExpr(v.Value), Span: span(v.Pos)}
	case *pyast.Await:
		return &hir.Await{Value: lw.lowerExpr(v.Value), Span: span(v.Pos)}
	case *pyast.Walrus:
		return &hir.Walrus{Name: v.Name, Value: lw.lowerExpr(v.Value), Span: span(v.Pos)}
	case *pyast.Starred:
		return &hir.Starred{Value: lw.lowerExpr(v.Value), Span: span(v.Pos)}
	default:
		return &hir.Literal{Kind: hir.NoneLit, Span: span(pyast.Pos{})}
	}
}

func (lw *Lowerer) lowerExprList(in []pyast.Expr) []hir.Expr {
	out := make([]hir.Expr, 0, len(in))
	for _, e := range in {
		out = append(out, lw.lowerExpr(e))
	}
	return out
}

func (lw *Lowerer) lowerComps(in []*pyast.Comprehension) []*hir.Comprehension {
	out := make([]*hir.Comprehension, 0, len(in))
	for _, c := range in {
		ifs := make([]hir.Expr, 0, len(c.Ifs))
		for _, i := range c.Ifs {
			ifs = append(ifs, lw.lowerExpr(i))
		}
		out = append(out, &hir.Comprehension{
			Target: lw.lowerAssignTarget(c.Target),
			Iter:   lw.lowerExpr(c.Iter),
			Ifs:    ifs,
		})
	}
	return out
}
