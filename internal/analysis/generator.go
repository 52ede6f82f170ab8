package analysis

import "github.com/depyler-dev/depyler/internal/hir"

// LocalVar is one inferred generator-state field (§4.10's "inferred
// locals").
type LocalVar struct {
	Name string
	Type hir.Type
}

// GeneratorInfo is the §4.10 "Analysis" half of generator lowering: what
// internal/codegen needs to synthesise a `<FnName>State` struct and its
// `Iterator` implementation.
type GeneratorInfo struct {
	Locals         []LocalVar
	CapturedParams []string
	YieldCount     int
	HasLoop        bool

	// SingleState reports whether the resolved "V1" policy (see
	// DESIGN.md's Multi-state generators entry) allows this generator to
	// be lowered to the single-state struct of §4.10: the whole body runs
	// once to completion, buffering every `yield` it reaches in sequence,
	// and each `next()` call dispenses one buffered value at a time.
	// False only when a `yield` sits inside a conditional branch that is
	// itself nested in a loop — i.e. the `yield` does not dominate the
	// end of that loop body, so whether and how many times it fires per
	// iteration can't be read off the source structurally. Those
	// generators fall back to an eagerly-collected `Vec<T>` return
	// instead of the named state struct.
	SingleState bool
}

// AnalyzeGenerator walks fn's body (fn.IsGenerator must already be true)
// and produces its GeneratorInfo.
func AnalyzeGenerator(fn *hir.Function) *GeneratorInfo {
	g := &GeneratorInfo{SingleState: true}
	seen := map[string]bool{}
	paramNames := paramSet(fn)
	captured := map[string]bool{}
	afterYield := false
	loopDepth := 0
	condDepth := 0

	var walkExpr func(e hir.Expr)
	walkExpr = func(e hir.Expr) {
		switch v := e.(type) {
		case nil:
		case *hir.Yield:
			g.YieldCount++
			if loopDepth > 0 && condDepth > 0 {
				g.SingleState = false
			}
			walkExpr(v.Value)
			afterYield = true
		case *hir.Var:
			if afterYield && paramNames[v.Name] {
				captured[v.Name] = true
			}
		case *hir.Binary:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *hir.Unary:
			walkExpr(v.Operand)
		case *hir.Compare:
			walkExpr(v.Left)
			for _, c := range v.Comps {
				walkExpr(c)
			}
		case *hir.BoolOp:
			for _, val := range v.Values {
				walkExpr(val)
			}
		case *hir.Call:
			walkExpr(v.Callee)
			for _, a := range v.Args {
				walkExpr(a)
			}
		case *hir.MethodCall:
			walkExpr(v.Obj)
			for _, a := range v.Args {
				walkExpr(a)
			}
		case *hir.Ternary:
			walkExpr(v.Body)
			walkExpr(v.Cond)
			walkExpr(v.Else)
		case *hir.Index:
			walkExpr(v.Obj)
			walkExpr(v.Index)
		}
	}

	var walkStmts func(stmts []hir.Stmt)
	walkStmts = func(stmts []hir.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *hir.Assign:
				walkExpr(v.Value)
				for _, t := range v.Targets {
					if t.Name != "" && !seen[t.Name] && !paramNames[t.Name] {
						seen[t.Name] = true
						typ := v.Annotation
						if !v.HasAnnot {
							typ = inferLiteralType(v.Value)
						}
						g.Locals = append(g.Locals, LocalVar{Name: t.Name, Type: typ})
					}
				}
			case *hir.AugAssign:
				walkExpr(v.Value)
			case *hir.Return:
				walkExpr(v.Value)
			case *hir.If:
				walkExpr(v.Cond)
				condDepth++
				walkStmts(v.Then)
				walkStmts(v.Else)
				condDepth--
			case *hir.While:
				g.HasLoop = true
				// Walk the body before the condition: a loop's condition
				// is re-evaluated after each iteration, i.e. after any
				// yield inside the body, so params it references still
				// count as captured across a yield.
				loopDepth++
				walkStmts(v.Body)
				loopDepth--
				walkExpr(v.Cond)
			case *hir.For:
				g.HasLoop = true
				loopDepth++
				walkStmts(v.Body)
				loopDepth--
				walkExpr(v.Iter)
			case *hir.Try:
				walkStmts(v.Body)
				for _, h := range v.Handlers {
					walkStmts(h.Body)
				}
				walkStmts(v.Else)
				walkStmts(v.Finally)
			case *hir.With:
				walkStmts(v.Body)
			case *hir.ExprStmt:
				walkExpr(v.Value)
			}
		}
	}
	walkStmts(fn.Body)

	for name := range captured {
		g.CapturedParams = append(g.CapturedParams, name)
	}
	return g
}

func inferLiteralType(e hir.Expr) hir.Type {
	switch v := e.(type) {
	case *hir.Literal:
		switch v.Kind {
		case hir.IntLit:
			return hir.Int{}
		case hir.FloatLit:
			return hir.Float{}
		case hir.StringLit:
			return hir.Str{}
		case hir.BoolLit:
			return hir.Bool{}
		}
	case *hir.ListExpr:
		if len(v.Elts) > 0 {
			return hir.List{Elem: inferLiteralType(v.Elts[0])}
		}
		return hir.List{Elem: hir.Unknown{}}
	case *hir.DictExpr:
		return hir.Dict{Key: hir.Unknown{}, Value: hir.Unknown{}}
	}
	return hir.Unknown{}
}
