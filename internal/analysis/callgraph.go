// Package analysis implements the §4.3 function-property analyser, §4.4
// borrowing inference, and the §4.10 generator-state analysis half.
package analysis

import (
	"github.com/depyler-dev/depyler/internal/hir"
)

// CallGraph maps each function name to the set of function names it
// directly calls (calls to unresolved/external callees are omitted).
type CallGraph struct {
	edges map[string]map[string]bool
	order []string
}

// BuildCallGraph walks every function body for Call nodes whose callee is
// a plain name of a function or method defined in the same module.
// Method-call syntax (`obj.m(...)`) adds no edge; only its receiver and
// arguments are searched for further calls.
func BuildCallGraph(mod *hir.Module) *CallGraph {
	names := map[string]bool{}
	for _, fn := range mod.Functions {
		names[fn.Name] = true
	}
	for _, cls := range mod.Classes {
		for _, m := range cls.Methods {
			names[m.Name] = true
		}
	}

	g := &CallGraph{edges: map[string]map[string]bool{}}
	for name := range names {
		g.edges[name] = map[string]bool{}
		g.order = append(g.order, name)
	}

	addCalls := func(fn *hir.Function) {
		callees := map[string]bool{}
		for _, s := range fn.Body {
			collectCalleesStmt(s, names, callees)
		}
		g.edges[fn.Name] = callees
	}
	for _, fn := range mod.Functions {
		addCalls(fn)
	}
	for _, cls := range mod.Classes {
		for _, m := range cls.Methods {
			addCalls(m)
		}
	}
	return g
}

// Callees returns the direct call targets recorded for fn.
func (g *CallGraph) Callees(fn string) map[string]bool { return g.edges[fn] }

// SCCs returns the call graph's strongly connected components via
// Tarjan's algorithm, each inner slice in an arbitrary order and the
// outer slice in reverse topological order (a component that calls
// another appears after its callee). This lets the §4.3 fixed-point
// analyser process components in dependency order and iterate only
// within a component until its properties stabilise.
func (g *CallGraph) SCCs() [][]string {
	t := &tarjan{
		g:       g,
		index:   map[string]int{},
		low:     map[string]int{},
		onStack: map[string]bool{},
	}
	for _, name := range g.order {
		if _, seen := t.index[name]; !seen {
			t.strongconnect(name)
		}
	}
	return t.result
}

type tarjan struct {
	g       *CallGraph
	counter int
	index   map[string]int
	low     map[string]int
	onStack map[string]bool
	stack   []string
	result  [][]string
}

func (t *tarjan) strongconnect(v string) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for w := range t.g.edges[v] {
		if _, seen := t.index[w]; !seen {
			t.strongconnect(w)
			if t.low[w] < t.low[v] {
				t.low[v] = t.low[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.low[v] {
				t.low[v] = t.index[w]
			}
		}
	}

	if t.low[v] == t.index[v] {
		var comp []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.result = append(t.result, comp)
	}
}

func collectCalleesStmt(s hir.Stmt, known map[string]bool, out map[string]bool) {
	switch v := s.(type) {
	case *hir.Assign:
		collectCalleesExpr(v.Value, known, out)
	case *hir.AugAssign:
		collectCalleesExpr(v.Value, known, out)
	case *hir.Return:
		collectCalleesExpr(v.Value, known, out)
	case *hir.If:
		collectCalleesExpr(v.Cond, known, out)
		for _, s2 := range v.Then {
			collectCalleesStmt(s2, known, out)
		}
		for _, s2 := range v.Else {
			collectCalleesStmt(s2, known, out)
		}
	case *hir.While:
		collectCalleesExpr(v.Cond, known, out)
		for _, s2 := range v.Body {
			collectCalleesStmt(s2, known, out)
		}
	case *hir.For:
		collectCalleesExpr(v.Iter, known, out)
		for _, s2 := range v.Body {
			collectCalleesStmt(s2, known, out)
		}
	case *hir.Try:
		for _, s2 := range v.Body {
			collectCalleesStmt(s2, known, out)
		}
		for _, h := range v.Handlers {
			for _, s2 := range h.Body {
				collectCalleesStmt(s2, known, out)
			}
		}
		for _, s2 := range v.Else {
			collectCalleesStmt(s2, known, out)
		}
		for _, s2 := range v.Finally {
			collectCalleesStmt(s2, known, out)
		}
	case *hir.With:
		for _, it := range v.Items {
			collectCalleesExpr(it.Context, known, out)
		}
		for _, s2 := range v.Body {
			collectCalleesStmt(s2, known, out)
		}
	case *hir.Raise:
		collectCalleesExpr(v.Message, known, out)
	case *hir.Assert:
		collectCalleesExpr(v.Test, known, out)
	case *hir.ExprStmt:
		collectCalleesExpr(v.Value, known, out)
	}
}

func collectCalleesExpr(e hir.Expr, known map[string]bool, out map[string]bool) {
	switch v := e.(type) {
	case nil:
	case *hir.Call:
		if name, ok := v.Callee.(*hir.Var); ok && known[name.Name] {
			out[name.Name] = true
		}
		for _, a := range v.Args {
			collectCalleesExpr(a, known, out)
		}
	case *hir.MethodCall:
		collectCalleesExpr(v.Obj, known, out)
		for _, a := range v.Args {
			collectCalleesExpr(a, known, out)
		}
	case *hir.Binary:
		collectCalleesExpr(v.Left, known, out)
		collectCalleesExpr(v.Right, known, out)
	case *hir.Unary:
		collectCalleesExpr(v.Operand, known, out)
	case *hir.BoolOp:
		for _, val := range v.Values {
			collectCalleesExpr(val, known, out)
		}
	case *hir.Compare:
		collectCalleesExpr(v.Left, known, out)
		for _, c := range v.Comps {
			collectCalleesExpr(c, known, out)
		}
	case *hir.Ternary:
		collectCalleesExpr(v.Body, known, out)
		collectCalleesExpr(v.Cond, known, out)
		collectCalleesExpr(v.Else, known, out)
	case *hir.Yield:
		collectCalleesExpr(v.Value, known, out)
	case *hir.Await:
		collectCalleesExpr(v.Value, known, out)
	}
}
