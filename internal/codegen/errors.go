package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/depyler-dev/depyler/internal/analysis"
	"github.com/depyler-dev/depyler/internal/hir"
)

// exceptionInfo is the per-function result of the caught-scope analysis
// that resolves DEPYLER-0333: which exception names this function raises
// without any enclosing handler catching them (these force the return
// type into Result<T, E>), versus every distinct name raised or caught
// anywhere in the function (these still need a struct emitted, per the
// DEPYLER-0327 "caught-but-not-propagated" rule — the struct exists even
// when nothing ever propagates it out).
type exceptionInfo struct {
	Propagated map[string]bool
	AllRaised  map[string]bool
}

func cloneCaught(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// analyzeExceptions walks fn's body tracking, at each Raise, the set of
// exception names an enclosing Try's handlers would catch. A Raise only
// counts as "propagated" when no enclosing handler covers its ExcType (or
// a bare `except:`, recorded here as "*").
func analyzeExceptions(fn *hir.Function) *exceptionInfo {
	info := &exceptionInfo{Propagated: map[string]bool{}, AllRaised: map[string]bool{}}

	var walkStmts func(stmts []hir.Stmt, caught map[string]bool)
	var walkStmt func(s hir.Stmt, caught map[string]bool)

	walkStmts = func(stmts []hir.Stmt, caught map[string]bool) {
		for _, s := range stmts {
			walkStmt(s, caught)
		}
	}

	walkStmt = func(s hir.Stmt, caught map[string]bool) {
		switch v := s.(type) {
		case *hir.Raise:
			if v.ExcType == "" {
				return // bare re-raise: propagates whatever the enclosing except already caught
			}
			info.AllRaised[v.ExcType] = true
			if !caught[v.ExcType] && !caught["*"] {
				info.Propagated[v.ExcType] = true
			}
		case *hir.If:
			walkStmts(v.Then, caught)
			walkStmts(v.Else, caught)
		case *hir.While:
			walkStmts(v.Body, caught)
		case *hir.For:
			walkStmts(v.Body, caught)
		case *hir.With:
			walkStmts(v.Body, caught)
		case *hir.Try:
			nested := cloneCaught(caught)
			for _, h := range v.Handlers {
				if h.ExcType != "" {
					info.AllRaised[h.ExcType] = true
				}
				if h.ExcType == "" {
					nested["*"] = true
				} else {
					nested[h.ExcType] = true
				}
			}
			walkStmts(v.Body, nested)
			for _, h := range v.Handlers {
				walkStmts(h.Body, caught)
			}
			walkStmts(v.Else, caught)
			walkStmts(v.Finally, caught)
		}
	}

	walkStmts(fn.Body, map[string]bool{})
	return info
}

// moduleExceptionPlan resolves, per function, which exception names it
// must propagate (after folding in callees that themselves propagate,
// via the same call graph internal/analysis builds for purity/panic
// inference) plus the module-wide set of distinct names needing a
// synthesised struct.
type moduleExceptionPlan struct {
	perFunction map[string]*exceptionInfo
	allNames    map[string]bool
}

func planExceptions(mod *hir.Module) *moduleExceptionPlan {
	plan := &moduleExceptionPlan{perFunction: map[string]*exceptionInfo{}, allNames: map[string]bool{}}

	allFns := append([]*hir.Function{}, mod.Functions...)
	for _, c := range mod.Classes {
		allFns = append(allFns, c.Methods...)
	}

	for _, fn := range allFns {
		info := analyzeExceptions(fn)
		plan.perFunction[fn.Name] = info
		for name := range info.AllRaised {
			plan.allNames[name] = true
		}
	}

	g := analysis.BuildCallGraph(mod)
	sccs := g.SCCs()
	// SCCs come callees first, so walking front-to-back settles every
	// callee's Propagated set before its callers read it.
	for i := 0; i < len(sccs); i++ {
		changed := true
		for changed {
			changed = false
			for _, fn := range sccs[i] {
				info, ok := plan.perFunction[fn]
				if !ok {
					continue
				}
				for callee := range g.Callees(fn) {
					calleeInfo, ok := plan.perFunction[callee]
					if !ok {
						continue
					}
					for name := range calleeInfo.Propagated {
						if !info.Propagated[name] {
							info.Propagated[name] = true
							plan.allNames[name] = true
							changed = true
						}
					}
				}
			}
		}
	}
	return plan
}

// errTypeFor returns the Rust error type name to use in a function's
// Result<T, E> return position, and "" when the function propagates
// nothing (i.e. its return type stays unwrapped).
func (p *moduleExceptionPlan) errTypeFor(fnName string) string {
	info, ok := p.perFunction[fnName]
	if !ok || len(info.Propagated) == 0 {
		return ""
	}
	if len(info.Propagated) == 1 {
		for name := range info.Propagated {
			return name
		}
	}
	return "Box<dyn std::error::Error>"
}

// emitExceptionStructs synthesises one Error-implementing struct per
// distinct exception name in the plan, sorted for determinism (§8.1
// invariant 1), deduplicated across the whole module.
func emitExceptionStructs(plan *moduleExceptionPlan) string {
	if len(plan.allNames) == 0 {
		return ""
	}
	names := make([]string, 0, len(plan.allNames))
	for n := range plan.allNames {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "#[derive(Debug)]\nstruct %s { message: String }\n\n", name)
		fmt.Fprintf(&b, "impl %s {\n    fn new(message: impl Into<String>) -> Self {\n        Self { message: message.into() }\n    }\n}\n\n", name)
		fmt.Fprintf(&b, "impl std::fmt::Display for %s {\n    fn fmt(&self, f: &mut std::fmt::Formatter<'_>) -> std::fmt::Result {\n        write!(f, \"{}\", self.message)\n    }\n}\n\n", name)
		fmt.Fprintf(&b, "impl std::error::Error for %s {}\n\n", name)
	}
	return b.String()
}
