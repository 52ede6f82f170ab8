// Package lower converts a parsed pyast.File into hir per spec §4.1: AST →
// HIR lowering with minimum normalisation. Every emitted HIR node carries
// its source span; unsupported constructs are reported through the
// caller-supplied diagnostics.Report rather than panicking.
package lower

import (
	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/pyast"
)

// Lowerer turns one pyast.File into one hir.Module.
type Lowerer struct {
	report *diagnostics.Report
}

// New constructs a Lowerer that reports into report.
func New(report *diagnostics.Report) *Lowerer {
	return &Lowerer{report: report}
}

// LowerFile is the §4.1 entry point.
func (lw *Lowerer) LowerFile(f *pyast.File) *hir.Module {
	mod := &hir.Module{Name: f.Name, Span: pyast.Span{Start: f.Pos, End: f.Pos}}
	for _, stmt := range f.Body {
		switch s := stmt.(type) {
		case *pyast.Import:
			mod.Imports = append(mod.Imports, lw.lowerImport(s))
		case *pyast.FuncDef:
			mod.Functions = append(mod.Functions, lw.lowerFunction(s, false))
		case *pyast.ClassDef:
			mod.Classes = append(mod.Classes, lw.lowerClass(s))
		default:
			// Module-level statements outside def/class/import are
			// tolerated (e.g. `if __name__ == "__main__":`) but carry no
			// HIR representation at module granularity in this subset.
		}
	}
	return mod
}

func (lw *Lowerer) lowerImport(s *pyast.Import) *hir.Import {
	return &hir.Import{
		Module:  s.Module,
		Names:   s.Names,
		Aliases: s.Aliases,
		IsFrom:  s.IsFrom,
		Span:    span(s.Pos),
	}
}

func span(p pyast.Pos) pyast.Span { return pyast.Span{Start: p, End: p} }

func (lw *Lowerer) lowerFunction(f *pyast.FuncDef, isMethod bool) *hir.Function {
	params := make([]*hir.Param, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, &hir.Param{
			Name:      p.Name,
			Type:      ExtractType(p.Annotation),
			Default:   lw.lowerOptExpr(p.Default),
			Annotated: p.Annotation != nil,
		})
	}

	body := lw.lowerStmts(f.Body)
	ann := ParseAnnotations(f.Docstring, func(msg string) {
		lw.report.Addf(diagnostics.Warning, diagnostics.ParseError, "DEPYLER-0600", span(f.Pos), "%s", msg)
	})

	return &hir.Function{
		Name:        f.Name,
		Params:      params,
		ReturnType:  ExtractType(f.ReturnType),
		Body:        body,
		Docstring:   f.Docstring,
		IsGenerator: containsYieldStmts(f.Body),
		IsAsync:     f.IsAsync,
		IsMethod:    isMethod,
		Annotations: ann,
		Props:       hir.NewFunctionProperties(),
		Borrowing:   map[string]hir.BorrowMode{},
		Span:        span(f.Pos),
	}
}

func (lw *Lowerer) lowerClass(c *pyast.ClassDef) *hir.Class {
	var bases []string
	for _, b := range c.Bases {
		bases = append(bases, exprName(b))
	}
	var methods []*hir.Function
	var fields []*hir.ClassField
	seen := map[string]bool{}
	for _, stmt := range c.Body {
		if fd, ok := stmt.(*pyast.FuncDef); ok {
			methods = append(methods, lw.lowerFunction(fd, true))
			if fd.Name == "__init__" {
				for _, f := range inferSelfFields(fd.Body) {
					if !seen[f.Name] {
						seen[f.Name] = true
						fields = append(fields, f)
					}
				}
			}
		}
	}
	return &hir.Class{
		Name:      c.Name,
		Bases:     bases,
		Fields:    fields,
		Methods:   methods,
		Docstring: c.Docstring,
		Span:      span(c.Pos),
	}
}

// inferSelfFields scans `__init__` for `self.<name> = <value>` assignments,
// the only place class fields are declared in this Python subset.
func inferSelfFields(body []pyast.Stmt) []*hir.ClassField {
	var fields []*hir.ClassField
	for _, stmt := range body {
		assign, ok := stmt.(*pyast.Assign)
		if !ok {
			continue
		}
		for _, target := range assign.Targets {
			attr, ok := target.(*pyast.Attribute)
			if !ok {
				continue
			}
			if name, ok := attr.Value.(*pyast.Name); !ok || name.Id != "self" {
				continue
			}
			var typ hir.Type = hir.Unknown{}
			if assign.Annotation != nil {
				typ = ExtractType(assign.Annotation)
			}
			fields = append(fields, &hir.ClassField{Name: attr.Attr, Type: typ})
		}
	}
	return fields
}

func exprName(e pyast.Expr) string {
	switch v := e.(type) {
	case *pyast.Name:
		return v.Id
	case *pyast.Attribute:
		return v.Attr
	default:
		return ""
	}
}

func (lw *Lowerer) lowerOptExpr(e pyast.Expr) hir.Expr {
	if e == nil {
		return nil
	}
	return lw.lowerExpr(e)
}
