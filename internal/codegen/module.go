// Package codegen lowers analyzed HIR (internal/hir, internal/analysis)
// into Rust source text per §4.6–§4.10: expression/statement emission,
// exception-struct synthesis, library-mapping-driven stdlib rewriting,
// and the V1 single-state generator lowering.
package codegen

import (
	"fmt"
	"strings"

	"github.com/depyler-dev/depyler/internal/analysis"
	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/librarymap"
	"github.com/depyler-dev/depyler/internal/rustty"
)

// Config holds emission-time choices like doc-comment emission. The
// emitter does not read Annotations: each hir.Function carries its own
// Annotations, already merged with the pipeline defaults before codegen.
type Config struct {
	Annotations    hir.TranspilationAnnotations
	EmitDocstrings bool
}

// Emitter owns the pieces codegen needs that outlive any one function:
// configuration, the stdlib library-mapping registry, and the diagnostic
// sink unsupported constructs report into.
type Emitter struct {
	Config   Config
	Registry *librarymap.Registry
	Report   *diagnostics.Report

	// needsCompletedProcess is set by emitSubprocessRun the first time a
	// module's functions call subprocess.run; EmitModule checks it after
	// emitting every function so the CompletedProcess struct appears at
	// most once, and only in modules that actually use it.
	needsCompletedProcess bool
}

// NewEmitter constructs an Emitter. registry may be nil (no stdlib
// rewriting is attempted); report may be nil in tests that don't care
// about diagnostics.
func NewEmitter(cfg Config, registry *librarymap.Registry, report *diagnostics.Report) *Emitter {
	return &Emitter{Config: cfg, Registry: registry, Report: report}
}

// EmitModule renders an entire hir.Module to a single Rust source file,
// applying the module-wide `#![allow(...)]` header §6.4 requires, the
// exception-struct synthesis pass (§4.8), and one function/method at a
// time.
func (e *Emitter) EmitModule(mod *hir.Module) string {
	plan := planExceptions(mod)

	// Function/method bodies are emitted before the header is finalized:
	// emitSubprocessRun only discovers a module needs CompletedProcess
	// while walking a body, and the struct it synthesizes must appear
	// before any function that references it.
	var body strings.Builder
	for _, fn := range mod.Functions {
		body.WriteString(e.emitFunction(fn, plan))
		body.WriteString("\n")
	}
	for _, cls := range mod.Classes {
		body.WriteString(e.emitClass(cls, plan))
	}

	var b strings.Builder
	b.WriteString("#![allow(unused_imports, unused_mut, dead_code)]\n\n")
	// Whether this module actually needs HashMap/HashSet is data-dependent
	// (any dict/set literal or type pulls it in); the module-wide
	// unused_imports allow makes an always-present `use` harmless and
	// avoids a second walk of every function body just to decide.
	b.WriteString("use std::collections::{HashMap, HashSet};\n\n")
	if e.needsCompletedProcess {
		b.WriteString(completedProcessStruct)
	}
	b.WriteString(emitExceptionStructs(plan))
	b.WriteString(body.String())
	return b.String()
}

func (e *Emitter) emitFunction(fn *hir.Function, plan *moduleExceptionPlan) string {
	if fn.IsGenerator {
		info := analysis.AnalyzeGenerator(fn)
		yieldType := rustty.Custom{Name: "Unknown"}
		if g, ok := fn.ReturnType.(hir.Generator); ok {
			yieldType = rustty.MapType(g.Yield, fn.Annotations, hir.Owned)
		}
		if !info.SingleState {
			if e.Report != nil {
				e.Report.Addf(diagnostics.Warning, diagnostics.UnsupportedConstruct,
					diagnostics.CodeMultiStateGeneratorUnsupported, fn.Span,
					"generator %q has a yield that does not dominate the end of its "+
						"enclosing loop body; falling back to eager Vec<%s> collection "+
						"instead of a lazy iterator",
					fn.Name, yieldType.String())
			}
			return e.emitEagerGeneratorFunction(fn, info, yieldType)
		}
		return e.emitGeneratorFunction(fn, info, yieldType)
	}

	var b strings.Builder
	if e.Config.EmitDocstrings && fn.Docstring != "" {
		for _, line := range strings.Split(fn.Docstring, "\n") {
			fmt.Fprintf(&b, "/// %s\n", strings.TrimSpace(line))
		}
	}

	errType := plan.errTypeFor(fn.Name)
	baseRet := rustty.MapReturnType(fn.ReturnType, fn.Annotations, "")
	retTypeStr := baseRet.String()
	if errType != "" {
		retTypeStr = fmt.Sprintf("Result<%s, %s>", baseRet.String(), errType)
	}

	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		mode := fn.Borrowing[p.Name]
		rt := rustty.MapType(p.Type, fn.Annotations, mode)
		params = append(params, fmt.Sprintf("%s: %s", p.Name, rt.String()))
	}

	fmt.Fprintf(&b, "fn %s(%s) -> %s {\n", fn.Name, strings.Join(params, ", "), retTypeStr)

	sc := newScopeTracker()
	for _, p := range fn.Params {
		sc.declare(p.Name)
		mode := fn.Borrowing[p.Name]
		sc.setType(p.Name, rustty.MapType(p.Type, fn.Annotations, mode).String())
	}

	fc := &funcCodegen{
		emitter:     e,
		fn:          fn,
		scope:       sc,
		plan:        plan,
		errType:     errType,
		baseRetType: baseRet.String(),
	}
	b.WriteString(fc.emitBlock(fn.Body, 1))
	b.WriteString("}\n")
	return b.String()
}

func (e *Emitter) emitClass(cls *hir.Class, plan *moduleExceptionPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", cls.Name)
	for _, f := range cls.Fields {
		rt := rustty.MapType(f.Type, hir.DefaultAnnotations(), hir.Owned)
		fmt.Fprintf(&b, "    %s: %s,\n", f.Name, rt.String())
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "impl %s {\n", cls.Name)
	for _, m := range cls.Methods {
		b.WriteString(indentBlock(e.emitMethod(cls, m, plan), 1))
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
	return b.String()
}

func (e *Emitter) emitMethod(cls *hir.Class, fn *hir.Function, plan *moduleExceptionPlan) string {
	var b strings.Builder
	errType := plan.errTypeFor(fn.Name)
	baseRet := rustty.MapReturnType(fn.ReturnType, fn.Annotations, "")
	retTypeStr := baseRet.String()
	if errType != "" {
		retTypeStr = fmt.Sprintf("Result<%s, %s>", baseRet.String(), errType)
	}

	params := []string{"&mut self"}
	sc := newScopeTracker()
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		mode := fn.Borrowing[p.Name]
		rt := rustty.MapType(p.Type, fn.Annotations, mode)
		params = append(params, fmt.Sprintf("%s: %s", p.Name, rt.String()))
		sc.declare(p.Name)
		sc.setType(p.Name, rt.String())
	}
	for _, f := range cls.Fields {
		sc.declare(f.Name)
	}

	fmt.Fprintf(&b, "fn %s(%s) -> %s {\n", fn.Name, strings.Join(params, ", "), retTypeStr)
	fc := &funcCodegen{
		emitter:     e,
		fn:          fn,
		scope:       sc,
		plan:        plan,
		errType:     errType,
		baseRetType: baseRet.String(),
		selfPrefixed: true,
		selfFields:   classFieldSet(cls),
	}
	b.WriteString(fc.emitBlock(fn.Body, 1))
	b.WriteString("}\n")
	return b.String()
}

func classFieldSet(cls *hir.Class) map[string]bool {
	out := make(map[string]bool, len(cls.Fields))
	for _, f := range cls.Fields {
		out[f.Name] = true
	}
	return out
}

func indentBlock(s string, level int) string {
	prefix := strings.Repeat("    ", level)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
