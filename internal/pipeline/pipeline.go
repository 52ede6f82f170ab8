// Package pipeline orchestrates the full parse → lower → analyze →
// codegen sequence behind the public `New`/`WithConfig`/`Transpile` API
// (§6.1), threading one Config and one diagnostics.Report through every
// phase and recording per-phase wall-clock timings.
package pipeline

import (
	"time"

	"github.com/depyler-dev/depyler/internal/analysis"
	"github.com/depyler-dev/depyler/internal/codegen"
	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/librarymap"
	"github.com/depyler-dev/depyler/internal/lower"
	"github.com/depyler-dev/depyler/internal/pyast"
	"github.com/depyler-dev/depyler/internal/pyparser"
)

// Config is the §6.2 configuration surface. It is a Go struct, not a file
// format — the core never parses a config file, only the TOML plugin
// paths it names.
type Config struct {
	StringStrategy hir.StringStrategy
	OwnershipModel hir.OwnershipModel
	ThreadSafety   hir.ThreadSafety
	HashStrategy   hir.HashStrategy
	ErrorStrategy  hir.ErrorStrategy
	EmitDocstrings bool
	LibraryPlugins []string
}

// Source is one named unit of Python source text.
type Source struct {
	Name string
	Code string
}

// PhaseTimings records how long each pipeline phase took, in nanoseconds,
// keyed by phase name ("parse_lower", "analyze", "codegen").
type PhaseTimings map[string]int64

// Artifacts holds everything a successful TranspileModule call produced.
type Artifacts struct {
	Module *hir.Module
	Rust   string
}

// Result is TranspileModule's return value.
type Result struct {
	Artifacts Artifacts
	Timings   PhaseTimings
}

// Pipeline runs the depyler translation core end to end. A Pipeline may
// be reused and is safe to call concurrently from multiple goroutines
// once constructed (its Registry is read-only after New/WithConfig).
type Pipeline struct {
	config   Config
	registry *librarymap.Registry
}

// New returns a Pipeline with default configuration: docstrings emitted,
// no library plugins beyond the built-in registry.
func New() *Pipeline {
	return &Pipeline{
		config:   Config{EmitDocstrings: true},
		registry: librarymap.DefaultRegistry(),
	}
}

// WithConfig replaces the Pipeline's Config, reloading library plugins
// named by the new Config.LibraryPlugins on top of the default registry.
// Returns p for chaining: pipeline.New().WithConfig(cfg).
func (p *Pipeline) WithConfig(cfg Config) *Pipeline {
	p.config = cfg
	p.registry = librarymap.DefaultRegistry()
	for _, path := range cfg.LibraryPlugins {
		if err := librarymap.LoadPluginFile(p.registry, path); err != nil {
			// Plugin load failures are not reported anywhere: WithConfig
			// has no Report to write to, and TranspileModule does not
			// record them either, so a failing plugin silently does not
			// apply. A Pipeline whose plugins fail to load still runs
			// with the built-in registry's mappings intact.
			continue
		}
	}
	return p
}

func annotationDefaults(cfg Config) hir.TranspilationAnnotations {
	return hir.TranspilationAnnotations{
		StringStrategy: cfg.StringStrategy,
		Ownership:      cfg.OwnershipModel,
		ThreadSafety:   cfg.ThreadSafety,
		HashStrategy:   cfg.HashStrategy,
		ErrorStrategy:  cfg.ErrorStrategy,
	}
}

// ParseToHIR runs the parse+lower phases only, returning the lowered
// module and whatever diagnostics either phase produced.
func (p *Pipeline) ParseToHIR(source string) (*hir.Module, *diagnostics.Report) {
	report := diagnostics.NewReport()
	mod := p.parseAndLower(source, "module", report)
	return mod, report
}

func (p *Pipeline) parseAndLower(source, name string, report *diagnostics.Report) *hir.Module {
	file, errs := pyparser.Parse([]byte(source), name)
	for _, e := range errs {
		report.Addf(diagnostics.Fatal, diagnostics.ParseError, "DEPYLER-0100", pyast.Span{Start: e.Pos, End: e.Pos}, "%s", e.Msg)
	}
	if report.HasFatal() {
		return nil
	}

	lw := lower.New(report)
	mod := lw.LowerFile(file)
	mod.Name = name

	defaults := annotationDefaults(p.config)
	for _, fn := range mod.Functions {
		fn.Annotations = mergeAnnotations(defaults, fn.Annotations)
	}
	for _, cls := range mod.Classes {
		for _, m := range cls.Methods {
			m.Annotations = mergeAnnotations(defaults, m.Annotations)
		}
	}
	return mod
}

// mergeAnnotations lets a function's own docstring-derived annotations
// (parsed is zero-valued on every field it didn't see) override the
// pipeline-wide Config defaults field by field. Zero values for these
// enums are also their most conservative setting, so "unset" and
// "explicitly conservative" are indistinguishable here — acceptable
// since §6.3 annotations are meant to override, not to unset a default.
func mergeAnnotations(defaults, parsed hir.TranspilationAnnotations) hir.TranspilationAnnotations {
	out := defaults
	if parsed.StringStrategy != 0 {
		out.StringStrategy = parsed.StringStrategy
	}
	if parsed.Ownership != 0 {
		out.Ownership = parsed.Ownership
	}
	if parsed.ThreadSafety != 0 {
		out.ThreadSafety = parsed.ThreadSafety
	}
	if parsed.HashStrategy != 0 {
		out.HashStrategy = parsed.HashStrategy
	}
	if parsed.ErrorStrategy != 0 {
		out.ErrorStrategy = parsed.ErrorStrategy
	}
	return out
}

func (p *Pipeline) analyze(mod *hir.Module) {
	analysis.AnalyzeProperties(mod)
	for _, fn := range mod.Functions {
		analysis.InferBorrowing(fn)
	}
	for _, cls := range mod.Classes {
		for _, m := range cls.Methods {
			analysis.InferBorrowing(m)
		}
	}
}

func (p *Pipeline) generate(mod *hir.Module, report *diagnostics.Report) string {
	emitter := codegen.NewEmitter(codegen.Config{
		EmitDocstrings: p.config.EmitDocstrings,
	}, p.registry, report)
	return emitter.EmitModule(mod)
}

// Transpile runs the full pipeline on a single unnamed source string and
// returns its Rust rendering.
func (p *Pipeline) Transpile(source string) (string, *diagnostics.Report) {
	result, report := p.TranspileModule(Source{Name: "module", Code: source})
	return result.Artifacts.Rust, report
}

// TranspileModule runs the full parse → lower → analyze → codegen
// pipeline on src, recording per-phase timings and returning whatever
// diagnostics accumulated along the way. A Fatal diagnostic from parsing
// or lowering aborts before codegen runs; Result.Artifacts is then zero.
func (p *Pipeline) TranspileModule(src Source) (Result, *diagnostics.Report) {
	report := diagnostics.NewReport()
	timings := PhaseTimings{}

	t0 := time.Now()
	mod := p.parseAndLower(src.Code, src.Name, report)
	timings["parse_lower"] = time.Since(t0).Nanoseconds()

	if mod == nil || report.HasFatal() {
		return Result{Timings: timings}, report
	}

	t1 := time.Now()
	p.analyze(mod)
	timings["analyze"] = time.Since(t1).Nanoseconds()

	t2 := time.Now()
	rust := p.generate(mod, report)
	timings["codegen"] = time.Since(t2).Nanoseconds()

	return Result{
		Artifacts: Artifacts{Module: mod, Rust: rust},
		Timings:   timings,
	}, report
}
