// Package diagnostics collects and renders the structured diagnostics
// produced throughout lowering, analysis, and code generation.
package diagnostics

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/depyler-dev/depyler/internal/pyast"
	"github.com/depyler-dev/depyler/internal/schema"
)

// Level is the severity of a Diagnostic.
type Level int

const (
	Warning Level = iota
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Fatal:
		return "fatal"
	default:
		return "error"
	}
}

// Kind is the §7 error taxonomy.
type Kind int

const (
	ParseError Kind = iota
	UnsupportedConstruct
	TypeError
	OwnershipError
	CodegenError
	LibraryMappingError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case TypeError:
		return "TypeError"
	case OwnershipError:
		return "OwnershipError"
	case CodegenError:
		return "CodegenError"
	case LibraryMappingError:
		return "LibraryMappingError"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single structured finding with a stable code, e.g.
// "DEPYLER-0327".
type Diagnostic struct {
	Level   Level
	Kind    Kind
	Code    string
	Message string
	Span    pyast.Span
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s [%s] %s: %s", d.Span.Start, d.Level, d.Code, d.Kind, d.Message)
}

// Report accumulates Diagnostics across a single pipeline run and sorts
// them by span on demand, per §3.1's Diagnostic lifecycle.
type Report struct {
	items []*Diagnostic
}

func NewReport() *Report { return &Report{} }

func (r *Report) Add(d *Diagnostic) { r.items = append(r.items, d) }

func (r *Report) Addf(level Level, kind Kind, code string, span pyast.Span, format string, args ...interface{}) {
	r.Add(&Diagnostic{Level: level, Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

// HasErrors reports whether any Error- or Fatal-level diagnostic was
// recorded.
func (r *Report) HasErrors() bool {
	for _, d := range r.items {
		if d.Level == Error || d.Level == Fatal {
			return true
		}
	}
	return false
}

// HasFatal reports whether lowering/codegen must abort at module
// granularity (§4.1's "Failure" contract).
func (r *Report) HasFatal() bool {
	for _, d := range r.items {
		if d.Level == Fatal {
			return true
		}
	}
	return false
}

// Sorted returns every recorded Diagnostic ordered by source span, the
// emission order the spec's Diagnostic lifecycle requires.
func (r *Report) Sorted() []*Diagnostic {
	out := make([]*Diagnostic, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Span.Start, out[j].Span.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

func (r *Report) Len() int { return len(r.items) }

// Merge appends another Report's diagnostics into r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.items = append(r.items, other.items...)
}

// diagnosticJSON is the wire shape of one Diagnostic under the
// depyler.diagnostics/v1 schema.
type diagnosticJSON struct {
	Schema  string `json:"schema" yaml:"schema"`
	Level   string `json:"level" yaml:"level"`
	Kind    string `json:"kind" yaml:"kind"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
}

type reportYAML struct {
	Schema      string           `yaml:"schema"`
	Diagnostics []diagnosticJSON `yaml:"diagnostics"`
}

func (r *Report) toWire() []diagnosticJSON {
	sorted := r.Sorted()
	items := make([]diagnosticJSON, len(sorted))
	for i, d := range sorted {
		items[i] = diagnosticJSON{
			Schema:  schema.DiagnosticsV1,
			Level:   d.Level.String(),
			Kind:    d.Kind.String(),
			Code:    d.Code,
			Message: d.Message,
			Line:    d.Span.Start.Line,
			Column:  d.Span.Start.Column,
		}
	}
	return items
}

// MarshalYAML renders the sorted diagnostic list as YAML under the same
// depyler.diagnostics/v1 schema as MarshalJSON, for the CLI's `-format
// yaml` output mode.
func (r *Report) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(reportYAML{Schema: schema.DiagnosticsV1, Diagnostics: r.toWire()})
}

// MarshalJSON renders the sorted diagnostic list as deterministic,
// schema-versioned JSON (the CLI's `-format json` output mode, §6.5), using
// schema.MarshalDeterministic so two runs over an equal Report produce
// byte-identical bytes regardless of map iteration order.
func (r *Report) MarshalJSON() ([]byte, error) {
	items := r.toWire()
	return schema.MarshalDeterministic(map[string]interface{}{
		"schema":      schema.DiagnosticsV1,
		"diagnostics": items,
	})
}
