package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranspileTrivialFunction(t *testing.T) {
	p := New()
	rust, report := p.Transpile("def add(a: int, b: int) -> int:\n    return a + b\n")
	require.False(t, report.HasErrors())
	require.Contains(t, rust, "fn add(a: i32, b: i32) -> i32 {")
}

func TestTranspileModuleReportsTimings(t *testing.T) {
	p := New()
	result, report := p.TranspileModule(Source{Name: "demo", Code: "def f() -> int:\n    return 1\n"})
	require.False(t, report.HasErrors())
	require.Contains(t, result.Artifacts.Rust, "fn f()")
	require.Contains(t, result.Timings, "parse_lower")
	require.Contains(t, result.Timings, "analyze")
	require.Contains(t, result.Timings, "codegen")
	require.Equal(t, "demo", result.Artifacts.Module.Name)
}

func TestTranspileModuleAbortsOnSyntaxError(t *testing.T) {
	p := New()
	result, report := p.TranspileModule(Source{Name: "bad", Code: "def f(:\n    pass\n"})
	require.True(t, report.HasFatal())
	require.Empty(t, result.Artifacts.Rust)
}

func TestParseToHIR(t *testing.T) {
	p := New()
	mod, report := p.ParseToHIR("def f() -> int:\n    return 1\n")
	require.False(t, report.HasErrors())
	require.Len(t, mod.Functions, 1)
	require.Equal(t, "f", mod.Functions[0].Name)
}

func TestWithConfigReturnsWorkingPipeline(t *testing.T) {
	p := New().WithConfig(Config{EmitDocstrings: true})
	rust, report := p.Transpile("def add(a: int, b: int) -> int:\n    return a + b\n")
	require.False(t, report.HasErrors())
	require.Contains(t, rust, "fn add")
}
