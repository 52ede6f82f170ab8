package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depyler-dev/depyler/internal/analysis"
	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/librarymap"
	"github.com/depyler-dev/depyler/internal/lower"
	"github.com/depyler-dev/depyler/internal/pyparser"
)

func compileModule(t *testing.T, src string) (*hir.Module, string) {
	t.Helper()
	f, errs := pyparser.Parse([]byte(src), "test.py")
	require.Empty(t, errs)
	report := diagnostics.NewReport()
	mod := lower.New(report).LowerFile(f)
	analysis.AnalyzeProperties(mod)
	for _, fn := range mod.Functions {
		analysis.InferBorrowing(fn)
	}
	for _, cls := range mod.Classes {
		for _, m := range cls.Methods {
			analysis.InferBorrowing(m)
		}
	}
	e := NewEmitter(Config{EmitDocstrings: true}, librarymap.DefaultRegistry(), report)
	out := e.EmitModule(mod)
	return mod, out
}

// S1: trivial numeric function — Copy params, no borrow, operator preserved.
func TestScenarioS1TrivialNumericFunction(t *testing.T) {
	_, out := compileModule(t, "def add(a: int, b: int) -> int:\n    return a + b\n")
	require.Contains(t, out, "fn add(a: i32, b: i32) -> i32 {")
	require.Contains(t, out, "a + b")
}

// S2: string return, owned — body uses format!/+ and signature returns String.
func TestScenarioS2StringReturnOwned(t *testing.T) {
	_, out := compileModule(t, "def greet(name: str) -> str:\n    return \"Hello, \" + name\n")
	require.Contains(t, out, "-> String")
	require.True(t, strings.Contains(out, `"Hello, "`))
}

// S3: dict augmented assignment — read, clone, re-insert; no borrow-after-move.
func TestScenarioS3DictAugmentedAssignment(t *testing.T) {
	_, out := compileModule(t, "def bump(d: dict, k: str):\n    d[k] += 1\n")
	require.Contains(t, out, "_old")
	require.Contains(t, out, ".get(&k)")
	require.Contains(t, out, ".insert(k,")
}

// S4 (DEPYLER-0327): caught-but-not-propagated exception still synthesises
// the struct exactly once, but the function's own return type is untouched.
func TestScenarioS4CaughtNotPropagated(t *testing.T) {
	src := "def op(x: int) -> int:\n" +
		"    try:\n" +
		"        if x < 0:\n            raise ValueError(\"negative\")\n" +
		"        return x * 2\n" +
		"    except ValueError:\n        return 0\n"
	_, out := compileModule(t, src)
	require.Equal(t, 1, strings.Count(out, "struct ValueError"))
	require.Contains(t, out, "impl std::fmt::Display for ValueError")
	require.Contains(t, out, "impl std::error::Error for ValueError")
	require.Contains(t, out, "fn op(x: i32) -> i32 {")
	require.NotContains(t, out, "fn op(x: i32) -> Result<i32, ValueError>")
	require.Contains(t, out, "ValueError::new(")
}

// S5 (DEPYLER-0259): generator state struct uses PascalCase naming, not a
// literal snake_case-to-uppercase transform, and infers i32 for a
// literal-initialised local rather than leaving it Unknown.
func TestScenarioS5GeneratorNaming(t *testing.T) {
	src := "def count_up(n: int):\n" +
		"    i = 0\n" +
		"    while i < n:\n        yield i\n        i = i + 1\n"
	_, out := compileModule(t, src)
	require.Contains(t, out, "struct CountUpState {")
	require.NotContains(t, out, "Count_upState")
	require.Contains(t, out, "impl Iterator for CountUpState {")
	require.Contains(t, out, "i: i32,")
}

// Multi-yield generator (review fix for the next()-returns-only-first-
// value bug): every value yielded across the whole loop must come back
// out, one per Iterator::next() call, not just the first.
func TestGeneratorDispensesEveryYieldedValue(t *testing.T) {
	src := "def count_up(n: int):\n" +
		"    i = 0\n" +
		"    while i < n:\n        yield i\n        i = i + 1\n"
	_, out := compileModule(t, src)
	require.Contains(t, out, "struct CountUpState {")
	require.Contains(t, out, "__buffered: Vec<")
	require.Contains(t, out, "self.__buffered = __yielded;")
	require.Contains(t, out, "self.__idx < self.__buffered.len()")
	require.NotContains(t, out, "__yielded.into_iter().next()")
}

// A `yield` reached only through a conditional branch inside a loop does
// not dominate the end of that loop body, so it falls back to an
// eagerly-collected Vec<T> return (DEPYLER-0420) instead of the named
// state struct.
func TestGeneratorConditionalYieldInLoopFallsBackToEagerVec(t *testing.T) {
	src := "def evens_up_to(n: int):\n" +
		"    i = 0\n" +
		"    while i < n:\n" +
		"        if i % 2 == 0:\n            yield i\n" +
		"        i = i + 1\n"
	_, out := compileModule(t, src)
	require.NotContains(t, out, "struct EvensUpToState")
	require.Contains(t, out, "fn evens_up_to(n: i32) -> impl Iterator<Item =")
	require.Contains(t, out, "__yielded.push(i)")
	require.Contains(t, out, "__yielded.into_iter()")
}

// S6: precedence preservation across a float coercion — integer literal 1
// becomes 1.0, and the left operand keeps its parentheses.
func TestScenarioS6PrecedencePreservation(t *testing.T) {
	src := "def scale(beta1: float, x: float) -> float:\n    return (1 - beta1) * x\n"
	_, out := compileModule(t, src)
	require.Contains(t, out, "(1.0 - beta1) * x")
}

// Invariant 1: determinism — repeated emission of the same module is
// byte-identical.
func TestInvariantDeterminism(t *testing.T) {
	src := "def add(a: int, b: int) -> int:\n    return a + b\n"
	f, errs := pyparser.Parse([]byte(src), "test.py")
	require.Empty(t, errs)
	mod := lower.New(diagnostics.NewReport()).LowerFile(f)
	analysis.AnalyzeProperties(mod)
	analysis.InferBorrowing(mod.Functions[0])

	e := NewEmitter(Config{}, librarymap.DefaultRegistry(), diagnostics.NewReport())
	out1 := e.EmitModule(mod)
	out2 := e.EmitModule(mod)
	require.Equal(t, out1, out2)
}

// Invariant 5: scope correctness — first assignment emits `let mut`,
// later reassignment in the same scope does not.
func TestInvariantScopeCorrectness(t *testing.T) {
	src := "def f(n: int) -> int:\n    total = 0\n    total = total + n\n    return total\n"
	_, out := compileModule(t, src)
	require.Equal(t, 1, strings.Count(out, "let mut total"))
	require.Contains(t, out, "total = total + n;")
}

// Invariant 6: precedence preservation — a lower-precedence child under a
// higher-precedence parent is always parenthesised.
func TestInvariantPrecedencePreservation(t *testing.T) {
	src := "def f(a: int, b: int, c: int) -> int:\n    return (a + b) * c\n"
	_, out := compileModule(t, src)
	require.Contains(t, out, "(a + b) * c")
}

// Invariant 7: borrow discipline — a mutated parameter is never emitted as
// a plain shared reference.
func TestInvariantBorrowDiscipline(t *testing.T) {
	_, out := compileModule(t, "def add_one(items: list):\n    items.append(1)\n")
	require.NotContains(t, out, "items: &Vec")
}

// Invariant 8: exception type completeness — exactly one struct per
// distinct raised/caught name, even across multiple functions.
func TestInvariantExceptionTypeCompleteness(t *testing.T) {
	src := "def a():\n    raise ValueError(\"x\")\n\ndef b():\n    raise ValueError(\"y\")\n"
	_, out := compileModule(t, src)
	require.Equal(t, 1, strings.Count(out, "struct ValueError"))
}

// subprocess.run synthesises a CompletedProcess struct rather than
// routing through the generic library-map Constructor+output() pattern.
func TestSubprocessRunSynthesizesCompletedProcess(t *testing.T) {
	src := "import subprocess\n\n" +
		"def run_cmd(cmd: list):\n" +
		"    result = subprocess.run(cmd, capture_output=True)\n" +
		"    return result\n"
	_, out := compileModule(t, src)
	require.Equal(t, 1, strings.Count(out, "struct CompletedProcess {"))
	require.Contains(t, out, "returncode: i32,")
	require.Contains(t, out, "stdout: String,")
	require.Contains(t, out, "stderr: String,")
	require.Contains(t, out, "std::process::Command::new(&cmd_list[0])")
	require.Contains(t, out, "cmd.output().expect(\"subprocess.run() failed\")")
	require.Contains(t, out, "returncode: output.status.code().unwrap_or(-1)")
	require.NotContains(t, out, "std::process::Command::new(cmd).output()")
}

// A module with no subprocess.run call never pays for the
// CompletedProcess struct.
func TestSubprocessRunStructOmittedWhenUnused(t *testing.T) {
	_, out := compileModule(t, "def add(a: int, b: int) -> int:\n    return a + b\n")
	require.NotContains(t, out, "CompletedProcess")
}

// Invariant 9: library mapping validity — the default registry's os.path
// mapping resolves through codegen's stdlib rewrite path.
func TestInvariantLibraryMappingAppliesOsPathJoin(t *testing.T) {
	src := "import os\n\ndef full(base: str, name: str) -> str:\n    return os.path.join(base, name)\n"
	_, out := compileModule(t, src)
	require.Contains(t, out, "std::path::Path::new(base).join(name)")
}

// Cross-function exception propagation: a function whose only raise is
// inside a call to a helper that itself always propagates must still wrap
// its own return type, via the call-graph fixed point in errors.go.
func TestCrossFunctionExceptionPropagation(t *testing.T) {
	src := "def inner():\n    raise ValueError(\"boom\")\n\n" +
		"def outer():\n    inner()\n"
	_, out := compileModule(t, src)
	require.Regexp(t, `fn outer\(\) -> Result<[^,]+, ValueError>`, out)
}
