package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/lower"
	"github.com/depyler-dev/depyler/internal/pyparser"
)

func lowerSrc(t *testing.T, src string) *hir.Module {
	t.Helper()
	f, errs := pyparser.Parse([]byte(src), "test.py")
	require.Empty(t, errs)
	return lower.New(diagnostics.NewReport()).LowerFile(f)
}

func TestEscapingParamIsOwned(t *testing.T) {
	mod := lowerSrc(t, "def identity(items: list) -> list:\n    return items\n")
	AnalyzeProperties(mod)
	fn := mod.Functions[0]
	InferBorrowing(fn)
	require.True(t, fn.Props.EscapesParams["items"])
	require.Equal(t, hir.Owned, fn.Borrowing["items"])
}

func TestMutatingParamIsMutableBorrow(t *testing.T) {
	mod := lowerSrc(t, "def add_one(items: list):\n    items.append(1)\n")
	AnalyzeProperties(mod)
	fn := mod.Functions[0]
	InferBorrowing(fn)
	require.True(t, fn.Props.MutatesParams["items"])
	require.Equal(t, hir.MutableBorrow, fn.Borrowing["items"])
}

func TestCopyTypeParamIsOwned(t *testing.T) {
	mod := lowerSrc(t, "def square(n: int) -> int:\n    return n * n\n")
	AnalyzeProperties(mod)
	fn := mod.Functions[0]
	InferBorrowing(fn)
	require.Equal(t, hir.Owned, fn.Borrowing["n"])
}

func TestReadOnlyParamIsBorrowed(t *testing.T) {
	mod := lowerSrc(t, "def total(items: list) -> int:\n"+
		"    t = 0\n    for x in items:\n        t += x\n    return t\n")
	AnalyzeProperties(mod)
	fn := mod.Functions[0]
	InferBorrowing(fn)
	require.Equal(t, hir.Borrowed, fn.Borrowing["items"])
}

func TestUncheckedIndexCanPanic(t *testing.T) {
	mod := lowerSrc(t, "def first(items: list):\n    return items[0]\n")
	AnalyzeProperties(mod)
	require.True(t, mod.Functions[0].Props.CanPanic)
}

func TestCaughtExceptionStillRecorded(t *testing.T) {
	mod := lowerSrc(t, "def f():\n"+
		"    try:\n        risky()\n    except ValueError as e:\n        pass\n")
	AnalyzeProperties(mod)
	require.True(t, mod.Functions[0].Props.ErrorTypes["ValueError"])
}

func TestWhileTrueWithoutBreakDoesNotTerminate(t *testing.T) {
	mod := lowerSrc(t, "def f():\n    while True:\n        work()\n")
	AnalyzeProperties(mod)
	require.False(t, mod.Functions[0].Props.Terminates)
}

func TestWhileTrueWithBreakTerminates(t *testing.T) {
	mod := lowerSrc(t, "def f():\n    while True:\n        if done():\n            break\n")
	AnalyzeProperties(mod)
	require.True(t, mod.Functions[0].Props.Terminates)
}

func TestCallGraphPropagatesCanPanic(t *testing.T) {
	mod := lowerSrc(t, "def inner(items: list):\n    return items[0]\n\n"+
		"def outer(items: list):\n    return inner(items)\n")
	AnalyzeProperties(mod)
	for _, fn := range mod.Functions {
		if fn.Name == "outer" {
			require.True(t, fn.Props.CanPanic)
		}
	}
}

func TestGeneratorAnalysis(t *testing.T) {
	mod := lowerSrc(t, "def count_up(n: int):\n"+
		"    i = 0\n    while i < n:\n        yield i\n        i += 1\n")
	fn := mod.Functions[0]
	require.True(t, fn.IsGenerator)
	info := AnalyzeGenerator(fn)
	require.Equal(t, 1, info.YieldCount)
	require.True(t, info.HasLoop)
	require.Len(t, info.Locals, 1)
	require.Equal(t, "i", info.Locals[0].Name)
	require.Equal(t, hir.Int{}, info.Locals[0].Type)
	require.Contains(t, info.CapturedParams, "n")
}
