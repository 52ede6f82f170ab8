package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/pyparser"
)

func lowerSrc(t *testing.T, src string) (*hir.Module, *diagnostics.Report) {
	t.Helper()
	f, errs := pyparser.Parse([]byte(src), "test.py")
	require.Empty(t, errs)
	report := diagnostics.NewReport()
	mod := New(report).LowerFile(f)
	return mod, report
}

func TestLowerTrivialNumericFunction(t *testing.T) {
	mod, report := lowerSrc(t, "def add(a: int, b: int) -> int:\n    return a + b\n")
	require.False(t, report.HasErrors())
	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	require.Equal(t, "add", fn.Name)
	require.Equal(t, hir.Int{}, fn.Params[0].Type)
	require.Equal(t, hir.Int{}, fn.ReturnType)
	require.False(t, fn.IsGenerator)
}

func TestLowerForElseRejected(t *testing.T) {
	_, report := lowerSrc(t, "def f():\n    for x in range(3):\n        pass\n    else:\n        pass\n")
	require.True(t, report.HasErrors())
	found := false
	for _, d := range report.Sorted() {
		if d.Code == diagnostics.CodeForElseUnsupported {
			found = true
		}
	}
	require.True(t, found)
}

func TestLowerGeneratorFlag(t *testing.T) {
	mod, _ := lowerSrc(t, "def count_up(n: int):\n    i = 0\n    while i < n:\n        yield i\n        i += 1\n")
	require.True(t, mod.Functions[0].IsGenerator)
}

func TestLowerRaiseSplitsExcTypeAndMessage(t *testing.T) {
	mod, _ := lowerSrc(t, "def f():\n    raise ValueError(\"bad\")\n")
	ret := mod.Functions[0].Body[0].(*hir.Raise)
	require.Equal(t, "ValueError", ret.ExcType)
	require.NotNil(t, ret.Message)
}

func TestLowerDictAugAssignTarget(t *testing.T) {
	mod, _ := lowerSrc(t, "def f(counts: dict):\n    counts['a'] += 1\n")
	aug := mod.Functions[0].Body[0].(*hir.AugAssign)
	require.NotNil(t, aug.Target.Index)
	require.Equal(t, "+", aug.Op)
}

func TestLowerAnnotationsFromDocstring(t *testing.T) {
	mod, _ := lowerSrc(t, "def f(s: str) -> str:\n"+
		"    \"\"\"string_strategy: ZeroCopy\n    ownership: Borrowed\n    \"\"\"\n"+
		"    return s\n")
	ann := mod.Functions[0].Annotations
	require.Equal(t, hir.ZeroCopy, ann.StringStrategy)
	require.Equal(t, hir.ModelBorrowed, ann.Ownership)
}
