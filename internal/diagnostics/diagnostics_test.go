package diagnostics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depyler-dev/depyler/internal/pyast"
)

func TestReportSortedBySpan(t *testing.T) {
	r := NewReport()
	r.Addf(Warning, UnsupportedConstruct, CodeUnsupportedConstruct, pyast.Span{Start: pyast.Pos{Line: 5, Column: 1}}, "later")
	r.Addf(Error, TypeError, "DEPYLER-0001", pyast.Span{Start: pyast.Pos{Line: 1, Column: 1}}, "earlier")

	sorted := r.Sorted()
	require.Len(t, sorted, 2)
	require.Equal(t, "earlier", sorted[0].Message)
	require.Equal(t, "later", sorted[1].Message)
}

func TestReportHasErrorsAndFatal(t *testing.T) {
	r := NewReport()
	require.False(t, r.HasErrors())
	require.False(t, r.HasFatal())

	r.Addf(Warning, UnsupportedConstruct, CodeUnsupportedConstruct, pyast.Span{}, "just a warning")
	require.False(t, r.HasErrors())

	r.Addf(Error, TypeError, "DEPYLER-0001", pyast.Span{}, "an error")
	require.True(t, r.HasErrors())
	require.False(t, r.HasFatal())

	r.Addf(Fatal, ParseError, "DEPYLER-0100", pyast.Span{}, "a fatal")
	require.True(t, r.HasFatal())
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	a.Addf(Warning, UnsupportedConstruct, CodeUnsupportedConstruct, pyast.Span{}, "from a")
	b := NewReport()
	b.Addf(Error, TypeError, "DEPYLER-0001", pyast.Span{}, "from b")

	a.Merge(b)
	require.Equal(t, 2, a.Len())
	require.True(t, a.HasErrors())
}

func TestReportMarshalJSONDeterministic(t *testing.T) {
	r := NewReport()
	r.Addf(Error, CodegenError, CodeCaughtNotPropagated, pyast.Span{Start: pyast.Pos{Line: 3, Column: 2}}, "caught but not propagated")

	first, err := r.MarshalJSON()
	require.NoError(t, err)
	second, err := r.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(first, &decoded))
	require.Equal(t, "depyler.diagnostics/v1", decoded["schema"])

	items, ok := decoded["diagnostics"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	require.Equal(t, CodeCaughtNotPropagated, item["code"])
	require.Equal(t, "error", item["level"])
}
