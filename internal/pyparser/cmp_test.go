package pyparser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/depyler-dev/depyler/internal/pyast"
)

// ignorePos drops pyast.Pos from every comparison: exact source offsets
// aren't the point of these tests, only the shape of the parsed tree.
var ignorePos = cmpopts.IgnoreTypes(pyast.Pos{})

func TestParseListLiteralShape(t *testing.T) {
	f := mustParse(t, "x = [1, 2, 3]\n")
	got := f.Body[0].(*pyast.Assign).Value

	want := &pyast.ListExpr{
		Elts: []pyast.Expr{
			&pyast.Literal{Kind: pyast.IntLit, Value: int64(1)},
			&pyast.Literal{Kind: pyast.IntLit, Value: int64(2)},
			&pyast.Literal{Kind: pyast.IntLit, Value: int64(3)},
		},
	}

	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("list literal shape mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDictLiteralShape(t *testing.T) {
	f := mustParse(t, `d = {"a": 1, "b": 2}`+"\n")
	got := f.Body[0].(*pyast.Assign).Value

	want := &pyast.DictExpr{
		Entries: []*pyast.DictEntry{
			{Key: &pyast.Literal{Kind: pyast.StringLit, Value: "a"}, Value: &pyast.Literal{Kind: pyast.IntLit, Value: int64(1)}},
			{Key: &pyast.Literal{Kind: pyast.StringLit, Value: "b"}, Value: &pyast.Literal{Kind: pyast.IntLit, Value: int64(2)}},
		},
	}

	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("dict literal shape mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNestedBinOpShape(t *testing.T) {
	f := mustParse(t, "y = 1 + 2 * 3\n")
	got := f.Body[0].(*pyast.Assign).Value

	want := &pyast.BinOp{
		Op:   "+",
		Left: &pyast.Literal{Kind: pyast.IntLit, Value: int64(1)},
		Right: &pyast.BinOp{
			Op:    "*",
			Left:  &pyast.Literal{Kind: pyast.IntLit, Value: int64(2)},
			Right: &pyast.Literal{Kind: pyast.IntLit, Value: int64(3)},
		},
	}

	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("operator precedence tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTupleTargetShape(t *testing.T) {
	f := mustParse(t, "a, b = 1, 2\n")
	assign := f.Body[0].(*pyast.Assign)

	want := []pyast.Expr{
		&pyast.TupleExpr{Elts: []pyast.Expr{&pyast.Name{Id: "a"}, &pyast.Name{Id: "b"}}},
	}

	if diff := cmp.Diff(want, assign.Targets, ignorePos); diff != "" {
		t.Errorf("tuple-unpacking target shape mismatch (-want +got):\n%s", diff)
	}
}
