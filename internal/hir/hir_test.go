package hir

import (
	"testing"

	"github.com/depyler-dev/depyler/internal/pyast"
)

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"int", Int{}, "int"},
		{"float", Float{}, "float"},
		{"bool", Bool{}, "bool"},
		{"str", Str{}, "str"},
		{"bytes", Bytes{}, "bytes"},
		{"none", NoneType{}, "None"},
		{"unknown", Unknown{}, "Unknown"},
		{"list", List{Elem: Int{}}, "list[int]"},
		{"set", Set{Elem: Str{}}, "set[str]"},
		{"dict", Dict{Key: Str{}, Value: Int{}}, "dict[str, int]"},
		{"tuple", Tuple{Elems: []Type{Int{}, Str{}}}, "tuple[int, str]"},
		{"optional", Optional{Inner: Int{}}, "Optional[int]"},
		{"union", Union{Options: []Type{Int{}, NoneType{}}}, "Union[int, None]"},
		{"function", FunctionType{Params: []Type{Int{}, Int{}}, Ret: Bool{}}, "Callable[..., bool]"},
		{"generator", Generator{Yield: Int{}}, "Generator[int]"},
		{"custom", Custom{Name: "Widget"}, "Widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCopy(t *testing.T) {
	copyTypes := []Type{Int{}, Float{}, Bool{}, NoneType{}}
	for _, ty := range copyTypes {
		if !IsCopy(ty) {
			t.Errorf("IsCopy(%s) = false, want true", ty)
		}
	}

	nonCopyTypes := []Type{Str{}, Bytes{}, List{Elem: Int{}}, Custom{Name: "Widget"}}
	for _, ty := range nonCopyTypes {
		if IsCopy(ty) {
			t.Errorf("IsCopy(%s) = true, want false", ty)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Int{}, Int{}) {
		t.Error("Equal(Int{}, Int{}) = false, want true")
	}
	if !Equal(List{Elem: Str{}}, List{Elem: Str{}}) {
		t.Error("Equal(List[str], List[str]) = false, want true")
	}
	if Equal(Int{}, Str{}) {
		t.Error("Equal(Int{}, Str{}) = true, want false")
	}
	if Equal(List{Elem: Int{}}, List{Elem: Str{}}) {
		t.Error("Equal(List[int], List[str]) = true, want false")
	}
}

func TestBorrowModeString(t *testing.T) {
	tests := []struct {
		mode BorrowMode
		want string
	}{
		{Owned, "Owned"},
		{Borrowed, "Borrowed"},
		{MutableBorrow, "MutableBorrow"},
		{BorrowMode(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("BorrowMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestLiteralPositionAndInferredType(t *testing.T) {
	span := Span{Start: pyast.Pos{File: "m.py", Line: 3, Column: 1}, End: pyast.Pos{File: "m.py", Line: 3, Column: 2}}
	lit := &Literal{Kind: IntLit, Value: int64(7), Span: span}

	if lit.Position() != span {
		t.Errorf("Position() = %+v, want %+v", lit.Position(), span)
	}
	// No analysis has run yet: InferredType defaults to Unknown.
	if _, ok := lit.InferredType().(Unknown); !ok {
		t.Errorf("InferredType() = %v, want Unknown", lit.InferredType())
	}

	lit.Typ = Int{}
	if _, ok := lit.InferredType().(Int); !ok {
		t.Errorf("InferredType() after assignment = %v, want Int", lit.InferredType())
	}

	var _ Expr = lit
}

func TestVarPosition(t *testing.T) {
	span := Span{Start: pyast.Pos{File: "m.py", Line: 1, Column: 0}}
	v := &Var{Name: "x", Span: span}
	if v.Name != "x" {
		t.Errorf("Name = %q, want %q", v.Name, "x")
	}
	if v.Position() != span {
		t.Errorf("Position() = %+v, want %+v", v.Position(), span)
	}
	var _ Expr = v
}

func TestAssignTargetShapes(t *testing.T) {
	// A plain name target.
	plain := &AssignTarget{Name: "x"}
	if plain.Name != "x" || plain.Pattern != nil || plain.Attr != nil || plain.Index != nil {
		t.Errorf("plain target has unexpected shape: %+v", plain)
	}

	// A tuple-unpacking pattern target: x, y = ...
	pattern := &AssignTarget{Pattern: []*AssignTarget{{Name: "x"}, {Name: "y"}}}
	if len(pattern.Pattern) != 2 {
		t.Fatalf("pattern.Pattern length = %d, want 2", len(pattern.Pattern))
	}
	if pattern.Pattern[0].Name != "x" || pattern.Pattern[1].Name != "y" {
		t.Errorf("pattern elements = %+v", pattern.Pattern)
	}
}

func TestAssignStmt(t *testing.T) {
	span := Span{Start: pyast.Pos{File: "m.py", Line: 2, Column: 0}}
	assign := &Assign{
		Targets: []*AssignTarget{{Name: "x"}},
		Value:   &Literal{Kind: IntLit, Value: int64(1), Span: span},
		Span:    span,
	}
	if assign.Position() != span {
		t.Errorf("Position() = %+v, want %+v", assign.Position(), span)
	}
	if assign.HasAnnot {
		t.Error("HasAnnot should default to false")
	}
	var _ Stmt = assign
}

func TestModuleFunctionClassShape(t *testing.T) {
	fn := &Function{
		Name: "add",
		Params: []*Param{
			{Name: "a", Type: Int{}},
			{Name: "b", Type: Int{}},
		},
		ReturnType: Int{},
	}

	cls := &Class{
		Name:    "Point",
		Fields:  []*ClassField{{Name: "x", Type: Int{}}, {Name: "y", Type: Int{}}},
		Methods: []*Function{fn},
	}

	mod := &Module{
		Name:      "geometry",
		Functions: []*Function{fn},
		Classes:   []*Class{cls},
	}

	if len(mod.Functions) != 1 || mod.Functions[0].Name != "add" {
		t.Errorf("Module.Functions = %+v", mod.Functions)
	}
	if len(mod.Classes) != 1 || mod.Classes[0].Name != "Point" {
		t.Errorf("Module.Classes = %+v", mod.Classes)
	}
	if len(cls.Fields) != 2 {
		t.Errorf("Class.Fields length = %d, want 2", len(cls.Fields))
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" {
		t.Errorf("Function.Params = %+v", fn.Params)
	}
}
