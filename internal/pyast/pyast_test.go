package pyast

import "testing"

func TestPosString(t *testing.T) {
	p := Pos{File: "mod.py", Line: 4, Column: 9}
	if got, want := p.String(), "mod.py:4:9"; got != want {
		t.Errorf("Pos.String() = %q, want %q", got, want)
	}
}

func TestFilePosition(t *testing.T) {
	f := &File{Name: "mod", Pos: Pos{File: "mod.py", Line: 1, Column: 0}}
	if f.Position() != f.Pos {
		t.Errorf("File.Position() = %+v, want %+v", f.Position(), f.Pos)
	}
	var _ Node = f
}

func TestLiteralExprNode(t *testing.T) {
	lit := &Literal{Kind: IntLit, Value: int64(42), Pos: Pos{Line: 1}}
	if lit.Kind != IntLit {
		t.Errorf("Kind = %v, want IntLit", lit.Kind)
	}
	if lit.Value != int64(42) {
		t.Errorf("Value = %v, want 42", lit.Value)
	}
	var _ Expr = lit
}

func TestNameExprNode(t *testing.T) {
	n := &Name{Id: "x", Pos: Pos{Line: 2, Column: 4}}
	if n.Position().Column != 4 {
		t.Errorf("Position().Column = %d, want 4", n.Position().Column)
	}
	var _ Expr = n
}

func TestBinOpShape(t *testing.T) {
	left := &Name{Id: "a"}
	right := &Name{Id: "b"}
	op := &BinOp{Op: "+", Left: left, Right: right, Pos: Pos{Line: 3}}

	if op.Op != "+" {
		t.Errorf("Op = %q, want %q", op.Op, "+")
	}
	if op.Left != Expr(left) || op.Right != Expr(right) {
		t.Error("BinOp did not retain its operand identities")
	}
	var _ Expr = op
}

func TestFuncDefShape(t *testing.T) {
	fn := &FuncDef{
		Name: "add",
		Params: []*Param{
			{Name: "a"},
			{Name: "b"},
		},
		Body: []Stmt{&Return{Value: &Name{Id: "a"}}},
		Pos:  Pos{Line: 1},
	}

	if len(fn.Params) != 2 {
		t.Fatalf("len(Params) = %d, want 2", len(fn.Params))
	}
	if fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Errorf("Params = %+v", fn.Params)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*Return); !ok {
		t.Errorf("Body[0] = %T, want *Return", fn.Body[0])
	}
	var _ Stmt = fn
}

func TestClassDefShape(t *testing.T) {
	cls := &ClassDef{
		Name:  "Point",
		Bases: []Expr{&Name{Id: "object"}},
		Body:  []Stmt{},
		Pos:   Pos{Line: 1},
	}
	if cls.Name != "Point" {
		t.Errorf("Name = %q, want %q", cls.Name, "Point")
	}
	if len(cls.Bases) != 1 {
		t.Errorf("len(Bases) = %d, want 1", len(cls.Bases))
	}
	var _ Stmt = cls
}

func TestImportShape(t *testing.T) {
	wholeModule := &Import{Module: "os", Pos: Pos{Line: 1}}
	if len(wholeModule.Names) != 0 {
		t.Errorf("whole-module import should have empty Names, got %v", wholeModule.Names)
	}

	fromImport := &Import{
		Module: "os.path",
		Names:  []string{"join", "exists"},
		IsFrom: true,
		Pos:    Pos{Line: 2},
	}
	if !fromImport.IsFrom {
		t.Error("expected IsFrom = true")
	}
	if len(fromImport.Names) != 2 {
		t.Errorf("len(Names) = %d, want 2", len(fromImport.Names))
	}
	var _ Stmt = fromImport
}

func TestAssignTargetsAndAnnotation(t *testing.T) {
	// x: int = 5
	ann := &Assign{
		Targets:    []Expr{&Name{Id: "x"}},
		Value:      &Literal{Kind: IntLit, Value: int64(5)},
		Annotation: &Name{Id: "int"},
		Pos:        Pos{Line: 1},
	}
	if ann.Annotation == nil {
		t.Error("expected non-nil Annotation")
	}

	// a = b = expr
	chained := &Assign{
		Targets: []Expr{&Name{Id: "a"}, &Name{Id: "b"}},
		Value:   &Literal{Kind: IntLit, Value: int64(1)},
		Pos:     Pos{Line: 2},
	}
	if len(chained.Targets) != 2 {
		t.Errorf("len(Targets) = %d, want 2", len(chained.Targets))
	}
	var _ Stmt = ann
}

func TestTryHandlersShape(t *testing.T) {
	try := &Try{
		Body: []Stmt{&Pass{}},
		Handlers: []*ExceptHandler{
			{Type: &Name{Id: "ValueError"}, Name: "e", Body: []Stmt{&Pass{}}},
		},
		Finally: []Stmt{&Pass{}},
		Pos:     Pos{Line: 1},
	}
	if len(try.Handlers) != 1 {
		t.Fatalf("len(Handlers) = %d, want 1", len(try.Handlers))
	}
	if try.Handlers[0].Name != "e" {
		t.Errorf("Handlers[0].Name = %q, want %q", try.Handlers[0].Name, "e")
	}
	if len(try.Finally) != 1 {
		t.Errorf("len(Finally) = %d, want 1", len(try.Finally))
	}
	var _ Stmt = try
}
