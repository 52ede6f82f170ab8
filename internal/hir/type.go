package hir

import "fmt"

// Type is the Python-side type lattice (§3.1). Unknown is bottom: analyses
// may refine it, but codegen must lower every node to a concrete Rust
// type (internal/rustty.Type) before emission.
type Type interface {
	hirType()
	String() string
}

type Int struct{}

func (Int) hirType()      {}
func (Int) String() string { return "int" }

type Float struct{}

func (Float) hirType()      {}
func (Float) String() string { return "float" }

type Bool struct{}

func (Bool) hirType()      {}
func (Bool) String() string { return "bool" }

type Str struct{}

func (Str) hirType()      {}
func (Str) String() string { return "str" }

type Bytes struct{}

func (Bytes) hirType()      {}
func (Bytes) String() string { return "bytes" }

type NoneType struct{}

func (NoneType) hirType()      {}
func (NoneType) String() string { return "None" }

// Unknown is the bottom element of the lattice: no annotation, no
// inference yet.
type Unknown struct{}

func (Unknown) hirType()      {}
func (Unknown) String() string { return "Unknown" }

type List struct{ Elem Type }

func (List) hirType()        {}
func (l List) String() string { return fmt.Sprintf("list[%s]", l.Elem) }

type Set struct{ Elem Type }

func (Set) hirType()        {}
func (s Set) String() string { return fmt.Sprintf("set[%s]", s.Elem) }

type Dict struct{ Key, Value Type }

func (Dict) hirType()        {}
func (d Dict) String() string { return fmt.Sprintf("dict[%s, %s]", d.Key, d.Value) }

type Tuple struct{ Elems []Type }

func (Tuple) hirType() {}
func (t Tuple) String() string {
	s := "tuple["
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

type Optional struct{ Inner Type }

func (Optional) hirType()        {}
func (o Optional) String() string { return fmt.Sprintf("Optional[%s]", o.Inner) }

type Union struct{ Options []Type }

func (Union) hirType() {}
func (u Union) String() string {
	s := "Union["
	for i, o := range u.Options {
		if i > 0 {
			s += ", "
		}
		s += o.String()
	}
	return s + "]"
}

type FunctionType struct {
	Params []Type
	Ret    Type
}

func (FunctionType) hirType()        {}
func (f FunctionType) String() string { return fmt.Sprintf("Callable[..., %s]", f.Ret) }

type Generator struct{ Yield Type }

func (Generator) hirType()        {}
func (g Generator) String() string { return fmt.Sprintf("Generator[%s]", g.Yield) }

// Custom is any named type this lattice does not model directly: a
// user-defined class, or an identifier lowering couldn't resolve.
type Custom struct{ Name string }

func (Custom) hirType()        {}
func (c Custom) String() string { return c.Name }

// IsCopy reports whether t maps to a Rust `Copy` type, used by §4.4 rule 3
// of the borrowing inference order.
func IsCopy(t Type) bool {
	switch t.(type) {
	case Int, Float, Bool, NoneType:
		return true
	default:
		return false
	}
}

// Equal performs a structural comparison of two Type values.
func Equal(a, b Type) bool {
	return a.String() == b.String()
}
