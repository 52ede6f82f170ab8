// Package rustty is the Rust-side type lattice (§3.3) and the
// annotation-aware mapper (§4.5) that lowers a hir.Type plus its enclosing
// hir.TranspilationAnnotations into one.
package rustty

import "strings"

// Type is a Rust type, rendered to source text by String.
type Type interface {
	String() string
}

// Primitive is a leaf scalar: i32, i64, f64, bool, usize, ...
type Primitive struct{ Name string }

func (p Primitive) String() string { return p.Name }

var (
	I32   = Primitive{"i32"}
	I64   = Primitive{"i64"}
	F64   = Primitive{"f64"}
	Bool  = Primitive{"bool"}
	Usize = Primitive{"usize"}
	Unit  = UnitType{}
)

// Str is a borrowed string slice, `&'a str` or `&str`.
type Str struct{ Lifetime string }

func (s Str) String() string {
	if s.Lifetime == "" {
		return "&str"
	}
	return "&'" + s.Lifetime + " str"
}

// StringT is an owned `String`.
type StringT struct{}

func (StringT) String() string { return "String" }

type Vec struct{ Elem Type }

func (v Vec) String() string { return "Vec<" + v.Elem.String() + ">" }

// MapKind selects the Rust map implementation chosen by hash_strategy.
type MapKind int

const (
	HashMap MapKind = iota
	FnvHashMap
	AHashMap
	BTreeMapKind
)

type Map struct {
	Kind  MapKind
	Key   Type
	Value Type
}

func (m Map) String() string {
	name := "HashMap"
	switch m.Kind {
	case FnvHashMap:
		name = "FnvHashMap"
	case AHashMap:
		name = "AHashMap"
	case BTreeMapKind:
		name = "BTreeMap"
	}
	return name + "<" + m.Key.String() + ", " + m.Value.String() + ">"
}

type HashSet struct{ Elem Type }

func (h HashSet) String() string { return "HashSet<" + h.Elem.String() + ">" }

type VecDeque struct{ Elem Type }

func (v VecDeque) String() string { return "VecDeque<" + v.Elem.String() + ">" }

type OptionT struct{ Inner Type }

func (o OptionT) String() string { return "Option<" + o.Inner.String() + ">" }

type ResultT struct{ Ok, Err Type }

func (r ResultT) String() string { return "Result<" + r.Ok.String() + ", " + r.Err.String() + ">" }

type TupleT struct{ Elems []Type }

func (t TupleT) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type UnitType struct{}

func (UnitType) String() string { return "()" }

// Reference is `&T` or `&mut T`, optionally lifetime-annotated.
type Reference struct {
	Lifetime string
	Mutable  bool
	Inner    Type
}

func (r Reference) String() string {
	s := "&"
	if r.Lifetime != "" {
		s += "'" + r.Lifetime + " "
	}
	if r.Mutable {
		s += "mut "
	}
	return s + r.Inner.String()
}

type Cow struct {
	Lifetime string
	Inner    Type
}

func (c Cow) String() string {
	lt := c.Lifetime
	if lt == "" {
		lt = "a"
	}
	return "Cow<'" + lt + ", " + c.Inner.String() + ">"
}

// Custom is anything outside the lattice: `Arc<Vec<i32>>`, a user class,
// a synthesised error struct name.
type Custom struct{ Name string }

func (c Custom) String() string { return c.Name }

// IsCopy mirrors hir.IsCopy for the Rust-side lattice, used by codegen's
// var_types tracking and by coercion decisions.
func IsCopy(t Type) bool {
	switch v := t.(type) {
	case Primitive:
		return true
	case UnitType:
		return true
	case TupleT:
		for _, e := range v.Elems {
			if !IsCopy(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
