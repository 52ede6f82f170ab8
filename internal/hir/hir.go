// Package hir defines the language-agnostic high-level intermediate
// representation that sits between the Python frontend (pyast) and the
// Rust backend (rustty/codegen). HIR nodes are plain value trees: no node
// holds a pointer back to its parent or enclosing module; cross-references
// (e.g. a class's containing module) are carried in name-keyed environment
// maps by the analyses that need them, not as tree edges.
package hir

import "github.com/depyler-dev/depyler/internal/pyast"

// Span locates a HIR node in the original Python source. Every lowered
// node carries one so diagnostics from any later phase can point back at
// the source that produced it.
type Span = pyast.Span

// Module is the root of a lowered translation unit.
type Module struct {
	Name      string
	Imports   []*Import
	Functions []*Function
	Classes   []*Class
	Span      Span
}

// Import is a flattened `import`/`from ... import ...` statement.
type Import struct {
	Module  string
	Names   []string // empty => whole-module import
	Aliases map[string]string
	IsFrom  bool
	Span    Span
}

// Param is a single function parameter.
type Param struct {
	Name       string
	Type       Type
	Default    Expr // nil if required
	Annotated  bool // true if the source carried an explicit type annotation
}

// Function is a lowered `def`. Its Annotations are set by internal/lower
// (and merged with pipeline defaults); its Props and Borrowing are filled
// in by internal/analysis before codegen may read them.
type Function struct {
	Name         string
	Params       []*Param
	ReturnType   Type
	Body         []Stmt
	Docstring    string
	IsGenerator  bool // body contains a `yield`
	IsAsync      bool
	IsMethod     bool // first param is an implicit `self`
	Annotations  TranspilationAnnotations
	Props        FunctionProperties
	Borrowing    map[string]BorrowMode // keyed by Param.Name, filled by internal/analysis
	Span         Span
}

// Class is a lowered `class`. Fields are populated by internal/lower from
// the `self.<name> = ...` assignments it finds in __init__.
type Class struct {
	Name      string
	Bases     []string
	Fields    []*ClassField
	Methods   []*Function
	Docstring string
	Span      Span
}

type ClassField struct {
	Name string
	Type Type
}

// BorrowMode is the §4.4 borrowing-inference decision for one parameter.
type BorrowMode int

const (
	Owned BorrowMode = iota
	Borrowed
	MutableBorrow
)

func (m BorrowMode) String() string {
	switch m {
	case Owned:
		return "Owned"
	case Borrowed:
		return "Borrowed"
	case MutableBorrow:
		return "MutableBorrow"
	default:
		return "Unknown"
	}
}
