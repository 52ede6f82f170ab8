package lower

import (
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/pyast"
)

// ExtractType maps a Python type-annotation expression to a hir.Type
// (§4.2). Missing annotations (expr == nil) lower to hir.Unknown.
func ExtractType(expr pyast.Expr) hir.Type {
	if expr == nil {
		return hir.Unknown{}
	}
	switch e := expr.(type) {
	case *pyast.Name:
		return namedType(e.Id)
	case *pyast.Literal:
		if e.Kind == pyast.NoneLit {
			return hir.NoneType{}
		}
	case *pyast.Attribute:
		// e.g. `typing.Optional` spelled out fully; fall back to its
		// trailing attribute name so `typing.Dict[...]` still resolves.
		return namedType(e.Attr)
	case *pyast.Subscript:
		return extractSubscript(e)
	case *pyast.Index:
		return extractIndexType(e)
	}
	return hir.Custom{Name: "Unknown"}
}

func namedType(name string) hir.Type {
	switch name {
	case "int":
		return hir.Int{}
	case "float":
		return hir.Float{}
	case "bool":
		return hir.Bool{}
	case "str":
		return hir.Str{}
	case "bytes":
		return hir.Bytes{}
	case "None":
		return hir.NoneType{}
	case "list", "List":
		return hir.List{Elem: hir.Unknown{}}
	case "dict", "Dict":
		return hir.Dict{Key: hir.Unknown{}, Value: hir.Unknown{}}
	case "set", "Set":
		return hir.Set{Elem: hir.Unknown{}}
	case "tuple", "Tuple":
		return hir.Tuple{}
	case "Optional":
		return hir.Optional{Inner: hir.Unknown{}}
	case "Union":
		return hir.Union{}
	case "Callable":
		return hir.FunctionType{}
	default:
		return hir.Custom{Name: name}
	}
}

func extractSubscript(e *pyast.Subscript) hir.Type {
	base := baseName(e.Value)
	args := flattenSliceArgs(e.Slice)
	return buildParameterized(base, args)
}

func extractIndexType(e *pyast.Index) hir.Type {
	base := baseName(e.Value)
	args := flattenSliceArgs(e.Index)
	return buildParameterized(base, args)
}

func baseName(e pyast.Expr) string {
	switch v := e.(type) {
	case *pyast.Name:
		return v.Id
	case *pyast.Attribute:
		return v.Attr
	default:
		return ""
	}
}

func flattenSliceArgs(e pyast.Expr) []pyast.Expr {
	if t, ok := e.(*pyast.TupleExpr); ok {
		return t.Elts
	}
	return []pyast.Expr{e}
}

func buildParameterized(base string, args []pyast.Expr) hir.Type {
	switch base {
	case "list", "List":
		if len(args) == 1 {
			return hir.List{Elem: ExtractType(args[0])}
		}
		return hir.List{Elem: hir.Unknown{}}
	case "set", "Set":
		if len(args) == 1 {
			return hir.Set{Elem: ExtractType(args[0])}
		}
		return hir.Set{Elem: hir.Unknown{}}
	case "dict", "Dict":
		if len(args) == 2 {
			return hir.Dict{Key: ExtractType(args[0]), Value: ExtractType(args[1])}
		}
		return hir.Dict{Key: hir.Unknown{}, Value: hir.Unknown{}}
	case "tuple", "Tuple":
		elems := make([]hir.Type, len(args))
		for i, a := range args {
			elems[i] = ExtractType(a)
		}
		return hir.Tuple{Elems: elems}
	case "Optional":
		if len(args) == 1 {
			return hir.Optional{Inner: ExtractType(args[0])}
		}
		return hir.Optional{Inner: hir.Unknown{}}
	case "Union":
		opts := make([]hir.Type, len(args))
		for i, a := range args {
			opts[i] = ExtractType(a)
		}
		return hir.Union{Options: opts}
	case "Callable":
		if len(args) == 2 {
			var params []hir.Type
			if lst, ok := args[0].(*pyast.ListExpr); ok {
				for _, p := range lst.Elts {
					params = append(params, ExtractType(p))
				}
			}
			return hir.FunctionType{Params: params, Ret: ExtractType(args[1])}
		}
		return hir.FunctionType{}
	default:
		return hir.Custom{Name: base}
	}
}
