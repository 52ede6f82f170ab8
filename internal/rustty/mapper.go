package rustty

import "github.com/depyler-dev/depyler/internal/hir"

// MapType lowers a hir.Type to its Rust equivalent for a value in
// position mode (parameter/local), honoring the §4.5 annotation-aware
// decisions.
func MapType(t hir.Type, ann hir.TranspilationAnnotations, mode hir.BorrowMode) Type {
	base := mapBase(t, ann)
	switch mode {
	case hir.Borrowed:
		return Reference{Lifetime: "a", Inner: base}
	case hir.MutableBorrow:
		return Reference{Lifetime: "a", Mutable: true, Inner: base}
	default:
		return base
	}
}

// MapReturnType lowers a hir.Type appearing in return position, applying
// the ResultType error-strategy wrapping that only ever applies there.
// errType is the Rust error struct name to wrap with when applicable; pass
// "" when the function's error_types set is empty.
func MapReturnType(t hir.Type, ann hir.TranspilationAnnotations, errType string) Type {
	if _, isNone := t.(hir.NoneType); isNone && ann.ErrorStrategy == hir.ResultType && errType != "" {
		return ResultT{Ok: Unit, Err: Custom{Name: errType}}
	}
	if opt, ok := t.(hir.Optional); ok && ann.ErrorStrategy == hir.ResultType && errType != "" {
		return ResultT{Ok: mapBase(opt.Inner, ann), Err: Custom{Name: errType}}
	}
	return mapBase(t, ann)
}

func mapBase(t hir.Type, ann hir.TranspilationAnnotations) Type {
	switch v := t.(type) {
	case hir.Int:
		return I32
	case hir.Float:
		return F64
	case hir.Bool:
		return Bool
	case hir.Str:
		return mapString(ann)
	case hir.Bytes:
		return Vec{Elem: Primitive{"u8"}}
	case hir.NoneType:
		return Unit
	case hir.Unknown:
		return Custom{Name: "Unknown"}
	case hir.List:
		return mapCollectionOwnership(Vec{Elem: mapBase(v.Elem, ann)}, ann)
	case hir.Set:
		return mapCollectionOwnership(HashSet{Elem: mapBase(v.Elem, ann)}, ann)
	case hir.Dict:
		kind := mapHashStrategy(ann.HashStrategy)
		m := Map{Kind: kind, Key: mapBase(v.Key, ann), Value: mapBase(v.Value, ann)}
		return mapCollectionOwnership(m, ann)
	case hir.Tuple:
		elems := make([]Type, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = mapBase(e, ann)
		}
		return TupleT{Elems: elems}
	case hir.Optional:
		return OptionT{Inner: mapBase(v.Inner, ann)}
	case hir.Union:
		// Structural unions are out of scope for this lattice; fall back
		// to the first option. ExtractType keeps `Union[T, None]` as a
		// Union, so it maps to T here, not to Option<T>.
		if len(v.Options) > 0 {
			return mapBase(v.Options[0], ann)
		}
		return Custom{Name: "()"}
	case hir.FunctionType:
		return Custom{Name: "Box<dyn Fn(...)>"}
	case hir.Generator:
		return Custom{Name: "impl Iterator<Item = " + mapBase(v.Yield, ann).String() + ">"}
	case hir.Custom:
		return Custom{Name: v.Name}
	default:
		return Custom{Name: "Unknown"}
	}
}

func mapString(ann hir.TranspilationAnnotations) Type {
	switch {
	case ann.StringStrategy == hir.AlwaysOwned:
		return StringT{}
	case ann.StringStrategy == hir.ZeroCopy && ann.Ownership == hir.ModelBorrowed:
		return Str{Lifetime: "a"}
	default:
		return StringT{}
	}
}

func mapHashStrategy(h hir.HashStrategy) MapKind {
	switch h {
	case hir.Fnv:
		return FnvHashMap
	case hir.AHash:
		return AHashMap
	default:
		return HashMap
	}
}

// mapCollectionOwnership applies the §4.5 ownership wrapping for List/Dict
// ("Owned → Vec<T'>; Borrowed → &'a Vec<T'>; Shared with thread_safety
// Required → Arc<...>, else Rc<...>").
func mapCollectionOwnership(base Type, ann hir.TranspilationAnnotations) Type {
	switch ann.Ownership {
	case hir.ModelBorrowed:
		return Reference{Lifetime: "a", Inner: base}
	case hir.ModelShared:
		if ann.ThreadSafety == hir.Required {
			return Custom{Name: "Arc<" + base.String() + ">"}
		}
		return Custom{Name: "Rc<" + base.String() + ">"}
	default:
		return base
	}
}
