package analysis

import "github.com/depyler-dev/depyler/internal/hir"

// InferBorrowing fills in fn.Borrowing for every parameter using the
// §4.4 first-match-wins rule order. Must run after AnalyzeProperties has
// populated fn.Props (escapes_params / mutates_params).
func InferBorrowing(fn *hir.Function) {
	if fn.Borrowing == nil {
		fn.Borrowing = map[string]hir.BorrowMode{}
	}
	for _, p := range fn.Params {
		fn.Borrowing[p.Name] = decideBorrow(fn, p)
	}
}

func decideBorrow(fn *hir.Function, p *hir.Param) hir.BorrowMode {
	switch {
	case fn.Props.EscapesParams[p.Name]:
		return hir.Owned
	case fn.Props.MutatesParams[p.Name]:
		return hir.MutableBorrow
	case hir.IsCopy(underlyingForCopy(p.Type)):
		return hir.Owned
	default:
		return hir.Borrowed
	}
}

// underlyingForCopy unwraps Optional so `Optional[int]` still resolves to
// the Copy-type shortcut the inner type would take, per §4.4's note that
// Optional-wrapped borrowed params follow the inner decision.
func underlyingForCopy(t hir.Type) hir.Type {
	if opt, ok := t.(hir.Optional); ok {
		return underlyingForCopy(opt.Inner)
	}
	return t
}
