package lower

import (
	"strings"

	"github.com/depyler-dev/depyler/internal/hir"
)

// ParseAnnotations extracts the §6.3 docstring `key: value` prologue into
// TranspilationAnnotations. Unknown keys/values are reported through warn
// (may be nil) and otherwise ignored, leaving the documented defaults in
// place for that field.
func ParseAnnotations(docstring string, warn func(string)) hir.TranspilationAnnotations {
	a := hir.DefaultAnnotations()
	if warn == nil {
		warn = func(string) {}
	}
	for _, line := range strings.Split(docstring, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "string_strategy":
			if v, ok := parseStringStrategy(val); ok {
				a.StringStrategy = v
			} else {
				warn("unknown string_strategy: " + val)
			}
		case "ownership":
			if v, ok := parseOwnership(val); ok {
				a.Ownership = v
			} else {
				warn("unknown ownership: " + val)
			}
		case "thread_safety":
			if v, ok := parseThreadSafety(val); ok {
				a.ThreadSafety = v
			} else {
				warn("unknown thread_safety: " + val)
			}
		case "hash_strategy":
			if v, ok := parseHashStrategy(val); ok {
				a.HashStrategy = v
			} else {
				warn("unknown hash_strategy: " + val)
			}
		case "error_strategy":
			if v, ok := parseErrorStrategy(val); ok {
				a.ErrorStrategy = v
			} else {
				warn("unknown error_strategy: " + val)
			}
		default:
			warn("unrecognised annotation key: " + key)
		}
	}
	return a
}

func parseStringStrategy(v string) (hir.StringStrategy, bool) {
	switch v {
	case "AlwaysOwned":
		return hir.AlwaysOwned, true
	case "ZeroCopy":
		return hir.ZeroCopy, true
	case "Conservative":
		return hir.Conservative, true
	}
	return hir.Conservative, false
}

func parseOwnership(v string) (hir.OwnershipModel, bool) {
	switch v {
	case "Owned":
		return hir.ModelOwned, true
	case "Borrowed":
		return hir.ModelBorrowed, true
	case "Shared":
		return hir.ModelShared, true
	}
	return hir.ModelOwned, false
}

func parseThreadSafety(v string) (hir.ThreadSafety, bool) {
	switch v {
	case "NotRequired":
		return hir.NotRequired, true
	case "Required":
		return hir.Required, true
	}
	return hir.NotRequired, false
}

func parseHashStrategy(v string) (hir.HashStrategy, bool) {
	switch v {
	case "Standard":
		return hir.Standard, true
	case "Fnv":
		return hir.Fnv, true
	case "AHash":
		return hir.AHash, true
	}
	return hir.Standard, false
}

func parseErrorStrategy(v string) (hir.ErrorStrategy, bool) {
	switch v {
	case "PanicOnError":
		return hir.PanicOnError, true
	case "ResultType":
		return hir.ResultType, true
	}
	return hir.PanicOnError, false
}
