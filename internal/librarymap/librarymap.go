// Package librarymap implements the §4.9 declarative registry mapping
// Python module items to Rust replacements, loadable from TOML plugins.
package librarymap

import "fmt"

// Confidence ranks competing mappings for the same item; Verified wins
// when more than one LibraryMapping claims the same (module, item) pair.
type Confidence int

const (
	Experimental Confidence = iota
	Community
	Verified
)

func (c Confidence) String() string {
	switch c {
	case Verified:
		return "Verified"
	case Community:
		return "Community"
	default:
		return "Experimental"
	}
}

func parseConfidence(s string) Confidence {
	switch s {
	case "Verified":
		return Verified
	case "Community":
		return Community
	default:
		return Experimental
	}
}

// PatternKind enumerates the §4.9 TransformPattern variants.
type PatternKind int

const (
	Direct PatternKind = iota
	MethodCall
	PropertyToMethod
	Constructor
	ReorderArgs
	TypedTemplate
	Template // deprecated
)

// TransformPattern is how a mapped call's arguments are reshaped before
// emission.
type TransformPattern struct {
	Kind PatternKind

	// MethodCall
	ExtraArgs []string

	// Constructor
	Method string

	// ReorderArgs: indices must form a permutation of 0..n (validated by
	// Validate).
	Indices []int

	// TypedTemplate / Template
	TemplateStr string
	Params      []string
	ParamTypes  []string
}

// ItemMapping is one Python attribute/function's Rust replacement.
type ItemMapping struct {
	RustName      string
	Pattern       TransformPattern
	TypeTransform string // optional; "" when the type is unchanged
}

// LibraryMapping is one Python module's complete replacement mapping.
type LibraryMapping struct {
	PythonModule     string
	RustCrate        string
	PythonVersionReq string
	RustCrateVersion string
	Items            map[string]ItemMapping
	Features         []string
	Confidence       Confidence
	Provenance       string
}

// Validate checks the §4.9 structural invariants: ReorderArgs indices
// form a permutation of 0..n, and TypedTemplate placeholders each appear
// exactly once in Params.
func (m *LibraryMapping) Validate() error {
	for name, item := range m.Items {
		switch item.Pattern.Kind {
		case ReorderArgs:
			if err := validatePermutation(item.Pattern.Indices); err != nil {
				return fmt.Errorf("%s.%s: %w", m.PythonModule, name, err)
			}
		case TypedTemplate:
			if err := validatePlaceholders(item.Pattern.TemplateStr, item.Pattern.Params); err != nil {
				return fmt.Errorf("%s.%s: %w", m.PythonModule, name, err)
			}
		}
	}
	return nil
}

func validatePermutation(indices []int) error {
	n := len(indices)
	seen := make([]bool, n)
	for _, idx := range indices {
		if idx < 0 || idx >= n || seen[idx] {
			return fmt.Errorf("ReorderArgs indices %v are not a permutation of 0..%d", indices, n)
		}
		seen[idx] = true
	}
	return nil
}

func validatePlaceholders(template string, params []string) error {
	for _, p := range params {
		needle := "{" + p + "}"
		count := 0
		for i := 0; i+len(needle) <= len(template); i++ {
			if template[i:i+len(needle)] == needle {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("placeholder %s must appear exactly once in template, found %d", needle, count)
		}
	}
	return nil
}
