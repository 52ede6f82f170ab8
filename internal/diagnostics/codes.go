package diagnostics

// Stable diagnostic codes referenced directly by spec and tests. Most
// codes are assigned ad hoc at the call site; these are the ones whose
// exact number is load-bearing (referenced by rule name elsewhere in the
// pipeline or by golden-file tests).
const (
	// CodeForElseUnsupported flags `for ... else` / `while ... else`,
	// rejected per §4.1 as a deliberate non-goal.
	CodeForElseUnsupported = "DEPYLER-0201"

	// CodeUnsupportedConstruct covers `yield from`, class-pattern
	// `match`, `exec`, `eval`.
	CodeUnsupportedConstruct = "DEPYLER-0210"

	// CodeGeneratorNaming is exercised by the snake_case→PascalCase
	// state-struct naming round-trip invariant (§8.1 item 10, scenario S5).
	CodeGeneratorNaming = "DEPYLER-0259"

	// CodeCaughtNotPropagated is the §4.8 caught-but-not-propagated rule:
	// an exception caught locally still gets a Rust struct, but the
	// enclosing function's return type is not wrapped in Result.
	CodeCaughtNotPropagated = "DEPYLER-0327"

	// CodeCaughtStillEmitsErr tracks the open question resolved in
	// DESIGN.md: whether the try body still emits Err(...) even when the
	// exception is locally caught.
	CodeCaughtStillEmitsErr = "DEPYLER-0333"

	// CodeLibraryMappingInvalid flags malformed ReorderArgs permutations
	// or TypedTemplate placeholder mismatches (§4.9 Validation).
	CodeLibraryMappingInvalid = "DEPYLER-0410"

	// CodeMultiStateGeneratorUnsupported flags a generator whose `yield`
	// does not dominate the end of every loop body it's nested in (§4.10's
	// resolved Multi-state generators open question): the function still
	// transpiles, but as an eagerly-collected Vec<T> return rather than
	// the single-state struct/Iterator of the common case.
	CodeMultiStateGeneratorUnsupported = "DEPYLER-0420"
)
