package codegen

// scopeTracker is the §4.7 "scope tracker": a stack of declared-name sets
// threaded through statement emission so the first assignment to a name
// emits `let mut`, and later ones in the same scope emit a plain
// reassignment. Entering a nested block pushes; leaving pops.
type scopeTracker struct {
	frames []map[string]bool
	// varTypes records the inferred Rust type text for a declared name,
	// consulted by expression emission for coercion/method-dispatch
	// decisions (§4.7's "Type annotation tracking on assignment").
	varTypes map[string]string
}

func newScopeTracker() *scopeTracker {
	return &scopeTracker{
		frames:   []map[string]bool{{}},
		varTypes: map[string]string{},
	}
}

func (s *scopeTracker) push() {
	s.frames = append(s.frames, map[string]bool{})
}

func (s *scopeTracker) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// declared reports whether name was already declared in the current
// scope stack (any enclosing frame counts, matching Python/Rust block
// scoping where an inner block can still see an outer `let`).
func (s *scopeTracker) declared(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i][name] {
			return true
		}
	}
	return false
}

// declare records name as declared in the innermost frame and reports
// whether this is its first declaration in the whole visible stack (i.e.
// whether emission should use `let mut` rather than a plain assignment).
func (s *scopeTracker) declare(name string) (firstDeclaration bool) {
	if s.declared(name) {
		s.frames[len(s.frames)-1][name] = true
		return false
	}
	s.frames[len(s.frames)-1][name] = true
	return true
}

func (s *scopeTracker) setType(name, rustType string) {
	s.varTypes[name] = rustType
}

func (s *scopeTracker) typeOf(name string) (string, bool) {
	t, ok := s.varTypes[name]
	return t, ok
}
