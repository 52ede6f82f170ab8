package librarymap

import "sort"

// Registry holds every loaded LibraryMapping, keyed by Python module name.
// Defaults are installed by DefaultRegistry; plugins loaded afterwards via
// LoadPluginFile may add new modules or additional items to a module
// already present, with Confidence breaking ties per item.
type Registry struct {
	mappings map[string]*LibraryMapping
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mappings: map[string]*LibraryMapping{}}
}

// Register adds or merges m into the registry. When m.PythonModule already
// exists, items are merged key-by-key; on a collision the higher-
// Confidence mapping's ItemMapping wins (Verified > Community >
// Experimental), matching §4.9's "Confidence affects selection".
func (r *Registry) Register(m *LibraryMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	existing, ok := r.mappings[m.PythonModule]
	if !ok {
		r.mappings[m.PythonModule] = m
		return nil
	}
	for name, item := range m.Items {
		cur, has := existing.Items[name]
		if !has || m.Confidence > existing.itemConfidence(name, cur) {
			existing.Items[name] = item
		}
	}
	return nil
}

// itemConfidence resolves the confidence of one already-registered item;
// mappings track a single module-wide Confidence, so this simply returns
// the owning mapping's level. Kept as a method so a future per-item
// confidence override has one place to plug in.
func (m *LibraryMapping) itemConfidence(name string, _ ItemMapping) Confidence {
	_ = name
	return m.Confidence
}

// Lookup finds the ItemMapping for pythonModule.item, if any.
func (r *Registry) Lookup(pythonModule, item string) (ItemMapping, bool) {
	m, ok := r.mappings[pythonModule]
	if !ok {
		return ItemMapping{}, false
	}
	im, ok := m.Items[item]
	return im, ok
}

// Module returns the full LibraryMapping for a Python module, if loaded.
func (r *Registry) Module(pythonModule string) (*LibraryMapping, bool) {
	m, ok := r.mappings[pythonModule]
	return m, ok
}

// Modules returns every registered Python module name, sorted.
func (r *Registry) Modules() []string {
	out := make([]string, 0, len(r.mappings))
	for k := range r.mappings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
