package librarymap

// DefaultRegistry returns a Registry pre-populated with the §4.6/§6
// built-in stdlib rewrites. Plugin files loaded afterwards via
// LoadPluginFile only ever add to or override these at Verified-vs-lower
// confidence.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	must := func(m *LibraryMapping) {
		if err := r.Register(m); err != nil {
			panic(err) // built-in table is a programmer error if invalid
		}
	}

	must(&LibraryMapping{
		PythonModule:     "os.path",
		RustCrate:        "std",
		RustCrateVersion: "",
		Confidence:       Verified,
		Provenance:       "builtin",
		Items: map[string]ItemMapping{
			"join": {
				RustName: "std::path::Path::new",
				Pattern: TransformPattern{
					Kind:        TypedTemplate,
					TemplateStr: "std::path::Path::new({base}).join({name}).to_string_lossy().into_owned()",
					Params:      []string{"base", "name"},
					ParamTypes:  []string{"&str", "&str"},
				},
			},
			"splitext": {RustName: "depyler_rt::path::splitext", Pattern: TransformPattern{Kind: Direct}},
			"basename": {RustName: "file_name", Pattern: TransformPattern{Kind: PropertyToMethod}},
			"dirname":  {RustName: "parent", Pattern: TransformPattern{Kind: PropertyToMethod}},
			"exists":   {RustName: "exists", Pattern: TransformPattern{Kind: MethodCall}},
			"isfile":   {RustName: "is_file", Pattern: TransformPattern{Kind: MethodCall}},
			"isdir":    {RustName: "is_dir", Pattern: TransformPattern{Kind: MethodCall}},
			"split":    {RustName: "depyler_rt::path::split", Pattern: TransformPattern{Kind: Direct}},
		},
	})

	must(&LibraryMapping{
		PythonModule:     "subprocess",
		RustCrate:        "std",
		Confidence:       Verified,
		Provenance:       "builtin",
		Items: map[string]ItemMapping{
			// "run" is deliberately absent: it returns a CompletedProcess
			// struct, not a bare Constructor+method call, so
			// internal/codegen/expr.go's emitCall intercepts it directly
			// (stdlib.go's emitSubprocessRun) before this registry is
			// ever consulted.
			"Popen": {RustName: "std::process::Command::new", Pattern: TransformPattern{Kind: Constructor, Method: "spawn"}},
		},
	})

	must(&LibraryMapping{
		PythonModule:     "datetime",
		RustCrate:        "chrono",
		RustCrateVersion: "0.4",
		Features:         []string{},
		Confidence:       Verified,
		Provenance:       "builtin",
		Items: map[string]ItemMapping{
			"datetime": {
				RustName: "chrono::NaiveDate::from_ymd_opt",
				Pattern: TransformPattern{
					Kind:       TypedTemplate,
					TemplateStr: "chrono::NaiveDate::from_ymd_opt({y}, {m}, {d}).unwrap().and_hms_opt({h}, {mi}, {s}).unwrap()",
					Params:      []string{"y", "m", "d", "h", "mi", "s"},
					ParamTypes:  []string{"i32", "u32", "u32", "u32", "u32", "u32"},
				},
			},
		},
	})

	must(&LibraryMapping{
		PythonModule:     "re",
		RustCrate:        "regex",
		RustCrateVersion: "1",
		Confidence:       Community,
		Provenance:       "builtin",
		Items: map[string]ItemMapping{
			"match":   {RustName: "is_match", Pattern: TransformPattern{Kind: MethodCall}},
			"search":  {RustName: "find", Pattern: TransformPattern{Kind: MethodCall}},
			"findall": {RustName: "find_iter", Pattern: TransformPattern{Kind: MethodCall}},
			"sub":     {RustName: "replace_all", Pattern: TransformPattern{Kind: ReorderArgs, Indices: []int{1, 2, 0}}},
		},
	})

	must(&LibraryMapping{
		PythonModule:     "json",
		RustCrate:        "serde_json",
		RustCrateVersion: "1",
		Confidence:       Verified,
		Provenance:       "builtin",
		Items: map[string]ItemMapping{
			"dumps": {RustName: "serde_json::to_string", Pattern: TransformPattern{Kind: Direct}},
			"loads": {RustName: "serde_json::from_str", Pattern: TransformPattern{Kind: Direct}},
		},
	})

	return r
}
