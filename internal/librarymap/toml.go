package librarymap

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// tomlFile mirrors the on-disk plugin shape: one LibraryMapping per
// `[[mapping]]` table.
type tomlFile struct {
	Mapping []tomlMapping `toml:"mapping"`
}

type tomlMapping struct {
	PythonModule     string               `toml:"python_module"`
	RustCrate        string               `toml:"rust_crate"`
	PythonVersionReq string               `toml:"python_version_req"`
	RustCrateVersion string               `toml:"rust_crate_version"`
	Features         []string             `toml:"features"`
	Confidence       string               `toml:"confidence"`
	Provenance       string               `toml:"provenance"`
	Items            map[string]tomlItem  `toml:"items"`
}

type tomlItem struct {
	RustName      string   `toml:"rust_name"`
	Pattern       string   `toml:"pattern"` // "direct" | "method_call" | "property_to_method" | "constructor" | "reorder_args" | "typed_template" | "template"
	ExtraArgs     []string `toml:"extra_args"`
	Method        string   `toml:"method"`
	Indices       []int    `toml:"indices"`
	Template      string   `toml:"template"`
	Params        []string `toml:"params"`
	ParamTypes    []string `toml:"param_types"`
	TypeTransform string   `toml:"type_transform"`
}

// LoadPluginFile parses a TOML plugin file (§6.2's `library_plugins`
// config entry) and registers every mapping it defines.
func LoadPluginFile(r *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading library plugin %s: %w", path, err)
	}
	return LoadPluginBytes(r, data)
}

// LoadPluginBytes parses raw TOML plugin content, useful for tests and for
// plugins embedded at build time.
func LoadPluginBytes(r *Registry, data []byte) error {
	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing library plugin: %w", err)
	}
	for _, tm := range f.Mapping {
		m, err := tm.toLibraryMapping()
		if err != nil {
			return err
		}
		if err := r.Register(m); err != nil {
			return err
		}
	}
	return nil
}

func (tm tomlMapping) toLibraryMapping() (*LibraryMapping, error) {
	items := make(map[string]ItemMapping, len(tm.Items))
	for name, ti := range tm.Items {
		pat, err := ti.toPattern()
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", tm.PythonModule, name, err)
		}
		items[name] = ItemMapping{
			RustName:      ti.RustName,
			Pattern:       pat,
			TypeTransform: ti.TypeTransform,
		}
	}
	return &LibraryMapping{
		PythonModule:     tm.PythonModule,
		RustCrate:        tm.RustCrate,
		PythonVersionReq: tm.PythonVersionReq,
		RustCrateVersion: tm.RustCrateVersion,
		Items:            items,
		Features:         tm.Features,
		Confidence:       parseConfidence(tm.Confidence),
		Provenance:       tm.Provenance,
	}, nil
}

func (ti tomlItem) toPattern() (TransformPattern, error) {
	switch ti.Pattern {
	case "", "direct":
		return TransformPattern{Kind: Direct}, nil
	case "method_call":
		return TransformPattern{Kind: MethodCall, ExtraArgs: ti.ExtraArgs}, nil
	case "property_to_method":
		return TransformPattern{Kind: PropertyToMethod}, nil
	case "constructor":
		return TransformPattern{Kind: Constructor, Method: ti.Method}, nil
	case "reorder_args":
		return TransformPattern{Kind: ReorderArgs, Indices: ti.Indices}, nil
	case "typed_template":
		return TransformPattern{
			Kind:        TypedTemplate,
			TemplateStr: ti.Template,
			Params:      ti.Params,
			ParamTypes:  ti.ParamTypes,
		}, nil
	case "template":
		return TransformPattern{Kind: Template, TemplateStr: ti.Template}, nil
	default:
		return TransformPattern{}, fmt.Errorf("unknown pattern kind %q", ti.Pattern)
	}
}
