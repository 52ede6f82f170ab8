package codegen

import (
	"fmt"
	"strings"

	"github.com/depyler-dev/depyler/internal/analysis"
	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/rustty"
)

// pascalCase converts a snake_case identifier to PascalCase, the exact
// transformation DEPYLER-0259's round-trip invariant checks: "count_up"
// becomes "CountUp", never "Count_up".
func pascalCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// generatorStateName is the §4.10 struct name for fn: <FnName><Pascal>State.
func generatorStateName(fnName string) string {
	return pascalCase(fnName) + "State"
}

func defaultValueFor(t rustty.Type) string {
	switch t.String() {
	case "i32", "i64", "usize":
		return "0"
	case "f64":
		return "0.0"
	case "bool":
		return "false"
	case "String":
		return "String::new()"
	default:
		return "Default::default()"
	}
}

// emitGeneratorFunction implements §4.10's V1 single-state lowering: a
// struct holding a `state: usize` discriminator plus every inferred local
// and captured parameter. `next()` runs the whole body exactly once, on
// its first call, buffering every value the body yields in order into
// `__buffered`; every call (including that first one) then dispenses the
// next not-yet-returned buffered value, so a generator that yields N
// times still yields all N values across N calls to `next()` rather than
// only the first.
func (e *Emitter) emitGeneratorFunction(fn *hir.Function, info *analysis.GeneratorInfo, yieldType rustty.Type) string {
	structName := generatorStateName(fn.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", structName)
	b.WriteString("    state: usize,\n")
	fmt.Fprintf(&b, "    __buffered: Vec<%s>,\n", yieldType.String())
	b.WriteString("    __idx: usize,\n")
	for _, p := range info.CapturedParams {
		rt := e.paramRustType(fn, p)
		fmt.Fprintf(&b, "    %s: %s,\n", p, rt.String())
	}
	for _, lv := range info.Locals {
		rt := rustty.MapType(lv.Type, fn.Annotations, hir.Owned)
		fmt.Fprintf(&b, "    %s: %s,\n", lv.Name, rt.String())
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "impl Iterator for %s {\n", structName)
	fmt.Fprintf(&b, "    type Item = %s;\n\n", yieldType.String())
	b.WriteString("    fn next(&mut self) -> Option<Self::Item> {\n")
	b.WriteString("        if self.state == 0 {\n")
	b.WriteString("            self.state = 1;\n")
	b.WriteString("            let mut __yielded = Vec::new();\n")

	sc := newScopeTracker()
	for _, p := range info.CapturedParams {
		sc.declare(p)
	}
	for _, lv := range info.Locals {
		sc.declare(lv.Name)
	}
	fnSc := &funcCodegen{
		emitter:      e,
		fn:           fn,
		scope:        sc,
		yieldSink:    "__yielded",
		selfPrefixed: true,
		selfFields:   generatorFieldSet(info),
	}
	body := fnSc.emitBlock(fn.Body, 3)
	b.WriteString(body)

	b.WriteString("            self.__buffered = __yielded;\n")
	b.WriteString("        }\n")
	b.WriteString("        if self.__idx < self.__buffered.len() {\n")
	b.WriteString("            let v = self.__buffered[self.__idx].clone();\n")
	b.WriteString("            self.__idx += 1;\n")
	b.WriteString("            Some(v)\n")
	b.WriteString("        } else {\n            None\n        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "fn %s(", fn.Name)
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		rt := e.paramRustType(fn, p.Name)
		params = append(params, fmt.Sprintf("%s: %s", p.Name, rt.String()))
	}
	b.WriteString(strings.Join(params, ", "))
	fmt.Fprintf(&b, ") -> impl Iterator<Item = %s> {\n", yieldType.String())
	fmt.Fprintf(&b, "    %s {\n", structName)
	b.WriteString("        state: 0,\n")
	b.WriteString("        __buffered: Vec::new(),\n")
	b.WriteString("        __idx: 0,\n")
	for _, p := range info.CapturedParams {
		fmt.Fprintf(&b, "        %s: %s,\n", p, p)
	}
	for _, lv := range info.Locals {
		rt := rustty.MapType(lv.Type, fn.Annotations, hir.Owned)
		fmt.Fprintf(&b, "        %s: %s,\n", lv.Name, defaultValueFor(rt))
	}
	b.WriteString("    }\n}\n\n")

	return b.String()
}

// emitEagerGeneratorFunction is the DEPYLER-0420 fallback, used when
// analysis.GeneratorInfo.SingleState is false: a `yield` sits behind a
// conditional nested in a loop, so it doesn't dominate the end of that
// loop body and the named state struct's field layout can't be trusted
// to resume correctly. Instead the whole body runs once up front,
// collecting every yielded value into a Vec, and the function returns
// that Vec's iterator directly. Locals and params stay plain function
// bindings here — there is no struct to resume into, so nothing needs
// to be self-prefixed.
func (e *Emitter) emitEagerGeneratorFunction(fn *hir.Function, info *analysis.GeneratorInfo, yieldType rustty.Type) string {
	var b strings.Builder

	fmt.Fprintf(&b, "fn %s(", fn.Name)
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		rt := e.paramRustType(fn, p.Name)
		params = append(params, fmt.Sprintf("%s: %s", p.Name, rt.String()))
	}
	b.WriteString(strings.Join(params, ", "))
	fmt.Fprintf(&b, ") -> impl Iterator<Item = %s> {\n", yieldType.String())
	fmt.Fprintf(&b, "    let mut __yielded: Vec<%s> = Vec::new();\n", yieldType.String())

	sc := newScopeTracker()
	for _, p := range fn.Params {
		sc.declare(p.Name)
		rt := e.paramRustType(fn, p.Name)
		sc.setType(p.Name, rt.String())
	}
	fnSc := &funcCodegen{
		emitter:      e,
		fn:           fn,
		scope:        sc,
		yieldSink:    "__yielded",
		eagerCollect: true,
	}
	b.WriteString(fnSc.emitBlock(fn.Body, 1))

	b.WriteString("    __yielded.into_iter()\n")
	b.WriteString("}\n\n")

	return b.String()
}

// generatorFieldSet mirrors classFieldSet: every captured param and local
// lives as a field on the generator's state struct, so reads/writes inside
// next() must resolve through self rather than as a bare local.
func generatorFieldSet(info *analysis.GeneratorInfo) map[string]bool {
	out := make(map[string]bool, len(info.CapturedParams)+len(info.Locals))
	for _, p := range info.CapturedParams {
		out[p] = true
	}
	for _, lv := range info.Locals {
		out[lv.Name] = true
	}
	return out
}

func (e *Emitter) paramRustType(fn *hir.Function, name string) rustty.Type {
	for _, p := range fn.Params {
		if p.Name == name {
			mode := fn.Borrowing[name]
			return rustty.MapType(p.Type, fn.Annotations, mode)
		}
	}
	return rustty.Custom{Name: "Unknown"}
}
