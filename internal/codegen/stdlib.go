package codegen

import (
	"fmt"
	"strings"

	"github.com/depyler-dev/depyler/internal/hir"
	"github.com/depyler-dev/depyler/internal/librarymap"
)

// completedProcessStruct is the anonymous struct §4.6 requires
// subprocess.run to return: Python's CompletedProcess has .returncode,
// .stdout, .stderr, so the emitted module synthesises the equivalent
// Rust struct once and every subprocess.run call site builds one.
const completedProcessStruct = "struct CompletedProcess {\n    returncode: i32,\n    stdout: String,\n    stderr: String,\n}\n\n"

// emitSubprocessRun implements subprocess.run directly rather than
// through the declarative library map: unlike every other stdlib
// rewrite it is a full statement-expression (builds a Command, runs it,
// and wraps the result), not a single RustName(args) substitution.
// Reports ok=false for the shapes it doesn't recognize (no args), so
// the caller can fall through to the generic library-map rewrite.
func (fc *funcCodegen) emitSubprocessRun(c *hir.Call) (string, bool) {
	if len(c.Args) == 0 {
		return "", false
	}
	fc.emitter.needsCompletedProcess = true

	cmdExpr := fc.emit(c.Args[0])
	captureOutput := false
	cwdExpr := ""
	cwdIsOption := false
	for _, kw := range c.Kwargs {
		switch kw.Name {
		case "capture_output":
			if lit, ok := kw.Value.(*hir.Literal); ok && lit.Kind == hir.BoolLit {
				captureOutput, _ = lit.Value.(bool)
			}
		case "cwd":
			cwdExpr = fc.emit(kw.Value)
			if v, ok := kw.Value.(*hir.Var); ok {
				if t, ok := fc.scope.typeOf(v.Name); ok {
					cwdIsOption = strings.HasPrefix(t, "Option<")
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "let cmd_list = %s;\n", cmdExpr)
	b.WriteString("let mut cmd = std::process::Command::new(&cmd_list[0]);\n")
	b.WriteString("cmd.args(&cmd_list[1..]);\n")
	if cwdExpr != "" {
		if cwdIsOption {
			fmt.Fprintf(&b, "if let Some(dir) = %s { cmd.current_dir(dir); }\n", cwdExpr)
		} else {
			fmt.Fprintf(&b, "cmd.current_dir(%s);\n", cwdExpr)
		}
	}
	if captureOutput {
		b.WriteString("let output = cmd.output().expect(\"subprocess.run() failed\");\n")
		b.WriteString("CompletedProcess {\n")
		b.WriteString("    returncode: output.status.code().unwrap_or(-1),\n")
		b.WriteString("    stdout: String::from_utf8_lossy(&output.stdout).to_string(),\n")
		b.WriteString("    stderr: String::from_utf8_lossy(&output.stderr).to_string(),\n")
		b.WriteString("}\n")
	} else {
		b.WriteString("let status = cmd.status().expect(\"subprocess.run() failed\");\n")
		b.WriteString("CompletedProcess {\n")
		b.WriteString("    returncode: status.code().unwrap_or(-1),\n")
		b.WriteString("    stdout: String::new(),\n")
		b.WriteString("    stderr: String::new(),\n")
		b.WriteString("}\n")
	}
	b.WriteString("}")
	return b.String(), true
}

// emitOpenCall implements §4.6's `open()` special form directly: it is a
// Python builtin, not a module attribute, so it never goes through the
// declarative librarymap registry the way `os.path`/`subprocess`/
// `datetime`/`re`/`json` do.
func emitOpenCall(args []string) string {
	mode := `"r"`
	if len(args) >= 2 {
		mode = strings.Trim(args[1], `"`)
		mode = `"` + mode + `"`
	}
	path := "&" + args[0]
	switch strings.Trim(mode, `"`) {
	case "w":
		return fmt.Sprintf("std::fs::File::create(%s).expect(\"failed to create file\")", path)
	case "a":
		return fmt.Sprintf("std::fs::OpenOptions::new().append(true).create(true).open(%s).expect(\"failed to open file\")", path)
	default:
		return fmt.Sprintf("std::fs::File::open(%s).expect(\"failed to open file\")", path)
	}
}

// dottedName flattens a chain of Attribute/Var nodes into Python's dotted
// form ("os.path.join"), the shape a library-map lookup key needs. It
// returns ok=false for anything else (the callee isn't a plain dotted
// reference, e.g. the result of a call or subscript).
func dottedName(e hir.Expr) (string, bool) {
	switch v := e.(type) {
	case *hir.Var:
		return v.Name, true
	case *hir.Attribute:
		base, ok := dottedName(v.Obj)
		if !ok {
			return "", false
		}
		return base + "." + v.Name, true
	default:
		return "", false
	}
}

// tryLibraryRewrite looks a dotted callee up against every module the
// registry knows, applying the longest module prefix that matches so
// that `os.path.join` resolves against the `os.path` mapping rather than
// a hypothetical bare `os` one.
func tryLibraryRewrite(reg *librarymap.Registry, callee hir.Expr, args []string) (string, bool) {
	dotted, ok := dottedName(callee)
	if !ok {
		return "", false
	}
	bestMod, bestItem := "", ""
	for _, mod := range reg.Modules() {
		prefix := mod + "."
		if strings.HasPrefix(dotted, prefix) {
			item := strings.TrimPrefix(dotted, prefix)
			if len(mod) > len(bestMod) {
				bestMod, bestItem = mod, item
			}
		}
	}
	if bestMod == "" {
		return "", false
	}
	im, ok := reg.Lookup(bestMod, bestItem)
	if !ok {
		return "", false
	}
	return applyPattern(im, args), true
}

func applyPattern(im librarymap.ItemMapping, args []string) string {
	p := im.Pattern
	switch p.Kind {
	case librarymap.Direct:
		return im.RustName + "(" + strings.Join(args, ", ") + ")"
	case librarymap.MethodCall:
		if len(args) == 0 {
			return im.RustName + "()"
		}
		rest := append(append([]string{}, args[1:]...), p.ExtraArgs...)
		return args[0] + "." + im.RustName + "(" + strings.Join(rest, ", ") + ")"
	case librarymap.PropertyToMethod:
		return args[0] + "." + im.RustName + "()"
	case librarymap.Constructor:
		ctor := im.RustName + "(" + strings.Join(args, ", ") + ")"
		if p.Method == "" {
			return ctor
		}
		return ctor + "." + p.Method + "()"
	case librarymap.ReorderArgs:
		reordered := make([]string, len(p.Indices))
		for dst, src := range p.Indices {
			if src < len(args) {
				reordered[dst] = args[src]
			}
		}
		return im.RustName + "(" + strings.Join(reordered, ", ") + ")"
	case librarymap.TypedTemplate, librarymap.Template:
		out := p.TemplateStr
		for i, param := range p.Params {
			if i < len(args) {
				out = strings.ReplaceAll(out, "{"+param+"}", args[i])
			}
		}
		return out
	default:
		return im.RustName + "(" + strings.Join(args, ", ") + ")"
	}
}
