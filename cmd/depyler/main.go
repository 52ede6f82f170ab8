// Command depyler is a thin CLI wrapper over internal/pipeline: it
// parses flags, reads Python source, and renders whatever the pipeline
// returns. It contains no transpilation logic of its own.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/depyler-dev/depyler/internal/diagnostics"
	"github.com/depyler-dev/depyler/internal/pipeline"
)

var (
	Version = "dev"
	Commit  = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Exit codes: 0 success (warnings alone keep it), 1 non-fatal error
// diagnostics reported, 2 usage error or fatal failure (parse error, bad
// file).
const (
	exitOK      = 0
	exitDiag    = 1
	exitFailure = 2
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(exitFailure)
	}

	switch os.Args[1] {
	case "transpile":
		os.Exit(runTranspile(os.Args[2:]))
	case "parse":
		os.Exit(runParse(os.Args[2:]))
	case "check":
		os.Exit(runCheck(os.Args[2:]))
	case "-version", "--version", "version":
		printVersion()
		os.Exit(exitOK)
	case "-help", "--help", "help":
		printHelp()
		os.Exit(exitOK)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(exitFailure)
	}
}

func printVersion() {
	fmt.Printf("depyler %s", bold(Version))
	if Commit != "unknown" {
		fmt.Printf(" (%s)", Commit)
	}
	fmt.Println()
}

func printHelp() {
	fmt.Println(bold("depyler - a Python to Rust transpiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  depyler <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file.py>   Transpile a Python module to Rust\n", cyan("transpile"))
	fmt.Printf("  %s <file.py>       Parse and lower to HIR, reporting diagnostics only\n", cyan("parse"))
	fmt.Printf("  %s <file.py>       Run the full pipeline without writing output\n", cyan("check"))
	fmt.Println()
	fmt.Println("Flags (transpile/parse/check):")
	fmt.Println("  -o <file>        Write output to file instead of stdout (transpile only)")
	fmt.Println("  -format <fmt>    Diagnostic format: text (default), json, yaml")
	fmt.Println("  -docstrings      Emit doc comments from Python docstrings (default true)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s\n", cyan("depyler transpile hello.py"))
	fmt.Printf("  %s\n", cyan("depyler transpile hello.py -o hello.rs"))
	fmt.Printf("  %s\n", cyan("depyler check src/module.py -format json"))
}

type sharedFlags struct {
	out        string
	format     string
	docstrings bool
}

// parseShared builds a flag.FlagSet for one subcommand (name is used in
// usage output on parse error) and returns the parsed shared flags plus
// the non-flag positional arguments (the source file path).
func parseShared(name string, args []string) (*sharedFlags, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	f := &sharedFlags{}
	fs.StringVar(&f.out, "o", "", "write output to file instead of stdout")
	fs.StringVar(&f.format, "format", "text", "diagnostic format: text, json, yaml")
	fs.BoolVar(&f.docstrings, "docstrings", true, "emit doc comments from Python docstrings")
	fs.Parse(args)
	rest := fs.Args()
	// Flags may also follow the source file ("transpile in.py -o out.rs"),
	// so whatever comes after the first positional argument is parsed too.
	if len(rest) > 1 {
		fs.Parse(rest[1:])
		rest = append([]string{rest[0]}, fs.Args()...)
	}
	return f, rest
}

func readSource(args []string, usage string) (string, string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		fmt.Println(usage)
		os.Exit(exitFailure)
	}
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file %q: %v\n", red("Error"), path, err)
		os.Exit(exitFailure)
	}
	if !strings.HasSuffix(path, ".py") {
		fmt.Fprintf(os.Stderr, "%s: file does not have a .py extension\n", yellow("Warning"))
	}
	return string(content), filepath.Base(path)
}

func renderReport(report *diagnostics.Report, format string) {
	switch format {
	case "json":
		data, err := report.MarshalJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: failed to render diagnostics: %v\n", red("Error"), err)
			return
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := report.MarshalYAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: failed to render diagnostics: %v\n", red("Error"), err)
			return
		}
		fmt.Print(string(data))
	default:
		for _, d := range report.Sorted() {
			label := yellow("warning")
			if d.Level == diagnostics.Error {
				label = red("error")
			} else if d.Level == diagnostics.Fatal {
				label = red("fatal")
			}
			fmt.Printf("%s:%d:%d: %s [%s]: %s\n", d.Span.Start.File, d.Span.Start.Line, d.Span.Start.Column, label, d.Code, d.Message)
		}
	}
}

func writeOutput(out, rust string) {
	if out == "" {
		fmt.Println(rust)
		return
	}
	if err := os.WriteFile(out, []byte(rust), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write %q: %v\n", red("Error"), out, err)
		os.Exit(exitFailure)
	}
	fmt.Printf("%s Wrote %s\n", green("✓"), out)
}

func runTranspile(args []string) int {
	flags, rest := parseShared("transpile", args)
	code, name := readSource(rest, "Usage: depyler transpile <file.py> [-o out.rs]")

	p := pipeline.New().WithConfig(pipeline.Config{EmitDocstrings: flags.docstrings})
	result, report := p.TranspileModule(pipeline.Source{Name: name, Code: code})

	if report.Len() > 0 {
		renderReport(report, flags.format)
	}
	if report.HasFatal() {
		return exitFailure
	}
	writeOutput(flags.out, result.Artifacts.Rust)
	if report.HasErrors() {
		return exitDiag
	}
	return exitOK
}

func runParse(args []string) int {
	flags, rest := parseShared("parse", args)
	code, _ := readSource(rest, "Usage: depyler parse <file.py>")

	p := pipeline.New()
	mod, report := p.ParseToHIR(code)

	if report.Len() > 0 {
		renderReport(report, flags.format)
	}
	if report.HasFatal() {
		return exitFailure
	}
	fmt.Printf("%s Parsed %d function(s), %d class(es)\n", green("✓"), len(mod.Functions), len(mod.Classes))
	if report.HasErrors() {
		return exitDiag
	}
	return exitOK
}

func runCheck(args []string) int {
	flags, rest := parseShared("check", args)
	code, name := readSource(rest, "Usage: depyler check <file.py>")

	p := pipeline.New()
	_, report := p.TranspileModule(pipeline.Source{Name: name, Code: code})

	if report.Len() > 0 {
		renderReport(report, flags.format)
	}
	if report.HasFatal() {
		return exitFailure
	}
	if report.HasErrors() {
		return exitDiag
	}
	fmt.Printf("%s No errors found in %s\n", green("✓"), name)
	return exitOK
}
