// Command mgen is the thin CLI driver for the translation core, per
// spec.md §6.1 and SPEC_FULL.md §1.6: a flag-based (not cobra) wrapper
// around internal/pipeline.Translate, grounded on cmd/ailang/main.go's
// flag+subcommand dispatch and colored fatih/color diagnostics. Config
// discovery, progress bars, and a watch mode are explicitly out of scope
// (SPEC_FULL.md §4) -- this prints diagnostics and writes output_files,
// nothing more.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/shakfu/mgen-sub001/internal/config"
	mgerrors "github.com/shakfu/mgen-sub001/internal/errors"
	"github.com/shakfu/mgen-sub001/internal/pipeline"

	// Blank-imported so each target package's init() registers itself with
	// internal/convert's registry (§4.5) -- convert.Get only ever sees the
	// targets actually linked into the binary.
	_ "github.com/shakfu/mgen-sub001/internal/convert/c"
	_ "github.com/shakfu/mgen-sub001/internal/convert/cpp"
	_ "github.com/shakfu/mgen-sub001/internal/convert/golang"
	_ "github.com/shakfu/mgen-sub001/internal/convert/haskell"
	_ "github.com/shakfu/mgen-sub001/internal/convert/llvmir"
	_ "github.com/shakfu/mgen-sub001/internal/convert/ocaml"
	_ "github.com/shakfu/mgen-sub001/internal/convert/rust"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "translate":
		translateCmd(os.Args[2:])
	case "-h", "--help", "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func translateCmd(args []string) {
	fs := flag.NewFlagSet("translate", flag.ExitOnError)
	target := fs.String("target", "", "output language: c|cpp|rust|go|haskell|ocaml|llvm")
	optimization := fs.String("optimization", "none", "none|basic|moderate|aggressive")
	cfgPath := fs.String("config", "", "path to a YAML config file (overrides individual flags when set)")
	outDir := fs.String("out", ".", "directory to write generated files into")
	emitBuild := fs.Bool("emit-build", false, "also emit a build descriptor (Makefile, Cargo.toml, ...)")
	formalVerify := fs.Bool("enable-formal-verification", false, "")
	advancedAnalysis := fs.Bool("enable-advanced-analysis", false, "")
	compileTimeOpt := fs.Bool("enable-compile-time-optimization", false, "")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing source file argument\n", red("Error"))
		fmt.Println("Usage: mgen translate <file> --target=<target> [options]")
		os.Exit(1)
	}
	path := fs.Arg(0)

	var cfg config.Config
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
		if *target != "" {
			cfg.Target = config.Target(*target)
		}
		if *optimization != "" {
			cfg.Optimization = config.Optimization(*optimization)
		}
		cfg.EmitBuildDescriptor = cfg.EmitBuildDescriptor || *emitBuild
		cfg.EnableFormalVerification = cfg.EnableFormalVerification || *formalVerify
		cfg.EnableAdvancedAnalysis = cfg.EnableAdvancedAnalysis || *advancedAnalysis
		cfg.EnableCompileTimeOptimization = cfg.EnableCompileTimeOptimization || *compileTimeOpt
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	res, err := pipeline.Translate(source, path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	printDiagnostics(res.Diagnostics, string(source), path)

	if !res.Success {
		fmt.Fprintf(os.Stderr, "%s: translation failed\n", red("Error"))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	for name, contents := range res.OutputFiles {
		dest := filepath.Join(*outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		if err := os.WriteFile(dest, contents, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
	}
	fmt.Printf("%s wrote %d file(s) to %s\n", cyan("OK"), len(res.OutputFiles), *outDir)
}

// printDiagnostics renders each diagnostic per spec.md §6.4: a colored
// severity label + error code, the message, a file:line:col location, a
// source snippet with a caret under the offending column, and an
// optional suggestion line.
func printDiagnostics(diags []*mgerrors.Diagnostic, source, filename string) {
	lines := strings.Split(source, "\n")
	for _, d := range diags {
		label := severityLabel(d.Severity)
		fmt.Fprintf(os.Stderr, "%s[%s]: %s\n", label, bold(d.Code), d.Message)
		fmt.Fprintf(os.Stderr, "  --> %s\n", d.Location.String())

		if d.Location.Line >= 1 && d.Location.Line <= len(lines) {
			snippet := lines[d.Location.Line-1]
			fmt.Fprintf(os.Stderr, "   | %s\n", snippet)
			col := d.Location.Column
			if col < 1 {
				col = 1
			}
			fmt.Fprintf(os.Stderr, "   | %s^\n", strings.Repeat(" ", col-1))
		}
		if d.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "   = help: %s\n", d.Suggestion)
		}
		if d.HelpURL != "" {
			fmt.Fprintf(os.Stderr, "   = see: %s\n", d.HelpURL)
		}
	}
}

func severityLabel(s mgerrors.Severity) string {
	switch s {
	case mgerrors.SeverityError:
		return red("error")
	case mgerrors.SeverityWarning:
		return yellow("warning")
	default:
		return cyan("info")
	}
}

func printHelp() {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	fmt.Fprintln(w, "mgen - translate an annotated scripting-language subset into a target language")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mgen translate <file> --target=<c|cpp|rust|go|haskell|ocaml|llvm> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --optimization=<none|basic|moderate|aggressive>")
	fmt.Fprintln(w, "  --config=<path>            load a YAML Config instead of individual flags")
	fmt.Fprintln(w, "  --out=<dir>                directory to write generated files into (default .)")
	fmt.Fprintln(w, "  --emit-build               also emit a build descriptor")
	fmt.Fprintln(w, "  --enable-formal-verification")
	fmt.Fprintln(w, "  --enable-advanced-analysis")
	fmt.Fprintln(w, "  --enable-compile-time-optimization")
}
