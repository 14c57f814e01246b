// Package builder implements the Builder referenced in spec.md §1 and
// §6.3: "The core emits the source; the Builder emits the descriptor."
// It does not invoke target compilers itself (gcc, rustc, ghc, ...) --
// that subprocess-wrapping concern is explicitly out of the core's
// scope per spec.md's top-level Non-goals -- it only generates the
// per-target build file (Makefile, Cargo.toml, etc.) that a caller
// would hand to those compilers, grounded on the teacher's
// eval_harness.Runner which shells out via os/exec to drive a
// generated program the same way a Makefile's recipe would.
package builder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shakfu/mgen-sub001/internal/config"
)

// Descriptor emits the build file content for target, given the set of
// generated output file names (as returned in PipelineResult.OutputFiles)
// and the module's base name (the input file's stem).
//
// Descriptor(t, baseName, outputs) -> (descriptorPath, contents, ok)
// ok is false for targets this builder has no descriptor template for.
func Descriptor(target config.Target, baseName string, outputs []string) (string, []byte, bool) {
	switch target {
	case config.TargetC:
		return "Makefile", makefileC(baseName, outputs), true
	case config.TargetCPP:
		return "Makefile", makefileCPP(baseName, outputs), true
	case config.TargetRust:
		return "Cargo.toml", cargoToml(baseName), true
	case config.TargetGo:
		return "go.mod", goMod(baseName), true
	case config.TargetHaskell:
		return baseName + ".cabal", cabalFile(baseName, outputs), true
	case config.TargetOCaml:
		return "dune", duneFile(baseName, outputs), true
	case config.TargetLLVM:
		return "Makefile", makefileLLVM(baseName), true
	}
	return "", nil, false
}

func runtimeCSources(outputs []string) []string {
	var srcs []string
	for _, f := range outputs {
		if strings.HasPrefix(f, "runtime/") && strings.HasSuffix(f, ".c") {
			srcs = append(srcs, f)
		}
	}
	return srcs
}

func makefileC(baseName string, outputs []string) []byte {
	var b strings.Builder
	srcs := append([]string{baseName + ".c"}, runtimeCSources(outputs)...)
	fmt.Fprintf(&b, "CC ?= cc\nCFLAGS ?= -O2 -Wall\n\n%s: %s\n\t$(CC) $(CFLAGS) -Iruntime -o $@ %s\n\nclean:\n\trm -f %s\n",
		baseName, strings.Join(srcs, " "), strings.Join(srcs, " "), baseName)
	return []byte(b.String())
}

func makefileCPP(baseName string, outputs []string) []byte {
	var b strings.Builder
	srcs := append([]string{baseName + ".cpp"}, runtimeCSources(outputs)...)
	fmt.Fprintf(&b, "CXX ?= c++\nCXXFLAGS ?= -O2 -Wall -std=c++17\n\n%s: %s\n\t$(CXX) $(CXXFLAGS) -Iruntime -o $@ %s\n\nclean:\n\trm -f %s\n",
		baseName, strings.Join(srcs, " "), strings.Join(srcs, " "), baseName)
	return []byte(b.String())
}

func makefileLLVM(baseName string) []byte {
	var b strings.Builder
	srcs := []string{baseName + ".ll"}
	srcs = append(srcs, runtimeRelObjects()...)
	fmt.Fprintf(&b, "CC ?= clang\n\n%s: %s.ll runtime/mgen_vec.c runtime/mgen_map.c runtime/mgen_set.c runtime/mgen_str.c\n\t$(CC) -Iruntime -o $@ %s.ll runtime/mgen_vec.c runtime/mgen_map.c runtime/mgen_set.c runtime/mgen_str.c\n\nclean:\n\trm -f %s\n",
		baseName, baseName, baseName, baseName)
	_ = srcs
	return []byte(b.String())
}

func runtimeRelObjects() []string {
	return []string{"runtime/mgen_vec.c", "runtime/mgen_map.c", "runtime/mgen_set.c", "runtime/mgen_str.c"}
}

func cargoToml(baseName string) []byte {
	name := strings.ReplaceAll(filepath.Base(baseName), "_", "-")
	return []byte(fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[[bin]]\nname = %q\npath = %q\n",
		name, name, baseName+".rs"))
}

func goMod(baseName string) []byte {
	return []byte(fmt.Sprintf("module %s\n\ngo 1.22\n", filepath.Base(baseName)))
}

func cabalFile(baseName string, outputs []string) []byte {
	_ = outputs
	return []byte(fmt.Sprintf("cabal-version: 2.4\nname: %s\nversion: 0.1.0.0\n\nexecutable %s\n  main-is: %s.hs\n  build-depends: base\n  default-language: Haskell2010\n",
		baseName, baseName, baseName))
}

func duneFile(baseName string, outputs []string) []byte {
	_ = outputs
	return []byte(fmt.Sprintf("(executable\n (name %s)\n (public_name %s))\n", baseName, baseName))
}
