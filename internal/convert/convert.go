// Package convert implements C5, the Converter Framework (§4.5): the
// per-target Converter interface, a small naming-policy contract, and the
// registry each concrete target package (golang, c, cpp, rust, haskell,
// ocaml, llvmir) registers itself into from an init func. C10 (the
// pipeline orchestrator) looks converters up here by name; it never
// imports a concrete target package directly, so adding a target never
// touches the orchestrator.
package convert

import (
	"fmt"
	"sort"

	"github.com/shakfu/mgen-sub001/internal/ast"
	"github.com/shakfu/mgen-sub001/internal/convert/cctx"
	mgerrors "github.com/shakfu/mgen-sub001/internal/errors"
	"github.com/shakfu/mgen-sub001/internal/mutability"
)

// NamingPolicy implements a target's reserved-word escaping and
// identifier-mangling rules (§4.5).
type NamingPolicy interface {
	// Escape returns ident, mangled if it collides with a target keyword
	// or is otherwise not a legal identifier in TARGET.
	Escape(ident string) string
}

// Converter is C5's per-target entry point: a visitor over the typed,
// C3-annotated AST that returns generated source plus any runtime files
// its Requires flags pulled in (§6.3).
type Converter interface {
	// Target identifies which of the seven TARGET languages this is.
	Target() cctx.Target
	// Extension is the generated main source file's suffix, without the dot.
	Extension() string
	// ConvertModule translates mod into one or more output files, keyed by
	// relative path (§6.2's PipelineResult.output_files), alongside any
	// diagnostics raised during generation (GEN001/GEN002, §4.4).
	ConvertModule(mod *ast.Module, mutClasses mutability.Result) (map[string][]byte, []*mgerrors.Diagnostic)
}

var registry = map[cctx.Target]func() Converter{}

// Register adds a target converter factory. Called from each concrete
// target package's init().
func Register(t cctx.Target, factory func() Converter) {
	registry[t] = factory
}

// Get constructs the converter registered for target, or an error if none
// was registered (the caller is expected to have imported the target
// packages it needs for side-effecting init registration).
func Get(t cctx.Target) (Converter, error) {
	factory, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("convert: no converter registered for target %q (%s)", t, knownTargets())
	}
	return factory(), nil
}

func knownTargets() string {
	names := make([]string, 0, len(registry))
	for t := range registry {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return fmt.Sprintf("known targets: %v", names)
}
