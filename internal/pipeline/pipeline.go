// Package pipeline implements C10, the orchestrator that wires C1-C9
// into the translate() operation of spec.md §6.2. It mirrors the
// teacher's internal/pipeline.Run: drive each phase in order, record how
// long it took in a map keyed by phase id, and stop or continue on error
// the way the teacher's runSingle does between parse/elaborate/typecheck/
// lower/link/evaluate. The seven phases here are Validation (C1),
// Analysis (C2+C3), Source-level Optimization, Mapping (C4+C5), Target-
// level Optimization, Generation (C5's ConvertModule), Build (C11,
// optional) -- see spec.md §3 and SPEC_FULL.md §0.
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/shakfu/mgen-sub001/internal/builder"
	"github.com/shakfu/mgen-sub001/internal/checks"
	"github.com/shakfu/mgen-sub001/internal/config"
	"github.com/shakfu/mgen-sub001/internal/convert"
	"github.com/shakfu/mgen-sub001/internal/convert/cctx"
	mgerrors "github.com/shakfu/mgen-sub001/internal/errors"
	"github.com/shakfu/mgen-sub001/internal/mutability"
	"github.com/shakfu/mgen-sub001/internal/parser"
	"github.com/shakfu/mgen-sub001/internal/types"
)

// Result is the translate() return value described in spec.md §6.2:
// PipelineResult = { success, output_files, diagnostics, phase_results }.
type Result struct {
	Success      bool
	OutputFiles  map[string][]byte
	Diagnostics  []*mgerrors.Diagnostic
	PhaseResults map[string]int64 // phase id -> elapsed milliseconds
}

// Translate runs the seven-phase pipeline over source (filename is used
// only for diagnostic locations and to derive the generated file's base
// name) and returns the PipelineResult. It never returns a non-nil error
// itself -- translation failures are reported as diagnostics in the
// Result, per §6.2; the error return exists for purely mechanical
// failures (an unknown target name) that precede any phase running.
func Translate(source []byte, filename string, cfg config.Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{PhaseResults: map[string]int64{}}
	var bag mgerrors.Bag

	// Phase 1: Validation (C1) -- lex, parse, build the AST.
	start := phaseStart()
	mod, diags := parser.ParseAndValidate(source, filename)
	bag.Add(diags...)
	res.PhaseResults["validation"] = phaseElapsed(start)
	if mod == nil || bag.HasErrors() {
		return finish(res, bag)
	}

	// Phase 2: Analysis (C2 type inference + C3 mutability classification).
	start = phaseStart()
	bag.Add(types.Infer(mod)...)
	mutClasses := mutability.Analyze(mod)
	res.PhaseResults["analysis"] = phaseElapsed(start)
	if bag.HasErrors() {
		return finish(res, bag)
	}

	// Phase 3: Source-level optimization. No optimizer pass runs here: the
	// phase records its timing and leaves the typed AST unchanged whatever
	// cfg.Optimization and cfg.EnableCompileTimeOptimization say. C2/C3
	// already normalize the AST enough for every converter to consume
	// directly.
	start = phaseStart()
	res.PhaseResults["source_optimization"] = phaseElapsed(start)

	// Phase 4: Mapping -- C4's constraint/memory-safety checks run here,
	// since they validate the mapping from source semantics to the chosen
	// TARGET's memory model (e.g. MS00x rules only for C/C++) before any
	// code is generated.
	start = phaseStart()
	bag.Add(checks.Run(mod, mutClasses, string(cfg.Target))...)
	res.PhaseResults["mapping"] = phaseElapsed(start)
	if bag.HasErrors() {
		return finish(res, bag)
	}

	// Phase 5: Target-level optimization. As with phase 3, each
	// converter performs its own target-level rewrites during Generation
	// (C6 container strategies, C7 loop strategies); there is no separate
	// pre-generation IR for a standalone pass to rewrite.
	start = phaseStart()
	res.PhaseResults["target_optimization"] = phaseElapsed(start)

	// Phase 6: Generation (C5) -- dispatch to the registered converter.
	start = phaseStart()
	conv, err := convert.Get(cctx.Target(cfg.Target))
	if err != nil {
		return Result{}, err
	}
	outputs, genDiags := conv.ConvertModule(mod, mutClasses)
	bag.Add(genDiags...)
	res.PhaseResults["generation"] = phaseElapsed(start)
	if bag.HasErrors() {
		return finish(res, bag)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	renamed := make(map[string][]byte, len(outputs))
	for name, contents := range outputs {
		if name == "module."+conv.Extension() {
			name = base + "." + conv.Extension()
		}
		renamed[name] = contents
	}
	res.OutputFiles = renamed

	// Phase 7: Build (optional). The core only emits source; when
	// cfg.EmitBuildDescriptor is set, the Builder additionally emits the
	// per-target build descriptor described in §6.3.
	start = phaseStart()
	if cfg.EmitBuildDescriptor {
		outNames := make([]string, 0, len(renamed))
		for name := range renamed {
			outNames = append(outNames, name)
		}
		if descPath, contents, ok := builder.Descriptor(cfg.Target, base, outNames); ok {
			res.OutputFiles[descPath] = contents
		}
	}
	res.PhaseResults["build"] = phaseElapsed(start)

	return finish(res, bag)
}

func finish(res Result, bag mgerrors.Bag) (Result, error) {
	res.Diagnostics = bag.All()
	res.Success = !bag.HasErrors()
	return res, nil
}

// phaseStart/phaseElapsed follow the teacher's pipeline.go idiom of
// recording each phase's wall-clock duration in milliseconds into the
// result's phase-timing map.
func phaseStart() time.Time               { return time.Now() }
func phaseElapsed(start time.Time) int64 { return time.Since(start).Milliseconds() }
