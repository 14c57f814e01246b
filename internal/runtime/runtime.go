// Package runtime implements C9, the Runtime Library Contract (§4.9): an
// ABI description for Vector/Map/Set/String container operations, plus the
// actual C source realizing that ABI for the two targets (C and LLVM-IR)
// whose standard libraries don't already provide safe generic containers.
// C++/Rust/Haskell/OCaml/Go each have native stdlib containers that satisfy
// §3.4 directly, so their converters never Require() anything from here.
//
// The embed-and-copy-verbatim idea is grounded on the teacher's
// runtime.go/module.go, which resolved and loaded module source relative to
// a basePath; this package keeps that "ship source files alongside the
// generated output" shape but the files are this project's own C runtime,
// embedded into the binary instead of resolved from a project tree.
package runtime

import (
	_ "embed"
)

//go:embed c_src/mgen_vec.h
var cVecH []byte

//go:embed c_src/mgen_vec.c
var cVecC []byte

//go:embed c_src/mgen_map.h
var cMapH []byte

//go:embed c_src/mgen_map.c
var cMapC []byte

//go:embed c_src/mgen_set.h
var cSetH []byte

//go:embed c_src/mgen_set.c
var cSetC []byte

//go:embed c_src/mgen_str.h
var cStrH []byte

//go:embed c_src/mgen_str.c
var cStrC []byte

// Component names one of the four C9 container families a converter can
// Require() via cctx.Context.
type Component string

const (
	Vec Component = "vec"
	Map Component = "map"
	Set Component = "set"
	Str Component = "str"
)

// CFiles returns the C runtime source/header pair for each required
// component, keyed by the relative path the files should be written under
// (alongside the generated TARGET source, per §6.3's artifact layout). Set
// pulls in Map's files too since mgen_set.c is implemented atop mgen_map.
func CFiles(required map[Component]bool) map[string][]byte {
	out := make(map[string][]byte)
	if required[Vec] {
		out["runtime/mgen_vec.h"] = cVecH
		out["runtime/mgen_vec.c"] = cVecC
	}
	if required[Map] || required[Set] {
		out["runtime/mgen_map.h"] = cMapH
		out["runtime/mgen_map.c"] = cMapC
	}
	if required[Set] {
		out["runtime/mgen_set.h"] = cSetH
		out["runtime/mgen_set.c"] = cSetC
	}
	if required[Str] {
		out["runtime/mgen_str.h"] = cStrH
		out["runtime/mgen_str.c"] = cStrC
	}
	return out
}

// LLVMFiles returns the same C runtime for the LLVM-IR target: generated
// .ll text calls into this library via the C calling convention rather than
// reimplementing containers as hand-written IR (§4.9 is an ABI contract,
// not a per-target reimplementation mandate).
func LLVMFiles(required map[Component]bool) map[string][]byte {
	return CFiles(required)
}
