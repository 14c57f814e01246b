// Package errors provides the structured diagnostic type MGen's phases
// collect into a PipelineResult (§3.5), and the stable error-code taxonomy
// referenced by §4.4 and §7.
package errors

// Code constants, grouped by the phase/checker that raises them. Each group
// mirrors the taxonomy the spec names explicitly; codes are never reused
// across groups.
const (
	// ---- Parsing & subset validation (C1, §4.1) ----

	// ParUnexpectedToken indicates a malformed token sequence.
	ParUnexpectedToken = "PAR001"
	// ParUnterminated indicates a missing closing delimiter.
	ParUnterminated = "PAR002"
	// ParUnsupportedFeature indicates a SOURCE construct outside the subset
	// (generators, async defs, decorators, *args/**kwargs, multiple
	// inheritance, exception handling, eval/exec, ...).
	ParUnsupportedFeature = "PAR010"

	// ---- Type inference (C2, §4.2) ----

	// TS001 type consistency in binary operations.
	TS001 = "TS001"
	// TS002 lossy implicit conversion (float -> int without cast).
	TS002 = "TS002"
	// TS003 division by a literal or provably-zero value.
	TS003 = "TS003"
	// TS004 integer literal outside 32-bit range when target uses 32-bit ints.
	TS004 = "TS004"
	// TS005 dict-with-list-values shape, unsupported by every target (§9 Q2).
	TS005 = "TS005"
	// TSInconsistent is a TypeInconsistency: declared/inferred types conflict.
	TSInconsistent = "TS010"
	// TSUnresolved is a TypeInferenceFailure: a binding's type could not be
	// determined and generation was attempted anyway.
	TSUnresolved = "TS011"

	// ---- Static-analysis / code-quality checks (C4, §4.4, all targets) ----

	// SA001 unreachable code after return/raise.
	SA001 = "SA001"
	// SA002 bound but never used local.
	SA002 = "SA002"
	// SA005 parameter classified ReadOnly whose annotation suggests mutability.
	SA005 = "SA005"
	// CC004 function cyclomatic complexity above 10.
	CC004 = "CC004"

	// ---- Memory-safety checks (C4, §4.4, C/C++ targets only) ----

	// MS001 index with a variable and no bounds guard.
	MS001 = "MS001"
	// MS002 dereference of a value returned from a function that may yield
	// a null-equivalent.
	MS002 = "MS002"
	// MS003 allocation with no matching lifecycle call on all paths.
	MS003 = "MS003"
	// MS004 returning a local container by naked reference.
	MS004 = "MS004"

	// ---- Container/method dispatch (C6) ----

	// GenUnsupportedMethod: container method not implemented for target.
	GenUnsupportedMethod = "GEN001"
	// GenFailure: internal invariant violated during generation.
	GenFailure = "GEN002"

	// ---- Build (out of core scope, surfaced per §7) ----

	// BldFailure: external compiler invocation failed.
	BldFailure = "BLD001"
)
