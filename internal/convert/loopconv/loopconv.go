// Package loopconv implements C7, the Loop-Conversion Strategy Table
// (§4.7). A `for` loop is matched against strategies in priority order;
// the first match whose Emit succeeds wins, otherwise matching falls
// through to the next strategy and finally to a generic fallback.
//
// Pattern recognition (singleCallStmt/single-accumulator shape) is
// grounded on the same idiom internal/types/inference.go's appendRefine
// uses to recognize "the loop body's only statement is a call/augassign
// on one name" -- C7 reuses that shape to decide how to emit the loop
// instead of how to refine its element type.
package loopconv

import (
	"fmt"

	"github.com/shakfu/mgen-sub001/internal/ast"
	"github.com/shakfu/mgen-sub001/internal/convert/cctx"
)

// Pattern names one of the five recognized for-loop shapes (§4.7).
type Pattern int

const (
	RangeIndexed Pattern = iota
	NestedBuild
	AppendBuild
	Accumulation
	GeneralIteration
)

func (p Pattern) String() string {
	switch p {
	case RangeIndexed:
		return "range-indexed"
	case NestedBuild:
		return "nested-build"
	case AppendBuild:
		return "append-build"
	case Accumulation:
		return "accumulation"
	default:
		return "general-iteration"
	}
}

// EmitFunc renders f according to one matched pattern.
type EmitFunc func(f *ast.For, ctx *cctx.Context) (string, error)

// Strategy pairs a pattern's recognizer with its emitter.
type Strategy struct {
	Pattern Pattern
	Match   func(f *ast.For) bool
	Emit    EmitFunc
}

// Table holds one target's loop strategies, tried in slice order -- the
// caller supplies them in the priority order §4.7 names (most specific
// first: RangeIndexed, NestedBuild, AppendBuild, Accumulation, then the
// GeneralIteration fallback, which should Match everything).
type Table struct {
	strategies []Strategy
}

// NewTable builds a Table from strategies, in priority order.
func NewTable(strategies ...Strategy) *Table {
	return &Table{strategies: strategies}
}

// Convert matches f against the table and emits it, or returns an error if
// no strategy (including the fallback) handles it.
func (t *Table) Convert(f *ast.For, ctx *cctx.Context) (string, error) {
	for _, s := range t.strategies {
		if !s.Match(f) {
			continue
		}
		out, err := s.Emit(f, ctx)
		if err == nil {
			return out, nil
		}
	}
	return "", fmt.Errorf("loopconv: no strategy could emit this for-loop")
}

// ---- Shared recognizers, usable by every target's table construction ----

// MatchRangeIndexed reports whether f iterates `range(...)` (1-3 args).
func MatchRangeIndexed(f *ast.For) bool {
	call, ok := f.Iter.(*ast.Call)
	if !ok {
		return false
	}
	name, ok := call.Func.(*ast.Name)
	return ok && name.Ident == "range" && len(call.Args) >= 1 && len(call.Args) <= 3
}

// RangeArgs extracts range()'s start/stop/step expressions, defaulting
// start to a literal 0 and step to a literal 1 per Python-style semantics.
func RangeArgs(f *ast.For) (start, stop, step ast.Expr) {
	call := f.Iter.(*ast.Call)
	switch len(call.Args) {
	case 1:
		return zeroConst(call.Args[0].Position()), call.Args[0], oneConst(call.Args[0].Position())
	case 2:
		return call.Args[0], call.Args[1], oneConst(call.Args[0].Position())
	default:
		return call.Args[0], call.Args[1], call.Args[2]
	}
}

func zeroConst(pos ast.Pos) ast.Expr {
	return &ast.Constant{ExprBase: ast.ExprBase{Pos: pos}, Kind: ast.ConstInt, Int: 0}
}
func oneConst(pos ast.Pos) ast.Expr {
	return &ast.Constant{ExprBase: ast.ExprBase{Pos: pos}, Kind: ast.ConstInt, Int: 1}
}

// MatchAppendBuild reports whether f's body is a single statement that
// appends/pushes/adds to one container named by a bare Name target.
func MatchAppendBuild(f *ast.For) bool {
	_, _, ok := AppendBuildTarget(f)
	return ok
}

// AppendBuildTarget extracts the accumulator name and appended expression
// from an append-build loop body, if f matches that shape.
func AppendBuildTarget(f *ast.For) (accumulator string, appended ast.Expr, ok bool) {
	if len(f.Body) != 1 {
		return "", nil, false
	}
	es, ok := f.Body[0].(*ast.ExprStmt)
	if !ok {
		return "", nil, false
	}
	call, ok := es.X.(*ast.Call)
	if !ok || len(call.Args) != 1 {
		return "", nil, false
	}
	attr, ok := call.Func.(*ast.Attribute)
	if !ok {
		return "", nil, false
	}
	if attr.Attr != "append" && attr.Attr != "push" && attr.Attr != "add" {
		return "", nil, false
	}
	recv, ok := attr.Value.(*ast.Name)
	if !ok {
		return "", nil, false
	}
	return recv.Ident, call.Args[0], true
}

// MatchNestedBuild reports whether f's body is a single nested `for` loop
// that itself append-builds (§4.7 pattern 4: "two nested loops each
// append-building").
func MatchNestedBuild(f *ast.For) bool {
	if len(f.Body) != 1 {
		return false
	}
	inner, ok := f.Body[0].(*ast.For)
	if !ok {
		return false
	}
	return MatchAppendBuild(inner)
}

// InnerFor returns f's single nested for-loop (valid only when
// MatchNestedBuild(f) is true).
func InnerFor(f *ast.For) *ast.For { return f.Body[0].(*ast.For) }

// MatchAccumulation reports whether f's body is a single augmented
// assignment to a bare Name (an associative-operation accumulator).
func MatchAccumulation(f *ast.For) bool {
	_, _, ok := AccumulationTarget(f)
	return ok
}

// AccumulationTarget extracts the accumulator name and operator from an
// accumulation loop body, if f matches that shape.
func AccumulationTarget(f *ast.For) (accumulator, op string, ok bool) {
	if len(f.Body) != 1 {
		return "", "", false
	}
	aug, ok := f.Body[0].(*ast.AugAssign)
	if !ok {
		return "", "", false
	}
	name, ok := aug.Target.(*ast.Name)
	if !ok {
		return "", "", false
	}
	return name.Ident, aug.Op, true
}

// MatchGeneral always matches; it is the required fallback (§4.7: "else a
// generic fallback is used").
func MatchGeneral(f *ast.For) bool { return true }
