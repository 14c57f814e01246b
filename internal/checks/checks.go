// Package checks implements C4, the Constraint & Memory-Safety Checkers
// (§4.4). It runs a fixed table of universal rules (TS004, SA001, SA002,
// SA005, CC004) over every function regardless of target, plus a
// target-specific memory-safety table (MS001, MS004) for C/C++ targets.
// TS001 is reported by C2 (internal/types) instead; TS002, TS003, MS002
// and MS003 have codes in internal/errors but no rule here emits them.
// It only emits diagnostics -- it never mutates the AST (§4.4).
package checks

import (
	"github.com/shakfu/mgen-sub001/internal/ast"
	mgerrors "github.com/shakfu/mgen-sub001/internal/errors"
	"github.com/shakfu/mgen-sub001/internal/mutability"
	"github.com/shakfu/mgen-sub001/internal/types"
)

// MemorySafetyTarget reports whether target needs the C/C++-only MS rules.
func MemorySafetyTarget(target string) bool {
	return target == "c" || target == "cpp"
}

// Run executes every universal rule over mod, plus the MS00x rules when
// target is one of the C-family targets, and returns the collected
// diagnostics. mutClasses is C3's output, consulted by SA005.
func Run(mod *ast.Module, mutClasses mutability.Result, target string) []*mgerrors.Diagnostic {
	var bag mgerrors.Bag
	msEnabled := MemorySafetyTarget(target)

	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.FunctionDef:
			checkFunction(&bag, d, mutClasses[d.Name], msEnabled)
		case *ast.ClassDef:
			for _, m := range d.Methods {
				checkFunction(&bag, m, mutClasses[d.Name+"."+m.Name], msEnabled)
			}
		}
	}
	return bag.All()
}

func checkFunction(bag *mgerrors.Bag, f *ast.FunctionDef, classes map[string]mutability.Class, msEnabled bool) {
	checkUnreachable(bag, f.Body)
	checkUnusedLocals(bag, f)
	checkReadOnlyHint(bag, f, classes)
	checkComplexity(bag, f)
	checkBinOps(bag, f.Body)
	if msEnabled {
		checkMemorySafety(bag, f)
	}
}

// checkUnreachable flags statements following a Return/Break/Continue
// within the same block (SA001: unreachable code after return/raise --
// `raise` itself is rejected by C1, so only Return/Break/Continue apply
// here).
func checkUnreachable(bag *mgerrors.Bag, body []ast.Stmt) {
	terminated := false
	for _, s := range body {
		if terminated {
			bag.Add(mgerrors.Newf(mgerrors.SeverityWarning, mgerrors.SA001, s.Position(),
				"unreachable code after a terminating statement"))
			break
		}
		switch n := s.(type) {
		case *ast.Return:
			terminated = true
		case *ast.Break, *ast.Continue:
			terminated = true
		case *ast.If:
			checkUnreachable(bag, n.Then)
			checkUnreachable(bag, n.Else)
		case *ast.While:
			checkUnreachable(bag, n.Body)
		case *ast.For:
			checkUnreachable(bag, n.Body)
		}
	}
}

// checkUnusedLocals flags annotated/assigned locals never read again
// (SA002). Parameters and `self` are excluded; this is a simple
// assign-vs-read count, not full liveness.
func checkUnusedLocals(bag *mgerrors.Bag, f *ast.FunctionDef) {
	declared := map[string]ast.Pos{}
	read := map[string]bool{}
	paramNames := map[string]bool{}
	for _, p := range f.Params {
		paramNames[p.Name] = true
	}

	var walkDecl func(stmts []ast.Stmt)
	walkDecl = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *ast.AnnAssign:
				if name, ok := n.Target.(*ast.Name); ok && !paramNames[name.Ident] {
					declared[name.Ident] = n.Position()
				}
			case *ast.If:
				walkDecl(n.Then)
				walkDecl(n.Else)
			case *ast.While:
				walkDecl(n.Body)
			case *ast.For:
				walkDecl(n.Body)
			}
		}
	}
	walkDecl(f.Body)

	rv := &readVisitor{read: read, declared: declared}
	ast.WalkStmts(rv, f.Body)

	for name, pos := range declared {
		if !read[name] {
			bag.Add(mgerrors.Newf(mgerrors.SeverityInfo, mgerrors.SA002, pos,
				"local %q is assigned but never used", name))
		}
	}
}

type readVisitor struct {
	read     map[string]bool
	declared map[string]ast.Pos
}

func (v *readVisitor) VisitStmt(s ast.Stmt) bool {
	// Don't count a declaration's own target as a read.
	switch n := s.(type) {
	case *ast.AnnAssign:
		ast.WalkExpr(v, n.Value)
		return false
	case *ast.Assign:
		ast.WalkExpr(v, n.Value)
		return false
	}
	return true
}

func (v *readVisitor) VisitExpr(e ast.Expr) bool {
	if n, ok := e.(*ast.Name); ok {
		if _, declared := v.declared[n.Ident]; declared {
			v.read[n.Ident] = true
		}
	}
	return true
}

// checkReadOnlyHint emits SA005 for a parameter C3 classified ReadOnly
// whose type annotation is a mutable container kind -- the stylistic nudge
// §4.3 calls for ("parameter never mutated; consider a more restrictive
// annotation").
func checkReadOnlyHint(bag *mgerrors.Bag, f *ast.FunctionDef, classes map[string]mutability.Class) {
	for _, p := range f.Params {
		if classes[p.Name] != mutability.ReadOnly {
			continue
		}
		t, ok := p.Annotation.(*types.Type)
		if !ok || t.Immutable() {
			continue
		}
		bag.Add(mgerrors.Newf(mgerrors.SeverityInfo, mgerrors.SA005, p.Pos,
			"parameter %q is never mutated; consider a read-only annotation", p.Name))
	}
}

// checkComplexity implements CC004: cyclomatic complexity is 1 plus one
// for every branch point (if/elif, while, for, boolean-operator join).
func checkComplexity(bag *mgerrors.Bag, f *ast.FunctionDef) {
	cc := 1 + countBranches(f.Body)
	if cc > 10 {
		bag.Add(mgerrors.Newf(mgerrors.SeverityWarning, mgerrors.CC004, f.Pos,
			"function %q has cyclomatic complexity %d (> 10)", f.Name, cc))
	}
}

func countBranches(stmts []ast.Stmt) int {
	n := 0
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.If:
			n++
			n += countBranches(st.Then)
			n += countBranches(st.Else)
			n += countExprBranches(st.Cond)
		case *ast.While:
			n++
			n += countBranches(st.Body)
			n += countExprBranches(st.Cond)
		case *ast.For:
			n++
			n += countBranches(st.Body)
		case *ast.Return:
			n += countExprBranches(st.Value)
		case *ast.Assign:
			n += countExprBranches(st.Value)
		case *ast.AnnAssign:
			n += countExprBranches(st.Value)
		case *ast.ExprStmt:
			n += countExprBranches(st.X)
		}
	}
	return n
}

func countExprBranches(e ast.Expr) int {
	b, ok := e.(*ast.BoolOp)
	if !ok {
		return 0
	}
	n := len(b.Values) - 1
	for _, v := range b.Values {
		n += countExprBranches(v)
	}
	return n
}

// checkBinOps reports TS004 (an integer literal outside the 32-bit range)
// for the expressions in body. TS001 is reported by C2 during inference
// (internal/types/inference.go), not here; TS003 is not checked.
func checkBinOps(bag *mgerrors.Bag, body []ast.Stmt) {
	ast.WalkStmts(&literalRangeVisitor{bag: bag}, body)
}

type literalRangeVisitor struct{ bag *mgerrors.Bag }

func (v *literalRangeVisitor) VisitStmt(s ast.Stmt) bool { return true }

func (v *literalRangeVisitor) VisitExpr(e ast.Expr) bool {
	c, ok := e.(*ast.Constant)
	if !ok || c.Kind != ast.ConstInt {
		return true
	}
	if c.Int > 1<<31-1 || c.Int < -(1<<31) {
		v.bag.Add(mgerrors.Newf(mgerrors.SeverityWarning, mgerrors.TS004, c.Pos,
			"integer literal %d is outside the 32-bit range", c.Int))
	}
	return true
}

// checkMemorySafety implements the C/C++-only MS00x table (§4.4). These
// are conservative syntactic checks, not dataflow analysis: MGen targets a
// restricted, GC-free subset where lifecycle calls are emitted
// mechanically by C9's runtime contract, so the common failure mode is a
// raw index expression or a returned local container rather than a
// missed free.
func checkMemorySafety(bag *mgerrors.Bag, f *ast.FunctionDef) {
	ast.WalkStmts(&msVisitor{bag: bag, f: f}, f.Body)
}

type msVisitor struct {
	bag *mgerrors.Bag
	f   *ast.FunctionDef
}

func (v *msVisitor) VisitStmt(s ast.Stmt) bool {
	if ret, ok := s.(*ast.Return); ok && ret.Value != nil {
		if name, ok := ret.Value.(*ast.Name); ok {
			if t, ok := name.Type().(*types.Type); ok {
				if _, isContainer := t.ContainerKind(); isContainer && !isParam(v.f, name.Ident) {
					v.bag.Add(mgerrors.Newf(mgerrors.SeverityWarning, mgerrors.MS004, ret.Pos,
						"returning local container %q by naked reference", name.Ident))
				}
			}
		}
	}
	return true
}

func (v *msVisitor) VisitExpr(e ast.Expr) bool {
	if sub, ok := e.(*ast.Subscript); ok {
		if _, isConst := sub.Index.(*ast.Constant); !isConst {
			v.bag.Add(mgerrors.Newf(mgerrors.SeverityWarning, mgerrors.MS001, sub.Position(),
				"index with a variable and no visible bounds guard"))
		}
	}
	return true
}

func isParam(f *ast.FunctionDef, name string) bool {
	for _, p := range f.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}
