// Package mutability implements C3, the Immutability & Mutability Analyzer
// (§4.3). It classifies each function parameter as Immutable, ReadOnly,
// Mutable, or Unknown by walking the already type-annotated function body
// with ast.Walk, the same visitor-based analysis shape the teacher uses for
// its post-type-inference passes over Core (internal/eval, now replaced by
// this domain's AST).
package mutability

import (
	"github.com/shakfu/mgen-sub001/internal/ast"
	"github.com/shakfu/mgen-sub001/internal/types"
)

// Class is a parameter's mutability classification (§3.3).
type Class int

const (
	Unknown Class = iota
	Immutable
	ReadOnly
	Mutable
)

func (c Class) String() string {
	switch c {
	case Immutable:
		return "Immutable"
	case ReadOnly:
		return "ReadOnly"
	case Mutable:
		return "Mutable"
	default:
		return "Unknown"
	}
}

// Result maps function name -> parameter name -> Class.
type Result map[string]map[string]Class

// Analyze runs C3 over every FunctionDef and method in mod, returning the
// per-function, per-parameter classification (§3.6: C3 annotates mutability
// as part of Analysis). Each classified Param's Mutability field is set to
// its Class name; the returned side table carries the same classes and is
// what the pipeline threads to later phases.
func Analyze(mod *ast.Module) Result {
	result := make(Result)
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.FunctionDef:
			result[d.Name] = analyzeFunction(d)
		case *ast.ClassDef:
			for _, m := range d.Methods {
				result[d.Name+"."+m.Name] = analyzeFunction(m)
			}
		}
	}
	return result
}

func analyzeFunction(f *ast.FunctionDef) map[string]Class {
	out := make(map[string]Class, len(f.Params))
	mutated := mutatedParams(f)
	for _, p := range f.Params {
		if p.Name == "self" {
			continue
		}
		if t, ok := p.Annotation.(*types.Type); ok && t.Immutable() {
			out[p.Name] = Immutable
			p.Mutability = Immutable.String()
			continue
		}
		if mutated[p.Name] {
			out[p.Name] = Mutable
		} else {
			out[p.Name] = ReadOnly
		}
		p.Mutability = out[p.Name].String()
	}
	return out
}

// mutatedParams walks f's body for the two mutation shapes §4.3 names:
// a mutating container method call on a parameter, or an assignment to
// the parameter's subscript (plain or augmented) or an augmented
// assignment to the parameter name itself. A plain rebinding `p = v` does
// not mark p.
func mutatedParams(f *ast.FunctionDef) map[string]bool {
	w := &mutationWalker{mutated: make(map[string]bool)}
	ast.WalkStmts(w, f.Body)
	return w.mutated
}

type mutationWalker struct {
	mutated map[string]bool
}

func (w *mutationWalker) VisitStmt(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.Assign:
		w.markSubscriptTarget(n.Target)
	case *ast.AugAssign:
		w.markSubscriptTarget(n.Target)
		if name, ok := n.Target.(*ast.Name); ok {
			w.mutated[name.Ident] = true
		}
	}
	return true
}

func (w *mutationWalker) VisitExpr(e ast.Expr) bool {
	call, ok := e.(*ast.Call)
	if !ok {
		return true
	}
	attr, ok := call.Func.(*ast.Attribute)
	if !ok {
		return true
	}
	recv, ok := attr.Value.(*ast.Name)
	if !ok {
		return true
	}
	t, ok := recv.Type().(*types.Type)
	if !ok {
		return true
	}
	kind, ok := t.ContainerKind()
	if !ok {
		return true
	}
	if types.MutatingMethods[kind][attr.Attr] {
		w.mutated[recv.Ident] = true
	}
	return true
}

// markSubscriptTarget records p as mutated when target is `p[k] = v`.
func (w *mutationWalker) markSubscriptTarget(target ast.Expr) {
	sub, ok := target.(*ast.Subscript)
	if !ok {
		return
	}
	if name, ok := sub.Value.(*ast.Name); ok {
		w.mutated[name.Ident] = true
	}
}
