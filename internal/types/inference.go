package types

import (
	"github.com/shakfu/mgen-sub001/internal/ast"
	mgerrors "github.com/shakfu/mgen-sub001/internal/errors"
)

// Engine runs C2 over a validated Module. It is stateful only for the
// duration of one Infer call; nothing survives between calls, matching
// §5's single-worker-per-file model.
type Engine struct {
	diags   *mgerrors.Bag
	funcs   map[string]*Type // function name -> Callable type
	classes map[string]*ast.ClassDef
}

// NewEngine creates an inference engine with an empty function/class table.
func NewEngine() *Engine {
	return &Engine{diags: &mgerrors.Bag{}, funcs: make(map[string]*Type), classes: make(map[string]*ast.ClassDef)}
}

// Infer performs both passes of C2 over mod, mutating every Expr's Type in
// place, and returns the diagnostics collected. A type error downgrades the
// offending binding's type to Unknown but inference continues so multiple
// errors surface in one run (§4.2 "Failure semantics").
func Infer(mod *ast.Module) []*mgerrors.Diagnostic {
	e := NewEngine()
	e.registerSignatures(mod)

	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDef:
			e.inferFunction(decl, NewEnv())
		case *ast.ClassDef:
			for _, m := range decl.Methods {
				env := NewEnv()
				env.Define("self", User(decl.Name))
				e.inferFunction(m, env)
			}
		case *ast.GlobalVar:
			env := NewEnv()
			if decl.Value != nil {
				e.inferExpr(decl.Value, env)
			}
		}
	}
	return e.diags.All()
}

// registerSignatures is the flow-insensitive pass's first step: record every
// declared function's parameter/return annotation before any body is
// visited, so forward and mutually-recursive calls resolve (§4.2(a)).
func (e *Engine) registerSignatures(mod *ast.Module) {
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDef:
			e.funcs[decl.Name] = signatureOf(decl)
		case *ast.ClassDef:
			e.classes[decl.Name] = decl
			for _, m := range decl.Methods {
				e.funcs[decl.Name+"."+m.Name] = signatureOf(m)
			}
		}
	}
}

func signatureOf(f *ast.FunctionDef) *Type {
	params := make([]*Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = asType(p.Annotation)
	}
	return Callable(params, asType(f.ReturnType))
}

// asType narrows an ast.SemanticType (structurally a *Type, since the
// parser constructs annotations directly from this package) back to a
// concrete *Type, defaulting to Unknown for nil annotations.
func asType(st ast.SemanticType) *Type {
	if st == nil {
		return Unknown()
	}
	if t, ok := st.(*Type); ok {
		return t
	}
	return Unknown()
}

func (e *Engine) inferFunction(f *ast.FunctionDef, env *Env) {
	for _, p := range f.Params {
		env.Define(p.Name, asType(p.Annotation))
	}
	e.inferBlock(f.Body, env)
}

func (e *Engine) inferBlock(stmts []ast.Stmt, env *Env) {
	for _, s := range stmts {
		e.inferStmt(s, env)
	}
}

// inferStmt is the flow-sensitive pass (§4.2(b)): it walks statements in
// order so an empty-container assignment can be refined by a later append,
// and so assigning a mismatched type to an annotated binding is caught.
func (e *Engine) inferStmt(s ast.Stmt, env *Env) {
	switch st := s.(type) {
	case *ast.AnnAssign:
		declared := asType(st.Annotation)
		e.inferExpr(st.Value, env)
		if name, ok := st.Target.(*ast.Name); ok {
			env.Define(name.Ident, declared)
		}
		st.Target.SetType(declared)

	case *ast.Assign:
		e.inferExpr(st.Value, env)
		valType := exprType(st.Value)
		if name, ok := st.Target.(*ast.Name); ok {
			if existing, bound := env.Lookup(name.Ident); bound && env.DefinedLocally(name.Ident) {
				e.refineOrCheck(existing, valType, name.Pos)
			} else {
				env.Define(name.Ident, valType)
			}
		}
		st.Target.SetType(valType)

	case *ast.AugAssign:
		e.inferExpr(st.Target, env)
		e.inferExpr(st.Value, env)

	case *ast.If:
		e.inferExpr(st.Cond, env)
		e.inferBlock(st.Then, env.Child())
		e.inferBlock(st.Else, env.Child())

	case *ast.While:
		e.inferExpr(st.Cond, env)
		e.inferBlock(st.Body, env.Child())

	case *ast.For:
		e.inferExpr(st.Iter, env)
		iterType := exprType(st.Iter)
		loopEnv := env.Child()
		elemType := elementTypeOf(iterType)
		if name, ok := st.Target.(*ast.Name); ok {
			loopEnv.Define(name.Ident, elemType)
		}
		st.Target.SetType(elemType)
		e.appendRefine(st.Body, loopEnv)
		e.inferBlock(st.Body, loopEnv)

	case *ast.Return:
		if st.Value != nil {
			e.inferExpr(st.Value, env)
		}

	case *ast.ExprStmt:
		e.inferExpr(st.X, env)
	}
}

// appendRefine implements the §4.2(b) retroactive refinement: if the loop
// body appends an element of known type T to a List(Unknown) bound in an
// enclosing scope, the binding's element type becomes T before the body is
// type-checked for real.
func (e *Engine) appendRefine(body []ast.Stmt, env *Env) {
	for _, s := range body {
		call, ok := singleCallStmt(s)
		if !ok {
			continue
		}
		attr, ok := call.Func.(*ast.Attribute)
		if !ok || len(call.Args) != 1 {
			continue
		}
		recv, ok := attr.Value.(*ast.Name)
		if !ok {
			continue
		}
		container, bound := env.Lookup(recv.Ident)
		if !bound {
			continue
		}
		e.inferExpr(call.Args[0], env)
		argType := exprType(call.Args[0])
		switch attr.Attr {
		case "append", "push":
			if container.Kind == KList && container.Elem.IsUnknown() {
				container.Elem = argType
			}
		case "add":
			if container.Kind == KSet && container.Elem.IsUnknown() {
				container.Elem = argType
			}
		}
	}
}

func singleCallStmt(s ast.Stmt) (*ast.Call, bool) {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return nil, false
	}
	c, ok := es.X.(*ast.Call)
	return c, ok
}

func elementTypeOf(t *Type) *Type {
	switch t.Kind {
	case KList, KSet:
		return t.Elem
	case KDict:
		return t.Key
	case KStr:
		return Str
	default:
		return Unknown()
	}
}

// refineOrCheck is the AnnAssign reassignment invariant from §3.2: a fixed
// binding's type may not silently change; conflicting reassignment raises
// TypeInconsistency instead of widening.
func (e *Engine) refineOrCheck(declared, actual *Type, pos ast.Pos) {
	if declared.IsUnknown() {
		return
	}
	if declared.Equals(actual) || actual.IsUnknown() {
		return
	}
	e.diags.Add(mgerrors.New(mgerrorsTSInconsistent(), pos,
		"cannot assign value of type %s to binding of type %s", actual, declared))
}

func mgerrorsTSInconsistent() string { return "TS010" }

// inferExpr is the flow-insensitive per-node-kind strategy table (§4.2(a)).
func (e *Engine) inferExpr(expr ast.Expr, env *Env) {
	switch x := expr.(type) {
	case *ast.Name:
		t, ok := env.Lookup(x.Ident)
		if !ok {
			t = Unknown()
		}
		x.SetType(t)

	case *ast.Constant:
		switch x.Kind {
		case ast.ConstBool:
			x.SetType(Bool) // bool before int: a distinct sub-kind (§4.2(a))
		case ast.ConstInt:
			x.SetType(Int)
		case ast.ConstFloat:
			x.SetType(Float)
		case ast.ConstStr:
			x.SetType(Str)
		default:
			x.SetType(Void)
		}

	case *ast.BinOp:
		e.inferExpr(x.Left, env)
		e.inferExpr(x.Right, env)
		x.SetType(e.binOpType(x, env))

	case *ast.UnaryOp:
		e.inferExpr(x.X, env)
		t := exprType(x.X)
		if x.Op == "not" {
			x.SetType(Bool)
		} else {
			x.SetType(t)
		}

	case *ast.BoolOp:
		for _, v := range x.Values {
			e.inferExpr(v, env)
		}
		x.SetType(Bool)

	case *ast.Compare:
		e.inferExpr(x.Left, env)
		for _, c := range x.Comps {
			e.inferExpr(c, env)
		}
		x.SetType(Bool) // comparison always yields Bool (§4.2 tie-break)

	case *ast.Call:
		e.inferCall(x, env)

	case *ast.Attribute:
		e.inferExpr(x.Value, env)
		x.SetType(Unknown()) // resolved contextually by the Call case for methods

	case *ast.Subscript:
		e.inferExpr(x.Value, env)
		e.inferExpr(x.Index, env)
		recvType := exprType(x.Value)
		x.SetType(elementTypeOf(recvType))

	case *ast.List:
		e.inferListLiteral(x, env)

	case *ast.Dict:
		e.inferDictLiteral(x, env)

	case *ast.Set:
		e.inferSetLiteral(x, env)

	case *ast.Tuple:
		elems := make([]*Type, len(x.Elts))
		for i, el := range x.Elts {
			e.inferExpr(el, env)
			elems[i] = exprType(el)
		}
		x.SetType(TupleOf(elems...))

	case *ast.ListComp:
		compEnv := env.Child()
		e.inferExpr(x.Iter, compEnv)
		elemT := elementTypeOf(exprType(x.Iter))
		if name, ok := x.Target.(*ast.Name); ok {
			compEnv.Define(name.Ident, elemT)
		}
		x.Target.SetType(elemT)
		for _, c := range x.Ifs {
			e.inferExpr(c, compEnv)
		}
		e.inferExpr(x.Elt, compEnv)
		x.SetType(List(exprType(x.Elt)))

	case *ast.SetComp:
		compEnv := env.Child()
		e.inferExpr(x.Iter, compEnv)
		elemT := elementTypeOf(exprType(x.Iter))
		if name, ok := x.Target.(*ast.Name); ok {
			compEnv.Define(name.Ident, elemT)
		}
		x.Target.SetType(elemT)
		for _, c := range x.Ifs {
			e.inferExpr(c, compEnv)
		}
		e.inferExpr(x.Elt, compEnv)
		x.SetType(Set(exprType(x.Elt)))

	case *ast.DictComp:
		compEnv := env.Child()
		e.inferExpr(x.Iter, compEnv)
		elemT := elementTypeOf(exprType(x.Iter))
		if name, ok := x.Target.(*ast.Name); ok {
			compEnv.Define(name.Ident, elemT)
		}
		x.Target.SetType(elemT)
		for _, c := range x.Ifs {
			e.inferExpr(c, compEnv)
		}
		e.inferExpr(x.Key, compEnv)
		e.inferExpr(x.Value, compEnv)
		dt := Dict(exprType(x.Key), exprType(x.Value))
		x.SetType(dt)
		e.checkDictOfLists(dt, x.Position())
	}
}

// checkDictOfLists implements §9 Q2: dict-with-list-values is rejected with
// a clear UnsupportedFeature diagnostic rather than silently generating
// broken code in targets that can't express it.
func (e *Engine) checkDictOfLists(dt *Type, pos ast.Pos) {
	if dt.Kind == KDict && dt.Val != nil && dt.Val.Kind == KList {
		e.diags.Add(mgerrors.New("TS005", pos,
			"dict with list-valued entries is not supported by every target").
			WithSuggestion("wrap the list in a small user class, or generate only for targets that support nested containers"))
	}
}

func (e *Engine) inferListLiteral(x *ast.List, env *Env) {
	if len(x.Elts) == 0 {
		x.SetType(List(Unknown()))
		return
	}
	var joined *Type
	for _, el := range x.Elts {
		e.inferExpr(el, env)
		t := exprType(el)
		if joined == nil {
			joined = t
		} else if !joined.Equals(t) {
			joined = Unknown()
		}
	}
	x.SetType(List(joined))
}

func (e *Engine) inferSetLiteral(x *ast.Set, env *Env) {
	if len(x.Elts) == 0 {
		x.SetType(Set(Unknown()))
		return
	}
	var joined *Type
	for _, el := range x.Elts {
		e.inferExpr(el, env)
		t := exprType(el)
		if joined == nil {
			joined = t
		} else if !joined.Equals(t) {
			joined = Unknown()
		}
	}
	x.SetType(Set(joined))
}

func (e *Engine) inferDictLiteral(x *ast.Dict, env *Env) {
	if len(x.Entries) == 0 {
		x.SetType(Dict(Unknown(), Unknown()))
		return
	}
	var keyT, valT *Type
	for _, ent := range x.Entries {
		e.inferExpr(ent.Key, env)
		e.inferExpr(ent.Value, env)
		k, v := exprType(ent.Key), exprType(ent.Value)
		if keyT == nil {
			keyT, valT = k, v
		} else {
			if !keyT.Equals(k) {
				keyT = Unknown()
			}
			if !valT.Equals(v) {
				valT = Unknown()
			}
		}
	}
	dt := Dict(keyT, valT)
	x.SetType(dt)
	e.checkDictOfLists(dt, x.Position())
}

// binOpType implements the §4.2(a) join-rule table, plus the §4.2
// tie-breaks for `/` vs `//` and mixed signedness.
func (e *Engine) binOpType(x *ast.BinOp, env *Env) *Type {
	l, r := exprType(x.Left), exprType(x.Right)
	if l.IsUnknown() || r.IsUnknown() {
		return Unknown()
	}
	switch x.Op {
	case "/":
		if numeric(l) && numeric(r) {
			return Float // true division always promotes to Float
		}
	case "//":
		if l.Kind == KInt && r.Kind == KInt {
			return Int // floor division preserves Int
		}
		if numeric(l) && numeric(r) {
			return Float
		}
	case "+":
		if l.Kind == KStr && r.Kind == KStr {
			return Str
		}
		if l.Kind == KList && r.Kind == KList && l.Elem.Equals(r.Elem) {
			return l
		}
		return joinNumeric(l, r, x.Position(), e)
	case "-", "*", "%", "**":
		return joinNumeric(l, r, x.Position(), e)
	case "&", "|", "^", "<<", ">>":
		if l.Kind == KInt && r.Kind == KInt {
			return Int
		}
		e.diags.Add(mgerrors.New(TS001Const(), x.Position(), "bitwise operator %q requires int operands, got %s and %s", x.Op, l, r))
		return Unknown()
	}
	e.diags.Add(mgerrors.New(TS001Const(), x.Position(), "unsupported operand types for %q: %s and %s", x.Op, l, r))
	return Unknown()
}

func TS001Const() string { return "TS001" }

func numeric(t *Type) bool { return t.Kind == KInt || t.Kind == KFloat }

func joinNumeric(l, r *Type, pos ast.Pos, e *Engine) *Type {
	if !numeric(l) || !numeric(r) {
		e.diags.Add(mgerrors.New(TS001Const(), pos, "arithmetic operator requires numeric operands, got %s and %s", l, r))
		return Unknown()
	}
	if l.Kind == KFloat || r.Kind == KFloat {
		return Float
	}
	return Int
}

// inferCall resolves Call(f) per §4.2(a): constructor calls produce a user
// type, known free functions/builtins use their declared or inferred
// return shape, and method calls on a container receiver resolve through
// the container method table (C6's concern is *emitting* the call; here we
// only need its static return type).
func (e *Engine) inferCall(x *ast.Call, env *Env) {
	for _, a := range x.Args {
		e.inferExpr(a, env)
	}
	switch fn := x.Func.(type) {
	case *ast.Name:
		if cls, ok := e.classes[fn.Ident]; ok {
			_ = cls
			x.SetType(User(fn.Ident))
			return
		}
		if sig, ok := env.Lookup(fn.Ident); ok && sig.Kind == KCallable {
			x.SetType(sig.Ret)
			return
		}
		if sig, ok := e.funcs[fn.Ident]; ok {
			x.SetType(sig.Ret)
			return
		}
		if rule, ok := LookupBuiltin(fn.Ident); ok {
			argTypes := make([]*Type, len(x.Args))
			for i, a := range x.Args {
				argTypes[i] = exprType(a)
			}
			x.SetType(rule(argTypes))
			return
		}
		x.SetType(Unknown())

	case *ast.Attribute:
		e.inferExpr(fn.Value, env)
		recvType := exprType(fn.Value)
		if kind, ok := recvType.ContainerKind(); ok {
			x.SetType(e.containerMethodReturnType(kind, fn.Attr, recvType, x.Args))
			return
		}
		if recvType.Kind == KUser {
			if sig, ok := e.funcs[recvType.Class+"."+fn.Attr]; ok {
				x.SetType(sig.Ret)
				return
			}
		}
		x.SetType(Unknown())

	default:
		x.SetType(Unknown())
	}
}

// containerMethodReturnType gives each recognized (kind, method) pair its
// result type (§3.4); methods not in the table are left to C4/C6 to reject
// as UnsupportedMethod during generation.
func (e *Engine) containerMethodReturnType(kind ContainerKind, method string, recv *Type, args []ast.Expr) *Type {
	switch kind {
	case CKVec:
		switch method {
		case "at", "pop":
			return recv.Elem
		case "size":
			return Int
		case "push", "append", "extend", "insert", "remove", "clear":
			return Void
		}
	case CKMap:
		switch method {
		case "get":
			return recv.Val
		case "contains":
			return Bool
		case "size":
			return Int
		case "keys":
			return List(recv.Key)
		case "values":
			return List(recv.Val)
		case "items":
			return List(TupleOf(recv.Key, recv.Val))
		case "insert", "set", "erase", "clear":
			return Void
		}
	case CKSet:
		switch method {
		case "contains", "discard":
			return Bool
		case "size":
			return Int
		case "union", "intersection", "difference":
			return recv
		case "insert", "add":
			return Bool
		case "erase", "remove", "clear":
			return Void
		}
	case CKStr:
		switch method {
		case "upper", "lower", "strip", "replace", "join":
			return Str
		case "split":
			return List(Str)
		case "find":
			return Int
		case "startswith", "endswith":
			return Bool
		case "len":
			return Int
		}
	}
	return Unknown()
}

// exprType reads back a node's resolved type, defaulting to Unknown for a
// not-yet-annotated node (should not happen post-inference, but keeps
// downstream code defensive without panicking).
func exprType(e ast.Expr) *Type {
	if e == nil {
		return Unknown()
	}
	if t, ok := e.Type().(*Type); ok && t != nil {
		return t
	}
	return Unknown()
}
