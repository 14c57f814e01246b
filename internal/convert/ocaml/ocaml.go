// Package ocaml implements C5's OCaml target converter. Unlike Haskell,
// OCaml supports `ref` cells and native `for`/`while` loops, so this
// converter stays statement-based like golang/c/cpp rather than lowering
// to pure expressions -- deliberately still lighter-weight than those
// three per §4.5's per-target scope allowance (fewer C6 method entries,
// no comprehension support), grounded on the same visitor shape.
// SOURCE classes (fields + methods, no inheritance) map onto OCaml's own
// object system (`class ... object ... end`), a closer native fit than
// Go's struct-plus-functions or C's struct-plus-free-functions.
package ocaml

import (
	"fmt"
	"strings"

	"github.com/shakfu/mgen-sub001/internal/ast"
	"github.com/shakfu/mgen-sub001/internal/convert"
	"github.com/shakfu/mgen-sub001/internal/convert/cctx"
	"github.com/shakfu/mgen-sub001/internal/convert/loopconv"
	"github.com/shakfu/mgen-sub001/internal/convert/strategy"
	mgerrors "github.com/shakfu/mgen-sub001/internal/errors"
	"github.com/shakfu/mgen-sub001/internal/mutability"
	"github.com/shakfu/mgen-sub001/internal/types"
)

func init() {
	convert.Register(cctx.OCaml, func() convert.Converter { return New() })
}

type Converter struct {
	strat *strategy.Table
	loops *loopconv.Table
	diags mgerrors.Bag
}

func New() *Converter {
	c := &Converter{}
	c.strat = buildStrategyTable()
	c.loops = buildLoopTable(c)
	return c
}

func (c *Converter) Target() cctx.Target { return cctx.OCaml }
func (c *Converter) Extension() string   { return "ml" }

func (c *Converter) ConvertModule(mod *ast.Module, mutClasses mutability.Result) (map[string][]byte, []*mgerrors.Diagnostic) {
	var sb strings.Builder
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.Import:
			sb.WriteString(fmt.Sprintf("(* import %s -- SOURCE imports have no TARGET equivalent in this subset *)\n", d.Path))
		case *ast.GlobalVar:
			c.emitGlobalVar(&sb, d)
		case *ast.ClassDef:
			c.emitClass(&sb, d, mutClasses)
		case *ast.FunctionDef:
			c.emitFunction(&sb, d, mutClasses[d.Name])
		}
	}
	return map[string][]byte{"module.ml": []byte(sb.String())}, c.diags.All()
}

func TypeName(t *types.Type) string {
	if t == nil {
		return "unit"
	}
	switch t.Kind {
	case types.KInt:
		return "int"
	case types.KFloat:
		return "float"
	case types.KBool:
		return "bool"
	case types.KStr:
		return "string"
	case types.KVoid:
		return "unit"
	case types.KList:
		return TypeName(t.Elem) + " list ref"
	case types.KDict:
		return fmt.Sprintf("(%s, %s) Hashtbl.t", TypeName(t.Key), TypeName(t.Val))
	case types.KSet:
		return fmt.Sprintf("(%s, unit) Hashtbl.t", TypeName(t.Elem))
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = TypeName(e)
		}
		return "(" + strings.Join(parts, " * ") + ")"
	case types.KUser:
		return t.Class + " t"
	default:
		return "unit"
	}
}

func asType(st ast.SemanticType) *types.Type {
	if t, ok := st.(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

var ocamlKeywords = map[string]bool{
	"let": true, "rec": true, "and": true, "in": true, "type": true,
	"val": true, "method": true, "object": true, "class": true, "end": true, "mutable": true, "begin": true,
}

func escape(ident string) string {
	if ocamlKeywords[ident] {
		return ident + "_"
	}
	return ident
}

func (c *Converter) emitGlobalVar(sb *strings.Builder, g *ast.GlobalVar) {
	ctx := cctx.New(cctx.OCaml, nil)
	if g.Value != nil {
		sb.WriteString(fmt.Sprintf("let %s : %s = %s\n\n", escape(g.Name), TypeName(asType(g.Annotation)), c.emitExpr(g.Value, ctx)))
	}
}

// emitClass renders a SOURCE class as an OCaml object type: fields become
// `val mutable` bindings, __init__'s parameters become the class's own
// constructor parameters, and methods become `method` entries with `self`
// available as the implicit `(self)` binder.
func (c *Converter) emitClass(sb *strings.Builder, cls *ast.ClassDef, mutClasses mutability.Result) {
	var initFn *ast.FunctionDef
	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			initFn = m
		}
	}
	ctorParams := []string{}
	if initFn != nil {
		for _, p := range initFn.Params {
			if p.Name == "self" {
				continue
			}
			ctorParams = append(ctorParams, fmt.Sprintf("(%s : %s)", escape(p.Name), TypeName(asType(p.Annotation))))
		}
	}
	sb.WriteString(fmt.Sprintf("class %s %s = object (self)\n", strings.ToLower(cls.Name), strings.Join(ctorParams, " ")))
	if initFn != nil {
		ctx := cctx.New(cctx.OCaml, nil)
		for _, p := range initFn.Params {
			ctx.DeclareLocal(p.Name, asType(p.Annotation))
		}
		for _, s := range initFn.Body {
			if ann, ok := s.(*ast.AnnAssign); ok {
				if attr, ok := ann.Target.(*ast.Attribute); ok {
					if recv, ok := attr.Value.(*ast.Name); ok && recv.Ident == "self" && ann.Value != nil {
						sb.WriteString(fmt.Sprintf("  val mutable %s = %s\n", escape(attr.Attr), c.emitExpr(ann.Value, ctx)))
						continue
					}
				}
			}
		}
	} else {
		for _, f := range cls.Fields {
			sb.WriteString(fmt.Sprintf("  val mutable %s = %s\n", escape(f.Name), zeroValue(asType(f.Annotation))))
		}
	}
	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			continue
		}
		c.emitMethod(sb, cls, m, mutClasses[cls.Name+"."+m.Name])
	}
	sb.WriteString("end\n\n")
}

func zeroValue(t *types.Type) string {
	switch t.Kind {
	case types.KInt:
		return "0"
	case types.KFloat:
		return "0.0"
	case types.KBool:
		return "false"
	case types.KStr:
		return "\"\""
	case types.KList:
		return "ref []"
	case types.KDict, types.KSet:
		return "Hashtbl.create 16"
	default:
		return "Obj.magic 0"
	}
}

func (c *Converter) emitMethod(sb *strings.Builder, cls *ast.ClassDef, m *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.OCaml, classes)
	ctx.Func, ctx.Class = m.Name, cls.Name
	params := []string{}
	for _, p := range m.Params {
		if p.Name == "self" {
			continue
		}
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, fmt.Sprintf("(%s : %s)", escape(p.Name), TypeName(asType(p.Annotation))))
	}
	if len(params) == 0 {
		params = []string{"()"}
	}
	sb.WriteString(fmt.Sprintf("  method %s %s =\n", escape(m.Name), strings.Join(params, " ")))
	ctx.Indent()
	ctx.Indent()
	for _, s := range m.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("\n")
}

func (c *Converter) emitFunction(sb *strings.Builder, f *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.OCaml, classes)
	ctx.Func = f.Name
	params := []string{}
	for _, p := range f.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, fmt.Sprintf("(%s : %s)", escape(p.Name), TypeName(asType(p.Annotation))))
	}
	if len(params) == 0 {
		params = []string{"()"}
	}
	sb.WriteString(fmt.Sprintf("let rec %s %s : %s =\n", escape(f.Name), strings.Join(params, " "), TypeName(asType(f.ReturnType))))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("\n\n")
}

func (c *Converter) emitStmt(sb *strings.Builder, s ast.Stmt, ctx *cctx.Context) {
	pad := ctx.Pad()
	switch n := s.(type) {
	case *ast.AnnAssign:
		t := asType(n.Annotation)
		ctx.DeclareLocal(nameOf(n.Target), t)
		val := zeroValue(t)
		if n.Value != nil {
			val = c.emitExpr(n.Value, ctx)
		}
		if t.Kind == types.KInt || t.Kind == types.KFloat || t.Kind == types.KBool || t.Kind == types.KStr {
			sb.WriteString(fmt.Sprintf("%slet %s = ref (%s) in\n", pad, escape(nameOf(n.Target)), val))
		} else {
			sb.WriteString(fmt.Sprintf("%slet %s = %s in\n", pad, escape(nameOf(n.Target)), val))
		}
	case *ast.Assign:
		if sub, ok := n.Target.(*ast.Subscript); ok {
			recvT := typeOf(sub.Value)
			if recvT.Kind == types.KDict || recvT.Kind == types.KSet {
				sb.WriteString(fmt.Sprintf("%sHashtbl.replace %s %s %s;\n", pad, c.emitExpr(sub.Value, ctx), c.emitExpr(sub.Index, ctx), c.emitExpr(n.Value, ctx)))
			} else {
				sb.WriteString(fmt.Sprintf("%s%s := List.mapi (fun __i __x -> if __i = %s then %s else __x) !(%s);\n", pad, c.emitExpr(sub.Value, ctx), c.emitExpr(sub.Index, ctx), c.emitExpr(n.Value, ctx), c.emitExpr(sub.Value, ctx)))
			}
			return
		}
		sb.WriteString(fmt.Sprintf("%s%s := %s;\n", pad, escape(nameOf(n.Target)), c.emitExpr(n.Value, ctx)))
	case *ast.AugAssign:
		sb.WriteString(fmt.Sprintf("%s%s := !%s %s %s;\n", pad, escape(nameOf(n.Target)), escape(nameOf(n.Target)), n.Op, c.emitExpr(n.Value, ctx)))
	case *ast.If:
		sb.WriteString(fmt.Sprintf("%sif %s then begin\n", pad, c.emitExpr(n.Cond, ctx)))
		ctx.Indent()
		for _, st := range n.Then {
			c.emitStmt(sb, st, ctx)
		}
		ctx.Dedent()
		if len(n.Else) > 0 {
			sb.WriteString(pad + "end else begin\n")
			ctx.Indent()
			for _, st := range n.Else {
				c.emitStmt(sb, st, ctx)
			}
			ctx.Dedent()
		}
		sb.WriteString(pad + "end;\n")
	case *ast.While:
		sb.WriteString(fmt.Sprintf("%swhile %s do\n", pad, c.emitExpr(n.Cond, ctx)))
		ctx.Indent()
		for _, st := range n.Body {
			c.emitStmt(sb, st, ctx)
		}
		ctx.Dedent()
		sb.WriteString(pad + "done;\n")
	case *ast.For:
		c.emitFor(sb, n, ctx)
	case *ast.Return:
		if n.Value == nil {
			sb.WriteString(pad + "()\n")
		} else {
			sb.WriteString(fmt.Sprintf("%s%s\n", pad, c.emitExpr(n.Value, ctx)))
		}
	case *ast.ExprStmt:
		sb.WriteString(fmt.Sprintf("%s%s;\n", pad, c.emitExpr(n.X, ctx)))
	case *ast.Pass:
		sb.WriteString(pad + "();\n")
	case *ast.Break, *ast.Continue:
		c.diags.Add(mgerrors.New(mgerrors.GenUnsupportedMethod, s.Position(),
			"break/continue have no direct OCaml for/while equivalent; express the loop as a recursive function in SOURCE"))
		sb.WriteString(pad + "(* break/continue unsupported on this target *)\n")
	}
}

func nameOf(e ast.Expr) string {
	if n, ok := e.(*ast.Name); ok {
		return n.Ident
	}
	return "_"
}

func typeOf(e ast.Expr) *types.Type {
	if t, ok := e.Type().(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

func elementOrValue(t *types.Type) *types.Type {
	switch t.Kind {
	case types.KDict:
		return t.Val
	case types.KList, types.KSet:
		return t.Elem
	default:
		return types.Str
	}
}

func (c *Converter) emitFor(sb *strings.Builder, f *ast.For, ctx *cctx.Context) {
	if out, err := c.loops.Convert(f, ctx); err == nil {
		sb.WriteString(out)
		return
	}
	pad := ctx.Pad()
	sb.WriteString(fmt.Sprintf("%sList.iter (fun %s ->\n", pad, escape(nameOf(f.Target))))
	ctx.DeclareLocal(nameOf(f.Target), elementOrValue(typeOf(f.Iter)))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(fmt.Sprintf("%s) !(%s);\n", pad, c.emitExpr(f.Iter, ctx)))
}

func buildLoopTable(c *Converter) *loopconv.Table {
	return loopconv.NewTable(
		loopconv.Strategy{Pattern: loopconv.RangeIndexed, Match: loopconv.MatchRangeIndexed, Emit: c.emitRangeIndexed},
		loopconv.Strategy{Pattern: loopconv.AppendBuild, Match: loopconv.MatchAppendBuild, Emit: c.emitAppendBuild},
		loopconv.Strategy{Pattern: loopconv.Accumulation, Match: loopconv.MatchAccumulation, Emit: c.emitAccumulation},
		loopconv.Strategy{Pattern: loopconv.GeneralIteration, Match: loopconv.MatchGeneral, Emit: c.emitGeneralIteration},
	)
}

func (c *Converter) emitRangeIndexed(f *ast.For, ctx *cctx.Context) (string, error) {
	start, stop, step := loopconv.RangeArgs(f)
	if !isOne(step) {
		return "", fmt.Errorf("stepped range not supported by OCaml's native for")
	}
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sfor %s = %s to (%s - 1) do\n", pad, iv, c.emitExpr(start, ctx), c.emitExpr(stop, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), types.Int)
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(&sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(pad + "done;\n")
	return sb.String(), nil
}

func isOne(e ast.Expr) bool {
	c, ok := e.(*ast.Constant)
	return ok && c.Kind == ast.ConstInt && c.Int == 1
}

func (c *Converter) emitAppendBuild(f *ast.For, ctx *cctx.Context) (string, error) {
	accumulator, appended, ok := loopconv.AppendBuildTarget(f)
	if !ok {
		return "", fmt.Errorf("not an append-build loop")
	}
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sList.iter (fun %s ->\n", pad, iv))
	ctx.DeclareLocal(nameOf(f.Target), elementOrValue(typeOf(f.Iter)))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%s%s := !%s @ [%s]\n", ctx.Pad(), escape(accumulator), escape(accumulator), c.emitExpr(appended, ctx)))
	ctx.Dedent()
	sb.WriteString(fmt.Sprintf("%s) !(%s);\n", pad, c.emitExpr(f.Iter, ctx)))
	return sb.String(), nil
}

func (c *Converter) emitAccumulation(f *ast.For, ctx *cctx.Context) (string, error) {
	accumulator, op, ok := loopconv.AccumulationTarget(f)
	if !ok {
		return "", fmt.Errorf("not an accumulation loop")
	}
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sList.iter (fun %s ->\n", pad, iv))
	ctx.DeclareLocal(nameOf(f.Target), elementOrValue(typeOf(f.Iter)))
	ctx.Indent()
	aug := f.Body[0].(*ast.AugAssign)
	sb.WriteString(fmt.Sprintf("%s%s := !%s %s %s\n", ctx.Pad(), escape(accumulator), escape(accumulator), op, c.emitExpr(aug.Value, ctx)))
	ctx.Dedent()
	sb.WriteString(fmt.Sprintf("%s) !(%s);\n", pad, c.emitExpr(f.Iter, ctx)))
	return sb.String(), nil
}

func (c *Converter) emitGeneralIteration(f *ast.For, ctx *cctx.Context) (string, error) {
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sList.iter (fun %s ->\n", pad, iv))
	ctx.DeclareLocal(nameOf(f.Target), elementOrValue(typeOf(f.Iter)))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(&sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(fmt.Sprintf("%s) !(%s);\n", pad, c.emitExpr(f.Iter, ctx)))
	return sb.String(), nil
}

func (c *Converter) emitExpr(e ast.Expr, ctx *cctx.Context) string {
	switch n := e.(type) {
	case *ast.Name:
		if n.Ident == "self" {
			return "self"
		}
		if t, ok := ctx.LookupLocal(n.Ident); ok && isScalar(t) {
			return "!" + escape(n.Ident)
		}
		return escape(n.Ident)
	case *ast.Constant:
		return emitConstant(n)
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", c.emitExpr(n.Left, ctx), ocamlOp(n), c.emitExpr(n.Right, ctx))
	case *ast.UnaryOp:
		if n.Op == "not" {
			return fmt.Sprintf("(not %s)", c.emitExpr(n.X, ctx))
		}
		return fmt.Sprintf("(- %s)", c.emitExpr(n.X, ctx))
	case *ast.BoolOp:
		op := "&&"
		if n.Op == "or" {
			op = "||"
		}
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = c.emitExpr(v, ctx)
		}
		return "(" + strings.Join(parts, " "+op+" ") + ")"
	case *ast.Compare:
		return c.emitCompare(n, ctx)
	case *ast.Call:
		return c.emitCall(n, ctx)
	case *ast.Attribute:
		return fmt.Sprintf("%s#%s", c.emitExpr(n.Value, ctx), escape(n.Attr))
	case *ast.Subscript:
		recvT := typeOf(n.Value)
		if recvT.Kind == types.KDict {
			return fmt.Sprintf("(Hashtbl.find %s %s)", c.emitExpr(n.Value, ctx), c.emitExpr(n.Index, ctx))
		}
		return fmt.Sprintf("(List.nth !(%s) %s)", c.emitExpr(n.Value, ctx), c.emitExpr(n.Index, ctx))
	case *ast.List:
		parts := make([]string, len(n.Elts))
		for i, el := range n.Elts {
			parts[i] = c.emitExpr(el, ctx)
		}
		return "ref [" + strings.Join(parts, "; ") + "]"
	default:
		return "(Obj.magic 0) (* unsupported expression *)"
	}
}

func isScalar(t *types.Type) bool {
	switch t.Kind {
	case types.KInt, types.KFloat, types.KBool, types.KStr:
		return true
	default:
		return false
	}
}

func emitConstant(n *ast.Constant) string {
	switch n.Kind {
	case ast.ConstInt:
		return fmt.Sprintf("%d", n.Int)
	case ast.ConstFloat:
		return fmt.Sprintf("%g", n.Float)
	case ast.ConstBool:
		if n.Bool {
			return "true"
		}
		return "false"
	case ast.ConstStr:
		return fmt.Sprintf("%q", n.Str)
	default:
		return "()"
	}
}

func ocamlOp(n *ast.BinOp) string {
	leftFloat := false
	if t := typeOf(n.Left); t.Kind == types.KFloat {
		leftFloat = true
	}
	switch n.Op {
	case "//":
		return "/"
	case "+", "-", "*", "/":
		if leftFloat {
			return n.Op + "."
		}
		return n.Op
	default:
		return n.Op
	}
}

func (c *Converter) emitCompare(n *ast.Compare, ctx *cctx.Context) string {
	parts := make([]string, 0, len(n.Ops))
	left := c.emitExpr(n.Left, ctx)
	for i, op := range n.Ops {
		right := c.emitExpr(n.Comps[i], ctx)
		switch op {
		case "in":
			recvT := typeOf(n.Comps[i])
			if recvT.Kind == types.KDict || recvT.Kind == types.KSet {
				parts = append(parts, fmt.Sprintf("(Hashtbl.mem %s %s)", right, left))
			} else {
				parts = append(parts, fmt.Sprintf("(List.mem %s !(%s))", left, right))
			}
		case "!=":
			parts = append(parts, fmt.Sprintf("(%s <> %s)", left, right))
		default:
			parts = append(parts, fmt.Sprintf("(%s %s %s)", left, op, right))
		}
		left = right
	}
	return "(" + strings.Join(parts, " && ") + ")"
}

func (c *Converter) emitCall(n *ast.Call, ctx *cctx.Context) string {
	if attr, ok := n.Func.(*ast.Attribute); ok {
		if recvType, ok := attr.Value.Type().(*types.Type); ok {
			if kind, isContainer := recvType.ContainerKind(); isContainer {
				obj := c.emitExpr(attr.Value, ctx)
				args := make([]string, len(n.Args))
				for i, a := range n.Args {
					args[i] = c.emitExpr(a, ctx)
				}
				elem := TypeName(elementOrValue(recvType))
				if out, err := c.strat.Translate(kind, attr.Attr, obj, args, elem, ctx); err == nil {
					return out
				}
				c.diags.Add(mgerrors.New(mgerrors.GenUnsupportedMethod, n.Position(),
					"method %q is not supported for this container on the OCaml target", attr.Attr))
				return "(Obj.magic 0) (* unsupported method *)"
			}
		}
	}
	if name, ok := n.Func.(*ast.Name); ok {
		if out, handled := c.emitBuiltinCall(name.Ident, n, ctx); handled {
			return out
		}
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.emitExpr(a, ctx)
	}
	return fmt.Sprintf("(%s %s)", c.emitExpr(n.Func, ctx), strings.Join(args, " "))
}

func (c *Converter) emitBuiltinCall(name string, n *ast.Call, ctx *cctx.Context) (string, bool) {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.emitExpr(a, ctx)
	}
	switch name {
	case "len":
		if len(n.Args) == 1 {
			if t := typeOf(n.Args[0]); t.Kind == types.KDict || t.Kind == types.KSet {
				return fmt.Sprintf("(Hashtbl.length %s)", args[0]), true
			}
		}
		return fmt.Sprintf("(List.length !(%s))", args[0]), true
	case "print":
		return fmt.Sprintf("(print_endline %s)", strings.Join(args, " ")), true
	case "abs":
		return fmt.Sprintf("(abs %s)", args[0]), true
	}
	return "", false
}

func buildStrategyTable() *strategy.Table {
	t := strategy.NewTable()

	t.Register(types.CKVec, "append", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s := !%s @ [%s])", obj, obj, args[0]), nil
	})
	t.Register(types.CKVec, "at", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(List.nth !%s %s)", obj, args[0]), nil
	})
	t.Register(types.CKVec, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(List.length !%s)", obj), nil
	})
	t.Register(types.CKVec, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s := [])", obj), nil
	})

	t.Register(types.CKMap, "insert", mapSet)
	t.Register(types.CKMap, "set", mapSet)
	t.Register(types.CKMap, "get", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.find %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.mem %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.remove %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.length %s)", obj), nil
	})
	t.Register(types.CKMap, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.reset %s)", obj), nil
	})

	t.Register(types.CKSet, "insert", setAdd)
	t.Register(types.CKSet, "add", setAdd)
	t.Register(types.CKSet, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.mem %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.remove %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Hashtbl.length %s)", obj), nil
	})

	t.Register(types.CKStr, "upper", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(String.uppercase_ascii %s)", obj), nil
	})
	t.Register(types.CKStr, "lower", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(String.lowercase_ascii %s)", obj), nil
	})
	t.Register(types.CKStr, "strip", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(String.trim %s)", obj), nil
	})
	t.Register(types.CKStr, "split", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(ref (String.split_on_char %s.[0] %s))", args[0], obj), nil
	})
	t.Register(types.CKStr, "join", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(String.concat %s !%s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "startswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(String.length %s >= String.length %s && String.sub %s 0 (String.length %s) = %s)", obj, args[0], obj, args[0], args[0]), nil
	})

	return t
}

func mapSet(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("(Hashtbl.replace %s %s %s)", obj, args[0], args[1]), nil
}

func setAdd(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("(Hashtbl.replace %s %s ())", obj, args[0]), nil
}
