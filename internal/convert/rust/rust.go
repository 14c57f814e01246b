// Package rust implements C5's Rust target converter. Rust's stdlib
// (Vec/HashMap/HashSet/String) covers every C6 container operation
// natively like golang/cpp, so no C9 runtime files are needed here either.
// What's specific to this target is using C3's mutability classes (§4.3)
// to choose a parameter's borrow form: Immutable value types pass by
// value, ReadOnly containers borrow shared (`&T`), Mutable containers
// borrow exclusive (`&mut T`). The C and C++ converters also consult
// mutability.Class, only to mark ReadOnly parameters const.
package rust

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
	convert.Register(cctx.Rust, func() convert.Converter { return New() })
}

type Converter struct {
	strat   *strategy.Table
	loops   *loopconv.Table
	diags   mgerrors.Bag
	classes map[string]bool
}

func New() *Converter {
	c := &Converter{}
	c.strat = buildStrategyTable()
	c.loops = buildLoopTable(c)
	return c
}

func (c *Converter) Target() cctx.Target { return cctx.Rust }
func (c *Converter) Extension() string   { return "rs" }

var rustKeywords = map[string]bool{
	"fn": true, "let": true, "mut": true, "struct": true, "impl": true,
	"match": true, "type": true, "use": true, "pub": true, "self": true, "move": true,
}

func escape(ident string) string {
	if rustKeywords[ident] {
		return "r#" + ident
	}
	return ident
}

func (c *Converter) ConvertModule(mod *ast.Module, mutClasses mutability.Result) (map[string][]byte, []*mgerrors.Diagnostic) {
	c.classes = make(map[string]bool)
	for _, decl := range mod.Decls {
		if cls, ok := decl.(*ast.ClassDef); ok {
			c.classes[cls.Name] = true
		}
	}

	var sb strings.Builder
	sb.WriteString("use std::collections::HashMap;\nuse std::collections::HashSet;\n\n")

	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.Import:
			sb.WriteString(fmt.Sprintf("// import %s -- no TARGET equivalent in this subset\n", d.Path))
		case *ast.GlobalVar:
			c.emitGlobalVar(&sb, d)
		case *ast.ClassDef:
			c.emitClass(&sb, d, mutClasses)
		case *ast.FunctionDef:
			c.emitFunction(&sb, d, mutClasses[d.Name])
		}
	}
	return map[string][]byte{"module.rs": []byte(sb.String())}, c.diags.All()
}

func TypeName(t *types.Type) string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case types.KInt:
		return "i64"
	case types.KFloat:
		return "f64"
	case types.KBool:
		return "bool"
	case types.KStr:
		return "String"
	case types.KVoid:
		return "()"
	case types.KList:
		return fmt.Sprintf("Vec<%s>", TypeName(t.Elem))
	case types.KDict:
		return fmt.Sprintf("HashMap<%s, %s>", TypeName(t.Key), TypeName(t.Val))
	case types.KSet:
		return fmt.Sprintf("HashSet<%s>", TypeName(t.Elem))
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = TypeName(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case types.KUser:
		return t.Class
	default:
		return "()"
	}
}

func asType(st ast.SemanticType) *types.Type {
	if t, ok := st.(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

// paramForm renders a parameter's Rust declaration per its §4.3 mutability
// class: ReadOnly containers borrow shared, Mutable containers borrow
// exclusive, Immutable (value) types pass by value.
func paramForm(name string, t *types.Type, class mutability.Class) string {
	ty := TypeName(t)
	switch class {
	case mutability.ReadOnly:
		return fmt.Sprintf("%s: &%s", escape(name), ty)
	case mutability.Mutable:
		return fmt.Sprintf("%s: &mut %s", escape(name), ty)
	default:
		return fmt.Sprintf("%s: %s", escape(name), ty)
	}
}

func (c *Converter) emitGlobalVar(sb *strings.Builder, g *ast.GlobalVar) {
	ctx := cctx.New(cctx.Rust, nil)
	t := asType(g.Annotation)
	if g.Value != nil {
		sb.WriteString(fmt.Sprintf("static mut %s: %s = %s;\n", strings.ToUpper(g.Name), TypeName(t), c.emitExpr(g.Value, ctx)))
	}
}

func (c *Converter) emitClass(sb *strings.Builder, cls *ast.ClassDef, mutClasses mutability.Result) {
	sb.WriteString(fmt.Sprintf("struct %s {\n", cls.Name))
	for _, f := range cls.Fields {
		sb.WriteString(fmt.Sprintf("    %s: %s,\n", escape(f.Name), TypeName(asType(f.Annotation))))
	}
	sb.WriteString("}\n\n")
	sb.WriteString(fmt.Sprintf("impl %s {\n", cls.Name))
	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			c.emitConstructor(sb, cls, m)
			continue
		}
		c.emitMethod(sb, cls, m, mutClasses[cls.Name+"."+m.Name])
	}
	sb.WriteString("}\n\n")
}

func (c *Converter) emitConstructor(sb *strings.Builder, cls *ast.ClassDef, init *ast.FunctionDef) {
	params := make([]string, 0, len(init.Params))
	for _, p := range init.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, fmt.Sprintf("%s: %s", escape(p.Name), TypeName(asType(p.Annotation))))
	}
	sb.WriteString(fmt.Sprintf("    pub fn new(%s) -> Self {\n", strings.Join(params, ", ")))
	ctx := cctx.New(cctx.Rust, nil)
	ctx.Func, ctx.Class = "__init__", cls.Name
	ctx.Indent()
	ctx.Indent()
	for _, p := range init.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
	}
	fields := make([]string, 0, len(cls.Fields))
	for _, s := range init.Body {
		if ann, ok := s.(*ast.AnnAssign); ok {
			if attr, ok := ann.Target.(*ast.Attribute); ok {
				if recv, ok := attr.Value.(*ast.Name); ok && recv.Ident == "self" && ann.Value != nil {
					fields = append(fields, fmt.Sprintf("%s: %s", escape(attr.Attr), c.emitExpr(ann.Value, ctx)))
					continue
				}
			}
		}
	}
	sb.WriteString(fmt.Sprintf("        Self { %s }\n", strings.Join(fields, ", ")))
	sb.WriteString("    }\n\n")
}

func (c *Converter) emitMethod(sb *strings.Builder, cls *ast.ClassDef, m *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.Rust, classes)
	ctx.Func, ctx.Class = m.Name, cls.Name
	params := []string{"&mut self"}
	for _, p := range m.Params {
		if p.Name == "self" {
			continue
		}
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, paramForm(p.Name, asType(p.Annotation), ctx.MutationOf(p.Name)))
	}
	ret := TypeName(asType(m.ReturnType))
	sig := fmt.Sprintf("    pub fn %s(%s)", m.Name, strings.Join(params, ", "))
	if ret != "()" {
		sig += " -> " + ret
	}
	sb.WriteString(sig + " {\n")
	ctx.Indent()
	ctx.Indent()
	for _, s := range m.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("    }\n\n")
}

func (c *Converter) emitFunction(sb *strings.Builder, f *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.Rust, classes)
	ctx.Func = f.Name
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, paramForm(p.Name, asType(p.Annotation), ctx.MutationOf(p.Name)))
	}
	ret := TypeName(asType(f.ReturnType))
	sig := fmt.Sprintf("fn %s(%s)", escape(f.Name), strings.Join(params, ", "))
	if ret != "()" {
		sig += " -> " + ret
	}
	sb.WriteString(sig + " {\n")
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("}\n\n")
}

func (c *Converter) emitStmt(sb *strings.Builder, s ast.Stmt, ctx *cctx.Context) {
	pad := ctx.Pad()
	switch n := s.(type) {
	case *ast.AnnAssign:
		t := asType(n.Annotation)
		ctx.DeclareLocal(nameOf(n.Target), t)
		if n.Value != nil {
			sb.WriteString(fmt.Sprintf("%slet mut %s: %s = %s;\n", pad, escape(nameOf(n.Target)), TypeName(t), c.emitExpr(n.Value, ctx)))
		} else {
			sb.WriteString(fmt.Sprintf("%slet mut %s: %s = Default::default();\n", pad, escape(nameOf(n.Target)), TypeName(t)))
		}
	case *ast.Assign:
		if sub, ok := n.Target.(*ast.Subscript); ok {
			recvT, _ := sub.Value.Type().(*types.Type)
			if recvT != nil && recvT.Kind == types.KDict {
				sb.WriteString(fmt.Sprintf("%s%s.insert(%s, %s);\n", pad, c.emitExpr(sub.Value, ctx), c.emitExpr(sub.Index, ctx), c.emitExpr(n.Value, ctx)))
			} else {
				sb.WriteString(fmt.Sprintf("%s%s[%s as usize] = %s;\n", pad, c.emitExpr(sub.Value, ctx), c.emitExpr(sub.Index, ctx), c.emitExpr(n.Value, ctx)))
			}
			return
		}
		name := nameOf(n.Target)
		if _, declared := ctx.LookupLocal(name); declared {
			sb.WriteString(fmt.Sprintf("%s%s = %s;\n", pad, escape(name), c.emitExpr(n.Value, ctx)))
		} else {
			t := exprType(n.Value)
			ctx.DeclareLocal(name, t)
			sb.WriteString(fmt.Sprintf("%slet mut %s = %s;\n", pad, escape(name), c.emitExpr(n.Value, ctx)))
		}
	case *ast.AugAssign:
		sb.WriteString(fmt.Sprintf("%s%s %s= %s;\n", pad, c.emitExpr(n.Target, ctx), n.Op, c.emitExpr(n.Value, ctx)))
	case *ast.If:
		sb.WriteString(fmt.Sprintf("%sif %s {\n", pad, c.emitExpr(n.Cond, ctx)))
		ctx.Indent()
		for _, st := range n.Then {
			c.emitStmt(sb, st, ctx)
		}
		ctx.Dedent()
		if len(n.Else) > 0 {
			sb.WriteString(pad + "} else {\n")
			ctx.Indent()
			for _, st := range n.Else {
				c.emitStmt(sb, st, ctx)
			}
			ctx.Dedent()
		}
		sb.WriteString(pad + "}\n")
	case *ast.While:
		sb.WriteString(fmt.Sprintf("%swhile %s {\n", pad, c.emitExpr(n.Cond, ctx)))
		ctx.Indent()
		for _, st := range n.Body {
			c.emitStmt(sb, st, ctx)
		}
		ctx.Dedent()
		sb.WriteString(pad + "}\n")
	case *ast.For:
		c.emitFor(sb, n, ctx)
	case *ast.Return:
		if n.Value == nil {
			sb.WriteString(pad + "return;\n")
		} else {
			sb.WriteString(fmt.Sprintf("%sreturn %s;\n", pad, c.emitExpr(n.Value, ctx)))
		}
	case *ast.ExprStmt:
		sb.WriteString(fmt.Sprintf("%s%s;\n", pad, c.emitExpr(n.X, ctx)))
	case *ast.Pass:
		sb.WriteString(pad + "();\n")
	case *ast.Break:
		sb.WriteString(pad + "break;\n")
	case *ast.Continue:
		sb.WriteString(pad + "continue;\n")
	}
}

func nameOf(e ast.Expr) string {
	if n, ok := e.(*ast.Name); ok {
		return n.Ident
	}
	return "_"
}

func exprType(e ast.Expr) *types.Type {
	if t, ok := e.Type().(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

func elemTypeOfIter(iter ast.Expr) *types.Type {
	t, _ := iter.Type().(*types.Type)
	if t == nil {
		return types.Unknown()
	}
	switch t.Kind {
	case types.KList, types.KSet:
		return t.Elem
	case types.KDict:
		return t.Key
	default:
		return types.Unknown()
	}
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
	sb.WriteString(fmt.Sprintf("%sfor %s in %s.iter() {\n", pad, escape(nameOf(f.Target)), c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
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
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	if isZero(start) && isOne(step) {
		sb.WriteString(fmt.Sprintf("%sfor %s in 0..%s {\n", pad, iv, c.emitExpr(stop, ctx)))
	} else {
		sb.WriteString(fmt.Sprintf("%sfor %s in (%s..%s).step_by(%s as usize) {\n", pad, iv, c.emitExpr(start, ctx), c.emitExpr(stop, ctx), c.emitExpr(step, ctx)))
	}
	ctx.DeclareLocal(nameOf(f.Target), types.Int)
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(&sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func isZero(e ast.Expr) bool {
	c, ok := e.(*ast.Constant)
	return ok && c.Kind == ast.ConstInt && c.Int == 0
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
	sb.WriteString(fmt.Sprintf("%sfor %s in %s.iter() {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%s%s.push(%s);\n", ctx.Pad(), escape(accumulator), c.emitExpr(appended, ctx)))
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
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
	sb.WriteString(fmt.Sprintf("%sfor %s in %s.iter() {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	aug := f.Body[0].(*ast.AugAssign)
	sb.WriteString(fmt.Sprintf("%s%s %s= %s;\n", ctx.Pad(), escape(accumulator), op, c.emitExpr(aug.Value, ctx)))
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func (c *Converter) emitGeneralIteration(f *ast.For, ctx *cctx.Context) (string, error) {
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sfor %s in %s.iter() {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(&sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func (c *Converter) emitExpr(e ast.Expr, ctx *cctx.Context) string {
	switch n := e.(type) {
	case *ast.Name:
		if n.Ident == "self" {
			return "self"
		}
		return escape(n.Ident)
	case *ast.Constant:
		return emitConstant(n)
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", c.emitExpr(n.Left, ctx), rustOp(n.Op), c.emitExpr(n.Right, ctx))
	case *ast.UnaryOp:
		if n.Op == "not" {
			return fmt.Sprintf("!(%s)", c.emitExpr(n.X, ctx))
		}
		return fmt.Sprintf("(-%s)", c.emitExpr(n.X, ctx))
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
		return fmt.Sprintf("%s.%s", c.emitExpr(n.Value, ctx), escape(n.Attr))
	case *ast.Subscript:
		recvT, _ := n.Value.Type().(*types.Type)
		if recvT != nil && recvT.Kind == types.KDict {
			return fmt.Sprintf("%s[&%s]", c.emitExpr(n.Value, ctx), c.emitExpr(n.Index, ctx))
		}
		return fmt.Sprintf("%s[%s as usize]", c.emitExpr(n.Value, ctx), c.emitExpr(n.Index, ctx))
	case *ast.List:
		parts := make([]string, len(n.Elts))
		for i, el := range n.Elts {
			parts[i] = c.emitExpr(el, ctx)
		}
		return "vec![" + strings.Join(parts, ", ") + "]"
	default:
		return "Default::default() /* unsupported expression */"
	}
}

func emitConstant(n *ast.Constant) string {
	switch n.Kind {
	case ast.ConstInt:
		return fmt.Sprintf("%d", n.Int)
	case ast.ConstFloat:
		return fmt.Sprintf("%g", n.Float)
	case ast.ConstBool:
		return fmt.Sprintf("%t", n.Bool)
	case ast.ConstStr:
		return fmt.Sprintf("%q.to_string()", n.Str)
	default:
		return "0"
	}
}

func rustOp(op string) string {
	if op == "//" {
		return "/"
	}
	return op
}

func (c *Converter) emitCompare(n *ast.Compare, ctx *cctx.Context) string {
	parts := make([]string, 0, len(n.Ops))
	left := c.emitExpr(n.Left, ctx)
	for i, op := range n.Ops {
		right := c.emitExpr(n.Comps[i], ctx)
		if op == "in" {
			parts = append(parts, fmt.Sprintf("%s.contains(&%s)", right, left))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s %s", left, op, right))
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
					"method %q is not supported for this container on the Rust target", attr.Attr))
				return "Default::default() /* unsupported method */"
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
	return fmt.Sprintf("%s(%s)", c.emitExpr(n.Func, ctx), strings.Join(args, ", "))
}

func (c *Converter) emitBuiltinCall(name string, n *ast.Call, ctx *cctx.Context) (string, bool) {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.emitExpr(a, ctx)
	}
	switch name {
	case "len":
		return fmt.Sprintf("%s.len() as i64", args[0]), true
	case "print":
		return fmt.Sprintf("println!(\"{:?}\", %s)", strings.Join(args, ", ")), true
	case "abs":
		return fmt.Sprintf("%s.abs()", args[0]), true
	case "range":
		return "", false
	}
	if c.classes[name] {
		return fmt.Sprintf("%s::new(%s)", name, strings.Join(args, ", ")), true
	}
	return "", false
}

func buildStrategyTable() *strategy.Table {
	t := strategy.NewTable()

	t.Register(types.CKVec, "append", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.push(%s)", obj, args[0]), nil
	})
	t.Register(types.CKVec, "push", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.push(%s)", obj, args[0]), nil
	})
	t.Register(types.CKVec, "pop", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.pop()", obj), nil
	})
	t.Register(types.CKVec, "at", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s[%s as usize]", obj, args[0]), nil
	})
	t.Register(types.CKVec, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.len() as i64", obj), nil
	})
	t.Register(types.CKVec, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.clear()", obj), nil
	})
	t.Register(types.CKVec, "insert", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.insert(%s as usize, %s)", obj, args[0], args[1]), nil
	})
	t.Register(types.CKVec, "remove", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.remove(%s as usize)", obj, args[0]), nil
	})

	t.Register(types.CKMap, "insert", mapSet)
	t.Register(types.CKMap, "set", mapSet)
	t.Register(types.CKMap, "get", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s[&%s]", obj, args[0]), nil
	})
	t.Register(types.CKMap, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.contains_key(&%s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.remove(&%s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.len() as i64", obj), nil
	})
	t.Register(types.CKMap, "keys", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.keys().cloned().collect::<Vec<_>>()", obj), nil
	})
	t.Register(types.CKMap, "values", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.values().cloned().collect::<Vec<_>>()", obj), nil
	})
	t.Register(types.CKMap, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.clear()", obj), nil
	})

	t.Register(types.CKSet, "insert", setAdd)
	t.Register(types.CKSet, "add", setAdd)
	t.Register(types.CKSet, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.contains(&%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.remove(&%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "remove", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.remove(&%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.len() as i64", obj), nil
	})
	t.Register(types.CKSet, "union", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.union(&%s).cloned().collect::<HashSet<_>>()", obj, args[0]), nil
	})
	t.Register(types.CKSet, "intersection", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.intersection(&%s).cloned().collect::<HashSet<_>>()", obj, args[0]), nil
	})
	t.Register(types.CKSet, "difference", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.difference(&%s).cloned().collect::<HashSet<_>>()", obj, args[0]), nil
	})

	t.Register(types.CKStr, "upper", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.to_uppercase()", obj), nil
	})
	t.Register(types.CKStr, "lower", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.to_lowercase()", obj), nil
	})
	t.Register(types.CKStr, "strip", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.trim().to_string()", obj), nil
	})
	t.Register(types.CKStr, "split", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.split(%s.as_str()).map(|s| s.to_string()).collect::<Vec<_>>()", obj, args[0]), nil
	})
	t.Register(types.CKStr, "join", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.join(%s.as_str())", args[0], obj), nil
	})
	t.Register(types.CKStr, "replace", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.replace(%s.as_str(), %s.as_str())", obj, args[0], args[1]), nil
	})
	t.Register(types.CKStr, "find", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.find(%s.as_str()).map(|i| i as i64).unwrap_or(-1)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "startswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.starts_with(%s.as_str())", obj, args[0]), nil
	})
	t.Register(types.CKStr, "endswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.ends_with(%s.as_str())", obj, args[0]), nil
	})

	return t
}

func mapSet(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("%s.insert(%s, %s)", obj, args[0], args[1]), nil
}

func setAdd(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("%s.insert(%s)", obj, args[0]), nil
}
