// Package c implements C5's C target converter: the one target (besides
// llvmir) that exercises the C9 runtime contract (internal/runtime) rather
// than a native stdlib container. Structurally it mirrors
// internal/convert/golang (same cctx/strategy/loopconv wiring); where it
// differs is type mapping (type-erased mgen_vec/mgen_map/mgen_set/mgen_str
// instead of Go's native slice/map) and the need to track, per module,
// which runtime components got Required so they can be copied into the
// output alongside the generated .c file.
package c

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
	"github.com/shakfu/mgen-sub001/internal/runtime"
	"github.com/shakfu/mgen-sub001/internal/types"
)

func init() {
	convert.Register(cctx.C, func() convert.Converter { return New() })
}

type Converter struct {
	strat    *strategy.Table
	loops    *loopconv.Table
	diags    mgerrors.Bag
	classes  map[string]bool
	requires map[runtime.Component]bool
}

func New() *Converter {
	c := &Converter{requires: make(map[runtime.Component]bool)}
	c.strat = buildStrategyTable()
	c.loops = buildLoopTable(c)
	return c
}

func (c *Converter) Target() cctx.Target { return cctx.C }
func (c *Converter) Extension() string   { return "c" }

var cKeywords = map[string]bool{
	"int": true, "char": true, "float": true, "double": true, "void": true,
	"struct": true, "union": true, "return": true, "if": true, "else": true,
	"while": true, "for": true, "break": true, "continue": true, "static": true,
	"const": true, "typedef": true, "switch": true, "case": true, "default": true,
}

func escape(ident string) string {
	if cKeywords[ident] {
		return ident + "_"
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

	var body strings.Builder
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.Import:
			body.WriteString(fmt.Sprintf("/* import %s -- no TARGET equivalent in this subset */\n", d.Path))
		case *ast.GlobalVar:
			c.emitGlobalVar(&body, d)
		case *ast.ClassDef:
			c.emitClass(&body, d, mutClasses)
		case *ast.FunctionDef:
			c.emitFunction(&body, d, mutClasses[d.Name])
		}
	}

	var header strings.Builder
	header.WriteString("#include <stdint.h>\n#include <stdbool.h>\n#include <stdio.h>\n")
	if c.requires[runtime.Vec] {
		header.WriteString("#include \"runtime/mgen_vec.h\"\n")
	}
	if c.requires[runtime.Map] {
		header.WriteString("#include \"runtime/mgen_map.h\"\n")
	}
	if c.requires[runtime.Set] {
		header.WriteString("#include \"runtime/mgen_set.h\"\n")
	}
	if c.requires[runtime.Str] {
		header.WriteString("#include \"runtime/mgen_str.h\"\n")
	}
	header.WriteString("\n")

	out := map[string][]byte{"module.c": []byte(header.String() + body.String())}
	for path, contents := range runtime.CFiles(c.requires) {
		out[path] = contents
	}
	return out, c.diags.All()
}

// ---- Type mapping ----

func TypeName(t *types.Type) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case types.KInt:
		return "int64_t"
	case types.KFloat:
		return "double"
	case types.KBool:
		return "bool"
	case types.KStr:
		return "mgen_str"
	case types.KVoid:
		return "void"
	case types.KList:
		return "mgen_vec"
	case types.KDict:
		return "mgen_map"
	case types.KSet:
		return "mgen_set"
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = TypeName(e)
		}
		return fmt.Sprintf("struct { %s }", joinFields(parts))
	case types.KUser:
		return t.Class + " *"
	default:
		return "void *"
	}
}

func joinFields(parts []string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprintf("%s f%d;", p, i)
	}
	return strings.Join(out, " ")
}

func asType(st ast.SemanticType) *types.Type {
	if t, ok := st.(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

func hashFnFor(key *types.Type) (hash, eq string) {
	if key != nil && key.Kind == types.KStr {
		return "mgen_hash_cstr", "mgen_eq_cstr"
	}
	return "mgen_hash_int64", "mgen_eq_int64"
}

// ---- Declarations ----

func (c *Converter) emitGlobalVar(sb *strings.Builder, g *ast.GlobalVar) {
	ctx := cctx.New(cctx.C, nil)
	t := asType(g.Annotation)
	if g.Value != nil {
		sb.WriteString(fmt.Sprintf("%s %s = %s;\n", TypeName(t), escape(g.Name), c.emitExpr(g.Value, ctx)))
	} else {
		sb.WriteString(fmt.Sprintf("%s %s;\n", TypeName(t), escape(g.Name)))
	}
}

func (c *Converter) emitClass(sb *strings.Builder, cls *ast.ClassDef, mutClasses mutability.Result) {
	sb.WriteString(fmt.Sprintf("typedef struct %s {\n", cls.Name))
	for _, f := range cls.Fields {
		sb.WriteString(fmt.Sprintf("    %s %s;\n", TypeName(asType(f.Annotation)), escape(f.Name)))
	}
	sb.WriteString(fmt.Sprintf("} %s;\n\n", cls.Name))

	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			c.emitConstructor(sb, cls, m)
			continue
		}
		c.emitMethod(sb, cls, m, mutClasses[cls.Name+"."+m.Name])
	}
}

func (c *Converter) emitConstructor(sb *strings.Builder, cls *ast.ClassDef, init *ast.FunctionDef) {
	params := make([]string, 0, len(init.Params))
	for _, p := range init.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", TypeName(asType(p.Annotation)), escape(p.Name)))
	}
	sb.WriteString(fmt.Sprintf("%s *%s_new(%s) {\n", cls.Name, cls.Name, strings.Join(params, ", ")))
	sb.WriteString(fmt.Sprintf("    %s *self = (%s *)malloc(sizeof(%s));\n", cls.Name, cls.Name, cls.Name))
	ctx := cctx.New(cctx.C, nil)
	ctx.Func, ctx.Class = "__init__", cls.Name
	ctx.Indent()
	for _, p := range init.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
	}
	for _, s := range init.Body {
		if ann, ok := s.(*ast.AnnAssign); ok {
			if attr, ok := ann.Target.(*ast.Attribute); ok {
				if recv, ok := attr.Value.(*ast.Name); ok && recv.Ident == "self" && ann.Value != nil {
					sb.WriteString(fmt.Sprintf("    self->%s = %s;\n", escape(attr.Attr), c.emitExpr(ann.Value, ctx)))
					continue
				}
			}
		}
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("    return self;\n}\n\n")
}

func (c *Converter) emitMethod(sb *strings.Builder, cls *ast.ClassDef, m *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.C, classes)
	ctx.Func, ctx.Class = m.Name, cls.Name
	params := []string{fmt.Sprintf("%s *self", cls.Name)}
	for _, p := range m.Params {
		if p.Name == "self" {
			continue
		}
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, fmt.Sprintf("%s %s", TypeName(asType(p.Annotation)), escape(p.Name)))
	}
	ret := TypeName(asType(m.ReturnType))
	sb.WriteString(fmt.Sprintf("%s %s_%s(%s) {\n", ret, cls.Name, m.Name, strings.Join(params, ", ")))
	ctx.Indent()
	for _, s := range m.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("}\n\n")
}

func (c *Converter) emitFunction(sb *strings.Builder, f *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.C, classes)
	ctx.Func = f.Name
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		decl := fmt.Sprintf("%s %s", TypeName(asType(p.Annotation)), escape(p.Name))
		if ctx.MutationOf(p.Name) == mutability.ReadOnly {
			decl = "const " + decl
		}
		params = append(params, decl)
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	ret := TypeName(asType(f.ReturnType))
	sb.WriteString(fmt.Sprintf("%s %s(%s) {\n", ret, escape(f.Name), strings.Join(params, ", ")))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("}\n\n")
}

// ---- Statements (C8) ----

func (c *Converter) emitStmt(sb *strings.Builder, s ast.Stmt, ctx *cctx.Context) {
	pad := ctx.Pad()
	switch n := s.(type) {
	case *ast.AnnAssign:
		t := asType(n.Annotation)
		ctx.DeclareLocal(nameOf(n.Target), t)
		sb.WriteString(fmt.Sprintf("%s%s %s", pad, TypeName(t), escape(nameOf(n.Target))))
		if t.Kind == types.KList {
			c.requires[runtime.Vec] = true
			sb.WriteString(fmt.Sprintf(";\n%smgen_vec_init(&%s, sizeof(%s))", pad, escape(nameOf(n.Target)), TypeName(elementOrValue(t))))
		} else if t.Kind == types.KDict {
			c.requires[runtime.Map] = true
			hash, eq := hashFnFor(t.Key)
			sb.WriteString(fmt.Sprintf(";\n%smgen_map_init(&%s, sizeof(%s), sizeof(%s), %s, %s)", pad, escape(nameOf(n.Target)), TypeName(t.Key), TypeName(t.Val), hash, eq))
		} else if t.Kind == types.KSet {
			c.requires[runtime.Set] = true
			hash, eq := hashFnFor(t.Elem)
			sb.WriteString(fmt.Sprintf(";\n%smgen_set_init(&%s, sizeof(%s), %s, %s)", pad, escape(nameOf(n.Target)), TypeName(t.Elem), hash, eq))
		} else if n.Value != nil {
			sb.WriteString(fmt.Sprintf(" = %s", c.emitExpr(n.Value, ctx)))
		}
		sb.WriteString(";\n")
	case *ast.Assign:
		if sub, ok := n.Target.(*ast.Subscript); ok {
			c.emitSubscriptAssign(sb, sub, n.Value, ctx)
			return
		}
		name := nameOf(n.Target)
		if _, declared := ctx.LookupLocal(name); declared {
			sb.WriteString(fmt.Sprintf("%s%s = %s;\n", pad, escape(name), c.emitExpr(n.Value, ctx)))
		} else {
			t := exprType(n.Value)
			ctx.DeclareLocal(name, t)
			sb.WriteString(fmt.Sprintf("%s%s %s = %s;\n", pad, TypeName(t), escape(name), c.emitExpr(n.Value, ctx)))
		}
	case *ast.AugAssign:
		sb.WriteString(fmt.Sprintf("%s%s %s= %s;\n", pad, c.emitExpr(n.Target, ctx), n.Op, c.emitExpr(n.Value, ctx)))
	case *ast.If:
		sb.WriteString(fmt.Sprintf("%sif (%s) {\n", pad, c.emitExpr(n.Cond, ctx)))
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
		sb.WriteString(fmt.Sprintf("%swhile (%s) {\n", pad, c.emitExpr(n.Cond, ctx)))
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
		sb.WriteString(pad + "(void)0;\n")
	case *ast.Break:
		sb.WriteString(pad + "break;\n")
	case *ast.Continue:
		sb.WriteString(pad + "continue;\n")
	}
}

func (c *Converter) emitSubscriptAssign(sb *strings.Builder, sub *ast.Subscript, value ast.Expr, ctx *cctx.Context) {
	pad := ctx.Pad()
	recvT, _ := sub.Value.Type().(*types.Type)
	obj := c.emitExpr(sub.Value, ctx)
	idx := c.emitExpr(sub.Index, ctx)
	val := c.emitExpr(value, ctx)
	if recvT != nil && recvT.Kind == types.KDict {
		c.requires[runtime.Map] = true
		sb.WriteString(fmt.Sprintf("%s{ %s __k = %s; %s __v = %s; mgen_map_set(&%s, &__k, &__v); }\n", pad, TypeName(recvT.Key), idx, TypeName(recvT.Val), val, obj))
		return
	}
	if recvT != nil && recvT.Kind == types.KList {
		sb.WriteString(fmt.Sprintf("%s*(%s *)mgen_vec_at(&%s, %s) = %s;\n", pad, TypeName(recvT.Elem), obj, idx, val))
		return
	}
	sb.WriteString(fmt.Sprintf("%s%s[%s] = %s;\n", pad, obj, idx, val))
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

// ---- C7 loops ----
//
// C has no native range-over/foreach for mgen_vec/mgen_map, so every
// pattern here emits an explicit indexed or bucket-walking loop; this is
// the converter where C7's patterns earn their keep the most; Go's own
// `range` already made most of them a thin wrapper.

func buildLoopTable(c *Converter) *loopconv.Table {
	return loopconv.NewTable(
		loopconv.Strategy{Pattern: loopconv.RangeIndexed, Match: loopconv.MatchRangeIndexed, Emit: c.emitRangeIndexed},
		loopconv.Strategy{Pattern: loopconv.AppendBuild, Match: loopconv.MatchAppendBuild, Emit: c.emitAppendBuild},
		loopconv.Strategy{Pattern: loopconv.Accumulation, Match: loopconv.MatchAccumulation, Emit: c.emitAccumulation},
		loopconv.Strategy{Pattern: loopconv.GeneralIteration, Match: loopconv.MatchGeneral, Emit: c.emitGeneralIteration},
	)
}

func (c *Converter) emitFor(sb *strings.Builder, f *ast.For, ctx *cctx.Context) {
	out, err := c.loops.Convert(f, ctx)
	if err != nil {
		out, _ = c.emitGeneralIteration(f, ctx)
	}
	sb.WriteString(out)
}

func (c *Converter) emitRangeIndexed(f *ast.For, ctx *cctx.Context) (string, error) {
	start, stop, step := loopconv.RangeArgs(f)
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sfor (int64_t %s = %s; %s < %s; %s += %s) {\n",
		pad, iv, c.emitExpr(start, ctx), iv, c.emitExpr(stop, ctx), iv, c.emitExpr(step, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), types.Int)
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(&sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func (c *Converter) emitAppendBuild(f *ast.For, ctx *cctx.Context) (string, error) {
	accumulator, appended, ok := loopconv.AppendBuildTarget(f)
	if !ok {
		return "", fmt.Errorf("not an append-build loop")
	}
	c.requires[runtime.Vec] = true
	iterT := elemTypeOfIter(f.Iter)
	var sb strings.Builder
	pad := ctx.Pad()
	idx := "__i_" + escape(nameOf(f.Target))
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sfor (size_t %s = 0; %s < mgen_vec_size(&%s); %s++) {\n", pad, idx, idx, c.emitExpr(f.Iter, ctx), idx))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%s%s %s = *(%s *)mgen_vec_at(&%s, %s);\n", ctx.Pad(), TypeName(iterT), iv, TypeName(iterT), c.emitExpr(f.Iter, ctx), idx))
	ctx.DeclareLocal(nameOf(f.Target), iterT)
	elemExpr := c.emitExpr(appended, ctx)
	elemT := exprType(appended)
	sb.WriteString(fmt.Sprintf("%s{ %s __e = %s; mgen_vec_push(&%s, &__e); }\n", ctx.Pad(), TypeName(elemT), elemExpr, escape(accumulator)))
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func (c *Converter) emitAccumulation(f *ast.For, ctx *cctx.Context) (string, error) {
	accumulator, op, ok := loopconv.AccumulationTarget(f)
	if !ok {
		return "", fmt.Errorf("not an accumulation loop")
	}
	iterT := elemTypeOfIter(f.Iter)
	var sb strings.Builder
	pad := ctx.Pad()
	if iterT.Kind != types.KList {
		return c.emitGeneralIteration(f, ctx)
	}
	c.requires[runtime.Vec] = true
	idx := "__i_" + escape(nameOf(f.Target))
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sfor (size_t %s = 0; %s < mgen_vec_size(&%s); %s++) {\n", pad, idx, idx, c.emitExpr(f.Iter, ctx), idx))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%s%s %s = *(%s *)mgen_vec_at(&%s, %s);\n", ctx.Pad(), TypeName(iterT), iv, TypeName(iterT), c.emitExpr(f.Iter, ctx), idx))
	ctx.DeclareLocal(nameOf(f.Target), iterT)
	aug := f.Body[0].(*ast.AugAssign)
	sb.WriteString(fmt.Sprintf("%s%s %s= %s;\n", ctx.Pad(), escape(accumulator), op, c.emitExpr(aug.Value, ctx)))
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func (c *Converter) emitGeneralIteration(f *ast.For, ctx *cctx.Context) (string, error) {
	iterT := elemTypeOfIter(f.Iter)
	var sb strings.Builder
	pad := ctx.Pad()
	if iterT.Kind == types.KList {
		c.requires[runtime.Vec] = true
		idx := "__i_" + escape(nameOf(f.Target))
		iv := escape(nameOf(f.Target))
		sb.WriteString(fmt.Sprintf("%sfor (size_t %s = 0; %s < mgen_vec_size(&%s); %s++) {\n", pad, idx, idx, c.emitExpr(f.Iter, ctx), idx))
		ctx.Indent()
		sb.WriteString(fmt.Sprintf("%s%s %s = *(%s *)mgen_vec_at(&%s, %s);\n", ctx.Pad(), TypeName(iterT), iv, TypeName(iterT), c.emitExpr(f.Iter, ctx), idx))
		ctx.DeclareLocal(nameOf(f.Target), iterT)
		for _, s := range f.Body {
			c.emitStmt(&sb, s, ctx)
		}
		ctx.Dedent()
		sb.WriteString(pad + "}\n")
		return sb.String(), nil
	}
	c.diags.Add(mgerrors.New(mgerrors.GenFailure, f.Position(),
		"iterating this container shape is not yet supported on the C target"))
	sb.WriteString(pad + "/* unsupported iteration shape */\n")
	return sb.String(), nil
}

// ---- Expressions (C8) ----

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
		return fmt.Sprintf("(%s %s %s)", c.emitExpr(n.Left, ctx), cOp(n.Op), c.emitExpr(n.Right, ctx))
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
		recvT, _ := n.Value.Type().(*types.Type)
		if recvT != nil && recvT.Kind == types.KUser {
			return fmt.Sprintf("%s->%s", c.emitExpr(n.Value, ctx), escape(n.Attr))
		}
		return fmt.Sprintf("%s.%s", c.emitExpr(n.Value, ctx), escape(n.Attr))
	case *ast.Subscript:
		return c.emitSubscriptRead(n, ctx)
	default:
		return "0 /* unsupported expression */"
	}
}

func (c *Converter) emitSubscriptRead(n *ast.Subscript, ctx *cctx.Context) string {
	recvT, _ := n.Value.Type().(*types.Type)
	obj := c.emitExpr(n.Value, ctx)
	idx := c.emitExpr(n.Index, ctx)
	if recvT != nil && recvT.Kind == types.KDict {
		c.requires[runtime.Map] = true
		return fmt.Sprintf("(*(%s *)mgen_map_get(&%s, &(%s){%s}))", TypeName(recvT.Val), obj, TypeName(recvT.Key), idx)
	}
	if recvT != nil && recvT.Kind == types.KList {
		c.requires[runtime.Vec] = true
		return fmt.Sprintf("(*(%s *)mgen_vec_at(&%s, %s))", TypeName(recvT.Elem), obj, idx)
	}
	return fmt.Sprintf("%s[%s]", obj, idx)
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
		return fmt.Sprintf("mgen_str_from_cstr(%q)", n.Str)
	default:
		return "0"
	}
}

func cOp(op string) string {
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
			parts = append(parts, c.emitContains(left, right, n.Comps[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s %s", left, op, right))
		}
		left = right
	}
	return "(" + strings.Join(parts, " && ") + ")"
}

func (c *Converter) emitContains(needle, haystack string, haystackExpr ast.Expr) string {
	t, _ := haystackExpr.Type().(*types.Type)
	if t != nil && t.Kind == types.KDict {
		c.requires[runtime.Map] = true
		return fmt.Sprintf("mgen_map_contains(&%s, &(%s){%s})", haystack, TypeName(t.Key), needle)
	}
	if t != nil && t.Kind == types.KSet {
		c.requires[runtime.Set] = true
		return fmt.Sprintf("mgen_set_contains(&%s, &(%s){%s})", haystack, TypeName(t.Elem), needle)
	}
	return fmt.Sprintf("mgen_vec_contains(&%s, %s) /* unsupported: linear scan helper not generated */", haystack, needle)
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
					"method %q is not supported for this container on the C target", attr.Attr))
				return "0 /* unsupported method */"
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
		if len(n.Args) == 1 {
			if t, ok := n.Args[0].Type().(*types.Type); ok && t.Kind == types.KStr {
				return fmt.Sprintf("(int64_t)mgen_str_len(&%s)", args[0]), true
			}
			if t, ok := n.Args[0].Type().(*types.Type); ok && t.Kind == types.KList {
				return fmt.Sprintf("(int64_t)mgen_vec_size(&%s)", args[0]), true
			}
		}
		return fmt.Sprintf("(int64_t)mgen_map_size(&%s)", args[0]), true
	case "print":
		return fmt.Sprintf("printf(\"%%s\\n\", %s)", strings.Join(args, ", ")), true
	case "abs":
		return fmt.Sprintf("(%s < 0 ? -%s : %s)", args[0], args[0], args[0]), true
	case "range":
		return "", false
	}
	if c.classes[name] {
		return fmt.Sprintf("%s_new(%s)", name, strings.Join(args, ", ")), true
	}
	return "", false
}

// ---- C6 strategy table ----

func buildStrategyTable() *strategy.Table {
	t := strategy.NewTable()

	t.Register(types.CKVec, "append", vecPush)
	t.Register(types.CKVec, "push", vecPush)
	t.Register(types.CKVec, "pop", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_vec_pop(&%s, NULL)", obj), nil
	})
	t.Register(types.CKVec, "at", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(*(%s *)mgen_vec_at(&%s, %s))", elem, obj, args[0]), nil
	})
	t.Register(types.CKVec, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(int64_t)mgen_vec_size(&%s)", obj), nil
	})
	t.Register(types.CKVec, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_vec_clear(&%s)", obj), nil
	})
	t.Register(types.CKVec, "insert", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("{ %s __e = %s; mgen_vec_insert(&%s, %s, &__e); }", elem, args[1], obj, args[0]), nil
	})
	t.Register(types.CKVec, "remove", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_vec_remove(&%s, %s, NULL)", obj, args[0]), nil
	})

	t.Register(types.CKMap, "insert", mapSet)
	t.Register(types.CKMap, "set", mapSet)
	t.Register(types.CKMap, "get", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(*(%s *)mgen_map_get(&%s, &%s))", elem, obj, args[0]), nil
	})
	t.Register(types.CKMap, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_map_contains(&%s, &%s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_map_erase(&%s, &%s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(int64_t)mgen_map_size(&%s)", obj), nil
	})
	t.Register(types.CKMap, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_map_clear(&%s)", obj), nil
	})

	t.Register(types.CKSet, "insert", setAdd)
	t.Register(types.CKSet, "add", setAdd)
	t.Register(types.CKSet, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_set_contains(&%s, &%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_set_erase(&%s, &%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "remove", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_set_erase(&%s, &%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(int64_t)mgen_set_size(&%s)", obj), nil
	})
	t.Register(types.CKSet, "union", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_set_union(&%s, &%s, &__out)", obj, args[0]), nil
	})

	t.Register(types.CKStr, "upper", unaryStrCall("mgen_str_upper"))
	t.Register(types.CKStr, "lower", unaryStrCall("mgen_str_lower"))
	t.Register(types.CKStr, "strip", unaryStrCall("mgen_str_strip"))
	t.Register(types.CKStr, "replace", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_str_replace(&%s, &%s, &%s)", obj, args[0], args[1]), nil
	})
	t.Register(types.CKStr, "find", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_str_find(&%s, &%s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "startswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_str_startswith(&%s, &%s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "endswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgen_str_endswith(&%s, &%s)", obj, args[0]), nil
	})

	return t
}

func vecPush(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("{ %s __e = %s; mgen_vec_push(&%s, &__e); }", elem, args[0], obj), nil
}

func mapSet(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("mgen_map_set(&%s, &%s, &%s)", obj, args[0], args[1]), nil
}

func setAdd(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("mgen_set_insert(&%s, &%s)", obj, args[0]), nil
}

func unaryStrCall(fn string) strategy.TranslateFunc {
	return func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s(&%s)", fn, obj), nil
	}
}
