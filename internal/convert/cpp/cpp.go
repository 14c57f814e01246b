// Package cpp implements C5's C++ target converter. Like golang, C++'s
// stdlib (std::vector/unordered_map/unordered_set/string) covers every C6
// container operation natively, so this converter needs no C9 runtime
// files -- it differs from golang.go mainly in syntax (explicit types, `->`
// for pointer members, `auto` for locals) and in using RAII rather than an
// explicit drop.
package cpp

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
	convert.Register(cctx.CPP, func() convert.Converter { return New() })
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

func (c *Converter) Target() cctx.Target { return cctx.CPP }
func (c *Converter) Extension() string   { return "cpp" }

var cppKeywords = map[string]bool{
	"class": true, "new": true, "delete": true, "template": true, "namespace": true,
	"this": true, "public": true, "private": true, "protected": true, "friend": true,
}

func escape(ident string) string {
	if cppKeywords[ident] {
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

	var sb strings.Builder
	sb.WriteString("#include <vector>\n#include <unordered_map>\n#include <unordered_set>\n#include <string>\n#include <algorithm>\n#include <iostream>\n\n")

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
	return map[string][]byte{"module.cpp": []byte(sb.String())}, c.diags.All()
}

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
		return "std::string"
	case types.KVoid:
		return "void"
	case types.KList:
		return fmt.Sprintf("std::vector<%s>", TypeName(t.Elem))
	case types.KDict:
		return fmt.Sprintf("std::unordered_map<%s, %s>", TypeName(t.Key), TypeName(t.Val))
	case types.KSet:
		return fmt.Sprintf("std::unordered_set<%s>", TypeName(t.Elem))
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = TypeName(e)
		}
		return fmt.Sprintf("std::tuple<%s>", strings.Join(parts, ", "))
	case types.KUser:
		return t.Class + " *"
	default:
		return "auto"
	}
}

func asType(st ast.SemanticType) *types.Type {
	if t, ok := st.(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

func (c *Converter) emitGlobalVar(sb *strings.Builder, g *ast.GlobalVar) {
	ctx := cctx.New(cctx.CPP, nil)
	if g.Value != nil {
		sb.WriteString(fmt.Sprintf("%s %s = %s;\n", TypeName(asType(g.Annotation)), escape(g.Name), c.emitExpr(g.Value, ctx)))
	} else {
		sb.WriteString(fmt.Sprintf("%s %s;\n", TypeName(asType(g.Annotation)), escape(g.Name)))
	}
}

func (c *Converter) emitClass(sb *strings.Builder, cls *ast.ClassDef, mutClasses mutability.Result) {
	sb.WriteString(fmt.Sprintf("class %s {\npublic:\n", cls.Name))
	for _, f := range cls.Fields {
		sb.WriteString(fmt.Sprintf("    %s %s;\n", TypeName(asType(f.Annotation)), escape(f.Name)))
	}
	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			c.emitConstructor(sb, cls, m)
			continue
		}
		c.emitMethod(sb, cls, m, mutClasses[cls.Name+"."+m.Name])
	}
	sb.WriteString("};\n\n")
}

func (c *Converter) emitConstructor(sb *strings.Builder, cls *ast.ClassDef, init *ast.FunctionDef) {
	params := make([]string, 0, len(init.Params))
	for _, p := range init.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", TypeName(asType(p.Annotation)), escape(p.Name)))
	}
	sb.WriteString(fmt.Sprintf("    %s(%s) {\n", cls.Name, strings.Join(params, ", ")))
	ctx := cctx.New(cctx.CPP, nil)
	ctx.Func, ctx.Class = "__init__", cls.Name
	ctx.Indent()
	ctx.Indent()
	for _, p := range init.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
	}
	for _, s := range init.Body {
		if ann, ok := s.(*ast.AnnAssign); ok {
			if attr, ok := ann.Target.(*ast.Attribute); ok {
				if recv, ok := attr.Value.(*ast.Name); ok && recv.Ident == "self" && ann.Value != nil {
					sb.WriteString(fmt.Sprintf("        this->%s = %s;\n", escape(attr.Attr), c.emitExpr(ann.Value, ctx)))
					continue
				}
			}
		}
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("    }\n\n")
}

func (c *Converter) emitMethod(sb *strings.Builder, cls *ast.ClassDef, m *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.CPP, classes)
	ctx.Func, ctx.Class = m.Name, cls.Name
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		if p.Name == "self" {
			continue
		}
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, fmt.Sprintf("%s %s", TypeName(asType(p.Annotation)), escape(p.Name)))
	}
	ret := TypeName(asType(m.ReturnType))
	sb.WriteString(fmt.Sprintf("    %s %s(%s) {\n", ret, m.Name, strings.Join(params, ", ")))
	ctx.Indent()
	ctx.Indent()
	for _, s := range m.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("    }\n\n")
}

func (c *Converter) emitFunction(sb *strings.Builder, f *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.CPP, classes)
	ctx.Func = f.Name
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		decl := fmt.Sprintf("%s %s", TypeName(asType(p.Annotation)), escape(p.Name))
		if ctx.MutationOf(p.Name) == mutability.ReadOnly {
			decl = "const " + decl + "&"
		}
		params = append(params, decl)
	}
	ret := TypeName(asType(f.ReturnType))
	sb.WriteString(fmt.Sprintf("%s %s(%s) {\n", ret, escape(f.Name), strings.Join(params, ", ")))
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
			sb.WriteString(fmt.Sprintf("%s%s %s = %s;\n", pad, TypeName(t), escape(nameOf(n.Target)), c.emitExpr(n.Value, ctx)))
		} else {
			sb.WriteString(fmt.Sprintf("%s%s %s{};\n", pad, TypeName(t), escape(nameOf(n.Target))))
		}
	case *ast.Assign:
		if sub, ok := n.Target.(*ast.Subscript); ok {
			sb.WriteString(fmt.Sprintf("%s%s[%s] = %s;\n", pad, c.emitExpr(sub.Value, ctx), c.emitExpr(sub.Index, ctx), c.emitExpr(n.Value, ctx)))
			return
		}
		name := nameOf(n.Target)
		if _, declared := ctx.LookupLocal(name); declared {
			sb.WriteString(fmt.Sprintf("%s%s = %s;\n", pad, escape(name), c.emitExpr(n.Value, ctx)))
		} else {
			t := exprType(n.Value)
			ctx.DeclareLocal(name, t)
			sb.WriteString(fmt.Sprintf("%sauto %s = %s;\n", pad, escape(name), c.emitExpr(n.Value, ctx)))
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
	sb.WriteString(fmt.Sprintf("%sfor (auto& %s : %s) {\n", pad, escape(nameOf(f.Target)), c.emitExpr(f.Iter, ctx)))
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
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sfor (auto& %s : %s) {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%s%s.push_back(%s);\n", ctx.Pad(), escape(accumulator), c.emitExpr(appended, ctx)))
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
	sb.WriteString(fmt.Sprintf("%sfor (auto& %s : %s) {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
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
	sb.WriteString(fmt.Sprintf("%sfor (auto& %s : %s) {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
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
			return "this"
		}
		return escape(n.Ident)
	case *ast.Constant:
		return emitConstant(n)
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", c.emitExpr(n.Left, ctx), cppOp(n.Op), c.emitExpr(n.Right, ctx))
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
		return fmt.Sprintf("%s[%s]", c.emitExpr(n.Value, ctx), c.emitExpr(n.Index, ctx))
	case *ast.List:
		parts := make([]string, len(n.Elts))
		for i, el := range n.Elts {
			parts[i] = c.emitExpr(el, ctx)
		}
		t, _ := n.Type().(*types.Type)
		return fmt.Sprintf("%s{%s}", TypeName(t), strings.Join(parts, ", "))
	case *ast.Dict:
		parts := make([]string, len(n.Entries))
		for i, ent := range n.Entries {
			parts[i] = fmt.Sprintf("{%s, %s}", c.emitExpr(ent.Key, ctx), c.emitExpr(ent.Value, ctx))
		}
		t, _ := n.Type().(*types.Type)
		return fmt.Sprintf("%s{%s}", TypeName(t), strings.Join(parts, ", "))
	case *ast.Set:
		parts := make([]string, len(n.Elts))
		for i, el := range n.Elts {
			parts[i] = c.emitExpr(el, ctx)
		}
		t, _ := n.Type().(*types.Type)
		return fmt.Sprintf("%s{%s}", TypeName(t), strings.Join(parts, ", "))
	default:
		return "0 /* unsupported expression */"
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
		return fmt.Sprintf("std::string(%q)", n.Str)
	default:
		return "0"
	}
}

func cppOp(op string) string {
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
			parts = append(parts, fmt.Sprintf("(%s.count(%s) > 0)", right, left))
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
					"method %q is not supported for this container on the C++ target", attr.Attr))
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
		return fmt.Sprintf("(int64_t)%s.size()", args[0]), true
	case "print":
		return fmt.Sprintf("std::cout << %s << std::endl", strings.Join(args, " << ")), true
	case "abs":
		return fmt.Sprintf("std::abs(%s)", args[0]), true
	case "min":
		return fmt.Sprintf("std::min({%s})", strings.Join(args, ", ")), true
	case "max":
		return fmt.Sprintf("std::max({%s})", strings.Join(args, ", ")), true
	case "range":
		return "", false
	}
	if c.classes[name] {
		return fmt.Sprintf("new %s(%s)", name, strings.Join(args, ", ")), true
	}
	return "", false
}

func buildStrategyTable() *strategy.Table {
	t := strategy.NewTable()

	t.Register(types.CKVec, "append", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.push_back(%s)", obj, args[0]), nil
	})
	t.Register(types.CKVec, "push", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.push_back(%s)", obj, args[0]), nil
	})
	t.Register(types.CKVec, "pop", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.pop_back()", obj), nil
	})
	t.Register(types.CKVec, "at", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.at(%s)", obj, args[0]), nil
	})
	t.Register(types.CKVec, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(int64_t)%s.size()", obj), nil
	})
	t.Register(types.CKVec, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.clear()", obj), nil
	})
	t.Register(types.CKVec, "insert", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.insert(%s.begin() + %s, %s)", obj, obj, args[0], args[1]), nil
	})

	t.Register(types.CKMap, "insert", mapSet)
	t.Register(types.CKMap, "set", mapSet)
	t.Register(types.CKMap, "get", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.at(%s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s.count(%s) > 0)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.erase(%s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(int64_t)%s.size()", obj), nil
	})
	t.Register(types.CKMap, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.clear()", obj), nil
	})

	t.Register(types.CKSet, "insert", setAdd)
	t.Register(types.CKSet, "add", setAdd)
	t.Register(types.CKSet, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s.count(%s) > 0)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.erase(%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "remove", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s.erase(%s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(int64_t)%s.size()", obj), nil
	})

	t.Register(types.CKStr, "upper", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("[](std::string s){ std::transform(s.begin(), s.end(), s.begin(), ::toupper); return s; }(%s)", obj), nil
	})
	t.Register(types.CKStr, "lower", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("[](std::string s){ std::transform(s.begin(), s.end(), s.begin(), ::tolower); return s; }(%s)", obj), nil
	})
	t.Register(types.CKStr, "find", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(int64_t)%s.find(%s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "startswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s.rfind(%s, 0) == 0)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "replace", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("[](std::string s, const std::string& a, const std::string& b){ size_t p = s.find(a); if (p != std::string::npos) s.replace(p, a.size(), b); return s; }(%s, %s, %s)", obj, args[0], args[1]), nil
	})

	return t
}

func mapSet(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("%s[%s] = %s", obj, args[0], args[1]), nil
}

func setAdd(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("%s.insert(%s)", obj, args[0]), nil
}
