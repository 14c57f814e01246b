// Package haskell implements C5's Haskell target converter. Haskell is
// purely functional with no in-place mutation, so this converter is
// deliberately lighter-weight than golang/c/cpp/rust: functions and
// expressions translate directly, but a `for` loop that general-iterates
// over a mutation-heavy body has no direct Haskell expression and is
// reported via a GEN001 diagnostic rather than silently emitting
// something that wouldn't typecheck (grounded on C7's "the converter must
// fail clearly, not emit broken code" rule, carried over from C's own
// GeneralIteration fallback in internal/convert/c).
package haskell

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
	convert.Register(cctx.Haskell, func() convert.Converter { return New() })
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

func (c *Converter) Target() cctx.Target { return cctx.Haskell }
func (c *Converter) Extension() string   { return "hs" }

func (c *Converter) ConvertModule(mod *ast.Module, mutClasses mutability.Result) (map[string][]byte, []*mgerrors.Diagnostic) {
	var sb strings.Builder
	sb.WriteString("module Main where\n\n")
	sb.WriteString("import qualified Data.Map as Map\n")
	sb.WriteString("import qualified Data.Set as Set\n")
	sb.WriteString("import Data.List (intercalate, isPrefixOf, isSuffixOf, dropWhileEnd)\n")
	sb.WriteString("import Data.List.Split (splitOn)\n")
	sb.WriteString("import Data.Char (toUpper, toLower, isSpace)\n\n")

	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.Import:
			sb.WriteString(fmt.Sprintf("-- import %s -- SOURCE imports have no TARGET equivalent in this subset\n", d.Path))
		case *ast.GlobalVar:
			c.emitGlobalVar(&sb, d)
		case *ast.ClassDef:
			c.emitClass(&sb, d, mutClasses)
		case *ast.FunctionDef:
			c.emitFunction(&sb, d, mutClasses[d.Name])
		}
	}
	return map[string][]byte{"Module.hs": []byte(sb.String())}, c.diags.All()
}

func TypeName(t *types.Type) string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case types.KInt:
		return "Int"
	case types.KFloat:
		return "Double"
	case types.KBool:
		return "Bool"
	case types.KStr:
		return "String"
	case types.KVoid:
		return "()"
	case types.KList:
		return "[" + TypeName(t.Elem) + "]"
	case types.KDict:
		return fmt.Sprintf("Map.Map %s %s", parenIfSpace(TypeName(t.Key)), parenIfSpace(TypeName(t.Val)))
	case types.KSet:
		return fmt.Sprintf("Set.Set %s", parenIfSpace(TypeName(t.Elem)))
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

func parenIfSpace(s string) string {
	if strings.Contains(s, " ") {
		return "(" + s + ")"
	}
	return s
}

func asType(st ast.SemanticType) *types.Type {
	if t, ok := st.(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

func (c *Converter) emitGlobalVar(sb *strings.Builder, g *ast.GlobalVar) {
	ctx := cctx.New(cctx.Haskell, nil)
	if g.Value != nil {
		sb.WriteString(fmt.Sprintf("%s :: %s\n%s = %s\n\n", g.Name, TypeName(asType(g.Annotation)), g.Name, c.emitExpr(g.Value, ctx)))
	}
}

// emitClass renders a class as a record type plus free functions taking
// the record as an explicit first argument (Haskell has no receiver
// methods); a constructor is simply the auto-generated record constructor,
// taking the fields in the order __init__ assigns them. __init__ itself is
// always skipped: its body is not translated and no diagnostic is raised,
// even when it does more than copy its arguments into fields.
func (c *Converter) emitClass(sb *strings.Builder, cls *ast.ClassDef, mutClasses mutability.Result) {
	sb.WriteString(fmt.Sprintf("data %s = %s\n", cls.Name, cls.Name))
	fields := make([]string, len(cls.Fields))
	for i, f := range cls.Fields {
		fields[i] = fmt.Sprintf("%s_%s :: %s", strings.ToLower(cls.Name), f.Name, TypeName(asType(f.Annotation)))
	}
	sb.WriteString("  { " + strings.Join(fields, "\n  , ") + "\n  }\n\n")

	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			continue
		}
		c.emitMethod(sb, cls, m, mutClasses[cls.Name+"."+m.Name])
	}
}

func (c *Converter) emitMethod(sb *strings.Builder, cls *ast.ClassDef, m *ast.FunctionDef, classes map[string]mutability.Class) {
	if mutatesSelf(m) {
		c.diags.Add(mgerrors.New(mgerrors.GenUnsupportedMethod, m.Position(),
			"method %q mutates fields of %q; pure Haskell record update for in-place mutation is not modeled by this converter", m.Name, cls.Name))
		sb.WriteString(fmt.Sprintf("-- %s.%s skipped: mutates self, not representable as a pure function by this converter\n\n", cls.Name, m.Name))
		return
	}
	ctx := cctx.New(cctx.Haskell, classes)
	ctx.Func, ctx.Class = m.Name, cls.Name
	params := []string{cls.Name}
	paramNames := []string{"self"}
	for _, p := range m.Params {
		if p.Name == "self" {
			continue
		}
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, TypeName(asType(p.Annotation)))
		paramNames = append(paramNames, escape(p.Name))
	}
	ret := TypeName(asType(m.ReturnType))
	fname := strings.ToLower(cls.Name) + "_" + m.Name
	sb.WriteString(fmt.Sprintf("%s :: %s -> %s\n", fname, strings.Join(params, " -> "), ret))
	sb.WriteString(fmt.Sprintf("%s %s =\n", fname, strings.Join(paramNames, " ")))
	sb.WriteString(c.emitBodyAsExpr(m.Body, ctx, 2))
	sb.WriteString("\n\n")
}

func (c *Converter) emitFunction(sb *strings.Builder, f *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.Haskell, classes)
	ctx.Func = f.Name
	paramTypes := make([]string, 0, len(f.Params))
	paramNames := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		paramTypes = append(paramTypes, TypeName(asType(p.Annotation)))
		paramNames = append(paramNames, escape(p.Name))
	}
	ret := TypeName(asType(f.ReturnType))
	sig := escape(f.Name) + " :: "
	if len(paramTypes) == 0 {
		sig += ret
	} else {
		sig += strings.Join(paramTypes, " -> ") + " -> " + ret
	}
	sb.WriteString(sig + "\n")
	sb.WriteString(fmt.Sprintf("%s %s =\n", escape(f.Name), strings.Join(paramNames, " ")))
	sb.WriteString(c.emitBodyAsExpr(f.Body, ctx, 2))
	sb.WriteString("\n\n")
}

// mutatesSelf reports whether any statement assigns to a `self.field`
// attribute -- the one shape this converter refuses to translate.
func mutatesSelf(f *ast.FunctionDef) bool {
	found := false
	var visit func(s ast.Stmt)
	visit = func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.Assign:
			if isSelfAttr(n.Target) {
				found = true
			}
		case *ast.AnnAssign:
			if isSelfAttr(n.Target) {
				found = true
			}
		case *ast.AugAssign:
			if isSelfAttr(n.Target) {
				found = true
			}
		case *ast.If:
			for _, st := range n.Then {
				visit(st)
			}
			for _, st := range n.Else {
				visit(st)
			}
		case *ast.While:
			for _, st := range n.Body {
				visit(st)
			}
		case *ast.For:
			for _, st := range n.Body {
				visit(st)
			}
		}
	}
	for _, s := range f.Body {
		visit(s)
	}
	return found
}

func isSelfAttr(e ast.Expr) bool {
	attr, ok := e.(*ast.Attribute)
	if !ok {
		return false
	}
	name, ok := attr.Value.(*ast.Name)
	return ok && name.Ident == "self"
}

// emitBodyAsExpr lowers a statement list to a single Haskell expression.
// The common `init; for ...: accumulate; return acc` shape (§4.7's
// Accumulation/AppendBuild patterns) is recognized first and rendered via
// C7's fold/map strategies; otherwise a lone `Return` becomes the tail
// expression, an `If` with both branches ending in Return becomes an
// if/then/else expression, and anything else (While, bare mutation) is
// reported and rendered as an `error` call.
func (c *Converter) emitBodyAsExpr(body []ast.Stmt, ctx *cctx.Context, indent int) string {
	pad := strings.Repeat(" ", indent)
	if len(body) == 0 {
		return pad + "()"
	}
	if out, ok := c.emitInitForReturn(body, ctx, pad); ok {
		return out
	}
	last := body[len(body)-1]
	switch n := last.(type) {
	case *ast.Return:
		if n.Value == nil {
			return pad + "()"
		}
		return pad + c.emitExpr(n.Value, ctx)
	case *ast.If:
		if retThen, ok := tailReturn(n.Then); ok {
			if retElse, ok2 := tailReturn(n.Else); ok2 {
				return fmt.Sprintf("%sif %s\n%sthen %s\n%selse %s",
					pad, c.emitExpr(n.Cond, ctx), pad, c.emitExpr(retThen, ctx), pad, c.emitExpr(retElse, ctx))
			}
		}
	}
	c.diags.Add(mgerrors.New(mgerrors.GenUnsupportedMethod, last.Position(),
		"statement shape cannot be expressed as a pure Haskell expression by this converter"))
	return pad + "error \"unsupported control flow for this target\""
}

// emitInitForReturn recognizes `<init acc>; for ...: <accumulate acc>;
// return acc` -- the shape mutation-style SOURCE code uses to build a
// value via a loop -- and renders it as a `let acc = <fold/map> in acc`
// expression using C7's Accumulation/AppendBuild strategies, rather than
// falling through to the general "unsupported control flow" error.
func (c *Converter) emitInitForReturn(body []ast.Stmt, ctx *cctx.Context, pad string) (string, bool) {
	if len(body) < 3 {
		return "", false
	}
	forStmt, ok := body[len(body)-2].(*ast.For)
	if !ok {
		return "", false
	}
	ret, ok := body[len(body)-1].(*ast.Return)
	if !ok || ret.Value == nil {
		return "", false
	}
	retName, ok := ret.Value.(*ast.Name)
	if !ok {
		return "", false
	}
	var initExpr ast.Expr
	switch init := body[len(body)-3].(type) {
	case *ast.AnnAssign:
		if nameOf(init.Target) == retName.Ident {
			initExpr = init.Value
		}
	case *ast.Assign:
		if nameOf(init.Target) == retName.Ident {
			initExpr = init.Value
		}
	}
	if initExpr == nil {
		return "", false
	}
	out, err := c.loops.Convert(forStmt, ctx)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%slet %s = %s in %s", pad, escape(retName.Ident), c.emitExpr(initExpr, ctx), out), true
}

func tailReturn(body []ast.Stmt) (ast.Expr, bool) {
	if len(body) == 0 {
		return nil, false
	}
	r, ok := body[len(body)-1].(*ast.Return)
	if !ok || r.Value == nil {
		return nil, false
	}
	return r.Value, true
}

var haskellKeywords = map[string]bool{
	"data": true, "type": true, "class": true, "instance": true,
	"where": true, "let": true, "in": true, "do": true, "case": true, "of": true, "module": true,
}

func escape(ident string) string {
	if haskellKeywords[ident] {
		return ident + "_"
	}
	return ident
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

func buildLoopTable(c *Converter) *loopconv.Table {
	return loopconv.NewTable(
		loopconv.Strategy{Pattern: loopconv.AppendBuild, Match: loopconv.MatchAppendBuild, Emit: c.emitAppendBuild},
		loopconv.Strategy{Pattern: loopconv.Accumulation, Match: loopconv.MatchAccumulation, Emit: c.emitAccumulation},
		loopconv.Strategy{Pattern: loopconv.GeneralIteration, Match: loopconv.MatchGeneral, Emit: c.emitGeneralIteration},
	)
}

// emitAppendBuild lowers an append-build for loop to `map`.
func (c *Converter) emitAppendBuild(f *ast.For, ctx *cctx.Context) (string, error) {
	_, appended, ok := loopconv.AppendBuildTarget(f)
	if !ok {
		return "", fmt.Errorf("not an append-build loop")
	}
	ctx.DeclareLocal(nameOf(f.Target), elementOrValue(typeOf(f.Iter)))
	return fmt.Sprintf("map (\\%s -> %s) %s", escape(nameOf(f.Target)), c.emitExpr(appended, ctx), c.emitExpr(f.Iter, ctx)), nil
}

// emitAccumulation lowers a reduction for loop to `foldl`.
func (c *Converter) emitAccumulation(f *ast.For, ctx *cctx.Context) (string, error) {
	accumulator, op, ok := loopconv.AccumulationTarget(f)
	if !ok {
		return "", fmt.Errorf("not an accumulation loop")
	}
	ctx.DeclareLocal(nameOf(f.Target), elementOrValue(typeOf(f.Iter)))
	aug := f.Body[0].(*ast.AugAssign)
	return fmt.Sprintf("foldl (\\%s %s -> %s %s %s) %s %s",
		escape(accumulator), escape(nameOf(f.Target)), escape(accumulator), op, c.emitExpr(aug.Value, ctx),
		escape(accumulator), c.emitExpr(f.Iter, ctx)), nil
}

func (c *Converter) emitGeneralIteration(f *ast.For, ctx *cctx.Context) (string, error) {
	c.diags.Add(mgerrors.New(mgerrors.GenUnsupportedMethod, f.Position(),
		"general-iteration for loop has no direct pure-functional form; express it as an explicit fold in SOURCE"))
	return "error \"unsupported general iteration for this target\"", nil
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
		return fmt.Sprintf("(%s %s %s)", c.emitExpr(n.Left, ctx), haskellOp(n.Op), c.emitExpr(n.Right, ctx))
	case *ast.UnaryOp:
		if n.Op == "not" {
			return fmt.Sprintf("(not %s)", c.emitExpr(n.X, ctx))
		}
		return fmt.Sprintf("(negate %s)", c.emitExpr(n.X, ctx))
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
		if recv, ok := n.Value.(*ast.Name); ok {
			if t, ok2 := recv.Type().(*types.Type); ok2 && t.Kind == types.KUser {
				return fmt.Sprintf("(%s_%s %s)", strings.ToLower(t.Class), n.Attr, c.emitExpr(n.Value, ctx))
			}
		}
		return fmt.Sprintf("(%s %s)", n.Attr, c.emitExpr(n.Value, ctx))
	case *ast.Subscript:
		recvT := typeOf(n.Value)
		if recvT.Kind == types.KDict {
			return fmt.Sprintf("(Map.findWithDefault (error \"key not found\") %s %s)", c.emitExpr(n.Index, ctx), c.emitExpr(n.Value, ctx))
		}
		return fmt.Sprintf("(%s !! (fromIntegral %s))", c.emitExpr(n.Value, ctx), c.emitExpr(n.Index, ctx))
	case *ast.List:
		parts := make([]string, len(n.Elts))
		for i, el := range n.Elts {
			parts[i] = c.emitExpr(el, ctx)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.Set:
		parts := make([]string, len(n.Elts))
		for i, el := range n.Elts {
			parts[i] = c.emitExpr(el, ctx)
		}
		return "(Set.fromList [" + strings.Join(parts, ", ") + "])"
	case *ast.Dict:
		parts := make([]string, len(n.Entries))
		for i, en := range n.Entries {
			parts[i] = fmt.Sprintf("(%s, %s)", c.emitExpr(en.Key, ctx), c.emitExpr(en.Value, ctx))
		}
		return "(Map.fromList [" + strings.Join(parts, ", ") + "])"
	case *ast.Tuple:
		parts := make([]string, len(n.Elts))
		for i, el := range n.Elts {
			parts[i] = c.emitExpr(el, ctx)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "(error \"unsupported expression for this target\")"
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
			return "True"
		}
		return "False"
	case ast.ConstStr:
		return fmt.Sprintf("%q", n.Str)
	default:
		return "()"
	}
}

func haskellOp(op string) string {
	switch op {
	case "//":
		return "`div`"
	case "%":
		return "`mod`"
	default:
		return op
	}
}

func (c *Converter) emitCompare(n *ast.Compare, ctx *cctx.Context) string {
	parts := make([]string, 0, len(n.Ops))
	left := c.emitExpr(n.Left, ctx)
	for i, op := range n.Ops {
		right := c.emitExpr(n.Comps[i], ctx)
		switch op {
		case "in":
			parts = append(parts, fmt.Sprintf("(%s `elem` %s)", left, right))
		case "==":
			parts = append(parts, fmt.Sprintf("(%s == %s)", left, right))
		case "!=":
			parts = append(parts, fmt.Sprintf("(%s /= %s)", left, right))
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
					"method %q is not supported for this container on the Haskell target", attr.Attr))
				return "(error \"unsupported method\")"
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
		return fmt.Sprintf("(fromIntegral (length %s))", args[0]), true
	case "print":
		return fmt.Sprintf("(putStrLn (show %s))", strings.Join(args, " ")), true
	case "abs":
		return fmt.Sprintf("(abs %s)", args[0]), true
	case "sum":
		return fmt.Sprintf("(sum %s)", args[0]), true
	case "min":
		return fmt.Sprintf("(minimum [%s])", strings.Join(args, ", ")), true
	case "max":
		return fmt.Sprintf("(maximum [%s])", strings.Join(args, ", ")), true
	}
	return "", false
}

func buildStrategyTable() *strategy.Table {
	t := strategy.NewTable()

	t.Register(types.CKVec, "append", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s ++ [%s])", obj, args[0]), nil
	})
	t.Register(types.CKVec, "at", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s !! (fromIntegral %s))", obj, args[0]), nil
	})
	t.Register(types.CKVec, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(fromIntegral (length %s))", obj), nil
	})

	t.Register(types.CKMap, "insert", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Map.insert %s %s %s)", args[0], args[1], obj), nil
	})
	t.Register(types.CKMap, "set", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Map.insert %s %s %s)", args[0], args[1], obj), nil
	})
	t.Register(types.CKMap, "get", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Map.findWithDefault (error \"key not found\") %s %s)", args[0], obj), nil
	})
	t.Register(types.CKMap, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Map.member %s %s)", args[0], obj), nil
	})
	t.Register(types.CKMap, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Map.delete %s %s)", args[0], obj), nil
	})
	t.Register(types.CKMap, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(fromIntegral (Map.size %s))", obj), nil
	})
	t.Register(types.CKMap, "keys", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Map.keys %s)", obj), nil
	})
	t.Register(types.CKMap, "values", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Map.elems %s)", obj), nil
	})

	t.Register(types.CKSet, "insert", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Set.insert %s %s)", args[0], obj), nil
	})
	t.Register(types.CKSet, "add", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Set.insert %s %s)", args[0], obj), nil
	})
	t.Register(types.CKSet, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Set.member %s %s)", args[0], obj), nil
	})
	t.Register(types.CKSet, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Set.delete %s %s)", args[0], obj), nil
	})
	t.Register(types.CKSet, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(fromIntegral (Set.size %s))", obj), nil
	})
	t.Register(types.CKSet, "union", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Set.union %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "intersection", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Set.intersection %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "difference", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(Set.difference %s %s)", obj, args[0]), nil
	})

	t.Register(types.CKStr, "upper", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(map toUpper %s)", obj), nil
	})
	t.Register(types.CKStr, "lower", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(map toLower %s)", obj), nil
	})
	t.Register(types.CKStr, "strip", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(dropWhileEnd isSpace (dropWhile isSpace %s))", obj), nil
	})
	t.Register(types.CKStr, "split", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(splitOn %s %s)", args[0], obj), nil
	})
	t.Register(types.CKStr, "join", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(intercalate %s %s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "startswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s `isPrefixOf` %s)", args[0], obj), nil
	})
	t.Register(types.CKStr, "endswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("(%s `isSuffixOf` %s)", args[0], obj), nil
	})

	return t
}
