// Package golang implements C5's Go target converter. Go is the most
// fully fleshed-out converter in this tree: it needs no C9 runtime
// library (Go's slice/map/builtin set gives every C6 container operation
// natively), so it is the clearest place to read the full C5/C6/C7/C8
// dispatch shape before reading the runtime-backed C and llvmir
// converters. The visitor-over-typed-AST shape producing indented text
// via a buffer is grounded on the teacher's internal/pipeline converters
// (pipeline_converters.go), generalized from AILANG's Core IR to this
// domain's statement/expression AST.
package golang

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
	convert.Register(cctx.Go, func() convert.Converter { return New() })
}

// Converter is the Go target's C5 implementation.
type Converter struct {
	strat   *strategy.Table
	loops   *loopconv.Table
	diags   mgerrors.Bag
	classes map[string]bool // SOURCE class names declared in the module being converted
}

// New builds a Go converter with its strategy and loop tables populated.
func New() *Converter {
	c := &Converter{}
	c.strat = buildStrategyTable()
	c.loops = buildLoopTable(c)
	return c
}

func (c *Converter) Target() cctx.Target { return cctx.Go }
func (c *Converter) Extension() string   { return "go" }

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// escape applies the Go naming policy (§4.5): keyword collisions get a
// trailing underscore, matching the convention `gofmt`-adjacent tooling
// uses for generated code.
func escape(ident string) string {
	if goKeywords[ident] {
		return ident + "_"
	}
	return ident
}

// ConvertModule implements convert.Converter.
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
			body.WriteString(fmt.Sprintf("// import %s -- SOURCE imports have no TARGET equivalent in this subset\n", d.Path))
		case *ast.GlobalVar:
			c.emitGlobalVar(&body, d)
		case *ast.ClassDef:
			c.emitClass(&body, d, mutClasses)
		case *ast.FunctionDef:
			c.emitFunction(&body, d, mutClasses[d.Name])
		}
	}
	bodyText := body.String()

	var sb strings.Builder
	sb.WriteString("package main\n\n")
	var imports []string
	if strings.Contains(bodyText, "fmt.") {
		imports = append(imports, "\"fmt\"")
	}
	if strings.Contains(bodyText, "strings.") {
		imports = append(imports, "\"strings\"")
	}
	if len(imports) > 0 {
		sb.WriteString("import (\n")
		for _, imp := range imports {
			sb.WriteString("\t" + imp + "\n")
		}
		sb.WriteString(")\n\n")
	}
	sb.WriteString(bodyText)
	sb.WriteString("\n")
	sb.WriteString(goHelperPreamble)

	name := "module"
	if mod.Filename != "" {
		name = stem(mod.Filename)
	}
	return map[string][]byte{name + ".go": []byte(sb.String())}, c.diags.All()
}

// goHelperPreamble provides the small set of generic container/numeric
// helpers the C6/C8 emitters above reference by name (mgenMapHas,
// mgenVecPop, ...) but that Go's stdlib has no direct one-call equivalent
// for. Unused top-level functions don't trigger a compile error in Go the
// way unused imports/locals do, so this is appended unconditionally rather
// than threading a second usage-detection pass through every emitter.
const goHelperPreamble = `
type mgenOrdered interface {
	~int | ~int64 | ~float64
}

func mgenAbs[T mgenOrdered](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func mgenMin[T mgenOrdered](xs ...T) T {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func mgenMax[T mgenOrdered](xs ...T) T {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func mgenSum[T mgenOrdered](xs []T) T {
	var s T
	for _, x := range xs {
		s += x
	}
	return s
}

func mgenMapHas[K comparable, V any](m map[K]V, k K) bool {
	_, ok := m[k]
	return ok
}

func mgenSliceContains[T comparable](xs []T, v T) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func mgenMapKeys[K comparable, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func mgenMapValues[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

type mgenMapItem[K comparable, V any] struct {
	Key K
	Val V
}

func mgenMapItems[K comparable, V any](m map[K]V) []mgenMapItem[K, V] {
	out := make([]mgenMapItem[K, V], 0, len(m))
	for k, v := range m {
		out = append(out, mgenMapItem[K, V]{Key: k, Val: v})
	}
	return out
}

func mgenMapClear[K comparable, V any](m map[K]V) {
	for k := range m {
		delete(m, k)
	}
}

func mgenVecPop[T any](s *[]T) T {
	n := len(*s)
	v := (*s)[n-1]
	*s = (*s)[:n-1]
	return v
}

func mgenVecInsert[T any](s *[]T, idx int, v T) {
	var zero T
	*s = append(*s, zero)
	copy((*s)[idx+1:], (*s)[idx:])
	(*s)[idx] = v
}

func mgenVecRemove[T any](s *[]T, idx int) T {
	v := (*s)[idx]
	*s = append((*s)[:idx], (*s)[idx+1:]...)
	return v
}

func mgenSetUnion[T comparable](a, b map[T]struct{}) map[T]struct{} {
	out := make(map[T]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func mgenSetIntersection[T comparable](a, b map[T]struct{}) map[T]struct{} {
	out := make(map[T]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func mgenSetDifference[T comparable](a, b map[T]struct{}) map[T]struct{} {
	out := make(map[T]struct{})
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}
`

func stem(filename string) string {
	base := filename
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// ---- Type mapping ----

// TypeName maps a SOURCE semantic type to its Go spelling (§4.5's
// type-mapping table).
func TypeName(t *types.Type) string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case types.KInt:
		return "int64"
	case types.KFloat:
		return "float64"
	case types.KBool:
		return "bool"
	case types.KStr:
		return "string"
	case types.KVoid:
		return ""
	case types.KList:
		return "[]" + TypeName(t.Elem)
	case types.KDict:
		return fmt.Sprintf("map[%s]%s", TypeName(t.Key), TypeName(t.Val))
	case types.KSet:
		return fmt.Sprintf("map[%s]struct{}", TypeName(t.Elem))
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = TypeName(e)
		}
		return "struct{ " + joinFields(parts) + " }"
	case types.KUser:
		return "*" + t.Class
	default:
		return "any"
	}
}

func joinFields(parts []string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprintf("F%d %s", i, p)
	}
	return strings.Join(out, "; ")
}

func asType(st ast.SemanticType) *types.Type {
	if t, ok := st.(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

// ---- Declarations ----

func (c *Converter) emitGlobalVar(sb *strings.Builder, g *ast.GlobalVar) {
	ctx := cctx.New(cctx.Go, nil)
	if g.Value != nil {
		sb.WriteString(fmt.Sprintf("var %s %s = %s\n\n", escape(g.Name), TypeName(asType(g.Annotation)), c.emitExpr(g.Value, ctx)))
	} else {
		sb.WriteString(fmt.Sprintf("var %s %s\n\n", escape(g.Name), TypeName(asType(g.Annotation))))
	}
}

func (c *Converter) emitClass(sb *strings.Builder, cls *ast.ClassDef, mutClasses mutability.Result) {
	sb.WriteString(fmt.Sprintf("type %s struct {\n", cls.Name))
	for _, f := range cls.Fields {
		sb.WriteString(fmt.Sprintf("\t%s %s\n", escape(f.Name), TypeName(asType(f.Annotation))))
	}
	sb.WriteString("}\n\n")

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
		params = append(params, fmt.Sprintf("%s %s", escape(p.Name), TypeName(asType(p.Annotation))))
	}
	sb.WriteString(fmt.Sprintf("func New%s(%s) *%s {\n", cls.Name, strings.Join(params, ", "), cls.Name))
	sb.WriteString(fmt.Sprintf("\tself := &%s{}\n", cls.Name))
	ctx := cctx.New(cctx.Go, nil)
	ctx.Func = "__init__"
	ctx.Class = cls.Name
	ctx.Indent()
	for _, p := range init.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
	}
	for _, s := range init.Body {
		if ann, ok := s.(*ast.AnnAssign); ok {
			if attr, ok := ann.Target.(*ast.Attribute); ok {
				if recv, ok := attr.Value.(*ast.Name); ok && recv.Ident == "self" && ann.Value != nil {
					sb.WriteString(fmt.Sprintf("\tself.%s = %s\n", escape(attr.Attr), c.emitExpr(ann.Value, ctx)))
					continue
				}
			}
		}
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("\treturn self\n}\n\n")
}

func (c *Converter) emitMethod(sb *strings.Builder, cls *ast.ClassDef, m *ast.FunctionDef, classes map[string]mutability.Class) {
	params := make([]string, 0, len(m.Params))
	ctx := cctx.New(cctx.Go, classes)
	ctx.Func, ctx.Class = m.Name, cls.Name
	for _, p := range m.Params {
		if p.Name == "self" {
			continue
		}
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, fmt.Sprintf("%s %s", escape(p.Name), TypeName(asType(p.Annotation))))
	}
	ret := TypeName(asType(m.ReturnType))
	sig := fmt.Sprintf("func (self *%s) %s(%s)", cls.Name, exportedName(m.Name), strings.Join(params, ", "))
	if ret != "" {
		sig += " " + ret
	}
	sb.WriteString(sig + " {\n")
	ctx.Indent()
	for _, s := range m.Body {
		c.emitStmt(sb, s, ctx)
	}
	sb.WriteString("}\n\n")
}

// exportedName capitalizes the first letter of a method name so the
// generated Go method is exported.
func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (c *Converter) emitFunction(sb *strings.Builder, f *ast.FunctionDef, classes map[string]mutability.Class) {
	ctx := cctx.New(cctx.Go, classes)
	ctx.Func = f.Name
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		ctx.DeclareLocal(p.Name, asType(p.Annotation))
		params = append(params, fmt.Sprintf("%s %s", escape(p.Name), TypeName(asType(p.Annotation))))
	}
	ret := TypeName(asType(f.ReturnType))
	sig := fmt.Sprintf("func %s(%s)", escape(f.Name), strings.Join(params, ", "))
	if ret != "" {
		sig += " " + ret
	}
	sb.WriteString(sig + " {\n")
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
		if n.Value != nil {
			sb.WriteString(fmt.Sprintf("%svar %s %s = %s\n", pad, escape(nameOf(n.Target)), TypeName(t), c.emitExpr(n.Value, ctx)))
		} else {
			sb.WriteString(fmt.Sprintf("%svar %s %s\n", pad, escape(nameOf(n.Target)), TypeName(t)))
		}
	case *ast.Assign:
		if sub, ok := n.Target.(*ast.Subscript); ok {
			c.emitSubscriptAssign(sb, sub, n.Value, ctx)
			return
		}
		name := nameOf(n.Target)
		if _, declared := ctx.LookupLocal(name); declared {
			sb.WriteString(fmt.Sprintf("%s%s = %s\n", pad, escape(name), c.emitExpr(n.Value, ctx)))
		} else {
			ctx.DeclareLocal(name, exprType(n.Value, ctx))
			sb.WriteString(fmt.Sprintf("%s%s := %s\n", pad, escape(name), c.emitExpr(n.Value, ctx)))
		}
	case *ast.AugAssign:
		sb.WriteString(fmt.Sprintf("%s%s %s= %s\n", pad, c.emitExpr(n.Target, ctx), n.Op, c.emitExpr(n.Value, ctx)))
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
		sb.WriteString(fmt.Sprintf("%sfor %s {\n", pad, c.emitExpr(n.Cond, ctx)))
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
			sb.WriteString(pad + "return\n")
		} else {
			sb.WriteString(fmt.Sprintf("%sreturn %s\n", pad, c.emitExpr(n.Value, ctx)))
		}
	case *ast.ExprStmt:
		sb.WriteString(fmt.Sprintf("%s%s\n", pad, c.emitExpr(n.X, ctx)))
	case *ast.Pass:
		sb.WriteString(pad + "_ = struct{}{}\n")
	case *ast.Break:
		sb.WriteString(pad + "break\n")
	case *ast.Continue:
		sb.WriteString(pad + "continue\n")
	}
}

func (c *Converter) emitSubscriptAssign(sb *strings.Builder, sub *ast.Subscript, value ast.Expr, ctx *cctx.Context) {
	pad := ctx.Pad()
	sb.WriteString(fmt.Sprintf("%s%s[%s] = %s\n", pad, c.emitExpr(sub.Value, ctx), c.emitExpr(sub.Index, ctx), c.emitExpr(value, ctx)))
}

func nameOf(e ast.Expr) string {
	if n, ok := e.(*ast.Name); ok {
		return n.Ident
	}
	return "_"
}

// exprType recovers an expression's SemanticType, falling back to Unknown.
// Used by plain `:=` Assign emission to track the new local's type.
func exprType(e ast.Expr, ctx *cctx.Context) *types.Type {
	if t, ok := e.Type().(*types.Type); ok {
		return t
	}
	return types.Unknown()
}

// emitFor routes through C7 (loopconv), falling back to a direct Go
// range/indexed loop if no strategy claims the shape (Go's own `for` and
// `range` already cover every pattern natively, so the fallback is simple).
func (c *Converter) emitFor(sb *strings.Builder, f *ast.For, ctx *cctx.Context) {
	if out, err := c.loops.Convert(f, ctx); err == nil {
		sb.WriteString(out)
		return
	}
	pad := ctx.Pad()
	sb.WriteString(fmt.Sprintf("%sfor _, %s := range %s {\n", pad, escape(nameOf(f.Target)), c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
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

func buildLoopTable(c *Converter) *loopconv.Table {
	return loopconv.NewTable(
		loopconv.Strategy{Pattern: loopconv.RangeIndexed, Match: loopconv.MatchRangeIndexed, Emit: c.emitRangeIndexed},
		loopconv.Strategy{Pattern: loopconv.NestedBuild, Match: loopconv.MatchNestedBuild, Emit: c.emitNestedBuild},
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
	sb.WriteString(fmt.Sprintf("%sfor %s := int64(%s); %s < %s; %s += int64(%s) {\n",
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
	sb.WriteString(fmt.Sprintf("%sfor _, %s := range %s {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%s%s = append(%s, %s)\n", ctx.Pad(), escape(accumulator), escape(accumulator), c.emitExpr(appended, ctx)))
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func (c *Converter) emitNestedBuild(f *ast.For, ctx *cctx.Context) (string, error) {
	inner := loopconv.InnerFor(f)
	accumulator, appended, ok := loopconv.AppendBuildTarget(inner)
	if !ok {
		return "", fmt.Errorf("not a nested-build loop")
	}
	var sb strings.Builder
	pad := ctx.Pad()
	ov := escape(nameOf(f.Target))
	iv := escape(nameOf(inner.Target))
	sb.WriteString(fmt.Sprintf("%sfor _, %s := range %s {\n", pad, ov, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%sfor _, %s := range %s {\n", ctx.Pad(), iv, c.emitExpr(inner.Iter, ctx)))
	ctx.DeclareLocal(nameOf(inner.Target), elemTypeOfIter(inner.Iter))
	ctx.Indent()
	sb.WriteString(fmt.Sprintf("%s%s = append(%s, %s)\n", ctx.Pad(), escape(accumulator), escape(accumulator), c.emitExpr(appended, ctx)))
	ctx.Dedent()
	sb.WriteString(ctx.Pad() + "}\n")
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
	sb.WriteString(fmt.Sprintf("%sfor _, %s := range %s {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	aug := f.Body[0].(*ast.AugAssign)
	sb.WriteString(fmt.Sprintf("%s%s %s= %s\n", ctx.Pad(), escape(accumulator), op, c.emitExpr(aug.Value, ctx)))
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
	return sb.String(), nil
}

func (c *Converter) emitGeneralIteration(f *ast.For, ctx *cctx.Context) (string, error) {
	var sb strings.Builder
	pad := ctx.Pad()
	iv := escape(nameOf(f.Target))
	sb.WriteString(fmt.Sprintf("%sfor _, %s := range %s {\n", pad, iv, c.emitExpr(f.Iter, ctx)))
	ctx.DeclareLocal(nameOf(f.Target), elemTypeOfIter(f.Iter))
	ctx.Indent()
	for _, s := range f.Body {
		c.emitStmt(&sb, s, ctx)
	}
	ctx.Dedent()
	sb.WriteString(pad + "}\n")
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
		return fmt.Sprintf("(%s %s %s)", c.emitExpr(n.Left, ctx), goOp(n.Op), c.emitExpr(n.Right, ctx))
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
		return fmt.Sprintf("%s[%s]", c.emitExpr(n.Value, ctx), c.emitExpr(n.Index, ctx))
	case *ast.List:
		return c.emitListLiteral(n, ctx)
	case *ast.Dict:
		return c.emitDictLiteral(n, ctx)
	case *ast.Set:
		return c.emitSetLiteral(n, ctx)
	case *ast.Tuple:
		return c.emitTupleLiteral(n, ctx)
	case *ast.ListComp:
		return c.emitListComp(n, ctx)
	case *ast.DictComp:
		return c.emitDictComp(n, ctx)
	case *ast.SetComp:
		return c.emitSetComp(n, ctx)
	default:
		return "nil /* unsupported expression */"
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
		return fmt.Sprintf("%q", n.Str)
	default:
		return "nil"
	}
}

func goOp(op string) string {
	switch op {
	case "//":
		return "/"
	default:
		return op
	}
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

// emitContains renders `x in container` using Go's comma-ok idiom for
// maps/sets, or a linear helper for lists (Go's native containers give no
// single-expression membership test for slices).
func (c *Converter) emitContains(needle, haystack string, haystackExpr ast.Expr) string {
	t, _ := haystackExpr.Type().(*types.Type)
	if t != nil && (t.Kind == types.KDict || t.Kind == types.KSet) {
		return fmt.Sprintf("mgenMapHas(%s, %s)", haystack, needle)
	}
	return fmt.Sprintf("mgenSliceContains(%s, %s)", haystack, needle)
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
					"method %q is not supported for this container on the Go target", attr.Attr))
				return "nil /* unsupported method */"
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

func (c *Converter) emitBuiltinCall(name string, n *ast.Call, ctx *cctx.Context) (string, bool) {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.emitExpr(a, ctx)
	}
	switch name {
	case "len":
		return fmt.Sprintf("int64(len(%s))", args[0]), true
	case "print":
		return fmt.Sprintf("fmt.Println(%s)", strings.Join(args, ", ")), true
	case "abs":
		return fmt.Sprintf("mgenAbs(%s)", args[0]), true
	case "min":
		return fmt.Sprintf("mgenMin(%s)", strings.Join(args, ", ")), true
	case "max":
		return fmt.Sprintf("mgenMax(%s)", strings.Join(args, ", ")), true
	case "sum":
		return fmt.Sprintf("mgenSum(%s)", args[0]), true
	case "range":
		return "", false // handled structurally by loopconv, not as a value
	}
	if c.classes[name] {
		return fmt.Sprintf("New%s(%s)", name, strings.Join(args, ", ")), true
	}
	return "", false
}

// ---- Literals & comprehensions ----

func (c *Converter) emitListLiteral(n *ast.List, ctx *cctx.Context) string {
	t, _ := n.Type().(*types.Type)
	elemT := types.Unknown()
	if t != nil {
		elemT = t.Elem
	}
	parts := make([]string, len(n.Elts))
	for i, e := range n.Elts {
		parts[i] = c.emitExpr(e, ctx)
	}
	return fmt.Sprintf("[]%s{%s}", TypeName(elemT), strings.Join(parts, ", "))
}

func (c *Converter) emitDictLiteral(n *ast.Dict, ctx *cctx.Context) string {
	t, _ := n.Type().(*types.Type)
	kt, vt := types.Unknown(), types.Unknown()
	if t != nil {
		kt, vt = t.Key, t.Val
	}
	parts := make([]string, len(n.Entries))
	for i, ent := range n.Entries {
		parts[i] = fmt.Sprintf("%s: %s", c.emitExpr(ent.Key, ctx), c.emitExpr(ent.Value, ctx))
	}
	return fmt.Sprintf("map[%s]%s{%s}", TypeName(kt), TypeName(vt), strings.Join(parts, ", "))
}

func (c *Converter) emitSetLiteral(n *ast.Set, ctx *cctx.Context) string {
	t, _ := n.Type().(*types.Type)
	elemT := types.Unknown()
	if t != nil {
		elemT = t.Elem
	}
	parts := make([]string, len(n.Elts))
	for i, e := range n.Elts {
		parts[i] = fmt.Sprintf("%s: {}", c.emitExpr(e, ctx))
	}
	return fmt.Sprintf("map[%s]struct{}{%s}", TypeName(elemT), strings.Join(parts, ", "))
}

func (c *Converter) emitTupleLiteral(n *ast.Tuple, ctx *cctx.Context) string {
	parts := make([]string, len(n.Elts))
	types_ := make([]string, len(n.Elts))
	for i, e := range n.Elts {
		parts[i] = c.emitExpr(e, ctx)
		et, _ := e.Type().(*types.Type)
		types_[i] = TypeName(et)
	}
	return fmt.Sprintf("struct{ %s }{%s}", joinFields(types_), strings.Join(parts, ", "))
}

// emitListComp lowers `[elt for target in iter if ifs]` to an immediately
// invoked function literal building a slice -- Go has no comprehension
// syntax, so C8's comprehension dispatch always takes this IIFE form on
// this target.
func (c *Converter) emitListComp(n *ast.ListComp, ctx *cctx.Context) string {
	t, _ := n.Type().(*types.Type)
	elemT := types.Unknown()
	if t != nil {
		elemT = t.Elem
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("func() []%s {\n", TypeName(elemT)))
	sb.WriteString(fmt.Sprintf("\t\tresult := []%s{}\n", TypeName(elemT)))
	sb.WriteString(fmt.Sprintf("\t\tfor _, %s := range %s {\n", escape(nameOf(n.Target)), c.emitExpr(n.Iter, ctx)))
	ctx.DeclareLocal(nameOf(n.Target), elemTypeOfIter(n.Iter))
	body := ""
	for _, ifExpr := range n.Ifs {
		body += fmt.Sprintf("\t\t\tif !(%s) { continue }\n", c.emitExpr(ifExpr, ctx))
	}
	body += fmt.Sprintf("\t\t\tresult = append(result, %s)\n", c.emitExpr(n.Elt, ctx))
	sb.WriteString(body)
	sb.WriteString("\t\t}\n\t\treturn result\n\t}()")
	return sb.String()
}

func (c *Converter) emitDictComp(n *ast.DictComp, ctx *cctx.Context) string {
	t, _ := n.Type().(*types.Type)
	kt, vt := types.Unknown(), types.Unknown()
	if t != nil {
		kt, vt = t.Key, t.Val
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("func() map[%s]%s {\n", TypeName(kt), TypeName(vt)))
	sb.WriteString(fmt.Sprintf("\t\tresult := map[%s]%s{}\n", TypeName(kt), TypeName(vt)))
	sb.WriteString(fmt.Sprintf("\t\tfor _, %s := range %s {\n", escape(nameOf(n.Target)), c.emitExpr(n.Iter, ctx)))
	ctx.DeclareLocal(nameOf(n.Target), elemTypeOfIter(n.Iter))
	body := ""
	for _, ifExpr := range n.Ifs {
		body += fmt.Sprintf("\t\t\tif !(%s) { continue }\n", c.emitExpr(ifExpr, ctx))
	}
	body += fmt.Sprintf("\t\t\tresult[%s] = %s\n", c.emitExpr(n.Key, ctx), c.emitExpr(n.Value, ctx))
	sb.WriteString(body)
	sb.WriteString("\t\t}\n\t\treturn result\n\t}()")
	return sb.String()
}

func (c *Converter) emitSetComp(n *ast.SetComp, ctx *cctx.Context) string {
	t, _ := n.Type().(*types.Type)
	elemT := types.Unknown()
	if t != nil {
		elemT = t.Elem
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("func() map[%s]struct{} {\n", TypeName(elemT)))
	sb.WriteString(fmt.Sprintf("\t\tresult := map[%s]struct{}{}\n", TypeName(elemT)))
	sb.WriteString(fmt.Sprintf("\t\tfor _, %s := range %s {\n", escape(nameOf(n.Target)), c.emitExpr(n.Iter, ctx)))
	ctx.DeclareLocal(nameOf(n.Target), elemTypeOfIter(n.Iter))
	body := ""
	for _, ifExpr := range n.Ifs {
		body += fmt.Sprintf("\t\t\tif !(%s) { continue }\n", c.emitExpr(ifExpr, ctx))
	}
	body += fmt.Sprintf("\t\t\tresult[%s] = struct{}{}\n", c.emitExpr(n.Elt, ctx))
	sb.WriteString(body)
	sb.WriteString("\t\t}\n\t\treturn result\n\t}()")
	return sb.String()
}

// ---- C6 strategy table ----

func buildStrategyTable() *strategy.Table {
	t := strategy.NewTable()

	// Vec
	t.Register(types.CKVec, "append", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s = append(%s, %s)", obj, obj, args[0]), nil
	})
	t.Register(types.CKVec, "push", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s = append(%s, %s)", obj, obj, args[0]), nil
	})
	t.Register(types.CKVec, "pop", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenVecPop(&%s)", obj), nil
	})
	t.Register(types.CKVec, "at", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s[%s]", obj, args[0]), nil
	})
	t.Register(types.CKVec, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("int64(len(%s))", obj), nil
	})
	t.Register(types.CKVec, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s = %s[:0]", obj, obj), nil
	})
	t.Register(types.CKVec, "extend", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s = append(%s, %s...)", obj, obj, args[0]), nil
	})
	t.Register(types.CKVec, "insert", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenVecInsert(&%s, %s, %s)", obj, args[0], args[1]), nil
	})
	t.Register(types.CKVec, "remove", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenVecRemove(&%s, %s)", obj, args[0]), nil
	})

	// Map
	t.Register(types.CKMap, "insert", mapSet)
	t.Register(types.CKMap, "set", mapSet)
	t.Register(types.CKMap, "get", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s[%s]", obj, args[0]), nil
	})
	t.Register(types.CKMap, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenMapHas(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("delete(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKMap, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("int64(len(%s))", obj), nil
	})
	t.Register(types.CKMap, "keys", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenMapKeys(%s)", obj), nil
	})
	t.Register(types.CKMap, "values", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenMapValues(%s)", obj), nil
	})
	t.Register(types.CKMap, "items", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenMapItems(%s)", obj), nil
	})
	t.Register(types.CKMap, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenMapClear(%s)", obj), nil
	})

	// Set
	t.Register(types.CKSet, "insert", setAdd)
	t.Register(types.CKSet, "add", setAdd)
	t.Register(types.CKSet, "contains", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenMapHas(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "erase", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("delete(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "remove", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("delete(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "discard", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("delete(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "clear", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenMapClear(%s)", obj), nil
	})
	t.Register(types.CKSet, "size", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("int64(len(%s))", obj), nil
	})
	t.Register(types.CKSet, "union", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenSetUnion(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "intersection", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenSetIntersection(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKSet, "difference", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("mgenSetDifference(%s, %s)", obj, args[0]), nil
	})

	// Str
	t.Register(types.CKStr, "upper", unaryStrCall("strings.ToUpper"))
	t.Register(types.CKStr, "lower", unaryStrCall("strings.ToLower"))
	t.Register(types.CKStr, "strip", unaryStrCall("strings.TrimSpace"))
	t.Register(types.CKStr, "split", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("strings.Split(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "join", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("strings.Join(%s, %s)", args[0], obj), nil
	})
	t.Register(types.CKStr, "replace", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("strings.ReplaceAll(%s, %s, %s)", obj, args[0], args[1]), nil
	})
	t.Register(types.CKStr, "find", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("int64(strings.Index(%s, %s))", obj, args[0]), nil
	})
	t.Register(types.CKStr, "startswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("strings.HasPrefix(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "endswith", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("strings.HasSuffix(%s, %s)", obj, args[0]), nil
	})
	t.Register(types.CKStr, "len", func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("int64(len(%s))", obj), nil
	})

	return t
}

func mapSet(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("%s[%s] = %s", obj, args[0], args[1]), nil
}

func setAdd(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
	return fmt.Sprintf("%s[%s] = struct{}{}", obj, args[0]), nil
}

func unaryStrCall(fn string) strategy.TranslateFunc {
	return func(obj string, args []string, elem string, ctx *cctx.Context) (string, error) {
		return fmt.Sprintf("%s(%s)", fn, obj), nil
	}
}
