// Package ast defines the typed abstract syntax tree for the SOURCE language
// subset accepted by MGen: annotated functions, classes without inheritance,
// lists/dicts/sets/strings, and a conventional statement/expression grammar.
package ast

import (
	"fmt"
	"strings"
)

// Pos is a location in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a range between two positions.
type Span struct {
	Start Pos
	End   Pos
}

// SemanticType is the minimal structural contract AST nodes need from a type.
// The concrete sum type lives in package types; ast never imports it, so
// types can freely walk the AST without an import cycle.
type SemanticType interface {
	String() string
}

// Node is the base interface implemented by every AST node.
type Node interface {
	String() string
	Position() Pos
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a function or module body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression; after C2 it carries a resolved SemanticType.
type Expr interface {
	Node
	exprNode()
	Type() SemanticType
	SetType(SemanticType)
}

// ExprBase is embedded by every expression node to provide the Type/SetType
// half of the Expr contract.
type ExprBase struct {
	Pos Pos
	typ SemanticType
}

func (e *ExprBase) Position() Pos          { return e.Pos }
func (e *ExprBase) Type() SemanticType     { return e.typ }
func (e *ExprBase) SetType(t SemanticType) { e.typ = t }

// Module is a parsed and validated source file: the root of the tree handed
// between pipeline phases (§3.6).
type Module struct {
	Filename string
	Decls    []Decl
}

func (m *Module) String() string {
	parts := make([]string, len(m.Decls))
	for i, d := range m.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n\n")
}
func (m *Module) Position() Pos { return Pos{File: m.Filename, Line: 1, Column: 1} }

// ---- Declarations ----

// Param is a function parameter: a name with a required type annotation.
// Mutability is filled in by C3 after analysis.
type Param struct {
	Name       string
	Annotation SemanticType
	Mutability string // set by internal/mutability; "" until analyzed
	Pos        Pos
}

// FunctionDef is a `def name(params) -> ret: body` declaration.
type FunctionDef struct {
	Name       string
	Params     []*Param
	ReturnType SemanticType
	Body       []Stmt
	IsMethod   bool   // true if declared inside a ClassDef
	ClassName  string // set when IsMethod
	Pos        Pos
}

func (f *FunctionDef) declNode() {}
func (f *FunctionDef) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name
	}
	return fmt.Sprintf("def %s(%s)", f.Name, strings.Join(params, ", "))
}
func (f *FunctionDef) Position() Pos { return f.Pos }

// Field is a typed class attribute declared in the constructor.
type Field struct {
	Name       string
	Annotation SemanticType
	Pos        Pos
}

// ClassDef is a class with a constructor and methods, no inheritance
// (multiple inheritance is rejected per §1 Non-goals).
type ClassDef struct {
	Name    string
	Fields  []*Field
	Methods []*FunctionDef
	Pos     Pos
}

func (c *ClassDef) declNode()      {}
func (c *ClassDef) String() string { return fmt.Sprintf("class %s", c.Name) }
func (c *ClassDef) Position() Pos  { return c.Pos }

// GlobalVar is a module-level annotated variable.
type GlobalVar struct {
	Name       string
	Annotation SemanticType
	Value      Expr
	Pos        Pos
}

func (g *GlobalVar) declNode()      {}
func (g *GlobalVar) String() string { return fmt.Sprintf("%s: ... = ...", g.Name) }
func (g *GlobalVar) Position() Pos  { return g.Pos }

// Import is a module import declaration.
type Import struct {
	Path string
	Pos  Pos
}

func (i *Import) declNode()      {}
func (i *Import) String() string { return fmt.Sprintf("import %s", i.Path) }
func (i *Import) Position() Pos  { return i.Pos }

// ---- Statements ----

type StmtBase struct{ Pos Pos }

func (s *StmtBase) Position() Pos { return s.Pos }
func (s *StmtBase) stmtNode()     {}

// Assign is `target = value` with no annotation.
type Assign struct {
	StmtBase
	Target Expr
	Value  Expr
}

func (a *Assign) String() string { return fmt.Sprintf("%s = %s", a.Target, a.Value) }

// AnnAssign is `target: Type = value`, introducing a fixed-type binding
// (§3.2 invariant: reassigning a different type is a type-consistency error).
type AnnAssign struct {
	StmtBase
	Target     Expr
	Annotation SemanticType
	Value      Expr
}

func (a *AnnAssign) String() string {
	return fmt.Sprintf("%s: %s = %s", a.Target, a.Annotation, a.Value)
}

// AugAssign is `target op= value`.
type AugAssign struct {
	StmtBase
	Target Expr
	Op     string
	Value  Expr
}

func (a *AugAssign) String() string { return fmt.Sprintf("%s %s= %s", a.Target, a.Op, a.Value) }

// If is a conditional with optional else branch.
type If struct {
	StmtBase
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (i *If) String() string { return fmt.Sprintf("if %s: ...", i.Cond) }

// While is a `while cond:` loop. `while True:` is recognized specially by C8.
type While struct {
	StmtBase
	Cond Expr
	Body []Stmt
}

func (w *While) String() string { return fmt.Sprintf("while %s: ...", w.Cond) }

// For is a `for target in iter:` loop, matched against C7 strategies.
type For struct {
	StmtBase
	Target Expr
	Iter   Expr
	Body   []Stmt
}

func (f *For) String() string { return fmt.Sprintf("for %s in %s: ...", f.Target, f.Iter) }

// Return is a return statement; Value is nil for bare `return`.
type Return struct {
	StmtBase
	Value Expr
}

func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value)
}

// ExprStmt wraps an expression used as a statement (e.g. a bare call).
type ExprStmt struct {
	StmtBase
	X Expr
}

func (e *ExprStmt) String() string { return e.X.String() }

// Pass, Break, Continue are no-operand statements.
type Pass struct{ StmtBase }

func (p *Pass) String() string { return "pass" }

type Break struct{ StmtBase }

func (b *Break) String() string { return "break" }

type Continue struct{ StmtBase }

func (c *Continue) String() string { return "continue" }

// ---- Expressions ----

// Name is a variable or function reference.
type Name struct {
	ExprBase
	Ident string
}

func (n *Name) exprNode()      {}
func (n *Name) String() string { return n.Ident }

// ConstKind tags the literal kind of a Constant node.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstStr
	ConstNone
)

// Constant is an integer, float, boolean, string, or None literal.
type Constant struct {
	ExprBase
	Kind  ConstKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

func (c *Constant) exprNode() {}
func (c *Constant) String() string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("%d", c.Int)
	case ConstFloat:
		return fmt.Sprintf("%g", c.Float)
	case ConstBool:
		return fmt.Sprintf("%t", c.Bool)
	case ConstStr:
		return fmt.Sprintf("%q", c.Str)
	default:
		return "None"
	}
}

// BinOp is a binary arithmetic/bitwise/string-concat expression.
type BinOp struct {
	ExprBase
	Op          string
	Left, Right Expr
}

func (b *BinOp) exprNode()      {}
func (b *BinOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// UnaryOp is a unary expression (`-x`, `not x`).
type UnaryOp struct {
	ExprBase
	Op string
	X  Expr
}

func (u *UnaryOp) exprNode()      {}
func (u *UnaryOp) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.X) }

// BoolOp is `and`/`or` over two or more operands.
type BoolOp struct {
	ExprBase
	Op     string
	Values []Expr
}

func (b *BoolOp) exprNode() {}
func (b *BoolOp) String() string {
	parts := make([]string, len(b.Values))
	for i, v := range b.Values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " "+b.Op+" ") + ")"
}

// Compare is a chained comparison (`a < b <= c`); always yields Bool (§4.2).
type Compare struct {
	ExprBase
	Left  Expr
	Ops   []string
	Comps []Expr
}

func (c *Compare) exprNode() {}
func (c *Compare) String() string {
	var sb strings.Builder
	sb.WriteString(c.Left.String())
	for i, op := range c.Ops {
		sb.WriteString(" " + op + " " + c.Comps[i].String())
	}
	return sb.String()
}

// Call is a function call or method call (`f(args)`, `recv.method(args)`).
type Call struct {
	ExprBase
	Func Expr
	Args []Expr
}

func (c *Call) exprNode() {}
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(args, ", "))
}

// Attribute is `obj.attr` (method lookup or field access).
type Attribute struct {
	ExprBase
	Value Expr
	Attr  string
}

func (a *Attribute) exprNode()      {}
func (a *Attribute) String() string { return fmt.Sprintf("%s.%s", a.Value, a.Attr) }

// Subscript is `obj[index]`.
type Subscript struct {
	ExprBase
	Value Expr
	Index Expr
}

func (s *Subscript) exprNode()      {}
func (s *Subscript) String() string { return fmt.Sprintf("%s[%s]", s.Value, s.Index) }

// List is a list literal `[e1, e2, ...]`.
type List struct {
	ExprBase
	Elts []Expr
}

func (l *List) exprNode() {}
func (l *List) String() string {
	parts := make([]string, len(l.Elts))
	for i, e := range l.Elts {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictEntry is a single key/value pair in a Dict literal.
type DictEntry struct {
	Key, Value Expr
}

// Dict is a dict literal `{k1: v1, ...}`.
type Dict struct {
	ExprBase
	Entries []DictEntry
}

func (d *Dict) exprNode() {}
func (d *Dict) String() string {
	parts := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key, e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set is a set literal `{e1, e2, ...}`.
type Set struct {
	ExprBase
	Elts []Expr
}

func (s *Set) exprNode() {}
func (s *Set) String() string {
	parts := make([]string, len(s.Elts))
	for i, e := range s.Elts {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Tuple is a tuple literal `(e1, e2, ...)`.
type Tuple struct {
	ExprBase
	Elts []Expr
}

func (t *Tuple) exprNode() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elts))
	for i, e := range t.Elts {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ListComp is `[expr for target in iter if cond]`.
type ListComp struct {
	ExprBase
	Elt    Expr
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

func (l *ListComp) exprNode() {}
func (l *ListComp) String() string {
	return fmt.Sprintf("[%s for %s in %s]", l.Elt, l.Target, l.Iter)
}

// DictComp is `{k: v for target in iter if cond}`.
type DictComp struct {
	ExprBase
	Key, Value Expr
	Target     Expr
	Iter       Expr
	Ifs        []Expr
}

func (d *DictComp) exprNode() {}
func (d *DictComp) String() string {
	return fmt.Sprintf("{%s: %s for %s in %s}", d.Key, d.Value, d.Target, d.Iter)
}

// SetComp is `{expr for target in iter if cond}`.
type SetComp struct {
	ExprBase
	Elt    Expr
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

func (s *SetComp) exprNode()      {}
func (s *SetComp) String() string { return fmt.Sprintf("{%s for %s in %s}", s.Elt, s.Target, s.Iter) }
