// Package cctx holds the per-conversion Context shared by C5 (converters),
// C6 (container strategies), and C7 (loop strategies), so none of those
// packages need to import each other directly (§4.5's "small context
// stack tracking the enclosing function's locals").
package cctx

import (
	"fmt"
	"strings"

	"github.com/shakfu/mgen-sub001/internal/mutability"
	"github.com/shakfu/mgen-sub001/internal/types"
)

// Target names one of the seven TARGET languages (§6.1).
type Target string

const (
	C       Target = "c"
	CPP     Target = "cpp"
	Rust    Target = "rust"
	Go      Target = "go"
	Haskell Target = "haskell"
	OCaml   Target = "ocaml"
	LLVM    Target = "llvm"
)

// Context is the converter's state machine context (§4.5): the enclosing
// function's locals and their types, the runtime-file requirement flags
// C6 strategies register, and an indent tracker for the format-writer.
type Context struct {
	Target    Target
	Func      string // current InFunction(name) or InClassMethod(class,name)
	Class     string
	Locals    map[string]*types.Type
	Mutation  map[string]mutability.Class
	Requires  map[string]bool
	indent    int
	buf       strings.Builder
}

// New creates a Context for target, seeded with fn's mutability classes.
func New(target Target, mutClasses map[string]mutability.Class) *Context {
	return &Context{
		Target:   target,
		Locals:   make(map[string]*types.Type),
		Mutation: mutClasses,
		Requires: make(map[string]bool),
	}
}

// Require flags that the named runtime component (e.g. "vec_int",
// "map_str_int") must be copied alongside the generated source (§4.6,
// §6.3: "runtime files copied verbatim alongside").
func (c *Context) Require(name string) { c.Requires[name] = true }

// DeclareLocal records a local binding's type for later lookups by C8.
func (c *Context) DeclareLocal(name string, t *types.Type) { c.Locals[name] = t }

// LookupLocal returns a previously declared local's type.
func (c *Context) LookupLocal(name string) (*types.Type, bool) {
	t, ok := c.Locals[name]
	return t, ok
}

// MutationOf returns the mutability class previously computed by C3 for a
// parameter of the function currently being converted.
func (c *Context) MutationOf(param string) mutability.Class {
	if c.Mutation == nil {
		return mutability.Unknown
	}
	return c.Mutation[param]
}

// Indent/Dedent/Pad/Writeln implement the format-writer's indentation tracking
// (§4.5: "A format-writer -- handles indentation, line breaks").
func (c *Context) Indent() { c.indent++ }
func (c *Context) Dedent() {
	if c.indent > 0 {
		c.indent--
	}
}

func (c *Context) Pad() string { return strings.Repeat("    ", c.indent) }

func (c *Context) Writeln(format string, args ...any) {
	c.buf.WriteString(c.Pad())
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteByte('\n')
}

func (c *Context) String() string { return c.buf.String() }

// ResetFunction clears per-function state between functions in the same module,
// keeping Requires (accumulated module-wide) and Target fixed.
func (c *Context) ResetFunction(name, class string, mutClasses map[string]mutability.Class) {
	c.Func = name
	c.Class = class
	c.Locals = make(map[string]*types.Type)
	c.Mutation = mutClasses
	c.indent = 0
	c.buf.Reset()
}
